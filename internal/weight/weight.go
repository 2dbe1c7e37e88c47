// Package weight turns free-text weight input into numbers and numbers back
// into display labels.
package weight

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/shopspring/decimal"
)

var (
	// ErrEmpty is returned when the input holds no digits at all.
	ErrEmpty = errors.New("weight is empty")
	// ErrInvalid is returned when the sanitised input is not a number.
	ErrInvalid = errors.New("weight is not a valid decimal number")
)

// Count pairs a plate weight with a number of plates.
type Count struct {
	Weight float64
	Count  int
}

// Sanitize strips everything but digits and decimal points. When more than one
// point remains, the first is kept and the others are dropped.
func Sanitize(raw string) string {
	var b strings.Builder
	for _, r := range raw {
		if (r >= '0' && r <= '9') || r == '.' {
			b.WriteRune(r)
		}
	}
	s := b.String()

	parts := strings.Split(s, ".")
	if len(parts) > 2 {
		return parts[0] + "." + strings.Join(parts[1:], "")
	}
	return s
}

// Parse sanitises raw and parses it as a non-negative decimal weight.
func Parse(raw string) (float64, error) {
	s := Sanitize(raw)
	if s == "" {
		return 0, ErrEmpty
	}
	if s == "." {
		return 0, ErrInvalid
	}
	if strings.HasPrefix(s, ".") {
		s = "0" + s
	}
	s = strings.TrimSuffix(s, ".")

	d, err := decimal.NewFromString(s)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalid, raw)
	}
	f, _ := d.Float64()
	if math.IsInf(f, 0) {
		return 0, fmt.Errorf("%w: %q is out of range", ErrInvalid, raw)
	}
	return f, nil
}

// Format renders w without a trailing ".0" for whole numbers.
func Format(w float64) string {
	return decimal.NewFromFloat(w).String()
}

// ParseCounts parses a comma-separated list of weight:count pairs such as
// "45:2, 25:4".
func ParseCounts(raw string) ([]Count, error) {
	parts := strings.Split(raw, ",")
	out := make([]Count, 0, len(parts))
	for _, part := range parts {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		w, c, ok := strings.Cut(part, ":")
		if !ok {
			return nil, fmt.Errorf("invalid entry %q, expected weight:count", part)
		}
		wd, err := decimal.NewFromString(strings.TrimSpace(w))
		if err != nil || !wd.IsPositive() {
			return nil, fmt.Errorf("invalid plate weight %q", w)
		}
		cd, err := decimal.NewFromString(strings.TrimSpace(c))
		if err != nil || cd.IsNegative() || !cd.Equal(cd.Truncate(0)) {
			return nil, fmt.Errorf("invalid plate count %q", c)
		}
		wf, _ := wd.Float64()
		out = append(out, Count{Weight: wf, Count: int(cd.IntPart())})
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("no plates provided")
	}
	return out, nil
}
