package calculator

import (
	"cmp"
	"slices"
)

type greedyCalculator struct{}

// New creates a Calculator that loads plates greedily, heaviest first.
func New() Calculator {
	return greedyCalculator{}
}

func (greedyCalculator) Calculate(targetWeight, barWeight float64, inventory PlateInventory, isLoadingPin bool) CalculationResult {
	return Calculate(targetWeight, barWeight, inventory, isLoadingPin)
}

func (greedyCalculator) CalculateTotalWeight(barWeight float64, platesPerSide []PlateResult, isLoadingPin bool) float64 {
	return CalculateTotalWeight(barWeight, platesPerSide, isLoadingPin)
}

// Calculate works out which plates to load to reach targetWeight.
//
// Denominations are visited once, heaviest first, without backtracking. A
// barbell needs a matching plate on each side, so only half of each
// denomination's stock (rounded down) can be committed per side. Running out
// of plates is not an error: the result simply reports IsExactMatch false.
func Calculate(targetWeight, barWeight float64, inventory PlateInventory, isLoadingPin bool) CalculationResult {
	weightNeeded := targetWeight - barWeight
	if weightNeeded <= 0 {
		return CalculationResult{
			TargetWeight:   targetWeight,
			BarWeight:      barWeight,
			AchievedWeight: barWeight,
			PlatesPerSide:  []PlateResult{},
			IsExactMatch:   targetWeight == barWeight,
			IsLoadingPin:   isLoadingPin,
		}
	}

	remaining := weightNeeded
	if !isLoadingPin {
		remaining = weightNeeded / 2
	}

	available := inventory.AvailablePlates()
	slices.SortStableFunc(available, func(a, b WeightPlate) int {
		return cmp.Compare(b.Weight, a.Weight)
	})

	used := make([]PlateResult, 0, len(available))
	for _, plate := range available {
		if remaining <= 0 {
			break
		}

		maxUsable := plate.AvailableCount
		if !isLoadingPin {
			maxUsable = plate.AvailableCount / 2
		}

		// Clamp before converting: a huge quotient would overflow int.
		toUse := maxUsable
		if n := remaining / plate.Weight; n < float64(maxUsable) {
			toUse = int(n)
		}
		if toUse > 0 {
			used = append(used, PlateResult{Plate: plate, CountUsed: toUse})
			remaining -= float64(toUse) * plate.Weight
		}
	}

	achieved := barWeight + plateWeight(used, isLoadingPin)

	return CalculationResult{
		TargetWeight:   targetWeight,
		BarWeight:      barWeight,
		AchievedWeight: achieved,
		PlatesPerSide:  used,
		IsExactMatch:   hundredths(achieved) == hundredths(targetWeight),
		IsLoadingPin:   isLoadingPin,
	}
}

// CalculateTotalWeight is the reverse calculation: the total weight of a bar
// loaded with platesPerSide. No rounding is applied.
func CalculateTotalWeight(barWeight float64, platesPerSide []PlateResult, isLoadingPin bool) float64 {
	return barWeight + plateWeight(platesPerSide, isLoadingPin)
}

// IsValidTarget reports whether targetWeight can be requested on a bar of
// barWeight.
func IsValidTarget(targetWeight, barWeight float64) bool {
	return targetWeight >= barWeight && targetWeight > 0
}

// ValidateTarget is IsValidTarget with a reason attached.
func ValidateTarget(targetWeight, barWeight float64) error {
	if targetWeight <= 0 {
		return ErrInvalidTarget
	}
	if targetWeight < barWeight {
		return ErrTargetBelowStart
	}
	return nil
}

func plateWeight(plates []PlateResult, isLoadingPin bool) float64 {
	var sum float64
	for _, p := range plates {
		sum += p.Plate.Weight * float64(p.CountUsed)
	}
	if isLoadingPin {
		return sum
	}
	return sum * 2
}

// hundredths truncates x to whole hundredths toward zero. Two weights match
// when their truncated values are equal; this is not a tolerance check.
func hundredths(x float64) int64 {
	return int64(x * 100)
}
