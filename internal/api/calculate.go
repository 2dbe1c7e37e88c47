package api

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/eugenenazirov/plate-calculator/internal/calculator"
	"github.com/eugenenazirov/plate-calculator/internal/storage"
	"github.com/eugenenazirov/plate-calculator/internal/weight"
)

var errInvalidStartingWeight = errors.New("starting weight must be a non-negative number")

type startingWeightPayload struct {
	Weight       float64 `json:"weight"`
	IsLoadingPin bool    `json:"isLoadingPin"`
}

type calculateRequest struct {
	TargetWeight   string                 `json:"targetWeight"`
	BarID          string                 `json:"barId,omitempty"`
	StartingWeight *startingWeightPayload `json:"startingWeight,omitempty"`
}

type plateLine struct {
	Weight         float64 `json:"weight"`
	Label          string  `json:"label"`
	CountUsed      int     `json:"countUsed"`
	AvailableCount int     `json:"availableCount"`
}

type calculateResponse struct {
	TargetWeight      float64      `json:"targetWeight"`
	BarWeight         float64      `json:"barWeight"`
	AchievedWeight    float64      `json:"achievedWeight"`
	TotalPlateWeight  float64      `json:"totalPlateWeight"`
	RemainingWeight   float64      `json:"remainingWeight"`
	IsExactMatch      bool         `json:"isExactMatch"`
	IsLoadingPin      bool         `json:"isLoadingPin"`
	PlatesPerSide     []plateLine  `json:"platesPerSide"`
	Summary           string       `json:"summary"`
	Bar               *storage.Bar `json:"bar,omitempty"`
	CalculationTimeMs int64        `json:"calculationTimeMs"`
}

type reversePlate struct {
	Weight float64 `json:"weight"`
	Count  int     `json:"count"`
}

type reverseRequest struct {
	BarID          string                 `json:"barId,omitempty"`
	StartingWeight *startingWeightPayload `json:"startingWeight,omitempty"`
	Plates         []reversePlate         `json:"plates"`
}

type reverseResponse struct {
	BarWeight    float64      `json:"barWeight"`
	IsLoadingPin bool         `json:"isLoadingPin"`
	TotalWeight  float64      `json:"totalWeight"`
	TotalLabel   string       `json:"totalLabel"`
	Bar          *storage.Bar `json:"bar,omitempty"`
}

func (h *Handler) handleCalculate(w http.ResponseWriter, r *http.Request) {
	var req calculateRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request", "unable to parse JSON payload")
		return
	}

	target, err := weight.Parse(req.TargetWeight)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid target weight", "Please enter a valid weight")
		return
	}

	start, bar, ok := h.resolveStart(w, req.BarID, req.StartingWeight)
	if !ok {
		return
	}

	if err := calculator.ValidateTarget(target, start.Weight); err != nil {
		switch {
		case errors.Is(err, calculator.ErrTargetBelowStart):
			details := fmt.Sprintf("Target weight must be at least %s", weight.Format(start.Weight))
			writeError(w, http.StatusUnprocessableEntity, "Target below starting weight", details, "Choose a lighter bar or raise the target")
		default:
			writeError(w, http.StatusBadRequest, "Invalid target weight", err.Error())
		}
		return
	}

	inventory, err := h.storage.GetInventory()
	if err != nil {
		writeInternalError(w, err)
		return
	}

	startedAt := time.Now()
	result := h.calculator.Calculate(target, start.Weight, inventory, start.IsLoadingPin)
	elapsed := time.Since(startedAt)
	h.metrics.ObserveCalculation(result, elapsed)

	lines := make([]plateLine, 0, len(result.PlatesPerSide))
	labels := make([]string, 0, len(result.PlatesPerSide))
	for _, p := range result.PlatesPerSide {
		label := weight.Format(p.Plate.Weight)
		lines = append(lines, plateLine{
			Weight:         p.Plate.Weight,
			Label:          label,
			CountUsed:      p.CountUsed,
			AvailableCount: p.Plate.AvailableCount,
		})
		labels = append(labels, fmt.Sprintf("%s x%d", label, p.CountUsed))
	}

	resp := calculateResponse{
		TargetWeight:      result.TargetWeight,
		BarWeight:         result.BarWeight,
		AchievedWeight:    result.AchievedWeight,
		TotalPlateWeight:  result.TotalPlateWeight(),
		RemainingWeight:   result.TargetWeight - result.AchievedWeight,
		IsExactMatch:      result.IsExactMatch,
		IsLoadingPin:      result.IsLoadingPin,
		PlatesPerSide:     lines,
		Summary:           strings.Join(labels, ", "),
		Bar:               bar,
		CalculationTimeMs: elapsed.Milliseconds(),
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *Handler) handleReverse(w http.ResponseWriter, r *http.Request) {
	var req reverseRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request", "unable to parse JSON payload")
		return
	}

	plates := make([]calculator.PlateResult, 0, len(req.Plates))
	for _, p := range req.Plates {
		if p.Weight <= 0 || p.Count < 0 {
			writeError(w, http.StatusBadRequest, "Invalid plates", "plate weights must be positive and counts non-negative")
			return
		}
		if p.Count == 0 {
			continue
		}
		plates = append(plates, calculator.PlateResult{
			Plate:     calculator.WeightPlate{Weight: p.Weight, AvailableCount: p.Count},
			CountUsed: p.Count,
		})
	}

	start, bar, ok := h.resolveStart(w, req.BarID, req.StartingWeight)
	if !ok {
		return
	}

	total := h.calculator.CalculateTotalWeight(start.Weight, plates, start.IsLoadingPin)
	h.metrics.ObserveReverseCalculation(start.IsLoadingPin)

	writeJSON(w, http.StatusOK, reverseResponse{
		BarWeight:    start.Weight,
		IsLoadingPin: start.IsLoadingPin,
		TotalWeight:  total,
		TotalLabel:   weight.Format(total),
		Bar:          bar,
	})
}

// resolveStart picks the starting weight for a calculation. A one-off custom
// starting weight wins over a bar ID; with neither, the last selected bar is
// used. Naming a bar explicitly makes it the last selected one. On failure the
// error response has already been written.
func (h *Handler) resolveStart(w http.ResponseWriter, barID string, custom *startingWeightPayload) (calculator.StartingWeight, *storage.Bar, bool) {
	if custom != nil {
		if custom.Weight < 0 {
			writeError(w, http.StatusBadRequest, "Invalid starting weight", errInvalidStartingWeight.Error())
			return calculator.StartingWeight{}, nil, false
		}
		return calculator.StartingWeight{Weight: custom.Weight, IsLoadingPin: custom.IsLoadingPin}, nil, true
	}

	settings, err := h.storage.GetSettings()
	if err != nil {
		writeInternalError(w, err)
		return calculator.StartingWeight{}, nil, false
	}

	id := barID
	if id == "" {
		id = settings.LastSelectedBarID
	}

	bar, err := h.storage.GetBar(id)
	if err != nil {
		if errors.Is(err, storage.ErrBarNotFound) {
			writeError(w, http.StatusNotFound, "Bar not found", fmt.Sprintf("no bar with id %q", id))
			return calculator.StartingWeight{}, nil, false
		}
		writeInternalError(w, err)
		return calculator.StartingWeight{}, nil, false
	}

	if barID != "" && barID != settings.LastSelectedBarID {
		settings.LastSelectedBarID = barID
		if err := h.storage.UpdateSettings(settings); err != nil {
			writeInternalError(w, err)
			return calculator.StartingWeight{}, nil, false
		}
	}

	return calculator.StartingWeight{Weight: bar.Weight, IsLoadingPin: bar.IsLoadingPin}, &bar, true
}
