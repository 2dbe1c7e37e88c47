package mcp

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"go.uber.org/zap"

	"github.com/eugenenazirov/plate-calculator/internal/calculator"
	"github.com/eugenenazirov/plate-calculator/internal/storage"
	"github.com/eugenenazirov/plate-calculator/internal/weight"
)

// --- Tool definitions ---

var toolCalculatePlates = mcp.NewTool("calculate_plates",
	mcp.WithDescription("Work out which plates to load for a target weight using the stored plate inventory. "+
		"For barbells the plates are listed per side; for a loading pin they are the whole load."),
	mcp.WithString("target_weight", mcp.Required(), mcp.Description("Target total weight, e.g. '225' or '102.5'")),
	mcp.WithString("bar_id", mcp.Description("Bar to load (see list_bars). Defaults to the last selected bar.")),
	mcp.WithNumber("bar_weight", mcp.Description("One-off starting weight. Overrides bar_id when set.")),
	mcp.WithBoolean("loading_pin", mcp.Description("Treat bar_weight as a loading pin (plates on one side only).")),
)

var toolCalculateTotalWeight = mcp.NewTool("calculate_total_weight",
	mcp.WithDescription("Compute the total weight of a bar loaded with the given plates."),
	mcp.WithString("plates", mcp.Required(), mcp.Description("Plates per side as weight:count pairs, e.g. '45:2,10:1'")),
	mcp.WithString("bar_id", mcp.Description("Bar the plates are loaded on. Defaults to the last selected bar.")),
	mcp.WithNumber("bar_weight", mcp.Description("One-off starting weight. Overrides bar_id when set.")),
	mcp.WithBoolean("loading_pin", mcp.Description("Treat bar_weight as a loading pin (plates on one side only).")),
)

var toolListBars = mcp.NewTool("list_bars",
	mcp.WithDescription("List the preset and custom bars with their current weights."),
)

var toolGetInventory = mcp.NewTool("get_inventory",
	mcp.WithDescription("List every plate denomination and how many plates of it are available."),
)

// --- Results ---

type plateCount struct {
	Weight float64 `json:"weight"`
	Count  int     `json:"count"`
}

type plateLoad struct {
	TargetWeight   float64      `json:"target_weight"`
	BarWeight      float64      `json:"bar_weight"`
	AchievedWeight float64      `json:"achieved_weight"`
	IsExactMatch   bool         `json:"is_exact_match"`
	IsLoadingPin   bool         `json:"is_loading_pin"`
	Plates         []plateCount `json:"plates"`
	Summary        string       `json:"summary"`
	Bar            string       `json:"bar,omitempty"`
}

type totalWeight struct {
	BarWeight    float64 `json:"bar_weight"`
	IsLoadingPin bool    `json:"is_loading_pin"`
	TotalWeight  float64 `json:"total_weight"`
	Bar          string  `json:"bar,omitempty"`
}

type start struct {
	calculator.StartingWeight
	barName string
}

// --- Tool handlers ---

func (h *handlers) calculatePlates(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	raw, err := req.RequireString("target_weight")
	if err != nil {
		return mcp.NewToolResultError("target_weight parameter is required"), nil
	}
	target, err := weight.Parse(raw)
	if err != nil {
		return mcp.NewToolResultError("invalid target_weight: " + err.Error()), nil
	}

	st, err := h.resolveStart(req)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if err := calculator.ValidateTarget(target, st.Weight); err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("%v (starting weight %s)", err, weight.Format(st.Weight))), nil
	}

	inventory, err := h.store.GetInventory()
	if err != nil {
		h.log.Error("mcp calculate_plates", zap.Error(err))
		return mcp.NewToolResultError("inventory unavailable: " + err.Error()), nil
	}

	startedAt := time.Now()
	res := h.calc.Calculate(target, st.Weight, inventory, st.IsLoadingPin)
	h.metrics.ObserveCalculation(res, time.Since(startedAt))

	out := plateLoad{
		TargetWeight:   res.TargetWeight,
		BarWeight:      res.BarWeight,
		AchievedWeight: res.AchievedWeight,
		IsExactMatch:   res.IsExactMatch,
		IsLoadingPin:   res.IsLoadingPin,
		Plates:         make([]plateCount, 0, len(res.PlatesPerSide)),
		Bar:            st.barName,
	}
	parts := make([]string, 0, len(res.PlatesPerSide))
	for _, p := range res.PlatesPerSide {
		out.Plates = append(out.Plates, plateCount{Weight: p.Plate.Weight, Count: p.CountUsed})
		parts = append(parts, fmt.Sprintf("%s x%d", weight.Format(p.Plate.Weight), p.CountUsed))
	}
	out.Summary = strings.Join(parts, ", ")

	result, err := mcp.NewToolResultJSON(out)
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}

func (h *handlers) calculateTotalWeight(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	raw, err := req.RequireString("plates")
	if err != nil {
		return mcp.NewToolResultError("plates parameter is required"), nil
	}
	counts, err := weight.ParseCounts(raw)
	if err != nil {
		return mcp.NewToolResultError("invalid plates: " + err.Error()), nil
	}

	st, err := h.resolveStart(req)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	plates := make([]calculator.PlateResult, 0, len(counts))
	for _, c := range counts {
		if c.Count == 0 {
			continue
		}
		plates = append(plates, calculator.PlateResult{
			Plate:     calculator.WeightPlate{Weight: c.Weight, AvailableCount: c.Count},
			CountUsed: c.Count,
		})
	}

	total := h.calc.CalculateTotalWeight(st.Weight, plates, st.IsLoadingPin)
	h.metrics.ObserveReverseCalculation(st.IsLoadingPin)

	result, err := mcp.NewToolResultJSON(totalWeight{
		BarWeight:    st.Weight,
		IsLoadingPin: st.IsLoadingPin,
		TotalWeight:  total,
		Bar:          st.barName,
	})
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}

func (h *handlers) listBars(_ context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	bars, err := h.store.ListBars()
	if err != nil {
		h.log.Error("mcp list_bars", zap.Error(err))
		return mcp.NewToolResultError("query failed: " + err.Error()), nil
	}

	result, err := mcp.NewToolResultJSON(map[string]any{"bars": bars})
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}

func (h *handlers) getInventory(_ context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	inv, err := h.store.GetInventory()
	if err != nil {
		h.log.Error("mcp get_inventory", zap.Error(err))
		return mcp.NewToolResultError("query failed: " + err.Error()), nil
	}

	plates := make([]plateCount, 0, len(inv.Plates))
	for _, p := range inv.Plates {
		plates = append(plates, plateCount{Weight: p.Weight, Count: p.AvailableCount})
	}

	result, err := mcp.NewToolResultJSON(map[string]any{"plates": plates})
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}

// resolveStart applies the same precedence as the HTTP API: an explicit
// bar_weight wins, then bar_id, then the last selected bar. Tools never change
// the stored selection.
func (h *handlers) resolveStart(req mcp.CallToolRequest) (start, error) {
	if _, ok := req.GetArguments()["bar_weight"]; ok {
		w, err := req.RequireFloat("bar_weight")
		if err != nil {
			return start{}, errors.New("bar_weight must be a number")
		}
		if w < 0 {
			return start{}, errors.New("bar_weight must not be negative")
		}
		return start{StartingWeight: calculator.StartingWeight{Weight: w, IsLoadingPin: req.GetBool("loading_pin", false)}}, nil
	}

	id := req.GetString("bar_id", "")
	if id == "" {
		settings, err := h.store.GetSettings()
		if err != nil {
			return start{}, fmt.Errorf("settings unavailable: %w", err)
		}
		id = settings.LastSelectedBarID
	}

	bar, err := h.store.GetBar(id)
	if err != nil {
		if errors.Is(err, storage.ErrBarNotFound) {
			return start{}, fmt.Errorf("unknown bar_id %q", id)
		}
		return start{}, err
	}
	return start{
		StartingWeight: calculator.StartingWeight{Weight: bar.Weight, IsLoadingPin: bar.IsLoadingPin},
		barName:        bar.Name,
	}, nil
}
