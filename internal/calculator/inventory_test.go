package calculator

import (
	"slices"
	"testing"
)

func TestDefaultInventory(t *testing.T) {
	t.Parallel()

	inv := DefaultInventory()
	if len(inv.Plates) != len(StandardPlateWeights) {
		t.Fatalf("expected %d plates, got %d", len(StandardPlateWeights), len(inv.Plates))
	}
	for i, p := range inv.Plates {
		if p.Weight != StandardPlateWeights[i] || p.AvailableCount != 0 {
			t.Fatalf("unexpected plate at %d: %+v", i, p)
		}
	}
	if len(inv.AvailablePlates()) != 0 {
		t.Fatalf("expected no available plates by default")
	}
}

func TestUpdatePlateCount(t *testing.T) {
	t.Parallel()

	inv := DefaultInventory()
	updated := inv.UpdatePlateCount(45, 4)

	if got := updated.PlateCount(45); got != 4 {
		t.Fatalf("expected 4 plates of 45, got %d", got)
	}
	if got := inv.PlateCount(45); got != 0 {
		t.Fatalf("original inventory mutated: %d", got)
	}

	if got := updated.UpdatePlateCount(45, -3).PlateCount(45); got != 0 {
		t.Fatalf("expected negative count to clamp to 0, got %d", got)
	}

	unknown := updated.UpdatePlateCount(7.5, 2)
	if unknown.Has(7.5) || len(unknown.Plates) != len(updated.Plates) {
		t.Fatalf("unknown weight must not add a denomination")
	}
}

func TestAvailablePlatesKeepsInventoryOrder(t *testing.T) {
	t.Parallel()

	inv := DefaultInventory().UpdatePlateCount(2.5, 2).UpdatePlateCount(45, 2).UpdatePlateCount(10, 0)

	var weights []float64
	for _, p := range inv.AvailablePlates() {
		weights = append(weights, p.Weight)
	}
	if want := []float64{45, 2.5}; !slices.Equal(weights, want) {
		t.Fatalf("expected %v, got %v", want, weights)
	}
}

func TestPlateCountUnknownWeight(t *testing.T) {
	t.Parallel()

	if got := DefaultInventory().PlateCount(3); got != 0 {
		t.Fatalf("expected 0 for untracked weight, got %d", got)
	}
}
