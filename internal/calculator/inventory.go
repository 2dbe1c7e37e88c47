package calculator

// StandardPlateWeights lists the denominations every inventory starts with,
// heaviest first.
var StandardPlateWeights = []float64{100, 55, 45, 35, 25, 10, 5, 2.5, 1.25, 1, 0.75, 0.5, 0.25}

// PlateInventory is an ordered snapshot of the plates a lifter owns. Weights
// are unique within one inventory.
type PlateInventory struct {
	Plates []WeightPlate `json:"plates"`
}

// DefaultInventory returns the standard denominations, each with a zero count.
func DefaultInventory() PlateInventory {
	plates := make([]WeightPlate, 0, len(StandardPlateWeights))
	for _, w := range StandardPlateWeights {
		plates = append(plates, WeightPlate{Weight: w})
	}
	return PlateInventory{Plates: plates}
}

// UpdatePlateCount returns a copy of the inventory with the count for weight
// replaced. Negative counts are stored as zero. Unknown weights leave the set
// of denominations untouched.
func (inv PlateInventory) UpdatePlateCount(weight float64, count int) PlateInventory {
	count = max(count, 0)
	out := inv.Clone()
	for i := range out.Plates {
		if out.Plates[i].Weight == weight {
			out.Plates[i].AvailableCount = count
		}
	}
	return out
}

// PlateCount returns the available count for weight, or zero when the
// inventory does not track it.
func (inv PlateInventory) PlateCount(weight float64) int {
	for _, p := range inv.Plates {
		if p.Weight == weight {
			return p.AvailableCount
		}
	}
	return 0
}

// Has reports whether weight is one of the inventory's denominations.
func (inv PlateInventory) Has(weight float64) bool {
	for _, p := range inv.Plates {
		if p.Weight == weight {
			return true
		}
	}
	return false
}

// AvailablePlates returns the plates with at least one available, in
// inventory order.
func (inv PlateInventory) AvailablePlates() []WeightPlate {
	out := make([]WeightPlate, 0, len(inv.Plates))
	for _, p := range inv.Plates {
		if p.AvailableCount > 0 {
			out = append(out, p)
		}
	}
	return out
}

// Clone returns a deep copy.
func (inv PlateInventory) Clone() PlateInventory {
	plates := make([]WeightPlate, len(inv.Plates))
	copy(plates, inv.Plates)
	return PlateInventory{Plates: plates}
}
