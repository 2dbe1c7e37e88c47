package calculator

// WeightPlate is a single plate denomination and how many of them are owned.
type WeightPlate struct {
	Weight         float64 `json:"weight"`
	AvailableCount int     `json:"availableCount"`
}

// PlateResult reports how many plates of one denomination a calculation uses.
// For barbells CountUsed is per side; for loading pins it is the total stack.
type PlateResult struct {
	Plate     WeightPlate `json:"plate"`
	CountUsed int         `json:"countUsed"`
}

// StartingWeight is the object plates are loaded onto.
type StartingWeight struct {
	Weight       float64 `json:"weight"`
	IsLoadingPin bool    `json:"isLoadingPin"`
}

// CalculationResult summarises a forward calculation.
// PlatesPerSide is ordered by descending plate weight.
type CalculationResult struct {
	TargetWeight   float64       `json:"targetWeight"`
	BarWeight      float64       `json:"barWeight"`
	AchievedWeight float64       `json:"achievedWeight"`
	PlatesPerSide  []PlateResult `json:"platesPerSide"`
	IsExactMatch   bool          `json:"isExactMatch"`
	IsLoadingPin   bool          `json:"isLoadingPin"`
}

// TotalPlateWeight is the combined weight of every plate loaded, both sides
// included for barbells.
func (r CalculationResult) TotalPlateWeight() float64 {
	return plateWeight(r.PlatesPerSide, r.IsLoadingPin)
}

// Calculator describes the behaviour required from a plate calculator.
type Calculator interface {
	Calculate(targetWeight, barWeight float64, inventory PlateInventory, isLoadingPin bool) CalculationResult
	CalculateTotalWeight(barWeight float64, platesPerSide []PlateResult, isLoadingPin bool) float64
}
