package storage

// Preset bar identifiers.
const (
	OlympicBarbellID = "olympic_barbell"
	TrapBarID        = "trap_bar"
	EZCurlBarID      = "ez_curl_bar"
	LoadingPinID     = "loading_pin"
)

// MaxCustomBars caps how many custom bars a user may define.
const MaxCustomBars = 10

// Bar is a piece of equipment plates are loaded onto.
type Bar struct {
	ID           string  `json:"id"`
	Name         string  `json:"name"`
	Weight       float64 `json:"weight"`
	IsLoadingPin bool    `json:"isLoadingPin"`
	IsCustom     bool    `json:"isCustom"`
}

var presetBars = []Bar{
	{ID: OlympicBarbellID, Name: "Olympic Barbell", Weight: 45},
	{ID: TrapBarID, Name: "Trap Bar", Weight: 60},
	{ID: EZCurlBarID, Name: "EZ Curl Bar", Weight: 25},
	{ID: LoadingPinID, Name: "Loading Pin", Weight: 0, IsLoadingPin: true},
}

// PresetBars returns the built-in bars with their default weights.
func PresetBars() []Bar {
	out := make([]Bar, len(presetBars))
	copy(out, presetBars)
	return out
}

// DefaultPresetBarWeights maps every preset bar ID to its default weight.
func DefaultPresetBarWeights() map[string]float64 {
	out := make(map[string]float64, len(presetBars))
	for _, b := range presetBars {
		out[b.ID] = b.Weight
	}
	return out
}

func presetByID(id string) (Bar, bool) {
	for _, b := range presetBars {
		if b.ID == id {
			return b, true
		}
	}
	return Bar{}, false
}
