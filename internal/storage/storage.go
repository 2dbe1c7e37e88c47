package storage

import (
	"errors"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/eugenenazirov/plate-calculator/internal/calculator"
)

var (
	// ErrUnknownPlate indicates a plate weight that is not part of the inventory.
	ErrUnknownPlate = errors.New("plate weight is not part of the inventory")
	// ErrInvalidPlates indicates an empty or malformed plate update.
	ErrInvalidPlates = errors.New("plate update must contain at least one plate")
	// ErrBarNotFound indicates the requested bar does not exist.
	ErrBarNotFound = errors.New("bar not found")
	// ErrPresetBarImmutable indicates an attempt to delete a built-in bar.
	ErrPresetBarImmutable = errors.New("preset bars cannot be removed")
	// ErrMaxCustomBars indicates the custom bar limit has been reached.
	ErrMaxCustomBars = errors.New("maximum of 10 custom bars reached")
	// ErrDuplicateBarName indicates another bar already uses the requested name.
	ErrDuplicateBarName = errors.New("a bar with this name already exists")
	// ErrInvalidBar indicates a blank name or a negative weight.
	ErrInvalidBar = errors.New("bar needs a name and a non-negative weight")
)

// Settings holds user preferences that shape the calculator screen.
type Settings struct {
	ShowPlatesInCalculator bool   `json:"showPlatesInCalculator"`
	LastSelectedBarID      string `json:"lastSelectedBarId"`
}

// Storage provides access to the plate inventory, the bar catalog and the
// user's settings.
type Storage interface {
	GetInventory() (calculator.PlateInventory, error)
	SetPlateCount(weight float64, count int) error
	SetPlateCounts(plates []calculator.WeightPlate) error

	ListBars() ([]Bar, error)
	GetBar(id string) (Bar, error)
	AddCustomBar(name string, weight float64, isLoadingPin bool) (Bar, error)
	RemoveCustomBar(id string) error
	SetPresetBarWeight(id string, weight float64) (Bar, error)
	ResetPresetBarWeight(id string) (Bar, error)
	ResetAllPresetBarWeights() error

	GetSettings() (Settings, error)
	UpdateSettings(settings Settings) error
}

// MemoryStorage keeps everything in-memory and guards access with a RWMutex.
type MemoryStorage struct {
	mu            sync.RWMutex
	inventory     calculator.PlateInventory
	presetWeights map[string]float64
	customBars    []Bar
	settings      Settings
}

// NewMemoryStorage initialises storage with the standard plate set (all zero),
// the preset bars and default settings.
func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{
		inventory:     calculator.DefaultInventory(),
		presetWeights: DefaultPresetBarWeights(),
		settings:      Settings{LastSelectedBarID: OlympicBarbellID},
	}
}

// GetInventory returns a snapshot of the plate inventory.
func (s *MemoryStorage) GetInventory() (calculator.PlateInventory, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.inventory.Clone(), nil
}

// SetPlateCount replaces the count for one denomination. Negative counts are
// stored as zero.
func (s *MemoryStorage) SetPlateCount(weight float64, count int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.inventory.Has(weight) {
		return ErrUnknownPlate
	}
	s.inventory = s.inventory.UpdatePlateCount(weight, count)
	return nil
}

// SetPlateCounts updates several denominations at once. Either every plate is
// applied or none is.
func (s *MemoryStorage) SetPlateCounts(plates []calculator.WeightPlate) error {
	if len(plates) == 0 {
		return ErrInvalidPlates
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	next := s.inventory
	for _, p := range plates {
		if !next.Has(p.Weight) {
			return ErrUnknownPlate
		}
		next = next.UpdatePlateCount(p.Weight, p.AvailableCount)
	}
	s.inventory = next
	return nil
}

// ListBars returns the preset bars, with any weight overrides applied,
// followed by custom bars in creation order.
func (s *MemoryStorage) ListBars() ([]Bar, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.allBarsLocked(), nil
}

// GetBar looks a bar up by ID.
func (s *MemoryStorage) GetBar(id string) (Bar, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.barLocked(id)
}

// AddCustomBar validates and stores a new custom bar with a random ID.
func (s *MemoryStorage) AddCustomBar(name string, weight float64, isLoadingPin bool) (Bar, error) {
	name = strings.TrimSpace(name)
	if name == "" || weight < 0 {
		return Bar{}, ErrInvalidBar
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.customBars) >= MaxCustomBars {
		return Bar{}, ErrMaxCustomBars
	}
	for _, b := range s.allBarsLocked() {
		if strings.EqualFold(b.Name, name) {
			return Bar{}, ErrDuplicateBarName
		}
	}

	bar := Bar{
		ID:           uuid.NewString(),
		Name:         name,
		Weight:       weight,
		IsLoadingPin: isLoadingPin,
		IsCustom:     true,
	}
	s.customBars = append(s.customBars, bar)
	return bar, nil
}

// RemoveCustomBar deletes a custom bar. When it was the selected bar the
// selection falls back to the first preset.
func (s *MemoryStorage) RemoveCustomBar(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := presetByID(id); ok {
		return ErrPresetBarImmutable
	}

	idx := -1
	for i, b := range s.customBars {
		if b.ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		return ErrBarNotFound
	}

	s.customBars = append(s.customBars[:idx:idx], s.customBars[idx+1:]...)
	if s.settings.LastSelectedBarID == id {
		s.settings.LastSelectedBarID = presetBars[0].ID
	}
	return nil
}

// SetPresetBarWeight overrides the weight of a preset bar. Negative weights
// are stored as zero.
func (s *MemoryStorage) SetPresetBarWeight(id string, weight float64) (Bar, error) {
	bar, ok := presetByID(id)
	if !ok {
		return Bar{}, ErrBarNotFound
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.presetWeights[id] = max(weight, 0)
	bar.Weight = s.presetWeights[id]
	return bar, nil
}

// ResetPresetBarWeight restores a preset bar's default weight.
func (s *MemoryStorage) ResetPresetBarWeight(id string) (Bar, error) {
	bar, ok := presetByID(id)
	if !ok {
		return Bar{}, ErrBarNotFound
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.presetWeights[id] = bar.Weight
	return bar, nil
}

// ResetAllPresetBarWeights restores every preset bar's default weight.
func (s *MemoryStorage) ResetAllPresetBarWeights() error {
	s.mu.Lock()
	s.presetWeights = DefaultPresetBarWeights()
	s.mu.Unlock()

	return nil
}

// GetSettings returns the current settings.
func (s *MemoryStorage) GetSettings() (Settings, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.settings, nil
}

// UpdateSettings replaces the settings. The selected bar must exist.
func (s *MemoryStorage) UpdateSettings(settings Settings) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := s.barLocked(settings.LastSelectedBarID); err != nil {
		return err
	}
	s.settings = settings
	return nil
}

func (s *MemoryStorage) allBarsLocked() []Bar {
	out := make([]Bar, 0, len(presetBars)+len(s.customBars))
	for _, b := range presetBars {
		b.Weight = s.presetWeights[b.ID]
		out = append(out, b)
	}
	return append(out, s.customBars...)
}

func (s *MemoryStorage) barLocked(id string) (Bar, error) {
	for _, b := range s.allBarsLocked() {
		if b.ID == id {
			return b, nil
		}
	}
	return Bar{}, ErrBarNotFound
}
