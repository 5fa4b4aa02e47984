package persistence

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/protosuit/visor-go/pkg/fancurve"
)

// StateVersion is the current version of the state file format.
const StateVersion = 1

// VisorState contains the router state that survives restarts.
type VisorState struct {
	// Version is the state file format version.
	Version int `json:"version"`

	// SavedAt is when the state was last saved.
	SavedAt time.Time `json:"saved_at"`

	// FanAuto selects curve-driven fan control.
	FanAuto bool `json:"fan_auto"`

	// TemperatureCurve maps degrees Celsius to fan percentages.
	TemperatureCurve []fancurve.Point `json:"temperature_curve,omitempty"`

	// HumidityCurve maps relative humidity percent to fan percentages.
	HumidityCurve []fancurve.Point `json:"humidity_curve,omitempty"`
}

// FanConfig converts the persisted state back into a fan configuration.
// Missing curves fall back to the stock defaults.
func (s *VisorState) FanConfig() fancurve.Config {
	cfg := fancurve.DefaultConfig()
	cfg.AutoMode = s.FanAuto
	if len(s.TemperatureCurve) > 0 {
		cfg.Temperature = fancurve.Curve(s.TemperatureCurve)
	}
	if len(s.HumidityCurve) > 0 {
		cfg.Humidity = fancurve.Curve(s.HumidityCurve)
	}
	return cfg
}

// StateFromFanConfig captures a fan configuration for persistence.
func StateFromFanConfig(cfg fancurve.Config) *VisorState {
	return &VisorState{
		FanAuto:          cfg.AutoMode,
		TemperatureCurve: cfg.Temperature,
		HumidityCurve:    cfg.Humidity,
	}
}

// VisorStateStore manages persistence of visor state to a JSON file.
type VisorStateStore struct {
	mu   sync.Mutex
	path string
}

// NewVisorStateStore creates a new visor state store.
func NewVisorStateStore(path string) *VisorStateStore {
	return &VisorStateStore{path: path}
}

// Save persists the visor state to disk.
func (s *VisorStateStore) Save(state *VisorState) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	// Ensure parent directory exists
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	state.Version = StateVersion
	if state.SavedAt.IsZero() {
		state.SavedAt = time.Now()
	}

	data, err := json.MarshalIndent(state, "", "  ")
	if err != nil {
		return err
	}

	return os.WriteFile(s.path, data, 0644)
}

// Load reads the visor state from disk.
// Returns nil, nil if the file doesn't exist (empty state).
func (s *VisorStateStore) Load() (*VisorState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := os.ReadFile(s.path)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	state := &VisorState{}
	if err := json.Unmarshal(data, state); err != nil {
		return nil, err
	}

	return state, nil
}

// Clear removes the state file.
func (s *VisorStateStore) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	err := os.Remove(s.path)
	if os.IsNotExist(err) {
		return nil
	}
	return err
}
