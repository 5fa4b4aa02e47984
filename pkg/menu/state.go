package menu

// State is the controller's mirror of the companion's menu values.
//
// Exactly one writer mutates State at any instant (the bridge loop), so
// it carries no lock. Values are always within [0, descriptor.Max].
type State struct {
	registry *Registry
	values   map[string]uint8
}

// NewState creates a state mirror with every parameter at its default.
func NewState(registry *Registry) *State {
	s := &State{
		registry: registry,
		values:   make(map[string]uint8, len(registry.descriptors)),
	}
	for _, d := range registry.descriptors {
		s.values[d.Name] = d.Default
	}
	return s
}

// Registry returns the registry this state mirrors.
func (s *State) Registry() *Registry {
	return s.registry
}

// Set stores value for the descriptor, clamped to its Max, and returns
// the stored value.
func (s *State) Set(d *Descriptor, value int) uint8 {
	v := clamp(value, d.Max)
	s.values[d.Name] = v
	return v
}

// Get returns the current value for the descriptor.
func (s *State) Get(d *Descriptor) uint8 {
	return s.values[d.Name]
}

// GetByName returns the current value for the named parameter, or 0 when
// the name is unknown.
func (s *State) GetByName(name string) uint8 {
	return s.values[name]
}

// Rendering-relevant accessors used by the animation engine.

// Face returns the current expression index.
func (s *State) Face() uint8 { return s.values["face"] }

// Bright returns the current brightness.
func (s *State) Bright() uint8 { return s.values["bright"] }

// Color returns the current color mode index.
func (s *State) Color() uint8 { return s.values["color"] }

// HueF returns the current front hue.
func (s *State) HueF() uint8 { return s.values["hueF"] }

// HueB returns the current back hue.
func (s *State) HueB() uint8 { return s.values["hueB"] }

// AffectsColor reports whether the parameter feeds the pixel color path.
func AffectsColor(name string) bool {
	switch name {
	case "color", "hueF", "hueB", "bright":
		return true
	}
	return false
}

// AffectsFace reports whether the parameter selects the expression.
func AffectsFace(name string) bool {
	return name == "face"
}

func clamp(value int, max uint8) uint8 {
	if value < 0 {
		return 0
	}
	if value > int(max) {
		return max
	}
	return uint8(value)
}
