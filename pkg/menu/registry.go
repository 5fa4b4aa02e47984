package menu

import (
	"strings"
)

// Parameter kinds reported in the schema.
const (
	// KindToggle is a two-state labeled parameter (max <= 1 with labels).
	KindToggle = "toggle"

	// KindSelect is a labeled enumeration (max > 1 with labels).
	KindSelect = "select"

	// KindRange is a plain numeric parameter.
	KindRange = "range"
)

// Descriptor describes one companion menu parameter.
type Descriptor struct {
	// Name is the host-facing camelCase parameter name.
	Name string

	// Token is the companion's uppercase protocol name.
	Token string

	// Max is the largest legal value; stored values are clamped to it.
	Max uint8

	// Default is the value assumed before the first companion sync.
	Default uint8

	// Labels names each value for enumerated parameters; nil for
	// numeric-only parameters. When present, len(Labels) == Max+1.
	Labels []string
}

// Kind classifies the descriptor for the schema.
func (d *Descriptor) Kind() string {
	switch {
	case d.Labels == nil:
		return KindRange
	case d.Max <= 1:
		return KindToggle
	default:
		return KindSelect
	}
}

// Label returns the label for value v, or "?" when v is out of range or
// the parameter is numeric.
func (d *Descriptor) Label(v uint8) string {
	if d.Labels == nil || int(v) >= len(d.Labels) {
		return "?"
	}
	return d.Labels[v]
}

// Value label sets for enumerated parameters.
var (
	faceLabels = []string{
		"DEFAULT", "ANGRY", "DOUBT", "FROWN", "LOOKUP", "SAD", "AUDIO1", "AUDIO2", "AUDIO3",
	}
	colorLabels = []string{
		"BASE", "YELLOW", "ORANGE", "WHITE", "GREEN", "PURPLE", "RED", "BLUE",
		"RAINBOW", "RAINBOWNOISE", "FLOWNOISE", "HORIZONTALRAINBOW", "BLACK",
	}
	effectLabels = []string{
		"NONE", "PHASEY", "PHASEX", "PHASER", "GLITCHX",
		"MAGNET", "FISHEYE", "HBLUR", "VBLUR", "RBLUR",
	}
	toggleLabels = []string{"OFF", "ON"}
)

// Registry is the fixed bidirectional parameter table.
type Registry struct {
	descriptors []Descriptor
	byName      map[string]*Descriptor
	byToken     map[string]*Descriptor
}

// Default returns the registry matching the companion's menu.
func Default() *Registry {
	return newRegistry([]Descriptor{
		{Name: "face", Token: "FACE", Max: 8, Default: 0, Labels: faceLabels},
		{Name: "bright", Token: "BRIGHT", Max: 254, Default: 75},
		{Name: "accentBright", Token: "ABRIGHT", Max: 254, Default: 127},
		{Name: "microphone", Token: "MIC", Max: 1, Default: 1, Labels: toggleLabels},
		{Name: "micLevel", Token: "MICLVL", Max: 10, Default: 5},
		{Name: "boopSensor", Token: "BOOP", Max: 1, Default: 1, Labels: toggleLabels},
		{Name: "spectrumMirror", Token: "SPEC", Max: 1, Default: 1, Labels: toggleLabels},
		{Name: "faceSize", Token: "SIZE", Max: 10, Default: 7},
		{Name: "color", Token: "COLOR", Max: 12, Default: 0, Labels: colorLabels},
		{Name: "hueF", Token: "HUEF", Max: 254, Default: 0},
		{Name: "hueB", Token: "HUEB", Max: 254, Default: 0},
		{Name: "effect", Token: "EFFECT", Max: 9, Default: 0, Labels: effectLabels},
	})
}

func newRegistry(descriptors []Descriptor) *Registry {
	r := &Registry{
		descriptors: descriptors,
		byName:      make(map[string]*Descriptor, len(descriptors)),
		byToken:     make(map[string]*Descriptor, len(descriptors)),
	}
	for i := range r.descriptors {
		d := &r.descriptors[i]
		r.byName[d.Name] = d
		r.byToken[d.Token] = d
	}
	return r
}

// ByName looks up a descriptor by its host-facing name (exact match).
func (r *Registry) ByName(name string) (*Descriptor, bool) {
	d, ok := r.byName[name]
	return d, ok
}

// ByToken looks up a descriptor by its companion protocol token
// (case-insensitive).
func (r *Registry) ByToken(token string) (*Descriptor, bool) {
	d, ok := r.byToken[strings.ToUpper(token)]
	return d, ok
}

// Descriptors returns all descriptors in declaration order.
func (r *Registry) Descriptors() []Descriptor {
	return r.descriptors
}
