package menu

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistryLookups(t *testing.T) {
	r := Default()

	d, ok := r.ByName("color")
	require.True(t, ok)
	assert.Equal(t, "COLOR", d.Token)
	assert.Equal(t, uint8(12), d.Max)

	_, ok = r.ByName("COLOR")
	assert.False(t, ok, "name lookup must be exact match")

	// Token lookup is case-insensitive.
	for _, token := range []string{"COLOR", "color", "Color"} {
		d, ok := r.ByToken(token)
		require.True(t, ok, "token %q", token)
		assert.Equal(t, "color", d.Name)
	}

	_, ok = r.ByName("unknown")
	assert.False(t, ok)
	_, ok = r.ByToken("UNKNOWN")
	assert.False(t, ok)
}

func TestDescriptorKinds(t *testing.T) {
	r := Default()

	tests := []struct {
		name string
		kind string
	}{
		{name: "microphone", kind: KindToggle},
		{name: "boopSensor", kind: KindToggle},
		{name: "face", kind: KindSelect},
		{name: "color", kind: KindSelect},
		{name: "effect", kind: KindSelect},
		{name: "bright", kind: KindRange},
		{name: "micLevel", kind: KindRange},
		{name: "hueF", kind: KindRange},
	}
	for _, tt := range tests {
		d, ok := r.ByName(tt.name)
		require.True(t, ok, tt.name)
		assert.Equal(t, tt.kind, d.Kind(), tt.name)
	}
}

func TestDescriptorLabels(t *testing.T) {
	r := Default()

	color, _ := r.ByName("color")
	assert.Equal(t, "WHITE", color.Label(3))
	assert.Equal(t, "BLACK", color.Label(12))
	assert.Equal(t, "?", color.Label(13))

	bright, _ := r.ByName("bright")
	assert.Equal(t, "?", bright.Label(75), "numeric parameter has no labels")

	// Enumerated label lists cover the whole value range.
	for _, d := range r.Descriptors() {
		if d.Labels != nil {
			assert.Len(t, d.Labels, int(d.Max)+1, d.Name)
		}
	}
}

func TestStateDefaults(t *testing.T) {
	s := NewState(Default())

	assert.Equal(t, uint8(0), s.Face())
	assert.Equal(t, uint8(75), s.Bright())
	assert.Equal(t, uint8(127), s.GetByName("accentBright"))
	assert.Equal(t, uint8(1), s.GetByName("microphone"))
	assert.Equal(t, uint8(5), s.GetByName("micLevel"))
	assert.Equal(t, uint8(7), s.GetByName("faceSize"))
	assert.Equal(t, uint8(0), s.Color())
}

func TestStateClamping(t *testing.T) {
	r := Default()
	s := NewState(r)
	face, _ := r.ByName("face")

	tests := []struct {
		in   int
		want uint8
	}{
		{in: 3, want: 3},
		{in: 8, want: 8},
		{in: 9, want: 8},
		{in: 255, want: 8},
		{in: 10000, want: 8},
		{in: -1, want: 0},
	}
	for _, tt := range tests {
		got := s.Set(face, tt.in)
		assert.Equal(t, tt.want, got, "Set(face, %d)", tt.in)
		assert.Equal(t, tt.want, s.Get(face))
	}
}

func TestRenderingRelevance(t *testing.T) {
	for _, name := range []string{"color", "hueF", "hueB", "bright"} {
		assert.True(t, AffectsColor(name), name)
	}
	assert.False(t, AffectsColor("face"))
	assert.False(t, AffectsColor("micLevel"))
	assert.True(t, AffectsFace("face"))
	assert.False(t, AffectsFace("color"))
}

func TestSchemaJSON(t *testing.T) {
	payload, err := Default().SchemaJSON()
	require.NoError(t, err)

	var schema map[string]struct {
		Min     int      `json:"min"`
		Max     int      `json:"max"`
		Type    string   `json:"type"`
		Options []string `json:"options"`
	}
	require.NoError(t, json.Unmarshal([]byte(payload), &schema))
	require.Len(t, schema, 12)

	color := schema["color"]
	assert.Equal(t, 0, color.Min)
	assert.Equal(t, 12, color.Max)
	assert.Equal(t, KindSelect, color.Type)
	require.Len(t, color.Options, 13)
	assert.Equal(t, "WHITE", color.Options[3])

	mic := schema["microphone"]
	assert.Equal(t, KindToggle, mic.Type)
	assert.Equal(t, []string{"OFF", "ON"}, mic.Options)

	bright := schema["bright"]
	assert.Equal(t, KindRange, bright.Type)
	assert.Equal(t, 254, bright.Max)
	assert.Nil(t, bright.Options)
}
