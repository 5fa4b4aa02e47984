package menu

import (
	"encoding/json"
	"fmt"
)

// paramSchema is one parameter's entry in the published schema.
type paramSchema struct {
	Min     int      `json:"min"`
	Max     int      `json:"max"`
	Type    string   `json:"type"`
	Options []string `json:"options,omitempty"`
}

// SchemaJSON renders the registry as the schema payload published to the
// host, so a host UI can build its controls without hardcoded knowledge
// of the firmware.
func (r *Registry) SchemaJSON() (string, error) {
	schema := make(map[string]paramSchema, len(r.descriptors))
	for _, d := range r.descriptors {
		entry := paramSchema{
			Min:  0,
			Max:  int(d.Max),
			Type: d.Kind(),
		}
		if d.Labels != nil {
			entry.Options = d.Labels
		}
		schema[d.Name] = entry
	}

	data, err := json.Marshal(schema)
	if err != nil {
		return "", fmt.Errorf("marshal schema: %w", err)
	}
	return string(data), nil
}
