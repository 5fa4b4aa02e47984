package fancurve

import (
	"encoding/json"
	"fmt"
)

// configJSON is the host-facing JSON shape of a Config.
type configJSON struct {
	Mode        string  `json:"mode"`
	Temperature []Point `json:"temperature"`
	Humidity    []Point `json:"humidity"`
}

// ModeString returns the host-facing mode name.
func (c *Config) ModeString() string {
	if c.AutoMode {
		return "auto"
	}
	return "manual"
}

// MarshalJSON renders the config in the host exchange format.
func (c Config) MarshalJSON() ([]byte, error) {
	return json.Marshal(configJSON{
		Mode:        c.ModeString(),
		Temperature: c.Temperature,
		Humidity:    c.Humidity,
	})
}

// ConfigJSON renders the config as the fancurve status payload.
func (c *Config) ConfigJSON() (string, error) {
	data, err := json.Marshal(*c)
	if err != nil {
		return "", fmt.Errorf("marshal fan curve config: %w", err)
	}
	return string(data), nil
}

// ApplyJSON merges a host-supplied configuration payload into the config.
// Fields absent from the payload keep their current values; each curve is
// capped at MaxPoints. Returns an error on malformed JSON, leaving the
// config untouched.
func (c *Config) ApplyJSON(payload string) error {
	var in struct {
		Mode        *string `json:"mode"`
		Temperature []Point `json:"temperature"`
		Humidity    []Point `json:"humidity"`
	}
	if err := json.Unmarshal([]byte(payload), &in); err != nil {
		return fmt.Errorf("parse fan curve config: %w", err)
	}

	if in.Mode != nil {
		c.AutoMode = *in.Mode == "auto"
	}
	if in.Temperature != nil {
		c.Temperature = capPoints(in.Temperature)
	}
	if in.Humidity != nil {
		c.Humidity = capPoints(in.Humidity)
	}
	return nil
}

func capPoints(points []Point) Curve {
	if len(points) > MaxPoints {
		points = points[:MaxPoints]
	}
	return Curve(points)
}
