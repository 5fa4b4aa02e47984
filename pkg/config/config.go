package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// SerialPort configures one serial link.
type SerialPort struct {
	// Device is the serial device path.
	Device string `yaml:"device"`

	// Baud is the line rate. Both links run at 921600 by default.
	Baud int `yaml:"baud"`
}

// LEDs configures the pixel output.
type LEDs struct {
	// SPIDev is the SPI device driving the strips; empty disables the
	// physical output.
	SPIDev string `yaml:"spi_dev"`

	// Segments lists the pixel count of each strip segment in render
	// order.
	Segments []int `yaml:"segments"`
}

// Config is the full controller configuration.
type Config struct {
	// Host is the serial link to the host computer.
	Host SerialPort `yaml:"host"`

	// Device is the serial link to the companion processor.
	Device SerialPort `yaml:"device"`

	LEDs LEDs `yaml:"leds"`

	// StatePath is the JSON file holding fan configuration across
	// restarts.
	StatePath string `yaml:"state_path"`

	// LogPath is the protocol event log file; empty disables file
	// logging.
	LogPath string `yaml:"log_path"`
}

// Default returns the stock configuration for the visor hardware.
func Default() Config {
	return Config{
		Host:   SerialPort{Device: "/dev/ttyAMA0", Baud: 921600},
		Device: SerialPort{Device: "/dev/ttyAMA1", Baud: 921600},
		LEDs: LEDs{
			SPIDev:   "/dev/spidev0.0",
			Segments: []int{300, 40, 60, 60, 40},
		},
		StatePath: "/var/lib/visor/state.json",
		LogPath:   "",
	}
}

// Load reads path and merges it over the defaults. A missing file is not
// an error; the defaults are returned unchanged.
func Load(path string) (Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return cfg, nil
	}
	if err != nil {
		return cfg, fmt.Errorf("read config: %w", err)
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config %s: %w", path, err)
	}

	if err := cfg.validate(); err != nil {
		return cfg, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

func (c *Config) validate() error {
	if c.Host.Baud <= 0 {
		return fmt.Errorf("host baud must be positive, got %d", c.Host.Baud)
	}
	if c.Device.Baud <= 0 {
		return fmt.Errorf("device baud must be positive, got %d", c.Device.Baud)
	}
	if len(c.LEDs.Segments) == 0 {
		return fmt.Errorf("at least one LED segment is required")
	}
	for i, count := range c.LEDs.Segments {
		if count <= 0 {
			return fmt.Errorf("LED segment %d must be positive, got %d", i, count)
		}
	}
	return nil
}
