package core

import (
	"fmt"
	"os"

	"github.com/pelletier/go-toml/v2"
)

type LogConfig struct {
	Level string `toml:"level"`
}

// DeviceConfig describes the capabilities of the native context the
// heaps and command buffers are built for.
type DeviceConfig struct {
	// Only the trace backend can run without a native device.
	Backend              string `toml:"backend"`
	ConstantBufferRanges bool   `toml:"constant_buffer_ranges"`
	// Zero means unlimited.
	MaxSlots             uint32 `toml:"max_slots"`
}

type RecordingConfig struct {
	// Initial byte capacity of each virtual command buffer.
	InitialCapacity int `toml:"initial_capacity"`
	// Number of command buffers a queue can hold before Submit.
	QueueDepth int `toml:"queue_depth"`
	// Number of workers recording command buffers in parallel.
	Workers int `toml:"workers"`
}

type Config struct {
	Log       LogConfig       `toml:"log"`
	Device    DeviceConfig    `toml:"device"`
	Recording RecordingConfig `toml:"recording"`
}

func DefaultConfig() *Config {
	return &Config{
		Log: LogConfig{
			Level: "info",
		},
		Device: DeviceConfig{
			Backend:              "trace",
			ConstantBufferRanges: true,
			MaxSlots:             128,
		},
		Recording: RecordingConfig{
			InitialCapacity: 4096,
			QueueDepth:      16,
			Workers:         4,
		},
	}
}

// LoadConfig reads a TOML file on top of DefaultConfig. Keys missing
// from the file keep their default value.
func LoadConfig(path string) (*Config, error) {
	cfg := DefaultConfig()
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	if c.Recording.InitialCapacity < 0 {
		return fmt.Errorf("recording.initial_capacity must not be negative (got %d)", c.Recording.InitialCapacity)
	}
	if c.Recording.QueueDepth <= 0 {
		return fmt.Errorf("recording.queue_depth must be positive (got %d)", c.Recording.QueueDepth)
	}
	if c.Recording.Workers <= 0 {
		return fmt.Errorf("recording.workers must be positive (got %d)", c.Recording.Workers)
	}
	if c.Device.Backend != "trace" {
		return fmt.Errorf("device.backend %q is not supported (only \"trace\")", c.Device.Backend)
	}
	return nil
}

// Apply pushes the process wide settings of the config (log level).
func (c *Config) Apply() error {
	if c.Log.Level == "" {
		return nil
	}
	return SetLogLevel(c.Log.Level)
}
