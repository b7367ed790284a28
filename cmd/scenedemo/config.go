package main

import (
	"github.com/argus-labs/scene-engine/pkg/gpu"
	"github.com/argus-labs/scene-engine/pkg/scene"
	"github.com/caarlos0/env/v11"
	"github.com/rotisserie/eris"
)

// demoConfig holds the demo configuration. Values can be set via environment variables with the
// specified defaults and are overridden by command line flags.
type demoConfig struct {
	// Number of frames to run.
	Frames int `env:"SCENEDEMO_FRAMES" envDefault:"120"`

	// Number of rows in the grid. Each row is a child of the root.
	Rows int `env:"SCENEDEMO_ROWS" envDefault:"4"`

	// Number of meshes per row.
	Cols int `env:"SCENEDEMO_COLS" envDefault:"8"`

	// Seconds simulated per frame.
	Timestep float64 `env:"SCENEDEMO_TIMESTEP" envDefault:"0.016666"`

	// Size of each upload buffer in bytes.
	PoolSize int `env:"SCENEDEMO_POOL_SIZE" envDefault:"128000"`
}

// loadDemoConfig loads the demo configuration from environment variables.
func loadDemoConfig() (demoConfig, error) {
	cfg := demoConfig{}

	if err := env.Parse(&cfg); err != nil {
		return cfg, eris.Wrap(err, "failed to parse demo config")
	}

	return cfg, nil
}

// validate performs validation on the configuration.
func (cfg *demoConfig) validate() error {
	if cfg.Frames <= 0 {
		return eris.New("frames must be positive")
	}
	// The root holds the camera and one entity per row.
	if cfg.Rows <= 0 || cfg.Rows > scene.MaxChildren-1 {
		return eris.Errorf("rows must be between 1 and %d", scene.MaxChildren-1)
	}
	if cfg.Cols <= 0 || cfg.Cols > scene.MaxChildren {
		return eris.Errorf("cols must be between 1 and %d", scene.MaxChildren)
	}
	if cfg.Timestep <= 0 {
		return eris.New("timestep must be positive")
	}
	if cfg.PoolSize <= 0 {
		return eris.Errorf("pool size must be positive (default %d)", gpu.DefaultPoolSize)
	}
	return nil
}
