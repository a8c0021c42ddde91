// Package config defines all configuration structures for the air-modernity
// pipeline.  No I/O or parsing logic lives here, only plain data types and
// validation.  A Config value is constructed once at startup and passed
// explicitly into each stage; there is no ambient global configuration state.
package config

import (
	"fmt"

	"github.com/airnalytics/air-modernity/internal/infrastructure/monitoring/logging"
)

// InputConfig identifies the fleet dataset the pipeline consumes.
type InputConfig struct {
	// Path points at the per-aircraft fleet dataset.  CSV and XLSX are
	// accepted; the format is selected by file extension.
	Path string `mapstructure:"path"`

	// Sheet names the worksheet to read when Path is an XLSX workbook.
	// Ignored for CSV input.
	Sheet string `mapstructure:"sheet"`
}

// OutputConfig identifies where pipeline artifacts are written.  Reruns
// overwrite same-named artifacts; concurrent runs against the same directory
// are not guarded against (last writer wins).
type OutputConfig struct {
	Dir string `mapstructure:"dir"`
}

// PipelineConfig carries every tunable of the feature → cluster → classifier
// pipeline.  All randomised steps (centroid init, train/test split) derive
// from the single Seed so that identical input and seed reproduce identical
// artifacts byte for byte.
type PipelineConfig struct {
	// MinFleetSize excludes airlines with fewer aircraft from scoring and
	// clustering entirely.
	MinFleetSize int `mapstructure:"min_fleet_size"`

	// Clusters is the number of segments in the production partition.
	Clusters int `mapstructure:"clusters"`

	// ElbowMaxK is the inclusive upper bound of the elbow diagnostic sweep
	// (k runs from 1 to ElbowMaxK).
	ElbowMaxK int `mapstructure:"elbow_max_k"`

	// Restarts is the number of independent centroid initialisations per
	// k-means fit; the lowest-inertia run wins.
	Restarts int `mapstructure:"restarts"`

	// MaxIterations caps Lloyd iterations within a single k-means run.
	MaxIterations int `mapstructure:"max_iterations"`

	// Neighbors is the k of the surrogate k-NN classifier.
	Neighbors int `mapstructure:"neighbors"`

	// TestFraction is the held-out share of the stratified evaluation split.
	TestFraction float64 `mapstructure:"test_fraction"`

	// Seed drives every randomised step.
	Seed int64 `mapstructure:"seed"`
}

// ServerConfig holds tunables of the optional prediction HTTP service.
type ServerConfig struct {
	Port int    `mapstructure:"port"`
	Mode string `mapstructure:"mode"` // "debug" | "release" | "test"
}

// Config is the root configuration object.
type Config struct {
	Input    InputConfig    `mapstructure:"input"`
	Output   OutputConfig   `mapstructure:"output"`
	Pipeline PipelineConfig `mapstructure:"pipeline"`
	Server   ServerConfig   `mapstructure:"server"`
	Log      logging.Config `mapstructure:"log"`
}

// Validate checks cross-field consistency.  It assumes ApplyDefaults has
// already run, so zero values indicate deliberate misconfiguration.
func (c *Config) Validate() error {
	if c.Input.Path == "" {
		return fmt.Errorf("config: input.path must be set")
	}
	if c.Output.Dir == "" {
		return fmt.Errorf("config: output.dir must be set")
	}
	if c.Pipeline.MinFleetSize < 1 {
		return fmt.Errorf("config: pipeline.min_fleet_size must be >= 1, got %d", c.Pipeline.MinFleetSize)
	}
	if c.Pipeline.Clusters < 2 {
		return fmt.Errorf("config: pipeline.clusters must be >= 2, got %d", c.Pipeline.Clusters)
	}
	if c.Pipeline.ElbowMaxK < c.Pipeline.Clusters {
		return fmt.Errorf("config: pipeline.elbow_max_k (%d) must cover pipeline.clusters (%d)",
			c.Pipeline.ElbowMaxK, c.Pipeline.Clusters)
	}
	if c.Pipeline.Restarts < 1 {
		return fmt.Errorf("config: pipeline.restarts must be >= 1, got %d", c.Pipeline.Restarts)
	}
	if c.Pipeline.Neighbors < 1 {
		return fmt.Errorf("config: pipeline.neighbors must be >= 1, got %d", c.Pipeline.Neighbors)
	}
	if c.Pipeline.TestFraction <= 0 || c.Pipeline.TestFraction >= 1 {
		return fmt.Errorf("config: pipeline.test_fraction must be in (0,1), got %g", c.Pipeline.TestFraction)
	}
	if c.Server.Port < 0 || c.Server.Port > 65535 {
		return fmt.Errorf("config: server.port out of range: %d", c.Server.Port)
	}
	return nil
}
