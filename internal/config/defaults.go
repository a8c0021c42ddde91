package config

// Default values applied to unset fields.  Explicit configuration always wins.
const (
	DefaultInputPath = "data/processed/fleet_enriched.csv"
	DefaultOutputDir = "data/out"

	DefaultMinFleetSize  = 5
	DefaultClusters      = 4
	DefaultElbowMaxK     = 9
	DefaultRestarts      = 10
	DefaultMaxIterations = 300
	DefaultNeighbors     = 5
	DefaultTestFraction  = 0.2
	DefaultSeed          = 42

	DefaultServerPort = 8080
	DefaultServerMode = "release"

	DefaultLogLevel  = "info"
	DefaultLogFormat = "console"
)

// Default returns a fully populated configuration carrying every default.
func Default() *Config {
	cfg := &Config{}
	ApplyDefaults(cfg)
	return cfg
}

// ApplyDefaults fills every zero-value field in cfg with the pipeline default.
// It must be called after unmarshalling raw config data and before Validate()
// so that optional-but-defaulted fields are never seen as missing.
func ApplyDefaults(cfg *Config) {
	if cfg == nil {
		return
	}

	if cfg.Input.Path == "" {
		cfg.Input.Path = DefaultInputPath
	}
	if cfg.Output.Dir == "" {
		cfg.Output.Dir = DefaultOutputDir
	}

	if cfg.Pipeline.MinFleetSize == 0 {
		cfg.Pipeline.MinFleetSize = DefaultMinFleetSize
	}
	if cfg.Pipeline.Clusters == 0 {
		cfg.Pipeline.Clusters = DefaultClusters
	}
	if cfg.Pipeline.ElbowMaxK == 0 {
		cfg.Pipeline.ElbowMaxK = DefaultElbowMaxK
	}
	if cfg.Pipeline.Restarts == 0 {
		cfg.Pipeline.Restarts = DefaultRestarts
	}
	if cfg.Pipeline.MaxIterations == 0 {
		cfg.Pipeline.MaxIterations = DefaultMaxIterations
	}
	if cfg.Pipeline.Neighbors == 0 {
		cfg.Pipeline.Neighbors = DefaultNeighbors
	}
	if cfg.Pipeline.TestFraction == 0 {
		cfg.Pipeline.TestFraction = DefaultTestFraction
	}
	if cfg.Pipeline.Seed == 0 {
		cfg.Pipeline.Seed = DefaultSeed
	}

	if cfg.Server.Port == 0 {
		cfg.Server.Port = DefaultServerPort
	}
	if cfg.Server.Mode == "" {
		cfg.Server.Mode = DefaultServerMode
	}

	if cfg.Log.Level == "" {
		cfg.Log.Level = DefaultLogLevel
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = DefaultLogFormat
	}
}
