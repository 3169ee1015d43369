package config

import (
	"errors"
	"fmt"
	"math"
)

// this holds the resolved configuration values from CLI
//
//nolint:lll // readablity
var (
	LogLevel          string // sets the log level (zap log level values)
	LogFormat         string // text vs json
	LogFilter         string // zapfilter rules, empty means no filtering
	EnableTelemetry   bool   // enable telemetry
	TelemetryEndpoint string // endpoint for telemetry ("stdout" uses the stdout exporters)
	OutputFormat      string // text, json or yaml
	OutputQuery       string // JSONPath applied to json output
	PlotFile          string // if set, degradation curves are written to this PNG file
	Watch             bool   // rerun the simulation whenever the input file changes
)

// default values for the simulation
const (
	DefaultTotalLaps         = 56
	DefaultPitLossSeconds    = 21.0
	DefaultTrackTemp         = 32.0
	DefaultMediumStint       = 14.0
	DefaultHardStint         = 42.0
	DefaultMinFitSamples     = 5
	DefaultMaxLapTime        = 300.0
	DefaultTelemetryEndpoint = "localhost:4317"
	DefaultOutputFormat      = "text"
	DefaultPlotMaxTyreAge    = 45
	DefaultWorkers           = 8
)

var ErrInvalidConfig = errors.New("invalid config")

// Config holds the configuration values which are used by the application
//
//nolint:lll // readability
type Config struct {
	TotalLaps          int     // number of laps of the race to simulate
	PitLossSeconds     float64 // time lost per pit stop
	TrackTemp          float64 // track temperature used for predictions during simulation
	DefaultMediumStint float64 // used if no MEDIUM stint was found in the data
	DefaultHardStint   float64 // used if no HARD stint was found in the data
	MinFitSamples      int     // minimum number of laps required to fit a compound model
	MaxLapTime         float64 // laps at or above this value (seconds) are dropped while loading
	RankByScore        bool    // if true, strategies are sorted by predicted loss
	PlotMaxTyreAge     int     // max tyre age shown in degradation plots
	Workers            int     // concurrent per-driver segmentation workers (<= 0: unlimited)
}

func DefaultConfig() Config {
	return Config{
		TotalLaps:          DefaultTotalLaps,
		PitLossSeconds:     DefaultPitLossSeconds,
		TrackTemp:          DefaultTrackTemp,
		DefaultMediumStint: DefaultMediumStint,
		DefaultHardStint:   DefaultHardStint,
		MinFitSamples:      DefaultMinFitSamples,
		MaxLapTime:         DefaultMaxLapTime,
		PlotMaxTyreAge:     DefaultPlotMaxTyreAge,
		Workers:            DefaultWorkers,
	}
}

//nolint:cyclop // simple checks
func (c *Config) Validate() error {
	finite := []struct {
		name string
		v    float64
	}{
		{"pit loss", c.PitLossSeconds},
		{"track temp", c.TrackTemp},
		{"default medium stint", c.DefaultMediumStint},
		{"default hard stint", c.DefaultHardStint},
		{"max lap time", c.MaxLapTime},
	}
	for _, f := range finite {
		if math.IsNaN(f.v) || math.IsInf(f.v, 0) {
			return fmt.Errorf("%w: %s must be finite, got %v", ErrInvalidConfig, f.name, f.v)
		}
	}
	switch {
	case c.TotalLaps < 1:
		return fmt.Errorf("%w: total laps must be positive, got %d", ErrInvalidConfig, c.TotalLaps)
	case c.PitLossSeconds < 0:
		return fmt.Errorf("%w: pit loss must not be negative, got %v",
			ErrInvalidConfig, c.PitLossSeconds)
	case c.TrackTemp <= 0:
		return fmt.Errorf("%w: track temp must be positive, got %v", ErrInvalidConfig, c.TrackTemp)
	case c.DefaultMediumStint <= 0 || c.DefaultHardStint <= 0:
		return fmt.Errorf("%w: default stint lengths must be positive", ErrInvalidConfig)
	case c.MinFitSamples < 1:
		return fmt.Errorf("%w: min fit samples must be positive, got %d",
			ErrInvalidConfig, c.MinFitSamples)
	case c.MaxLapTime <= 0:
		return fmt.Errorf("%w: max lap time must be positive, got %v", ErrInvalidConfig, c.MaxLapTime)
	}
	return nil
}
