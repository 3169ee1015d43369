package util

import (
	"context"
	"os"

	"github.com/mpapenbr/tyrestrat/log"
	"github.com/mpapenbr/tyrestrat/pkg/config"
	"github.com/mpapenbr/tyrestrat/pkg/loader"
	"github.com/mpapenbr/tyrestrat/pkg/model"
)

func ParseLogLevel(l string, defaultVal log.Level) log.Level {
	level, err := log.ParseLevel(l)
	if err != nil {
		return defaultVal
	}
	return level
}

// SetupLogger creates the logger according to the log flags and installs it as default
func SetupLogger() *log.Logger {
	var logger *log.Logger
	switch config.LogFormat {
	case "json":
		logger = log.New(
			os.Stderr,
			ParseLogLevel(config.LogLevel, log.InfoLevel),
			log.WithCaller(true),
			log.AddCallerSkip(1))
	default:
		logger = log.DevLogger(
			os.Stderr,
			ParseLogLevel(config.LogLevel, log.InfoLevel),
			log.WithCaller(true),
			log.AddCallerSkip(1))
	}
	if filtered, err := logger.WithFilter(config.LogFilter); err != nil {
		logger.Warn("invalid log filter, ignoring",
			log.String("filter", config.LogFilter),
			log.ErrorField(err))
	} else {
		logger = filtered
	}
	log.ResetDefault(logger)
	return logger
}

// SetupTelemetry enables telemetry if requested. The returned func must be
// called before the program terminates.
func SetupTelemetry(ctx context.Context) func() {
	if !config.EnableTelemetry {
		return func() {}
	}
	log.Info("Enabling telemetry", log.String("endpoint", config.TelemetryEndpoint))
	telemetry, err := config.SetupTelemetry(ctx)
	if err != nil {
		log.Warn("Could not setup telemetry", log.ErrorField(err))
		return func() {}
	}
	return telemetry.Shutdown
}

// LoadLaps reads the lap data from file
func LoadLaps(ctx context.Context, file string, maxLapTime float64) (model.DriverLaps, error) {
	ld := loader.New(
		loader.WithMaxLapTime(maxLapTime),
		loader.WithLogger(log.GetFromContext(ctx).Named("loader")))
	data, _, err := ld.LoadFile(ctx, file)
	return data, err
}
