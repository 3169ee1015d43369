package simulate

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"slices"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/mpapenbr/tyrestrat/log"
	"github.com/mpapenbr/tyrestrat/pkg/cmd/util"
	"github.com/mpapenbr/tyrestrat/pkg/config"
	"github.com/mpapenbr/tyrestrat/pkg/pipeline"
	"github.com/mpapenbr/tyrestrat/pkg/report"
)

var appConfig = config.DefaultConfig() // holds processed config values

var outputFormats = []string{"text", "json", "yaml"}

//nolint:funlen // by design
func NewSimulateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "simulate file.csv",
		Short: "computes stints, fits degradation models and scores pit strategies",
		Args:  cobra.ExactArgs(1),
		PreRunE: func(cmd *cobra.Command, args []string) error {
			if !slices.Contains(outputFormats, config.OutputFormat) {
				return fmt.Errorf("unknown output format %q", config.OutputFormat)
			}
			return appConfig.Validate()
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSimulation(cmd.Context(), args[0], cmd.OutOrStdout())
		},
	}
	cmd.Flags().IntVar(&appConfig.TotalLaps,
		"total-laps",
		config.DefaultTotalLaps,
		"number of race laps to simulate")
	cmd.Flags().Float64Var(&appConfig.PitLossSeconds,
		"pit-loss",
		config.DefaultPitLossSeconds,
		"time lost per pit stop (seconds)")
	cmd.Flags().Float64Var(&appConfig.TrackTemp,
		"track-temp",
		config.DefaultTrackTemp,
		"track temperature used for the strategy simulation")
	cmd.Flags().Float64Var(&appConfig.DefaultMediumStint,
		"default-medium-stint",
		config.DefaultMediumStint,
		"MEDIUM stint length used if the data contains no MEDIUM stint")
	cmd.Flags().Float64Var(&appConfig.DefaultHardStint,
		"default-hard-stint",
		config.DefaultHardStint,
		"HARD stint length used if the data contains no HARD stint")
	cmd.Flags().IntVar(&appConfig.MinFitSamples,
		"min-fit-samples",
		config.DefaultMinFitSamples,
		"minimum number of laps required to fit a compound model")
	cmd.Flags().Float64Var(&appConfig.MaxLapTime,
		"max-lap-time",
		config.DefaultMaxLapTime,
		"laps with a lap time (seconds) at or above this value are ignored")
	cmd.Flags().BoolVar(&appConfig.RankByScore,
		"rank",
		false,
		"sort strategies by predicted time loss")
	cmd.Flags().IntVar(&appConfig.Workers,
		"workers",
		config.DefaultWorkers,
		"concurrent workers for stint computation (0: unlimited)")
	cmd.Flags().IntVar(&appConfig.PlotMaxTyreAge,
		"plot-max-tyre-age",
		config.DefaultPlotMaxTyreAge,
		"max tyre age shown in the degradation plot")
	cmd.Flags().StringVarP(&config.OutputFormat,
		"output",
		"o",
		config.DefaultOutputFormat,
		"output format (text, json, yaml)")
	cmd.Flags().StringVar(&config.OutputQuery,
		"query",
		"",
		"JSONPath expression applied to json output")
	cmd.Flags().StringVar(&config.PlotFile,
		"plot",
		"",
		"write degradation curves to this PNG file")
	cmd.Flags().BoolVar(&config.Watch,
		"watch",
		false,
		"rerun the simulation whenever the input file changes (stop with Ctrl-C)")
	return cmd
}

func runSimulation(ctx context.Context, file string, out io.Writer) error {
	logger := util.SetupLogger().Named("simulate")
	ctx = log.AddToContext(ctx, logger)
	shutdown := util.SetupTelemetry(ctx)
	defer shutdown()

	logger.Debug("Config", log.Any("config", appConfig))
	if !config.Watch {
		return simulateOnce(ctx, file, out)
	}

	w, err := newFileWatcher(file, logger.Named("watch"))
	if err != nil {
		return fmt.Errorf("watch %s: %w", file, err)
	}
	if err := simulateOnce(ctx, file, out); err != nil {
		logger.Error("simulation failed", log.ErrorField(err))
	}
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()
	logger.Info("watching for changes", log.String("file", file))
	w.run(ctx, func() {
		logger.Info("input changed, running simulation", log.String("file", file))
		if err := simulateOnce(ctx, file, out); err != nil {
			logger.Error("simulation failed", log.ErrorField(err))
		}
	})
	return nil
}

func simulateOnce(ctx context.Context, file string, out io.Writer) error {
	logger := log.GetFromContext(ctx)
	data, err := util.LoadLaps(ctx, file, appConfig.MaxLapTime)
	if err != nil {
		return fmt.Errorf("load %s: %w", file, err)
	}
	res, err := pipeline.Run(ctx, data, appConfig)
	if err != nil {
		return err
	}
	if config.PlotFile != "" {
		if err := report.WritePlot(config.PlotFile, res.Model,
			appConfig.TrackTemp, appConfig.PlotMaxTyreAge); err != nil {
			logger.Error("could not write plot",
				log.String("file", config.PlotFile),
				log.ErrorField(err))
		} else {
			logger.Info("plot written", log.String("file", config.PlotFile))
		}
	}
	return write(out, res)
}

func write(out io.Writer, res *pipeline.Report) error {
	switch config.OutputFormat {
	case "json":
		return report.WriteJSON(out, res, config.OutputQuery)
	case "yaml":
		return report.WriteYAML(out, res)
	default:
		return report.WriteText(out, res)
	}
}
