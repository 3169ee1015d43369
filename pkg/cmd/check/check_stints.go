package check

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/mpapenbr/tyrestrat/log"
	"github.com/mpapenbr/tyrestrat/pkg/cmd/util"
	"github.com/mpapenbr/tyrestrat/pkg/config"
	"github.com/mpapenbr/tyrestrat/pkg/model"
	"github.com/mpapenbr/tyrestrat/pkg/processing/stint"
)

func NewDisplayStintsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "stints file.csv",
		Short: "display stints computed from lap data",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return displayStints(cmd.Context(), args[0])
		},
	}
	return cmd
}

func displayStints(ctx context.Context, file string) error {
	logger := util.SetupLogger().Named("check")
	ctx = log.AddToContext(ctx, logger)
	data, err := util.LoadLaps(ctx, file, maxLapTime)
	if err != nil {
		return err
	}
	stints, summary, err := summarizeStints(ctx, data)
	if err != nil {
		return err
	}
	for _, driver := range selectedDrivers(data) {
		for i, s := range stints[driver] {
			logger.Info("stint", log.String("driver", driver),
				log.Int("idx", i),
				log.String("compound", s.Compound.String()),
				log.Int("lapStart", s.LapStart),
				log.Int("lapEnd", s.LapEnd),
				log.Int("laps", s.Laps()))
		}
	}
	logger.Info("summary",
		log.Int("stints", summary.Stints),
		log.Any("byCompound", summary.ByCompound),
		log.Float64("avgMedium", summary.Averages.Medium),
		log.Float64("avgHard", summary.Averages.Hard))
	return nil
}

// summarizeStints segments the laps and computes the summary with the
// default stint lengths from the flags
//
//nolint:whitespace // can't make both editor and linter happy
func summarizeStints(ctx context.Context, data model.DriverLaps) (
	map[string][]model.Stint, *stint.Summary, error,
) {
	stints, err := stint.SegmentAll(ctx, data, config.DefaultWorkers)
	if err != nil {
		return nil, nil, err
	}
	return stints, stint.Summarize(stints, defaults), nil
}
