package check

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/mpapenbr/tyrestrat/log"
	"github.com/mpapenbr/tyrestrat/pkg/cmd/util"
)

func NewDisplayLapsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "laps file.csv",
		Short: "display loaded laps",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return displayLaps(cmd.Context(), args[0])
		},
	}
	return cmd
}

func displayLaps(ctx context.Context, file string) error {
	logger := util.SetupLogger().Named("check")
	logger.Info("display laps")
	data, err := util.LoadLaps(log.AddToContext(ctx, logger), file, maxLapTime)
	if err != nil {
		return err
	}
	logger.Info("got laps: ", log.Int("count", data.NumLaps()))
	for _, driver := range selectedDrivers(data) {
		for _, l := range data[driver] {
			logger.Info("lap", log.String("driver", driver),
				log.Int("lap", l.LapNumber),
				log.String("compound", l.Compound.String()),
				log.Int("tyreAge", l.TyreAge),
				log.Float64("lapTime", l.LapTime),
				log.Float64("delta", l.TimeDelta),
				log.Bool("pitIn", l.PitIn),
				log.Bool("pitOut", l.PitOut))
		}
	}
	return nil
}
