package check

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/mpapenbr/tyrestrat/log"
	"github.com/mpapenbr/tyrestrat/pkg/cmd/util"
)

func NewCheckStateInoutlapCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "inout file.csv",
		Short: "check marker of in/out laps",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return checkInoutMarker(cmd.Context(), args[0])
		},
	}
	return cmd
}

func checkInoutMarker(ctx context.Context, file string) error {
	logger := util.SetupLogger().Named("check")
	data, err := util.LoadLaps(log.AddToContext(ctx, logger), file, maxLapTime)
	if err != nil {
		return err
	}
	for _, driver := range selectedDrivers(data) {
		laps := data[driver]
		numIn, numOut := 0, 0
		for i, l := range laps {
			if !l.IsPitAffected() {
				continue
			}
			if l.PitIn {
				numIn++
			}
			if l.PitOut {
				numOut++
			}
			fields := []log.Field{
				log.String("driver", driver),
				log.Int("lap", l.LapNumber),
				log.Bool("pitIn", l.PitIn),
				log.Bool("pitOut", l.PitOut),
				log.String("compound", l.Compound.String()),
			}
			// an in-lap should be followed by an out-lap
			if l.PitIn && (i+1 >= len(laps) || !laps[i+1].PitOut) {
				logger.Warn("in-lap without following out-lap", fields...)
				continue
			}
			logger.Info("marker", fields...)
		}
		logger.Info("driver summary", log.String("driver", driver),
			log.Int("inLaps", numIn), log.Int("outLaps", numOut))
	}
	return nil
}
