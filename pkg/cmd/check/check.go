package check

import (
	"github.com/spf13/cobra"

	"github.com/mpapenbr/tyrestrat/pkg/config"
	"github.com/mpapenbr/tyrestrat/pkg/model"
	"github.com/mpapenbr/tyrestrat/pkg/processing/stint"
)

func NewCheckCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "check",
		Short: "commands to check lap data",
	}
	cmd.PersistentFlags().StringVar(&driverFilter, "driver", "",
		"restrict output to this driver")
	cmd.PersistentFlags().Float64Var(&maxLapTime, "max-lap-time",
		config.DefaultMaxLapTime,
		"laps with a lap time (seconds) at or above this value are ignored")
	cmd.PersistentFlags().Float64Var(&defaults.Medium, "default-medium-stint",
		config.DefaultMediumStint,
		"MEDIUM stint length used if the data contains no MEDIUM stint")
	cmd.PersistentFlags().Float64Var(&defaults.Hard, "default-hard-stint",
		config.DefaultHardStint,
		"HARD stint length used if the data contains no HARD stint")

	cmd.AddCommand(NewCheckStateInoutlapCmd())
	cmd.AddCommand(NewDisplayLapsCmd())
	cmd.AddCommand(NewDisplayStintsCmd())

	return cmd
}

var (
	driverFilter string
	maxLapTime   float64
	defaults     stint.Defaults
)

func selectedDrivers(data model.DriverLaps) []string {
	if driverFilter == "" {
		return data.Drivers()
	}
	if _, ok := data[driverFilter]; ok {
		return []string{driverFilter}
	}
	return []string{}
}
