package basedata

import (
	"fmt"
	"strings"

	"github.com/mpapenbr/tyrestrat/pkg/model"
)

type (
	LapOption func(l *model.LapObservation)
	// StintPlan describes a stint used to build synthetic lap sequences
	StintPlan struct {
		Compound model.Compound
		Laps     int
	}
)

func WithPitIn() LapOption {
	return func(l *model.LapObservation) {
		l.PitIn = true
	}
}

func WithPitOut() LapOption {
	return func(l *model.LapObservation) {
		l.PitOut = true
	}
}

func WithDelta(arg float64) LapOption {
	return func(l *model.LapObservation) {
		l.TimeDelta = arg
		l.LapTime = 90.0 + arg
	}
}

func WithTemp(arg float64) LapOption {
	return func(l *model.LapObservation) {
		l.TrackTemp = arg
	}
}

func WithTyreAge(arg int) LapOption {
	return func(l *model.LapObservation) {
		l.TyreAge = arg
	}
}

func Lap(driver string, lapNo int, compound model.Compound, opts ...LapOption) model.LapObservation {
	ret := model.LapObservation{
		Driver:    driver,
		LapNumber: lapNo,
		Compound:  compound,
		TyreAge:   1,
		LapTime:   90.0,
		TrackTemp: 30.0,
	}
	for _, opt := range opts {
		opt(&ret)
	}
	return ret
}

// DriverRace builds a lap sequence starting at lap 1. Each stint after the first
// starts with an out-lap, each stint before the last ends with an in-lap.
// The delta grows with 0.05*age^2.
func DriverRace(driver string, stints ...StintPlan) []model.LapObservation {
	ret := []model.LapObservation{}
	lapNo := 1
	for i, s := range stints {
		for age := 1; age <= s.Laps; age++ {
			opts := []LapOption{
				WithTyreAge(age),
				WithDelta(QuadraticDelta(age)),
			}
			if i > 0 && age == 1 {
				opts = append(opts, WithPitOut())
			}
			if i < len(stints)-1 && age == s.Laps {
				opts = append(opts, WithPitIn())
			}
			ret = append(ret, Lap(driver, lapNo, s.Compound, opts...))
			lapNo++
		}
	}
	return ret
}

// QuadraticDelta is the synthetic degradation used by DriverRace
func QuadraticDelta(tyreAge int) float64 {
	return 0.05 * float64(tyreAge) * float64(tyreAge)
}

// SampleRace returns two drivers:
// A: MEDIUM 5 laps, HARD 4 laps; B: MEDIUM 3 laps, HARD 2 laps.
func SampleRace() model.DriverLaps {
	return model.DriverLaps{
		"A": DriverRace("A",
			StintPlan{model.CompoundMedium, 5}, StintPlan{model.CompoundHard, 4}),
		"B": DriverRace("B",
			StintPlan{model.CompoundMedium, 3}, StintPlan{model.CompoundHard, 2}),
	}
}

// SampleRaceForModel returns enough clean laps to fit MEDIUM and HARD models
func SampleRaceForModel() model.DriverLaps {
	return model.DriverLaps{
		"VER": DriverRace("VER",
			StintPlan{model.CompoundMedium, 14}, StintPlan{model.CompoundHard, 42}),
		"HAM": DriverRace("HAM",
			StintPlan{model.CompoundMedium, 16}, StintPlan{model.CompoundHard, 40}),
		"LEC": DriverRace("LEC",
			StintPlan{model.CompoundHard, 30}, StintPlan{model.CompoundMedium, 26}),
	}
}

// CSV renders laps in the format expected by the loader
func CSV(laps ...model.LapObservation) string {
	var sb strings.Builder
	sb.WriteString("Driver,LapNumber,Compound_lap,TyreLife,LapTimeSeconds_lap,TrackTemp,PitOutTime,PitInTime\n")
	for _, l := range laps {
		pitOut, pitIn := "", ""
		if l.PitOut {
			pitOut = "0 days 01:02:03.456"
		}
		if l.PitIn {
			pitIn = "0 days 01:00:59.123"
		}
		fmt.Fprintf(&sb, "%s,%d.0,%s,%d.0,%.3f,%.1f,%s,%s\n",
			l.Driver, l.LapNumber, strings.ToLower(l.Compound.String()), l.TyreAge,
			l.LapTime, l.TrackTemp, pitOut, pitIn)
	}
	return sb.String()
}
