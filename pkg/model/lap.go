package model

import (
	"math"
	"slices"

	"github.com/samber/lo"
)

// LapObservation holds the validated data of a single lap of a driver.
// Values are not modified once the loader has computed the TimeDelta.
type LapObservation struct {
	Driver    string   `json:"driver"`
	LapNumber int      `json:"lapNumber"`
	Compound  Compound `json:"compound"`
	TyreAge   int      `json:"tyreAge"`   // laps completed on the current tyre set
	LapTime   float64  `json:"lapTime"`   // unit: seconds
	TrackTemp float64  `json:"trackTemp"` // unit: celsius
	TimeDelta float64  `json:"timeDelta"` // LapTime minus the driver's best non-pit lap
	PitOut    bool     `json:"pitOut"`    // lap follows a pit stop
	PitIn     bool     `json:"pitIn"`     // lap precedes a pit stop
}

// DriverLaps maps a driver to its laps sorted by lap number
type DriverLaps map[string][]LapObservation

func (l *LapObservation) IsPitAffected() bool {
	return l.PitIn || l.PitOut
}

func (l *LapObservation) HasValidDelta() bool {
	return !math.IsNaN(l.TimeDelta) && !math.IsInf(l.TimeDelta, 0)
}

// IsModelSample reports if the lap may be used to train or evaluate degradation models
func (l *LapObservation) IsModelSample() bool {
	return !l.IsPitAffected() && l.HasValidDelta()
}

// Drivers returns the driver identifiers in sorted order
func (d DriverLaps) Drivers() []string {
	ret := lo.Keys(d)
	slices.Sort(ret)
	return ret
}

// All returns the laps of all drivers, drivers in sorted order
func (d DriverLaps) All() []LapObservation {
	ret := make([]LapObservation, 0, d.NumLaps())
	for _, driver := range d.Drivers() {
		ret = append(ret, d[driver]...)
	}
	return ret
}

func (d DriverLaps) NumLaps() int {
	return lo.SumBy(lo.Values(d), func(laps []LapObservation) int { return len(laps) })
}
