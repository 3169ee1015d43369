package racestints

import (
	"errors"

	"github.com/mpapenbr/tyrestrat/pkg/model"
)

type (
	PartType   int
	CalcStints interface {
		Calc() (*Result, error)
	}
	// Predictor predicts the time lost on a lap compared to a fresh tyre at best pace
	Predictor interface {
		Predict(tyreAge int, temp float64, compound string) float64
	}
	Part interface {
		Type() PartType
		Output() string
	}
	StintPart interface {
		Part
		Compound() model.Compound
		Laps() int
		LapStart() int
		LapEnd() int
		Loss() float64 // predicted degradation loss in seconds
	}
	PitPart interface {
		Part
		PitLoss() float64 // seconds
	}
	Result struct {
		Name      string
		Parts     []Part
		TotalLoss float64 // degradation of all stints plus pit losses, seconds
		Stops     int
	}
	// Params describe the race to simulate
	Params struct {
		TotalLaps int     // laps of the race
		PitLoss   float64 // seconds lost per pit stop
		TrackTemp float64 // track temperature used for predictions
		AvgMedium float64 // average MEDIUM stint length in laps
		AvgHard   float64 // average HARD stint length in laps
	}
)

const (
	PartTypeStint PartType = iota
	PartTypePit
)

// ErrRejected is returned for strategies whose stint lengths are not usable
var ErrRejected = errors.New("strategy rejected")

// Stints returns the stint parts of the result
func (r *Result) Stints() []StintPart {
	ret := make([]StintPart, 0, len(r.Parts))
	for _, p := range r.Parts {
		if sp, ok := p.(StintPart); ok {
			ret = append(ret, sp)
		}
	}
	return ret
}
