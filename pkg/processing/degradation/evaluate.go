package degradation

import (
	"math"

	"github.com/samber/lo"
	"gonum.org/v1/gonum/stat"

	"github.com/mpapenbr/tyrestrat/pkg/model"
	"github.com/mpapenbr/tyrestrat/pkg/racestints"
)

// Accuracy holds the mean absolute prediction error (seconds) per tracked compound
type Accuracy struct {
	Medium        float64 `json:"medium"`
	Hard          float64 `json:"hard"`
	MediumSamples int     `json:"mediumSamples"`
	HardSamples   int     `json:"hardSamples"`
}

// Evaluate replays the valid laps of compound through p and returns the
// mean absolute error between prediction and observed delta.
// If no lap qualifies 0.0 is returned.
//
//nolint:whitespace // can't make both editor and linter happy
func Evaluate(
	p racestints.Predictor, laps []model.LapObservation, compound model.Compound,
) (mae float64, samples int) {
	errs := lo.FilterMap(laps, func(l model.LapObservation, _ int) (float64, bool) {
		if l.Compound != compound || !l.IsModelSample() {
			return 0, false
		}
		pred := p.Predict(l.TyreAge, l.TrackTemp, l.Compound.String())
		return math.Abs(pred - l.TimeDelta), true
	})
	if len(errs) == 0 {
		return 0.0, 0
	}
	return stat.Mean(errs, nil), len(errs)
}

func EvaluateAll(p racestints.Predictor, laps []model.LapObservation) Accuracy {
	ret := Accuracy{}
	ret.Medium, ret.MediumSamples = Evaluate(p, laps, model.CompoundMedium)
	ret.Hard, ret.HardSamples = Evaluate(p, laps, model.CompoundHard)
	return ret
}
