package degradation

import (
	"fmt"
	"math"

	"github.com/mpapenbr/tyrestrat/pkg/model"
)

const NumFeatures = 3

type (
	// Features are the regression inputs: tyre age, track temperature, tyre age squared
	Features [NumFeatures]float64

	// ModelState is either Fitted or Unavailable
	ModelState interface {
		isModelState()
		Compound() model.Compound
		NumSamples() int
	}
	// Fitted holds the coefficients of a linear regression with intercept
	Fitted struct {
		compound     model.Compound
		Intercept    float64
		Coefficients Features
		Samples      int
	}
	// Unavailable is used if no model could be fitted for a compound
	Unavailable struct {
		compound model.Compound
		Samples  int
		Reason   string
	}
)

func NewFeatures(tyreAge int, temp float64) Features {
	age := float64(tyreAge)
	return Features{age, temp, age * age}
}

func (f Fitted) isModelState()            {}
func (f Fitted) Compound() model.Compound { return f.compound }
func (f Fitted) NumSamples() int          { return f.Samples }

// Eval evaluates the regression without any floor
func (f Fitted) Eval(x Features) float64 {
	ret := f.Intercept
	for i := range x {
		ret += f.Coefficients[i] * x[i]
	}
	return ret
}

// Predict returns the predicted time delta, never below 0.0.
// Non-finite results are mapped to 0.0 as well.
func (f Fitted) Predict(tyreAge int, temp float64) float64 {
	v := f.Eval(NewFeatures(tyreAge, temp))
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0.0
	}
	return math.Max(0.0, v)
}

func (f Fitted) String() string {
	return fmt.Sprintf("%s: %.6f + %.6f*age + %.6f*temp + %.6f*age^2 (n=%d)",
		f.compound, f.Intercept,
		f.Coefficients[0], f.Coefficients[1], f.Coefficients[2], f.Samples)
}

func (u Unavailable) isModelState()            {}
func (u Unavailable) Compound() model.Compound { return u.compound }
func (u Unavailable) NumSamples() int          { return u.Samples }

func (u Unavailable) String() string {
	return fmt.Sprintf("%s: unavailable (n=%d, %s)", u.compound, u.Samples, u.Reason)
}
