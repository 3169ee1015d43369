//nolint:funlen // ok for tests
package degradation

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mpapenbr/tyrestrat/pkg/model"
	"github.com/mpapenbr/tyrestrat/testsupport/basedata"
)

const (
	med  = model.CompoundMedium
	hard = model.CompoundHard
)

// quadraticLaps returns n clean laps (tyre age 1..n) with delta 0.05*age^2
func quadraticLaps(c model.Compound, n int) []model.LapObservation {
	ret := make([]model.LapObservation, 0, n)
	for age := 1; age <= n; age++ {
		ret = append(ret, basedata.Lap("D", age, c,
			basedata.WithTyreAge(age),
			basedata.WithDelta(basedata.QuadraticDelta(age))))
	}
	return ret
}

func TestFitInsufficientData(t *testing.T) {
	tests := []struct {
		name    string
		laps    []model.LapObservation
		samples int
	}{
		{"no laps", []model.LapObservation{}, 0},
		{"four laps", quadraticLaps(med, 4), 4},
		{"other compound only", quadraticLaps(hard, 20), 0},
		{
			name: "pit laps excluded",
			laps: append(quadraticLaps(med, 4),
				basedata.Lap("D", 5, med, basedata.WithPitIn(), basedata.WithDelta(1)),
				basedata.Lap("D", 6, med, basedata.WithPitOut(), basedata.WithDelta(1))),
			samples: 4,
		},
		{
			name: "invalid deltas excluded",
			laps: append(quadraticLaps(med, 4),
				basedata.Lap("D", 5, med, basedata.WithDelta(math.Inf(-1))),
				basedata.Lap("D", 6, med, basedata.WithDelta(math.NaN()))),
			samples: 4,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Fit(tt.laps, med, 5)
			u, ok := got.(Unavailable)
			require.True(t, ok, "expected Unavailable, got %v", got)
			assert.Equal(t, tt.samples, u.Samples)
			assert.Equal(t, med, u.Compound())
		})
	}
}

func TestFitMinimumSamples(t *testing.T) {
	got := Fit(quadraticLaps(med, 5), med, 5)
	f, ok := got.(Fitted)
	require.True(t, ok)
	assert.Equal(t, 5, f.NumSamples())
}

func TestFitQuadraticConstantTemp(t *testing.T) {
	got := Fit(quadraticLaps(med, 20), med, 5)
	f, ok := got.(Fitted)
	require.True(t, ok)
	for age := 1; age <= 30; age++ {
		assert.InDelta(t, basedata.QuadraticDelta(age), f.Predict(age, 30), 1e-6, "age %d", age)
	}
	// constant temperature contributes nothing
	assert.InDelta(t, 0.0, f.Coefficients[1], 1e-9)
	assert.InDelta(t, 0.05, f.Coefficients[2], 1e-9)
	assert.InDelta(t, 0.0, f.Coefficients[0], 1e-9)
}

func TestFitRecoversCoefficients(t *testing.T) {
	laps := []model.LapObservation{}
	for i := 1; i <= 40; i++ {
		age := 1 + (i-1)%25
		temp := 25.0 + float64((i*7)%11)
		delta := 0.4 + 0.1*float64(age) + 0.02*temp + 0.01*float64(age*age)
		laps = append(laps, basedata.Lap("D", i, hard,
			basedata.WithTyreAge(age), basedata.WithTemp(temp), basedata.WithDelta(delta)))
	}
	got := Fit(laps, hard, 5)
	f, ok := got.(Fitted)
	require.True(t, ok)
	assert.InDelta(t, 0.4, f.Intercept, 1e-6)
	assert.InDelta(t, 0.1, f.Coefficients[0], 1e-6)
	assert.InDelta(t, 0.02, f.Coefficients[1], 1e-6)
	assert.InDelta(t, 0.01, f.Coefficients[2], 1e-6)
	assert.Equal(t, 40, f.Samples)
}

func TestFitDeterministic(t *testing.T) {
	laps := basedata.SampleRaceForModel().All()
	first := Fit(laps, med, 5)
	second := Fit(laps, med, 5)
	assert.Equal(t, first, second)
}

func TestFittedPredictFloor(t *testing.T) {
	f := Fitted{compound: med, Intercept: 1.0, Coefficients: Features{-0.5, 0, 0}}
	assert.InDelta(t, 0.5, f.Predict(1, 30), 1e-12)
	assert.Equal(t, 0.0, f.Predict(2, 30))
	assert.Equal(t, 0.0, f.Predict(10, 30))
	assert.InDelta(t, -4.0, f.Eval(NewFeatures(10, 30)), 1e-12)

	nan := Fitted{compound: med, Intercept: math.NaN()}
	assert.Equal(t, 0.0, nan.Predict(1, 30))
	inf := Fitted{compound: med, Intercept: math.Inf(1)}
	assert.Equal(t, 0.0, inf.Predict(1, 30))
}

func TestNewFeatures(t *testing.T) {
	assert.Equal(t, Features{3, 28.5, 9}, NewFeatures(3, 28.5))
}
