package degradation

import (
	"fmt"

	"github.com/samber/lo"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"

	"github.com/mpapenbr/tyrestrat/pkg/model"
)

// singular values below rcond times the largest one are treated as zero
const rcond = 1e-10

// Fit fits an ordinary least squares regression of the time delta on
// [tyre age, track temp, tyre age^2] for the laps of the given compound.
// Pit affected laps and laps without valid delta are ignored.
// If less than minSamples laps remain, Unavailable is returned.
//
// The fit is solved via SVD on centered data. Rank deficient inputs (for example
// a constant track temperature) get the minimum norm solution.
func Fit(laps []model.LapObservation, compound model.Compound, minSamples int) ModelState {
	samples := lo.Filter(laps, func(l model.LapObservation, _ int) bool {
		return l.Compound == compound && l.IsModelSample()
	})
	n := len(samples)
	if n < minSamples || n == 0 {
		return Unavailable{
			compound: compound,
			Samples:  n,
			Reason:   fmt.Sprintf("need at least %d samples", minSamples),
		}
	}

	cols := make([][]float64, NumFeatures)
	for j := range cols {
		cols[j] = make([]float64, n)
	}
	y := make([]float64, n)
	for i := range samples {
		x := NewFeatures(samples[i].TyreAge, samples[i].TrackTemp)
		for j := range x {
			cols[j][i] = x[j]
		}
		y[i] = samples[i].TimeDelta
	}

	var means Features
	for j := range cols {
		means[j] = stat.Mean(cols[j], nil)
	}
	yMean := stat.Mean(y, nil)

	xc := mat.NewDense(n, NumFeatures, nil)
	yc := mat.NewVecDense(n, nil)
	for i := 0; i < n; i++ {
		for j := 0; j < NumFeatures; j++ {
			xc.Set(i, j, cols[j][i]-means[j])
		}
		yc.SetVec(i, y[i]-yMean)
	}

	var svd mat.SVD
	if ok := svd.Factorize(xc, mat.SVDThin); !ok {
		return Unavailable{compound: compound, Samples: n, Reason: "factorization failed"}
	}
	var coeffs Features
	if rank := svd.Rank(rcond); rank > 0 {
		var beta mat.VecDense
		svd.SolveVecTo(&beta, yc, rank)
		for j := range coeffs {
			coeffs[j] = beta.AtVec(j)
		}
	}
	intercept := yMean
	for j := range coeffs {
		intercept -= coeffs[j] * means[j]
	}
	return Fitted{
		compound:     compound,
		Intercept:    intercept,
		Coefficients: coeffs,
		Samples:      n,
	}
}
