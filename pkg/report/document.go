package report

import (
	"github.com/shopspring/decimal"

	"github.com/mpapenbr/tyrestrat/pkg/pipeline"
	"github.com/mpapenbr/tyrestrat/pkg/processing/degradation"
)

// precision (decimal places) used for seconds in reports
const precision = 3

// Document converts the report into generic data (maps, slices, basic types)
// which can be rendered by the json and yaml writers.
//
//nolint:funlen // by design
func Document(r *pipeline.Report) map[string]any {
	byCompound := map[string]any{}
	for c, n := range r.Summary.ByCompound {
		byCompound[c.String()] = n
	}
	models := []any{}
	for _, s := range r.Model.States() {
		entry := map[string]any{
			"compound": s.Compound().String(),
			"samples":  s.NumSamples(),
		}
		switch v := s.(type) {
		case degradation.Fitted:
			entry["available"] = true
			entry["intercept"] = v.Intercept
			entry["coefficients"] = []any{
				v.Coefficients[0], v.Coefficients[1], v.Coefficients[2],
			}
		case degradation.Unavailable:
			entry["available"] = false
			entry["reason"] = v.Reason
		}
		models = append(models, entry)
	}
	strategies := []any{}
	for _, res := range r.Strategies.Results {
		stints := []any{}
		for _, sp := range res.Stints() {
			stints = append(stints, map[string]any{
				"compound": sp.Compound().String(),
				"laps":     sp.Laps(),
				"lapStart": sp.LapStart(),
				"lapEnd":   sp.LapEnd(),
				"loss":     seconds(sp.Loss()),
			})
		}
		strategies = append(strategies, map[string]any{
			"name":      res.Name,
			"totalLoss": seconds(res.TotalLoss),
			"stops":     res.Stops,
			"stints":    stints,
		})
	}
	rejected := []any{}
	for _, rej := range r.Strategies.Rejected {
		rejected = append(rejected, map[string]any{"name": rej.Name, "reason": rej.Reason})
	}
	return map[string]any{
		"runId":   r.RunID,
		"drivers": r.Drivers,
		"laps":    r.Laps,
		"stints": map[string]any{
			"count":      r.Summary.Stints,
			"byCompound": byCompound,
			"averages": map[string]any{
				"medium": r.Averages.Medium,
				"hard":   r.Averages.Hard,
			},
		},
		"models": models,
		"accuracy": map[string]any{
			"medium":        seconds(r.Accuracy.Medium),
			"hard":          seconds(r.Accuracy.Hard),
			"mediumSamples": r.Accuracy.MediumSamples,
			"hardSamples":   r.Accuracy.HardSamples,
		},
		"params": map[string]any{
			"totalLaps":      r.Config.TotalLaps,
			"pitLossSeconds": r.Config.PitLossSeconds,
			"trackTemp":      r.Config.TrackTemp,
			"rankByScore":    r.Config.RankByScore,
		},
		"strategies": strategies,
		"rejected":   rejected,
	}
}

func seconds(v float64) float64 {
	return decimal.NewFromFloat(v).Round(precision).InexactFloat64()
}

func fixed(v float64, places int32) string {
	return decimal.NewFromFloat(v).StringFixed(places)
}
