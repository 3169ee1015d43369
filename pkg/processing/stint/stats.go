package stint

import (
	"slices"

	"github.com/samber/lo"

	"github.com/mpapenbr/tyrestrat/pkg/model"
)

type (
	// Defaults are used when no stint of a compound exists in the data
	Defaults struct {
		Medium float64
		Hard   float64
	}
	// Averages holds the mean stint length (laps) per tracked compound
	Averages struct {
		Medium float64 `json:"medium"`
		Hard   float64 `json:"hard"`
	}
	// Summary contains stint counts per compound, including untracked ones
	Summary struct {
		Stints     int
		ByCompound map[model.Compound]int
		Averages   Averages
	}
)

// AverageStintLengths computes the mean stint length of MEDIUM and HARD stints.
// Stints of other compounds are ignored.
func AverageStintLengths(stints map[string][]model.Stint, defaults Defaults) Averages {
	all := flatten(stints)
	return Averages{
		Medium: averageFor(all, model.CompoundMedium, defaults.Medium),
		Hard:   averageFor(all, model.CompoundHard, defaults.Hard),
	}
}

func Summarize(stints map[string][]model.Stint, defaults Defaults) *Summary {
	all := flatten(stints)
	return &Summary{
		Stints: len(all),
		ByCompound: lo.CountValuesBy(all, func(s model.Stint) model.Compound {
			return s.Compound
		}),
		Averages: AverageStintLengths(stints, defaults),
	}
}

func averageFor(all []model.Stint, compound model.Compound, defaultVal float64) float64 {
	matching := lo.Filter(all, func(s model.Stint, _ int) bool {
		return s.Compound == compound
	})
	if len(matching) == 0 {
		return defaultVal
	}
	sum := lo.SumBy(matching, func(s model.Stint) int { return s.Laps() })
	return float64(sum) / float64(len(matching))
}

// flatten returns the stints of all drivers, drivers in sorted order
func flatten(stints map[string][]model.Stint) []model.Stint {
	drivers := lo.Keys(stints)
	slices.Sort(drivers)
	ret := make([]model.Stint, 0)
	for _, d := range drivers {
		ret = append(ret, stints[d]...)
	}
	return ret
}
