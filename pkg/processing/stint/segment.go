package stint

import (
	"context"

	"github.com/samber/lo"
	"golang.org/x/sync/errgroup"

	"github.com/mpapenbr/tyrestrat/pkg/model"
)

// accumulator is the state carried while folding over the laps of a driver
type accumulator struct {
	stints   []model.Stint
	start    int            // lap number where the current stint started
	compound model.Compound // compound of the current stint
}

// Segment splits the laps of one driver (sorted by lap number) into stints.
// Every lap is member of exactly one stint.
//
// A stint ends at lap i if
//   - lap i is the last lap
//   - lap i is an in-lap
//   - lap i+1 is an out-lap
//   - lap i+1 uses a different compound (and is no out-lap).
//     This catches compound changes without pit markers.
func Segment(laps []model.LapObservation) []model.Stint {
	if len(laps) == 0 {
		return []model.Stint{}
	}
	init := accumulator{
		stints:   []model.Stint{},
		start:    laps[0].LapNumber,
		compound: laps[0].Compound,
	}
	return lo.Reduce(laps, func(acc accumulator, cur model.LapObservation, i int) accumulator {
		if !isBoundary(laps, i, acc.compound) {
			return acc
		}
		st := model.Stint{
			Driver:   cur.Driver,
			Compound: acc.compound,
			LapStart: acc.start,
			LapEnd:   cur.LapNumber,
		}
		if st.Laps() > 0 {
			acc.stints = append(acc.stints, st)
		}
		if i+1 < len(laps) {
			acc.start = laps[i+1].LapNumber
			acc.compound = laps[i+1].Compound
		}
		return acc
	}, init).stints
}

func isBoundary(laps []model.LapObservation, i int, compound model.Compound) bool {
	if i == len(laps)-1 || laps[i].PitIn {
		return true
	}
	next := laps[i+1]
	if next.PitOut {
		return true
	}
	return next.Compound != compound
}

// SegmentAll segments the laps of every driver.
// Drivers are processed concurrently, at most workers at a time (<= 0: no limit).
//
//nolint:whitespace // can't make both editor and linter happy
func SegmentAll(
	ctx context.Context, data model.DriverLaps, workers int,
) (map[string][]model.Stint, error) {
	drivers := data.Drivers()
	results := make([][]model.Stint, len(drivers))
	g, gCtx := errgroup.WithContext(ctx)
	if workers > 0 {
		g.SetLimit(workers)
	}
	for i, driver := range drivers {
		g.Go(func() error {
			if err := gCtx.Err(); err != nil {
				return err
			}
			results[i] = Segment(data[driver])
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	ret := make(map[string][]model.Stint, len(drivers))
	for i, driver := range drivers {
		ret[driver] = results[i]
	}
	return ret, nil
}
