package loader

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"slices"
	"strconv"
	"strings"

	"github.com/samber/lo"

	"github.com/mpapenbr/tyrestrat/log"
	"github.com/mpapenbr/tyrestrat/pkg/config"
	"github.com/mpapenbr/tyrestrat/pkg/model"
)

// column names of the telemetry export
const (
	ColDriver    = "Driver"
	ColLapNumber = "LapNumber"
	ColCompound  = "Compound_lap"
	ColTyreLife  = "TyreLife"
	ColLapTime   = "LapTimeSeconds_lap"
	ColTrackTemp = "TrackTemp"
	ColPitOut    = "PitOutTime"
	ColPitIn     = "PitInTime"
)

var (
	ErrNoData        = errors.New("no valid lap data found")
	ErrMissingColumn = errors.New("missing column")
)

var requiredColumns = []string{
	ColDriver, ColLapNumber, ColCompound, ColTyreLife, ColLapTime, ColTrackTemp,
}

type (
	Option func(*Loader)
	Loader struct {
		maxLapTime float64
		l          *log.Logger
	}
	// Stats describes the outcome of a load
	Stats struct {
		Rows     int // data rows read (header excluded)
		Accepted int
		Rejected int
		Drivers  int
	}
	columns map[string]int
)

func WithMaxLapTime(arg float64) Option {
	return func(l *Loader) {
		l.maxLapTime = arg
	}
}

func WithLogger(arg *log.Logger) Option {
	return func(l *Loader) {
		l.l = arg
	}
}

func New(opts ...Option) *Loader {
	ret := &Loader{
		maxLapTime: config.DefaultMaxLapTime,
		l:          log.Default().Named("loader"),
	}
	for _, opt := range opts {
		opt(ret)
	}
	return ret
}

// LoadFile reads the laps from the CSV file at path
//
//nolint:whitespace // can't make both editor and linter happy
func (ld *Loader) LoadFile(ctx context.Context, path string) (
	model.DriverLaps, *Stats, error,
) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, fmt.Errorf("open lap data: %w", err)
	}
	defer f.Close()
	return ld.Load(ctx, f)
}

// Load reads laps from r, drops implausible rows, groups the laps per driver
// sorted by lap number and computes the time delta for each lap.
//
//nolint:whitespace,funlen // can't make both editor and linter happy
func (ld *Loader) Load(ctx context.Context, r io.Reader) (
	model.DriverLaps, *Stats, error,
) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true
	header, err := reader.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, nil, ErrNoData
		}
		return nil, nil, fmt.Errorf("read header: %w", err)
	}
	cols, err := newColumns(header)
	if err != nil {
		return nil, nil, err
	}
	stats := &Stats{}
	unsorted := make(model.DriverLaps)
	for {
		if err := ctx.Err(); err != nil {
			return nil, nil, err
		}
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, nil, fmt.Errorf("read row %d: %w", stats.Rows+1, err)
		}
		stats.Rows++
		lap, reason := ld.parseRecord(cols, record)
		if reason != "" {
			stats.Rejected++
			ld.l.Debug("row rejected",
				log.Int("row", stats.Rows),
				log.String("reason", reason))
			continue
		}
		stats.Accepted++
		unsorted[lap.Driver] = append(unsorted[lap.Driver], lap)
	}
	if stats.Accepted == 0 {
		return nil, stats, ErrNoData
	}
	ret := make(model.DriverLaps, len(unsorted))
	for driver, laps := range unsorted {
		ret[driver] = withTimeDelta(laps)
	}
	stats.Drivers = len(ret)
	ld.l.Info("lap data loaded",
		log.Int("rows", stats.Rows),
		log.Int("accepted", stats.Accepted),
		log.Int("rejected", stats.Rejected),
		log.Int("drivers", stats.Drivers))
	return ret, stats, nil
}

// withTimeDelta sorts the laps by lap number and sets the delta against the
// best non-pit lap. If no such lap exists the delta is not finite.
func withTimeDelta(laps []model.LapObservation) []model.LapObservation {
	slices.SortStableFunc(laps, func(a, b model.LapObservation) int {
		return a.LapNumber - b.LapNumber
	})
	best := math.Inf(1)
	for i := range laps {
		if !laps[i].IsPitAffected() && laps[i].LapTime < best {
			best = laps[i].LapTime
		}
	}
	return lo.Map(laps, func(l model.LapObservation, _ int) model.LapObservation {
		l.TimeDelta = l.LapTime - best
		return l
	})
}

func newColumns(header []string) (columns, error) {
	ret := make(columns, len(header))
	for i, h := range header {
		// some exports carry a BOM in the first header cell
		ret[strings.TrimPrefix(strings.TrimSpace(h), "\ufeff")] = i
	}
	for _, c := range requiredColumns {
		if _, ok := ret[c]; !ok {
			return nil, fmt.Errorf("%w: %s", ErrMissingColumn, c)
		}
	}
	return ret, nil
}

func (c columns) get(record []string, name string) string {
	idx, ok := c[name]
	if !ok || idx >= len(record) {
		return ""
	}
	return strings.TrimSpace(record[idx])
}

// parseRecord returns the lap and an empty string or the reason why the row is rejected
//
//nolint:cyclop,whitespace // readability
func (ld *Loader) parseRecord(cols columns, record []string) (
	lap model.LapObservation, reason string,
) {
	number := func(name string) (float64, bool) {
		v, err := strconv.ParseFloat(cols.get(record, name), 64)
		if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
			return 0, false
		}
		return v, true
	}
	driver := cols.get(record, ColDriver)
	compound := cols.get(record, ColCompound)
	if driver == "" || compound == "" {
		return lap, "missing driver or compound"
	}
	lapNo, ok1 := number(ColLapNumber)
	tyreLife, ok2 := number(ColTyreLife)
	lapTime, ok3 := number(ColLapTime)
	trackTemp, ok4 := number(ColTrackTemp)
	switch {
	case !ok1 || !ok2 || !ok3 || !ok4:
		return lap, "invalid number"
	case lapTime <= 0 || lapTime >= ld.maxLapTime:
		return lap, "lap time out of range"
	case trackTemp <= 0:
		return lap, "track temp out of range"
	case tyreLife < 0:
		return lap, "negative tyre life"
	case lapNo < 1:
		return lap, "lap number out of range"
	}
	return model.LapObservation{
		Driver:    driver,
		LapNumber: int(math.Round(lapNo)),
		Compound:  model.ParseCompound(compound),
		TyreAge:   int(math.Round(tyreLife)),
		LapTime:   lapTime,
		TrackTemp: trackTemp,
		PitOut:    cols.get(record, ColPitOut) != "",
		PitIn:     cols.get(record, ColPitIn) != "",
	}, ""
}
