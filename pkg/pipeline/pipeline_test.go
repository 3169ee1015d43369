package pipeline

import (
	"context"
	"math"
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"

	"github.com/mpapenbr/tyrestrat/pkg/config"
	"github.com/mpapenbr/tyrestrat/pkg/model"
	"github.com/mpapenbr/tyrestrat/pkg/processing/degradation"
	"github.com/mpapenbr/tyrestrat/pkg/processing/stint"
	"github.com/mpapenbr/tyrestrat/pkg/racestints"
	"github.com/mpapenbr/tyrestrat/testsupport/basedata"
)

// sumQuadratic returns the sum of QuadraticDelta over tyre age 1..n
func sumQuadratic(n int) float64 {
	ret := 0.0
	for age := 1; age <= n; age++ {
		ret += basedata.QuadraticDelta(age)
	}
	return ret
}

func TestRun(t *testing.T) {
	r, err := Run(context.Background(), basedata.SampleRaceForModel(), config.DefaultConfig())
	require.NoError(t, err)

	assert.NotEmpty(t, r.RunID)
	assert.Equal(t, 3, r.Drivers)
	assert.Equal(t, 3*56, r.Laps)
	assert.Equal(t, 6, r.Summary.Stints)
	assert.InDelta(t, (14.0+16+26)/3, r.Averages.Medium, 1e-12)
	assert.InDelta(t, (42.0+40+30)/3, r.Averages.Hard, 1e-12)
	assert.Equal(t, []model.Stint{
		{Driver: "LEC", Compound: model.CompoundHard, LapStart: 1, LapEnd: 30},
		{Driver: "LEC", Compound: model.CompoundMedium, LapStart: 31, LapEnd: 56},
	}, r.Stints["LEC"])

	for _, s := range r.Model.States() {
		assert.IsType(t, degradation.Fitted{}, s)
	}
	assert.InDelta(t, 0.0, r.Accuracy.Medium, 1e-6)
	assert.InDelta(t, 0.0, r.Accuracy.Hard, 1e-6)

	// avg medium 18.67 -> 19 laps, avg hard 37.33 -> 37 laps
	require.Len(t, r.Strategies.Results, 5)
	assert.Empty(t, r.Strategies.Rejected)
	mh := r.Strategies.Results[0]
	assert.Equal(t, "1S (M-H)", mh.Name)
	assert.InDelta(t, sumQuadratic(19)+21+sumQuadratic(37), mh.TotalLoss, 1e-6)
	hmm := r.Strategies.Results[4]
	assert.Equal(t, "2S (H-M-M)", hmm.Name)
	assert.InDelta(t, sumQuadratic(37)+21+sumQuadratic(9)+21+sumQuadratic(10), hmm.TotalLoss, 1e-6)
}

func TestRunRankByScore(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.RankByScore = true
	r, err := Run(context.Background(), basedata.SampleRaceForModel(), cfg)
	require.NoError(t, err)
	require.NotEmpty(t, r.Strategies.Results)
	assert.True(t, slices.IsSortedFunc(r.Strategies.Results, func(a, b *racestints.Result) int {
		switch {
		case a.TotalLoss < b.TotalLoss:
			return -1
		case a.TotalLoss > b.TotalLoss:
			return 1
		}
		return 0
	}))
}

func TestRunDeterministic(t *testing.T) {
	data := basedata.SampleRaceForModel()
	first, err := Run(context.Background(), data, config.DefaultConfig())
	require.NoError(t, err)
	second, err := Run(context.Background(), data, config.DefaultConfig())
	require.NoError(t, err)

	assert.NotEqual(t, first.RunID, second.RunID)
	assert.Equal(t, first.Averages, second.Averages)
	assert.Equal(t, first.Stints, second.Stints)
	assert.Equal(t, first.Model.States(), second.Model.States())
	assert.Equal(t, first.Accuracy, second.Accuracy)
	assert.Equal(t, first.Strategies, second.Strategies)
}

func TestRunDefaultsWithoutStints(t *testing.T) {
	// only HARD laps: medium average falls back to the configured default
	data := model.DriverLaps{
		"VER": basedata.DriverRace("VER", basedata.StintPlan{Compound: model.CompoundHard, Laps: 20}),
	}
	cfg := config.DefaultConfig()
	cfg.DefaultMediumStint = 10
	r, err := Run(context.Background(), data, cfg)
	require.NoError(t, err)
	assert.Equal(t, stint.Averages{Medium: 10, Hard: 20}, r.Averages)
	assert.IsType(t, degradation.Unavailable{}, r.Model.State(model.CompoundMedium))
	assert.IsType(t, degradation.Fitted{}, r.Model.State(model.CompoundHard))
}

func TestRunErrors(t *testing.T) {
	invalid := config.DefaultConfig()
	invalid.TotalLaps = 0
	nanPitLoss := config.DefaultConfig()
	nanPitLoss.PitLossSeconds = math.NaN()
	infTemp := config.DefaultConfig()
	infTemp.TrackTemp = math.Inf(1)
	tests := []struct {
		name    string
		data    model.DriverLaps
		cfg     config.Config
		wantErr error
	}{
		{"no data", model.DriverLaps{}, config.DefaultConfig(), ErrNoData},
		{"nil data", nil, config.DefaultConfig(), ErrNoData},
		{
			"too few laps for any model",
			model.DriverLaps{"VER": basedata.DriverRace("VER",
				basedata.StintPlan{Compound: model.CompoundMedium, Laps: 3},
				basedata.StintPlan{Compound: model.CompoundHard, Laps: 3})},
			config.DefaultConfig(),
			ErrNoModel,
		},
		{
			"only untracked compounds",
			model.DriverLaps{"VER": basedata.DriverRace("VER",
				basedata.StintPlan{Compound: model.CompoundSoft, Laps: 30})},
			config.DefaultConfig(),
			ErrNoModel,
		},
		{"invalid config", basedata.SampleRace(), invalid, config.ErrInvalidConfig},
		{"nan pit loss", basedata.SampleRaceForModel(), nanPitLoss, config.ErrInvalidConfig},
		{"inf track temp", basedata.SampleRaceForModel(), infTemp, config.ErrInvalidConfig},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, err := Run(context.Background(), tt.data, tt.cfg)
			assert.ErrorIs(t, err, tt.wantErr)
			assert.Nil(t, r)
		})
	}
}

func TestRunCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	r, err := Run(ctx, basedata.SampleRaceForModel(), config.DefaultConfig())
	assert.ErrorIs(t, err, context.Canceled)
	assert.Nil(t, r)
}

// cancelOnSpan cancels a context as soon as a span with the given name starts
type cancelOnSpan struct {
	name   string
	cancel context.CancelFunc
}

func (c cancelOnSpan) OnStart(_ context.Context, s sdktrace.ReadWriteSpan) {
	if s.Name() == c.name {
		c.cancel()
	}
}
func (c cancelOnSpan) OnEnd(sdktrace.ReadOnlySpan)      {}
func (c cancelOnSpan) Shutdown(context.Context) error   { return nil }
func (c cancelOnSpan) ForceFlush(context.Context) error { return nil }

func TestRunSimulateStageError(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	prev := otel.GetTracerProvider()
	tp := sdktrace.NewTracerProvider(
		sdktrace.WithSpanProcessor(cancelOnSpan{name: "pipeline.simulate", cancel: cancel}))
	otel.SetTracerProvider(tp)
	t.Cleanup(func() {
		otel.SetTracerProvider(prev)
		_ = tp.Shutdown(context.Background())
	})

	r, err := Run(ctx, basedata.SampleRaceForModel(), config.DefaultConfig())
	assert.ErrorIs(t, err, context.Canceled)
	assert.Nil(t, r)
}
