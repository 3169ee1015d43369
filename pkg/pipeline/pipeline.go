package pipeline

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/metric/noop"
	"go.opentelemetry.io/otel/trace"

	"github.com/mpapenbr/tyrestrat/log"
	"github.com/mpapenbr/tyrestrat/pkg/config"
	"github.com/mpapenbr/tyrestrat/pkg/model"
	"github.com/mpapenbr/tyrestrat/pkg/processing/degradation"
	"github.com/mpapenbr/tyrestrat/pkg/processing/stint"
	"github.com/mpapenbr/tyrestrat/pkg/racestints"
)

var (
	ErrNoData  = errors.New("no driver data")
	ErrNoModel = errors.New("failed to build any degradation model")
)

// Report contains the outcome of a pipeline run
type Report struct {
	RunID      string
	Drivers    int
	Laps       int
	Stints     map[string][]model.Stint
	Summary    *stint.Summary
	Averages   stint.Averages
	Model      *degradation.Model
	Accuracy   degradation.Accuracy
	Strategies *racestints.Outcome
	Config     config.Config
}

type instruments struct {
	laps     metric.Int64Counter
	stints   metric.Int64Counter
	rejected metric.Int64Counter
}

// Run segments the laps into stints, fits the degradation models, evaluates
// their accuracy and scores the strategy catalog.
//
//nolint:funlen // by design
func Run(ctx context.Context, data model.DriverLaps, cfg config.Config) (*Report, error) {
	if len(data) == 0 {
		return nil, ErrNoData
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	runID := uuid.New().String()
	logger := log.GetFromContext(ctx).Named("pipeline").With(log.String("runId", runID))
	ctx = log.AddToContext(ctx, logger)
	tracer := otel.Tracer("tyrestrat")
	ctx, span := tracer.Start(ctx, "pipeline.run",
		trace.WithAttributes(attribute.String("run.id", runID)))
	defer span.End()
	inst := newInstruments(logger)

	ret := &Report{
		RunID:   runID,
		Drivers: len(data),
		Laps:    data.NumLaps(),
		Config:  cfg,
	}
	inst.laps.Add(ctx, int64(ret.Laps))

	start := time.Now()
	defaults := stint.Defaults{Medium: cfg.DefaultMediumStint, Hard: cfg.DefaultHardStint}
	err := stage(ctx, tracer, "pipeline.segment", func(ctx context.Context) error {
		stints, err := stint.SegmentAll(ctx, data, cfg.Workers)
		if err != nil {
			return err
		}
		ret.Stints = stints
		ret.Summary = stint.Summarize(stints, defaults)
		ret.Averages = ret.Summary.Averages
		inst.stints.Add(ctx, int64(ret.Summary.Stints))
		return nil
	})
	if err != nil {
		return nil, fail(span, err)
	}
	logger.Timed("stints computed", start,
		log.Int("stints", ret.Summary.Stints),
		log.Float64("avgMedium", ret.Averages.Medium),
		log.Float64("avgHard", ret.Averages.Hard))

	start = time.Now()
	laps := data.All()
	err = stage(ctx, tracer, "pipeline.fit", func(ctx context.Context) error {
		m, err := degradation.NewModel(ctx, laps,
			degradation.WithMinSamples(cfg.MinFitSamples),
			degradation.WithLogger(logger.Named("model")))
		if err != nil {
			return err
		}
		if !m.Available() {
			return ErrNoModel
		}
		ret.Model = m
		return nil
	})
	if err != nil {
		return nil, fail(span, err)
	}
	logger.Timed("models fitted", start)

	ret.Accuracy = degradation.EvaluateAll(ret.Model, laps)
	logger.Info("model accuracy",
		log.Float64("maeMedium", ret.Accuracy.Medium),
		log.Float64("maeHard", ret.Accuracy.Hard))

	err = stage(ctx, tracer, "pipeline.simulate", func(ctx context.Context) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		order := racestints.OrderGeneration
		if cfg.RankByScore {
			order = racestints.OrderScore
		}
		sim := racestints.NewSimulator(&racestints.Params{
			TotalLaps: cfg.TotalLaps,
			PitLoss:   cfg.PitLossSeconds,
			TrackTemp: cfg.TrackTemp,
			AvgMedium: ret.Averages.Medium,
			AvgHard:   ret.Averages.Hard,
		}, ret.Model,
			racestints.WithOrdering(order),
			racestints.WithLogger(logger.Named("strategy")))
		ret.Strategies = sim.Run()
		inst.rejected.Add(ctx, int64(len(ret.Strategies.Rejected)))
		return nil
	})
	if err != nil {
		return nil, fail(span, err)
	}
	logger.Info("strategies computed",
		log.Int("accepted", len(ret.Strategies.Results)),
		log.Int("rejected", len(ret.Strategies.Rejected)))
	return ret, nil
}

//nolint:whitespace // can't make both editor and linter happy
func stage(
	ctx context.Context, tracer trace.Tracer, name string,
	fn func(ctx context.Context) error,
) error {
	ctx, span := tracer.Start(ctx, name)
	defer span.End()
	if err := fn(ctx); err != nil {
		return fail(span, err)
	}
	return nil
}

func fail(span trace.Span, err error) error {
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
	return err
}

func newInstruments(logger *log.Logger) *instruments {
	meter := otel.GetMeterProvider().Meter("tyrestrat.pipeline")
	counter := func(name, desc string) metric.Int64Counter {
		c, err := meter.Int64Counter(name,
			metric.WithDescription(desc),
			metric.WithUnit("{count}"))
		if err != nil {
			logger.Error("failed to register metric",
				log.String("metric", name),
				log.ErrorField(err))
			c, _ = noop.NewMeterProvider().Meter("noop").Int64Counter(name)
		}
		return c
	}
	return &instruments{
		laps:     counter("tyrestrat.laps", "Number of processed laps"),
		stints:   counter("tyrestrat.stints", "Number of computed stints"),
		rejected: counter("tyrestrat.strategies.rejected", "Number of rejected strategies"),
	}
}
