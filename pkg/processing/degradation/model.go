package degradation

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/mpapenbr/tyrestrat/log"
	"github.com/mpapenbr/tyrestrat/pkg/config"
	"github.com/mpapenbr/tyrestrat/pkg/model"
)

type (
	Option func(*Model)
	// Model holds one ModelState per compound. It is not modified after creation.
	Model struct {
		compounds  []model.Compound
		minSamples int
		states     map[model.Compound]ModelState
		l          *log.Logger
	}
)

func WithMinSamples(arg int) Option {
	return func(m *Model) {
		m.minSamples = arg
	}
}

// WithCompounds sets the compounds to fit (default: model.TrackedCompounds)
func WithCompounds(arg ...model.Compound) Option {
	return func(m *Model) {
		m.compounds = arg
	}
}

func WithLogger(arg *log.Logger) Option {
	return func(m *Model) {
		m.l = arg
	}
}

// NewModel fits a model for each compound. The fits run concurrently,
// each one writing to its own result slot.
//
//nolint:whitespace // can't make both editor and linter happy
func NewModel(
	ctx context.Context, laps []model.LapObservation, opts ...Option,
) (*Model, error) {
	m := &Model{
		compounds:  model.TrackedCompounds,
		minSamples: config.DefaultMinFitSamples,
		l:          log.Default().Named("model"),
	}
	for _, opt := range opts {
		opt(m)
	}
	results := make([]ModelState, len(m.compounds))
	g, gCtx := errgroup.WithContext(ctx)
	for i, c := range m.compounds {
		g.Go(func() error {
			if err := gCtx.Err(); err != nil {
				return err
			}
			results[i] = Fit(laps, c, m.minSamples)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	m.states = make(map[model.Compound]ModelState, len(m.compounds))
	for i, c := range m.compounds {
		m.states[c] = results[i]
		switch s := results[i].(type) {
		case Fitted:
			m.l.Debug("model fitted",
				log.String("compound", c.String()),
				log.Int("samples", s.Samples),
				log.Float64("intercept", s.Intercept),
				log.Any("coefficients", s.Coefficients))
		case Unavailable:
			m.l.Warn("model unavailable",
				log.String("compound", c.String()),
				log.Int("samples", s.Samples),
				log.String("reason", s.Reason))
		}
	}
	return m, nil
}

// State returns the state for compound. Compounds without model are Unavailable.
func (m *Model) State(compound model.Compound) ModelState {
	if s, ok := m.states[compound]; ok {
		return s
	}
	return Unavailable{compound: compound, Reason: "compound not modeled"}
}

// States returns the states in the order of the configured compounds
func (m *Model) States() []ModelState {
	ret := make([]ModelState, 0, len(m.compounds))
	for _, c := range m.compounds {
		ret = append(ret, m.State(c))
	}
	return ret
}

// Available reports if at least one compound model was fitted
func (m *Model) Available() bool {
	for _, s := range m.states {
		if _, ok := s.(Fitted); ok {
			return true
		}
	}
	return false
}

// Predict returns the predicted time delta in seconds. The compound is matched
// case-insensitive. Unknown compounds and compounds without fitted model yield 0.0.
// The result is never negative.
func (m *Model) Predict(tyreAge int, temp float64, compound string) float64 {
	if f, ok := m.State(model.ParseCompound(compound)).(Fitted); ok {
		return f.Predict(tyreAge, temp)
	}
	return 0.0
}

// Curve returns the predictions for tyre age 1..maxAge
func (m *Model) Curve(compound model.Compound, temp float64, maxAge int) []float64 {
	ret := make([]float64, 0, max(maxAge, 0))
	for age := 1; age <= maxAge; age++ {
		ret = append(ret, m.Predict(age, temp, compound.String()))
	}
	return ret
}
