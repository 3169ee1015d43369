package racestints

import (
	"cmp"
	"slices"

	"github.com/mpapenbr/tyrestrat/log"
)

type (
	Ordering int
	Option   func(*Simulator)
	// Simulator evaluates a catalog of strategy templates
	Simulator struct {
		param     *Params
		predictor Predictor
		templates []Template
		order     Ordering
		l         *log.Logger
	}
	Rejection struct {
		Name   string
		Reason string
	}
	Outcome struct {
		Results  []*Result // accepted strategies
		Rejected []Rejection
	}
)

const (
	// OrderGeneration keeps the order of the template catalog
	OrderGeneration Ordering = iota
	// OrderScore sorts by total loss ascending, ties keep generation order
	OrderScore
)

func WithTemplates(arg ...Template) Option {
	return func(s *Simulator) {
		s.templates = arg
	}
}

func WithOrdering(arg Ordering) Option {
	return func(s *Simulator) {
		s.order = arg
	}
}

func WithLogger(arg *log.Logger) Option {
	return func(s *Simulator) {
		s.l = arg
	}
}

func NewSimulator(param *Params, predictor Predictor, opts ...Option) *Simulator {
	ret := &Simulator{
		param:     param,
		predictor: predictor,
		templates: DefaultTemplates,
		order:     OrderGeneration,
		l:         log.Default().Named("strategy"),
	}
	for _, opt := range opts {
		opt(ret)
	}
	return ret
}

// Run scores all templates. Rejected templates are not part of the results.
func (s *Simulator) Run() *Outcome {
	ret := &Outcome{Results: []*Result{}, Rejected: []Rejection{}}
	for _, tpl := range s.templates {
		res, err := NewTemplateCalc(tpl, s.param, s.predictor).Calc()
		if err != nil {
			s.l.Debug("strategy rejected",
				log.String("name", tpl.Name()),
				log.ErrorField(err))
			ret.Rejected = append(ret.Rejected, Rejection{Name: tpl.Name(), Reason: err.Error()})
			continue
		}
		s.l.Debug("strategy",
			log.String("name", res.Name),
			log.Float64("totalLoss", res.TotalLoss),
			log.Int("stops", res.Stops))
		ret.Results = append(ret.Results, res)
	}
	if s.order == OrderScore {
		slices.SortStableFunc(ret.Results, func(a, b *Result) int {
			return cmp.Compare(a.TotalLoss, b.TotalLoss)
		})
	}
	return ret
}
