package racestints

import (
	"fmt"
	"math"
	"strings"

	"github.com/samber/lo"

	"github.com/mpapenbr/tyrestrat/pkg/model"
)

type (
	// Template describes a strategy by the sequence of compounds used.
	// The first stint runs for the average stint length of its compound,
	// the remaining laps are split equally between the other stints.
	// An odd lap goes to the final stint.
	Template struct {
		Compounds []model.Compound
	}
)

type (
	templateCalc struct {
		tpl       Template
		param     *Params
		predictor Predictor
		parts     []Part
	}
	stintPart struct {
		compound model.Compound
		laps     int
		lapStart int
		lapEnd   int
		loss     float64
	}
	pitPart struct {
		pitLoss float64
	}
)

// DefaultTemplates is the catalog of strategies in generation order
var DefaultTemplates = []Template{
	NewTemplate(model.CompoundMedium, model.CompoundHard),
	NewTemplate(model.CompoundHard, model.CompoundMedium),
	NewTemplate(model.CompoundHard, model.CompoundHard),
	NewTemplate(model.CompoundMedium, model.CompoundHard, model.CompoundHard),
	NewTemplate(model.CompoundHard, model.CompoundMedium, model.CompoundMedium),
}

func NewTemplate(compounds ...model.Compound) Template {
	return Template{Compounds: compounds}
}

// Name returns names like "1S (M-H)"
func (t Template) Name() string {
	shorts := lo.Map(t.Compounds, func(c model.Compound, _ int) string { return c.Short() })
	return fmt.Sprintf("%dS (%s)", t.Stops(), strings.Join(shorts, "-"))
}

func (t Template) Stops() int {
	return max(len(t.Compounds)-1, 0)
}

// StintLengths computes the number of laps per stint. The values are not validated.
func (t Template) StintLengths(param *Params) []int {
	switch len(t.Compounds) {
	case 0:
		return []int{}
	case 1:
		return []int{param.TotalLaps}
	}
	first := roundLaps(param.avgStint(t.Compounds[0]))
	rest := len(t.Compounds) - 1
	remain := param.TotalLaps - first
	each := remain / rest
	ret := make([]int, 0, len(t.Compounds))
	ret = append(ret, first)
	for i := 0; i < rest-1; i++ {
		ret = append(ret, each)
	}
	return append(ret, remain-each*(rest-1))
}

func (p *Params) avgStint(c model.Compound) float64 {
	switch c {
	case model.CompoundMedium:
		return p.AvgMedium
	case model.CompoundHard:
		return p.AvgHard
	default:
		return 0
	}
}

func roundLaps(v float64) int {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return int(math.Round(v))
}

func NewTemplateCalc(tpl Template, param *Params, predictor Predictor) CalcStints {
	return &templateCalc{tpl: tpl, param: param, predictor: predictor}
}

// Calc computes the predicted time loss of the strategy.
// ErrRejected is returned if a stint length is not positive or the
// lengths do not add up to the race distance.
func (c *templateCalc) Calc() (*Result, error) {
	lengths := c.tpl.StintLengths(c.param)
	if err := validateLengths(lengths, c.param.TotalLaps); err != nil {
		return nil, fmt.Errorf("%s: %w", c.tpl.Name(), err)
	}
	c.parts = make([]Part, 0, 2*len(lengths)-1)
	total := 0.0
	curLap := 1
	for i, laps := range lengths {
		if i > 0 {
			c.parts = append(c.parts, &pitPart{pitLoss: c.param.PitLoss})
			total += c.param.PitLoss
		}
		sp := &stintPart{
			compound: c.tpl.Compounds[i],
			laps:     laps,
			lapStart: curLap,
			lapEnd:   curLap + laps - 1,
		}
		// tyre age starts at 1 for each fresh set
		for age := 1; age <= laps; age++ {
			sp.loss += c.predictor.Predict(age, c.param.TrackTemp, sp.compound.String())
		}
		total += sp.loss
		c.parts = append(c.parts, sp)
		curLap += laps
	}
	return &Result{
		Name:      c.tpl.Name(),
		Parts:     c.parts,
		TotalLoss: total,
		Stops:     len(lengths) - 1,
	}, nil
}

func validateLengths(lengths []int, totalLaps int) error {
	if len(lengths) == 0 {
		return fmt.Errorf("%w: no stints", ErrRejected)
	}
	sum := 0
	for i, l := range lengths {
		if l <= 0 {
			return fmt.Errorf("%w: stint %d has %d laps", ErrRejected, i+1, l)
		}
		sum += l
	}
	if sum != totalLaps {
		return fmt.Errorf("%w: stints cover %d of %d laps", ErrRejected, sum, totalLaps)
	}
	return nil
}

func (s stintPart) Type() PartType {
	return PartTypeStint
}

func (s stintPart) Compound() model.Compound {
	return s.compound
}

func (s stintPart) Laps() int {
	return s.laps
}

func (s stintPart) LapStart() int {
	return s.lapStart
}

func (s stintPart) LapEnd() int {
	return s.lapEnd
}

func (s stintPart) Loss() float64 {
	return s.loss
}

func (s stintPart) Output() string {
	return fmt.Sprintf("%s %d-%d (%d): %.2fs", s.compound, s.lapStart, s.lapEnd, s.laps, s.loss)
}

func (p pitPart) Type() PartType {
	return PartTypePit
}

func (p pitPart) PitLoss() float64 {
	return p.pitLoss
}

func (p pitPart) Output() string {
	return fmt.Sprintf("Pit %.2fs", p.pitLoss)
}
