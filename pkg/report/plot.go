package report

import (
	"fmt"
	"image/color"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"github.com/mpapenbr/tyrestrat/pkg/model"
	"github.com/mpapenbr/tyrestrat/pkg/processing/degradation"
)

var compoundColors = map[model.Compound]color.RGBA{
	model.CompoundSoft:   {R: 218, G: 41, B: 28, A: 255},
	model.CompoundMedium: {R: 255, G: 200, B: 0, A: 255},
	model.CompoundHard:   {R: 90, G: 90, B: 90, A: 255},
}

// WritePlot renders the predicted degradation curves of all fitted compounds
// as PNG to path.
func WritePlot(path string, m *degradation.Model, temp float64, maxAge int) error {
	p := plot.New()
	p.Title.Text = fmt.Sprintf("Tyre degradation (track temp %.1f)", temp)
	p.X.Label.Text = "Tyre age (laps)"
	p.Y.Label.Text = "Predicted delta (s)"
	p.Add(plotter.NewGrid())

	for _, s := range m.States() {
		if _, ok := s.(degradation.Fitted); !ok {
			continue
		}
		curve := m.Curve(s.Compound(), temp, maxAge)
		pts := make(plotter.XYs, 0, len(curve))
		for i, v := range curve {
			pts = append(pts, plotter.XY{X: float64(i + 1), Y: v})
		}
		line, err := plotter.NewLine(pts)
		if err != nil {
			return fmt.Errorf("create line for %s: %w", s.Compound(), err)
		}
		if c, ok := compoundColors[s.Compound()]; ok {
			line.Color = c
		}
		line.Width = vg.Points(2)
		p.Add(line)
		p.Legend.Add(s.Compound().String(), line)
	}
	p.Legend.Top = true
	return p.Save(8*vg.Inch, 4*vg.Inch, path)
}
