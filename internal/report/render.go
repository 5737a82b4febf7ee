package report

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image/color"

	gochart "github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"github.com/diavi-ufpa/avalia/internal/chart"
	"github.com/diavi-ufpa/avalia/internal/survey"
)

// ChartKind selects how a chart is drawn.
type ChartKind string

const (
	KindProportions ChartKind = "proporcoes"
	KindMeans       ChartKind = "medias"
	KindBoxplot     ChartKind = "boxplot"
)

var ErrNothingToDraw = errors.New("chart has no data")

// ChartSpec describes one chart of the report. Width and Height are in
// pixels.
type ChartSpec struct {
	Name   string
	Kind   ChartKind
	Data   chart.Data
	Boxes  []chart.BoxSeries
	Width  int
	Height int
}

// Renderer turns a chart into a PNG. Render returns when the image is
// complete or ctx is done, whichever comes first.
type Renderer interface {
	Render(ctx context.Context, spec ChartSpec) ([]byte, error)
}

// PNGRenderer draws bar charts with go-chart and boxplots with gonum/plot.
type PNGRenderer struct{}

func (PNGRenderer) Render(ctx context.Context, spec ChartSpec) ([]byte, error) {
	type result struct {
		png []byte
		err error
	}
	done := make(chan result, 1)
	go func() {
		png, err := renderPNG(spec)
		done <- result{png, err}
	}()

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case r := <-done:
		return r.png, r.err
	}
}

func renderPNG(spec ChartSpec) ([]byte, error) {
	if spec.Width <= 0 {
		spec.Width = 1024
	}
	if spec.Height <= 0 {
		spec.Height = 512
	}
	switch spec.Kind {
	case KindProportions:
		return renderProportions(spec)
	case KindMeans:
		return renderMeans(spec)
	case KindBoxplot:
		return renderBoxplot(spec)
	}
	return nil, fmt.Errorf("unknown chart kind %q", spec.Kind)
}

const barSpacing = 12

func renderProportions(spec ChartSpec) ([]byte, error) {
	if spec.Data.Empty() {
		return nil, ErrNothingToDraw
	}
	n := len(spec.Data.Labels)
	width := (spec.Width-40)/n - barSpacing
	if width < 8 {
		width = 8
	}

	bars := make([]gochart.StackedBar, n)
	for i, label := range spec.Data.Labels {
		bar := gochart.StackedBar{Name: label, Width: width}
		for _, ds := range spec.Data.Datasets {
			var v float64
			if i < len(ds.Data) && ds.Data[i] != nil {
				v = *ds.Data[i]
			}
			val := gochart.Value{
				Value: v,
				Style: gochart.Style{
					FillColor:   drawing.ParseColor(ds.BackgroundColor),
					StrokeColor: drawing.ColorWhite,
					StrokeWidth: 1,
					FontColor:   drawing.ColorWhite,
				},
			}
			if v >= 5 {
				val.Label = fmt.Sprintf("%.0f%%", v)
			}
			bar.Values = append(bar.Values, val)
		}
		bars[i] = bar
	}

	c := gochart.StackedBarChart{
		Width:      spec.Width,
		Height:     spec.Height,
		BarSpacing: barSpacing,
		Background: gochart.Style{Padding: gochart.Box{Top: 20, Left: 20, Right: 20, Bottom: 10}},
		Bars:       bars,
	}
	var buf bytes.Buffer
	if err := c.Render(gochart.PNG, &buf); err != nil {
		return nil, fmt.Errorf("render proportions: %w", err)
	}
	return buf.Bytes(), nil
}

func renderMeans(spec ChartSpec) ([]byte, error) {
	if spec.Data.Empty() {
		return nil, ErrNothingToDraw
	}
	ds := spec.Data.Datasets[0]
	fill := drawing.ParseColor(ds.BackgroundColor)

	bars := make([]gochart.Value, len(spec.Data.Labels))
	for i, label := range spec.Data.Labels {
		var v float64
		if i < len(ds.Data) && ds.Data[i] != nil {
			v = *ds.Data[i]
		}
		bars[i] = gochart.Value{
			Value: v,
			Label: label,
			Style: gochart.Style{FillColor: fill, StrokeColor: fill},
		}
	}

	c := gochart.BarChart{
		Width:      spec.Width,
		Height:     spec.Height,
		BarWidth:   48,
		BarSpacing: barSpacing,
		Background: gochart.Style{Padding: gochart.Box{Top: 24}},
		YAxis: gochart.YAxis{
			Range: &gochart.ContinuousRange{Min: 0, Max: float64(survey.MaxRating)},
		},
		Bars: bars,
	}
	var buf bytes.Buffer
	if err := c.Render(gochart.PNG, &buf); err != nil {
		return nil, fmt.Errorf("render means: %w", err)
	}
	return buf.Bytes(), nil
}

var boxFill = color.RGBA{R: 0x28, G: 0x8F, B: 0xB4, A: 0x99}

func renderBoxplot(spec ChartSpec) ([]byte, error) {
	if len(spec.Boxes) == 0 {
		return nil, ErrNothingToDraw
	}
	p := plot.New()
	p.Y.Min = 0
	p.Y.Max = float64(survey.MaxRating)
	p.Y.Label.Text = chart.MeansLabel

	names := make([]string, len(spec.Boxes))
	for i, s := range spec.Boxes {
		names[i] = s.X
		box, err := boxFromSeries(s, float64(i))
		if err != nil {
			return nil, fmt.Errorf("boxplot %s: %w", s.X, err)
		}
		p.Add(box)
	}
	p.NominalX(names...)

	// 96 dpi
	w := vg.Length(spec.Width) * vg.Inch / 96
	h := vg.Length(spec.Height) * vg.Inch / 96
	wt, err := p.WriterTo(w, h, "png")
	if err != nil {
		return nil, fmt.Errorf("render boxplot: %w", err)
	}
	var buf bytes.Buffer
	if _, err := wt.WriteTo(&buf); err != nil {
		return nil, fmt.Errorf("render boxplot: %w", err)
	}
	return buf.Bytes(), nil
}

// boxFromSeries draws the precomputed five numbers instead of letting gonum
// recompute them from raw values.
func boxFromSeries(s chart.BoxSeries, loc float64) (*plotter.BoxPlot, error) {
	values := make(plotter.Values, 0, 5+len(s.Outliers))
	values = append(values, s.Y[:]...)
	values = append(values, s.Outliers...)

	b, err := plotter.NewBoxPlot(vg.Points(28), loc, values)
	if err != nil {
		return nil, err
	}
	b.Min, b.Quartile1, b.Median, b.Quartile3, b.Max = s.Y[0], s.Y[1], s.Y[2], s.Y[3], s.Y[4]
	b.AdjLow, b.AdjHigh = s.Y[0], s.Y[4]
	b.Outside = b.Outside[:0]
	for i := range s.Outliers {
		b.Outside = append(b.Outside, 5+i)
		if o := s.Outliers[i]; o < b.Min {
			b.Min = o
		} else if o > b.Max {
			b.Max = o
		}
	}
	b.FillColor = boxFill
	return b, nil
}
