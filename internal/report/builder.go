// Package report builds the printable AVALIA EAD report of a course: chart
// images laid out on A4 pages, followed by the questionnaire.
package report

import (
	"context"
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/diavi-ufpa/avalia/internal/metrics"
	"github.com/diavi-ufpa/avalia/internal/service"
	"github.com/diavi-ufpa/avalia/internal/survey"
)

const (
	DefaultChartTimeout = 5 * time.Second
	DefaultConcurrency  = 2

	chartWidthPx = 1100
)

var ErrMissingCourse = errors.New("a course is required to build a report")

// Source provides the tab views charted by the report.
type Source interface {
	Tab(ctx context.Context, f survey.Filter, tab service.Tab) (service.TabView, error)
	CoursePoles(ctx context.Context, year, course string) ([]string, error)
}

// Request selects what a report covers. With AllPoles and no Pole, one
// report per pole of the course is built.
type Request struct {
	Year     string `json:"ano" validate:"omitempty,oneof=2023 2025"`
	Course   string `json:"curso" validate:"required"`
	Pole     string `json:"polo"`
	AllPoles bool   `json:"todos_polos"`
}

// Report is a finished PDF.
type Report struct {
	FileName string
	PDF      []byte
	// Skipped names the charts left out after a render failure or timeout.
	Skipped []string
}

// Builder assembles reports.
type Builder struct {
	source      Source
	renderer    Renderer
	logger      *zap.Logger
	assetsDir   string
	timeout     time.Duration
	concurrency int

	assetsOnce sync.Once
	assets     assets
}

type assets struct {
	cover         *Image
	example       *Image
	questionnaire []byte
}

// Option configures a Builder.
type Option func(*Builder)

func WithRenderer(r Renderer) Option {
	return func(b *Builder) { b.renderer = r }
}

// WithAssetsDir sets where the cover, the boxplot example and the
// questionnaire PDF are read from. Missing files are left out of the report.
func WithAssetsDir(dir string) Option {
	return func(b *Builder) { b.assetsDir = dir }
}

func WithChartTimeout(d time.Duration) Option {
	return func(b *Builder) {
		if d > 0 {
			b.timeout = d
		}
	}
}

func WithConcurrency(n int) Option {
	return func(b *Builder) {
		if n > 0 {
			b.concurrency = n
		}
	}
}

// NewBuilder creates a Builder reading chart data from source.
func NewBuilder(source Source, logger *zap.Logger, opts ...Option) *Builder {
	if source == nil {
		panic("source must not be nil")
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	b := &Builder{
		source:      source,
		renderer:    PNGRenderer{},
		logger:      logger,
		timeout:     DefaultChartTimeout,
		concurrency: DefaultConcurrency,
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// BuildAll builds the reports a request asks for: one, or one per pole of
// the course when AllPoles is set without a pole.
func (b *Builder) BuildAll(ctx context.Context, req Request) ([]*Report, error) {
	if !req.AllPoles || req.Pole != "" {
		r, err := b.Build(ctx, req)
		if err != nil {
			return nil, err
		}
		return []*Report{r}, nil
	}

	year := yearOf(req)
	poles, err := b.source.CoursePoles(ctx, year, req.Course)
	if err != nil {
		return nil, fmt.Errorf("list poles: %w", err)
	}
	if len(poles) == 0 {
		return nil, fmt.Errorf("%w: course %s", service.ErrNoResponses, req.Course)
	}

	reports := make([]*Report, len(poles))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(b.concurrency)
	for i, pole := range poles {
		g.Go(func() error {
			r, err := b.Build(gctx, Request{Year: year, Course: req.Course, Pole: pole})
			if err != nil {
				return fmt.Errorf("pole %s: %w", pole, err)
			}
			reports[i] = r
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return reports, nil
}

// Build produces the report of one course and pole.
func (b *Builder) Build(ctx context.Context, req Request) (*Report, error) {
	start := time.Now()
	r, err := b.build(ctx, req)
	status := "success"
	if err != nil {
		status = "error"
	}
	metrics.ReportBuilds.WithLabelValues(status).Inc()

	fields := []zap.Field{
		zap.String("year", req.Year),
		zap.String("course", req.Course),
		zap.String("pole", req.Pole),
		zap.Duration("elapsed", time.Since(start)),
	}
	if err != nil {
		b.logger.Error("report build failed", append(fields, zap.Error(err))...)
		return nil, err
	}
	b.logger.Info("report built", append(fields, zap.Int("bytes", len(r.PDF)), zap.Strings("skipped", r.Skipped))...)
	return r, nil
}

func (b *Builder) build(ctx context.Context, req Request) (*Report, error) {
	if req.Course == "" {
		return nil, ErrMissingCourse
	}
	year := yearOf(req)
	f := survey.Filter{Year: year, Course: req.Course, Pole: req.Pole}.Normalized()

	a := b.loadAssets()
	doc := Document{
		Year:    year,
		Course:  req.Course,
		Pole:    f.Pole,
		Cover:   a.cover,
		Example: a.example,
	}

	report := &Report{FileName: FileName(year, req.Course, f.Pole)}
	for _, def := range sectionDefs {
		view, err := b.source.Tab(ctx, f, def.tab)
		if err != nil {
			return nil, fmt.Errorf("load %s: %w", def.tab, err)
		}
		section, skipped, err := b.section(ctx, def, view, year)
		if err != nil {
			return nil, err
		}
		doc.Sections = append(doc.Sections, section)
		report.Skipped = append(report.Skipped, skipped...)
	}

	wr := write(doc)
	if a.questionnaire != nil {
		if err := appendPDF(wr, a.questionnaire); err != nil {
			b.logger.Warn("questionnaire not appended", zap.Error(err))
			wr = write(doc)
		}
	}
	pdf, err := wr.bytes()
	if err != nil {
		return nil, err
	}
	report.PDF = pdf
	return report, nil
}

// section renders the charts of one section. Charts that fail or time out
// are left nil; only the cancellation of ctx itself aborts the build.
func (b *Builder) section(ctx context.Context, def sectionDef, view service.TabView, year string) (Section, []string, error) {
	slots := def.layout.Boxes(a4Width, a4Height)
	s := Section{
		Title:   def.title,
		Layout:  def.layout,
		Figures: make([]*Figure, len(def.figures)),
		Table:   view.Table,
	}
	var skipped []string

	for i, fig := range def.figures {
		spec := fig.spec(view)
		spec.Name = string(def.tab) + "-" + string(fig.kind)
		spec.Width = chartWidthPx
		if i < len(slots) {
			box := slots[i].Box
			spec.Height = int(math.Round(chartWidthPx * box.H / box.W))
		}

		png, err := b.render(ctx, spec)
		if err != nil {
			if ctx.Err() != nil {
				return Section{}, nil, ctx.Err()
			}
			metrics.ChartsSkipped.WithLabelValues(string(spec.Kind)).Inc()
			b.logger.Warn("chart skipped", zap.String("chart", spec.Name), zap.Error(err))
			skipped = append(skipped, spec.Name)
			continue
		}
		s.Figures[i] = &Figure{
			Name:    spec.Name,
			Image:   Image{Data: png, Type: "PNG"},
			Caption: fig.caption(year),
		}
	}
	return s, skipped, nil
}

func (b *Builder) render(ctx context.Context, spec ChartSpec) ([]byte, error) {
	cctx, cancel := context.WithTimeout(ctx, b.timeout)
	defer cancel()
	return b.renderer.Render(cctx, spec)
}

func (b *Builder) loadAssets() assets {
	b.assetsOnce.Do(func() {
		if b.assetsDir == "" {
			return
		}
		if data, ok := b.readAsset(coverAsset); ok {
			b.assets.cover = &Image{Data: data, Type: "PNG"}
		}
		if data, ok := b.readAsset(exampleAsset); ok {
			b.assets.example = &Image{Data: data, Type: "JPG"}
		}
		if data, ok := b.readAsset(questionnaireAsset); ok {
			b.assets.questionnaire = data
		}
	})
	return b.assets
}

func (b *Builder) readAsset(name string) ([]byte, bool) {
	data, err := os.ReadFile(filepath.Join(b.assetsDir, name))
	if err != nil {
		b.logger.Debug("report asset unavailable", zap.String("asset", name), zap.Error(err))
		return nil, false
	}
	return data, true
}

func yearOf(req Request) string {
	if req.Year == "" {
		return survey.DefaultYear
	}
	return req.Year
}
