package report

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/diavi-ufpa/avalia/internal/chart"
	"github.com/diavi-ufpa/avalia/internal/report/mocks"
	"github.com/diavi-ufpa/avalia/internal/service"
	"github.com/diavi-ufpa/avalia/internal/stats"
	"github.com/diavi-ufpa/avalia/internal/survey"
)

type renderFunc func(ctx context.Context, spec ChartSpec) ([]byte, error)

func (f renderFunc) Render(ctx context.Context, spec ChartSpec) ([]byte, error) { return f(ctx, spec) }

func grayPNG(t *testing.T) []byte {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, image.NewGray(image.Rect(0, 0, 8, 4))))
	return buf.Bytes()
}

func ptr(v float64) *float64 { return &v }

func sampleView(tab service.Tab) service.TabView {
	return service.TabView{
		Tab: tab,
		Proportions: chart.Data{
			Labels: []string{"1", "2"},
			Datasets: []chart.Dataset{
				{Label: "Excelente", Data: []*float64{ptr(60), ptr(25)}, BackgroundColor: "#1D556F"},
				{Label: "Bom", Data: []*float64{ptr(40), ptr(25)}, BackgroundColor: "#288FB4"},
				{Label: "Regular", Data: []*float64{ptr(0), ptr(25)}, BackgroundColor: "#F0B775"},
				{Label: "Insuficiente", Data: []*float64{ptr(0), ptr(25)}, BackgroundColor: "#FA360A"},
			},
		},
		Means: chart.Data{
			Labels:   []string{"1", "2"},
			Datasets: []chart.Dataset{{Label: chart.MeansLabel, Data: []*float64{ptr(3.6), nil}, BackgroundColor: chart.MeansColor}},
		},
		Boxplot: []chart.BoxSeries{
			{X: "1", Y: [5]float64{3, 3.5, 4, 4, 4}},
			{X: "2", Y: [5]float64{1, 1.75, 2.5, 3.25, 4}, Outliers: []float64{}},
		},
	}
}

func source() *mocks.MockSource {
	return &mocks.MockSource{
		TabFunc: func(ctx context.Context, f survey.Filter, tab service.Tab) (service.TabView, error) {
			return sampleView(tab), nil
		},
		CoursePolesFunc: func(ctx context.Context, year, course string) ([]string, error) {
			return []string{"Belém", "Soure", "Breves"}, nil
		},
	}
}

func pageCount(pdf []byte) int {
	return bytes.Count(pdf, []byte("<</Type /Page")) - bytes.Count(pdf, []byte("<</Type /Pages"))
}

func TestFileName(t *testing.T) {
	assert.Equal(t, "relatorio-avalia-2025-Física.pdf", FileName("2025", "Física", ""))
	assert.Equal(t, "relatorio-avalia-2023-Letras-Soure.pdf", FileName("2023", "Letras", "Soure"))

	t.Run("separators are replaced", func(t *testing.T) {
		assert.Equal(t, "relatorio-avalia-2025-Letras - Português-Inglês-Belém.pdf",
			FileName("2025", "Letras - Português/Inglês", "Belém"))
		assert.Equal(t, "relatorio-avalia-2025-Física-..-..-etc-x.pdf", FileName("2025", "Física", "../../etc/x"))
		assert.Equal(t, "relatorio-avalia-2025-A-B-C.pdf", FileName("2025", `A\B`, "C"))
	})

	t.Run("stays inside the output directory", func(t *testing.T) {
		for _, pole := range []string{"../../etc/x", "/abs/path", `..\..\win`} {
			path := filepath.Join("reports", FileName("2025", "Física", pole))
			assert.Equal(t, "reports", filepath.Dir(path), pole)
		}
	})

	t.Run("header-unsafe characters", func(t *testing.T) {
		name := FileName("2025", "Física \"noturno\"", "Belém\r\nX-Evil: 1")
		assert.NotContains(t, name, "\"")
		assert.NotContains(t, name, "\r")
		assert.NotContains(t, name, "\n")
		assert.Equal(t, "relatorio-avalia-2025-Física -noturno--BelémX-Evil- 1.pdf", name)
	})
}

func TestContain(t *testing.T) {
	box := Rect{X: 40, Y: 100, W: 400, H: 200}

	wide := Contain(800, 200, box)
	assert.Equal(t, Rect{X: 40, Y: 150, W: 400, H: 100}, wide)

	tall := Contain(100, 400, box)
	assert.Equal(t, Rect{X: 215, Y: 100, W: 50, H: 200}, tall)

	assert.Equal(t, Rect{X: 40, Y: 100}, Contain(0, 10, box))
}

func TestLayoutBoxes(t *testing.T) {
	bottom := a4Height - pageMargin

	for _, l := range []Layout{LayoutDimensions, LayoutThree, LayoutTwo} {
		slots := l.Boxes(a4Width, a4Height)
		require.NotEmpty(t, slots)
		assert.Equal(t, sectionTop, slots[0].Box.Y)
		assert.True(t, slots[0].Legend)

		prevEnd := 0.0
		for _, s := range slots {
			assert.Equal(t, pageMargin, s.Box.X)
			assert.InDelta(t, a4Width-2*pageMargin, s.Box.W, 1e-9)
			assert.GreaterOrEqual(t, s.Box.Y, prevEnd)
			prevEnd = s.Box.Y + s.Box.H + captionSpace
		}
		assert.LessOrEqual(t, prevEnd, bottom+1e-9, "layout %d overflows the page", l)
	}

	dims := LayoutDimensions.Boxes(a4Width, a4Height)
	assert.Equal(t, 240.0, dims[0].Box.H)
	assert.InDelta(t, dims[1].Box.H, dims[2].Box.H, 1e-9, "means and boxplot share the rest")

	two := LayoutTwo.Boxes(a4Width, a4Height)
	assert.Equal(t, 320.0, two[0].Box.H)
	assert.GreaterOrEqual(t, two[1].Box.H, 160.0)
}

func TestBuild(t *testing.T) {
	img := grayPNG(t)

	t.Run("all charts", func(t *testing.T) {
		var mu sync.Mutex
		var kinds []ChartKind
		b := NewBuilder(source(), zaptest.NewLogger(t), WithRenderer(renderFunc(func(ctx context.Context, spec ChartSpec) ([]byte, error) {
			mu.Lock()
			kinds = append(kinds, spec.Kind)
			mu.Unlock()
			assert.Equal(t, chartWidthPx, spec.Width)
			assert.Positive(t, spec.Height)
			return img, nil
		})))

		r, err := b.Build(context.Background(), Request{Year: "2025", Course: "Física", Pole: "Belém"})
		require.NoError(t, err)

		assert.Equal(t, "relatorio-avalia-2025-Física-Belém.pdf", r.FileName)
		assert.True(t, bytes.HasPrefix(r.PDF, []byte("%PDF")))
		assert.Empty(t, r.Skipped)
		assert.Len(t, kinds, 3+3+2*4)
		assert.Equal(t, 2+len(sectionDefs), pageCount(r.PDF))
	})

	t.Run("failed chart is skipped", func(t *testing.T) {
		b := NewBuilder(source(), zaptest.NewLogger(t), WithRenderer(renderFunc(func(ctx context.Context, spec ChartSpec) ([]byte, error) {
			if spec.Kind == KindBoxplot {
				return nil, errors.New("boom")
			}
			return img, nil
		})))

		r, err := b.Build(context.Background(), Request{Course: "Física"})
		require.NoError(t, err)
		assert.Equal(t, []string{"dimensoes-boxplot", "autoavaliacao-boxplot"}, r.Skipped)
		assert.Equal(t, "relatorio-avalia-2025-Física.pdf", r.FileName)
		assert.Equal(t, 2+len(sectionDefs), pageCount(r.PDF))
	})

	t.Run("timed out charts are skipped with their sections", func(t *testing.T) {
		b := NewBuilder(source(), zaptest.NewLogger(t),
			WithChartTimeout(10*time.Millisecond),
			WithRenderer(renderFunc(func(ctx context.Context, spec ChartSpec) ([]byte, error) {
				<-ctx.Done()
				return nil, ctx.Err()
			})))

		r, err := b.Build(context.Background(), Request{Course: "Física"})
		require.NoError(t, err)
		assert.Len(t, r.Skipped, 14)
		assert.Equal(t, 2, pageCount(r.PDF), "only the introduction and title pages remain")
	})

	t.Run("cancelled build fails", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		b := NewBuilder(source(), zaptest.NewLogger(t), WithRenderer(renderFunc(func(rctx context.Context, spec ChartSpec) ([]byte, error) {
			cancel()
			return nil, rctx.Err()
		})))

		_, err := b.Build(ctx, Request{Course: "Física"})
		assert.ErrorIs(t, err, context.Canceled)
	})

	t.Run("statistics tables follow the charts", func(t *testing.T) {
		src := source()
		src.TabFunc = func(ctx context.Context, f survey.Filter, tab service.Tab) (service.TabView, error) {
			v := sampleView(tab)
			v.Table = statsRows(2)
			return v, nil
		}
		b := NewBuilder(src, zaptest.NewLogger(t), WithRenderer(renderFunc(func(ctx context.Context, spec ChartSpec) ([]byte, error) {
			return img, nil
		})))

		r, err := b.Build(context.Background(), Request{Course: "Física"})
		require.NoError(t, err)
		// Chart pages are full, so each table starts on a page of its own.
		assert.Equal(t, 2+2*len(sectionDefs), pageCount(r.PDF))
	})

	t.Run("missing course", func(t *testing.T) {
		_, err := NewBuilder(source(), nil).Build(context.Background(), Request{})
		assert.ErrorIs(t, err, ErrMissingCourse)
	})

	t.Run("source error", func(t *testing.T) {
		src := source()
		src.TabFunc = func(ctx context.Context, f survey.Filter, tab service.Tab) (service.TabView, error) {
			return service.TabView{}, service.ErrNoResponses
		}
		_, err := NewBuilder(src, nil).Build(context.Background(), Request{Course: "Física"})
		assert.ErrorIs(t, err, service.ErrNoResponses)
	})
}

func statsRows(n int) []service.StatsRow {
	rows := make([]service.StatsRow, n)
	for i := range rows {
		rows[i] = service.StatsRow{
			Group:   fmt.Sprintf("Item %d", i+1),
			Mean:    ptr(3.25),
			Summary: stats.Summary{N: 12, Min: 1, Q1: 2.5, Median: 3, Q3: 4, Max: 4, Outliers: []float64{}},
		}
	}
	return rows
}

func TestWriteStatisticsTable(t *testing.T) {
	img := grayPNG(t)
	rows := statsRows(80)
	rows[0] = service.StatsRow{Group: "Item 1", Summary: stats.Summary{Outliers: []float64{}}}

	doc := Document{Year: "2025", Course: "Física", Sections: []Section{{
		Title:   "Dimensões Gerais",
		Layout:  LayoutTwo,
		Figures: []*Figure{{Name: "proportions", Image: Image{Data: img, Type: "PNG"}, Caption: "Proporções"}},
		Table:   rows,
	}}}
	wr := write(doc)
	wr.pdf.SetCompression(false)
	pdf, err := wr.bytes()
	require.NoError(t, err)

	// 20 rows fit below the chart, 46 on each following page.
	assert.Equal(t, 2+3, pageCount(pdf))
	assert.Equal(t, 3, bytes.Count(pdf, []byte("(Mediana)")), "header repeats on every page")
	assert.Contains(t, string(pdf), "(Item 80)")
	assert.Contains(t, string(pdf), "(3,25)")
	assert.Contains(t, string(pdf), "(2,50)")
	assert.Contains(t, string(pdf), "(-)", "a group without answers shows dashes")
}

func TestStatsCells(t *testing.T) {
	row := service.StatsRow{
		Group:   "Dimensão 1",
		Mean:    ptr(3.5),
		Summary: stats.Summary{N: 7, Min: 1, Q1: 2.5, Median: 3, Q3: 4, Max: 4},
	}
	assert.Equal(t, []string{"Dimensão 1", "7", "3,50", "1,00", "2,50", "3,00", "4,00", "4,00"}, statsCells(row))

	empty := statsCells(service.StatsRow{Group: "Dimensão 2"})
	assert.Equal(t, []string{"Dimensão 2", "0", "-", "-", "-", "-", "-", "-"}, empty)
}

func TestFit(t *testing.T) {
	wr := newWriter("t")
	wr.pdf.AddPage()
	wr.font("", 9)

	assert.Equal(t, "curto", wr.fit("curto", 100))

	long := wr.tr("Instalações Físicas e Recursos de Tecnologia da Informação do Polo")
	got := wr.fit(long, 80)
	assert.True(t, strings.HasSuffix(got, "..."))
	assert.LessOrEqual(t, wr.pdf.GetStringWidth(got), 80.0)
}

func TestBuildAssets(t *testing.T) {
	img := grayPNG(t)
	renderer := WithRenderer(renderFunc(func(ctx context.Context, spec ChartSpec) ([]byte, error) {
		return img, nil
	}))

	t.Run("cover is its own page", func(t *testing.T) {
		dir := t.TempDir()
		require.NoError(t, os.WriteFile(filepath.Join(dir, coverAsset), img, 0o600))

		r, err := NewBuilder(source(), zaptest.NewLogger(t), renderer, WithAssetsDir(dir)).
			Build(context.Background(), Request{Course: "Física"})
		require.NoError(t, err)
		assert.Equal(t, 3+len(sectionDefs), pageCount(r.PDF))
	})

	t.Run("broken questionnaire is ignored", func(t *testing.T) {
		for name, content := range map[string][]byte{
			"not a pdf": []byte("questionário"),
			"corrupt":   []byte("%PDF-1.4\n%%EOF"),
		} {
			t.Run(name, func(t *testing.T) {
				dir := t.TempDir()
				require.NoError(t, os.WriteFile(filepath.Join(dir, questionnaireAsset), content, 0o600))

				r, err := NewBuilder(source(), zaptest.NewLogger(t), renderer, WithAssetsDir(dir)).
					Build(context.Background(), Request{Course: "Física"})
				require.NoError(t, err)
				assert.True(t, bytes.HasPrefix(r.PDF, []byte("%PDF")))
				assert.Equal(t, 2+len(sectionDefs), pageCount(r.PDF))
			})
		}
	})

	t.Run("questionnaire pages are appended", func(t *testing.T) {
		questionnaire := newWriter("questionário")
		questionnaire.pdf.AddPage()
		questionnaire.font("", 12)
		questionnaire.centred("Questionário", pageMargin)
		questionnaire.pdf.AddPage()
		data, err := questionnaire.bytes()
		require.NoError(t, err)

		dir := t.TempDir()
		require.NoError(t, os.WriteFile(filepath.Join(dir, questionnaireAsset), data, 0o600))

		r, err := NewBuilder(source(), zaptest.NewLogger(t), renderer, WithAssetsDir(dir)).
			Build(context.Background(), Request{Course: "Física"})
		require.NoError(t, err)
		assert.GreaterOrEqual(t, pageCount(r.PDF), 2+len(sectionDefs)+2)
	})
}

func TestBuildAll(t *testing.T) {
	img := grayPNG(t)
	renderer := WithRenderer(renderFunc(func(ctx context.Context, spec ChartSpec) ([]byte, error) {
		return img, nil
	}))

	t.Run("one report per pole", func(t *testing.T) {
		var mu sync.Mutex
		var poles []string
		src := source()
		src.TabFunc = func(ctx context.Context, f survey.Filter, tab service.Tab) (service.TabView, error) {
			if tab == service.TabDimensions {
				mu.Lock()
				poles = append(poles, f.Pole)
				mu.Unlock()
			}
			return sampleView(tab), nil
		}

		reports, err := NewBuilder(src, zaptest.NewLogger(t), renderer, WithConcurrency(2)).
			BuildAll(context.Background(), Request{Year: "2023", Course: "Letras", AllPoles: true})
		require.NoError(t, err)

		require.Len(t, reports, 3)
		assert.Equal(t, "relatorio-avalia-2023-Letras-Belém.pdf", reports[0].FileName)
		assert.Equal(t, "relatorio-avalia-2023-Letras-Soure.pdf", reports[1].FileName)
		assert.Equal(t, "relatorio-avalia-2023-Letras-Breves.pdf", reports[2].FileName)
		sort.Strings(poles)
		assert.Equal(t, []string{"Belém", "Breves", "Soure"}, poles)
	})

	t.Run("explicit pole builds one report", func(t *testing.T) {
		reports, err := NewBuilder(source(), nil, renderer).
			BuildAll(context.Background(), Request{Course: "Letras", Pole: "Soure", AllPoles: true})
		require.NoError(t, err)
		require.Len(t, reports, 1)
		assert.Equal(t, "relatorio-avalia-2025-Letras-Soure.pdf", reports[0].FileName)
	})

	t.Run("course without poles", func(t *testing.T) {
		src := source()
		src.CoursePolesFunc = func(ctx context.Context, year, course string) ([]string, error) { return nil, nil }

		_, err := NewBuilder(src, nil, renderer).
			BuildAll(context.Background(), Request{Course: "Letras", AllPoles: true})
		assert.ErrorIs(t, err, service.ErrNoResponses)
	})
}

func TestPNGRenderer(t *testing.T) {
	view := sampleView(service.TabAttitude)
	ctx := context.Background()
	signature := []byte("\x89PNG")

	for _, spec := range []ChartSpec{
		{Kind: KindProportions, Data: view.Proportions, Width: 600, Height: 300},
		{Kind: KindMeans, Data: view.Means, Width: 600, Height: 300},
		{Kind: KindBoxplot, Boxes: view.Boxplot, Width: 600, Height: 300},
	} {
		t.Run(string(spec.Kind), func(t *testing.T) {
			out, err := PNGRenderer{}.Render(ctx, spec)
			require.NoError(t, err)
			assert.True(t, bytes.HasPrefix(out, signature))
		})
	}

	t.Run("nothing to draw", func(t *testing.T) {
		_, err := PNGRenderer{}.Render(ctx, ChartSpec{Kind: KindMeans, Data: chart.Data{}})
		assert.ErrorIs(t, err, ErrNothingToDraw)
		_, err = PNGRenderer{}.Render(ctx, ChartSpec{Kind: KindBoxplot})
		assert.ErrorIs(t, err, ErrNothingToDraw)
	})

	t.Run("unknown kind", func(t *testing.T) {
		_, err := PNGRenderer{}.Render(ctx, ChartSpec{Kind: "pizza"})
		assert.Error(t, err)
	})
}

func TestIntro(t *testing.T) {
	p := intro("2023")
	assert.Contains(t, p[3], "Período Letivo 2023-4")
	assert.Contains(t, intro("2025")[3], "Período Letivo 2025-2")
	assert.Contains(t, introParagraphs[3], "%s", "template is not modified")
	assert.Equal(t, "Física - Campus/Polo", reportSubtitle("Física", ""))
}
