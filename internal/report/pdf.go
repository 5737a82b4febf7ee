package report

import (
	"bytes"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"strconv"
	"strings"

	"github.com/go-pdf/fpdf"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"github.com/diavi-ufpa/avalia/internal/chart"
	"github.com/diavi-ufpa/avalia/internal/service"
	"github.com/diavi-ufpa/avalia/internal/survey"
)

const (
	fontFamily = "Helvetica"
	lineHeight = 14.0
)

// Image is an encoded picture placed on a page.
type Image struct {
	Data []byte
	// Type is the fpdf image type, "PNG" or "JPG".
	Type string
}

// Figure is a rendered chart and its caption.
type Figure struct {
	Name    string
	Image   Image
	Caption string
}

// Section is one titled page of charts followed by the statistics table of
// its groups. Figures follow the slots of the layout; a nil entry is a chart
// that could not be rendered.
type Section struct {
	Title   string
	Layout  Layout
	Figures []*Figure
	Table   []service.StatsRow
}

func (s Section) empty() bool {
	for _, f := range s.Figures {
		if f != nil {
			return false
		}
	}
	return true
}

// Document is everything that goes into one report.
type Document struct {
	Year     string
	Course   string
	Pole     string
	Cover    *Image
	Example  *Image
	Sections []Section
}

type writer struct {
	pdf     *fpdf.Fpdf
	tr      func(string) string
	w, h    float64
	figures int
}

func newWriter(title string) *writer {
	pdf := fpdf.New("P", "pt", "A4", "")
	pdf.SetMargins(pageMargin, pageMargin, pageMargin)
	pdf.SetAutoPageBreak(false, pageMargin)
	pdf.SetTitle(title, true)
	pdf.SetCreator("avalia", false)
	w, h := pdf.GetPageSize()
	return &writer{pdf: pdf, tr: pdf.UnicodeTranslatorFromDescriptor(""), w: w, h: h}
}

func (wr *writer) font(style string, size float64) {
	wr.pdf.SetFont(fontFamily, style, size)
}

func (wr *writer) centred(text string, baseline float64) {
	s := wr.tr(text)
	wr.pdf.Text((wr.w-wr.pdf.GetStringWidth(s))/2, baseline, s)
}

// centredLines writes text centred, wrapping at the content width. It
// returns the baseline of the last line.
func (wr *writer) centredLines(text string, baseline float64) float64 {
	lines := wr.pdf.SplitLines([]byte(wr.tr(text)), wr.w-2*pageMargin)
	for i, line := range lines {
		if i > 0 {
			baseline += lineHeight + 4
		}
		s := string(line)
		wr.pdf.Text((wr.w-wr.pdf.GetStringWidth(s))/2, baseline, s)
	}
	return baseline
}

// image draws img contained in box. A picture that cannot be decoded is
// left out and reported as false.
func (wr *writer) image(name string, img Image, box Rect) bool {
	cfg, _, err := image.DecodeConfig(bytes.NewReader(img.Data))
	if err != nil {
		return false
	}
	opts := fpdf.ImageOptions{ImageType: img.Type}
	wr.pdf.RegisterImageOptionsReader(name, opts, bytes.NewReader(img.Data))
	if !wr.pdf.Ok() {
		wr.pdf.ClearError()
		return false
	}
	r := Contain(float64(cfg.Width), float64(cfg.Height), box)
	wr.pdf.ImageOptions(name, r.X, r.Y, r.W, r.H, false, opts, 0, "")
	return true
}

// caption numbers and writes a figure caption below y and returns where
// the next element starts.
func (wr *writer) caption(text string, y float64) float64 {
	wr.figures++
	wr.font("", 10)
	wr.pdf.SetTextColor(0, 0, 0)
	wr.centred(fmt.Sprintf("Figura %d - %s", wr.figures, text), y+16)
	return y + captionSpace
}

// legend draws the concept colours in one centred row below y.
func (wr *writer) legend(y float64) float64 {
	const box, gap, spacing = 8.0, 4.0, 14.0
	wr.font("", 9)

	labels := make([]string, len(survey.Concepts))
	total := 0.0
	for i, c := range survey.Concepts {
		labels[i] = wr.tr(string(c))
		total += box + gap + wr.pdf.GetStringWidth(labels[i])
	}
	total += spacing * float64(len(labels)-1)

	x := (wr.w - total) / 2
	top := y + 4
	for i, c := range survey.Concepts {
		col := drawing.ColorFromHex(chart.Palette[c])
		wr.pdf.SetFillColor(int(col.R), int(col.G), int(col.B))
		wr.pdf.Rect(x, top, box, box, "F")
		x += box + gap
		wr.pdf.SetTextColor(0, 0, 0)
		wr.pdf.Text(x, top+box-1, labels[i])
		x += wr.pdf.GetStringWidth(labels[i]) + spacing
	}
	return y + legendSpace
}

func (wr *writer) cover(img Image) {
	wr.pdf.AddPage()
	wr.image("cover", img, Rect{
		X: coverMarginX,
		Y: coverMarginY,
		W: wr.w - 2*coverMarginX,
		H: wr.h - 2*coverMarginY,
	})
}

func (wr *writer) intro(year string, example *Image) {
	wr.pdf.AddPage()
	y := pageMargin
	wr.font("B", 15)
	wr.centred(introTitle(year), y)
	y += 24

	wr.font("", 12)
	width := wr.w - 2*pageMargin
	paragraphs := intro(year)
	for i, p := range paragraphs {
		lines := wr.pdf.SplitLines([]byte(wr.tr(p)), width)
		for j, line := range lines {
			wr.pdf.Text(pageMargin, y+float64(j)*lineHeight, string(line))
		}
		y += float64(len(lines))*lineHeight + 8
		if i == 3 {
			y += 6
		}
		if y > wr.h-pageMargin-220 && i < len(paragraphs)-1 {
			wr.pdf.AddPage()
			y = pageMargin
		}
	}

	if example == nil {
		return
	}
	const exampleHeight = 260.0
	if wr.h-pageMargin-y < exampleHeight+20 {
		wr.pdf.AddPage()
		y = pageMargin
	}
	box := Rect{X: pageMargin, Y: y, W: width, H: exampleHeight}
	if wr.image("example", *example, box) {
		wr.caption("Exemplo de Boxplot", y+exampleHeight)
	}
}

func (wr *writer) titlePage(year, course, pole string) {
	wr.pdf.AddPage()
	y := wr.h/2 - 24
	wr.font("B", 21)
	wr.centred(reportTitle(year), y)
	wr.font("", 16)
	wr.centredLines(reportSubtitle(course, pole), y+26)
}

// section writes the chart page of s and then its statistics table, which
// continues on new pages as the rows run out of space.
func (wr *writer) section(s Section) {
	wr.pdf.AddPage()
	wr.font("B", 15)
	wr.pdf.SetTextColor(0, 0, 0)
	wr.centred(s.Title, pageMargin)

	y := sectionTop
	for i, slot := range s.Layout.Boxes(wr.w, wr.h) {
		if i >= len(s.Figures) || s.Figures[i] == nil {
			continue
		}
		f := s.Figures[i]
		if !wr.image(f.Name, f.Image, slot.Box) {
			continue
		}
		end := slot.Box.Y + slot.Box.H
		if slot.Legend {
			end = wr.legend(end)
		}
		y = wr.caption(f.Caption, end)
	}
	wr.table(s.Table, y)
}

const (
	tableTitle        = "Estatísticas Descritivas"
	tableTitleSpace   = 26.0
	tableHeaderHeight = 18.0
	tableRowHeight    = 16.0
)

type column struct {
	title string
	share float64
	align string
}

var tableColumns = []column{
	{"Grupo", 0.36, "L"},
	{"N", 0.09, "C"},
	{"Média", 0.09, "C"},
	{"Mín", 0.09, "C"},
	{"Q1", 0.09, "C"},
	{"Mediana", 0.10, "C"},
	{"Q3", 0.09, "C"},
	{"Máx", 0.09, "C"},
}

// table writes rows from y on, starting a new page whenever the next row
// would cross the bottom margin. The header is repeated on every page.
func (wr *writer) table(rows []service.StatsRow, y float64) {
	if len(rows) == 0 {
		return
	}
	bottom := wr.h - pageMargin
	if y+tableTitleSpace+tableHeaderHeight+tableRowHeight > bottom {
		wr.pdf.AddPage()
		y = pageMargin
	}
	wr.font("B", 11)
	wr.pdf.SetTextColor(0, 0, 0)
	wr.centred(tableTitle, y+12)
	y = wr.tableHeader(y + tableTitleSpace)

	width := wr.w - 2*pageMargin
	for _, row := range rows {
		if y+tableRowHeight > bottom {
			wr.pdf.AddPage()
			y = wr.tableHeader(pageMargin)
		}
		wr.pdf.SetXY(pageMargin, y)
		for i, cell := range statsCells(row) {
			c := tableColumns[i]
			w := c.share * width
			wr.pdf.CellFormat(w, tableRowHeight, wr.fit(wr.tr(cell), w-4), "1", 0, c.align, false, 0, "")
		}
		y += tableRowHeight
	}
}

func (wr *writer) tableHeader(y float64) float64 {
	width := wr.w - 2*pageMargin
	wr.font("B", 9)
	wr.pdf.SetTextColor(0, 0, 0)
	wr.pdf.SetFillColor(230, 230, 230)
	wr.pdf.SetXY(pageMargin, y)
	for _, c := range tableColumns {
		wr.pdf.CellFormat(c.share*width, tableHeaderHeight, wr.tr(c.title), "1", 0, "C", true, 0, "")
	}
	wr.font("", 9)
	return y + tableHeaderHeight
}

// fit shortens an already translated string to width, ending it with
// "...". Translated text is single-byte, so it is cut bytewise.
func (wr *writer) fit(s string, width float64) string {
	if wr.pdf.GetStringWidth(s) <= width {
		return s
	}
	for len(s) > 0 && wr.pdf.GetStringWidth(s+"...") > width {
		s = s[:len(s)-1]
	}
	return s + "..."
}

// statsCells formats a row of the table. Statistics use the true summary;
// a group without valid answers shows dashes.
func statsCells(row service.StatsRow) []string {
	s := row.Summary
	cells := []string{row.Group, strconv.Itoa(s.N), "-", "-", "-", "-", "-", "-"}
	if row.Mean != nil {
		cells[2] = decimal(*row.Mean)
	}
	if s.N > 0 {
		for i, v := range s.Box() {
			cells[3+i] = decimal(v)
		}
	}
	return cells
}

func decimal(v float64) string {
	return strings.Replace(strconv.FormatFloat(v, 'f', 2, 64), ".", ",", 1)
}

// write lays out doc. The questionnaire pages, if any, are appended by
// appendPDF before output.
func write(doc Document) *writer {
	wr := newWriter(reportTitle(doc.Year))
	if doc.Cover != nil {
		wr.cover(*doc.Cover)
	}
	wr.intro(doc.Year, doc.Example)
	wr.titlePage(doc.Year, doc.Course, doc.Pole)
	for _, s := range doc.Sections {
		if s.empty() {
			continue
		}
		wr.section(s)
	}
	return wr
}

func (wr *writer) bytes() ([]byte, error) {
	var buf bytes.Buffer
	if err := wr.pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("write pdf: %w", err)
	}
	return buf.Bytes(), nil
}
