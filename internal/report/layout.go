package report

import "math"

// Page geometry in points.
const (
	pageMargin   = 40.0
	coverMarginX = 36.0
	coverMarginY = 48.0

	// sectionTop is where the first chart of a section starts, below the
	// section title.
	sectionTop = pageMargin + 18

	legendSpace  = 18.0
	captionSpace = 34.0
)

// Rect is a box on the page.
type Rect struct {
	X, Y, W, H float64
}

// Contain fits an image of w×h into box keeping its aspect ratio, centred.
func Contain(w, h float64, box Rect) Rect {
	if w <= 0 || h <= 0 {
		return Rect{X: box.X, Y: box.Y}
	}
	scale := math.Min(box.W/w, box.H/h)
	dw, dh := w*scale, h*scale
	return Rect{
		X: box.X + (box.W-dw)/2,
		Y: box.Y + (box.H-dh)/2,
		W: dw,
		H: dh,
	}
}

// slot is one chart position of a layout. A zero Height shares the space
// left on the page, never going below Min.
type slot struct {
	Height float64
	Min    float64
	Legend bool
}

// Layout arranges the charts of a section page.
type Layout int

const (
	// LayoutDimensions is proportions on top, then means and boxplot
	// splitting the rest of the page.
	LayoutDimensions Layout = iota
	// LayoutThree is a large proportions chart, a boxplot and a means chart.
	LayoutThree
	// LayoutTwo is a tall proportions chart and a means chart.
	LayoutTwo
)

func (l Layout) slots() []slot {
	switch l {
	case LayoutDimensions:
		return []slot{{Height: 240, Legend: true}, {}, {}}
	case LayoutThree:
		return []slot{{Height: 240, Legend: true}, {Height: 200}, {Min: 140}}
	default:
		return []slot{{Height: 320, Legend: true}, {Min: 160}}
	}
}

// Slot is a placed chart position: the image box and whether a legend
// follows it. The caption goes right after the legend, or the image when
// there is none.
type Slot struct {
	Box    Rect
	Legend bool
}

// Boxes places the slots of l on a page of the given size.
func (l Layout) Boxes(pageW, pageH float64) []Slot {
	slots := l.slots()
	width := pageW - 2*pageMargin
	bottom := pageH - pageMargin

	fixed, flexible := 0.0, 0
	for _, s := range slots {
		if s.Height == 0 {
			flexible++
			continue
		}
		fixed += s.Height + captionSpace
		if s.Legend {
			fixed += legendSpace
		}
	}
	var share float64
	if flexible > 0 {
		share = (bottom-sectionTop-fixed)/float64(flexible) - captionSpace
	}

	out := make([]Slot, len(slots))
	y := sectionTop
	for i, s := range slots {
		h := s.Height
		if h == 0 {
			h = math.Max(s.Min, share)
		}
		out[i] = Slot{Box: Rect{X: pageMargin, Y: y, W: width, H: h}, Legend: s.Legend}
		y += h + captionSpace
		if s.Legend {
			y += legendSpace
		}
	}
	return out
}

// A4 portrait in points.
const (
	a4Width  = 595.28
	a4Height = 841.89
)
