// Package chart reshapes aggregated tables into the label/dataset series the
// dashboard charts consume.
package chart

import (
	"sort"
	"strconv"
	"strings"

	"github.com/diavi-ufpa/avalia/internal/analytics"
	"github.com/diavi-ufpa/avalia/internal/stats"
	"github.com/diavi-ufpa/avalia/internal/survey"
)

const (
	MeansLabel = "Média"
	MeansColor = "rgba(40, 143, 180, 0.7)"

	// WrapWidth is the line width, in characters, of wrapped axis labels.
	WrapWidth = 18
)

// Palette assigns each concept its fixed colour.
var Palette = map[survey.Concept]string{
	survey.Excellent:    "#1D556F",
	survey.Good:         "#288FB4",
	survey.Regular:      "#F0B775",
	survey.Insufficient: "#FA360A",
}

// Dataset is one labelled series.
type Dataset struct {
	Label           string     `json:"label"`
	Data            []*float64 `json:"data"`
	BackgroundColor string     `json:"backgroundColor"`
}

// Data is the input of a bar chart.
type Data struct {
	Labels   []string  `json:"labels"`
	Datasets []Dataset `json:"datasets"`
}

// Empty reports whether there is nothing to draw.
func (d Data) Empty() bool {
	return len(d.Labels) == 0 || len(d.Datasets) == 0
}

func emptyData() Data {
	return Data{Labels: []string{}, Datasets: []Dataset{}}
}

// Proportions builds one dataset per concept over the groups of counts,
// keeping the groups in order of first appearance.
func Proportions(counts []analytics.CategoryCount) Data {
	if len(counts) == 0 {
		return emptyData()
	}
	var labels []string
	seen := make(map[string]int)
	for _, c := range counts {
		if _, ok := seen[c.Group]; !ok {
			seen[c.Group] = len(labels)
			labels = append(labels, c.Group)
		}
	}
	return proportions(labels, seen, counts)
}

// ItemProportions is Proportions with groups ordered numerically by item.
func ItemProportions(counts []analytics.CategoryCount) Data {
	if len(counts) == 0 {
		return emptyData()
	}
	var labels []string
	seen := make(map[string]int)
	for _, c := range counts {
		if _, ok := seen[c.Group]; !ok {
			seen[c.Group] = 0
			labels = append(labels, c.Group)
		}
	}
	sort.SliceStable(labels, func(i, j int) bool { return itemLess(labels[i], labels[j]) })
	for i, l := range labels {
		seen[l] = i
	}
	return proportions(labels, seen, counts)
}

func proportions(labels []string, index map[string]int, counts []analytics.CategoryCount) Data {
	datasets := make([]Dataset, len(survey.Concepts))
	for i, c := range survey.Concepts {
		datasets[i] = Dataset{
			Label:           string(c),
			Data:            make([]*float64, len(labels)),
			BackgroundColor: Palette[c],
		}
	}
	conceptIndex := make(map[survey.Concept]int, len(survey.Concepts))
	for i, c := range survey.Concepts {
		conceptIndex[c] = i
	}
	for _, c := range counts {
		ci, ok := conceptIndex[c.Concept]
		if !ok {
			continue
		}
		v := c.Value
		datasets[ci].Data[index[c.Group]] = &v
	}
	for _, ds := range datasets {
		for i := range ds.Data {
			if ds.Data[i] == nil {
				ds.Data[i] = new(float64)
			}
		}
	}
	return Data{Labels: labels, Datasets: datasets}
}

// Means builds the single "Média" series, rounded to two decimals. Groups
// without valid ratings are left as gaps (nil).
func Means(means []analytics.GroupMean) Data {
	if len(means) == 0 {
		return emptyData()
	}
	labels := make([]string, len(means))
	data := make([]*float64, len(means))
	for i, m := range means {
		labels[i] = m.Group
		if m.Valid {
			v := stats.Round2(m.Mean)
			data[i] = &v
		}
	}
	return Data{
		Labels:   labels,
		Datasets: []Dataset{{Label: MeansLabel, Data: data, BackgroundColor: MeansColor}},
	}
}

// BoxSeries is one box of a boxplot chart, drawn from the display summary.
type BoxSeries struct {
	X        string     `json:"x"`
	Y        [5]float64 `json:"y"`
	Outliers []float64  `json:"outliers"`
}

// Boxes converts boxplots into chart series.
func Boxes(boxes []analytics.Boxplot) []BoxSeries {
	out := make([]BoxSeries, 0, len(boxes))
	for _, b := range boxes {
		out = append(out, BoxSeries{X: b.Group, Y: b.Display.Box(), Outliers: b.Display.Outliers})
	}
	return out
}

// WrapWords splits a label into lines of at most width characters, breaking
// on spaces. A single word longer than width gets its own line.
func WrapWords(label string, width int) []string {
	words := strings.Fields(label)
	if len(words) == 0 {
		return []string{""}
	}
	var lines []string
	line := words[0]
	for _, w := range words[1:] {
		if len([]rune(line))+1+len([]rune(w)) > width {
			lines = append(lines, line)
			line = w
			continue
		}
		line += " " + w
	}
	return append(lines, line)
}

func itemLess(a, b string) bool {
	x, errA := strconv.Atoi(a)
	y, errB := strconv.Atoi(b)
	if errA != nil || errB != nil {
		return a < b
	}
	return x < y
}
