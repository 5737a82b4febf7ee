package chart

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/diavi-ufpa/avalia/internal/analytics"
	"github.com/diavi-ufpa/avalia/internal/stats"
	"github.com/diavi-ufpa/avalia/internal/survey"
)

func values(ds Dataset) []float64 {
	out := make([]float64, len(ds.Data))
	for i, v := range ds.Data {
		if v != nil {
			out[i] = *v
		}
	}
	return out
}

func TestProportions(t *testing.T) {
	counts := analytics.AggregateCategories(
		[]survey.Response{{Ratings: []survey.Rating{4, 0, 3}}},
		[]analytics.Group{{Key: "B", Items: []int{1, 2, 3}}, {Key: "A", Items: []int{2}}},
	)
	data := Proportions(counts)

	assert.Equal(t, []string{"B", "A"}, data.Labels, "groups keep insertion order")
	require.Len(t, data.Datasets, 4)
	for i, c := range survey.Concepts {
		assert.Equal(t, string(c), data.Datasets[i].Label)
		assert.Equal(t, Palette[c], data.Datasets[i].BackgroundColor)
	}
	assert.Equal(t, []float64{50, 0}, values(data.Datasets[0]))
	assert.Equal(t, []float64{50, 0}, values(data.Datasets[1]))
	assert.Equal(t, []float64{0, 0}, values(data.Datasets[3]))
}

func TestItemProportions(t *testing.T) {
	counts := analytics.AggregateCategories(
		[]survey.Response{{Ratings: make([]survey.Rating, 12)}},
		analytics.ItemGroups([]int{10, 2, 1}),
	)
	data := ItemProportions(counts)
	assert.Equal(t, []string{"1", "2", "10"}, data.Labels)
}

func TestMeans(t *testing.T) {
	data := Means([]analytics.GroupMean{
		{Group: "1", Mean: 3.14159, Count: 3, Valid: true},
		{Group: "2"},
	})

	require.Len(t, data.Datasets, 1)
	ds := data.Datasets[0]
	assert.Equal(t, MeansLabel, ds.Label)
	assert.Equal(t, MeansColor, ds.BackgroundColor)
	require.NotNil(t, ds.Data[0])
	assert.Equal(t, 3.14, *ds.Data[0])
	assert.Nil(t, ds.Data[1])
}

func TestEmptyInput(t *testing.T) {
	for name, data := range map[string]Data{
		"proportions": Proportions(nil),
		"items":       ItemProportions(nil),
		"means":       Means(nil),
	} {
		t.Run(name, func(t *testing.T) {
			assert.True(t, data.Empty())
			raw, err := json.Marshal(data)
			require.NoError(t, err)
			assert.JSONEq(t, `{"labels":[],"datasets":[]}`, string(raw))
		})
	}
}

func TestBoxes(t *testing.T) {
	truth := stats.Summarize([]float64{3, 3, 3, 3})
	series := Boxes([]analytics.Boxplot{{Group: "g", True: truth, Display: truth.Display()}})

	require.Len(t, series, 1)
	assert.Equal(t, "g", series[0].X)
	assert.InDelta(t, 2.97, series[0].Y[1], 1e-9)
	assert.InDelta(t, 3.03, series[0].Y[3], 1e-9)
	assert.Empty(t, series[0].Outliers)
}

func TestWrapWords(t *testing.T) {
	tests := []struct {
		label string
		want  []string
	}{
		{"Autoavaliação Discente", []string{"Autoavaliação", "Discente"}},
		{"Instalações Físicas e Recursos de TI", []string{"Instalações", "Físicas e Recursos", "de TI"}},
		{"Curto", []string{"Curto"}},
		{"Paralelepipedamente longo", []string{"Paralelepipedamente", "longo"}},
		{"", []string{""}},
	}
	for _, tt := range tests {
		t.Run(tt.label, func(t *testing.T) {
			assert.Equal(t, tt.want, WrapWords(tt.label, WrapWidth))
		})
	}
}
