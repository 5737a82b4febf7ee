package service

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/diavi-ufpa/avalia/internal/repository"
	"github.com/diavi-ufpa/avalia/internal/service/mocks"
	"github.com/diavi-ufpa/avalia/internal/survey"
)

func fixedRatings(n int, v survey.Rating) []survey.Rating {
	r := make([]survey.Rating, n)
	for i := range r {
		r[i] = v
	}
	return r
}

func dataset2025() *survey.Dataset {
	questions := make([]survey.Question, 45)
	for i := range questions {
		questions[i] = survey.Question{Item: i + 1}
	}
	return &survey.Dataset{
		Year:      "2025",
		Questions: questions,
		Responses: []survey.Response{
			{Respondent: "ana", Course: "Física", Pole: "Belém", Disciplines: []string{"Óptica"}, Ratings: fixedRatings(45, 4)},
			{Respondent: "bia", Course: "Letras", Pole: "Soure", Ratings: fixedRatings(45, 2)},
			{Respondent: "caio", Course: "Física", Pole: "Belém", Ratings: fixedRatings(45, 3)},
		},
	}
}

func repoWith(ds *survey.Dataset) *mocks.MockSurveyRepository {
	return &mocks.MockSurveyRepository{
		LoadDatasetFunc: func(ctx context.Context, year string) (*survey.Dataset, error) {
			if year != ds.Year {
				return nil, repository.ErrDatasetNotFound
			}
			return ds, nil
		},
	}
}

// TestNewDashboardService tests the constructor
func TestNewDashboardService(t *testing.T) {
	t.Run("valid parameters", func(t *testing.T) {
		mockRepo := &mocks.MockSurveyRepository{}
		logger := zap.NewNop()

		svc := NewDashboardService(mockRepo, logger, WithDatasetTTL(time.Hour))

		assert.NotNil(t, svc)
		assert.Equal(t, mockRepo, svc.storage)
		assert.Equal(t, logger, svc.logger)
		assert.Equal(t, time.Hour, svc.ttl)
	})

	t.Run("nil storage panics", func(t *testing.T) {
		assert.Panics(t, func() {
			NewDashboardService(nil, zap.NewNop())
		})
	})

	t.Run("nil logger gets default", func(t *testing.T) {
		svc := NewDashboardService(&mocks.MockSurveyRepository{}, nil)
		assert.NotNil(t, svc.logger)
	})
}

func TestDatasetErrors(t *testing.T) {
	ctx := context.Background()

	t.Run("missing year", func(t *testing.T) {
		svc := NewDashboardService(repoWith(dataset2025()), zap.NewNop())
		_, err := svc.FilterOptions(ctx, "2023")
		assert.ErrorIs(t, err, ErrNoResponses)
	})

	t.Run("unknown year", func(t *testing.T) {
		svc := NewDashboardService(repoWith(dataset2025()), zap.NewNop())
		_, err := svc.FilterOptions(ctx, "1999")
		assert.ErrorIs(t, err, ErrInvalidFilter)
	})

	t.Run("storage failure", func(t *testing.T) {
		mockRepo := &mocks.MockSurveyRepository{
			LoadDatasetFunc: func(ctx context.Context, year string) (*survey.Dataset, error) {
				return nil, errors.New("database is locked")
			},
		}
		svc := NewDashboardService(mockRepo, zap.NewNop())
		_, err := svc.Summary(ctx, survey.Filter{})

		assert.ErrorIs(t, err, ErrStorageFailure)
		assert.Contains(t, err.Error(), "database is locked")
	})
}

func TestDatasetReuse(t *testing.T) {
	var loads atomic.Int32
	ds := dataset2025()
	mockRepo := &mocks.MockSurveyRepository{
		LoadDatasetFunc: func(ctx context.Context, year string) (*survey.Dataset, error) {
			loads.Add(1)
			return ds, nil
		},
	}
	svc := NewDashboardService(mockRepo, zap.NewNop())
	now := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return now }

	ctx := context.Background()
	_, err := svc.FilterOptions(ctx, "")
	require.NoError(t, err)
	_, err = svc.FilterOptions(ctx, "2025")
	require.NoError(t, err)
	assert.Equal(t, int32(1), loads.Load(), "empty year defaults to the current cycle")

	now = now.Add(2 * defaultDatasetTTL)
	_, err = svc.FilterOptions(ctx, "2025")
	require.NoError(t, err)
	assert.Equal(t, int32(2), loads.Load())

	svc.Invalidate("2025")
	_, err = svc.FilterOptions(ctx, "2025")
	require.NoError(t, err)
	assert.Equal(t, int32(3), loads.Load())
}

func TestSummary(t *testing.T) {
	svc := NewDashboardService(repoWith(dataset2025()), zap.NewNop())

	view, err := svc.Summary(context.Background(), survey.Filter{Pole: "Soure"})
	require.NoError(t, err)

	assert.Equal(t, 1, view.TotalRespondents)
	assert.Equal(t, "Soure", view.TopPole)
	assert.Equal(t, 2.0, view.OverallMean)
	assert.Equal(t, "Belém", view.BestWorst.Best, "best and worst ignore the filter")
	assert.Equal(t, "Soure", view.BestWorst.Worst)

	t.Run("2023 ranks on the dimension items only", func(t *testing.T) {
		questions := make([]survey.Question, 45)
		for i := range questions {
			questions[i] = survey.Question{Item: i + 1}
		}
		fisica := fixedRatings(45, 3)
		fisica[43], fisica[44] = 1, 1
		letras := fixedRatings(45, 3)
		letras[0] = 2
		ds := &survey.Dataset{Year: "2023", Questions: questions, Responses: []survey.Response{
			{Course: "Física", Ratings: fisica},
			{Course: "Letras", Ratings: letras},
		}}
		svc := NewDashboardService(repoWith(ds), zap.NewNop())

		view, err := svc.Summary(context.Background(), survey.Filter{Year: "2023"})
		require.NoError(t, err)
		assert.Equal(t, "Curso", view.BestWorst.LabelType)
		assert.Equal(t, "Física", view.BestWorst.Best, "items 44 and 45 are not rated")
		assert.Equal(t, "Letras", view.BestWorst.Worst)
		assert.InDelta(t, (3*86-1)/86.0, view.OverallMean, 1e-9)
	})
}

func TestTab(t *testing.T) {
	svc := NewDashboardService(repoWith(dataset2025()), zap.NewNop())
	ctx := context.Background()

	t.Run("dimensions", func(t *testing.T) {
		view, err := svc.Tab(ctx, survey.Filter{Course: "Física"}, TabDimensions)
		require.NoError(t, err)

		assert.Equal(t, survey.Schema2025.DimensionNames(), view.Proportions.Labels)
		require.Len(t, view.Proportions.Datasets, 4)
		assert.Equal(t, 50.0, *view.Proportions.Datasets[0].Data[0])
		assert.Equal(t, 50.0, *view.Proportions.Datasets[1].Data[0])
		assert.Equal(t, 3.5, *view.Means.Datasets[0].Data[0])
		require.Len(t, view.Boxplot, 3)
		require.Len(t, view.Table, 3)
		assert.Equal(t, 2, view.Table[0].Summary.N)
	})

	t.Run("subdimension items", func(t *testing.T) {
		view, err := svc.Tab(ctx, survey.Filter{}, TabAttitude)
		require.NoError(t, err)

		assert.Equal(t, survey.SubdimensionAttitude, view.Title)
		assert.Equal(t, []string{"14", "15", "16", "17", "18", "19"}, view.Proportions.Labels)
		assert.Equal(t, []string{"14", "15", "16", "17", "18", "19"}, view.Means.Labels)
	})

	t.Run("infrastructure of 2025", func(t *testing.T) {
		view, err := svc.Tab(ctx, survey.Filter{Year: "2025"}, TabInfrastructure)
		require.NoError(t, err)
		assert.Len(t, view.Proportions.Labels, 10)
	})

	t.Run("unknown tab", func(t *testing.T) {
		_, err := svc.Tab(ctx, survey.Filter{}, Tab("ranking"))
		assert.ErrorIs(t, err, ErrUnknownTab)
	})

	t.Run("cancelled", func(t *testing.T) {
		cctx, cancel := context.WithCancel(ctx)
		cancel()
		_, err := svc.Tab(cctx, survey.Filter{}, TabDimensions)
		assert.ErrorIs(t, err, context.Canceled)
	})

	t.Run("no matching responses yields zeros", func(t *testing.T) {
		view, err := svc.Tab(ctx, survey.Filter{Course: "Química"}, TabDimensions)
		require.NoError(t, err)
		assert.Equal(t, 0.0, *view.Proportions.Datasets[0].Data[0])
		assert.Nil(t, view.Means.Datasets[0].Data[0])
		assert.Nil(t, view.Table[0].Mean)
	})
}

func TestBuildTabInfrastructure2023(t *testing.T) {
	ds := &survey.Dataset{Year: "2023", Questions: make([]survey.Question, 45)}
	view, err := BuildTab(ds, survey.Schema2023, TabInfrastructure)
	require.NoError(t, err)
	assert.Equal(t, []string{"36", "37", "38", "39", "40", "41", "42", "43"}, view.Proportions.Labels)
}

func TestDashboard(t *testing.T) {
	svc := NewDashboardService(repoWith(dataset2025()), zap.NewNop())

	view, err := svc.Dashboard(context.Background(), survey.Filter{Course: "todos"})
	require.NoError(t, err)

	assert.Equal(t, survey.Filter{}, view.Filter)
	assert.Equal(t, 3, view.Summary.TotalRespondents)
	require.Len(t, view.Tabs, len(Tabs))
	for i, tab := range Tabs {
		assert.Equal(t, tab, view.Tabs[i].Tab)
	}
}

func TestParseTab(t *testing.T) {
	tab, err := ParseTab("gestao")
	require.NoError(t, err)
	assert.Equal(t, TabManagement, tab)

	_, err = ParseTab("")
	assert.ErrorIs(t, err, ErrUnknownTab)
}

func TestCoursePoles(t *testing.T) {
	svc := NewDashboardService(repoWith(dataset2025()), zap.NewNop())

	poles, err := svc.CoursePoles(context.Background(), "2025", "Física")
	require.NoError(t, err)
	assert.Equal(t, []string{"Belém"}, poles)

	poles, err = svc.CoursePoles(context.Background(), "2025", "Medicina")
	require.NoError(t, err)
	assert.Empty(t, poles)

	_, err = svc.CoursePoles(context.Background(), "2023", "Física")
	assert.ErrorIs(t, err, ErrNoResponses)
}
