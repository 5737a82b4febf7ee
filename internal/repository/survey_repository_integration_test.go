package repository_test

import (
	"context"
	"database/sql"
	"testing"

	_ "github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/require"

	"github.com/diavi-ufpa/avalia/internal/repository"
	"github.com/diavi-ufpa/avalia/internal/survey"
)

func setupTestDB(t *testing.T) *sql.DB {
	t.Helper()

	db, err := sql.Open("sqlite3", ":memory:")
	require.NoError(t, err)
	// Every connection to :memory: opens a separate database.
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { db.Close() })

	require.NoError(t, repository.Migrate(context.Background(), db))
	return db
}

func testDataset() *survey.Dataset {
	return &survey.Dataset{
		Year: "2025",
		Questions: []survey.Question{
			{Item: 1, Header: "1) Um"},
			{Item: 2, Header: "2) Dois"},
			{Item: 3, Header: "3) Três"},
		},
		Responses: []survey.Response{
			{Respondent: "ana", Course: "Física", Pole: "Belém", Disciplines: []string{"Cálculo I", "Óptica"}, Ratings: []survey.Rating{4, 0, 3}},
			{Respondent: "bia", Course: "Letras", Pole: "Soure", Ratings: []survey.Rating{2, 1, 4}},
			{Course: "Letras", Ratings: []survey.Rating{0, 0, 0}},
		},
	}
}

func TestSurveyRepository_Integration(t *testing.T) {
	ctx := context.Background()
	db := setupTestDB(t)
	repo := repository.NewSurveyRepository(db)

	t.Run("LoadDataset - missing year", func(t *testing.T) {
		_, err := repo.LoadDataset(ctx, "2023")
		require.ErrorIs(t, err, repository.ErrDatasetNotFound)
	})

	t.Run("ImportDataset and LoadDataset round trip", func(t *testing.T) {
		want := testDataset()
		require.NoError(t, repo.ImportDataset(ctx, want, "respostas.csv"))

		got, err := repo.LoadDataset(ctx, "2025")
		require.NoError(t, err)
		require.Equal(t, want, got)
	})

	t.Run("ImportDataset replaces the year", func(t *testing.T) {
		ds := testDataset()
		ds.Responses = ds.Responses[:1]
		require.NoError(t, repo.ImportDataset(ctx, ds, "nova.csv"))

		got, err := repo.LoadDataset(ctx, "2025")
		require.NoError(t, err)
		require.Len(t, got.Responses, 1)

		infos, err := repo.ListDatasets(ctx)
		require.NoError(t, err)
		require.Len(t, infos, 1)
		require.Equal(t, "nova.csv", infos[0].Source)
		require.Equal(t, 3, infos[0].Questions)
		require.Equal(t, 1, infos[0].Responses)
		require.False(t, infos[0].ImportedAt.IsZero())
	})

	t.Run("RatingDistribution", func(t *testing.T) {
		require.NoError(t, repo.ImportDataset(ctx, testDataset(), "respostas.csv"))

		counts, err := repo.RatingDistribution(ctx, "2025")
		require.NoError(t, err)
		require.Len(t, counts, 5)
		require.Equal(t, 1, counts[0].Item)
		require.Equal(t, 4, counts[0].Rating, "higher ratings first within an item")

		total := 0
		for _, c := range counts {
			total += c.Count
		}
		require.Equal(t, 5, total, "no-rating answers are not stored")
	})
}
