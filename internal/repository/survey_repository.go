package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/diavi-ufpa/avalia/internal/repository/models"
	"github.com/diavi-ufpa/avalia/internal/survey"
)

var ErrDatasetNotFound = errors.New("dataset not found")

type SurveyRepository struct {
	db  *sql.DB
	now func() time.Time
}

func NewSurveyRepository(db *sql.DB) *SurveyRepository {
	return &SurveyRepository{db: db, now: time.Now}
}

// ImportDataset replaces the stored responses of ds.Year in a single transaction.
func (s *SurveyRepository) ImportDataset(ctx context.Context, ds *survey.Dataset, source string) (err error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin ImportDataset: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	if err = deleteYear(ctx, tx, ds.Year); err != nil {
		return err
	}

	if _, err = tx.ExecContext(ctx,
		`INSERT INTO datasets (year, source, imported_at) VALUES (?, ?, ?)`,
		ds.Year, source, s.now().UTC().Format(time.RFC3339),
	); err != nil {
		return fmt.Errorf("insert dataset: %w", err)
	}

	for _, q := range ds.Questions {
		if _, err = tx.ExecContext(ctx,
			`INSERT INTO questions (year, item, header) VALUES (?, ?, ?)`,
			ds.Year, q.Item, q.Header,
		); err != nil {
			return fmt.Errorf("insert question %d: %w", q.Item, err)
		}
	}

	insResponse, err := tx.PrepareContext(ctx,
		`INSERT INTO responses (year, position, respondent, course, pole) VALUES (?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("prepare responses: %w", err)
	}
	defer insResponse.Close()
	insDiscipline, err := tx.PrepareContext(ctx,
		`INSERT INTO response_disciplines (response_id, position, discipline) VALUES (?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("prepare disciplines: %w", err)
	}
	defer insDiscipline.Close()
	insRating, err := tx.PrepareContext(ctx,
		`INSERT INTO ratings (response_id, item, rating) VALUES (?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("prepare ratings: %w", err)
	}
	defer insRating.Close()

	for i, r := range ds.Responses {
		res, execErr := insResponse.ExecContext(ctx, ds.Year, i, r.Respondent, r.Course, r.Pole)
		if execErr != nil {
			err = fmt.Errorf("insert response %d: %w", i, execErr)
			return err
		}
		id, idErr := res.LastInsertId()
		if idErr != nil {
			err = fmt.Errorf("response %d id: %w", i, idErr)
			return err
		}
		for j, d := range r.Disciplines {
			if _, err = insDiscipline.ExecContext(ctx, id, j, d); err != nil {
				return fmt.Errorf("insert discipline of response %d: %w", i, err)
			}
		}
		for j, v := range r.Ratings {
			if !v.Valid() {
				continue
			}
			if _, err = insRating.ExecContext(ctx, id, j+1, int(v)); err != nil {
				return fmt.Errorf("insert rating of response %d: %w", i, err)
			}
		}
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit ImportDataset: %w", err)
	}
	return nil
}

func deleteYear(ctx context.Context, tx *sql.Tx, year string) error {
	stmts := []string{
		`DELETE FROM ratings WHERE response_id IN (SELECT id FROM responses WHERE year = ?)`,
		`DELETE FROM response_disciplines WHERE response_id IN (SELECT id FROM responses WHERE year = ?)`,
		`DELETE FROM responses WHERE year = ?`,
		`DELETE FROM questions WHERE year = ?`,
		`DELETE FROM datasets WHERE year = ?`,
	}
	for _, q := range stmts {
		if _, err := tx.ExecContext(ctx, q, year); err != nil {
			return fmt.Errorf("clear year %s: %w", year, err)
		}
	}
	return nil
}

// LoadDataset rebuilds the normalized dataset of a year.
func (s *SurveyRepository) LoadDataset(ctx context.Context, year string) (*survey.Dataset, error) {
	var exists int
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM datasets WHERE year = ?`, year).Scan(&exists)
	if err != nil {
		return nil, fmt.Errorf("query LoadDataset: %w", err)
	}
	if exists == 0 {
		return nil, fmt.Errorf("%w: %s", ErrDatasetNotFound, year)
	}

	ds := &survey.Dataset{Year: year}
	if ds.Questions, err = s.questions(ctx, year); err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, respondent, course, pole
		FROM responses
		WHERE year = ?
		ORDER BY position
	`, year)
	if err != nil {
		return nil, fmt.Errorf("query responses: %w", err)
	}
	defer rows.Close()

	index := make(map[int64]int)
	for rows.Next() {
		var id int64
		r := survey.Response{Ratings: make([]survey.Rating, len(ds.Questions))}
		if err := rows.Scan(&id, &r.Respondent, &r.Course, &r.Pole); err != nil {
			return nil, fmt.Errorf("scan response row: %w", err)
		}
		index[id] = len(ds.Responses)
		ds.Responses = append(ds.Responses, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate responses: %w", err)
	}

	if err := s.fillDisciplines(ctx, year, ds, index); err != nil {
		return nil, err
	}
	if err := s.fillRatings(ctx, year, ds, index); err != nil {
		return nil, err
	}
	return ds, nil
}

func (s *SurveyRepository) questions(ctx context.Context, year string) ([]survey.Question, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT item, header FROM questions WHERE year = ? ORDER BY item`, year)
	if err != nil {
		return nil, fmt.Errorf("query questions: %w", err)
	}
	defer rows.Close()

	var out []survey.Question
	for rows.Next() {
		var q survey.Question
		if err := rows.Scan(&q.Item, &q.Header); err != nil {
			return nil, fmt.Errorf("scan question row: %w", err)
		}
		out = append(out, q)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate questions: %w", err)
	}
	return out, nil
}

func (s *SurveyRepository) fillDisciplines(ctx context.Context, year string, ds *survey.Dataset, index map[int64]int) error {
	rows, err := s.db.QueryContext(ctx, `
		SELECT d.response_id, d.discipline
		FROM response_disciplines AS d
		JOIN responses AS r ON r.id = d.response_id
		WHERE r.year = ?
		ORDER BY d.response_id, d.position
	`, year)
	if err != nil {
		return fmt.Errorf("query disciplines: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var id int64
		var d string
		if err := rows.Scan(&id, &d); err != nil {
			return fmt.Errorf("scan discipline row: %w", err)
		}
		if i, ok := index[id]; ok {
			ds.Responses[i].Disciplines = append(ds.Responses[i].Disciplines, d)
		}
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("iterate disciplines: %w", err)
	}
	return nil
}

func (s *SurveyRepository) fillRatings(ctx context.Context, year string, ds *survey.Dataset, index map[int64]int) error {
	rows, err := s.db.QueryContext(ctx, `
		SELECT g.response_id, g.item, g.rating
		FROM ratings AS g
		JOIN responses AS r ON r.id = g.response_id
		WHERE r.year = ?
	`, year)
	if err != nil {
		return fmt.Errorf("query ratings: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var id int64
		var item, rating int
		if err := rows.Scan(&id, &item, &rating); err != nil {
			return fmt.Errorf("scan rating row: %w", err)
		}
		i, ok := index[id]
		if !ok || item < 1 || item > len(ds.Responses[i].Ratings) {
			continue
		}
		ds.Responses[i].Ratings[item-1] = survey.Rating(rating)
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("iterate ratings: %w", err)
	}
	return nil
}

// ListDatasets describes every imported year, most recent first.
func (s *SurveyRepository) ListDatasets(ctx context.Context) ([]models.DatasetInfo, error) {
	const query = `
		SELECT
			d.year,
			d.source,
			d.imported_at,
			(SELECT COUNT(*) FROM questions AS q WHERE q.year = d.year) AS questions,
			(SELECT COUNT(*) FROM responses AS r WHERE r.year = d.year) AS responses
		FROM datasets AS d
		ORDER BY d.year DESC
	`
	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("query ListDatasets: %w", err)
	}
	defer rows.Close()

	var out []models.DatasetInfo
	for rows.Next() {
		var info models.DatasetInfo
		var importedAt string
		if err := rows.Scan(&info.Year, &info.Source, &importedAt, &info.Questions, &info.Responses); err != nil {
			return nil, fmt.Errorf("scan ListDatasets row: %w", err)
		}
		if info.ImportedAt, err = time.Parse(time.RFC3339, importedAt); err != nil {
			return nil, fmt.Errorf("parse imported_at of %s: %w", info.Year, err)
		}
		out = append(out, info)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate ListDatasets: %w", err)
	}
	return out, nil
}

// RatingDistribution counts, in SQL, how many times each rating was given to each item of a year.
func (s *SurveyRepository) RatingDistribution(ctx context.Context, year string) ([]models.ItemRatingCount, error) {
	const query = `
		SELECT g.item, g.rating, COUNT(*) AS total
		FROM ratings AS g
		JOIN responses AS r ON r.id = g.response_id
		WHERE r.year = ?
		GROUP BY g.item, g.rating
		ORDER BY g.item, g.rating DESC
	`
	rows, err := s.db.QueryContext(ctx, query, year)
	if err != nil {
		return nil, fmt.Errorf("query RatingDistribution: %w", err)
	}
	defer rows.Close()

	var out []models.ItemRatingCount
	for rows.Next() {
		var c models.ItemRatingCount
		if err := rows.Scan(&c.Item, &c.Rating, &c.Count); err != nil {
			return nil, fmt.Errorf("scan RatingDistribution row: %w", err)
		}
		out = append(out, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate RatingDistribution: %w", err)
	}
	return out, nil
}
