package app

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"go.uber.org/zap"

	"github.com/diavi-ufpa/avalia/internal/repository/models"
	"github.com/diavi-ufpa/avalia/internal/survey"
)

// DatasetStore is the part of the repository the importer writes to.
type DatasetStore interface {
	ImportDataset(ctx context.Context, ds *survey.Dataset, source string) error
	ListDatasets(ctx context.Context) ([]models.DatasetInfo, error)
}

// ImportFile reads a CSV or XLSX survey file of a year and stores it,
// replacing whatever that year held before.
func ImportFile(ctx context.Context, store DatasetStore, year, path string) (*survey.Dataset, error) {
	schema, err := survey.SchemaFor(year)
	if err != nil {
		return nil, err
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open survey file: %w", err)
	}
	defer f.Close()

	ds, err := survey.Read(f, path, schema)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", filepath.Base(path), err)
	}
	if err := store.ImportDataset(ctx, ds, filepath.Base(path)); err != nil {
		return nil, fmt.Errorf("import %s: %w", year, err)
	}
	return ds, nil
}

// FindSurveyFile returns the first CSV or XLSX file in dir whose name
// mentions year, or "" when there is none.
func FindSurveyFile(dir, year string) (string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return "", fmt.Errorf("list %s: %w", dir, err)
	}
	var found []string
	for _, e := range entries {
		if e.IsDir() || !strings.Contains(e.Name(), year) {
			continue
		}
		switch strings.ToLower(filepath.Ext(e.Name())) {
		case ".csv", ".xlsx":
			found = append(found, e.Name())
		}
	}
	if len(found) == 0 {
		return "", nil
	}
	sort.Strings(found)
	return filepath.Join(dir, found[0]), nil
}

// SeedMissing imports, from dir, every supported year not stored yet. A
// year without a file is logged and left empty.
func SeedMissing(ctx context.Context, store DatasetStore, dir string, logger *zap.Logger) ([]string, error) {
	infos, err := store.ListDatasets(ctx)
	if err != nil {
		return nil, err
	}
	stored := make(map[string]bool, len(infos))
	for _, info := range infos {
		stored[info.Year] = true
	}

	var imported []string
	for _, year := range survey.Years {
		if stored[year] {
			continue
		}
		path, err := FindSurveyFile(dir, year)
		if err != nil {
			return imported, err
		}
		if path == "" {
			logger.Warn("no survey file for year", zap.String("year", year), zap.String("dir", dir))
			continue
		}
		ds, err := ImportFile(ctx, store, year, path)
		if err != nil {
			return imported, err
		}
		logger.Info("seeded survey dataset",
			zap.String("year", year),
			zap.String("file", filepath.Base(path)),
			zap.Int("responses", len(ds.Responses)))
		imported = append(imported, year)
	}
	return imported, nil
}
