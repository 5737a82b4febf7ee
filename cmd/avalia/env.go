package main

import (
	"context"
	"database/sql"
	"fmt"

	"go.uber.org/zap"

	"github.com/diavi-ufpa/avalia/internal/config"
	"github.com/diavi-ufpa/avalia/internal/repository"
	dbbuilder "github.com/diavi-ufpa/avalia/pkg/database"
)

// env is what every subcommand starts from.
type env struct {
	cfg    *config.Config
	logger *zap.Logger
}

func loadEnv() (*env, error) {
	cfg, err := config.Load(configDir)
	if err != nil {
		return nil, err
	}
	logger, err := config.NewLogger(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}
	return &env{cfg: cfg, logger: logger}, nil
}

// openStore opens and migrates the survey database.
func (e *env) openStore(ctx context.Context) (*sql.DB, *repository.SurveyRepository, error) {
	db, err := dbbuilder.New(ctx,
		dbbuilder.WithDriver(e.cfg.DBDriver),
		dbbuilder.WithDataSource(e.cfg.DBPath),
	)
	if err != nil {
		return nil, nil, fmt.Errorf("database init failed: %w", err)
	}
	if err := repository.Migrate(ctx, db); err != nil {
		db.Close()
		return nil, nil, err
	}
	return db, repository.NewSurveyRepository(db), nil
}
