package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/diavi-ufpa/avalia/internal/app"
	"github.com/diavi-ufpa/avalia/pkg/cache"
)

var (
	importYear string
	importFile string
)

var importCmd = &cobra.Command{
	Use:   "import",
	Short: "Import a survey file into the store",
	Long: `Import a CSV or XLSX survey export, replacing the responses stored
for that year. Cached aggregates of the year are dropped when REDIS_ADDR
is set.

Examples:
  avalia import --year 2025 --file "data/AUTOAVALIAÇÃO - 2025-2.csv"
  avalia import --year 2023 --file respostas-2023.xlsx`,
	RunE: runImport,
}

func init() {
	importCmd.Flags().StringVar(&importYear, "year", "", "survey cycle of the file (2023 or 2025)")
	importCmd.Flags().StringVar(&importFile, "file", "", "CSV or XLSX file to import")
	_ = importCmd.MarkFlagRequired("year")
	_ = importCmd.MarkFlagRequired("file")
}

func runImport(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	e, err := loadEnv()
	if err != nil {
		return err
	}
	defer e.logger.Sync()

	db, repo, err := e.openStore(ctx)
	if err != nil {
		return err
	}
	defer db.Close()

	ds, err := app.ImportFile(ctx, repo, importYear, importFile)
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "imported %d responses and %d questions for %s\n",
		len(ds.Responses), ds.QuestionCount(), ds.Year)

	if e.cfg.RedisAddr == "" {
		return nil
	}
	c, err := cache.New(ctx, cache.WithAddress(e.cfg.RedisAddr), cache.WithPassword(e.cfg.RedisPassword), cache.WithDB(e.cfg.RedisDB))
	if err != nil {
		e.logger.Warn("cache unavailable, cached aggregates expire on their own", zap.Error(err))
		return nil
	}
	defer c.Close()
	n, err := c.DeleteMatching(ctx, "grpc:*:"+ds.Year+"*")
	if err != nil {
		e.logger.Warn("failed to drop cached aggregates", zap.Error(err))
		return nil
	}
	e.logger.Info("dropped cached aggregates", zap.String("year", ds.Year), zap.Int("keys", n))
	return nil
}
