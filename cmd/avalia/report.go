package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/diavi-ufpa/avalia/internal/report"
	"github.com/diavi-ufpa/avalia/internal/service"
)

var (
	reportReq report.Request
	reportOut string
)

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Build course reports as PDF files",
	Long: `Build the AVALIA report of a course. With --all-poles and no --pole,
one report per pole of the course is written.

Examples:
  avalia report --year 2025 --course "Física" --pole "Belém"
  avalia report --year 2025 --course "Física" --all-poles --out reports/`,
	RunE: runReport,
}

func init() {
	f := reportCmd.Flags()
	f.StringVar(&reportReq.Year, "year", "", "survey cycle (defaults to the most recent)")
	f.StringVar(&reportReq.Course, "course", "", "course name")
	f.StringVar(&reportReq.Pole, "pole", "", "pole name")
	f.BoolVar(&reportReq.AllPoles, "all-poles", false, "write one report per pole")
	f.StringVar(&reportOut, "out", ".", "output directory")
	_ = reportCmd.MarkFlagRequired("course")
}

func runReport(cmd *cobra.Command, _ []string) error {
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

	dashboard := service.NewDashboardService(repo, e.logger)
	builder := report.NewBuilder(dashboard, e.logger,
		report.WithAssetsDir(e.cfg.AssetsDir),
		report.WithChartTimeout(e.cfg.ChartTimeout),
		report.WithConcurrency(e.cfg.ReportConcurrency),
	)

	reports, err := builder.BuildAll(ctx, reportReq)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(reportOut, 0o755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}
	for _, r := range reports {
		path := filepath.Join(reportOut, r.FileName)
		if err := os.WriteFile(path, r.PDF, 0o644); err != nil {
			return fmt.Errorf("write %s: %w", path, err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s (%d bytes", path, len(r.PDF))
		if len(r.Skipped) > 0 {
			fmt.Fprintf(cmd.OutOrStdout(), ", %d charts skipped", len(r.Skipped))
		}
		fmt.Fprintln(cmd.OutOrStdout(), ")")
	}
	return nil
}
