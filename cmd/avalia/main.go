// Command avalia is the operator tool: it imports survey files, builds
// reports offline, inspects the store and runs the server.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	_ "github.com/mattn/go-sqlite3"
	"github.com/spf13/cobra"
)

var configDir string

var rootCmd = &cobra.Command{
	Use:   "avalia",
	Short: "Survey analytics and report tool",
	Long: `avalia ingests the AVALIA EAD self-assessment surveys, serves their
aggregates over HTTP and gRPC, and builds the PDF reports.

Configuration comes from .env, an optional config.yaml and the environment
(DB_PATH, DATA_DIR, ASSETS_DIR, REDIS_ADDR, ...).`,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configDir, "config", ".", "directory holding config.yaml")
	rootCmd.AddCommand(importCmd, reportCmd, serveCmd, datasetsCmd)
}

func main() {
	_ = godotenv.Load(".env")
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
