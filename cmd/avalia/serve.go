package main

import (
	"github.com/spf13/cobra"

	"github.com/diavi-ufpa/avalia/internal/app"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP and gRPC servers",
	RunE: func(cmd *cobra.Command, _ []string) error {
		e, err := loadEnv()
		if err != nil {
			return err
		}
		application, err := app.NewApp(cmd.Context(), e.cfg, e.logger)
		if err != nil {
			return err
		}
		return application.Run(cmd.Context())
	},
}
