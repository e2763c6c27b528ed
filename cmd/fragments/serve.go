package main

import (
	"github.com/spf13/cobra"

	"github.com/code-payments/fragments/pkg/fragments/server"
	"github.com/code-payments/fragments/pkg/http/app"
)

const healthPath = "/health"

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP server",
	// The server configures logging from its own config
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return nil
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		return app.Run(
			server.New(),
			app.WithConfigPath(cfgFile),
			app.WithHealthCheck(healthPath),
		)
	},
}
