package cli

import (
	"clinic-booking/cmd/bootstrap"

	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API server",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, log, err := bootstrap.Load()
		if err != nil {
			return err
		}

		app, err := bootstrap.New(cmd.Context(), cfg, log)
		if err != nil {
			log.Errorf("Failed to initialize application: %v", err)
			return err
		}

		return app.Run(cmd.Context())
	},
}
