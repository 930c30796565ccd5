package cli

import (
	"errors"

	"clinic-booking/cmd/bootstrap"
	"clinic-booking/internal/infrastructure/session"
	"clinic-booking/internal/service"
	"clinic-booking/internal/usecase"

	"github.com/spf13/cobra"
)

var (
	adminUsername string
	adminEmail    string
	adminPassword string
)

var createAdminCmd = &cobra.Command{
	Use:   "create-admin",
	Short: "Create a verified admin account",
	Long: `Create a verified admin account in the configured storage backend.

Self-registration only offers the patient and doctor roles, so the first
admin is provisioned here.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if adminUsername == "" || adminEmail == "" || adminPassword == "" {
			return errors.New("--username, --email and --password are required")
		}

		cfg, log, err := bootstrap.Load()
		if err != nil {
			return err
		}

		app, err := bootstrap.NewDataLayer(cfg, log)
		if err != nil {
			return err
		}
		defer app.Close()

		auditService := service.NewAuditService(log, app.Repositories.AuditLogs)
		// A fresh account has no sessions to revoke.
		userUsecase := usecase.NewUserUsecase(log, app.Repositories.Users, session.NewMemoryStore(), auditService)

		user, err := userUsecase.CreateAdmin(cmd.Context(), adminUsername, adminEmail, adminPassword)
		if err != nil {
			return err
		}

		log.Infof("Admin %s created with id %s", user.Username, user.ID)
		return nil
	},
}

func init() {
	createAdminCmd.Flags().StringVar(&adminUsername, "username", "", "admin username")
	createAdminCmd.Flags().StringVar(&adminEmail, "email", "", "admin email")
	createAdminCmd.Flags().StringVar(&adminPassword, "password", "", "admin password (at least 6 characters)")
}
