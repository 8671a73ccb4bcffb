package main

import (
	"errors"

	"pkv-backend/internal/pkg/logger"
	"pkv-backend/internal/pkg/mailer"
	"pkv-backend/internal/repository/memory"
	"pkv-backend/internal/repository/unitofwork"
	"pkv-backend/internal/service"
	"pkv-backend/pkg/events"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var (
	adminUsername string
	adminEmail    string
	adminPassword string
)

var createAdminCmd = &cobra.Command{
	Use:   "create-admin",
	Short: "Create an admin account or promote an existing one",
	RunE:  runCreateAdmin,
}

func init() {
	createAdminCmd.Flags().StringVar(&adminUsername, "username", "", "username for a new account (defaults to the e-mail local part)")
	createAdminCmd.Flags().StringVar(&adminEmail, "email", "", "admin e-mail")
	createAdminCmd.Flags().StringVar(&adminPassword, "password", "", "admin password")
	_ = createAdminCmd.MarkFlagRequired("email")
	_ = createAdminCmd.MarkFlagRequired("password")
	rootCmd.AddCommand(createAdminCmd)
}

func runCreateAdmin(cmd *cobra.Command, args []string) error {
	if len(adminPassword) < 8 {
		return errors.New("password must have at least 8 characters")
	}

	log := logger.NewNopLogger()
	auth := service.NewAuthService(
		unitofwork.NewRepositoryFactory(db),
		mailer.NewEmailService(cfg.SMTP.Host, cfg.SMTP.Port, cfg.SMTP.Email, cfg.SMTP.Password, cfg.SMTP.SenderName, cfg.App.ClientURL, log),
		events.NopPublisher{},
		memory.NewRevocationStore(nil, nil),
		service.AuthSettings{JwtSecret: cfg.App.JwtSecret, JwtTTL: cfg.App.JwtTTL},
		log,
	)

	id, err := auth.CreateAdmin(cmd.Context(), adminUsername, adminEmail, adminPassword)
	if err != nil {
		return err
	}
	color.Green("✅ Admin ready: %s (%s)", adminEmail, id)
	return nil
}
