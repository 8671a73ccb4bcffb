package main

import (
	"fmt"

	"pkv-backend/internal/model"
	"pkv-backend/internal/pkg/logger"
	"pkv-backend/internal/repository/implementation"
	"pkv-backend/internal/service"
	"pkv-backend/pkg/database"
	"pkv-backend/pkg/events"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create extensions, migrate tables and seed notification types",
	RunE:  runMigrate,
}

func init() {
	rootCmd.AddCommand(migrateCmd)
}

func runMigrate(cmd *cobra.Command, args []string) error {
	color.Cyan("Step 1: Setting up extensions...")
	if err := database.EnsureExtensions(db, "pgcrypto", "vector"); err != nil {
		return err
	}

	color.Cyan("Step 2: Running AutoMigrate...")
	models := []interface{}{
		&model.User{},
		&model.EmailVerificationToken{},
		&model.PasswordResetToken{},
		&model.InsuranceCompany{},
		&model.Tariff{},
		&model.UserContract{},
		&model.ContractEmbedding{},
		&model.ContactMessage{},
		&model.NotificationType{},
		&model.Notification{},
	}
	if err := db.AutoMigrate(models...); err != nil {
		return fmt.Errorf("automigrate failed: %w", err)
	}

	color.Cyan("Step 3: Seeding notification types...")
	notifications := service.NewNotificationService(
		implementation.NewNotificationRepository(db),
		nil,
		events.NopPublisher{},
		nil,
		logger.NewNopLogger(),
	)
	if err := notifications.SeedNotificationTypes(cmd.Context()); err != nil {
		return err
	}

	color.Green("✅ Migration completed (%d tables, %d notification types)", len(models), len(service.DefaultNotificationTypes))
	return nil
}
