package main

import (
	"os"

	"pkv-backend/internal/config"
	"pkv-backend/pkg/database"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"gorm.io/gorm"
)

var (
	cfg *config.Config
	db  *gorm.DB
)

var rootCmd = &cobra.Command{
	Use:           "pkvadmin",
	Short:         "Administrative tasks for the PKV backend",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		cfg = config.Load()
		conn, err := database.NewGormDBFromDSN(cfg.Database.Connection)
		if err != nil {
			return err
		}
		db = conn
		return nil
	},
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		color.Red("Error: %v", err)
		os.Exit(1)
	}
}
