package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"pkv-backend/internal/dto"
	"pkv-backend/internal/pkg/serverutils"
	"pkv-backend/internal/repository/unitofwork"
	"pkv-backend/internal/service"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var (
	catalogFile  string
	catalogClear bool
)

var importCatalogCmd = &cobra.Command{
	Use:   "import-catalog",
	Short: "Import insurance companies and tariffs from a JSON file",
	Long: `Reads a JSON array of companies, each with its main tariffs and their
additional tariffs. Existing entries are kept unless --clear is given.`,
	RunE: runImportCatalog,
}

func init() {
	importCatalogCmd.Flags().StringVarP(&catalogFile, "file", "f", "", "catalog JSON file")
	importCatalogCmd.Flags().BoolVar(&catalogClear, "clear", false, "delete the existing catalog first")
	_ = importCatalogCmd.MarkFlagRequired("file")
	rootCmd.AddCommand(importCatalogCmd)
}

func runImportCatalog(cmd *cobra.Command, args []string) error {
	raw, err := os.ReadFile(catalogFile)
	if err != nil {
		return err
	}
	var companies []dto.CatalogCompany
	if err := json.Unmarshal(raw, &companies); err != nil {
		return fmt.Errorf("invalid catalog file: %w", err)
	}
	for i := range companies {
		if err := serverutils.ValidateRequest(&companies[i]); err != nil {
			return fmt.Errorf("company #%d: %w", i+1, err)
		}
	}

	if catalogClear {
		color.Yellow("Clearing existing catalog...")
	}

	insurance := service.NewInsuranceService(unitofwork.NewRepositoryFactory(db))
	result, err := insurance.ImportCatalog(cmd.Context(), companies, catalogClear, colorReporter{})
	if err != nil {
		return err
	}

	color.Green("✅ Imported %d companies, %d main tariffs, %d additional tariffs",
		result.Companies, result.MainTariffs, result.AdditionalTariffs)
	return nil
}

type colorReporter struct{}

func (colorReporter) Company(name string) {
	color.Cyan("%s", name)
}

func (colorReporter) MainTariff(name string, additional []string) {
	if len(additional) == 0 {
		fmt.Printf("  - %s\n", name)
		return
	}
	fmt.Printf("  - %s %s\n", name, color.HiBlackString("(+ %s)", strings.Join(additional, ", ")))
}
