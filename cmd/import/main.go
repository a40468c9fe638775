package main

import (
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/preseason-import/internal/config"
	"github.com/preseason-import/internal/logger"
	"github.com/preseason-import/internal/models"
	"github.com/preseason-import/internal/repository"
	"github.com/preseason-import/internal/service"

	"github.com/spf13/cobra"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "\n✗ Import failed: %v\n", err)
		os.Exit(1)
	}
}

// importOptions 命令行覆盖项，优先于 config.yml
type importOptions struct {
	file      string
	sheet     string
	season    string
	mappings  string
	createdBy uint
}

func newRootCmd() *cobra.Command {
	var opts importOptions

	cmd := &cobra.Command{
		Use:           "import",
		Short:         "Import a seasonal wholesale order spreadsheet into the ordering database",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runImport(opts)
		},
	}

	cmd.Flags().StringVar(&opts.file, "file", "", "path to the order spreadsheet (.xlsx)")
	cmd.Flags().StringVar(&opts.sheet, "sheet", "", "sheet name, first sheet when empty")
	cmd.Flags().StringVar(&opts.season, "season", "", "season name, e.g. \"Fall 2025\"")
	cmd.Flags().StringVar(&opts.mappings, "mappings", "", "path to the label mappings data file")
	cmd.Flags().UintVar(&opts.createdBy, "created-by", 0, "user id recorded as order creator")
	return cmd
}

func runImport(opts importOptions) error {
	cfg := config.Load()
	logger.Init(cfg.Mode, cfg.Log.ToLoggerOptions())

	input := service.RunInput{
		File:         firstNonEmpty(opts.file, cfg.Import.File),
		Sheet:        firstNonEmpty(opts.sheet, cfg.Import.Sheet),
		SeasonName:   firstNonEmpty(opts.season, cfg.Import.Season),
		MappingsPath: firstNonEmpty(opts.mappings, cfg.Import.Mappings),
		CreatedBy:    cfg.Import.CreatedBy,
	}
	if opts.createdBy > 0 {
		input.CreatedBy = opts.createdBy
	}

	if err := models.InitDB(cfg.Database.Driver, cfg.Database.DSN, models.DBPoolConfig{
		MaxOpenConns:           cfg.Database.Pool.MaxOpenConns,
		MaxIdleConns:           cfg.Database.Pool.MaxIdleConns,
		ConnMaxLifetimeSeconds: cfg.Database.Pool.ConnMaxLifetimeSeconds,
		ConnMaxIdleTimeSeconds: cfg.Database.Pool.ConnMaxIdleTimeSeconds,
	}); err != nil {
		return fmt.Errorf("connect database: %w", err)
	}
	if err := models.AutoMigrate(); err != nil {
		return fmt.Errorf("migrate database: %w", err)
	}

	report := log.New(os.Stdout, "", 0)
	svc := service.NewImportService(
		repository.NewSeasonRepository(models.DB),
		repository.NewBrandRepository(models.DB),
		repository.NewLocationRepository(models.DB),
		repository.NewProductRepository(models.DB),
		repository.NewOrderRepository(models.DB),
		repository.NewImportRunRepository(models.DB),
		report,
	)

	summary, err := svc.Run(input)
	if err != nil {
		logger.Errorw("import_failed", "error", err)
		return err
	}

	printSummary(report, summary)
	return nil
}

func printSummary(report *log.Logger, summary *service.Summary) {
	report.Printf("\n✓ Import completed successfully!")
	report.Printf("\n%s", strings.Repeat("=", 50))
	report.Printf("IMPORT SUMMARY")
	report.Printf("%s", strings.Repeat("=", 50))
	report.Printf("Run: %s", summary.RunID)
	report.Printf("Season: %s (ID: %d)", summary.SeasonName, summary.SeasonID)
	report.Printf("Rows loaded: %d (kept %d)", summary.RowsLoaded, summary.RowsKept)
	report.Printf("Products created: %d", summary.ProductsCreated)
	report.Printf("Orders created: %d", summary.OrdersCreated)
	report.Printf("Order items added: %d", summary.ItemsAdded)
	report.Printf("Items skipped: %d", summary.ItemsSkipped)
}

func firstNonEmpty(values ...string) string {
	for _, value := range values {
		if strings.TrimSpace(value) != "" {
			return value
		}
	}
	return ""
}
