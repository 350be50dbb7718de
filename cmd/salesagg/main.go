package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"

	"github.com/google/uuid"

	"salescli/internal/config"
	"salescli/internal/dataprocessing"
	"salescli/internal/dataset"
	"salescli/internal/exporter"
	"salescli/internal/files"
	"salescli/internal/infrastructure"
)

const (
	summaryFile = "status-summary.csv"
	countsFile  = "status-distinct-accounts.csv"
)

func main() {
	configFile := flag.String("config", config.DefaultConfigFile, "path to YAML config file")
	dataDir := flag.String("data", "", "input directory for spreadsheet files (overrides config)")
	outDir := flag.String("out", "", "output directory for CSV files (overrides config)")
	flag.Parse()

	cfg, err := config.LoadFromFile(*configFile)
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}
	if *dataDir != "" {
		cfg.Paths.DataDir = *dataDir
	}
	if *outDir != "" {
		cfg.Paths.OutputDir = *outDir
	}

	if err := cfg.EnsureDirectories(); err != nil {
		slog.Error("failed to create required directories", "error", err)
		os.Exit(1)
	}

	logger, err := infrastructure.InitializeLogger(cfg.Logging)
	if err != nil {
		slog.Error("failed to initialize logger", "error", err)
		os.Exit(1)
	}
	defer infrastructure.CloseLogger()

	if err := run(context.Background(), logger, cfg); err != nil {
		logger.Error("aggregation run failed", slog.String("error", err.Error()))
		os.Exit(1)
	}
}

// run executes one aggregation pass: discover the sales files, concatenate
// them, join the customer status reference with the configured default for
// unmatched accounts, tag the status order, and export the grouped summary
// plus the distinct-account counts.
func run(ctx context.Context, logger *slog.Logger, cfg *config.Config) error {
	logger = logger.With(slog.String("run_id", uuid.NewString()))

	discovery := files.NewDiscovery(cfg.Paths.DataDir)
	found, err := discovery.FindSpreadsheets(".", cfg.Pipeline.SalesPattern)
	if err != nil {
		return err
	}
	if len(found) == 0 {
		return fmt.Errorf("no files matching %q in %s", cfg.Pipeline.SalesPattern, cfg.Paths.DataDir)
	}
	logger.InfoContext(ctx, "discovered sales files",
		slog.Int("file_count", len(found)),
		slog.String("pattern", cfg.Pipeline.SalesPattern))

	loader := dataprocessing.NewLoader(logger, dataprocessing.LoaderConfig{})
	combined, err := loader.LoadAndConcatenate(ctx, files.Paths(found), dataset.ConcatOptions{
		Policy: dataset.SchemaPolicy(cfg.Pipeline.SchemaPolicy),
	})
	if err != nil {
		return err
	}

	if cfg.Pipeline.DateColumn != "" && combined.HasColumn(cfg.Pipeline.DateColumn) {
		combined, err = dataset.ConvertColumnToTime(combined, cfg.Pipeline.DateColumn, dataset.ConvertOptions{
			Layout: cfg.Pipeline.DateLayout,
		})
		if err != nil {
			return err
		}
	}

	status, err := loader.LoadTable(ctx, cfg.StatusFilePath())
	if err != nil {
		return fmt.Errorf("load status reference: %w", err)
	}

	joined, err := dataset.LeftJoin(combined, status, dataset.JoinOptions{
		On: cfg.Pipeline.JoinColumns,
		Defaults: map[string]dataset.Value{
			cfg.Pipeline.StatusColumn: dataset.String(cfg.Pipeline.DefaultStatus),
		},
	})
	if err != nil {
		return err
	}

	joined, err = dataset.AssignCategoryOrder(joined, cfg.Pipeline.StatusColumn, cfg.Pipeline.StatusLevels)
	if err != nil {
		return err
	}

	summary, err := dataset.GroupAggregate(joined,
		[]string{cfg.Pipeline.StatusColumn},
		cfg.Pipeline.ValueColumns,
		[]dataset.AggFunc{dataset.AggSum, dataset.AggMean, dataset.AggStd, dataset.AggCount})
	if err != nil {
		return err
	}

	counts, err := dataset.DistinctCount(joined, cfg.Pipeline.DedupColumns, cfg.Pipeline.StatusColumn)
	if err != nil {
		return err
	}

	writer := exporter.NewCSVWriter(cfg.Paths.OutputDir)
	if err := writer.WriteTable(summaryFile, summary, exporter.WriteOptions{}); err != nil {
		return err
	}
	if err := writer.WriteCounts(countsFile, cfg.Pipeline.StatusColumn, counts, cfg.Pipeline.StatusLevels); err != nil {
		return err
	}

	logger.InfoContext(ctx, "aggregation run complete",
		slog.Int("input_rows", joined.NumRows()),
		slog.Int("status_groups", summary.NumRows()),
		slog.Int("distinct_levels", len(counts)))

	return nil
}
