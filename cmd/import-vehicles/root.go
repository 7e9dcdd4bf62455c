package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/GKRMP/garage/internal/app"
	"github.com/GKRMP/garage/internal/config"
	"github.com/GKRMP/garage/internal/importer"
)

type importFlags struct {
	file             string
	dryRun           bool
	ensureDefinition bool
	batchSize        int
	delay            time.Duration
	jsonOutput       bool
}

func newRootCmd() *cobra.Command {
	var flags importFlags

	cmd := &cobra.Command{
		Use:   "import-vehicles [file.csv]",
		Short: "Load a vehicle CSV into the Shopify metaobject catalog",
		Long: `Reads a CSV with the columns id, category, year, make, model (and optional style),
skips malformed rows with a warning, and creates the vehicles as metaobjects in
batches, one bulk mutation per batch with a pause between batches.`,
		Example: `  # Import a file
  import-vehicles vehicles.csv

  # Check a file without writing anything
  import-vehicles --dry-run vehicles.csv

  # Create the metaobject definition first, smaller batches
  import-vehicles --ensure-definition --batch-size 10 --delay 2s vehicles.csv`,
		Args: cobra.MaximumNArgs(1),
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			// Load .env file if present (ignore errors)
			_ = godotenv.Load()
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 1 {
				flags.file = args[0]
			}
			return runImport(cmd, flags)
		},
	}

	cmd.Flags().StringVarP(&flags.file, "file", "f", "", "CSV file to import (- for stdin)")
	cmd.Flags().BoolVar(&flags.dryRun, "dry-run", false, "Parse and batch without writing to Shopify")
	cmd.Flags().BoolVar(&flags.ensureDefinition, "ensure-definition", false, "Create the vehicle metaobject definition if missing")
	cmd.Flags().IntVar(&flags.batchSize, "batch-size", 0, "Records per bulk mutation (default IMPORT_BATCH_SIZE)")
	cmd.Flags().DurationVar(&flags.delay, "delay", 0, "Pause between batches (default IMPORT_BATCH_DELAY)")
	cmd.Flags().BoolVar(&flags.jsonOutput, "json", false, "Print the run summary as JSON")

	return cmd
}

func runImport(cmd *cobra.Command, flags importFlags) error {
	if flags.file == "" {
		return fmt.Errorf("a CSV file is required")
	}

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	logger, err := app.NewLogger(cfg)
	if err != nil {
		return err
	}
	defer logger.Sync()

	ctx := cmd.Context()
	stores, err := app.OpenStores(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer stores.Close()

	opts := importer.Options{
		BatchSize:  cfg.Import.BatchSize,
		BatchDelay: cfg.Import.BatchDelay,
		DryRun:     flags.dryRun,
		Source:     flags.file,
	}
	if flags.batchSize > 0 {
		opts.BatchSize = flags.batchSize
	}
	if cmd.Flags().Changed("delay") {
		opts.BatchDelay = flags.delay
	}

	var in io.Reader
	if flags.file == "-" {
		in = cmd.InOrStdin()
		opts.Source = "stdin"
	} else {
		f, err := os.Open(flags.file)
		if err != nil {
			return fmt.Errorf("open %s: %w", flags.file, err)
		}
		defer f.Close()
		in = f
	}

	im := importer.New(stores.Repos.Catalog, stores.Repos.ImportRun, opts, logger)

	if flags.ensureDefinition && !flags.dryRun {
		if err := im.EnsureDefinition(ctx); err != nil {
			return err
		}
	}

	summary, runErr := im.Run(ctx, in)
	if summary == nil {
		return runErr
	}

	out := cmd.OutOrStdout()
	if flags.jsonOutput {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		if err := enc.Encode(summary); err != nil {
			return err
		}
	} else {
		printSummary(out, filepath.Base(flags.file), summary)
	}

	if runErr != nil {
		logger.Error("Import aborted", zap.Error(runErr))
		return runErr
	}
	return nil
}

func printSummary(w io.Writer, name string, s *importer.Summary) {
	fmt.Fprintf(w, "Import of %s: %s\n", name, s.Run.Status)
	if s.Run.DryRun {
		fmt.Fprintln(w, "  (dry run, nothing written)")
	}
	fmt.Fprintf(w, "  rows:    %d\n", s.Run.TotalRows)
	fmt.Fprintf(w, "  batches: %d\n", s.Batches)
	fmt.Fprintf(w, "  created: %d\n", s.Run.Created)
	fmt.Fprintf(w, "  failed:  %d\n", s.Run.Failed)
	fmt.Fprintf(w, "  skipped: %d\n", s.Run.Skipped)
	for _, warn := range s.Warnings {
		fmt.Fprintf(w, "  warning: %s\n", warn)
	}
	for _, e := range s.Errors {
		fmt.Fprintf(w, "  error:   %s\n", e)
	}
	fmt.Fprintf(w, "  run id:  %s\n", s.Run.ID)
}
