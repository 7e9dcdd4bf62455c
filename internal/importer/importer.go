package importer

import (
	"context"
	"fmt"
	"io"
	"time"

	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/GKRMP/garage/internal/domain"
	"github.com/GKRMP/garage/internal/repository"
)

// Options controls one import run
type Options struct {
	BatchSize  int
	BatchDelay time.Duration
	DryRun     bool
	Source     string // file name recorded in the ledger
}

// Summary is what a run reports back to its caller
type Summary struct {
	Run      domain.ImportRun `json:"run"`
	Batches  int              `json:"batches"`
	Warnings []Warning        `json:"warnings,omitempty"`
	Errors   []string         `json:"errors,omitempty"`
}

type Importer struct {
	catalog repository.CatalogRepository
	runs    repository.ImportRunRepository
	opts    Options
	logger  *zap.Logger
}

// New creates an importer writing vehicles to catalog and outcomes to runs
func New(catalog repository.CatalogRepository, runs repository.ImportRunRepository, opts Options, logger *zap.Logger) *Importer {
	if logger == nil {
		logger = zap.NewNop()
	}
	if opts.BatchSize <= 0 {
		opts.BatchSize = 25
	}
	if opts.Source == "" {
		opts.Source = "stdin"
	}
	return &Importer{catalog: catalog, runs: runs, opts: opts, logger: logger}
}

// Batches splits records into consecutive chunks of at most size
func Batches(records []domain.VehicleRecord, size int) [][]domain.VehicleRecord {
	if size <= 0 {
		size = 1
	}
	var out [][]domain.VehicleRecord
	for start := 0; start < len(records); start += size {
		end := start + size
		if end > len(records) {
			end = len(records)
		}
		out = append(out, records[start:end])
	}
	return out
}

// Run parses r and creates one bulk mutation per batch, waiting BatchDelay
// between batches. Rejected records are reported and the run continues; a
// transport or query failure aborts the run.
func (im *Importer) Run(ctx context.Context, r io.Reader) (*Summary, error) {
	parsed, err := Parse(r)
	if err != nil {
		return nil, err
	}

	run := &domain.ImportRun{
		Source:    im.opts.Source,
		Status:    domain.ImportStatusRunning,
		TotalRows: parsed.Rows,
		Skipped:   len(parsed.Warnings),
		DryRun:    im.opts.DryRun,
	}
	if err := im.runs.Create(ctx, run); err != nil {
		return nil, fmt.Errorf("create import run: %w", err)
	}

	logger := im.logger.With(zap.String("run_id", run.ID.String()))
	for _, w := range parsed.Warnings {
		logger.Warn("Skipping malformed row", zap.Int("line", w.Line), zap.String("reason", w.Message))
	}

	batches := Batches(parsed.Records, im.opts.BatchSize)
	summary := &Summary{Batches: len(batches), Warnings: parsed.Warnings}
	logger.Info("Import started",
		zap.String("source", run.Source),
		zap.Int("records", len(parsed.Records)),
		zap.Int("skipped", run.Skipped),
		zap.Int("batches", len(batches)),
		zap.Bool("dry_run", run.DryRun),
	)

	limit := rate.Inf
	if im.opts.BatchDelay > 0 {
		limit = rate.Every(im.opts.BatchDelay)
	}
	limiter := rate.NewLimiter(limit, 1)

	var runErr error
	for i, batch := range batches {
		if im.opts.DryRun {
			logger.Info("Dry run batch", zap.Int("batch", i+1), zap.Int("size", len(batch)))
			continue
		}
		if err := limiter.Wait(ctx); err != nil {
			runErr = fmt.Errorf("batch %d: %w", i+1, err)
			break
		}

		result, err := im.catalog.CreateVehicles(ctx, batch)
		if err != nil {
			logger.Error("Batch failed, aborting import", zap.Int("batch", i+1), zap.Error(err))
			run.Failed += len(batch)
			summary.Errors = append(summary.Errors, fmt.Sprintf("batch %d: %v", i+1, err))
			im.record(ctx, logger, run, i, len(batch), 0, []string{err.Error()})
			runErr = fmt.Errorf("batch %d: %w", i+1, err)
			break
		}

		messages := make([]string, 0, len(result.UserErrors))
		for _, ue := range result.UserErrors {
			messages = append(messages, ue.Message)
		}
		run.Created += result.Created
		run.Failed += len(batch) - result.Created
		summary.Errors = append(summary.Errors, messages...)
		im.record(ctx, logger, run, i, len(batch), result.Created, messages)

		logger.Info("Batch imported",
			zap.Int("batch", i+1),
			zap.Int("of", len(batches)),
			zap.Int("created", result.Created),
			zap.Int("rejected", len(messages)),
		)
	}

	switch {
	case runErr != nil:
		run.Status = domain.ImportStatusFailed
	case run.Failed > 0:
		run.Status = domain.ImportStatusPartial
	default:
		run.Status = domain.ImportStatusCompleted
	}
	// the ledger write must survive a cancelled run context
	if err := im.runs.Finish(context.WithoutCancel(ctx), run); err != nil {
		logger.Warn("Failed to finish import run", zap.Error(err))
	}
	summary.Run = *run

	logger.Info("Import finished",
		zap.String("status", string(run.Status)),
		zap.Int("created", run.Created),
		zap.Int("failed", run.Failed),
		zap.Int("skipped", run.Skipped),
	)
	return summary, runErr
}

func (im *Importer) record(ctx context.Context, logger *zap.Logger, run *domain.ImportRun, index, size, created int, errs []string) {
	event := &domain.ImportBatchEvent{
		RunID:      run.ID,
		BatchIndex: index,
		Size:       size,
		Created:    created,
		Errors:     errs,
	}
	if err := im.runs.RecordBatch(context.WithoutCancel(ctx), event); err != nil {
		logger.Warn("Failed to record batch", zap.Int("batch", index+1), zap.Error(err))
	}
}

// EnsureDefinition creates the vehicle metaobject definition if needed
func (im *Importer) EnsureDefinition(ctx context.Context) error {
	created, err := im.catalog.EnsureVehicleDefinition(ctx)
	if err != nil {
		return fmt.Errorf("ensure vehicle definition: %w", err)
	}
	if created {
		im.logger.Info("Vehicle metaobject definition created")
	}
	return nil
}
