package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/GKRMP/garage/internal/domain"
)

type importRunRepository struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewImportRunRepository creates a new import run ledger
func NewImportRunRepository(db *sql.DB, logger *zap.Logger) *importRunRepository {
	return &importRunRepository{
		db:     db,
		logger: logger,
	}
}

func (r *importRunRepository) Create(ctx context.Context, run *domain.ImportRun) error {
	query := `
		INSERT INTO import_runs (id, source, status, total_rows, skipped, created, failed, dry_run, started_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`

	if run.ID == uuid.Nil {
		run.ID = uuid.New()
	}
	if run.StartedAt.IsZero() {
		run.StartedAt = time.Now()
	}
	if run.Status == "" {
		run.Status = domain.ImportStatusRunning
	}

	_, err := r.db.ExecContext(ctx, query,
		run.ID,
		run.Source,
		run.Status,
		run.TotalRows,
		run.Skipped,
		run.Created,
		run.Failed,
		run.DryRun,
		run.StartedAt,
	)
	if err != nil {
		r.logger.Error("Failed to create import run", zap.Error(err))
		return err
	}
	return nil
}

func (r *importRunRepository) RecordBatch(ctx context.Context, event *domain.ImportBatchEvent) error {
	query := `
		INSERT INTO import_batch_events (id, run_id, batch_index, size, created, errors, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	if event.ID == uuid.Nil {
		event.ID = uuid.New()
	}
	if event.CreatedAt.IsZero() {
		event.CreatedAt = time.Now()
	}

	var errorsJSON []byte
	if len(event.Errors) > 0 {
		var err error
		errorsJSON, err = json.Marshal(event.Errors)
		if err != nil {
			return err
		}
	}

	_, err := r.db.ExecContext(ctx, query,
		event.ID,
		event.RunID,
		event.BatchIndex,
		event.Size,
		event.Created,
		errorsJSON,
		event.CreatedAt,
	)
	if err != nil {
		r.logger.Error("Failed to record import batch", zap.Error(err), zap.Int("batch", event.BatchIndex))
		return err
	}
	return nil
}

func (r *importRunRepository) Finish(ctx context.Context, run *domain.ImportRun) error {
	query := `
		UPDATE import_runs
		SET status = $2, total_rows = $3, skipped = $4, created = $5, failed = $6, finished_at = $7
		WHERE id = $1
	`

	if run.FinishedAt == nil {
		now := time.Now()
		run.FinishedAt = &now
	}

	_, err := r.db.ExecContext(ctx, query,
		run.ID,
		run.Status,
		run.TotalRows,
		run.Skipped,
		run.Created,
		run.Failed,
		run.FinishedAt,
	)
	if err != nil {
		r.logger.Error("Failed to finish import run", zap.Error(err), zap.String("run_id", run.ID.String()))
		return err
	}
	return nil
}

func (r *importRunRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.ImportRun, error) {
	query := `
		SELECT id, source, status, total_rows, skipped, created, failed, dry_run, started_at, finished_at
		FROM import_runs
		WHERE id = $1
	`

	var run domain.ImportRun
	var finishedAt sql.NullTime
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&run.ID,
		&run.Source,
		&run.Status,
		&run.TotalRows,
		&run.Skipped,
		&run.Created,
		&run.Failed,
		&run.DryRun,
		&run.StartedAt,
		&finishedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		r.logger.Error("Failed to get import run", zap.Error(err))
		return nil, err
	}
	if finishedAt.Valid {
		run.FinishedAt = &finishedAt.Time
	}
	return &run, nil
}
