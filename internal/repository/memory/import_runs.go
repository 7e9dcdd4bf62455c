// Package memory holds process-local repository implementations, used when
// no database is configured.
package memory

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/GKRMP/garage/internal/domain"
)

type ImportRunRepository struct {
	mu     sync.Mutex
	runs   map[uuid.UUID]domain.ImportRun
	events map[uuid.UUID][]domain.ImportBatchEvent
}

// NewImportRunRepository creates an in-memory import ledger
func NewImportRunRepository() *ImportRunRepository {
	return &ImportRunRepository{
		runs:   map[uuid.UUID]domain.ImportRun{},
		events: map[uuid.UUID][]domain.ImportBatchEvent{},
	}
}

func (r *ImportRunRepository) Create(ctx context.Context, run *domain.ImportRun) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if run.ID == uuid.Nil {
		run.ID = uuid.New()
	}
	if run.StartedAt.IsZero() {
		run.StartedAt = time.Now()
	}
	if run.Status == "" {
		run.Status = domain.ImportStatusRunning
	}
	r.runs[run.ID] = *run
	return nil
}

func (r *ImportRunRepository) RecordBatch(ctx context.Context, event *domain.ImportBatchEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if event.ID == uuid.Nil {
		event.ID = uuid.New()
	}
	if event.CreatedAt.IsZero() {
		event.CreatedAt = time.Now()
	}
	r.events[event.RunID] = append(r.events[event.RunID], *event)
	return nil
}

func (r *ImportRunRepository) Finish(ctx context.Context, run *domain.ImportRun) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if run.FinishedAt == nil {
		now := time.Now()
		run.FinishedAt = &now
	}
	r.runs[run.ID] = *run
	return nil
}

func (r *ImportRunRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.ImportRun, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	run, ok := r.runs[id]
	if !ok {
		return nil, nil
	}
	return &run, nil
}

// Batches returns the recorded batch events of a run
func (r *ImportRunRepository) Batches(id uuid.UUID) []domain.ImportBatchEvent {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]domain.ImportBatchEvent, len(r.events[id]))
	copy(out, r.events[id])
	return out
}
