package repository

import (
	"context"

	"github.com/google/uuid"

	"github.com/GKRMP/garage/internal/domain"
	apperrors "github.com/GKRMP/garage/pkg/errors"
)

// VehicleListing is the flattened result of paging through the catalog
type VehicleListing struct {
	Vehicles  []domain.Vehicle
	Pages     int
	Truncated bool // the page-count safety bound stopped pagination early
}

// BatchResult is the outcome of one bulk-create call
type BatchResult struct {
	Created    int
	Handles    []string
	UserErrors []apperrors.UserError
}

// CatalogRepository is the vehicle catalog (metaobjects)
type CatalogRepository interface {
	ListVehicles(ctx context.Context) (*VehicleListing, error)
	CreateVehicles(ctx context.Context, records []domain.VehicleRecord) (*BatchResult, error)
	EnsureVehicleDefinition(ctx context.Context) (created bool, err error)
}

// ProfileRepository is the per-customer saved garage (one metafield)
type ProfileRepository interface {
	GetGarage(ctx context.Context, customerGID string) ([]string, error)
	SetGarage(ctx context.Context, customerGID string, vehicleIDs []string) ([]string, error)
}

// ImportRunRepository is the importer ledger
type ImportRunRepository interface {
	Create(ctx context.Context, run *domain.ImportRun) error
	RecordBatch(ctx context.Context, event *domain.ImportBatchEvent) error
	Finish(ctx context.Context, run *domain.ImportRun) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.ImportRun, error)
}

// Repositories aggregates all repositories
type Repositories struct {
	Catalog   CatalogRepository
	Profile   ProfileRepository
	ImportRun ImportRunRepository
}
