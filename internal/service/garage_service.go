package service

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"github.com/GKRMP/garage/internal/repository"
	"github.com/GKRMP/garage/internal/shopify"
	apperrors "github.com/GKRMP/garage/pkg/errors"
)

// GarageService translates gateway calls into catalog and profile store calls.
// It holds no state between requests; concurrent catalog listings share one
// upstream pagination run while it is in flight.
type GarageService struct {
	repos  *repository.Repositories
	logger *zap.Logger
	flight singleflight.Group
}

// NewGarageService creates a new garage service
func NewGarageService(repos *repository.Repositories, logger *zap.Logger) *GarageService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &GarageService{repos: repos, logger: logger}
}

// ListCatalog returns every vehicle in the catalog
func (s *GarageService) ListCatalog(ctx context.Context) (*CatalogResponse, error) {
	v, err, shared := s.flight.Do("catalog", func() (interface{}, error) {
		// one caller going away must not fail the others sharing this flight
		return s.repos.Catalog.ListVehicles(context.WithoutCancel(ctx))
	})
	if err != nil {
		return nil, err
	}
	listing := v.(*repository.VehicleListing)
	if shared {
		s.logger.Debug("Catalog listing shared with concurrent request", zap.Int("vehicles", len(listing.Vehicles)))
	}
	return &CatalogResponse{
		Success:   true,
		Count:     len(listing.Vehicles),
		Items:     listing.Vehicles,
		Truncated: listing.Truncated,
	}, nil
}

// GetSelection returns the customer's saved garage
func (s *GarageService) GetSelection(ctx context.Context, rawCustomerID string) (*SelectionResponse, error) {
	customerGID, err := NormalizeCustomerID(rawCustomerID)
	if err != nil {
		return nil, err
	}
	ids, err := s.repos.Profile.GetGarage(ctx, customerGID)
	if err != nil {
		s.logger.Warn("Failed to load garage", zap.String("customer_id", customerGID), zap.Error(err))
		return nil, err
	}
	return &SelectionResponse{Success: true, Items: ids, Count: len(ids)}, nil
}

// SaveSelection overwrites the customer's garage with items (last writer wins)
func (s *GarageService) SaveSelection(ctx context.Context, rawCustomerID string, items *[]string) (*SaveSelectionResponse, error) {
	if items == nil {
		return nil, &apperrors.ErrValidation{
			Message: "items must be a list",
			Fields:  map[string]string{"items": "required"},
		}
	}
	customerGID, err := NormalizeCustomerID(rawCustomerID)
	if err != nil {
		return nil, err
	}
	ids, err := cleanSelection(*items)
	if err != nil {
		return nil, err
	}

	stored, err := s.repos.Profile.SetGarage(ctx, customerGID, ids)
	if err != nil {
		s.logger.Warn("Failed to save garage", zap.String("customer_id", customerGID), zap.Int("items", len(ids)), zap.Error(err))
		return nil, err
	}
	s.logger.Info("Saved garage", zap.String("customer_id", customerGID), zap.Int("items", len(stored)))
	return &SaveSelectionResponse{Success: true, Stored: stored}, nil
}

// NormalizeCustomerID turns "123456" or "gid://shopify/Customer/123456" into the GID form
func NormalizeCustomerID(raw string) (string, error) {
	if strings.TrimSpace(raw) == "" {
		return "", &apperrors.ErrValidation{
			Message: "customerId is required",
			Fields:  map[string]string{"customerId": "required"},
		}
	}
	gid, ok := shopify.NormalizeCustomerGID(raw)
	if !ok {
		return "", &apperrors.ErrValidation{
			Message: fmt.Sprintf("invalid customerId: %s", raw),
			Fields:  map[string]string{"customerId": "must be a numeric id or a Customer GID"},
		}
	}
	return gid, nil
}

// cleanSelection trims and de-duplicates ids keeping first-seen order
func cleanSelection(items []string) ([]string, error) {
	seen := make(map[string]bool, len(items))
	out := make([]string, 0, len(items))
	for i, item := range items {
		id := strings.TrimSpace(item)
		if id == "" {
			return nil, &apperrors.ErrValidation{
				Message: fmt.Sprintf("items[%d] is empty", i),
				Fields:  map[string]string{fmt.Sprintf("items[%d]", i): "must be a non-empty id"},
			}
		}
		if seen[id] {
			continue
		}
		seen[id] = true
		out = append(out, id)
	}
	return out, nil
}
