package shopifystore

import (
	"context"
	"encoding/json"
	"fmt"

	"go.uber.org/zap"

	"github.com/GKRMP/garage/internal/config"
	"github.com/GKRMP/garage/internal/shopify"
	apperrors "github.com/GKRMP/garage/pkg/errors"
)

type profileRepository struct {
	client *shopify.Client
	cfg    config.GarageConfig
	logger *zap.Logger
}

// NewProfileRepository creates a customer-metafield-backed garage store
func NewProfileRepository(client *shopify.Client, cfg config.GarageConfig, logger *zap.Logger) *profileRepository {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &profileRepository{client: client, cfg: cfg, logger: logger}
}

// GetGarage returns the stored vehicle ids; an absent customer or metafield is an empty garage
func (r *profileRepository) GetGarage(ctx context.Context, customerGID string) ([]string, error) {
	vars := map[string]interface{}{
		"id":        customerGID,
		"namespace": r.cfg.Namespace,
		"key":       r.cfg.Key,
	}
	var result shopify.CustomerMetafieldResult
	if err := r.client.Do(ctx, "customerMetafield", shopify.CustomerMetafieldQuery, vars, &result); err != nil {
		return nil, fmt.Errorf("get garage: %w", err)
	}
	if result.Customer == nil || result.Customer.Metafield == nil {
		return []string{}, nil
	}
	return r.decode(customerGID, result.Customer.Metafield.Value), nil
}

// SetGarage overwrites the metafield with the full list and returns the value Shopify stored
func (r *profileRepository) SetGarage(ctx context.Context, customerGID string, vehicleIDs []string) ([]string, error) {
	if vehicleIDs == nil {
		vehicleIDs = []string{}
	}
	value, err := json.Marshal(vehicleIDs)
	if err != nil {
		return nil, fmt.Errorf("encode garage: %w", err)
	}
	vars := map[string]interface{}{
		"metafields": []shopify.MetafieldsSetInput{{
			OwnerID:   customerGID,
			Namespace: r.cfg.Namespace,
			Key:       r.cfg.Key,
			Type:      r.cfg.Type,
			Value:     string(value),
		}},
	}
	var result shopify.MetafieldsSetResult
	if err := r.client.Do(ctx, "metafieldsSet", shopify.MetafieldsSetMutation, vars, &result); err != nil {
		return nil, fmt.Errorf("set garage: %w", err)
	}
	if len(result.MetafieldsSet.UserErrors) > 0 {
		return nil, &apperrors.ErrUpstream{Operation: "metafieldsSet", UserErrors: result.MetafieldsSet.UserErrors}
	}
	if len(result.MetafieldsSet.Metafields) == 0 {
		return vehicleIDs, nil
	}
	return r.decode(customerGID, result.MetafieldsSet.Metafields[0].Value), nil
}

func (r *profileRepository) decode(customerGID, value string) []string {
	ids := []string{}
	if value == "" {
		return ids
	}
	if err := json.Unmarshal([]byte(value), &ids); err != nil {
		r.logger.Warn("Stored garage is not a JSON list, treating as empty",
			zap.String("customer_id", customerGID),
			zap.Error(err),
		)
		return []string{}
	}
	if ids == nil {
		ids = []string{}
	}
	return ids
}
