package shopifystore

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/GKRMP/garage/internal/config"
	"github.com/GKRMP/garage/internal/domain"
	"github.com/GKRMP/garage/internal/repository"
	"github.com/GKRMP/garage/internal/shopify"
	apperrors "github.com/GKRMP/garage/pkg/errors"
)

// Metaobject field keys of the vehicle definition
const (
	FieldVehicleID = "vehicle_id"
	FieldCategory  = "category"
	FieldYear      = "year"
	FieldMake      = "make"
	FieldModel     = "model"
	FieldStyle     = "style"
)

type catalogRepository struct {
	client *shopify.Client
	cfg    config.CatalogConfig
	logger *zap.Logger
}

// NewCatalogRepository creates a metaobject-backed vehicle catalog
func NewCatalogRepository(client *shopify.Client, cfg config.CatalogConfig, logger *zap.Logger) *catalogRepository {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.PageSize <= 0 {
		cfg.PageSize = 250
	}
	if cfg.MaxPages <= 0 {
		cfg.MaxPages = 20
	}
	return &catalogRepository{client: client, cfg: cfg, logger: logger}
}

// ListVehicles pages through every vehicle metaobject, stopping at MaxPages.
// Any page error fails the whole listing.
func (r *catalogRepository) ListVehicles(ctx context.Context) (*repository.VehicleListing, error) {
	listing := &repository.VehicleListing{Vehicles: []domain.Vehicle{}}
	after := ""
	for {
		if listing.Pages >= r.cfg.MaxPages {
			listing.Truncated = true
			r.logger.Warn("Catalog pagination stopped at page limit",
				zap.Int("max_pages", r.cfg.MaxPages),
				zap.Int("vehicles", len(listing.Vehicles)),
			)
			break
		}

		variables := map[string]interface{}{
			"type":  r.cfg.MetaobjectType,
			"first": r.cfg.PageSize,
		}
		if after != "" {
			variables["after"] = after
		}

		var result shopify.MetaobjectsResult
		if err := r.client.Do(ctx, "metaobjects", shopify.MetaobjectsQuery, variables, &result); err != nil {
			r.logger.Warn("Catalog page request failed", zap.Int("page", listing.Pages+1), zap.Error(err))
			return nil, fmt.Errorf("list vehicles page %d: %w", listing.Pages+1, err)
		}
		listing.Pages++

		for _, node := range result.Metaobjects.Nodes {
			listing.Vehicles = append(listing.Vehicles, vehicleFromNode(node))
		}

		pageInfo := result.Metaobjects.PageInfo
		if !pageInfo.HasNextPage || pageInfo.EndCursor == "" {
			break
		}
		after = pageInfo.EndCursor
	}
	return listing, nil
}

func vehicleFromNode(node shopify.MetaobjectNode) domain.Vehicle {
	return domain.Vehicle{
		ID:       node.ID,
		Category: node.Field(FieldCategory),
		Year:     parseYear(node.Field(FieldYear)),
		Make:     node.Field(FieldMake),
		Model:    node.Field(FieldModel),
		Style:    node.Field(FieldStyle),
	}
}

// parseYear coerces the stored year to an int; "2020", " 2020 " and "2020.0" all give 2020
func parseYear(raw string) int {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0
	}
	if n, err := strconv.Atoi(raw); err == nil {
		return n
	}
	if f, err := strconv.ParseFloat(raw, 64); err == nil {
		return int(f)
	}
	return 0
}

// CreateVehicles creates one batch of vehicles in a single aliased mutation.
// Per-record rejections are returned in BatchResult.UserErrors, not as an error.
func (r *catalogRepository) CreateVehicles(ctx context.Context, records []domain.VehicleRecord) (*repository.BatchResult, error) {
	result := &repository.BatchResult{}
	if len(records) == 0 {
		return result, nil
	}

	variables := make(map[string]interface{}, len(records))
	for i, rec := range records {
		variables[shopify.BatchAlias(i)] = r.createInput(rec)
	}

	data := make(map[string]shopify.MetaobjectCreatePayload, len(records))
	if err := r.client.Do(ctx, "metaobjectBatchCreate", shopify.BuildMetaobjectBatchCreate(len(records)), variables, &data); err != nil {
		return nil, err
	}

	for i, rec := range records {
		payload, ok := data[shopify.BatchAlias(i)]
		if !ok {
			result.UserErrors = append(result.UserErrors, apperrors.UserError{
				Message: fmt.Sprintf("line %d (%s): missing result", rec.Line, rec.Handle),
			})
			continue
		}
		for _, ue := range payload.UserErrors {
			ue.Message = fmt.Sprintf("line %d (%s): %s", rec.Line, rec.Handle, ue.Message)
			result.UserErrors = append(result.UserErrors, ue)
		}
		if payload.Metaobject != nil && payload.Metaobject.ID != "" {
			result.Created++
			result.Handles = append(result.Handles, payload.Metaobject.Handle)
		}
	}
	return result, nil
}

func (r *catalogRepository) createInput(rec domain.VehicleRecord) shopify.MetaobjectCreateInput {
	fields := []shopify.MetaobjectFieldInput{
		{Key: FieldVehicleID, Value: rec.Identifier},
		{Key: FieldCategory, Value: rec.Category},
		{Key: FieldYear, Value: strconv.Itoa(rec.Year)},
		{Key: FieldMake, Value: rec.Make},
		{Key: FieldModel, Value: rec.Model},
	}
	if rec.Style != "" {
		fields = append(fields, shopify.MetaobjectFieldInput{Key: FieldStyle, Value: rec.Style})
	}
	return shopify.MetaobjectCreateInput{
		Type:   r.cfg.MetaobjectType,
		Handle: rec.Handle,
		Fields: fields,
	}
}

// EnsureVehicleDefinition creates the vehicle metaobject definition when it does not exist yet
func (r *catalogRepository) EnsureVehicleDefinition(ctx context.Context) (bool, error) {
	var existing shopify.MetaobjectDefinitionResult
	vars := map[string]interface{}{"type": r.cfg.MetaobjectType}
	if err := r.client.Do(ctx, "metaobjectDefinitionByType", shopify.MetaobjectDefinitionByTypeQuery, vars, &existing); err != nil {
		return false, err
	}
	if existing.MetaobjectDefinitionByType != nil {
		r.logger.Debug("Vehicle definition already present", zap.String("id", existing.MetaobjectDefinitionByType.ID))
		return false, nil
	}

	definition := shopify.MetaobjectDefinitionCreateInput{
		Type:           r.cfg.MetaobjectType,
		Name:           "Vehicle",
		DisplayNameKey: FieldModel,
		FieldDefinitions: []shopify.MetaobjectFieldDefinitionInput{
			{Key: FieldVehicleID, Name: "Vehicle ID", Type: "single_line_text_field", Required: true},
			{Key: FieldCategory, Name: "Category", Type: "single_line_text_field", Required: true},
			{Key: FieldYear, Name: "Year", Type: "number_integer", Required: true},
			{Key: FieldMake, Name: "Make", Type: "single_line_text_field", Required: true},
			{Key: FieldModel, Name: "Model", Type: "single_line_text_field", Required: true},
			{Key: FieldStyle, Name: "Style", Type: "single_line_text_field"},
		},
	}
	var created shopify.MetaobjectDefinitionCreateResult
	if err := r.client.Do(ctx, "metaobjectDefinitionCreate", shopify.MetaobjectDefinitionCreateMutation,
		map[string]interface{}{"definition": definition}, &created); err != nil {
		return false, err
	}
	if errs := created.MetaobjectDefinitionCreate.UserErrors; len(errs) > 0 {
		return false, &apperrors.ErrUpstream{Operation: "metaobjectDefinitionCreate", UserErrors: errs}
	}
	r.logger.Info("Created vehicle metaobject definition", zap.String("type", r.cfg.MetaobjectType))
	return true, nil
}
