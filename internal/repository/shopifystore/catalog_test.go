package shopifystore

import (
	"context"
	"fmt"
	"net/http"
	"testing"

	"github.com/GKRMP/garage/internal/config"
	"github.com/GKRMP/garage/internal/domain"
	"github.com/GKRMP/garage/internal/shopify"
	"github.com/GKRMP/garage/internal/shopify/shopifytest"
	apperrors "github.com/GKRMP/garage/pkg/errors"
)

func newCatalog(t *testing.T, pageSize, maxPages int) (*catalogRepository, *shopifytest.Admin) {
	t.Helper()
	admin := shopifytest.NewAdmin()
	t.Cleanup(admin.Close)
	client := shopify.NewClient(admin.Config(), nil)
	repo := NewCatalogRepository(client, config.CatalogConfig{MetaobjectType: "vehicle", PageSize: pageSize, MaxPages: maxPages}, nil)
	return repo, admin
}

func TestListVehiclesFlattensPages(t *testing.T) {
	repo, admin := newCatalog(t, 2, 20)
	for i := 0; i < 5; i++ {
		admin.AddVehicle(fmt.Sprintf("car-%d", i), map[string]string{
			FieldCategory: "Car",
			FieldYear:     fmt.Sprintf("%d", 2015+i),
			FieldMake:     "Ford",
			FieldModel:    fmt.Sprintf("Model %d", i),
		})
	}

	listing, err := repo.ListVehicles(context.Background())
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if len(listing.Vehicles) != 5 {
		t.Fatalf("Expected 5 vehicles, got %d", len(listing.Vehicles))
	}
	if listing.Pages != 3 || listing.Truncated {
		t.Errorf("Expected 3 untruncated pages, got %d truncated=%v", listing.Pages, listing.Truncated)
	}
	for i, v := range listing.Vehicles {
		if v.Year != 2015+i {
			t.Errorf("Vehicle %d: expected year %d, got %d", i, 2015+i, v.Year)
		}
	}
}

func TestListVehiclesStopsAtPageLimit(t *testing.T) {
	repo, admin := newCatalog(t, 1, 3)
	for i := 0; i < 10; i++ {
		admin.AddVehicle(fmt.Sprintf("car-%d", i), map[string]string{FieldYear: "2020"})
	}
	admin.EndlessPages()

	listing, err := repo.ListVehicles(context.Background())
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if !listing.Truncated || listing.Pages != 3 {
		t.Errorf("Expected truncation after 3 pages, got pages=%d truncated=%v", listing.Pages, listing.Truncated)
	}
	if len(listing.Vehicles) != 3 {
		t.Errorf("Expected 3 vehicles, got %d", len(listing.Vehicles))
	}
	if admin.Calls("getMetaobjects") != 3 {
		t.Errorf("Expected 3 page requests, got %d", admin.Calls("getMetaobjects"))
	}
}

func TestListVehiclesPropagatesPageErrors(t *testing.T) {
	repo, admin := newCatalog(t, 2, 20)
	admin.FailOperation("getMetaobjects", "Throttled")

	_, err := repo.ListVehicles(context.Background())
	if apperrors.StatusCode(err) != http.StatusBadRequest {
		t.Errorf("Expected upstream error, got %v", err)
	}
}

func TestParseYear(t *testing.T) {
	tests := []struct {
		raw      string
		expected int
	}{
		{raw: "2020", expected: 2020},
		{raw: " 2021 ", expected: 2021},
		{raw: "2019.0", expected: 2019},
		{raw: "", expected: 0},
		{raw: "unknown", expected: 0},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			if got := parseYear(tt.raw); got != tt.expected {
				t.Errorf("Expected %d, got %d", tt.expected, got)
			}
		})
	}
}

func TestCreateVehiclesReportsPerRecordErrors(t *testing.T) {
	repo, admin := newCatalog(t, 50, 20)
	admin.AddVehicle("car-2020-ford-mustang-1", map[string]string{})

	records := []domain.VehicleRecord{
		{Identifier: "1", Category: "Car", Year: 2020, Make: "Ford", Model: "Mustang", Handle: "car-2020-ford-mustang-1", Line: 2},
		{Identifier: "2", Category: "Truck", Year: 2021, Make: "Ford", Model: "F-150", Style: "XLT", Handle: "truck-2021-ford-f-150-2", Line: 3},
	}
	result, err := repo.CreateVehicles(context.Background(), records)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if result.Created != 1 {
		t.Errorf("Expected 1 created, got %d", result.Created)
	}
	if len(result.UserErrors) != 1 {
		t.Fatalf("Expected 1 user error, got %v", result.UserErrors)
	}
	if result.UserErrors[0].Message != "line 2 (car-2020-ford-mustang-1): Handle has already been taken" {
		t.Errorf("Unexpected message %q", result.UserErrors[0].Message)
	}

	stored := admin.Metaobjects()
	last := stored[len(stored)-1]
	if last.Fields[FieldStyle] != "XLT" || last.Fields[FieldYear] != "2021" || last.Fields[FieldVehicleID] != "2" {
		t.Errorf("Unexpected stored fields %v", last.Fields)
	}
}

func TestEnsureVehicleDefinition(t *testing.T) {
	repo, _ := newCatalog(t, 50, 20)

	created, err := repo.EnsureVehicleDefinition(context.Background())
	if err != nil || !created {
		t.Fatalf("Expected definition to be created, got created=%v err=%v", created, err)
	}
	created, err = repo.EnsureVehicleDefinition(context.Background())
	if err != nil || created {
		t.Errorf("Expected existing definition to be kept, got created=%v err=%v", created, err)
	}
}
