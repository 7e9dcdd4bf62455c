package shopify

import (
	"context"
	"reflect"
	"testing"

	"github.com/GKRMP/garage/internal/shopify/shopifytest"
)

func TestMissingScopes(t *testing.T) {
	tests := []struct {
		name     string
		granted  []string
		expected []string
	}{
		{name: "all granted", granted: RequiredScopes, expected: nil},
		{name: "write implies read", granted: []string{"write_customers", "write_metaobject_definitions", "write_metaobjects"}, expected: nil},
		{name: "read only", granted: []string{"read_customers", "read_metaobjects"}, expected: []string{
			"read_metaobject_definitions", "write_customers", "write_metaobject_definitions", "write_metaobjects",
		}},
		{name: "nothing", granted: nil, expected: []string{
			"read_customers", "read_metaobject_definitions", "read_metaobjects",
			"write_customers", "write_metaobject_definitions", "write_metaobjects",
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := MissingScopes(tt.granted); !reflect.DeepEqual(got, tt.expected) {
				t.Errorf("Expected %v, got %v", tt.expected, got)
			}
		})
	}
}

func TestAccessScopesAgainstEmulator(t *testing.T) {
	admin := shopifytest.NewAdmin()
	defer admin.Close()
	admin.SetScopes("write_customers", "read_metaobjects")

	client := NewClient(admin.Config(), nil)
	var result AccessScopesResult
	if err := client.Do(context.Background(), "accessScopes", AccessScopesQuery, nil, &result); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if got := result.Handles(); !reflect.DeepEqual(got, []string{"write_customers", "read_metaobjects"}) {
		t.Errorf("Unexpected handles %v", got)
	}
	if got := MissingScopes(result.Handles()); len(got) != 3 {
		t.Errorf("Expected 3 missing scopes, got %v", got)
	}
}
