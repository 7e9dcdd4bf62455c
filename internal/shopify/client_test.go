package shopify

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/GKRMP/garage/internal/config"
	apperrors "github.com/GKRMP/garage/pkg/errors"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewClient(config.ShopifyConfig{
		ShopDomain:  srv.URL,
		AccessToken: "shpat_test",
		APIVersion:  "2025-01",
	}, nil)
}

func TestEndpoint(t *testing.T) {
	tests := []struct {
		name     string
		domain   string
		expected string
	}{
		{name: "bare", domain: "shop.myshopify.com", expected: "https://shop.myshopify.com/admin/api/2025-01/graphql.json"},
		{name: "https and slash", domain: "https://shop.myshopify.com/", expected: "https://shop.myshopify.com/admin/api/2025-01/graphql.json"},
		{name: "local http", domain: "http://127.0.0.1:9000", expected: "http://127.0.0.1:9000/admin/api/2025-01/graphql.json"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Endpoint(tt.domain, "2025-01"); got != tt.expected {
				t.Errorf("Expected %s, got %s", tt.expected, got)
			}
		})
	}
}

func TestExecuteSendsTokenAndDecodes(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/admin/api/2025-01/graphql.json" {
			t.Errorf("Unexpected path %s", r.URL.Path)
		}
		if r.Header.Get("X-Shopify-Access-Token") != "shpat_test" {
			t.Errorf("Missing access token header")
		}
		var req GraphQLRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("Bad request body: %v", err)
			return
		}
		if req.Variables["type"] != "vehicle" {
			t.Errorf("Unexpected variables %v", req.Variables)
		}
		w.Write([]byte(`{"data":{"shop":{"name":"Parts"}}}`))
	})

	var out struct {
		Shop struct {
			Name string `json:"name"`
		} `json:"shop"`
	}
	err := client.Do(context.Background(), "shop", ShopQuery, map[string]interface{}{"type": "vehicle"}, &out)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if out.Shop.Name != "Parts" {
		t.Errorf("Expected shop name Parts, got %q", out.Shop.Name)
	}
}

func TestExecuteGraphQLErrorsAreUpstream(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"errors":[{"message":"Field 'nope' doesn't exist"}]}`))
	})

	_, err := client.Execute(context.Background(), "metaobjects", MetaobjectsQuery, nil)
	var upstream *apperrors.ErrUpstream
	if !errors.As(err, &upstream) {
		t.Fatalf("Expected ErrUpstream, got %v", err)
	}
	if len(upstream.Messages) != 1 || upstream.Messages[0] != "Field 'nope' doesn't exist" {
		t.Errorf("Unexpected messages %v", upstream.Messages)
	}
}

func TestExecuteHTTPErrorsAreTransport(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	})

	_, err := client.Execute(context.Background(), "metaobjects", MetaobjectsQuery, nil)
	var transport *apperrors.ErrTransport
	if !errors.As(err, &transport) {
		t.Fatalf("Expected ErrTransport, got %v", err)
	}
}

func TestExecuteUnreachableIsTransport(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()
	client := NewClient(config.ShopifyConfig{ShopDomain: url, AccessToken: "x", APIVersion: "2025-01"}, nil)

	_, err := client.Execute(context.Background(), "shop", ShopQuery, nil)
	if apperrors.StatusCode(err) != http.StatusInternalServerError {
		t.Errorf("Expected transport error, got %v", err)
	}
}
