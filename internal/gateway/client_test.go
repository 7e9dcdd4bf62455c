package gateway

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/GKRMP/garage/internal/config"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	return NewClient(config.ClientConfig{GatewayURL: server.URL + "/"}, nil)
}

func TestListCatalog(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/catalog/list" {
			t.Errorf("Unexpected path %s", r.URL.Path)
		}
		w.Write([]byte(`{"success":true,"count":1,"items":[{"id":"gid://shopify/Metaobject/1","category":"Car","year":2020,"make":"Ford","model":"F-150"}]}`))
	})

	vehicles, err := client.ListCatalog(context.Background())
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if len(vehicles) != 1 || vehicles[0].Year != 2020 || vehicles[0].Make != "Ford" {
		t.Errorf("Unexpected vehicles %+v", vehicles)
	}
}

func TestLoadSelectionEscapesCustomerID(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("customerId"); got != "gid://shopify/Customer/42" {
			t.Errorf("Expected customer GID in query, got %q", got)
		}
		w.Write([]byte(`{"success":true,"items":null,"count":0}`))
	})

	ids, err := client.LoadSelection(context.Background(), "gid://shopify/Customer/42")
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if ids == nil || len(ids) != 0 {
		t.Errorf("Expected empty non-nil list, got %#v", ids)
	}
}

func TestSaveSelectionSendsFullList(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("Expected POST, got %s", r.Method)
		}
		var body struct {
			CustomerID string   `json:"customerId"`
			Items      []string `json:"items"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Errorf("Bad body: %v", err)
			return
		}
		if body.CustomerID != "42" || body.Items == nil {
			t.Errorf("Unexpected body %+v", body)
		}
		json.NewEncoder(w).Encode(map[string]interface{}{"success": true, "stored": body.Items})
	})

	stored, err := client.SaveSelection(context.Background(), "42", nil)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if stored == nil || len(stored) != 0 {
		t.Errorf("Expected empty stored list, got %#v", stored)
	}
}

func TestErrorBodyIsDecoded(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		message string
		details int
	}{
		{name: "validation", status: 400, body: `{"error":"customerId is required","errors":[{"field":"customerId","message":"required"}]}`, message: "customerId is required", details: 1},
		{name: "transport", status: 500, body: `{"error":"metafieldsSet: connection refused"}`, message: "metafieldsSet: connection refused"},
		{name: "not json", status: 502, body: `bad gateway`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				w.Write([]byte(tt.body))
			})

			_, err := client.SaveSelection(context.Background(), "42", []string{"a"})
			var statusErr *StatusError
			if !errors.As(err, &statusErr) {
				t.Fatalf("Expected StatusError, got %v", err)
			}
			if statusErr.Status != tt.status || statusErr.Message != tt.message || len(statusErr.Details) != tt.details {
				t.Errorf("Unexpected error %+v", statusErr)
			}
		})
	}
}

func TestHealth(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"status":"ok","timestamp":"2026-01-01T00:00:00Z"}`))
	})
	if err := client.Health(context.Background()); err != nil {
		t.Errorf("Unexpected error: %v", err)
	}
}
