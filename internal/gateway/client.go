// Package gateway is the HTTP client the garage widget uses to reach the sync gateway.
package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/GKRMP/garage/internal/config"
	"github.com/GKRMP/garage/internal/domain"
	"github.com/GKRMP/garage/internal/service"
)

// StatusError is a non-2xx gateway answer, decoded from the {error, errors?} body
type StatusError struct {
	Status  int
	Message string
	Details []json.RawMessage
}

func (e *StatusError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("gateway returned status %d", e.Status)
	}
	return fmt.Sprintf("gateway returned status %d: %s", e.Status, e.Message)
}

type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     *zap.Logger
}

// NewClient creates a gateway client
func NewClient(cfg config.ClientConfig, logger *zap.Logger) *Client {
	if logger == nil {
		logger = zap.NewNop()
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &Client{
		baseURL: strings.TrimSuffix(cfg.GatewayURL, "/"),
		httpClient: &http.Client{
			Timeout: timeout,
		},
		logger: logger,
	}
}

// ListCatalog fetches the full vehicle catalog
func (c *Client) ListCatalog(ctx context.Context) ([]domain.Vehicle, error) {
	var resp service.CatalogResponse
	if err := c.do(ctx, http.MethodGet, "/catalog/list", nil, &resp); err != nil {
		return nil, err
	}
	return resp.Items, nil
}

// LoadSelection fetches the customer's saved garage ids
func (c *Client) LoadSelection(ctx context.Context, customerID string) ([]string, error) {
	var resp service.SelectionResponse
	path := "/profile/selection?customerId=" + url.QueryEscape(customerID)
	if err := c.do(ctx, http.MethodGet, path, nil, &resp); err != nil {
		return nil, err
	}
	if resp.Items == nil {
		return []string{}, nil
	}
	return resp.Items, nil
}

// SaveSelection overwrites the customer's garage and returns what was stored
func (c *Client) SaveSelection(ctx context.Context, customerID string, ids []string) ([]string, error) {
	if ids == nil {
		ids = []string{}
	}
	body := service.SaveSelectionRequest{CustomerID: service.CustomerID(customerID), Items: &ids}
	var resp service.SaveSelectionResponse
	if err := c.do(ctx, http.MethodPost, "/profile/selection", body, &resp); err != nil {
		return nil, err
	}
	return resp.Stored, nil
}

// Health pings the gateway
func (c *Client) Health(ctx context.Context) error {
	var resp struct {
		Status string `json:"status"`
	}
	if err := c.do(ctx, http.MethodGet, "/health", nil, &resp); err != nil {
		return err
	}
	if resp.Status != "ok" {
		return fmt.Errorf("gateway unhealthy: %q", resp.Status)
	}
	return nil
}

func (c *Client) do(ctx context.Context, method, path string, in, out interface{}) error {
	var reader io.Reader
	if in != nil {
		payload, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("failed to marshal request: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}

	c.logger.Debug("Gateway request",
		zap.String("method", method),
		zap.String("path", path),
		zap.Int("status", resp.StatusCode),
		zap.Duration("latency", time.Since(start)),
	)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		statusErr := &StatusError{Status: resp.StatusCode}
		var errBody struct {
			Error  string            `json:"error"`
			Errors []json.RawMessage `json:"errors"`
		}
		if json.Unmarshal(body, &errBody) == nil {
			statusErr.Message = errBody.Error
			statusErr.Details = errBody.Errors
		}
		return statusErr
	}

	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("failed to unmarshal response: %w", err)
	}
	return nil
}
