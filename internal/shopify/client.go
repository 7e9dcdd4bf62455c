package shopify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/GKRMP/garage/internal/config"
	apperrors "github.com/GKRMP/garage/pkg/errors"
)

type Client struct {
	endpoint    string
	accessToken string
	httpClient  *http.Client
	logger      *zap.Logger
}

// NewClient creates a new Shopify Admin GraphQL client
func NewClient(cfg config.ShopifyConfig, logger *zap.Logger) *Client {
	if logger == nil {
		logger = zap.NewNop()
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Client{
		endpoint:    Endpoint(cfg.ShopDomain, cfg.APIVersion),
		accessToken: cfg.AccessToken,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		logger: logger,
	}
}

// Endpoint builds the Admin GraphQL URL. The shop domain is normalized (https://
// and trailing slashes removed); an explicit http:// prefix is kept so local
// emulators can be targeted.
func Endpoint(shopDomain, apiVersion string) string {
	scheme := "https"
	domain := strings.TrimSpace(shopDomain)
	if strings.HasPrefix(domain, "http://") {
		scheme = "http"
	}
	domain = strings.TrimPrefix(domain, "https://")
	domain = strings.TrimPrefix(domain, "http://")
	domain = strings.TrimSuffix(domain, "/")
	return fmt.Sprintf("%s://%s/admin/api/%s/graphql.json", scheme, domain, apiVersion)
}

// GraphQLRequest represents a GraphQL request
type GraphQLRequest struct {
	Query     string                 `json:"query"`
	Variables map[string]interface{} `json:"variables,omitempty"`
}

// GraphQLResponse represents a GraphQL response
type GraphQLResponse struct {
	Data   json.RawMessage `json:"data"`
	Errors []GraphQLError  `json:"errors,omitempty"`
}

// GraphQLError represents a GraphQL error
type GraphQLError struct {
	Message string        `json:"message"`
	Path    []interface{} `json:"path,omitempty"`
}

// Execute executes a GraphQL query/mutation.
// Transport problems come back as *errors.ErrTransport, top-level GraphQL errors as *errors.ErrUpstream.
func (c *Client) Execute(ctx context.Context, operation, query string, variables map[string]interface{}) (*GraphQLResponse, error) {
	reqBody := GraphQLRequest{
		Query:     query,
		Variables: variables,
	}

	jsonData, err := json.Marshal(reqBody)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewBuffer(jsonData))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Shopify-Access-Token", c.accessToken)

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Warn("Shopify request failed", zap.String("operation", operation), zap.Error(err))
		return nil, &apperrors.ErrTransport{Operation: operation, Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &apperrors.ErrTransport{Operation: operation, Err: fmt.Errorf("failed to read response: %w", err)}
	}

	c.logger.Debug("Shopify request",
		zap.String("operation", operation),
		zap.Int("status", resp.StatusCode),
		zap.Duration("latency", time.Since(start)),
	)

	if resp.StatusCode != http.StatusOK {
		return nil, &apperrors.ErrTransport{
			Operation: operation,
			Err:       fmt.Errorf("shopify API error: status %d, body: %s", resp.StatusCode, string(body)),
		}
	}

	var graphQLResp GraphQLResponse
	if err := json.Unmarshal(body, &graphQLResp); err != nil {
		return nil, &apperrors.ErrTransport{Operation: operation, Err: fmt.Errorf("failed to unmarshal response: %w", err)}
	}

	if len(graphQLResp.Errors) > 0 {
		messages := make([]string, len(graphQLResp.Errors))
		for i, e := range graphQLResp.Errors {
			messages[i] = e.Message
		}
		return nil, &apperrors.ErrUpstream{Operation: operation, Messages: messages}
	}

	return &graphQLResp, nil
}

// Do executes a query and decodes its data object into out
func (c *Client) Do(ctx context.Context, operation, query string, variables map[string]interface{}, out interface{}) error {
	resp, err := c.Execute(ctx, operation, query, variables)
	if err != nil {
		return err
	}
	if out == nil {
		return nil
	}
	if err := json.Unmarshal(resp.Data, out); err != nil {
		return &apperrors.ErrTransport{Operation: operation, Err: fmt.Errorf("parse %s response: %w", operation, err)}
	}
	return nil
}
