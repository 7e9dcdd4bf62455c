package service

import (
	"bytes"
	"encoding/json"
	"strings"

	"github.com/GKRMP/garage/internal/domain"
)

// CatalogResponse is returned by GET /catalog/list
type CatalogResponse struct {
	Success   bool             `json:"success"`
	Count     int              `json:"count"`
	Items     []domain.Vehicle `json:"items"`
	Truncated bool             `json:"truncated,omitempty"`
}

// SelectionResponse is returned by GET /profile/selection
type SelectionResponse struct {
	Success bool     `json:"success"`
	Items   []string `json:"items"`
	Count   int      `json:"count"`
}

// SaveSelectionRequest is the body of POST /profile/selection.
// Items is a pointer so a missing list can be told apart from an empty one.
type SaveSelectionRequest struct {
	CustomerID CustomerID `json:"customerId"`
	Items      *[]string  `json:"items"`
}

// SaveSelectionResponse confirms what the profile store now holds
type SaveSelectionResponse struct {
	Success bool     `json:"success"`
	Stored  []string `json:"stored"`
}

// CustomerID accepts both "123456" and 123456 in JSON bodies
type CustomerID string

func (c *CustomerID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*c = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*c = CustomerID(strings.TrimSpace(s))
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return err
	}
	*c = CustomerID(n.String())
	return nil
}
