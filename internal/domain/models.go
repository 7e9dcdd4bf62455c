package domain

import (
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Vehicle is one selectable catalog entry, stored as a Shopify metaobject
type Vehicle struct {
	ID       string `json:"id"` // metaobject GID
	Category string `json:"category"`
	Year     int    `json:"year"`
	Make     string `json:"make"`
	Model    string `json:"model"`
	Style    string `json:"style,omitempty"`
}

// SearchText is the composite string catalog filtering matches against
func (v Vehicle) SearchText() string {
	parts := []string{v.Category, strconv.Itoa(v.Year), v.Make, v.Model, v.Style}
	return strings.ToLower(strings.Join(parts, " "))
}

// Label is the human readable name shown in the garage list
func (v Vehicle) Label() string {
	label := strings.TrimSpace(strconv.Itoa(v.Year) + " " + v.Make + " " + v.Model)
	if v.Style != "" {
		label += " " + v.Style
	}
	return label
}

// VehicleRecord is one importable CSV row, before it has a metaobject GID
type VehicleRecord struct {
	Identifier string
	Category   string
	Year       int
	Make       string
	Model      string
	Style      string
	Handle     string // metaobject handle, see importer.Slug
	Line       int    // source line, for warnings
}

// ImportRun is the ledger entry for one importer execution
type ImportRun struct {
	ID         uuid.UUID    `json:"id"`
	Source     string       `json:"source"`
	Status     ImportStatus `json:"status"`
	TotalRows  int          `json:"total_rows"`
	Skipped    int          `json:"skipped"`
	Created    int          `json:"created"`
	Failed     int          `json:"failed"`
	DryRun     bool         `json:"dry_run"`
	StartedAt  time.Time    `json:"started_at"`
	FinishedAt *time.Time   `json:"finished_at,omitempty"`
}

// ImportBatchEvent records the outcome of one bulk-create mutation
type ImportBatchEvent struct {
	ID         uuid.UUID `json:"id"`
	RunID      uuid.UUID `json:"run_id"`
	BatchIndex int       `json:"batch_index"`
	Size       int       `json:"size"`
	Created    int       `json:"created"`
	Errors     []string  `json:"errors,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
}
