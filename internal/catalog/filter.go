// Package catalog filters the in-memory vehicle catalog for the garage picker.
package catalog

import (
	"fmt"
	"strings"

	"github.com/GKRMP/garage/internal/domain"
)

// DefaultLimit caps how many matches the picker renders
const DefaultLimit = 100

// Result is one filtering pass
type Result struct {
	Vehicles []domain.Vehicle
	Matched  int // matches before the cap
	Total    int // catalog size
}

// Truncated reports whether matches were dropped by the cap
func (r Result) Truncated() bool {
	return r.Matched > len(r.Vehicles)
}

// Summary is the "Showing X of Y" affordance, empty when nothing was cut
func (r Result) Summary() string {
	if !r.Truncated() {
		return ""
	}
	return fmt.Sprintf("Showing %d of %d", len(r.Vehicles), r.Matched)
}

// Filter matches query case-insensitively as a substring of each vehicle's
// category, year, make, model and style. An empty query matches everything.
// limit <= 0 uses DefaultLimit.
func Filter(vehicles []domain.Vehicle, query string, limit int) Result {
	if limit <= 0 {
		limit = DefaultLimit
	}
	q := strings.ToLower(strings.TrimSpace(query))

	res := Result{Vehicles: []domain.Vehicle{}, Total: len(vehicles)}
	for _, v := range vehicles {
		if q != "" && !strings.Contains(v.SearchText(), q) {
			continue
		}
		res.Matched++
		if len(res.Vehicles) < limit {
			res.Vehicles = append(res.Vehicles, v)
		}
	}
	return res
}
