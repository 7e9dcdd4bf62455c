package shopify

import (
	"sort"
	"strings"
)

// AccessScopesQuery lists the scopes granted to the app installation
const AccessScopesQuery = `
query accessScopes {
  currentAppInstallation {
    accessScopes {
      handle
    }
  }
}
`

// AccessScopesResult is the data object of AccessScopesQuery
type AccessScopesResult struct {
	CurrentAppInstallation struct {
		AccessScopes []struct {
			Handle string `json:"handle"`
		} `json:"accessScopes"`
	} `json:"currentAppInstallation"`
}

// RequiredScopes are the Admin API scopes the gateway and importer use
var RequiredScopes = []string{
	"read_customers",
	"write_customers",
	"read_metaobject_definitions",
	"write_metaobject_definitions",
	"read_metaobjects",
	"write_metaobjects",
}

// Handles returns the granted scope handles
func (r AccessScopesResult) Handles() []string {
	out := make([]string, 0, len(r.CurrentAppInstallation.AccessScopes))
	for _, s := range r.CurrentAppInstallation.AccessScopes {
		out = append(out, s.Handle)
	}
	return out
}

// MissingScopes returns the required scopes not present in granted, sorted.
// A write scope implies its read scope.
func MissingScopes(granted []string) []string {
	have := make(map[string]bool, len(granted))
	for _, g := range granted {
		have[g] = true
		if rest, ok := strings.CutPrefix(g, "write_"); ok {
			have["read_"+rest] = true
		}
	}
	var missing []string
	for _, s := range RequiredScopes {
		if !have[s] {
			missing = append(missing, s)
		}
	}
	sort.Strings(missing)
	return missing
}
