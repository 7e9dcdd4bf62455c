package shopify

import (
	"fmt"
	"strconv"
	"strings"
)

const gidPrefix = "gid://shopify/"

// GID builds a global id such as gid://shopify/Customer/123
func GID(resource string, id int64) string {
	return fmt.Sprintf("%s%s/%d", gidPrefix, resource, id)
}

// ParseGID splits a global id into its resource and id parts
func ParseGID(gid string) (resource string, id string, ok bool) {
	if !strings.HasPrefix(gid, gidPrefix) {
		return "", "", false
	}
	parts := strings.SplitN(strings.TrimPrefix(gid, gidPrefix), "/", 2)
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return "", "", false
	}
	return parts[0], parts[1], true
}

// NormalizeCustomerGID accepts a bare numeric customer id or a customer GID
// and returns the GID form. ok is false for anything else.
func NormalizeCustomerGID(raw string) (string, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", false
	}
	if resource, id, ok := ParseGID(raw); ok {
		if resource != "Customer" {
			return "", false
		}
		if _, err := strconv.ParseInt(id, 10, 64); err != nil {
			return "", false
		}
		return raw, true
	}
	n, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || n <= 0 {
		return "", false
	}
	return GID("Customer", n), true
}
