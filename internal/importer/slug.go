package importer

import (
	"strconv"
	"strings"

	"github.com/GKRMP/garage/internal/domain"
)

// Slug builds the metaobject handle category-year-make-model-identifier
func Slug(rec domain.VehicleRecord) string {
	return slugify(strings.Join([]string{
		rec.Category,
		strconv.Itoa(rec.Year),
		rec.Make,
		rec.Model,
		rec.Identifier,
	}, "-"))
}

// slugify lowercases s and collapses every run of non [a-z0-9] characters into one dash
func slugify(s string) string {
	var b strings.Builder
	dash := false
	for _, r := range strings.ToLower(s) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
			dash = false
			continue
		}
		if !dash && b.Len() > 0 {
			b.WriteByte('-')
			dash = true
		}
	}
	return strings.TrimSuffix(b.String(), "-")
}
