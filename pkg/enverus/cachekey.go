package enverus

import (
	"crypto/sha256"
	"fmt"
	"sort"
	"strings"
)

// cacheKey returns SHA-256 hex of the normalized query params. Queries that
// differ only in field order or county casing share a cache entry.
func cacheKey(q QueryParams) string {
	fields := make([]string, len(q.Fields))
	for i, f := range q.Fields {
		fields[i] = strings.ToLower(strings.TrimSpace(f))
	}
	sort.Strings(fields)

	normalized := fmt.Sprintf("%s|%s|%d",
		strings.ToLower(strings.TrimSpace(q.County)),
		strings.Join(fields, ","),
		q.PageSize,
	)
	h := sha256.Sum256([]byte(normalized))
	return fmt.Sprintf("%x", h)
}
