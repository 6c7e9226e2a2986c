package signature

import (
	"sort"
	"strings"
)

// CanonicalString joins params as key=value pairs sorted by key and separated
// by ampersands. Signature fields and empty values are skipped so both sides
// of a verification hash the same material.
func CanonicalString(params map[string]string, skip ...string) string {
	skipped := make(map[string]struct{}, len(skip))
	for _, key := range skip {
		skipped[key] = struct{}{}
	}

	keys := make([]string, 0, len(params))
	for key, value := range params {
		if value == "" {
			continue
		}
		if _, ok := skipped[key]; ok {
			continue
		}
		keys = append(keys, key)
	}
	sort.Strings(keys)

	var builder strings.Builder
	for i, key := range keys {
		if i > 0 {
			builder.WriteByte('&')
		}
		builder.WriteString(key)
		builder.WriteByte('=')
		builder.WriteString(params[key])
	}
	return builder.String()
}
