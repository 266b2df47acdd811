// Package strings holds helpers for comma-separated list values found in
// query strings and environment variables.
package strings

import (
	"strings"
)

// SplitList splits a comma-separated value into trimmed, non-empty,
// de-duplicated items in first-seen order. An empty input yields nil.
func SplitList(raw string) []string {
	if strings.TrimSpace(raw) == "" {
		return nil
	}
	return DedupeAndTrim(strings.Split(raw, ","))
}

// SplitQueryValues applies SplitList to every value of a repeated query
// parameter, so both ?p=a,b and ?p=a&p=b work.
func SplitQueryValues(values []string) []string {
	var out []string
	for _, v := range values {
		out = append(out, SplitList(v)...)
	}
	return DedupeAndTrim(out)
}

// DedupeAndTrim drops blanks and repeats after trimming. Order is preserved.
func DedupeAndTrim(values []string) []string {
	if len(values) == 0 {
		return nil
	}
	seen := make(map[string]struct{}, len(values))
	result := make([]string, 0, len(values))
	for _, v := range values {
		trimmed := strings.TrimSpace(v)
		if trimmed == "" {
			continue
		}
		if _, ok := seen[trimmed]; ok {
			continue
		}
		seen[trimmed] = struct{}{}
		result = append(result, trimmed)
	}
	if len(result) == 0 {
		return nil
	}
	return result
}
