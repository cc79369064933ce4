// Package textutils provides text normalization utilities for cache keys.
package textutils

import (
	"regexp"
	"strings"
)

// Bank descriptions embed volatile tokens (posting dates, payment
// references) that would fragment the pattern cache. Stripping them first
// lets "PAYMENT 12/03/24 ACME REF:9F3K2" and "PAYMENT 01/04/24 ACME"
// share one key.
var (
	datePattern       = regexp.MustCompile(`\d{1,2}/\d{2}(/\d{2,4})?`)
	referencePattern  = regexp.MustCompile(`(?i)ref:[a-z0-9]+`)
	whitespacePattern = regexp.MustCompile(`\s+`)
)

// NormalizeKey converts a raw transaction description into the canonical
// pattern-cache key: lowercase, date and reference tokens removed, runs of
// whitespace collapsed, trimmed. It is pure and idempotent.
func NormalizeKey(description string) string {
	key := strings.ToLower(description)
	key = datePattern.ReplaceAllString(key, "")
	key = referencePattern.ReplaceAllString(key, "")
	key = whitespacePattern.ReplaceAllString(key, " ")
	return strings.TrimSpace(key)
}
