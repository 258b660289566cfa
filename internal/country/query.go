package country

import (
	"regexp"
	"strings"
)

var (
	reMultiSpace  = regexp.MustCompile(`\s+`)
	reBadAllPunct = regexp.MustCompile(`^[\d\pP\pS\s]+$`)
)

// CleanQuery trims the user's input and collapses inner whitespace. Input
// without a single letter cannot name a country and is reported as
// ErrNotFound without a network round trip.
func CleanQuery(q string) (string, error) {
	q = strings.TrimSpace(reMultiSpace.ReplaceAllString(q, " "))
	if q == "" {
		return "", ErrEmptyQuery
	}
	if reBadAllPunct.MatchString(q) {
		return "", ErrNotFound
	}
	return q, nil
}
