package scan

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
)

// ErrNoSlugs is returned when no marker prefix was configured.
var ErrNoSlugs = errors.New("at least one slug prefix is required")

// compilePattern builds the marker pattern for a set of slug prefixes,
// e.g. ["REQ", "LIN"] -> (?:REQ|LIN)-\d+. Matching is case sensitive and
// unanchored: "MYREQ-123" still yields "REQ-123" for prefix "REQ". The
// digit run is kept verbatim, so "REQ-007" and "REQ-7" are distinct ids.
func compilePattern(slugs []string) (*regexp.Regexp, error) {
	if len(slugs) == 0 {
		return nil, ErrNoSlugs
	}

	escaped := make([]string, len(slugs))
	for i, s := range slugs {
		escaped[i] = regexp.QuoteMeta(s)
	}

	pattern, err := regexp.Compile(fmt.Sprintf(`(?:%s)-\d+`, strings.Join(escaped, "|")))
	if err != nil {
		return nil, fmt.Errorf("compile slug pattern: %w", err)
	}
	return pattern, nil
}
