package dataset

import (
	"regexp"
	"strings"
)

// identMaxLen matches the Postgres identifier limit; the other backends are
// no stricter in practice.
const identMaxLen = 63

var nonIdentRun = regexp.MustCompile(`[^a-z0-9]+`)

// Sanitize converts an arbitrary header into an identifier-safe name: the
// input is lower-cased and every maximal run of characters outside [a-z0-9]
// becomes a single underscore. The result is ASCII by construction and is
// truncated to identMaxLen bytes.
//
// Sanitize is idempotent but not collision-free; SanitizeColumns is
// responsible for rejecting collisions.
func Sanitize(name string) string {
	s := nonIdentRun.ReplaceAllString(strings.ToLower(name), "_")
	if len(s) > identMaxLen {
		s = s[:identMaxLen]
	}
	return s
}
