package validate

import (
	"regexp"
	"strings"
)

const maxQ = 50

var (
	// Product codes are opaque: any run of visible characters, no spaces.
	reCode = regexp.MustCompile(`^[[:graph:]]{1,64}$`)
	reQ    = regexp.MustCompile(`^[\p{L}\p{N} ._'\-]{1,50}$`)
)

// Code sanitizes a scanned product code. Scanners often append whitespace
// or a newline, which is trimmed.
func Code(s string) (string, bool) {
	s = strings.TrimSpace(s)
	return s, reCode.MatchString(s)
}

// Q validates a catalog lookup query: trims, enforces allowed characters and
// cuts it to its first maxQ characters.
func Q(s string) (string, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return "", false
	}
	if r := []rune(s); len(r) > maxQ {
		s = strings.TrimSpace(string(r[:maxQ]))
	}
	return s, reQ.MatchString(s)
}
