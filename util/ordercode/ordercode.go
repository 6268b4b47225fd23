// Package ordercode generates the human-readable booking identifiers handed
// to customers: a date prefix plus a random suffix, e.g. CH20250610-7KQ2MX.
package ordercode

import (
	"crypto/rand"
	"regexp"
	"time"
)

const (
	prefix    = "CH"
	suffixLen = 6
	// no 0/O/1/I, keeps codes readable over the phone
	alphabet = "23456789ABCDEFGHJKLMNPQRSTUVWXYZ"
)

var pattern = regexp.MustCompile(`^CH\d{8}-[2-9A-HJ-NP-Z]{6}$`)

// New returns a fresh order code for the given creation time. Collisions are
// improbable but possible; the store enforces uniqueness and callers
// regenerate on a duplicate.
func New(now time.Time) string {
	buf := make([]byte, suffixLen)
	if _, err := rand.Read(buf); err != nil {
		// crypto/rand failing means the platform is broken
		panic(err)
	}
	for i, b := range buf {
		buf[i] = alphabet[int(b)%len(alphabet)]
	}
	return prefix + now.UTC().Format("20060102") + "-" + string(buf)
}

// Valid reports whether s looks like a code produced by New.
func Valid(s string) bool { return pattern.MatchString(s) }
