// internal/daily/daily.go
//
// Deterministic "molecule of the day" selection.
// Every server with the same salt picks the same bonus target for a given UTC
// date, without storing anything.

package daily

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/binary"
	"time"
)

// DateKey returns YYYY-MM-DD in UTC.
func DateKey(t time.Time) string {
	return t.UTC().Format("2006-01-02")
}

// Index returns a deterministic index in [0, n) for the date of t using
// HMAC-SHA256(salt, YYYY-MM-DD). It returns 0 when n <= 0.
func Index(t time.Time, salt string, n int) int {
	if n <= 0 {
		return 0
	}
	h := hmac.New(sha256.New, []byte(salt))
	h.Write([]byte(DateKey(t)))
	sum := h.Sum(nil)
	// first 8 bytes as the modulus source
	v := binary.BigEndian.Uint64(sum[:8])
	return int(v % uint64(n))
}
