// Package daily picks a deterministic solution per calendar day, so simulations
// run without an explicit target are reproducible for everyone on the same date.
package daily

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/binary"
	"io"
	"math/bits"
	"time"
)

// DateKey returns YYYY-MM-DD in UTC.
func DateKey(t time.Time) string {
	return t.UTC().Format("2006-01-02")
}

// Index maps the day of date onto [0, n). The salted digest of the date key
// is scaled into range by its high bits, so every slot gets an equal share.
// n <= 0 yields 0.
func Index(date time.Time, salt string, n int) int {
	if n <= 0 {
		return 0
	}
	slot, _ := bits.Mul64(dayDigest(salt, DateKey(date)), uint64(n))
	return int(slot)
}

func dayDigest(salt, key string) uint64 {
	mac := hmac.New(sha256.New, []byte(salt))
	_, _ = io.WriteString(mac, key)
	return binary.BigEndian.Uint64(mac.Sum(nil))
}

// Solution returns the word of the day from list, or "" for an empty list.
func Solution(date time.Time, salt string, list []string) string {
	if len(list) == 0 {
		return ""
	}
	return list[Index(date, salt, len(list))]
}
