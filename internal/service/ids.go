package service

import (
	"crypto/rand"
	"encoding/hex"
	"strconv"
	"time"
)

// newID builds a time-based record id. The category prefix keeps ids from
// colliding across files, which the cross-category status update relies on;
// the random suffix separates records created in the same millisecond.
func newID(prefix string, now time.Time) string {
	var b [3]byte
	_, _ = rand.Read(b[:])
	return prefix + "_" + strconv.FormatInt(now.UnixMilli(), 36) + hex.EncodeToString(b[:])
}
