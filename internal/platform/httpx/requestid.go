package httpx

import (
	"crypto/rand"
	"encoding/binary"
	"strconv"
	"time"
)

// NewRequestID returns a correlation token: a random base-36 fragment
// concatenated with a base-36 millisecond timestamp. It is echoed back to
// callers so support can trace a single request across logs.
func NewRequestID() string {
	var buf [8]byte
	_, _ = rand.Read(buf[:])
	random := strconv.FormatUint(binary.BigEndian.Uint64(buf[:]), 36)
	stamp := strconv.FormatInt(time.Now().UnixMilli(), 36)
	return random + stamp
}
