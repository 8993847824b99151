package checkout

import (
	"crypto/rand"
	"fmt"
	"time"
)

const (
	orderCodePrefix    = "ORD"
	orderCodeSuffixLen = 5
	orderCodeAlphabet  = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZ"
)

// newOrderCode builds a human-readable order code: "ORD" + YYYYMMDD + five
// random uppercase base36 characters. Uniqueness is enforced by the DB; callers
// retry on collision.
func newOrderCode(now time.Time) (string, error) {
	suffix := make([]byte, orderCodeSuffixLen)
	if _, err := rand.Read(suffix); err != nil {
		return "", fmt.Errorf("generate order code suffix: %w", err)
	}
	for i, b := range suffix {
		suffix[i] = orderCodeAlphabet[int(b)%len(orderCodeAlphabet)]
	}
	return orderCodePrefix + now.Format("20060102") + string(suffix), nil
}
