package utils

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"time"
)

// GenerateOrderNumber produces a human-readable, collision-resistant order
// number. Format: ORD-20260115-a1b2c3 (UTC date plus 6 hex chars of entropy).
// The date prefix keeps numbers roughly sortable by creation day; uniqueness
// is still enforced by the orders table constraint.
func GenerateOrderNumber(now time.Time) (string, error) {
	b := make([]byte, 3)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return fmt.Sprintf("ORD-%s-%s", now.UTC().Format("20060102"), hex.EncodeToString(b)), nil
}
