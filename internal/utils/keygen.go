package utils

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"time"
)

// GenerateOrderReference generates a reference id for a manual sale.
// Format: VI-YYYYMMDD-randomhex
// Example: VI-20240131-a1b2c3d4
func GenerateOrderReference(at time.Time) (string, error) {
	b := make([]byte, 4)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return fmt.Sprintf("VI-%s-%s", at.Format("20060102"), hex.EncodeToString(b)), nil
}
