package uid

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
)

// GenerateTableID generates a random, URL-safe table ID
func GenerateTableID() (string, error) {
	bytes := make([]byte, 12)
	if _, err := rand.Read(bytes); err != nil {
		return "", fmt.Errorf("failed to generate table ID: %v", err)
	}
	return hex.EncodeToString(bytes), nil
}
