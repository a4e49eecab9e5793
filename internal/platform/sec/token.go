// Copyright (c) 2026 Mogger. All rights reserved.

package sec

import (
	"crypto/rand"
	"encoding/base64"
	"fmt"
)

// GenerateSecureToken returns a URL-safe base64 string built from
// byteLength cryptographically random bytes. Used for session ids.
func GenerateSecureToken(byteLength int) (string, error) {
	raw := make([]byte, byteLength)
	if _, err := rand.Read(raw); err != nil {
		return "", fmt.Errorf("sec: failed to generate token: %w", err)
	}
	return base64.URLEncoding.EncodeToString(raw), nil
}
