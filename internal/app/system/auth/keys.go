// internal/app/system/auth/keys.go
package auth

import (
	"encoding/hex"
	"fmt"

	"github.com/gorilla/securecookie"
)

// RandomSessionKey returns a fresh hex-encoded 32-byte signing key.
// Dev startup falls back to this when no session key is configured;
// sessions then reset on every restart, which is fine locally and a
// loud reminder to configure a real key anywhere else.
func RandomSessionKey() (string, error) {
	b := securecookie.GenerateRandomKey(32)
	if b == nil {
		return "", fmt.Errorf("system random source unavailable")
	}
	return hex.EncodeToString(b), nil
}
