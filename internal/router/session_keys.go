package router

import (
	"crypto/sha256"
	"errors"
	"fmt"
	"io"
	"strings"

	"golang.org/x/crypto/hkdf"
)

const sessionKeySalt = "auctus-site/session"

// deriveSessionKeys expands the configured secret into independent HMAC and
// AES-256 keys for the cookie store.
func deriveSessionKeys(secret string) (authKey, encKey []byte, err error) {
	secret = strings.TrimSpace(secret)
	if secret == "" {
		return nil, nil, errors.New("session secret is required")
	}

	kdf := hkdf.New(sha256.New, []byte(secret), []byte(sessionKeySalt), []byte("cookie"))
	authKey = make([]byte, 32)
	encKey = make([]byte, 32)
	if _, err := io.ReadFull(kdf, authKey); err != nil {
		return nil, nil, fmt.Errorf("derive session auth key: %w", err)
	}
	if _, err := io.ReadFull(kdf, encKey); err != nil {
		return nil, nil, fmt.Errorf("derive session encryption key: %w", err)
	}
	return authKey, encKey, nil
}
