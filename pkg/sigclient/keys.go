package sigclient

import (
	"crypto/ed25519"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"strings"
)

// GenerateKey makes a fresh ed25519 pair.
func GenerateKey() (ed25519.PublicKey, ed25519.PrivateKey, error) {
	return ed25519.GenerateKey(rand.Reader)
}

// EncodePublicKey renders a public key the way the server expects it
// configured: unpadded URL-safe base64.
func EncodePublicKey(pub ed25519.PublicKey) string {
	return base64.RawURLEncoding.EncodeToString(pub)
}

// EncodeSeed renders the 32-byte private seed for storage.
func EncodeSeed(priv ed25519.PrivateKey) string {
	return base64.RawURLEncoding.EncodeToString(priv.Seed())
}

// ParsePrivateKey accepts a URL-safe base64 seed or full private key,
// padding optional.
func ParsePrivateKey(encoded string) (ed25519.PrivateKey, error) {
	s := strings.TrimRight(strings.TrimSpace(encoded), "=")
	raw, err := base64.RawURLEncoding.DecodeString(s)
	if err != nil {
		return nil, err
	}
	switch len(raw) {
	case ed25519.SeedSize:
		return ed25519.NewKeyFromSeed(raw), nil
	case ed25519.PrivateKeySize:
		return ed25519.PrivateKey(raw), nil
	}
	return nil, errors.New("private key must be a 32-byte seed or 64-byte key")
}
