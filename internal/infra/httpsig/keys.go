package httpsig

import (
	"crypto/ed25519"
	"encoding/base64"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
	"sync"
)

// Resolver maps key identifiers to raw ed25519 public keys. Lookup order:
// explicit registrations, named configuration entries, then the single
// configured default pair. Only the key declared for the requested keyid is
// ever consulted; there is no broad scan across registered keys.
//
// Safe for concurrent use: verification reads from many requests at once,
// registration writes are occasional.
type Resolver struct {
	mu       sync.RWMutex
	registry map[string]ed25519.PublicKey

	entries      map[string]ed25519.PublicKey
	defaultKeyID string
	defaultKey   ed25519.PublicKey
}

// NewResolver builds a resolver from named entries (keyid -> encoded key)
// and an optional default keyid/key pair. An entry that does not decode to
// exactly 32 bytes is a configuration error.
func NewResolver(entries map[string]string, defaultKeyID, defaultKey string) (*Resolver, error) {
	r := &Resolver{
		registry: make(map[string]ed25519.PublicKey),
		entries:  make(map[string]ed25519.PublicKey, len(entries)),
	}
	for kid, encoded := range entries {
		key, err := ParseKey(encoded)
		if err != nil {
			return nil, fmt.Errorf("key entry %q: %w", kid, err)
		}
		r.entries[kid] = key
	}
	if defaultKeyID != "" && defaultKey != "" {
		key, err := ParseKey(defaultKey)
		if err != nil {
			return nil, fmt.Errorf("default key: %w", err)
		}
		r.defaultKeyID = defaultKeyID
		r.defaultKey = key
	}
	return r, nil
}

// Register stores or replaces the key for keyid. No versioning: a second
// registration for the same keyid wins.
func (r *Resolver) Register(keyID string, key ed25519.PublicKey) error {
	if keyID == "" {
		return errors.New("keyid is required")
	}
	if len(key) != ed25519.PublicKeySize {
		return fmt.Errorf("public key must be %d bytes", ed25519.PublicKeySize)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.registry[keyID] = append(ed25519.PublicKey(nil), key...)
	return nil
}

// RegisterEncoded decodes hex/base64/base64url key material and registers it.
func (r *Resolver) RegisterEncoded(keyID, encoded string) error {
	key, err := ParseKey(encoded)
	if err != nil {
		return err
	}
	return r.Register(keyID, key)
}

// Resolve returns the public key for keyid, or false when none is declared.
func (r *Resolver) Resolve(keyID string) (ed25519.PublicKey, bool) {
	if keyID == "" {
		return nil, false
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	if key, ok := r.registry[keyID]; ok {
		return key, true
	}
	if key, ok := r.entries[keyID]; ok {
		return key, true
	}
	if r.defaultKeyID != "" && keyID == r.defaultKeyID {
		return r.defaultKey, true
	}
	return nil, false
}

// ParseKey normalizes duck-typed key material: hex, URL-safe base64, or
// standard base64 (padding optional), decoded to exactly 32 raw bytes.
func ParseKey(encoded string) (ed25519.PublicKey, error) {
	s := strings.ReplaceAll(strings.TrimSpace(encoded), " ", "")
	if s == "" {
		return nil, errors.New("empty key material")
	}
	if raw, err := hex.DecodeString(s); err == nil && len(raw) == ed25519.PublicKeySize {
		return ed25519.PublicKey(raw), nil
	}
	unpadded := strings.TrimRight(s, "=")
	if raw, err := base64.RawURLEncoding.DecodeString(unpadded); err == nil && len(raw) == ed25519.PublicKeySize {
		return ed25519.PublicKey(raw), nil
	}
	if raw, err := base64.RawStdEncoding.DecodeString(unpadded); err == nil && len(raw) == ed25519.PublicKeySize {
		return ed25519.PublicKey(raw), nil
	}
	return nil, errors.New("public key must decode to 32 bytes")
}
