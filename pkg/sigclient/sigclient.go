// Package sigclient builds detached ed25519 request signatures in the
// restricted RFC 9421 profile the OMP server verifies: empty covered
// components, the canonical base "{METHOD} {url}".
package sigclient

import (
	"crypto/ed25519"
	"encoding/base64"
	"fmt"
	"net/http"
	"strings"
	"time"
)

// SigningBase renders the exact string that gets signed. The url is taken
// as given; the server tolerates the usual renderings of the same request.
func SigningBase(method, url string) string {
	return strings.ToUpper(method) + " " + url
}

// Sign returns the unpadded URL-safe base64 signature over base.
func Sign(priv ed25519.PrivateKey, base string) string {
	return base64.RawURLEncoding.EncodeToString(ed25519.Sign(priv, []byte(base)))
}

// InputHeader renders one Signature-Input member.
func InputHeader(label string, created int64, keyID string) string {
	return fmt.Sprintf("%s=();created=%d;keyid=%q", label, created, keyID)
}

// SignatureHeader renders one Signature member.
func SignatureHeader(label, sig string) string {
	return fmt.Sprintf("%s=:%s:", label, sig)
}

// SignRequest signs req over "{METHOD} {scheme://host}{path}" and attaches
// both headers under label.
func SignRequest(req *http.Request, label, keyID string, priv ed25519.PrivateKey) {
	scheme := "http"
	if req.TLS != nil || req.URL.Scheme == "https" {
		scheme = "https"
	}
	host := req.Host
	if host == "" {
		host = req.URL.Host
	}
	base := SigningBase(req.Method, scheme+"://"+host+req.URL.Path)
	created := time.Now().Unix()
	req.Header.Set("Signature-Input", InputHeader(label, created, keyID))
	req.Header.Set("Signature", SignatureHeader(label, Sign(priv, base)))
}
