package httpsig

import (
	"crypto/ed25519"
	"encoding/base64"
	"sort"
	"strings"
)

// FailureKind classifies why verification rejected a request.
type FailureKind int

const (
	FailureNone FailureKind = iota
	FailureUnknownKey
	FailureBadSignature
)

// Outcome is the aggregate verification result for one request.
type Outcome struct {
	Accepted     bool
	MatchedLabel string
	Failure      FailureKind
}

// Verifier checks detached ed25519 request signatures against the candidate
// canonical bases of a request. It holds no per-request state; verifying
// mutates nothing.
type Verifier struct {
	Keys *Resolver
}

// VerifyOne checks a single label's signature: decode the URL-safe base64
// value, resolve the declared keyid, then try every candidate base in
// priority order. Any decode or lookup failure is a plain false, never an
// escaping error.
func (v *Verifier) VerifyOne(in BaseInput, keyID, sigB64u string) bool {
	sig, err := decodeSignature(sigB64u)
	if err != nil {
		return false
	}
	key, ok := v.Keys.Resolve(keyID)
	if !ok {
		return false
	}
	for _, base := range CandidateBases(in) {
		if ed25519.Verify(key, []byte(base), sig) {
			return true
		}
	}
	return false
}

// Verify evaluates every signature whose label appears in both headers.
// Labels present in only one header are ignored for matching; an empty
// intersection or a present-in-both label without a keyid is a grammar
// error, checked for all labels before any cryptography so a single
// malformed label always surfaces as malformed rather than unauthorized.
// Acceptance is OR semantics: the first label that verifies accepts the
// whole request.
func (v *Verifier) Verify(in BaseInput, si map[string]InputEntry, sigs map[string]string) (Outcome, error) {
	var labels []string
	for label := range si {
		if _, ok := sigs[label]; ok {
			labels = append(labels, label)
		}
	}
	if len(labels) == 0 {
		return Outcome{}, malformed("signature label mismatch")
	}
	sort.Strings(labels)

	for _, label := range labels {
		if si[label].KeyID == "" {
			return Outcome{}, malformed("missing keyid for label " + label)
		}
	}

	failure := FailureUnknownKey
	for _, label := range labels {
		entry := si[label]
		if _, ok := v.Keys.Resolve(entry.KeyID); ok {
			failure = FailureBadSignature
		}
		if v.VerifyOne(in, entry.KeyID, sigs[label]) {
			return Outcome{Accepted: true, MatchedLabel: label}, nil
		}
	}
	return Outcome{Failure: failure}, nil
}

// decodeSignature tolerates padding and interior spaces, which header
// folding can introduce into long base64 values.
func decodeSignature(s string) ([]byte, error) {
	s = strings.ReplaceAll(strings.TrimSpace(s), " ", "")
	return base64.RawURLEncoding.DecodeString(strings.TrimRight(s, "="))
}
