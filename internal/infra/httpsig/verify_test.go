package httpsig

import (
	"crypto/ed25519"
	"crypto/rand"
	"encoding/base64"
	"testing"
)

func signedInput(t *testing.T) (BaseInput, *Resolver, ed25519.PrivateKey) {
	t.Helper()
	pub, priv, err := ed25519.GenerateKey(rand.Reader)
	if err != nil {
		t.Fatalf("generate key: %v", err)
	}
	r, err := NewResolver(nil, "", "")
	if err != nil {
		t.Fatalf("new resolver: %v", err)
	}
	if err := r.Register("sig1", pub); err != nil {
		t.Fatalf("register: %v", err)
	}
	in := BaseInput{Method: "POST", Host: "testserver", Path: "/objects"}
	return in, r, priv
}

func signBase(priv ed25519.PrivateKey, base string) string {
	return base64.RawURLEncoding.EncodeToString(ed25519.Sign(priv, []byte(base)))
}

func TestVerifyAcceptsDocumentedBase(t *testing.T) {
	in, r, priv := signedInput(t)
	v := &Verifier{Keys: r}

	sig := signBase(priv, "POST http://testserver/objects")
	out, err := v.Verify(in,
		map[string]InputEntry{"sig1": {KeyID: "sig1"}},
		map[string]string{"sig1": sig},
	)
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	if !out.Accepted || out.MatchedLabel != "sig1" {
		t.Fatalf("outcome = %+v", out)
	}
}

func TestVerifyAcceptsTrailingSlashVariant(t *testing.T) {
	in, r, priv := signedInput(t)
	v := &Verifier{Keys: r}

	sig := signBase(priv, "POST http://testserver/objects/")
	out, err := v.Verify(in,
		map[string]InputEntry{"sig1": {KeyID: "sig1"}},
		map[string]string{"sig1": sig},
	)
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	if !out.Accepted {
		t.Fatalf("trailing slash variant should verify")
	}
}

func TestVerifyIsIdempotent(t *testing.T) {
	in, r, priv := signedInput(t)
	v := &Verifier{Keys: r}
	si := map[string]InputEntry{"sig1": {KeyID: "sig1"}}
	sigs := map[string]string{"sig1": signBase(priv, "POST http://testserver/objects")}

	for i := 0; i < 3; i++ {
		out, err := v.Verify(in, si, sigs)
		if err != nil || !out.Accepted {
			t.Fatalf("round %d: out=%+v err=%v", i, out, err)
		}
	}
}

func TestVerifyMultiSignatureOneGoodAccepts(t *testing.T) {
	in, r, priv := signedInput(t)
	v := &Verifier{Keys: r}

	good := signBase(priv, "POST http://testserver/objects")
	bad := signBase(priv, "POST http://elsewhere/objects")
	out, err := v.Verify(in,
		map[string]InputEntry{
			"bad1": {KeyID: "sig1"},
			"sig1": {KeyID: "sig1"},
		},
		map[string]string{"bad1": bad, "sig1": good},
	)
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	if !out.Accepted || out.MatchedLabel != "sig1" {
		t.Fatalf("outcome = %+v", out)
	}
}

func TestVerifyAllBadRejects(t *testing.T) {
	in, r, priv := signedInput(t)
	v := &Verifier{Keys: r}

	bad := signBase(priv, "POST http://elsewhere/objects")
	out, err := v.Verify(in,
		map[string]InputEntry{"sig1": {KeyID: "sig1"}},
		map[string]string{"sig1": bad},
	)
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	if out.Accepted {
		t.Fatal("expected rejection")
	}
	if out.Failure != FailureBadSignature {
		t.Fatalf("failure = %v", out.Failure)
	}
}

func TestVerifyUnknownKeyID(t *testing.T) {
	in, r, priv := signedInput(t)
	v := &Verifier{Keys: r}

	sig := signBase(priv, "POST http://testserver/objects")
	out, err := v.Verify(in,
		map[string]InputEntry{"sig1": {KeyID: "who"}},
		map[string]string{"sig1": sig},
	)
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	if out.Accepted || out.Failure != FailureUnknownKey {
		t.Fatalf("outcome = %+v", out)
	}
}

func TestVerifyMissingKeyIDIsMalformed(t *testing.T) {
	in, r, priv := signedInput(t)
	v := &Verifier{Keys: r}

	good := signBase(priv, "POST http://testserver/objects")
	_, err := v.Verify(in,
		map[string]InputEntry{
			"sig1": {KeyID: "sig1"},
			"sig2": {},
		},
		map[string]string{"sig1": good, "sig2": good},
	)
	if err == nil || !IsMalformed(err) {
		t.Fatalf("expected malformed error, got %v", err)
	}
}

func TestVerifyLabelMismatchIsMalformed(t *testing.T) {
	in, r, _ := signedInput(t)
	v := &Verifier{Keys: r}

	_, err := v.Verify(in,
		map[string]InputEntry{"sig1": {KeyID: "sig1"}},
		map[string]string{"other": "AAAA"},
	)
	if err == nil || !IsMalformed(err) {
		t.Fatalf("expected malformed error, got %v", err)
	}
}

func TestVerifyOneToleratesFoldedSignatureValue(t *testing.T) {
	in, r, priv := signedInput(t)
	v := &Verifier{Keys: r}

	sig := signBase(priv, "POST http://testserver/objects")
	folded := sig[:20] + " " + sig[20:]
	if !v.VerifyOne(in, "sig1", folded) {
		t.Fatal("signature with interior spaces must still decode and verify")
	}
}

func TestVerifyEmptySignatureValueRejects(t *testing.T) {
	in, r, _ := signedInput(t)
	v := &Verifier{Keys: r}

	out, err := v.Verify(in,
		map[string]InputEntry{"sig1": {KeyID: "sig1"}},
		map[string]string{"sig1": ""},
	)
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	if out.Accepted {
		t.Fatal("empty signature value must not verify")
	}
}

func TestVerifyOneCorruptBase64IsFalse(t *testing.T) {
	in, r, _ := signedInput(t)
	v := &Verifier{Keys: r}
	if v.VerifyOne(in, "sig1", "!!!not-base64!!!") {
		t.Fatal("corrupt signature value must not verify")
	}
}

func TestVerifyOnlyDeclaredKeyConsulted(t *testing.T) {
	in, r, priv := signedInput(t)

	otherPub, _, err := ed25519.GenerateKey(rand.Reader)
	if err != nil {
		t.Fatalf("generate key: %v", err)
	}
	if err := r.Register("other", otherPub); err != nil {
		t.Fatalf("register: %v", err)
	}

	v := &Verifier{Keys: r}
	// Signed by sig1's private key but declared as keyid "other": a scan
	// across all registered keys would accept this, keyid-scoped lookup
	// must not.
	sig := signBase(priv, "POST http://testserver/objects")
	out, err := v.Verify(in,
		map[string]InputEntry{"sig1": {KeyID: "other"}},
		map[string]string{"sig1": sig},
	)
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	if out.Accepted {
		t.Fatal("signature must only be checked against the declared keyid")
	}
}
