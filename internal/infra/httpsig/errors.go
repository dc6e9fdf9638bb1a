package httpsig

import "errors"

// MalformedError reports a Signature or Signature-Input header that violates
// the supported grammar. Callers map it to HTTP 400.
type MalformedError struct {
	Reason string
}

func (e *MalformedError) Error() string {
	return "malformed signature: " + e.Reason
}

func malformed(reason string) error {
	return &MalformedError{Reason: reason}
}

// IsMalformed reports whether err is a header grammar violation.
func IsMalformed(err error) bool {
	var me *MalformedError
	return errors.As(err, &me)
}

var (
	// ErrMissingSignature is returned when strict mode requires signature
	// headers and at least one is absent.
	ErrMissingSignature = errors.New("missing required signature")

	// ErrNoValidSignature is returned when headers parse but no attached
	// signature verifies against any candidate base.
	ErrNoValidSignature = errors.New("no valid signature")
)
