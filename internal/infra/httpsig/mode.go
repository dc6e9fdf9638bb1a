package httpsig

import (
	"strings"
	"sync/atomic"
)

// Mode is the signature enforcement level.
type Mode string

const (
	// ModeOff performs no checking at all.
	ModeOff Mode = "off"
	// ModePermissive requires well-formed headers when any are present but
	// never performs cryptographic verification. It exists so clients can
	// rehearse header construction without being blocked.
	ModePermissive Mode = "permissive"
	// ModeStrict requires headers and at least one verifying signature.
	ModeStrict Mode = "strict"
)

// ParseMode normalizes a configured mode string. Unrecognized values fall
// back to off.
func ParseMode(s string) Mode {
	switch Mode(strings.ToLower(strings.TrimSpace(s))) {
	case ModePermissive:
		return ModePermissive
	case ModeStrict:
		return ModeStrict
	default:
		return ModeOff
	}
}

// Policy owns the current enforcement mode. It is injected where needed
// rather than read from process-wide state; reads always observe the latest
// SetMode, so the mode can be flipped at runtime.
type Policy struct {
	mode atomic.Value
}

func NewPolicy(mode Mode) *Policy {
	p := &Policy{}
	p.SetMode(mode)
	return p
}

func (p *Policy) Mode() Mode {
	if v, ok := p.mode.Load().(Mode); ok {
		return v
	}
	return ModeOff
}

func (p *Policy) SetMode(mode Mode) {
	p.mode.Store(mode)
}
