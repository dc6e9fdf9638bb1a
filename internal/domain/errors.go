package domain

import "errors"

var (
	ErrNotFound         = errors.New("not found")
	ErrInvalidContent   = errors.New("content must be an object")
	ErrInvalidLifespan  = errors.New("invalid lifespan")
	ErrPolicyViolation  = errors.New("policy violation")
	ErrStoreUnavailable = errors.New("storage unavailable")
)
