package auth

import "errors"

var (
	// ErrTokenInvalid means the token failed signature, expiry or claim
	// validation.
	ErrTokenInvalid = errors.New("invalid token")

	// ErrScopeInsufficient means the token is valid but its scope does
	// not permit the attempted operation.
	ErrScopeInsufficient = errors.New("insufficient scope")
)
