package auth

import (
	"errors"
	"fmt"

	"github.com/golang-jwt/jwt/v5"
)

var (
	ErrConfiguration        = errors.New("auth: invalid token service configuration")
	ErrInvalidInput         = errors.New("auth: invalid input")
	ErrMalformedCredential  = errors.New("auth: malformed credential")
	ErrMalformedToken       = errors.New("auth: malformed token")
	ErrSignatureInvalid     = errors.New("auth: token signature invalid")
	ErrTokenExpired         = errors.New("auth: token expired")
	ErrUnsupportedAlgorithm = errors.New("auth: unsupported signing algorithm")
	ErrClaimMissing         = errors.New("auth: claim missing")
)

// classify maps a golang-jwt parse error onto exactly one auth sentinel.
// The library error stays in the chain for logging.
func classify(err error) error {
	var kind error
	switch {
	case errors.Is(err, ErrUnsupportedAlgorithm), errors.Is(err, jwt.ErrTokenUnverifiable):
		kind = ErrUnsupportedAlgorithm
	case errors.Is(err, jwt.ErrTokenMalformed):
		kind = ErrMalformedToken
	case errors.Is(err, jwt.ErrTokenSignatureInvalid):
		kind = ErrSignatureInvalid
	case errors.Is(err, jwt.ErrTokenExpired):
		kind = ErrTokenExpired
	default:
		// missing exp and undecodable claim values end up here
		kind = ErrMalformedToken
	}
	if errors.Is(err, kind) {
		return err
	}
	return fmt.Errorf("%w: %w", kind, err)
}

// Code returns a stable, client-facing error code for an auth error.
// Unknown errors map to "unauthorized".
func Code(err error) string {
	switch {
	case errors.Is(err, ErrMalformedCredential):
		return "malformed_credential"
	case errors.Is(err, ErrMalformedToken):
		return "malformed_token"
	case errors.Is(err, ErrSignatureInvalid):
		return "invalid_signature"
	case errors.Is(err, ErrTokenExpired):
		return "token_expired"
	case errors.Is(err, ErrUnsupportedAlgorithm):
		return "unsupported_algorithm"
	case errors.Is(err, ErrClaimMissing):
		return "claim_missing"
	case errors.Is(err, ErrInvalidInput):
		return "invalid_input"
	default:
		return "unauthorized"
	}
}
