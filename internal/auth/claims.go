package auth

import "github.com/golang-jwt/jwt/v5"

// Claims is the decoded payload of a token issued by TokenService.
// Exactly one subject claim is set: UserID for session tokens, Username for
// email verification tokens. The keys are kept distinct so that a token of the
// wrong kind is rejected by the extractor of the other kind.
type Claims struct {
	UserID   string `json:"userId,omitempty"`
	Username string `json:"username,omitempty"`

	// Only iat and exp are populated; both are NumericDate seconds.
	jwt.RegisteredClaims
}
