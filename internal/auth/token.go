package auth

import (
	"encoding/base64"
	"fmt"
	"math"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// MinKeyLength is the smallest HMAC-SHA256 key accepted, in bytes.
const MinKeyLength = 32

// VerificationTokenTTL is the lifetime of email verification tokens.
// It does not follow the configured session expiry.
const VerificationTokenTTL = 5 * time.Minute

var signingMethod = jwt.SigningMethodHS256

const maxExpirationMs = math.MaxInt64 / int64(time.Millisecond)

// TokenService issues and verifies HS256-signed tokens.
// It holds no per-call state and is safe for concurrent use.
type TokenService struct {
	key    []byte
	expiry time.Duration
	// clock is injectable for deterministic tests.
	clock func() time.Time
}

// Option configures a TokenService at construction.
type Option func(*TokenService)

// WithClock overrides the wall clock used for iat, exp and expiry checks.
func WithClock(clock func() time.Time) Option {
	return func(s *TokenService) {
		if clock != nil {
			s.clock = clock
		}
	}
}

// NewTokenService decodes the base64 secret into the signing key.
// Bad key material or an expiry outside (0, maxExpirationMs] fails here rather than at sign time.
func NewTokenService(secret string, expirationMs int64, opts ...Option) (*TokenService, error) {
	if secret == "" {
		return nil, fmt.Errorf("%w: secret is required", ErrConfiguration)
	}
	key, err := decodeSecret(secret)
	if err != nil {
		return nil, fmt.Errorf("%w: secret is not valid base64", ErrConfiguration)
	}
	if len(key) < MinKeyLength {
		return nil, fmt.Errorf("%w: secret decodes to %d bytes, need at least %d", ErrConfiguration, len(key), MinKeyLength)
	}
	if expirationMs <= 0 {
		return nil, fmt.Errorf("%w: expiration must be > 0, got %d", ErrConfiguration, expirationMs)
	}
	if expirationMs > maxExpirationMs {
		return nil, fmt.Errorf("%w: expiration %dms overflows time.Duration", ErrConfiguration, expirationMs)
	}

	s := &TokenService{
		key:    key,
		expiry: time.Duration(expirationMs) * time.Millisecond,
		clock:  time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Expiry returns the configured session token lifetime.
func (s *TokenService) Expiry() time.Duration { return s.expiry }

/* ===================== ISSUE TOKENS ===================== */

// IssueSessionToken signs a token carrying the userId claim.
func (s *TokenService) IssueSessionToken(subjectID string) (string, error) {
	if subjectID == "" {
		return "", fmt.Errorf("%w: subject id is required", ErrInvalidInput)
	}
	return s.issue(Claims{UserID: subjectID}, s.expiry)
}

// IssueVerificationToken signs a token carrying the username claim, valid for
// VerificationTokenTTL.
func (s *TokenService) IssueVerificationToken(username string) (string, error) {
	if username == "" {
		return "", fmt.Errorf("%w: username is required", ErrInvalidInput)
	}
	return s.issue(Claims{Username: username}, VerificationTokenTTL)
}

/* ===================== VERIFY TOKEN ===================== */

// DecodeAndVerify checks algorithm, signature and expiry and returns the claims.
// It is the only verification path; the extractors and IsValid call it.
func (s *TokenService) DecodeAndVerify(tokenString string) (*Claims, error) {
	var claims Claims

	parser := jwt.NewParser(
		jwt.WithExpirationRequired(),
		jwt.WithStrictDecoding(),
		jwt.WithTimeFunc(s.clock),
	)

	_, err := parser.ParseWithClaims(tokenString, &claims, func(t *jwt.Token) (any, error) {
		if t.Method != signingMethod {
			return nil, fmt.Errorf("%w: %v", ErrUnsupportedAlgorithm, t.Header["alg"])
		}
		return s.key, nil
	})
	if err != nil {
		return nil, classify(err)
	}
	return &claims, nil
}

// ExtractSubject returns the userId claim of a valid session token.
func (s *TokenService) ExtractSubject(tokenString string) (string, error) {
	claims, err := s.DecodeAndVerify(tokenString)
	if err != nil {
		return "", err
	}
	if claims.UserID == "" {
		return "", fmt.Errorf("%w: userId", ErrClaimMissing)
	}
	return claims.UserID, nil
}

// ExtractUsername returns the username claim of a valid verification token.
func (s *TokenService) ExtractUsername(tokenString string) (string, error) {
	claims, err := s.DecodeAndVerify(tokenString)
	if err != nil {
		return "", err
	}
	if claims.Username == "" {
		return "", fmt.Errorf("%w: username", ErrClaimMissing)
	}
	return claims.Username, nil
}

// IsValid reports whether DecodeAndVerify accepts the token. The failure
// reason is discarded; call DecodeAndVerify when it matters.
func (s *TokenService) IsValid(tokenString string) bool {
	_, err := s.DecodeAndVerify(tokenString)
	return err == nil
}

/* ===================== INTERNAL ISSUE ===================== */

func (s *TokenService) issue(claims Claims, ttl time.Duration) (string, error) {
	now := s.clock()
	claims.IssuedAt = jwt.NewNumericDate(now)
	// exp is whole seconds; round up so sub-second lifetimes are not expired at issuance.
	exp := now.Add(ttl)
	if t := exp.Truncate(time.Second); !t.Equal(exp) {
		exp = t.Add(time.Second)
	}
	claims.ExpiresAt = jwt.NewNumericDate(exp)

	t := jwt.NewWithClaims(signingMethod, claims)
	return t.SignedString(s.key)
}

func decodeSecret(secret string) ([]byte, error) {
	var firstErr error
	for _, enc := range []*base64.Encoding{
		base64.StdEncoding,
		base64.RawStdEncoding,
		base64.URLEncoding,
		base64.RawURLEncoding,
	} {
		b, err := enc.DecodeString(secret)
		if err == nil {
			return b, nil
		}
		if firstErr == nil {
			firstErr = err
		}
	}
	return nil, firstErr
}
