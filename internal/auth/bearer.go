package auth

import "strings"

const bearerPrefix = "Bearer "

// StripBearerPrefix returns the credential after an exact "Bearer " prefix.
// The prefix is case-sensitive and the remainder is returned untrimmed.
func StripBearerPrefix(raw string) (string, error) {
	if raw == "" || !strings.HasPrefix(raw, bearerPrefix) {
		return "", ErrMalformedCredential
	}
	return raw[len(bearerPrefix):], nil
}
