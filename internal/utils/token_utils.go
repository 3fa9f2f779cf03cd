package utils

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// ErrMissingSubject is returned for a correctly signed token that names no actor.
var ErrMissingSubject = errors.New("token has no subject")

// GenerateJWT signs an HS256 access token for userID valid from now for ttl.
func GenerateJWT(userID string, secret string, ttl time.Duration, issuer string) (string, error) {
	return SignAccessToken(userID, secret, issuer, time.Now(), ttl)
}

// SignAccessToken signs an HS256 access token issued at issuedAt.
func SignAccessToken(subject, secret, issuer string, issuedAt time.Time, ttl time.Duration) (string, error) {
	claims := jwt.RegisteredClaims{
		Issuer:    issuer,
		Subject:   subject,
		IssuedAt:  jwt.NewNumericDate(issuedAt),
		NotBefore: jwt.NewNumericDate(issuedAt),
		ExpiresAt: jwt.NewNumericDate(issuedAt.Add(ttl)),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
}

// ParseAndValidateJWT verifies the signature, expiry and subject of an access
// token and returns its claims. Only HS256 is accepted.
func ParseAndValidateJWT(tokenString string, secret string) (*jwt.RegisteredClaims, error) {
	claims := &jwt.RegisteredClaims{}
	_, err := jwt.ParseWithClaims(tokenString, claims,
		func(*jwt.Token) (any, error) { return []byte(secret), nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		return nil, err
	}
	if claims.Subject == "" {
		return nil, ErrMissingSubject
	}
	return claims, nil
}
