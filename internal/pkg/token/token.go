package token

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var (
	ErrTokenInvalid = errors.New("token is invalid")
	ErrNoExpiry     = errors.New("token carries no expiry claim")
)

// AccessClaims are the claims the central server puts into the access
// token handed to a store client.
type AccessClaims struct {
	StoreID   uint   `json:"store_id"`
	StoreName string `json:"store_name"`
	Account   string `json:"account"`
	jwt.RegisteredClaims
}

// ParseAccess decodes the remote access token without verifying the
// signature. The central server signs with its own secret; the store
// client only needs the claim payload (store identity and expiry).
func ParseAccess(tokenString string) (*AccessClaims, error) {
	claims := &AccessClaims{}
	parser := jwt.NewParser()
	if _, _, err := parser.ParseUnverified(tokenString, claims); err != nil {
		return nil, ErrTokenInvalid
	}
	return claims, nil
}

// ExpiryEpoch extracts the expiry of an access token as a second epoch.
func ExpiryEpoch(tokenString string) (int64, error) {
	claims, err := ParseAccess(tokenString)
	if err != nil {
		return 0, err
	}
	if claims.ExpiresAt == nil {
		return 0, ErrNoExpiry
	}
	return claims.ExpiresAt.Unix(), nil
}

// RemainingValidity returns the time until the token expires, which may
// be negative for an already expired token.
func RemainingValidity(expiresAt int64, now time.Time) time.Duration {
	return time.Unix(expiresAt, 0).Sub(now)
}
