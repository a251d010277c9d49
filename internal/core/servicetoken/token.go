// Package servicetoken issues and validates service-to-service JWT tokens.
// The gateway signs a short-lived token per request; the inventory service
// requires it on mutating endpoints.
package servicetoken

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// DefaultTTL is the lifetime of an issued service token.
const DefaultTTL = 5 * time.Minute

// Claims carries the calling service identity.
type Claims struct {
	Service string `json:"service"`
	jwt.RegisteredClaims
}

// Issuer signs service tokens.
type Issuer struct {
	secret  []byte
	service string
	ttl     time.Duration
	now     func() time.Time
}

// NewIssuer creates an issuer for the named service.
func NewIssuer(secret, service string) *Issuer {
	return &Issuer{
		secret:  []byte(secret),
		service: service,
		ttl:     DefaultTTL,
		now:     time.Now,
	}
}

// Issue returns a signed token identifying the service.
func (i *Issuer) Issue() (string, error) {
	now := i.now()
	claims := Claims{
		Service: i.service,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    i.service,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(i.ttl)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(i.secret)
	if err != nil {
		return "", fmt.Errorf("sign service token: %w", err)
	}
	return signed, nil
}

// Validator verifies service tokens.
type Validator struct {
	secret []byte
}

// NewValidator creates a validator sharing the issuer's secret.
func NewValidator(secret string) *Validator {
	return &Validator{secret: []byte(secret)}
}

// ValidateToken parses and verifies a token, returning the service identity.
func (v *Validator) ValidateToken(tokenString string) (string, error) {
	var claims Claims
	token, err := jwt.ParseWithClaims(tokenString, &claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return v.secret, nil
	})
	if err != nil {
		return "", fmt.Errorf("parse service token: %w", err)
	}
	if !token.Valid {
		return "", fmt.Errorf("invalid service token")
	}
	if claims.Service == "" {
		return "", fmt.Errorf("service token missing service claim")
	}
	return claims.Service, nil
}
