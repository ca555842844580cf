package utils

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// verifyClaims are the claims carried by an email-verification link.
type verifyClaims struct {
	UserID uint `json:"uid"`
	jwt.RegisteredClaims
}

// NewVerificationToken signs a short-lived token identifying the user whose
// email address is being verified.
func NewVerificationToken(userID uint, secret string, ttl time.Duration) (string, error) {
	claims := verifyClaims{
		UserID: userID,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "email-verification",
			IssuedAt:  jwt.NewNumericDate(time.Now().UTC()),
			ExpiresAt: jwt.NewNumericDate(time.Now().UTC().Add(ttl)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
}

// ParseVerificationToken validates a verification token and returns the user
// id it was minted for.
func ParseVerificationToken(token, secret string) (uint, error) {
	var claims verifyClaims
	parsed, err := jwt.ParseWithClaims(token, &claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return []byte(secret), nil
	})
	if err != nil {
		return 0, err
	}
	if !parsed.Valid || claims.Subject != "email-verification" {
		return 0, errors.New("invalid verification token")
	}
	return claims.UserID, nil
}
