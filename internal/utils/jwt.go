package utils

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// tokens issued by the hosted backend are verified server-side; the client
// only ever inspects claims, so parsing is deliberately unverified here.

// UserIDFromToken extracts the subject (user id) claim from an access token
// without verifying the signature.
//
// Returns an error if the token cannot be parsed or carries no subject.
func UserIDFromToken(tokenString string) (string, error) {
	claims, err := parseClaims(tokenString)
	if err != nil {
		return "", err
	}

	sub, err := claims.GetSubject()
	if err != nil {
		return "", err
	}
	if sub == "" {
		return "", errors.New("token has no subject claim")
	}

	return sub, nil
}

// TokenExpired reports whether the access token's exp claim lies in the
// past. A token that cannot be parsed or carries no exp claim counts as
// expired — the shared-auth bridge treats both the same as "no credential".
func TokenExpired(tokenString string) bool {
	claims, err := parseClaims(tokenString)
	if err != nil {
		return true
	}

	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return true
	}

	return exp.Before(time.Now())
}

func parseClaims(tokenString string) (jwt.MapClaims, error) {
	token, _, err := jwt.NewParser().ParseUnverified(tokenString, jwt.MapClaims{})
	if err != nil {
		return nil, err
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, errors.New("invalid token claims")
	}
	return claims, nil
}
