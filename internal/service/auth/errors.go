package auth

import (
	"errors"

	"github.com/golang-jwt/jwt/v5"
)

// Token validation failures. Every one maps to 401 at the API.
var (
	ErrMissingToken     = errors.New("no bearer token presented")
	ErrInvalidToken     = errors.New("bearer token rejected")
	ErrExpiredToken     = errors.New("bearer token expired")
	ErrTokenNotYetValid = errors.New("bearer token used before its nbf time")
	ErrWrongTokenType   = errors.New("bearer token is not an access token")
)

// parseFailure narrows a jwt parse error to one of the package errors.
func parseFailure(err error) error {
	switch {
	case errors.Is(err, jwt.ErrTokenExpired):
		return ErrExpiredToken
	case errors.Is(err, jwt.ErrTokenNotValidYet):
		return ErrTokenNotYetValid
	default:
		return ErrInvalidToken
	}
}
