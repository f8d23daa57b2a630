package authservice

import "errors"

// Sentinels surfaced by the auth service. The middleware maps all of them
// except ErrGenerateToken to 401.
var (
	ErrInvalidToken  = errors.New("bearer token rejected")
	ErrExpiredToken  = errors.New("bearer token expired")
	ErrMissingToken  = errors.New("no bearer token")
	ErrUnknownUser   = errors.New("token subject is not a club member")
	ErrGenerateToken = errors.New("could not sign token")
)
