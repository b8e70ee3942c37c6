package auth

import "errors"

var (
	ErrInvalidCredentials = errors.New("Invalid employee code or PIN")
	ErrInvalidToken       = errors.New("Invalid or expired token")
)
