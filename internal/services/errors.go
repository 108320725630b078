package services

import "errors"

// Sentinel errors returned by the services; handlers map them onto HTTP
// statuses at the request boundary.
var (
	ErrValidation         = errors.New("missing required fields")
	ErrInvalidCredentials = errors.New("incorrect password")
	ErrAlbumExists        = errors.New("album already exists")
	ErrAlbumNotFound      = errors.New("album not found")
	ErrForbidden          = errors.New("not the album owner")
)
