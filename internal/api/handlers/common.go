package handlers

import (
	"errors"
	"net/http"

	"github.com/galactus-p2p/galactus/internal/services"
	"github.com/galactus-p2p/galactus/internal/utils"
)

// serviceError maps the service error taxonomy onto HTTP statuses. Anything
// outside the taxonomy is a storage or internal failure and stays opaque.
func serviceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, services.ErrValidation):
		utils.JSONResponse(w, http.StatusBadRequest, utils.Payload{
			Success: false,
			Message: "Missing required fields",
		})
	case errors.Is(err, services.ErrInvalidCredentials):
		utils.JSONResponse(w, http.StatusForbidden, utils.Payload{
			Success: false,
			Message: "Incorrect password",
		})
	case errors.Is(err, services.ErrAlbumExists):
		utils.JSONResponse(w, http.StatusConflict, utils.Payload{
			Success: false,
			Message: "Album already exists",
		})
	case errors.Is(err, services.ErrAlbumNotFound):
		utils.JSONResponse(w, http.StatusNotFound, utils.Payload{
			Success: false,
			Message: "Album not found",
		})
	case errors.Is(err, services.ErrForbidden):
		utils.JSONResponse(w, http.StatusForbidden, utils.Payload{
			Success: false,
			Message: "Only the album owner may do that",
		})
	default:
		utils.JSONResponse(w, http.StatusInternalServerError, utils.Payload{
			Success: false,
			Message: "Internal server error",
		})
	}
}
