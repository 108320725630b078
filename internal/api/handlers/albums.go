package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/galactus-p2p/galactus/internal/api/middleware"
	"github.com/galactus-p2p/galactus/internal/services"
	"github.com/galactus-p2p/galactus/internal/utils"
	"github.com/google/uuid"
)

type AlbumHandler struct {
	albums *services.AlbumService
}

func NewAlbumHandler(albums *services.AlbumService) *AlbumHandler {
	return &AlbumHandler{albums: albums}
}

// POST /add_album
func (h *AlbumHandler) AddAlbum(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		utils.JSONResponse(w, http.StatusMethodNotAllowed, utils.Payload{
			Success: false,
			Message: "Method not allowed",
		})
		return
	}

	username, ok := middleware.UsernameFromContext(r.Context())
	if !ok {
		utils.JSONResponse(w, http.StatusUnauthorized, utils.Payload{
			Success: false,
			Message: "Missing bearer token",
		})
		return
	}

	var input struct {
		AlbumName       string   `json:"albumName"`
		AuthorizedUsers []string `json:"authorizedUsers"`
	}
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&input); err != nil {
		utils.JSONResponse(w, http.StatusBadRequest, utils.Payload{
			Success: false,
			Message: "Invalid input",
		})
		return
	}

	album, err := h.albums.Create(r.Context(), input.AlbumName, username, input.AuthorizedUsers)
	if err != nil {
		serviceError(w, err)
		return
	}

	utils.JSONResponse(w, http.StatusOK, utils.Payload{
		Success: true,
		Message: "Album created",
		Data:    map[string]string{"albumId": album.ID.String()},
	})
}

// PATCH /update_album
func (h *AlbumHandler) UpdateAlbum(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPatch {
		utils.JSONResponse(w, http.StatusMethodNotAllowed, utils.Payload{
			Success: false,
			Message: "Method not allowed",
		})
		return
	}

	username, ok := middleware.UsernameFromContext(r.Context())
	if !ok {
		utils.JSONResponse(w, http.StatusUnauthorized, utils.Payload{
			Success: false,
			Message: "Missing bearer token",
		})
		return
	}

	var input struct {
		AlbumName       string   `json:"albumName"`
		AuthorizedUsers []string `json:"authorizedUsers"`
	}
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&input); err != nil {
		utils.JSONResponse(w, http.StatusBadRequest, utils.Payload{
			Success: false,
			Message: "Invalid input",
		})
		return
	}

	if err := h.albums.Update(r.Context(), input.AlbumName, username, input.AuthorizedUsers); err != nil {
		serviceError(w, err)
		return
	}

	utils.JSONResponse(w, http.StatusOK, utils.Payload{
		Success: true,
		Message: "Album updated",
	})
}

// PATCH /leave_album
func (h *AlbumHandler) LeaveAlbum(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPatch {
		utils.JSONResponse(w, http.StatusMethodNotAllowed, utils.Payload{
			Success: false,
			Message: "Method not allowed",
		})
		return
	}

	username, albumID, ok := h.identityAndAlbumID(w, r)
	if !ok {
		return
	}

	if err := h.albums.Leave(r.Context(), albumID, username); err != nil {
		serviceError(w, err)
		return
	}

	utils.JSONResponse(w, http.StatusOK, utils.Payload{
		Success: true,
		Message: "Left album",
	})
}

// DELETE /delete_album
func (h *AlbumHandler) DeleteAlbum(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodDelete {
		utils.JSONResponse(w, http.StatusMethodNotAllowed, utils.Payload{
			Success: false,
			Message: "Method not allowed",
		})
		return
	}

	username, albumID, ok := h.identityAndAlbumID(w, r)
	if !ok {
		return
	}

	if err := h.albums.Delete(r.Context(), albumID, username); err != nil {
		serviceError(w, err)
		return
	}

	utils.JSONResponse(w, http.StatusOK, utils.Payload{
		Success: true,
		Message: "Album deleted",
	})
}

// identityAndAlbumID pulls the caller from the request context and the album
// id from the body, writing the error response itself when either is missing.
func (h *AlbumHandler) identityAndAlbumID(w http.ResponseWriter, r *http.Request) (string, uuid.UUID, bool) {
	username, ok := middleware.UsernameFromContext(r.Context())
	if !ok {
		utils.JSONResponse(w, http.StatusUnauthorized, utils.Payload{
			Success: false,
			Message: "Missing bearer token",
		})
		return "", uuid.Nil, false
	}

	var input struct {
		AlbumID string `json:"albumId"`
	}
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&input); err != nil {
		utils.JSONResponse(w, http.StatusBadRequest, utils.Payload{
			Success: false,
			Message: "Invalid input",
		})
		return "", uuid.Nil, false
	}

	albumID, err := uuid.Parse(input.AlbumID)
	if err != nil {
		utils.JSONResponse(w, http.StatusBadRequest, utils.Payload{
			Success: false,
			Message: "Invalid album id",
		})
		return "", uuid.Nil, false
	}
	return username, albumID, true
}
