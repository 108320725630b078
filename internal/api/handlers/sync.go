package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/galactus-p2p/galactus/internal/api/middleware"
	"github.com/galactus-p2p/galactus/internal/services"
	"github.com/galactus-p2p/galactus/internal/utils"
)

type SyncHandler struct {
	sync *services.SyncService
}

func NewSyncHandler(sync *services.SyncService) *SyncHandler {
	return &SyncHandler{sync: sync}
}

// POST /sync
//
// Resolves every album the caller is authorized on, with each member's
// current multiaddr. The body is optional; when it carries a multiaddr the
// caller's address is refreshed before resolving.
func (h *SyncHandler) Sync(w http.ResponseWriter, r *http.Request) {
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
		Multiaddr string `json:"multiaddr"`
	}
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&input); err != nil && !errors.Is(err, io.EOF) {
		utils.JSONResponse(w, http.StatusBadRequest, utils.Payload{
			Success: false,
			Message: "Invalid input",
		})
		return
	}

	albums, err := h.sync.Resolve(r.Context(), username, input.Multiaddr)
	if err != nil {
		serviceError(w, err)
		return
	}

	utils.JSONResponse(w, http.StatusOK, utils.Payload{
		Success: true,
		Message: "Sync resolved",
		Data:    map[string]any{"albums": albums},
	})
}
