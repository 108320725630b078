package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/galactus-p2p/galactus/internal/services"
	"github.com/galactus-p2p/galactus/internal/utils"
)

type AuthHandler struct {
	auth *services.AuthService
}

func NewAuthHandler(auth *services.AuthService) *AuthHandler {
	return &AuthHandler{auth: auth}
}

// POST /login
//
// Authenticates an existing user or implicitly registers an unused username.
// The only route that does not require a bearer token.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		utils.JSONResponse(w, http.StatusMethodNotAllowed, utils.Payload{
			Success: false,
			Message: "Method not allowed",
		})
		return
	}

	var input struct {
		Username  string `json:"username"`
		Password  string `json:"password"`
		Multiaddr string `json:"multiaddr"`
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

	user, token, created, err := h.auth.Authenticate(r.Context(), input.Username, input.Password, input.Multiaddr)
	if err != nil {
		serviceError(w, err)
		return
	}

	message := fmt.Sprintf("%s successfully logged in", user.Username)
	if created {
		message = fmt.Sprintf("Account with username %s successfully created", user.Username)
	}

	utils.JSONResponse(w, http.StatusOK, utils.Payload{
		Success: true,
		Message: message,
		Data: map[string]string{
			"username": user.Username,
			"token":    token,
		},
	})
}
