package api

import (
	"fmt"
	"log"
	"net/http"

	"github.com/galactus-p2p/galactus/internal/api/handlers"
	"github.com/galactus-p2p/galactus/internal/api/middleware"
	"github.com/galactus-p2p/galactus/internal/config"
	"github.com/rs/cors"
)

// Handlers bundles everything the router mounts, so tests can assemble a
// router around in-memory services.
type Handlers struct {
	Auth   *handlers.AuthHandler
	Sync   *handlers.SyncHandler
	Albums *handlers.AlbumHandler
	Users  *handlers.UserHandler
}

func SetupRouter(h Handlers, jwtSecret string) http.Handler {
	mainMux := http.NewServeMux()
	c := cors.New(config.Envs.CorsConfig)

	// ---------- PUBLIC ROUTES ----------
	mainMux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		fmt.Fprint(w, "OK")
	})

	mainMux.HandleFunc("/login", h.Auth.Login)

	// ---------- PROTECTED ROUTES ----------
	protectedMux := http.NewServeMux()
	protectedMux.HandleFunc("/sync", h.Sync.Sync)
	protectedMux.HandleFunc("/add_album", h.Albums.AddAlbum)
	protectedMux.HandleFunc("/update_album", h.Albums.UpdateAlbum)
	protectedMux.HandleFunc("/leave_album", h.Albums.LeaveAlbum)
	protectedMux.HandleFunc("/delete_album", h.Albums.DeleteAlbum)
	protectedMux.HandleFunc("/users", h.Users.ListUsers)

	mainMux.Handle("/", middleware.AuthMiddleware(jwtSecret)(protectedMux))

	log.Println("Router initialized")
	handler := c.Handler(mainMux)
	handler = middleware.Logger(handler)
	return handler
}
