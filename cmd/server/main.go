package main

import (
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/galactus-p2p/galactus/internal/api"
	"github.com/galactus-p2p/galactus/internal/api/handlers"
	"github.com/galactus-p2p/galactus/internal/cache"
	"github.com/galactus-p2p/galactus/internal/config"
	"github.com/galactus-p2p/galactus/internal/repositories"
	"github.com/galactus-p2p/galactus/internal/services"
)

func main() {
	// Connect to database
	repositories.ConnectDatabase()

	// The address cache is Redis-backed when configured, process-local
	// otherwise. Addresses are advisory, so losing the cache on restart
	// only costs a store lookup.
	var addresses cache.AddressCache
	if config.Envs.Redis.Addr != "" {
		repositories.ConnectRedis()
		addresses = cache.NewRedisAddressCache(repositories.Rdb, config.Envs.AddressCacheTTL)
	} else {
		log.Println("REDIS_ADDR not set, using in-memory address cache")
		addresses = cache.NewMemoryAddressCache(config.Envs.AddressCacheTTL)
	}

	users := repositories.NewGormUserRepository(repositories.DB)
	albums := repositories.NewGormAlbumRepository(repositories.DB)

	authService := services.NewAuthService(users, addresses, config.Envs.JWTSecret, config.Envs.TokenTTL)
	albumService := services.NewAlbumService(albums)
	syncService := services.NewSyncService(albums, users, addresses)

	mux := api.SetupRouter(api.Handlers{
		Auth:   handlers.NewAuthHandler(authService),
		Sync:   handlers.NewSyncHandler(syncService),
		Albums: handlers.NewAlbumHandler(albumService),
		Users:  handlers.NewUserHandler(users),
	}, config.Envs.JWTSecret)

	server := &http.Server{
		Addr:    fmt.Sprintf(":%s", config.Envs.Port),
		Handler: mux,
		// Timeouts prevent resource exhaustion from slow clients
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	log.Printf("Galactus running on port %s", config.Envs.Port)

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatalf("Could not listen on port %s: %v", config.Envs.Port, err)
	}
}
