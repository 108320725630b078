package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/galactus-p2p/galactus/internal/api/handlers"
	"github.com/galactus-p2p/galactus/internal/api/middleware"
	"github.com/galactus-p2p/galactus/internal/cache"
	"github.com/galactus-p2p/galactus/internal/repositories"
	"github.com/galactus-p2p/galactus/internal/services"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "router-test-secret"

type payload struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()

	users := repositories.NewInMemoryUserRepository()
	albums := repositories.NewInMemoryAlbumRepository()
	addresses := cache.NewMemoryAddressCache(time.Minute)

	authService := services.NewAuthService(users, addresses, testSecret, time.Hour)
	albumService := services.NewAlbumService(albums)
	syncService := services.NewSyncService(albums, users, addresses)

	router := SetupRouter(Handlers{
		Auth:   handlers.NewAuthHandler(authService),
		Sync:   handlers.NewSyncHandler(syncService),
		Albums: handlers.NewAlbumHandler(albumService),
		Users:  handlers.NewUserHandler(users),
	}, testSecret)

	srv := httptest.NewServer(router)
	t.Cleanup(srv.Close)
	return srv
}

func doJSON(t *testing.T, srv *httptest.Server, method, path, token string, body any) (*http.Response, payload) {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req, err := http.NewRequest(method, srv.URL+path, &buf)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := srv.Client().Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	var p payload
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&p))
	return resp, p
}

func login(t *testing.T, srv *httptest.Server, username, password, multiaddr string) string {
	t.Helper()
	resp, p := doJSON(t, srv, http.MethodPost, "/login", "", map[string]string{
		"username":  username,
		"password":  password,
		"multiaddr": multiaddr,
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var data struct {
		Token string `json:"token"`
	}
	require.NoError(t, json.Unmarshal(p.Data, &data))
	require.NotEmpty(t, data.Token)
	return data.Token
}

func TestLogin_ImplicitRegistrationThenLogin(t *testing.T) {
	srv := newTestServer(t)

	resp, p := doJSON(t, srv, http.MethodPost, "/login", "", map[string]string{
		"username": "alice", "password": "hunter2",
	})
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, p.Message, "created")

	resp, p = doJSON(t, srv, http.MethodPost, "/login", "", map[string]string{
		"username": "alice", "password": "hunter2",
	})
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, p.Message, "logged in")

	resp, _ = doJSON(t, srv, http.MethodPost, "/login", "", map[string]string{
		"username": "alice", "password": "wrong",
	})
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
}

func TestLogin_MissingFields(t *testing.T) {
	srv := newTestServer(t)

	resp, _ := doJSON(t, srv, http.MethodPost, "/login", "", map[string]string{
		"username": "alice",
	})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestProtectedRoutes_MissingVsInvalidToken(t *testing.T) {
	srv := newTestServer(t)

	// No credential at all.
	resp, _ := doJSON(t, srv, http.MethodPost, "/sync", "", nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	// Present but invalid credential gets a distinct status.
	resp, _ = doJSON(t, srv, http.MethodPost, "/sync", "not-a-real-token", nil)
	assert.Equal(t, middleware.StatusInvalidToken, resp.StatusCode)
}

func TestAlbumLifecycle(t *testing.T) {
	srv := newTestServer(t)

	alice := login(t, srv, "alice", "pw-a", "addr-a")
	login(t, srv, "bob", "pw-b", "addr-b")
	mallory := login(t, srv, "mallory", "pw-m", "")

	// Create.
	resp, p := doJSON(t, srv, http.MethodPost, "/add_album", alice, map[string]any{
		"albumName":       "Trip",
		"authorizedUsers": []string{"alice", "bob"},
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var created struct {
		AlbumID string `json:"albumId"`
	}
	require.NoError(t, json.Unmarshal(p.Data, &created))
	require.NotEmpty(t, created.AlbumID)

	// Duplicate name under the same owner conflicts.
	resp, _ = doJSON(t, srv, http.MethodPost, "/add_album", alice, map[string]any{
		"albumName":       "Trip",
		"authorizedUsers": []string{"carol"},
	})
	assert.Equal(t, http.StatusConflict, resp.StatusCode)

	// Replace the member list.
	resp, _ = doJSON(t, srv, http.MethodPatch, "/update_album", alice, map[string]any{
		"albumName":       "Trip",
		"authorizedUsers": []string{"alice", "bob", "mallory"},
	})
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	// Non-owner deletion is forbidden.
	resp, _ = doJSON(t, srv, http.MethodDelete, "/delete_album", mallory, map[string]string{
		"albumId": created.AlbumID,
	})
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	// Self-service leave.
	resp, _ = doJSON(t, srv, http.MethodPatch, "/leave_album", mallory, map[string]string{
		"albumId": created.AlbumID,
	})
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	// Owner deletion succeeds, then the album is gone.
	resp, _ = doJSON(t, srv, http.MethodDelete, "/delete_album", alice, map[string]string{
		"albumId": created.AlbumID,
	})
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp, _ = doJSON(t, srv, http.MethodDelete, "/delete_album", alice, map[string]string{
		"albumId": created.AlbumID,
	})
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestSyncFlow(t *testing.T) {
	srv := newTestServer(t)

	alice := login(t, srv, "alice", "pw-a", "addr-a")
	bob := login(t, srv, "bob", "pw-b", "")

	resp, _ := doJSON(t, srv, http.MethodPost, "/add_album", alice, map[string]any{
		"albumName":       "Trip",
		"authorizedUsers": []string{"alice", "bob", "ghost"},
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	// Bob syncs, announcing his current address; ghost has none and is
	// omitted.
	resp, p := doJSON(t, srv, http.MethodPost, "/sync", bob, map[string]string{
		"multiaddr": "addr-b",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var data struct {
		Albums []struct {
			AlbumID   string `json:"albumId"`
			AlbumName string `json:"albumName"`
			CreatedBy string `json:"createdBy"`
			Members   []struct {
				Username  string `json:"username"`
				Multiaddr string `json:"multiaddr"`
			} `json:"members"`
		} `json:"albums"`
	}
	require.NoError(t, json.Unmarshal(p.Data, &data))
	require.Len(t, data.Albums, 1)
	album := data.Albums[0]
	assert.Equal(t, "Trip", album.AlbumName)
	assert.Equal(t, "alice", album.CreatedBy)
	require.Len(t, album.Members, 2)
	assert.Equal(t, "alice", album.Members[0].Username)
	assert.Equal(t, "addr-a", album.Members[0].Multiaddr)
	assert.Equal(t, "bob", album.Members[1].Username)
	assert.Equal(t, "addr-b", album.Members[1].Multiaddr)

	// A user on no albums gets an empty list, not an error.
	carol := login(t, srv, "carol", "pw-c", "")
	resp, p = doJSON(t, srv, http.MethodPost, "/sync", carol, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.NoError(t, json.Unmarshal(p.Data, &data))
	assert.Empty(t, data.Albums)
}

func TestListUsers(t *testing.T) {
	srv := newTestServer(t)

	alice := login(t, srv, "alice", "pw-a", "")
	login(t, srv, "bob", "pw-b", "")

	resp, p := doJSON(t, srv, http.MethodGet, "/users", alice, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var data struct {
		Users []string `json:"users"`
	}
	require.NoError(t, json.Unmarshal(p.Data, &data))
	assert.Equal(t, []string{"alice", "bob"}, data.Users)
}
