package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/gather/server/internal/config"
	"github.com/gather/server/internal/middleware"
	"github.com/gather/server/internal/models"
	"github.com/gather/server/internal/repository"
	"github.com/gather/server/internal/services"
)

type testServer struct {
	*httptest.Server
	store *repository.Store
	hub   *services.WebSocketHub
}

// response mirrors models.Envelope with the payload left undecoded
type response struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Errors  string          `json:"errors"`
	Data    json.RawMessage `json:"data"`
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	dir := t.TempDir()
	db, err := repository.NewSQLiteDB(filepath.Join(dir, "gather.db"))
	require.NoError(t, err)
	store := repository.NewSQLStore(db, config.BackendSQLite)
	t.Cleanup(func() { store.Close(context.Background()) })

	hub := services.NewWebSocketHub()
	ctx, cancel := context.WithCancel(context.Background())
	go hub.Run(ctx)
	t.Cleanup(cancel)

	storage, err := services.NewLocalAssetStorage(filepath.Join(dir, "uploads"), "/uploads")
	require.NoError(t, err)

	tokens := services.NewTokenService("test-secret", "gather-test", time.Hour)
	users := services.NewUserService(store.Users, tokens, nil)

	router := NewRouter(Dependencies{
		DB:            store,
		Users:         users,
		Collections:   services.NewCollectionService(store, nil),
		Shares:        services.NewShareService(store, hub, nil),
		Notifications: services.NewNotificationService(store.Notifications),
		Works:         services.NewWorkService(store.Works),
		Avatars:       services.NewAvatarService(storage, users, config.Assets{}, nil),
		Hub:           hub,
		LoginLimiter:  middleware.NewIPRateLimiter(600, 100, time.Minute),
		LocalAssets:   storage.Root(),
		AssetsPrefix:  "/uploads",
	})

	srv := httptest.NewServer(router)
	t.Cleanup(srv.Close)
	return &testServer{Server: srv, store: store, hub: hub}
}

func (s *testServer) do(t *testing.T, method, path, token string, body interface{}) (int, response) {
	t.Helper()
	var payload bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&payload).Encode(body))
	}
	req, err := http.NewRequest(method, s.URL+path, &payload)
	require.NoError(t, err)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := s.Client().Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	var env response
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&env))
	return resp.StatusCode, env
}

func decodeData(t *testing.T, env response, dst interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(env.Data, dst))
}

// signup registers through the API and returns the user with a fresh token
func (s *testServer) signup(t *testing.T, username string) (*models.User, string) {
	t.Helper()
	email := username + "@example.com"
	status, env := s.do(t, http.MethodPost, "/users", "", map[string]string{
		"username": username,
		"email":    email,
		"password": "Password123!",
	})
	require.Equal(t, http.StatusCreated, status, env.Message+env.Errors)

	status, env = s.do(t, http.MethodPost, "/auth/login", "", map[string]string{
		"email":    email,
		"password": "Password123!",
	})
	require.Equal(t, http.StatusOK, status, env.Message)
	var login models.LoginResponse
	decodeData(t, env, &login)
	return login.User, login.Token
}

func (s *testServer) createCollection(t *testing.T, token, name, workType, visibility string) *models.Collection {
	t.Helper()
	status, env := s.do(t, http.MethodPost, "/collections", token, map[string]interface{}{
		"name":       name,
		"type":       workType,
		"visibility": visibility,
	})
	require.Equal(t, http.StatusCreated, status, env.Message+env.Errors)
	var c models.Collection
	decodeData(t, env, &c)
	return &c
}

func (s *testServer) work(t *testing.T, title string, workType models.WorkType) *models.Work {
	t.Helper()
	w := &models.Work{
		Title:       title,
		Author:      "Someone",
		PublishedAt: time.Date(1999, 6, 1, 0, 0, 0, 0, time.UTC),
		Type:        workType,
		Genre:       []string{"classic"},
	}
	w.Normalize()
	require.NoError(t, s.store.Works.Create(context.Background(), w))
	return w
}
