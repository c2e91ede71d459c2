package client

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gather/server/internal/models"
)

func writeEnvelope(w http.ResponseWriter, status int, env models.Envelope) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(env)
}

func fakeAPI(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()

	mux.HandleFunc("/auth/login", func(w http.ResponseWriter, r *http.Request) {
		var req models.LoginRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		if req.Password != "Password123!" {
			writeEnvelope(w, http.StatusUnauthorized, models.Envelope{Message: models.ErrInvalidCredentials.Message})
			return
		}
		writeEnvelope(w, http.StatusOK, models.Envelope{Success: true, Data: models.LoginResponse{
			Token: "tok",
			User:  &models.User{ID: "u1", Username: "alice", Email: req.Email},
		}})
	})

	mux.HandleFunc("/auth/me", func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer tok" {
			writeEnvelope(w, http.StatusUnauthorized, models.Envelope{Message: models.ErrInvalidToken.Message})
			return
		}
		writeEnvelope(w, http.StatusOK, models.Envelope{Success: true, Data: models.User{ID: "u1", Username: "alice"}})
	})

	mux.HandleFunc("/collections/c1/works", func(w http.ResponseWriter, r *http.Request) {
		writeEnvelope(w, http.StatusUnprocessableEntity, models.Envelope{
			Message: "Aucune œuvre n'a pu être ajoutée",
			Data:    models.AddWorksResult{InvalidIDs: []string{"bad"}},
		})
	})

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func TestClientLogin(t *testing.T) {
	srv := fakeAPI(t)
	store := NewAuthStore()
	var states []AuthState
	store.Subscribe(func(s AuthState) { states = append(states, s) })
	c := New(srv.URL, store, srv.Client())
	ctx := context.Background()

	user, err := c.Login(ctx, "a@x.com", "Password123!")
	require.NoError(t, err)
	assert.Equal(t, "alice", user.Username)
	assert.Equal(t, "tok", store.Current().Token)

	me, err := c.Me(ctx)
	require.NoError(t, err)
	assert.Equal(t, "u1", me.ID)

	c.Logout()
	assert.False(t, store.Current().Authenticated())
	require.Len(t, states, 3)
	assert.True(t, states[0].Authenticated())
	assert.False(t, states[2].Authenticated())
}

func TestClientErrors(t *testing.T) {
	srv := fakeAPI(t)
	ctx := context.Background()

	t.Run("bad credentials", func(t *testing.T) {
		c := New(srv.URL, nil, srv.Client())
		_, err := c.Login(ctx, "a@x.com", "nope")
		var apiErr *APIError
		require.ErrorAs(t, err, &apiErr)
		assert.Equal(t, http.StatusUnauthorized, apiErr.Status)
		assert.Equal(t, models.ErrInvalidCredentials.Message, apiErr.Message)
		assert.False(t, c.Auth().Current().Authenticated())
	})

	t.Run("rejected token clears session", func(t *testing.T) {
		store := NewAuthStore()
		store.Set("stale", &models.User{ID: "u1"})
		c := New(srv.URL, store, srv.Client())

		_, err := c.Me(ctx)
		require.Error(t, err)
		assert.False(t, store.Current().Authenticated())
	})

	t.Run("unprocessable add works is a result", func(t *testing.T) {
		c := New(srv.URL, nil, srv.Client())
		result, status, err := c.AddWorks(ctx, "c1", []string{"bad"})
		require.NoError(t, err)
		assert.Equal(t, http.StatusUnprocessableEntity, status)
		assert.Equal(t, []string{"bad"}, result.InvalidIDs)
	})
}
