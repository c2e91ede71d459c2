package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gather/server/internal/models"
)

type fakeAuth struct {
	users map[string]*models.User
	err   error
}

func (f *fakeAuth) Authenticate(_ context.Context, token string) (*models.User, error) {
	if f.err != nil {
		return nil, f.err
	}
	if u, ok := f.users[token]; ok {
		return u, nil
	}
	return nil, models.ErrInvalidToken
}

func whoAmI(w http.ResponseWriter, r *http.Request) {
	name := "anonymous"
	if u := GetUserFromContext(r.Context()); u != nil {
		name = u.Username
	}
	WriteJSON(w, http.StatusOK, "", name)
}

func call(h http.Handler, authorization string) (*httptest.ResponseRecorder, models.Envelope) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if authorization != "" {
		req.Header.Set("Authorization", authorization)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	var env models.Envelope
	json.Unmarshal(rec.Body.Bytes(), &env)
	return rec, env
}

func TestRequireAuth(t *testing.T) {
	auth := &fakeAuth{users: map[string]*models.User{"good": {Username: "alice", Role: models.RoleUser}}}
	h := RequireAuth(auth)(http.HandlerFunc(whoAmI))

	tests := []struct {
		name   string
		header string
		status int
		data   interface{}
		msg    string
	}{
		{"valid token", "Bearer good", http.StatusOK, "alice", ""},
		{"scheme is case insensitive", "bearer good", http.StatusOK, "alice", ""},
		{"missing header", "", http.StatusUnauthorized, nil, models.ErrAuthRequired.Message},
		{"wrong scheme", "Basic Zm9vOmJhcg==", http.StatusUnauthorized, nil, models.ErrInvalidToken.Message},
		{"empty bearer", "Bearer ", http.StatusUnauthorized, nil, models.ErrInvalidToken.Message},
		{"unknown token", "Bearer bad", http.StatusUnauthorized, nil, models.ErrInvalidToken.Message},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec, env := call(h, tt.header)
			assert.Equal(t, tt.status, rec.Code)
			assert.Equal(t, tt.status == http.StatusOK, env.Success)
			assert.Equal(t, tt.data, env.Data)
			assert.Equal(t, tt.msg, env.Message)
		})
	}

	t.Run("backend failure is a generic 500", func(t *testing.T) {
		h := RequireAuth(&fakeAuth{err: errors.New("db down")})(http.HandlerFunc(whoAmI))
		rec, env := call(h, "Bearer good")
		assert.Equal(t, http.StatusInternalServerError, rec.Code)
		assert.Equal(t, internalErrorMessage, env.Message)
		assert.NotContains(t, rec.Body.String(), "db down")
	})
}

func TestOptionalAuth(t *testing.T) {
	auth := &fakeAuth{users: map[string]*models.User{"good": {Username: "alice"}}}
	h := OptionalAuth(auth)(http.HandlerFunc(whoAmI))

	rec, env := call(h, "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "anonymous", env.Data)

	rec, env = call(h, "Bearer good")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "alice", env.Data)

	rec, _ = call(h, "Bearer bad")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec, _ = call(h, "Token good")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRequireRole(t *testing.T) {
	auth := &fakeAuth{users: map[string]*models.User{
		"admin": {Username: "root", Role: models.RoleAdmin},
		"mod":   {Username: "mod", Role: models.RoleModerator},
		"user":  {Username: "joe", Role: models.RoleUser},
	}}
	h := RequireAuth(auth)(RequireRole(models.RoleAdmin, models.RoleModerator)(http.HandlerFunc(whoAmI)))

	for token, status := range map[string]int{"admin": 200, "mod": 200, "user": 403} {
		t.Run(token, func(t *testing.T) {
			rec, _ := call(h, "Bearer "+token)
			assert.Equal(t, status, rec.Code)
		})
	}

	t.Run("without RequireAuth", func(t *testing.T) {
		rec, env := call(RequireRole(models.RoleAdmin)(http.HandlerFunc(whoAmI)), "")
		require.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.False(t, env.Success)
	})
}
