package handlers

import (
	"bytes"
	"encoding/json"
	"image"
	"image/color"
	"image/png"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gather/server/internal/middleware"
	"github.com/gather/server/internal/models"
	"github.com/gather/server/internal/services"
)

func TestHealthAndVersion(t *testing.T) {
	srv := newTestServer(t)

	status, env := srv.do(t, http.MethodGet, "/health", "", nil)
	require.Equal(t, http.StatusOK, status)
	var health models.HealthResponse
	decodeData(t, env, &health)
	assert.Equal(t, "healthy", health.Status)
	assert.Equal(t, "up", health.Database)

	status, env = srv.do(t, http.MethodGet, "/version", "", nil)
	require.Equal(t, http.StatusOK, status)
	var version VersionResponse
	decodeData(t, env, &version)
	assert.Equal(t, Version, version.Version)
}

func TestUnknownRoute(t *testing.T) {
	srv := newTestServer(t)
	status, env := srv.do(t, http.MethodGet, "/nowhere", "", nil)
	assert.Equal(t, http.StatusNotFound, status)
	assert.False(t, env.Success)
}

func TestRequestValidation(t *testing.T) {
	srv := newTestServer(t)
	_, token := srv.signup(t, "alice")

	tests := []struct {
		name   string
		path   string
		token  string
		body   interface{}
		errors string
	}{
		{
			name:   "unknown field",
			path:   "/collections",
			token:  token,
			body:   map[string]string{"name": "Books", "type": "book", "color": "red"},
			errors: "color",
		},
		{
			name:   "name too short",
			path:   "/collections",
			token:  token,
			body:   map[string]string{"name": "ab", "type": "book"},
			errors: "name: min=3",
		},
		{
			name:   "bad type",
			path:   "/collections",
			token:  token,
			body:   map[string]string{"name": "Books", "type": "poem"},
			errors: "type: oneof",
		},
		{
			name:   "weak password",
			path:   "/users",
			body:   map[string]string{"username": "bob", "email": "b@x.com", "password": "password"},
			errors: "password: password",
		},
		{
			name:   "bad username",
			path:   "/users",
			body:   map[string]string{"username": "bob smith", "email": "b@x.com", "password": "Password123!"},
			errors: "username: username",
		},
		{
			name:   "bad email",
			path:   "/auth/login",
			body:   map[string]string{"email": "nope", "password": "x"},
			errors: "email: email",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, env := srv.do(t, http.MethodPost, tt.path, tt.token, tt.body)
			assert.Equal(t, http.StatusBadRequest, status)
			assert.False(t, env.Success)
			assert.Contains(t, env.Errors+env.Message, tt.errors)
		})
	}

	t.Run("duplicate email", func(t *testing.T) {
		status, env := srv.do(t, http.MethodPost, "/users", "", map[string]string{
			"username": "alice2",
			"email":    "alice@example.com",
			"password": "Password123!",
		})
		assert.Equal(t, http.StatusBadRequest, status)
		assert.Equal(t, models.ErrDuplicateEmail.Message, env.Message)
	})
}

func TestCollectionNameTrimmedBeforeLengthCheck(t *testing.T) {
	srv := newTestServer(t)
	_, token := srv.signup(t, "alice")
	col := srv.createCollection(t, token, "Books", "book", "private")

	for _, name := range []string{"     ", "  ab  ", "\t\n a \n"} {
		t.Run("create "+strconv.Quote(name), func(t *testing.T) {
			status, env := srv.do(t, http.MethodPost, "/collections", token, map[string]string{"name": name, "type": "book"})
			assert.Equal(t, http.StatusBadRequest, status)
			assert.Equal(t, models.ErrInvalidCollectionName.Message, env.Message)
		})
		t.Run("update "+strconv.Quote(name), func(t *testing.T) {
			status, env := srv.do(t, http.MethodPatch, "/collections/"+col.ID, token, map[string]string{"name": name})
			assert.Equal(t, http.StatusBadRequest, status)
			assert.Equal(t, models.ErrInvalidCollectionName.Message, env.Message)
		})
	}

	t.Run("padded valid name is stored trimmed", func(t *testing.T) {
		status, env := srv.do(t, http.MethodPost, "/collections", token, map[string]string{"name": "  Films  ", "type": "movie"})
		require.Equal(t, http.StatusCreated, status, env.Message+env.Errors)
		var created models.Collection
		decodeData(t, env, &created)
		assert.Equal(t, "Films", created.Name)
	})

	t.Run("name unchanged after rejected update", func(t *testing.T) {
		status, env := srv.do(t, http.MethodGet, "/collections/"+col.ID, token, nil)
		require.Equal(t, http.StatusOK, status)
		var got models.Collection
		decodeData(t, env, &got)
		assert.Equal(t, "Books", got.Name)
	})
}

func TestUserAdministration(t *testing.T) {
	srv := newTestServer(t)
	alice, aliceToken := srv.signup(t, "alice")
	bob, _ := srv.signup(t, "bob")

	status, _ := srv.do(t, http.MethodGet, "/users", aliceToken, nil)
	assert.Equal(t, http.StatusForbidden, status)

	status, env := srv.do(t, http.MethodGet, "/users/"+bob.ID, aliceToken, nil)
	require.Equal(t, http.StatusOK, status)
	var got models.User
	decodeData(t, env, &got)
	assert.Equal(t, "bob", got.Username)
	assert.NotContains(t, string(env.Data), "password")

	status, _ = srv.do(t, http.MethodPatch, "/users/"+bob.ID+"/role", aliceToken, map[string]string{"role": "admin"})
	assert.Equal(t, http.StatusForbidden, status)

	status, env = srv.do(t, http.MethodPatch, "/users/me", aliceToken, map[string]string{"username": "alicia"})
	require.Equal(t, http.StatusOK, status)
	decodeData(t, env, &got)
	assert.Equal(t, alice.ID, got.ID)
	assert.Equal(t, "alicia", got.Username)
}

func TestWorksCatalog(t *testing.T) {
	srv := newTestServer(t)
	dune := srv.work(t, "Dune", models.WorkTypeBook)
	srv.work(t, "Alien", models.WorkTypeMovie)

	status, env := srv.do(t, http.MethodGet, "/works?type=book", "", nil)
	require.Equal(t, http.StatusOK, status)
	var list models.WorkListResponse
	decodeData(t, env, &list)
	require.Equal(t, 1, list.Count)
	assert.Equal(t, dune.ID, list.Works[0].ID)

	status, env = srv.do(t, http.MethodGet, "/works?search=ALI&year=1999", "", nil)
	require.Equal(t, http.StatusOK, status)
	decodeData(t, env, &list)
	require.Equal(t, 1, list.Count)
	assert.Equal(t, "Alien", list.Works[0].Title)

	status, env = srv.do(t, http.MethodGet, "/works?limit=0", "", nil)
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, models.ErrInvalidLimit.Message, env.Message)

	status, _ = srv.do(t, http.MethodGet, "/works/"+dune.ID, "", nil)
	assert.Equal(t, http.StatusOK, status)

	status, env = srv.do(t, http.MethodGet, "/works/"+models.NewID(), "", nil)
	assert.Equal(t, http.StatusNotFound, status)
	assert.Equal(t, models.ErrWorkNotFound.Message, env.Message)
}

func pngBody(t *testing.T) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 32, 32))
	for x := 0; x < 32; x++ {
		for y := 0; y < 32; y++ {
			img.Set(x, y, color.RGBA{R: 200, A: 255})
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func TestAvatarUpload(t *testing.T) {
	srv := newTestServer(t)
	_, token := srv.signup(t, "alice")

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	part, err := mw.CreateFormFile("avatar", "me.png")
	require.NoError(t, err)
	_, err = part.Write(pngBody(t))
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req, err := http.NewRequest(http.MethodPost, srv.URL+"/upload/avatar", &body)
	require.NoError(t, err)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+token)
	resp, err := srv.Client().Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var env response
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&env))
	var avatar models.AvatarResponse
	decodeData(t, env, &avatar)
	require.True(t, strings.HasPrefix(avatar.ProfilePicture, "/uploads/avatars/"))

	served, err := srv.Client().Get(srv.URL + avatar.ProfilePicture)
	require.NoError(t, err)
	defer served.Body.Close()
	assert.Equal(t, http.StatusOK, served.StatusCode)

	t.Run("missing file", func(t *testing.T) {
		var empty bytes.Buffer
		mw := multipart.NewWriter(&empty)
		require.NoError(t, mw.WriteField("note", "nothing"))
		require.NoError(t, mw.Close())
		req, err := http.NewRequest(http.MethodPost, srv.URL+"/upload/avatar", &empty)
		require.NoError(t, err)
		req.Header.Set("Content-Type", mw.FormDataContentType())
		req.Header.Set("Authorization", "Bearer "+token)
		resp, err := srv.Client().Do(req)
		require.NoError(t, err)
		defer resp.Body.Close()
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})

	t.Run("remove", func(t *testing.T) {
		status, env := srv.do(t, http.MethodDelete, "/upload/avatar", token, nil)
		require.Equal(t, http.StatusOK, status)
		var user models.User
		decodeData(t, env, &user)
		assert.Nil(t, user.ProfilePicture)
	})
}

func TestWebSocketNotification(t *testing.T) {
	srv := newTestServer(t)
	_, aliceToken := srv.signup(t, "alice")
	bob, bobToken := srv.signup(t, "bob")
	c := srv.createCollection(t, aliceToken, "Games", "game", "shared")

	wsURL := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws"

	t.Run("rejects missing token", func(t *testing.T) {
		_, resp, err := websocket.DefaultDialer.Dial(wsURL, nil)
		require.Error(t, err)
		require.NotNil(t, resp)
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	})

	conn, _, err := websocket.DefaultDialer.Dial(wsURL+"?token="+bobToken, nil)
	require.NoError(t, err)
	defer conn.Close()

	require.Eventually(t, func() bool {
		return srv.hub.ConnectionCount(bob.ID) == 1
	}, 2*time.Second, 10*time.Millisecond)

	status, _ := srv.do(t, http.MethodPost, "/shares", aliceToken, map[string]string{
		"collectionId": c.ID,
		"guestId":      bob.ID,
	})
	require.Equal(t, http.StatusCreated, status)

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	var msg struct {
		Type    string              `json:"type"`
		Payload models.Notification `json:"payload"`
	}
	require.NoError(t, conn.ReadJSON(&msg))
	assert.Equal(t, services.WSTypeNotification, msg.Type)
	assert.Equal(t, models.NotificationShare, msg.Payload.Type)
	assert.Equal(t, bob.ID, msg.Payload.UserID)
}

func TestLoginRateLimited(t *testing.T) {
	srv := newTestServer(t)
	router := NewRouter(Dependencies{
		DB:           srv.store,
		Users:        services.NewUserService(srv.store.Users, services.NewTokenService("s", "i", time.Hour), nil),
		Hub:          srv.hub,
		LoginLimiter: middleware.NewIPRateLimiter(1, 1, time.Minute),
	})

	login := func() int {
		body := strings.NewReader(`{"email":"ghost@example.com","password":"whatever"}`)
		req := httptest.NewRequest(http.MethodPost, "/auth/login", body)
		req.RemoteAddr = "203.0.113.9:5000"
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		return rec.Code
	}

	assert.Equal(t, http.StatusUnauthorized, login())
	assert.Equal(t, http.StatusTooManyRequests, login())
}
