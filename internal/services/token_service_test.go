package services

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gather/server/internal/models"
)

func TestTokenService(t *testing.T) {
	user := &models.User{ID: models.NewID(), Role: models.RoleModerator}

	t.Run("issued token parses back to the user", func(t *testing.T) {
		svc := NewTokenService("secret", "gather", time.Hour)
		token, expiresAt, err := svc.Issue(user)
		require.NoError(t, err)
		assert.WithinDuration(t, time.Now().Add(time.Hour), expiresAt, 5*time.Second)

		claims, err := svc.Parse(token)
		require.NoError(t, err)
		assert.Equal(t, user.ID, claims.Subject)
		assert.Equal(t, models.RoleModerator, claims.Role)
		assert.Equal(t, "gather", claims.Issuer)
		assert.NotEmpty(t, claims.ID)
	})

	t.Run("defaults ttl to a day", func(t *testing.T) {
		assert.Equal(t, 24*time.Hour, NewTokenService("secret", "", 0).TTL())
	})

	t.Run("rejects expired tokens", func(t *testing.T) {
		svc := NewTokenService("secret", "gather", time.Minute)
		svc.now = func() time.Time { return time.Now().Add(-time.Hour) }
		token, _, err := svc.Issue(user)
		require.NoError(t, err)

		_, err = svc.Parse(token)
		assert.ErrorIs(t, err, models.ErrInvalidToken)
	})

	t.Run("rejects another secret", func(t *testing.T) {
		token, _, err := NewTokenService("one", "gather", time.Hour).Issue(user)
		require.NoError(t, err)

		_, err = NewTokenService("two", "gather", time.Hour).Parse(token)
		assert.ErrorIs(t, err, models.ErrInvalidToken)
	})

	t.Run("rejects another issuer", func(t *testing.T) {
		token, _, err := NewTokenService("secret", "someone-else", time.Hour).Issue(user)
		require.NoError(t, err)

		_, err = NewTokenService("secret", "gather", time.Hour).Parse(token)
		assert.ErrorIs(t, err, models.ErrInvalidToken)
	})

	t.Run("rejects unsigned tokens", func(t *testing.T) {
		claims := jwt.RegisteredClaims{Subject: user.ID, ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour))}
		token, err := jwt.NewWithClaims(jwt.SigningMethodNone, claims).SignedString(jwt.UnsafeAllowNoneSignatureType)
		require.NoError(t, err)

		_, err = NewTokenService("secret", "", time.Hour).Parse(token)
		assert.ErrorIs(t, err, models.ErrInvalidToken)
	})

	t.Run("rejects garbage", func(t *testing.T) {
		_, err := NewTokenService("secret", "", time.Hour).Parse("not.a.token")
		assert.ErrorIs(t, err, models.ErrInvalidToken)
	})
}
