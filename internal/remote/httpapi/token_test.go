package httpapi

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func signedToken(t *testing.T, expiresIn time.Duration) string {
	t.Helper()

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": "user-1",
		"exp": time.Now().Add(expiresIn).Unix(),
	})
	signed, err := token.SignedString([]byte("test-secret"))
	require.NoError(t, err)
	return signed
}

func TestStaticToken(t *testing.T) {
	token, err := StaticToken("abc").AccessToken(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "abc", token)
}

func TestRefreshingToken_CachesUntilExpiry(t *testing.T) {
	refreshCalls := 0
	fresh := signedToken(t, time.Hour)

	source := NewRefreshingToken(func(ctx context.Context) (string, error) {
		refreshCalls++
		return fresh, nil
	})

	for i := 0; i < 3; i++ {
		token, err := source.AccessToken(context.Background())
		require.NoError(t, err)
		assert.Equal(t, fresh, token)
	}

	// Токен живет час — refresh вызывается однократно
	assert.Equal(t, 1, refreshCalls)
}

func TestRefreshingToken_RefreshesExpired(t *testing.T) {
	tokens := []string{
		signedToken(t, time.Second), // внутри refreshLeeway — сразу протух
		signedToken(t, time.Hour),
	}
	refreshCalls := 0

	source := NewRefreshingToken(func(ctx context.Context) (string, error) {
		token := tokens[refreshCalls]
		refreshCalls++
		return token, nil
	})

	first, err := source.AccessToken(context.Background())
	require.NoError(t, err)
	assert.Equal(t, tokens[0], first)

	second, err := source.AccessToken(context.Background())
	require.NoError(t, err)
	assert.Equal(t, tokens[1], second)
	assert.Equal(t, 2, refreshCalls)
}

func TestRefreshingToken_RefreshError(t *testing.T) {
	source := NewRefreshingToken(func(ctx context.Context) (string, error) {
		return "", errors.New("server down")
	})

	_, err := source.AccessToken(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "token refresh failed")
}

func TestRefreshingToken_RejectsTokenWithoutExp(t *testing.T) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{"sub": "user-1"})
	signed, err := token.SignedString([]byte("test-secret"))
	require.NoError(t, err)

	source := NewRefreshingToken(func(ctx context.Context) (string, error) {
		return signed, nil
	})

	_, err = source.AccessToken(context.Background())
	require.Error(t, err)
}
