package httpapi

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// TokenSource выдает access token для заголовка Authorization
type TokenSource interface {
	// AccessToken возвращает действующий access token
	AccessToken(ctx context.Context) (string, error)
}

// StaticToken представляет неизменяемый токен (для тестов и сервисных ключей)
type StaticToken string

// AccessToken возвращает токен как есть
func (t StaticToken) AccessToken(ctx context.Context) (string, error) {
	return string(t), nil
}

// refreshLeeway определяет, за сколько до истечения exp токен считается
// протухшим и запрашивается новый
const refreshLeeway = 30 * time.Second

// RefreshingToken хранит JWT access token и прозрачно обновляет его
// через refresh callback, когда до истечения claim exp остается меньше
// refreshLeeway. Подпись токена клиент не проверяет — это дело сервера,
// клиенту от токена нужен только срок жизни.
type RefreshingToken struct {
	refresh   func(ctx context.Context) (string, error)
	parser    *jwt.Parser
	token     string
	expiresAt time.Time
	mu        sync.Mutex
}

// NewRefreshingToken создает источник токенов с автообновлением
func NewRefreshingToken(refresh func(ctx context.Context) (string, error)) *RefreshingToken {
	return &RefreshingToken{
		refresh: refresh,
		parser:  jwt.NewParser(),
	}
}

// AccessToken возвращает текущий токен, обновляя его при необходимости
func (t *RefreshingToken) AccessToken(ctx context.Context) (string, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.token != "" && time.Until(t.expiresAt) > refreshLeeway {
		return t.token, nil
	}

	token, err := t.refresh(ctx)
	if err != nil {
		return "", fmt.Errorf("token refresh failed: %w", err)
	}

	expiresAt, err := tokenExpiry(t.parser, token)
	if err != nil {
		return "", err
	}

	t.token = token
	t.expiresAt = expiresAt
	return t.token, nil
}

// tokenExpiry извлекает claim exp без проверки подписи
func tokenExpiry(parser *jwt.Parser, token string) (time.Time, error) {
	claims := jwt.MapClaims{}
	if _, _, err := parser.ParseUnverified(token, claims); err != nil {
		return time.Time{}, fmt.Errorf("failed to parse access token: %w", err)
	}

	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return time.Time{}, fmt.Errorf("access token has no exp claim: %w", err)
	}

	return exp.Time, nil
}
