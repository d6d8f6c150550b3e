// Package httpapi реализует remote.Collection поверх JSON REST API.
package httpapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/iudanet/livesync/internal/models"
	"github.com/iudanet/livesync/internal/remote"
	"github.com/iudanet/livesync/pkg/api"
)

// Client представляет HTTP клиент одной коллекции ресурсов.
// Эндпоинты: GET/POST {baseURL}/{collection}, PATCH/DELETE {baseURL}/{collection}/{id}.
type Client struct {
	httpClient *http.Client
	tokens     TokenSource
	baseURL    string
	collection string
}

// Compile-time check that Client implements remote.Collection
var _ remote.Collection = (*Client)(nil)

// NewClient создает новый API клиент коллекции.
// tokens может быть nil — тогда запросы идут без авторизации.
func NewClient(baseURL, collection string, tokens TokenSource) *Client {
	return &Client{
		baseURL:    baseURL,
		collection: collection,
		tokens:     tokens,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
			// Настройка обработки редиректов
			CheckRedirect: func(req *http.Request, via []*http.Request) error {
				// Ограничиваем количество редиректов
				if len(via) >= 10 {
					return fmt.Errorf("stopped after 10 redirects")
				}
				// Копируем заголовок Authorization при редиректе
				if len(via) > 0 && via[0].Header.Get("Authorization") != "" {
					req.Header.Set("Authorization", via[0].Header.Get("Authorization"))
				}
				return nil
			},
		},
	}
}

// List возвращает полный список ресурсов коллекции
func (c *Client) List(ctx context.Context, filter map[string]string) ([]*models.Entity, error) {
	path := "/" + c.collection
	if len(filter) > 0 {
		query := url.Values{}
		for k, v := range filter {
			query.Set(k, v)
		}
		path += "?" + query.Encode()
	}

	var resp api.ListResponse
	if err := c.doRequest(ctx, http.MethodGet, path, nil, &resp); err != nil {
		return nil, fmt.Errorf("list request failed: %w", err)
	}

	entities := make([]*models.Entity, 0, len(resp.Items))
	for _, item := range resp.Items {
		entity, err := models.EntityFromJSON(item)
		if err != nil {
			return nil, fmt.Errorf("failed to parse list item: %w", err)
		}
		entities = append(entities, entity)
	}
	return entities, nil
}

// Create создает ресурс и возвращает запись с серверным ID и версией
func (c *Client) Create(ctx context.Context, payload json.RawMessage) (*models.Entity, error) {
	var raw json.RawMessage
	if err := c.doRequest(ctx, http.MethodPost, "/"+c.collection, payload, &raw); err != nil {
		return nil, fmt.Errorf("create request failed: %w", err)
	}

	entity, err := models.EntityFromJSON(raw)
	if err != nil {
		return nil, fmt.Errorf("failed to parse created resource: %w", err)
	}
	return entity, nil
}

// Update применяет частичный patch к ресурсу
func (c *Client) Update(ctx context.Context, id string, patch json.RawMessage) (*models.Entity, error) {
	path := fmt.Sprintf("/%s/%s", c.collection, url.PathEscape(id))

	var raw json.RawMessage
	if err := c.doRequest(ctx, http.MethodPatch, path, patch, &raw); err != nil {
		return nil, fmt.Errorf("update request failed: %w", err)
	}

	entity, err := models.EntityFromJSON(raw)
	if err != nil {
		return nil, fmt.Errorf("failed to parse updated resource: %w", err)
	}
	return entity, nil
}

// Delete удаляет ресурс по ID
func (c *Client) Delete(ctx context.Context, id string) error {
	path := fmt.Sprintf("/%s/%s", c.collection, url.PathEscape(id))
	if err := c.doRequest(ctx, http.MethodDelete, path, nil, nil); err != nil {
		return fmt.Errorf("delete request failed: %w", err)
	}
	return nil
}

// doRequest выполняет HTTP запрос и классифицирует ошибки по таксономии
// remote: ошибки транспорта и 5xx — NetworkError, 4xx — ValidationError.
func (c *Client) doRequest(ctx context.Context, method, path string, body json.RawMessage, result any) error {
	reqURL := c.baseURL + path

	var bodyReader io.Reader
	if body != nil {
		bodyReader = bytes.NewReader(body)
	}

	req, err := http.NewRequestWithContext(ctx, method, reqURL, bodyReader)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	if c.tokens != nil {
		token, err := c.tokens.AccessToken(ctx)
		if err != nil {
			return fmt.Errorf("failed to get access token: %w", err)
		}
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return &remote.NetworkError{Err: err}
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	// Читаем тело ответа
	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return &remote.NetworkError{Err: err}
	}

	// Проверяем статус код
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		cause := fmt.Errorf("request failed with status %d: %s", resp.StatusCode, string(respBody))

		var errResp api.ErrorResponse
		if err := json.Unmarshal(respBody, &errResp); err == nil && errResp.Error != "" {
			cause = fmt.Errorf("server error (%d): %s", resp.StatusCode, errResp.Error)
		}

		if resp.StatusCode >= 500 {
			return &remote.NetworkError{Err: cause}
		}
		return &remote.ValidationError{Err: cause, Message: errResp.Error}
	}

	// Декодируем успешный ответ
	if result != nil {
		if err := json.Unmarshal(respBody, result); err != nil {
			return fmt.Errorf("failed to decode response: %w", err)
		}
	}

	return nil
}
