// Package identity — REST-клиент identity-провайдера (Clerk).
// Используется для чтения профиля и зеркалирования премиум-флагов
// в public_metadata пользователя.
package identity

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

// ClerkUser — усечённый профиль пользователя у identity-провайдера.
type ClerkUser struct {
	ID             string `json:"id"`
	FirstName      string `json:"first_name"`
	LastName       string `json:"last_name"`
	ImageURL       string `json:"image_url"`
	EmailAddresses []struct {
		EmailAddress string `json:"email_address"`
	} `json:"email_addresses"`
}

// Email возвращает первый email-адрес пользователя или пустую строку.
func (u *ClerkUser) Email() string {
	if len(u.EmailAddresses) == 0 {
		return ""
	}
	return u.EmailAddresses[0].EmailAddress
}

// Client выполняет запросы к Clerk API с Bearer-авторизацией.
type Client struct {
	apiURL     string
	secretKey  string
	httpClient *http.Client
}

// NewClient создаёт новый клиент Clerk.
func NewClient(apiURL, secretKey string) *Client {
	if apiURL == "" {
		apiURL = "https://api.clerk.com/v1"
	}
	return &Client{
		apiURL:     apiURL,
		secretKey:  secretKey,
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}
}

func (c *Client) newRequest(ctx context.Context, method, path string, body any) (*http.Request, error) {
	url := c.apiURL + path
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			return nil, err
		}
	}
	req, err := http.NewRequestWithContext(ctx, method, url, &buf)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+c.secretKey)
	req.Header.Set("Content-Type", "application/json")
	return req, nil
}

// GetUser возвращает профиль пользователя по его идентификатору.
func (c *Client) GetUser(ctx context.Context, clerkUserID string) (*ClerkUser, error) {
	const op = "identity.GetUser"

	req, err := c.newRequest(ctx, http.MethodGet, "/users/"+clerkUserID, nil)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%s: unexpected status: %s", op, resp.Status)
	}

	var user ClerkUser
	if err := json.NewDecoder(resp.Body).Decode(&user); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &user, nil
}

// UpdatePublicMetadata зеркалирует метаданные (премиум-флаги) в профиль
// пользователя у identity-провайдера.
func (c *Client) UpdatePublicMetadata(ctx context.Context, clerkUserID string, metadata map[string]any) error {
	const op = "identity.UpdatePublicMetadata"

	req, err := c.newRequest(ctx, http.MethodPatch, "/users/"+clerkUserID, map[string]any{
		"public_metadata": metadata,
	})
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("%s: unexpected status: %s", op, resp.Status)
	}
	return nil
}
