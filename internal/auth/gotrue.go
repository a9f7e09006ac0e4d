package auth

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// GoTrueClient talks to the hosted auth API with the restricted (anon) key
type GoTrueClient struct {
	baseURL    string
	anonKey    string
	httpClient *http.Client
}

var _ Verifier = (*GoTrueClient)(nil)

// NewGoTrueClient creates a client for the project at baseURL
func NewGoTrueClient(baseURL, anonKey string) *GoTrueClient {
	return &GoTrueClient{
		baseURL: strings.TrimRight(baseURL, "/") + "/auth/v1",
		anonKey: anonKey,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

// Verify asks the auth API who owns token
func (c *GoTrueClient) Verify(ctx context.Context, token string) (*User, error) {
	token = strings.TrimPrefix(token, "Bearer ")
	if token == "" {
		return nil, ErrUnauthorized
	}

	req, err := c.newRequest(ctx, http.MethodGet, "/user", nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to call auth API: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden {
		return nil, ErrUnauthorized
	}
	if resp.StatusCode != http.StatusOK {
		return nil, apiError(resp)
	}

	var user User
	if err := json.NewDecoder(resp.Body).Decode(&user); err != nil {
		return nil, fmt.Errorf("failed to decode user: %w", err)
	}
	if user.ID == "" {
		return nil, ErrUnauthorized
	}
	return &user, nil
}

// ResendConfirmation re-sends the signup confirmation email
func (c *GoTrueClient) ResendConfirmation(ctx context.Context, email string) error {
	body, err := json.Marshal(map[string]string{"type": "signup", "email": email})
	if err != nil {
		return fmt.Errorf("marshal resend payload: %w", err)
	}

	req, err := c.newRequest(ctx, http.MethodPost, "/resend", bytes.NewReader(body))
	if err != nil {
		return err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to call auth API: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		return apiError(resp)
	}
	return nil
}

// SignOut revokes the session behind token
func (c *GoTrueClient) SignOut(ctx context.Context, token string) error {
	req, err := c.newRequest(ctx, http.MethodPost, "/logout", nil)
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+strings.TrimPrefix(token, "Bearer "))

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to call auth API: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest && resp.StatusCode != http.StatusUnauthorized {
		return apiError(resp)
	}
	return nil
}

func (c *GoTrueClient) newRequest(ctx context.Context, method, path string, body io.Reader) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("apikey", c.anonKey)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return req, nil
}

func apiError(resp *http.Response) error {
	payload, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
	return fmt.Errorf("auth API error %s: %s", resp.Status, strings.TrimSpace(string(payload)))
}
