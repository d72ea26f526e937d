package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"freshpress-pos/internal/core/domain"
)

// Client talks to the central server over JSON. Every non-login call
// carries the bearer token supplied by the session manager.
type Client struct {
	baseURL string
	http    *http.Client

	// Bearer supplies the current access token. Wired after the session
	// manager is constructed; nil means unauthenticated calls only.
	Bearer func() (string, error)
}

// NewClient creates a central-server client
func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: baseURL,
		http:    &http.Client{Timeout: 10 * time.Second},
	}
}

// LoginRequest is the store login payload
type LoginRequest struct {
	Account  string `json:"account"`
	Password string `json:"password"`
}

// LoginResponse is the token triple plus the store profile snapshot
type LoginResponse struct {
	AccessToken  string              `json:"access_token"`
	RefreshToken string              `json:"refresh_token"`
	ExpiresAt    int64               `json:"expires_at"`
	Profile      domain.StoreProfile `json:"profile"`
}

// Login authenticates the store account against the central server
func (c *Client) Login(ctx context.Context, input LoginRequest) (*LoginResponse, error) {
	body, status, err := c.do(ctx, http.MethodPost, "/stores/login", input, false)
	if err != nil {
		return nil, err
	}
	if status == http.StatusUnauthorized {
		return nil, domain.E(domain.KindUnauthorized, "wrong account or password")
	}
	if status != http.StatusOK {
		return nil, domain.E(domain.KindNetworkError, "login failed: status %d", status)
	}

	var resp LoginResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, domain.WrapErr(domain.KindParseError, err, "malformed login response")
	}
	return &resp, nil
}

type refreshResponse struct {
	AccessToken string `json:"access_token"`
}

// RefreshToken exchanges the refresh token for a new access string
func (c *Client) RefreshToken(ctx context.Context, refresh string) (string, error) {
	path := fmt.Sprintf("/stores/refresh-token/%s/true", refresh)
	body, status, err := c.do(ctx, http.MethodGet, path, nil, false)
	if err != nil {
		return "", err
	}
	if status == http.StatusUnauthorized {
		return "", domain.E(domain.KindUnauthorized, "refresh token rejected")
	}
	if status != http.StatusOK {
		return "", domain.E(domain.KindNetworkError, "refresh failed: status %d", status)
	}

	var resp refreshResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return "", domain.WrapErr(domain.KindParseError, err, "malformed refresh response")
	}
	return resp.AccessToken, nil
}

// MirrorOrderCreate mirrors a freshly intaken order and its garments
func (c *Client) MirrorOrderCreate(ctx context.Context, payload interface{}) error {
	return c.mirror(ctx, http.MethodPost, "/orders", payload)
}

// MirrorOrderUpdate mirrors order mutations (hang, pickup, refund)
func (c *Client) MirrorOrderUpdate(ctx context.Context, payload interface{}) error {
	return c.mirror(ctx, http.MethodPut, "/orders", payload)
}

// MirrorPayment mirrors a settlement or refund
func (c *Client) MirrorPayment(ctx context.Context, payload interface{}) error {
	return c.mirror(ctx, http.MethodPost, "/orders/payment", payload)
}

func (c *Client) mirror(ctx context.Context, method, path string, payload interface{}) error {
	body, status, err := c.do(ctx, method, path, payload, true)
	if err != nil {
		return err
	}
	if status < 200 || status >= 300 {
		return domain.E(domain.KindNetworkError, "mirror %s %s failed: status %d: %s", method, path, status, string(body))
	}
	return nil
}

func (c *Client) do(ctx context.Context, method, path string, payload interface{}, authed bool) ([]byte, int, error) {
	var reader io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return nil, 0, domain.WrapErr(domain.KindParseError, err, "encode request")
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return nil, 0, domain.WrapErr(domain.KindNetworkError, err, "build request")
	}
	req.Header.Set("Content-Type", "application/json")
	if authed {
		if c.Bearer == nil {
			return nil, 0, domain.E(domain.KindUnauthorized, "no session")
		}
		access, err := c.Bearer()
		if err != nil {
			return nil, 0, err
		}
		req.Header.Set("Authorization", "Bearer "+access)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, 0, domain.WrapErr(domain.KindNetworkError, err, "central server unreachable")
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, 0, domain.WrapErr(domain.KindNetworkError, err, "read response")
	}
	return body, resp.StatusCode, nil
}
