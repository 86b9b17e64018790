package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/avolkovs/tillpoint/internal/common"
	"github.com/golang-jwt/jwt/v5"
)

// refreshLeeway is how close to expiry an access token may get before the
// client refreshes it ahead of a call.
const refreshLeeway = 30 * time.Second

// responseBodyLimit caps how much of an error body is kept for messages.
const responseBodyLimit = 4 << 10

// Client talks to the tillpoint backend over REST.
type Client struct {
	baseURL string
	http    *http.Client

	mu           sync.Mutex
	accessToken  string
	refreshToken string
}

// New returns a Client for the given base URL. timeout applies per request;
// zero means no client-side timeout beyond the transport default.
func New(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
	}
}

// SetTokens installs the token pair obtained from login.
func (c *Client) SetTokens(access, refresh string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.accessToken = access
	c.refreshToken = refresh
}

func (c *Client) tokenPair() (string, string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.accessToken, c.refreshToken
}

// tokenExpiringSoon reports whether the JWT expires within refreshLeeway.
// The token is parsed unverified: the client only needs the exp claim, the
// server remains the authority on validity.
func tokenExpiringSoon(token string) bool {
	if token == "" {
		return false
	}
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return false
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return false
	}
	return time.Until(exp.Time) < refreshLeeway
}

type refreshRequest struct {
	RefreshToken string `json:"refreshToken"`
}

// TokenPair is the backend's auth response.
type TokenPair struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}

// refresh exchanges the refresh token for a new pair.
func (c *Client) refresh(ctx context.Context) error {
	_, rt := c.tokenPair()
	if rt == "" {
		return common.ErrUnauthorized
	}

	var pair TokenPair
	if err := c.doOnce(ctx, http.MethodPost, "/auth/refresh", refreshRequest{RefreshToken: rt}, &pair, ""); err != nil {
		return err
	}
	c.SetTokens(pair.AccessToken, pair.RefreshToken)
	return nil
}

// do performs a JSON request against path, refreshing the access token when
// needed and retrying exactly once after a reactive refresh on 401.
func (c *Client) do(ctx context.Context, method, path string, in, out any) error {
	access, refresh := c.tokenPair()

	if tokenExpiringSoon(access) && refresh != "" {
		if err := c.refresh(ctx); err == nil {
			access, _ = c.tokenPair()
		}
		// A failed proactive refresh is not fatal: the call below may
		// still succeed, or fail with a mappable 401.
	}

	err := c.doOnce(ctx, method, path, in, out, access)
	if err == nil {
		return nil
	}

	var se *StatusError
	if errors.As(err, &se) && se.Code == http.StatusUnauthorized && refresh != "" {
		if rerr := c.refresh(ctx); rerr != nil {
			return err
		}
		access, _ = c.tokenPair()
		return c.doOnce(ctx, method, path, in, out, access)
	}

	return err
}

// doOnce is the single-shot request primitive used by both do and refresh.
func (c *Client) doOnce(ctx context.Context, method, path string, in, out any, token string) error {
	var body io.Reader
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("encoding request: %w", err)
		}
		body = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("building request: %w", err)
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set(common.AuthorizationHeaderName, common.BearerPrefix+token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %v: %w", method, path, err, common.ErrRemoteUnreachable)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, responseBodyLimit))
		return &StatusError{Code: resp.StatusCode, Body: strings.TrimSpace(string(b))}
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decoding response: %v: %w", err, common.ErrRemoteUnreachable)
	}
	return nil
}

// Ping checks backend liveness. Used by the connectivity monitor.
func (c *Client) Ping(ctx context.Context) error {
	return c.do(ctx, http.MethodGet, "/ping", nil, nil)
}
