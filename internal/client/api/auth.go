package api

import (
	"context"
	"net/http"
)

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// Login authenticates against the backend and installs the returned token
// pair on the client.
func (c *Client) Login(ctx context.Context, username, password string) error {
	var pair TokenPair
	err := c.doOnce(ctx, http.MethodPost, "/auth/login", loginRequest{Username: username, Password: password}, &pair, "")
	if err != nil {
		return err
	}
	c.SetTokens(pair.AccessToken, pair.RefreshToken)
	return nil
}

// Logout drops the token pair. Purely local; the backend keeps stateless
// tokens.
func (c *Client) Logout() {
	c.SetTokens("", "")
}
