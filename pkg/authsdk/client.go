package authsdk

import (
	"context"
	"net/http"
	"strings"
	"time"
)

// SDKClient talks to the public endpoints and opens Sessions.
type SDKClient struct {
	BaseURL    string
	HTTPClient *http.Client
}

func NewSDKClient(baseURL string) *SDKClient {
	return &SDKClient{
		BaseURL: strings.TrimSuffix(baseURL, "/"),
		HTTPClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

// Register creates a plain user account.
func (c *SDKClient) Register(ctx context.Context, req RegisterRequest) (*MessageResponse, error) {
	req.Title = ""
	resp, err := c.doRequest(ctx, http.MethodPost, "/v1/auth/register", req)
	if err != nil {
		return nil, err
	}

	var msg MessageResponse
	if err := decodeJSON(resp, &msg, http.StatusCreated); err != nil {
		return nil, err
	}
	return &msg, nil
}

// Login authenticates with an email or username and opens a Session.
func (c *SDKClient) Login(ctx context.Context, identifier, password string) (*Session, error) {
	resp, err := c.doRequest(ctx, http.MethodPost, "/v1/auth/login", map[string]string{
		"email":    identifier,
		"password": password,
	})
	if err != nil {
		return nil, err
	}

	var login LoginResponse
	if err := decodeJSON(resp, &login, http.StatusOK); err != nil {
		return nil, err
	}
	return newSession(c, login.Token, login.User), nil
}

// Refresh exchanges refresh for a new access token. oldAccess may be empty;
// when set the server denylists it.
func (c *SDKClient) Refresh(ctx context.Context, refresh, oldAccess string) (string, error) {
	resp, err := c.doRequest(ctx, http.MethodPost, "/v1/auth/token/refresh", map[string]string{
		"refresh": refresh,
		"access":  oldAccess,
	})
	if err != nil {
		return "", err
	}

	var out RefreshResponse
	if err := decodeJSON(resp, &out, http.StatusOK); err != nil {
		return "", err
	}
	return out.Access, nil
}

// Logout blacklists refresh.
func (c *SDKClient) Logout(ctx context.Context, refresh string) error {
	resp, err := c.doRequest(ctx, http.MethodPost, "/v1/auth/logout", map[string]string{
		"refresh": refresh,
	})
	if err != nil {
		return err
	}

	var msg MessageResponse
	return decodeJSON(resp, &msg, http.StatusOK)
}

// NewSessionFromTokens resumes a session from stored tokens.
func (c *SDKClient) NewSessionFromTokens(access, refresh string) *Session {
	return newSession(c, TokenPair{Access: access, Refresh: refresh}, Profile{})
}
