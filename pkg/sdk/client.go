package sdk

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"
)

// Environment variables read by NewClientFromEnv.
const (
	EnvURL    = "TRADEFAIR_URL"
	EnvAPIKey = "TRADEFAIR_API_KEY"
)

const defaultTimeout = 10 * time.Second

// Client calls the Tradefair API. It is safe for concurrent use.
type Client struct {
	BaseURL    string
	APIKey     string
	HTTPClient *http.Client
}

// NewClient returns a Client for baseURL. Both values are required.
func NewClient(baseURL, apiKey string) (*Client, error) {
	var missing []string
	if strings.TrimSpace(baseURL) == "" {
		missing = append(missing, "base URL")
	}
	if strings.TrimSpace(apiKey) == "" {
		missing = append(missing, "API key")
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("%w: %s", ErrMissingConfig, strings.Join(missing, " and "))
	}
	return &Client{
		BaseURL:    strings.TrimSuffix(baseURL, "/"),
		APIKey:     apiKey,
		HTTPClient: &http.Client{Timeout: defaultTimeout},
	}, nil
}

// NewClientFromEnv reads TRADEFAIR_URL and TRADEFAIR_API_KEY.
func NewClientFromEnv() (*Client, error) {
	return NewClient(os.Getenv(EnvURL), os.Getenv(EnvAPIKey))
}

type envelope struct {
	Data  json.RawMessage `json:"data"`
	Error *struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

// do sends a JSON request and decodes the envelope. On success data is decoded into out
// when out is non-nil. On an error envelope, data is still decoded into errData when the
// API attached a payload, and an *APIError is returned.
func (c *Client) do(ctx context.Context, method, path, token string, body, out, errData any) error {
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		reader = bytes.NewReader(raw)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.BaseURL+path, reader)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("apikey", c.APIKey)
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return fmt.Errorf("send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNoContent {
		return nil
	}
	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}
	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		if resp.StatusCode >= 300 {
			return &APIError{StatusCode: resp.StatusCode, Code: CodeInternalError, Message: http.StatusText(resp.StatusCode)}
		}
		return fmt.Errorf("decode response: %w", err)
	}
	if env.Error != nil || resp.StatusCode >= 300 {
		apiErr := &APIError{StatusCode: resp.StatusCode, Code: CodeInternalError, Message: http.StatusText(resp.StatusCode)}
		if env.Error != nil {
			apiErr.Code, apiErr.Message = env.Error.Code, env.Error.Message
		}
		if errData != nil && len(env.Data) > 0 && string(env.Data) != "null" {
			if err := json.Unmarshal(env.Data, errData); err != nil {
				return fmt.Errorf("decode error data: %w", err)
			}
		}
		return apiErr
	}
	if out != nil && len(env.Data) > 0 {
		if err := json.Unmarshal(env.Data, out); err != nil {
			return fmt.Errorf("decode response data: %w", err)
		}
	}
	return nil
}

// SignUp creates an account and returns its first session.
func (c *Client) SignUp(ctx context.Context, req SignUpRequest) (*SessionToken, error) {
	var token SessionToken
	if err := c.do(ctx, http.MethodPost, "/auth/signup", "", req, &token, nil); err != nil {
		return nil, err
	}
	return &token, nil
}

// SignIn exchanges credentials for a session token.
func (c *Client) SignIn(ctx context.Context, email, password string) (*SessionToken, error) {
	body := map[string]string{"email": email, "password": password}
	var token SessionToken
	if err := c.do(ctx, http.MethodPost, "/auth/signin", "", body, &token, nil); err != nil {
		return nil, err
	}
	return &token, nil
}

// SignOut revokes the session behind token.
func (c *Client) SignOut(ctx context.Context, token string) error {
	return c.do(ctx, http.MethodPost, "/auth/signout", token, nil, nil, nil)
}

// GetSession returns the session behind token.
func (c *Client) GetSession(ctx context.Context, token string) (*Session, error) {
	var s Session
	if err := c.do(ctx, http.MethodGet, "/auth/session", token, nil, &s, nil); err != nil {
		return nil, err
	}
	return &s, nil
}

// GetProfile returns the caller's profile.
func (c *Client) GetProfile(ctx context.Context, token string) (*Profile, error) {
	var p Profile
	if err := c.do(ctx, http.MethodGet, "/profiles/me", token, nil, &p, nil); err != nil {
		return nil, err
	}
	return &p, nil
}

// UpdateProfile applies upd to the caller's profile.
func (c *Client) UpdateProfile(ctx context.Context, token string, upd ProfileUpdate) (*Profile, error) {
	var p Profile
	if err := c.do(ctx, http.MethodPatch, "/profiles/me", token, upd, &p, nil); err != nil {
		return nil, err
	}
	return &p, nil
}

// Permissions returns the caller's role and capabilities.
func (c *Client) Permissions(ctx context.Context, token string) (*Permissions, error) {
	var p Permissions
	if err := c.do(ctx, http.MethodGet, "/auth/permissions", token, nil, &p, nil); err != nil {
		return nil, err
	}
	return &p, nil
}

// RequestPasswordReset asks for a reset code to be mailed to email.
func (c *Client) RequestPasswordReset(ctx context.Context, email string) error {
	return c.do(ctx, http.MethodPost, "/auth/password-reset", "", map[string]string{"email": email}, nil, nil)
}
