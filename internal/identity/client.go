package identity

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

// HTTPClient talks to a GoTrue-compatible auth service.
type HTTPClient struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

// NewHTTPClient constructs an HTTPClient for the given auth service.
func NewHTTPClient(baseURL, apiKey string) (*HTTPClient, error) {
	baseURL = strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if baseURL == "" {
		return nil, fmt.Errorf("AUTH_BASE_URL is required")
	}
	if strings.TrimSpace(apiKey) == "" {
		return nil, fmt.Errorf("AUTH_API_KEY is required")
	}
	return &HTTPClient{
		baseURL: baseURL,
		apiKey:  apiKey,
		httpClient: &http.Client{
			Timeout: 15 * time.Second,
		},
	}, nil
}

type credentialsRequest struct {
	Email    string         `json:"email"`
	Password string         `json:"password"`
	Data     map[string]any `json:"data,omitempty"`
}

type authResponse struct {
	User *struct {
		Email        string `json:"email"`
		UserMetadata struct {
			Name string `json:"name"`
		} `json:"user_metadata"`
	} `json:"user"`
	// Signup responses carry the user at the top level.
	Email        string `json:"email"`
	UserMetadata struct {
		Name string `json:"name"`
	} `json:"user_metadata"`
	ErrorDescription string `json:"error_description"`
	Msg              string `json:"msg"`
}

// SignUp registers a new account.
func (c *HTTPClient) SignUp(ctx context.Context, email, password, name string) (Identity, error) {
	req := credentialsRequest{Email: email, Password: password}
	if strings.TrimSpace(name) != "" {
		req.Data = map[string]any{"name": name}
	}

	parsed, status, err := c.post(ctx, "/signup", req)
	if err != nil {
		return Identity{}, err
	}
	switch {
	case status == http.StatusOK:
	case status == http.StatusUnprocessableEntity || status == http.StatusConflict:
		return Identity{}, ErrEmailTaken
	case status == http.StatusBadRequest:
		return Identity{}, fmt.Errorf("%w: %s", ErrInvalidInput, parsed.message())
	default:
		return Identity{}, fmt.Errorf("auth service signup status %d: %s", status, parsed.message())
	}
	return parsed.identity(), nil
}

// SignIn verifies credentials and returns the account identity.
func (c *HTTPClient) SignIn(ctx context.Context, email, password string) (Identity, error) {
	parsed, status, err := c.post(ctx, "/token?grant_type=password", credentialsRequest{
		Email:    email,
		Password: password,
	})
	if err != nil {
		return Identity{}, err
	}
	switch {
	case status == http.StatusOK:
	case status == http.StatusBadRequest || status == http.StatusUnauthorized || status == http.StatusForbidden:
		return Identity{}, ErrInvalidCredentials
	default:
		return Identity{}, fmt.Errorf("auth service signin status %d: %s", status, parsed.message())
	}
	return parsed.identity(), nil
}

func (c *HTTPClient) post(ctx context.Context, path string, body credentialsRequest) (authResponse, int, error) {
	payload, err := json.Marshal(body)
	if err != nil {
		return authResponse{}, 0, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return authResponse{}, 0, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("apikey", c.apiKey)
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return authResponse{}, 0, fmt.Errorf("auth service request: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return authResponse{}, 0, err
	}

	var parsed authResponse
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, &parsed); err != nil {
			return authResponse{}, resp.StatusCode, fmt.Errorf("auth service response parse: %w", err)
		}
	}
	return parsed, resp.StatusCode, nil
}

func (r authResponse) identity() Identity {
	if r.User != nil {
		return Identity{Email: r.User.Email, Name: r.User.UserMetadata.Name}
	}
	return Identity{Email: r.Email, Name: r.UserMetadata.Name}
}

func (r authResponse) message() string {
	if r.ErrorDescription != "" {
		return r.ErrorDescription
	}
	return r.Msg
}

var _ Client = (*HTTPClient)(nil)
