// Package curator confirms that a curator login names a real account before a
// curated run uses it as the alias source.
package curator

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// DefaultAPIURL is the public GitHub REST endpoint.
const DefaultAPIURL = "https://api.github.com"

// ErrUnknownCurator is returned when the account does not exist.
var ErrUnknownCurator = errors.New("curator: unknown account")

// ErrEmptyLogin is returned for a blank login.
var ErrEmptyLogin = errors.New("curator: login required")

// Validator checks curator logins against a users API.
type Validator struct {
	baseURL string
	token   string
	client  *http.Client
}

// Option customises a Validator.
type Option func(*Validator)

// WithHTTPClient replaces the default client.
func WithHTTPClient(c *http.Client) Option {
	return func(v *Validator) { v.client = c }
}

// WithToken sends a bearer token with every request.
func WithToken(token string) Option {
	return func(v *Validator) { v.token = token }
}

// NewValidator returns a Validator rooted at baseURL; an empty baseURL selects
// DefaultAPIURL.
func NewValidator(baseURL string, opts ...Option) *Validator {
	if strings.TrimSpace(baseURL) == "" {
		baseURL = DefaultAPIURL
	}
	v := &Validator{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{Timeout: 10 * time.Second},
	}
	for _, opt := range opts {
		opt(v)
	}
	return v
}

type userResponse struct {
	Login string `json:"login"`
}

// Validate returns nil when login names an existing account.
func (v *Validator) Validate(ctx context.Context, login string) error {
	login = strings.TrimSpace(login)
	if login == "" {
		return ErrEmptyLogin
	}
	endpoint := v.baseURL + "/users/" + url.PathEscape(login)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return fmt.Errorf("curator: build request: %w", err)
	}
	req.Header.Set("Accept", "application/vnd.github+json")
	if v.token != "" {
		req.Header.Set("Authorization", "Bearer "+v.token)
	}

	resp, err := v.client.Do(req)
	if err != nil {
		return fmt.Errorf("curator: lookup %s: %w", login, err)
	}
	defer func() { _ = resp.Body.Close() }()

	switch resp.StatusCode {
	case http.StatusOK:
	case http.StatusNotFound:
		return fmt.Errorf("%w: %s", ErrUnknownCurator, login)
	default:
		return fmt.Errorf("curator: lookup %s: unexpected status %s", login, resp.Status)
	}

	var user userResponse
	if err := json.NewDecoder(resp.Body).Decode(&user); err != nil {
		return fmt.Errorf("curator: decode %s: %w", login, err)
	}
	if !strings.EqualFold(user.Login, login) {
		return fmt.Errorf("%w: %s (api returned %q)", ErrUnknownCurator, login, user.Login)
	}
	return nil
}
