// SPDX-License-Identifier: Apache-2.0

package para

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/pkg/errors"
	"perun.network/go-perun/log"
)

const (
	apiKeyHeader = "X-API-KEY"

	pathSession  = "/v1/users/me/session"
	pathJWT      = "/v1/users/me/jwt"
	pathLogout   = "/v1/users/me/logout"
	pathWallets  = "/v1/wallets"
	pathSignFmt  = "/v1/wallets/%s/sign-message"
	maxErrorBody = 512

	// DefaultTimeout bounds a single request to the Para API.
	DefaultTimeout = 30 * time.Second
)

// Client talks to the Para REST API on behalf of a logged in user session.
type Client struct {
	log.Embedding

	baseURL      *url.URL
	apiKey       string
	sessionToken string
	http         *http.Client
}

// ClientOption configures a Client.
type ClientOption func(*Client) error

// WithBaseURL overrides the environment's endpoint.
func WithBaseURL(raw string) ClientOption {
	return func(c *Client) error {
		u, err := url.Parse(raw)
		if err != nil {
			return errors.Wrap(err, "parsing base url")
		}
		c.baseURL = u
		return nil
	}
}

// WithHTTPClient replaces the default http client.
func WithHTTPClient(hc *http.Client) ClientOption {
	return func(c *Client) error {
		c.http = hc
		return nil
	}
}

// WithSessionToken sets the user session the client acts for.
func WithSessionToken(token string) ClientOption {
	return func(c *Client) error {
		c.sessionToken = token
		return nil
	}
}

// NewClient creates a client for the given environment.
func NewClient(env Environment, apiKey string, opts ...ClientOption) (*Client, error) {
	if apiKey == "" {
		return nil, ErrMissingAPIKey
	}
	raw, err := env.BaseURL()
	if err != nil {
		return nil, err
	}
	base, err := url.Parse(raw)
	if err != nil {
		return nil, errors.Wrap(err, "parsing base url")
	}

	c := &Client{
		Embedding: log.MakeEmbedding(log.WithField("component", "para")),
		baseURL:   base,
		apiKey:    apiKey,
		http:      &http.Client{Timeout: DefaultTimeout},
	}
	for _, opt := range opts {
		if err := opt(c); err != nil {
			return nil, err
		}
	}
	return c, nil
}

// IsFullyLoggedIn reports whether the session is authenticated and has
// completed all login steps.
func (c *Client) IsFullyLoggedIn(ctx context.Context) (bool, error) {
	var res struct {
		FullyLoggedIn bool `json:"fullyLoggedIn"`
	}
	err := c.do(ctx, http.MethodGet, pathSession, nil, &res)
	if isStatus(err, http.StatusUnauthorized) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return res.FullyLoggedIn, nil
}

// Wallets lists the wallets of the session's user.
func (c *Client) Wallets(ctx context.Context) ([]Wallet, error) {
	var res struct {
		Wallets []Wallet `json:"wallets"`
	}
	if err := c.do(ctx, http.MethodGet, pathWallets, nil, &res); err != nil {
		return nil, err
	}
	return res.Wallets, nil
}

// IssueJWT issues a session JWT carrying the user's connected wallets.
func (c *Client) IssueJWT(ctx context.Context) (string, error) {
	var res struct {
		Token string `json:"token"`
	}
	if err := c.do(ctx, http.MethodPost, pathJWT, struct{}{}, &res); err != nil {
		return "", err
	}
	if res.Token == "" {
		return "", errors.WithMessage(ErrInvalidJWT, "empty token")
	}
	return res.Token, nil
}

// Logout ends the session.
func (c *Client) Logout(ctx context.Context) error {
	return c.do(ctx, http.MethodPost, pathLogout, struct{}{}, nil)
}

// SignMessage asks Para to sign a base64 encoded message with a wallet.
func (c *Client) SignMessage(ctx context.Context, walletID, messageBase64 string) (*SignatureResult, error) {
	if err := ValidateWalletID(walletID); err != nil {
		return nil, err
	}
	req := struct {
		MessageBase64 string `json:"messageBase64"`
	}{messageBase64}

	c.Log().WithField("wallet", walletID).Debug("requesting signature")

	res := new(SignatureResult)
	if err := c.do(ctx, http.MethodPost, fmt.Sprintf(pathSignFmt, url.PathEscape(walletID)), req, res); err != nil {
		return nil, err
	}
	return res, nil
}

func (c *Client) do(ctx context.Context, method, path string, in, out interface{}) error {
	u := c.baseURL.JoinPath(path)

	var body io.Reader
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return errors.Wrap(err, "encoding request")
		}
		body = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, u.String(), body)
	if err != nil {
		return errors.Wrap(err, "creating request")
	}
	req.Header.Set(apiKeyHeader, c.apiKey)
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.sessionToken != "" {
		req.Header.Set("Authorization", "Bearer "+c.sessionToken)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return errors.Wrapf(err, "%s %s", method, path)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return &StatusError{Code: resp.StatusCode, Path: path, Body: string(bytes.TrimSpace(msg))}
	}
	if out == nil {
		return nil
	}
	return errors.Wrapf(json.NewDecoder(resp.Body).Decode(out), "decoding %s response", path)
}

// StatusError is returned for non 2xx answers. It matches
// ErrUnexpectedStatus with errors.Is.
type StatusError struct {
	Code int
	Path string
	Body string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%v: %s returned %d: %s", ErrUnexpectedStatus, e.Path, e.Code, e.Body)
}

// Is makes errors.Is(err, ErrUnexpectedStatus) hold.
func (e *StatusError) Is(target error) bool {
	return target == ErrUnexpectedStatus
}

func isStatus(err error, code int) bool {
	var se *StatusError
	return errors.As(err, &se) && se.Code == code
}
