// Package client implements the MyWallet command-line client: a typed HTTP
// API wrapper, the local session file and the interactive prompts.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/gusgusz/projeto14-mywallet-back/internal/models"
	"github.com/shopspring/decimal"
)

// ErrNotSignedIn is returned by ledger calls made without a token.
var ErrNotSignedIn = errors.New("not signed in")

// APIError is a non-2xx answer from the server.
type APIError struct {
	Status int
	// Messages holds the field messages of a 400 validation answer.
	Messages []string
	Body     string
}

func (e *APIError) Error() string {
	if len(e.Messages) > 0 {
		return fmt.Sprintf("server error %d: %s", e.Status, strings.Join(e.Messages, "; "))
	}
	return fmt.Sprintf("server error %d: %s", e.Status, e.Body)
}

// NewTransaction is the body of POST /accounts.
type NewTransaction struct {
	Value            decimal.Decimal        `json:"value"`
	TitleDescription string                 `json:"titleDescription"`
	Description      string                 `json:"description"`
	Type             models.TransactionType `json:"type"`
}

// Client talks to the wallet API.
type Client struct {
	BaseURL string
	HTTP    *http.Client
	// Token is sent as a bearer token on protected routes.
	Token string
}

// New returns a Client for baseURL. A nil httpClient gets a 10s timeout client.
func New(baseURL string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 10 * time.Second}
	}
	return &Client{BaseURL: strings.TrimRight(baseURL, "/"), HTTP: httpClient}
}

// SignUp registers a new user.
func (c *Client) SignUp(ctx context.Context, name, email, password string) error {
	body := map[string]string{
		"name":           name,
		"email":          email,
		"password":       password,
		"repeatPassword": password,
	}
	return c.do(ctx, http.MethodPost, "/sign-up", false, body, nil)
}

// SignIn authenticates and stores the returned token on c.
func (c *Client) SignIn(ctx context.Context, email, password string) (name string, err error) {
	var out struct {
		Token string `json:"token"`
		Name  string `json:"name"`
	}
	body := map[string]string{"email": email, "password": password}
	if err := c.do(ctx, http.MethodPost, "/sign-in", false, body, &out); err != nil {
		return "", err
	}
	c.Token = out.Token
	return out.Name, nil
}

// SignOut ends the server session and forgets the token.
func (c *Client) SignOut(ctx context.Context) error {
	if err := c.do(ctx, http.MethodPost, "/sign-out", true, nil, nil); err != nil {
		return err
	}
	c.Token = ""
	return nil
}

// Add appends a transaction to the signed-in user's ledger.
func (c *Client) Add(ctx context.Context, tx NewTransaction) error {
	return c.do(ctx, http.MethodPost, "/accounts", true, tx, nil)
}

// List returns the ledger in append order.
func (c *Client) List(ctx context.Context) ([]models.Transaction, error) {
	var out []models.Transaction
	if err := c.do(ctx, http.MethodGet, "/accounts", true, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Balance returns the ledger total.
func (c *Client) Balance(ctx context.Context) (decimal.Decimal, error) {
	var out struct {
		Total decimal.Decimal `json:"total"`
	}
	if err := c.do(ctx, http.MethodGet, "/accounts/balance", true, nil, &out); err != nil {
		return decimal.Zero, err
	}
	return out.Total, nil
}

// Update renames the transaction titled title and sets its value.
func (c *Client) Update(ctx context.Context, title, newTitle string, value decimal.Decimal) error {
	body := struct {
		TitleDescription string          `json:"titleDescription"`
		Value            decimal.Decimal `json:"value"`
	}{newTitle, value}
	return c.do(ctx, http.MethodPut, "/accounts/"+url.PathEscape(title), true, body, nil)
}

// Delete removes the transaction titled title.
func (c *Client) Delete(ctx context.Context, title string) error {
	return c.do(ctx, http.MethodDelete, "/accounts/"+url.PathEscape(title), true, nil, nil)
}

func (c *Client) do(ctx context.Context, method, path string, auth bool, in, out any) error {
	if auth && c.Token == "" {
		return ErrNotSignedIn
	}

	var body io.Reader
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		body = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.BaseURL+path, body)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if auth {
		req.Header.Set("Authorization", "Bearer "+c.Token)
	}

	resp, err := c.HTTP.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s failed: %w", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		data, _ := io.ReadAll(resp.Body)
		apiErr := &APIError{Status: resp.StatusCode, Body: strings.TrimSpace(string(data))}
		if resp.StatusCode == http.StatusBadRequest {
			_ = json.Unmarshal(data, &apiErr.Messages)
		}
		return apiErr
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}
