// Package client provides a Go client for the Remarks API.
package client

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/alphabot-ai/remarks/internal/dto"
)

// Client is a Remarks API client.
type Client struct {
	BaseURL    string
	HTTPClient *http.Client
	Token      string
}

// APIError is returned for any response outside the expected status.
type APIError struct {
	Status int
	Kind   string            `json:"kind"`
	Msg    string            `json:"error"`
	Fields map[string]string `json:"fields"`
}

func (e *APIError) Error() string {
	if e.Msg == "" {
		return fmt.Sprintf("request failed (%d)", e.Status)
	}
	return fmt.Sprintf("request failed (%d): %s", e.Status, e.Msg)
}

// New creates a new Remarks client.
func New(baseURL string) *Client {
	return &Client{
		BaseURL:    strings.TrimRight(baseURL, "/"),
		HTTPClient: &http.Client{Timeout: 30 * time.Second},
	}
}

// IsAuthenticated returns true if the client holds a token.
func (c *Client) IsAuthenticated() bool {
	return c.Token != ""
}

// Register creates a new user account.
func (c *Client) Register(name, email, password string) (*dto.UserDetails, error) {
	var user dto.UserDetails
	err := c.do(http.MethodPost, "/api/register", dto.RegisterInput{Name: name, Email: email, Password: password}, http.StatusCreated, &user)
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// Login exchanges credentials for a token and keeps it for later calls.
func (c *Client) Login(email, password string) error {
	var tok dto.TokenResponse
	if err := c.do(http.MethodPost, "/api/auth", dto.Credentials{Email: email, Password: password}, http.StatusOK, &tok); err != nil {
		return err
	}
	c.Token = tok.Token
	return nil
}

// Logout revokes every token of the current user.
func (c *Client) Logout() error {
	if err := c.do(http.MethodPost, "/api/logout", nil, http.StatusOK, nil); err != nil {
		return err
	}
	c.Token = ""
	return nil
}

func (c *Client) Me() (*dto.UserDetails, error) {
	var user dto.UserDetails
	if err := c.do(http.MethodGet, "/api/me", nil, http.StatusOK, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

func (c *Client) UpdateMe(name, email string) (*dto.UserDetails, error) {
	var user dto.UserDetails
	if err := c.do(http.MethodPut, "/api/me", dto.UpdateUserInput{Name: name, Email: email}, http.StatusOK, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

func (c *Client) ChangePassword(current, next string) error {
	return c.do(http.MethodPatch, "/api/changePassword", dto.ChangePasswordInput{CurrentPassword: current, NewPassword: next}, http.StatusOK, nil)
}

// ListComments fetches one page. Zero page or perPage use the server
// defaults.
func (c *Client) ListComments(page, perPage int, filter string) (*dto.Page[dto.CommentDetails], error) {
	q := url.Values{}
	if page > 0 {
		q.Set("page", strconv.Itoa(page))
	}
	if perPage > 0 {
		q.Set("perPage", strconv.Itoa(perPage))
	}
	if filter != "" {
		q.Set("filter", filter)
	}
	path := "/api/comments"
	if len(q) > 0 {
		path += "?" + q.Encode()
	}
	var result dto.Page[dto.CommentDetails]
	if err := c.do(http.MethodGet, path, nil, http.StatusOK, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

func (c *Client) GetComment(id int64) (*dto.CommentDetails, error) {
	var comment dto.CommentDetails
	if err := c.do(http.MethodGet, fmt.Sprintf("/api/comments/%d", id), nil, http.StatusOK, &comment); err != nil {
		return nil, err
	}
	return &comment, nil
}

// PostComment creates a new comment.
func (c *Client) PostComment(text string) (*dto.CommentDetails, error) {
	var comment dto.CommentDetails
	if err := c.do(http.MethodPost, "/api/comments", dto.CommentInput{Comment: text}, http.StatusCreated, &comment); err != nil {
		return nil, err
	}
	return &comment, nil
}

func (c *Client) EditComment(id int64, text string) (*dto.CommentDetails, error) {
	var comment dto.CommentDetails
	if err := c.do(http.MethodPut, fmt.Sprintf("/api/comments/%d", id), dto.CommentInput{Comment: text}, http.StatusOK, &comment); err != nil {
		return nil, err
	}
	return &comment, nil
}

func (c *Client) DeleteComment(id int64) error {
	return c.do(http.MethodDelete, fmt.Sprintf("/api/comments/%d", id), nil, http.StatusNoContent, nil)
}

// DeleteAllComments removes every comment. Admin only.
func (c *Client) DeleteAllComments() error {
	return c.do(http.MethodDelete, "/api/comments", map[string]bool{"confirm": true}, http.StatusNoContent, nil)
}

func (c *Client) History(id int64) ([]dto.HistoryEntry, error) {
	var entries []dto.HistoryEntry
	if err := c.do(http.MethodGet, fmt.Sprintf("/api/comments/%d/history", id), nil, http.StatusOK, &entries); err != nil {
		return nil, err
	}
	return entries, nil
}

// do performs a request and decodes the response into out when the status
// matches want.
func (c *Client) do(method, path string, body any, want int, out any) error {
	resp, err := c.doRequest(method, path, body)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != want {
		apiErr := &APIError{Status: resp.StatusCode}
		raw, _ := io.ReadAll(resp.Body)
		if json.Unmarshal(raw, apiErr) != nil {
			apiErr.Msg = strings.TrimSpace(string(raw))
		}
		return apiErr
	}
	if out == nil {
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

// doRequest performs an HTTP request, authenticated when a token is held.
func (c *Client) doRequest(method, path string, body any) (*http.Response, error) {
	var bodyReader io.Reader
	if body != nil {
		bodyBytes, err := json.Marshal(body)
		if err != nil {
			return nil, err
		}
		bodyReader = bytes.NewReader(bodyBytes)
	}

	req, err := http.NewRequest(method, c.BaseURL+path, bodyReader)
	if err != nil {
		return nil, err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")
	if c.Token != "" {
		req.Header.Set("Authorization", "Bearer "+c.Token)
	}
	return c.HTTPClient.Do(req)
}

// TestPassword is the password TestHelper gives every account it creates.
const TestPassword = "correct-horse-battery"

// TestHelper provides utilities for creating authenticated clients in tests.
type TestHelper struct {
	BaseURL string
}

// NewTestHelper creates a new test helper for the given base URL.
func NewTestHelper(baseURL string) *TestHelper {
	return &TestHelper{BaseURL: baseURL}
}

// CreateAuthenticatedClient registers name with a derived email address
// and returns a signed-in client.
func (h *TestHelper) CreateAuthenticatedClient(name string) (*Client, error) {
	c := New(h.BaseURL)
	email := strings.ToLower(strings.ReplaceAll(name, " ", ".")) + "@example.test"
	if _, err := c.Register(name, email, TestPassword); err != nil {
		return nil, fmt.Errorf("register %s: %w", name, err)
	}
	if err := c.Login(email, TestPassword); err != nil {
		return nil, fmt.Errorf("login %s: %w", name, err)
	}
	return c, nil
}
