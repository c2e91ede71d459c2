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

	"github.com/gather/server/internal/models"
)

// APIError is a non-2xx answer from the API
type APIError struct {
	Status  int
	Message string
	Errors  string
	// Data is the undecoded payload, set for partial results such as a 422 from AddWorks
	Data json.RawMessage
}

func (e *APIError) Error() string {
	msg := e.Message
	if msg == "" {
		msg = e.Errors
	}
	return fmt.Sprintf("gather api: %d %s", e.Status, msg)
}

// Client calls the Gather API, authenticating with the token in its AuthStore
type Client struct {
	baseURL string
	http    *http.Client
	auth    *AuthStore
}

// New creates a client. A nil store gets a fresh one; a nil http client gets
// a 30 second timeout.
func New(baseURL string, auth *AuthStore, httpClient *http.Client) *Client {
	if auth == nil {
		auth = NewAuthStore()
	}
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 30 * time.Second}
	}
	return &Client{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		http:    httpClient,
		auth:    auth,
	}
}

// Auth exposes the session store
func (c *Client) Auth() *AuthStore {
	return c.auth
}

type envelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Errors  string          `json:"errors"`
	Data    json.RawMessage `json:"data"`
}

// do sends body as JSON and decodes the envelope's data into out. Non-2xx
// answers become *APIError; a 401 while logged in clears the session.
func (c *Client) do(ctx context.Context, method, path string, body, out interface{}) (int, error) {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return 0, err
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return 0, err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")
	if token := c.auth.Current().Token; token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()

	var env envelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		return resp.StatusCode, fmt.Errorf("failed to decode response (status %d): %w", resp.StatusCode, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		if resp.StatusCode == http.StatusUnauthorized && c.auth.Current().Authenticated() {
			c.auth.Clear()
		}
		return resp.StatusCode, &APIError{
			Status:  resp.StatusCode,
			Message: env.Message,
			Errors:  env.Errors,
			Data:    env.Data,
		}
	}

	if out != nil && len(env.Data) > 0 {
		if err := json.Unmarshal(env.Data, out); err != nil {
			return resp.StatusCode, fmt.Errorf("failed to decode data: %w", err)
		}
	}
	return resp.StatusCode, nil
}

// Register creates an account; it does not log in
func (c *Client) Register(ctx context.Context, req models.RegisterRequest) (*models.User, error) {
	var user models.User
	if _, err := c.do(ctx, http.MethodPost, "/users", req, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// Login exchanges credentials for a token and stores the session
func (c *Client) Login(ctx context.Context, email, password string) (*models.User, error) {
	var resp models.LoginResponse
	if _, err := c.do(ctx, http.MethodPost, "/auth/login", models.LoginRequest{Email: email, Password: password}, &resp); err != nil {
		return nil, err
	}
	c.auth.Set(resp.Token, resp.User)
	return resp.User, nil
}

// Logout forgets the session; tokens are stateless so the server is not called
func (c *Client) Logout() {
	c.auth.Clear()
}

// Me refreshes the stored user from the server
func (c *Client) Me(ctx context.Context) (*models.User, error) {
	var user models.User
	if _, err := c.do(ctx, http.MethodGet, "/auth/me", nil, &user); err != nil {
		return nil, err
	}
	c.auth.SetUser(&user)
	return &user, nil
}

// CreateCollection creates a collection owned by the logged in user
func (c *Client) CreateCollection(ctx context.Context, req models.CreateCollectionRequest) (*models.Collection, error) {
	var collection models.Collection
	if _, err := c.do(ctx, http.MethodPost, "/collections", req, &collection); err != nil {
		return nil, err
	}
	return &collection, nil
}

// GetCollection fetches one collection
func (c *Client) GetCollection(ctx context.Context, id string) (*models.Collection, error) {
	var collection models.Collection
	if _, err := c.do(ctx, http.MethodGet, "/collections/"+url.PathEscape(id), nil, &collection); err != nil {
		return nil, err
	}
	return &collection, nil
}

// MyCollections lists owned and shared collections
func (c *Client) MyCollections(ctx context.Context) (*models.CollectionListResponse, error) {
	var list models.CollectionListResponse
	if _, err := c.do(ctx, http.MethodGet, "/collections/me", nil, &list); err != nil {
		return nil, err
	}
	return &list, nil
}

// AddWorks adds works and returns the partition with the HTTP status (200,
// 207 or 422). A 422 is not reported as an error.
func (c *Client) AddWorks(ctx context.Context, collectionID string, workIDs []string) (*models.AddWorksResult, int, error) {
	var result models.AddWorksResult
	status, err := c.do(ctx, http.MethodPost, "/collections/"+url.PathEscape(collectionID)+"/works",
		models.WorkIDsRequest{WorkIDs: workIDs}, &result)
	var apiErr *APIError
	if errors.As(err, &apiErr) && apiErr.Status == http.StatusUnprocessableEntity && len(apiErr.Data) > 0 {
		if jsonErr := json.Unmarshal(apiErr.Data, &result); jsonErr != nil {
			return nil, status, jsonErr
		}
		return &result, status, nil
	}
	if err != nil {
		return nil, status, err
	}
	return &result, status, nil
}

// Share invites a guest to a collection
func (c *Client) Share(ctx context.Context, req models.CreateShareRequest) (*models.Share, error) {
	var share models.Share
	if _, err := c.do(ctx, http.MethodPost, "/shares", req, &share); err != nil {
		return nil, err
	}
	return &share, nil
}

// AnswerShare sets the status of a share addressed to the logged in user
func (c *Client) AnswerShare(ctx context.Context, shareID string, status models.ShareStatus) (*models.Share, error) {
	var share models.Share
	_, err := c.do(ctx, http.MethodPatch, "/shares/"+url.PathEscape(shareID)+"/status",
		models.UpdateShareStatusRequest{Status: string(status)}, &share)
	if err != nil {
		return nil, err
	}
	return &share, nil
}

// Notifications lists notifications, only unread ones when unreadOnly is set
func (c *Client) Notifications(ctx context.Context, unreadOnly bool) ([]*models.Notification, error) {
	path := "/notifications"
	if unreadOnly {
		path += "/unread"
	}
	notifications := []*models.Notification{}
	if _, err := c.do(ctx, http.MethodGet, path, nil, &notifications); err != nil {
		return nil, err
	}
	return notifications, nil
}

// Works searches the catalog
func (c *Client) Works(ctx context.Context, query url.Values) (*models.WorkListResponse, error) {
	path := "/works"
	if len(query) > 0 {
		path += "?" + query.Encode()
	}
	var list models.WorkListResponse
	if _, err := c.do(ctx, http.MethodGet, path, nil, &list); err != nil {
		return nil, err
	}
	return &list, nil
}
