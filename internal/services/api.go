// Reading-log backend client
package services

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/charmbracelet/log"
	"golang.org/x/oauth2"

	"github.com/lcleigh/page-hoppers-frontend/internal/models"
	"github.com/lcleigh/page-hoppers-frontend/internal/shared"
)

const (
	pathParentRegister   = "/api/auth/parent/register"
	pathParentLogin      = "/api/auth/parent/login"
	pathChildLogin       = "/api/auth/child/login"
	pathChildren         = "/api/children"
	pathChildReadingLogs = "/api/children/reading-logs"
	pathReadingLogs      = "/api/reading-logs"
	pathReadingSummary   = "/api/reading-logs/summary"
)

// APIError is a non-2xx response from the backend.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("%v: status %d", shared.ErrAPIRequest, e.StatusCode)
	}
	return fmt.Sprintf("%v (status %d): %s", shared.ErrAPIRequest, e.StatusCode, e.Message)
}

func (e *APIError) Unwrap() error {
	return shared.ErrAPIRequest
}

// Client implements [API] over HTTP against a single base URL.
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     *log.Logger
}

// NewClient creates a backend client. A nil client uses a zero [http.Client], which has no timeout.
func NewClient(baseURL string, client *http.Client, logger *log.Logger) *Client {
	if baseURL == "" {
		baseURL = "http://localhost:8080"
	}
	if client == nil {
		client = &http.Client{}
	}
	if logger == nil {
		logger = shared.NewLogger(io.Discard)
	}

	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: client,
		logger:     logger,
	}
}

// authorized returns an [http.Client] that attaches token as a bearer credential.
func (c *Client) authorized(token string) *http.Client {
	src := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token, TokenType: "Bearer"})
	return &http.Client{
		Transport: &oauth2.Transport{Source: src, Base: c.httpClient.Transport},
		Timeout:   c.httpClient.Timeout,
	}
}

// doRequest sends body as JSON and decodes a 2xx response into result.
//
// An empty token sends the request unauthenticated.
func (c *Client) doRequest(ctx context.Context, method, endpoint, token string, body, result any) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode request: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+endpoint, reader)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	client := c.httpClient
	if token != "" {
		client = c.authorized(token)
	}

	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", shared.ErrServiceUnavailable, err)
	}
	defer resp.Body.Close()

	c.logger.Debug("api request", "method", method, "path", endpoint, "status", resp.StatusCode)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return &APIError{StatusCode: resp.StatusCode, Message: errorMessage(resp.Body)}
	}

	if result != nil {
		if err := json.NewDecoder(resp.Body).Decode(result); err != nil && !errors.Is(err, io.EOF) {
			return fmt.Errorf("failed to decode response: %w", err)
		}
	}

	return nil
}

// errorMessage extracts a message/error field from a JSON body, falling back to the trimmed text.
func errorMessage(r io.Reader) string {
	data, err := io.ReadAll(io.LimitReader(r, 4096))
	if err != nil {
		return ""
	}

	var detail struct {
		Message string `json:"message"`
		Error   string `json:"error"`
	}
	if err := json.Unmarshal(data, &detail); err == nil {
		if detail.Message != "" {
			return detail.Message
		}
		if detail.Error != "" {
			return detail.Error
		}
	}
	return strings.TrimSpace(string(data))
}

// loginError maps a rejected login onto [shared.ErrInvalidCredentials].
func loginError(err error) error {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return fmt.Errorf("%w: %s", shared.ErrInvalidCredentials, apiErr.Message)
	}
	return err
}

func requireToken(token string) error {
	if token == "" {
		return shared.ErrNotAuthenticated
	}
	return nil
}

// RegisterParent posts the account and returns the confirmation message.
func (c *Client) RegisterParent(ctx context.Context, account models.ParentAccount) (string, error) {
	var resp struct {
		Message string `json:"message"`
	}
	if err := c.doRequest(ctx, http.MethodPost, pathParentRegister, "", account, &resp); err != nil {
		return "", err
	}
	return resp.Message, nil
}

// LoginParent returns a parent bearer token.
func (c *Client) LoginParent(ctx context.Context, email, password string) (string, error) {
	body := map[string]string{"email": email, "password": password}

	var resp struct {
		Token string `json:"token"`
	}
	if err := c.doRequest(ctx, http.MethodPost, pathParentLogin, "", body, &resp); err != nil {
		return "", loginError(err)
	}
	if resp.Token == "" {
		return "", fmt.Errorf("%w: empty token in response", shared.ErrInvalidCredentials)
	}
	return resp.Token, nil
}

// LoginChild returns a child bearer token.
func (c *Client) LoginChild(ctx context.Context, childID uint, pin string) (string, error) {
	body := struct {
		ChildID uint   `json:"childId"`
		PIN     string `json:"pin"`
	}{ChildID: childID, PIN: pin}

	var resp struct {
		Token string `json:"token"`
	}
	if err := c.doRequest(ctx, http.MethodPost, pathChildLogin, "", body, &resp); err != nil {
		return "", loginError(err)
	}
	if resp.Token == "" {
		return "", fmt.Errorf("%w: empty token in response", shared.ErrInvalidCredentials)
	}
	return resp.Token, nil
}

// ListChildren returns the parent's children.
func (c *Client) ListChildren(ctx context.Context, parentToken string) ([]models.ChildProfile, error) {
	if err := requireToken(parentToken); err != nil {
		return nil, err
	}

	var children []models.ChildProfile
	if err := c.doRequest(ctx, http.MethodGet, pathChildren, parentToken, nil, &children); err != nil {
		return nil, err
	}
	if children == nil {
		children = []models.ChildProfile{}
	}
	return children, nil
}

// CreateChild adds a child. The backend echoes only id and username, so the submitted name and age are merged in.
func (c *Client) CreateChild(ctx context.Context, parentToken string, child models.NewChild) (*models.ChildProfile, error) {
	if err := requireToken(parentToken); err != nil {
		return nil, err
	}

	var created models.ChildProfile
	if err := c.doRequest(ctx, http.MethodPost, pathChildren, parentToken, child, &created); err != nil {
		return nil, err
	}

	if created.Name == "" {
		created.Name = child.Name
	}
	if created.Age == 0 {
		created.Age = child.Age
	}
	if created.Username == "" {
		created.Username = child.Username
	}
	return &created, nil
}

// ListChildReadingLogs returns one child's log using the parent's token.
func (c *Client) ListChildReadingLogs(ctx context.Context, parentToken string, childID uint) ([]models.ReadingLog, error) {
	if err := requireToken(parentToken); err != nil {
		return nil, err
	}

	endpoint := pathChildReadingLogs + "?" + url.Values{"child_id": {strconv.FormatUint(uint64(childID), 10)}}.Encode()
	return c.listLogs(ctx, endpoint, parentToken)
}

// ListReadingLogs returns the child's own log.
func (c *Client) ListReadingLogs(ctx context.Context, childToken string) ([]models.ReadingLog, error) {
	if err := requireToken(childToken); err != nil {
		return nil, err
	}
	return c.listLogs(ctx, pathReadingLogs, childToken)
}

func (c *Client) listLogs(ctx context.Context, endpoint, token string) ([]models.ReadingLog, error) {
	var logs []models.ReadingLog
	if err := c.doRequest(ctx, http.MethodGet, endpoint, token, nil, &logs); err != nil {
		return nil, err
	}
	if logs == nil {
		logs = []models.ReadingLog{}
	}
	return logs, nil
}

// CreateReadingLog records an entry and returns it as stored.
func (c *Client) CreateReadingLog(ctx context.Context, childToken string, in models.ReadingLogInput) (*models.ReadingLog, error) {
	if err := requireToken(childToken); err != nil {
		return nil, err
	}

	var created models.ReadingLog
	if err := c.doRequest(ctx, http.MethodPost, pathReadingLogs, childToken, in, &created); err != nil {
		return nil, err
	}
	return &created, nil
}

// GetReadingSummary returns the child's summary.
func (c *Client) GetReadingSummary(ctx context.Context, childToken string) (*models.ReadingSummary, error) {
	if err := requireToken(childToken); err != nil {
		return nil, err
	}

	var summary models.ReadingSummary
	if err := c.doRequest(ctx, http.MethodGet, pathReadingSummary, childToken, nil, &summary); err != nil {
		return nil, err
	}
	return &summary, nil
}
