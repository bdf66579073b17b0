// Package hubclient is a Go client for the launcher HTTP API.
package hubclient

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/sirupsen/logrus"

	"launcher-api/internal/constants"
	"launcher-api/internal/models"
	"launcher-api/internal/routes"
)

// Client represents a launcher API client
type Client struct {
	httpClient *resty.Client
	logger     *logrus.Logger

	mu    sync.RWMutex
	token string
}

// APIError is a non-2xx response from the API
type APIError struct {
	Status  int
	Message string
}

// Error returns the error message
func (e *APIError) Error() string {
	return fmt.Sprintf("api error %d: %s", e.Status, e.Message)
}

// errorBody covers both the {message} and the {error, message} error shapes
type errorBody struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

// Option configures a Client
type Option func(*resty.Client)

// WithTimeout sets the per-request timeout
func WithTimeout(d time.Duration) Option {
	return func(c *resty.Client) { c.SetTimeout(d) }
}

// WithRetries sets how often failed GET requests are retried
func WithRetries(count int, wait time.Duration) Option {
	return func(c *resty.Client) {
		c.SetRetryCount(count).SetRetryWaitTime(wait)
	}
}

// NewClient creates a new API client for baseURL
func NewClient(baseURL string, logger *logrus.Logger, opts ...Option) *Client {
	httpClient := resty.New().
		SetBaseURL(baseURL).
		SetHeader("Content-Type", "application/json").
		SetTimeout(constants.DefaultRequestTimeout).
		SetRetryCount(constants.DefaultRetryCount).
		SetRetryWaitTime(constants.DefaultRetryWaitTime).
		SetRetryMaxWaitTime(constants.DefaultRetryMaxWaitTime).
		AddRetryCondition(retryIdempotent)

	for _, opt := range opts {
		opt(httpClient)
	}

	return &Client{
		httpClient: httpClient,
		logger:     logger,
	}
}

// retryIdempotent retries GET requests that failed in transport or with a 5xx status.
// Writes are attempted once.
func retryIdempotent(resp *resty.Response, err error) bool {
	if resp == nil || resp.Request == nil || resp.Request.Method != http.MethodGet {
		return false
	}
	return err != nil || resp.StatusCode() >= http.StatusInternalServerError
}

// SetToken sets the bearer token sent with every request
func (c *Client) SetToken(token string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.token = token
}

// Token returns the current bearer token
func (c *Client) Token() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.token
}

// do executes a request and decodes the JSON result into T
func do[T any](ctx context.Context, c *Client, method, path string, body interface{}, query map[string]string) (*T, error) {
	var result T
	var apiErr errorBody

	req := c.httpClient.R().
		SetContext(ctx).
		SetResult(&result).
		SetError(&apiErr)

	if token := c.Token(); token != "" {
		req.SetAuthToken(token)
	}
	if body != nil {
		req.SetBody(body)
	}
	if len(query) > 0 {
		req.SetQueryParams(query)
	}

	resp, err := req.Execute(method, path)
	if err != nil {
		return nil, fmt.Errorf("%s %s request failed: %w", method, path, err)
	}

	if resp.IsError() {
		msg := apiErr.Message
		if msg == "" {
			msg = apiErr.Error
		}
		if msg == "" {
			msg = string(resp.Body())
		}
		c.logger.Debugf("%s %s failed - Status: %d, Response: %s", method, path, resp.StatusCode(), string(resp.Body()))
		return nil, &APIError{Status: resp.StatusCode(), Message: msg}
	}

	return &result, nil
}

// AuthResponse is returned by signup and login
type AuthResponse struct {
	Token     string `json:"token"`
	Username  string `json:"username"`
	IsPremium bool   `json:"isPremium"`
}

// StatusResponse is the caller's own status
type StatusResponse struct {
	Username  string `json:"username"`
	IsPremium bool   `json:"isPremium"`
}

// SendResponse is returned when a chat message is posted
type SendResponse struct {
	Success   bool `json:"success"`
	MessageID int  `json:"messageId"`
}

// MessagesResponse holds a group's messages and the ones newer than since
type MessagesResponse struct {
	Messages    []models.Message `json:"messages"`
	NewMessages []models.Message `json:"newMessages"`
}

// BroadcastsResponse holds all broadcasts and the ones newer than since
type BroadcastsResponse struct {
	Broadcasts    []models.Broadcast `json:"broadcasts"`
	NewBroadcasts []models.Broadcast `json:"newBroadcasts"`
}

// PaymentResponse is returned when a payment is created or confirmed
type PaymentResponse struct {
	Success   bool   `json:"success"`
	Message   string `json:"message"`
	PaymentID int    `json:"paymentId"`
}

// MessageResponse is a plain acknowledgement
type MessageResponse struct {
	Message string `json:"message"`
}

// UsersResponse lists every user
type UsersResponse struct {
	Users []models.User `json:"users"`
}

// PaymentsResponse lists every payment
type PaymentsResponse struct {
	Payments []models.Payment `json:"payments"`
}

// BroadcastResponse is returned when a broadcast is published
type BroadcastResponse struct {
	Success   bool             `json:"success"`
	Broadcast models.Broadcast `json:"broadcast"`
}

// HealthResponse reports the server's store
type HealthResponse struct {
	Status     string `json:"status"`
	Backend    string `json:"backend"`
	Users      int    `json:"users"`
	Messages   int    `json:"messages"`
	Payments   int    `json:"payments"`
	Broadcasts int    `json:"broadcasts"`
}

// Signup creates an account and keeps the returned token
func (c *Client) Signup(ctx context.Context, username, password, email string) (*AuthResponse, error) {
	resp, err := do[AuthResponse](ctx, c, http.MethodPost, routes.Signup, map[string]string{
		"username": username,
		"password": password,
		"email":    email,
	}, nil)
	if err != nil {
		return nil, err
	}
	c.SetToken(resp.Token)
	return resp, nil
}

// Login signs in and keeps the returned token
func (c *Client) Login(ctx context.Context, username, password string) (*AuthResponse, error) {
	c.logger.Infof("Logging in to %s as %s", c.httpClient.BaseURL, username)

	resp, err := do[AuthResponse](ctx, c, http.MethodPost, routes.Login, map[string]string{
		"username": username,
		"password": password,
	}, nil)
	if err != nil {
		return nil, err
	}
	c.SetToken(resp.Token)
	return resp, nil
}

// Status returns the caller's premium status
func (c *Client) Status(ctx context.Context) (*StatusResponse, error) {
	return do[StatusResponse](ctx, c, http.MethodGet, routes.UserStatus, nil, nil)
}

// SendMessage posts a chat message to group
func (c *Client) SendMessage(ctx context.Context, group, message string) (*SendResponse, error) {
	return do[SendResponse](ctx, c, http.MethodPost, routes.ChatSend, map[string]string{
		"message": message,
		"group":   group,
	}, nil)
}

// Messages returns the messages of group, with those after since split out
func (c *Client) Messages(ctx context.Context, group string, since int) (*MessagesResponse, error) {
	return do[MessagesResponse](ctx, c, http.MethodGet, routes.ChatMessages, nil, map[string]string{
		"group": group,
		"since": strconv.Itoa(since),
	})
}

// Broadcasts returns every broadcast, with those after since split out
func (c *Client) Broadcasts(ctx context.Context, since int) (*BroadcastsResponse, error) {
	return do[BroadcastsResponse](ctx, c, http.MethodGet, routes.Broadcasts, nil, map[string]string{
		"since": strconv.Itoa(since),
	})
}

// CashPayment notifies the admin of a cash payment in dollars
func (c *Client) CashPayment(ctx context.Context, amount float64) (*PaymentResponse, error) {
	return do[PaymentResponse](ctx, c, http.MethodPost, routes.CashPayment, map[string]float64{"amount": amount}, nil)
}

// StripePayment records a card payment in cents
func (c *Client) StripePayment(ctx context.Context, cents int) (*PaymentResponse, error) {
	return do[PaymentResponse](ctx, c, http.MethodPost, routes.StripePayment, map[string]int{"amount": cents}, nil)
}

// PaymentReceipt downloads the PNG receipt of a payment
func (c *Client) PaymentReceipt(ctx context.Context, id int) ([]byte, error) {
	req := c.httpClient.R().
		SetContext(ctx).
		SetQueryParam("id", strconv.Itoa(id))
	if token := c.Token(); token != "" {
		req.SetAuthToken(token)
	}

	resp, err := req.Get(routes.PaymentQR)
	if err != nil {
		return nil, fmt.Errorf("payment receipt request failed: %w", err)
	}
	if resp.IsError() {
		return nil, &APIError{Status: resp.StatusCode(), Message: string(resp.Body())}
	}
	return resp.Body(), nil
}

// Users lists every user (admin only)
func (c *Client) Users(ctx context.Context) (*UsersResponse, error) {
	return do[UsersResponse](ctx, c, http.MethodGet, routes.AdminUsers, nil, nil)
}

// DeleteUser removes a user (admin only)
func (c *Client) DeleteUser(ctx context.Context, username string) (*MessageResponse, error) {
	return do[MessageResponse](ctx, c, http.MethodPost, routes.DeleteUser, map[string]string{"username": username}, nil)
}

// SetPremium grants or removes premium (admin only)
func (c *Client) SetPremium(ctx context.Context, username string, premium bool) (*MessageResponse, error) {
	path := routes.RemovePremium
	if premium {
		path = routes.GrantPremium
	}
	return do[MessageResponse](ctx, c, http.MethodPost, path, map[string]string{"username": username}, nil)
}

// Payments lists every payment (admin only)
func (c *Client) Payments(ctx context.Context) (*PaymentsResponse, error) {
	return do[PaymentsResponse](ctx, c, http.MethodGet, routes.AdminPayments, nil, nil)
}

// ConfirmPayment confirms a cash payment (admin only)
func (c *Client) ConfirmPayment(ctx context.Context, id int) (*PaymentResponse, error) {
	return do[PaymentResponse](ctx, c, http.MethodPost, routes.ConfirmPayment, map[string]int{"paymentId": id}, nil)
}

// Broadcast publishes a message to every client (admin only)
func (c *Client) Broadcast(ctx context.Context, message string) (*BroadcastResponse, error) {
	return do[BroadcastResponse](ctx, c, http.MethodPost, routes.Broadcast, map[string]string{"message": message}, nil)
}

// Health reports the server's store
func (c *Client) Health(ctx context.Context) (*HealthResponse, error) {
	return do[HealthResponse](ctx, c, http.MethodGet, routes.Health, nil, nil)
}
