// Package apiclient talks to the activity signup service over HTTP.
package apiclient

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jrsteele09/go-activity-signup/activities"
	apperrors "github.com/jrsteele09/go-activity-signup/internal/errors"
	"github.com/rs/zerolog/log"
	"github.com/tidwall/gjson"
)

const (
	headerAuthorization = "Authorization"
	headerRequestID     = "X-Request-ID"
	contentTypeJSON     = "application/json"
)

var _ activities.API = (*Client)(nil)

// Client implements activities.API against the signup service.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// Option defines a function type to modify the Client instance.
type Option func(*Client)

// WithHTTPClient replaces the default http.Client
func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *Client) {
		c.httpClient = httpClient
	}
}

// New returns a Client for the service rooted at baseURL (e.g. "https://school.example.com").
func New(baseURL string, options ...Option) (*Client, error) {
	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("[apiclient New] invalid base URL %q: %w", baseURL, err)
	}
	if u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("[apiclient New] base URL %q must be absolute", baseURL)
	}

	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{},
	}

	for _, opt := range options {
		opt(c)
	}

	return c, nil
}

// List fetches GET /activities. The catalog keeps the key order of the response object.
func (c *Client) List(ctx context.Context) (activities.Catalog, error) {
	body, err := c.do(ctx, http.MethodGet, "/activities", nil, "")
	if err != nil {
		return nil, err
	}
	return parseCatalog(body)
}

// AuthStatus calls GET /auth/status with the given Basic header.
func (c *Client) AuthStatus(ctx context.Context, authHeader string) (activities.Teacher, error) {
	body, err := c.do(ctx, http.MethodGet, "/auth/status", nil, authHeader)
	if err != nil {
		return activities.Teacher{}, err
	}
	if !gjson.ValidBytes(body) {
		return activities.Teacher{}, fmt.Errorf("[apiclient AuthStatus] %w: malformed JSON", apperrors.ErrInvalidResponse)
	}

	result := gjson.ParseBytes(body)
	return activities.Teacher{
		Name:     result.Get("teacher").String(),
		Username: result.Get("username").String(),
	}, nil
}

// Signup calls POST /activities/{activity}/signup?email={email}.
func (c *Client) Signup(ctx context.Context, authHeader, activity, email string) (string, error) {
	return c.registration(ctx, http.MethodPost, activity, "signup", email, authHeader)
}

// Unregister calls DELETE /activities/{activity}/unregister?email={email}.
func (c *Client) Unregister(ctx context.Context, authHeader, activity, email string) (string, error) {
	return c.registration(ctx, http.MethodDelete, activity, "unregister", email, authHeader)
}

func (c *Client) registration(ctx context.Context, method, activity, action, email, authHeader string) (string, error) {
	path := "/activities/" + url.PathEscape(activity) + "/" + action
	body, err := c.do(ctx, method, path, url.Values{"email": {email}}, authHeader)
	if err != nil {
		return "", err
	}
	// A body without a string message yields "", the caller supplies its own text.
	message := gjson.GetBytes(body, "message")
	if message.Type != gjson.String {
		return "", nil
	}
	return message.String(), nil
}

// do performs the request and returns the body of a 2xx response. Non-2xx
// responses become *activities.APIError, network failures wrap ErrTransport.
func (c *Client) do(ctx context.Context, method, path string, query url.Values, authHeader string) ([]byte, error) {
	target := c.baseURL + path
	if len(query) > 0 {
		target += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, method, target, nil)
	if err != nil {
		return nil, fmt.Errorf("[apiclient %s %s] build request: %w", method, path, err)
	}

	requestID := uuid.New().String()
	req.Header.Set("Accept", contentTypeJSON)
	req.Header.Set(headerRequestID, requestID)
	if authHeader != "" {
		req.Header.Set(headerAuthorization, authHeader)
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("[apiclient %s %s] %w: %w", method, path, apperrors.ErrTransport, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("[apiclient %s %s] read body: %w: %w", method, path, apperrors.ErrTransport, err)
	}

	log.Debug().
		Str("request_id", requestID).
		Str("method", method).
		Str("path", path).
		Int("status", resp.StatusCode).
		Dur("elapsed", time.Since(start)).
		Msg("API request")

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &activities.APIError{StatusCode: resp.StatusCode, Detail: detail(body)}
	}
	return body, nil
}

// detail extracts a string "detail" field. FastAPI style validation errors
// carry a list there, which is not meant for display.
func detail(body []byte) string {
	if !gjson.ValidBytes(body) {
		return ""
	}
	d := gjson.GetBytes(body, "detail")
	if d.Type != gjson.String {
		return ""
	}
	return d.String()
}

func parseCatalog(body []byte) (activities.Catalog, error) {
	if !gjson.ValidBytes(body) {
		return nil, fmt.Errorf("[apiclient parseCatalog] %w: malformed JSON", apperrors.ErrInvalidResponse)
	}

	root := gjson.ParseBytes(body)
	if !root.IsObject() {
		return nil, fmt.Errorf("[apiclient parseCatalog] %w: expected an object, got %s", apperrors.ErrInvalidResponse, root.Type)
	}

	catalog := activities.Catalog{}
	root.ForEach(func(key, value gjson.Result) bool {
		activity := activities.Activity{
			Name:            key.String(),
			Description:     value.Get("description").String(),
			Schedule:        value.Get("schedule").String(),
			MaxParticipants: int(value.Get("max_participants").Int()),
			Participants:    []string{},
		}
		for _, p := range value.Get("participants").Array() {
			activity.Participants = append(activity.Participants, p.String())
		}
		catalog = append(catalog, activity)
		return true
	})

	return catalog, nil
}
