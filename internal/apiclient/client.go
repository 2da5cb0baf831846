// Package apiclient is the typed HTTP client for the job-board REST API.
//
// Every call takes the bearer token explicitly. An empty token sends the
// request without an Authorization header and leaves it to the server to
// refuse; the client never decides on its own that a call needs auth.
package apiclient

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
	"time"

	"golang.org/x/oauth2"

	"github.com/justsurfingit/jobboard-web/internal/dtos"
	"github.com/justsurfingit/jobboard-web/internal/models"
)

const maxResponseBytes = 8 << 20

// Config configures a Client.
type Config struct {
	// BaseURL is the API root, e.g. "http://localhost:5000/api".
	BaseURL string
	// Timeout bounds every request. Zero means 15 seconds.
	Timeout time.Duration
	// Transport is the base round tripper. Nil uses http.DefaultTransport.
	Transport http.RoundTripper
}

// Client talks to the job-board API. It is safe for concurrent use.
type Client struct {
	baseURL   string
	timeout   time.Duration
	transport http.RoundTripper
	anonymous *http.Client
}

// New validates cfg and returns a Client.
func New(cfg Config) (*Client, error) {
	if cfg.BaseURL == "" {
		return nil, errors.New("apiclient: base URL is required")
	}
	parsed, err := url.Parse(cfg.BaseURL)
	if err != nil || parsed.Scheme == "" || parsed.Host == "" {
		return nil, fmt.Errorf("apiclient: invalid base URL %q", cfg.BaseURL)
	}
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 15 * time.Second
	}
	transport := cfg.Transport
	if transport == nil {
		transport = http.DefaultTransport
	}
	return &Client{
		baseURL:   strings.TrimRight(cfg.BaseURL, "/"),
		timeout:   timeout,
		transport: transport,
		anonymous: &http.Client{Timeout: timeout, Transport: transport},
	}, nil
}

// httpClient returns a client that attaches "Authorization: Bearer <token>"
// when token is set.
func (c *Client) httpClient(token string) *http.Client {
	if token == "" {
		return c.anonymous
	}
	return &http.Client{
		Timeout: c.timeout,
		Transport: &oauth2.Transport{
			Source: oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token, TokenType: "Bearer"}),
			Base:   c.transport,
		},
	}
}

// ─── Auth ─────────────────────────────────────────────────────────────────────

// Login exchanges credentials for a token and user.
func (c *Client) Login(ctx context.Context, req dtos.LoginRequest) (*dtos.AuthResponse, error) {
	return c.authenticate(ctx, "/auth/login", req)
}

// Signup creates an account and returns the same shape as Login.
func (c *Client) Signup(ctx context.Context, req dtos.SignupRequest) (*dtos.AuthResponse, error) {
	return c.authenticate(ctx, "/auth/signup", req)
}

func (c *Client) authenticate(ctx context.Context, path string, req any) (*dtos.AuthResponse, error) {
	body, err := c.doRequest(ctx, http.MethodPost, path, "", nil, req)
	if err != nil {
		return nil, err
	}
	var resp dtos.AuthResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("api: decode %s response: %w", path, err)
	}
	if resp.Token == "" || resp.User == nil {
		return nil, ErrInvalidAuthResponse
	}
	return &resp, nil
}

// ─── Jobs ─────────────────────────────────────────────────────────────────────

// JobQuery narrows GET /jobs. Zero values are omitted from the query.
type JobQuery struct {
	Company string
	Limit   int
}

// ListJobs returns active jobs, newest first as ordered by the API.
func (c *Client) ListJobs(ctx context.Context, q JobQuery) ([]models.Job, error) {
	params := url.Values{}
	if q.Limit > 0 {
		params.Set("limit", strconv.Itoa(q.Limit))
	}
	if q.Company != "" {
		params.Set("company", q.Company)
	}
	body, err := c.doRequest(ctx, http.MethodGet, "/jobs", "", params, nil)
	if err != nil {
		return nil, err
	}
	return decodeJobs(body)
}

// CreateJob submits a manually entered job.
func (c *Client) CreateJob(ctx context.Context, token string, req dtos.JobCreationRequest) error {
	_, err := c.doRequest(ctx, http.MethodPost, "/jobs", token, nil, req)
	return err
}

// SetFeedback records a thumbs signal. A nil status clears it, which is
// also how a rejected job is put back into the review queue.
func (c *Client) SetFeedback(ctx context.Context, token, jobID string, status *string) error {
	_, err := c.doRequest(ctx, http.MethodPatch, "/jobs/"+url.PathEscape(jobID)+"/feedback", token, nil,
		dtos.FeedbackRequest{Status: status})
	return err
}

// Analyze asks the API to rerun classification on a job.
func (c *Client) Analyze(ctx context.Context, token, jobID string) error {
	_, err := c.doRequest(ctx, http.MethodPost, "/jobs/"+url.PathEscape(jobID)+"/analyze", token, nil, nil)
	return err
}

// ─── Moderation ───────────────────────────────────────────────────────────────

// PendingJobs lists jobs awaiting an admin decision.
func (c *Client) PendingJobs(ctx context.Context, token string) ([]models.Job, error) {
	body, err := c.doRequest(ctx, http.MethodGet, "/jobs/admin/review", token, nil, nil)
	if err != nil {
		return nil, err
	}
	return decodeJobs(body)
}

// RejectedJobs lists jobs an admin rejected.
func (c *Client) RejectedJobs(ctx context.Context, token string) ([]models.Job, error) {
	body, err := c.doRequest(ctx, http.MethodGet, "/jobs/rejected", token, nil, nil)
	if err != nil {
		return nil, err
	}
	return decodeJobs(body)
}

// Decide sends an accept or reject decision for a pending job.
func (c *Client) Decide(ctx context.Context, token, jobID, decision string) error {
	_, err := c.doRequest(ctx, http.MethodPatch, "/jobs/admin/decision/"+url.PathEscape(jobID), token, nil,
		dtos.DecisionRequest{Decision: decision})
	return err
}

// ─── Directory ────────────────────────────────────────────────────────────────

// ListCompanies returns the company directory. A payload that is not a
// JSON array yields ErrUnexpectedShape.
func (c *Client) ListCompanies(ctx context.Context) ([]models.Company, error) {
	body, err := c.doRequest(ctx, http.MethodGet, "/jobs/directory", "", nil, nil)
	if err != nil {
		return nil, err
	}
	return decodeList[models.Company](body)
}

// CreateCompany adds a manual directory entry.
func (c *Client) CreateCompany(ctx context.Context, token string, req dtos.CompanyCreationRequest) error {
	_, err := c.doRequest(ctx, http.MethodPost, "/jobs/companies", token, nil, req)
	return err
}

// DeleteManualCompany removes a manual entry by id.
func (c *Client) DeleteManualCompany(ctx context.Context, token, id string) error {
	_, err := c.doRequest(ctx, http.MethodDelete, "/jobs/companies/"+url.PathEscape(id), token, nil, nil)
	return err
}

// DeleteScrapedCompany removes a scraped company and all of its jobs.
func (c *Client) DeleteScrapedCompany(ctx context.Context, token, name string) error {
	_, err := c.doRequest(ctx, http.MethodDelete, "/jobs/company", token, url.Values{"name": {name}}, nil)
	return err
}

// ─── Transport ────────────────────────────────────────────────────────────────

func (c *Client) doRequest(ctx context.Context, method, path, token string, query url.Values, requestBody any) ([]byte, error) {
	requestURL := c.baseURL + path
	if len(query) > 0 {
		requestURL += "?" + query.Encode()
	}

	var bodyReader io.Reader
	if requestBody != nil {
		encoded, err := json.Marshal(requestBody)
		if err != nil {
			return nil, fmt.Errorf("api: encode request body: %w", err)
		}
		bodyReader = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, requestURL, bodyReader)
	if err != nil {
		return nil, fmt.Errorf("api: create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if requestBody != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient(token).Do(req)
	if err != nil {
		return nil, fmt.Errorf("api: %s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, fmt.Errorf("api: read %s %s response: %w", method, path, err)
	}

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return body, nil
	}
	return nil, parseError(resp.StatusCode, body)
}

func parseError(status int, body []byte) *APIError {
	var payload struct {
		Error   string `json:"error"`
		Message string `json:"message"`
	}
	apiErr := &APIError{StatusCode: status, Message: http.StatusText(status)}
	if json.Unmarshal(body, &payload) == nil {
		switch {
		case payload.Error != "":
			apiErr.Message, apiErr.FromServer = payload.Error, true
		case payload.Message != "":
			apiErr.Message, apiErr.FromServer = payload.Message, true
		}
	}
	return apiErr
}

// decodeJobs accepts either a bare array or the {"jobs": [...]} envelope.
func decodeJobs(body []byte) ([]models.Job, error) {
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) > 0 && trimmed[0] == '{' {
		// A missing or null "jobs" decodes to nil; an empty array does not.
		var list dtos.JobList
		if err := json.Unmarshal(trimmed, &list); err != nil || list.Jobs == nil {
			return nil, ErrUnexpectedShape
		}
		return list.Jobs, nil
	}
	return decodeList[models.Job](trimmed)
}

func decodeList[T any](body []byte) ([]T, error) {
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 || trimmed[0] != '[' {
		return nil, ErrUnexpectedShape
	}
	items := make([]T, 0)
	if err := json.Unmarshal(trimmed, &items); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnexpectedShape, err)
	}
	return items, nil
}
