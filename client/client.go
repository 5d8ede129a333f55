// Package client is a typed HTTP client for the recipe operations API. It is
// what recipectl is built on, and is usable on its own by any Go program that
// needs to drive the admin surface.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/rasoihub/recipeops/internal/models"
	"github.com/rasoihub/recipeops/internal/types"
)

// OperatorHeader carries the operator email on every admin request.
const OperatorHeader = "X-Operator-Email"

// APIError is a non-2xx response decoded into its error message.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api: %s (status %d)", e.Message, e.StatusCode)
}

// Client talks to the recipe operations API. The zero value is not usable;
// construct it with New.
type Client struct {
	baseURL       string
	http          *http.Client
	token         string
	operatorEmail string
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

// WithToken sets the bearer token up front, for callers that persist it.
func WithToken(token string) Option {
	return func(c *Client) { c.token = token }
}

// WithOperatorEmail sets the operator identity sent on admin requests.
func WithOperatorEmail(email string) Option {
	return func(c *Client) { c.operatorEmail = email }
}

// New creates a client for the API at baseURL, e.g. "http://localhost:8080".
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: 30 * time.Second},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// SetToken replaces the bearer token, typically after Login.
func (c *Client) SetToken(token string) { c.token = token }

// Token returns the current bearer token.
func (c *Client) Token() string { return c.token }

func (c *Client) do(ctx context.Context, method, path string, body, out interface{}) error {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encoding request: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
	if c.operatorEmail != "" {
		req.Header.Set(OperatorHeader, c.operatorEmail)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return decodeError(resp)
	}

	if out == nil {
		io.Copy(io.Discard, resp.Body)
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

func decodeError(resp *http.Response) error {
	apiErr := &APIError{StatusCode: resp.StatusCode, Message: resp.Status}
	var body struct {
		Error   string `json:"error"`
		Message string `json:"message"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err == nil {
		if body.Error != "" {
			apiErr.Message = body.Error
		} else if body.Message != "" {
			apiErr.Message = body.Message
		}
	}
	return apiErr
}

// Login authenticates and stores the returned token on the client.
func (c *Client) Login(ctx context.Context, email, password string) (string, error) {
	var out struct {
		Token string `json:"token"`
	}
	body := map[string]string{"email": email, "password": password}
	if err := c.do(ctx, http.MethodPost, "/api/v1/auth/login", body, &out); err != nil {
		return "", err
	}
	c.token = out.Token
	return out.Token, nil
}

// ListRecipes fetches one page of recipes. status is optional.
func (c *Client) ListRecipes(ctx context.Context, page, limit int, status string) (*types.ListRecipesResponse, error) {
	q := url.Values{}
	q.Set("page", strconv.Itoa(page))
	q.Set("limit", strconv.Itoa(limit))
	if status != "" {
		q.Set("status", status)
	}

	var out types.ListRecipesResponse
	if err := c.do(ctx, http.MethodGet, "/api/v1/admin/recipes?"+q.Encode(), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// SearchRecipes runs a relevance-ordered search.
func (c *Client) SearchRecipes(ctx context.Context, query string) ([]models.Recipe, error) {
	q := url.Values{}
	q.Set("q", query)

	var out struct {
		Recipes []models.Recipe `json:"recipes"`
	}
	if err := c.do(ctx, http.MethodGet, "/api/v1/admin/recipes/search?"+q.Encode(), nil, &out); err != nil {
		return nil, err
	}
	return out.Recipes, nil
}

// GetRecipe fetches a single recipe by id.
func (c *Client) GetRecipe(ctx context.Context, id uuid.UUID) (*models.Recipe, error) {
	var out models.Recipe
	if err := c.do(ctx, http.MethodGet, "/api/v1/admin/recipes/"+id.String(), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// UpdateRecipe applies a partial update. Only non-nil fields of req are sent,
// and only those are written server side.
func (c *Client) UpdateRecipe(ctx context.Context, id uuid.UUID, req *types.UpdateRecipeRequest) (*models.Recipe, error) {
	var out models.Recipe
	if err := c.do(ctx, http.MethodPatch, "/api/v1/admin/recipes/"+id.String(), req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Stats fetches the aggregate recipe counters.
func (c *Client) Stats(ctx context.Context) (*types.StatsResponse, error) {
	var out types.StatsResponse
	if err := c.do(ctx, http.MethodGet, "/api/v1/admin/stats", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// StartSpecific starts a generation job for one recipe.
func (c *Client) StartSpecific(ctx context.Context, req *types.StartSpecificGenerationRequest) (*types.StartGenerationResponse, error) {
	var out types.StartGenerationResponse
	if err := c.do(ctx, http.MethodPost, "/api/v1/admin/generate/specific", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// StartMass starts a generation job over incomplete recipes.
func (c *Client) StartMass(ctx context.Context, req *types.StartMassGenerationRequest) (*types.StartGenerationResponse, error) {
	var out types.StartGenerationResponse
	if err := c.do(ctx, http.MethodPost, "/api/v1/admin/generate/mass", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// ListJobs fetches recent jobs, newest first.
func (c *Client) ListJobs(ctx context.Context, limit int) ([]models.GenerationJob, error) {
	q := url.Values{}
	if limit > 0 {
		q.Set("limit", strconv.Itoa(limit))
	}
	path := "/api/v1/admin/jobs"
	if encoded := q.Encode(); encoded != "" {
		path += "?" + encoded
	}

	var out struct {
		Jobs []models.GenerationJob `json:"jobs"`
	}
	if err := c.do(ctx, http.MethodGet, path, nil, &out); err != nil {
		return nil, err
	}
	return out.Jobs, nil
}

// LatestJob fetches the most recently created job.
func (c *Client) LatestJob(ctx context.Context) (*models.GenerationJob, error) {
	var out models.GenerationJob
	if err := c.do(ctx, http.MethodGet, "/api/v1/admin/jobs/latest", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// GetJob fetches a job by id.
func (c *Client) GetJob(ctx context.Context, id uuid.UUID) (*models.GenerationJob, error) {
	var out models.GenerationJob
	if err := c.do(ctx, http.MethodGet, "/api/v1/admin/jobs/"+id.String(), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// JobLogs fetches log lines newer than the after cursor. Pass the returned
// NextAfter on the next call to receive only new lines.
func (c *Client) JobLogs(ctx context.Context, id uuid.UUID, after uint) (*types.JobLogsResponse, error) {
	q := url.Values{}
	q.Set("after", strconv.FormatUint(uint64(after), 10))

	var out types.JobLogsResponse
	if err := c.do(ctx, http.MethodGet, "/api/v1/admin/jobs/"+id.String()+"/logs?"+q.Encode(), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// CancelJob requests cancellation of a running or pending job. Cancelling a
// job already in a terminal state returns an APIError with status 409.
func (c *Client) CancelJob(ctx context.Context, id uuid.UUID) error {
	return c.do(ctx, http.MethodPost, "/api/v1/admin/jobs/"+id.String()+"/cancel", nil, nil)
}

// Recommend asks for recipe recommendations matching the preferences.
func (c *Client) Recommend(ctx context.Context, req *types.RecommendRequest) (*types.RecommendResponse, error) {
	var out types.RecommendResponse
	if err := c.do(ctx, http.MethodPost, "/api/v1/recipes/recommend", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
