// Package api is the HTTP client of the FraudBase REST API.
//
// Every request carries "Authorization: Bearer <token>" with the token of
// the injected TokenSource. A missing token is sent as an empty bearer;
// the server decides. No timeout is set on the underlying http.Client, so
// callers bound requests with their context.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/DukeRupert/fraudbase/internal/domain"
)

// TokenSource supplies the bearer token. *session.Session satisfies it.
type TokenSource interface {
	Token() string
}

// Client talks to one FraudBase server.
type Client struct {
	httpClient *http.Client
	baseURL    string
	tokens     TokenSource
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the default http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// NewClient creates a client for baseURL (e.g. "http://localhost:8080").
func NewClient(baseURL string, tokens TokenSource, opts ...Option) *Client {
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		tokens:     tokens,
		httpClient: &http.Client{},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// =============================================================================
// Errors
// =============================================================================

// APIError is a non-2xx answer from the server.
type APIError struct {
	Status  int
	Code    string
	Message string
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("server error (%d): %s", e.Status, e.Message)
	}
	return fmt.Sprintf("request failed with status %d", e.Status)
}

// StatusOf returns the HTTP status of an *APIError in err's chain, or 0.
func StatusOf(err error) int {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Status
	}
	return 0
}

// IsNotFound reports whether err is a 404 from the server.
func IsNotFound(err error) bool {
	return StatusOf(err) == http.StatusNotFound
}

// IsUnauthorized reports whether err is a 401 from the server.
func IsUnauthorized(err error) bool {
	return StatusOf(err) == http.StatusUnauthorized
}

// =============================================================================
// Request Plumbing
// =============================================================================

func (c *Client) newRequest(ctx context.Context, method, path, rawQuery string, body io.Reader) (*http.Request, error) {
	target := c.baseURL + path
	if rawQuery != "" {
		target += "?" + rawQuery
	}

	req, err := http.NewRequestWithContext(ctx, method, target, body)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	token := ""
	if c.tokens != nil {
		token = c.tokens.Token()
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Accept", "application/json")
	return req, nil
}

// doRequest sends a JSON request and decodes a JSON response into result.
func (c *Client) doRequest(ctx context.Context, method, path, rawQuery string, body, result any) error {
	var bodyReader io.Reader
	if body != nil {
		jsonData, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to marshal request body: %w", err)
		}
		bodyReader = bytes.NewReader(jsonData)
	}

	req, err := c.newRequest(ctx, method, path, rawQuery, bodyReader)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	return c.send(req, result)
}

func (c *Client) send(req *http.Request, result any) error {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return decodeAPIError(resp.StatusCode, respBody)
	}

	if result != nil && len(respBody) > 0 {
		if err := json.Unmarshal(respBody, result); err != nil {
			return fmt.Errorf("failed to decode response: %w", err)
		}
	}
	return nil
}

func decodeAPIError(status int, body []byte) error {
	apiErr := &APIError{Status: status}
	var errResp struct {
		Error struct {
			Code    string `json:"code"`
			Message string `json:"message"`
		} `json:"error"`
	}
	if err := json.Unmarshal(body, &errResp); err == nil {
		apiErr.Code = errResp.Error.Code
		apiErr.Message = errResp.Error.Message
	}
	return apiErr
}

// =============================================================================
// Auth & Users
// =============================================================================

// Login exchanges credentials for a token.
func (c *Client) Login(ctx context.Context, username, password string) (*domain.LoginResult, error) {
	var resp domain.LoginResult
	body := map[string]string{"username": username, "password": password}
	if err := c.doRequest(ctx, http.MethodPost, "/api/login", "", body, &resp); err != nil {
		return nil, fmt.Errorf("login request failed: %w", err)
	}
	return &resp, nil
}

func (c *Client) ListUsers(ctx context.Context) ([]domain.User, error) {
	var users []domain.User
	if err := c.doRequest(ctx, http.MethodGet, "/api/users", "", nil, &users); err != nil {
		return nil, fmt.Errorf("list users failed: %w", err)
	}
	return users, nil
}

func (c *Client) GetUser(ctx context.Context, id int64) (*domain.User, error) {
	var user domain.User
	if err := c.doRequest(ctx, http.MethodGet, "/api/users/"+strconv.FormatInt(id, 10), "", nil, &user); err != nil {
		return nil, fmt.Errorf("get user failed: %w", err)
	}
	return &user, nil
}

func (c *Client) CreateUser(ctx context.Context, params domain.UserParams) (*domain.User, error) {
	var user domain.User
	if err := c.doRequest(ctx, http.MethodPost, "/api/users", "", params, &user); err != nil {
		return nil, fmt.Errorf("create user failed: %w", err)
	}
	return &user, nil
}

func (c *Client) UpdateUser(ctx context.Context, params domain.UserParams) (*domain.User, error) {
	var user domain.User
	if err := c.doRequest(ctx, http.MethodPut, "/api/users", "", params, &user); err != nil {
		return nil, fmt.Errorf("update user failed: %w", err)
	}
	return &user, nil
}

func (c *Client) ChangePassword(ctx context.Context, params domain.PasswordChangeParams) error {
	if err := c.doRequest(ctx, http.MethodPut, "/api/users/password", "", params, nil); err != nil {
		return fmt.Errorf("change password failed: %w", err)
	}
	return nil
}

func (c *Client) DeleteUser(ctx context.Context, id int64) error {
	if err := c.doRequest(ctx, http.MethodDelete, "/api/users/"+strconv.FormatInt(id, 10), "", nil, nil); err != nil {
		return fmt.Errorf("delete user failed: %w", err)
	}
	return nil
}

// =============================================================================
// Persons
// =============================================================================

// SearchPersons runs a search with an already encoded query string.
func (c *Client) SearchPersons(ctx context.Context, rawQuery string) (*domain.Page[domain.Person], error) {
	var page domain.Page[domain.Person]
	if err := c.doRequest(ctx, http.MethodGet, "/api/consulta-envolvidos", rawQuery, nil, &page); err != nil {
		return nil, err
	}
	return &page, nil
}

// GetPerson fetches one full record.
func (c *Client) GetPerson(ctx context.Context, id int64) (*domain.Person, error) {
	var p domain.Person
	if err := c.doRequest(ctx, http.MethodGet, "/api/consulta-envolvidos/"+strconv.FormatInt(id, 10), "", nil, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

// CreatePerson registers a record.
func (c *Client) CreatePerson(ctx context.Context, p domain.Person) (*domain.Person, error) {
	var created domain.Person
	if err := c.doRequest(ctx, http.MethodPost, "/api/envolvidos", "", p, &created); err != nil {
		return nil, fmt.Errorf("create person failed: %w", err)
	}
	return &created, nil
}

// =============================================================================
// Recidivism & Reports
// =============================================================================

func pagingQuery(page, limit int) string {
	v := url.Values{}
	v.Set("page", strconv.Itoa(page))
	v.Set("limit", strconv.Itoa(limit))
	return v.Encode()
}

// RecidivismByCPF fetches one page of the CPF ranking.
func (c *Client) RecidivismByCPF(ctx context.Context, page, limit int) (*domain.Page[domain.RecidivismRecord], error) {
	var resp domain.Page[domain.RecidivismRecord]
	if err := c.doRequest(ctx, http.MethodGet, "/api/reincidencia/cpf", pagingQuery(page, limit), nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// RecidivismByPhone fetches one page of the phone ranking.
func (c *Client) RecidivismByPhone(ctx context.Context, page, limit int) (*domain.Page[domain.PhoneRecidivismRecord], error) {
	var resp domain.Page[domain.PhoneRecidivismRecord]
	if err := c.doRequest(ctx, http.MethodGet, "/api/reincidencia/telefone", pagingQuery(page, limit), nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// ReportTicket is the answer to a report request.
type ReportTicket struct {
	JobID    string `json:"jobId"`
	ReportID string `json:"reportId"`
	Status   string `json:"status"`
}

// RequestReport queues a server-side PDF for cpf.
func (c *Client) RequestReport(ctx context.Context, cpf string, style domain.ReportStyle) (*ReportTicket, error) {
	var ticket ReportTicket
	q := url.Values{"estilo": {style.String()}}.Encode()
	path := "/api/reincidencia/cpf/" + url.PathEscape(cpf) + "/relatorio"
	if err := c.doRequest(ctx, http.MethodPost, path, q, nil, &ticket); err != nil {
		return nil, fmt.Errorf("report request failed: %w", err)
	}
	return &ticket, nil
}

// FetchReport downloads a report into w. When the report is not ready the
// returned record describes it and nothing is written.
func (c *Client) FetchReport(ctx context.Context, id string, w io.Writer) (*domain.GeneratedReport, bool, error) {
	req, err := c.newRequest(ctx, http.MethodGet, "/api/relatorios/"+url.PathEscape(id), "", nil)
	if err != nil {
		return nil, false, err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, false, fmt.Errorf("request failed: %w", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(resp.Body)
		return nil, false, decodeAPIError(resp.StatusCode, body)
	}

	if strings.HasPrefix(resp.Header.Get("Content-Type"), domain.ReportContentType) {
		if _, err := io.Copy(w, resp.Body); err != nil {
			return nil, false, fmt.Errorf("failed to read report: %w", err)
		}
		return nil, true, nil
	}

	var report domain.GeneratedReport
	if err := json.NewDecoder(resp.Body).Decode(&report); err != nil {
		return nil, false, fmt.Errorf("failed to decode response: %w", err)
	}
	return &report, false, nil
}

// =============================================================================
// Upload, Maintenance, Dashboard, Lookups
// =============================================================================

// UploadReport sends a workbook in the "relatorio" multipart field.
func (c *Client) UploadReport(ctx context.Context, filename string, content io.Reader) (*domain.ImportResult, error) {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, err := mw.CreateFormFile(domain.UploadFormField, filename)
	if err != nil {
		return nil, fmt.Errorf("failed to build form: %w", err)
	}
	if _, err := io.Copy(fw, content); err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}
	if err := mw.Close(); err != nil {
		return nil, fmt.Errorf("failed to build form: %w", err)
	}

	req, err := c.newRequest(ctx, http.MethodPost, "/api/upload-relatorio", "", &buf)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())

	var result domain.ImportResult
	if err := c.send(req, &result); err != nil {
		return nil, fmt.Errorf("upload failed: %w", err)
	}
	return &result, nil
}

func (c *Client) CleanDuplicates(ctx context.Context) (*domain.CleanupResult, error) {
	var result domain.CleanupResult
	if err := c.doRequest(ctx, http.MethodPost, "/api/clean-duplicates", "", nil, &result); err != nil {
		return nil, fmt.Errorf("clean duplicates failed: %w", err)
	}
	return &result, nil
}

func (c *Client) BOStatistics(ctx context.Context) (*domain.BOStatistics, error) {
	var stats domain.BOStatistics
	if err := c.doRequest(ctx, http.MethodGet, "/api/bo-statistics", "", nil, &stats); err != nil {
		return nil, fmt.Errorf("bo statistics failed: %w", err)
	}
	return &stats, nil
}

// Dashboard gathers every dashboard series.
type Dashboard struct {
	VictimsBySex       []domain.SexCount
	VictimsByAge       []domain.AgeBracketCount
	TotalBOs           domain.Count
	TotalOffenders     domain.Count
	TotalVictims       domain.Count
	OffendersByStation []domain.StationCount
}

// Dashboard fetches the six dashboard endpoints in order and stops at the
// first error.
func (c *Client) Dashboard(ctx context.Context) (*Dashboard, error) {
	var d Dashboard
	calls := []struct {
		path string
		out  any
	}{
		{"/api/dashboard/vitimas-por-sexo", &d.VictimsBySex},
		{"/api/dashboard/vitimas-por-faixa-etaria", &d.VictimsByAge},
		{"/api/dashboard/quantidade-bos", &d.TotalBOs},
		{"/api/dashboard/quantidade-infratores", &d.TotalOffenders},
		{"/api/dashboard/quantidade-vitimas", &d.TotalVictims},
		{"/api/dashboard/infratores-por-delegacia", &d.OffendersByStation},
	}
	for _, call := range calls {
		if err := c.doRequest(ctx, http.MethodGet, call.path, "", nil, call.out); err != nil {
			return nil, fmt.Errorf("%s: %w", call.path, err)
		}
	}
	return &d, nil
}

// RefreshViews asks the server to recompute the dashboard views.
func (c *Client) RefreshViews(ctx context.Context) (string, error) {
	var resp struct {
		JobID string `json:"jobId"`
	}
	if err := c.doRequest(ctx, http.MethodPost, "/api/refresh-views", "", nil, &resp); err != nil {
		return "", fmt.Errorf("refresh views failed: %w", err)
	}
	return resp.JobID, nil
}

// Lookup fetches one auxiliary list by name: municipios, ufs, paises,
// delegacias or bancos. The raw JSON is returned for display.
func (c *Client) Lookup(ctx context.Context, name, uf string) (json.RawMessage, error) {
	switch name {
	case "municipios", "ufs", "paises", "delegacias", "bancos":
	default:
		return nil, fmt.Errorf("unknown list %q", name)
	}
	q := ""
	if name == "municipios" && uf != "" {
		q = url.Values{"uf": {uf}}.Encode()
	}
	var raw json.RawMessage
	if err := c.doRequest(ctx, http.MethodGet, "/api/"+name, q, nil, &raw); err != nil {
		return nil, err
	}
	return raw, nil
}
