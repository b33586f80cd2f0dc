package infra

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"solution-gateway/solution/domain"
)

// DefaultUpstreamURL é o endpoint público da API de soluções.
const DefaultUpstreamURL = "https://oahelper.in/solution-requests.php"

// maxBodyBytes limita a leitura da resposta do upstream.
const maxBodyBytes = 4 << 20

// solutionResponse é o corpo JSON devolvido pela API.
//
// Data fica cru: em falhas a API (PHP) pode mandar [] ou "" no lugar do objeto.
type solutionResponse struct {
	Status  string          `json:"status"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data,omitempty"`
}

type solutionData struct {
	Solution string `json:"solution"`
}

// solution devolve data.solution quando data é um objeto; qualquer outro
// formato conta como payload ausente.
func (r solutionResponse) solution() string {
	raw := bytes.TrimSpace(r.Data)
	if len(raw) == 0 || raw[0] != '{' {
		return ""
	}
	var d solutionData
	if err := json.Unmarshal(raw, &d); err != nil {
		return ""
	}
	return d.Solution
}

// HTTPUpstream consulta a API de soluções via GET.
type HTTPUpstream struct {
	base   *url.URL
	client *http.Client
}

type UpstreamOption func(*HTTPUpstream)

// WithHTTPClient troca o client (útil em testes com httptest).
func WithHTTPClient(c *http.Client) UpstreamOption {
	return func(u *HTTPUpstream) { u.client = c }
}

// WithTimeout define o timeout de cada chamada.
func WithTimeout(d time.Duration) UpstreamOption {
	return func(u *HTTPUpstream) {
		if d > 0 {
			u.client = &http.Client{Timeout: d, Transport: u.client.Transport}
		}
	}
}

func NewHTTPUpstream(baseURL string, opts ...UpstreamOption) (*HTTPUpstream, error) {
	if strings.TrimSpace(baseURL) == "" {
		baseURL = DefaultUpstreamURL
	}
	base, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid upstream url: %w", err)
	}
	if base.Scheme == "" || base.Host == "" {
		return nil, fmt.Errorf("invalid upstream url %q: scheme and host are required", baseURL)
	}

	u := &HTTPUpstream{
		base:   base,
		client: &http.Client{Timeout: 10 * time.Second},
	}
	for _, opt := range opts {
		opt(u)
	}
	return u, nil
}

// URL monta a URL de consulta preservando query params já presentes na base.
func (u *HTTPUpstream) URL(req domain.LookupRequest) string {
	target := *u.base
	q := target.Query()
	q.Set("action", "get_solution")
	q.Set("user_id", string(req.Identity))
	q.Set("question_id", string(req.QuestionID))
	target.RawQuery = q.Encode()
	return target.String()
}

// Lookup implementa domain.Upstream.
func (u *HTTPUpstream) Lookup(ctx context.Context, req domain.LookupRequest) domain.Outcome {
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, u.URL(req), nil)
	if err != nil {
		return domain.TransportFailure(err.Error())
	}
	httpReq.Header.Set("Accept", "application/json")

	resp, err := u.client.Do(httpReq)
	if err != nil {
		return domain.TransportFailure(err.Error())
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		// drena para permitir reuso da conexão
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxBodyBytes))
		return domain.TransportFailure(fmt.Sprintf("API request failed (User: %s, Status: %d)", req.Identity, resp.StatusCode))
	}

	var body solutionResponse
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxBodyBytes)).Decode(&body); err != nil {
		return domain.TransportFailure(fmt.Sprintf("invalid upstream response: %v", err))
	}

	if body.Status != "success" {
		return domain.LogicalFailure(body.Message)
	}
	if code := body.solution(); code != "" {
		return domain.Success(code)
	}
	return domain.LogicalFailure(body.Message)
}
