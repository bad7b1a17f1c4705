package keywordexpander

import (
	"context"
	stderrors "errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	sonic "github.com/bytedance/sonic"
	crerr "github.com/cockroachdb/errors"
	"github.com/valyala/bytebufferpool"

	"github.com/helperaz/helper-marketplace/internal/domain/search"
	"github.com/helperaz/helper-marketplace/internal/platform/resilience"
	"github.com/helperaz/helper-marketplace/internal/usecase"
)

const (
	defaultBaseURL = "https://generativelanguage.googleapis.com"
	defaultModel   = "gemini-3-flash-preview"

	maxResponseBytes = 1 << 20
	maxKeywords      = 16
)

var errExpanderTransient = crerr.New("keyword expander transient failure")

type ClientConfig struct {
	HTTPClient     *http.Client
	BaseURL        string
	APIKey         string
	Model          string
	Timeout        time.Duration
	MaxRetries     int
	Logger         *slog.Logger
	CircuitBreaker resilience.CircuitBreakerConfig
}

// Client expands free-text search queries into service categories and
// keywords through a Gemini-compatible gateway. Callers treat failures
// as soft: the search service falls back to raw-query matching.
type Client struct {
	httpClient     *http.Client
	baseURL        string
	apiKey         string
	model          string
	maxRetries     int
	logger         *slog.Logger
	breaker        *resilience.CircuitBreaker
	circuitEnabled bool
}

func NewClient(cfg ClientConfig) *Client {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: cfg.Timeout}
	}
	if httpClient.Timeout <= 0 {
		httpClient.Timeout = 10 * time.Second
	}

	baseURL := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	model := strings.TrimSpace(cfg.Model)
	if model == "" {
		model = defaultModel
	}
	breakerCfg := resilience.NormalizeCircuitBreakerConfig(cfg.CircuitBreaker)

	return &Client{
		httpClient:     httpClient,
		baseURL:        baseURL,
		apiKey:         strings.TrimSpace(cfg.APIKey),
		model:          model,
		maxRetries:     maxInt(cfg.MaxRetries, 0),
		logger:         logger,
		breaker:        resilience.NewCircuitBreaker(breakerCfg.FailureThreshold, breakerCfg.OpenTimeout, breakerCfg.HalfOpenMaxReq),
		circuitEnabled: breakerCfg.Enabled,
	}
}

type generateContentRequest struct {
	Contents         []contentItem    `json:"contents"`
	GenerationConfig generationConfig `json:"generationConfig"`
}

type contentItem struct {
	Parts []contentPart `json:"parts"`
}

type contentPart struct {
	Text string `json:"text"`
}

type generationConfig struct {
	ResponseMIMEType string `json:"responseMimeType"`
}

type generateContentResponse struct {
	Candidates []struct {
		Content struct {
			Parts []contentPart `json:"parts"`
		} `json:"content"`
	} `json:"candidates"`
}

type expansionPayload struct {
	PrimaryCategory string   `json:"primaryCategory"`
	Keywords        []string `json:"keywords"`
}

// Expand asks the model for the service category and synonym set
// behind a query. The response is constrained to JSON so a single
// unmarshal yields the expansion.
func (c *Client) Expand(ctx context.Context, query string) (search.Expansion, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return search.Expansion{}, crerr.New("query is required")
	}
	if c.apiKey == "" {
		return search.Expansion{}, fmt.Errorf("%w: keyword expander api key is not configured", usecase.ErrDependencyUnavailable)
	}

	if c.circuitEnabled {
		if err := c.breaker.Allow(); err != nil {
			c.logger.WarnContext(ctx, "keyword expander circuit breaker rejected request", "state", c.breaker.State())
			return search.Expansion{}, fmt.Errorf("%w: keyword expander is temporarily unavailable", usecase.ErrDependencyUnavailable)
		}
	}

	body, err := sonic.Marshal(generateContentRequest{
		Contents: []contentItem{
			{Parts: []contentPart{{Text: buildPrompt(query)}}},
		},
		GenerationConfig: generationConfig{ResponseMIMEType: "application/json"},
	})
	if err != nil {
		return search.Expansion{}, crerr.Wrap(err, "marshal expansion request")
	}

	fullURL := c.baseURL + "/v1beta/models/" + c.model + ":generateContent"
	raw, err := c.executeRequest(ctx, fullURL, body)
	if c.circuitEnabled {
		if err != nil && stderrors.Is(err, errExpanderTransient) {
			c.breaker.RecordFailure()
		} else {
			c.breaker.RecordSuccess()
		}
	}
	if err != nil {
		return search.Expansion{}, err
	}

	var envelope generateContentResponse
	if err := sonic.Unmarshal(raw, &envelope); err != nil {
		return search.Expansion{}, crerr.Wrap(err, "decode gateway payload")
	}
	text := firstCandidateText(envelope)
	if text == "" {
		return search.Expansion{}, crerr.New("gateway returned no candidates")
	}

	var payload expansionPayload
	if err := sonic.Unmarshal([]byte(text), &payload); err != nil {
		return search.Expansion{}, crerr.Wrap(err, "decode expansion payload")
	}

	return normalizeExpansion(payload), nil
}

func (c *Client) executeRequest(ctx context.Context, fullURL string, body []byte) ([]byte, error) {
	var lastErr error
	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, fullURL, strings.NewReader(string(body)))
		if err != nil {
			return nil, crerr.Wrap(err, "build request")
		}
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("x-goog-api-key", c.apiKey)

		resp, err := c.httpClient.Do(req)
		if err != nil {
			lastErr = fmt.Errorf("%w: send request: %v", errExpanderTransient, err)
		} else {
			raw, readErr := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
			_ = resp.Body.Close()
			switch {
			case readErr != nil:
				lastErr = fmt.Errorf("%w: read response body: %v", errExpanderTransient, readErr)
			case resp.StatusCode >= 200 && resp.StatusCode < 300:
				return raw, nil
			case isRetryableStatus(resp.StatusCode):
				lastErr = fmt.Errorf("%w: gateway status=%d body=%s", errExpanderTransient, resp.StatusCode, abbreviateBody(raw))
			default:
				return nil, fmt.Errorf("gateway status=%d body=%s", resp.StatusCode, abbreviateBody(raw))
			}
		}

		if attempt == c.maxRetries {
			break
		}
		backoff := time.Duration(attempt+1) * 500 * time.Millisecond
		timer := time.NewTimer(backoff)
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil, ctx.Err()
		case <-timer.C:
		}
	}

	if lastErr == nil {
		lastErr = crerr.New("gateway request failed")
	}
	c.logger.WarnContext(ctx, "keyword expansion request failed", "url", fullURL, "error", lastErr)
	return nil, lastErr
}

func buildPrompt(query string) string {
	buf := bytebufferpool.Get()
	defer bytebufferpool.Put(buf)

	_, _ = buf.WriteString(`User search query: "`)
	_, _ = buf.WriteString(query)
	_, _ = buf.WriteString(`". Identify the service category or specific keywords related to professional services in Azerbaijan (plumbing, cleaning, electrical, general repair, painting, gardening). Return a JSON object with a "primaryCategory" string holding the most likely service category and a "keywords" array of related technical terms or synonyms.`)
	return buf.String()
}

func firstCandidateText(envelope generateContentResponse) string {
	for _, candidate := range envelope.Candidates {
		for _, part := range candidate.Content.Parts {
			if text := strings.TrimSpace(part.Text); text != "" {
				return text
			}
		}
	}
	return ""
}

func normalizeExpansion(payload expansionPayload) search.Expansion {
	out := search.Expansion{
		PrimaryCategory: strings.TrimSpace(payload.PrimaryCategory),
	}
	seen := make(map[string]struct{}, len(payload.Keywords))
	for _, keyword := range payload.Keywords {
		keyword = strings.TrimSpace(keyword)
		if keyword == "" {
			continue
		}
		lowered := strings.ToLower(keyword)
		if _, dup := seen[lowered]; dup {
			continue
		}
		seen[lowered] = struct{}{}
		out.Keywords = append(out.Keywords, keyword)
		if len(out.Keywords) >= maxKeywords {
			break
		}
	}
	return out
}

func isRetryableStatus(status int) bool {
	if status == http.StatusRequestTimeout || status == http.StatusTooManyRequests {
		return true
	}
	return status >= 500
}

func abbreviateBody(raw []byte) string {
	const limit = 256
	text := strings.TrimSpace(string(raw))
	if len(text) <= limit {
		return text
	}
	return text[:limit] + "..."
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
