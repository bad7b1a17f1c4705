// Package gotrue verifies Supabase GoTrue access tokens, either
// locally against the project's JWT secret or remotely through the
// user-info endpoint.
package gotrue

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	jsoniter "github.com/json-iterator/go"

	"github.com/helperaz/helper-marketplace/internal/domain/user"
	basecache "github.com/helperaz/helper-marketplace/internal/platform/cache"
	"github.com/helperaz/helper-marketplace/internal/platform/resilience"
	"github.com/helperaz/helper-marketplace/internal/usecase"
)

const defaultTokenCacheTTL = 2 * time.Minute

type Client struct {
	httpClient  *http.Client
	userInfoURL string
	serviceKey  string
	jwtSecret   []byte
	breaker     *resilience.CircuitBreaker
	tokens      *basecache.Store
	logger      *slog.Logger
}

type Option func(*Client)

// WithJWTSecret enables local HS256 verification, skipping the
// user-info round trip entirely.
func WithJWTSecret(secret string) Option {
	return func(c *Client) {
		if secret = strings.TrimSpace(secret); secret != "" {
			c.jwtSecret = []byte(secret)
		}
	}
}

func WithTokenCacheTTL(ttl time.Duration) Option {
	return func(c *Client) {
		if ttl > 0 {
			c.tokens = basecache.NewStore(ttl)
		}
	}
}

func NewClient(
	httpClient *http.Client,
	baseURL, userInfoPath, serviceKey string,
	breakerCfg resilience.CircuitBreakerConfig,
	logger *slog.Logger,
	opts ...Option,
) *Client {
	if httpClient == nil {
		httpClient = &http.Client{}
	}
	if logger == nil {
		logger = slog.Default()
	}

	c := &Client{
		httpClient:  httpClient,
		userInfoURL: buildURL(baseURL, userInfoPath),
		serviceKey:  strings.TrimSpace(serviceKey),
		tokens:      basecache.NewStore(defaultTokenCacheTTL),
		logger:      logger,
	}
	if breakerCfg.Enabled {
		normalized := resilience.NormalizeCircuitBreakerConfig(breakerCfg)
		c.breaker = resilience.NewCircuitBreaker(
			normalized.FailureThreshold,
			normalized.OpenTimeout,
			normalized.HalfOpenMaxReq,
		)
	}

	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Client) VerifyAccessToken(ctx context.Context, token string) (user.Principal, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return user.Principal{}, fmt.Errorf("%w: token is required", usecase.ErrUnauthorized)
	}

	v, err := c.tokens.GetOrLoad(ctx, hashToken(token), func(ctx context.Context) (any, error) {
		if len(c.jwtSecret) > 0 {
			return c.verifyLocally(token)
		}
		return c.verifyRemotely(ctx, token)
	})
	if err != nil {
		return user.Principal{}, err
	}

	principal, _ := v.(user.Principal)
	return principal, nil
}

type accessTokenClaims struct {
	Email        string         `json:"email"`
	UserMetadata map[string]any `json:"user_metadata"`
	jwt.RegisteredClaims
}

func (c *Client) verifyLocally(token string) (user.Principal, error) {
	var claims accessTokenClaims
	parsed, err := jwt.ParseWithClaims(token, &claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return c.jwtSecret, nil
	})
	if err != nil || !parsed.Valid {
		return user.Principal{}, fmt.Errorf("%w: invalid access token", usecase.ErrUnauthorized)
	}
	if strings.TrimSpace(claims.Subject) == "" {
		return user.Principal{}, fmt.Errorf("%w: token subject is empty", usecase.ErrUnauthorized)
	}

	return user.Principal{
		UserID: claims.Subject,
		Email:  claims.Email,
		Name:   metadataString(claims.UserMetadata, "full_name"),
		Role:   metadataString(claims.UserMetadata, "role"),
	}, nil
}

func (c *Client) verifyRemotely(ctx context.Context, token string) (user.Principal, error) {
	if c.breaker != nil {
		if err := c.breaker.Allow(); err != nil {
			return user.Principal{}, fmt.Errorf("%w: auth circuit open", usecase.ErrDependencyUnavailable)
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.userInfoURL, nil)
	if err != nil {
		return user.Principal{}, fmt.Errorf("create user info request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Accept", "application/json")
	if c.serviceKey != "" {
		req.Header.Set("apikey", c.serviceKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.recordFailure()
		return user.Principal{}, fmt.Errorf("%w: request user info: %v", usecase.ErrDependencyUnavailable, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusUnauthorized:
		c.recordSuccess()
		return user.Principal{}, fmt.Errorf("%w: token rejected", usecase.ErrUnauthorized)
	case resp.StatusCode == http.StatusForbidden:
		// Service key misconfiguration, not a bad user token.
		c.recordSuccess()
		return user.Principal{}, fmt.Errorf("%w: auth service denied the service key", usecase.ErrDependencyUnavailable)
	case resp.StatusCode >= http.StatusInternalServerError:
		c.recordFailure()
		return user.Principal{}, fmt.Errorf("%w: auth service returned status %d", usecase.ErrDependencyUnavailable, resp.StatusCode)
	case resp.StatusCode != http.StatusOK:
		c.recordSuccess()
		return user.Principal{}, fmt.Errorf("user info failed with status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		c.recordFailure()
		return user.Principal{}, fmt.Errorf("read user info response: %w", err)
	}
	c.recordSuccess()

	var decoded userInfoResponse
	if err := jsoniter.Unmarshal(body, &decoded); err != nil {
		return user.Principal{}, fmt.Errorf("unmarshal user info response: %w", err)
	}
	if strings.TrimSpace(decoded.ID) == "" {
		return user.Principal{}, fmt.Errorf("%w: user info has no id", usecase.ErrUnauthorized)
	}

	return user.Principal{
		UserID: decoded.ID,
		Email:  decoded.Email,
		Name:   metadataString(decoded.UserMetadata, "full_name"),
		Role:   metadataString(decoded.UserMetadata, "role"),
	}, nil
}

func (c *Client) recordSuccess() {
	if c.breaker != nil {
		c.breaker.RecordSuccess()
	}
}

func (c *Client) recordFailure() {
	if c.breaker != nil {
		c.breaker.RecordFailure()
	}
}

type userInfoResponse struct {
	ID           string         `json:"id"`
	Email        string         `json:"email"`
	UserMetadata map[string]any `json:"user_metadata"`
}

func metadataString(metadata map[string]any, key string) string {
	if metadata == nil {
		return ""
	}
	s, _ := metadata[key].(string)
	return strings.TrimSpace(s)
}
