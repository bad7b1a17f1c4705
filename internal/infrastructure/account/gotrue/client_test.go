package gotrue

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	jsoniter "github.com/json-iterator/go"

	"github.com/helperaz/helper-marketplace/internal/platform/resilience"
	"github.com/helperaz/helper-marketplace/internal/usecase"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestClient(t *testing.T, handler http.HandlerFunc, opts ...Option) *Client {
	t.Helper()

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	return NewClient(
		server.Client(),
		server.URL,
		"/auth/v1/user",
		"service-key",
		resilience.CircuitBreakerConfig{Enabled: false},
		testLogger(),
		opts...,
	)
}

func userInfoHandler(t *testing.T, calls *atomic.Int32) http.HandlerFunc {
	t.Helper()

	return func(w http.ResponseWriter, r *http.Request) {
		if calls != nil {
			calls.Add(1)
		}
		if r.Method != http.MethodGet {
			t.Errorf("expected GET, got %s", r.Method)
		}
		if got := r.Header.Get("apikey"); got != "service-key" {
			t.Errorf("expected apikey header, got %q", got)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer token-1" {
			t.Errorf("unexpected authorization header %q", got)
		}

		w.Header().Set("Content-Type", "application/json")
		_ = jsoniter.NewEncoder(w).Encode(map[string]any{
			"id":    "user-1",
			"email": "rashad@example.com",
			"user_metadata": map[string]any{
				"full_name": "Rashad Aliyev",
				"role":      "professional",
			},
		})
	}
}

func TestVerifyAccessTokenRemote(t *testing.T) {
	t.Parallel()

	client := newTestClient(t, userInfoHandler(t, nil))

	principal, err := client.VerifyAccessToken(context.Background(), "token-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if principal.UserID != "user-1" {
		t.Fatalf("expected user-1, got %q", principal.UserID)
	}
	if principal.Email != "rashad@example.com" {
		t.Fatalf("unexpected email %q", principal.Email)
	}
	if principal.Name != "Rashad Aliyev" {
		t.Fatalf("unexpected name %q", principal.Name)
	}
	if principal.Role != "professional" {
		t.Fatalf("unexpected role %q", principal.Role)
	}
}

func TestVerifyAccessTokenCachesVerification(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32
	client := newTestClient(t, userInfoHandler(t, &calls))

	for range 2 {
		if _, err := client.VerifyAccessToken(context.Background(), "token-1"); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}

	if got := calls.Load(); got != 1 {
		t.Fatalf("expected a single user info call, got %d", got)
	}
}

func TestVerifyAccessTokenEmptyToken(t *testing.T) {
	t.Parallel()

	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		t.Error("server should not be called for empty token")
	})

	_, err := client.VerifyAccessToken(context.Background(), "   ")
	if !errors.Is(err, usecase.ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized, got %v", err)
	}
}

func TestVerifyAccessTokenRejected(t *testing.T) {
	t.Parallel()

	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	})

	_, err := client.VerifyAccessToken(context.Background(), "token-1")
	if !errors.Is(err, usecase.ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized, got %v", err)
	}
}

func TestVerifyAccessTokenServiceKeyDenied(t *testing.T) {
	t.Parallel()

	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	})

	_, err := client.VerifyAccessToken(context.Background(), "token-1")
	if !errors.Is(err, usecase.ErrDependencyUnavailable) {
		t.Fatalf("expected ErrDependencyUnavailable, got %v", err)
	}
}

func TestVerifyAccessTokenServerError(t *testing.T) {
	t.Parallel()

	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})

	_, err := client.VerifyAccessToken(context.Background(), "token-1")
	if !errors.Is(err, usecase.ErrDependencyUnavailable) {
		t.Fatalf("expected ErrDependencyUnavailable, got %v", err)
	}
}

func TestVerifyAccessTokenLocalSecret(t *testing.T) {
	t.Parallel()

	const secret = "super-secret-jwt-key"

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":   "user-7",
		"email": "nigar@example.com",
		"exp":   time.Now().Add(time.Hour).Unix(),
		"user_metadata": map[string]any{
			"full_name": "Nigar Mammadova",
			"role":      "customer",
		},
	}).SignedString([]byte(secret))
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}

	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		t.Error("local verification must not call the server")
	}, WithJWTSecret(secret))

	principal, err := client.VerifyAccessToken(context.Background(), signed)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if principal.UserID != "user-7" {
		t.Fatalf("expected user-7, got %q", principal.UserID)
	}
	if principal.Role != "customer" {
		t.Fatalf("unexpected role %q", principal.Role)
	}
}

func TestVerifyAccessTokenLocalSecretRejectsBadSignature(t *testing.T) {
	t.Parallel()

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": "user-7",
		"exp": time.Now().Add(time.Hour).Unix(),
	}).SignedString([]byte("wrong-key"))
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}

	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		t.Error("local verification must not call the server")
	}, WithJWTSecret("super-secret-jwt-key"))

	_, err = client.VerifyAccessToken(context.Background(), signed)
	if !errors.Is(err, usecase.ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized, got %v", err)
	}
}

func TestVerifyAccessTokenCircuitOpens(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	t.Cleanup(server.Close)

	client := NewClient(
		server.Client(),
		server.URL,
		"/auth/v1/user",
		"service-key",
		resilience.CircuitBreakerConfig{
			Enabled:          true,
			FailureThreshold: 2,
			OpenTimeout:      time.Minute,
			HalfOpenMaxReq:   1,
		},
		testLogger(),
		WithTokenCacheTTL(time.Nanosecond),
	)

	for i := range 3 {
		_, err := client.VerifyAccessToken(context.Background(), "token-1")
		if !errors.Is(err, usecase.ErrDependencyUnavailable) {
			t.Fatalf("call %d: expected ErrDependencyUnavailable, got %v", i, err)
		}
		time.Sleep(time.Millisecond)
	}

	if got := client.breaker.State(); got != resilience.CircuitStateOpen {
		t.Fatalf("expected open circuit, got %s", got)
	}
}
