package httpapi

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	sonic "github.com/bytedance/sonic"

	"github.com/helperaz/helper-marketplace/internal/domain/profile"
	"github.com/helperaz/helper-marketplace/internal/domain/user"
	"github.com/helperaz/helper-marketplace/internal/infrastructure/repository/memory"
	idgen "github.com/helperaz/helper-marketplace/internal/platform/id"
	"github.com/helperaz/helper-marketplace/internal/usecase"
)

const testInternalJobToken = "job-token"

type stubVerifier struct {
	principals map[string]user.Principal
}

func (v *stubVerifier) VerifyAccessToken(_ context.Context, token string) (user.Principal, error) {
	principal, ok := v.principals[token]
	if !ok {
		return user.Principal{}, fmt.Errorf("%w: unknown token", usecase.ErrUnauthorized)
	}
	return principal, nil
}

func newTestRouter(t *testing.T, seed []profile.Profile, principals map[string]user.Principal) http.Handler {
	t.Helper()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	profileRepo := memory.NewProfileRepository(seed)
	txnRepo := memory.NewTransactionRepository()
	offerRepo := memory.NewOfferRepository(txnRepo)
	ids := idgen.NewRandomGenerator()

	profileService := usecase.NewProfileService(profileRepo)
	onboardingService := usecase.NewOnboardingService(profileRepo)
	offerService := usecase.NewOfferService(offerRepo, txnRepo, profileRepo, ids, nil, logger)
	searchService := usecase.NewSearchService(profileRepo, nil, logger)
	sessionService := usecase.NewSessionService(profileService, offerRepo)
	sweeperService := usecase.NewCompletionSweeperService(offerRepo, 2, logger)

	handler := NewHandler(profileService, onboardingService, offerService, searchService, sessionService, sweeperService, logger)
	return NewRouter(handler, &stubVerifier{principals: principals}, logger, false, nil, testInternalJobToken)
}

func seedProfiles(now time.Time) []profile.Profile {
	return []profile.Profile{
		{
			ID:                  "pro-1",
			Name:                "Rashad Aliyev",
			Role:                profile.RoleProfessional,
			Profession:          "Plumber",
			Skills:              []string{"plumbing", "heating"},
			Bio:                 strings.Repeat("Fixes leaks and installs heating systems. ", 3),
			HourlyRate:          25,
			Location:            "Baku",
			AvatarURL:           "https://cdn.example.com/avatars/pro-1.jpg",
			IsAvailable:         true,
			OnboardingCompleted: true,
			CreatedAt:           now,
			UpdatedAt:           now,
		},
		{
			ID:                  "cust-1",
			Name:                "Leyla Mammadova",
			Role:                profile.RoleCustomer,
			OnboardingCompleted: true,
			CreatedAt:           now,
			UpdatedAt:           now,
		},
	}
}

func defaultPrincipals() map[string]user.Principal {
	return map[string]user.Principal{
		"pro-token":   {UserID: "pro-1", Email: "rashad@example.com", Name: "Rashad Aliyev", Role: "professional"},
		"cust-token":  {UserID: "cust-1", Email: "leyla@example.com", Name: "Leyla Mammadova", Role: "customer"},
		"other-token": {UserID: "user-3", Email: "third@example.com", Name: "Third User", Role: "customer"},
	}
}

func doRequest(t *testing.T, router http.Handler, method, path, token, body string) *httptest.ResponseRecorder {
	t.Helper()

	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func decodeData(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()

	var envelope struct {
		APIVersion string         `json:"apiVersion"`
		Data       map[string]any `json:"data"`
	}
	if err := sonic.Unmarshal(rec.Body.Bytes(), &envelope); err != nil {
		t.Fatalf("unmarshal response body: %v", err)
	}
	if envelope.APIVersion != "2.0" {
		t.Fatalf("expected apiVersion=2.0, got %q", envelope.APIVersion)
	}
	return envelope.Data
}

func decodeErrorReason(t *testing.T, rec *httptest.ResponseRecorder) (string, string) {
	t.Helper()

	var envelope struct {
		Error struct {
			Status string `json:"status"`
			Errors []struct {
				Domain string `json:"domain"`
				Reason string `json:"reason"`
			} `json:"errors"`
		} `json:"error"`
	}
	if err := sonic.Unmarshal(rec.Body.Bytes(), &envelope); err != nil {
		t.Fatalf("unmarshal error body: %v", err)
	}
	if len(envelope.Error.Errors) == 0 {
		t.Fatalf("expected error items in body %s", rec.Body.String())
	}
	return envelope.Error.Status, envelope.Error.Errors[0].Reason
}

func TestRouter_RequiresAuth(t *testing.T) {
	router := newTestRouter(t, seedProfiles(time.Now().UTC()), defaultPrincipals())

	rec := doRequest(t, router, http.MethodGet, "/v1/offers", "", "")
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected status 401, got %d", rec.Code)
	}
	status, _ := decodeErrorReason(t, rec)
	if status != "UNAUTHENTICATED" {
		t.Fatalf("expected UNAUTHENTICATED, got %q", status)
	}

	rec = doRequest(t, router, http.MethodGet, "/v1/offers", "bogus-token", "")
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected status 401 for unknown token, got %d", rec.Code)
	}
}

func TestRouter_OfferLifecycle(t *testing.T) {
	router := newTestRouter(t, seedProfiles(time.Now().UTC()), defaultPrincipals())

	rec := doRequest(t, router, http.MethodPost, "/v1/offers", "cust-token",
		`{"professional_id":"pro-1","service_type":"Plumbing","description":"Kitchen sink leaks","date":"2026-09-15","time":"10:00"}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected status 201, got %d: %s", rec.Code, rec.Body.String())
	}
	created := decodeData(t, rec)
	offerID, _ := created["id"].(string)
	if offerID == "" {
		t.Fatalf("expected offer id in response, got %v", created)
	}
	if got, _ := created["status"].(string); got != "PENDING" {
		t.Fatalf("expected status PENDING, got %q", got)
	}
	if got, _ := created["price"].(float64); got != 25 {
		t.Fatalf("expected price snapshot 25, got %v", created["price"])
	}

	rec = doRequest(t, router, http.MethodPost, "/v1/offers/"+offerID+"/accept", "pro-token", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200 on accept, got %d: %s", rec.Code, rec.Body.String())
	}
	if got, _ := decodeData(t, rec)["status"].(string); got != "ACCEPTED" {
		t.Fatalf("expected status ACCEPTED, got %q", got)
	}

	rec = doRequest(t, router, http.MethodPost, "/v1/offers/"+offerID+"/pay", "cust-token", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200 on pay, got %d: %s", rec.Code, rec.Body.String())
	}
	paid := decodeData(t, rec)
	paidOffer, _ := paid["offer"].(map[string]any)
	if got, _ := paidOffer["status"].(string); got != "PAID" {
		t.Fatalf("expected offer status PAID, got %q", got)
	}
	txn, _ := paid["transaction"].(map[string]any)
	if ref, _ := txn["reference"].(string); !strings.HasPrefix(ref, "sim_pi_") {
		t.Fatalf("expected sim_pi_ payment reference, got %q", ref)
	}
	if got, _ := txn["amount"].(float64); got != 25 {
		t.Fatalf("expected transaction amount 25, got %v", txn["amount"])
	}

	rec = doRequest(t, router, http.MethodPost, "/v1/offers/"+offerID+"/pay", "cust-token", "")
	if rec.Code != http.StatusConflict {
		t.Fatalf("expected status 409 on double pay, got %d", rec.Code)
	}
	status, reason := decodeErrorReason(t, rec)
	if status != "ABORTED" || reason != "alreadyPaid" {
		t.Fatalf("expected ABORTED/alreadyPaid, got %s/%s", status, reason)
	}

	rec = doRequest(t, router, http.MethodGet, "/v1/offers/"+offerID+"/transaction", "pro-token", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200 on transaction fetch, got %d: %s", rec.Code, rec.Body.String())
	}
	if got, _ := decodeData(t, rec)["offer_id"].(string); got != offerID {
		t.Fatalf("expected transaction for offer %s, got %q", offerID, got)
	}

	rec = doRequest(t, router, http.MethodPost, "/v1/offers/"+offerID+"/complete", "pro-token", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200 on complete, got %d: %s", rec.Code, rec.Body.String())
	}
	if got, _ := decodeData(t, rec)["status"].(string); got != "COMPLETED" {
		t.Fatalf("expected status COMPLETED, got %q", got)
	}
}

func TestRouter_TransitionAuthorization(t *testing.T) {
	router := newTestRouter(t, seedProfiles(time.Now().UTC()), defaultPrincipals())

	rec := doRequest(t, router, http.MethodPost, "/v1/offers", "cust-token",
		`{"professional_id":"pro-1","service_type":"Plumbing","date":"2026-09-15"}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected status 201, got %d: %s", rec.Code, rec.Body.String())
	}
	offerID, _ := decodeData(t, rec)["id"].(string)

	// Only the professional may accept.
	rec = doRequest(t, router, http.MethodPost, "/v1/offers/"+offerID+"/accept", "cust-token", "")
	if rec.Code != http.StatusForbidden {
		t.Fatalf("expected status 403 on customer accept, got %d", rec.Code)
	}
	if status, _ := decodeErrorReason(t, rec); status != "PERMISSION_DENIED" {
		t.Fatalf("expected PERMISSION_DENIED, got %q", status)
	}

	// Paying a PENDING offer skips ACCEPTED.
	rec = doRequest(t, router, http.MethodPost, "/v1/offers/"+offerID+"/pay", "cust-token", "")
	if rec.Code != http.StatusConflict {
		t.Fatalf("expected status 409 on pay before accept, got %d", rec.Code)
	}
	if _, reason := decodeErrorReason(t, rec); reason != "invalidTransition" {
		t.Fatalf("expected invalidTransition, got %q", reason)
	}

	// Non-participants never see the offer.
	rec = doRequest(t, router, http.MethodGet, "/v1/offers/"+offerID, "other-token", "")
	if rec.Code != http.StatusForbidden {
		t.Fatalf("expected status 403 for non-participant, got %d", rec.Code)
	}
}

func TestRouter_SelfBookingRejected(t *testing.T) {
	router := newTestRouter(t, seedProfiles(time.Now().UTC()), defaultPrincipals())

	rec := doRequest(t, router, http.MethodPost, "/v1/offers", "pro-token",
		`{"professional_id":"pro-1","service_type":"Plumbing","date":"2026-09-15"}`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400, got %d: %s", rec.Code, rec.Body.String())
	}
	status, reason := decodeErrorReason(t, rec)
	if status != "INVALID_ARGUMENT" || reason != "selfBooking" {
		t.Fatalf("expected INVALID_ARGUMENT/selfBooking, got %s/%s", status, reason)
	}
}

func TestRouter_OnboardingGate(t *testing.T) {
	now := time.Now().UTC()
	seed := seedProfiles(now)
	seed = append(seed, profile.Profile{
		ID:        "pro-2",
		Name:      "New Pro",
		Role:      profile.RoleProfessional,
		AvatarURL: profile.PlaceholderAvatarURL("New Pro"),
		CreatedAt: now,
		UpdatedAt: now,
	})
	principals := defaultPrincipals()
	principals["pro2-token"] = user.Principal{UserID: "pro-2", Email: "newpro@example.com", Name: "New Pro", Role: "professional"}
	router := newTestRouter(t, seed, principals)

	rec := doRequest(t, router, http.MethodPost, "/v1/onboarding/complete", "pro2-token",
		`{"profession":"Electrician","bio":"Too short","hourlyRate":30,"avatarUrl":"https://cdn.example.com/avatars/pro-2.jpg"}`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400, got %d: %s", rec.Code, rec.Body.String())
	}
	status, reason := decodeErrorReason(t, rec)
	if status != "FAILED_PRECONDITION" || reason != "bioTooShort" {
		t.Fatalf("expected FAILED_PRECONDITION/bioTooShort, got %s/%s", status, reason)
	}

	longBio := strings.Repeat("Certified electrician with residential experience. ", 2)
	rec = doRequest(t, router, http.MethodPost, "/v1/onboarding/complete", "pro2-token",
		`{"profession":"Electrician","bio":"`+longBio+`","hourlyRate":30,"avatarUrl":"https://cdn.example.com/avatars/pro-2.jpg"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", rec.Code, rec.Body.String())
	}
	completed := decodeData(t, rec)
	if got, _ := completed["onboardingCompleted"].(bool); !got {
		t.Fatalf("expected onboardingCompleted=true, got %v", completed)
	}
}

func TestRouter_SessionBootstrapCreatesProfile(t *testing.T) {
	router := newTestRouter(t, seedProfiles(time.Now().UTC()), defaultPrincipals())

	rec := doRequest(t, router, http.MethodGet, "/v1/session", "other-token", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", rec.Code, rec.Body.String())
	}
	session := decodeData(t, rec)
	prof, _ := session["profile"].(map[string]any)
	if got, _ := prof["id"].(string); got != "user-3" {
		t.Fatalf("expected profile id user-3, got %q", got)
	}
	if got, _ := session["requiresOnboarding"].(bool); !got {
		t.Fatalf("expected requiresOnboarding=true for a fresh profile")
	}
}

func TestRouter_PublicSearch(t *testing.T) {
	router := newTestRouter(t, seedProfiles(time.Now().UTC()), defaultPrincipals())

	rec := doRequest(t, router, http.MethodGet, "/v1/professionals/search?q=plumbing", "", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var envelope struct {
		Data []map[string]any `json:"data"`
	}
	if err := sonic.Unmarshal(rec.Body.Bytes(), &envelope); err != nil {
		t.Fatalf("unmarshal response body: %v", err)
	}
	if len(envelope.Data) != 1 {
		t.Fatalf("expected 1 search hit, got %d", len(envelope.Data))
	}
	if got, _ := envelope.Data[0]["id"].(string); got != "pro-1" {
		t.Fatalf("expected hit pro-1, got %q", got)
	}

	rec = doRequest(t, router, http.MethodGet, "/v1/professionals/search", "", "")
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400 for empty query, got %d", rec.Code)
	}
}

func TestRouter_InternalJobToken(t *testing.T) {
	router := newTestRouter(t, seedProfiles(time.Now().UTC()), defaultPrincipals())

	req := httptest.NewRequest(http.MethodPost, "/v1/internal/jobs/complete-elapsed", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected status 401 without job token, got %d", rec.Code)
	}

	req = httptest.NewRequest(http.MethodPost, "/v1/internal/jobs/complete-elapsed", nil)
	req.Header.Set("X-Internal-Job-Token", testInternalJobToken)
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200 with job token, got %d: %s", rec.Code, rec.Body.String())
	}
	result := decodeData(t, rec)
	if _, ok := result["scanned"]; !ok {
		t.Fatalf("expected sweep counters in response, got %v", result)
	}
}
