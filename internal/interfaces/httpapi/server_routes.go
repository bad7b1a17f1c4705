package httpapi

import "net/http"

func registerSystemRoutes(mux *http.ServeMux, handler *Handler, swaggerEnabled bool) {
	mux.HandleFunc("GET /healthz", handler.Healthz)
	if !swaggerEnabled {
		return
	}

	mux.HandleFunc("GET /openapi.yaml", handler.OpenAPI)
	mux.HandleFunc("GET /docs", handler.SwaggerUI)
	mux.HandleFunc("GET /docs/", handler.SwaggerUI)
}

func registerPublicDomainRoutes(mux *http.ServeMux, handler *Handler) {
	mux.HandleFunc("GET /v1/professionals", handler.ListProfessionals)
	mux.HandleFunc("GET /v1/professionals/search", handler.SearchProfessionals)
	mux.HandleFunc("GET /v1/profiles/{profileID}", handler.GetProfile)
}

func registerAuthorizedRoutes(mux *http.ServeMux, handler *Handler, verifier TokenVerifier) {
	registerAuthorizedSessionRoutes(mux, handler, verifier)
	registerAuthorizedProfileRoutes(mux, handler, verifier)
	registerAuthorizedOfferRoutes(mux, handler, verifier)
}

func registerInternalJobRoutes(mux *http.ServeMux, handler *Handler, internalJobToken string) {
	mux.Handle("POST /v1/internal/jobs/complete-elapsed", RequireInternalJobToken(internalJobToken, http.HandlerFunc(handler.RunCompleteElapsedJob)))
}

func registerAuthorizedSessionRoutes(mux *http.ServeMux, handler *Handler, verifier TokenVerifier) {
	mux.Handle("GET /v1/session", RequireAuth(verifier, http.HandlerFunc(handler.GetSession)))
}

func registerAuthorizedProfileRoutes(mux *http.ServeMux, handler *Handler, verifier TokenVerifier) {
	mux.Handle("GET /v1/profiles/me", RequireAuth(verifier, http.HandlerFunc(handler.GetMyProfile)))
	mux.Handle("PATCH /v1/profiles/me", RequireAuth(verifier, http.HandlerFunc(handler.UpdateMyProfile)))
	mux.Handle("PUT /v1/profiles/me/availability", RequireAuth(verifier, http.HandlerFunc(handler.SetMyAvailability)))
	mux.Handle("POST /v1/onboarding/complete", RequireAuth(verifier, http.HandlerFunc(handler.CompleteOnboarding)))
}

func registerAuthorizedOfferRoutes(mux *http.ServeMux, handler *Handler, verifier TokenVerifier) {
	mux.Handle("GET /v1/offers", RequireAuth(verifier, http.HandlerFunc(handler.ListMyOffers)))
	mux.Handle("POST /v1/offers", RequireAuth(verifier, http.HandlerFunc(handler.CreateOffer)))
	mux.Handle("GET /v1/offers/{offerID}", RequireAuth(verifier, http.HandlerFunc(handler.GetOffer)))
	mux.Handle("POST /v1/offers/{offerID}/accept", RequireAuth(verifier, http.HandlerFunc(handler.AcceptOffer)))
	mux.Handle("POST /v1/offers/{offerID}/decline", RequireAuth(verifier, http.HandlerFunc(handler.DeclineOffer)))
	mux.Handle("POST /v1/offers/{offerID}/cancel", RequireAuth(verifier, http.HandlerFunc(handler.CancelOffer)))
	mux.Handle("POST /v1/offers/{offerID}/pay", RequireAuth(verifier, http.HandlerFunc(handler.PayOffer)))
	mux.Handle("POST /v1/offers/{offerID}/complete", RequireAuth(verifier, http.HandlerFunc(handler.CompleteOffer)))
	mux.Handle("GET /v1/offers/{offerID}/transaction", RequireAuth(verifier, http.HandlerFunc(handler.GetOfferTransaction)))
}
