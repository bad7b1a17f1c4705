package httpapi

import (
	"fmt"
	"net/http"

	"github.com/helperaz/helper-marketplace/internal/usecase"
)

// GetSession bootstraps the signed-in client: profile (created on
// first sight), the caller's offers, and the onboarding flag.
func (h *Handler) GetSession(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetSession")
	defer span.End()

	principal, ok := principalFromContext(ctx)
	if !ok {
		writeError(ctx, w, fmt.Errorf("%w: principal is missing from request context", usecase.ErrUnauthorized))
		return
	}

	session, err := h.sessionService.Bootstrap(ctx, principal)
	if err != nil {
		h.logger.WarnContext(ctx, "session bootstrap failed", "user_id", principal.UserID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, sessionDTO{
		Profile:            profileToDTO(ctx, session.Profile),
		Offers:             offersToDTO(ctx, session.Offers),
		RequiresOnboarding: session.RequiresOnboarding,
	})
}
