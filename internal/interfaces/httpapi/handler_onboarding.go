package httpapi

import (
	"fmt"
	"net/http"

	jsoniter "github.com/json-iterator/go"

	"github.com/helperaz/helper-marketplace/internal/usecase"
)

type completeOnboardingRequest struct {
	Profession string  `json:"profession" validate:"omitempty,max=80"`
	Bio        string  `json:"bio" validate:"omitempty,max=2000"`
	HourlyRate float64 `json:"hourlyRate" validate:"omitempty,gt=0"`
	Location   string  `json:"location" validate:"omitempty,max=120"`
	AvatarURL  string  `json:"avatarUrl" validate:"omitempty,max=2048"`
}

// CompleteOnboarding closes the onboarding gate for the caller.
// Professionals must pass the photo/profession/bio checks first;
// customers complete unconditionally.
func (h *Handler) CompleteOnboarding(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.CompleteOnboarding")
	defer span.End()

	principal, ok := principalFromContext(ctx)
	if !ok {
		writeError(ctx, w, fmt.Errorf("%w: principal is missing from request context", usecase.ErrUnauthorized))
		return
	}

	var req completeOnboardingRequest
	decoder := jsoniter.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&req); err != nil {
		writeError(ctx, w, fmt.Errorf("%w: invalid JSON payload: %v", usecase.ErrInvalidInput, err))
		return
	}
	if err := h.validateRequest(ctx, req); err != nil {
		writeError(ctx, w, err)
		return
	}

	item, err := h.onboardingService.Complete(ctx, usecase.CompleteOnboardingInput{
		UserID:     principal.UserID,
		Profession: req.Profession,
		Bio:        req.Bio,
		HourlyRate: req.HourlyRate,
		Location:   req.Location,
		AvatarURL:  req.AvatarURL,
	})
	if err != nil {
		h.logger.WarnContext(ctx, "complete onboarding failed", "user_id", principal.UserID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, profileToDTO(ctx, item))
}
