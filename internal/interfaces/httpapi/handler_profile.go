package httpapi

import (
	"fmt"
	"net/http"
	"strings"

	jsoniter "github.com/json-iterator/go"

	"github.com/helperaz/helper-marketplace/internal/usecase"
)

func (h *Handler) ListProfessionals(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListProfessionals")
	defer span.End()

	professionals, err := h.profileService.ListProfessionals(ctx)
	if err != nil {
		h.logger.ErrorContext(ctx, "list professionals failed", "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, profilesToDTO(ctx, professionals))
}

func (h *Handler) GetProfile(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetProfile")
	defer span.End()

	profileID := strings.TrimSpace(r.PathValue("profileID"))
	item, err := h.profileService.GetProfile(ctx, profileID)
	if err != nil {
		h.logger.WarnContext(ctx, "get profile failed", "profile_id", profileID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, profileToDTO(ctx, item))
}

func (h *Handler) GetMyProfile(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetMyProfile")
	defer span.End()

	principal, ok := principalFromContext(ctx)
	if !ok {
		writeError(ctx, w, fmt.Errorf("%w: principal is missing from request context", usecase.ErrUnauthorized))
		return
	}

	item, err := h.profileService.EnsureProfile(ctx, principal)
	if err != nil {
		h.logger.WarnContext(ctx, "get my profile failed", "user_id", principal.UserID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, profileToDTO(ctx, item))
}

type updateProfileRequest struct {
	Name       *string  `json:"name" validate:"omitempty,min=1,max=120"`
	Profession *string  `json:"profession" validate:"omitempty,max=80"`
	Skills     []string `json:"skills" validate:"omitempty,dive,required"`
	Bio        *string  `json:"bio" validate:"omitempty,max=2000"`
	HourlyRate *float64 `json:"hourlyRate" validate:"omitempty,gt=0"`
	Location   *string  `json:"location" validate:"omitempty,max=120"`
	AvatarURL  *string  `json:"avatarUrl" validate:"omitempty,max=2048"`
}

func (h *Handler) UpdateMyProfile(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.UpdateMyProfile")
	defer span.End()

	principal, ok := principalFromContext(ctx)
	if !ok {
		writeError(ctx, w, fmt.Errorf("%w: principal is missing from request context", usecase.ErrUnauthorized))
		return
	}

	var req updateProfileRequest
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

	item, err := h.profileService.UpdateProfile(ctx, principal.UserID, usecase.UpdateProfileInput{
		Name:       req.Name,
		Profession: req.Profession,
		Skills:     req.Skills,
		Bio:        req.Bio,
		HourlyRate: req.HourlyRate,
		Location:   req.Location,
		AvatarURL:  req.AvatarURL,
	})
	if err != nil {
		h.logger.WarnContext(ctx, "update profile failed", "user_id", principal.UserID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, profileToDTO(ctx, item))
}

type setAvailabilityRequest struct {
	IsAvailable *bool `json:"isAvailable" validate:"required"`
}

func (h *Handler) SetMyAvailability(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.SetMyAvailability")
	defer span.End()

	principal, ok := principalFromContext(ctx)
	if !ok {
		writeError(ctx, w, fmt.Errorf("%w: principal is missing from request context", usecase.ErrUnauthorized))
		return
	}

	var req setAvailabilityRequest
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

	item, err := h.profileService.SetAvailability(ctx, principal.UserID, *req.IsAvailable)
	if err != nil {
		h.logger.WarnContext(ctx, "set availability failed", "user_id", principal.UserID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, profileToDTO(ctx, item))
}
