package httpapi

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	jsoniter "github.com/json-iterator/go"

	"github.com/helperaz/helper-marketplace/internal/domain/offer"
	"github.com/helperaz/helper-marketplace/internal/usecase"
)

type createOfferRequest struct {
	ProfessionalID string `json:"professional_id" validate:"required"`
	ServiceType    string `json:"service_type" validate:"required,max=80"`
	Description    string `json:"description" validate:"omitempty,max=2000"`
	Date           string `json:"date" validate:"required"`
	Time           string `json:"time" validate:"omitempty"`
	Location       string `json:"location" validate:"omitempty,max=120"`
}

func (h *Handler) CreateOffer(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.CreateOffer")
	defer span.End()

	principal, ok := principalFromContext(ctx)
	if !ok {
		writeError(ctx, w, fmt.Errorf("%w: principal is missing from request context", usecase.ErrUnauthorized))
		return
	}

	var req createOfferRequest
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

	item, err := h.offerService.CreateOffer(ctx, usecase.CreateOfferInput{
		CustomerID:     principal.UserID,
		ProfessionalID: req.ProfessionalID,
		ServiceType:    req.ServiceType,
		Description:    req.Description,
		Date:           req.Date,
		Time:           req.Time,
		Location:       req.Location,
	})
	if err != nil {
		h.logger.WarnContext(ctx, "create offer failed", "customer_id", principal.UserID, "professional_id", req.ProfessionalID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusCreated, offerToDTO(ctx, item))
}

func (h *Handler) ListMyOffers(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListMyOffers")
	defer span.End()

	principal, ok := principalFromContext(ctx)
	if !ok {
		writeError(ctx, w, fmt.Errorf("%w: principal is missing from request context", usecase.ErrUnauthorized))
		return
	}

	items, err := h.offerService.ListOffers(ctx, principal.UserID)
	if err != nil {
		h.logger.WarnContext(ctx, "list offers failed", "user_id", principal.UserID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, offersToDTO(ctx, items))
}

func (h *Handler) GetOffer(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetOffer")
	defer span.End()

	principal, ok := principalFromContext(ctx)
	if !ok {
		writeError(ctx, w, fmt.Errorf("%w: principal is missing from request context", usecase.ErrUnauthorized))
		return
	}

	offerID := strings.TrimSpace(r.PathValue("offerID"))
	item, err := h.offerService.GetOffer(ctx, offerID, principal.UserID)
	if err != nil {
		h.logger.WarnContext(ctx, "get offer failed", "offer_id", offerID, "user_id", principal.UserID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, offerToDTO(ctx, item))
}

func (h *Handler) AcceptOffer(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.AcceptOffer")
	defer span.End()

	h.applyOfferTransition(ctx, w, r, "accept", h.offerService.AcceptOffer)
}

func (h *Handler) DeclineOffer(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.DeclineOffer")
	defer span.End()

	h.applyOfferTransition(ctx, w, r, "decline", h.offerService.DeclineOffer)
}

func (h *Handler) CancelOffer(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.CancelOffer")
	defer span.End()

	h.applyOfferTransition(ctx, w, r, "cancel", h.offerService.CancelOffer)
}

func (h *Handler) CompleteOffer(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.CompleteOffer")
	defer span.End()

	h.applyOfferTransition(ctx, w, r, "complete", h.offerService.CompleteOffer)
}

func (h *Handler) applyOfferTransition(
	ctx context.Context,
	w http.ResponseWriter,
	r *http.Request,
	action string,
	transition func(ctx context.Context, offerID, actorID string) (offer.Offer, error),
) {
	principal, ok := principalFromContext(ctx)
	if !ok {
		writeError(ctx, w, fmt.Errorf("%w: principal is missing from request context", usecase.ErrUnauthorized))
		return
	}

	offerID := strings.TrimSpace(r.PathValue("offerID"))
	item, err := transition(ctx, offerID, principal.UserID)
	if err != nil {
		h.logger.WarnContext(ctx, "offer transition failed", "action", action, "offer_id", offerID, "user_id", principal.UserID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, offerToDTO(ctx, item))
}

type payOfferResponse struct {
	Offer       offerDTO       `json:"offer"`
	Transaction transactionDTO `json:"transaction"`
}

// PayOffer runs the simulated checkout: exactly one transaction per
// offer even under concurrent double-pay attempts.
func (h *Handler) PayOffer(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.PayOffer")
	defer span.End()

	principal, ok := principalFromContext(ctx)
	if !ok {
		writeError(ctx, w, fmt.Errorf("%w: principal is missing from request context", usecase.ErrUnauthorized))
		return
	}

	offerID := strings.TrimSpace(r.PathValue("offerID"))
	paid, txn, err := h.offerService.PayOffer(ctx, offerID, principal.UserID)
	if err != nil {
		h.logger.WarnContext(ctx, "pay offer failed", "offer_id", offerID, "user_id", principal.UserID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, payOfferResponse{
		Offer:       offerToDTO(ctx, paid),
		Transaction: transactionToDTO(ctx, txn),
	})
}

func (h *Handler) GetOfferTransaction(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetOfferTransaction")
	defer span.End()

	principal, ok := principalFromContext(ctx)
	if !ok {
		writeError(ctx, w, fmt.Errorf("%w: principal is missing from request context", usecase.ErrUnauthorized))
		return
	}

	offerID := strings.TrimSpace(r.PathValue("offerID"))
	txn, err := h.offerService.GetTransaction(ctx, offerID, principal.UserID)
	if err != nil {
		h.logger.WarnContext(ctx, "get offer transaction failed", "offer_id", offerID, "user_id", principal.UserID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, transactionToDTO(ctx, txn))
}
