package httpapi

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/helperaz/helper-marketplace/internal/domain/offer"
	"github.com/helperaz/helper-marketplace/internal/domain/profile"
	"github.com/helperaz/helper-marketplace/internal/domain/transaction"
	"github.com/helperaz/helper-marketplace/internal/usecase"
)

type Handler struct {
	profileService    *usecase.ProfileService
	onboardingService *usecase.OnboardingService
	offerService      *usecase.OfferService
	searchService     *usecase.SearchService
	sessionService    *usecase.SessionService
	sweeperService    *usecase.CompletionSweeperService
	logger            *slog.Logger
	validator         *validator.Validate
}

func NewHandler(
	profileService *usecase.ProfileService,
	onboardingService *usecase.OnboardingService,
	offerService *usecase.OfferService,
	searchService *usecase.SearchService,
	sessionService *usecase.SessionService,
	sweeperService *usecase.CompletionSweeperService,
	logger *slog.Logger,
) *Handler {
	if logger == nil {
		logger = slog.Default()
	}

	return &Handler{
		profileService:    profileService,
		onboardingService: onboardingService,
		offerService:      offerService,
		searchService:     searchService,
		sessionService:    sessionService,
		sweeperService:    sweeperService,
		logger:            logger,
		validator:         validator.New(),
	}
}

func (h *Handler) Healthz(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.Healthz")
	defer span.End()

	writeSuccess(ctx, w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *Handler) validateRequest(ctx context.Context, payload any) error {
	ctx, span := startSpan(ctx, "httpapi.Handler.validateRequest")
	defer span.End()

	if err := h.validator.StructCtx(ctx, payload); err != nil {
		return fmt.Errorf("%w: validation failed: %v", usecase.ErrInvalidInput, err)
	}

	return nil
}

type profileDTO struct {
	ID                  string   `json:"id"`
	Name                string   `json:"name"`
	Role                string   `json:"role"`
	Profession          string   `json:"profession,omitempty"`
	Skills              []string `json:"skills"`
	Bio                 string   `json:"bio,omitempty"`
	HourlyRate          float64  `json:"hourlyRate"`
	Location            string   `json:"location"`
	Rating              float64  `json:"rating"`
	ReviewsCount        int      `json:"reviewsCount"`
	AvatarURL           string   `json:"avatarUrl"`
	IsAvailable         bool     `json:"isAvailable"`
	IsVerified          bool     `json:"isVerified"`
	OnboardingCompleted bool     `json:"onboardingCompleted"`
	CreatedAtUTC        string   `json:"created_at_utc"`
	UpdatedAtUTC        string   `json:"updated_at_utc"`
}

type offerDTO struct {
	ID             string  `json:"id"`
	CustomerID     string  `json:"customer_id"`
	ProfessionalID string  `json:"professional_id"`
	ServiceType    string  `json:"service_type"`
	Description    string  `json:"description,omitempty"`
	Price          float64 `json:"price"`
	Date           string  `json:"date"`
	Time           string  `json:"time,omitempty"`
	Location       string  `json:"location"`
	Status         string  `json:"status"`
	CreatedAtUTC   string  `json:"created_at_utc"`
	UpdatedAtUTC   string  `json:"updated_at_utc"`
}

type transactionDTO struct {
	ID             string  `json:"id"`
	OfferID        string  `json:"offer_id"`
	CustomerID     string  `json:"customer_id"`
	ProfessionalID string  `json:"professional_id"`
	Amount         float64 `json:"amount"`
	Status         string  `json:"status"`
	Reference      string  `json:"reference"`
	CreatedAtUTC   string  `json:"created_at_utc"`
}

type sessionDTO struct {
	Profile            profileDTO `json:"profile"`
	Offers             []offerDTO `json:"offers"`
	RequiresOnboarding bool       `json:"requiresOnboarding"`
}

func profileToDTO(ctx context.Context, v profile.Profile) profileDTO {
	ctx, span := startSpan(ctx, "httpapi.profileToDTO")
	defer span.End()

	return profileDTO{
		ID:                  v.ID,
		Name:                v.Name,
		Role:                string(v.Role),
		Profession:          v.Profession,
		Skills:              append([]string{}, v.Skills...),
		Bio:                 v.Bio,
		HourlyRate:          v.HourlyRate,
		Location:            v.Location,
		Rating:              v.Rating,
		ReviewsCount:        v.ReviewsCount,
		AvatarURL:           v.AvatarURL,
		IsAvailable:         v.IsAvailable,
		IsVerified:          v.IsVerified,
		OnboardingCompleted: v.OnboardingCompleted,
		CreatedAtUTC:        v.CreatedAt.UTC().Format(time.RFC3339),
		UpdatedAtUTC:        v.UpdatedAt.UTC().Format(time.RFC3339),
	}
}

func offerToDTO(ctx context.Context, v offer.Offer) offerDTO {
	ctx, span := startSpan(ctx, "httpapi.offerToDTO")
	defer span.End()

	return offerDTO{
		ID:             v.ID,
		CustomerID:     v.CustomerID,
		ProfessionalID: v.ProfessionalID,
		ServiceType:    v.ServiceType,
		Description:    v.Description,
		Price:          v.Price,
		Date:           v.Date,
		Time:           v.Time,
		Location:       v.Location,
		Status:         string(v.Status),
		CreatedAtUTC:   v.CreatedAt.UTC().Format(time.RFC3339),
		UpdatedAtUTC:   v.UpdatedAt.UTC().Format(time.RFC3339),
	}
}

func transactionToDTO(ctx context.Context, v transaction.Transaction) transactionDTO {
	ctx, span := startSpan(ctx, "httpapi.transactionToDTO")
	defer span.End()

	return transactionDTO{
		ID:             v.ID,
		OfferID:        v.OfferID,
		CustomerID:     v.CustomerID,
		ProfessionalID: v.ProfessionalID,
		Amount:         v.Amount,
		Status:         string(v.Status),
		Reference:      v.Reference,
		CreatedAtUTC:   v.CreatedAt.UTC().Format(time.RFC3339),
	}
}

func offersToDTO(ctx context.Context, items []offer.Offer) []offerDTO {
	out := make([]offerDTO, 0, len(items))
	for _, item := range items {
		out = append(out, offerToDTO(ctx, item))
	}
	return out
}

func profilesToDTO(ctx context.Context, items []profile.Profile) []profileDTO {
	out := make([]profileDTO, 0, len(items))
	for _, item := range items {
		out = append(out, profileToDTO(ctx, item))
	}
	return out
}
