package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/helperaz/helper-marketplace/internal/domain/profile"
	"github.com/helperaz/helper-marketplace/internal/domain/user"
)

type ProfileService struct {
	profileRepo profile.Repository
	now         func() time.Time
}

func NewProfileService(profileRepo profile.Repository) *ProfileService {
	return &ProfileService{
		profileRepo: profileRepo,
		now:         time.Now,
	}
}

func (s *ProfileService) GetProfile(ctx context.Context, id string) (profile.Profile, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.ProfileService.GetProfile")
	defer span.End()

	id = strings.TrimSpace(id)
	if id == "" {
		return profile.Profile{}, fmt.Errorf("%w: profile id is required", ErrInvalidInput)
	}

	p, exists, err := s.profileRepo.GetByID(ctx, id)
	if err != nil {
		return profile.Profile{}, fmt.Errorf("get profile by id: %w", err)
	}
	if !exists {
		return profile.Profile{}, fmt.Errorf("%w: profile %s", ErrNotFound, id)
	}

	return p, nil
}

// ListProfessionals returns professionals who finished onboarding, the
// set shown on the public browse page.
func (s *ProfileService) ListProfessionals(ctx context.Context) ([]profile.Profile, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.ProfileService.ListProfessionals")
	defer span.End()

	onboarded := true
	professionals, err := s.profileRepo.List(ctx, profile.ListFilter{
		Role:                profile.RoleProfessional,
		OnboardingCompleted: &onboarded,
	})
	if err != nil {
		return nil, fmt.Errorf("list professionals: %w", err)
	}

	return professionals, nil
}

type UpdateProfileInput struct {
	Name       *string
	Profession *string
	Skills     []string
	Bio        *string
	HourlyRate *float64
	Location   *string
	AvatarURL  *string
}

func (s *ProfileService) UpdateProfile(ctx context.Context, userID string, input UpdateProfileInput) (profile.Profile, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.ProfileService.UpdateProfile")
	defer span.End()

	userID = strings.TrimSpace(userID)
	if userID == "" {
		return profile.Profile{}, fmt.Errorf("%w: user id is required", ErrInvalidInput)
	}
	if input.HourlyRate != nil && *input.HourlyRate <= 0 {
		return profile.Profile{}, fmt.Errorf("%w: hourly rate must be positive", ErrInvalidInput)
	}
	if input.Name != nil && strings.TrimSpace(*input.Name) == "" {
		return profile.Profile{}, fmt.Errorf("%w: name cannot be empty", ErrInvalidInput)
	}

	updated, exists, err := s.profileRepo.Update(ctx, userID, profile.Update{
		Name:       input.Name,
		Profession: input.Profession,
		Skills:     input.Skills,
		Bio:        input.Bio,
		HourlyRate: input.HourlyRate,
		Location:   input.Location,
		AvatarURL:  input.AvatarURL,
	})
	if err != nil {
		return profile.Profile{}, fmt.Errorf("update profile: %w", err)
	}
	if !exists {
		return profile.Profile{}, fmt.Errorf("%w: profile %s", ErrNotFound, userID)
	}

	return updated, nil
}

func (s *ProfileService) SetAvailability(ctx context.Context, userID string, available bool) (profile.Profile, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.ProfileService.SetAvailability")
	defer span.End()

	userID = strings.TrimSpace(userID)
	if userID == "" {
		return profile.Profile{}, fmt.Errorf("%w: user id is required", ErrInvalidInput)
	}

	updated, exists, err := s.profileRepo.Update(ctx, userID, profile.Update{IsAvailable: &available})
	if err != nil {
		return profile.Profile{}, fmt.Errorf("set availability: %w", err)
	}
	if !exists {
		return profile.Profile{}, fmt.Errorf("%w: profile %s", ErrNotFound, userID)
	}

	return updated, nil
}

// EnsureProfile returns the principal's profile, creating it from
// sign-up metadata the first time the account shows up.
func (s *ProfileService) EnsureProfile(ctx context.Context, principal user.Principal) (profile.Profile, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.ProfileService.EnsureProfile")
	defer span.End()

	userID := strings.TrimSpace(principal.UserID)
	if userID == "" {
		return profile.Profile{}, fmt.Errorf("%w: principal user id is required", ErrInvalidInput)
	}

	existing, exists, err := s.profileRepo.GetByID(ctx, userID)
	if err != nil {
		return profile.Profile{}, fmt.Errorf("get profile by id: %w", err)
	}
	if exists {
		return existing, nil
	}

	fresh := newProfileFromPrincipal(principal, s.now().UTC())
	if err := s.profileRepo.Create(ctx, fresh); err != nil {
		return profile.Profile{}, fmt.Errorf("create profile: %w", err)
	}

	// Re-fetch so concurrent first requests for the same account agree
	// on one row.
	latest, latestExists, err := s.profileRepo.GetByID(ctx, userID)
	if err != nil {
		return profile.Profile{}, fmt.Errorf("re-fetch profile: %w", err)
	}
	if latestExists {
		return latest, nil
	}
	return fresh, nil
}

func newProfileFromPrincipal(principal user.Principal, now time.Time) profile.Profile {
	name := strings.TrimSpace(principal.Name)
	if name == "" {
		name = principal.Email
	}

	role := profile.Role(strings.ToUpper(strings.TrimSpace(principal.Role)))
	if !role.Valid() {
		role = profile.RoleCustomer
	}

	return profile.Profile{
		ID:           principal.UserID,
		Name:         name,
		Role:         role,
		HourlyRate:   profile.DefaultHourlyRate,
		Location:     profile.DefaultLocation,
		Rating:       profile.DefaultRating,
		ReviewsCount: 0,
		AvatarURL:    profile.PlaceholderAvatarURL(name),
		IsAvailable:  true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}
