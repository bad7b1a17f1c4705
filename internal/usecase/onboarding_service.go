package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/helperaz/helper-marketplace/internal/domain/profile"
)

type CompleteOnboardingInput struct {
	UserID     string
	Profession string
	Bio        string
	HourlyRate float64
	Location   string
	AvatarURL  string
}

type OnboardingService struct {
	profileRepo profile.Repository
	now         func() time.Time
}

func NewOnboardingService(profileRepo profile.Repository) *OnboardingService {
	return &OnboardingService{
		profileRepo: profileRepo,
		now:         time.Now,
	}
}

// Complete runs the role-dependent onboarding gate and, on success,
// persists the collected fields and marks the profile onboarded.
func (s *OnboardingService) Complete(ctx context.Context, input CompleteOnboardingInput) (profile.Profile, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.OnboardingService.Complete")
	defer span.End()

	input.UserID = strings.TrimSpace(input.UserID)
	input.Profession = strings.TrimSpace(input.Profession)
	input.Bio = strings.TrimSpace(input.Bio)
	input.Location = strings.TrimSpace(input.Location)
	input.AvatarURL = strings.TrimSpace(input.AvatarURL)

	if input.UserID == "" {
		return profile.Profile{}, fmt.Errorf("%w: user_id is required", ErrInvalidInput)
	}
	if input.HourlyRate < 0 {
		return profile.Profile{}, fmt.Errorf("%w: hourly rate cannot be negative", ErrInvalidInput)
	}

	existing, exists, err := s.profileRepo.GetByID(ctx, input.UserID)
	if err != nil {
		return profile.Profile{}, fmt.Errorf("get profile: %w", err)
	}
	if !exists {
		return profile.Profile{}, fmt.Errorf("%w: profile %s", ErrNotFound, input.UserID)
	}

	// Professionals keep their current avatar when the flow did not
	// upload a new one; the gate still rejects placeholders.
	avatarURL := input.AvatarURL
	if avatarURL == "" {
		avatarURL = existing.AvatarURL
	}

	if err := profile.ValidateCompletion(existing.Role, profile.CompletionInput{
		Profession: input.Profession,
		Bio:        input.Bio,
		HourlyRate: input.HourlyRate,
		Location:   input.Location,
		AvatarURL:  avatarURL,
	}); err != nil {
		return profile.Profile{}, err
	}

	update := profile.Update{OnboardingCompleted: boolPtr(true)}
	if input.Bio != "" {
		update.Bio = &input.Bio
	}
	if input.Location != "" {
		update.Location = &input.Location
	}
	if avatarURL != "" && avatarURL != existing.AvatarURL {
		update.AvatarURL = &avatarURL
	}

	if existing.Role == profile.RoleProfessional {
		update.Profession = &input.Profession
		if input.HourlyRate > 0 {
			update.HourlyRate = &input.HourlyRate
		}
		// Seed skills from the chosen profession so search has
		// something to match before the professional curates the list.
		if len(existing.Skills) == 0 && input.Profession != "" {
			update.Skills = []string{input.Profession}
		}
	}

	updated, stillExists, err := s.profileRepo.Update(ctx, input.UserID, update)
	if err != nil {
		return profile.Profile{}, fmt.Errorf("complete onboarding: %w", err)
	}
	if !stillExists {
		return profile.Profile{}, fmt.Errorf("%w: profile %s", ErrNotFound, input.UserID)
	}

	return updated, nil
}

func boolPtr(v bool) *bool {
	return &v
}
