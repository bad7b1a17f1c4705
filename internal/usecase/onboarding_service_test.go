package usecase

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/helperaz/helper-marketplace/internal/domain/profile"
	"github.com/helperaz/helper-marketplace/internal/infrastructure/repository/memory"
)

func newGatedProfileRepo(t *testing.T, role profile.Role) *memory.ProfileRepository {
	t.Helper()

	p := profile.Profile{
		ID:          "user-1",
		Name:        "Test User",
		Role:        role,
		HourlyRate:  profile.DefaultHourlyRate,
		Location:    profile.DefaultLocation,
		Rating:      profile.DefaultRating,
		AvatarURL:   profile.PlaceholderAvatarURL("Test User"),
		IsAvailable: true,
	}
	return memory.NewProfileRepository([]profile.Profile{p})
}

func validProfessionalOnboarding() CompleteOnboardingInput {
	return CompleteOnboardingInput{
		UserID:     "user-1",
		Profession: "plumbing",
		Bio:        strings.Repeat("Reliable plumber. ", 4),
		HourlyRate: 30,
		Location:   "Bakı",
		AvatarURL:  "https://cdn.helper.az/avatars/user-1.jpg",
	}
}

func TestCompleteOnboardingProfessional(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		mutate    func(*CompleteOnboardingInput)
		targetErr error
	}{
		{
			name:   "full professional input passes the gate",
			mutate: func(*CompleteOnboardingInput) {},
		},
		{
			name: "missing avatar",
			mutate: func(in *CompleteOnboardingInput) {
				in.AvatarURL = ""
			},
			targetErr: profile.ErrPhotoRequired,
		},
		{
			name: "placeholder avatar",
			mutate: func(in *CompleteOnboardingInput) {
				in.AvatarURL = "https://ui-avatars.com/api/?name=Test+User"
			},
			targetErr: profile.ErrPhotoRequired,
		},
		{
			name: "missing profession",
			mutate: func(in *CompleteOnboardingInput) {
				in.Profession = ""
			},
			targetErr: profile.ErrProfessionRequired,
		},
		{
			name: "short bio",
			mutate: func(in *CompleteOnboardingInput) {
				in.Bio = "I fix pipes"
			},
			targetErr: profile.ErrBioTooShort,
		},
		{
			name: "missing user id",
			mutate: func(in *CompleteOnboardingInput) {
				in.UserID = " "
			},
			targetErr: ErrInvalidInput,
		},
		{
			name: "negative hourly rate",
			mutate: func(in *CompleteOnboardingInput) {
				in.HourlyRate = -5
			},
			targetErr: ErrInvalidInput,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			repo := newGatedProfileRepo(t, profile.RoleProfessional)
			service := NewOnboardingService(repo)
			ctx := context.Background()

			in := validProfessionalOnboarding()
			tc.mutate(&in)

			updated, err := service.Complete(ctx, in)
			if tc.targetErr != nil {
				if !errors.Is(err, tc.targetErr) {
					t.Fatalf("Complete() error = %v, want %v", err, tc.targetErr)
				}

				// Failed attempts leave the gate closed.
				stored, exists, getErr := repo.GetByID(ctx, "user-1")
				if getErr != nil || !exists {
					t.Fatalf("GetByID() = %v, %v", exists, getErr)
				}
				if !profile.RequiresOnboarding(stored) {
					t.Fatal("profile should still require onboarding after a rejected attempt")
				}
				return
			}
			if err != nil {
				t.Fatalf("Complete() error = %v", err)
			}
			if profile.RequiresOnboarding(updated) {
				t.Fatal("profile should not require onboarding after completion")
			}
			if updated.Profession != "plumbing" {
				t.Fatalf("profession = %q, want plumbing", updated.Profession)
			}
			if updated.HourlyRate != 30 {
				t.Fatalf("hourly rate = %v, want 30", updated.HourlyRate)
			}
		})
	}
}

func TestCompleteOnboardingSeedsSkillsFromProfession(t *testing.T) {
	t.Parallel()

	repo := newGatedProfileRepo(t, profile.RoleProfessional)
	service := NewOnboardingService(repo)

	updated, err := service.Complete(context.Background(), validProfessionalOnboarding())
	if err != nil {
		t.Fatalf("Complete() error = %v", err)
	}
	if len(updated.Skills) != 1 || updated.Skills[0] != "plumbing" {
		t.Fatalf("skills = %v, want [plumbing]", updated.Skills)
	}
}

func TestCompleteOnboardingCustomer(t *testing.T) {
	t.Parallel()

	repo := newGatedProfileRepo(t, profile.RoleCustomer)
	service := NewOnboardingService(repo)

	// Customers pass the gate without avatar, profession or long bio.
	updated, err := service.Complete(context.Background(), CompleteOnboardingInput{
		UserID:   "user-1",
		Bio:      "Homeowner in Bakı",
		Location: "Bakı",
	})
	if err != nil {
		t.Fatalf("Complete() error = %v", err)
	}
	if profile.RequiresOnboarding(updated) {
		t.Fatal("customer should not require onboarding after completion")
	}
	if updated.Bio != "Homeowner in Bakı" {
		t.Fatalf("bio = %q", updated.Bio)
	}
	if len(updated.Skills) != 0 {
		t.Fatalf("customer skills = %v, want empty", updated.Skills)
	}
}

func TestCompleteOnboardingUnknownProfile(t *testing.T) {
	t.Parallel()

	repo := memory.NewProfileRepository(nil)
	service := NewOnboardingService(repo)

	in := validProfessionalOnboarding()
	if _, err := service.Complete(context.Background(), in); !errors.Is(err, ErrNotFound) {
		t.Fatalf("Complete() error = %v, want %v", err, ErrNotFound)
	}
}
