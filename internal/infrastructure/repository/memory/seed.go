package memory

import (
	"time"

	"github.com/helperaz/helper-marketplace/internal/domain/profile"
)

// SeedProfiles returns the demo marketplace used by the in-memory
// driver: a handful of onboarded professionals plus one customer.
func SeedProfiles() []profile.Profile {
	base := time.Date(2026, 1, 10, 9, 0, 0, 0, time.UTC)

	return []profile.Profile{
		{
			ID:                  "pro-rashad",
			Name:                "Rəşad Əliyev",
			Role:                profile.RoleProfessional,
			Profession:          "plumbing",
			Skills:              []string{"plumbing", "pipe repair", "leak detection"},
			Bio:                 "Licensed plumber with ten years of experience fixing leaks, replacing pipes and installing bathroom fixtures across Bakı.",
			HourlyRate:          25,
			Location:            "Bakı",
			Rating:              4.8,
			ReviewsCount:        37,
			AvatarURL:           "https://cdn.helper.az/avatars/rashad.jpg",
			IsAvailable:         true,
			IsVerified:          true,
			OnboardingCompleted: true,
			CreatedAt:           base,
			UpdatedAt:           base,
		},
		{
			ID:                  "pro-aysel",
			Name:                "Aysel Məmmədova",
			Role:                profile.RoleProfessional,
			Profession:          "cleaning",
			Skills:              []string{"cleaning", "deep cleaning", "office cleaning"},
			Bio:                 "Professional cleaner offering apartment, office and post-renovation deep cleaning with my own supplies and equipment.",
			HourlyRate:          15,
			Location:            "Bakı",
			Rating:              5.0,
			ReviewsCount:        52,
			AvatarURL:           "https://cdn.helper.az/avatars/aysel.jpg",
			IsAvailable:         true,
			IsVerified:          true,
			OnboardingCompleted: true,
			CreatedAt:           base.Add(1 * time.Hour),
			UpdatedAt:           base.Add(1 * time.Hour),
		},
		{
			ID:                  "pro-elchin",
			Name:                "Elçin Quliyev",
			Role:                profile.RoleProfessional,
			Profession:          "electrical",
			Skills:              []string{"electrical", "wiring", "lighting"},
			Bio:                 "Certified electrician handling wiring faults, socket installation, lighting design and electrical panel upgrades safely.",
			HourlyRate:          30,
			Location:            "Gəncə",
			Rating:              4.6,
			ReviewsCount:        21,
			AvatarURL:           "https://cdn.helper.az/avatars/elchin.jpg",
			IsAvailable:         false,
			IsVerified:          false,
			OnboardingCompleted: true,
			CreatedAt:           base.Add(2 * time.Hour),
			UpdatedAt:           base.Add(2 * time.Hour),
		},
		{
			ID:                  "customer-nigar",
			Name:                "Nigar Həsənova",
			Role:                profile.RoleCustomer,
			HourlyRate:          profile.DefaultHourlyRate,
			Location:            profile.DefaultLocation,
			Rating:              profile.DefaultRating,
			AvatarURL:           profile.PlaceholderAvatarURL("Nigar Həsənova"),
			IsAvailable:         true,
			OnboardingCompleted: true,
			CreatedAt:           base.Add(3 * time.Hour),
			UpdatedAt:           base.Add(3 * time.Hour),
		},
	}
}
