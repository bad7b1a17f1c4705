package profile

import (
	"net/url"
	"strings"
	"time"
)

// Role distinguishes the two sides of the marketplace. It is chosen at
// sign-up and never changes afterwards.
type Role string

const (
	RoleCustomer     Role = "CUSTOMER"
	RoleProfessional Role = "PROFESSIONAL"
)

func (r Role) Valid() bool {
	return r == RoleCustomer || r == RoleProfessional
}

const (
	DefaultHourlyRate = 15.0
	DefaultLocation   = "Bakı"
	DefaultRating     = 5.0
)

// Profile is a marketplace participant. The ID is the identity-provider
// user id, so one account maps to exactly one profile.
type Profile struct {
	ID                  string
	Name                string
	Role                Role
	Profession          string
	Skills              []string
	Bio                 string
	HourlyRate          float64
	Location            string
	Rating              float64
	ReviewsCount        int
	AvatarURL           string
	IsAvailable         bool
	IsVerified          bool
	OnboardingCompleted bool
	CreatedAt           time.Time
	UpdatedAt           time.Time
}

// PlaceholderAvatarURL builds the generated-initials avatar assigned to
// profiles that have not uploaded a photo yet.
func PlaceholderAvatarURL(name string) string {
	return "https://ui-avatars.com/api/?name=" + url.QueryEscape(name)
}

// IsPlaceholderAvatar reports whether the URL still points at a
// generated-initials avatar rather than an uploaded photo.
func IsPlaceholderAvatar(avatarURL string) bool {
	return avatarURL == "" || strings.Contains(avatarURL, "ui-avatars")
}

// KnownProfessions is the service catalogue offered in the UI. Search
// keywords outside this list still match via free-text comparison.
var KnownProfessions = []string{
	"plumbing",
	"cleaning",
	"electrical",
	"general repair",
	"painting",
	"gardening",
}
