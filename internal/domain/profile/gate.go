package profile

import (
	"errors"
	"strings"
	"unicode/utf8"
)

var (
	ErrPhotoRequired      = errors.New("a real profile photo is required")
	ErrProfessionRequired = errors.New("a profession is required")
	ErrBioTooShort        = errors.New("bio is too short")
)

// MinProfessionalBioLength is the minimum bio length (in runes) a
// professional must provide before going live.
const MinProfessionalBioLength = 50

// RequiresOnboarding reports whether the profile still has to go
// through the onboarding flow before using the marketplace.
func RequiresOnboarding(p Profile) bool {
	return !p.OnboardingCompleted
}

// CompletionInput carries the fields collected by the onboarding flow.
// Professionals fill everything; customers only bio and location.
type CompletionInput struct {
	Profession string
	Bio        string
	HourlyRate float64
	Location   string
	AvatarURL  string
}

// ValidateCompletion enforces the role-dependent onboarding gate.
// Professionals must have uploaded a real photo, picked a profession
// and written a meaningful bio; customers pass unconditionally.
func ValidateCompletion(role Role, in CompletionInput) error {
	if role != RoleProfessional {
		return nil
	}
	if IsPlaceholderAvatar(in.AvatarURL) {
		return ErrPhotoRequired
	}
	if strings.TrimSpace(in.Profession) == "" {
		return ErrProfessionRequired
	}
	if utf8.RuneCountInString(in.Bio) < MinProfessionalBioLength {
		return ErrBioTooShort
	}
	return nil
}
