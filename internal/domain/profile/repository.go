package profile

import "context"

// ListFilter narrows List results. Nil/zero fields are ignored.
type ListFilter struct {
	Role                Role
	OnboardingCompleted *bool
	AvailableOnly       bool
}

// Update is a partial profile mutation. Nil fields are left untouched;
// a non-nil Skills replaces the whole slice.
type Update struct {
	Name        *string
	Profession  *string
	Skills      []string
	Bio         *string
	HourlyRate  *float64
	Location    *string
	AvatarURL   *string
	IsAvailable *bool

	OnboardingCompleted *bool
}

type Repository interface {
	// GetByID returns the profile and whether it exists.
	GetByID(ctx context.Context, id string) (Profile, bool, error)
	List(ctx context.Context, filter ListFilter) ([]Profile, error)
	Create(ctx context.Context, p Profile) error
	// Update applies the partial mutation and returns the stored row.
	Update(ctx context.Context, id string, update Update) (Profile, bool, error)
}
