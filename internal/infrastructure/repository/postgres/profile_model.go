package postgres

import (
	"database/sql"
	"strings"
	"time"

	"github.com/lib/pq"

	"github.com/helperaz/helper-marketplace/internal/domain/profile"
)

type profileTableModel struct {
	ID                  string         `db:"id"`
	Name                string         `db:"name"`
	Role                string         `db:"role"`
	Profession          sql.NullString `db:"profession"`
	Skills              pq.StringArray `db:"skills"`
	Bio                 sql.NullString `db:"bio"`
	HourlyRate          float64        `db:"hourly_rate"`
	Location            sql.NullString `db:"location"`
	Rating              float64        `db:"rating"`
	ReviewsCount        int            `db:"reviews_count"`
	AvatarURL           sql.NullString `db:"avatar_url"`
	IsAvailable         bool           `db:"is_available"`
	IsVerified          bool           `db:"is_verified"`
	OnboardingCompleted bool           `db:"onboarding_completed"`
	CreatedAt           time.Time      `db:"created_at"`
	UpdatedAt           time.Time      `db:"updated_at"`
	DeletedAt           *time.Time     `db:"deleted_at"`
}

type profileInsertModel struct {
	ID                  string         `db:"id"`
	Name                string         `db:"name"`
	Role                string         `db:"role"`
	Profession          *string        `db:"profession"`
	Skills              pq.StringArray `db:"skills"`
	Bio                 *string        `db:"bio"`
	HourlyRate          float64        `db:"hourly_rate"`
	Location            *string        `db:"location"`
	Rating              float64        `db:"rating"`
	ReviewsCount        int            `db:"reviews_count"`
	AvatarURL           *string        `db:"avatar_url"`
	IsAvailable         bool           `db:"is_available"`
	IsVerified          bool           `db:"is_verified"`
	OnboardingCompleted bool           `db:"onboarding_completed"`
}

// profileFromRow maps a row to the domain shape, backfilling the
// defaults for optional columns that predate the column defaults.
func profileFromRow(row profileTableModel) profile.Profile {
	p := profile.Profile{
		ID:                  row.ID,
		Name:                strings.TrimSpace(row.Name),
		Role:                profile.Role(row.Role),
		Profession:          strings.TrimSpace(row.Profession.String),
		Skills:              append([]string(nil), row.Skills...),
		Bio:                 strings.TrimSpace(row.Bio.String),
		HourlyRate:          row.HourlyRate,
		Location:            strings.TrimSpace(row.Location.String),
		Rating:              row.Rating,
		ReviewsCount:        row.ReviewsCount,
		AvatarURL:           strings.TrimSpace(row.AvatarURL.String),
		IsAvailable:         row.IsAvailable,
		IsVerified:          row.IsVerified,
		OnboardingCompleted: row.OnboardingCompleted,
		CreatedAt:           row.CreatedAt,
		UpdatedAt:           row.UpdatedAt,
	}

	if p.HourlyRate == 0 {
		p.HourlyRate = profile.DefaultHourlyRate
	}
	if p.Location == "" {
		p.Location = profile.DefaultLocation
	}
	if p.Rating == 0 {
		p.Rating = profile.DefaultRating
	}
	if p.AvatarURL == "" {
		p.AvatarURL = profile.PlaceholderAvatarURL(p.Name)
	}

	return p
}

func profileToInsertModel(p profile.Profile) profileInsertModel {
	return profileInsertModel{
		ID:                  strings.TrimSpace(p.ID),
		Name:                strings.TrimSpace(p.Name),
		Role:                string(p.Role),
		Profession:          optionalString(p.Profession),
		Skills:              pq.StringArray(p.Skills),
		Bio:                 optionalString(p.Bio),
		HourlyRate:          p.HourlyRate,
		Location:            optionalString(p.Location),
		Rating:              p.Rating,
		ReviewsCount:        p.ReviewsCount,
		AvatarURL:           optionalString(p.AvatarURL),
		IsAvailable:         p.IsAvailable,
		IsVerified:          p.IsVerified,
		OnboardingCompleted: p.OnboardingCompleted,
	}
}
