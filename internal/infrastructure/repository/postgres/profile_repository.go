package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/helperaz/helper-marketplace/internal/domain/profile"
	qb "github.com/helperaz/helper-marketplace/internal/platform/querybuilder"
)

type ProfileRepository struct {
	db *sqlx.DB
}

func NewProfileRepository(db *sqlx.DB) *ProfileRepository {
	return &ProfileRepository{db: db}
}

func (r *ProfileRepository) GetByID(ctx context.Context, id string) (profile.Profile, bool, error) {
	query, args, err := qb.Select("*").
		From("profiles").
		Where(
			qb.Eq("id", id),
			qb.IsNull("deleted_at"),
		).
		Limit(1).
		ToSQL()
	if err != nil {
		return profile.Profile{}, false, fmt.Errorf("build get profile query: %w", err)
	}

	var row profileTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return profile.Profile{}, false, nil
		}
		return profile.Profile{}, false, fmt.Errorf("get profile: %w", err)
	}

	return profileFromRow(row), true, nil
}

func (r *ProfileRepository) List(ctx context.Context, filter profile.ListFilter) ([]profile.Profile, error) {
	conditions := []qb.Condition{qb.IsNull("deleted_at")}
	if filter.Role != "" {
		conditions = append(conditions, qb.Eq("role", string(filter.Role)))
	}
	if filter.OnboardingCompleted != nil {
		conditions = append(conditions, qb.Eq("onboarding_completed", *filter.OnboardingCompleted))
	}
	if filter.AvailableOnly {
		conditions = append(conditions, qb.Eq("is_available", true))
	}

	query, args, err := qb.Select("*").
		From("profiles").
		Where(conditions...).
		OrderBy("created_at", "id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list profiles query: %w", err)
	}

	var rows []profileTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list profiles: %w", err)
	}

	out := make([]profile.Profile, 0, len(rows))
	for _, row := range rows {
		out = append(out, profileFromRow(row))
	}
	return out, nil
}

// Create inserts the profile. Concurrent first-sight creations for the
// same account are harmless: the second insert is a no-op.
func (r *ProfileRepository) Create(ctx context.Context, p profile.Profile) error {
	query, args, err := qb.InsertModel("profiles", profileToInsertModel(p), "ON CONFLICT (id) DO NOTHING")
	if err != nil {
		return fmt.Errorf("build create profile query: %w", err)
	}

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("create profile: %w", err)
	}

	return nil
}

func (r *ProfileRepository) Update(ctx context.Context, id string, update profile.Update) (profile.Profile, bool, error) {
	builder := qb.Update("profiles").SetExpr("updated_at", "NOW()")
	if update.Name != nil {
		builder.Set("name", *update.Name)
	}
	if update.Profession != nil {
		builder.Set("profession", *update.Profession)
	}
	if update.Skills != nil {
		builder.Set("skills", pq.StringArray(update.Skills))
	}
	if update.Bio != nil {
		builder.Set("bio", *update.Bio)
	}
	if update.HourlyRate != nil {
		builder.Set("hourly_rate", *update.HourlyRate)
	}
	if update.Location != nil {
		builder.Set("location", *update.Location)
	}
	if update.AvatarURL != nil {
		builder.Set("avatar_url", *update.AvatarURL)
	}
	if update.IsAvailable != nil {
		builder.Set("is_available", *update.IsAvailable)
	}
	if update.OnboardingCompleted != nil {
		builder.Set("onboarding_completed", *update.OnboardingCompleted)
	}

	query, args, err := builder.
		Where(
			qb.Eq("id", id),
			qb.IsNull("deleted_at"),
		).
		ToSQL()
	if err != nil {
		return profile.Profile{}, false, fmt.Errorf("build update profile query: %w", err)
	}

	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return profile.Profile{}, false, fmt.Errorf("update profile: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return profile.Profile{}, false, fmt.Errorf("update profile rows affected: %w", err)
	}
	if affected == 0 {
		return profile.Profile{}, false, nil
	}

	return r.GetByID(ctx, id)
}
