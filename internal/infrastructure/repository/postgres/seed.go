package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/helperaz/helper-marketplace/internal/infrastructure/repository/memory"
)

// BootstrapSeed loads the demo profiles into an empty database. A
// non-empty profiles table means the environment has real data, so the
// seed is skipped entirely.
func BootstrapSeed(ctx context.Context, db *sqlx.DB) error {
	var count int
	if err := db.GetContext(ctx, &count, `SELECT COUNT(1) FROM profiles WHERE deleted_at IS NULL`); err != nil {
		return fmt.Errorf("count profiles for bootstrap seed: %w", err)
	}
	if count > 0 {
		return nil
	}

	tx, err := db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin seed tx: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	for _, p := range memory.SeedProfiles() {
		sqlQuery, args, err := sqlx.Named(`
INSERT INTO profiles (id, name, role, profession, skills, bio, hourly_rate, location, rating, reviews_count, avatar_url, is_available, is_verified, onboarding_completed)
VALUES (:id, :name, :role, :profession, :skills, :bio, :hourly_rate, :location, :rating, :reviews_count, :avatar_url, :is_available, :is_verified, :onboarding_completed)
ON CONFLICT (id) DO NOTHING`, map[string]any{
			"id":                   p.ID,
			"name":                 p.Name,
			"role":                 string(p.Role),
			"profession":           optionalString(p.Profession),
			"skills":               pq.StringArray(p.Skills),
			"bio":                  optionalString(p.Bio),
			"hourly_rate":          p.HourlyRate,
			"location":             optionalString(p.Location),
			"rating":               p.Rating,
			"reviews_count":        p.ReviewsCount,
			"avatar_url":           optionalString(p.AvatarURL),
			"is_available":         p.IsAvailable,
			"is_verified":          p.IsVerified,
			"onboarding_completed": p.OnboardingCompleted,
		})
		if err != nil {
			return fmt.Errorf("bind seed profile %s query: %w", p.ID, err)
		}
		sqlQuery = tx.Rebind(sqlQuery)
		if _, err := tx.ExecContext(ctx, sqlQuery, args...); err != nil {
			return fmt.Errorf("seed profile %s: %w", p.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit seed tx: %w", err)
	}

	return nil
}
