package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/helperaz/helper-marketplace/internal/domain/profile"
)

type ProfileRepository struct {
	mu    sync.RWMutex
	items map[string]profile.Profile
	now   func() time.Time
}

func NewProfileRepository(seed []profile.Profile) *ProfileRepository {
	items := make(map[string]profile.Profile, len(seed))
	for _, p := range seed {
		items[p.ID] = cloneProfile(p)
	}

	return &ProfileRepository{items: items, now: time.Now}
}

func (r *ProfileRepository) GetByID(_ context.Context, id string) (profile.Profile, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	p, ok := r.items[id]
	if !ok {
		return profile.Profile{}, false, nil
	}

	return cloneProfile(p), true, nil
}

func (r *ProfileRepository) List(_ context.Context, filter profile.ListFilter) ([]profile.Profile, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]profile.Profile, 0, len(r.items))
	for _, p := range r.items {
		if filter.Role != "" && p.Role != filter.Role {
			continue
		}
		if filter.OnboardingCompleted != nil && p.OnboardingCompleted != *filter.OnboardingCompleted {
			continue
		}
		if filter.AvailableOnly && !p.IsAvailable {
			continue
		}
		out = append(out, cloneProfile(p))
	}

	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID < out[j].ID
		}
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})

	return out, nil
}

// Create inserts the profile unless one already exists for the id, in
// which case the stored row wins. Matches the ON CONFLICT DO NOTHING
// the SQL adapter uses for first-sight creation races.
func (r *ProfileRepository) Create(_ context.Context, p profile.Profile) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.items[p.ID]; exists {
		return nil
	}
	r.items[p.ID] = cloneProfile(p)
	return nil
}

func (r *ProfileRepository) Update(_ context.Context, id string, update profile.Update) (profile.Profile, bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	p, ok := r.items[id]
	if !ok {
		return profile.Profile{}, false, nil
	}

	if update.Name != nil {
		p.Name = *update.Name
	}
	if update.Profession != nil {
		p.Profession = *update.Profession
	}
	if update.Skills != nil {
		p.Skills = append([]string(nil), update.Skills...)
	}
	if update.Bio != nil {
		p.Bio = *update.Bio
	}
	if update.HourlyRate != nil {
		p.HourlyRate = *update.HourlyRate
	}
	if update.Location != nil {
		p.Location = *update.Location
	}
	if update.AvatarURL != nil {
		p.AvatarURL = *update.AvatarURL
	}
	if update.IsAvailable != nil {
		p.IsAvailable = *update.IsAvailable
	}
	if update.OnboardingCompleted != nil {
		p.OnboardingCompleted = *update.OnboardingCompleted
	}
	p.UpdatedAt = r.now().UTC()

	r.items[id] = p
	return cloneProfile(p), true, nil
}

func cloneProfile(p profile.Profile) profile.Profile {
	copied := p
	copied.Skills = append([]string(nil), p.Skills...)
	return copied
}
