package cache

import (
	"context"
	"strconv"

	"github.com/helperaz/helper-marketplace/internal/domain/profile"
	basecache "github.com/helperaz/helper-marketplace/internal/platform/cache"
)

// ProfileRepository is a read-through cache in front of the profile
// store. Writes pass through and invalidate every profile key, since
// one mutation can move a profile in or out of several list results.
type ProfileRepository struct {
	next  profile.Repository
	cache *basecache.Store
}

func NewProfileRepository(next profile.Repository, cache *basecache.Store) *ProfileRepository {
	return &ProfileRepository{next: next, cache: cache}
}

func (r *ProfileRepository) GetByID(ctx context.Context, id string) (profile.Profile, bool, error) {
	key := "profile:id:" + id
	v, err := r.cache.GetOrLoad(ctx, key, func(ctx context.Context) (any, error) {
		item, exists, err := r.next.GetByID(ctx, id)
		if err != nil {
			return nil, err
		}
		return cachedProfileByID{value: cloneProfile(item), exists: exists}, nil
	})
	if err != nil {
		return profile.Profile{}, false, err
	}

	cached, _ := v.(cachedProfileByID)
	return cloneProfile(cached.value), cached.exists, nil
}

func (r *ProfileRepository) List(ctx context.Context, filter profile.ListFilter) ([]profile.Profile, error) {
	v, err := r.cache.GetOrLoad(ctx, profileListKey(filter), func(ctx context.Context) (any, error) {
		items, err := r.next.List(ctx, filter)
		if err != nil {
			return nil, err
		}
		out := make([]profile.Profile, 0, len(items))
		for _, item := range items {
			out = append(out, cloneProfile(item))
		}
		return out, nil
	})
	if err != nil {
		return nil, err
	}

	items, _ := v.([]profile.Profile)
	out := make([]profile.Profile, 0, len(items))
	for _, item := range items {
		out = append(out, cloneProfile(item))
	}
	return out, nil
}

func (r *ProfileRepository) Create(ctx context.Context, p profile.Profile) error {
	if err := r.next.Create(ctx, p); err != nil {
		return err
	}

	r.cache.Delete(ctx, "profile:id:"+p.ID)
	r.cache.DeletePrefix(ctx, "profile:list:")
	return nil
}

func (r *ProfileRepository) Update(ctx context.Context, id string, update profile.Update) (profile.Profile, bool, error) {
	updated, exists, err := r.next.Update(ctx, id, update)
	if err != nil {
		return profile.Profile{}, false, err
	}

	r.cache.Delete(ctx, "profile:id:"+id)
	r.cache.DeletePrefix(ctx, "profile:list:")
	return updated, exists, nil
}

type cachedProfileByID struct {
	value  profile.Profile
	exists bool
}

func profileListKey(filter profile.ListFilter) string {
	onboarded := "any"
	if filter.OnboardingCompleted != nil {
		onboarded = strconv.FormatBool(*filter.OnboardingCompleted)
	}
	return "profile:list:role:" + string(filter.Role) +
		":onboarded:" + onboarded +
		":available:" + strconv.FormatBool(filter.AvailableOnly)
}

func cloneProfile(p profile.Profile) profile.Profile {
	out := p
	out.Skills = append([]string(nil), p.Skills...)
	return out
}
