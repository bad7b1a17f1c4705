package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/helperaz/helper-marketplace/internal/domain/profile"
	"github.com/helperaz/helper-marketplace/internal/domain/search"
)

// KeywordExpander turns a free-text query into service categories and
// keywords. The language-model gateway client implements it.
type KeywordExpander interface {
	Expand(ctx context.Context, query string) (search.Expansion, error)
}

type noopKeywordExpander struct{}

func (noopKeywordExpander) Expand(_ context.Context, _ string) (search.Expansion, error) {
	return search.Expansion{}, nil
}

type SearchService struct {
	profileRepo profile.Repository
	expander    KeywordExpander
	logger      *slog.Logger
}

func NewSearchService(profileRepo profile.Repository, expander KeywordExpander, logger *slog.Logger) *SearchService {
	if expander == nil {
		expander = noopKeywordExpander{}
	}

	return &SearchService{
		profileRepo: profileRepo,
		expander:    expander,
		logger:      logger,
	}
}

// SearchProfessionals matches available, onboarded professionals
// against the expanded keyword set. A failing expander degrades to
// matching the raw query; an empty match set falls back to the full
// candidate list so the caller never sees a dead end.
func (s *SearchService) SearchProfessionals(ctx context.Context, query string) ([]profile.Profile, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.SearchService.SearchProfessionals")
	defer span.End()

	query = strings.TrimSpace(query)
	if query == "" {
		return nil, fmt.Errorf("%w: query is required", ErrInvalidInput)
	}

	onboarded := true
	candidates, err := s.profileRepo.List(ctx, profile.ListFilter{
		Role:                profile.RoleProfessional,
		OnboardingCompleted: &onboarded,
		AvailableOnly:       true,
	})
	if err != nil {
		return nil, fmt.Errorf("list search candidates: %w", err)
	}
	if len(candidates) == 0 {
		return []profile.Profile{}, nil
	}

	expansion, err := s.expander.Expand(ctx, query)
	if err != nil {
		s.logger.WarnContext(ctx, "keyword expansion failed, falling back to raw query", "error", err)
		expansion = search.Expansion{}
	}
	keywords := search.Keywords(query, expansion)

	matched := make([]profile.Profile, 0, len(candidates))
	for _, c := range candidates {
		if search.Matches(c.Profession, c.Skills, c.Name, c.Bio, keywords) {
			matched = append(matched, c)
		}
	}
	if len(matched) == 0 {
		return candidates, nil
	}

	return matched, nil
}
