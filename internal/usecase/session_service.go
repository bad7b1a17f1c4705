package usecase

import (
	"context"
	"fmt"
	"strings"

	"github.com/sourcegraph/conc/pool"

	"github.com/helperaz/helper-marketplace/internal/domain/offer"
	"github.com/helperaz/helper-marketplace/internal/domain/profile"
	"github.com/helperaz/helper-marketplace/internal/domain/user"
)

// Session is everything the client needs to render after sign-in.
type Session struct {
	Profile            profile.Profile
	Offers             []offer.Offer
	RequiresOnboarding bool
}

type SessionService struct {
	profileService *ProfileService
	offerRepo      offer.Repository
}

func NewSessionService(profileService *ProfileService, offerRepo offer.Repository) *SessionService {
	return &SessionService{
		profileService: profileService,
		offerRepo:      offerRepo,
	}
}

// Bootstrap resolves the caller's profile (creating it on first sight)
// and their offer list in parallel.
func (s *SessionService) Bootstrap(ctx context.Context, principal user.Principal) (Session, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.SessionService.Bootstrap")
	defer span.End()

	userID := strings.TrimSpace(principal.UserID)
	if userID == "" {
		return Session{}, fmt.Errorf("%w: principal user id is required", ErrInvalidInput)
	}

	var (
		p      profile.Profile
		offers []offer.Offer
	)
	group := pool.New().WithContext(ctx).WithCancelOnError()
	group.Go(func(ctx context.Context) error {
		ensured, err := s.profileService.EnsureProfile(ctx, principal)
		if err != nil {
			return err
		}
		p = ensured
		return nil
	})
	group.Go(func(ctx context.Context) error {
		list, err := s.offerRepo.List(ctx, offer.ListFilter{ParticipantID: userID})
		if err != nil {
			return fmt.Errorf("list session offers: %w", err)
		}
		offers = list
		return nil
	})
	if err := group.Wait(); err != nil {
		return Session{}, err
	}

	return Session{
		Profile:            p,
		Offers:             offers,
		RequiresOnboarding: profile.RequiresOnboarding(p),
	}, nil
}
