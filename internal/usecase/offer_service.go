package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/helperaz/helper-marketplace/internal/domain/offer"
	"github.com/helperaz/helper-marketplace/internal/domain/profile"
	"github.com/helperaz/helper-marketplace/internal/domain/transaction"
	idgen "github.com/helperaz/helper-marketplace/internal/platform/id"
)

// CompletionScheduler enqueues a delayed job that auto-completes a
// paid offer once its service date has elapsed.
type CompletionScheduler interface {
	ScheduleCompletionCheck(ctx context.Context, offerID string, runAt time.Time) error
}

type noopCompletionScheduler struct{}

func (noopCompletionScheduler) ScheduleCompletionCheck(_ context.Context, _ string, _ time.Time) error {
	return nil
}

type OfferService struct {
	offerRepo   offer.Repository
	txnRepo     transaction.Repository
	profileRepo profile.Repository
	idGen       idgen.Generator
	scheduler   CompletionScheduler
	logger      *slog.Logger
	now         func() time.Time
}

func NewOfferService(
	offerRepo offer.Repository,
	txnRepo transaction.Repository,
	profileRepo profile.Repository,
	idGen idgen.Generator,
	scheduler CompletionScheduler,
	logger *slog.Logger,
) *OfferService {
	if scheduler == nil {
		scheduler = noopCompletionScheduler{}
	}

	return &OfferService{
		offerRepo:   offerRepo,
		txnRepo:     txnRepo,
		profileRepo: profileRepo,
		idGen:       idGen,
		scheduler:   scheduler,
		logger:      logger,
		now:         time.Now,
	}
}

type CreateOfferInput struct {
	CustomerID     string
	ProfessionalID string
	ServiceType    string
	Description    string
	Date           string
	Time           string
	Location       string
}

// CreateOffer books a professional. The price is snapshotted from the
// professional's current hourly rate and never changes afterwards.
func (s *OfferService) CreateOffer(ctx context.Context, input CreateOfferInput) (offer.Offer, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.OfferService.CreateOffer")
	defer span.End()

	input.CustomerID = strings.TrimSpace(input.CustomerID)
	input.ProfessionalID = strings.TrimSpace(input.ProfessionalID)
	input.ServiceType = strings.TrimSpace(input.ServiceType)
	input.Description = strings.TrimSpace(input.Description)
	input.Date = strings.TrimSpace(input.Date)
	input.Time = strings.TrimSpace(input.Time)
	input.Location = strings.TrimSpace(input.Location)

	if input.CustomerID == "" {
		return offer.Offer{}, fmt.Errorf("%w: customer id is required", ErrInvalidInput)
	}
	if input.ProfessionalID == "" {
		return offer.Offer{}, fmt.Errorf("%w: professional id is required", ErrInvalidInput)
	}
	if input.ServiceType == "" {
		return offer.Offer{}, fmt.Errorf("%w: service type is required", ErrInvalidInput)
	}
	if input.Date == "" {
		return offer.Offer{}, fmt.Errorf("%w: date is required", ErrInvalidInput)
	}
	if _, err := time.Parse("2006-01-02", input.Date); err != nil {
		return offer.Offer{}, fmt.Errorf("%w: date must be YYYY-MM-DD", ErrInvalidInput)
	}
	if input.Time != "" {
		if _, err := time.Parse("15:04", input.Time); err != nil {
			return offer.Offer{}, fmt.Errorf("%w: time must be HH:MM", ErrInvalidInput)
		}
	}
	if input.CustomerID == input.ProfessionalID {
		return offer.Offer{}, offer.ErrSelfBooking
	}

	pro, exists, err := s.profileRepo.GetByID(ctx, input.ProfessionalID)
	if err != nil {
		return offer.Offer{}, fmt.Errorf("get professional: %w", err)
	}
	if !exists || pro.Role != profile.RoleProfessional {
		return offer.Offer{}, fmt.Errorf("%w: professional %s", ErrNotFound, input.ProfessionalID)
	}
	if profile.RequiresOnboarding(pro) {
		return offer.Offer{}, fmt.Errorf("%w: professional has not finished onboarding", ErrInvalidInput)
	}
	if !pro.IsAvailable {
		return offer.Offer{}, fmt.Errorf("%w: professional is not available", ErrInvalidInput)
	}

	offerID, err := s.idGen.NewID()
	if err != nil {
		return offer.Offer{}, fmt.Errorf("generate offer id: %w", err)
	}

	now := s.now().UTC()
	o := offer.Offer{
		ID:             offerID,
		CustomerID:     input.CustomerID,
		ProfessionalID: input.ProfessionalID,
		ServiceType:    input.ServiceType,
		Description:    input.Description,
		Price:          pro.HourlyRate,
		Date:           input.Date,
		Time:           input.Time,
		Location:       input.Location,
		Status:         offer.StatusPending,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if o.Location == "" {
		o.Location = pro.Location
	}

	if err := s.offerRepo.Insert(ctx, o); err != nil {
		return offer.Offer{}, fmt.Errorf("insert offer: %w", err)
	}

	return o, nil
}

// ListOffers returns the offers where the user participates on either
// side, newest first.
func (s *OfferService) ListOffers(ctx context.Context, userID string) ([]offer.Offer, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.OfferService.ListOffers")
	defer span.End()

	userID = strings.TrimSpace(userID)
	if userID == "" {
		return nil, fmt.Errorf("%w: user id is required", ErrInvalidInput)
	}

	offers, err := s.offerRepo.List(ctx, offer.ListFilter{ParticipantID: userID})
	if err != nil {
		return nil, fmt.Errorf("list offers: %w", err)
	}

	return offers, nil
}

func (s *OfferService) GetOffer(ctx context.Context, offerID, actorID string) (offer.Offer, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.OfferService.GetOffer")
	defer span.End()

	o, err := s.getOffer(ctx, offerID)
	if err != nil {
		return offer.Offer{}, err
	}
	if actorID != o.CustomerID && actorID != o.ProfessionalID {
		return offer.Offer{}, fmt.Errorf("%w: not a participant of offer %s", ErrForbidden, o.ID)
	}

	return o, nil
}

func (s *OfferService) AcceptOffer(ctx context.Context, offerID, actorID string) (offer.Offer, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.OfferService.AcceptOffer")
	defer span.End()

	return s.applyTransition(ctx, offerID, actorID, offer.StatusAccepted)
}

func (s *OfferService) DeclineOffer(ctx context.Context, offerID, actorID string) (offer.Offer, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.OfferService.DeclineOffer")
	defer span.End()

	return s.applyTransition(ctx, offerID, actorID, offer.StatusDeclined)
}

func (s *OfferService) CancelOffer(ctx context.Context, offerID, actorID string) (offer.Offer, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.OfferService.CancelOffer")
	defer span.End()

	return s.applyTransition(ctx, offerID, actorID, offer.StatusCancelled)
}

func (s *OfferService) CompleteOffer(ctx context.Context, offerID, actorID string) (offer.Offer, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.OfferService.CompleteOffer")
	defer span.End()

	return s.applyTransition(ctx, offerID, actorID, offer.StatusCompleted)
}

// PayOffer is the simulated checkout. Moving ACCEPTED to PAID and
// recording the transaction happen atomically in the repository; the
// loser of a concurrent pay race observes ErrAlreadyPaid and no second
// transaction exists.
func (s *OfferService) PayOffer(ctx context.Context, offerID, actorID string) (offer.Offer, transaction.Transaction, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.OfferService.PayOffer")
	defer span.End()

	o, err := s.getOffer(ctx, offerID)
	if err != nil {
		return offer.Offer{}, transaction.Transaction{}, err
	}
	if err := offer.Authorize(o, strings.TrimSpace(actorID), offer.StatusPaid); err != nil {
		return offer.Offer{}, transaction.Transaction{}, err
	}

	txnID, err := s.idGen.NewID()
	if err != nil {
		return offer.Offer{}, transaction.Transaction{}, fmt.Errorf("generate transaction id: %w", err)
	}
	reference, err := s.idGen.NewID()
	if err != nil {
		return offer.Offer{}, transaction.Transaction{}, fmt.Errorf("generate payment reference: %w", err)
	}

	txn := transaction.Transaction{
		ID:             txnID,
		OfferID:        o.ID,
		CustomerID:     o.CustomerID,
		ProfessionalID: o.ProfessionalID,
		Amount:         o.Price,
		Status:         transaction.StatusCompleted,
		Reference:      transaction.ReferencePrefix + reference,
		CreatedAt:      s.now().UTC(),
	}

	ok, err := s.offerRepo.MarkPaid(ctx, o.ID, txn)
	if err != nil {
		return offer.Offer{}, transaction.Transaction{}, fmt.Errorf("mark offer paid: %w", err)
	}
	if !ok {
		return offer.Offer{}, transaction.Transaction{}, offer.ErrAlreadyPaid
	}

	s.scheduleCompletion(ctx, o)

	paid, err := s.getOffer(ctx, o.ID)
	if err != nil {
		return offer.Offer{}, transaction.Transaction{}, err
	}

	return paid, txn, nil
}

func (s *OfferService) GetTransaction(ctx context.Context, offerID, actorID string) (transaction.Transaction, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.OfferService.GetTransaction")
	defer span.End()

	o, err := s.getOffer(ctx, offerID)
	if err != nil {
		return transaction.Transaction{}, err
	}
	actorID = strings.TrimSpace(actorID)
	if actorID != o.CustomerID && actorID != o.ProfessionalID {
		return transaction.Transaction{}, fmt.Errorf("%w: not a participant of offer %s", ErrForbidden, o.ID)
	}

	txn, exists, err := s.txnRepo.GetByOfferID(ctx, o.ID)
	if err != nil {
		return transaction.Transaction{}, fmt.Errorf("get transaction by offer: %w", err)
	}
	if !exists {
		return transaction.Transaction{}, fmt.Errorf("%w: no transaction for offer %s", ErrNotFound, o.ID)
	}

	return txn, nil
}

func (s *OfferService) getOffer(ctx context.Context, offerID string) (offer.Offer, error) {
	offerID = strings.TrimSpace(offerID)
	if offerID == "" {
		return offer.Offer{}, fmt.Errorf("%w: offer id is required", ErrInvalidInput)
	}

	o, exists, err := s.offerRepo.GetByID(ctx, offerID)
	if err != nil {
		return offer.Offer{}, fmt.Errorf("get offer by id: %w", err)
	}
	if !exists {
		return offer.Offer{}, fmt.Errorf("%w: offer %s", ErrNotFound, offerID)
	}

	return o, nil
}

func (s *OfferService) applyTransition(ctx context.Context, offerID, actorID string, to offer.Status) (offer.Offer, error) {
	o, err := s.getOffer(ctx, offerID)
	if err != nil {
		return offer.Offer{}, err
	}
	if err := offer.Authorize(o, strings.TrimSpace(actorID), to); err != nil {
		return offer.Offer{}, err
	}

	ok, err := s.offerRepo.UpdateStatus(ctx, o.ID, o.Status, to)
	if err != nil {
		return offer.Offer{}, fmt.Errorf("update offer status: %w", err)
	}
	if !ok {
		// Someone else moved the offer between our read and the
		// conditional write.
		return offer.Offer{}, fmt.Errorf("%w: offer %s changed concurrently", offer.ErrInvalidTransition, o.ID)
	}

	return s.getOffer(ctx, o.ID)
}

func (s *OfferService) scheduleCompletion(ctx context.Context, o offer.Offer) {
	runAt, err := o.ServiceTime(time.UTC)
	if err != nil {
		s.logger.WarnContext(ctx, "skipping completion scheduling", "offer_id", o.ID, "error", err)
		return
	}
	if err := s.scheduler.ScheduleCompletionCheck(ctx, o.ID, runAt); err != nil {
		// Best effort: the periodic sweep picks the offer up anyway.
		s.logger.WarnContext(ctx, "failed to schedule completion check", "offer_id", o.ID, "error", err)
	}
}
