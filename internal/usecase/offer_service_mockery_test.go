package usecase

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/helperaz/helper-marketplace/internal/domain/offer"
	"github.com/helperaz/helper-marketplace/internal/domain/transaction"
	offermock "github.com/helperaz/helper-marketplace/internal/mocks/domain/offer"
	profilemock "github.com/helperaz/helper-marketplace/internal/mocks/domain/profile"
	transactionmock "github.com/helperaz/helper-marketplace/internal/mocks/domain/transaction"
	idgen "github.com/helperaz/helper-marketplace/internal/platform/id"
)

func TestOfferService_ListOffers_SuccessUsingMockery(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	offerRepo := offermock.NewRepository(t)
	txnRepo := transactionmock.NewRepository(t)
	profileRepo := profilemock.NewRepository(t)

	service := NewOfferService(offerRepo, txnRepo, profileRepo, idgen.NewUUIDGenerator(), nil, discardLogger())
	expected := []offer.Offer{
		{
			ID:             "offer-001",
			CustomerID:     "customer-nigar",
			ProfessionalID: "pro-rashad",
			ServiceType:    "plumbing",
			Price:          25,
			Status:         offer.StatusPending,
			CreatedAt:      time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC),
		},
	}

	offerRepo.
		On("List", mock.MatchedBy(func(v context.Context) bool { return v == ctx }), offer.ListFilter{ParticipantID: "customer-nigar"}).
		Return(expected, nil).
		Once()

	got, err := service.ListOffers(ctx, "customer-nigar")
	if err != nil {
		t.Fatalf("list offers: %v", err)
	}
	if len(got) != len(expected) {
		t.Fatalf("unexpected offer count: got=%d want=%d", len(got), len(expected))
	}
	if got[0].ID != expected[0].ID {
		t.Fatalf("unexpected offer id: got=%s want=%s", got[0].ID, expected[0].ID)
	}
}

func TestOfferService_PayOffer_RaceLoserUsingMockery(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	offerRepo := offermock.NewRepository(t)
	txnRepo := transactionmock.NewRepository(t)
	profileRepo := profilemock.NewRepository(t)

	service := NewOfferService(offerRepo, txnRepo, profileRepo, idgen.NewUUIDGenerator(), nil, discardLogger())
	accepted := offer.Offer{
		ID:             "offer-001",
		CustomerID:     "customer-nigar",
		ProfessionalID: "pro-rashad",
		Price:          25,
		Date:           "2026-09-12",
		Status:         offer.StatusAccepted,
	}

	offerRepo.
		On("GetByID", mock.MatchedBy(func(v context.Context) bool { return v == ctx }), "offer-001").
		Return(accepted, true, nil).
		Once()
	offerRepo.
		On("MarkPaid",
			mock.MatchedBy(func(v context.Context) bool { return v == ctx }),
			"offer-001",
			mock.MatchedBy(func(txn transaction.Transaction) bool {
				return txn.OfferID == "offer-001" &&
					txn.Amount == 25 &&
					strings.HasPrefix(txn.Reference, transaction.ReferencePrefix)
			}),
		).
		Return(false, nil).
		Once()

	_, _, err := service.PayOffer(ctx, "offer-001", "customer-nigar")
	if !errors.Is(err, offer.ErrAlreadyPaid) {
		t.Fatalf("expected ErrAlreadyPaid for race loser, got %v", err)
	}
}

func TestOfferService_GetOffer_NotFoundUsingMockery(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	offerRepo := offermock.NewRepository(t)
	txnRepo := transactionmock.NewRepository(t)
	profileRepo := profilemock.NewRepository(t)

	service := NewOfferService(offerRepo, txnRepo, profileRepo, idgen.NewUUIDGenerator(), nil, discardLogger())

	offerRepo.
		On("GetByID", mock.MatchedBy(func(v context.Context) bool { return v == ctx }), "missing-offer").
		Return(offer.Offer{}, false, nil).
		Once()

	_, err := service.GetOffer(ctx, "missing-offer", "customer-nigar")
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
