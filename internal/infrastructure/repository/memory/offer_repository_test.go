package memory

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/helperaz/helper-marketplace/internal/domain/offer"
	"github.com/helperaz/helper-marketplace/internal/domain/transaction"
)

func acceptedOffer(id string) offer.Offer {
	return offer.Offer{
		ID:             id,
		CustomerID:     "customer-1",
		ProfessionalID: "pro-1",
		ServiceType:    "plumbing",
		Price:          25,
		Date:           "2026-09-12",
		Status:         offer.StatusAccepted,
		CreatedAt:      time.Now().UTC(),
	}
}

func TestUpdateStatusIsConditional(t *testing.T) {
	t.Parallel()

	txns := NewTransactionRepository()
	repo := NewOfferRepository(txns)
	ctx := context.Background()

	if err := repo.Insert(ctx, acceptedOffer("o1")); err != nil {
		t.Fatalf("Insert() error = %v", err)
	}

	ok, err := repo.UpdateStatus(ctx, "o1", offer.StatusAccepted, offer.StatusCancelled)
	if err != nil || !ok {
		t.Fatalf("UpdateStatus() = %v, %v, want true, nil", ok, err)
	}

	// Prior status no longer matches.
	ok, err = repo.UpdateStatus(ctx, "o1", offer.StatusAccepted, offer.StatusCancelled)
	if err != nil {
		t.Fatalf("UpdateStatus() error = %v", err)
	}
	if ok {
		t.Fatal("UpdateStatus() should report false when prior status changed")
	}

	ok, err = repo.UpdateStatus(ctx, "missing", offer.StatusAccepted, offer.StatusCancelled)
	if err != nil || ok {
		t.Fatalf("UpdateStatus() on missing offer = %v, %v, want false, nil", ok, err)
	}
}

func TestMarkPaidRaceRecordsOneTransaction(t *testing.T) {
	t.Parallel()

	txns := NewTransactionRepository()
	repo := NewOfferRepository(txns)
	ctx := context.Background()

	if err := repo.Insert(ctx, acceptedOffer("o1")); err != nil {
		t.Fatalf("Insert() error = %v", err)
	}

	const attempts = 16
	results := make([]bool, attempts)

	var wg sync.WaitGroup
	for i := 0; i < attempts; i++ {
		i := i
		wg.Add(1)
		go func() {
			defer wg.Done()

			txn := transaction.Transaction{
				ID:      "txn-" + string(rune('a'+i)),
				OfferID: "o1",
				Amount:  25,
				Status:  transaction.StatusCompleted,
			}
			ok, err := repo.MarkPaid(ctx, "o1", txn)
			if err != nil {
				t.Errorf("MarkPaid() error = %v", err)
				return
			}
			results[i] = ok
		}()
	}
	wg.Wait()

	winners := 0
	for _, ok := range results {
		if ok {
			winners++
		}
	}
	if winners != 1 {
		t.Fatalf("MarkPaid() winners = %d, want exactly 1", winners)
	}
	if txns.Count() != 1 {
		t.Fatalf("stored transactions = %d, want 1", txns.Count())
	}

	paid, exists, err := repo.GetByID(ctx, "o1")
	if err != nil || !exists {
		t.Fatalf("GetByID() = %v, %v", exists, err)
	}
	if paid.Status != offer.StatusPaid {
		t.Fatalf("offer status = %s, want %s", paid.Status, offer.StatusPaid)
	}
}

func TestListFiltersByParticipantNewestFirst(t *testing.T) {
	t.Parallel()

	repo := NewOfferRepository(NewTransactionRepository())
	ctx := context.Background()

	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	older := acceptedOffer("older")
	older.CreatedAt = base
	newer := acceptedOffer("newer")
	newer.CreatedAt = base.Add(time.Hour)
	foreign := acceptedOffer("foreign")
	foreign.CustomerID = "someone-else"
	foreign.ProfessionalID = "another-pro"
	foreign.CreatedAt = base.Add(2 * time.Hour)

	for _, o := range []offer.Offer{older, newer, foreign} {
		if err := repo.Insert(ctx, o); err != nil {
			t.Fatalf("Insert(%s) error = %v", o.ID, err)
		}
	}

	got, err := repo.List(ctx, offer.ListFilter{ParticipantID: "customer-1"})
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("List() returned %d offers, want 2", len(got))
	}
	if got[0].ID != "newer" || got[1].ID != "older" {
		t.Fatalf("List() order = [%s %s], want [newer older]", got[0].ID, got[1].ID)
	}

	paidOnly, err := repo.List(ctx, offer.ListFilter{Status: offer.StatusPaid})
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(paidOnly) != 0 {
		t.Fatalf("List(paid) returned %d offers, want 0", len(paidOnly))
	}
}
