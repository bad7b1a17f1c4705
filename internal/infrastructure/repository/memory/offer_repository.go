package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/helperaz/helper-marketplace/internal/domain/offer"
	"github.com/helperaz/helper-marketplace/internal/domain/transaction"
)

type OfferRepository struct {
	mu    sync.Mutex
	items map[string]offer.Offer
	txns  *TransactionRepository
	now   func() time.Time
}

// NewOfferRepository stores offers in memory. The transaction
// repository is shared so MarkPaid can record the payment under the
// same lock, mirroring the SQL adapter's single transaction.
func NewOfferRepository(txns *TransactionRepository) *OfferRepository {
	return &OfferRepository{
		items: make(map[string]offer.Offer),
		txns:  txns,
		now:   time.Now,
	}
}

func (r *OfferRepository) GetByID(_ context.Context, id string) (offer.Offer, bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	o, ok := r.items[id]
	if !ok {
		return offer.Offer{}, false, nil
	}

	return o, true, nil
}

func (r *OfferRepository) List(_ context.Context, filter offer.ListFilter) ([]offer.Offer, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]offer.Offer, 0, len(r.items))
	for _, o := range r.items {
		if filter.ParticipantID != "" && o.CustomerID != filter.ParticipantID && o.ProfessionalID != filter.ParticipantID {
			continue
		}
		if filter.Status != "" && o.Status != filter.Status {
			continue
		}
		out = append(out, o)
	}

	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID > out[j].ID
		}
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})

	return out, nil
}

func (r *OfferRepository) Insert(_ context.Context, o offer.Offer) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.items[o.ID]; exists {
		return fmt.Errorf("offer %s already exists", o.ID)
	}
	r.items[o.ID] = o
	return nil
}

func (r *OfferRepository) UpdateStatus(_ context.Context, id string, from, to offer.Status) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	o, ok := r.items[id]
	if !ok || o.Status != from {
		return false, nil
	}

	o.Status = to
	o.UpdatedAt = r.now().UTC()
	r.items[id] = o
	return true, nil
}

func (r *OfferRepository) MarkPaid(_ context.Context, id string, txn transaction.Transaction) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	o, ok := r.items[id]
	if !ok || o.Status != offer.StatusAccepted {
		return false, nil
	}

	if err := r.txns.insert(txn); err != nil {
		return false, fmt.Errorf("record payment transaction: %w", err)
	}

	o.Status = offer.StatusPaid
	o.UpdatedAt = r.now().UTC()
	r.items[id] = o
	return true, nil
}
