package offer

import (
	"context"

	"github.com/helperaz/helper-marketplace/internal/domain/transaction"
)

// ListFilter narrows List results. Zero fields are ignored.
type ListFilter struct {
	// ParticipantID matches offers where the id is either the customer
	// or the professional.
	ParticipantID string
	Status        Status
}

type Repository interface {
	// GetByID returns the offer and whether it exists.
	GetByID(ctx context.Context, id string) (Offer, bool, error)
	// List returns matching offers ordered by creation time, newest first.
	List(ctx context.Context, filter ListFilter) ([]Offer, error)
	Insert(ctx context.Context, o Offer) error
	// UpdateStatus moves the offer from one status to another. It
	// returns false without error when the offer was no longer in the
	// expected prior status, so races surface to the caller.
	UpdateStatus(ctx context.Context, id string, from, to Status) (bool, error)
	// MarkPaid atomically moves an ACCEPTED offer to PAID and records
	// the payment transaction. It returns false without error when the
	// offer was not in ACCEPTED anymore; losers of a concurrent pay
	// race see false, never a duplicate transaction.
	MarkPaid(ctx context.Context, id string, txn transaction.Transaction) (bool, error)
}
