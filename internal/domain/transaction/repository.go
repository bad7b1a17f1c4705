package transaction

import "context"

type Repository interface {
	// GetByOfferID returns the transaction recorded for the offer and
	// whether one exists.
	GetByOfferID(ctx context.Context, offerID string) (Transaction, bool, error)
}
