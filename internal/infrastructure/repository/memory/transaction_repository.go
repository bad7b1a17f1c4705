package memory

import (
	"context"
	"fmt"
	"sync"

	"github.com/helperaz/helper-marketplace/internal/domain/transaction"
)

type TransactionRepository struct {
	mu      sync.RWMutex
	byOffer map[string]transaction.Transaction
}

func NewTransactionRepository() *TransactionRepository {
	return &TransactionRepository{byOffer: make(map[string]transaction.Transaction)}
}

func (r *TransactionRepository) GetByOfferID(_ context.Context, offerID string) (transaction.Transaction, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	txn, ok := r.byOffer[offerID]
	if !ok {
		return transaction.Transaction{}, false, nil
	}

	return txn, true, nil
}

func (r *TransactionRepository) insert(txn transaction.Transaction) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.byOffer[txn.OfferID]; exists {
		return fmt.Errorf("transaction for offer %s already exists", txn.OfferID)
	}
	r.byOffer[txn.OfferID] = txn
	return nil
}

// Count reports how many transactions are stored. Test helper.
func (r *TransactionRepository) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return len(r.byOffer)
}
