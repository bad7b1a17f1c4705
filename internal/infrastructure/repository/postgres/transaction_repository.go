package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/helperaz/helper-marketplace/internal/domain/transaction"
	qb "github.com/helperaz/helper-marketplace/internal/platform/querybuilder"
)

type TransactionRepository struct {
	db *sqlx.DB
}

func NewTransactionRepository(db *sqlx.DB) *TransactionRepository {
	return &TransactionRepository{db: db}
}

func (r *TransactionRepository) GetByOfferID(ctx context.Context, offerID string) (transaction.Transaction, bool, error) {
	query, args, err := qb.Select("*").
		From("transactions").
		Where(qb.Eq("offer_id", offerID)).
		Limit(1).
		ToSQL()
	if err != nil {
		return transaction.Transaction{}, false, fmt.Errorf("build get transaction query: %w", err)
	}

	var row transactionTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return transaction.Transaction{}, false, nil
		}
		return transaction.Transaction{}, false, fmt.Errorf("get transaction: %w", err)
	}

	return transactionFromRow(row), true, nil
}
