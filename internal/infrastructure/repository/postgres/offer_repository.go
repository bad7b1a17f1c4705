package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/helperaz/helper-marketplace/internal/domain/offer"
	"github.com/helperaz/helper-marketplace/internal/domain/transaction"
	qb "github.com/helperaz/helper-marketplace/internal/platform/querybuilder"
)

type OfferRepository struct {
	db *sqlx.DB
}

func NewOfferRepository(db *sqlx.DB) *OfferRepository {
	return &OfferRepository{db: db}
}

func (r *OfferRepository) GetByID(ctx context.Context, id string) (offer.Offer, bool, error) {
	query, args, err := qb.Select("*").
		From("offers").
		Where(
			qb.Eq("id", id),
			qb.IsNull("deleted_at"),
		).
		Limit(1).
		ToSQL()
	if err != nil {
		return offer.Offer{}, false, fmt.Errorf("build get offer query: %w", err)
	}

	var row offerTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return offer.Offer{}, false, nil
		}
		return offer.Offer{}, false, fmt.Errorf("get offer: %w", err)
	}

	return offerFromRow(row), true, nil
}

func (r *OfferRepository) List(ctx context.Context, filter offer.ListFilter) ([]offer.Offer, error) {
	conditions := []qb.Condition{qb.IsNull("deleted_at")}
	if filter.ParticipantID != "" {
		conditions = append(conditions, qb.Or(
			qb.Eq("customer_id", filter.ParticipantID),
			qb.Eq("professional_id", filter.ParticipantID),
		))
	}
	if filter.Status != "" {
		conditions = append(conditions, qb.Eq("status", string(filter.Status)))
	}

	query, args, err := qb.Select("*").
		From("offers").
		Where(conditions...).
		OrderBy("created_at DESC", "id DESC").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list offers query: %w", err)
	}

	var rows []offerTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list offers: %w", err)
	}

	out := make([]offer.Offer, 0, len(rows))
	for _, row := range rows {
		out = append(out, offerFromRow(row))
	}
	return out, nil
}

func (r *OfferRepository) Insert(ctx context.Context, o offer.Offer) error {
	query, args, err := qb.InsertModel("offers", offerToInsertModel(o), "")
	if err != nil {
		return fmt.Errorf("build insert offer query: %w", err)
	}

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("insert offer: %w", err)
	}

	return nil
}

// UpdateStatus is conditional on the prior status, so two callers
// racing over the same offer cannot both win.
func (r *OfferRepository) UpdateStatus(ctx context.Context, id string, from, to offer.Status) (bool, error) {
	query, args, err := qb.Update("offers").
		Set("status", string(to)).
		SetExpr("updated_at", "NOW()").
		Where(
			qb.Eq("id", id),
			qb.Eq("status", string(from)),
			qb.IsNull("deleted_at"),
		).
		ToSQL()
	if err != nil {
		return false, fmt.Errorf("build update offer status query: %w", err)
	}

	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return false, fmt.Errorf("update offer status: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("update offer status rows affected: %w", err)
	}

	return affected > 0, nil
}

// MarkPaid pairs the conditional PAID flip with the transaction insert
// in one database transaction. The WHERE status = 'ACCEPTED' guard
// decides the winner of a concurrent pay race; the loser gets false
// and nothing is written.
func (r *OfferRepository) MarkPaid(ctx context.Context, id string, txn transaction.Transaction) (bool, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return false, fmt.Errorf("begin mark paid tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	res, err := tx.ExecContext(ctx,
		`UPDATE offers SET status = $1, updated_at = NOW() WHERE id = $2 AND status = $3 AND deleted_at IS NULL`,
		string(offer.StatusPaid), id, string(offer.StatusAccepted),
	)
	if err != nil {
		return false, fmt.Errorf("mark offer paid: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("mark offer paid rows affected: %w", err)
	}
	if affected == 0 {
		return false, nil
	}

	query, args, err := qb.InsertModel("transactions", transactionToInsertModel(txn), "")
	if err != nil {
		return false, fmt.Errorf("build insert transaction query: %w", err)
	}
	if _, err := tx.ExecContext(ctx, query, args...); err != nil {
		return false, fmt.Errorf("insert transaction: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return false, fmt.Errorf("commit mark paid tx: %w", err)
	}

	return true, nil
}
