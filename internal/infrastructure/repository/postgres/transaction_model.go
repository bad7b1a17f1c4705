package postgres

import (
	"strings"
	"time"

	"github.com/helperaz/helper-marketplace/internal/domain/transaction"
)

type transactionTableModel struct {
	ID             string    `db:"id"`
	OfferID        string    `db:"offer_id"`
	CustomerID     string    `db:"customer_id"`
	ProfessionalID string    `db:"professional_id"`
	Amount         float64   `db:"amount"`
	Status         string    `db:"status"`
	Reference      string    `db:"reference"`
	CreatedAt      time.Time `db:"created_at"`
}

type transactionInsertModel struct {
	ID             string  `db:"id"`
	OfferID        string  `db:"offer_id"`
	CustomerID     string  `db:"customer_id"`
	ProfessionalID string  `db:"professional_id"`
	Amount         float64 `db:"amount"`
	Status         string  `db:"status"`
	Reference      string  `db:"reference"`
}

func transactionFromRow(row transactionTableModel) transaction.Transaction {
	return transaction.Transaction{
		ID:             row.ID,
		OfferID:        row.OfferID,
		CustomerID:     row.CustomerID,
		ProfessionalID: row.ProfessionalID,
		Amount:         row.Amount,
		Status:         transaction.Status(row.Status),
		Reference:      strings.TrimSpace(row.Reference),
		CreatedAt:      row.CreatedAt,
	}
}

func transactionToInsertModel(txn transaction.Transaction) transactionInsertModel {
	return transactionInsertModel{
		ID:             strings.TrimSpace(txn.ID),
		OfferID:        strings.TrimSpace(txn.OfferID),
		CustomerID:     strings.TrimSpace(txn.CustomerID),
		ProfessionalID: strings.TrimSpace(txn.ProfessionalID),
		Amount:         txn.Amount,
		Status:         string(txn.Status),
		Reference:      strings.TrimSpace(txn.Reference),
	}
}
