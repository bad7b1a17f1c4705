package postgres

import (
	"database/sql"
	"strings"
	"time"

	"github.com/helperaz/helper-marketplace/internal/domain/offer"
)

type offerTableModel struct {
	ID             string         `db:"id"`
	CustomerID     string         `db:"customer_id"`
	ProfessionalID string         `db:"professional_id"`
	ServiceType    string         `db:"service_type"`
	Description    sql.NullString `db:"description"`
	Price          float64        `db:"price"`
	ServiceDate    string         `db:"service_date"`
	ServiceTime    sql.NullString `db:"service_time"`
	Location       sql.NullString `db:"location"`
	Status         string         `db:"status"`
	CreatedAt      time.Time      `db:"created_at"`
	UpdatedAt      time.Time      `db:"updated_at"`
	DeletedAt      *time.Time     `db:"deleted_at"`
}

type offerInsertModel struct {
	ID             string  `db:"id"`
	CustomerID     string  `db:"customer_id"`
	ProfessionalID string  `db:"professional_id"`
	ServiceType    string  `db:"service_type"`
	Description    *string `db:"description"`
	Price          float64 `db:"price"`
	ServiceDate    string  `db:"service_date"`
	ServiceTime    *string `db:"service_time"`
	Location       *string `db:"location"`
	Status         string  `db:"status"`
}

func offerFromRow(row offerTableModel) offer.Offer {
	return offer.Offer{
		ID:             row.ID,
		CustomerID:     row.CustomerID,
		ProfessionalID: row.ProfessionalID,
		ServiceType:    strings.TrimSpace(row.ServiceType),
		Description:    strings.TrimSpace(row.Description.String),
		Price:          row.Price,
		Date:           strings.TrimSpace(row.ServiceDate),
		Time:           strings.TrimSpace(row.ServiceTime.String),
		Location:       strings.TrimSpace(row.Location.String),
		Status:         offer.Status(row.Status),
		CreatedAt:      row.CreatedAt,
		UpdatedAt:      row.UpdatedAt,
	}
}

func offerToInsertModel(o offer.Offer) offerInsertModel {
	return offerInsertModel{
		ID:             strings.TrimSpace(o.ID),
		CustomerID:     strings.TrimSpace(o.CustomerID),
		ProfessionalID: strings.TrimSpace(o.ProfessionalID),
		ServiceType:    strings.TrimSpace(o.ServiceType),
		Description:    optionalString(o.Description),
		Price:          o.Price,
		ServiceDate:    strings.TrimSpace(o.Date),
		ServiceTime:    optionalString(o.Time),
		Location:       optionalString(o.Location),
		Status:         string(o.Status),
	}
}
