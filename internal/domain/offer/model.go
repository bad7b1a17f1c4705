package offer

import (
	"fmt"
	"time"
)

// Status is the lifecycle state of an offer.
type Status string

const (
	StatusPending   Status = "PENDING"
	StatusAccepted  Status = "ACCEPTED"
	StatusDeclined  Status = "DECLINED"
	StatusPaid      Status = "PAID"
	StatusCompleted Status = "COMPLETED"
	StatusCancelled Status = "CANCELLED"
)

func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusAccepted, StatusDeclined, StatusPaid, StatusCompleted, StatusCancelled:
		return true
	}
	return false
}

// Terminal reports whether the status admits no further transitions.
func (s Status) Terminal() bool {
	switch s {
	case StatusDeclined, StatusCompleted, StatusCancelled:
		return true
	}
	return false
}

// Offer is a booking request from a customer to a professional. Price
// is a snapshot of the professional's hourly rate at creation time and
// never changes afterwards.
type Offer struct {
	ID             string
	CustomerID     string
	ProfessionalID string
	ServiceType    string
	Description    string
	Price          float64
	Date           string
	Time           string
	Location       string
	Status         Status
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// ServiceTime parses the scheduled date and time into a wall-clock
// instant in the given location. Time defaults to start of day when
// the slot was left open.
func (o Offer) ServiceTime(loc *time.Location) (time.Time, error) {
	if loc == nil {
		loc = time.UTC
	}
	layout := "2006-01-02"
	value := o.Date
	if o.Time != "" {
		layout = "2006-01-02 15:04"
		value = o.Date + " " + o.Time
	}
	ts, err := time.ParseInLocation(layout, value, loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse service time %q: %w", value, err)
	}
	return ts, nil
}
