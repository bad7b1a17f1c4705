package transaction

import "time"

type Status string

const (
	StatusPending   Status = "pending"
	StatusCompleted Status = "completed"
	StatusRefunded  Status = "refunded"
)

// ReferencePrefix marks references issued by the simulated payment
// processor.
const ReferencePrefix = "sim_pi_"

// Transaction records a completed checkout for exactly one offer.
type Transaction struct {
	ID             string
	OfferID        string
	CustomerID     string
	ProfessionalID string
	Amount         float64
	Status         Status
	Reference      string
	CreatedAt      time.Time
}
