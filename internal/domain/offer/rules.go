package offer

import "errors"

var (
	ErrInvalidTransition = errors.New("invalid offer status transition")
	ErrAlreadyPaid       = errors.New("offer is already paid")
	ErrActorNotAllowed   = errors.New("actor is not allowed to perform this transition")
	ErrSelfBooking       = errors.New("customer and professional must differ")
)

// CanTransition reports whether the lifecycle admits moving from one
// status to another, ignoring who asks.
func CanTransition(from, to Status) bool {
	switch from {
	case StatusPending:
		return to == StatusAccepted || to == StatusDeclined || to == StatusCancelled
	case StatusAccepted:
		return to == StatusPaid || to == StatusCancelled
	case StatusPaid:
		return to == StatusCompleted
	}
	return false
}

// Authorize checks that the actor may move the offer to the target
// status. Outsiders are rejected before anything else; participants on
// a closed or mismatched transition get ErrInvalidTransition, and a
// repeated pay attempt gets ErrAlreadyPaid.
func Authorize(o Offer, actorID string, to Status) error {
	if actorID != o.CustomerID && actorID != o.ProfessionalID {
		return ErrActorNotAllowed
	}
	if o.Status == StatusPaid && to == StatusPaid {
		return ErrAlreadyPaid
	}
	if !CanTransition(o.Status, to) {
		return ErrInvalidTransition
	}

	switch to {
	case StatusAccepted, StatusDeclined:
		if actorID != o.ProfessionalID {
			return ErrActorNotAllowed
		}
	case StatusPaid:
		if actorID != o.CustomerID {
			return ErrActorNotAllowed
		}
	case StatusCompleted:
		if actorID != o.ProfessionalID {
			return ErrActorNotAllowed
		}
	case StatusCancelled:
		// From PENDING only the customer may withdraw; once accepted
		// either party may call the job off.
		if o.Status == StatusPending && actorID != o.CustomerID {
			return ErrActorNotAllowed
		}
	}
	return nil
}
