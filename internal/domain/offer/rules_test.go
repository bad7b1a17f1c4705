package offer

import (
	"errors"
	"testing"
	"time"
)

func sampleOffer(status Status) Offer {
	return Offer{
		ID:             "offer-1",
		CustomerID:     "customer-1",
		ProfessionalID: "pro-1",
		ServiceType:    "plumbing",
		Price:          25,
		Date:           "2026-09-12",
		Time:           "10:00",
		Status:         status,
	}
}

func TestCanTransition(t *testing.T) {
	t.Parallel()

	allowed := map[Status][]Status{
		StatusPending:  {StatusAccepted, StatusDeclined, StatusCancelled},
		StatusAccepted: {StatusPaid, StatusCancelled},
		StatusPaid:     {StatusCompleted},
	}
	all := []Status{StatusPending, StatusAccepted, StatusDeclined, StatusPaid, StatusCompleted, StatusCancelled}

	for _, from := range all {
		for _, to := range all {
			want := false
			for _, a := range allowed[from] {
				if a == to {
					want = true
				}
			}
			if got := CanTransition(from, to); got != want {
				t.Errorf("CanTransition(%s, %s) = %v, want %v", from, to, got, want)
			}
		}
	}
}

func TestAuthorize(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		from      Status
		to        Status
		actor     string
		targetErr error
	}{
		{name: "professional accepts pending", from: StatusPending, to: StatusAccepted, actor: "pro-1"},
		{name: "professional declines pending", from: StatusPending, to: StatusDeclined, actor: "pro-1"},
		{name: "customer cancels pending", from: StatusPending, to: StatusCancelled, actor: "customer-1"},
		{name: "customer pays accepted", from: StatusAccepted, to: StatusPaid, actor: "customer-1"},
		{name: "customer cancels accepted", from: StatusAccepted, to: StatusCancelled, actor: "customer-1"},
		{name: "professional cancels accepted", from: StatusAccepted, to: StatusCancelled, actor: "pro-1"},
		{name: "professional completes paid", from: StatusPaid, to: StatusCompleted, actor: "pro-1"},
		{
			name: "customer cannot accept own request", from: StatusPending, to: StatusAccepted,
			actor: "customer-1", targetErr: ErrActorNotAllowed,
		},
		{
			name: "professional cannot cancel pending", from: StatusPending, to: StatusCancelled,
			actor: "pro-1", targetErr: ErrActorNotAllowed,
		},
		{
			name: "professional cannot pay", from: StatusAccepted, to: StatusPaid,
			actor: "pro-1", targetErr: ErrActorNotAllowed,
		},
		{
			name: "customer cannot complete", from: StatusPaid, to: StatusCompleted,
			actor: "customer-1", targetErr: ErrActorNotAllowed,
		},
		{
			name: "outsider rejected even on valid transition", from: StatusPending, to: StatusAccepted,
			actor: "stranger", targetErr: ErrActorNotAllowed,
		},
		{
			name: "paying twice reports already paid", from: StatusPaid, to: StatusPaid,
			actor: "customer-1", targetErr: ErrAlreadyPaid,
		},
		{
			name: "paid offer cannot be cancelled", from: StatusPaid, to: StatusCancelled,
			actor: "customer-1", targetErr: ErrInvalidTransition,
		},
		{
			name: "declined is terminal", from: StatusDeclined, to: StatusAccepted,
			actor: "pro-1", targetErr: ErrInvalidTransition,
		},
		{
			name: "completed is terminal", from: StatusCompleted, to: StatusCancelled,
			actor: "customer-1", targetErr: ErrInvalidTransition,
		},
		{
			name: "cancelled is terminal", from: StatusCancelled, to: StatusPaid,
			actor: "customer-1", targetErr: ErrInvalidTransition,
		},
		{
			name: "pending cannot jump to paid", from: StatusPending, to: StatusPaid,
			actor: "customer-1", targetErr: ErrInvalidTransition,
		},
		{
			name: "pending cannot jump to completed", from: StatusPending, to: StatusCompleted,
			actor: "pro-1", targetErr: ErrInvalidTransition,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			err := Authorize(sampleOffer(tc.from), tc.actor, tc.to)
			if tc.targetErr == nil {
				if err != nil {
					t.Fatalf("Authorize() error = %v, want nil", err)
				}
				return
			}
			if !errors.Is(err, tc.targetErr) {
				t.Fatalf("Authorize() error = %v, want %v", err, tc.targetErr)
			}
		})
	}
}

func TestServiceTime(t *testing.T) {
	t.Parallel()

	o := sampleOffer(StatusPaid)
	ts, err := o.ServiceTime(time.UTC)
	if err != nil {
		t.Fatalf("ServiceTime() error = %v", err)
	}
	want := time.Date(2026, 9, 12, 10, 0, 0, 0, time.UTC)
	if !ts.Equal(want) {
		t.Fatalf("ServiceTime() = %v, want %v", ts, want)
	}

	o.Time = ""
	ts, err = o.ServiceTime(nil)
	if err != nil {
		t.Fatalf("ServiceTime() without time error = %v", err)
	}
	if !ts.Equal(time.Date(2026, 9, 12, 0, 0, 0, 0, time.UTC)) {
		t.Fatalf("ServiceTime() without time = %v", ts)
	}

	o.Date = "not-a-date"
	if _, err := o.ServiceTime(nil); err == nil {
		t.Fatal("ServiceTime() with bad date should fail")
	}
}
