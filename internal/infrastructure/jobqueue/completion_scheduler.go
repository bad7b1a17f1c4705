package jobqueue

import (
	"context"
	"strings"
	"time"

	crerr "github.com/cockroachdb/errors"
)

// CompleteElapsedJobPath is the internal route QStash calls back once a
// paid offer's service time has elapsed.
const CompleteElapsedJobPath = "/v1/internal/jobs/complete-elapsed"

type enqueuer interface {
	Enqueue(ctx context.Context, path string, payload any, delay time.Duration, deduplicationID string) error
}

// CompletionScheduler enqueues one delayed completion check per paid
// offer. The deduplication id keeps double payments from producing
// duplicate callbacks.
type CompletionScheduler struct {
	publisher enqueuer
	now       func() time.Time
}

func NewCompletionScheduler(publisher *QStashPublisher) *CompletionScheduler {
	return &CompletionScheduler{
		publisher: publisher,
		now:       time.Now,
	}
}

type completionCheckPayload struct {
	OfferID string `json:"offer_id"`
}

func (s *CompletionScheduler) ScheduleCompletionCheck(ctx context.Context, offerID string, runAt time.Time) error {
	offerID = strings.TrimSpace(offerID)
	if offerID == "" {
		return crerr.New("offer id is required")
	}

	delay := time.Duration(0)
	if !runAt.IsZero() {
		delay = runAt.Sub(s.now())
	}
	if delay < 0 {
		delay = 0
	}

	return s.publisher.Enqueue(
		ctx,
		CompleteElapsedJobPath,
		completionCheckPayload{OfferID: offerID},
		delay,
		"offer-complete:"+offerID,
	)
}
