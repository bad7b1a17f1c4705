package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/panjf2000/ants/v2"

	"github.com/helperaz/helper-marketplace/internal/domain/offer"
)

const defaultSweepWorkerCount = 4

// CompletionSweepResult summarizes one sweep over the paid offers.
type CompletionSweepResult struct {
	Scanned   int
	Completed int
	Skipped   int
	Failed    int
}

// CompletionSweeperService auto-completes paid offers whose service
// date has elapsed. It backs the internal job endpoint and acts as the
// safety net for completion checks that never got scheduled.
type CompletionSweeperService struct {
	offerRepo   offer.Repository
	workerCount int
	logger      *slog.Logger
	now         func() time.Time
}

func NewCompletionSweeperService(offerRepo offer.Repository, workerCount int, logger *slog.Logger) *CompletionSweeperService {
	if workerCount <= 0 {
		workerCount = defaultSweepWorkerCount
	}

	return &CompletionSweeperService{
		offerRepo:   offerRepo,
		workerCount: workerCount,
		logger:      logger,
		now:         time.Now,
	}
}

// CompleteElapsed moves every PAID offer whose service time lies in
// the past to COMPLETED. Offers that changed concurrently are counted
// as skipped, not failed.
func (s *CompletionSweeperService) CompleteElapsed(ctx context.Context) (CompletionSweepResult, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.CompletionSweeperService.CompleteElapsed")
	defer span.End()

	paid, err := s.offerRepo.List(ctx, offer.ListFilter{Status: offer.StatusPaid})
	if err != nil {
		return CompletionSweepResult{}, fmt.Errorf("list paid offers: %w", err)
	}

	result := CompletionSweepResult{Scanned: len(paid)}
	if len(paid) == 0 {
		return result, nil
	}

	now := s.now().UTC()
	due := make([]offer.Offer, 0, len(paid))
	for _, o := range paid {
		serviceTime, parseErr := o.ServiceTime(time.UTC)
		if parseErr != nil {
			s.logger.WarnContext(ctx, "skipping offer with unparsable service time", "offer_id", o.ID, "error", parseErr)
			result.Skipped++
			continue
		}
		if serviceTime.After(now) {
			result.Skipped++
			continue
		}
		due = append(due, o)
	}
	if len(due) == 0 {
		return result, nil
	}

	workerCount := s.workerCount
	if workerCount > len(due) {
		workerCount = len(due)
	}
	workerPool, err := ants.NewPool(workerCount)
	if err != nil {
		return CompletionSweepResult{}, fmt.Errorf("create worker pool: %w", err)
	}
	defer workerPool.Release()

	var completedCount atomic.Int32
	var skippedCount atomic.Int32
	var failedCount atomic.Int32

	var workers sync.WaitGroup
	for _, o := range due {
		o := o
		workers.Add(1)
		if err := workerPool.Submit(func() {
			defer workers.Done()

			ok, updateErr := s.offerRepo.UpdateStatus(ctx, o.ID, offer.StatusPaid, offer.StatusCompleted)
			if updateErr != nil {
				failedCount.Add(1)
				s.logger.ErrorContext(ctx, "failed to auto-complete offer", "offer_id", o.ID, "error", updateErr)
				return
			}
			if !ok {
				skippedCount.Add(1)
				return
			}
			completedCount.Add(1)
		}); err != nil {
			workers.Done()
			return CompletionSweepResult{}, fmt.Errorf("submit offer to worker pool: %w", err)
		}
	}
	workers.Wait()

	result.Completed = int(completedCount.Load())
	result.Skipped += int(skippedCount.Load())
	result.Failed = int(failedCount.Load())

	return result, nil
}
