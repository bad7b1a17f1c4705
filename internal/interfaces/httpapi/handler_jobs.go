package httpapi

import (
	"fmt"
	"net/http"

	"github.com/helperaz/helper-marketplace/internal/usecase"
)

type completionSweepDTO struct {
	Scanned   int `json:"scanned"`
	Completed int `json:"completed"`
	Skipped   int `json:"skipped"`
	Failed    int `json:"failed"`
}

// RunCompleteElapsedJob sweeps PAID offers whose service time has
// passed and moves them to COMPLETED. Called by the job queue; safe to
// re-run at any time.
func (h *Handler) RunCompleteElapsedJob(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.RunCompleteElapsedJob")
	defer span.End()

	if h.sweeperService == nil {
		writeError(ctx, w, fmt.Errorf("%w: completion sweeper is not configured", usecase.ErrDependencyUnavailable))
		return
	}

	result, err := h.sweeperService.CompleteElapsed(ctx)
	if err != nil {
		h.logger.WarnContext(ctx, "complete elapsed job failed", "error", err)
		writeError(ctx, w, err)
		return
	}

	h.logger.InfoContext(ctx, "complete elapsed job finished",
		"scanned", result.Scanned,
		"completed", result.Completed,
		"skipped", result.Skipped,
		"failed", result.Failed,
	)
	writeSuccess(ctx, w, http.StatusOK, completionSweepDTO{
		Scanned:   result.Scanned,
		Completed: result.Completed,
		Skipped:   result.Skipped,
		Failed:    result.Failed,
	})
}
