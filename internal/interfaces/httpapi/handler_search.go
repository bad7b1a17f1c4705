package httpapi

import (
	"net/http"
	"strings"

	"go.opentelemetry.io/otel/attribute"
)

func (h *Handler) SearchProfessionals(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.SearchProfessionals")
	defer span.End()

	query := strings.TrimSpace(r.URL.Query().Get("q"))
	if span.IsRecording() {
		span.SetAttributes(attribute.String("search.query", query))
	}

	results, err := h.searchService.SearchProfessionals(ctx, query)
	if err != nil {
		h.logger.WarnContext(ctx, "search professionals failed", "query", query, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, profilesToDTO(ctx, results))
}
