package handlers

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/knograph/veracity/internal/service"
	"github.com/knograph/veracity/internal/store"
)

type PromotionHandler struct {
	svc *service.PromotionService
}

func NewPromotionHandler(svc *service.PromotionService) *PromotionHandler {
	return &PromotionHandler{svc: svc}
}

// Eligibility returns the last persisted eligibility snapshot without
// recomputing it.
func (h *PromotionHandler) Eligibility(w http.ResponseWriter, r *http.Request) {
	claimID, err := uuid.Parse(chi.URLParam(r, "claimID"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid claim id")
		return
	}

	elig, err := h.svc.Eligibility(r.Context(), claimID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "no eligibility evaluation recorded for claim")
			return
		}
		writeError(w, http.StatusInternalServerError, "failed to get eligibility")
		return
	}

	writeJSON(w, http.StatusOK, elig)
}

// Reevaluate forces a fresh eligibility evaluation; if the claim now
// meets the criteria it is promoted in the same call.
func (h *PromotionHandler) Reevaluate(w http.ResponseWriter, r *http.Request) {
	claimID, err := uuid.Parse(chi.URLParam(r, "claimID"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid claim id")
		return
	}

	elig, err := h.svc.Reevaluate(r.Context(), claimID, "manual")
	if err != nil {
		switch {
		case errors.Is(err, service.ErrClaimNotFound):
			writeError(w, http.StatusNotFound, "claim not found")
		case errors.Is(err, service.ErrConcurrentUpdate):
			writeError(w, http.StatusConflict, err.Error())
		default:
			writeError(w, http.StatusInternalServerError, "failed to evaluate eligibility")
		}
		return
	}

	writeJSON(w, http.StatusOK, elig)
}

func (h *PromotionHandler) History(w http.ResponseWriter, r *http.Request) {
	claimID, err := uuid.Parse(chi.URLParam(r, "claimID"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid claim id")
		return
	}

	records, err := h.svc.History(r.Context(), claimID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to list promotion history")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"claim_id":   claimID,
		"promotions": records,
		"count":      len(records),
	})
}
