package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/knograph/veracity/internal/domain"
	"github.com/knograph/veracity/internal/service"
)

type ClaimHandler struct {
	svc *service.ClaimService
}

func NewClaimHandler(svc *service.ClaimService) *ClaimHandler {
	return &ClaimHandler{svc: svc}
}

type createClaimRequest struct {
	Kind      string `json:"kind"`
	Statement string `json:"statement"`
}

type claimResponse struct {
	*domain.Claim
	PromotionLevel domain.PromotionLevel `json:"promotion_level"`
}

func (h *ClaimHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createClaimRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	claim := &domain.Claim{
		Kind:      domain.ClaimKind(req.Kind),
		Statement: req.Statement,
	}

	if err := h.svc.Create(r.Context(), claim); err != nil {
		switch {
		case errors.Is(err, service.ErrClaimStatementMissing),
			errors.Is(err, service.ErrClaimInvalidKind):
			writeError(w, http.StatusBadRequest, err.Error())
		default:
			writeError(w, http.StatusInternalServerError, "failed to create claim")
		}
		return
	}

	writeJSON(w, http.StatusCreated, claimResponse{Claim: claim, PromotionLevel: claim.Level()})
}

func (h *ClaimHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "claimID"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid claim id")
		return
	}

	claim, err := h.svc.GetByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, service.ErrClaimNotFound) {
			writeError(w, http.StatusNotFound, "claim not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "failed to get claim")
		return
	}

	writeJSON(w, http.StatusOK, claimResponse{Claim: claim, PromotionLevel: claim.Level()})
}

func (h *ClaimHandler) Score(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "claimID"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid claim id")
		return
	}

	score, err := h.svc.Score(r.Context(), id)
	if err != nil {
		if errors.Is(err, service.ErrClaimNotFound) {
			writeError(w, http.StatusNotFound, "claim not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "failed to get score")
		return
	}

	writeJSON(w, http.StatusOK, score)
}

func (h *ClaimHandler) ScoreHistory(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "claimID"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid claim id")
		return
	}

	limit := 50
	if raw := r.URL.Query().Get("limit"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil && n > 0 && n <= 500 {
			limit = n
		}
	}

	history, err := h.svc.ScoreHistory(r.Context(), id, limit)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to list score history")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"claim_id": id,
		"history":  history,
		"count":    len(history),
	})
}

type refreshScoreRequest struct {
	Reason string `json:"reason,omitempty"`
}

func (h *ClaimHandler) RefreshScore(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "claimID"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid claim id")
		return
	}

	var req refreshScoreRequest
	if r.Body != nil {
		_ = json.NewDecoder(r.Body).Decode(&req)
	}

	score, err := h.svc.Refresh(r.Context(), id, domain.ScoreReason(req.Reason))
	if err != nil {
		switch {
		case errors.Is(err, service.ErrClaimNotFound):
			writeError(w, http.StatusNotFound, "claim not found")
		case errors.Is(err, service.ErrConcurrentUpdate):
			writeError(w, http.StatusConflict, err.Error())
		default:
			writeError(w, http.StatusInternalServerError, "failed to refresh score")
		}
		return
	}

	writeJSON(w, http.StatusOK, score)
}
