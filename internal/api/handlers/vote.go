package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/knograph/veracity/internal/service"
)

type VoteHandler struct {
	svc *service.VoteService
}

func NewVoteHandler(svc *service.VoteService) *VoteHandler {
	return &VoteHandler{svc: svc}
}

type castVoteRequest struct {
	VoterID uuid.UUID `json:"voter_id"`
	Value   float64   `json:"value"`
}

func (h *VoteHandler) Cast(w http.ResponseWriter, r *http.Request) {
	claimID, err := uuid.Parse(chi.URLParam(r, "claimID"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid claim id")
		return
	}

	var req castVoteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	vote, err := h.svc.Cast(r.Context(), claimID, req.VoterID, req.Value)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrVoteValueRange),
			errors.Is(err, service.ErrVoteVoterMissing):
			writeError(w, http.StatusBadRequest, err.Error())
		case errors.Is(err, service.ErrClaimNotFound):
			writeError(w, http.StatusNotFound, "claim not found")
		case errors.Is(err, service.ErrClaimImmutable):
			writeError(w, http.StatusConflict, err.Error())
		default:
			writeError(w, http.StatusInternalServerError, "failed to cast vote")
		}
		return
	}

	writeJSON(w, http.StatusOK, vote)
}

func (h *VoteHandler) ListByClaim(w http.ResponseWriter, r *http.Request) {
	claimID, err := uuid.Parse(chi.URLParam(r, "claimID"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid claim id")
		return
	}

	votes, err := h.svc.ListByClaim(r.Context(), claimID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to list votes")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"claim_id": claimID,
		"votes":    votes,
		"count":    len(votes),
	})
}
