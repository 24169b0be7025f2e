package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/knograph/veracity/internal/domain"
	"github.com/knograph/veracity/internal/service"
)

type ReputationHandler struct {
	svc *service.ReputationService
}

func NewReputationHandler(svc *service.ReputationService) *ReputationHandler {
	return &ReputationHandler{svc: svc}
}

type updateReputationRequest struct {
	EvidenceQuality   float64 `json:"evidence_quality"`
	ConsensusAccuracy float64 `json:"consensus_accuracy"`
	ProcessCompletion float64 `json:"process_completion"`
	DisputeResolution float64 `json:"dispute_resolution"`
}

func (h *ReputationHandler) Update(w http.ResponseWriter, r *http.Request) {
	userID, err := uuid.Parse(chi.URLParam(r, "userID"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid user id")
		return
	}

	var req updateReputationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	rep := &domain.ContributorReputation{
		UserID:            userID,
		EvidenceQuality:   req.EvidenceQuality,
		ConsensusAccuracy: req.ConsensusAccuracy,
		ProcessCompletion: req.ProcessCompletion,
		DisputeResolution: req.DisputeResolution,
	}

	if err := h.svc.Update(r.Context(), rep); err != nil {
		switch {
		case errors.Is(err, service.ErrReputationUserIDMissing),
			errors.Is(err, service.ErrReputationOutOfRange):
			writeError(w, http.StatusBadRequest, err.Error())
		default:
			writeError(w, http.StatusInternalServerError, "failed to update reputation")
		}
		return
	}

	writeJSON(w, http.StatusOK, rep)
}

func (h *ReputationHandler) Get(w http.ResponseWriter, r *http.Request) {
	userID, err := uuid.Parse(chi.URLParam(r, "userID"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid user id")
		return
	}

	rep, err := h.svc.GetByUser(r.Context(), userID)
	if err != nil {
		if errors.Is(err, service.ErrReputationNotFound) {
			writeError(w, http.StatusNotFound, "reputation not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "failed to get reputation")
		return
	}

	writeJSON(w, http.StatusOK, rep)
}
