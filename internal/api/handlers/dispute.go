package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/knograph/veracity/internal/domain"
	"github.com/knograph/veracity/internal/service"
)

type DisputeHandler struct {
	svc *service.DisputeService
}

func NewDisputeHandler(svc *service.DisputeService) *DisputeHandler {
	return &DisputeHandler{svc: svc}
}

type openDisputeRequest struct {
	ClaimID  uuid.UUID `json:"claim_id"`
	RaisedBy uuid.UUID `json:"raised_by"`
	Reason   string    `json:"reason"`
}

func disputeStatus(err error) (int, string) {
	switch {
	case errors.Is(err, service.ErrDisputeReasonMissing):
		return http.StatusBadRequest, err.Error()
	case errors.Is(err, service.ErrClaimNotFound):
		return http.StatusNotFound, "claim not found"
	case errors.Is(err, service.ErrClaimImmutable):
		return http.StatusConflict, err.Error()
	case errors.Is(err, service.ErrDisputeNotFound):
		return http.StatusNotFound, "dispute not found"
	case errors.Is(err, service.ErrDisputeNotOpen):
		return http.StatusConflict, err.Error()
	case errors.Is(err, service.ErrConcurrentUpdate):
		return http.StatusConflict, err.Error()
	default:
		return http.StatusInternalServerError, ""
	}
}

func (h *DisputeHandler) Open(w http.ResponseWriter, r *http.Request) {
	var req openDisputeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	dispute := &domain.Dispute{
		ClaimID:  req.ClaimID,
		RaisedBy: req.RaisedBy,
		Reason:   req.Reason,
	}

	if err := h.svc.Open(r.Context(), dispute); err != nil {
		status, msg := disputeStatus(err)
		if msg == "" {
			msg = "failed to open dispute"
		}
		writeError(w, status, msg)
		return
	}

	writeJSON(w, http.StatusCreated, dispute)
}

func (h *DisputeHandler) Resolve(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, h.svc.Resolve)
}

func (h *DisputeHandler) Withdraw(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, h.svc.Withdraw)
}

func (h *DisputeHandler) transition(w http.ResponseWriter, r *http.Request,
	fn func(ctx context.Context, id uuid.UUID) error) {
	id, err := uuid.Parse(chi.URLParam(r, "disputeID"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid dispute id")
		return
	}

	if err := fn(r.Context(), id); err != nil {
		status, msg := disputeStatus(err)
		if msg == "" {
			msg = "failed to update dispute"
		}
		writeError(w, status, msg)
		return
	}

	dispute, err := h.svc.GetByID(r.Context(), id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to get dispute")
		return
	}

	writeJSON(w, http.StatusOK, dispute)
}

func (h *DisputeHandler) ListByClaim(w http.ResponseWriter, r *http.Request) {
	claimID, err := uuid.Parse(chi.URLParam(r, "claimID"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid claim id")
		return
	}

	disputes, err := h.svc.ListByClaim(r.Context(), claimID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to list disputes")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"claim_id": claimID,
		"disputes": disputes,
		"count":    len(disputes),
	})
}
