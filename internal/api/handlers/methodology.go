package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/knograph/veracity/internal/service"
)

type MethodologyHandler struct {
	svc *service.MethodologyService
}

func NewMethodologyHandler(svc *service.MethodologyService) *MethodologyHandler {
	return &MethodologyHandler{svc: svc}
}

type stepRequest struct {
	Name string `json:"name"`
}

func methodologyStatus(err error) (int, string) {
	switch {
	case errors.Is(err, service.ErrStepNameMissing):
		return http.StatusBadRequest, err.Error()
	case errors.Is(err, service.ErrStepNotFound):
		return http.StatusNotFound, "step not found"
	case errors.Is(err, service.ErrClaimNotFound):
		return http.StatusNotFound, "claim not found"
	case errors.Is(err, service.ErrClaimImmutable):
		return http.StatusConflict, err.Error()
	default:
		return http.StatusInternalServerError, ""
	}
}

func (h *MethodologyHandler) DefineStep(w http.ResponseWriter, r *http.Request) {
	claimID, err := uuid.Parse(chi.URLParam(r, "claimID"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid claim id")
		return
	}

	var req stepRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := h.svc.DefineStep(r.Context(), claimID, req.Name); err != nil {
		status, msg := methodologyStatus(err)
		if msg == "" {
			msg = "failed to define step"
		}
		writeError(w, status, msg)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]string{"status": "defined", "name": req.Name})
}

func (h *MethodologyHandler) CompleteStep(w http.ResponseWriter, r *http.Request) {
	claimID, err := uuid.Parse(chi.URLParam(r, "claimID"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid claim id")
		return
	}

	var req stepRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := h.svc.CompleteStep(r.Context(), claimID, req.Name); err != nil {
		status, msg := methodologyStatus(err)
		if msg == "" {
			msg = "failed to complete step"
		}
		writeError(w, status, msg)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": "completed", "name": req.Name})
}

func (h *MethodologyHandler) Progress(w http.ResponseWriter, r *http.Request) {
	claimID, err := uuid.Parse(chi.URLParam(r, "claimID"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid claim id")
		return
	}

	progress, err := h.svc.Progress(r.Context(), claimID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to get methodology progress")
		return
	}

	if progress == nil {
		writeJSON(w, http.StatusOK, map[string]any{
			"claim_id":   claimID,
			"prescribed": false,
			"score":      1.0,
		})
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"claim_id":   claimID,
		"prescribed": true,
		"progress":   progress,
		"score":      progress.Score(),
	})
}
