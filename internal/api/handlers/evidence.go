package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/knograph/veracity/internal/domain"
	"github.com/knograph/veracity/internal/service"
)

type EvidenceHandler struct {
	svc *service.EvidenceService
}

func NewEvidenceHandler(svc *service.EvidenceService) *EvidenceHandler {
	return &EvidenceHandler{svc: svc}
}

type submitEvidenceRequest struct {
	TargetNodeID      *uuid.UUID `json:"target_node_id,omitempty"`
	TargetEdgeID      *uuid.UUID `json:"target_edge_id,omitempty"`
	SourceID          uuid.UUID  `json:"source_id"`
	SubmittedBy       uuid.UUID  `json:"submitted_by"`
	Type              string     `json:"type"`
	Description       string     `json:"description,omitempty"`
	BaseWeight        float64    `json:"base_weight"`
	Confidence        float64    `json:"confidence"`
	TemporalRelevance *float64   `json:"temporal_relevance,omitempty"`
	DecayRate         float64    `json:"decay_rate,omitempty"`
	RelevantDate      *time.Time `json:"relevant_date,omitempty"`
	Verified          bool       `json:"verified,omitempty"`
	PeerReview        string     `json:"peer_review,omitempty"`
}

type updateEvidenceRequest struct {
	Type              string     `json:"type"`
	Description       string     `json:"description,omitempty"`
	BaseWeight        float64    `json:"base_weight"`
	Confidence        float64    `json:"confidence"`
	TemporalRelevance *float64   `json:"temporal_relevance,omitempty"`
	DecayRate         float64    `json:"decay_rate,omitempty"`
	RelevantDate      *time.Time `json:"relevant_date,omitempty"`
	Verified          bool       `json:"verified,omitempty"`
	PeerReview        string     `json:"peer_review,omitempty"`
}

func evidenceStatus(err error) (int, string) {
	switch {
	case errors.Is(err, service.ErrEvidenceTargetInvalid),
		errors.Is(err, service.ErrEvidenceInvalidType),
		errors.Is(err, service.ErrEvidenceInvalidReview),
		errors.Is(err, service.ErrEvidenceWeightRange),
		errors.Is(err, service.ErrEvidenceConfRange),
		errors.Is(err, service.ErrEvidenceRelevanceRange),
		errors.Is(err, service.ErrEvidenceDecayNegative):
		return http.StatusBadRequest, err.Error()
	case errors.Is(err, service.ErrClaimImmutable):
		return http.StatusConflict, err.Error()
	case errors.Is(err, service.ErrClaimNotFound):
		return http.StatusNotFound, "claim not found"
	case errors.Is(err, service.ErrSourceNotFound):
		return http.StatusBadRequest, "source not found"
	case errors.Is(err, service.ErrEvidenceNotFound):
		return http.StatusNotFound, "evidence not found"
	case errors.Is(err, service.ErrConcurrentUpdate):
		return http.StatusConflict, err.Error()
	default:
		return http.StatusInternalServerError, ""
	}
}

func (h *EvidenceHandler) Submit(w http.ResponseWriter, r *http.Request) {
	var req submitEvidenceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	relevance := 1.0
	if req.TemporalRelevance != nil {
		relevance = *req.TemporalRelevance
	}

	evidence := &domain.Evidence{
		TargetNodeID:      req.TargetNodeID,
		TargetEdgeID:      req.TargetEdgeID,
		SourceID:          req.SourceID,
		SubmittedBy:       req.SubmittedBy,
		Type:              domain.EvidenceType(req.Type),
		Description:       req.Description,
		BaseWeight:        req.BaseWeight,
		Confidence:        req.Confidence,
		TemporalRelevance: relevance,
		DecayRate:         req.DecayRate,
		RelevantDate:      req.RelevantDate,
		Verified:          req.Verified,
		PeerReview:        domain.PeerReviewStatus(req.PeerReview),
	}
	if evidence.PeerReview == "" {
		evidence.PeerReview = domain.PeerReviewPending
	}

	if err := h.svc.Submit(r.Context(), evidence); err != nil {
		status, msg := evidenceStatus(err)
		if msg == "" {
			msg = "failed to submit evidence"
		}
		writeError(w, status, msg)
		return
	}

	writeJSON(w, http.StatusCreated, evidence)
}

func (h *EvidenceHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "evidenceID"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid evidence id")
		return
	}

	var req updateEvidenceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	relevance := 1.0
	if req.TemporalRelevance != nil {
		relevance = *req.TemporalRelevance
	}

	evidence := &domain.Evidence{
		ID:                id,
		Type:              domain.EvidenceType(req.Type),
		Description:       req.Description,
		BaseWeight:        req.BaseWeight,
		Confidence:        req.Confidence,
		TemporalRelevance: relevance,
		DecayRate:         req.DecayRate,
		RelevantDate:      req.RelevantDate,
		Verified:          req.Verified,
		PeerReview:        domain.PeerReviewStatus(req.PeerReview),
	}
	if evidence.PeerReview == "" {
		evidence.PeerReview = domain.PeerReviewPending
	}

	if err := h.svc.Update(r.Context(), evidence); err != nil {
		status, msg := evidenceStatus(err)
		if msg == "" {
			msg = "failed to update evidence"
		}
		writeError(w, status, msg)
		return
	}

	writeJSON(w, http.StatusOK, evidence)
}

func (h *EvidenceHandler) Remove(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "evidenceID"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid evidence id")
		return
	}

	if err := h.svc.Remove(r.Context(), id); err != nil {
		status, msg := evidenceStatus(err)
		if msg == "" {
			msg = "failed to remove evidence"
		}
		writeError(w, status, msg)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": "removed"})
}

func (h *EvidenceHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "evidenceID"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid evidence id")
		return
	}

	evidence, err := h.svc.GetByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, service.ErrEvidenceNotFound) {
			writeError(w, http.StatusNotFound, "evidence not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "failed to get evidence")
		return
	}

	writeJSON(w, http.StatusOK, evidence)
}

func (h *EvidenceHandler) ListByClaim(w http.ResponseWriter, r *http.Request) {
	claimID, err := uuid.Parse(chi.URLParam(r, "claimID"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid claim id")
		return
	}

	items, err := h.svc.ListByClaim(r.Context(), claimID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to list evidence")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"claim_id": claimID,
		"evidence": items,
		"count":    len(items),
	})
}
