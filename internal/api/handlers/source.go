package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/knograph/veracity/internal/domain"
	"github.com/knograph/veracity/internal/service"
	"github.com/knograph/veracity/internal/store"
)

type SourceHandler struct {
	sourceStore domain.SourceStore
	credibility *service.CredibilityService
}

func NewSourceHandler(ss domain.SourceStore, credibility *service.CredibilityService) *SourceHandler {
	return &SourceHandler{sourceStore: ss, credibility: credibility}
}

type createSourceRequest struct {
	Name string `json:"name"`
	URL  string `json:"url,omitempty"`
}

func (h *SourceHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createSourceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Name == "" {
		writeError(w, http.StatusBadRequest, "name is required")
		return
	}

	src := &domain.Source{
		ID:   uuid.New(),
		Name: req.Name,
		URL:  req.URL,
	}

	if err := h.sourceStore.Create(r.Context(), src); err != nil {
		writeError(w, http.StatusInternalServerError, "failed to create source")
		return
	}

	writeJSON(w, http.StatusCreated, src)
}

func (h *SourceHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "sourceID"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid source id")
		return
	}

	src, err := h.sourceStore.GetByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "source not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "failed to get source")
		return
	}

	writeJSON(w, http.StatusOK, src)
}

// Credibility returns the derived credibility record. A source with no
// credibility row yet reports the neutral default.
func (h *SourceHandler) Credibility(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "sourceID"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid source id")
		return
	}

	cred, err := h.sourceStore.GetCredibility(r.Context(), id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			if _, serr := h.sourceStore.GetByID(r.Context(), id); serr != nil {
				writeError(w, http.StatusNotFound, "source not found")
				return
			}
			writeJSON(w, http.StatusOK, map[string]any{
				"source_id": id,
				"score":     domain.DefaultSourceCredibility,
				"derived":   false,
			})
			return
		}
		writeError(w, http.StatusInternalServerError, "failed to get credibility")
		return
	}

	writeJSON(w, http.StatusOK, cred)
}

func (h *SourceHandler) RecomputeCredibility(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "sourceID"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid source id")
		return
	}

	if _, err := h.sourceStore.GetByID(r.Context(), id); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "source not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "failed to get source")
		return
	}

	cred, err := h.credibility.Recompute(r.Context(), id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to recompute credibility")
		return
	}

	writeJSON(w, http.StatusOK, cred)
}
