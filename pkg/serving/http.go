package serving

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/clinisearch-ai/summary-service/pkg/common/logger"
	"github.com/clinisearch-ai/summary-service/pkg/common/models"
	"github.com/gorilla/mux"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) Register(r *mux.Router) {
	r.HandleFunc("/patients/{id}", h.handleGetSummary).Methods(http.MethodGet)
	r.HandleFunc("/search", h.handleSearch).Methods(http.MethodGet)
	r.HandleFunc("/stats", h.handleStats).Methods(http.MethodGet)
}

func (h *Handler) handleGetSummary(w http.ResponseWriter, r *http.Request) {
	patientID := mux.Vars(r)["id"]
	if patientID == "" {
		http.Error(w, "patient id is required", http.StatusBadRequest)
		return
	}
	text, err := h.service.GetSummary(r.Context(), patientID)
	if err != nil {
		if errors.Is(err, ErrPatientNotFound) {
			http.Error(w, "patient not found", http.StatusNotFound)
			return
		}
		logger.Log.WithError(err).Error("failed to get summary")
		http.Error(w, "failed to get summary", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"patient_id": patientID,
		"summary":    text,
	})
}

func (h *Handler) handleSearch(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query().Get("q")
	if q == "" {
		http.Error(w, "q is required", http.StatusBadRequest)
		return
	}
	topK := parseTopK(r, 0)
	results, err := h.service.Query(r.Context(), q, topK)
	if err != nil {
		logger.Log.WithError(err).Error("failed to run query")
		http.Error(w, "failed to run query", http.StatusInternalServerError)
		return
	}
	// no match is an empty list, not an error
	if results == nil {
		results = []models.QueryResult{}
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"items": results})
}

func (h *Handler) handleStats(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.service.Stats())
}

func parseTopK(r *http.Request, fallback int) int {
	raw := r.URL.Query().Get("top_k")
	if raw == "" {
		return fallback
	}
	if v, err := strconv.Atoi(raw); err == nil && v > 0 {
		return v
	}
	return fallback
}

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
