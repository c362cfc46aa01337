package stubservice

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"

	"disease-predictor/internal/symptom"
)

type Handler struct {
	data   *Dataset
	logger zerolog.Logger
}

func NewHandler(data *Dataset, logger zerolog.Logger) *Handler {
	return &Handler{data: data, logger: logger}
}

type predictRequest struct {
	Symptoms []string `json:"symptoms"`
}

type errorResponse struct {
	Error string `json:"error"`
}

type symptomsResponse struct {
	Symptoms []symptom.Entry `json:"symptoms"`
}

func (h *Handler) ListSymptoms(w http.ResponseWriter, r *http.Request) {
	entries := make([]symptom.Entry, 0, len(h.data.Symptoms))
	for _, id := range h.data.Symptoms {
		entries = append(entries, symptom.Entry{ID: id, Label: symptom.DeriveLabel(id)})
	}
	writeJSON(w, http.StatusOK, symptomsResponse{Symptoms: entries})
}

func (h *Handler) Predict(w http.ResponseWriter, r *http.Request) {
	var req predictRequest
	// Bad bodies are treated like an empty selection.
	_ = json.NewDecoder(r.Body).Decode(&req)

	if len(req.Symptoms) == 0 {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "No symptoms provided"})
		return
	}

	p, ok := h.data.Predict(req.Symptoms)
	if !ok {
		h.logger.Info().Strs("symptoms", req.Symptoms).Msg("no disease matched")
		writeJSON(w, http.StatusOK, errorResponse{Error: "No matching disease for the given symptoms"})
		return
	}

	h.logger.Info().Strs("symptoms", req.Symptoms).Str("disease", p.Disease).Msg("prediction served")
	writeJSON(w, http.StatusOK, p)
}

func RegisterRoutes(r chi.Router, h *Handler) {
	r.Get("/symptoms", h.ListSymptoms)
	r.Post("/predict", h.Predict)
}

// NewRouter wires the handler behind the usual middleware stack.
func NewRouter(h *Handler) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(cors)
	RegisterRoutes(r, h)
	return r
}

func cors(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "POST, GET, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Accept, Content-Type, Content-Length, Accept-Encoding")
		if r.Method == http.MethodOptions {
			return
		}
		next.ServeHTTP(w, r)
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
