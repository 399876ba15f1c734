// Package control is the local HTTP surface of a running engine: status,
// signal delivery, on-demand passes, page audits, and radio rule management.
// It binds to loopback; there is no authentication layer.
package control

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/jawadgarzaldeen1/filling-sub001/autofill"
	"github.com/jawadgarzaldeen1/filling-sub001/radiorules"
)

// Handler serves the control API for one engine.
type Handler struct {
	engine *autofill.Engine
	logger *slog.Logger
}

// New builds the control router.
func New(engine *autofill.Engine, logger *slog.Logger) http.Handler {
	if logger == nil {
		logger = slog.Default()
	}
	h := &Handler{engine: engine, logger: logger}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/status", h.status)
		r.Post("/signal", h.signal)
		r.Post("/run", h.run)
		r.Get("/radio-rules", h.listRadioRules)
		r.Post("/radio-rules", h.addRadioRule)
		r.Delete("/radio-rules", h.deleteRadioRule)
	})

	return r
}

func (h *Handler) status(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, h.engine.Status())
}

func (h *Handler) signal(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Type    string          `json:"type"`
		Payload json.RawMessage `json:"payload"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	sig, err := autofill.DecodeSignal(req.Type, req.Payload)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	h.engine.Dispatch(sig)
	writeJSON(w, http.StatusAccepted, map[string]string{"status": "accepted"})
}

func (h *Handler) run(w http.ResponseWriter, r *http.Request) {
	if h.engine.State() != autofill.StateReady {
		writeError(w, http.StatusConflict, errors.New("engine is not ready"))
		return
	}
	filled := h.engine.RunFillPass(r.Context())
	writeJSON(w, http.StatusOK, map[string]int{
		"filled": filled,
		"total":  h.engine.Filler().FilledCount(),
	})
}

func (h *Handler) listRadioRules(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.engine.RadioRules().Rules(r.Context()))
}

func (h *Handler) addRadioRule(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Pattern string `json:"pattern"`
		Apply   bool   `json:"apply"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	if req.Pattern == "" {
		writeError(w, http.StatusBadRequest, errors.New("pattern is required"))
		return
	}
	if err := h.engine.RadioRules().AddRule(r.Context(), req.Pattern, req.Apply); err != nil {
		writeRuleError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{"pattern": req.Pattern, "apply": req.Apply})
}

func (h *Handler) deleteRadioRule(w http.ResponseWriter, r *http.Request) {
	pattern := r.URL.Query().Get("pattern")
	if pattern == "" {
		writeError(w, http.StatusBadRequest, errors.New("pattern is required"))
		return
	}
	if err := h.engine.RadioRules().RemoveRule(r.Context(), pattern); err != nil {
		writeRuleError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"deleted": pattern})
}

func writeRuleError(w http.ResponseWriter, err error) {
	if errors.Is(err, radiorules.ErrNoStore) {
		writeError(w, http.StatusConflict, err)
		return
	}
	writeError(w, http.StatusInternalServerError, err)
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, code int, err error) {
	writeJSON(w, code, map[string]string{"error": err.Error()})
}
