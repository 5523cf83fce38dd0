// Package handler holds the thin HTTP handlers: parameter parsing and
// validation at the boundary, then a single service call. All production
// math lives behind the service; nothing here loops over events.
package handler

import (
	"encoding/json"
	"net/http"
	"time"

	"go.uber.org/zap"

	"prodscan/internal/engine"
	"prodscan/internal/notify"
	"prodscan/internal/service"
	"prodscan/internal/store"
)

const dateFormat = "2006-01-02"

// Handlers carries the collaborators every endpoint shares.
type Handlers struct {
	Service     *service.Service
	Store       *store.Store
	Broadcaster *notify.Broadcaster
	Logger      *zap.Logger
}

// New builds the handler set.
func New(svc *service.Service, st *store.Store, b *notify.Broadcaster, logger *zap.Logger) *Handlers {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handlers{Service: svc, Store: st, Broadcaster: b, Logger: logger}
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, code int, msg string) {
	writeJSON(w, code, map[string]string{"error": msg})
}

// dateParam parses a YYYY-MM-DD query parameter, or returns fallback when the
// parameter is absent.
func dateParam(r *http.Request, name string, fallback time.Time) (time.Time, bool) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return fallback, true
	}
	d, err := time.Parse(dateFormat, raw)
	if err != nil {
		return time.Time{}, false
	}
	return d, true
}

// rangeParams parses the from/to pair, defaulting both to the current labor
// day, and validates the range before it reaches the engine.
func rangeParams(w http.ResponseWriter, r *http.Request, h *Handlers) (time.Time, time.Time, bool) {
	_, today := h.Service.CurrentShift()

	from, ok := dateParam(r, "from", today)
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid 'from' date, want YYYY-MM-DD")
		return time.Time{}, time.Time{}, false
	}
	to, ok := dateParam(r, "to", from)
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid 'to' date, want YYYY-MM-DD")
		return time.Time{}, time.Time{}, false
	}
	if err := service.ValidateRange(from, to); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return time.Time{}, time.Time{}, false
	}
	return from, to, true
}

// dimParam maps a query value onto a pivot dimension.
func dimParam(raw string, fallback engine.Dimension) (engine.Dimension, bool) {
	if raw == "" {
		return fallback, true
	}
	switch engine.Dimension(raw) {
	case engine.DimWorkstation, engine.DimShift, engine.DimOperator,
		engine.DimTool, engine.DimCode, engine.DimFamily, engine.DimLaborDay:
		return engine.Dimension(raw), true
	}
	return "", false
}
