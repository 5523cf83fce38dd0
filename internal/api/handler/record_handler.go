package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"prodscan/internal/model"
)

// TopicProduction is the notification topic board snapshots go out on.
const TopicProduction = "production"

type scanPayload struct {
	Date        string `json:"date"` // YYYY-MM-DD, defaults to now
	Time        string `json:"time"` // HH:MM:SS, defaults to now
	Workstation string `json:"workstation"`
	Operator    string `json:"operator"`
	Tool        string `json:"tool"`
	Quantity    string `json:"quantity"`
}

type defectPayload struct {
	Date        string `json:"date"`
	Time        string `json:"time"`
	Workstation string `json:"workstation"`
	Operator    string `json:"operator"`
	Tool        string `json:"tool"`
	Code        string `json:"code"`
	Description string `json:"description"`
}

// RecordScan stores one good-piece scan
// @Summary Record a scan
// @Description Store a good-piece scan and broadcast a fresh board snapshot
// @Tags records
// @Accept json
// @Produce json
// @Success 201 {object} map[string]any
// @Failure 400 {object} map[string]string
// @Router /scans [post]
func (h *Handlers) RecordScan(w http.ResponseWriter, r *http.Request) {
	var p scanPayload
	if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON payload")
		return
	}
	if strings.TrimSpace(p.Workstation) == "" || strings.TrimSpace(p.Operator) == "" {
		writeError(w, http.StatusBadRequest, "workstation and operator are required")
		return
	}

	date, tod, ok := h.eventInstant(p.Date, p.Time)
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid date or time")
		return
	}
	shift, laborDay := h.Service.Calendar().Resolve(date.Add(tod))

	id, err := h.Store.InsertScanEvent(r.Context(), model.ScanEvent{
		Date:        date,
		TimeOfDay:   tod,
		Workstation: strings.TrimSpace(p.Workstation),
		Operator:    strings.TrimSpace(p.Operator),
		Tool:        strings.TrimSpace(p.Tool),
		Quantity:    strings.TrimSpace(p.Quantity),
		Shift:       shift,
	})
	if err != nil {
		h.Logger.Error("insert scan failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "failed to store scan")
		return
	}

	h.broadcastBoard(laborDay, shift, strings.TrimSpace(p.Workstation))
	writeJSON(w, http.StatusCreated, map[string]any{"id": id, "shift": shift, "laborDay": laborDay.Format(dateFormat)})
}

// RecordDefect stores one defective piece
// @Summary Record a defect
// @Description Store one defective unit and broadcast a fresh board snapshot
// @Tags records
// @Accept json
// @Produce json
// @Success 201 {object} map[string]any
// @Failure 400 {object} map[string]string
// @Router /defects [post]
func (h *Handlers) RecordDefect(w http.ResponseWriter, r *http.Request) {
	var p defectPayload
	if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON payload")
		return
	}
	if strings.TrimSpace(p.Workstation) == "" || strings.TrimSpace(p.Code) == "" {
		writeError(w, http.StatusBadRequest, "workstation and code are required")
		return
	}

	date, tod, ok := h.eventInstant(p.Date, p.Time)
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid date or time")
		return
	}
	shift, laborDay := h.Service.Calendar().Resolve(date.Add(tod))

	id, err := h.Store.InsertDefectEvent(r.Context(), model.DefectEvent{
		Date:        date,
		TimeOfDay:   tod,
		Workstation: strings.TrimSpace(p.Workstation),
		Operator:    strings.TrimSpace(p.Operator),
		Tool:        strings.TrimSpace(p.Tool),
		Code:        strings.TrimSpace(p.Code),
		Description: strings.TrimSpace(p.Description),
		Shift:       shift,
	})
	if err != nil {
		h.Logger.Error("insert defect failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "failed to store defect")
		return
	}

	h.broadcastBoard(laborDay, shift, strings.TrimSpace(p.Workstation))
	writeJSON(w, http.StatusCreated, map[string]any{"id": id, "shift": shift, "laborDay": laborDay.Format(dateFormat)})
}

// eventInstant resolves the payload's date/time, falling back to the current
// plant wall clock for missing parts.
func (h *Handlers) eventInstant(dateRaw, timeRaw string) (time.Time, time.Duration, bool) {
	now := h.Service.LocalNow()

	date := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	if dateRaw != "" {
		d, err := time.Parse(dateFormat, dateRaw)
		if err != nil {
			return time.Time{}, 0, false
		}
		date = d
	}

	tod := now.Sub(time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())).Truncate(time.Second)
	if timeRaw != "" {
		t, err := time.Parse("15:04:05", timeRaw)
		if err != nil {
			return time.Time{}, 0, false
		}
		tod = time.Duration(t.Hour())*time.Hour + time.Duration(t.Minute())*time.Minute + time.Duration(t.Second())*time.Second
	}
	return date, tod, true
}

// broadcastBoard publishes a fresh board snapshot after a successful write.
// Fire-and-forget: failures are logged and never affect the response, and
// subscribers re-query rather than trusting the payload.
func (h *Handlers) broadcastBoard(laborDay time.Time, shift, station string) {
	if h.Broadcaster == nil {
		return
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		rows, err := h.Service.Board(ctx, laborDay, shift, station)
		if err != nil {
			h.Logger.Warn("board snapshot for broadcast failed", zap.Error(err))
			return
		}
		h.Broadcaster.Publish(TopicProduction, map[string]any{
			"laborDay": laborDay.Format(dateFormat),
			"shift":    shift,
			"rows":     rows,
		})
	}()
}
