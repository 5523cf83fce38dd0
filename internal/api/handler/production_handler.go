package handler

import (
	"net/http"
	"strconv"

	"go.uber.org/zap"

	"prodscan/internal/engine"
)

// Board returns the live production board for a labor day and shift
// @Summary Production board
// @Description Per-workstation/operator counts with proportional goal status for one labor day and shift
// @Tags production
// @Produce json
// @Param date query string false "Labor day (YYYY-MM-DD), defaults to the current labor day"
// @Param shift query string false "Shift id, defaults to the current shift"
// @Param station query string false "Filter to one workstation label"
// @Success 200 {array} service.BoardRow
// @Failure 400 {object} map[string]string
// @Router /production/board [get]
func (h *Handlers) Board(w http.ResponseWriter, r *http.Request) {
	curShift, curDay := h.Service.CurrentShift()

	day, ok := dateParam(r, "date", curDay)
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid 'date', want YYYY-MM-DD")
		return
	}
	shift := r.URL.Query().Get("shift")
	if shift == "" {
		shift = curShift
	}

	rows, err := h.Service.Board(r.Context(), day, shift, r.URL.Query().Get("station"))
	if err != nil {
		if _, known := h.Service.Calendar().Shift(shift); !known {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		h.Logger.Error("board query failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "board query failed")
		return
	}
	writeJSON(w, http.StatusOK, rows)
}

// Summary returns the labor-day × shift pivot for a range
// @Summary Production summary
// @Description Dense labor-day × shift totals, zero-filled, with row/column/grand totals
// @Tags production
// @Produce json
// @Param from query string false "Range start (YYYY-MM-DD)"
// @Param to query string false "Range end (YYYY-MM-DD)"
// @Success 200 {object} engine.PivotTable
// @Failure 400 {object} map[string]string
// @Router /production/summary [get]
func (h *Handlers) Summary(w http.ResponseWriter, r *http.Request) {
	from, to, ok := rangeParams(w, r, h)
	if !ok {
		return
	}

	table, err := h.Service.Summary(r.Context(), from, to)
	if err != nil {
		h.Logger.Error("summary query failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "summary query failed")
		return
	}
	writeJSON(w, http.StatusOK, table)
}

// PivotReport returns a pivot over caller-chosen dimensions
// @Summary Generic pivot
// @Description Two-dimensional rollup pivot; rows/cols pick the dimensions
// @Tags production
// @Produce json
// @Param from query string false "Range start (YYYY-MM-DD)"
// @Param to query string false "Range end (YYYY-MM-DD)"
// @Param rows query string false "Row dimension" Enums(workstation, shift, operator, tool, code, family, laborDay)
// @Param cols query string false "Column dimension" Enums(workstation, shift, operator, tool, code, family, laborDay)
// @Success 200 {object} engine.PivotTable
// @Failure 400 {object} map[string]string
// @Router /production/pivot [get]
func (h *Handlers) PivotReport(w http.ResponseWriter, r *http.Request) {
	from, to, ok := rangeParams(w, r, h)
	if !ok {
		return
	}
	rowDim, ok := dimParam(r.URL.Query().Get("rows"), engine.DimWorkstation)
	if !ok {
		writeError(w, http.StatusBadRequest, "unknown 'rows' dimension")
		return
	}
	colDim, ok := dimParam(r.URL.Query().Get("cols"), engine.DimShift)
	if !ok {
		writeError(w, http.StatusBadRequest, "unknown 'cols' dimension")
		return
	}
	if rowDim == colDim {
		writeError(w, http.StatusBadRequest, "rows and cols must differ")
		return
	}

	table, err := h.Service.PivotReport(r.Context(), from, to, rowDim, colDim)
	if err != nil {
		h.Logger.Error("pivot query failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "pivot query failed")
		return
	}
	writeJSON(w, http.StatusOK, table)
}

// nParam parses a positive "n" limit with a default.
func nParam(r *http.Request, fallback int) int {
	raw := r.URL.Query().Get("n")
	if raw == "" {
		return fallback
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 1 {
		return fallback
	}
	return n
}
