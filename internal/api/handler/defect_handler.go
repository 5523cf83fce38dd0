package handler

import (
	"net/http"

	"go.uber.org/zap"
)

// TopTools returns the most expensive tools by defect cost
// @Summary Top tools by defect cost
// @Tags defects
// @Produce json
// @Param from query string false "Range start (YYYY-MM-DD)"
// @Param to query string false "Range end (YYYY-MM-DD)"
// @Param n query int false "How many tools (default 5)"
// @Success 200 {array} engine.RankedTool
// @Failure 400 {object} map[string]string
// @Router /defects/top-tools [get]
func (h *Handlers) TopTools(w http.ResponseWriter, r *http.Request) {
	from, to, ok := rangeParams(w, r, h)
	if !ok {
		return
	}

	ranked, err := h.Service.TopTools(r.Context(), from, to, nParam(r, 5))
	if err != nil {
		h.Logger.Error("top tools query failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "top tools query failed")
		return
	}
	writeJSON(w, http.StatusOK, ranked)
}

// TopDefectCodes returns one tool's worst defect codes by cost
// @Summary Top defect codes for a tool
// @Tags defects
// @Produce json
// @Param from query string false "Range start (YYYY-MM-DD)"
// @Param to query string false "Range end (YYYY-MM-DD)"
// @Param tool query string true "Tool name"
// @Param n query int false "How many codes (default 3)"
// @Success 200 {array} engine.RankedCode
// @Failure 400 {object} map[string]string
// @Router /defects/top-codes [get]
func (h *Handlers) TopDefectCodes(w http.ResponseWriter, r *http.Request) {
	from, to, ok := rangeParams(w, r, h)
	if !ok {
		return
	}
	tool := r.URL.Query().Get("tool")
	if tool == "" {
		writeError(w, http.StatusBadRequest, "missing 'tool' parameter")
		return
	}

	ranked, err := h.Service.TopDefectCodes(r.Context(), from, to, tool, nParam(r, 3))
	if err != nil {
		h.Logger.Error("top codes query failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "top codes query failed")
		return
	}
	writeJSON(w, http.StatusOK, ranked)
}

// CostReport returns the per-family cost breakdown
// @Summary Defect cost report
// @Description Top 5 tools per family by total defect cost, each with its top 3 defect codes
// @Tags defects
// @Produce json
// @Param from query string false "Range start (YYYY-MM-DD)"
// @Param to query string false "Range end (YYYY-MM-DD)"
// @Success 200 {object} service.CostReport
// @Failure 400 {object} map[string]string
// @Router /defects/cost-report [get]
func (h *Handlers) CostReport(w http.ResponseWriter, r *http.Request) {
	from, to, ok := rangeParams(w, r, h)
	if !ok {
		return
	}

	report, err := h.Service.BuildCostReport(r.Context(), from, to)
	if err != nil {
		h.Logger.Error("cost report failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "cost report failed")
		return
	}
	writeJSON(w, http.StatusOK, report)
}

// DefectShares returns per-code defect percentages for the dashboard
// @Summary Defect share
// @Description Defect counts by code with share of total production; configured codes are excluded
// @Tags defects
// @Produce json
// @Param from query string false "Range start (YYYY-MM-DD)"
// @Param to query string false "Range end (YYYY-MM-DD)"
// @Success 200 {array} service.DefectShare
// @Failure 400 {object} map[string]string
// @Router /defects/share [get]
func (h *Handlers) DefectShares(w http.ResponseWriter, r *http.Request) {
	from, to, ok := rangeParams(w, r, h)
	if !ok {
		return
	}

	shares, err := h.Service.DefectShares(r.Context(), from, to)
	if err != nil {
		h.Logger.Error("defect share query failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "defect share query failed")
		return
	}
	writeJSON(w, http.StatusOK, shares)
}
