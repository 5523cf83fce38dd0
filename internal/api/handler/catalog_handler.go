package handler

import (
	"net/http"

	"go.uber.org/zap"
)

// Tools returns the tool catalog
// @Summary Tool catalog
// @Tags catalog
// @Produce json
// @Param area query string false "Filter by operational area"
// @Success 200 {array} model.ToolCatalogEntry
// @Router /catalog/tools [get]
func (h *Handlers) Tools(w http.ResponseWriter, r *http.Request) {
	tools, err := h.Store.FetchTools(r.Context(), r.URL.Query().Get("area"))
	if err != nil {
		h.Logger.Error("tool catalog query failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "tool catalog query failed")
		return
	}
	writeJSON(w, http.StatusOK, tools)
}

// Workstations returns the workstation catalog
// @Summary Workstation catalog
// @Tags catalog
// @Produce json
// @Success 200 {array} model.WorkstationCatalogEntry
// @Router /catalog/workstations [get]
func (h *Handlers) Workstations(w http.ResponseWriter, r *http.Request) {
	stations, err := h.Store.FetchWorkstations(r.Context())
	if err != nil {
		h.Logger.Error("workstation catalog query failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "workstation catalog query failed")
		return
	}
	writeJSON(w, http.StatusOK, stations)
}
