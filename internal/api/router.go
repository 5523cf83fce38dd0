// Package api wires the HTTP routes to the handlers.
package api

import (
	httpSwagger "github.com/swaggo/http-swagger"

	_ "prodscan/docs" // swagger document registration

	"prodscan/internal/api/handler"
	"prodscan/pkg/router"
)

// RegisterRoutes attaches every endpoint to the router.
func RegisterRoutes(r *router.Router, h *handler.Handlers) {
	r.GET("/api/v1/production/board", h.Board)
	r.GET("/api/v1/production/summary", h.Summary)
	r.GET("/api/v1/production/pivot", h.PivotReport)

	r.GET("/api/v1/defects/top-tools", h.TopTools)
	r.GET("/api/v1/defects/top-codes", h.TopDefectCodes)
	r.GET("/api/v1/defects/cost-report", h.CostReport)
	r.GET("/api/v1/defects/share", h.DefectShares)

	r.GET("/api/v1/catalog/tools", h.Tools)
	r.GET("/api/v1/catalog/workstations", h.Workstations)

	r.POST("/api/v1/scans", h.RecordScan)
	r.POST("/api/v1/defects", h.RecordDefect)
	r.GET("/api/v1/stream", h.Stream)

	r.GET("/swagger/*", router.HandlerFunc(httpSwagger.WrapHandler))
}
