package model

// ToolFamilyNone is the sentinel family assigned to tools whose catalog row
// has a blank family, so family-scoped reports never silently drop them.
const ToolFamilyNone = "SIN FAMILIA"

// DefaultWorkstationTarget is the per-shift piece target used when a
// workstation has no catalog row or a null target.
const DefaultWorkstationTarget = 1800

// ToolCatalogEntry is one tool (mandrel) from the catalog. Cost and Family
// are nullable in the source table.
type ToolCatalogEntry struct {
	ID     int64    `json:"id"`
	Name   string   `json:"name"`
	Area   string   `json:"area"`
	Family *string  `json:"family"`
	Cost   *float64 `json:"cost"`
}

// NormalizedFamily returns the catalog family, or ToolFamilyNone when the
// column is null or blank.
func (t ToolCatalogEntry) NormalizedFamily() string {
	if t.Family == nil || *t.Family == "" {
		return ToolFamilyNone
	}
	return *t.Family
}

// UnitCost returns the catalog cost, or 0 when the column is null.
func (t ToolCatalogEntry) UnitCost() float64 {
	if t.Cost == nil {
		return 0
	}
	return *t.Cost
}

// WorkstationCatalogEntry is one workstation (mesa) from the catalog.
type WorkstationCatalogEntry struct {
	ID     int64  `json:"id"`
	Number string `json:"number"` // e.g. "3" for "MESA#3"
	Label  string `json:"label"`
	Target *int   `json:"target"` // per-shift piece goal ("meta")
}

// TargetOrDefault returns the per-shift target, or DefaultWorkstationTarget
// when the column is null.
func (w WorkstationCatalogEntry) TargetOrDefault() int {
	if w.Target == nil {
		return DefaultWorkstationTarget
	}
	return *w.Target
}
