package engine

import (
	"sort"

	"prodscan/internal/model"
)

// ToolInfo is the slice of the tool catalog the cost engine needs.
type ToolInfo struct {
	UnitCost float64
	Family   string
}

// ToolCatalog is a by-name lookup built once per request. A tool missing from
// the catalog costs 0 and belongs to the sentinel family; absence is never an
// error.
type ToolCatalog map[string]ToolInfo

// BuildToolCatalog normalizes catalog entries into a lookup map.
func BuildToolCatalog(entries []model.ToolCatalogEntry) ToolCatalog {
	cat := make(ToolCatalog, len(entries))
	for _, e := range entries {
		cat[e.Name] = ToolInfo{UnitCost: e.UnitCost(), Family: e.NormalizedFamily()}
	}
	return cat
}

// Info returns the catalog entry for a tool, with defaults applied when the
// tool is unknown.
func (c ToolCatalog) Info(tool string) ToolInfo {
	if info, ok := c[tool]; ok {
		return info
	}
	return ToolInfo{Family: model.ToolFamilyNone}
}

// RankedTool is one row of a cost-ranked tool list.
type RankedTool struct {
	Tool      string  `json:"tool"`
	Family    string  `json:"family"`
	Defects   int     `json:"defects"`
	UnitCost  float64 `json:"unitCost"`
	TotalCost float64 `json:"totalCost"`
}

// RankedCode is one row of a cost-ranked defect-code list for a single tool.
type RankedCode struct {
	Code      string  `json:"code"`
	Defects   int     `json:"defects"`
	TotalCost float64 `json:"totalCost"`
}

// TopTools ranks tools by total defect cost across the given defect rollups
// (grouped by at least DimTool). Cost of a bucket is defect count times the
// tool's unit cost. Ties are broken by tool name ascending so the ranking is
// reproducible. n <= 0 means no limit.
func TopTools(defectRollups []Rollup, cat ToolCatalog, n int) []RankedTool {
	defects := make(map[string]int)
	for _, r := range defectRollups {
		tool := r.Get(DimTool)
		if tool == "" {
			continue
		}
		defects[tool] += r.Defects
	}

	ranked := make([]RankedTool, 0, len(defects))
	for tool, count := range defects {
		info := cat.Info(tool)
		ranked = append(ranked, RankedTool{
			Tool:      tool,
			Family:    info.Family,
			Defects:   count,
			UnitCost:  info.UnitCost,
			TotalCost: float64(count) * info.UnitCost,
		})
	}
	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].TotalCost != ranked[j].TotalCost {
			return ranked[i].TotalCost > ranked[j].TotalCost
		}
		return ranked[i].Tool < ranked[j].Tool
	})
	return limitTools(ranked, n)
}

// TopToolsByFamily is TopTools scoped per family: for each family observed in
// the rollups, the n most expensive tools. Tools with a blank catalog family
// land in the sentinel family rather than disappearing.
func TopToolsByFamily(defectRollups []Rollup, cat ToolCatalog, n int) map[string][]RankedTool {
	byFamily := make(map[string][]Rollup)
	for _, r := range defectRollups {
		fam := cat.Info(r.Get(DimTool)).Family
		byFamily[fam] = append(byFamily[fam], r)
	}

	out := make(map[string][]RankedTool, len(byFamily))
	for fam, rollups := range byFamily {
		out[fam] = TopTools(rollups, cat, n)
	}
	return out
}

// TopDefectCodes ranks one tool's defect codes by cost. The rollups must be
// grouped by DimTool and DimCode. Every code of the tool shares the same unit
// cost, so this ordering matches ordering by piece count, with the code as
// the deterministic tie-breaker. n <= 0 means no limit.
func TopDefectCodes(defectRollups []Rollup, tool string, cat ToolCatalog, n int) []RankedCode {
	unitCost := cat.Info(tool).UnitCost

	counts := make(map[string]int)
	for _, r := range defectRollups {
		if r.Get(DimTool) != tool {
			continue
		}
		counts[r.Get(DimCode)] += r.Defects
	}

	ranked := make([]RankedCode, 0, len(counts))
	for code, count := range counts {
		ranked = append(ranked, RankedCode{
			Code:      code,
			Defects:   count,
			TotalCost: float64(count) * unitCost,
		})
	}
	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].TotalCost != ranked[j].TotalCost {
			return ranked[i].TotalCost > ranked[j].TotalCost
		}
		return ranked[i].Code < ranked[j].Code
	})
	if n > 0 && len(ranked) > n {
		ranked = ranked[:n]
	}
	return ranked
}

func limitTools(ranked []RankedTool, n int) []RankedTool {
	if n > 0 && len(ranked) > n {
		return ranked[:n]
	}
	return ranked
}
