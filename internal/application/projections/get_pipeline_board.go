package projections

import (
	"sort"

	"github.com/melikovgraf1-sys/judo-crm-2-sub001/internal/domain/lead"
)

// GetPipelineBoardQuery carries query parameters.
type GetPipelineBoardQuery struct {
	Area  string
	Group string
}

// StageColumn is one column of the pipeline board.
type StageColumn struct {
	Stage string
	Leads []lead.Lead
}

// GetPipelineBoardResult carries the query result: one column per pipeline
// stage, in pipeline order, leads newest-first within a column.
type GetPipelineBoardResult struct {
	Columns []StageColumn
	Total   int
}

// GetPipelineBoardDeps holds dependencies for GetPipelineBoard.
type GetPipelineBoardDeps struct {
	Documents DocumentSource
}

// QueryGetPipelineBoard groups active leads by stage for the board view.
// POST: Every active lead matching the filter appears in exactly one column
func QueryGetPipelineBoard(query GetPipelineBoardQuery, deps GetPipelineBoardDeps) GetPipelineBoardResult {
	doc := deps.Documents.Snapshot()

	byStage := make(map[string][]lead.Lead, len(lead.Stages))
	total := 0
	for _, l := range doc.Leads {
		if query.Area != "" && l.Area != query.Area {
			continue
		}
		if query.Group != "" && l.Group != query.Group {
			continue
		}
		byStage[l.Stage] = append(byStage[l.Stage], l)
		total++
	}

	columns := make([]StageColumn, 0, len(lead.Stages))
	for _, stage := range lead.Stages {
		leads := byStage[stage]
		sort.SliceStable(leads, func(i, j int) bool {
			return leads[i].CreatedAt.After(leads[j].CreatedAt)
		})
		columns = append(columns, StageColumn{Stage: stage, Leads: leads})
	}
	return GetPipelineBoardResult{Columns: columns, Total: total}
}
