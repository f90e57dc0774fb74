package projections

import (
	"sort"
	"strings"

	"github.com/melikovgraf1-sys/judo-crm-2-sub001/internal/domain/client"
)

// GetClientListQuery carries query parameters.
type GetClientListQuery struct {
	Area   string
	Group  string
	Search string
}

// ClientRow is one row of the client list view.
type ClientRow struct {
	ID         string
	Name       string
	Area       string
	Group      string
	Plan       string
	PayStatus  string
	PayAmount  *int
	CoachName  string
	Placements int
}

// GetClientListResult carries the query result.
type GetClientListResult struct {
	Clients []ClientRow
	Total   int
}

// GetClientListDeps holds dependencies for GetClientList.
type GetClientListDeps struct {
	Documents DocumentSource
}

// QueryGetClientList returns clients filtered by area/group and a free-text
// name match, sorted by display name.
func QueryGetClientList(query GetClientListQuery, deps GetClientListDeps) GetClientListResult {
	doc := deps.Documents.Snapshot()

	coachNames := make(map[string]string, len(doc.Staff))
	for _, m := range doc.Staff {
		coachNames[m.ID] = m.Name
	}

	needle := strings.ToLower(strings.TrimSpace(query.Search))
	rows := make([]ClientRow, 0, len(doc.Clients))
	for i := range doc.Clients {
		c := doc.Clients[i]
		if query.Area != "" && c.Area != query.Area {
			continue
		}
		if query.Group != "" && c.Group != query.Group {
			continue
		}
		name := c.DisplayName()
		if needle != "" && !strings.Contains(strings.ToLower(name), needle) {
			continue
		}
		rows = append(rows, ClientRow{
			ID:         c.ID,
			Name:       name,
			Area:       c.Area,
			Group:      c.Group,
			Plan:       c.Plan,
			PayStatus:  c.PayStatus,
			PayAmount:  clonedAmount(c),
			CoachName:  coachNames[c.CoachID],
			Placements: len(c.Placements),
		})
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].Name < rows[j].Name })
	return GetClientListResult{Clients: rows, Total: len(rows)}
}

func clonedAmount(c client.Client) *int {
	if c.PayAmount == nil {
		return nil
	}
	v := *c.PayAmount
	return &v
}
