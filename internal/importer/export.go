package importer

import (
	"fmt"

	"github.com/okerlund/planfold/internal/domain"
	"github.com/okerlund/planfold/internal/graph"
)

// Export renders a plan's graph back into the interchange schema. Remapped
// edge endpoints are resolved to their originals and hidden-internal flags
// dropped: the schema stores the logical structure, and Convert rebuilds the
// collapse state through the grouping engine on re-import.
func Export(plan *domain.Plan, g *graph.TaskGraph) *ImportSchema {
	schema := &ImportSchema{Plan: PlanSchema{Name: plan.Name}}

	refs := make(map[int64]string, len(g.Nodes()))
	for _, n := range g.Nodes() {
		refs[n.ID] = fmt.Sprintf("n%d", n.ID)
	}

	for _, n := range g.Nodes() {
		ns := NodeSchema{
			Ref:             refs[n.ID],
			Title:           n.Title,
			Kind:            string(n.Kind),
			DurationDays:    n.DurationDays,
			PercentComplete: n.PercentComplete,
			CenterX:         n.CenterX,
			CenterY:         n.CenterY,
			Collapsed:       n.Collapsed,
		}
		if n.Start != nil {
			s := n.Start.Format(domain.DateLayout)
			ns.Start = &s
		}
		for _, mid := range n.MemberIDs {
			ns.Members = append(ns.Members, refs[mid])
		}
		schema.Nodes = append(schema.Nodes, ns)
	}

	for _, e := range g.Edges() {
		from, to := e.From, e.To
		if e.OriginalFrom != nil {
			from = *e.OriginalFrom
		}
		if e.OriginalTo != nil {
			to = *e.OriginalTo
		}
		schema.Edges = append(schema.Edges, EdgeSchema{
			From:    refs[from],
			To:      refs[to],
			Type:    string(e.Type),
			LagDays: e.LagDays,
		})
	}

	return schema
}
