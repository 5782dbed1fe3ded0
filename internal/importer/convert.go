package importer

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/okerlund/planfold/internal/domain"
	"github.com/okerlund/planfold/internal/graph"
	"github.com/okerlund/planfold/internal/grouping"
)

// GeneratedPlan is a converted import ready for persistence.
type GeneratedPlan struct {
	Plan  *domain.Plan
	Graph *graph.TaskGraph
}

// Convert transforms a validated ImportSchema into a plan and its graph.
// Call ValidateImportSchema first; Convert assumes the schema is valid.
//
// Groups are built expanded and then collapsed through the grouping engine,
// so boundary-edge remapping and hidden-internal flags come out exactly as
// they would from interactive grouping.
func Convert(schema *ImportSchema) (*GeneratedPlan, error) {
	now := time.Now().UTC()
	plan := &domain.Plan{
		ID:        uuid.New().String(),
		Name:      schema.Plan.Name,
		Status:    domain.PlanActive,
		CreatedAt: now,
		UpdatedAt: now,
	}

	g := graph.New()
	refMap := make(map[string]int64, len(schema.Nodes))

	for _, ns := range schema.Nodes {
		kind := domain.NodeKind(ns.Kind)
		if kind == "" {
			kind = domain.KindTask
		}
		n := &domain.TaskNode{
			Title:           ns.Title,
			Kind:            kind,
			DurationDays:    ns.DurationDays,
			PercentComplete: ns.PercentComplete,
			RowIndex:        -1,
			CenterX:         ns.CenterX,
			CenterY:         ns.CenterY,
			CreatedAt:       now,
			UpdatedAt:       now,
		}
		if ns.Start != nil {
			t, err := time.Parse(domain.DateLayout, *ns.Start)
			if err != nil {
				return nil, fmt.Errorf("parsing start of node %q: %w", ns.Ref, err)
			}
			t = domain.DateOnly(t)
			n.Start = &t
		}
		g.AddNode(n)
		refMap[ns.Ref] = n.ID
	}

	// Wire group membership with groups still expanded.
	for _, ns := range schema.Nodes {
		if ns.Kind != string(domain.KindGroup) {
			continue
		}
		group := g.Node(refMap[ns.Ref])
		for _, ref := range ns.Members {
			mid := refMap[ref]
			group.MemberIDs = append(group.MemberIDs, mid)
			if m := g.Node(mid); m != nil {
				gid := group.ID
				m.ParentGroupID = &gid
			}
		}
	}

	for i, es := range schema.Edges {
		depType := domain.DependencyType(es.Type)
		if depType == "" {
			depType = domain.FinishToStart
		}
		if _, err := g.AddEdge(&domain.DependencyEdge{
			From:    refMap[es.From],
			To:      refMap[es.To],
			Type:    depType,
			LagDays: es.LagDays,
		}); err != nil {
			return nil, fmt.Errorf("edge %d: %w", i, err)
		}
	}

	// Collapse through the engine so remap state matches interactive grouping.
	engine := grouping.NewEngine(g)
	for _, ns := range schema.Nodes {
		if ns.Kind == string(domain.KindGroup) && ns.Collapsed {
			if err := engine.CollapseGroup(refMap[ns.Ref]); err != nil {
				return nil, fmt.Errorf("collapsing group %q: %w", ns.Ref, err)
			}
		}
	}

	plan.NextNodeID = g.NextNodeID()
	plan.NextEdgeID = g.NextEdgeID()
	return &GeneratedPlan{Plan: plan, Graph: g}, nil
}
