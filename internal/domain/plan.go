package domain

import "time"

// Plan is a persisted project plan: one task-dependency graph plus identity.
// Node and edge ids are plan-scoped and allocated from the persisted
// NextNodeID/NextEdgeID counters so ids are never reused within a plan.
type Plan struct {
	ID         string
	Name       string
	Status     PlanStatus
	NextNodeID int64
	NextEdgeID int64
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// DisplayID returns a short identifier for display, truncating the uuid.
func (p *Plan) DisplayID() string {
	if len(p.ID) >= 8 {
		return p.ID[:8]
	}
	return p.ID
}
