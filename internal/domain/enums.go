package domain

type NodeKind string

const (
	KindTask      NodeKind = "task"
	KindMilestone NodeKind = "milestone"
	KindGroup     NodeKind = "group"
	KindResource  NodeKind = "resource"
)

// ValidNodeKinds is the canonical set of accepted node kind strings.
var ValidNodeKinds = map[string]bool{
	"task": true, "milestone": true, "group": true, "resource": true,
}

type DependencyType string

const (
	FinishToStart  DependencyType = "FS"
	StartToStart   DependencyType = "SS"
	FinishToFinish DependencyType = "FF"
	StartToFinish  DependencyType = "SF"
)

// ValidDependencyTypes is the canonical set of accepted dependency type strings.
var ValidDependencyTypes = map[string]bool{
	"FS": true, "SS": true, "FF": true, "SF": true,
}

type PlanStatus string

const (
	PlanActive   PlanStatus = "active"
	PlanArchived PlanStatus = "archived"
)
