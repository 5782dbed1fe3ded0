package testutil

import (
	"time"

	"github.com/okerlund/planfold/internal/domain"
	"github.com/okerlund/planfold/internal/graph"
)

// Day0 is the epoch all date fixtures count from; a Monday so weekday
// calendars treat Day(0) through Day(4) as working days.
var Day0 = time.Date(2026, time.March, 2, 0, 0, 0, 0, time.UTC)

// Day returns Day0 plus n days.
func Day(n int) time.Time {
	return Day0.AddDate(0, 0, n)
}

// Task options
type TaskOption func(*domain.TaskNode)

func WithKind(k domain.NodeKind) TaskOption {
	return func(n *domain.TaskNode) {
		n.Kind = k
	}
}

func WithStart(t time.Time) TaskOption {
	return func(n *domain.TaskNode) {
		d := domain.DateOnly(t)
		n.Start = &d
	}
}

func WithDuration(days int) TaskOption {
	return func(n *domain.TaskNode) {
		n.DurationDays = days
	}
}

func WithCenter(x, y float64) TaskOption {
	return func(n *domain.TaskNode) {
		n.CenterX = x
		n.CenterY = y
	}
}

func WithRow(row int) TaskOption {
	return func(n *domain.TaskNode) {
		n.RowIndex = row
	}
}

// NewTask builds an unattached task node fixture.
func NewTask(title string, opts ...TaskOption) *domain.TaskNode {
	now := time.Now().UTC()
	n := &domain.TaskNode{
		Title:        title,
		Kind:         domain.KindTask,
		DurationDays: 1,
		RowIndex:     -1,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	for _, opt := range opts {
		opt(n)
	}
	return n
}

// AddTask builds a task fixture and adds it to the graph.
func AddTask(g *graph.TaskGraph, title string, opts ...TaskOption) *domain.TaskNode {
	return g.AddNode(NewTask(title, opts...))
}

// MustEdge adds a dependency edge and panics on rejection; fixtures only.
func MustEdge(g *graph.TaskGraph, from, to int64, depType domain.DependencyType, lag int) *domain.DependencyEdge {
	e, err := g.AddEdge(&domain.DependencyEdge{From: from, To: to, Type: depType, LagDays: lag})
	if err != nil {
		panic(err)
	}
	return e
}
