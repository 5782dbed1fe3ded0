package criticalpath

import (
	"testing"

	"github.com/okerlund/planfold/internal/domain"
	"github.com/stretchr/testify/assert"
)

func task(id int64, dur int) *domain.TaskNode {
	return &domain.TaskNode{ID: id, Kind: domain.KindTask, DurationDays: dur}
}

func fs(from, to int64) *domain.DependencyEdge {
	return &domain.DependencyEdge{From: from, To: to, Type: domain.FinishToStart}
}

func TestCompute_ChainIsFullyCritical(t *testing.T) {
	tasks := []*domain.TaskNode{task(1, 3), task(2, 2), task(3, 1)}
	edges := []*domain.DependencyEdge{fs(1, 2), fs(2, 3)}

	critical := New().Compute(tasks, edges)

	assert.Equal(t, map[int64]bool{1: true, 2: true, 3: true}, critical)
}

func TestCompute_ShortBranchHasFloat(t *testing.T) {
	// 1 -> short(2) -> 4 and 1 -> long(3) -> 4; only the long branch is
	// critical.
	tasks := []*domain.TaskNode{task(1, 1), task(2, 1), task(3, 5), task(4, 1)}
	edges := []*domain.DependencyEdge{fs(1, 2), fs(1, 3), fs(2, 4), fs(3, 4)}

	critical := New().Compute(tasks, edges)

	assert.True(t, critical[1])
	assert.False(t, critical[2], "short branch has float")
	assert.True(t, critical[3])
	assert.True(t, critical[4])
}

func TestCompute_DisconnectedLongestTaskIsCritical(t *testing.T) {
	tasks := []*domain.TaskNode{task(1, 10), task(2, 2)}

	critical := New().Compute(tasks, nil)

	assert.True(t, critical[1], "the longest isolated task sets the finish")
	assert.False(t, critical[2])
}

func TestCompute_StartToStartWithLag(t *testing.T) {
	// 2 must start 4 days after 1 starts; with duration 2 it then defines the
	// finish at day 6, so both are critical.
	tasks := []*domain.TaskNode{task(1, 1), task(2, 2)}
	edges := []*domain.DependencyEdge{
		{From: 1, To: 2, Type: domain.StartToStart, LagDays: 4},
	}

	critical := New().Compute(tasks, edges)

	assert.True(t, critical[1])
	assert.True(t, critical[2])
}

func TestCompute_CycleNodesAreDropped(t *testing.T) {
	tasks := []*domain.TaskNode{task(1, 2), task(2, 1), task(3, 1)}
	edges := []*domain.DependencyEdge{fs(2, 3), fs(3, 2)}

	critical := New().Compute(tasks, edges)

	assert.True(t, critical[1])
	assert.False(t, critical[2])
	assert.False(t, critical[3])
}

func TestCompute_EdgesWithUnknownEndpointsIgnored(t *testing.T) {
	tasks := []*domain.TaskNode{task(1, 1), task(2, 1)}
	edges := []*domain.DependencyEdge{fs(1, 2), fs(2, 99), fs(99, 1)}

	critical := New().Compute(tasks, edges)

	assert.Equal(t, map[int64]bool{1: true, 2: true}, critical)
}

func TestCompute_EmptyInput(t *testing.T) {
	critical := New().Compute(nil, nil)
	assert.Empty(t, critical)
}

func TestCompute_DoesNotMutateInputs(t *testing.T) {
	n := task(1, 3)
	m := task(2, 2)
	edge := fs(1, 2)

	New().Compute([]*domain.TaskNode{n, m}, []*domain.DependencyEdge{edge})

	assert.Equal(t, 3, n.DurationDays)
	assert.Equal(t, int64(1), edge.From)
	assert.Equal(t, int64(2), edge.To)
}
