package leveling

import (
	"context"
	"testing"

	"github.com/okerlund/planfold/internal/calendar"
	"github.com/okerlund/planfold/internal/domain"
	"github.com/okerlund/planfold/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSerialSolver_DelaysOverloadedTasks(t *testing.T) {
	tasks := []*domain.TaskNode{
		testutil.NewTask("a", testutil.WithStart(testutil.Day(0)), testutil.WithDuration(2)),
		testutil.NewTask("b", testutil.WithStart(testutil.Day(0)), testutil.WithDuration(2)),
		testutil.NewTask("c", testutil.WithStart(testutil.Day(0)), testutil.WithDuration(1)),
	}
	for i, task := range tasks {
		task.ID = int64(i + 1)
	}

	sol, err := (&SerialSolver{}).Solve(context.Background(), tasks, nil, Config{MaxParallel: 2})
	require.NoError(t, err)

	// a and b fill both slots on Day(0) and Day(1); c slides to Day(2).
	assert.NotContains(t, sol.Starts, int64(1))
	assert.NotContains(t, sol.Starts, int64(2))
	assert.Equal(t, testutil.Day(2), sol.Starts[3])
	assert.Empty(t, sol.Durations, "the serial solver never changes durations")
}

func TestSerialSolver_NoChangeUnderCapacity(t *testing.T) {
	tasks := []*domain.TaskNode{
		testutil.NewTask("a", testutil.WithStart(testutil.Day(0)), testutil.WithDuration(3)),
		testutil.NewTask("b", testutil.WithStart(testutil.Day(1)), testutil.WithDuration(1)),
	}
	tasks[0].ID, tasks[1].ID = 1, 2

	sol, err := (&SerialSolver{}).Solve(context.Background(), tasks, nil, Config{MaxParallel: 2})
	require.NoError(t, err)

	assert.Empty(t, sol.Starts)
}

func TestSerialSolver_SkipsMilestonesGroupsAndUnscheduled(t *testing.T) {
	tasks := []*domain.TaskNode{
		testutil.NewTask("ship", testutil.WithKind(domain.KindMilestone),
			testutil.WithStart(testutil.Day(0)), testutil.WithDuration(0)),
		testutil.NewTask("grp", testutil.WithKind(domain.KindGroup),
			testutil.WithStart(testutil.Day(0)), testutil.WithDuration(5)),
		testutil.NewTask("blank"),
	}
	for i, task := range tasks {
		task.ID = int64(i + 1)
	}
	tasks[2].Start = nil

	sol, err := (&SerialSolver{}).Solve(context.Background(), tasks, nil, Config{MaxParallel: 1})
	require.NoError(t, err)

	assert.Empty(t, sol.Starts)
}

func TestSerialSolver_DelayedStartSnapsToWorkingDay(t *testing.T) {
	// Both start Friday with MaxParallel 1; the loser must land on Monday.
	tasks := []*domain.TaskNode{
		testutil.NewTask("a", testutil.WithStart(testutil.Day(4)), testutil.WithDuration(1)),
		testutil.NewTask("b", testutil.WithStart(testutil.Day(4)), testutil.WithDuration(1)),
	}
	tasks[0].ID, tasks[1].ID = 1, 2

	sol, err := (&SerialSolver{Cal: calendar.NewWeekday()}).Solve(
		context.Background(), tasks, nil, Config{MaxParallel: 1})
	require.NoError(t, err)

	assert.NotContains(t, sol.Starts, int64(1), "earlier id keeps its slot")
	assert.Equal(t, testutil.Day(7), sol.Starts[2])
}

func TestSerialSolver_HonorsContextCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	tasks := []*domain.TaskNode{
		testutil.NewTask("a", testutil.WithStart(testutil.Day(0))),
	}
	tasks[0].ID = 1

	_, err := (&SerialSolver{}).Solve(ctx, tasks, nil, Config{MaxParallel: 1})
	assert.ErrorIs(t, err, context.Canceled)
}
