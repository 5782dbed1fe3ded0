package leveling

import (
	"context"
	"sort"
	"time"

	"github.com/okerlund/planfold/internal/calendar"
	"github.com/okerlund/planfold/internal/domain"
)

// Config bounds a leveling solve.
type Config struct {
	// MaxParallel is the number of tasks allowed to run on the same day.
	MaxParallel int
}

// Solution is the solver output: only tasks whose dates should change appear
// in the maps.
type Solution struct {
	Starts    map[int64]time.Time
	Durations map[int64]int
}

// Solver is the resource-leveling optimizer contract. Implementations may be
// long-running; they are always invoked off the mutation path and must honor
// ctx cancellation.
type Solver interface {
	Solve(ctx context.Context, tasks []*domain.TaskNode, edges []*domain.DependencyEdge, cfg Config) (*Solution, error)
}

// SerialSolver is a greedy heuristic leveler: it walks tasks in start order
// and delays any task that would push a day over the parallelism cap,
// re-snapping delayed starts to working days. Durations are never changed.
type SerialSolver struct {
	Cal calendar.Calendar
}

func (s *SerialSolver) Solve(ctx context.Context, tasks []*domain.TaskNode, edges []*domain.DependencyEdge, cfg Config) (*Solution, error) {
	if cfg.MaxParallel < 1 {
		cfg.MaxParallel = 1
	}
	cal := s.Cal
	if cal == nil {
		cal = calendar.AllDays{}
	}

	var scheduled []*domain.TaskNode
	for _, t := range tasks {
		if t.Kind == domain.KindTask && t.Start != nil && t.DurationDays > 0 {
			scheduled = append(scheduled, t)
		}
	}
	sort.SliceStable(scheduled, func(i, j int) bool {
		if !scheduled[i].Start.Equal(*scheduled[j].Start) {
			return scheduled[i].Start.Before(*scheduled[j].Start)
		}
		return scheduled[i].ID < scheduled[j].ID
	})

	load := map[string]int{} // day -> running tasks
	sol := &Solution{Starts: map[int64]time.Time{}, Durations: map[int64]int{}}

	for _, t := range scheduled {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		start := domain.DateOnly(*t.Start)
		for !fits(load, cal, start, t.DurationDays, cfg.MaxParallel) {
			start = cal.SnapToWorkingDay(start.AddDate(0, 0, 1))
		}
		occupy(load, cal, start, t.DurationDays)
		if !start.Equal(*t.Start) {
			sol.Starts[t.ID] = start
		}
	}
	return sol, nil
}

func fits(load map[string]int, cal calendar.Calendar, start time.Time, dur, limit int) bool {
	for _, day := range workingDays(cal, start, dur) {
		if load[day] >= limit {
			return false
		}
	}
	return true
}

func occupy(load map[string]int, cal calendar.Calendar, start time.Time, dur int) {
	for _, day := range workingDays(cal, start, dur) {
		load[day]++
	}
}

// workingDays lists the working days a task occupies from start, one per
// duration day.
func workingDays(cal calendar.Calendar, start time.Time, dur int) []string {
	days := make([]string, 0, dur)
	day := cal.SnapToWorkingDay(start)
	for i := 0; i < dur; i++ {
		days = append(days, day.Format(domain.DateLayout))
		day = cal.SnapToWorkingDay(day.AddDate(0, 0, 1))
	}
	return days
}
