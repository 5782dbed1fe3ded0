package repository

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/okerlund/planfold/internal/domain"
	"github.com/okerlund/planfold/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newPlan(t *testing.T, repo *SQLitePlanRepo, name string) *domain.Plan {
	t.Helper()
	now := time.Now().UTC().Truncate(time.Second)
	p := &domain.Plan{
		ID:         uuid.NewString(),
		Name:       name,
		Status:     domain.PlanActive,
		NextNodeID: 1,
		NextEdgeID: 1,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	require.NoError(t, repo.Create(context.Background(), p))
	return p
}

func TestPlanRepo_RoundTrip(t *testing.T) {
	database := testutil.NewTestDB(t)
	repo := NewSQLitePlanRepo(database)
	ctx := context.Background()

	p := newPlan(t, repo, "launch")
	p.NextNodeID = 7
	p.NextEdgeID = 3

	require.NoError(t, repo.Update(ctx, p))

	got, err := repo.GetByID(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, p.Name, got.Name)
	assert.Equal(t, domain.PlanActive, got.Status)
	assert.Equal(t, int64(7), got.NextNodeID)
	assert.Equal(t, int64(3), got.NextEdgeID)
	assert.Equal(t, p.CreatedAt, got.CreatedAt)
}

func TestPlanRepo_GetMissingReturnsNotFound(t *testing.T) {
	database := testutil.NewTestDB(t)
	repo := NewSQLitePlanRepo(database)

	_, err := repo.GetByID(context.Background(), uuid.NewString())
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestPlanRepo_ListFiltersArchived(t *testing.T) {
	database := testutil.NewTestDB(t)
	repo := NewSQLitePlanRepo(database)
	ctx := context.Background()

	newPlan(t, repo, "active")
	archived := newPlan(t, repo, "old")
	archived.Status = domain.PlanArchived
	require.NoError(t, repo.Update(ctx, archived))

	active, err := repo.List(ctx, false)
	require.NoError(t, err)
	require.Len(t, active, 1)
	assert.Equal(t, "active", active[0].Name)

	all, err := repo.List(ctx, true)
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

func TestNodeRepo_RoundTripAllFields(t *testing.T) {
	database := testutil.NewTestDB(t)
	planRepo := NewSQLitePlanRepo(database)
	nodeRepo := NewSQLiteNodeRepo(database)
	ctx := context.Background()

	p := newPlan(t, planRepo, "plan")

	start := testutil.Day(3)
	parent := int64(9)
	now := time.Now().UTC().Truncate(time.Second)
	n := &domain.TaskNode{
		ID:              2,
		Title:           "design review",
		Kind:            domain.KindGroup,
		Start:           &start,
		DurationDays:    4,
		PercentComplete: 35,
		RowIndex:        6,
		CenterX:         120.5,
		CenterY:         -3.25,
		ParentGroupID:   &parent,
		MemberIDs:       []int64{4, 5, 6},
		Collapsed:       true,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	require.NoError(t, nodeRepo.Create(ctx, p.ID, n))

	got, err := nodeRepo.GetByID(ctx, p.ID, n.ID)
	require.NoError(t, err)
	assert.Equal(t, n.Title, got.Title)
	assert.Equal(t, domain.KindGroup, got.Kind)
	require.NotNil(t, got.Start)
	assert.Equal(t, start, *got.Start)
	assert.Equal(t, 4, got.DurationDays)
	assert.Equal(t, 35, got.PercentComplete)
	assert.Equal(t, 6, got.RowIndex)
	assert.Equal(t, 120.5, got.CenterX)
	assert.Equal(t, -3.25, got.CenterY)
	require.NotNil(t, got.ParentGroupID)
	assert.Equal(t, parent, *got.ParentGroupID)
	assert.Equal(t, []int64{4, 5, 6}, got.MemberIDs)
	assert.True(t, got.Collapsed)
	assert.Equal(t, now, got.CreatedAt)
}

func TestNodeRepo_NilOptionalsSurviveRoundTrip(t *testing.T) {
	database := testutil.NewTestDB(t)
	planRepo := NewSQLitePlanRepo(database)
	nodeRepo := NewSQLiteNodeRepo(database)
	ctx := context.Background()

	p := newPlan(t, planRepo, "plan")
	n := testutil.NewTask("bare")
	n.ID = 1
	require.NoError(t, nodeRepo.Create(ctx, p.ID, n))

	got, err := nodeRepo.GetByID(ctx, p.ID, 1)
	require.NoError(t, err)
	assert.Nil(t, got.Start)
	assert.Nil(t, got.ParentGroupID)
	assert.Empty(t, got.MemberIDs)
	assert.False(t, got.Collapsed)
}

func TestNodeRepo_ReplaceAllSwapsNodeSet(t *testing.T) {
	database := testutil.NewTestDB(t)
	planRepo := NewSQLitePlanRepo(database)
	nodeRepo := NewSQLiteNodeRepo(database)
	ctx := context.Background()

	p := newPlan(t, planRepo, "plan")
	a := testutil.NewTask("a")
	a.ID = 1
	require.NoError(t, nodeRepo.Create(ctx, p.ID, a))

	b := testutil.NewTask("b")
	b.ID = 2
	c := testutil.NewTask("c")
	c.ID = 3
	require.NoError(t, nodeRepo.ReplaceAll(ctx, p.ID, []*domain.TaskNode{b, c}))

	nodes, err := nodeRepo.ListByPlan(ctx, p.ID)
	require.NoError(t, err)
	require.Len(t, nodes, 2)
	assert.Equal(t, "b", nodes[0].Title)
	assert.Equal(t, "c", nodes[1].Title)
}

func TestEdgeRepo_RoundTripAllFields(t *testing.T) {
	database := testutil.NewTestDB(t)
	planRepo := NewSQLitePlanRepo(database)
	nodeRepo := NewSQLiteNodeRepo(database)
	edgeRepo := NewSQLiteEdgeRepo(database)
	ctx := context.Background()

	p := newPlan(t, planRepo, "plan")
	for i := int64(1); i <= 3; i++ {
		n := testutil.NewTask("n")
		n.ID = i
		require.NoError(t, nodeRepo.Create(ctx, p.ID, n))
	}

	origTo := int64(3)
	e := &domain.DependencyEdge{
		ID:             1,
		From:           1,
		To:             2,
		Type:           domain.StartToFinish,
		LagDays:        -2,
		HiddenInternal: true,
		OriginalTo:     &origTo,
	}
	require.NoError(t, edgeRepo.Create(ctx, p.ID, e))

	got, err := edgeRepo.GetByID(ctx, p.ID, 1)
	require.NoError(t, err)
	assert.Equal(t, int64(1), got.From)
	assert.Equal(t, int64(2), got.To)
	assert.Equal(t, domain.StartToFinish, got.Type)
	assert.Equal(t, -2, got.LagDays)
	assert.True(t, got.HiddenInternal)
	assert.Nil(t, got.OriginalFrom)
	require.NotNil(t, got.OriginalTo)
	assert.Equal(t, origTo, *got.OriginalTo)
}

func TestEdgeRepo_GetMissingReturnsNotFound(t *testing.T) {
	database := testutil.NewTestDB(t)
	planRepo := NewSQLitePlanRepo(database)
	edgeRepo := NewSQLiteEdgeRepo(database)

	p := newPlan(t, planRepo, "plan")
	_, err := edgeRepo.GetByID(context.Background(), p.ID, 42)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestPlanRepo_DeleteCascadesNodesAndEdges(t *testing.T) {
	database := testutil.NewTestDB(t)
	planRepo := NewSQLitePlanRepo(database)
	nodeRepo := NewSQLiteNodeRepo(database)
	edgeRepo := NewSQLiteEdgeRepo(database)
	ctx := context.Background()

	p := newPlan(t, planRepo, "doomed")
	a := testutil.NewTask("a")
	a.ID = 1
	b := testutil.NewTask("b")
	b.ID = 2
	require.NoError(t, nodeRepo.Create(ctx, p.ID, a))
	require.NoError(t, nodeRepo.Create(ctx, p.ID, b))
	require.NoError(t, edgeRepo.Create(ctx, p.ID, &domain.DependencyEdge{ID: 1, From: 1, To: 2, Type: domain.FinishToStart}))

	require.NoError(t, planRepo.Delete(ctx, p.ID))

	nodes, err := nodeRepo.ListByPlan(ctx, p.ID)
	require.NoError(t, err)
	assert.Empty(t, nodes)
	edges, err := edgeRepo.ListByPlan(ctx, p.ID)
	require.NoError(t, err)
	assert.Empty(t, edges)
}
