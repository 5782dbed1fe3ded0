package grouping

import (
	"testing"

	"github.com/okerlund/planfold/internal/domain"
	"github.com/okerlund/planfold/internal/graph"
	"github.com/okerlund/planfold/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateGroup_Preconditions(t *testing.T) {
	g := graph.New()
	e := NewEngine(g)
	a := testutil.AddTask(g, "a")
	b := testutil.AddTask(g, "b")
	res := testutil.AddTask(g, "staff", testutil.WithKind(domain.KindResource))

	_, err := e.CreateGroup("too few", []int64{a.ID})
	assert.ErrorIs(t, err, ErrTooFewMembers)

	_, err = e.CreateGroup("with resource", []int64{a.ID, res.ID})
	assert.ErrorIs(t, err, ErrResourceMember)

	grp, err := e.CreateGroup("ok", []int64{a.ID, b.ID})
	require.NoError(t, err)
	require.NotNil(t, grp)

	c := testutil.AddTask(g, "c")
	_, err = e.CreateGroup("nested group", []int64{grp.ID, c.ID})
	assert.ErrorIs(t, err, ErrNestedGroup)

	_, err = e.CreateGroup("already member", []int64{a.ID, c.ID})
	assert.ErrorIs(t, err, ErrNestedGroup)
}

func TestCreateGroup_DanglingSelectionIsNoOp(t *testing.T) {
	g := graph.New()
	a := testutil.AddTask(g, "a")

	grp, err := NewEngine(g).CreateGroup("ghost", []int64{a.ID, 99})
	assert.NoError(t, err)
	assert.Nil(t, grp)
	assert.Len(t, g.Nodes(), 1)
}

func TestCreateGroup_DeduplicatesSelection(t *testing.T) {
	g := graph.New()
	a := testutil.AddTask(g, "a")
	b := testutil.AddTask(g, "b")

	e := NewEngine(g)
	_, err := e.CreateGroup("one member twice", []int64{a.ID, a.ID})
	assert.ErrorIs(t, err, ErrTooFewMembers)

	grp, err := e.CreateGroup("phase", []int64{a.ID, a.ID, b.ID})
	require.NoError(t, err)
	assert.Equal(t, []int64{a.ID, b.ID}, grp.MemberIDs)
}

func TestCreateGroup_SpanRowAndCentroid(t *testing.T) {
	g := graph.New()
	a := testutil.AddTask(g, "a",
		testutil.WithStart(testutil.Day(0)), testutil.WithDuration(3),
		testutil.WithRow(4), testutil.WithCenter(10, 20))
	b := testutil.AddTask(g, "b",
		testutil.WithStart(testutil.Day(5)), testutil.WithDuration(2),
		testutil.WithRow(2), testutil.WithCenter(30, 40))

	grp, err := NewEngine(g).CreateGroup("phase", []int64{a.ID, b.ID})
	require.NoError(t, err)

	assert.True(t, grp.Collapsed)
	assert.Equal(t, 2, grp.RowIndex, "group takes the minimum member row")
	require.NotNil(t, grp.Start)
	assert.Equal(t, testutil.Day(0), *grp.Start)
	// Day(0)+3d runs through Day(2); b ends Day(6); span covers 7 days.
	assert.Equal(t, 7, grp.DurationDays)
	assert.Equal(t, 20.0, grp.CenterX)
	assert.Equal(t, 30.0, grp.CenterY)

	require.NotNil(t, a.ParentGroupID)
	assert.Equal(t, grp.ID, *a.ParentGroupID)
}

func TestCreateGroup_RemapsBoundaryAndHidesInternalEdges(t *testing.T) {
	g := graph.New()
	a := testutil.AddTask(g, "a")
	b := testutil.AddTask(g, "b")
	out := testutil.AddTask(g, "out")

	internal := testutil.MustEdge(g, a.ID, b.ID, domain.FinishToStart, 0)
	inbound := testutil.MustEdge(g, out.ID, a.ID, domain.FinishToStart, 0)
	outbound := testutil.MustEdge(g, b.ID, out.ID, domain.StartToStart, 2)

	grp, err := NewEngine(g).CreateGroup("phase", []int64{a.ID, b.ID})
	require.NoError(t, err)

	assert.True(t, internal.HiddenInternal)

	assert.Equal(t, grp.ID, inbound.To)
	require.NotNil(t, inbound.OriginalTo)
	assert.Equal(t, a.ID, *inbound.OriginalTo)

	assert.Equal(t, grp.ID, outbound.From)
	require.NotNil(t, outbound.OriginalFrom)
	assert.Equal(t, b.ID, *outbound.OriginalFrom)
	assert.Equal(t, domain.StartToStart, outbound.Type, "type and lag survive remapping")
	assert.Equal(t, 2, outbound.LagDays)
}

func TestCollapseExpand_RoundTripRestoresEdges(t *testing.T) {
	g := graph.New()
	a := testutil.AddTask(g, "a")
	b := testutil.AddTask(g, "b")
	out := testutil.AddTask(g, "out")

	internal := testutil.MustEdge(g, a.ID, b.ID, domain.FinishToStart, 0)
	inbound := testutil.MustEdge(g, out.ID, a.ID, domain.FinishToStart, 3)

	e := NewEngine(g)
	grp, err := e.CreateGroup("phase", []int64{a.ID, b.ID})
	require.NoError(t, err)

	require.NoError(t, e.ExpandGroup(grp.ID))

	assert.False(t, internal.HiddenInternal)
	assert.Equal(t, a.ID, inbound.To, "original endpoint restored")
	assert.Nil(t, inbound.OriginalTo)
	assert.Equal(t, 3, inbound.LagDays)

	require.NoError(t, e.CollapseGroup(grp.ID))
	assert.True(t, internal.HiddenInternal)
	assert.Equal(t, grp.ID, inbound.To)
	require.NotNil(t, inbound.OriginalTo)
	assert.Equal(t, a.ID, *inbound.OriginalTo)
}

func TestCollapseGroup_IsIdempotent(t *testing.T) {
	g := graph.New()
	a := testutil.AddTask(g, "a")
	b := testutil.AddTask(g, "b")
	out := testutil.AddTask(g, "out")
	inbound := testutil.MustEdge(g, out.ID, a.ID, domain.FinishToStart, 0)

	e := NewEngine(g)
	grp, err := e.CreateGroup("phase", []int64{a.ID, b.ID})
	require.NoError(t, err)

	// Force a second remap pass over an already-collapsed group.
	grp.Collapsed = false
	require.NoError(t, e.CollapseGroup(grp.ID))

	require.NotNil(t, inbound.OriginalTo)
	assert.Equal(t, a.ID, *inbound.OriginalTo, "stored original is never overwritten")
	assert.Equal(t, grp.ID, inbound.To)
}

func TestExpandGroup_NearestMemberForEdgesAddedWhileCollapsed(t *testing.T) {
	g := graph.New()
	far := testutil.AddTask(g, "far", testutil.WithCenter(100, 100))
	near := testutil.AddTask(g, "near", testutil.WithCenter(0, 0))
	out := testutil.AddTask(g, "out", testutil.WithCenter(1, 1))

	e := NewEngine(g)
	grp, err := e.CreateGroup("phase", []int64{far.ID, near.ID})
	require.NoError(t, err)

	// Edge created against the collapsed group: no original endpoint stored.
	edge := testutil.MustEdge(g, out.ID, grp.ID, domain.FinishToStart, 0)

	require.NoError(t, e.ExpandGroup(grp.ID))
	assert.Equal(t, near.ID, edge.To)
}

func TestExpandGroup_NearestMemberTieGoesToFirstCreated(t *testing.T) {
	g := graph.New()
	first := testutil.AddTask(g, "first", testutil.WithCenter(0, 1))
	second := testutil.AddTask(g, "second", testutil.WithCenter(0, -1))
	out := testutil.AddTask(g, "out", testutil.WithCenter(0, 0))

	e := NewEngine(g)
	grp, err := e.CreateGroup("phase", []int64{first.ID, second.ID})
	require.NoError(t, err)

	edge := testutil.MustEdge(g, grp.ID, out.ID, domain.FinishToStart, 0)

	require.NoError(t, e.ExpandGroup(grp.ID))
	assert.Equal(t, first.ID, edge.From)
}

func TestExpandGroup_MemberDeletedWhileCollapsedReattachesEdge(t *testing.T) {
	g := graph.New()
	a := testutil.AddTask(g, "a", testutil.WithCenter(0, 0))
	b := testutil.AddTask(g, "b", testutil.WithCenter(50, 50))
	out := testutil.AddTask(g, "out", testutil.WithCenter(1, 1))

	inbound := testutil.MustEdge(g, out.ID, a.ID, domain.FinishToStart, 0)

	e := NewEngine(g)
	grp, err := e.CreateGroup("phase", []int64{a.ID, b.ID})
	require.NoError(t, err)
	require.NotNil(t, inbound.OriginalTo)

	g.RemoveNode(a.ID)

	require.NoError(t, e.ExpandGroup(grp.ID))
	assert.Equal(t, b.ID, inbound.To, "edge reattaches to a surviving member")
	assert.Nil(t, inbound.OriginalTo)
	assert.NotNil(t, g.Node(inbound.To))
}

func TestExpandGroup_StaleOriginalFallsBackToNearestMember(t *testing.T) {
	g := graph.New()
	a := testutil.AddTask(g, "a", testutil.WithCenter(0, 0))
	b := testutil.AddTask(g, "b", testutil.WithCenter(50, 50))
	out := testutil.AddTask(g, "out", testutil.WithCenter(49, 49))

	e := NewEngine(g)
	grp, err := e.CreateGroup("phase", []int64{a.ID, b.ID})
	require.NoError(t, err)

	edge := testutil.MustEdge(g, out.ID, grp.ID, domain.FinishToStart, 0)
	dead := int64(77)
	edge.OriginalTo = &dead

	require.NoError(t, e.ExpandGroup(grp.ID))
	assert.Equal(t, b.ID, edge.To, "an original naming no live node is ignored")
	assert.Nil(t, edge.OriginalTo)
}

func TestCollapseGroup_RefreshesSpanFromLiveMembers(t *testing.T) {
	g := graph.New()
	a := testutil.AddTask(g, "a", testutil.WithStart(testutil.Day(0)), testutil.WithDuration(1))
	b := testutil.AddTask(g, "b", testutil.WithStart(testutil.Day(1)), testutil.WithDuration(1))

	e := NewEngine(g)
	grp, err := e.CreateGroup("phase", []int64{a.ID, b.ID})
	require.NoError(t, err)
	assert.Equal(t, 2, grp.DurationDays)

	require.NoError(t, e.ExpandGroup(grp.ID))
	d := testutil.Day(9)
	b.Start = &d

	require.NoError(t, e.CollapseGroup(grp.ID))
	assert.Equal(t, 10, grp.DurationDays)
}

func TestDeleteGroup_ReleasesMembersAndDropsGroupEdges(t *testing.T) {
	g := graph.New()
	a := testutil.AddTask(g, "a")
	b := testutil.AddTask(g, "b")
	out := testutil.AddTask(g, "out")

	internal := testutil.MustEdge(g, a.ID, b.ID, domain.FinishToStart, 0)
	inbound := testutil.MustEdge(g, out.ID, a.ID, domain.FinishToStart, 0)

	e := NewEngine(g)
	grp, err := e.CreateGroup("phase", []int64{a.ID, b.ID})
	require.NoError(t, err)

	require.NoError(t, e.DeleteGroup(grp.ID))

	assert.Nil(t, g.Node(grp.ID))
	assert.Nil(t, a.ParentGroupID)
	assert.Nil(t, b.ParentGroupID)
	assert.False(t, internal.HiddenInternal)
	assert.Equal(t, a.ID, inbound.To, "restored boundary edge survives")
	assert.Len(t, g.Edges(), 2)
}

func TestGroupOps_WrongKindAndMissingID(t *testing.T) {
	g := graph.New()
	a := testutil.AddTask(g, "a")
	e := NewEngine(g)

	assert.ErrorIs(t, e.CollapseGroup(a.ID), ErrNotAGroup)
	assert.ErrorIs(t, e.DeleteGroup(a.ID), ErrNotAGroup)

	assert.NoError(t, e.CollapseGroup(99))
	assert.NoError(t, e.ExpandGroup(99))
	assert.NoError(t, e.DeleteGroup(99))
}
