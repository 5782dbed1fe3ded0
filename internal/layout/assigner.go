package layout

import (
	"math"
	"sort"

	"github.com/okerlund/planfold/internal/domain"
	"github.com/okerlund/planfold/internal/graph"
)

// AssignRows produces a dense, gap-free rowIndex assignment for rendering.
//
// Standalone nodes sort by their prior row index, falling back to start date
// for never-assigned nodes; groups sort by the minimum prior row index among
// their members (last when empty). The two sequences merge by ascending key;
// an expanded group emits its members directly after its header. Members of a
// collapsed group are assigned the header's own row so their bars fold onto
// it and a re-run reproduces the same ordering.
//
// Running the assigner twice without an intervening edit changes nothing.
func AssignRows(g *graph.TaskGraph) {
	type entry struct {
		node *domain.TaskNode
		key  sortKey
	}

	var merged []entry
	for _, n := range g.Nodes() {
		switch {
		case n.Kind == domain.KindGroup:
			merged = append(merged, entry{n, groupKey(g, n)})
		case n.ParentGroupID == nil:
			merged = append(merged, entry{n, standaloneKey(n)})
		}
	}
	sort.SliceStable(merged, func(i, j int) bool {
		return merged[i].key.less(merged[j].key)
	})

	next := 0
	assign := func(n *domain.TaskNode) {
		if n.RowIndex != next {
			n.RowIndex = next
		}
		next++
	}

	for _, en := range merged {
		n := en.node
		if n.Kind != domain.KindGroup {
			assign(n)
			continue
		}
		headerRow := next
		assign(n)
		members := liveMembers(g, n)
		sort.SliceStable(members, func(i, j int) bool {
			return standaloneKey(members[i]).less(standaloneKey(members[j]))
		})
		if n.Collapsed {
			for _, m := range members {
				m.RowIndex = headerRow
			}
			continue
		}
		for _, m := range members {
			assign(m)
		}
	}
}

// sortKey orders nodes by prior row index when one exists, otherwise by
// start date, with unscheduled never-assigned nodes last.
type sortKey struct {
	row   int
	start int64 // unix days; math.MaxInt64 when unscheduled
	id    int64
}

func (k sortKey) less(o sortKey) bool {
	if (k.row >= 0) != (o.row >= 0) {
		return k.row >= 0
	}
	if k.row >= 0 && k.row != o.row {
		return k.row < o.row
	}
	if k.row < 0 && k.start != o.start {
		return k.start < o.start
	}
	return k.id < o.id
}

func standaloneKey(n *domain.TaskNode) sortKey {
	k := sortKey{row: n.RowIndex, start: math.MaxInt64, id: n.ID}
	if n.Start != nil {
		k.start = n.Start.Unix()
	}
	return k
}

func groupKey(g *graph.TaskGraph, group *domain.TaskNode) sortKey {
	k := sortKey{row: -1, start: math.MaxInt64, id: group.ID}
	for _, m := range liveMembers(g, group) {
		if m.RowIndex >= 0 && (k.row < 0 || m.RowIndex < k.row) {
			k.row = m.RowIndex
		}
	}
	return k
}

func liveMembers(g *graph.TaskGraph, group *domain.TaskNode) []*domain.TaskNode {
	out := make([]*domain.TaskNode, 0, len(group.MemberIDs))
	for _, id := range group.MemberIDs {
		if m := g.Node(id); m != nil {
			out = append(out, m)
		}
	}
	return out
}
