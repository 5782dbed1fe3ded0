package domain

// DependencyEdge is a typed dependency between two task nodes.
//
// OriginalFrom/OriginalTo are set only while the corresponding endpoint has
// been remapped to a collapsed group's id; they are cleared again on
// restoration. HiddenInternal is true only while both endpoints sit inside a
// collapsed group. An edge is never both remapped and hidden-internal.
type DependencyEdge struct {
	ID      int64
	From    int64
	To      int64
	Type    DependencyType
	LagDays int // signed; negative = lead

	HiddenInternal bool
	OriginalFrom   *int64
	OriginalTo     *int64
}

// Remapped reports whether either endpoint currently points at a group id
// in place of its stored original.
func (e *DependencyEdge) Remapped() bool {
	return e.OriginalFrom != nil || e.OriginalTo != nil
}
