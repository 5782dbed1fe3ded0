package formatter

import (
	"fmt"
	"time"

	"github.com/okerlund/planfold/internal/domain"
)

// TruncID shortens a uuid to its first 8 characters, dimmed.
func TruncID(id string) string {
	if len(id) > 8 {
		id = id[:8]
	}
	return Dim(id)
}

// HumanDate formats a date like "Mar 2, 2026".
func HumanDate(t time.Time) string {
	return t.Format("Jan 2, 2006")
}

// DateSpan renders a node's date range, or a dimmed placeholder when
// unscheduled.
func DateSpan(n *domain.TaskNode) string {
	if n.Start == nil {
		return Dim("unscheduled")
	}
	end := n.End()
	if n.DurationDays <= 1 {
		return n.Start.Format(domain.DateLayout)
	}
	return fmt.Sprintf("%s → %s", n.Start.Format(domain.DateLayout), end.Format(domain.DateLayout))
}

// Progress renders a percent-complete figure, colored by how far along it is.
func Progress(pct int) string {
	s := fmt.Sprintf("%3d%%", pct)
	switch {
	case pct >= 100:
		return StyleGreen.Render(s)
	case pct > 0:
		return StyleYellow.Render(s)
	default:
		return Dim(s)
	}
}
