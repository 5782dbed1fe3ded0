package formatter

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/okerlund/planfold/internal/domain"
	"github.com/okerlund/planfold/internal/graph"
)

// GanttOptions tunes the text Gantt rendering.
type GanttOptions struct {
	// Width is the bar area width in columns; 0 picks a default.
	Width int
	// Critical marks these node ids with the critical style.
	Critical map[int64]bool
	// Projection selects Gantt or node view visibility.
	Projection graph.Projection
}

// RenderGantt draws the visible rows of the graph as a text Gantt chart:
// one row per visible node in rowIndex order, bars scaled onto the plan's
// overall date span. The renderer only reads the graph.
func RenderGantt(g *graph.TaskGraph, opts GanttOptions) string {
	width := opts.Width
	if width <= 0 {
		width = 60
	}

	var rows []*domain.TaskNode
	for _, n := range g.Nodes() {
		if g.NodeVisible(n.ID, opts.Projection) {
			rows = append(rows, n)
		}
	}
	sort.SliceStable(rows, func(i, j int) bool {
		return rows[i].RowIndex < rows[j].RowIndex
	})
	if len(rows) == 0 {
		return Dim("no visible tasks") + "\n"
	}

	spanStart, spanEnd := overallSpan(rows)
	totalDays := 1
	if spanStart != nil {
		totalDays = domain.DaysBetween(*spanStart, *spanEnd) + 1
	}

	titleWidth := 24
	var b strings.Builder
	if spanStart != nil {
		b.WriteString(fmt.Sprintf("%s  %s\n",
			strings.Repeat(" ", titleWidth+6),
			Dim(fmt.Sprintf("%s .. %s (%dd)", spanStart.Format(domain.DateLayout), spanEnd.Format(domain.DateLayout), totalDays))))
	}

	for _, n := range rows {
		style := KindStyle(n.Kind)
		if opts.Critical[n.ID] {
			style = StyleRed
		}

		title := n.Title
		if n.Kind == domain.KindGroup {
			marker := "▸"
			if !n.Collapsed {
				marker = "▾"
			}
			title = marker + " " + title
		}
		if r := []rune(title); len(r) > titleWidth {
			title = string(r[:titleWidth-1]) + "…"
		}

		bar := renderBar(n, spanStart, totalDays, width)
		b.WriteString(fmt.Sprintf("%3d  %-*s %s\n", n.RowIndex, titleWidth, title, style.Render(bar)))
	}
	return b.String()
}

func renderBar(n *domain.TaskNode, spanStart *time.Time, totalDays, width int) string {
	if n.Start == nil || spanStart == nil {
		return strings.Repeat("·", 3)
	}
	offset := domain.DaysBetween(*spanStart, *n.Start) * width / totalDays
	days := n.DurationDays
	if days < 1 {
		days = 1
	}
	length := days * width / totalDays
	if length < 1 {
		length = 1
	}

	glyph := "█"
	if n.Kind == domain.KindMilestone {
		glyph = "◆"
		length = 1
	}
	return strings.Repeat(" ", offset) + strings.Repeat(glyph, length)
}

func overallSpan(nodes []*domain.TaskNode) (*time.Time, *time.Time) {
	var start, end *time.Time
	for _, n := range nodes {
		if n.Start == nil {
			continue
		}
		if start == nil || n.Start.Before(*start) {
			s := *n.Start
			start = &s
		}
		if ne := n.End(); end == nil || ne.After(*end) {
			e := *ne
			end = &e
		}
	}
	return start, end
}
