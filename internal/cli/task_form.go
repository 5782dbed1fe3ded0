package cli

import (
	"fmt"
	"strconv"
	"time"

	"github.com/charmbracelet/huh"
	"github.com/okerlund/planfold/internal/domain"
)

// runTaskForm collects the task fields interactively. Only invoked when
// stdin is a terminal.
func runTaskForm(title, kind, start *string, duration *int) error {
	days := strconv.Itoa(*duration)
	form := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Title").
				Value(title).
				Validate(func(s string) error {
					if s == "" {
						return fmt.Errorf("title is required")
					}
					return nil
				}),
			huh.NewSelect[string]().
				Title("Kind").
				Options(
					huh.NewOption("Task", string(domain.KindTask)),
					huh.NewOption("Milestone", string(domain.KindMilestone)),
					huh.NewOption("Resource", string(domain.KindResource)),
				).
				Value(kind),
			huh.NewInput().
				Title("Start (YYYY-MM-DD, blank for unscheduled)").
				Placeholder("2026-03-02").
				Value(start).
				Validate(validateOptionalDate),
			huh.NewInput().
				Title("Duration (days)").
				Value(&days).
				Validate(validatePositiveInt),
		),
	).WithShowHelp(false)

	if err := form.Run(); err != nil {
		return err
	}
	if d, err := strconv.Atoi(days); err == nil {
		*duration = d
	}
	return nil
}

func validateOptionalDate(s string) error {
	if s == "" {
		return nil
	}
	if _, err := time.Parse(domain.DateLayout, s); err != nil {
		return fmt.Errorf("expected YYYY-MM-DD")
	}
	return nil
}

func validatePositiveInt(s string) error {
	n, err := strconv.Atoi(s)
	if err != nil || n < 0 {
		return fmt.Errorf("expected a non-negative number")
	}
	return nil
}
