package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/okerlund/planfold/internal/domain"
)

// resolvePlan accepts a full uuid, a uuid prefix, or a plan name and returns
// the matching plan. Ambiguous or unknown references are errors.
func resolvePlan(ctx context.Context, app *App, ref string) (*domain.Plan, error) {
	if p, err := app.Plans.GetByID(ctx, ref); err == nil {
		return p, nil
	}

	plans, err := app.Plans.List(ctx, true)
	if err != nil {
		return nil, err
	}

	var matches []*domain.Plan
	for _, p := range plans {
		if strings.HasPrefix(p.ID, ref) || strings.EqualFold(p.Name, ref) {
			matches = append(matches, p)
		}
	}
	switch len(matches) {
	case 1:
		return matches[0], nil
	case 0:
		return nil, fmt.Errorf("no plan matches %q", ref)
	default:
		return nil, fmt.Errorf("%q is ambiguous (%d plans match)", ref, len(matches))
	}
}
