package importer

import (
	"fmt"
	"time"

	"github.com/okerlund/planfold/internal/domain"
)

// ValidateImportSchema checks structural validity and returns every problem
// found, not just the first.
func ValidateImportSchema(schema *ImportSchema) []error {
	var errs []error

	if schema.Plan.Name == "" {
		errs = append(errs, fmt.Errorf("plan: name is required"))
	}
	if len(schema.Nodes) == 0 {
		errs = append(errs, fmt.Errorf("plan: at least one node is required"))
	}

	refs := make(map[string]*NodeSchema, len(schema.Nodes))
	grouped := make(map[string]string) // member ref -> group ref
	for i, n := range schema.Nodes {
		if n.Ref == "" {
			errs = append(errs, fmt.Errorf("node %d: ref is required", i))
			continue
		}
		if _, dup := refs[n.Ref]; dup {
			errs = append(errs, fmt.Errorf("node %q: duplicate ref", n.Ref))
			continue
		}
		refs[n.Ref] = &schema.Nodes[i]

		kind := n.Kind
		if kind == "" {
			kind = string(domain.KindTask)
		}
		if !domain.ValidNodeKinds[kind] {
			errs = append(errs, fmt.Errorf("node %q: invalid kind %q", n.Ref, n.Kind))
		}
		if n.Title == "" {
			errs = append(errs, fmt.Errorf("node %q: title is required", n.Ref))
		}
		if n.DurationDays < 0 {
			errs = append(errs, fmt.Errorf("node %q: duration_days must be >= 0", n.Ref))
		}
		if kind == string(domain.KindMilestone) && n.DurationDays != 0 {
			errs = append(errs, fmt.Errorf("node %q: milestones have zero duration", n.Ref))
		}
		if n.PercentComplete < 0 || n.PercentComplete > 100 {
			errs = append(errs, fmt.Errorf("node %q: percent_complete must be 0-100", n.Ref))
		}
		if n.Start != nil {
			if _, err := time.Parse(domain.DateLayout, *n.Start); err != nil {
				errs = append(errs, fmt.Errorf("node %q: invalid start date %q", n.Ref, *n.Start))
			}
		}
		if kind != string(domain.KindGroup) && len(n.Members) > 0 {
			errs = append(errs, fmt.Errorf("node %q: only groups have members", n.Ref))
		}
		if kind == string(domain.KindGroup) && len(n.Members) < 2 {
			errs = append(errs, fmt.Errorf("node %q: a group needs at least two members", n.Ref))
		}
	}

	// Membership checks need the full ref table.
	for _, n := range schema.Nodes {
		if n.Kind != string(domain.KindGroup) {
			continue
		}
		for _, ref := range n.Members {
			member, ok := refs[ref]
			if !ok {
				errs = append(errs, fmt.Errorf("group %q: unknown member %q", n.Ref, ref))
				continue
			}
			if member.Kind == string(domain.KindGroup) {
				errs = append(errs, fmt.Errorf("group %q: member %q is a group, nesting is not allowed", n.Ref, ref))
			}
			if member.Kind == string(domain.KindResource) {
				errs = append(errs, fmt.Errorf("group %q: member %q is a resource", n.Ref, ref))
			}
			if prev, taken := grouped[ref]; taken {
				errs = append(errs, fmt.Errorf("group %q: member %q already belongs to group %q", n.Ref, ref, prev))
			}
			grouped[ref] = n.Ref
		}
	}

	for i, e := range schema.Edges {
		if _, ok := refs[e.From]; !ok {
			errs = append(errs, fmt.Errorf("edge %d: unknown node %q", i, e.From))
		}
		if _, ok := refs[e.To]; !ok {
			errs = append(errs, fmt.Errorf("edge %d: unknown node %q", i, e.To))
		}
		if e.From != "" && e.From == e.To {
			errs = append(errs, fmt.Errorf("edge %d: self-dependency %q", i, e.From))
		}
		if e.Type != "" && !domain.ValidDependencyTypes[e.Type] {
			errs = append(errs, fmt.Errorf("edge %d: invalid type %q", i, e.Type))
		}
	}

	return errs
}
