package reconcile

import (
	"context"
	"fmt"
)

// Apply executes the create and update actions of a plan in order.
//
// Each action is independent: a failure is recorded in the report and the
// next action still runs. Skip actions are never executed. With DryRun no
// mutation is performed and every outcome is reported as not attempted.
// If ctx is canceled, the remaining actions are reported as not attempted.
func Apply[D, E any](ctx context.Context, mutator Mutator[D, E], plan *Plan[D, E], opts ApplyOptions) *ApplyReport[D, E] {
	report := &ApplyReport[D, E]{}
	if plan == nil {
		return report
	}

	for _, action := range plan.Pending() {
		if opts.DryRun {
			report.Outcomes = append(report.Outcomes, Outcome[D, E]{Action: action})
			continue
		}
		if err := ctx.Err(); err != nil {
			report.Outcomes = append(report.Outcomes, Outcome[D, E]{Action: action, Err: err})
			continue
		}

		report.Outcomes = append(report.Outcomes, Outcome[D, E]{
			Action:    action,
			Err:       execute(ctx, mutator, action),
			Attempted: true,
		})
	}

	return report
}

// execute runs a single action through the mutator.
func execute[D, E any](ctx context.Context, mutator Mutator[D, E], action Action[D, E]) error {
	switch action.Type {
	case ActionCreate:
		if err := mutator.Create(ctx, action.Desired); err != nil {
			return fmt.Errorf("create %s: %w", action.Key, err)
		}
	case ActionUpdate:
		if err := mutator.Update(ctx, action.Existing, action.Desired); err != nil {
			return fmt.Errorf("update %s: %w", action.Key, err)
		}
	default:
		return fmt.Errorf("unsupported action type %q", action.Type)
	}
	return nil
}
