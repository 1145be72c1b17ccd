// Package reconcile provides a generic planner for mirroring a desired set of
// entities onto an existing remote state.
//
// Reconciliation is split in two phases:
//
//  1. Planning: BuildPlan joins desired entities against the existing snapshot
//     by key and decides create, update or skip for every desired key. Planning
//     is pure; it performs no I/O and has no knowledge of how actions are executed.
//
//  2. Applying: Apply executes a plan through a Mutator. Every action is
//     independent; a failure is recorded as an Outcome and execution continues
//     with the next action.
//
// # Adapters
//
// Model-specific behavior lives in an Adapter, which extracts join keys and
// compares fields. Existing entries without a key are invisible to the planner;
// they belong to a different origin.
//
// # Usage Example
//
//	plan := reconcile.BuildPlan[models.TournamentEvent, models.PlatformEvent](adapter, events, snapshot)
//	report := reconcile.Apply(ctx, mutator, plan, reconcile.ApplyOptions{})
//	for _, o := range report.Failed() {
//	    log.Warn("action failed", zap.String("key", o.Action.Key), zap.Error(o.Err))
//	}
package reconcile
