package reconcile

import "fmt"

// BuildPlan joins desired entities against the existing snapshot and returns
// one action per distinct desired key.
//
// Existing entities are indexed by key; entities without a key are ignored and
// later duplicates win. When two desired entities share a key the later one
// wins, but the action keeps the position of the first.
func BuildPlan[D, E any](adapter Adapter[D, E], desired []D, existing []E) *Plan[D, E] {
	summary := PlanSummary{Desired: len(desired)}

	// Build existing index
	index := make(map[string]E, len(existing))
	for _, item := range existing {
		key := adapter.ExistingKey(item)
		if key == "" {
			summary.Ignored++
			continue
		}
		index[key] = item
	}
	summary.Existing = len(index)

	// Collapse desired duplicates (last wins, first position kept)
	order := make([]string, 0, len(desired))
	latest := make(map[string]D, len(desired))
	for _, item := range desired {
		key := adapter.DesiredKey(item)
		if _, seen := latest[key]; seen {
			summary.Superseded++
		} else {
			order = append(order, key)
		}
		latest[key] = item
	}

	actions := make([]Action[D, E], 0, len(order))
	for _, key := range order {
		action := buildAction(adapter, key, latest[key], index)
		switch action.Type {
		case ActionCreate:
			summary.Creates++
		case ActionUpdate:
			summary.Updates++
		case ActionSkip:
			summary.Skips++
		}
		actions = append(actions, action)
	}

	return &Plan[D, E]{Actions: actions, Summary: summary}
}

// buildAction decides the action for a single desired key.
func buildAction[D, E any](adapter Adapter[D, E], key string, item D, index map[string]E) Action[D, E] {
	existing, found := index[key]
	if !found {
		return Action[D, E]{
			Type:    ActionCreate,
			Key:     key,
			Reason:  "missing in remote",
			Desired: item,
		}
	}

	mismatch := adapter.CompareFields(item, existing)
	if len(mismatch) == 0 {
		return Action[D, E]{
			Type:     ActionSkip,
			Key:      key,
			Reason:   "up to date",
			Desired:  item,
			Existing: existing,
		}
	}

	return Action[D, E]{
		Type:     ActionUpdate,
		Key:      key,
		Reason:   fmt.Sprintf("mismatch: %v", mismatch),
		Mismatch: mismatch,
		Desired:  item,
		Existing: existing,
	}
}
