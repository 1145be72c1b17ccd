package reconcile

// ActionType represents the type of planned action.
type ActionType string

const (
	// ActionCreate creates a remote entity that does not exist yet.
	ActionCreate ActionType = "create"
	// ActionUpdate rewrites a remote entity whose fields differ.
	ActionUpdate ActionType = "update"
	// ActionSkip leaves an up-to-date remote entity untouched.
	ActionSkip ActionType = "skip"
)

// Action represents one planned decision for a desired key.
type Action[D, E any] struct {
	// Type specifies the action to perform.
	Type ActionType `json:"type"`

	// Key is the join key shared by the desired and existing entity.
	Key string `json:"key"`

	// Reason explains why this action is needed.
	Reason string `json:"reason"`

	// Mismatch lists the differing fields for update actions.
	Mismatch []string `json:"mismatch,omitempty"`

	// Desired is the canonical entity.
	Desired D `json:"-"`

	// Existing is the matched remote entity. Zero for create actions.
	Existing E `json:"-"`
}

// Plan contains the planned actions in first-appearance order of their keys.
type Plan[D, E any] struct {
	// Actions contains one action per distinct desired key.
	Actions []Action[D, E] `json:"actions"`

	// Summary provides aggregate counts.
	Summary PlanSummary `json:"summary"`
}

// PlanSummary provides aggregate statistics for a plan.
type PlanSummary struct {
	// Desired is the number of desired entities given to the planner.
	Desired int `json:"desired"`

	// Existing is the number of existing entities that carried a key.
	Existing int `json:"existing"`

	// Ignored counts existing entities without a key.
	Ignored int `json:"ignored"`

	// Superseded counts desired entities replaced by a later one with the same key.
	Superseded int `json:"superseded"`

	// Creates counts planned create actions.
	Creates int `json:"creates"`

	// Updates counts planned update actions.
	Updates int `json:"updates"`

	// Skips counts up-to-date entities.
	Skips int `json:"skips"`
}

// Pending returns the actions that require a side effect (creates and updates).
func (p *Plan[D, E]) Pending() []Action[D, E] {
	var pending []Action[D, E]
	for _, a := range p.Actions {
		if a.Type != ActionSkip {
			pending = append(pending, a)
		}
	}
	return pending
}

// ApplyOptions controls Apply behavior.
type ApplyOptions struct {
	// DryRun prevents execution of any mutation if true.
	DryRun bool
}

// Outcome is the recorded result of one executed action.
type Outcome[D, E any] struct {
	// Action is the executed action.
	Action Action[D, E]

	// Err is nil on success.
	Err error

	// Attempted is false when the action was not executed (dry-run or canceled).
	Attempted bool
}

// ApplyReport aggregates the outcomes of Apply.
type ApplyReport[D, E any] struct {
	// Outcomes has one entry per create/update action, in plan order.
	Outcomes []Outcome[D, E]
}

// Succeeded returns the outcomes of actions that were executed without error.
func (r *ApplyReport[D, E]) Succeeded() []Outcome[D, E] {
	var out []Outcome[D, E]
	for _, o := range r.Outcomes {
		if o.Attempted && o.Err == nil {
			out = append(out, o)
		}
	}
	return out
}

// Failed returns the outcomes of actions that were executed and failed.
func (r *ApplyReport[D, E]) Failed() []Outcome[D, E] {
	var out []Outcome[D, E]
	for _, o := range r.Outcomes {
		if o.Attempted && o.Err != nil {
			out = append(out, o)
		}
	}
	return out
}

// Count returns the number of successful actions of the given type.
func (r *ApplyReport[D, E]) Count(t ActionType) int {
	n := 0
	for _, o := range r.Succeeded() {
		if o.Action.Type == t {
			n++
		}
	}
	return n
}
