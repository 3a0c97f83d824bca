package harness

// Trace step names.
const (
	StepResolve = "resolve"
	StepPublish = "publish"
	StepPreload = "preload"
	StepSave    = "save"
	StepSeed    = "seed"
	StepFinal   = "final"
)

// TraceEvent is one recorded startup step. Only the fields relevant to the
// step are set.
type TraceEvent struct {
	Seq  int64  `json:"seq"`
	Step string `json:"step"`

	Profile  string   `json:"profile,omitempty"`
	Source   string   `json:"source,omitempty"`
	Bindings []string `json:"bindings,omitempty"`
	Error    string   `json:"error,omitempty"`

	Property string   `json:"property,omitempty"`
	Families []string `json:"families,omitempty"`

	Title   string `json:"title,omitempty"`
	Skipped bool   `json:"skipped,omitempty"`
	Reason  string `json:"reason,omitempty"`
	Saved   int    `json:"saved,omitempty"`
	Nulls   int    `json:"nulls,omitempty"`
	Count   int64  `json:"count,omitempty"`
}

// Result is the outcome of a scenario execution.
type Result struct {
	// Pass is true if every expectation matched.
	Pass bool `json:"pass"`

	// Trace holds the startup steps in order.
	Trace []TraceEvent `json:"trace"`

	// Errors contains expectation mismatches. Empty if Pass is true.
	Errors []string `json:"errors,omitempty"`
}

// NewResult creates a new passing result.
func NewResult() *Result {
	return &Result{
		Pass:   true,
		Trace:  []TraceEvent{},
		Errors: []string{},
	}
}

// AddError adds a validation error and marks the result as failed.
func (r *Result) AddError(err string) {
	r.Errors = append(r.Errors, err)
	r.Pass = false
}

// add appends ev with the next sequence number.
func (r *Result) add(ev TraceEvent) {
	ev.Seq = int64(len(r.Trace) + 1)
	r.Trace = append(r.Trace, ev)
}

// Events returns the trace events for one step.
func (r *Result) Events(step string) []TraceEvent {
	var out []TraceEvent
	for _, ev := range r.Trace {
		if ev.Step == step {
			out = append(out, ev)
		}
	}
	return out
}
