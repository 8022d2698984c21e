package core

// Handoff is the structured instruction returned by a transfer tool. The
// graph interprets it as the next active node; invoking the tool does not
// itself execute the target agent.
type Handoff struct {
	// Target is the name of the agent to transfer control to.
	Target string `json:"goto"`
	// Task is optional free text carried into RunContext.PendingTask so the
	// receiving agent can disambiguate why it was invoked.
	Task string `json:"carry,omitempty"`
}
