package core

import "fmt"

// RoutingError reports an illegal transition or an exhausted step ceiling.
// Routing errors are always fatal to the run and never silently retried.
type RoutingError struct {
	Node   string // node active when the error occurred
	Target string // requested handoff target, empty for step-ceiling errors
	Reason string
}

func (e *RoutingError) Error() string {
	if e.Target != "" {
		return fmt.Sprintf("routing error at %q: illegal handoff to %q: %s", e.Node, e.Target, e.Reason)
	}
	return fmt.Sprintf("routing error at %q: %s", e.Node, e.Reason)
}

// ConfigurationError reports a missing or invalid dependency detected at
// construction time. Components fail fast instead of erroring per request.
type ConfigurationError struct {
	Component string
	Reason    string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("configuration error in %s: %s", e.Component, e.Reason)
}
