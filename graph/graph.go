// Package graph implements the orchestration state machine that routes
// control between agent nodes. Routing combines two mechanisms: handoffs,
// where a node's tool explicitly transfers control to an allowed target, and
// static edges, where finishing a node activates its declared successors.
package graph

import (
	"fmt"

	"github.com/maestro-agents/maestro/agent"
	"github.com/maestro-agents/maestro/core"
)

// Node is an executable graph vertex. *agent.Agent satisfies it; tests may
// supply lightweight fakes.
type Node interface {
	Name() string
	Invoke(runCtx *core.RunContext) (agent.Result, error)
}

// Step is emitted for every terminal message a node produces during a run.
type Step struct {
	Node    string       `json:"node"`
	Message core.Message `json:"message"`
}

// Options configure a Graph.
type Options struct {
	// MaxSteps bounds node activations per run. Exceeding it aborts the run
	// with a RoutingError rather than looping forever.
	MaxSteps int
}

// Graph is an immutable-after-build routing table over named nodes. Build it
// once at startup with AddNode / AddHandoff / AddEdge, Validate it, then run
// it concurrently; per-run state lives in the RunContext, never in the Graph.
type Graph struct {
	entry    string
	nodes    map[string]Node
	handoffs map[string]map[string]bool
	edges    map[string][]string
	maxSteps int
}

// New creates an empty graph whose runs start at the named entry node.
func New(entry string, optFns ...func(o *Options)) *Graph {
	opts := Options{MaxSteps: 24}
	for _, fn := range optFns {
		fn(&opts)
	}
	if opts.MaxSteps <= 0 {
		opts.MaxSteps = 24
	}
	return &Graph{
		entry:    entry,
		nodes:    make(map[string]Node),
		handoffs: make(map[string]map[string]bool),
		edges:    make(map[string][]string),
		maxSteps: opts.MaxSteps,
	}
}

// AddNode registers a node. Node names must be unique.
func (g *Graph) AddNode(n Node) error {
	name := n.Name()
	if name == "" {
		return &core.ConfigurationError{Component: "graph", Reason: "node with empty name"}
	}
	if _, exists := g.nodes[name]; exists {
		return &core.ConfigurationError{Component: "graph", Reason: fmt.Sprintf("duplicate node %q", name)}
	}
	g.nodes[name] = n
	return nil
}

// AddHandoff allows the from node to transfer control to each target.
func (g *Graph) AddHandoff(from string, targets ...string) {
	set, ok := g.handoffs[from]
	if !ok {
		set = make(map[string]bool)
		g.handoffs[from] = set
	}
	for _, t := range targets {
		set[t] = true
	}
}

// AddEdge declares that finishing from activates to. Multiple edges from one
// node fan out in declaration order.
func (g *Graph) AddEdge(from, to string) {
	g.edges[from] = append(g.edges[from], to)
}

// Validate checks that the entry node exists and every handoff and edge
// target names a registered node.
func (g *Graph) Validate() error {
	if _, ok := g.nodes[g.entry]; !ok {
		return &core.ConfigurationError{Component: "graph", Reason: fmt.Sprintf("entry node %q not registered", g.entry)}
	}
	for from, targets := range g.handoffs {
		if _, ok := g.nodes[from]; !ok {
			return &core.ConfigurationError{Component: "graph", Reason: fmt.Sprintf("handoff source %q not registered", from)}
		}
		for t := range targets {
			if _, ok := g.nodes[t]; !ok {
				return &core.ConfigurationError{Component: "graph", Reason: fmt.Sprintf("handoff target %q not registered", t)}
			}
		}
	}
	for from, succs := range g.edges {
		if _, ok := g.nodes[from]; !ok {
			return &core.ConfigurationError{Component: "graph", Reason: fmt.Sprintf("edge source %q not registered", from)}
		}
		for _, to := range succs {
			if _, ok := g.nodes[to]; !ok {
				return &core.ConfigurationError{Component: "graph", Reason: fmt.Sprintf("edge target %q not registered", to)}
			}
		}
	}
	return nil
}

// Entry returns the name of the entry node.
func (g *Graph) Entry() string { return g.entry }

// Nodes returns the names of all registered nodes.
func (g *Graph) Nodes() []string {
	names := make([]string, 0, len(g.nodes))
	for name := range g.nodes {
		names = append(names, name)
	}
	return names
}

// Run executes the graph over the given run context, streaming a Step for
// every terminal message produced along the way. Both channels are closed
// when the run ends; at most one error is sent.
func (g *Graph) Run(runCtx *core.RunContext) (<-chan Step, <-chan error) {
	steps := make(chan Step, 16)
	errCh := make(chan error, 1)
	go func() {
		defer close(steps)
		defer close(errCh)
		if err := g.run(runCtx, steps); err != nil {
			errCh <- err
		}
	}()
	return steps, errCh
}

// RunSync executes the graph and returns the last terminal message.
func (g *Graph) RunSync(runCtx *core.RunContext) (core.Message, error) {
	steps, errCh := g.Run(runCtx)
	var last core.Message
	var seen bool
	for step := range steps {
		last = step.Message
		seen = true
	}
	if err := <-errCh; err != nil {
		return core.Message{}, err
	}
	if !seen {
		return core.Message{}, fmt.Errorf("run produced no terminal message")
	}
	return last, nil
}

// activation is one pending node run with the task carried by the handoff
// that scheduled it.
type activation struct {
	node string
	task string
}

func (g *Graph) run(runCtx *core.RunContext, steps chan<- Step) error {
	queue := []activation{{node: g.entry}}
	stepsTaken := 0

	for len(queue) > 0 {
		select {
		case <-runCtx.Done():
			return runCtx.Err()
		default:
		}

		if stepsTaken >= g.maxSteps {
			runCtx.LogError("graph.run.step_ceiling", "run", runCtx.RunID, "steps", stepsTaken)
			return &core.RoutingError{
				Node:   runCtx.ActiveNode,
				Reason: fmt.Sprintf("step ceiling of %d reached", g.maxSteps),
			}
		}

		act := queue[0]
		queue = queue[1:]
		stepsTaken++

		node, ok := g.nodes[act.node]
		if !ok {
			return &core.RoutingError{Node: runCtx.ActiveNode, Target: act.node, Reason: "unknown node"}
		}

		runCtx.ActiveNode = act.node
		runCtx.PendingTask = act.task
		runCtx.LogDebug("graph.step", "run", runCtx.RunID, "node", act.node, "step", stepsTaken)

		res, err := node.Invoke(runCtx)
		if err != nil {
			return fmt.Errorf("node %s: %w", act.node, err)
		}

		if res.Handoff != nil {
			target := res.Handoff.Target
			if !g.handoffs[act.node][target] {
				runCtx.LogError("graph.handoff.illegal", "from", act.node, "to", target)
				return &core.RoutingError{Node: act.node, Target: target, Reason: "handoff target not allowed"}
			}
			runCtx.LogInfo("graph.handoff", "from", act.node, "to", target, "run", runCtx.RunID)
			// Handoff preempts anything already queued.
			queue = append([]activation{{node: target, task: res.Handoff.Task}}, queue...)
			continue
		}

		if res.Message.IsFinal() {
			steps <- Step{Node: act.node, Message: res.Message}
		}

		for _, succ := range g.edges[act.node] {
			if !queued(queue, succ) {
				queue = append(queue, activation{node: succ})
			}
		}
	}

	runCtx.LogInfo("graph.run.done", "run", runCtx.RunID, "steps", stepsTaken)
	return nil
}

func queued(queue []activation, node string) bool {
	for _, act := range queue {
		if act.node == node {
			return true
		}
	}
	return false
}
