// Package agent contains the model-centric conversational agent used as a
// node in Maestro orchestration graphs. The package focuses on three concerns:
//
//  1. The tool-calling invocation loop (Agent.Invoke)
//  2. Instruction resolution, static or dynamic (Instruction, Provider)
//  3. Memory hooks injecting recalled facts before a turn and recording
//     assistant output after it
//
// Design principles:
//   - Minimal hidden global state – explicit wiring via RunContext
//   - Observability – clear logging at invocation start, tool calls and handoffs
//   - Extensibility – behavior configured through functional options
//
// Execution Model:
//   - An agent's Invoke receives a *core.RunContext carrying the shared
//     append-only Conversation
//   - Tool calls emitted by the model are resolved exactly once each; results
//     (and failures, as structured payloads) become role=tool messages
//   - A handoff requested by a tool ends the invocation and is surfaced to
//     the orchestration graph instead of being executed locally
//
// The package intentionally keeps persistence, model specifics and tool
// registry abstractions in their respective packages to avoid cyclic deps.
package agent
