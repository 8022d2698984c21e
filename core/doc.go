// Package core provides the foundational domain types and execution contexts
// shared by every layer of Maestro. It defines:
//
//   - Messages and the append-only Conversation they accumulate in
//   - Threads (stateful conversational containers keyed by id)
//   - Handoffs (control-transfer requests between agents)
//   - RunContext / ToolContext (scoped execution state and tool sandboxing)
//   - The common error taxonomy for routing and configuration failures
//
// The package intentionally keeps implementation concerns (models, tools,
// graph orchestration, persistence) out of scope, exposing small types so the
// higher layers can compose them freely.
package core
