// Package model defines the provider‑agnostic abstractions and concrete
// helpers for interacting with language / reasoning models inside Maestro.
//
// Core goals:
//   - Normalize tool / function call exposure (ToolDefinition)
//   - Keep request shapes minimal and transport independent
//   - Facilitate lightweight scripting for tests (ScriptedModel)
//
// Providers (e.g. OpenAI, Anthropic) implement the Model interface from this
// package so higher layers (agents, the orchestration graph) remain decoupled
// from vendor SDKs.
package model
