// Package memory implements long‑term memory for agents: a Provider interface
// over concrete backends plus a Gateway that brokers retrieval and recording.
// Retrieval is synchronous and best effort; recording is asynchronous through
// a bounded queue so model turns never block on memory writes.
//
// Two providers ship with the package: a process‑local keyword provider for
// tests and single-node deployments, and a chromem-go backed vector provider
// using OpenAI embeddings for semantic recall.
package memory
