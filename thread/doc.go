// Package thread contains concrete ThreadStore implementations. The store
// interface and Thread type reside in the core package; depend on
// core.ThreadStore in your code and select an implementation (like the
// in‑memory store below) at wiring time.
package thread
