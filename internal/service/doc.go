// Package service implements the application logic of mindcanvas.
//
// MindMapService generates, stores, imports and exports mind maps.
// SessionManager hosts interactive sessions, each owning one
// interaction.Controller behind a mutex, and is how a generated or saved
// map is opened for editing. AgentService turns a branch of a map into a
// persisted expert persona.
//
// Every service publishes what it did on an EventBus; the HTTP layer
// forwards those events to SSE clients.
package service
