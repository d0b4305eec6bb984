// Package domain defines the core types for the mindcanvas mind-map engine.
//
// This package contains the node tree that every other layer works on: a
// topic (the implicit root), an ordered list of main branches, and the leaf
// branches each main branch owns.
//
// # Core Types
//
// Graph owns the tree. Nodes are stored in an id-indexed map; main branches
// keep an ordered list of child ids and leaves keep their parent id. There
// are no pointers between nodes, all lookups go through the map.
//
// Node is a single labeled vertex with a Level (main or leaf) and a ColorKey
// shared by every node of one main-branch subtree.
//
// Snapshot is the serializable nested form of a Graph used by storage,
// codecs, and the HTTP API. Outline is the shape produced by topic
// expansion.
//
// # Errors
//
// StructuralError reports a mutation that would break the two-level shape
// (unknown parent, grandchild). InputError reports missing required text.
// Neither is fatal: callers show a message and ignore the action.
//
// # Design Principles
//
// - No database, rendering, or transport dependencies
// - Every structural mutation bumps the graph version so cached layouts
//   can be discarded
// - The tree is exactly three tiers deep including the root
package domain
