// Package repository defines the data access interfaces for mindcanvas.
//
// Maps are stored as whole snapshots: the nested topic / main / leaf form
// produced by domain.Graph.Snapshot. Layout positions are never stored;
// they are recomputed whenever a map is opened.
//
// The sqlite subpackage implements every interface on modernc.org/sqlite,
// which needs no cgo. Tests run against ":memory:" databases.
package repository
