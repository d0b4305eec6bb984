// Package handler exposes mind maps and interactive sessions over HTTP.
//
// Stored maps live under /api/maps and can be exported or imported as
// JSON, YAML or Markdown. /api/generate expands a topic into a new map.
// Interactive sessions live under /api/sessions: clients post pointer,
// wheel and toolbar events and fetch the rendered frame as PNG.
//
// Errors are returned as JSON with {error, details}. Structural errors map
// to 409, invalid input to 400 and unknown maps or sessions to 404.
//
// /events streams server-sent events for map and session changes.
package handler
