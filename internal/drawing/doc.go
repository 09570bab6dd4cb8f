// Package drawing defines the drawing-entity data model, the boundary ports
// the geometry engine works against, and an in-memory Document implementing
// both sides of the boundary.
//
// # Entity Model
//
// Entities are a closed set of tagged variants: Polyline, Segment, Circle.
// The variant is resolved once, when an entity enters the document; nothing
// downstream inspects type names. Every entity carries a unique handle and a
// layer name.
//
// # Ports
//
// EntitySource is the read side consumed by the detect and construct
// packages: typed enumeration of closed polylines, line segments, and circles
// with an optional layer filter. Sink is the write side driven by the
// construction operations: emitting lines, polylines, and circles onto a
// layer. Each emission returns the new entity's handle or an error; batch
// operations in the construct package count and skip per-entity errors.
//
// # Document
//
// Document is a thread-safe in-memory model space. It preserves insertion
// order (entity enumeration follows drawing order), allocates handles via
// UUIDs, and maintains a layer table with colors. Beyond the ports it offers
// the housekeeping operations of a drawing session: listing, extents,
// snapshots, erasing, and offset-copying of entities.
//
// # Malformed Entities
//
// Entities with non-finite coordinates or non-positive radii are rejected at
// insertion, so the read ports never surface malformed geometry. Scans still
// skip entities with degenerate vertex counts (for example a closed polyline
// reduced to fewer than 3 distinct vertices).
package drawing
