// Package server implements the MCP (Model Context Protocol) server for CAD
// drawing tools.
//
// This package provides a JSON-RPC 2.0 server that exposes an in-memory 2D
// drawing through the MCP protocol. It's designed to work with Claude and
// other MCP-compatible clients, enabling AI systems to draw, inspect, and
// derive geometry with precision.
//
// # Protocol
//
// The server communicates over stdio using JSON-RPC 2.0:
//   - Input: JSON-RPC requests on stdin (one per line)
//   - Output: JSON-RPC responses on stdout
//
// Supported MCP methods:
//   - initialize: Protocol handshake
//   - tools/list: Enumerate available tools
//   - tools/call: Execute a tool with arguments
//   - ping: Health check
//
// # Available Tools
//
// The server provides 26 drawing tools organized into categories:
//
// Layer Management:
//   - ensure_layer: Create a layer and set its color
//   - set_current_layer: Choose the default target layer
//   - list_layers: Enumerate layers with colors
//
// Drawing Primitives:
//   - draw_line, draw_polyline, draw_rectangle, draw_circle
//   - draw_from_center: Draw a shape centered on the model extents
//
// Model Inspection:
//   - list_entities: Handles, types, and layers in drawing order
//   - get_extents: Model bounding box
//   - snapshot_model: Layers, extents, and entities in one call
//
// Shape Recognition:
//   - find_closed_polylines: Closed contours with areas
//   - find_squares: Square detection from polylines and line loops
//   - find_circles: Circles with a radius filter
//   - pick_largest_closed_polyline, pick_largest_circle
//   - measure_largest_bounds: Bounding box of the largest closed contour
//
// Derived Construction:
//   - inscribe_circles_in_squares, inscribe_squares_in_circles
//   - draw_roof_over_largest_square
//   - make_snowman
//
// Editing:
//   - copy_layer_by_offset
//   - erase_by_handles, erase_on_layer, erase_by_filter
//
// Raster Output:
//   - export_png: Render to a file or to base64, optionally downscaled
//
// # Drawing State
//
// The server holds one in-memory drawing for the lifetime of the process.
// Entities are identified by opaque handles returned from the draw tools and
// accepted by the erase tools. There is no persistence: an MCP session is a
// working session.
//
// # Error Handling
//
// Malformed arguments and invalid geometry (non-finite coordinates, circles
// with non-positive radius) are JSON-RPC errors with:
//   - code: -32000 (tool execution failure) or standard JSON-RPC codes
//   - message: Human-readable error description
//   - data: Additional error details (typically the Go error string)
//
// Absence outcomes of the derived constructions (no squares to inscribe
// into, no circle to grow a snowman from, empty model) are NOT errors: they
// come back as ordinary results with {"ok": false, "reason": ...} so a
// client can branch on them.
//
// # Usage
//
// The server is typically started by an MCP client:
//
//	srv := server.New(config.Default(), logger)
//	if err := srv.Run(); err != nil {
//	    log.Fatal(err)
//	}
package server
