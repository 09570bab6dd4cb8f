// Package render rasterizes a drawing into a PNG image.
//
// The renderer fits the model extents into the requested pixel frame with a
// uniform scale and a vertical flip, since drawing coordinates grow upward
// while image rows grow downward. Entities are stroked in their layer colors
// on a black background; closed polylines can optionally be flood-filled
// from their centroid.
//
// Output follows the same conventions as the rest of the tool surface:
// results carry the encoded image as base64 PNG for protocol transport, and
// ExportPNG writes the same raster to disk.
package render
