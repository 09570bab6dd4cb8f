// Package detect implements shape recognition over a drawing's entities.
//
// Detection works on two sources of quadrilateral candidates:
//
//   - Closed polylines with exactly 4 vertices, extracted directly.
//   - Loops assembled from individual line entities: segment endpoints are
//     quantized onto a tolerance grid, an undirected adjacency graph is built
//     over the grid nodes, and all simple 4-cycles are enumerated. This is a
//     local search bounded by vertex degree, deliberately limited to
//     length-4 cycles because that is the only contour the classifier
//     recognizes.
//
// Candidates from either source pass through the same classifier: a 4-vertex
// contour is a square when every side reaches the minimum length, every side
// matches the mean side length within the relative tolerance, and every
// interior angle is within the angular tolerance of 90°. The rectangle
// predicate relaxes the side test to opposite pairs.
//
// # Duplicate Loops
//
// A discovered 4-cycle is canonicalized before deduplication: among the
// rotations of both traversal directions, the lexicographically smallest
// vertex sequence is the set key. Forward and reverse walks of one physical
// square therefore collapse to a single loop.
//
// Detections from the two sources are NOT cross-deduplicated: a square
// present both as a closed polyline and as four separate lines is reported
// twice, with distinct provenance.
//
// # Results
//
// Pipeline results are plain data. Empty inputs yield empty result sets, and
// selection helpers report absence with a reason code instead of an error;
// nothing in this package fails in a way that is not safe to retry.
package detect
