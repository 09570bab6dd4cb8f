package detect

import (
	"math"
	"sort"

	"github.com/draftforge/cad-tools-mcp/internal/drawing"
	"github.com/draftforge/cad-tools-mcp/internal/geom"
)

// Loop is an ordered 4-point closed contour candidate, not yet classified.
type Loop [4]geom.Point

// Points returns the loop vertices as a slice.
func (l Loop) Points() []geom.Point {
	return []geom.Point{l[0], l[1], l[2], l[3]}
}

// gridKey is a segment endpoint quantized onto the positional tolerance grid.
// Endpoints within tolerance of each other map to the same key, merging
// near-coincident points into one graph node.
type gridKey struct {
	X, Y float64
}

func quantize(p geom.Point, posTol float64) gridKey {
	return gridKey{
		X: math.Round(p.X/posTol) * posTol,
		Y: math.Round(p.Y/posTol) * posTol,
	}
}

func (k gridKey) less(other gridKey) bool {
	if k.X != other.X {
		return k.X < other.X
	}
	return k.Y < other.Y
}

// AssembleLoops builds closed 4-vertex contours from individual line
// segments. Segments with non-finite endpoints are skipped. posTol <= 0
// falls back to the default positional tolerance.
//
// Each returned loop is re-ordered into a consistent walking order, starting
// from its leftmost-lowest vertex and greedily visiting the nearest unvisited
// vertex, so adjacent loop entries are adjacent on the contour.
func AssembleLoops(segments []drawing.Segment, posTol float64) []Loop {
	if posTol <= 0 {
		posTol = geom.DefaultPosTol
	}

	type edge struct{ a, b gridKey }
	var edges []edge
	adj := make(map[gridKey]map[gridKey]bool)
	link := func(a, b gridKey) {
		if adj[a] == nil {
			adj[a] = make(map[gridKey]bool)
		}
		adj[a][b] = true
	}
	for _, s := range segments {
		if !s.Start.Valid() || !s.End.Valid() {
			continue
		}
		a, b := quantize(s.Start, posTol), quantize(s.End, posTol)
		if a == b {
			continue
		}
		edges = append(edges, edge{a, b})
		link(a, b)
		link(b, a)
	}

	seen := make(map[[4]gridKey]bool)
	var canonicals [][4]gridKey

	// For every edge a-b, look for cycles a -> b -> c -> d -> a. The search
	// is exhaustive but bounded by vertex degree.
	for _, e := range edges {
		a, b := e.a, e.b
		for c := range adj[b] {
			if c == a {
				continue
			}
			for d := range adj[c] {
				if d == a || d == b {
					continue
				}
				if !adj[d][a] {
					continue
				}
				key := canonicalLoop([4]gridKey{a, b, c, d})
				if !seen[key] {
					seen[key] = true
					canonicals = append(canonicals, key)
				}
			}
		}
	}

	// Deterministic output order regardless of map iteration.
	sort.Slice(canonicals, func(i, j int) bool {
		for k := 0; k < 4; k++ {
			if canonicals[i][k] != canonicals[j][k] {
				return canonicals[i][k].less(canonicals[j][k])
			}
		}
		return false
	})

	loops := make([]Loop, 0, len(canonicals))
	for _, quad := range canonicals {
		pts := make([]geom.Point, 4)
		for i, k := range quad {
			pts[i] = geom.Point{X: k.X, Y: k.Y}
		}
		loops = append(loops, orderLoop(pts))
	}
	return loops
}

// canonicalLoop normalizes a 4-cycle so that duplicate discoveries map to the
// same key: among all rotations of both traversal directions, the
// lexicographically smallest sequence wins. Normalizing direction as well as
// rotation keeps a square walked clockwise and counter-clockwise from being
// counted as two loops.
func canonicalLoop(quad [4]gridKey) [4]gridKey {
	reversedQuad := [4]gridKey{quad[3], quad[2], quad[1], quad[0]}
	best := quad
	for _, base := range [2][4]gridKey{quad, reversedQuad} {
		for shift := 0; shift < 4; shift++ {
			var rot [4]gridKey
			for i := 0; i < 4; i++ {
				rot[i] = base[(i+shift)%4]
			}
			if quadLess(rot, best) {
				best = rot
			}
		}
	}
	return best
}

func quadLess(a, b [4]gridKey) bool {
	for i := 0; i < 4; i++ {
		if a[i] != b[i] {
			return a[i].less(b[i])
		}
	}
	return false
}

// orderLoop arranges 4 points into contour order: start at the
// leftmost-lowest point, then greedily step to the nearest unvisited point.
func orderLoop(pts []geom.Point) Loop {
	sorted := make([]geom.Point, len(pts))
	copy(sorted, pts)
	sort.Slice(sorted, func(i, j int) bool {
		if sorted[i].X != sorted[j].X {
			return sorted[i].X < sorted[j].X
		}
		return sorted[i].Y < sorted[j].Y
	})

	var loop Loop
	loop[0] = sorted[0]
	rest := sorted[1:]
	current := loop[0]
	for i := 1; i < 4; i++ {
		nearest := 0
		for j := 1; j < len(rest); j++ {
			if current.Distance(rest[j]) < current.Distance(rest[nearest]) {
				nearest = j
			}
		}
		current = rest[nearest]
		loop[i] = current
		rest = append(rest[:nearest], rest[nearest+1:]...)
	}
	return loop
}
