package drawing

import (
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/lucasb-eyer/go-colorful"

	"github.com/draftforge/cad-tools-mcp/internal/geom"
)

// DefaultListLimit caps entity listings when the caller does not supply one.
const DefaultListLimit = 100

// Document is an in-memory model space: an ordered collection of entities
// plus a layer table. It implements both EntitySource and Sink and is safe
// for concurrent use.
type Document struct {
	mu       sync.RWMutex
	entities []Entity
	layers   map[string]Layer
	current  string
}

var (
	_ EntitySource = (*Document)(nil)
	_ Sink         = (*Document)(nil)
)

// NewDocument creates an empty document with the default layer "0" active.
func NewDocument() *Document {
	return &Document{
		layers: map[string]Layer{
			DefaultLayer: {Name: DefaultLayer, Color: namedColors["white"]},
		},
		current: DefaultLayer,
	}
}

func newHandle() string {
	return uuid.NewString()
}

// resolveLayer maps an empty layer name to the current layer and makes sure
// the layer exists in the table. Callers must hold the write lock.
func (d *Document) resolveLayer(layer string) string {
	if layer == "" {
		layer = d.current
	}
	if _, ok := d.layers[layer]; !ok {
		d.layers[layer] = Layer{Name: layer, Color: namedColors["white"]}
	}
	return layer
}

// === Layer table ===

// EnsureLayer creates the layer if missing and sets its color. Unknown color
// names fall back to white rather than failing, matching tolerant layer
// setup: a wrong color should never abort a construction batch.
func (d *Document) EnsureLayer(name, color string) error {
	if name == "" {
		return fmt.Errorf("layer name must not be empty")
	}
	c, _ := ParseColor(color)
	d.mu.Lock()
	d.layers[name] = Layer{Name: name, Color: c}
	d.mu.Unlock()
	return nil
}

// SetCurrentLayer makes an existing layer the target for entities added
// without an explicit layer.
func (d *Document) SetCurrentLayer(name string) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if _, ok := d.layers[name]; !ok {
		return fmt.Errorf("unknown layer: %s", name)
	}
	d.current = name
	return nil
}

// CurrentLayer returns the active layer name.
func (d *Document) CurrentLayer() string {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.current
}

// Layers returns the layer table sorted by name.
func (d *Document) Layers() []LayerInfo {
	d.mu.RLock()
	defer d.mu.RUnlock()
	out := make([]LayerInfo, 0, len(d.layers))
	for _, l := range d.layers {
		out = append(out, l.Info())
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// LayerColor returns the color of a layer, or white for unknown layers.
func (d *Document) LayerColor(name string) colorful.Color {
	d.mu.RLock()
	defer d.mu.RUnlock()
	if l, ok := d.layers[name]; ok {
		return l.Color
	}
	return namedColors["white"]
}

// === Sink ===

// AddLine adds a line entity and returns its handle.
func (d *Document) AddLine(start, end geom.Point, layer string) (string, error) {
	if !start.Valid() || !end.Valid() {
		return "", fmt.Errorf("line has non-finite coordinates")
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	seg := Segment{Handle: newHandle(), Layer: d.resolveLayer(layer), Start: start, End: end}
	d.entities = append(d.entities, seg)
	return seg.Handle, nil
}

// AddPolyline adds a polyline entity and returns its handle. When closed is
// true and the contour does not already end on its first vertex, the closing
// vertex is appended.
func (d *Document) AddPolyline(points []geom.Point, layer string, closed bool) (string, error) {
	if len(points) < 2 {
		return "", fmt.Errorf("polyline needs at least 2 points, got %d", len(points))
	}
	for _, p := range points {
		if !p.Valid() {
			return "", fmt.Errorf("polyline has non-finite coordinates")
		}
	}
	verts := make([]geom.Point, len(points))
	copy(verts, points)
	if closed && verts[0].Distance(verts[len(verts)-1]) > geom.DefaultPosTol {
		verts = append(verts, verts[0])
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	pl := Polyline{Handle: newHandle(), Layer: d.resolveLayer(layer), Vertices: verts, Closed: closed}
	d.entities = append(d.entities, pl)
	return pl.Handle, nil
}

// AddRectangle adds an axis-aligned rectangle as a closed polyline from its
// minimum corner.
func (d *Document) AddRectangle(base geom.Point, width, height float64, layer string) (string, error) {
	pts := []geom.Point{
		base,
		{X: base.X + width, Y: base.Y},
		{X: base.X + width, Y: base.Y + height},
		{X: base.X, Y: base.Y + height},
	}
	return d.AddPolyline(pts, layer, true)
}

// AddCircle adds a circle entity and returns its handle.
func (d *Document) AddCircle(center geom.Point, radius float64, layer string) (string, error) {
	if !center.Valid() {
		return "", fmt.Errorf("circle has non-finite center")
	}
	if !(radius > 0) {
		return "", fmt.Errorf("circle radius must be positive, got %v", radius)
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	c := Circle{Handle: newHandle(), Layer: d.resolveLayer(layer), Center: center, Radius: radius}
	d.entities = append(d.entities, c)
	return c.Handle, nil
}

// === EntitySource ===

// ClosedPolylines implements EntitySource. A polyline counts as closed when
// its Closed flag is set or when its last vertex coincides with the first
// within the positional tolerance. The duplicated closing vertex, if present,
// is stripped from the returned copy.
func (d *Document) ClosedPolylines(layer string) []Polyline {
	d.mu.RLock()
	defer d.mu.RUnlock()
	var out []Polyline
	for _, e := range d.entities {
		pl, ok := e.(Polyline)
		if !ok {
			continue
		}
		if layer != "" && pl.Layer != layer {
			continue
		}
		verts := pl.Vertices
		closedByGeometry := len(verts) >= 2 && verts[0].Distance(verts[len(verts)-1]) <= geom.DefaultPosTol
		if !pl.Closed && !closedByGeometry {
			continue
		}
		if closedByGeometry {
			verts = verts[:len(verts)-1]
		}
		if len(verts) < 3 {
			continue
		}
		cp := make([]geom.Point, len(verts))
		copy(cp, verts)
		out = append(out, Polyline{Handle: pl.Handle, Layer: pl.Layer, Vertices: cp, Closed: true})
	}
	return out
}

// Segments implements EntitySource.
func (d *Document) Segments(layer string) []Segment {
	d.mu.RLock()
	defer d.mu.RUnlock()
	var out []Segment
	for _, e := range d.entities {
		seg, ok := e.(Segment)
		if !ok {
			continue
		}
		if layer != "" && seg.Layer != layer {
			continue
		}
		out = append(out, seg)
	}
	return out
}

// Circles implements EntitySource.
func (d *Document) Circles(layer string) []Circle {
	d.mu.RLock()
	defer d.mu.RUnlock()
	var out []Circle
	for _, e := range d.entities {
		c, ok := e.(Circle)
		if !ok {
			continue
		}
		if layer != "" && c.Layer != layer {
			continue
		}
		out = append(out, c)
	}
	return out
}

// === Queries ===

// EntityInfo is the listing view of an entity.
type EntityInfo struct {
	Handle string `json:"handle"`
	Type   string `json:"type"`
	Layer  string `json:"layer"`
}

// ListEntities returns entity summaries in drawing order. typeContains
// filters by substring match against the entity kind; limit <= 0 applies
// DefaultListLimit.
func (d *Document) ListEntities(layer, typeContains string, limit int) []EntityInfo {
	if limit <= 0 {
		limit = DefaultListLimit
	}
	typeContains = strings.ToLower(typeContains)
	d.mu.RLock()
	defer d.mu.RUnlock()
	var out []EntityInfo
	for _, e := range d.entities {
		handle, lay := e.Ref()
		if layer != "" && lay != layer {
			continue
		}
		if typeContains != "" && !strings.Contains(e.Kind(), typeContains) {
			continue
		}
		out = append(out, EntityInfo{Handle: handle, Type: e.Kind(), Layer: lay})
		if len(out) >= limit {
			break
		}
	}
	return out
}

// Entities returns a copy of the entity list in drawing order.
func (d *Document) Entities() []Entity {
	d.mu.RLock()
	defer d.mu.RUnlock()
	out := make([]Entity, len(d.entities))
	copy(out, d.entities)
	return out
}

// Extents returns the union bounding box of all entities. The second return
// value is false for an empty document.
func (d *Document) Extents() (geom.Rect, bool) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	var ext geom.Rect
	found := false
	for _, e := range d.entities {
		box, ok := e.Bounds()
		if !ok {
			continue
		}
		if !found {
			ext = box
			found = true
			continue
		}
		ext = ext.Union(box)
	}
	return ext, found
}

// Center returns the center of the model extents.
func (d *Document) Center() (geom.Point, bool) {
	ext, ok := d.Extents()
	if !ok {
		return geom.Point{}, false
	}
	return ext.Center(), true
}

// ExtentsInfo is the JSON-facing view of the model extents.
type ExtentsInfo struct {
	Min    geom.Point `json:"min"`
	Max    geom.Point `json:"max"`
	Center geom.Point `json:"center"`
}

// SnapshotInfo captures the document context in one view: layers, extents,
// and a bounded entity listing.
type SnapshotInfo struct {
	Layers   []string     `json:"layers"`
	Extents  *ExtentsInfo `json:"extents,omitempty"`
	Entities []EntityInfo `json:"entities"`
}

// Snapshot returns the document context, limiting the entity listing.
func (d *Document) Snapshot(layer, typeContains string, limit int) SnapshotInfo {
	var names []string
	for _, l := range d.Layers() {
		names = append(names, l.Name)
	}
	snap := SnapshotInfo{
		Layers:   names,
		Entities: d.ListEntities(layer, typeContains, limit),
	}
	if ext, ok := d.Extents(); ok {
		snap.Extents = &ExtentsInfo{Min: ext.Min(), Max: ext.Max(), Center: ext.Center()}
	}
	return snap
}

// === Erase / copy ===

// EraseByHandles removes the entities with the given handles and returns the
// number removed. Unknown handles are ignored.
func (d *Document) EraseByHandles(handles []string) int {
	if len(handles) == 0 {
		return 0
	}
	doomed := make(map[string]bool, len(handles))
	for _, h := range handles {
		if h != "" {
			doomed[h] = true
		}
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	kept := d.entities[:0]
	removed := 0
	for _, e := range d.entities {
		handle, _ := e.Ref()
		if doomed[handle] {
			removed++
			continue
		}
		kept = append(kept, e)
	}
	d.entities = kept
	return removed
}

// EraseOnLayer removes all entities on the given layer.
func (d *Document) EraseOnLayer(layer string) int {
	return d.EraseByHandles(d.handlesMatching("", layer, 0))
}

// EraseByFilter removes entities matching the kind substring and layer
// filters, up to limit (0 = no limit).
func (d *Document) EraseByFilter(typeContains, layer string, limit int) int {
	return d.EraseByHandles(d.handlesMatching(typeContains, layer, limit))
}

func (d *Document) handlesMatching(typeContains, layer string, limit int) []string {
	typeContains = strings.ToLower(typeContains)
	d.mu.RLock()
	defer d.mu.RUnlock()
	var handles []string
	for _, e := range d.entities {
		handle, lay := e.Ref()
		if typeContains != "" && !strings.Contains(e.Kind(), typeContains) {
			continue
		}
		if layer != "" && lay != layer {
			continue
		}
		handles = append(handles, handle)
		if limit > 0 && len(handles) >= limit {
			break
		}
	}
	return handles
}

// CopyLayerByOffset duplicates all entities on sourceLayer translated by
// (dx, dy), optionally reassigning the copies to targetLayer, up to limit
// (0 = no limit). Returns the number of copies made.
func (d *Document) CopyLayerByOffset(sourceLayer string, dx, dy float64, targetLayer string, limit int) int {
	d.mu.Lock()
	defer d.mu.Unlock()
	copied := 0
	// Iterate over the current length only; appends must not be revisited.
	n := len(d.entities)
	for i := 0; i < n; i++ {
		_, lay := d.entities[i].Ref()
		if lay != sourceLayer {
			continue
		}
		if limit > 0 && copied >= limit {
			break
		}
		dst := targetLayer
		if dst == "" {
			dst = sourceLayer
		}
		dst = d.resolveLayer(dst)
		d.entities = append(d.entities, d.entities[i].offset(dx, dy, newHandle(), dst))
		copied++
	}
	return copied
}
