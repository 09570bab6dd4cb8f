package drawing

import (
	"sort"
	"strings"

	"github.com/lucasb-eyer/go-colorful"
)

// DefaultLayer is the layer every document starts with.
const DefaultLayer = "0"

// Layer is an entry in the document's layer table.
type Layer struct {
	Name  string
	Color colorful.Color
}

// LayerInfo is the JSON-facing view of a layer.
type LayerInfo struct {
	Name  string `json:"name"`
	Color string `json:"color"`

	// ColorName is the nearest named palette color, for human-readable
	// snapshots.
	ColorName string `json:"color_name"`
}

// namedColors is the palette of recognized color names. The values mirror the
// classic drawing-index colors.
var namedColors = map[string]colorful.Color{
	"red":     {R: 1, G: 0, B: 0},
	"yellow":  {R: 1, G: 1, B: 0},
	"green":   {R: 0, G: 1, B: 0},
	"cyan":    {R: 0, G: 1, B: 1},
	"blue":    {R: 0, G: 0, B: 1},
	"magenta": {R: 1, G: 0, B: 1},
	"white":   {R: 1, G: 1, B: 1},
	"black":   {R: 0, G: 0, B: 0},
}

// ParseColor resolves a color string to a color value. Hex strings
// ("#RRGGBB") are parsed exactly; known names resolve through the palette.
// Anything else falls back to white, reported by the second return value.
func ParseColor(s string) (colorful.Color, bool) {
	s = strings.TrimSpace(strings.ToLower(s))
	if strings.HasPrefix(s, "#") {
		if c, err := colorful.Hex(s); err == nil {
			return c, true
		}
		return namedColors["white"], false
	}
	if c, ok := namedColors[s]; ok {
		return c, true
	}
	return namedColors["white"], false
}

// NearestColorName returns the palette name closest to c in Lab space.
func NearestColorName(c colorful.Color) string {
	best := "white"
	bestDist := -1.0
	names := make([]string, 0, len(namedColors))
	for name := range namedColors {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		d := c.DistanceLab(namedColors[name])
		if bestDist < 0 || d < bestDist {
			best = name
			bestDist = d
		}
	}
	return best
}

// Info returns the JSON-facing view of the layer.
func (l Layer) Info() LayerInfo {
	return LayerInfo{
		Name:      l.Name,
		Color:     l.Color.Hex(),
		ColorName: NearestColorName(l.Color),
	}
}
