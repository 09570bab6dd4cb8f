package render

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"math"

	"github.com/anthonynsimon/bild/paint"
	"github.com/disintegration/imaging"
	"github.com/lucasb-eyer/go-colorful"

	"github.com/draftforge/cad-tools-mcp/internal/drawing"
	"github.com/draftforge/cad-tools-mcp/internal/geom"
)

// Raster defaults and limits.
const (
	DefaultWidth  = 800
	DefaultMargin = 20
	MaxDimension  = 4096
)

// Model is the read surface the renderer needs from a drawing.
type Model interface {
	Entities() []drawing.Entity
	LayerColor(name string) colorful.Color
	Extents() (geom.Rect, bool)
}

var _ Model = (*drawing.Document)(nil)

// Options controls a Render run.
type Options struct {
	// Width and Height are the output size in pixels. Width <= 0 applies
	// DefaultWidth; Height <= 0 derives the height from the model aspect
	// ratio. Both are clamped to MaxDimension.
	Width  int
	Height int

	// Margin is the blank border in pixels; <= 0 applies DefaultMargin.
	Margin int

	// Layer restricts rendering to one layer; empty renders all layers.
	Layer string

	// Fill flood-fills closed polylines from their centroid with the layer
	// color.
	Fill bool

	// Background is the canvas color; empty means black.
	Background string
}

// Result is a rendered raster ready for protocol transport.
type Result struct {
	Width       int    `json:"width"`
	Height      int    `json:"height"`
	ImageBase64 string `json:"image_base64"`
	MimeType    string `json:"mime_type"`
	Entities    int    `json:"entities"`
}

// transform maps drawing coordinates onto pixel coordinates: uniform scale,
// margin offset, Y flipped.
type transform struct {
	scale        float64
	minX, minY   float64
	margin       int
	pixelsBottom int
}

func (t transform) apply(p geom.Point) (int, int) {
	x := float64(t.margin) + (p.X-t.minX)*t.scale
	y := float64(t.pixelsBottom) - (p.Y-t.minY)*t.scale
	return int(math.Round(x)), int(math.Round(y))
}

func fitTransform(ext geom.Rect, width, height, margin int) transform {
	innerW := float64(width - 2*margin)
	innerH := float64(height - 2*margin)
	scale := 1.0
	if ext.Width > 0 || ext.Height > 0 {
		sx, sy := math.Inf(1), math.Inf(1)
		if ext.Width > 0 {
			sx = innerW / ext.Width
		}
		if ext.Height > 0 {
			sy = innerH / ext.Height
		}
		scale = math.Min(sx, sy)
	}
	// Center the model inside the frame along the slack axis.
	extraX := (innerW - ext.Width*scale) / 2
	extraY := (innerH - ext.Height*scale) / 2
	return transform{
		scale:        scale,
		minX:         ext.Min().X - extraX/scale,
		minY:         ext.Min().Y - extraY/scale,
		margin:       margin,
		pixelsBottom: height - margin,
	}
}

func clampDim(v int) int {
	if v > MaxDimension {
		return MaxDimension
	}
	return v
}

// frameSize resolves the output size from the options and model extents.
func frameSize(opts Options, ext geom.Rect) (width, height, margin int) {
	width = opts.Width
	if width <= 0 {
		width = DefaultWidth
	}
	width = clampDim(width)

	margin = opts.Margin
	if margin <= 0 {
		margin = DefaultMargin
	}
	if 2*margin >= width {
		margin = 0
	}

	height = opts.Height
	if height <= 0 {
		inner := float64(width - 2*margin)
		if ext.Width > 0 && ext.Height > 0 {
			height = 2*margin + int(math.Ceil(inner*ext.Height/ext.Width))
		} else {
			height = width
		}
	}
	height = clampDim(height)
	if height <= 2*margin {
		height = 2*margin + 1
	}
	return width, height, margin
}

// Render rasterizes the model into a base64 PNG.
func Render(m Model, opts Options) (*Result, error) {
	img, count, err := rasterize(m, opts)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("failed to encode image: %w", err)
	}
	bounds := img.Bounds()
	return &Result{
		Width:       bounds.Dx(),
		Height:      bounds.Dy(),
		ImageBase64: base64.StdEncoding.EncodeToString(buf.Bytes()),
		MimeType:    "image/png",
		Entities:    count,
	}, nil
}

// ExportPNG rasterizes the model and writes it to path. The format follows
// the file extension, so .png paths produce PNG files.
func ExportPNG(m Model, path string, opts Options) (*Result, error) {
	img, count, err := rasterize(m, opts)
	if err != nil {
		return nil, err
	}
	if err := imaging.Save(img, path); err != nil {
		return nil, fmt.Errorf("failed to save image: %w", err)
	}
	bounds := img.Bounds()
	return &Result{
		Width:    bounds.Dx(),
		Height:   bounds.Dy(),
		MimeType: "image/png",
		Entities: count,
	}, nil
}

// Thumbnail renders the model and downscales it to fit maxDim on the longer
// side.
func Thumbnail(m Model, maxDim int, opts Options) (*Result, error) {
	if maxDim <= 0 {
		maxDim = 256
	}
	img, count, err := rasterize(m, opts)
	if err != nil {
		return nil, err
	}
	bounds := img.Bounds()
	var small image.Image = img
	if bounds.Dx() > maxDim || bounds.Dy() > maxDim {
		if bounds.Dx() >= bounds.Dy() {
			small = imaging.Resize(img, maxDim, 0, imaging.Lanczos)
		} else {
			small = imaging.Resize(img, 0, maxDim, imaging.Lanczos)
		}
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, small); err != nil {
		return nil, fmt.Errorf("failed to encode image: %w", err)
	}
	sb := small.Bounds()
	return &Result{
		Width:       sb.Dx(),
		Height:      sb.Dy(),
		ImageBase64: base64.StdEncoding.EncodeToString(buf.Bytes()),
		MimeType:    "image/png",
		Entities:    count,
	}, nil
}

func rasterize(m Model, opts Options) (*image.RGBA, int, error) {
	ext, ok := m.Extents()
	if !ok {
		return nil, 0, fmt.Errorf("nothing to render: model is empty")
	}

	width, height, margin := frameSize(opts, ext)
	tf := fitTransform(ext, width, height, margin)

	bg := color.Color(color.Black)
	if opts.Background != "" {
		if c, ok := drawing.ParseColor(opts.Background); ok {
			bg = c
		}
	}
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.Draw(img, img.Bounds(), image.NewUniform(bg), image.Point{}, draw.Src)

	count := 0
	var fills []fillSeed
	for _, e := range m.Entities() {
		_, layer := e.Ref()
		if opts.Layer != "" && layer != opts.Layer {
			continue
		}
		c := toRGBA(m.LayerColor(layer))
		switch ent := e.(type) {
		case drawing.Polyline:
			strokePolyline(img, tf, ent, c)
			if opts.Fill && ent.Closed && len(ent.Vertices) >= 3 {
				seed := geom.Centroid(ent.Vertices, geom.DefaultPosTol)
				fills = append(fills, fillSeed{at: seed, color: c})
			}
		case drawing.Segment:
			strokeLine(img, tf, ent.Start, ent.End, c)
		case drawing.Circle:
			strokeCircle(img, tf, ent.Center, ent.Radius, c)
		default:
			continue
		}
		count++
	}

	// Fill after all outlines exist, so a fill cannot leak through an edge
	// drawn later.
	result := img
	for _, f := range fills {
		x, y := tf.apply(f.at)
		if !(image.Point{X: x, Y: y}).In(result.Bounds()) {
			continue
		}
		result = paint.FloodFill(result, image.Point{X: x, Y: y}, f.color, 16)
	}
	return result, count, nil
}

type fillSeed struct {
	at    geom.Point
	color color.RGBA
}

func toRGBA(c colorful.Color) color.RGBA {
	r, g, b := c.Clamped().RGB255()
	return color.RGBA{R: r, G: g, B: b, A: 255}
}

func strokePolyline(img *image.RGBA, tf transform, pl drawing.Polyline, c color.RGBA) {
	verts := pl.Vertices
	for i := 0; i+1 < len(verts); i++ {
		strokeLine(img, tf, verts[i], verts[i+1], c)
	}
	if pl.Closed && len(verts) >= 3 && verts[0].Distance(verts[len(verts)-1]) > geom.DefaultPosTol {
		strokeLine(img, tf, verts[len(verts)-1], verts[0], c)
	}
}

// strokeLine draws a 1-pixel line with Bresenham's algorithm.
func strokeLine(img *image.RGBA, tf transform, from, to geom.Point, c color.RGBA) {
	x0, y0 := tf.apply(from)
	x1, y1 := tf.apply(to)

	dx := abs(x1 - x0)
	dy := -abs(y1 - y0)
	sx, sy := 1, 1
	if x0 > x1 {
		sx = -1
	}
	if y0 > y1 {
		sy = -1
	}
	err := dx + dy
	for {
		setPixel(img, x0, y0, c)
		if x0 == x1 && y0 == y1 {
			return
		}
		e2 := 2 * err
		if e2 >= dy {
			err += dy
			x0 += sx
		}
		if e2 <= dx {
			err += dx
			y0 += sy
		}
	}
}

// strokeCircle draws a 1-pixel circle outline with the midpoint algorithm.
func strokeCircle(img *image.RGBA, tf transform, center geom.Point, radius float64, c color.RGBA) {
	cx, cy := tf.apply(center)
	r := int(math.Round(radius * tf.scale))
	if r <= 0 {
		setPixel(img, cx, cy, c)
		return
	}

	x, y := r, 0
	err := 1 - r
	for x >= y {
		setPixel(img, cx+x, cy+y, c)
		setPixel(img, cx+y, cy+x, c)
		setPixel(img, cx-y, cy+x, c)
		setPixel(img, cx-x, cy+y, c)
		setPixel(img, cx-x, cy-y, c)
		setPixel(img, cx-y, cy-x, c)
		setPixel(img, cx+y, cy-x, c)
		setPixel(img, cx+x, cy-y, c)
		y++
		if err < 0 {
			err += 2*y + 1
		} else {
			x--
			err += 2*(y-x) + 1
		}
	}
}

func setPixel(img *image.RGBA, x, y int, c color.RGBA) {
	if (image.Point{X: x, Y: y}).In(img.Bounds()) {
		img.SetRGBA(x, y, c)
	}
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
