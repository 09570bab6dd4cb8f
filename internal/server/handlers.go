package server

import (
	"encoding/json"
	"fmt"

	"go.uber.org/zap"

	"github.com/draftforge/cad-tools-mcp/internal/construct"
	"github.com/draftforge/cad-tools-mcp/internal/detect"
	"github.com/draftforge/cad-tools-mcp/internal/geom"
	"github.com/draftforge/cad-tools-mcp/internal/render"
)

// ToolCallParams represents the parameters for a tools/call MCP request.
type ToolCallParams struct {
	// Name is the tool to invoke (e.g., "draw_line", "find_squares").
	Name string `json:"name"`

	// Arguments contains the tool-specific parameters as JSON.
	Arguments json.RawMessage `json:"arguments"`
}

// handleToolsCall processes a tools/call request and executes the specified tool.
//
// The response wraps the tool result in MCP's content format:
//
//	{
//	  "content": [{"type": "text", "text": "<JSON result>"}]
//	}
//
// Tool execution errors return a JSON-RPC error response with code -32000.
func (s *Server) handleToolsCall(req *MCPRequest) *MCPResponse {
	var params ToolCallParams
	if err := json.Unmarshal(req.Params, &params); err != nil {
		return s.errorResponse(req.ID, -32602, "Invalid params", err.Error())
	}

	result, err := s.executeTool(params.Name, params.Arguments)
	if err != nil {
		s.logger.Warn("tool call failed", zap.String("tool", params.Name), zap.Error(err))
		return s.errorResponse(req.ID, -32000, "Tool execution failed", err.Error())
	}
	s.logger.Debug("tool call handled", zap.String("tool", params.Name))

	return &MCPResponse{
		JSONRPC: "2.0",
		ID:      req.ID,
		Result: map[string]interface{}{
			"content": []map[string]interface{}{
				{
					"type": "text",
					"text": mustMarshalJSON(result),
				},
			},
		},
	}
}

// executeTool dispatches tool execution to the appropriate handler function.
//
// Each tool handler:
//  1. Unmarshals arguments from JSON
//  2. Applies default values for optional parameters
//  3. Calls into the drawing, detect, construct, or render package
//  4. Returns the result or error
//
// Absence outcomes of the derived constructions (no squares, no circles,
// empty model) are results, not errors: they come back as {"ok": false,
// "reason": ...} so a client can branch on them.
func (s *Server) executeTool(name string, args json.RawMessage) (interface{}, error) {
	switch name {
	// Layer Management
	case "ensure_layer":
		return s.handleEnsureLayer(args)
	case "set_current_layer":
		return s.handleSetCurrentLayer(args)
	case "list_layers":
		return s.handleListLayers(args)

	// Drawing Primitives
	case "draw_line":
		return s.handleDrawLine(args)
	case "draw_polyline":
		return s.handleDrawPolyline(args)
	case "draw_rectangle":
		return s.handleDrawRectangle(args)
	case "draw_circle":
		return s.handleDrawCircle(args)
	case "draw_from_center":
		return s.handleDrawFromCenter(args)

	// Model Inspection
	case "list_entities":
		return s.handleListEntities(args)
	case "get_extents":
		return s.handleGetExtents(args)
	case "snapshot_model":
		return s.handleSnapshotModel(args)

	// Shape Recognition
	case "find_closed_polylines":
		return s.handleFindClosedPolylines(args)
	case "find_squares":
		return s.handleFindSquares(args)
	case "find_circles":
		return s.handleFindCircles(args)
	case "pick_largest_closed_polyline":
		return s.handlePickLargestClosedPolyline(args)
	case "pick_largest_circle":
		return s.handlePickLargestCircle(args)
	case "measure_largest_bounds":
		return s.handleMeasureLargestBounds(args)

	// Derived Construction
	case "inscribe_circles_in_squares":
		return s.handleInscribeCirclesInSquares(args)
	case "inscribe_squares_in_circles":
		return s.handleInscribeSquaresInCircles(args)
	case "draw_roof_over_largest_square":
		return s.handleDrawRoof(args)
	case "make_snowman":
		return s.handleMakeSnowman(args)

	// Editing
	case "copy_layer_by_offset":
		return s.handleCopyLayerByOffset(args)
	case "erase_by_handles":
		return s.handleEraseByHandles(args)
	case "erase_on_layer":
		return s.handleEraseOnLayer(args)
	case "erase_by_filter":
		return s.handleEraseByFilter(args)

	// Raster Output
	case "export_png":
		return s.handleExportPNG(args)

	default:
		return nil, fmt.Errorf("unknown tool: %s", name)
	}
}

// errorResponse creates a JSON-RPC error response with the given details.
func (s *Server) errorResponse(id interface{}, code int, message, data string) *MCPResponse {
	return &MCPResponse{
		JSONRPC: "2.0",
		ID:      id,
		Error: &MCPError{
			Code:    code,
			Message: message,
			Data:    data,
		},
	}
}

// mustMarshalJSON converts a value to pretty-printed JSON string.
// Panics are suppressed; on marshal failure, returns an empty string.
func mustMarshalJSON(v interface{}) string {
	b, _ := json.MarshalIndent(v, "", "  ")
	return string(b)
}

// handleResult is the generic envelope for handle-returning draw tools.
type handleResult struct {
	Handle string `json:"handle"`
	Layer  string `json:"layer"`
}

// countResult is the generic envelope for erase and copy tools.
type countResult struct {
	Count int `json:"count"`
}

// === Layer Management Handlers ===

type ensureLayerArgs struct {
	Name  string `json:"name"`
	Color string `json:"color"`
}

func (s *Server) handleEnsureLayer(args json.RawMessage) (interface{}, error) {
	var a ensureLayerArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	if a.Color == "" {
		a.Color = s.cfg.DefaultLayerColor
	}
	if err := s.doc.EnsureLayer(a.Name, a.Color); err != nil {
		return nil, err
	}
	return map[string]interface{}{"name": a.Name}, nil
}

type setCurrentLayerArgs struct {
	Name string `json:"name"`
}

func (s *Server) handleSetCurrentLayer(args json.RawMessage) (interface{}, error) {
	var a setCurrentLayerArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	if err := s.doc.SetCurrentLayer(a.Name); err != nil {
		return nil, err
	}
	return map[string]interface{}{"current": a.Name}, nil
}

func (s *Server) handleListLayers(json.RawMessage) (interface{}, error) {
	return map[string]interface{}{
		"layers":  s.doc.Layers(),
		"current": s.doc.CurrentLayer(),
	}, nil
}

// === Drawing Primitive Handlers ===

type drawLineArgs struct {
	Start geom.Point `json:"start"`
	End   geom.Point `json:"end"`
	Layer string     `json:"layer"`
}

func (s *Server) handleDrawLine(args json.RawMessage) (interface{}, error) {
	var a drawLineArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	handle, err := s.doc.AddLine(a.Start, a.End, a.Layer)
	if err != nil {
		return nil, err
	}
	return handleResult{Handle: handle, Layer: s.layerOrCurrent(a.Layer)}, nil
}

type drawPolylineArgs struct {
	Points []geom.Point `json:"points"`
	Closed bool         `json:"closed"`
	Layer  string       `json:"layer"`
}

func (s *Server) handleDrawPolyline(args json.RawMessage) (interface{}, error) {
	var a drawPolylineArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	handle, err := s.doc.AddPolyline(a.Points, a.Layer, a.Closed)
	if err != nil {
		return nil, err
	}
	return handleResult{Handle: handle, Layer: s.layerOrCurrent(a.Layer)}, nil
}

type drawRectangleArgs struct {
	Base   geom.Point `json:"base"`
	Width  float64    `json:"width"`
	Height float64    `json:"height"`
	Layer  string     `json:"layer"`
}

func (s *Server) handleDrawRectangle(args json.RawMessage) (interface{}, error) {
	var a drawRectangleArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	handle, err := s.doc.AddRectangle(a.Base, a.Width, a.Height, a.Layer)
	if err != nil {
		return nil, err
	}
	return handleResult{Handle: handle, Layer: s.layerOrCurrent(a.Layer)}, nil
}

type drawCircleArgs struct {
	Center geom.Point `json:"center"`
	Radius float64    `json:"radius"`
	Layer  string     `json:"layer"`
}

func (s *Server) handleDrawCircle(args json.RawMessage) (interface{}, error) {
	var a drawCircleArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	handle, err := s.doc.AddCircle(a.Center, a.Radius, a.Layer)
	if err != nil {
		return nil, err
	}
	return handleResult{Handle: handle, Layer: s.layerOrCurrent(a.Layer)}, nil
}

type drawFromCenterArgs struct {
	Shape string  `json:"shape"`
	Size  float64 `json:"size"`
	Layer string  `json:"layer"`
}

func (s *Server) handleDrawFromCenter(args json.RawMessage) (interface{}, error) {
	var a drawFromCenterArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	center, ok := s.doc.Center()
	if !ok {
		return construct.Result{Reason: construct.ReasonEmptyModel}, nil
	}
	return construct.DrawFromCenter(s.doc, center, a.Shape, a.Size, a.Layer), nil
}

func (s *Server) layerOrCurrent(layer string) string {
	if layer == "" {
		return s.doc.CurrentLayer()
	}
	return layer
}

// === Model Inspection Handlers ===

type listEntitiesArgs struct {
	Layer        string `json:"layer"`
	TypeContains string `json:"type_contains"`
	Limit        int    `json:"limit"`
}

func (s *Server) handleListEntities(args json.RawMessage) (interface{}, error) {
	var a listEntitiesArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	entities := s.doc.ListEntities(a.Layer, a.TypeContains, a.Limit)
	return map[string]interface{}{
		"entities": entities,
		"count":    len(entities),
	}, nil
}

func (s *Server) handleGetExtents(json.RawMessage) (interface{}, error) {
	ext, ok := s.doc.Extents()
	if !ok {
		return map[string]interface{}{"empty": true}, nil
	}
	return map[string]interface{}{
		"empty":  false,
		"min":    ext.Min(),
		"max":    ext.Max(),
		"center": ext.Center(),
	}, nil
}

type snapshotArgs struct {
	Layer        string `json:"layer"`
	TypeContains string `json:"type_contains"`
	Limit        int    `json:"limit"`
}

func (s *Server) handleSnapshotModel(args json.RawMessage) (interface{}, error) {
	var a snapshotArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	return s.doc.Snapshot(a.Layer, a.TypeContains, a.Limit), nil
}

// === Shape Recognition Handlers ===

type findClosedPolylinesArgs struct {
	Layer       string  `json:"layer"`
	MinVertices int     `json:"min_vertices"`
	MinArea     float64 `json:"min_area"`
}

func (s *Server) handleFindClosedPolylines(args json.RawMessage) (interface{}, error) {
	var a findClosedPolylinesArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	polys := detect.FindClosedPolylines(s.doc, detect.PolylineOptions{
		Layer:       a.Layer,
		MinVertices: a.MinVertices,
		MinArea:     a.MinArea,
	})
	return map[string]interface{}{
		"polylines": polys,
		"count":     len(polys),
	}, nil
}

type findSquaresArgs struct {
	Layer           string `json:"layer"`
	IncludeSegments *bool  `json:"include_segments"`
	AllowRectangles bool   `json:"allow_rectangles"`
	MaxCount        int    `json:"max_count"`
}

func (s *Server) handleFindSquares(args json.RawMessage) (interface{}, error) {
	var a findSquaresArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	includeSegments := true
	if a.IncludeSegments != nil {
		includeSegments = *a.IncludeSegments
	}
	return detect.FindSquares(s.doc, detect.SquaresOptions{
		Layer:           a.Layer,
		IncludeSegments: includeSegments,
		AllowRectangles: a.AllowRectangles,
		MaxCount:        a.MaxCount,
		Tol:             s.cfg.GeomTolerance(),
	}), nil
}

type findCirclesArgs struct {
	Layer     string  `json:"layer"`
	MinRadius float64 `json:"min_radius"`
	MaxCount  int     `json:"max_count"`
}

func (s *Server) handleFindCircles(args json.RawMessage) (interface{}, error) {
	var a findCirclesArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	circles := detect.FindCircles(s.doc, detect.CircleOptions{
		Layer:     a.Layer,
		MinRadius: a.MinRadius,
		MaxCount:  a.MaxCount,
	})
	return map[string]interface{}{
		"circles": circles,
		"count":   len(circles),
	}, nil
}

type pickLargestArgs struct {
	Layer string `json:"layer"`
}

func (s *Server) handlePickLargestClosedPolyline(args json.RawMessage) (interface{}, error) {
	var a pickLargestArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	pick, ok := detect.PickLargestClosedPolyline(s.doc, a.Layer, s.cfg.GeomTolerance())
	if !ok {
		return map[string]interface{}{"ok": false, "reason": construct.ReasonNoClosedPolylines}, nil
	}
	return map[string]interface{}{"ok": true, "polyline": pick}, nil
}

func (s *Server) handlePickLargestCircle(args json.RawMessage) (interface{}, error) {
	var a pickLargestArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	pick, ok := detect.PickLargestCircle(s.doc, a.Layer)
	if !ok {
		return map[string]interface{}{"ok": false, "reason": construct.ReasonNoCircles}, nil
	}
	return map[string]interface{}{"ok": true, "circle": pick}, nil
}

func (s *Server) handleMeasureLargestBounds(args json.RawMessage) (interface{}, error) {
	var a pickLargestArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	bounds, ok := detect.MeasureLargestBounds(s.doc, a.Layer, s.cfg.GeomTolerance())
	if !ok {
		return map[string]interface{}{"ok": false, "reason": construct.ReasonNoClosedPolylines}, nil
	}
	return map[string]interface{}{"ok": true, "bounds": bounds}, nil
}

// === Derived Construction Handlers ===

type inscribeCirclesArgs struct {
	LayerName       string `json:"layer_name"`
	Color           string `json:"color"`
	LayerFilter     string `json:"layer_filter"`
	AllowRectangles bool   `json:"allow_rectangles"`
	MaxCount        int    `json:"max_count"`
}

func (s *Server) handleInscribeCirclesInSquares(args json.RawMessage) (interface{}, error) {
	var a inscribeCirclesArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	return construct.InscribeCirclesInSquares(s.doc, s.doc, construct.InscribeCirclesOptions{
		LayerName:       a.LayerName,
		Color:           a.Color,
		LayerFilter:     a.LayerFilter,
		AllowRectangles: a.AllowRectangles,
		MaxCount:        a.MaxCount,
		Tol:             s.cfg.GeomTolerance(),
	}), nil
}

type inscribeSquaresArgs struct {
	LayerName   string `json:"layer_name"`
	Color       string `json:"color"`
	LayerFilter string `json:"layer_filter"`
	MaxCount    int    `json:"max_count"`
}

func (s *Server) handleInscribeSquaresInCircles(args json.RawMessage) (interface{}, error) {
	var a inscribeSquaresArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	return construct.InscribeSquaresInCircles(s.doc, s.doc, construct.InscribeSquaresOptions{
		LayerName:   a.LayerName,
		Color:       a.Color,
		LayerFilter: a.LayerFilter,
		MaxCount:    a.MaxCount,
	}), nil
}

type drawRoofArgs struct {
	SourceLayer string  `json:"source_layer"`
	ResultLayer string  `json:"result_layer"`
	HeightRatio float64 `json:"height_ratio"`
	Overhang    float64 `json:"overhang"`
}

func (s *Server) handleDrawRoof(args json.RawMessage) (interface{}, error) {
	var a drawRoofArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	return construct.RoofOverLargestSquare(s.doc, s.doc, construct.RoofOptions{
		SourceLayer: a.SourceLayer,
		ResultLayer: a.ResultLayer,
		HeightRatio: a.HeightRatio,
		Overhang:    a.Overhang,
		Tol:         s.cfg.GeomTolerance(),
	}), nil
}

type makeSnowmanArgs struct {
	SourceLayer string  `json:"source_layer"`
	ResultLayer string  `json:"result_layer"`
	Color       string  `json:"color"`
	MiddleScale float64 `json:"middle_scale"`
	HeadScale   float64 `json:"head_scale"`
	GapRatio    float64 `json:"gap_ratio"`
	DrawArms    *bool   `json:"draw_arms"`
	DrawLegs    *bool   `json:"draw_legs"`
}

func (s *Server) handleMakeSnowman(args json.RawMessage) (interface{}, error) {
	var a makeSnowmanArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	opts := construct.DefaultSnowmanOptions()
	opts.SourceLayer = a.SourceLayer
	opts.ResultLayer = a.ResultLayer
	opts.Tol = s.cfg.GeomTolerance()
	if a.Color != "" {
		opts.Color = a.Color
	}
	if a.MiddleScale > 0 {
		opts.MiddleScale = a.MiddleScale
	}
	if a.HeadScale > 0 {
		opts.HeadScale = a.HeadScale
	}
	if a.GapRatio > 0 {
		opts.GapRatio = a.GapRatio
	}
	if a.DrawArms != nil {
		opts.DrawArms = *a.DrawArms
	}
	if a.DrawLegs != nil {
		opts.DrawLegs = *a.DrawLegs
	}
	return construct.Snowman(s.doc, s.doc, opts), nil
}

// === Editing Handlers ===

type copyLayerArgs struct {
	SourceLayer string  `json:"source_layer"`
	Dx          float64 `json:"dx"`
	Dy          float64 `json:"dy"`
	TargetLayer string  `json:"target_layer"`
	Limit       int     `json:"limit"`
}

func (s *Server) handleCopyLayerByOffset(args json.RawMessage) (interface{}, error) {
	var a copyLayerArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	if a.SourceLayer == "" {
		return nil, fmt.Errorf("source_layer is required")
	}
	n := s.doc.CopyLayerByOffset(a.SourceLayer, a.Dx, a.Dy, a.TargetLayer, a.Limit)
	return countResult{Count: n}, nil
}

type eraseByHandlesArgs struct {
	Handles []string `json:"handles"`
}

func (s *Server) handleEraseByHandles(args json.RawMessage) (interface{}, error) {
	var a eraseByHandlesArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	return countResult{Count: s.doc.EraseByHandles(a.Handles)}, nil
}

type eraseOnLayerArgs struct {
	Layer string `json:"layer"`
}

func (s *Server) handleEraseOnLayer(args json.RawMessage) (interface{}, error) {
	var a eraseOnLayerArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	if a.Layer == "" {
		return nil, fmt.Errorf("layer is required")
	}
	return countResult{Count: s.doc.EraseOnLayer(a.Layer)}, nil
}

type eraseByFilterArgs struct {
	TypeContains string `json:"type_contains"`
	Layer        string `json:"layer"`
	Limit        int    `json:"limit"`
}

func (s *Server) handleEraseByFilter(args json.RawMessage) (interface{}, error) {
	var a eraseByFilterArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	return countResult{Count: s.doc.EraseByFilter(a.TypeContains, a.Layer, a.Limit)}, nil
}

// === Raster Output Handlers ===

type exportPNGArgs struct {
	Path   string `json:"path"`
	Width  int    `json:"width"`
	Height int    `json:"height"`
	MaxDim int    `json:"max_dim"`
	Layer  string `json:"layer"`
	Fill   bool   `json:"fill"`
}

func (s *Server) handleExportPNG(args json.RawMessage) (interface{}, error) {
	var a exportPNGArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	opts := s.cfg.RenderOptions()
	if a.Width > 0 {
		opts.Width = a.Width
	}
	if a.Height > 0 {
		opts.Height = a.Height
	}
	opts.Layer = a.Layer
	opts.Fill = a.Fill

	if a.Path != "" {
		res, err := render.ExportPNG(s.doc, a.Path, opts)
		if err != nil {
			return nil, err
		}
		return map[string]interface{}{
			"path":     a.Path,
			"width":    res.Width,
			"height":   res.Height,
			"entities": res.Entities,
		}, nil
	}
	if a.MaxDim > 0 {
		return render.Thumbnail(s.doc, a.MaxDim, opts)
	}
	return render.Render(s.doc, opts)
}
