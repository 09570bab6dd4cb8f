package server

// Tool represents an MCP tool definition
type Tool struct {
	Name        string                 `json:"name"`
	Description string                 `json:"description"`
	InputSchema map[string]interface{} `json:"inputSchema"`
}

func objectSchema(properties map[string]interface{}, required ...string) map[string]interface{} {
	schema := map[string]interface{}{
		"type":       "object",
		"properties": properties,
	}
	if len(required) > 0 {
		schema["required"] = required
	}
	return schema
}

func stringProp(description string) map[string]interface{} {
	return map[string]interface{}{"type": "string", "description": description}
}

func numberProp(description string) map[string]interface{} {
	return map[string]interface{}{"type": "number", "description": description}
}

func integerProp(description string) map[string]interface{} {
	return map[string]interface{}{"type": "integer", "description": description}
}

func boolProp(description string) map[string]interface{} {
	return map[string]interface{}{"type": "boolean", "description": description}
}

func pointProp(description string) map[string]interface{} {
	return map[string]interface{}{
		"type":        "object",
		"description": description,
		"properties": map[string]interface{}{
			"x": map[string]interface{}{"type": "number"},
			"y": map[string]interface{}{"type": "number"},
		},
		"required": []string{"x", "y"},
	}
}

// GetToolDefinitions returns all available tools
func GetToolDefinitions() []Tool {
	return []Tool{
		// Layer Management
		{
			Name:        "ensure_layer",
			Description: "Create a layer if it does not exist and set its color. Colors are names (red, yellow, green, cyan, blue, magenta, white, black) or #RRGGBB hex; unknown colors fall back to white.",
			InputSchema: objectSchema(map[string]interface{}{
				"name":  stringProp("Layer name"),
				"color": stringProp("Layer color name or #RRGGBB hex"),
			}, "name"),
		},
		{
			Name:        "set_current_layer",
			Description: "Make an existing layer the target for entities drawn without an explicit layer.",
			InputSchema: objectSchema(map[string]interface{}{
				"name": stringProp("Layer name, must already exist"),
			}, "name"),
		},
		{
			Name:        "list_layers",
			Description: "List all layers with their colors.",
			InputSchema: objectSchema(map[string]interface{}{}),
		},

		// Drawing Primitives
		{
			Name:        "draw_line",
			Description: "Draw a line between two points. Returns the new entity handle.",
			InputSchema: objectSchema(map[string]interface{}{
				"start": pointProp("Start point"),
				"end":   pointProp("End point"),
				"layer": stringProp("Target layer; empty uses the current layer"),
			}, "start", "end"),
		},
		{
			Name:        "draw_polyline",
			Description: "Draw a polyline through the given points, optionally closed. Returns the new entity handle.",
			InputSchema: objectSchema(map[string]interface{}{
				"points": map[string]interface{}{
					"type":        "array",
					"description": "Vertices in order, at least 2",
					"items":       pointProp("Vertex"),
				},
				"closed": boolProp("Close the contour back to the first point. Default false"),
				"layer":  stringProp("Target layer; empty uses the current layer"),
			}, "points"),
		},
		{
			Name:        "draw_rectangle",
			Description: "Draw an axis-aligned rectangle as a closed polyline from its minimum corner.",
			InputSchema: objectSchema(map[string]interface{}{
				"base":   pointProp("Minimum (lower-left) corner"),
				"width":  numberProp("Width in drawing units"),
				"height": numberProp("Height in drawing units"),
				"layer":  stringProp("Target layer; empty uses the current layer"),
			}, "base", "width", "height"),
		},
		{
			Name:        "draw_circle",
			Description: "Draw a circle with the given center and radius. Returns the new entity handle.",
			InputSchema: objectSchema(map[string]interface{}{
				"center": pointProp("Center point"),
				"radius": numberProp("Radius, must be positive"),
				"layer":  stringProp("Target layer; empty uses the current layer"),
			}, "center", "radius"),
		},
		{
			Name:        "draw_from_center",
			Description: "Draw a circle or square of the given size centered on the model extents center. Fails with reason empty_model when the drawing is empty.",
			InputSchema: objectSchema(map[string]interface{}{
				"shape": map[string]interface{}{
					"type":        "string",
					"enum":        []string{"circle", "square"},
					"description": "Shape to draw",
				},
				"size":  numberProp("Diameter of the circle or side of the square"),
				"layer": stringProp("Target layer; empty uses the current layer"),
			}, "shape", "size"),
		},

		// Model Inspection
		{
			Name:        "list_entities",
			Description: "List entities with handle, type, and layer, in drawing order.",
			InputSchema: objectSchema(map[string]interface{}{
				"layer":         stringProp("Restrict to one layer; empty lists all layers"),
				"type_contains": stringProp("Substring filter on the entity type (line, polyline, circle)"),
				"limit":         integerProp("Maximum entries returned. Default 100"),
			}),
		},
		{
			Name:        "get_extents",
			Description: "Get the bounding box of the whole model: min, max, and center.",
			InputSchema: objectSchema(map[string]interface{}{}),
		},
		{
			Name:        "snapshot_model",
			Description: "Get a compact model overview in one call: layer names, extents, and a bounded entity listing.",
			InputSchema: objectSchema(map[string]interface{}{
				"layer":         stringProp("Restrict the entity listing to one layer"),
				"type_contains": stringProp("Substring filter on the entity type"),
				"limit":         integerProp("Maximum entities listed. Default 100"),
			}),
		},

		// Shape Recognition
		{
			Name:        "find_closed_polylines",
			Description: "Find closed polylines passing vertex-count and area filters, with their areas and bounding boxes.",
			InputSchema: objectSchema(map[string]interface{}{
				"layer":        stringProp("Restrict to one layer; empty searches all layers"),
				"min_vertices": integerProp("Minimum vertex count. Default 3"),
				"min_area":     numberProp("Minimum enclosed area. Default 0"),
			}),
		},
		{
			Name:        "find_squares",
			Description: "Detect square contours from closed polylines and from loops assembled out of individual lines. The two sources are not cross-deduplicated.",
			InputSchema: objectSchema(map[string]interface{}{
				"layer":            stringProp("Restrict to one layer; empty searches all layers"),
				"include_segments": boolProp("Also assemble loops from individual line entities. Default true"),
				"allow_rectangles": boolProp("Also accept non-square rectangles. Default false"),
				"max_count":        integerProp("Maximum shapes returned. Default 2000"),
			}),
		},
		{
			Name:        "find_circles",
			Description: "Find circles passing a minimum-radius filter, with centers and bounding boxes.",
			InputSchema: objectSchema(map[string]interface{}{
				"layer":      stringProp("Restrict to one layer; empty searches all layers"),
				"min_radius": numberProp("Minimum radius. Default 0"),
				"max_count":  integerProp("Maximum circles returned. Default 5000"),
			}),
		},
		{
			Name:        "pick_largest_closed_polyline",
			Description: "Select the closed polyline with the largest enclosed area. Fails with reason no_closed_polylines when none exists.",
			InputSchema: objectSchema(map[string]interface{}{
				"layer": stringProp("Restrict to one layer; empty searches all layers"),
			}),
		},
		{
			Name:        "pick_largest_circle",
			Description: "Select the circle with the largest radius. Fails with reason no_circles when the drawing has no circles.",
			InputSchema: objectSchema(map[string]interface{}{
				"layer": stringProp("Restrict to one layer; empty searches all layers"),
			}),
		},
		{
			Name:        "measure_largest_bounds",
			Description: "Measure the bounding box of the largest closed polyline: min, max, width, height, and center. Fails with reason no_closed_polylines when none exists.",
			InputSchema: objectSchema(map[string]interface{}{
				"layer": stringProp("Restrict to one layer; empty searches all layers"),
			}),
		},

		// Derived Construction
		{
			Name:        "inscribe_circles_in_squares",
			Description: "Detect squares and inscribe a circle in each: center at the centroid, radius half the side. Returns ok, inserted, skipped, and the target layer.",
			InputSchema: objectSchema(map[string]interface{}{
				"layer_name":       stringProp("Target layer for the circles. Default CIRCLES_YELLOW"),
				"color":            stringProp("Target layer color. Default yellow"),
				"layer_filter":     stringProp("Restrict square detection to one source layer"),
				"allow_rectangles": boolProp("Also inscribe into rectangles. Default false"),
				"max_count":        integerProp("Maximum squares processed. Default 2000"),
			}),
		},
		{
			Name:        "inscribe_squares_in_circles",
			Description: "Inscribe an axis-aligned square in every circle; the square's diagonal equals the circle's diameter.",
			InputSchema: objectSchema(map[string]interface{}{
				"layer_name":   stringProp("Target layer for the squares. Default CIRCLES_YELLOW"),
				"color":        stringProp("Target layer color. Default yellow"),
				"layer_filter": stringProp("Restrict circle selection to one source layer"),
				"max_count":    integerProp("Maximum circles processed. Default 5000"),
			}),
		},
		{
			Name:        "draw_roof_over_largest_square",
			Description: "Build a triangular roof over the largest detected square: eaves on the top edge (optionally overhanging), apex centered above at a height ratio of the base.",
			InputSchema: objectSchema(map[string]interface{}{
				"source_layer": stringProp("Restrict base detection to one layer"),
				"result_layer": stringProp("Target layer; empty falls back to the source layer"),
				"height_ratio": numberProp("Apex height as a fraction of the base height. Default 0.5"),
				"overhang":     numberProp("Horizontal eave extension on each side. Default 0"),
			}),
		},
		{
			Name:        "make_snowman",
			Description: "Compose a snowman from the largest existing circle: three stacked circles, eyes, and optional arm and leg lines with hand and foot circles.",
			InputSchema: objectSchema(map[string]interface{}{
				"source_layer": stringProp("Restrict base-circle selection to one layer"),
				"result_layer": stringProp("Target layer; empty falls back to the source layer, then SNOWMAN"),
				"color":        stringProp("Target layer color. Default white"),
				"middle_scale": numberProp("Middle circle radius as a fraction of the base radius. Default 0.7"),
				"head_scale":   numberProp("Head circle radius as a fraction of the base radius. Default 0.5"),
				"gap_ratio":    numberProp("Vertical gap between circles as a fraction of the base radius. Default 0.1"),
				"draw_arms":    boolProp("Draw arm lines with hand circles. Default true"),
				"draw_legs":    boolProp("Draw leg lines with foot circles. Default true"),
			}),
		},

		// Editing
		{
			Name:        "copy_layer_by_offset",
			Description: "Copy every entity on a layer translated by (dx, dy), optionally onto another layer. Returns the number of copies.",
			InputSchema: objectSchema(map[string]interface{}{
				"source_layer": stringProp("Layer to copy from"),
				"dx":           numberProp("X offset"),
				"dy":           numberProp("Y offset"),
				"target_layer": stringProp("Layer for the copies; empty keeps the source layer"),
				"limit":        integerProp("Maximum entities copied. Default unlimited"),
			}, "source_layer"),
		},
		{
			Name:        "erase_by_handles",
			Description: "Erase the entities with the given handles. Unknown handles are ignored. Returns the number erased.",
			InputSchema: objectSchema(map[string]interface{}{
				"handles": map[string]interface{}{
					"type":        "array",
					"description": "Entity handles to erase",
					"items":       map[string]interface{}{"type": "string"},
				},
			}, "handles"),
		},
		{
			Name:        "erase_on_layer",
			Description: "Erase all entities on a layer. Returns the number erased.",
			InputSchema: objectSchema(map[string]interface{}{
				"layer": stringProp("Layer to clear"),
			}, "layer"),
		},
		{
			Name:        "erase_by_filter",
			Description: "Erase entities matching a type substring and layer filter, up to a limit. Returns the number erased.",
			InputSchema: objectSchema(map[string]interface{}{
				"type_contains": stringProp("Substring filter on the entity type"),
				"layer":         stringProp("Restrict to one layer"),
				"limit":         integerProp("Maximum entities erased. Default unlimited"),
			}),
		},

		// Raster Output
		{
			Name:        "export_png",
			Description: "Rasterize the model to PNG. With a path the image is written to disk; without one it is returned as base64. Entities are stroked in their layer colors on a black background.",
			InputSchema: objectSchema(map[string]interface{}{
				"path":    stringProp("Output file path; empty returns the image as base64 instead"),
				"width":   integerProp("Output width in pixels. Default 800"),
				"height":  integerProp("Output height in pixels; 0 derives it from the model aspect ratio"),
				"max_dim": integerProp("Downscale the base64 image so its longer side fits this many pixels; 0 returns full size. Ignored when a path is given"),
				"layer":   stringProp("Render only one layer; empty renders all layers"),
				"fill":    boolProp("Flood-fill closed polylines with the layer color. Default false"),
			}),
		},
	}
}
