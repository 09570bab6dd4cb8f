package server

import (
	"encoding/json"
	"testing"
)

func TestGetToolDefinitions(t *testing.T) {
	tools := GetToolDefinitions()

	if len(tools) == 0 {
		t.Fatal("GetToolDefinitions returned empty slice")
	}

	expectedTools := []string{
		"ensure_layer",
		"set_current_layer",
		"list_layers",
		"draw_line",
		"draw_polyline",
		"draw_rectangle",
		"draw_circle",
		"draw_from_center",
		"list_entities",
		"get_extents",
		"snapshot_model",
		"find_closed_polylines",
		"find_squares",
		"find_circles",
		"pick_largest_closed_polyline",
		"pick_largest_circle",
		"measure_largest_bounds",
		"inscribe_circles_in_squares",
		"inscribe_squares_in_circles",
		"draw_roof_over_largest_square",
		"make_snowman",
		"copy_layer_by_offset",
		"erase_by_handles",
		"erase_on_layer",
		"erase_by_filter",
		"export_png",
	}

	toolMap := make(map[string]Tool)
	for _, tool := range tools {
		if _, dup := toolMap[tool.Name]; dup {
			t.Errorf("Duplicate tool name %s", tool.Name)
		}
		toolMap[tool.Name] = tool
	}

	for _, name := range expectedTools {
		if _, ok := toolMap[name]; !ok {
			t.Errorf("Expected tool %s not found", name)
		}
	}
	if len(tools) != len(expectedTools) {
		t.Errorf("got %d tools, want %d", len(tools), len(expectedTools))
	}
}

func TestToolDefinitions_Structure(t *testing.T) {
	for _, tool := range GetToolDefinitions() {
		t.Run(tool.Name, func(t *testing.T) {
			if tool.Name == "" {
				t.Error("Tool name is empty")
			}
			if tool.Description == "" {
				t.Error("Tool description is empty")
			}
			if tool.InputSchema == nil {
				t.Fatal("Tool input schema is nil")
			}
			if tool.InputSchema["type"] != "object" {
				t.Errorf("Schema type = %v, want object", tool.InputSchema["type"])
			}
			if _, ok := tool.InputSchema["properties"]; !ok {
				t.Error("Schema has no properties")
			}

			// Every tool must correspond to an executable handler. Empty
			// arguments are fine to reject, but "unknown tool" means the
			// definition and the dispatch table drifted apart.
			s := newTestServer(t)
			_, err := s.executeTool(tool.Name, json.RawMessage(`{}`))
			if err != nil && err.Error() == "unknown tool: "+tool.Name {
				t.Errorf("Tool %s has no handler", tool.Name)
			}
		})
	}
}

func TestToolDefinitions_RequiredFieldsExist(t *testing.T) {
	for _, tool := range GetToolDefinitions() {
		required, ok := tool.InputSchema["required"].([]string)
		if !ok {
			continue
		}
		props, ok := tool.InputSchema["properties"].(map[string]interface{})
		if !ok {
			t.Errorf("%s: properties missing", tool.Name)
			continue
		}
		for _, field := range required {
			if _, ok := props[field]; !ok {
				t.Errorf("%s: required field %q not in properties", tool.Name, field)
			}
		}
	}
}

func TestToolDefinitions_Marshal(t *testing.T) {
	// The full definition list must serialize cleanly for tools/list.
	if _, err := json.Marshal(GetToolDefinitions()); err != nil {
		t.Fatalf("failed to marshal tool definitions: %v", err)
	}
}
