// SPDX-License-Identifier: Unlicense OR MIT

package exporters

import (
	"encoding/json"
	"testing"

	"golang.org/x/image/math/fixed"

	textshape "github.com/inkwell/textshape"
)

func TestShapingDataExportRoundTrips(t *testing.T) {
	result := textshape.ShapingResult{
		Text:      "Hi",
		Script:    "Latin",
		Direction: textshape.LTR,
		Glyphs: []textshape.PositionedGlyph{
			{GID: 42, AdvanceX: fixed.I(10), Cluster: 0, RuneCount: 1},
		},
		TotalAdvance: fixed.I(10),
	}
	data, err := ShapingData{}.Export(textshape.RenderOutput{Results: []textshape.ShapingResult{result}}, textshape.ExportOptions{})
	if err != nil {
		t.Fatalf("Export error: %v", err)
	}
	var doc map[string]interface{}
	if err := json.Unmarshal(data, &doc); err != nil {
		t.Fatalf("exported data is not valid JSON: %v", err)
	}
	runs, ok := doc["runs"].([]interface{})
	if !ok || len(runs) != 1 {
		t.Fatalf("doc[\"runs\"] = %v, want a single-element array", doc["runs"])
	}
	run := runs[0].(map[string]interface{})
	if run["text"] != "Hi" {
		t.Fatalf("run[\"text\"] = %v, want \"Hi\"", run["text"])
	}
	glyphs, ok := run["glyphs"].([]interface{})
	if !ok || len(glyphs) != 1 {
		t.Fatalf("run[\"glyphs\"] = %v, want a single-element array", run["glyphs"])
	}
}

func TestShapingDataExportRequiresResults(t *testing.T) {
	if _, err := (ShapingData{}).Export(textshape.RenderOutput{}, textshape.ExportOptions{}); err == nil {
		t.Fatal("expected an error exporting a render output with no shaping results")
	}
}

func TestShapingDataSupportsFormat(t *testing.T) {
	if !(ShapingData{}).SupportsFormat("shaping-data") {
		t.Fatal("ShapingData should support format \"shaping-data\"")
	}
}
