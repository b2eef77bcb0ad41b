// SPDX-License-Identifier: Unlicense OR MIT

package exporters

import (
	"encoding/json"

	"golang.org/x/image/math/fixed"

	textshape "github.com/inkwell/textshape"
)

func init() {
	textshape.RegisterExporter("shaping-data", ShapingData{})
}

// shapingDataSchemaVersion identifies the JSON schema below. Bump it
// whenever a field is renamed or removed; additive fields don't need a
// bump.
const shapingDataSchemaVersion = 1

// ShapingData serializes the shaping results carried alongside a render
// output as a portable, stable-field-name JSON document (spec.md §4.6):
// glyph ids, advances, offsets, clusters, font identity and size, and a
// feature fingerprint, one document per run. There is no third-party
// JSON library anywhere in this module's dependency pack (none of the
// example repos import one; they all use encoding/json directly for
// their own serialization needs), so this exporter follows that
// convention rather than introducing one.
type ShapingData struct{}

// SupportsFormat implements textshape.Exporter.
func (ShapingData) SupportsFormat(format string) bool { return format == "shaping-data" }

type shapingDataDoc struct {
	SchemaVersion int                `json:"schema_version"`
	Runs          []shapingResultDoc `json:"runs"`
}

type shapingResultDoc struct {
	Text         string          `json:"text"`
	Script       string          `json:"script"`
	Direction    string          `json:"direction"`
	FontKey      string          `json:"font_key"`
	PixelSize    float32         `json:"pixel_size"`
	UnitsPerEm   int32           `json:"units_per_em"`
	Features     string          `json:"features"`
	Ascent       float64         `json:"ascent"`
	Descent      float64         `json:"descent"`
	LineGap      float64         `json:"line_gap"`
	TotalAdvance float64         `json:"total_advance"`
	Glyphs       []glyphDoc      `json:"glyphs"`
	Warnings     []warningDoc    `json:"warnings,omitempty"`
}

type glyphDoc struct {
	GID       uint32  `json:"gid"`
	AdvanceX  float64 `json:"advance_x"`
	AdvanceY  float64 `json:"advance_y"`
	OffsetX   float64 `json:"offset_x"`
	OffsetY   float64 `json:"offset_y"`
	Cluster   int     `json:"cluster"`
	RuneCount int     `json:"rune_count,omitempty"`
}

type warningDoc struct {
	Kind    string `json:"kind"`
	Message string `json:"message"`
}

// Export implements textshape.Exporter.
func (ShapingData) Export(output textshape.RenderOutput, options textshape.ExportOptions) ([]byte, error) {
	if len(output.Results) == 0 {
		return nil, textshape.NewError(textshape.StageExport, textshape.KindUnsupportedFormat, "render output carries no shaping results", nil)
	}
	doc := shapingDataDoc{SchemaVersion: shapingDataSchemaVersion}
	for _, r := range output.Results {
		rd := shapingResultDoc{
			Text:         r.Text,
			Script:       r.Script,
			Direction:    r.Direction.String(),
			FontKey:      r.FontKey.String(),
			PixelSize:    r.PixelSize,
			UnitsPerEm:   r.UnitsPerEm,
			Features:     r.Features,
			Ascent:       f26f(r.Ascent),
			Descent:      f26f(r.Descent),
			LineGap:      f26f(r.LineGap),
			TotalAdvance: f26f(r.TotalAdvance),
		}
		for _, g := range r.Glyphs {
			rd.Glyphs = append(rd.Glyphs, glyphDoc{
				GID:       g.GID,
				AdvanceX:  f26f(g.AdvanceX),
				AdvanceY:  f26f(g.AdvanceY),
				OffsetX:   f26f(g.OffsetX),
				OffsetY:   f26f(g.OffsetY),
				Cluster:   g.Cluster,
				RuneCount: g.RuneCount,
			})
		}
		for _, w := range r.Warnings {
			rd.Warnings = append(rd.Warnings, warningDoc{Kind: w.Kind.String(), Message: w.Message})
		}
		doc.Runs = append(doc.Runs, rd)
	}
	return json.MarshalIndent(doc, "", "  ")
}

func f26f(v fixed.Int26_6) float64 {
	return float64(v) / 64
}
