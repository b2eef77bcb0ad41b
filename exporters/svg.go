// SPDX-License-Identifier: Unlicense OR MIT

package exporters

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image/png"

	"golang.org/x/image/math/fixed"

	textshape "github.com/inkwell/textshape"
)

func init() {
	textshape.RegisterExporter("svg", SVG{})
}

// SVG hand-writes a minimal SVG document: a root <svg> sized to the
// raster bounds and one filled <path> per glyph (spec.md §4.6). There
// is no XML or SVG-path library in this module's dependency pack
// suited to round-tripping a short, fully-controlled fixed document
// like this one, so the writer is a small, direct string builder in
// the same spirit as the rest of this module's format encoders
// (PNG/PNM use codecs; this format doesn't have one to reach for).
type SVG struct{}

// SupportsFormat implements textshape.Exporter.
func (SVG) SupportsFormat(format string) bool { return format == "svg" }

// Export implements textshape.Exporter.
//
// If output carries only a raster (a bitmap-only rasterizer backend
// was used), SVG either refuses with KindUnsupportedFormat or embeds
// the raster as a base64 PNG <image> element, depending on
// options.EmbedRasterInSVG (spec.md §4.6's explicitly open choice;
// this module resolves it by making embedding opt-in so that refusal
// remains the default, least-surprising behavior).
func (SVG) Export(output textshape.RenderOutput, options textshape.ExportOptions) ([]byte, error) {
	var buf bytes.Buffer
	switch {
	case len(output.Paths) > 0:
		w, h := svgBoundsFromPaths(output.Paths)
		fmt.Fprintf(&buf, "<svg xmlns=\"http://www.w3.org/2000/svg\" width=\"%d\" height=\"%d\" viewBox=\"0 0 %d %d\">\n", w, h, w, h)
		for _, p := range output.Paths {
			writeSVGPath(&buf, p)
		}
		buf.WriteString("</svg>\n")
	case output.Raster != nil:
		if !options.EmbedRasterInSVG {
			return nil, textshape.NewError(textshape.StageExport, textshape.KindUnsupportedFormat,
				"render output has no vector paths; set EmbedRasterInSVG to embed the raster instead", nil)
		}
		r := output.Raster
		var rasterPNG bytes.Buffer
		if err := encodePNG(&rasterPNG, r); err != nil {
			return nil, textshape.NewError(textshape.StageExport, textshape.KindInternal, "encode embedded raster", err)
		}
		fmt.Fprintf(&buf, "<svg xmlns=\"http://www.w3.org/2000/svg\" width=\"%d\" height=\"%d\" viewBox=\"0 0 %d %d\">\n", r.Width, r.Height, r.Width, r.Height)
		fmt.Fprintf(&buf, "<image width=\"%d\" height=\"%d\" href=\"data:image/png;base64,%s\"/>\n", r.Width, r.Height, base64.StdEncoding.EncodeToString(rasterPNG.Bytes()))
		buf.WriteString("</svg>\n")
	default:
		return nil, textshape.NewError(textshape.StageExport, textshape.KindUnsupportedFormat, "render output has neither paths nor a raster", nil)
	}
	return buf.Bytes(), nil
}

func encodePNG(buf *bytes.Buffer, r *textshape.Raster) error {
	return png.Encode(buf, rasterToRGBA(r))
}

func svgBoundsFromPaths(paths []textshape.Path) (w, h int) {
	for _, p := range paths {
		for _, pt := range p.Points {
			if x := pt.X.Ceil(); x > w {
				w = x
			}
			if y := pt.Y.Ceil(); y > h {
				h = y
			}
		}
	}
	return
}

func writeSVGPath(buf *bytes.Buffer, p textshape.Path) {
	buf.WriteString(`<path d="`)
	pi := 0
	for _, v := range p.Verbs {
		switch v {
		case textshape.VerbMove:
			pt := p.Points[pi]
			fmt.Fprintf(buf, "M%g,%g ", f26(pt.X), f26(pt.Y))
			pi++
		case textshape.VerbLine:
			pt := p.Points[pi]
			fmt.Fprintf(buf, "L%g,%g ", f26(pt.X), f26(pt.Y))
			pi++
		case textshape.VerbQuad:
			c, to := p.Points[pi], p.Points[pi+1]
			fmt.Fprintf(buf, "Q%g,%g %g,%g ", f26(c.X), f26(c.Y), f26(to.X), f26(to.Y))
			pi += 2
		case textshape.VerbCube:
			c0, c1, to := p.Points[pi], p.Points[pi+1], p.Points[pi+2]
			fmt.Fprintf(buf, "C%g,%g %g,%g %g,%g ", f26(c0.X), f26(c0.Y), f26(c1.X), f26(c1.Y), f26(to.X), f26(to.Y))
			pi += 3
		case textshape.VerbClose:
			buf.WriteString("Z ")
		}
	}
	fmt.Fprintf(buf, "\" fill=\"rgb(%d,%d,%d)\" fill-opacity=\"%g\"/>\n", p.Fill.R, p.Fill.G, p.Fill.B, float64(p.Fill.A)/255)
}

func f26(v fixed.Int26_6) float64 {
	return float64(v.Round())
}
