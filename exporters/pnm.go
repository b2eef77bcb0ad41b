// SPDX-License-Identifier: Unlicense OR MIT

package exporters

import (
	"bytes"
	"fmt"

	textshape "github.com/inkwell/textshape"
)

func init() {
	textshape.RegisterExporter("pnm", PNM{})
}

// PNM writes the PNM family (PBM/PGM/PPM): a short ASCII header
// followed by raw, uncompressed pixel data (spec.md §4.6), the
// simplest possible image container and a useful baseline for
// comparing rasterizer output without a codec in the way.
type PNM struct{}

// SupportsFormat implements textshape.Exporter.
func (PNM) SupportsFormat(format string) bool { return format == "pnm" }

// Export implements textshape.Exporter.
func (PNM) Export(output textshape.RenderOutput, options textshape.ExportOptions) ([]byte, error) {
	if output.Raster == nil {
		return nil, textshape.NewError(textshape.StageExport, textshape.KindUnsupportedFormat, "pnm exporter requires a raster render output", nil)
	}
	r := output.Raster
	subtype := options.PNMSubtype
	if subtype == "" {
		subtype = "ppm"
	}
	var buf bytes.Buffer
	switch subtype {
	case "pbm":
		fmt.Fprintf(&buf, "P4\n%d %d\n", r.Width, r.Height)
		writePBM(&buf, r)
	case "pgm":
		fmt.Fprintf(&buf, "P5\n%d %d\n255\n", r.Width, r.Height)
		writePGM(&buf, r)
	case "ppm":
		fmt.Fprintf(&buf, "P6\n%d %d\n255\n", r.Width, r.Height)
		writePPM(&buf, r)
	default:
		return nil, textshape.NewError(textshape.StageExport, textshape.KindUnsupportedFormat, fmt.Sprintf("unknown pnm subtype %q", subtype), nil)
	}
	return buf.Bytes(), nil
}

func sampleAt(r *textshape.Raster, x, y int) (gray byte, alpha byte) {
	switch r.Format {
	case textshape.FormatRGBA8:
		i := y*r.Stride + x*4
		rr, gg, bb, a := r.Pixels[i], r.Pixels[i+1], r.Pixels[i+2], r.Pixels[i+3]
		return byte((int(rr) + int(gg) + int(bb)) / 3), a
	case textshape.FormatA8:
		v := r.Pixels[y*r.Stride+x]
		return v, v
	default: // Format1Bit
		byteIdx := y*r.Stride + x/8
		bit := 7 - uint(x%8)
		if r.Pixels[byteIdx]&(1<<bit) != 0 {
			return 255, 255
		}
		return 0, 0
	}
}

func writePGM(buf *bytes.Buffer, r *textshape.Raster) {
	for y := 0; y < r.Height; y++ {
		for x := 0; x < r.Width; x++ {
			gray, _ := sampleAt(r, x, y)
			buf.WriteByte(gray)
		}
	}
}

func writePPM(buf *bytes.Buffer, r *textshape.Raster) {
	for y := 0; y < r.Height; y++ {
		for x := 0; x < r.Width; x++ {
			if r.Format == textshape.FormatRGBA8 {
				i := y*r.Stride + x*4
				buf.Write(r.Pixels[i : i+3])
			} else {
				gray, _ := sampleAt(r, x, y)
				buf.WriteByte(gray)
				buf.WriteByte(gray)
				buf.WriteByte(gray)
			}
		}
	}
}

func writePBM(buf *bytes.Buffer, r *textshape.Raster) {
	for y := 0; y < r.Height; y++ {
		var b byte
		var bit uint
		for x := 0; x < r.Width; x++ {
			_, a := sampleAt(r, x, y)
			if a >= 128 {
				b |= 1 << (7 - bit)
			}
			bit++
			if bit == 8 {
				buf.WriteByte(b)
				b, bit = 0, 0
			}
		}
		if bit != 0 {
			buf.WriteByte(b)
		}
	}
}
