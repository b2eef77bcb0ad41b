// SPDX-License-Identifier: Unlicense OR MIT

// Package textshape implements a text shaping and rasterization pipeline:
// Unicode itemization, font loading, OpenType shaping, glyph rasterization
// and compositing, and export to raster, vector, or structured-data formats.
//
// The pipeline is a sequence of stages (see Pipeline) backed by swappable
// named implementations of Shaper, Rasterizer and Exporter. A process-wide
// font store and two bounded caches (shaped runs, rasterized glyphs) are
// shared across concurrent pipeline invocations.
package textshape
