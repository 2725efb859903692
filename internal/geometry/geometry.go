// Package geometry converts between a rendered page's pixel space and a
// document's native point space, and computes placement boxes for anchored
// and tiled elements.
//
// Raster (interaction) space has its origin at the top-left with y growing
// downward; native document space has its origin at the bottom-left with y
// growing upward. Every coordinate crossing that boundary goes through a
// PageSpace so the per-page scale factor is applied, never a global one.
package geometry

import (
	"fmt"
	"math"
)

const (
	// anchorMargin is the fixed distance in native points between an
	// anchored element's bounding box and the page edge.
	anchorMargin = 20.0

	// tileSpacing is the fixed inter-tile gap in native points.
	tileSpacing = 100.0
)

// Point is a position in either raster or native space.
type Point struct {
	X float64
	Y float64
}

// Box is an axis-aligned rectangle anchored at its lower-left corner in
// native space, or its top-left corner in raster space.
type Box struct {
	X      float64
	Y      float64
	Width  float64
	Height float64
}

// PageSpace pairs one page's native size with the pixel size of its
// rendered preview. Raster dimensions must share the page's aspect ratio.
type PageSpace struct {
	NativeW float64
	NativeH float64
	RasterW float64
	RasterH float64
}

// Validate checks that both spaces have positive extent.
func (ps PageSpace) Validate() error {
	if ps.NativeW <= 0 || ps.NativeH <= 0 {
		return fmt.Errorf("native page size must be positive, got %gx%g", ps.NativeW, ps.NativeH)
	}
	if ps.RasterW <= 0 || ps.RasterH <= 0 {
		return fmt.Errorf("raster page size must be positive, got %gx%g", ps.RasterW, ps.RasterH)
	}
	return nil
}

// ScaleX returns the native-units-per-pixel factor on the x axis.
func (ps PageSpace) ScaleX() float64 {
	return ps.NativeW / ps.RasterW
}

// ScaleY returns the native-units-per-pixel factor on the y axis.
func (ps PageSpace) ScaleY() float64 {
	return ps.NativeH / ps.RasterH
}

// RasterToNative maps a raster point to native space, flipping the
// vertical axis.
func (ps PageSpace) RasterToNative(p Point) Point {
	return Point{
		X: p.X * ps.ScaleX(),
		Y: ps.NativeH - p.Y*ps.ScaleY(),
	}
}

// NativeToRaster maps a native point back to raster space.
func (ps PageSpace) NativeToRaster(p Point) Point {
	return Point{
		X: p.X / ps.ScaleX(),
		Y: (ps.NativeH - p.Y) / ps.ScaleY(),
	}
}

// RasterBoxToNative maps a raster box whose interaction anchor is its
// top-left corner into a native box anchored at its lower-left corner.
// The element's own native height is subtracted so content does not render
// with its baseline at the click point instead of its top.
func (ps PageSpace) RasterBoxToNative(b Box) Box {
	w := b.Width * ps.ScaleX()
	h := b.Height * ps.ScaleY()
	return Box{
		X:      b.X * ps.ScaleX(),
		Y:      ps.NativeH - b.Y*ps.ScaleY() - h,
		Width:  w,
		Height: h,
	}
}

// NativeBoxToRaster is the inverse of RasterBoxToNative.
func (ps PageSpace) NativeBoxToRaster(b Box) Box {
	w := b.Width / ps.ScaleX()
	h := b.Height / ps.ScaleY()
	return Box{
		X:      b.X / ps.ScaleX(),
		Y:      (ps.NativeH - b.Y - b.Height) / ps.ScaleY(),
		Width:  w,
		Height: h,
	}
}

// Anchor is one of the nine fixed placement zones plus the tiling mode.
type Anchor int

const (
	AnchorCenter Anchor = iota
	AnchorTopLeft
	AnchorTopCenter
	AnchorTopRight
	AnchorMiddleLeft
	AnchorMiddleRight
	AnchorBottomLeft
	AnchorBottomCenter
	AnchorBottomRight
	AnchorTile
)

var anchorNames = map[string]Anchor{
	"center":        AnchorCenter,
	"top-left":      AnchorTopLeft,
	"top-center":    AnchorTopCenter,
	"top-right":     AnchorTopRight,
	"middle-left":   AnchorMiddleLeft,
	"middle-right":  AnchorMiddleRight,
	"bottom-left":   AnchorBottomLeft,
	"bottom-center": AnchorBottomCenter,
	"bottom-right":  AnchorBottomRight,
	"tile":          AnchorTile,
}

// ParseAnchor resolves an anchor by its hyphenated name.
func ParseAnchor(name string) (Anchor, error) {
	a, ok := anchorNames[name]
	if !ok {
		return 0, fmt.Errorf("unknown anchor position %q", name)
	}
	return a, nil
}

// String returns the hyphenated anchor name.
func (a Anchor) String() string {
	for name, v := range anchorNames {
		if v == a {
			return name
		}
	}
	return "unknown"
}

// RotatedBounds returns the axis-aligned bounding box of a w x h element
// rotated by angleDeg.
func RotatedBounds(w, h, angleDeg float64) (boxW, boxH float64) {
	rad := angleDeg * math.Pi / 180
	absCos := math.Abs(math.Cos(rad))
	absSin := math.Abs(math.Sin(rad))
	boxW = w*absCos + h*absSin
	boxH = w*absSin + h*absCos
	return boxW, boxH
}

// AnchorPositions computes the native-space lower-left placement points for
// an element of size elemW x elemH rotated by angleDeg on a pageW x pageH
// page. The rotated bounding box is used for every anchor so rotated
// elements never clip outside the margin. For AnchorTile the full covering
// grid is returned in deterministic row-major order, stepping from
// (-boxW, -boxH) to (pageW+boxW, pageH+boxH) by box size plus spacing.
func AnchorPositions(pageW, pageH, elemW, elemH float64, anchor Anchor, angleDeg float64) []Point {
	boxW, boxH := RotatedBounds(elemW, elemH, angleDeg)

	if anchor == AnchorTile {
		var tiles []Point
		for y := -boxH; y < pageH+boxH; y += boxH + tileSpacing {
			for x := -boxW; x < pageW+boxW; x += boxW + tileSpacing {
				tiles = append(tiles, Point{X: x, Y: y})
			}
		}
		return tiles
	}

	m := anchorMargin
	var p Point
	switch anchor {
	case AnchorCenter:
		p = Point{X: (pageW - boxW) / 2, Y: (pageH - boxH) / 2}
	case AnchorTopLeft:
		p = Point{X: m, Y: pageH - boxH - m}
	case AnchorTopCenter:
		p = Point{X: (pageW - boxW) / 2, Y: pageH - boxH - m}
	case AnchorTopRight:
		p = Point{X: pageW - boxW - m, Y: pageH - boxH - m}
	case AnchorMiddleLeft:
		p = Point{X: m, Y: (pageH - boxH) / 2}
	case AnchorMiddleRight:
		p = Point{X: pageW - boxW - m, Y: (pageH - boxH) / 2}
	case AnchorBottomLeft:
		p = Point{X: m, Y: m}
	case AnchorBottomCenter:
		p = Point{X: (pageW - boxW) / 2, Y: m}
	case AnchorBottomRight:
		p = Point{X: pageW - boxW - m, Y: m}
	}
	return []Point{p}
}

// TileSpacing exposes the fixed inter-tile gap for coverage checks.
func TileSpacing() float64 {
	return tileSpacing
}

// Margin exposes the fixed anchor margin.
func Margin() float64 {
	return anchorMargin
}
