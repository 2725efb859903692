package geometry

import (
	"math"
	"testing"
)

const epsilon = 1e-9

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < epsilon
}

func TestPageSpaceValidate(t *testing.T) {
	tests := []struct {
		name    string
		space   PageSpace
		wantErr bool
	}{
		{"valid", PageSpace{612, 792, 918, 1188}, false},
		{"zero native", PageSpace{0, 792, 918, 1188}, true},
		{"negative raster", PageSpace{612, 792, -1, 1188}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.space.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestRasterToNativeFlipsVerticalAxis(t *testing.T) {
	// Letter page rendered at 1.5x.
	ps := PageSpace{NativeW: 612, NativeH: 792, RasterW: 918, RasterH: 1188}

	// Top-left raster corner maps to top-left in native terms: y = NativeH.
	top := ps.RasterToNative(Point{X: 0, Y: 0})
	if !almostEqual(top.X, 0) || !almostEqual(top.Y, 792) {
		t.Errorf("top-left corner mapped to (%g, %g), want (0, 792)", top.X, top.Y)
	}

	// Bottom-right raster corner.
	bottom := ps.RasterToNative(Point{X: 918, Y: 1188})
	if !almostEqual(bottom.X, 612) || !almostEqual(bottom.Y, 0) {
		t.Errorf("bottom-right corner mapped to (%g, %g), want (612, 0)", bottom.X, bottom.Y)
	}
}

func TestRasterNativeRoundTrip(t *testing.T) {
	ps := PageSpace{NativeW: 595, NativeH: 842, RasterW: 893, RasterH: 1263}
	points := []Point{{0, 0}, {100, 250}, {893, 1263}, {446.5, 631.5}}

	for _, p := range points {
		back := ps.NativeToRaster(ps.RasterToNative(p))
		if !almostEqual(back.X, p.X) || !almostEqual(back.Y, p.Y) {
			t.Errorf("round trip of (%g, %g) yielded (%g, %g)", p.X, p.Y, back.X, back.Y)
		}
	}
}

func TestRasterBoxToNativeSubtractsElementHeight(t *testing.T) {
	// 2x render scale for easy arithmetic.
	ps := PageSpace{NativeW: 500, NativeH: 1000, RasterW: 1000, RasterH: 2000}

	// A 100x200 px box clicked at raster (200, 400): the element's top edge
	// is at the click point, so its native lower-left y must account for
	// the element's own native height (100 points here).
	b := ps.RasterBoxToNative(Box{X: 200, Y: 400, Width: 100, Height: 200})

	if !almostEqual(b.X, 100) {
		t.Errorf("native x = %g, want 100", b.X)
	}
	// nativeY = 1000 - 400*0.5 - 200*0.5 = 700
	if !almostEqual(b.Y, 700) {
		t.Errorf("native y = %g, want 700", b.Y)
	}
	if !almostEqual(b.Width, 50) || !almostEqual(b.Height, 100) {
		t.Errorf("native size = %gx%g, want 50x100", b.Width, b.Height)
	}
}

func TestBoxRoundTrip(t *testing.T) {
	ps := PageSpace{NativeW: 612, NativeH: 792, RasterW: 918, RasterH: 1188}
	in := Box{X: 120, Y: 330, Width: 90, Height: 45}

	out := ps.NativeBoxToRaster(ps.RasterBoxToNative(in))
	if !almostEqual(out.X, in.X) || !almostEqual(out.Y, in.Y) ||
		!almostEqual(out.Width, in.Width) || !almostEqual(out.Height, in.Height) {
		t.Errorf("box round trip yielded %+v, want %+v", out, in)
	}
}

func TestRotatedBounds(t *testing.T) {
	tests := []struct {
		name       string
		w, h, deg  float64
		wantW, wantH float64
	}{
		{"no rotation", 100, 50, 0, 100, 50},
		{"quarter turn", 100, 50, 90, 50, 100},
		{"half turn", 100, 50, 180, 100, 50},
		{"negative quarter", 100, 50, -90, 50, 100},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gotW, gotH := RotatedBounds(tt.w, tt.h, tt.deg)
			if !almostEqual(gotW, tt.wantW) || !almostEqual(gotH, tt.wantH) {
				t.Errorf("RotatedBounds(%g, %g, %g) = (%g, %g), want (%g, %g)",
					tt.w, tt.h, tt.deg, gotW, gotH, tt.wantW, tt.wantH)
			}
		})
	}

	// 45 degrees: both extents are (w+h)/sqrt(2).
	w45, h45 := RotatedBounds(100, 50, 45)
	want := 150 / math.Sqrt2
	if !almostEqual(w45, want) || !almostEqual(h45, want) {
		t.Errorf("RotatedBounds at 45 = (%g, %g), want (%g, %g)", w45, h45, want, want)
	}
}

func TestAnchorPositionsRespectMargin(t *testing.T) {
	const pageW, pageH = 612.0, 792.0
	const elemW, elemH = 100.0, 40.0

	tests := []struct {
		anchor Anchor
		want   Point
	}{
		{AnchorCenter, Point{(pageW - elemW) / 2, (pageH - elemH) / 2}},
		{AnchorTopLeft, Point{20, pageH - elemH - 20}},
		{AnchorTopCenter, Point{(pageW - elemW) / 2, pageH - elemH - 20}},
		{AnchorTopRight, Point{pageW - elemW - 20, pageH - elemH - 20}},
		{AnchorMiddleLeft, Point{20, (pageH - elemH) / 2}},
		{AnchorMiddleRight, Point{pageW - elemW - 20, (pageH - elemH) / 2}},
		{AnchorBottomLeft, Point{20, 20}},
		{AnchorBottomCenter, Point{(pageW - elemW) / 2, 20}},
		{AnchorBottomRight, Point{pageW - elemW - 20, 20}},
	}

	for _, tt := range tests {
		t.Run(tt.anchor.String(), func(t *testing.T) {
			got := AnchorPositions(pageW, pageH, elemW, elemH, tt.anchor, 0)
			if len(got) != 1 {
				t.Fatalf("expected a single position, got %d", len(got))
			}
			if !almostEqual(got[0].X, tt.want.X) || !almostEqual(got[0].Y, tt.want.Y) {
				t.Errorf("position = (%g, %g), want (%g, %g)", got[0].X, got[0].Y, tt.want.X, tt.want.Y)
			}
		})
	}
}

func TestAnchorPositionsRotationKeepsBoxInsideMargin(t *testing.T) {
	// At 90 degrees the box dimensions swap, so a bottom-right anchored
	// element must be offset by the rotated height, not the original.
	got := AnchorPositions(612, 792, 100, 40, AnchorBottomRight, 90)
	if len(got) != 1 {
		t.Fatalf("expected a single position, got %d", len(got))
	}
	if !almostEqual(got[0].X, 612-40-20) {
		t.Errorf("x = %g, want %g", got[0].X, 612-40.0-20.0)
	}
}

func TestTileCoverage(t *testing.T) {
	const pageW, pageH = 612.0, 792.0
	const elemW, elemH = 100.0, 40.0

	tiles := AnchorPositions(pageW, pageH, elemW, elemH, AnchorTile, 0)
	if len(tiles) == 0 {
		t.Fatal("tiling produced no positions")
	}

	// The grid must start off-page and step uniformly.
	if !almostEqual(tiles[0].X, -elemW) || !almostEqual(tiles[0].Y, -elemH) {
		t.Errorf("first tile at (%g, %g), want (%g, %g)", tiles[0].X, tiles[0].Y, -elemW, -elemH)
	}

	// Collect distinct x and y coordinates and check gaps never exceed
	// box + spacing, which bounds visible gaps by the configured spacing.
	xs := map[float64]bool{}
	ys := map[float64]bool{}
	for _, p := range tiles {
		xs[p.X] = true
		ys[p.Y] = true
	}
	stepX := elemW + TileSpacing()
	stepY := elemH + TileSpacing()
	for x := -elemW; x < pageW+elemW; x += stepX {
		if !xs[x] {
			t.Errorf("missing tile column at x=%g", x)
		}
	}
	for y := -elemH; y < pageH+elemH; y += stepY {
		if !ys[y] {
			t.Errorf("missing tile row at y=%g", y)
		}
	}

	// Coverage: every point of [0,W]x[0,H] is within one step of a tile
	// origin, so no gap larger than the spacing remains.
	maxX := -elemW
	for x := range xs {
		if x > maxX {
			maxX = x
		}
	}
	if maxX+stepX < pageW {
		t.Errorf("tiling stops short of the right edge: last column %g", maxX)
	}
}

func TestTileDeterminism(t *testing.T) {
	a := AnchorPositions(612, 792, 80, 30, AnchorTile, -45)
	b := AnchorPositions(612, 792, 80, 30, AnchorTile, -45)
	if len(a) != len(b) {
		t.Fatalf("non-deterministic tile count: %d vs %d", len(a), len(b))
	}
	for i := range a {
		if a[i] != b[i] {
			t.Errorf("tile %d differs: %+v vs %+v", i, a[i], b[i])
		}
	}
}

func TestParseAnchor(t *testing.T) {
	for name := range anchorNames {
		a, err := ParseAnchor(name)
		if err != nil {
			t.Errorf("ParseAnchor(%q) returned error: %v", name, err)
		}
		if a.String() != name {
			t.Errorf("round trip of %q yielded %q", name, a.String())
		}
	}
	if _, err := ParseAnchor("upper-middle"); err == nil {
		t.Error("expected error for unknown anchor name")
	}
}
