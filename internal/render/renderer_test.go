package render

import (
	"bytes"
	"image/png"
	"testing"

	"blob-garden/internal/vis"
)

func testSnapshot() *vis.FrameSnapshot {
	return &vis.FrameSnapshot{
		Entities: []vis.EntitySnapshot{
			{ID: "cursor", Icon: "👆", X: 30, Y: -20, Count: 3, Tier: "medium", Color: "#2ecc71"},
		},
		Callouts: []vis.FloatingNumberEvent{
			{X: 350, Y: 180, Value: 3.0, Color: "#2ecc71"},
		},
		Contour: []vis.Vec2{
			{X: 140, Y: 0}, {X: 0, Y: 140}, {X: -140, Y: 0}, {X: 0, Y: -140}, {X: 140, Y: 0},
		},
		FillColor:       "#27ae60",
		StrokeColor:     "#1e8449",
		RippleIntensity: 0.5,
		RipplePhase:     1.2,
		TotalOutput:     3.0,
		EntityCount:     1,
	}
}

// TestRenderPNG tests that a frame rasterizes to a decodable PNG of the
// configured dimensions
func TestRenderPNG(t *testing.T) {
	r := NewRenderer(640, 360)

	data, err := r.RenderPNG(testSnapshot())
	if err != nil {
		t.Fatalf("RenderPNG failed: %v", err)
	}

	img, err := png.Decode(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("Output is not a valid PNG: %v", err)
	}

	b := img.Bounds()
	if b.Dx() != 640 || b.Dy() != 360 {
		t.Errorf("Expected 640x360 image, got %dx%d", b.Dx(), b.Dy())
	}
}

// TestRenderEmptyFrame tests rendering a frame with no entities or contour
func TestRenderEmptyFrame(t *testing.T) {
	r := NewRenderer(320, 240)

	if _, err := r.RenderPNG(&vis.FrameSnapshot{}); err != nil {
		t.Fatalf("Empty frame should still render: %v", err)
	}
}

// TestParseHexColorFallback tests that malformed colors fall back to gray
func TestParseHexColorFallback(t *testing.T) {
	c := parseHexColor("#2ecc71")
	if c.R != 0x2e || c.G != 0xcc || c.B != 0x71 {
		t.Errorf("Unexpected parse result: %+v", c)
	}

	fallback := parseHexColor("bogus")
	if fallback.R != 127 || fallback.G != 140 || fallback.B != 141 {
		t.Errorf("Malformed color should use gray fallback, got %+v", fallback)
	}
}
