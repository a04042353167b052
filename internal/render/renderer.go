package render

import (
	"bytes"
	"fmt"
	"image/color"
	"image/png"
	"math"
	"os"
	"path/filepath"
	"sync"

	"github.com/fogleman/gg"

	"blob-garden/internal/vis"
)

// Renderer rasterizes frame snapshots to PNG. It reads only immutable
// snapshot data and never touches engine state, so it can run on any
// goroutine concurrently with the tick loop.
type Renderer struct {
	width  int
	height int

	// gg contexts are not safe for concurrent use
	mu sync.Mutex
	dc *gg.Context

	fontPath string
}

// NewRenderer creates a renderer for the given canvas dimensions.
func NewRenderer(width, height int) *Renderer {
	return &Renderer{
		width:    width,
		height:   height,
		dc:       gg.NewContext(width, height),
		fontPath: findFontPath(),
	}
}

// RenderPNG rasterizes a snapshot and encodes it as PNG.
func (r *Renderer) RenderPNG(snap *vis.FrameSnapshot) ([]byte, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.drawFrame(r.dc, snap)

	var buf bytes.Buffer
	if err := png.Encode(&buf, r.dc.Image()); err != nil {
		return nil, fmt.Errorf("png encode: %w", err)
	}

	return buf.Bytes(), nil
}

func (r *Renderer) drawFrame(dc *gg.Context, snap *vis.FrameSnapshot) {
	// Background with soft white
	dc.SetColor(color.RGBA{250, 250, 255, 255})
	dc.DrawRectangle(0, 0, float64(r.width), float64(r.height))
	dc.Fill()

	cx := float64(r.width) / 2
	cy := float64(r.height) / 2

	r.drawRipple(dc, snap, cx, cy)
	r.drawBlob(dc, snap, cx, cy)
	r.drawEntities(dc, snap, cx, cy)
	r.drawCallouts(dc, snap, cx, cy)
	r.drawHUD(dc, snap)
}

// drawBlob fills and strokes the amoeba contour. Contour points are
// relative to the blob center.
func (r *Renderer) drawBlob(dc *gg.Context, snap *vis.FrameSnapshot, cx, cy float64) {
	if len(snap.Contour) < 3 {
		return
	}

	dc.NewSubPath()
	dc.MoveTo(cx+snap.Contour[0].X, cy+snap.Contour[0].Y)
	for _, p := range snap.Contour[1:] {
		dc.LineTo(cx+p.X, cy+p.Y)
	}
	dc.ClosePath()

	fill := parseHexColor(snap.FillColor)
	dc.SetColor(fill)
	dc.FillPreserve()

	stroke := parseHexColor(snap.StrokeColor)
	dc.SetColor(stroke)
	dc.SetLineWidth(3 + snap.Pressure*2)
	dc.Stroke()
}

// drawRipple draws the expanding click ring behind the blob.
func (r *Renderer) drawRipple(dc *gg.Context, snap *vis.FrameSnapshot, cx, cy float64) {
	if snap.RippleIntensity <= 0.01 {
		return
	}

	// Ripple radius grows with phase; intensity fades the ring out
	radius := 80 + snap.RipplePhase*40
	alpha := uint8(math.Min(snap.RippleIntensity, 1) * 160)

	ring := parseHexColor(snap.StrokeColor)
	ring.A = alpha

	dc.SetColor(ring)
	dc.SetLineWidth(4)
	dc.DrawCircle(cx, cy, radius)
	dc.Stroke()
}

func (r *Renderer) drawEntities(dc *gg.Context, snap *vis.FrameSnapshot, cx, cy float64) {
	for i := range snap.Entities {
		e := &snap.Entities[i]
		x := cx + e.X
		y := cy + e.Y

		// Shadow
		dc.SetColor(color.RGBA{0, 0, 0, 60})
		dc.DrawCircle(x+2, y+3, 18)
		dc.Fill()

		// Token disc tinted by contribution tier
		tint := parseHexColor(e.Color)
		dc.SetColor(tint)
		dc.DrawCircle(x, y, 18)
		dc.Fill()

		dc.SetColor(color.RGBA{255, 255, 255, 220})
		dc.SetLineWidth(2)
		dc.DrawCircle(x, y, 18)
		dc.Stroke()

		if r.fontPath == "" {
			continue
		}

		dc.SetColor(color.RGBA{20, 25, 35, 255})
		if err := dc.LoadFontFace(r.fontPath, 16); err == nil {
			dc.DrawStringAnchored(e.Icon, x, y, 0.5, 0.5)
			if e.Count > 1 {
				dc.DrawStringAnchored(fmt.Sprintf("x%d", e.Count), x, y+30, 0.5, 0.5)
			}
		}
	}
}

func (r *Renderer) drawCallouts(dc *gg.Context, snap *vis.FrameSnapshot, cx, cy float64) {
	if r.fontPath == "" {
		return
	}

	if err := dc.LoadFontFace(r.fontPath, 14); err != nil {
		return
	}

	for i := range snap.Callouts {
		c := &snap.Callouts[i]
		dc.SetColor(parseHexColor(c.Color))
		dc.DrawStringAnchored(fmt.Sprintf("+%.1f", c.Value), c.X, c.Y-24, 0.5, 0.5)
	}
}

func (r *Renderer) drawHUD(dc *gg.Context, snap *vis.FrameSnapshot) {
	if r.fontPath == "" {
		return
	}

	if err := dc.LoadFontFace(r.fontPath, 16); err != nil {
		return
	}

	dc.SetColor(color.RGBA{20, 25, 35, 255})
	dc.DrawString(fmt.Sprintf("output %.1f/s", snap.TotalOutput), 20, 30)
	dc.DrawString(fmt.Sprintf("%.0f clicks/min", snap.ClicksPerMinute), 20, 52)
	dc.DrawString(fmt.Sprintf("%d entities", snap.EntityCount), 20, 74)
}

// parseHexColor parses "#rrggbb" into an opaque RGBA. Unparseable
// strings fall back to mid-gray so a bad color never hides a frame.
func parseHexColor(s string) color.RGBA {
	c := color.RGBA{127, 140, 141, 255}
	if len(s) != 7 || s[0] != '#' {
		return c
	}
	var r, g, b uint8
	if _, err := fmt.Sscanf(s[1:], "%02x%02x%02x", &r, &g, &b); err != nil {
		return c
	}
	return color.RGBA{r, g, b, 255}
}

// findFontPath locates a usable TTF for text rendering.
// Returns "" when no font is available; text is skipped in that case.
func findFontPath() string {
	paths := []string{
		"/usr/share/fonts/truetype/dejavu/DejaVuSans.ttf",
		"/usr/share/fonts/TTF/DejaVuSans.ttf",
		"/System/Library/Fonts/Helvetica.ttc",
		"C:\\Windows\\Fonts\\segoeui.ttf",
	}

	for _, p := range paths {
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}

	matches, _ := filepath.Glob("*.ttf")
	if len(matches) > 0 {
		return matches[0]
	}

	return ""
}
