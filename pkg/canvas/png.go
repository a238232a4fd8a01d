// Native PNG rendering of a scene.

package canvas

import (
	"fmt"
	"image"
	"image/color"
	"image/png"
	"io"
	"math"

	"golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"
)

// PNGOptions configures PNG rendering.
type PNGOptions struct {
	Width       int
	Height      int
	Padding     int
	FontSize    int
	Supersample int // render at this multiple and scale down; 1 disables
}

// DefaultPNGOptions returns sensible defaults for PNG rendering.
func DefaultPNGOptions() PNGOptions {
	return PNGOptions{
		Width:       800,
		Height:      600,
		Padding:     40,
		FontSize:    14,
		Supersample: 4,
	}
}

var (
	colorWhite = color.RGBA{255, 255, 255, 255}
	colorInk   = color.RGBA{51, 51, 51, 255} // #333
)

// renderContext holds the target image and the supersampling factor.
type renderContext struct {
	img   *image.RGBA
	scale float64
	face  font.Face
}

func newRenderContext(img *image.RGBA, scale int, fontSize int) (*renderContext, error) {
	fnt, err := opentype.Parse(goregular.TTF)
	if err != nil {
		return nil, fmt.Errorf("canvas: parse font: %w", err)
	}
	// No hinting: the supersampled image is scaled down afterwards.
	face, err := opentype.NewFace(fnt, &opentype.FaceOptions{
		Size:    float64(fontSize * scale),
		DPI:     72,
		Hinting: font.HintingNone,
	})
	if err != nil {
		return nil, fmt.Errorf("canvas: font face: %w", err)
	}
	return &renderContext{img: img, scale: float64(scale), face: face}, nil
}

// WritePNG encodes the scene as a PNG image.
func (s *Scene) WritePNG(w io.Writer, opts PNGOptions) error {
	img, err := s.Image(opts)
	if err != nil {
		return err
	}
	return png.Encode(w, img)
}

// Image rasterises the scene.
func (s *Scene) Image(opts PNGOptions) (*image.RGBA, error) {
	def := DefaultPNGOptions()
	if opts.Width <= 0 || opts.Height <= 0 {
		opts.Width, opts.Height = def.Width, def.Height
	}
	if opts.FontSize <= 0 {
		opts.FontSize = def.FontSize
	}
	ss := opts.Supersample
	if ss < 1 {
		ss = 1
	}

	large := image.NewRGBA(image.Rect(0, 0, opts.Width*ss, opts.Height*ss))
	draw.Draw(large, large.Bounds(), image.NewUniform(colorWhite), image.Point{}, draw.Src)

	ctx, err := newRenderContext(large, ss, opts.FontSize)
	if err != nil {
		return nil, err
	}
	s.paint(ctx, float64(opts.Width*ss), float64(opts.Height*ss), float64(opts.Padding*ss))

	if ss == 1 {
		return large, nil
	}
	final := image.NewRGBA(image.Rect(0, 0, opts.Width, opts.Height))
	draw.CatmullRom.Scale(final, final.Bounds(), large, large.Bounds(), draw.Over, nil)
	return final, nil
}

func (s *Scene) paint(ctx *renderContext, width, height, padding float64) {
	if len(s.nodes) == 0 {
		return
	}
	f := newFit(s, width, height, padding)
	r := NodeRadius * f.zoom

	// Edges first so nodes sit on top of them.
	for _, e := range s.edges {
		p, ok := f.edgePath(s, e, r, 12*ctx.scale)
		if !ok {
			continue
		}
		lw := e.Width * ctx.scale
		pts := p.points(80)
		for i := 1; i < len(pts); i++ {
			drawLine(ctx, pts[i-1][0], pts[i-1][1], pts[i][0], pts[i][1], e.Stroke, lw)
		}
		drawArrowHead(ctx, p, e.Stroke, lw)
		drawTextCentered(ctx, int(p.labelX), int(p.labelY), e.Label, colorInk)
	}

	for _, n := range s.nodes {
		x, y := f.point(n.Pos.X, n.Pos.Y)
		drawEllipse(ctx, x, y, r, r, n.Fill, colorInk, 2*ctx.scale)
		drawTextCentered(ctx, int(x), int(y), n.Label, colorInk)
	}
}

// drawEllipse draws a filled ellipse with an outline.
func drawEllipse(ctx *renderContext, cx, cy, rx, ry float64, fill, stroke color.Color, thickness float64) {
	img := ctx.img
	if fill != nil {
		for dy := -ry; dy <= ry; dy++ {
			yNorm := dy / ry
			xExtent := rx * math.Sqrt(math.Max(0, 1-yNorm*yNorm))
			for dx := -xExtent; dx <= xExtent; dx++ {
				img.Set(int(cx+dx), int(cy+dy), fill)
			}
		}
	}
	for angle := 0.0; angle < 2*math.Pi; angle += 0.005 {
		nx, ny := math.Cos(angle), math.Sin(angle)
		x, y := cx+rx*nx, cy+ry*ny
		for t := -thickness / 2; t <= thickness/2; t += 0.5 {
			img.Set(int(x+nx*t), int(y+ny*t), stroke)
		}
	}
}

// drawLine draws a line of the given thickness.
func drawLine(ctx *renderContext, x1, y1, x2, y2 float64, c color.Color, thickness float64) {
	img := ctx.img
	dx, dy := x2-x1, y2-y1
	half := thickness / 2
	dist := math.Hypot(dx, dy)
	if dist < 1 {
		for ty := -half; ty <= half; ty++ {
			for tx := -half; tx <= half; tx++ {
				img.Set(int(x1+tx), int(y1+ty), c)
			}
		}
		return
	}
	steps := math.Max(math.Abs(dx), math.Abs(dy))
	perpX, perpY := -dy/dist, dx/dist
	for i := 0.0; i <= steps; i++ {
		t := i / steps
		px, py := x1+dx*t, y1+dy*t
		for off := -half; off <= half; off += 0.5 {
			img.Set(int(px+perpX*off), int(py+perpY*off), c)
		}
	}
}

// drawArrowHead fills the arrowhead at the end of p.
func drawArrowHead(ctx *renderContext, p edgePath, c color.Color, thickness float64) {
	ax1, ay1, ax2, ay2 := p.arrowHead(8*ctx.scale+thickness, 4*ctx.scale+thickness/2)
	for t := 0.0; t <= 1.0; t += 0.05 {
		drawLine(ctx, p.ex, p.ey, ax1+(ax2-ax1)*t, ay1+(ay2-ay1)*t, c, ctx.scale)
	}
}

// drawTextCentered draws text centred on (x, y) in Go Regular.
func drawTextCentered(ctx *renderContext, x, y int, text string, c color.Color) {
	if text == "" {
		return
	}
	width := font.MeasureString(ctx.face, text).Ceil()
	// Cap height is roughly 0.7 of the ascent; put the baseline half of that
	// below the centre.
	ascent := ctx.face.Metrics().Ascent.Ceil()
	baseline := y + int(float64(ascent)*0.35)

	d := &font.Drawer{
		Dst:  ctx.img,
		Src:  image.NewUniform(c),
		Face: ctx.face,
		Dot:  fixed.Point26_6{X: fixed.I(x - width/2), Y: fixed.I(baseline)},
	}
	d.DrawString(text)
}
