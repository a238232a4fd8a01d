package canvas

import (
	"fmt"
	"html"
	"strings"
)

// SVGOptions controls SVG output.
type SVGOptions struct {
	Width    int    // canvas width in pixels
	Height   int    // canvas height in pixels
	Padding  int    // space kept free around the drawing
	FontSize int    // state label size; edge labels are two points smaller
	Title    string // optional caption drawn at the top
}

// DefaultSVGOptions returns sensible defaults.
func DefaultSVGOptions() SVGOptions {
	return SVGOptions{
		Width:    800,
		Height:   600,
		Padding:  40,
		FontSize: 14,
	}
}

// SVG renders the scene as a standalone SVG document.
func (s *Scene) SVG(opts SVGOptions) string {
	def := DefaultSVGOptions()
	if opts.Width <= 0 || opts.Height <= 0 {
		opts.Width, opts.Height = def.Width, def.Height
	}
	if opts.FontSize <= 0 {
		opts.FontSize = def.FontSize
	}
	labelSize := opts.FontSize - 2
	if labelSize < 8 {
		labelSize = 8
	}
	top := float64(opts.Padding)
	if opts.Title != "" {
		top += float64(opts.FontSize) + 8
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, `<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">
`, opts.Width, opts.Height, opts.Width, opts.Height)
	fmt.Fprintf(&sb, `<style>
  .state { stroke: #333; stroke-width: 2; }
  .state-label { font-family: sans-serif; font-size: %dpx; text-anchor: middle; dominant-baseline: central; fill: #333; }
  .trans-label { font-family: sans-serif; font-size: %dpx; text-anchor: middle; dominant-baseline: central; fill: #333; }
  .title { font-family: sans-serif; font-size: %dpx; font-weight: bold; text-anchor: middle; }
</style>
`, opts.FontSize, labelSize, opts.FontSize+4)
	sb.WriteString(`<rect width="100%" height="100%" fill="white"/>
`)
	if opts.Title != "" {
		fmt.Fprintf(&sb, `<text x="%d" y="%d" class="title">%s</text>
`, opts.Width/2, opts.Padding/2+opts.FontSize, html.EscapeString(opts.Title))
	}

	if len(s.nodes) > 0 {
		f := newFit(s, float64(opts.Width), float64(opts.Height)-top+float64(opts.Padding), float64(opts.Padding))
		f.offY += top - float64(opts.Padding)
		f.centre[1] += top - float64(opts.Padding)
		r := NodeRadius * f.zoom

		for _, e := range s.edges {
			p, ok := f.edgePath(s, e, r, 10)
			if !ok {
				continue
			}
			stroke := e.Stroke.Hex()
			fmt.Fprintf(&sb, `<path d="%s" fill="none" stroke="%s" stroke-width="%.1f"/>
`, p.svgData(), stroke, e.Width)
			ax1, ay1, ax2, ay2 := p.arrowHead(8+e.Width, 4+e.Width/2)
			fmt.Fprintf(&sb, `<polygon points="%.1f,%.1f %.1f,%.1f %.1f,%.1f" fill="%s"/>
`, p.ex, p.ey, ax1, ay1, ax2, ay2, stroke)
			fmt.Fprintf(&sb, `<text x="%.1f" y="%.1f" class="trans-label">%s</text>
`, p.labelX, p.labelY, html.EscapeString(e.Label))
		}

		for _, n := range s.nodes {
			x, y := f.point(n.Pos.X, n.Pos.Y)
			fmt.Fprintf(&sb, `<circle cx="%.1f" cy="%.1f" r="%.1f" fill="%s" class="state"/>
`, x, y, r, n.Fill.Hex())
			fmt.Fprintf(&sb, `<text x="%.1f" y="%.1f" class="state-label">%s</text>
`, x, y, html.EscapeString(n.Label))
		}
	}

	sb.WriteString("</svg>\n")
	return sb.String()
}

func (p edgePath) svgData() string {
	switch p.kind {
	case pathLine:
		return fmt.Sprintf("M%.1f,%.1f L%.1f,%.1f", p.sx, p.sy, p.ex, p.ey)
	case pathQuad:
		return fmt.Sprintf("M%.1f,%.1f Q%.1f,%.1f %.1f,%.1f", p.sx, p.sy, p.c1x, p.c1y, p.ex, p.ey)
	default:
		return fmt.Sprintf("M%.1f,%.1f C%.1f,%.1f %.1f,%.1f %.1f,%.1f",
			p.sx, p.sy, p.c1x, p.c1y, p.c2x, p.c2y, p.ex, p.ey)
	}
}
