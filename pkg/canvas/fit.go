package canvas

import "math"

// fit maps scene coordinates onto an output canvas, keeping the aspect
// ratio and centring the drawing. Drawings are shrunk to fit but never
// enlarged beyond maxZoom.
type fit struct {
	zoom   float64
	offX   float64
	offY   float64
	minX   float64
	minY   float64
	centre [2]float64
}

const maxZoom = 2.0

func newFit(s *Scene, width, height, padding float64) fit {
	minX, minY, maxX, maxY := s.Bounds()
	bw := math.Max(maxX-minX, 1)
	bh := math.Max(maxY-minY, 1)
	availW := math.Max(width-2*padding, 1)
	availH := math.Max(height-2*padding, 1)

	zoom := math.Min(availW/bw, availH/bh)
	if zoom > maxZoom {
		zoom = maxZoom
	}
	f := fit{
		zoom: zoom,
		minX: minX,
		minY: minY,
		offX: padding + (availW-bw*zoom)/2,
		offY: padding + (availH-bh*zoom)/2,
	}

	var sx, sy float64
	for _, n := range s.nodes {
		sx += n.Pos.X
		sy += n.Pos.Y
	}
	if len(s.nodes) > 0 {
		sx /= float64(len(s.nodes))
		sy /= float64(len(s.nodes))
	}
	f.centre[0], f.centre[1] = f.point(sx, sy)
	return f
}

func (f fit) point(x, y float64) (float64, float64) {
	return f.offX + (x-f.minX)*f.zoom, f.offY + (y-f.minY)*f.zoom
}

type pathKind int

const (
	pathLine pathKind = iota
	pathQuad
	pathLoop
)

// edgePath is an edge in output coordinates. Quad curves use c1 as their
// control point; loops are cubic curves through c1 and c2.
type edgePath struct {
	kind     pathKind
	sx, sy   float64
	c1x, c1y float64
	c2x, c2y float64
	ex, ey   float64

	// dirX, dirY is the unit direction of travel at (ex, ey).
	dirX, dirY float64

	labelX, labelY float64
}

// edgePath lays out e between its nodes. r is the node radius and gap the
// label distance, both in output units. ok is false when an end is missing
// or the nodes overlap.
func (f fit) edgePath(s *Scene, e *Edge, r, gap float64) (edgePath, bool) {
	src, dst := s.Node(e.Src), s.Node(e.Dst)
	if src == nil || dst == nil {
		return edgePath{}, false
	}
	x1, y1 := f.point(src.Pos.X, src.Pos.Y)

	if e.SelfLoop {
		loop := r * 0.6
		p := edgePath{
			kind: pathLoop,
			sx:   x1 - r*math.Sqrt2/2, sy: y1 - r*math.Sqrt2/2,
			c1x: x1 - loop*1.5, c1y: y1 - r - loop*2,
			c2x: x1 + loop*1.5, c2y: y1 - r - loop*2,
			ex: x1 + r*math.Sqrt2/2, ey: y1 - r*math.Sqrt2/2,
			labelX: x1, labelY: y1 - r - loop*2 - gap/2,
		}
		p.dirX, p.dirY = unit(p.ex-p.c2x, p.ey-p.c2y)
		return p, true
	}

	x2, y2 := f.point(dst.Pos.X, dst.Pos.Y)
	dist := math.Hypot(x2-x1, y2-y1)
	if dist <= 2*r {
		return edgePath{}, false
	}
	nx, ny := (x2-x1)/dist, (y2-y1)/dist
	perpX, perpY := -ny, nx
	midX, midY := (x1+x2)/2, (y1+y2)/2

	paired := s.hasReverse(e)
	curve := 0.0
	switch {
	case paired:
		curve = dist * 0.15
	case dist > r*8:
		if perpX*(midX-f.centre[0])+perpY*(midY-f.centre[1]) < 0 {
			perpX, perpY = -perpX, -perpY
		}
		curve = dist * 0.2
	}

	if curve == 0 {
		p := edgePath{
			kind: pathLine,
			sx:   x1 + nx*r, sy: y1 + ny*r,
			ex: x2 - nx*(r+2), ey: y2 - ny*(r+2),
			dirX: nx, dirY: ny,
		}
		p.labelX = (p.sx+p.ex)/2 + perpX*gap
		p.labelY = (p.sy+p.ey)/2 + perpY*gap
		return p, true
	}

	cx, cy := midX+perpX*curve, midY+perpY*curve
	p := edgePath{kind: pathQuad, c1x: cx, c1y: cy}
	sdx, sdy := unit(cx-x1, cy-y1)
	p.sx, p.sy = x1+sdx*r, y1+sdy*r
	edx, edy := unit(x2-cx, y2-cy)
	p.ex, p.ey = x2-edx*(r+2), y2-edy*(r+2)
	p.dirX, p.dirY = edx, edy
	// Label on the curve at t=0.5, nudged outwards.
	p.labelX = 0.25*p.sx + 0.5*cx + 0.25*p.ex + perpX*gap
	p.labelY = 0.25*p.sy + 0.5*cy + 0.25*p.ey + perpY*gap
	return p, true
}

// points samples the path into a polyline.
func (p edgePath) points(steps int) [][2]float64 {
	switch p.kind {
	case pathLine:
		return [][2]float64{{p.sx, p.sy}, {p.ex, p.ey}}
	case pathQuad:
		out := make([][2]float64, 0, steps+1)
		for i := 0; i <= steps; i++ {
			t := float64(i) / float64(steps)
			u := 1 - t
			out = append(out, [2]float64{
				u*u*p.sx + 2*u*t*p.c1x + t*t*p.ex,
				u*u*p.sy + 2*u*t*p.c1y + t*t*p.ey,
			})
		}
		return out
	default:
		out := make([][2]float64, 0, steps+1)
		for i := 0; i <= steps; i++ {
			t := float64(i) / float64(steps)
			u := 1 - t
			out = append(out, [2]float64{
				u*u*u*p.sx + 3*u*u*t*p.c1x + 3*u*t*t*p.c2x + t*t*t*p.ex,
				u*u*u*p.sy + 3*u*u*t*p.c1y + 3*u*t*t*p.c2y + t*t*t*p.ey,
			})
		}
		return out
	}
}

// arrowHead returns the two back corners of the arrowhead at the path end.
func (p edgePath) arrowHead(length, width float64) (ax1, ay1, ax2, ay2 float64) {
	ax1 = p.ex - p.dirX*length + p.dirY*width
	ay1 = p.ey - p.dirY*length - p.dirX*width
	ax2 = p.ex - p.dirX*length - p.dirY*width
	ay2 = p.ey - p.dirY*length + p.dirX*width
	return
}

func unit(x, y float64) (float64, float64) {
	d := math.Hypot(x, y)
	if d == 0 {
		return 0, 0
	}
	return x / d, y / d
}
