package teapot

import (
	"errors"
	"fmt"

	"github.com/chewxy/math32"
)

// blinnScale is the vertical stretch applied when the teapot is not drawn with Blinn's
// squatter proportions.
const blinnScale = 1.3

// lidFit widens the lower lid so it closes the gap to the rim.
const lidFit = 1.077

// maxVertices is the largest vertex count addressable by 16-bit indices.
const maxVertices = 1<<16 - 1

var (
	ErrInvalidSize     = errors.New("teapot: size must be positive")
	ErrInvalidSegments = errors.New("teapot: segments out of range")
	ErrNoParts         = errors.New("teapot: no parts selected")
)

// Options selects the teapot shape. Size is half the height of the result; Segments is the
// number of subdivisions along each edge of every patch.
type Options struct {
	Size     float32 `yaml:"size" mapstructure:"size"`
	Segments int     `yaml:"segments" mapstructure:"segments"`
	Bottom   bool    `yaml:"bottom" mapstructure:"bottom"`
	Lid      bool    `yaml:"lid" mapstructure:"lid"`
	Body     bool    `yaml:"body" mapstructure:"body"`
	FitLid   bool    `yaml:"fit_lid" mapstructure:"fit_lid"`
	Blinn    bool    `yaml:"blinn" mapstructure:"blinn"`
}

// DefaultOptions returns the shape used by the viewer: size 400, 15 segments, every part,
// unfitted lid, Blinn proportions.
func DefaultOptions() Options {
	return Options{
		Size:     400,
		Segments: 15,
		Bottom:   true,
		Lid:      true,
		Body:     true,
		FitLid:   false,
		Blinn:    true,
	}
}

// Validate reports whether the options describe a mesh that fits 16-bit indices.
func (o Options) Validate() error {
	if !(o.Size > 0) {
		return fmt.Errorf("%w: %v", ErrInvalidSize, o.Size)
	}
	copies := o.patchCopies()
	if copies == 0 {
		return ErrNoParts
	}
	if o.Segments < 1 {
		return fmt.Errorf("%w: %d", ErrInvalidSegments, o.Segments)
	}
	side := o.Segments + 1
	if copies*side*side > maxVertices {
		return fmt.Errorf("%w: %d segments need %d vertices", ErrInvalidSegments, o.Segments, copies*side*side)
	}
	return nil
}

func (o Options) includes(patch int) bool {
	switch patch {
	case patchLidTop, patchLidLower:
		return o.Lid
	case patchBottom:
		return o.Bottom
	default:
		return o.Body
	}
}

func (o Options) patchCopies() int {
	n := 0
	for i := 0; i < patchCount; i++ {
		if o.includes(i) {
			n += len(mirrorsFor(i))
		}
	}
	return n
}

// Geometry is an indexed triangle mesh: three floats per vertex position and normal, two per
// texture coordinate, three indices per triangle.
type Geometry struct {
	Vertices  []float32
	Normals   []float32
	Texcoords []float32
	Indices   []uint16
}

// VertexCount returns the number of vertices.
func (g *Geometry) VertexCount() int { return len(g.Vertices) / 3 }

// TriangleCount returns the number of triangles.
func (g *Geometry) TriangleCount() int { return len(g.Indices) / 3 }

// Bounds returns the axis-aligned bounding box of the vertices.
func (g *Geometry) Bounds() (lo, hi [3]float32) {
	if len(g.Vertices) < 3 {
		return lo, hi
	}
	copy(lo[:], g.Vertices[:3])
	copy(hi[:], g.Vertices[:3])
	for i := 3; i+2 < len(g.Vertices); i += 3 {
		for a := 0; a < 3; a++ {
			v := g.Vertices[i+a]
			lo[a] = math32.Min(lo[a], v)
			hi[a] = math32.Max(hi[a], v)
		}
	}
	return lo, hi
}

// Generate tessellates the selected teapot parts. The result is y-up, centred on the origin,
// 2*Size tall, with the spout towards +x.
func Generate(opts Options) (*Geometry, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	zScale := float32(1)
	if !opts.Blinn {
		zScale = blinnScale
	}
	half := lidTopZ * zScale / 2
	unit := opts.Size / half
	toWorld := func(p vec3) vec3 {
		return vec3{p[0] * unit, (p[2]*zScale - half) * unit, -p[1] * unit}
	}

	side := opts.Segments + 1
	n := opts.patchCopies() * side * side
	g := &Geometry{
		Vertices:  make([]float32, 0, n*3),
		Normals:   make([]float32, 0, n*3),
		Texcoords: make([]float32, 0, n*2),
		Indices:   make([]uint16, 0, opts.patchCopies()*opts.Segments*opts.Segments*6),
	}
	for i := 0; i < patchCount; i++ {
		if !opts.includes(i) {
			continue
		}
		ctrl := controlGrid(i, opts.FitLid)
		for _, m := range mirrorsFor(i) {
			var grid patch
			for r := 0; r < 4; r++ {
				for c := 0; c < 4; c++ {
					src := c
					if m.reverse {
						src = 3 - c
					}
					grid[r][c] = toWorld(m.apply(ctrl[r][src]))
				}
			}
			g.addPatch(&grid, opts.Segments, unit)
		}
	}
	return g, nil
}

// controlGrid returns the 4x4 control points of one base patch in teapot space.
func controlGrid(index int, fitLid bool) [4][4]vec3 {
	var out [4][4]vec3
	for r := 0; r < 4; r++ {
		for c := 0; c < 4; c++ {
			p := controlPoints[patches[index][r*4+c]]
			// The first row of the lower lid joins the knob and stays put.
			if fitLid && index == patchLidLower && r > 0 {
				p[0] *= lidFit
				p[1] *= lidFit
			}
			out[r][c] = p
		}
	}
	return out
}

type mirror struct {
	flipX, flipY bool
	// reverse walks each row backwards so mirrored patches keep their winding.
	reverse bool
}

func (m mirror) apply(p vec3) vec3 {
	if m.flipX {
		p[0] = -p[0]
	}
	if m.flipY {
		p[1] = -p[1]
	}
	return p
}

var (
	halfMirrors = []mirror{{}, {flipY: true, reverse: true}}
	fullMirrors = []mirror{{}, {flipY: true, reverse: true}, {flipX: true, reverse: true}, {flipX: true, flipY: true}}
)

func mirrorsFor(patch int) []mirror {
	if patch < fourWay {
		return fullMirrors
	}
	return halfMirrors
}

func (g *Geometry) addPatch(p *patch, segments int, unit float32) {
	first := uint16(g.VertexCount())
	side := segments + 1
	step := 1 / float32(segments)
	for j := 0; j < side; j++ {
		v := float32(j) * step
		for k := 0; k < side; k++ {
			u := float32(k) * step
			pos := p.eval(u, v)
			nrm := p.normal(u, v, unit)
			g.Vertices = append(g.Vertices, pos[0], pos[1], pos[2])
			g.Normals = append(g.Normals, nrm[0], nrm[1], nrm[2])
			g.Texcoords = append(g.Texcoords, u, v)
		}
	}
	for j := 0; j < segments; j++ {
		for k := 0; k < segments; k++ {
			a := first + uint16(j*side+k)
			b := a + 1
			d := a + uint16(side)
			c := d + 1
			g.Indices = append(g.Indices, a, b, c, a, c, d)
		}
	}
}

// patch is a bicubic Bezier patch; rows follow v, columns follow u.
type patch [4][4]vec3

func bernstein(t float32) [4]float32 {
	s := 1 - t
	return [4]float32{s * s * s, 3 * t * s * s, 3 * t * t * s, t * t * t}
}

func bernsteinDeriv(t float32) [4]float32 {
	s := 1 - t
	return [4]float32{-3 * s * s, 3*s*s - 6*t*s, 6*t*s - 3*t*t, 3 * t * t}
}

func (p *patch) combine(bu, bv [4]float32) vec3 {
	var out vec3
	for r := 0; r < 4; r++ {
		for c := 0; c < 4; c++ {
			out = out.add(p[r][c].scale(bu[c] * bv[r]))
		}
	}
	return out
}

func (p *patch) eval(u, v float32) vec3 {
	return p.combine(bernstein(u), bernstein(v))
}

func (p *patch) tangents(u, v float32) (du, dv vec3) {
	return p.combine(bernsteinDeriv(u), bernstein(v)), p.combine(bernstein(u), bernsteinDeriv(v))
}

// normal returns the unit surface normal. Rows collapsed to a single point (lid knob, bottom
// centre) have no tangent there, so the normal is taken just inside the patch.
func (p *patch) normal(u, v, unit float32) vec3 {
	du, dv := p.tangents(u, v)
	n := du.cross(dv)
	if n.length() > 1e-6*unit*unit {
		return n.normalize()
	}
	du, dv = p.tangents(nudge(u), nudge(v))
	n = du.cross(dv)
	if n.length() == 0 {
		return vec3{0, 1, 0}
	}
	return n.normalize()
}

func nudge(t float32) float32 {
	const eps = 1e-3
	if t < 0.5 {
		return t + eps
	}
	return t - eps
}
