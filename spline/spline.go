// Package spline fits natural cubic splines through timed control nodes and
// samples them into note placements.
package spline

import (
	"math"
	"sort"

	"github.com/jsphweid/ssedit/model"
	"github.com/jsphweid/ssedit/util"
)

// Curve is a natural cubic spline y(x) through a set of knots. It
// interpolates every knot exactly and is C2 continuous.
type Curve struct {
	xs []float64
	ys []float64
	m  []float64 // second derivatives at the knots
}

// NewCurve needs at least two strictly increasing xs.
func NewCurve(xs, ys []float64) (*Curve, error) {
	if len(xs) != len(ys) {
		return nil, ErrMismatchedKnots
	}
	if len(xs) < 2 {
		return nil, ErrInsufficientNodes
	}
	for i := 1; i < len(xs); i++ {
		if !(xs[i] > xs[i-1]) {
			return nil, ErrUnorderedKnots
		}
	}
	c := &Curve{
		xs: append([]float64(nil), xs...),
		ys: append([]float64(nil), ys...),
		m:  make([]float64, len(xs)),
	}
	c.solve()
	return c, nil
}

// solve runs the Thomas algorithm on the tridiagonal system for the
// interior second derivatives; both ends are pinned to 0.
func (c *Curve) solve() {
	n := len(c.xs)
	if n < 3 {
		return
	}
	h := make([]float64, n-1)
	for i := range h {
		h[i] = c.xs[i+1] - c.xs[i]
	}
	// sub, diag, sup and rhs for rows 1..n-2
	size := n - 2
	diag := make([]float64, size)
	sup := make([]float64, size)
	rhs := make([]float64, size)
	for r := 0; r < size; r++ {
		i := r + 1
		diag[r] = 2 * (h[i-1] + h[i])
		sup[r] = h[i]
		rhs[r] = 6 * ((c.ys[i+1]-c.ys[i])/h[i] - (c.ys[i]-c.ys[i-1])/h[i-1])
	}
	for r := 1; r < size; r++ {
		sub := h[r] // h[i-1] with i = r+1
		w := sub / diag[r-1]
		diag[r] -= w * sup[r-1]
		rhs[r] -= w * rhs[r-1]
	}
	c.m[size] = rhs[size-1] / diag[size-1]
	for r := size - 2; r >= 0; r-- {
		c.m[r+1] = (rhs[r] - sup[r]*c.m[r+2]) / diag[r]
	}
}

// At evaluates the curve. Outside the knot range the end segments are
// extended.
func (c *Curve) At(x float64) float64 {
	n := len(c.xs)
	i := sort.SearchFloat64s(c.xs, x) - 1
	i = util.Clamp(i, 0, n-2)

	h := c.xs[i+1] - c.xs[i]
	t := x - c.xs[i]
	b := (c.ys[i+1]-c.ys[i])/h - h*(2*c.m[i]+c.m[i+1])/6
	return c.ys[i] + b*t + c.m[i]/2*t*t + (c.m[i+1]-c.m[i])/(6*h)*t*t*t
}

// Slope is the first derivative at x.
func (c *Curve) Slope(x float64) float64 {
	n := len(c.xs)
	i := util.Clamp(sort.SearchFloat64s(c.xs, x)-1, 0, n-2)

	h := c.xs[i+1] - c.xs[i]
	t := x - c.xs[i]
	b := (c.ys[i+1]-c.ys[i])/h - h*(2*c.m[i]+c.m[i+1])/6
	return b + c.m[i]*t + (c.m[i+1]-c.m[i])/(2*h)*t*t
}

// Path is one curve per play field axis over a shared time parameter.
type Path struct {
	x, y       *Curve
	start, end float64
}

// Fit builds a path through nodes ordered by time.
func Fit(nodes map[int]model.Position) (*Path, error) {
	if len(nodes) < 2 {
		return nil, ErrInsufficientNodes
	}
	times := util.GetSortedKeys(nodes)
	ts := make([]float64, len(times))
	xs := make([]float64, len(times))
	ys := make([]float64, len(times))
	for i, time := range times {
		ts[i] = float64(time)
		xs[i] = nodes[time].X
		ys[i] = nodes[time].Y
	}
	cx, err := NewCurve(ts, xs)
	if err != nil {
		return nil, err
	}
	cy, err := NewCurve(ts, ys)
	if err != nil {
		return nil, err
	}
	return &Path{x: cx, y: cy, start: ts[0], end: ts[len(ts)-1]}, nil
}

func (p *Path) At(t float64) model.Position {
	return model.Position{X: p.x.At(t), Y: p.y.At(t)}
}

func (p *Path) Span() (float64, float64) {
	return p.start, p.end
}

type Sample struct {
	Time     int            `json:"time"`
	Position model.Position `json:"position"`
}

// Sample evaluates the path at count evenly spaced times from the first to
// the last node inclusive. Times are rounded to whole milliseconds and
// bumped forward one ms at a time until they strictly increase.
func (p *Path) Sample(count int) ([]Sample, error) {
	if count < 2 {
		return nil, ErrInsufficientSamples
	}
	res := make([]Sample, 0, count)
	span := p.end - p.start
	for i := 0; i < count; i++ {
		t := p.start + span*float64(i)/float64(count-1)
		if i == count-1 {
			t = p.end
		}
		ms := int(math.Round(t))
		if len(res) > 0 && ms <= res[len(res)-1].Time {
			ms = res[len(res)-1].Time + 1
		}
		res = append(res, Sample{Time: ms, Position: p.At(t)})
	}
	return res, nil
}

// Generate fits nodes and samples count placements from the result.
func Generate(nodes map[int]model.Position, count int) ([]Sample, error) {
	p, err := Fit(nodes)
	if err != nil {
		return nil, err
	}
	return p.Sample(count)
}

// Nodes is an editable set of control nodes keyed by time.
type Nodes map[int]model.Position

// Put stores pos at time, clamping negative times to 0 and moving forward
// past occupied times. It returns the time actually used.
func (n Nodes) Put(time int, pos model.Position) int {
	time = util.Max(time, 0)
	for {
		if _, taken := n[time]; !taken {
			break
		}
		time++
	}
	n[time] = pos
	return time
}

// Move retimes the node at from, following the same rules as Put.
func (n Nodes) Move(from, to int) (int, bool) {
	pos, ok := n[from]
	if !ok {
		return 0, false
	}
	delete(n, from)
	return n.Put(to, pos), true
}
