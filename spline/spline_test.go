package spline

import (
	"math"
	"testing"

	"github.com/jsphweid/ssedit/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInsufficientNodes(t *testing.T) {
	_, err := Fit(map[int]model.Position{})
	assert.ErrorIs(t, err, ErrInsufficientNodes)

	_, err = Generate(map[int]model.Position{100: {X: 1, Y: 1}}, 5)
	assert.ErrorIs(t, err, ErrInsufficientNodes)
}

func TestInsufficientSamples(t *testing.T) {
	_, err := Generate(map[int]model.Position{0: {}, 100: {X: 1}}, 1)
	assert.ErrorIs(t, err, ErrInsufficientSamples)
}

func TestCurveRejectsBadKnots(t *testing.T) {
	_, err := NewCurve([]float64{0, 0}, []float64{1, 2})
	assert.ErrorIs(t, err, ErrUnorderedKnots)
	_, err = NewCurve([]float64{0, 1}, []float64{1})
	assert.ErrorIs(t, err, ErrMismatchedKnots)
}

func TestInterpolatesNodesExactly(t *testing.T) {
	nodes := map[int]model.Position{
		0:    {X: 0, Y: 0},
		250:  {X: 2, Y: 1},
		400:  {X: 1, Y: 2},
		900:  {X: 0.5, Y: 0.25},
		1000: {X: 2, Y: 2},
	}
	p, err := Fit(nodes)
	require.NoError(t, err)
	for time, pos := range nodes {
		got := p.At(float64(time))
		assert.InDelta(t, pos.X, got.X, 1e-9, "x at %d", time)
		assert.InDelta(t, pos.Y, got.Y, 1e-9, "y at %d", time)
	}
}

func TestFirstDerivativeContinuousAtKnots(t *testing.T) {
	xs := []float64{0, 1, 3, 4, 7}
	ys := []float64{0, 2, -1, 1, 0}
	c, err := NewCurve(xs, ys)
	require.NoError(t, err)

	const eps = 1e-6
	for _, k := range xs[1 : len(xs)-1] {
		left := (c.At(k) - c.At(k-eps)) / eps
		right := (c.At(k+eps) - c.At(k)) / eps
		assert.InDelta(t, left, right, 1e-3, "knot %v", k)
		assert.InDelta(t, c.Slope(k), right, 1e-3)
	}
}

func TestTwoNodesIsLinear(t *testing.T) {
	p, err := Fit(map[int]model.Position{0: {X: 0, Y: 2}, 100: {X: 2, Y: 0}})
	require.NoError(t, err)
	mid := p.At(50)
	assert.InDelta(t, 1.0, mid.X, 1e-12)
	assert.InDelta(t, 1.0, mid.Y, 1e-12)
}

func TestNaturalSplineReproducesLine(t *testing.T) {
	c, err := NewCurve([]float64{0, 1, 2, 5}, []float64{1, 3, 5, 11})
	require.NoError(t, err)
	for x := 0.0; x <= 5; x += 0.25 {
		assert.InDelta(t, 2*x+1, c.At(x), 1e-9)
	}
}

func TestSampleCountAndOrdering(t *testing.T) {
	tests := []struct {
		name  string
		nodes map[int]model.Position
		count int
	}{
		{"two nodes", map[int]model.Position{0: {}, 1000: {X: 2, Y: 2}}, 5},
		{"dense samples on short span", map[int]model.Position{10: {}, 13: {X: 1}}, 20},
		{"many nodes", map[int]model.Position{0: {}, 100: {X: 1}, 200: {Y: 1}, 300: {X: 2, Y: 2}}, 64},
		{"exactly two samples", map[int]model.Position{5: {}, 6: {X: 1}}, 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			samples, err := Generate(tt.nodes, tt.count)
			require.NoError(t, err)
			require.Len(t, samples, tt.count)
			for i := 1; i < len(samples); i++ {
				assert.Greater(t, samples[i].Time, samples[i-1].Time)
			}
		})
	}
}

func TestSampleEndpoints(t *testing.T) {
	nodes := map[int]model.Position{0: {X: 0, Y: 0}, 500: {X: 1, Y: 2}, 1000: {X: 2, Y: 0}}
	samples, err := Generate(nodes, 5)
	require.NoError(t, err)

	assert.Equal(t, []int{0, 250, 500, 750, 1000}, []int{
		samples[0].Time, samples[1].Time, samples[2].Time, samples[3].Time, samples[4].Time,
	})
	assert.InDelta(t, 2.0, samples[2].Position.Y, 1e-9)
	assert.InDelta(t, 2.0, samples[4].Position.X, 1e-9)
}

func TestSampleNudgesDuplicates(t *testing.T) {
	samples, err := Generate(map[int]model.Position{0: {}, 2: {X: 1}}, 6)
	require.NoError(t, err)
	var times []int
	for _, s := range samples {
		times = append(times, s.Time)
	}
	// 0, 0.4, 0.8, 1.2, 1.6, 2 round to 0, 0, 1, 1, 2, 2
	assert.Equal(t, []int{0, 1, 2, 3, 4, 5}, times)
	assert.False(t, math.IsNaN(samples[5].Position.X))
}

func TestNodesPut(t *testing.T) {
	n := Nodes{}
	assert.Equal(t, 0, n.Put(-50, model.Position{X: 1}))
	assert.Equal(t, 1, n.Put(0, model.Position{X: 2}))
	assert.Equal(t, 2, n.Put(1, model.Position{X: 3}))
	assert.Len(t, n, 3)

	got, ok := n.Move(0, 2)
	assert.True(t, ok)
	assert.Equal(t, 3, got)
	_, ok = n.Move(42, 0)
	assert.False(t, ok)
}
