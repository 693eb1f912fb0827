package interactions

import (
	"math"
	"math/cmplx"
	"math/rand/v2"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/edp1096/toy-mie/pkg/matrix"
	"github.com/edp1096/toy-mie/pkg/vsh"
)

// countingTranslator forwards to vsh.Translation and counts calls.
type countingTranslator struct {
	calls atomic.Int64
}

func (c *countingTranslator) Translate(m, n, u, v int, distance, theta, phi []float64, k float64, mode vsh.WaveMode) (a, b []complex128) {
	c.calls.Add(1)
	return vsh.Translation(m, n, u, v, distance, theta, phi, k, mode)
}

func randomResponse(seed uint64, particles, lmax int) *ScalarResponse {
	rng := rand.New(rand.NewPCG(seed, 3))
	resp := NewScalarResponse(particles, lmax)
	for i := 0; i < particles; i++ {
		for pol := 0; pol < 2; pol++ {
			for n := 1; n <= lmax; n++ {
				scale := math.Pow(0.3, float64(n))
				resp.Set(i, pol, n, complex(rng.Float64()-0.5, rng.Float64()-0.5)*complex(scale, 0))
			}
		}
	}
	return resp
}

func randomSource(seed uint64, layout matrix.Layout) *matrix.Coefficients {
	rng := rand.New(rand.NewPCG(seed, 5))
	src := matrix.NewCoefficients(layout)
	for i := range src.Data {
		src.Data[i] = complex(rng.NormFloat64(), rng.NormFloat64())
	}
	return src
}

// geometric decay of the response with degree
func decayingResponse(particles, lmax int) *ScalarResponse {
	resp := NewScalarResponse(particles, lmax)
	for i := 0; i < particles; i++ {
		for n := 1; n <= lmax; n++ {
			a := complex(math.Pow(0.1, float64(n)), 0)
			resp.Set(i, Electric, n, a*(1+0.5i))
			resp.Set(i, Magnetic, n, a*(0.5-0.2i))
		}
	}
	return resp
}

func triangle() []r3.Vec {
	return []r3.Vec{
		{X: 0, Y: 0, Z: 0},
		{X: 2.1, Y: 0.4, Z: -0.3},
		{X: -0.7, Y: 1.9, Z: 1.2},
	}
}

func dimer(separation float64) []r3.Vec {
	return []r3.Vec{
		{X: 0, Y: 0, Z: 0},
		{X: 0, Y: 0, Z: separation},
	}
}

func assertClose(t *testing.T, want, got complex128, tol float64, msgAndArgs ...any) {
	t.Helper()
	scale := max(1, cmplx.Abs(want))
	assert.LessOrEqual(t, cmplx.Abs(want-got), tol*scale, msgAndArgs...)
}

func distance(a, b *matrix.Coefficients) float64 {
	sum := 0.0
	for i := range a.Data {
		d := cmplx.Abs(a.Data[i] - b.Data[i])
		sum += d * d
	}
	return math.Sqrt(sum)
}
