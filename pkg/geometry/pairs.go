package geometry

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/spatial/r3"
)

var ErrInvalidGeometry = errors.New("geometry: invalid geometry")

// Pairs holds the displacement pos[i] - pos[j] of every unordered particle
// pair i < j in spherical coordinates. Pairs are ordered (0,1), (0,2), ...,
// (0,N-1), (1,2), ...
type Pairs struct {
	Particles int
	I, J      []int
	Distance  []float64
	Theta     []float64 // polar angle in [0, pi]
	Phi       []float64 // azimuth in (-pi, pi]
}

func Count(particles int) int {
	return particles * (particles - 1) / 2
}

// PairIndex returns the flat index of pair (i, j), i < j, among n particles.
func PairIndex(i, j, n int) int {
	return i*n - i*(i+1)/2 + (j - i - 1)
}

func Compute(positions []r3.Vec) (*Pairs, error) {
	n := len(positions)
	for i, p := range positions {
		if !finite(p.X) || !finite(p.Y) || !finite(p.Z) {
			return nil, fmt.Errorf("particle %d at %v: non-finite coordinate: %w", i, p, ErrInvalidGeometry)
		}
	}

	size := Count(n)
	pairs := &Pairs{
		Particles: n,
		I:         make([]int, 0, size),
		J:         make([]int, 0, size),
		Distance:  make([]float64, 0, size),
		Theta:     make([]float64, 0, size),
		Phi:       make([]float64, 0, size),
	}

	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			d := r3.Sub(positions[i], positions[j])
			rho := r3.Norm(d)
			if rho == 0 {
				return nil, fmt.Errorf("particles %d and %d coincide at %v: %w", i, j, positions[i], ErrInvalidGeometry)
			}

			pairs.I = append(pairs.I, i)
			pairs.J = append(pairs.J, j)
			pairs.Distance = append(pairs.Distance, rho)
			pairs.Theta = append(pairs.Theta, math.Acos(clamp(d.Z/rho)))
			pairs.Phi = append(pairs.Phi, azimuth(d))
		}
	}

	return pairs, nil
}

func (p *Pairs) Len() int {
	return len(p.Distance)
}

// azimuth maps atan2 onto (-pi, pi]; atan2(-0, -x) yields -pi.
func azimuth(d r3.Vec) float64 {
	phi := math.Atan2(d.Y, d.X)
	if phi == -math.Pi {
		phi = math.Pi
	}
	return phi
}

func clamp(c float64) float64 {
	return math.Max(-1, math.Min(1, c))
}

func finite(x float64) bool {
	return !math.IsNaN(x) && !math.IsInf(x, 0)
}
