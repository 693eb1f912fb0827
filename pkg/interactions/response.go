package interactions

import (
	"fmt"

	"gonum.org/v1/gonum/blas/cblas128"

	"github.com/edp1096/toy-mie/pkg/vsh"
)

const (
	Electric = 0
	Magnetic = 1
)

// Response is the single-particle response of every particle in a cluster,
// either a *ScalarResponse or TMatrices.
type Response interface {
	Particles() int
	Lmax() int
	validate() error
}

// ScalarResponse holds one coefficient per particle, polarization and degree,
// shared by all orders of that degree.
type ScalarResponse struct {
	particles int
	lmax      int
	data      []complex128
}

func NewScalarResponse(particles, lmax int) *ScalarResponse {
	return &ScalarResponse{
		particles: particles,
		lmax:      lmax,
		data:      make([]complex128, max(particles, 0)*2*max(lmax, 0)),
	}
}

// ScalarResponseFrom copies coefficients given as [particle][pol][degree-1].
func ScalarResponseFrom(coeffs [][2][]complex128) (*ScalarResponse, error) {
	if len(coeffs) == 0 {
		return nil, fmt.Errorf("scalar response without particles: %w", ErrShapeMismatch)
	}
	lmax := len(coeffs[0][Electric])
	for i, c := range coeffs {
		for pol := range c {
			if len(c[pol]) != lmax {
				return nil, fmt.Errorf("particle %d polarization %d has %d degrees, want %d: %w",
					i, pol, len(c[pol]), lmax, ErrUnsupportedConfiguration)
			}
		}
	}

	resp := NewScalarResponse(len(coeffs), lmax)
	for i, c := range coeffs {
		for pol := range c {
			for deg, value := range c[pol] {
				resp.Set(i, pol, deg+1, value)
			}
		}
	}
	return resp, nil
}

func (s *ScalarResponse) Particles() int {
	return s.particles
}

func (s *ScalarResponse) Lmax() int {
	return s.lmax
}

func (s *ScalarResponse) index(particle, pol, degree int) int {
	return (particle*2+pol)*s.lmax + degree - 1
}

// At returns the coefficient at degree n in [1, lmax].
func (s *ScalarResponse) At(particle, pol, degree int) complex128 {
	return s.data[s.index(particle, pol, degree)]
}

func (s *ScalarResponse) Set(particle, pol, degree int, value complex128) {
	s.data[s.index(particle, pol, degree)] = value
}

func (s *ScalarResponse) validate() error {
	if s == nil {
		return fmt.Errorf("nil scalar response: %w", ErrShapeMismatch)
	}
	if s.lmax < 1 {
		return fmt.Errorf("scalar response lmax %d: %w", s.lmax, ErrUnsupportedConfiguration)
	}
	if s.particles < 1 || len(s.data) != s.particles*2*s.lmax {
		return fmt.Errorf("scalar response holds %d values for %d particles, lmax %d: %w",
			len(s.data), s.particles, s.lmax, ErrShapeMismatch)
	}
	return nil
}

// TMatrix maps incident coefficients (e, f) of one particle onto scattered
// coefficients (q, s). Data is the (2*Rmax)x(2*Rmax) row-major matrix with
// row q*Rmax+s and column e*Rmax+f.
type TMatrix struct {
	Rmax int
	Data []complex128
}

func NewTMatrix(lmax int) *TMatrix {
	rmax := vsh.RmaxFromLmax(lmax)
	return &TMatrix{
		Rmax: rmax,
		Data: make([]complex128, 4*rmax*rmax),
	}
}

func (t *TMatrix) At(q, s, e, f int) complex128 {
	return t.Data[(q*t.Rmax+s)*2*t.Rmax+e*t.Rmax+f]
}

func (t *TMatrix) Set(q, s, e, f int, value complex128) {
	t.Data[(q*t.Rmax+s)*2*t.Rmax+e*t.Rmax+f] = value
}

func (t *TMatrix) general() cblas128.General {
	size := 2 * t.Rmax
	return cblas128.General{Rows: size, Cols: size, Stride: size, Data: t.Data}
}

// DiagonalTMatrix spreads the scalar response of one particle over the
// diagonal of a T-matrix, the same value for every order of a degree.
func DiagonalTMatrix(resp *ScalarResponse, particle int) *TMatrix {
	t := NewTMatrix(resp.Lmax())
	for mode := range vsh.Modes(resp.Lmax()) {
		for pol := 0; pol < 2; pol++ {
			t.Set(pol, mode.R, pol, mode.R, resp.At(particle, pol, mode.N))
		}
	}
	return t
}

// TMatrices holds one T-matrix per particle.
type TMatrices []*TMatrix

func DiagonalTMatrices(resp *ScalarResponse) TMatrices {
	ts := make(TMatrices, resp.Particles())
	for i := range ts {
		ts[i] = DiagonalTMatrix(resp, i)
	}
	return ts
}

func (ts TMatrices) Particles() int {
	return len(ts)
}

func (ts TMatrices) Lmax() int {
	if len(ts) == 0 || ts[0] == nil {
		return 0
	}
	return vsh.LmaxFromRmax(ts[0].Rmax)
}

func (ts TMatrices) validate() error {
	for i, t := range ts {
		if t == nil {
			continue
		}
		if !vsh.ValidRmax(t.Rmax) {
			return fmt.Errorf("particle %d: rmax %d is not lmax(lmax+2): %w", i, t.Rmax, ErrUnsupportedConfiguration)
		}
		if ts[0] != nil && t.Rmax != ts[0].Rmax {
			return fmt.Errorf("particle %d has rmax %d, particle 0 has %d: %w", i, t.Rmax, ts[0].Rmax, ErrUnsupportedConfiguration)
		}
	}

	if len(ts) == 0 {
		return fmt.Errorf("no T-matrices: %w", ErrShapeMismatch)
	}
	for i, t := range ts {
		if t == nil {
			return fmt.Errorf("particle %d: nil T-matrix: %w", i, ErrShapeMismatch)
		}
		if len(t.Data) != 4*t.Rmax*t.Rmax {
			return fmt.Errorf("particle %d: T-matrix holds %d values, want %d: %w",
				i, len(t.Data), 4*t.Rmax*t.Rmax, ErrShapeMismatch)
		}
	}
	return nil
}
