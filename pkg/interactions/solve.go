package interactions

import (
	"fmt"

	"gonum.org/v1/gonum/blas"
	"gonum.org/v1/gonum/blas/cblas128"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/edp1096/toy-mie/pkg/matrix"
	"github.com/edp1096/toy-mie/pkg/vsh"
)

// AssembleSystem builds the system matrix for a *ScalarResponse or
// TMatrices response.
func AssembleSystem(positions []r3.Vec, resp Response, k float64, opts ...Option) (*matrix.System, error) {
	switch r := resp.(type) {
	case *ScalarResponse:
		return SphereAggregate(positions, r, k, opts...)
	case TMatrices:
		return ParticleAggregate(positions, r, k, opts...)
	}
	return nil, fmt.Errorf("assemble: response type %T: %w", resp, ErrUnsupportedConfiguration)
}

// Solve returns the self-consistent incident coefficients x of
// (I + interaction) x = src.
func Solve(positions []r3.Vec, resp Response, src *matrix.Coefficients, k float64, opts ...Option) (*matrix.Coefficients, error) {
	if resp == nil {
		return nil, fmt.Errorf("solve: nil response: %w", ErrUnsupportedConfiguration)
	}
	if err := resp.validate(); err != nil {
		return nil, fmt.Errorf("solve: %w", err)
	}
	if err := checkCoefficients(resp, src); err != nil {
		return nil, fmt.Errorf("solve: source: %w", err)
	}

	sys, err := AssembleSystem(positions, resp, k, opts...)
	if err != nil {
		return nil, fmt.Errorf("solve: %w", err)
	}

	cfg := gatherOptions(opts)
	x, err := cfg.solver.Solve(sys, src.Data)
	if err != nil {
		return nil, fmt.Errorf("solve: %w", err)
	}
	return &matrix.Coefficients{Layout: sys.Layout, Data: x}, nil
}

func SolveSphereCluster(positions []r3.Vec, resp *ScalarResponse, src *matrix.Coefficients, k float64, opts ...Option) (*matrix.Coefficients, error) {
	return Solve(positions, resp, src, k, opts...)
}

func SolveParticleCluster(positions []r3.Vec, tms TMatrices, src *matrix.Coefficients, k float64, opts ...Option) (*matrix.Coefficients, error) {
	return Solve(positions, tms, src, k, opts...)
}

// Scattered applies each particle's response to its incident coefficients.
func Scattered(resp Response, inc *matrix.Coefficients) (*matrix.Coefficients, error) {
	if resp == nil {
		return nil, fmt.Errorf("scattered: nil response: %w", ErrUnsupportedConfiguration)
	}
	if err := resp.validate(); err != nil {
		return nil, fmt.Errorf("scattered: %w", err)
	}
	if err := checkCoefficients(resp, inc); err != nil {
		return nil, fmt.Errorf("scattered: %w", err)
	}

	out := matrix.NewCoefficients(inc.Layout)
	switch r := resp.(type) {
	case *ScalarResponse:
		for i := 0; i < inc.Particles; i++ {
			for mode := range vsh.Modes(r.Lmax()) {
				for pol := 0; pol < 2; pol++ {
					out.Set(i, pol, mode.R, r.At(i, pol, mode.N)*inc.At(i, pol, mode.R))
				}
			}
		}
	case TMatrices:
		n := inc.Block()
		for i, t := range r {
			cblas128.Gemv(blas.NoTrans, 1, t.general(),
				cblas128.Vector{N: n, Inc: 1, Data: inc.Particle(i)}, 0,
				cblas128.Vector{N: n, Inc: 1, Data: out.Particle(i)})
		}
	default:
		return nil, fmt.Errorf("scattered: response type %T: %w", resp, ErrUnsupportedConfiguration)
	}
	return out, nil
}

func checkCoefficients(resp Response, c *matrix.Coefficients) error {
	if c == nil {
		return fmt.Errorf("nil coefficients: %w", ErrShapeMismatch)
	}
	rmax := vsh.RmaxFromLmax(resp.Lmax())
	if c.Particles != resp.Particles() || c.Rmax != rmax || len(c.Data) != c.Size() {
		return fmt.Errorf("coefficients shaped %v (%d values), response has %d particles and rmax %d: %w",
			c.Layout, len(c.Data), resp.Particles(), rmax, ErrShapeMismatch)
	}
	return nil
}
