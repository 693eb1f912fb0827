package interactions

import (
	"fmt"
	"slices"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/edp1096/toy-mie/pkg/geometry"
	"github.com/edp1096/toy-mie/pkg/matrix"
	"github.com/edp1096/toy-mie/pkg/vsh"
)

// SphereAggregate assembles the system matrix for particles whose response
// depends only on polarization and degree.
//
// Block (i,p,r,j,q,s) holds the translation coefficient from mode s of
// particle j to mode r of particle i (A when p == q, B otherwise) scaled by
// resp(j, q, v). The lower pairs j > i come from the upper ones through
// A(-d) = (-1)^(n+v) A(d) and B(-d) = (-1)^(n+v+1) B(d).
func SphereAggregate(positions []r3.Vec, resp *ScalarResponse, k float64, opts ...Option) (*matrix.System, error) {
	if err := resp.validate(); err != nil {
		return nil, fmt.Errorf("assemble: %w", err)
	}
	if len(positions) != resp.Particles() {
		return nil, fmt.Errorf("assemble: %d positions for %d responses: %w",
			len(positions), resp.Particles(), ErrShapeMismatch)
	}
	pairs, err := geometry.Compute(positions)
	if err != nil {
		return nil, fmt.Errorf("assemble: %w", err)
	}

	cfg := gatherOptions(opts)
	modes := slices.Collect(vsh.Modes(resp.Lmax()))
	sys := matrix.NewSystem(matrix.Layout{Particles: len(positions), Rmax: len(modes)})

	if pairs.Len() > 0 {
		err = parallel(cfg.workers, len(modes), func(r int) error {
			target := modes[r]
			for _, source := range modes {
				a, b, err := translate(cfg.translator, target, source, pairs, k)
				if err != nil {
					return err
				}
				fillScalar(sys, pairs, resp, target, source, a, b)
			}
			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("assemble: %w", err)
		}
	}

	sys.AddIdentity()
	return sys, nil
}

func fillScalar(sys *matrix.System, pairs *geometry.Pairs, resp *ScalarResponse, target, source vsh.Mode, a, b []complex128) {
	sign := parity(target.N + source.N)
	for idx := range a {
		i, j := pairs.I[idx], pairs.J[idx]
		for p := 0; p < 2; p++ {
			for q := 0; q < 2; q++ {
				upper, lower := a[idx], sign*a[idx]
				if p != q {
					upper, lower = b[idx], -sign*b[idx]
				}
				sys.Set(i, p, target.R, j, q, source.R, upper*resp.At(j, q, source.N))
				sys.Set(j, p, target.R, i, q, source.R, lower*resp.At(i, q, source.N))
			}
		}
	}
}
