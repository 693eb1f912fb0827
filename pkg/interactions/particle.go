package interactions

import (
	"fmt"
	"slices"

	"gonum.org/v1/gonum/blas"
	"gonum.org/v1/gonum/blas/cblas128"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/edp1096/toy-mie/pkg/geometry"
	"github.com/edp1096/toy-mie/pkg/matrix"
	"github.com/edp1096/toy-mie/pkg/vsh"
)

// ParticleAggregate assembles the system matrix for particles described by
// full T-matrices. The pure translation coupling is built first, then every
// off-diagonal block is multiplied by the T-matrix of its source particle.
func ParticleAggregate(positions []r3.Vec, tms TMatrices, k float64, opts ...Option) (*matrix.System, error) {
	if err := tms.validate(); err != nil {
		return nil, fmt.Errorf("assemble: %w", err)
	}
	if len(positions) != tms.Particles() {
		return nil, fmt.Errorf("assemble: %d positions for %d T-matrices: %w",
			len(positions), tms.Particles(), ErrShapeMismatch)
	}
	pairs, err := geometry.Compute(positions)
	if err != nil {
		return nil, fmt.Errorf("assemble: %w", err)
	}

	cfg := gatherOptions(opts)
	layout := matrix.Layout{Particles: len(positions), Rmax: tms[0].Rmax}
	sys := matrix.NewSystem(layout)

	if pairs.Len() > 0 {
		coupling, err := translationCoupling(pairs, layout, k, cfg)
		if err != nil {
			return nil, fmt.Errorf("assemble: %w", err)
		}

		// rows of target particle i are owned by one goroutine
		err = parallel(cfg.workers, layout.Particles, func(i int) error {
			for j := 0; j < layout.Particles; j++ {
				if j == i {
					continue
				}
				cblas128.Gemm(blas.NoTrans, blas.NoTrans, 1,
					coupling.Block(i, j), tms[j].general(), 0, sys.Block(i, j))
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

// translationCoupling fills the bare translation tensor. One translator call
// at (r, s) also yields the mode-mirrored entry at (mirror(s), mirror(r))
// through
//
//	A[-u,v,-m,n] = (-1)^(m+u) A[m,n,u,v]    B[-u,v,-m,n] = (-1)^(m+u+1) B[m,n,u,v]
//
// so (r, s) is evaluated only when mirror(s) >= r. The worker of target r
// writes rows r and mirror(s) >= r; no other worker writes those entries.
func translationCoupling(pairs *geometry.Pairs, layout matrix.Layout, k float64, cfg options) (*matrix.System, error) {
	modes := slices.Collect(vsh.Modes(vsh.LmaxFromRmax(layout.Rmax)))
	coupling := matrix.NewSystem(layout)

	err := parallel(cfg.workers, len(modes), func(r int) error {
		target := modes[r]
		for _, source := range modes {
			if source.Mirror() < target.R {
				continue
			}
			a, b, err := translate(cfg.translator, target, source, pairs, k)
			if err != nil {
				return err
			}
			fillGeneral(coupling, pairs, target, source, a, b)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return coupling, nil
}

func fillGeneral(coupling *matrix.System, pairs *geometry.Pairs, target, source vsh.Mode, a, b []complex128) {
	r, s := target.R, source.R
	rm, sm := target.Mirror(), source.Mirror()
	reverse := parity(target.N + source.N)
	mirror := parity(target.M + source.M)

	for idx := range a {
		i, j := pairs.I[idx], pairs.J[idx]
		for p := 0; p < 2; p++ {
			for q := 0; q < 2; q++ {
				value, lower, mirrored := a[idx], reverse, mirror
				if p != q {
					value, lower, mirrored = b[idx], -reverse, -mirror
				}
				coupling.Set(i, p, r, j, q, s, value)
				coupling.Set(j, p, r, i, q, s, lower*value)
				coupling.Set(i, p, sm, j, q, rm, mirrored*value)
				coupling.Set(j, p, sm, i, q, rm, reverse*mirror*value)
			}
		}
	}
}
