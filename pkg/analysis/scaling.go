package analysis

import (
	"fmt"
	"time"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/edp1096/toy-mie/pkg/cluster"
	"github.com/edp1096/toy-mie/pkg/interactions"
	"github.com/edp1096/toy-mie/pkg/matrix"
)

// Scaling times assembly, solve and scattering for chains of 1, 1+step, ...
// copies of the first particle placed along x.
type Scaling struct {
	BaseAnalysis
	maxParticles int
	step         int
	separation   float64
	solver       matrix.Solver
}

func NewScaling(maxParticles, step int, separation float64, solver matrix.Solver) *Scaling {
	return &Scaling{
		BaseAnalysis: *NewBaseAnalysis(),
		maxParticles: maxParticles,
		step:         step,
		separation:   separation,
		solver:       solver,
	}
}

func (sc *Scaling) Setup(c *cluster.Cluster) error {
	if len(c.GetParticles()) == 0 {
		return fmt.Errorf("cluster has no particles")
	}
	if sc.maxParticles < 1 || sc.step < 1 || sc.separation <= 0 {
		return fmt.Errorf("invalid scaling parameters: max %d step %d separation %g",
			sc.maxParticles, sc.step, sc.separation)
	}
	if sc.solver == nil {
		sc.solver = matrix.SparseLU{}
	}
	sc.Cluster = c
	return nil
}

func (sc *Scaling) Execute() error {
	if sc.Cluster == nil {
		return fmt.Errorf("cluster not set")
	}

	for n := 1; n <= sc.maxParticles; n += sc.step {
		chain, err := sc.chain(n)
		if err != nil {
			return err
		}

		start := time.Now()
		sys, err := chain.Assemble()
		if err != nil {
			return fmt.Errorf("assembling chain of %d: %w", n, err)
		}
		build := time.Since(start)

		start = time.Now()
		x, err := sc.solver.Solve(sys, chain.Source().Data)
		if err != nil {
			return fmt.Errorf("solving chain of %d: %w", n, err)
		}
		solve := time.Since(start)

		resp, err := chain.Response()
		if err != nil {
			return err
		}
		start = time.Now()
		if _, err := interactions.Scattered(resp, &matrix.Coefficients{Layout: sys.Layout, Data: x}); err != nil {
			return fmt.Errorf("scattering chain of %d: %w", n, err)
		}
		scatter := time.Since(start)

		sc.Store("N", float64(n))
		sc.Store("SIZE", float64(sys.Size()))
		sc.Store("BUILD", build.Seconds())
		sc.Store("SOLVE", solve.Seconds())
		sc.Store("SCATTER", scatter.Seconds())
	}

	return nil
}

func (sc *Scaling) chain(n int) (*cluster.Cluster, error) {
	base := sc.Cluster
	template := base.GetParticles()[0]

	chain := cluster.New(fmt.Sprintf("%s x%d", base.Name(), n))
	chain.Wavenumber = base.Wavenumber
	chain.SetOptions(base.Options()...)

	for i := 0; i < n; i++ {
		p := template.Clone(fmt.Sprintf("%s%d", template.GetName(), i), r3.Vec{X: float64(i) * sc.separation})
		if err := chain.AddParticle(p); err != nil {
			return nil, err
		}
	}

	src := chain.NewSource()
	if base.Source() != nil {
		for i := 0; i < n; i++ {
			copy(src.Particle(i), base.Source().Particle(0))
		}
	}
	return chain, nil
}
