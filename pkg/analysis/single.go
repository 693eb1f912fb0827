package analysis

import (
	"fmt"

	"github.com/edp1096/toy-mie/pkg/cluster"
)

// SinglePoint solves the cluster once at its own wavenumber.
type SinglePoint struct{ BaseAnalysis }

func NewSinglePoint() *SinglePoint {
	return &SinglePoint{
		BaseAnalysis: *NewBaseAnalysis(),
	}
}

func (sp *SinglePoint) Setup(c *cluster.Cluster) error {
	if c.Wavenumber <= 0 {
		return fmt.Errorf("wavenumber must be positive: %g", c.Wavenumber)
	}
	sp.Cluster = c
	return nil
}

func (sp *SinglePoint) Execute() error {
	if sp.Cluster == nil {
		return fmt.Errorf("cluster not set")
	}

	if err := sp.Cluster.Solve(); err != nil {
		return fmt.Errorf("solve error at k=%g: %w", sp.Cluster.Wavenumber, err)
	}
	scattered, err := sp.Cluster.Scattered()
	if err != nil {
		return fmt.Errorf("scattered coefficients: %w", err)
	}

	sp.Store("K", sp.Cluster.Wavenumber)
	sp.StoreComplex(sp.Cluster.GetSolution())
	sp.StoreComplex(sp.Cluster.GetCoefficients("p", scattered))
	return nil
}
