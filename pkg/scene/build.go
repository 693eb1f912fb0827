package scene

import (
	"fmt"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/edp1096/toy-mie/pkg/cluster"
	"github.com/edp1096/toy-mie/pkg/interactions"
	"github.com/edp1096/toy-mie/pkg/matrix"
	"github.com/edp1096/toy-mie/pkg/particle"
	"github.com/edp1096/toy-mie/pkg/vsh"
)

// Build creates the cluster described by data and loads its source.
func Build(data *SceneData) (*cluster.Cluster, error) {
	c := cluster.New(data.Title)
	c.Wavenumber = data.Wavenumber

	solver, err := NewSolver(data.Solver)
	if err != nil {
		return nil, err
	}
	opts := []interactions.Option{interactions.WithSolver(solver)}
	if data.Workers > 0 {
		opts = append(opts, interactions.WithWorkers(data.Workers))
	}
	c.SetOptions(opts...)

	for _, pd := range data.Particles {
		p, err := CreateParticle(pd, data.Lmax)
		if err != nil {
			return nil, fmt.Errorf("creating particle %s: %w", pd.Name, err)
		}
		if err := c.AddParticle(p); err != nil {
			return nil, err
		}
	}

	c.NewSource()
	for _, pd := range data.Particles {
		for _, s := range pd.Source {
			if err := c.SetSource(pd.Name, s.Pol, s.N, s.M, s.Value); err != nil {
				return nil, err
			}
		}
	}

	return c, nil
}

func CreateParticle(pd ParticleData, lmax int) (particle.Particle, error) {
	position := r3.Vec{X: pd.Position[0], Y: pd.Position[1], Z: pd.Position[2]}

	if len(pd.TMatrix) > 0 {
		t := interactions.NewTMatrix(lmax)
		for _, e := range pd.TMatrix {
			if e.N > lmax || e.IncN > lmax {
				return nil, fmt.Errorf("tmatrix entry beyond lmax %d", lmax)
			}
			t.Set(e.Pol, vsh.ModeIndex(e.N, e.M), e.IncPol, vsh.ModeIndex(e.IncN, e.IncM), e.Value)
		}
		return particle.NewTMatrixParticle(pd.Name, position, t), nil
	}

	if len(pd.Electric) > lmax || len(pd.Magnetic) > lmax {
		return nil, fmt.Errorf("%d electric and %d magnetic coefficients exceed lmax %d",
			len(pd.Electric), len(pd.Magnetic), lmax)
	}
	electric := make([]complex128, lmax)
	magnetic := make([]complex128, lmax)
	copy(electric, pd.Electric)
	copy(magnetic, pd.Magnetic)
	return particle.NewSphere(pd.Name, position, electric, magnetic), nil
}

func NewSolver(name string) (matrix.Solver, error) {
	switch name {
	case "", "sparse-lu":
		return matrix.SparseLU{}, nil
	case "dense-lu":
		return matrix.DenseLU{}, nil
	case "bicgstab":
		return matrix.BiCGSTAB{}, nil
	}
	return nil, fmt.Errorf("unsupported solver: %s", name)
}
