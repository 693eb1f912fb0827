package particle

import (
	"slices"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/edp1096/toy-mie/pkg/interactions"
)

// Sphere carries one electric and one magnetic coefficient per degree,
// index n-1 for degree n.
type Sphere struct {
	BaseParticle
	Electric []complex128
	Magnetic []complex128
}

func NewSphere(name string, position r3.Vec, electric, magnetic []complex128) *Sphere {
	return &Sphere{
		BaseParticle: BaseParticle{
			Name:     name,
			Position: position,
		},
		Electric: electric,
		Magnetic: magnetic,
	}
}

func (s *Sphere) GetType() string { return "S" }

func (s *Sphere) Lmax() int {
	return len(s.Electric)
}

func (s *Sphere) Coefficients() [2][]complex128 {
	return [2][]complex128{
		interactions.Electric: s.Electric,
		interactions.Magnetic: s.Magnetic,
	}
}

// TMatrix returns nil when the electric and magnetic degree counts differ.
func (s *Sphere) TMatrix() *interactions.TMatrix {
	resp, err := interactions.ScalarResponseFrom([][2][]complex128{s.Coefficients()})
	if err != nil || resp.Lmax() < 1 {
		return nil
	}
	return interactions.DiagonalTMatrix(resp, 0)
}

func (s *Sphere) Clone(name string, position r3.Vec) Particle {
	return NewSphere(name, position, slices.Clone(s.Electric), slices.Clone(s.Magnetic))
}
