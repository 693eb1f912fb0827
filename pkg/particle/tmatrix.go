package particle

import (
	"slices"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/edp1096/toy-mie/pkg/interactions"
	"github.com/edp1096/toy-mie/pkg/vsh"
)

type TMatrixParticle struct {
	BaseParticle
	T *interactions.TMatrix
}

func NewTMatrixParticle(name string, position r3.Vec, t *interactions.TMatrix) *TMatrixParticle {
	return &TMatrixParticle{
		BaseParticle: BaseParticle{
			Name:     name,
			Position: position,
		},
		T: t,
	}
}

func (p *TMatrixParticle) GetType() string { return "T" }

func (p *TMatrixParticle) Lmax() int {
	if p.T == nil {
		return 0
	}
	return vsh.LmaxFromRmax(p.T.Rmax)
}

func (p *TMatrixParticle) TMatrix() *interactions.TMatrix {
	return p.T
}

func (p *TMatrixParticle) Clone(name string, position r3.Vec) Particle {
	var t *interactions.TMatrix
	if p.T != nil {
		t = &interactions.TMatrix{Rmax: p.T.Rmax, Data: slices.Clone(p.T.Data)}
	}
	return NewTMatrixParticle(name, position, t)
}
