package particle

import (
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/edp1096/toy-mie/pkg/interactions"
)

type Particle interface {
	GetName() string
	GetType() string
	GetPosition() r3.Vec
	SetPosition(position r3.Vec)
	Lmax() int
	TMatrix() *interactions.TMatrix
	Clone(name string, position r3.Vec) Particle
}

type BaseParticle struct {
	Name     string
	Position r3.Vec
}

func (p *BaseParticle) GetName() string {
	return p.Name
}

func (p *BaseParticle) GetPosition() r3.Vec {
	return p.Position
}

func (p *BaseParticle) SetPosition(position r3.Vec) {
	p.Position = position
}

func NewBaseParticle(name string, position r3.Vec) *BaseParticle {
	return &BaseParticle{
		Name:     name,
		Position: position,
	}
}
