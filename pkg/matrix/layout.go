package matrix

import (
	"fmt"

	"gonum.org/v1/gonum/cmplxs"
)

// Layout flattens (particle, polarization, mode) into one linear index:
// particle*2*rmax + pol*rmax + mode.
type Layout struct {
	Particles int
	Rmax      int
}

func (l Layout) Block() int {
	return 2 * l.Rmax
}

func (l Layout) Size() int {
	return l.Particles * l.Block()
}

func (l Layout) Index(particle, pol, mode int) int {
	return particle*l.Block() + pol*l.Rmax + mode
}

func (l Layout) String() string {
	return fmt.Sprintf("%d particles x 2 x %d modes", l.Particles, l.Rmax)
}

// Coefficients is a multipole coefficient vector of logical shape [N, 2, rmax].
type Coefficients struct {
	Layout
	Data []complex128
}

func NewCoefficients(layout Layout) *Coefficients {
	return &Coefficients{
		Layout: layout,
		Data:   make([]complex128, layout.Size()),
	}
}

func (c *Coefficients) At(particle, pol, mode int) complex128 {
	return c.Data[c.Index(particle, pol, mode)]
}

func (c *Coefficients) Set(particle, pol, mode int, value complex128) {
	c.Data[c.Index(particle, pol, mode)] = value
}

func (c *Coefficients) Add(particle, pol, mode int, value complex128) {
	c.Data[c.Index(particle, pol, mode)] += value
}

// Particle returns the 2*rmax coefficients of one particle. The slice
// aliases c.Data.
func (c *Coefficients) Particle(particle int) []complex128 {
	start := particle * c.Block()
	return c.Data[start : start+c.Block()]
}

// Norm is the Euclidean norm over all entries.
func (c *Coefficients) Norm() float64 {
	return cmplxs.Norm(c.Data, 2)
}
