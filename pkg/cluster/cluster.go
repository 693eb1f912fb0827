package cluster

import (
	"fmt"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/edp1096/toy-mie/pkg/interactions"
	"github.com/edp1096/toy-mie/pkg/matrix"
	"github.com/edp1096/toy-mie/pkg/particle"
	"github.com/edp1096/toy-mie/pkg/vsh"
)

type Cluster struct {
	name        string
	particleMap map[string]int
	particles   []particle.Particle
	lmax        int
	Wavenumber  float64
	source      *matrix.Coefficients
	system      *matrix.System
	solution    *matrix.Coefficients
	options     []interactions.Option
}

func New(name string) *Cluster {
	return &Cluster{
		name:        name,
		particleMap: make(map[string]int),
		particles:   make([]particle.Particle, 0),
	}
}

func (c *Cluster) Name() string {
	return c.name
}

// SetOptions sets the options passed to every assemble and solve call.
func (c *Cluster) SetOptions(opts ...interactions.Option) {
	c.options = opts
}

func (c *Cluster) Options() []interactions.Option {
	return c.options
}

func (c *Cluster) AddParticle(p particle.Particle) error {
	if _, exists := c.particleMap[p.GetName()]; exists {
		return fmt.Errorf("duplicate particle %s", p.GetName())
	}
	if len(c.particles) == 0 {
		c.lmax = p.Lmax()
	} else if p.Lmax() != c.lmax {
		return fmt.Errorf("particle %s has lmax %d, cluster has %d: %w",
			p.GetName(), p.Lmax(), c.lmax, interactions.ErrUnsupportedConfiguration)
	}

	c.particleMap[p.GetName()] = len(c.particles)
	c.particles = append(c.particles, p)
	c.source = nil
	c.system = nil
	c.solution = nil
	return nil
}

func (c *Cluster) GetParticles() []particle.Particle {
	return c.particles
}

func (c *Cluster) GetParticleMap() map[string]int {
	return c.particleMap
}

func (c *Cluster) Lmax() int {
	return c.lmax
}

func (c *Cluster) Layout() matrix.Layout {
	return matrix.Layout{Particles: len(c.particles), Rmax: vsh.RmaxFromLmax(c.lmax)}
}

func (c *Cluster) Positions() []r3.Vec {
	positions := make([]r3.Vec, len(c.particles))
	for i, p := range c.particles {
		positions[i] = p.GetPosition()
	}
	return positions
}

// Response is a ScalarResponse when every particle is a sphere and
// TMatrices otherwise.
func (c *Cluster) Response() (interactions.Response, error) {
	if len(c.particles) == 0 {
		return nil, fmt.Errorf("cluster %s has no particles: %w", c.name, interactions.ErrShapeMismatch)
	}

	coeffs := make([][2][]complex128, 0, len(c.particles))
	for _, p := range c.particles {
		s, ok := p.(*particle.Sphere)
		if !ok {
			break
		}
		coeffs = append(coeffs, s.Coefficients())
	}
	if len(coeffs) == len(c.particles) {
		resp, err := interactions.ScalarResponseFrom(coeffs)
		if err != nil {
			return nil, fmt.Errorf("cluster %s: %w", c.name, err)
		}
		return resp, nil
	}

	tms := make(interactions.TMatrices, len(c.particles))
	for i, p := range c.particles {
		tms[i] = p.TMatrix()
		if tms[i] == nil {
			return nil, fmt.Errorf("particle %s has no T-matrix: %w", p.GetName(), interactions.ErrUnsupportedConfiguration)
		}
	}
	return tms, nil
}

// NewSource clears the source vector.
func (c *Cluster) NewSource() *matrix.Coefficients {
	c.source = matrix.NewCoefficients(c.Layout())
	return c.source
}

// SetSource sets the incident coefficient of mode (n, m) at a named particle.
func (c *Cluster) SetSource(name string, pol, n, m int, value complex128) error {
	idx, ok := c.particleMap[name]
	if !ok {
		return fmt.Errorf("unknown particle %s", name)
	}
	if pol != interactions.Electric && pol != interactions.Magnetic {
		return fmt.Errorf("particle %s: invalid polarization %d", name, pol)
	}
	if n < 1 || n > c.lmax || m < -n || m > n {
		return fmt.Errorf("particle %s: mode (n=%d, m=%d) outside lmax %d", name, n, m, c.lmax)
	}
	if c.source == nil || c.source.Layout != c.Layout() {
		c.NewSource()
	}
	c.source.Set(idx, pol, vsh.ModeIndex(n, m), value)
	return nil
}

func (c *Cluster) Source() *matrix.Coefficients {
	return c.source
}

func (c *Cluster) Assemble() (*matrix.System, error) {
	resp, err := c.Response()
	if err != nil {
		return nil, err
	}
	sys, err := interactions.AssembleSystem(c.Positions(), resp, c.Wavenumber, c.options...)
	if err != nil {
		return nil, fmt.Errorf("cluster %s: %w", c.name, err)
	}
	c.system = sys
	return sys, nil
}

func (c *Cluster) Solve() error {
	resp, err := c.Response()
	if err != nil {
		return err
	}
	if c.source == nil {
		c.NewSource()
	}
	x, err := interactions.Solve(c.Positions(), resp, c.source, c.Wavenumber, c.options...)
	if err != nil {
		return fmt.Errorf("cluster %s: %w", c.name, err)
	}
	c.solution = x
	return nil
}

func (c *Cluster) GetSystem() *matrix.System {
	return c.system
}

// Solution returns the incident coefficients of the last Solve.
func (c *Cluster) Solution() *matrix.Coefficients {
	return c.solution
}

func (c *Cluster) Scattered() (*matrix.Coefficients, error) {
	if c.solution == nil {
		return nil, fmt.Errorf("cluster %s: not solved", c.name)
	}
	resp, err := c.Response()
	if err != nil {
		return nil, err
	}
	return interactions.Scattered(resp, c.solution)
}

// GetSolution returns the incident coefficients keyed "a(particle,pol,n,m)"
// with pol "E" or "M".
func (c *Cluster) GetSolution() map[string]complex128 {
	return c.GetCoefficients("a", c.solution)
}

// GetCoefficients labels coeffs by particle name and mode.
func (c *Cluster) GetCoefficients(prefix string, coeffs *matrix.Coefficients) map[string]complex128 {
	values := make(map[string]complex128)
	if coeffs == nil {
		return values
	}
	for name, idx := range c.particleMap {
		for mode := range vsh.Modes(c.lmax) {
			for pol, label := range []string{"E", "M"} {
				key := fmt.Sprintf("%s(%s,%s,%d,%d)", prefix, name, label, mode.N, mode.M)
				values[key] = coeffs.At(idx, pol, mode.R)
			}
		}
	}
	return values
}

// Names returns particle names in insertion order.
func (c *Cluster) Names() []string {
	names := make([]string, len(c.particles))
	for i, p := range c.particles {
		names[i] = p.GetName()
	}
	return names
}
