package cluster

import (
	"math/cmplx"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/edp1096/toy-mie/pkg/interactions"
	"github.com/edp1096/toy-mie/pkg/particle"
	"github.com/edp1096/toy-mie/pkg/vsh"
)

func newDimer(t *testing.T) *Cluster {
	t.Helper()
	c := New("dimer")
	c.Wavenumber = 1
	require.NoError(t, c.AddParticle(particle.NewSphere("a", r3.Vec{}, []complex128{0.1 + 0.05i, 0.01}, []complex128{0.05, 0.001})))
	require.NoError(t, c.AddParticle(particle.NewSphere("b", r3.Vec{Z: 4}, []complex128{0.1 + 0.05i, 0.01}, []complex128{0.05, 0.001})))
	return c
}

func TestAddParticle(t *testing.T) {
	c := newDimer(t)
	assert.Equal(t, []string{"a", "b"}, c.Names())
	assert.Equal(t, 2, c.Lmax())
	assert.Equal(t, 1, c.GetParticleMap()["b"])

	err := c.AddParticle(particle.NewSphere("a", r3.Vec{X: 1}, []complex128{1, 2}, []complex128{1, 2}))
	assert.Error(t, err)

	err = c.AddParticle(particle.NewSphere("c", r3.Vec{X: 1}, []complex128{1}, []complex128{1}))
	assert.ErrorIs(t, err, interactions.ErrUnsupportedConfiguration)
}

func TestResponseKind(t *testing.T) {
	c := newDimer(t)
	resp, err := c.Response()
	require.NoError(t, err)
	assert.IsType(t, &interactions.ScalarResponse{}, resp)

	tm := interactions.NewTMatrix(2)
	require.NoError(t, c.AddParticle(particle.NewTMatrixParticle("t", r3.Vec{X: 5}, tm)))
	resp, err = c.Response()
	require.NoError(t, err)
	require.IsType(t, interactions.TMatrices{}, resp)
	assert.Len(t, resp.(interactions.TMatrices), 3)

	_, err = New("empty").Response()
	assert.ErrorIs(t, err, interactions.ErrShapeMismatch)
}

func TestSetSource(t *testing.T) {
	c := newDimer(t)
	require.NoError(t, c.SetSource("a", interactions.Electric, 1, 0, 1))
	assert.Equal(t, complex128(1), c.Source().At(0, interactions.Electric, vsh.ModeIndex(1, 0)))

	assert.Error(t, c.SetSource("z", 0, 1, 0, 1))
	assert.Error(t, c.SetSource("a", 2, 1, 0, 1))
	assert.Error(t, c.SetSource("a", 0, 3, 0, 1))
	assert.Error(t, c.SetSource("a", 0, 1, 2, 1))
}

func TestSolveAndScattered(t *testing.T) {
	c := newDimer(t)
	_, err := c.Scattered()
	assert.Error(t, err)

	require.NoError(t, c.SetSource("a", interactions.Electric, 1, 1, 1))
	require.NoError(t, c.Solve())

	x := c.Solution()
	require.NotNil(t, x)
	sys, err := c.Assemble()
	require.NoError(t, err)
	ax := sys.MulVec(x.Data)
	for i := range ax {
		assert.InDelta(t, 0, cmplx.Abs(ax[i]-c.Source().Data[i]), 1e-10)
	}

	scat, err := c.Scattered()
	require.NoError(t, err)
	r := vsh.ModeIndex(1, 1)
	assert.InDelta(t, 0, cmplx.Abs(scat.At(0, 0, r)-(0.1+0.05i)*x.At(0, 0, r)), 1e-15)

	solution := c.GetSolution()
	assert.Len(t, solution, 2*2*8)
	assert.Equal(t, x.At(1, 1, vsh.ModeIndex(2, -1)), solution["a(b,M,2,-1)"])
}

func TestSolveCoincident(t *testing.T) {
	c := newDimer(t)
	c.GetParticles()[1].SetPosition(r3.Vec{})
	err := c.Solve()
	assert.ErrorIs(t, err, interactions.ErrInvalidGeometry)
	assert.Nil(t, c.Solution())
}
