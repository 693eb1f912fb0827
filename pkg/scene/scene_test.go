package scene

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/edp1096/toy-mie/pkg/interactions"
	"github.com/edp1096/toy-mie/pkg/matrix"
	"github.com/edp1096/toy-mie/pkg/particle"
	"github.com/edp1096/toy-mie/pkg/vsh"
)

const dimerScene = `
# two spheres on the z axis
[scene]
title = gold dimer
wavelength = 500n
index = 1.33
solver = dense-lu

[analysis]
type = single

[particle "b"]
position = 0 0 300n
electric = 0.1+0.05i
electric = 1m-2mi
magnetic = 0.02

[particle "a"]
position = 0 0 0
electric = 0.1+0.05i
electric = 1m-2mi
magnetic = 0.02

[source "a"]
coefficient = e 1 0 1
coefficient = m 1 -1 0.5i
`

func TestParseValue(t *testing.T) {
	tests := []struct {
		in   string
		want float64
	}{
		{"1", 1},
		{"250n", 250e-9},
		{"1.5meg", 1.5e6},
		{"-3k", -3e3},
		{"2e-3", 2e-3},
		{"4.7u", 4.7e-6},
		{" 10p ", 10e-12},
	}
	for _, tt := range tests {
		got, err := ParseValue(tt.in)
		require.NoError(t, err, tt.in)
		assert.InDelta(t, tt.want, got, math.Abs(tt.want)*1e-12, tt.in)
	}

	for _, bad := range []string{"", "abc", "1x", "1..2"} {
		_, err := ParseValue(bad)
		assert.Error(t, err, bad)
	}
}

func TestParseComplex(t *testing.T) {
	tests := []struct {
		in   string
		want complex128
	}{
		{"0.5", 0.5},
		{"2i", 2i},
		{"-i", -1i},
		{"1+2i", 1 + 2i},
		{"1-2j", 1 - 2i},
		{"1e-3-2e+2i", 1e-3 - 2e2i},
		{"1m+5ui", 1e-3 + 5e-6i},
		{"-3e-2i", -3e-2i},
	}
	for _, tt := range tests {
		got, err := ParseComplex(tt.in)
		require.NoError(t, err, tt.in)
		assert.InDelta(t, real(tt.want), real(got), 1e-15, tt.in)
		assert.InDelta(t, imag(tt.want), imag(got), 1e-15, tt.in)
	}

	for _, bad := range []string{"", "x", "1+xi", "1+2"} {
		_, err := ParseComplex(bad)
		assert.Error(t, err, bad)
	}
}

func TestParse(t *testing.T) {
	data, err := Parse(dimerScene)
	require.NoError(t, err)

	assert.Equal(t, "gold dimer", data.Title)
	assert.Equal(t, AnalysisSingle, data.Analysis)
	assert.Equal(t, "dense-lu", data.Solver)
	assert.InDelta(t, 2*math.Pi*1.33/500e-9, data.Wavenumber, 1)
	assert.Equal(t, 2, data.Lmax)

	require.Len(t, data.Particles, 2)
	assert.Equal(t, "a", data.Particles[0].Name)
	assert.Equal(t, "b", data.Particles[1].Name)
	assert.InDelta(t, 300e-9, data.Particles[1].Position[2], 1e-20)
	assert.Equal(t, []complex128{0.1 + 0.05i, 1e-3 - 2e-3i}, data.Particles[0].Electric)
	require.Len(t, data.Particles[0].Source, 2)
	assert.Equal(t, SourceEntry{Pol: 1, N: 1, M: -1, Value: 0.5i}, data.Particles[0].Source[1])
	assert.Empty(t, data.Particles[1].Source)
}

func TestParseErrors(t *testing.T) {
	tests := map[string]string{
		"no particles":     "[scene]\nwavenumber = 1\n",
		"both wave inputs": "[scene]\nwavenumber = 1\nwavelength = 1\n[particle \"a\"]\nposition = 0 0 0\nelectric = 1\n",
		"bad position":     "[scene]\nwavenumber = 1\n[particle \"a\"]\nposition = 0 0\nelectric = 1\n",
		"unknown source":   "[scene]\nwavenumber = 1\n[particle \"a\"]\nposition = 0 0 0\nelectric = 1\n[source \"b\"]\ncoefficient = e 1 0 1\n",
		"bad mode":         "[scene]\nwavenumber = 1\n[particle \"a\"]\nposition = 0 0 0\nelectric = 1\n[source \"a\"]\ncoefficient = e 1 2 1\n",
		"bad sweep":        "[scene]\n[analysis]\ntype = sweep\nsweep = QUAD\nstart = 1\nstop = 2\n[particle \"a\"]\nposition = 0 0 0\nelectric = 1\n",
		"no wavenumber":    "[particle \"a\"]\nposition = 0 0 0\nelectric = 1\n",
		"unknown variable": "[scene]\nwavenumber = 1\ncolour = red\n[particle \"a\"]\nposition = 0 0 0\nelectric = 1\n",
		"no response":      "[scene]\nwavenumber = 1\n[particle \"a\"]\nposition = 0 0 0\n",
	}
	for name, input := range tests {
		_, err := Parse(input)
		assert.Error(t, err, name)
	}
}

func TestParseSweepAndScaling(t *testing.T) {
	data, err := Parse("[analysis]\ntype = sweep\nsweep = lin\nstart = 1meg\nstop = 2meg\npoints = 5\n" +
		"[particle \"a\"]\nposition = 0 0 0\nelectric = 1\n")
	require.NoError(t, err)
	assert.Equal(t, AnalysisSweep, data.Analysis)
	assert.Equal(t, "LIN", data.SweepParam.Sweep)
	assert.Equal(t, 5, data.SweepParam.Points)
	assert.InDelta(t, 2e6, data.SweepParam.Stop, 1e-6)
	assert.Equal(t, 1, data.Lmax)

	data, err = Parse("[scene]\nwavenumber = 1\nlmax = 3\n[analysis]\ntype = scaling\nmax = 8\nseparation = 5\n" +
		"[particle \"a\"]\nposition = 0 0 0\nelectric = 1\n")
	require.NoError(t, err)
	assert.Equal(t, AnalysisScaling, data.Analysis)
	assert.Equal(t, 8, data.ScalingParam.Max)
	assert.Equal(t, 1, data.ScalingParam.Step)
	assert.Equal(t, 3, data.Lmax)
}

func TestBuild(t *testing.T) {
	data, err := Parse(dimerScene)
	require.NoError(t, err)
	c, err := Build(data)
	require.NoError(t, err)

	assert.Equal(t, []string{"a", "b"}, c.Names())
	assert.Equal(t, 2, c.Lmax())
	sphere, ok := c.GetParticles()[1].(*particle.Sphere)
	require.True(t, ok)
	assert.Equal(t, []complex128{0.02, 0}, sphere.Magnetic)
	assert.Equal(t, 0.5i, c.Source().At(0, interactions.Magnetic, vsh.ModeIndex(1, -1)))

	require.NoError(t, c.Solve())
	assert.NotNil(t, c.Solution())
}

func TestBuildTMatrixParticle(t *testing.T) {
	data, err := Parse(`
[scene]
wavenumber = 2
lmax = 1
[particle "t"]
position = 0 0 0
tmatrix = e 1 0 e 1 0 0.1
tmatrix = e 1 1 m 1 1 0.01i
[particle "s"]
position = 1 0 0
electric = 0.1
magnetic = 0.05
[source "t"]
coefficient = e 1 0 1
`)
	require.NoError(t, err)
	c, err := Build(data)
	require.NoError(t, err)

	tp, ok := c.GetParticles()[1].(*particle.TMatrixParticle)
	require.True(t, ok)
	assert.Equal(t, 0.01i, tp.T.At(0, vsh.ModeIndex(1, 1), 1, vsh.ModeIndex(1, 1)))

	resp, err := c.Response()
	require.NoError(t, err)
	assert.IsType(t, interactions.TMatrices{}, resp)
	require.NoError(t, c.Solve())
}

func TestNewSolver(t *testing.T) {
	for name, want := range map[string]matrix.Solver{
		"":          matrix.SparseLU{},
		"sparse-lu": matrix.SparseLU{},
		"dense-lu":  matrix.DenseLU{},
		"bicgstab":  matrix.BiCGSTAB{},
	} {
		got, err := NewSolver(name)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}
	_, err := NewSolver("cholesky")
	assert.Error(t, err)
}
