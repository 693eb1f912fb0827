package interactions

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/edp1096/toy-mie/pkg/matrix"
	"github.com/edp1096/toy-mie/pkg/vsh"
)

func TestSolveZeroSourceGivesZero(t *testing.T) {
	resp := decayingResponse(2, 2)
	src := matrix.NewCoefficients(matrix.Layout{Particles: 2, Rmax: vsh.RmaxFromLmax(2)})

	for _, r := range []Response{resp, DiagonalTMatrices(resp)} {
		x, err := Solve(dimer(4), r, src, 1)
		require.NoError(t, err)
		for _, v := range x.Data {
			assert.Zero(t, v)
		}
	}
}

func TestSolveDecaysWithSeparation(t *testing.T) {
	lmax := 2
	resp := decayingResponse(2, lmax)
	layout := matrix.Layout{Particles: 2, Rmax: vsh.RmaxFromLmax(lmax)}
	src := matrix.NewCoefficients(layout)
	for r := 0; r < layout.Rmax; r++ {
		src.Set(0, Electric, r, 1)
		src.Set(0, Magnetic, r, 0.5i)
	}

	k := 1.0
	previous := math.Inf(1)
	for _, kd := range []float64{5, 50, 500} {
		x, err := SolveSphereCluster(dimer(kd/k), resp, src, k)
		require.NoError(t, err)

		other := 0.0
		for _, v := range x.Particle(1) {
			other += real(v)*real(v) + imag(v)*imag(v)
		}
		other = math.Sqrt(other)
		assert.Greater(t, other, 0.0)
		assert.Less(t, other, previous, "kd = %g", kd)
		previous = other
	}
}

func TestSolveWeakCouplingRecoversSingleParticle(t *testing.T) {
	lmax := 2
	resp := decayingResponse(2, lmax)
	src := randomSource(7, matrix.Layout{Particles: 2, Rmax: vsh.RmaxFromLmax(lmax)})

	x, err := Solve(dimer(1e5), resp, src, 1)
	require.NoError(t, err)
	assert.Less(t, distance(x, src), 1e-4*src.Norm())

	scattered, err := Scattered(resp, x)
	require.NoError(t, err)
	isolated, err := Scattered(resp, src)
	require.NoError(t, err)
	assert.Less(t, distance(scattered, isolated), 1e-4*isolated.Norm())
}

func TestSolveConvergesWithLmax(t *testing.T) {
	positions := dimer(12)
	k := 1.0
	lowest := make([][]complex128, 0, 4)

	for lmax := 1; lmax <= 4; lmax++ {
		layout := matrix.Layout{Particles: 2, Rmax: vsh.RmaxFromLmax(lmax)}
		src := matrix.NewCoefficients(layout)
		src.Set(0, Electric, vsh.ModeIndex(1, 0), 1)
		src.Set(0, Electric, vsh.ModeIndex(1, 1), 0.5)
		src.Set(0, Magnetic, vsh.ModeIndex(1, -1), 0.25i)

		x, err := Solve(positions, decayingResponse(2, lmax), src, k)
		require.NoError(t, err)

		// degree-1 coefficients of both particles
		var dipoles []complex128
		for i := 0; i < 2; i++ {
			for pol := 0; pol < 2; pol++ {
				for r := 0; r < 3; r++ {
					dipoles = append(dipoles, x.At(i, pol, r))
				}
			}
		}
		lowest = append(lowest, dipoles)
	}

	change := func(a, b []complex128) float64 {
		sum := 0.0
		for i := range a {
			d := a[i] - b[i]
			sum += real(d)*real(d) + imag(d)*imag(d)
		}
		return math.Sqrt(sum)
	}
	d1 := change(lowest[0], lowest[1])
	d2 := change(lowest[1], lowest[2])
	d3 := change(lowest[2], lowest[3])
	assert.Greater(t, d1, 0.0)
	assert.Less(t, d2, d1)
	assert.Less(t, d3, d2)
}

func TestSolveGeneralMatchesScalar(t *testing.T) {
	positions := triangle()
	lmax := 2
	resp := randomResponse(8, len(positions), lmax)
	src := randomSource(9, matrix.Layout{Particles: len(positions), Rmax: vsh.RmaxFromLmax(lmax)})

	want, err := SolveSphereCluster(positions, resp, src, 1.2)
	require.NoError(t, err)
	got, err := SolveParticleCluster(positions, DiagonalTMatrices(resp), src, 1.2)
	require.NoError(t, err)

	for idx := range want.Data {
		assertClose(t, want.Data[idx], got.Data[idx], 1e-9, "entry %d", idx)
	}
}

func TestSolveSolversAgree(t *testing.T) {
	positions := triangle()
	lmax := 2
	resp := randomResponse(10, len(positions), lmax)
	src := randomSource(11, matrix.Layout{Particles: len(positions), Rmax: vsh.RmaxFromLmax(lmax)})

	reference, err := Solve(positions, resp, src, 0.7)
	require.NoError(t, err)

	for _, solver := range []matrix.Solver{matrix.DenseLU{}, matrix.BiCGSTAB{}} {
		x, err := Solve(positions, resp, src, 0.7, WithSolver(solver))
		require.NoError(t, err)
		for idx := range x.Data {
			assertClose(t, reference.Data[idx], x.Data[idx], 1e-8, "%v entry %d", solver, idx)
		}
	}
}

func TestShapeValidationPrecedesTranslation(t *testing.T) {
	resp := randomResponse(12, 2, 2)
	good := matrix.Layout{Particles: 2, Rmax: vsh.RmaxFromLmax(2)}
	positions := dimer(3)

	tests := []struct {
		name string
		run  func(tr Translator) error
		kind error
	}{
		{
			name: "positions vs scalar response",
			run: func(tr Translator) error {
				_, err := AssembleSystem(triangle(), resp, 1, WithTranslator(tr))
				return err
			},
			kind: ErrShapeMismatch,
		},
		{
			name: "positions vs T-matrices",
			run: func(tr Translator) error {
				_, err := AssembleSystem(triangle(), DiagonalTMatrices(resp), 1, WithTranslator(tr))
				return err
			},
			kind: ErrShapeMismatch,
		},
		{
			name: "source degree axis",
			run: func(tr Translator) error {
				src := matrix.NewCoefficients(matrix.Layout{Particles: 2, Rmax: vsh.RmaxFromLmax(3)})
				_, err := Solve(positions, resp, src, 1, WithTranslator(tr))
				return err
			},
			kind: ErrShapeMismatch,
		},
		{
			name: "source particle count",
			run: func(tr Translator) error {
				src := matrix.NewCoefficients(matrix.Layout{Particles: 3, Rmax: good.Rmax})
				_, err := Solve(positions, resp, src, 1, WithTranslator(tr))
				return err
			},
			kind: ErrShapeMismatch,
		},
		{
			name: "truncated T-matrix",
			run: func(tr Translator) error {
				tms := DiagonalTMatrices(resp)
				tms[1].Data = tms[1].Data[:10]
				_, err := AssembleSystem(positions, tms, 1, WithTranslator(tr))
				return err
			},
			kind: ErrShapeMismatch,
		},
		{
			name: "mismatched lmax",
			run: func(tr Translator) error {
				tms := TMatrices{NewTMatrix(2), NewTMatrix(3)}
				_, err := AssembleSystem(positions, tms, 1, WithTranslator(tr))
				return err
			},
			kind: ErrUnsupportedConfiguration,
		},
		{
			name: "mismatched lmax before particle count",
			run: func(tr Translator) error {
				tms := TMatrices{NewTMatrix(2), NewTMatrix(1)}
				_, err := AssembleSystem(triangle(), tms, 1, WithTranslator(tr))
				return err
			},
			kind: ErrUnsupportedConfiguration,
		},
		{
			name: "invalid rmax",
			run: func(tr Translator) error {
				tms := TMatrices{{Rmax: 5, Data: make([]complex128, 100)}, {Rmax: 5, Data: make([]complex128, 100)}}
				_, err := AssembleSystem(positions, tms, 1, WithTranslator(tr))
				return err
			},
			kind: ErrUnsupportedConfiguration,
		},
		{
			name: "zero lmax",
			run: func(tr Translator) error {
				_, err := AssembleSystem(positions, NewScalarResponse(2, 0), 1, WithTranslator(tr))
				return err
			},
			kind: ErrUnsupportedConfiguration,
		},
		{
			name: "shape before geometry",
			run: func(tr Translator) error {
				_, err := AssembleSystem([]r3.Vec{{}, {}, {}}, resp, 1, WithTranslator(tr))
				return err
			},
			kind: ErrShapeMismatch,
		},
		{
			name: "coincident particles",
			run: func(tr Translator) error {
				_, err := AssembleSystem([]r3.Vec{{X: 1}, {X: 1}}, resp, 1, WithTranslator(tr))
				return err
			},
			kind: ErrInvalidGeometry,
		},
		{
			name: "non-finite position",
			run: func(tr Translator) error {
				_, err := Solve([]r3.Vec{{}, {Z: math.NaN()}}, DiagonalTMatrices(resp), matrix.NewCoefficients(good), 1, WithTranslator(tr))
				return err
			},
			kind: ErrInvalidGeometry,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			counter := &countingTranslator{}
			err := tt.run(counter)
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.kind)
			assert.Zero(t, counter.calls.Load())
		})
	}
}

func TestTranslatorShapeMismatch(t *testing.T) {
	short := TranslatorFunc(func(m, n, u, v int, distance, theta, phi []float64, k float64, mode vsh.WaveMode) (a, b []complex128) {
		return make([]complex128, len(distance)), nil
	})
	resp := randomResponse(13, 2, 1)

	_, err := SphereAggregate(dimer(2), resp, 1, WithTranslator(short))
	assert.ErrorIs(t, err, ErrShapeMismatch)
	_, err = ParticleAggregate(dimer(2), DiagonalTMatrices(resp), 1, WithTranslator(short))
	assert.ErrorIs(t, err, ErrShapeMismatch)
}

func TestSolveSingularSystem(t *testing.T) {
	cancel := TranslatorFunc(func(m, n, u, v int, distance, theta, phi []float64, k float64, mode vsh.WaveMode) (a, b []complex128) {
		return make([]complex128, len(distance)), make([]complex128, len(distance))
	})
	resp := NewScalarResponse(2, 1)
	src := randomSource(14, matrix.Layout{Particles: 2, Rmax: 3})

	x, err := Solve(dimer(2), resp, src, 1, WithTranslator(cancel), WithSolver(singularSolver{}))
	assert.Nil(t, x)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrSingularSystem)

	var serr *matrix.SingularError
	assert.True(t, errors.As(err, &serr))
}

// singularSolver subtracts the identity before solving with DenseLU.
type singularSolver struct{}

func (singularSolver) Solve(sys *matrix.System, b []complex128) ([]complex128, error) {
	shifted := matrix.NewSystem(sys.Layout)
	raw := shifted.Dense().RawCMatrix()
	copy(raw.Data, sys.Dense().RawCMatrix().Data)
	for k := 0; k < raw.Rows; k++ {
		raw.Data[k*raw.Stride+k] -= 1
	}
	return matrix.DenseLU{}.Solve(shifted, b)
}

func TestScattered(t *testing.T) {
	lmax := 2
	resp := randomResponse(15, 2, lmax)
	inc := randomSource(16, matrix.Layout{Particles: 2, Rmax: vsh.RmaxFromLmax(lmax)})

	scalar, err := Scattered(resp, inc)
	require.NoError(t, err)
	for i := 0; i < 2; i++ {
		for mode := range vsh.Modes(lmax) {
			for pol := 0; pol < 2; pol++ {
				assert.Equal(t, resp.At(i, pol, mode.N)*inc.At(i, pol, mode.R), scalar.At(i, pol, mode.R))
			}
		}
	}

	general, err := Scattered(DiagonalTMatrices(resp), inc)
	require.NoError(t, err)
	for idx := range scalar.Data {
		assertClose(t, scalar.Data[idx], general.Data[idx], 1e-14)
	}

	_, err = Scattered(resp, matrix.NewCoefficients(matrix.Layout{Particles: 2, Rmax: 3}))
	assert.ErrorIs(t, err, ErrShapeMismatch)
}

func TestAssembleSystemDispatch(t *testing.T) {
	resp := randomResponse(17, 2, 1)
	scalar, err := AssembleSystem(dimer(2), resp, 1)
	require.NoError(t, err)
	general, err := AssembleSystem(dimer(2), DiagonalTMatrices(resp), 1)
	require.NoError(t, err)
	assert.Equal(t, scalar.Layout, general.Layout)

	_, err = AssembleSystem(dimer(2), nil, 1)
	assert.ErrorIs(t, err, ErrUnsupportedConfiguration)
}

func TestScalarResponseFrom(t *testing.T) {
	resp, err := ScalarResponseFrom([][2][]complex128{
		{{1, 2}, {3, 4}},
		{{5, 6}, {7, 8}},
	})
	require.NoError(t, err)
	assert.Equal(t, 2, resp.Particles())
	assert.Equal(t, 2, resp.Lmax())
	assert.Equal(t, complex128(6), resp.At(1, Electric, 2))
	assert.Equal(t, complex128(3), resp.At(0, Magnetic, 1))

	_, err = ScalarResponseFrom([][2][]complex128{
		{{1, 2}, {3, 4}},
		{{5}, {7}},
	})
	assert.ErrorIs(t, err, ErrUnsupportedConfiguration)

	_, err = ScalarResponseFrom(nil)
	assert.ErrorIs(t, err, ErrShapeMismatch)
}

func TestDiagonalTMatrix(t *testing.T) {
	resp := randomResponse(18, 2, 2)
	tm := DiagonalTMatrix(resp, 1)
	require.Equal(t, 8, tm.Rmax)
	for q := 0; q < 2; q++ {
		for s := range vsh.Modes(2) {
			for e := 0; e < 2; e++ {
				for f := 0; f < tm.Rmax; f++ {
					want := complex128(0)
					if q == e && s.R == f {
						want = resp.At(1, q, s.N)
					}
					assert.Equal(t, want, tm.At(q, s.R, e, f))
				}
			}
		}
	}
}

func TestOptionsPanicOnNonsense(t *testing.T) {
	assert.Panics(t, func() { WithWorkers(0) })
	assert.Panics(t, func() { WithTranslator(nil) })
	assert.Panics(t, func() { WithSolver(nil) })
}
