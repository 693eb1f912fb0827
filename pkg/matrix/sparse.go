package matrix

import (
	"fmt"
	"math"

	"github.com/edp1096/sparse"
	"gonum.org/v1/gonum/cmplxs"
)

// SparseLU factors the system with edp1096/sparse in complex mode with
// interleaved (re, im) vectors.
type SparseLU struct {
	// Solutions whose relative residual ||Ax - b|| / ||b|| exceeds Tol are
	// rejected as singular. Zero selects 1e-8.
	Tol float64
}

func (SparseLU) String() string {
	return "sparse-lu"
}

func (s SparseLU) Solve(sys *System, b []complex128) ([]complex128, error) {
	if err := checkShape(sys, b); err != nil {
		return nil, err
	}
	size := sys.Size()

	config := &sparse.Configuration{
		Real:                    true,
		Complex:                 true,
		SeparatedComplexVectors: false,
		Expandable:              true,
		Translate:               false,
		ModifiedNodal:           false,
		TiesMultiplier:          5,
		PrinterWidth:            140,
		Annotate:                0,
	}

	m, err := sparse.Create(int64(size), config)
	if err != nil {
		return nil, fmt.Errorf("matrix: creating sparse matrix: %w", err)
	}
	defer m.Destroy()

	// 1-based indexing
	raw := sys.Dense().RawCMatrix()
	for i := 0; i < size; i++ {
		row := raw.Data[i*raw.Stride : i*raw.Stride+size]
		for j, value := range row {
			if value == 0 && i != j {
				continue
			}
			element := m.GetElement(int64(i+1), int64(j+1))
			element.Real += real(value)
			element.Imag += imag(value)
		}
	}

	if err := m.Factor(); err != nil {
		return nil, &SingularError{Method: s.String(), Rank: -1, Cause: err}
	}

	rhs := make([]float64, 2*(size+1))
	for i, value := range b {
		rhs[2*(i+1)] = real(value)
		rhs[2*(i+1)+1] = imag(value)
	}

	solution, _, err := m.SolveComplex(rhs, nil)
	if err != nil {
		return nil, &SingularError{Method: s.String(), Rank: -1, Cause: err}
	}

	x := make([]complex128, size)
	for i := range x {
		re, im := solution[2*(i+1)], solution[2*(i+1)+1]
		if math.IsNaN(re) || math.IsNaN(im) || math.IsInf(re, 0) || math.IsInf(im, 0) {
			return nil, &SingularError{Method: s.String(), Rank: -1,
				Cause: fmt.Errorf("non-finite solution at row %d", i)}
		}
		x[i] = complex(re, im)
	}

	tol := s.Tol
	if tol <= 0 {
		tol = 1e-8
	}
	r := sys.MulVec(x)
	cmplxs.Sub(r, b)
	if res, bnorm := cmplxs.Norm(r, 2), cmplxs.Norm(b, 2); res > tol*bnorm {
		return nil, &SingularError{Method: s.String(), Rank: -1,
			Cause: fmt.Errorf("relative residual %.3g exceeds %g", res/bnorm, tol)}
	}
	return x, nil
}
