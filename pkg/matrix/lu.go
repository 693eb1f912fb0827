package matrix

import (
	"fmt"
	"math"
	"math/cmplx"

	"gonum.org/v1/gonum/blas/cblas128"
)

// DenseLU solves with a partial-pivot LU factorization of a copy of the
// flat system matrix.
type DenseLU struct {
	// Pivots with magnitude at or below Tol times the largest entry count
	// as zero. Zero selects 1e-14.
	Tol float64
}

func (DenseLU) String() string {
	return "dense-lu"
}

func (d DenseLU) Solve(sys *System, b []complex128) ([]complex128, error) {
	if err := checkShape(sys, b); err != nil {
		return nil, err
	}
	n := sys.Size()
	src := sys.Dense().RawCMatrix()

	a := make([]complex128, n*n)
	for i := 0; i < n; i++ {
		copy(a[i*n:(i+1)*n], src.Data[i*src.Stride:i*src.Stride+n])
	}
	x := make([]complex128, n)
	copy(x, b)

	scale := 0.0
	for _, v := range a {
		scale = math.Max(scale, cmplx.Abs(v))
	}
	tol := d.Tol
	if tol == 0 {
		tol = 1e-14
	}
	tol *= scale

	row := func(i, from int) cblas128.Vector {
		return cblas128.Vector{N: n - from, Inc: 1, Data: a[i*n+from : (i+1)*n]}
	}

	for k := 0; k < n; k++ {
		col := cblas128.Vector{N: n - k, Inc: n, Data: a[k*n+k:]}
		p := k + cblas128.Iamax(col)
		if scale == 0 || cmplx.Abs(a[p*n+k]) <= tol {
			return nil, &SingularError{Method: d.String(), Rank: k,
				Cause: fmt.Errorf("zero pivot in column %d", k)}
		}
		if p != k {
			cblas128.Swap(row(p, 0), row(k, 0))
			x[p], x[k] = x[k], x[p]
		}

		pivot := a[k*n+k]
		for i := k + 1; i < n; i++ {
			factor := a[i*n+k] / pivot
			if factor == 0 {
				continue
			}
			a[i*n+k] = 0
			if k+1 < n {
				cblas128.Axpy(-factor, row(k, k+1), row(i, k+1))
			}
			x[i] -= factor * x[k]
		}
	}

	for i := n - 1; i >= 0; i-- {
		sum := x[i]
		for j := i + 1; j < n; j++ {
			sum -= a[i*n+j] * x[j]
		}
		x[i] = sum / a[i*n+i]
	}
	return x, nil
}
