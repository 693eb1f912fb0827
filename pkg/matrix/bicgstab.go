package matrix

import (
	"fmt"

	"gonum.org/v1/gonum/cmplxs"
)

// BiCGSTAB is the stabilized biconjugate gradient method. It stops once
// ||b - A x|| <= Tol*||b||.
type BiCGSTAB struct {
	Tol     float64 // zero selects 1e-10
	MaxIter int     // zero selects 2*size
}

func (BiCGSTAB) String() string {
	return "bicgstab"
}

func (s BiCGSTAB) Solve(sys *System, b []complex128) ([]complex128, error) {
	if err := checkShape(sys, b); err != nil {
		return nil, err
	}
	n := sys.Size()
	tol := s.Tol
	if tol == 0 {
		tol = 1e-10
	}
	maxIter := s.MaxIter
	if maxIter == 0 {
		maxIter = 2 * n
	}

	x := make([]complex128, n)
	bnorm := cmplxs.Norm(b, 2)
	if bnorm == 0 {
		return x, nil
	}
	threshold := tol * bnorm

	r := make([]complex128, n)
	copy(r, b)
	rhat := make([]complex128, n)
	copy(rhat, b)
	p := make([]complex128, n)
	v := make([]complex128, n)
	sv := make([]complex128, n)

	rho, alpha, omega := complex(1, 0), complex(1, 0), complex(1, 0)
	breakdown := func(iter int, what string) error {
		return &SingularError{Method: s.String(), Rank: -1,
			Cause: fmt.Errorf("breakdown (%s) at iteration %d", what, iter)}
	}

	for iter := 0; iter < maxIter; iter++ {
		rhoNext := cmplxs.Dot(rhat, r)
		if rhoNext == 0 {
			return nil, breakdown(iter, "rho = 0")
		}
		beta := (rhoNext / rho) * (alpha / omega)
		rho = rhoNext

		// p = r + beta*(p - omega*v)
		cmplxs.AddScaled(p, -omega, v)
		cmplxs.Scale(beta, p)
		cmplxs.Add(p, r)

		v = sys.MulVec(p)
		denom := cmplxs.Dot(rhat, v)
		if denom == 0 {
			return nil, breakdown(iter, "<rhat, v> = 0")
		}
		alpha = rho / denom

		copy(sv, r)
		cmplxs.AddScaled(sv, -alpha, v)
		if cmplxs.Norm(sv, 2) <= threshold {
			cmplxs.AddScaled(x, alpha, p)
			return x, nil
		}

		t := sys.MulVec(sv)
		tt := cmplxs.Dot(t, t)
		if tt == 0 {
			return nil, breakdown(iter, "t = 0")
		}
		omega = cmplxs.Dot(t, sv) / tt

		cmplxs.AddScaled(x, alpha, p)
		cmplxs.AddScaled(x, omega, sv)

		copy(r, sv)
		cmplxs.AddScaled(r, -omega, t)
		if cmplxs.Norm(r, 2) <= threshold {
			return x, nil
		}
		if omega == 0 {
			return nil, breakdown(iter, "omega = 0")
		}
	}

	residual := cmplxs.Norm(r, 2) / bnorm
	return nil, fmt.Errorf("%w: relative residual %.3g after %d iterations", ErrNotConverged, residual, maxIter)
}
