package vsh

import "math"

const lnFactorialTableSize = 256

var lnFactorialTable = buildLnFactorials(lnFactorialTableSize)

func buildLnFactorials(size int) []float64 {
	table := make([]float64, size)
	for i := 2; i < size; i++ {
		table[i] = table[i-1] + math.Log(float64(i))
	}
	return table
}

func lnFactorial(n int) float64 {
	if n < lnFactorialTableSize {
		return lnFactorialTable[n]
	}
	lg, _ := math.Lgamma(float64(n + 1))
	return lg
}

// parity returns (-1)^k.
func parity(k int) float64 {
	if k&1 == 0 {
		return 1
	}
	return -1
}

func absInt(k int) int {
	if k < 0 {
		return -k
	}
	return k
}

// SphericalJn is the spherical Bessel function of the first kind j_n(x).
func SphericalJn(n int, x float64) float64 {
	if n < 0 {
		return 0
	}
	if x == 0 {
		if n == 0 {
			return 1
		}
		return 0
	}

	j0 := math.Sin(x) / x
	if n == 0 {
		return j0
	}
	if x > float64(n) {
		j1 := math.Sin(x)/(x*x) - math.Cos(x)/x
		jPrev, j := j0, j1
		for l := 1; l < n; l++ {
			jPrev, j = j, float64(2*l+1)/x*j-jPrev
		}
		return j
	}

	// Miller's downward recurrence, normalised against j0 or j1
	start := n + 16 + int(math.Sqrt(40*float64(n))) + int(x)
	fNext, f := 0.0, 1e-30
	var fn, f0, f1 float64
	for l := start; l > 0; l-- {
		fPrev := float64(2*l+1)/x*f - fNext
		fNext, f = f, fPrev
		if l-1 == n {
			fn = f
		}
		if l-1 == 1 {
			f1 = f
		}
		if math.Abs(f) > 1e200 {
			f *= 1e-200
			fNext *= 1e-200
			fn *= 1e-200
			f1 *= 1e-200
		}
	}
	f0 = f

	if math.Abs(j0) >= 0.1 || math.Abs(f1) == 0 {
		return fn * j0 / f0
	}
	j1 := math.Sin(x)/(x*x) - math.Cos(x)/x
	return fn * j1 / f1
}

// SphericalYn is the spherical Bessel function of the second kind y_n(x).
func SphericalYn(n int, x float64) float64 {
	if n < 0 {
		return math.NaN()
	}
	y0 := -math.Cos(x) / x
	if n == 0 {
		return y0
	}
	y1 := -math.Cos(x)/(x*x) - math.Sin(x)/x
	yPrev, y := y0, y1
	for l := 1; l < n; l++ {
		yPrev, y = y, float64(2*l+1)/x*y-yPrev
	}
	return y
}

// SphericalHn is the spherical Hankel function of the first kind h_n(x) = j_n(x) + i y_n(x).
func SphericalHn(n int, x float64) complex128 {
	return complex(SphericalJn(n, x), SphericalYn(n, x))
}

// AssociatedLegendre returns P_n^m(x) including the Condon-Shortley phase.
// Negative orders follow P_n^{-m} = (-1)^m (n-m)!/(n+m)! P_n^m.
func AssociatedLegendre(n, m int, x float64) float64 {
	am := absInt(m)
	if n < 0 || am > n {
		return 0
	}

	pmm := 1.0
	if am > 0 {
		somx2 := math.Sqrt(math.Max(0, (1-x)*(1+x)))
		fact := 1.0
		for i := 1; i <= am; i++ {
			pmm *= -fact * somx2
			fact += 2
		}
	}

	p := pmm
	if n > am {
		pmmp1 := x * float64(2*am+1) * pmm
		p = pmmp1
		for l := am + 2; l <= n; l++ {
			pll := (x*float64(2*l-1)*pmmp1 - float64(l+am-1)*pmm) / float64(l-am)
			pmm, pmmp1 = pmmp1, pll
			p = pll
		}
	}

	if m < 0 {
		p *= parity(am) * math.Exp(lnFactorial(n-am)-lnFactorial(n+am))
	}
	return p
}

// Wigner3j evaluates the Wigner 3j symbol (j1 j2 j3; m1 m2 m3) for integer
// arguments with the Racah formula.
func Wigner3j(j1, j2, j3, m1, m2, m3 int) float64 {
	if m1+m2+m3 != 0 {
		return 0
	}
	if j3 < absInt(j1-j2) || j3 > j1+j2 {
		return 0
	}
	if absInt(m1) > j1 || absInt(m2) > j2 || absInt(m3) > j3 {
		return 0
	}

	kmin := max(0, j2-j3-m1, j1-j3+m2)
	kmax := min(j1+j2-j3, j1-m1, j2+m2)
	if kmin > kmax {
		return 0
	}

	lnPre := 0.5 * (lnFactorial(j1+j2-j3) + lnFactorial(j1-j2+j3) + lnFactorial(-j1+j2+j3) -
		lnFactorial(j1+j2+j3+1) +
		lnFactorial(j1+m1) + lnFactorial(j1-m1) +
		lnFactorial(j2+m2) + lnFactorial(j2-m2) +
		lnFactorial(j3+m3) + lnFactorial(j3-m3))

	sum := 0.0
	for k := kmin; k <= kmax; k++ {
		lnDen := lnFactorial(k) + lnFactorial(j3-j2+k+m1) + lnFactorial(j3-j1+k-m2) +
			lnFactorial(j1+j2-j3-k) + lnFactorial(j1-k-m1) + lnFactorial(j2-k+m2)
		sum += parity(k) * math.Exp(lnPre-lnDen)
	}

	return parity(j1-j2-m3) * sum
}
