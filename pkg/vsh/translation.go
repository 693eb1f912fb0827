package vsh

import (
	"math"
	"math/cmplx"
)

// WaveMode selects the radial function of the translated waves.
type WaveMode int

const (
	Outgoing WaveMode = iota // spherical Hankel h_n
	Incident                 // regular, spherical Bessel j_n
)

func (w WaveMode) String() string {
	switch w {
	case Outgoing:
		return "outgoing"
	case Incident:
		return "incident"
	}
	return "unknown"
}

func (w WaveMode) radial(p int, x float64) complex128 {
	if w == Incident {
		return complex(SphericalJn(p, x), 0)
	}
	return SphericalHn(p, x)
}

var imagPowers = [4]complex128{1, 1i, -1, -1i}

func ipow(p int) complex128 {
	return imagPowers[((p%4)+4)%4]
}

type radialTerm struct {
	order int
	coef  complex128
}

// Translation evaluates the vector translation coefficients A and B that
// re-expand mode (u, v) about a displaced origin onto mode (m, n), batched
// over every displacement (distance, theta, phi).
//
// The normalisation satisfies, for every displacement d,
//
//	A(-d) = (-1)^(n+v) A(d)          B(-d) = (-1)^(n+v+1) B(d)
//	A[-u,v,-m,n] = (-1)^(m+u) A      B[-u,v,-m,n] = (-1)^(m+u+1) B
//
// which the aggregate assemblers rely on to skip redundant evaluations.
func Translation(m, n, u, v int, distance, theta, phi []float64, k float64, mode WaveMode) (a, b []complex128) {
	size := len(distance)
	a = make([]complex128, size)
	b = make([]complex128, size)

	mu := u - m
	if absInt(m) > n || absInt(u) > v || n < 1 || v < 1 {
		return a, b
	}

	norm := 0.5 * parity(m) * math.Sqrt(
		float64((2*v+1)*(2*n+1))/float64(v*(v+1)*n*(n+1))*
			math.Exp(lnFactorial(n+m)+lnFactorial(v-u)-lnFactorial(n-m)-lnFactorial(v+u)))

	var aTerms, bTerms []radialTerm

	qmax := min(n, v, (n+v-absInt(mu))/2)
	for q := 0; q <= qmax; q++ {
		p := n + v - 2*q
		aq := gauntA(m, n, -u, v, p)
		if aq == 0 {
			continue
		}
		c := ipow(p) * complex(float64(n*(n+1)+v*(v+1)-p*(p+1))*aq, 0)
		aTerms = append(aTerms, radialTerm{order: p, coef: c})
	}

	qmax = min(n, v, (n+1+v-absInt(mu))/2)
	for q := 1; q <= qmax; q++ {
		p := n + v - 2*q
		bq := gauntB(m, n, -u, v, p)
		if bq == 0 {
			continue
		}
		w := math.Sqrt(float64(((p+1)*(p+1) - (n-v)*(n-v)) * ((n+v+1)*(n+v+1) - (p+1)*(p+1))))
		c := ipow(p+1) * complex(w*bq, 0)
		bTerms = append(bTerms, radialTerm{order: p + 1, coef: c})
	}

	for idx := 0; idx < size; idx++ {
		x := k * distance[idx]
		ct := math.Cos(theta[idx])
		phase := complex(norm, 0) * cmplx.Exp(complex(0, float64(mu)*phi[idx]))

		var sa, sb complex128
		for _, t := range aTerms {
			sa += t.coef * mode.radial(t.order, x) * complex(AssociatedLegendre(t.order, mu, ct), 0)
		}
		for _, t := range bTerms {
			sb += t.coef * mode.radial(t.order, x) * complex(AssociatedLegendre(t.order, mu, ct), 0)
		}

		a[idx] = phase * sa
		b[idx] = -phase * sb
	}

	return a, b
}

func gauntA(m, n, u, v, p int) float64 {
	if absInt(m+u) > p {
		return 0
	}
	f := parity(m+u) * float64(2*p+1) * math.Sqrt(math.Exp(
		lnFactorial(n+m)+lnFactorial(v+u)+lnFactorial(p-m-u)-
			lnFactorial(n-m)-lnFactorial(v-u)-lnFactorial(p+m+u)))
	return f * Wigner3j(n, v, p, 0, 0, 0) * Wigner3j(n, v, p, m, u, -m-u)
}

func gauntB(m, n, u, v, p int) float64 {
	if absInt(m+u) > p+1 {
		return 0
	}
	f := parity(m+u) * float64(2*p+3) * math.Sqrt(math.Exp(
		lnFactorial(n+m)+lnFactorial(v+u)+lnFactorial(p-m-u+1)-
			lnFactorial(n-m)-lnFactorial(v-u)-lnFactorial(p+m+u+1)))
	return f * Wigner3j(n, v, p, 0, 0, 0) * Wigner3j(n, v, p+1, m, u, -m-u)
}
