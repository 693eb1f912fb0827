package vsh

import (
	"iter"
	"math"
)

// Mode is one (degree, order) pair of a vector spherical harmonic together
// with its linear index.
type Mode struct {
	R int // linear index
	N int // degree, n >= 1
	M int // order, -n <= m <= n
}

func RmaxFromLmax(lmax int) int {
	return lmax * (lmax + 2)
}

func LmaxFromRmax(rmax int) int {
	return int(math.Floor(-1 + math.Sqrt(float64(1+rmax))))
}

// ValidRmax reports whether rmax is lmax(lmax+2) for some lmax >= 1.
func ValidRmax(rmax int) bool {
	if rmax < 3 {
		return false
	}
	return RmaxFromLmax(LmaxFromRmax(rmax)) == rmax
}

func ModeIndex(n, m int) int {
	return n*n + n - 1 + m
}

func ModeFromIndex(r int) (n, m int) {
	n = int(math.Sqrt(float64(r + 1)))
	for (n+1)*(n+1) <= r+1 {
		n++
	}
	for n*n > r+1 {
		n--
	}
	m = r - (n*n + n - 1)
	return n, m
}

// Mirror returns the index of (n, -m).
func (md Mode) Mirror() int {
	return md.R - 2*md.M
}

// Modes enumerates (r, n, m) for n in [1, lmax], m in [-n, n] in ascending r.
// The sequence can be ranged over any number of times.
func Modes(lmax int) iter.Seq[Mode] {
	return func(yield func(Mode) bool) {
		r := 0
		for n := 1; n <= lmax; n++ {
			for m := -n; m <= n; m++ {
				if !yield(Mode{R: r, N: n, M: m}) {
					return
				}
				r++
			}
		}
	}
}
