package interactions

import (
	"fmt"

	"github.com/edp1096/toy-mie/pkg/geometry"
	"github.com/edp1096/toy-mie/pkg/vsh"
)

// Translator returns the vector translation coefficients A and B coupling
// source mode (v, u) into target mode (n, m), one value per displacement.
// Implementations are called from several goroutines at once.
type Translator interface {
	Translate(m, n, u, v int, distance, theta, phi []float64, k float64, mode vsh.WaveMode) (a, b []complex128)
}

type TranslatorFunc func(m, n, u, v int, distance, theta, phi []float64, k float64, mode vsh.WaveMode) (a, b []complex128)

func (f TranslatorFunc) Translate(m, n, u, v int, distance, theta, phi []float64, k float64, mode vsh.WaveMode) (a, b []complex128) {
	return f(m, n, u, v, distance, theta, phi, k, mode)
}

// translate calls t once for all pairs and checks the batch length.
func translate(t Translator, target, source vsh.Mode, pairs *geometry.Pairs, k float64) (a, b []complex128, err error) {
	a, b = t.Translate(target.M, target.N, source.M, source.N,
		pairs.Distance, pairs.Theta, pairs.Phi, k, vsh.Outgoing)
	if len(a) != pairs.Len() || len(b) != pairs.Len() {
		return nil, nil, fmt.Errorf("translator returned %d/%d values for %d pairs at (n=%d,m=%d),(v=%d,u=%d): %w",
			len(a), len(b), pairs.Len(), target.N, target.M, source.N, source.M, ErrShapeMismatch)
	}
	return a, b, nil
}
