package analysis

import (
	"math"
	"math/cmplx"

	"github.com/edp1096/toy-mie/pkg/cluster"
)

type Analysis interface {
	Setup(c *cluster.Cluster) error
	Execute() error
	GetResults() map[string][]float64
}

type BaseAnalysis struct {
	Cluster *cluster.Cluster
	results map[string][]float64 // key: variable name, value: result by sweep point
}

func NewBaseAnalysis() *BaseAnalysis {
	return &BaseAnalysis{results: make(map[string][]float64)}
}

func (a *BaseAnalysis) Store(name string, value float64) {
	a.results[name] = append(a.results[name], value)
}

// StoreComplex stores magnitude and phase (degree) of every value.
func (a *BaseAnalysis) StoreComplex(solution map[string]complex128) {
	for name, value := range solution {
		a.Store(name+"_MAG", cmplx.Abs(value))
		a.Store(name+"_PHASE", cmplx.Phase(value)*180.0/math.Pi)
	}
}

func (a *BaseAnalysis) GetResults() map[string][]float64 {
	return a.results
}
