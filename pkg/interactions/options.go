package interactions

import (
	"runtime"

	"github.com/edp1096/toy-mie/pkg/matrix"
	"github.com/edp1096/toy-mie/pkg/vsh"
)

type Option func(*options)

type options struct {
	workers    int
	translator Translator
	solver     matrix.Solver
}

func defaultOptions() options {
	return options{
		workers:    runtime.GOMAXPROCS(0),
		translator: TranslatorFunc(vsh.Translation),
		solver:     matrix.SparseLU{},
	}
}

func gatherOptions(opts []Option) options {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// WithWorkers bounds the number of goroutines filling mode pairs.
func WithWorkers(n int) Option {
	if n < 1 {
		panic("interactions: WithWorkers: n must be >= 1")
	}
	return func(o *options) { o.workers = n }
}

// WithTranslator replaces the default vsh.Translation.
func WithTranslator(t Translator) Option {
	if t == nil {
		panic("interactions: WithTranslator: nil translator")
	}
	return func(o *options) { o.translator = t }
}

// WithSolver replaces the default sparse LU solver.
func WithSolver(s matrix.Solver) Option {
	if s == nil {
		panic("interactions: WithSolver: nil solver")
	}
	return func(o *options) { o.solver = s }
}
