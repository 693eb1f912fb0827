package analysis

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/cmplxs"
	"gonum.org/v1/gonum/floats"

	"github.com/edp1096/toy-mie/pkg/cluster"
)

// WavenumberSweep solves the cluster over a range of vacuum wavenumbers and
// records the norm of each particle's incident and scattered coefficients.
type WavenumberSweep struct {
	BaseAnalysis
	start       float64
	stop        float64
	numPoints   int
	pointsType  string // "DEC", "OCT", "LIN"
	index       float64
	wavenumbers []float64
}

func NewWavenumberSweep(kStart, kStop float64, nPoints int, pType string, index float64) *WavenumberSweep {
	return &WavenumberSweep{
		BaseAnalysis: *NewBaseAnalysis(),
		start:        kStart,
		stop:         kStop,
		numPoints:    nPoints,
		pointsType:   pType,
		index:        index,
	}
}

func (ws *WavenumberSweep) Setup(c *cluster.Cluster) error {
	if ws.start <= 0 || ws.stop < ws.start {
		return fmt.Errorf("invalid sweep range %g..%g", ws.start, ws.stop)
	}
	if ws.numPoints < 1 {
		return fmt.Errorf("invalid number of points: %d", ws.numPoints)
	}
	if ws.index <= 0 {
		return fmt.Errorf("invalid medium index: %g", ws.index)
	}
	ws.Cluster = c

	if err := ws.generatePoints(); err != nil {
		return err
	}
	return nil
}

func (ws *WavenumberSweep) Execute() error {
	if ws.Cluster == nil {
		return fmt.Errorf("cluster not set")
	}

	k := ws.Cluster.Wavenumber
	defer func() { ws.Cluster.Wavenumber = k }()

	for _, k0 := range ws.wavenumbers {
		ws.Cluster.Wavenumber = k0 * ws.index

		if err := ws.Cluster.Solve(); err != nil {
			return fmt.Errorf("solve error at k=%g: %w", k0, err)
		}
		scattered, err := ws.Cluster.Scattered()
		if err != nil {
			return fmt.Errorf("scattered coefficients at k=%g: %w", k0, err)
		}

		ws.Store("K", k0)
		solution := ws.Cluster.Solution()
		for i, name := range ws.Cluster.Names() {
			ws.Store(fmt.Sprintf("|a(%s)|", name), cmplxs.Norm(solution.Particle(i), 2))
			ws.Store(fmt.Sprintf("|p(%s)|", name), cmplxs.Norm(scattered.Particle(i), 2))
		}
	}

	return nil
}

func (ws *WavenumberSweep) Wavenumbers() []float64 {
	return ws.wavenumbers
}

func (ws *WavenumberSweep) generatePoints() error {
	var total int

	switch ws.pointsType {
	case "DEC": // points per decade
		total = int(math.Ceil(math.Log10(ws.stop/ws.start)*float64(ws.numPoints))) + 1
	case "OCT": // points per octave
		total = int(math.Ceil(math.Log2(ws.stop/ws.start)*float64(ws.numPoints))) + 1
	case "LIN": // total points
		total = ws.numPoints
	default:
		return fmt.Errorf("invalid sweep type: %s", ws.pointsType)
	}

	if total < 2 || ws.start == ws.stop {
		ws.wavenumbers = []float64{ws.start}
		return nil
	}

	ws.wavenumbers = make([]float64, total)
	if ws.pointsType == "LIN" {
		floats.Span(ws.wavenumbers, ws.start, ws.stop)
	} else {
		floats.LogSpan(ws.wavenumbers, ws.start, ws.stop)
	}
	return nil
}
