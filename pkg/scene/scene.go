package scene

import (
	"fmt"
	"maps"
	"math"
	"slices"
	"strconv"
	"strings"

	"gopkg.in/gcfg.v1"

	"github.com/edp1096/toy-mie/internal/consts"
)

type AnalysisType int

const (
	AnalysisSingle AnalysisType = iota
	AnalysisSweep
	AnalysisScaling
)

type SceneData struct {
	Title      string
	Wavenumber float64 // in the medium
	Index      float64 // medium refractive index
	Lmax       int
	Solver     string
	Workers    int
	Analysis   AnalysisType
	SweepParam struct {
		Sweep  string  // DEC, OCT, LIN
		Start  float64 // start vacuum wavenumber
		Stop   float64 // stop vacuum wavenumber
		Points int     // points per decade/octave, total for LIN
	}
	ScalingParam struct {
		Max        int     // largest chain length
		Step       int     // chain length increment
		Separation float64 // neighbour distance
	}
	Particles []ParticleData // sorted by name
}

type ParticleData struct {
	Name     string
	Position [3]float64
	Electric []complex128 // degree n at n-1
	Magnetic []complex128
	TMatrix  []TMatrixEntry
	Source   []SourceEntry
}

type TMatrixEntry struct {
	Pol, N, M          int // scattered mode
	IncPol, IncN, IncM int // incident mode
	Value              complex128
}

type SourceEntry struct {
	Pol, N, M int
	Value     complex128
}

type sceneSection struct {
	Title      string
	Wavelength string
	Wavenumber string
	Index      string
	Lmax       int
	Solver     string
	Workers    int
}

type analysisSection struct {
	Type       string
	Sweep      string
	Start      string
	Stop       string
	Points     int
	Max        int
	Step       int
	Separation string
}

type particleSection struct {
	Position string
	Electric []string
	Magnetic []string
	Tmatrix  []string
}

type sourceSection struct {
	Coefficient []string
}

type sceneFile struct {
	Scene    sceneSection
	Analysis analysisSection
	Particle map[string]*particleSection
	Source   map[string]*sourceSection
}

// Parse reads a gcfg scene description.
func Parse(input string) (*SceneData, error) {
	var file sceneFile
	if err := gcfg.ReadStringInto(&file, input); err != nil {
		return nil, fmt.Errorf("reading scene: %w", err)
	}

	data := &SceneData{
		Title:   strings.TrimSpace(file.Scene.Title),
		Index:   consts.DEFAULT_MEDIUM_INDEX,
		Lmax:    file.Scene.Lmax,
		Solver:  consts.DEFAULT_SOLVER,
		Workers: file.Scene.Workers,
	}

	if err := parseScene(data, &file.Scene); err != nil {
		return nil, err
	}
	if err := parseAnalysis(data, &file.Analysis); err != nil {
		return nil, err
	}

	if len(file.Particle) == 0 {
		return nil, fmt.Errorf("scene has no particles")
	}
	for _, name := range slices.Sorted(maps.Keys(file.Particle)) {
		p, err := parseParticle(name, file.Particle[name])
		if err != nil {
			return nil, fmt.Errorf("particle %s: %w", name, err)
		}
		data.Particles = append(data.Particles, *p)
	}

	for _, name := range slices.Sorted(maps.Keys(file.Source)) {
		idx := slices.IndexFunc(data.Particles, func(p ParticleData) bool { return p.Name == name })
		if idx < 0 {
			return nil, fmt.Errorf("source for unknown particle %s", name)
		}
		for _, line := range file.Source[name].Coefficient {
			entry, err := parseSourceEntry(line)
			if err != nil {
				return nil, fmt.Errorf("source %s: %w", name, err)
			}
			data.Particles[idx].Source = append(data.Particles[idx].Source, entry)
		}
	}

	if data.Lmax == 0 {
		for _, p := range data.Particles {
			data.Lmax = max(data.Lmax, len(p.Electric), len(p.Magnetic))
		}
		if data.Lmax == 0 {
			data.Lmax = consts.DEFAULT_LMAX
		}
	}

	return data, nil
}

func parseScene(data *SceneData, s *sceneSection) error {
	var err error

	if s.Index != "" {
		data.Index, err = ParseValue(s.Index)
		if err != nil {
			return fmt.Errorf("invalid index: %v", err)
		}
		if data.Index <= 0 {
			return fmt.Errorf("index must be positive: %g", data.Index)
		}
	}
	if s.Solver != "" {
		data.Solver = strings.ToLower(s.Solver)
	}
	if s.Lmax < 0 || s.Workers < 0 {
		return fmt.Errorf("lmax and workers must not be negative")
	}

	switch {
	case s.Wavenumber != "" && s.Wavelength != "":
		return fmt.Errorf("set either wavelength or wavenumber, not both")
	case s.Wavenumber != "":
		k0, err := ParseValue(s.Wavenumber)
		if err != nil {
			return fmt.Errorf("invalid wavenumber: %v", err)
		}
		data.Wavenumber = k0 * data.Index
	case s.Wavelength != "":
		lambda, err := ParseValue(s.Wavelength)
		if err != nil {
			return fmt.Errorf("invalid wavelength: %v", err)
		}
		if lambda <= 0 {
			return fmt.Errorf("wavelength must be positive: %g", lambda)
		}
		data.Wavenumber = 2 * math.Pi * data.Index / lambda
	}

	return nil
}

func parseAnalysis(data *SceneData, a *analysisSection) error {
	var err error

	switch strings.ToLower(a.Type) {
	case "", "single":
		data.Analysis = AnalysisSingle
		if data.Wavenumber <= 0 {
			return fmt.Errorf("single analysis needs a positive wavelength or wavenumber")
		}

	case "sweep":
		data.Analysis = AnalysisSweep

		// DEC, OCT, LIN
		data.SweepParam.Sweep = strings.ToUpper(a.Sweep)
		if data.SweepParam.Sweep == "" {
			data.SweepParam.Sweep = "DEC"
		}
		if data.SweepParam.Sweep != "DEC" && data.SweepParam.Sweep != "OCT" && data.SweepParam.Sweep != "LIN" {
			return fmt.Errorf("invalid sweep type: %s", data.SweepParam.Sweep)
		}
		data.SweepParam.Points = a.Points
		if data.SweepParam.Points == 0 {
			data.SweepParam.Points = consts.DEFAULT_POINTS
		}
		data.SweepParam.Start, err = ParseValue(a.Start)
		if err != nil {
			return fmt.Errorf("invalid sweep start: %v", err)
		}
		data.SweepParam.Stop, err = ParseValue(a.Stop)
		if err != nil {
			return fmt.Errorf("invalid sweep stop: %v", err)
		}
		if data.SweepParam.Start <= 0 || data.SweepParam.Stop < data.SweepParam.Start || data.SweepParam.Points < 1 {
			return fmt.Errorf("invalid sweep range %g..%g with %d points",
				data.SweepParam.Start, data.SweepParam.Stop, data.SweepParam.Points)
		}

	case "scaling":
		data.Analysis = AnalysisScaling
		if data.Wavenumber <= 0 {
			return fmt.Errorf("scaling analysis needs a positive wavelength or wavenumber")
		}
		data.ScalingParam.Max = a.Max
		data.ScalingParam.Step = a.Step
		if data.ScalingParam.Step == 0 {
			data.ScalingParam.Step = consts.DEFAULT_SCALING_STEP
		}
		if data.ScalingParam.Max < 1 || data.ScalingParam.Step < 1 {
			return fmt.Errorf("invalid scaling max %d step %d", data.ScalingParam.Max, data.ScalingParam.Step)
		}
		data.ScalingParam.Separation, err = ParseValue(a.Separation)
		if err != nil {
			return fmt.Errorf("invalid separation: %v", err)
		}
		if data.ScalingParam.Separation <= 0 {
			return fmt.Errorf("separation must be positive: %g", data.ScalingParam.Separation)
		}

	default:
		return fmt.Errorf("unsupported analysis type: %s", a.Type)
	}

	return nil
}

func parseParticle(name string, s *particleSection) (*ParticleData, error) {
	var err error

	p := &ParticleData{Name: name}
	p.Position, err = ParseVector(s.Position)
	if err != nil {
		return nil, fmt.Errorf("invalid position: %v", err)
	}

	for _, v := range s.Electric {
		c, err := ParseComplex(v)
		if err != nil {
			return nil, fmt.Errorf("invalid electric coefficient: %v", err)
		}
		p.Electric = append(p.Electric, c)
	}
	for _, v := range s.Magnetic {
		c, err := ParseComplex(v)
		if err != nil {
			return nil, fmt.Errorf("invalid magnetic coefficient: %v", err)
		}
		p.Magnetic = append(p.Magnetic, c)
	}

	for _, line := range s.Tmatrix {
		entry, err := parseTMatrixEntry(line)
		if err != nil {
			return nil, err
		}
		p.TMatrix = append(p.TMatrix, entry)
	}

	if len(p.TMatrix) > 0 && (len(p.Electric) > 0 || len(p.Magnetic) > 0) {
		return nil, fmt.Errorf("set either electric/magnetic or tmatrix, not both")
	}
	if len(p.TMatrix) == 0 && len(p.Electric) == 0 && len(p.Magnetic) == 0 {
		return nil, fmt.Errorf("no response coefficients")
	}

	return p, nil
}

// "pol n m value", pol being e, m, 0 or 1
func parseSourceEntry(line string) (SourceEntry, error) {
	fields := strings.Fields(line)
	if len(fields) != 4 {
		return SourceEntry{}, fmt.Errorf("coefficient needs pol n m value: %q", line)
	}
	pol, n, m, err := parseMode(fields[0], fields[1], fields[2])
	if err != nil {
		return SourceEntry{}, err
	}
	value, err := ParseComplex(fields[3])
	if err != nil {
		return SourceEntry{}, err
	}
	return SourceEntry{Pol: pol, N: n, M: m, Value: value}, nil
}

// "pol n m pol' n' m' value"
func parseTMatrixEntry(line string) (TMatrixEntry, error) {
	fields := strings.Fields(line)
	if len(fields) != 7 {
		return TMatrixEntry{}, fmt.Errorf("tmatrix needs pol n m pol n m value: %q", line)
	}
	pol, n, m, err := parseMode(fields[0], fields[1], fields[2])
	if err != nil {
		return TMatrixEntry{}, err
	}
	incPol, incN, incM, err := parseMode(fields[3], fields[4], fields[5])
	if err != nil {
		return TMatrixEntry{}, err
	}
	value, err := ParseComplex(fields[6])
	if err != nil {
		return TMatrixEntry{}, err
	}
	return TMatrixEntry{Pol: pol, N: n, M: m, IncPol: incPol, IncN: incN, IncM: incM, Value: value}, nil
}

func parseMode(polStr, nStr, mStr string) (pol, n, m int, err error) {
	switch strings.ToLower(polStr) {
	case "e", "0":
		pol = 0
	case "m", "1":
		pol = 1
	default:
		return 0, 0, 0, fmt.Errorf("invalid polarization: %s", polStr)
	}
	n, err = strconv.Atoi(nStr)
	if err != nil {
		return 0, 0, 0, fmt.Errorf("invalid degree: %v", err)
	}
	m, err = strconv.Atoi(mStr)
	if err != nil {
		return 0, 0, 0, fmt.Errorf("invalid order: %v", err)
	}
	if n < 1 || m < -n || m > n {
		return 0, 0, 0, fmt.Errorf("invalid mode (n=%d, m=%d)", n, m)
	}
	return pol, n, m, nil
}
