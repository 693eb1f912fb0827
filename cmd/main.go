package main // import "toy-mie"

import (
	"flag"
	"fmt"
	"io"
	"log"
	"math"
	"os"
	"sort"
	"strings"

	"github.com/edp1096/toy-mie/internal/consts"
	"github.com/edp1096/toy-mie/pkg/analysis"
	"github.com/edp1096/toy-mie/pkg/cluster"
	"github.com/edp1096/toy-mie/pkg/scene"
	"github.com/edp1096/toy-mie/pkg/util"
)

var (
	plotFile = flag.String("plot", "", "write sweep or scaling results to an image file")
	verbose  = flag.Bool("v", false, "print scene and system details")
)

func getKeys(m map[string][]float64) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func printResults(w io.Writer, kind scene.AnalysisType, results map[string][]float64) {
	fmt.Fprintln(w, "\nAnalysis Results:")
	fmt.Fprintln(w, "================")

	// Scaling
	if kind == scene.AnalysisScaling {
		counts := results["N"]
		fmt.Fprintf(w, "\nScaling Results (%d chains):\n", len(counts))
		fmt.Fprintln(w, "    N    Size        Build        Solve      Scatter")
		fmt.Fprintln(w, "----------------------------------------------------")
		for i, n := range counts {
			fmt.Fprintf(w, "%5d  %6d  %11s  %11s  %11s\n", int(n), int(results["SIZE"][i]),
				util.FormatDuration(results["BUILD"][i]),
				util.FormatDuration(results["SOLVE"][i]),
				util.FormatDuration(results["SCATTER"][i]))
		}
		return
	}

	ks := results["K"]

	// Sweep
	if kind == scene.AnalysisSweep {
		fmt.Fprintf(w, "\nWavenumber Sweep Results (%d points):\n", len(ks))
		fmt.Fprintln(w, "Wavenumber                         Incident / Scattered norms")
		fmt.Fprintln(w, "-------------------------------------------------------------")

		var names []string
		for _, name := range getKeys(results) {
			if strings.HasPrefix(name, "|") {
				names = append(names, name)
			}
		}
		for i, k := range ks {
			fmt.Fprintf(w, "%-34s", util.FormatWavenumber(k))
			for _, name := range names {
				fmt.Fprintf(w, "%s=%s  ", name, util.FormatMagnitude(results[name][i]))
			}
			fmt.Fprintln(w)
		}
		return
	}

	// Single point
	if len(ks) == 1 {
		fmt.Fprintf(w, "\n%s\n", util.FormatWavenumber(ks[0]))
	}
	for _, prefix := range []string{"a(", "p("} {
		if prefix == "a(" {
			fmt.Fprintln(w, "\nIncident Coefficients:")
		} else {
			fmt.Fprintln(w, "\nScattered Coefficients:")
		}
		for _, name := range getKeys(results) {
			if !strings.HasPrefix(name, prefix) || !strings.HasSuffix(name, "_MAG") {
				continue
			}
			base := strings.TrimSuffix(name, "_MAG")
			mag := results[name][0]
			if mag == 0 {
				continue
			}
			fmt.Fprintln(w, util.FormatMagnitudePhase(base, mag, results[base+"_PHASE"][0]))
		}
	}
}

func printScene(data *scene.SceneData, c *cluster.Cluster) {
	fmt.Printf("Title: %s\n", data.Title)
	fmt.Printf("Medium index: %g, %s, lmax %d\n", data.Index, util.FormatWavenumber(data.Wavenumber), data.Lmax)
	if data.Wavenumber > 0 {
		f := consts.SPEED_OF_LIGHT * data.Wavenumber / data.Index / (2 * math.Pi)
		fmt.Printf("Vacuum frequency: %s\n", util.FormatValueFactor(f, "Hz"))
	}
	fmt.Printf("Layout: %v\n", c.Layout())
	for i, p := range c.GetParticles() {
		pos := p.GetPosition()
		fmt.Printf("Particle %d: %s (type: %s, position: %g %g %g)\n", i, p.GetName(), p.GetType(), pos.X, pos.Y, pos.Z)
	}
}

func newAnalyzer(data *scene.SceneData) (analysis.Analysis, error) {
	switch data.Analysis {
	case scene.AnalysisSingle:
		return analysis.NewSinglePoint(), nil
	case scene.AnalysisSweep:
		param := data.SweepParam
		return analysis.NewWavenumberSweep(param.Start, param.Stop, param.Points, param.Sweep, data.Index), nil
	case scene.AnalysisScaling:
		param := data.ScalingParam
		solver, err := scene.NewSolver(data.Solver)
		if err != nil {
			return nil, err
		}
		return analysis.NewScaling(param.Max, param.Step, param.Separation, solver), nil
	}
	return nil, fmt.Errorf("unsupported analysis type %d", data.Analysis)
}

func run() {
	// 1. Read scene
	content, err := os.ReadFile(flag.Arg(0))
	if err != nil {
		log.Fatalf("Error reading scene file: %v", err)
	}

	// 2. Parse scene
	data, err := scene.Parse(string(content))
	if err != nil {
		log.Fatalf("Error parsing scene: %v", err)
	}

	// 3. Build cluster
	c, err := scene.Build(data)
	if err != nil {
		log.Fatalf("Error building cluster: %v", err)
	}
	if *verbose {
		printScene(data, c)
	}

	// 4. Setup analyzer
	analyzer, err := newAnalyzer(data)
	if err != nil {
		log.Fatal(err)
	}
	if err := analyzer.Setup(c); err != nil {
		log.Fatalf("Analysis setup failed: %v", err)
	}

	// 5. Run analysis
	if err := analyzer.Execute(); err != nil {
		log.Fatalf("Analysis execution failed: %v", err)
	}

	// 6. Print result
	results := analyzer.GetResults()
	printResults(os.Stdout, data.Analysis, results)

	if *plotFile != "" {
		if err := plotResults(data, results, *plotFile); err != nil {
			log.Fatalf("Plot failed: %v", err)
		}
		fmt.Printf("\nPlot written to %s\n", *plotFile)
	}
}

func main() {
	flag.Parse()
	if flag.NArg() != 1 {
		log.Fatal("Usage: toy-mie [-v] [-plot out.png] <scene_file>")
	}

	run()
}
