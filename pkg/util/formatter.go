package util

import (
	"fmt"
	"math"
	"time"
)

func FormatValueFactor(value float64, unit string) string {
	absValue := math.Abs(value)
	switch {
	case absValue >= 1e3:
		return fmt.Sprintf("%.3e %s", value, unit)
	case absValue >= 1:
		return fmt.Sprintf("%.3f %s", value, unit)
	case absValue >= 1e-3:
		return fmt.Sprintf("%.3f m%s", value*1e3, unit)
	case absValue >= 1e-6:
		return fmt.Sprintf("%.3f u%s", value*1e6, unit)
	case absValue >= 1e-9:
		return fmt.Sprintf("%.3f n%s", value*1e9, unit)
	default:
		return fmt.Sprintf("%.3e %s", value, unit)
	}
}

// FormatWavenumber prints k together with the matching vacuum wavelength.
func FormatWavenumber(k float64) string {
	if k <= 0 {
		return fmt.Sprintf("k=%9.4g", k)
	}
	return fmt.Sprintf("k=%9.4g (lambda=%s)", k, FormatValueFactor(2*math.Pi/k, "m"))
}

func FormatDuration(seconds float64) string {
	return time.Duration(seconds * float64(time.Second)).Round(time.Microsecond).String()
}

func FormatMagnitudePhase(name string, value, phase float64) string {
	return fmt.Sprintf("%s=%s<%sdeg", name, FormatMagnitude(value), FormatPhase(phase))
}

func FormatMagnitude(value float64) string {
	if value >= 1000 || (value < 0.001 && value != 0) {
		return fmt.Sprintf("%8.2e", value) // "1.00e+03" or "5.43e-05"
	}
	return fmt.Sprintf("%8.3g", value) // "   0.733"
}

func FormatPhase(value float64) string {
	return fmt.Sprintf("%6.1f", value) // "  90.0"
}
