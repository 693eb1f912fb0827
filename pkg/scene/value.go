package scene

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

var unitMap = map[string]float64{
	"T":   1e12,  // tera
	"G":   1e9,   // giga
	"meg": 1e6,   // mega
	"K":   1e3,   // kilo
	"k":   1e3,   // kilo
	"m":   1e-3,  // milli
	"u":   1e-6,  // micro
	"n":   1e-9,  // nano
	"p":   1e-12, // pico
	"f":   1e-15, // femto
}

var valueRe = regexp.MustCompile(`^([-+]?\d*\.?\d+(?:[eE][-+]?\d+)?)(meg|[TGKkmunpf])?$`)

// ParseValue - Parse value and factor. 250n -> 2.5e-7
func ParseValue(val string) (float64, error) {
	matches := valueRe.FindStringSubmatch(strings.TrimSpace(val))
	if matches == nil {
		return 0, fmt.Errorf("invalid value format: %s", val)
	}

	num, err := strconv.ParseFloat(matches[1], 64)
	if err != nil {
		return 0, err
	}

	// factor
	if matches[2] != "" {
		if multiplier, ok := unitMap[matches[2]]; ok {
			num *= multiplier
		}
	}

	return num, nil
}

// ParseComplex reads "re", "imi", or "re+imi" (j may replace i). Both parts
// accept the ParseValue suffixes.
func ParseComplex(val string) (complex128, error) {
	s := strings.TrimSpace(val)
	if s == "" {
		return 0, fmt.Errorf("invalid complex format: %q", val)
	}
	if !strings.HasSuffix(s, "i") && !strings.HasSuffix(s, "j") {
		re, err := ParseValue(s)
		if err != nil {
			return 0, err
		}
		return complex(re, 0), nil
	}
	s = s[:len(s)-1]

	// split at the last sign that does not belong to an exponent
	split := -1
	for i := len(s) - 1; i > 0; i-- {
		if (s[i] == '+' || s[i] == '-') && s[i-1] != 'e' && s[i-1] != 'E' {
			split = i
			break
		}
	}

	reStr, imStr := "0", s
	if split > 0 {
		reStr, imStr = s[:split], s[split:]
	}
	if imStr == "+" || imStr == "-" || imStr == "" {
		imStr += "1"
	}

	re, err := ParseValue(reStr)
	if err != nil {
		return 0, fmt.Errorf("invalid complex %q: %v", val, err)
	}
	im, err := ParseValue(imStr)
	if err != nil {
		return 0, fmt.Errorf("invalid complex %q: %v", val, err)
	}
	return complex(re, im), nil
}

// ParseVector reads three whitespace separated values.
func ParseVector(val string) ([3]float64, error) {
	var v [3]float64
	fields := strings.Fields(val)
	if len(fields) != 3 {
		return v, fmt.Errorf("need 3 components, got %q", val)
	}
	for i, f := range fields {
		x, err := ParseValue(f)
		if err != nil {
			return v, err
		}
		v[i] = x
	}
	return v, nil
}
