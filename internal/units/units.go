// Package units converts physical quantities between the units the archive
// stores and the units maps are labeled in.
package units

import (
	"fmt"
	"strings"
)

// Unit is a canonical unit symbol.
type Unit string

const (
	Kelvin     Unit = "K"
	Celsius    Unit = "degC"
	Fahrenheit Unit = "degF"
)

// aliases maps the spellings found in archive attributes and on the command
// line onto canonical symbols.
var aliases = map[string]Unit{
	"k":          Kelvin,
	"kelvin":     Kelvin,
	"degk":       Kelvin,
	"c":          Celsius,
	"degc":       Celsius,
	"celsius":    Celsius,
	"deg_c":      Celsius,
	"f":          Fahrenheit,
	"degf":       Fahrenheit,
	"fahrenheit": Fahrenheit,
	"deg_f":      Fahrenheit,
}

// Normalize resolves a unit spelling to its canonical symbol.
func Normalize(s string) (Unit, error) {
	u, ok := aliases[strings.ToLower(strings.TrimSpace(s))]
	if !ok {
		return "", fmt.Errorf("unknown unit %q", s)
	}
	return u, nil
}

// affine is a y = scale*x + offset transform.
type affine struct {
	scale  float64
	offset float64
}

func (a affine) apply(x float64) float64 { return a.scale*x + a.offset }

// conversions holds the known affine transforms between canonical units.
// Identity pairs are handled separately so any recognized unit converts to
// itself.
var conversions = map[[2]Unit]affine{
	{Kelvin, Celsius}:     {scale: 1, offset: -273.15},
	{Celsius, Kelvin}:     {scale: 1, offset: 273.15},
	{Kelvin, Fahrenheit}:  {scale: 9.0 / 5.0, offset: -459.67},
	{Fahrenheit, Kelvin}:  {scale: 5.0 / 9.0, offset: 273.15 - 32.0*5.0/9.0},
	{Celsius, Fahrenheit}: {scale: 9.0 / 5.0, offset: 32},
	{Fahrenheit, Celsius}: {scale: 5.0 / 9.0, offset: -32.0 * 5.0 / 9.0},
}

// Transform returns the element-wise conversion from one unit to another.
// The identity transform is returned for equal units; unconvertible pairs are
// an error.
func Transform(from, to string) (func(float64) float64, error) {
	f, err := Normalize(from)
	if err != nil {
		return nil, fmt.Errorf("source unit: %w", err)
	}
	t, err := Normalize(to)
	if err != nil {
		return nil, fmt.Errorf("target unit: %w", err)
	}

	if f == t {
		return func(x float64) float64 { return x }, nil
	}
	conv, ok := conversions[[2]Unit{f, t}]
	if !ok {
		return nil, fmt.Errorf("no conversion from %s to %s", f, t)
	}
	return conv.apply, nil
}
