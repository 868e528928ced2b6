// Package contour derives contour level sequences from observed data ranges.
package contour

import (
	"fmt"
	"math"
)

// Levels returns the evenly spaced thresholds covering [min, max]: an
// ascending arithmetic sequence from floor(min) to ceil(max) plus one extra
// step, inclusive. The extra step is deliberate over-padding carried over
// from the archive's reference plots; it also guarantees that a degenerate
// min == max range still yields two levels bounding the value.
func Levels(min, max, step float64) ([]float64, error) {
	if step <= 0 {
		return nil, fmt.Errorf("contour step must be positive, got %g", step)
	}
	if max < min {
		return nil, fmt.Errorf("contour range inverted: min %g > max %g", min, max)
	}
	if math.IsNaN(min) || math.IsNaN(max) || math.IsInf(min, 0) || math.IsInf(max, 0) {
		return nil, fmt.Errorf("contour range [%g, %g] is not finite", min, max)
	}

	start := math.Floor(min)
	stop := math.Ceil(max) + step

	n := int((stop-start)/step) + 1
	levels := make([]float64, 0, n)
	for i := 0; i < n; i++ {
		v := start + float64(i)*step
		if v > stop+1e-9 {
			break
		}
		levels = append(levels, v)
	}
	return levels, nil
}
