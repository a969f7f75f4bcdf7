package analysis

import (
	"math"
	"strconv"
)

// FormatMean renders a mean with two decimals, or "no data" when undefined.
func FormatMean(v float64) string {
	if math.IsNaN(v) {
		return "no data"
	}
	return strconv.FormatFloat(v, 'f', 2, 64)
}

// FormatNative renders min/max at their native precision.
func FormatNative(v float64) string {
	if math.IsNaN(v) {
		return "no data"
	}
	return strconv.FormatFloat(v, 'g', -1, 64)
}

// FormatCorr renders r with three decimals; undefined correlations print as NaN.
func FormatCorr(r float64) string {
	if math.IsNaN(r) {
		return "NaN"
	}
	return strconv.FormatFloat(r, 'f', 3, 64)
}
