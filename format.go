package domlayer

import (
	"math"
	"strconv"
)

// linearPrecision is the fixed-point scale for scale/skew and opacity values.
const linearPrecision = 10000

// truncLinear truncates v toward zero to four decimal digits. Non-finite
// values collapse to zero.
func truncLinear(v float64) float64 {
	t := math.Trunc(v*linearPrecision) / linearPrecision
	if t == 0 || math.IsNaN(t) || math.IsInf(t, 0) {
		return 0
	}
	return t
}

// roundTranslation adds 0.5 and truncates toward zero, so 3.7 → 4,
// -0.5 → 0 and -2.2 → -1.
func roundTranslation(v float64) float64 {
	t := math.Trunc(v + 0.5)
	if t == 0 || math.IsNaN(t) || math.IsInf(t, 0) {
		return 0
	}
	return t
}

// FormatMatrix renders m as a CSS transform value:
// matrix(a,b,c,d,tx,ty) with the linear components truncated to four
// decimals and the translation rounded to whole pixels.
func FormatMatrix(m Matrix) string {
	buf := make([]byte, 0, 64)
	buf = append(buf, "matrix("...)
	for i := 0; i < 4; i++ {
		buf = strconv.AppendFloat(buf, truncLinear(m[i]), 'f', -1, 64)
		buf = append(buf, ',')
	}
	buf = strconv.AppendFloat(buf, roundTranslation(m[4]), 'f', -1, 64)
	buf = append(buf, ',')
	buf = strconv.AppendFloat(buf, roundTranslation(m[5]), 'f', -1, 64)
	buf = append(buf, ')')
	return string(buf)
}

// FormatOpacity renders alpha truncated to four decimals.
func FormatOpacity(alpha float64) string {
	return strconv.FormatFloat(truncLinear(alpha), 'f', -1, 64)
}

// FormatVisibility renders the CSS visibility keyword.
func FormatVisibility(visible bool) string {
	if visible {
		return "visible"
	}
	return "hidden"
}
