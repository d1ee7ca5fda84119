package room

import (
	"math"
	"strconv"
)

// Round rounds x to the given number of decimal places with ties going
// away from zero. The scaled value is trimmed to 15 significant digits
// first so that 0.005 is treated as the exact midpoint it is written as.
func Round(x float64, places int) float64 {
	pow := math.Pow(10, float64(places))
	scaled, err := strconv.ParseFloat(strconv.FormatFloat(x*pow, 'g', 15, 64), 64)
	if err != nil {
		scaled = x * pow
	}
	return math.Round(scaled) / pow
}
