package weather

import "strconv"

// FormatNumber renders v with the fewest digits that represent it, so 20
// stays "20" and -3.5 stays "-3.5".
func FormatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// FormatFixed renders v with exactly one decimal, as in "12.0".
func FormatFixed(v float64) string {
	return strconv.FormatFloat(v, 'f', 1, 64)
}
