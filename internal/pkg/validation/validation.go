package validation

import "regexp"

// Tickers: 1-10 chars, letters with optional dot/hyphen class suffixes
// (e.g. BRK.B, RDS-A).
var tickerRe = regexp.MustCompile(`^[A-Za-z][A-Za-z0-9.\-]{0,9}$`)

func IsValidTicker(ticker string) bool {
	return tickerRe.MatchString(ticker)
}

// IsValidWeight bounds a holding weight percentage.
func IsValidWeight(weight float64) bool {
	return weight > 0 && weight <= 100
}
