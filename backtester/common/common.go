package common

import (
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// UniqueSymbols upper cases and de-duplicates symbols while keeping the
// order they were first seen in
func UniqueSymbols(symbols ...[]string) []string {
	seen := make(map[string]struct{})
	var resp []string
	for x := range symbols {
		for y := range symbols[x] {
			s := strings.ToUpper(strings.TrimSpace(symbols[x][y]))
			if s == "" {
				continue
			}
			if _, ok := seen[s]; ok {
				continue
			}
			seen[s] = struct{}{}
			resp = append(resp, s)
		}
	}
	return resp
}

// FitStringToLimit ensures a string is of the length of the limit
// either by truncating the string with ellipses or padding with the spacer
func FitStringToLimit(str, spacer string, limit int, upper bool) string {
	if limit < 0 {
		return str
	}
	if limit == 0 {
		return ""
	}
	limResp := limit - len(str)
	if upper {
		str = strings.ToUpper(str)
	}
	if limResp < 0 {
		if limit-3 > 0 {
			return str[0:limit-3] + "..."
		}
		return str[0:limit]
	}
	spacerLen := len(spacer)
	for i := 0; i < limResp; i++ {
		str += spacer
		for j := 0; j < spacerLen; j++ {
			if j > 0 {
				// prevent clever people from going beyond
				// the limit by having a spacer longer than 1
				i++
			}
		}
	}
	return str[0:limit]
}

// PercentOf returns the fraction as a percentage rounded to two places
func PercentOf(f float64) decimal.Decimal {
	return decimal.NewFromFloat(f).Mul(decimal.NewFromInt(100)).Round(2)
}

// ToFloat64 converts a numeric config value to a float64. Config decoders
// hand back different numeric types depending on the file format
func ToFloat64(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case int32:
		return float64(n), true
	case uint64:
		return float64(n), true
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(n), 64)
		return f, err == nil
	}
	return 0, false
}
