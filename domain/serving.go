package domain

import (
	"strconv"
	"strings"
	"unicode"
)

// ParseServing splits a free-form weight such as "100 g", "1.5cup" or
// "250ml" into amount and unit. Text without a leading number is kept as the
// unit of a single serving.
func ParseServing(s string) Serving {
	s = strings.TrimSpace(s)
	if s == "" {
		return Serving{Amount: 1, Unit: "serving"}
	}

	i := strings.IndexFunc(s, func(r rune) bool {
		return !(unicode.IsDigit(r) || r == '.' || r == ',')
	})
	if i == -1 {
		i = len(s)
	}
	amount, err := strconv.ParseFloat(strings.ReplaceAll(s[:i], ",", "."), 64)
	if err != nil || amount <= 0 {
		return Serving{Amount: 1, Unit: s}
	}

	unit := strings.TrimSpace(s[i:])
	if unit == "" {
		unit = "g"
	}
	return Serving{Amount: amount, Unit: unit}
}

func (s Serving) String() string {
	return strconv.FormatFloat(s.Amount, 'f', -1, 64) + " " + s.Unit
}
