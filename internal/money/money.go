// Package money handles monetary amounts as integer cents. Conversion
// from and to decimal notation happens only at the input/display
// boundary; everything in between is integer arithmetic.
package money

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
)

var (
	// ErrInvalidAmount indicates an amount string that cannot be parsed.
	ErrInvalidAmount = errors.New("invalid amount")
	// ErrNegativeAmount indicates a syntactically valid but negative amount.
	ErrNegativeAmount = errors.New("negative amount")
)

// ParseAmount converts a user-typed decimal string such as "3.50", "3.5"
// or "3" into cents. Parsing is purely lexical; no float is involved.
// At most two fraction digits are accepted.
func ParseAmount(s string) (int64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, ErrInvalidAmount
	}
	if strings.HasPrefix(s, "-") {
		return 0, ErrNegativeAmount
	}

	whole := s
	frac := ""
	if idx := strings.IndexByte(s, '.'); idx >= 0 {
		whole = s[:idx]
		frac = s[idx+1:]
	}
	if whole == "" {
		whole = "0"
	}
	if len(frac) > 2 {
		return 0, ErrInvalidAmount
	}
	for len(frac) < 2 {
		frac += "0"
	}

	w, err := strconv.ParseUint(whole, 10, 32)
	if err != nil {
		return 0, ErrInvalidAmount
	}
	f, err := strconv.ParseUint(frac, 10, 8)
	if err != nil {
		return 0, ErrInvalidAmount
	}
	return int64(w)*100 + int64(f), nil
}

// FromFloat converts a dollar amount arriving as a JSON number (e.g. a
// catalog list price) into cents, rounding to the nearest cent. This is
// the single place a float touches money.
func FromFloat(dollars float64) int64 {
	return int64(math.Round(dollars * 100))
}

// Format renders cents as a plain decimal string, e.g. 350 -> "3.50".
func Format(cents int64) string {
	sign := ""
	if cents < 0 {
		sign = "-"
		cents = -cents
	}
	return fmt.Sprintf("%s%d.%02d", sign, cents/100, cents%100)
}
