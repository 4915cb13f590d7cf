package model

import (
	"errors"
	"fmt"
	"math/big"
	"strings"

	"github.com/holiman/uint256"
)

// TokenDecimals is the number of fractional digits of the vested token.
const TokenDecimals = 18

// DisplayDecimals is how many fractional digits the dashboard shows.
const DisplayDecimals = 4

var (
	ErrMalformedAmount = errors.New("malformed amount")

	tokenUnit = new(big.Int).Exp(big.NewInt(10), big.NewInt(TokenDecimals), nil)
)

// FormatTokenAmount renders base units with exactly decimals fractional digits.
// The fraction is truncated, never rounded.
func FormatTokenAmount(amount *big.Int, decimals int) string {
	if decimals < 0 {
		decimals = 0
	}
	if amount == nil {
		amount = new(big.Int)
	}
	sign := ""
	abs := new(big.Int).Set(amount)
	if abs.Sign() < 0 {
		sign = "-"
		abs.Neg(abs)
	}
	integer, fraction := new(big.Int).QuoRem(abs, tokenUnit, new(big.Int))

	frac := fraction.String()
	frac = strings.Repeat("0", TokenDecimals-len(frac)) + frac
	frac = strings.TrimRight(frac, "0")
	if len(frac) > decimals {
		frac = frac[:decimals]
	}
	frac += strings.Repeat("0", decimals-len(frac))

	if decimals == 0 {
		return sign + integer.String()
	}
	return sign + integer.String() + "." + frac
}

// ParseTokenAmount parses a human decimal amount ("1.5") into base units.
// Values must be non-negative and fit in a uint256.
func ParseTokenAmount(s string) (*big.Int, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, fmt.Errorf("%w: empty", ErrMalformedAmount)
	}
	if strings.HasPrefix(s, "-") {
		return nil, fmt.Errorf("%w: negative value %q", ErrMalformedAmount, s)
	}
	s = strings.TrimPrefix(s, "+")

	intPart, fracPart := s, ""
	if idx := strings.IndexByte(s, '.'); idx >= 0 {
		intPart, fracPart = s[:idx], s[idx+1:]
	}
	if intPart == "" && fracPart == "" {
		return nil, fmt.Errorf("%w: %q", ErrMalformedAmount, s)
	}
	if !isDigits(intPart) || !isDigits(fracPart) {
		return nil, fmt.Errorf("%w: %q", ErrMalformedAmount, s)
	}
	if len(fracPart) > TokenDecimals {
		return nil, fmt.Errorf("%w: more than %d fractional digits", ErrMalformedAmount, TokenDecimals)
	}

	digits := intPart + fracPart + strings.Repeat("0", TokenDecimals-len(fracPart))
	v, ok := new(big.Int).SetString(digits, 10)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrMalformedAmount, s)
	}
	if _, overflow := uint256.FromBig(v); overflow {
		return nil, fmt.Errorf("%w: exceeds uint256", ErrMalformedAmount)
	}
	return v, nil
}

// Percent returns part/whole as a percentage with two decimals of precision,
// computed on integers first: (part*10000/whole)/100.
func Percent(part, whole *big.Int) float64 {
	if whole == nil || whole.Sign() <= 0 || part == nil || part.Sign() <= 0 {
		return 0
	}
	if part.Cmp(whole) >= 0 {
		return 100
	}
	bp := new(big.Int).Mul(part, big.NewInt(10000))
	bp.Quo(bp, whole)
	return float64(bp.Int64()) / 100
}

func isDigits(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}
