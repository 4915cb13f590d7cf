package vesting

import (
	"errors"
	"fmt"
	"math/big"
	"strings"

	"vesting-dashboard/core/model"
)

var (
	ErrInvalidAmount     = errors.New("release amount must be greater than zero")
	ErrExceedsReleasable = errors.New("release amount exceeds the releasable amount")
)

// ValidateRelease checks amount against the currently known releasable amount.
func ValidateRelease(amount, releasable *big.Int) error {
	if amount == nil || amount.Sign() <= 0 {
		return ErrInvalidAmount
	}
	if amount.Cmp(orZero(releasable)) > 0 {
		return fmt.Errorf("%w: requested %s, releasable %s", ErrExceedsReleasable,
			model.FormatTokenAmount(amount, model.TokenDecimals), model.FormatTokenAmount(releasable, model.TokenDecimals))
	}
	return nil
}

// ReleaseAmount resolves user input into base units. Blank input means
// "everything currently releasable".
func ReleaseAmount(input string, releasable *big.Int) (*big.Int, error) {
	var amount *big.Int
	if strings.TrimSpace(input) == "" {
		amount = new(big.Int).Set(orZero(releasable))
	} else {
		v, err := model.ParseTokenAmount(input)
		if err != nil {
			return nil, err
		}
		amount = v
	}
	if err := ValidateRelease(amount, releasable); err != nil {
		return nil, err
	}
	return amount, nil
}
