package vesting

import (
	"math/big"
	"testing"

	"vesting-dashboard/core/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateRelease(t *testing.T) {
	releasable := big.NewInt(1000)
	assert.ErrorIs(t, ValidateRelease(nil, releasable), ErrInvalidAmount)
	assert.ErrorIs(t, ValidateRelease(big.NewInt(0), releasable), ErrInvalidAmount)
	assert.ErrorIs(t, ValidateRelease(big.NewInt(-5), releasable), ErrInvalidAmount)
	assert.ErrorIs(t, ValidateRelease(big.NewInt(1001), releasable), ErrExceedsReleasable)
	assert.NoError(t, ValidateRelease(big.NewInt(1000), releasable))
	assert.NoError(t, ValidateRelease(big.NewInt(1), releasable))
}

func TestReleaseAmount(t *testing.T) {
	releasable, _ := new(big.Int).SetString("2500000000000000000", 10)

	amount, err := ReleaseAmount("", releasable)
	require.NoError(t, err)
	assert.Equal(t, releasable.String(), amount.String())
	assert.NotSame(t, releasable, amount)

	amount, err = ReleaseAmount("1.25", releasable)
	require.NoError(t, err)
	assert.Equal(t, "1250000000000000000", amount.String())

	_, err = ReleaseAmount("3", releasable)
	assert.ErrorIs(t, err, ErrExceedsReleasable)

	_, err = ReleaseAmount("0", releasable)
	assert.ErrorIs(t, err, ErrInvalidAmount)

	_, err = ReleaseAmount("   ", big.NewInt(0))
	assert.ErrorIs(t, err, ErrInvalidAmount)

	_, err = ReleaseAmount("-1", releasable)
	assert.ErrorIs(t, err, model.ErrMalformedAmount)
}
