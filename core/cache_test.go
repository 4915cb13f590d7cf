package core

import (
	"testing"
	"time"

	"vesting-dashboard/core/model"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestViewCacheTTL(t *testing.T) {
	now := time.Unix(1000, 0)
	c := NewViewCache(4, 10*time.Second)
	c.now = func() time.Time { return now }

	_, fresh := c.Get(beneficiary)
	assert.False(t, fresh)

	c.Put(&model.BeneficiaryView{Beneficiary: beneficiary})
	view, fresh := c.Get(beneficiary)
	require.NotNil(t, view)
	assert.True(t, fresh)

	now = now.Add(11 * time.Second)
	view, fresh = c.Get(beneficiary)
	assert.NotNil(t, view, "expired views are still returned")
	assert.False(t, fresh)
}

func TestViewCacheInvalidate(t *testing.T) {
	c := NewViewCache(4, time.Minute)
	c.Put(&model.BeneficiaryView{Beneficiary: beneficiary})

	c.Invalidate(beneficiary)
	_, fresh := c.Get(beneficiary)
	assert.False(t, fresh)
	assert.Equal(t, beneficiary, <-c.Invalidated())

	c.Put(&model.BeneficiaryView{Beneficiary: beneficiary})
	_, fresh = c.Get(beneficiary)
	assert.True(t, fresh)
}

func TestViewCacheEviction(t *testing.T) {
	c := NewViewCache(2, time.Minute)
	a := common.HexToAddress("0x01")
	b := common.HexToAddress("0x02")
	d := common.HexToAddress("0x03")
	for _, addr := range []common.Address{a, b, d} {
		c.Put(&model.BeneficiaryView{Beneficiary: addr})
	}
	assert.Equal(t, 2, c.Len())
	assert.Equal(t, []common.Address{b, d}, c.Tracked())

	view, _ := c.Get(a)
	assert.Nil(t, view)
}
