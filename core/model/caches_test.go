package model

import (
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testView() *BeneficiaryView {
	holder := common.HexToAddress("0x70997970C51812dc3A010C7d01b50e0d17dc79C8")
	mk := func(index int, category AllocationCategory) *ScheduleView {
		return &ScheduleView{
			Id:       ScheduleId(holder, uint64(index)),
			Index:    index,
			Schedule: VestingSchedule{Beneficiary: holder, Category: uint8(category)},
			Progress: VestingProgress{
				TotalAmount: big.NewInt(1000), ReleasedAmount: big.NewInt(0),
				ReleasableAmount: big.NewInt(500), LockedAmount: big.NewInt(500),
			},
			Source: SourceContract,
		}
	}
	return &BeneficiaryView{
		Beneficiary: holder,
		Schedules:   []*ScheduleView{mk(0, CategoryTeam), mk(1, CategoryMining), mk(2, CategoryTeam)},
	}
}

func TestBeneficiaryViewLookup(t *testing.T) {
	v := testView()

	s, ok := v.Schedule(v.Schedules[1].Id)
	require.True(t, ok)
	assert.Equal(t, 1, s.Index)
	_, ok = v.Schedule(common.Hash{})
	assert.False(t, ok)

	team := v.ByCategory(CategoryTeam)
	require.Len(t, team, 2)
	assert.Equal(t, 2, team[1].Index)
	assert.Empty(t, v.ByCategory(CategoryCornerstone))
}

func TestBeneficiaryViewETag(t *testing.T) {
	v := testView()
	tag := v.ETag()
	assert.Regexp(t, `^"[0-9a-f]{16}"$`, tag)
	assert.Equal(t, tag, testView().ETag())

	v.Schedules[0].Progress.ReleasableAmount = big.NewInt(501)
	assert.NotEqual(t, tag, v.ETag())

	v = testView()
	v.Schedules[2].Source = SourceEstimate
	assert.NotEqual(t, tag, v.ETag())
}
