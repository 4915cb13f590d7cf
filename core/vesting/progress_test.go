package vesting

import (
	"math/big"
	"testing"
	"time"

	"vesting-dashboard/core/model"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTimePercent(t *testing.T) {
	s := schedule(1000, 0, 1000, 1000, 0, false)
	assert.Equal(t, 0.0, TimePercent(s, 900))
	assert.Equal(t, 0.0, TimePercent(s, 1000))
	assert.Equal(t, 25.0, TimePercent(s, 1250))
	assert.Equal(t, 100.0, TimePercent(s, 2000))
	assert.Equal(t, 100.0, TimePercent(schedule(1000, 0, 0, 1, 0, false), 10))
}

func TestRemainingSeconds(t *testing.T) {
	s := schedule(1000, 0, 1000, 1000, 0, false)
	assert.EqualValues(t, 500, RemainingSeconds(s, 1500))
	assert.EqualValues(t, 0, RemainingSeconds(s, 2000))
	assert.EqualValues(t, 0, RemainingSeconds(s, 9000))
}

func TestScheduleStatus(t *testing.T) {
	s := schedule(1000, 0, 1000, 1000, 1000, false)
	done := &model.VestingProgress{TotalAmount: big.NewInt(1000), ReleasedAmount: big.NewInt(1000)}
	assert.Equal(t, StatusCompleted, ScheduleStatus(s, done))

	partial := &model.VestingProgress{TotalAmount: big.NewInt(1000), ReleasedAmount: big.NewInt(10)}
	assert.Equal(t, StatusActive, ScheduleStatus(s, partial))
	assert.Equal(t, StatusActive, ScheduleStatus(s, nil))

	s.Revoked = true
	assert.Equal(t, StatusRevoked, ScheduleStatus(s, done))

	empty := &model.VestingProgress{TotalAmount: big.NewInt(0), ReleasedAmount: big.NewInt(0)}
	assert.Equal(t, StatusActive, ScheduleStatus(schedule(0, 0, 0, 0, 0, false), empty))
}

func TestNewCard(t *testing.T) {
	s := schedule(1000, 100, 86400*3, 1000, 250, false)
	s.Category = uint8(model.CategoryTeam)
	s.VestingType = uint8(model.VestingTypeCliffLinear)
	view := &model.ScheduleView{
		Id:       common.HexToHash("0x01"),
		Index:    2,
		Schedule: *s,
		Progress: EstimateProgress(s, 1000+86400),
		Source:   model.SourceEstimate,
	}

	card := NewCard(view, time.Unix(1000+86400, 0), false)
	require.NotNil(t, card)
	assert.Equal(t, model.CategoryTeam, card.Category)
	assert.Equal(t, model.VestingTypeCliffLinear, card.Type)
	assert.Equal(t, StatusActive, card.Status)
	assert.True(t, card.Estimated)
	assert.Equal(t, 25.0, card.ReleasePercent)
	assert.Equal(t, 33.33, card.TimePercent)
	assert.EqualValues(t, 2*86400, card.RemainingSeconds)
	assert.Equal(t, "2d", card.Remaining)
	assert.Equal(t, time.Unix(1100, 0).UTC(), card.CliffEndAt)
	assert.Equal(t, time.Unix(1000+3*86400, 0).UTC(), card.EndAt)
	assert.True(t, card.CanRelease)

	busy := NewCard(view, time.Unix(1000+86400, 0), true)
	assert.False(t, busy.CanRelease)
}
