package vesting

import (
	"math/big"
	"time"

	"vesting-dashboard/core/model"

	"github.com/ethereum/go-ethereum/common"
)

type Status string

const (
	StatusActive    Status = "active"
	StatusCompleted Status = "completed"
	StatusRevoked   Status = "revoked"
)

func ScheduleStatus(s *model.VestingSchedule, p *model.VestingProgress) Status {
	if s.Revoked {
		return StatusRevoked
	}
	if p != nil && orZero(p.TotalAmount).Sign() > 0 && orZero(p.ReleasedAmount).Cmp(p.TotalAmount) == 0 {
		return StatusCompleted
	}
	return StatusActive
}

// TimePercent is the share of the vesting window elapsed at now, 0..100.
func TimePercent(s *model.VestingSchedule, now uint64) float64 {
	duration := orZero(s.Duration)
	if duration.Sign() == 0 {
		return 100
	}
	elapsed := new(big.Int).Sub(new(big.Int).SetUint64(now), orZero(s.Start))
	if elapsed.Sign() <= 0 {
		return 0
	}
	if elapsed.Cmp(duration) >= 0 {
		return 100
	}
	return model.Percent(elapsed, duration)
}

// RemainingSeconds until start+duration, never negative.
func RemainingSeconds(s *model.VestingSchedule, now uint64) int64 {
	left := new(big.Int).Sub(s.End(), new(big.Int).SetUint64(now))
	if left.Sign() <= 0 {
		return 0
	}
	if !left.IsInt64() {
		return int64(^uint64(0) >> 1)
	}
	return left.Int64()
}

// Card is the display-ready rendering of one schedule at a point in time.
type Card struct {
	Id               common.Hash
	Index            int
	Category         model.AllocationCategory
	Type             model.VestingType
	Status           Status
	Progress         model.VestingProgress
	Estimated        bool
	ReleasePercent   float64
	TimePercent      float64
	RemainingSeconds int64
	Remaining        string
	StartAt          time.Time
	CliffEndAt       time.Time
	EndAt            time.Time
	CanRelease       bool
}

// NewCard derives the time-dependent display fields of v at now.
// busy marks a release already in flight for the schedule.
func NewCard(v *model.ScheduleView, now time.Time, busy bool) *Card {
	ts := uint64(now.Unix())
	if now.Unix() < 0 {
		ts = 0
	}
	s := &v.Schedule
	remaining := RemainingSeconds(s, ts)
	return &Card{
		Id:               v.Id,
		Index:            v.Index,
		Category:         s.AllocationCategory(),
		Type:             s.Type(),
		Status:           ScheduleStatus(s, &v.Progress),
		Progress:         v.Progress,
		Estimated:        v.Estimated(),
		ReleasePercent:   model.Percent(v.Progress.ReleasedAmount, v.Progress.TotalAmount),
		TimePercent:      TimePercent(s, ts),
		RemainingSeconds: remaining,
		Remaining:        model.FormatDuration(remaining),
		StartAt:          unix(orZero(s.Start)),
		CliffEndAt:       unix(s.CliffEnd()),
		EndAt:            unix(s.End()),
		CanRelease:       orZero(v.Progress.ReleasableAmount).Sign() > 0 && !busy,
	}
}

func unix(v *big.Int) time.Time {
	if !v.IsInt64() {
		return time.Time{}
	}
	return time.Unix(v.Int64(), 0).UTC()
}
