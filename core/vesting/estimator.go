// Package vesting holds the display-side vesting arithmetic of the dashboard.
package vesting

import (
	"math/big"

	"vesting-dashboard/core/model"
)

// Releasable estimates how many base units of s can be withdrawn at unix time now.
//
// This is a degraded-mode estimate used only for display when the contract's
// computeReleasableAmount / getVestingProgress reads are unavailable. The
// contract remains the source of truth and may disagree (slice periods,
// milestone schedules, revocation bookkeeping). Never use it to authorize a release.
//
// Linear accrual from start, gated by the cliff, saturating at the total once
// start+duration has passed. Revoked schedules accrue nothing further.
func Releasable(s *model.VestingSchedule, now uint64) *big.Int {
	if s == nil || s.Revoked {
		return new(big.Int)
	}
	total := orZero(s.AmountTotal)
	released := orZero(s.Released)
	start := orZero(s.Start)
	duration := orZero(s.Duration)
	t := new(big.Int).SetUint64(now)

	if t.Cmp(s.CliffEnd()) < 0 || t.Cmp(start) < 0 {
		return new(big.Int)
	}
	if duration.Sign() == 0 || t.Cmp(s.End()) >= 0 {
		return clampSub(total, released)
	}

	vested := new(big.Int).Sub(t, start)
	vested.Mul(vested, total)
	vested.Quo(vested, duration)
	return clampSub(vested, released)
}

// Vested is the accrued amount at now, ignoring what was already released.
// Revoked schedules report what was released so far.
func Vested(s *model.VestingSchedule, now uint64) *big.Int {
	if s == nil {
		return new(big.Int)
	}
	if s.Revoked {
		return new(big.Int).Set(orZero(s.Released))
	}
	return new(big.Int).Add(Releasable(s, now), orZero(s.Released))
}

// EstimateProgress builds a VestingProgress from the schedule snapshot alone.
// A nil schedule yields all-zero figures.
func EstimateProgress(s *model.VestingSchedule, now uint64) model.VestingProgress {
	if s == nil {
		return model.VestingProgress{
			TotalAmount:      new(big.Int),
			ReleasedAmount:   new(big.Int),
			ReleasableAmount: new(big.Int),
			LockedAmount:     new(big.Int),
		}
	}
	total := orZero(s.AmountTotal)
	released := orZero(s.Released)
	releasable := Releasable(s, now)
	locked := new(big.Int)
	if !s.Revoked {
		locked = clampSub(total, Vested(s, now))
	}
	return model.VestingProgress{
		TotalAmount:      new(big.Int).Set(total),
		ReleasedAmount:   new(big.Int).Set(released),
		ReleasableAmount: releasable,
		LockedAmount:     locked,
	}
}

func clampSub(a, b *big.Int) *big.Int {
	r := new(big.Int).Sub(a, b)
	if r.Sign() < 0 {
		return r.SetInt64(0)
	}
	return r
}

func orZero(v *big.Int) *big.Int {
	if v == nil {
		return new(big.Int)
	}
	return v
}
