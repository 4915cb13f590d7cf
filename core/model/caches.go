package model

import (
	"fmt"
	"time"

	"github.com/ethereum/go-ethereum/common"
)

// ProgressSource tells where a schedule's progress figures came from.
type ProgressSource string

const (
	SourceContract   ProgressSource = "contract"   // getVestingProgress
	SourceReleasable ProgressSource = "releasable" // computeReleasableAmount
	SourceEstimate   ProgressSource = "estimate"   // client-side estimator
)

// ScheduleView is one schedule as read from the contract, with its progress.
type ScheduleView struct {
	Id       common.Hash
	Index    int
	Schedule VestingSchedule
	Progress VestingProgress
	Source   ProgressSource
}

func (v *ScheduleView) Estimated() bool {
	return v.Source == SourceEstimate
}

// BeneficiaryView is the cached unit: everything the dashboard shows for one wallet.
type BeneficiaryView struct {
	Beneficiary common.Address
	Summary     BeneficiarySummary
	Schedules   []*ScheduleView
	UpdatedAt   time.Time
}

func (v *BeneficiaryView) Schedule(id common.Hash) (*ScheduleView, bool) {
	for _, s := range v.Schedules {
		if s.Id == id {
			return s, true
		}
	}
	return nil, false
}

func (v *BeneficiaryView) ByCategory(c AllocationCategory) []*ScheduleView {
	var res []*ScheduleView
	for _, s := range v.Schedules {
		if s.Schedule.AllocationCategory() == c {
			res = append(res, s)
		}
	}
	return res
}

// ETag changes whenever any on-chain figure in the view changes.
func (v *BeneficiaryView) ETag() string {
	var buf []byte
	buf = append(buf, v.Beneficiary.Bytes()...)
	for _, s := range v.Schedules {
		buf = append(buf, s.Id.Bytes()...)
		buf = append(buf, []byte(s.Source)...)
		for _, n := range []interface{ Bytes() []byte }{
			bigOrZero(s.Progress.TotalAmount), bigOrZero(s.Progress.ReleasedAmount),
			bigOrZero(s.Progress.ReleasableAmount), bigOrZero(s.Progress.LockedAmount),
		} {
			buf = append(buf, n.Bytes()...)
			buf = append(buf, ':')
		}
	}
	return fmt.Sprintf("\"%x\"", Keccak256(buf).Bytes()[:8])
}
