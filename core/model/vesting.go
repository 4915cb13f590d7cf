package model

import (
	"math/big"
	"strings"
	"vesting-dashboard/utils/generics/must"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
)

type AllocationCategory uint8
type VestingType uint8

const (
	CategoryMining      AllocationCategory = 0
	CategoryEcosystem   AllocationCategory = 1
	CategoryTeam        AllocationCategory = 2
	CategoryCornerstone AllocationCategory = 3

	VestingTypeLinear      VestingType = 0
	VestingTypeMilestone   VestingType = 1
	VestingTypeCliffLinear VestingType = 2
)

var Categories = []AllocationCategory{CategoryMining, CategoryEcosystem, CategoryTeam, CategoryCornerstone}

func (c AllocationCategory) String() string {
	names := map[AllocationCategory]string{
		CategoryMining:      "MINING",
		CategoryEcosystem:   "ECOSYSTEM",
		CategoryTeam:        "TEAM",
		CategoryCornerstone: "CORNERSTONE",
	}
	name, ok := names[c]
	if !ok {
		return "UNKNOWN"
	}
	return name
}

// ParseCategory accepts the upper-case name of a category, case-insensitively.
func ParseCategory(s string) (AllocationCategory, bool) {
	for _, c := range Categories {
		if strings.EqualFold(c.String(), strings.TrimSpace(s)) {
			return c, true
		}
	}
	return 0, false
}

func (v VestingType) String() string {
	switch v {
	case VestingTypeLinear:
		return "LINEAR"
	case VestingTypeMilestone:
		return "MILESTONE"
	case VestingTypeCliffLinear:
		return "CLIFF_LINEAR"
	}
	return "UNKNOWN"
}

// VestingSchedule mirrors the IVesting.VestingSchedule tuple. Field order and
// types must match the ABI components, the decoder copies them by position.
type VestingSchedule struct {
	Initialized        bool
	Beneficiary        common.Address
	Cliff              *big.Int // seconds after Start
	Start              *big.Int
	Duration           *big.Int
	SlicePeriodSeconds *big.Int
	Revocable          bool
	AmountTotal        *big.Int
	Released           *big.Int
	Revoked            bool
	Category           uint8
	VestingType        uint8
}

func (s *VestingSchedule) AllocationCategory() AllocationCategory {
	return AllocationCategory(s.Category)
}

func (s *VestingSchedule) Type() VestingType {
	return VestingType(s.VestingType)
}

// CliffEnd is the first second at which accrual may be non-zero.
func (s *VestingSchedule) CliffEnd() *big.Int {
	return new(big.Int).Add(bigOrZero(s.Start), bigOrZero(s.Cliff))
}

func (s *VestingSchedule) End() *big.Int {
	return new(big.Int).Add(bigOrZero(s.Start), bigOrZero(s.Duration))
}

type VestingProgress struct {
	TotalAmount      *big.Int
	ReleasedAmount   *big.Int
	ReleasableAmount *big.Int
	LockedAmount     *big.Int
}

type BeneficiarySummary struct {
	TotalAmount      *big.Int
	ReleasedAmount   *big.Int
	ReleasableAmount *big.Int
	LockedAmount     *big.Int
	ScheduleCount    *big.Int
}

type GlobalStats struct {
	Total          *big.Int
	Released       *big.Int
	Locked         *big.Int
	ReleasePercent float64
}

const (
	MethodBeneficiarySchedules = "getBeneficiaryVestingSchedules"
	MethodBeneficiarySummary   = "getBeneficiaryVestingSummary"
	MethodVestingProgress      = "getVestingProgress"
	MethodComputeReleasable    = "computeReleasableAmount"
	MethodSchedulesTotal       = "getVestingSchedulesTotalAmount"
	MethodSchedulesReleased    = "getVestingSchedulesReleasedAmount"
	MethodComputeScheduleId    = "computeVestingScheduleIdForAddressAndIndex"
	MethodRelease              = "release"
)

const VestingABIJson = `[
{"inputs":[{"internalType":"address","name":"beneficiary","type":"address"}],"name":"getBeneficiaryVestingSchedules","outputs":[{"components":[{"internalType":"bool","name":"initialized","type":"bool"},{"internalType":"address","name":"beneficiary","type":"address"},{"internalType":"uint256","name":"cliff","type":"uint256"},{"internalType":"uint256","name":"start","type":"uint256"},{"internalType":"uint256","name":"duration","type":"uint256"},{"internalType":"uint256","name":"slicePeriodSeconds","type":"uint256"},{"internalType":"bool","name":"revocable","type":"bool"},{"internalType":"uint256","name":"amountTotal","type":"uint256"},{"internalType":"uint256","name":"released","type":"uint256"},{"internalType":"bool","name":"revoked","type":"bool"},{"internalType":"enum IVesting.AllocationCategory","name":"category","type":"uint8"},{"internalType":"enum IVesting.VestingType","name":"vestingType","type":"uint8"}],"internalType":"struct IVesting.VestingSchedule[]","name":"","type":"tuple[]"}],"stateMutability":"view","type":"function"},
{"inputs":[{"internalType":"address","name":"beneficiary","type":"address"}],"name":"getBeneficiaryVestingSummary","outputs":[{"components":[{"internalType":"uint256","name":"totalAmount","type":"uint256"},{"internalType":"uint256","name":"releasedAmount","type":"uint256"},{"internalType":"uint256","name":"releasableAmount","type":"uint256"},{"internalType":"uint256","name":"lockedAmount","type":"uint256"},{"internalType":"uint256","name":"scheduleCount","type":"uint256"}],"internalType":"struct IVesting.BeneficiarySummary","name":"","type":"tuple"}],"stateMutability":"view","type":"function"},
{"inputs":[{"internalType":"bytes32","name":"vestingScheduleId","type":"bytes32"}],"name":"getVestingProgress","outputs":[{"components":[{"internalType":"uint256","name":"totalAmount","type":"uint256"},{"internalType":"uint256","name":"releasedAmount","type":"uint256"},{"internalType":"uint256","name":"releasableAmount","type":"uint256"},{"internalType":"uint256","name":"lockedAmount","type":"uint256"}],"internalType":"struct IVesting.VestingProgress","name":"","type":"tuple"}],"stateMutability":"view","type":"function"},
{"inputs":[],"name":"getVestingSchedulesTotalAmount","outputs":[{"internalType":"uint256","name":"","type":"uint256"}],"stateMutability":"view","type":"function"},
{"inputs":[],"name":"getVestingSchedulesReleasedAmount","outputs":[{"internalType":"uint256","name":"","type":"uint256"}],"stateMutability":"view","type":"function"},
{"inputs":[{"internalType":"address","name":"holder","type":"address"},{"internalType":"uint256","name":"index","type":"uint256"}],"name":"computeVestingScheduleIdForAddressAndIndex","outputs":[{"internalType":"bytes32","name":"","type":"bytes32"}],"stateMutability":"pure","type":"function"},
{"inputs":[{"internalType":"bytes32","name":"vestingScheduleId","type":"bytes32"},{"internalType":"uint256","name":"amount","type":"uint256"}],"name":"release","outputs":[],"stateMutability":"nonpayable","type":"function"},
{"inputs":[{"internalType":"bytes32","name":"vestingScheduleId","type":"bytes32"}],"name":"computeReleasableAmount","outputs":[{"internalType":"uint256","name":"","type":"uint256"}],"stateMutability":"view","type":"function"}
]`

var VestingABI = must.Must(abi.JSON(strings.NewReader(VestingABIJson)))

func bigOrZero(v *big.Int) *big.Int {
	if v == nil {
		return new(big.Int)
	}
	return v
}
