package vesting

import (
	"math/big"
	"math/rand"
	"reflect"
	"testing"
	"testing/quick"

	"vesting-dashboard/core/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func schedule(start, cliff, duration, total, released int64, revoked bool) *model.VestingSchedule {
	return &model.VestingSchedule{
		Initialized: true,
		Start:       big.NewInt(start),
		Cliff:       big.NewInt(cliff),
		Duration:    big.NewInt(duration),
		AmountTotal: big.NewInt(total),
		Released:    big.NewInt(released),
		Revoked:     revoked,
	}
}

func TestReleasableScenarios(t *testing.T) {
	cases := []struct {
		name string
		s    *model.VestingSchedule
		now  uint64
		want int64
	}{
		{"midway linear", schedule(1000, 0, 1000, 1000, 0, false), 1500, 500},
		{"before cliff end", schedule(1000, 500, 1000, 1000, 0, false), 1400, 0},
		{"past end minus released", schedule(1000, 0, 1000, 1000, 300, false), 2000, 700},
		{"revoked", schedule(1000, 0, 1000, 1000, 0, true), 1500, 0},
		{"revoked past end", schedule(1000, 0, 1000, 1000, 100, true), 5000, 0},
		{"zero duration at start", schedule(1000, 0, 0, 500, 0, false), 1000, 500},
		{"zero duration before start", schedule(1000, 0, 0, 500, 0, false), 999, 0},
		{"before start", schedule(1000, 0, 1000, 1000, 0, false), 10, 0},
		{"released ahead of linear", schedule(1000, 0, 1000, 1000, 600, false), 1500, 0},
		{"at cliff end", schedule(1000, 500, 1000, 1000, 0, false), 1500, 500},
		{"truncating division", schedule(0, 0, 3, 10, 0, false), 1, 3},
	}
	for _, c := range cases {
		got := Releasable(c.s, c.now)
		assert.Equal(t, big.NewInt(c.want).String(), got.String(), c.name)
	}
}

func TestReleasableNilFields(t *testing.T) {
	assert.Equal(t, 0, Releasable(nil, 100).Sign())
	assert.Equal(t, 0, Releasable(&model.VestingSchedule{}, 100).Sign())
}

func TestReleasableNoOverflow(t *testing.T) {
	max := new(big.Int).Sub(new(big.Int).Lsh(big.NewInt(1), 256), big.NewInt(1))
	s := &model.VestingSchedule{
		Start:       big.NewInt(0),
		Cliff:       big.NewInt(0),
		Duration:    big.NewInt(4),
		AmountTotal: max,
		Released:    big.NewInt(0),
	}
	got := Releasable(s, 2)
	want := new(big.Int).Quo(new(big.Int).Mul(max, big.NewInt(2)), big.NewInt(4))
	assert.Equal(t, want.String(), got.String())
}

// scheduleInput generates valid schedules: released <= total, cliff <= duration.
type scheduleInput struct {
	Start, Cliff, Duration uint64
	Total, Released        *big.Int
	Revoked                bool
	Now1, Now2             uint64
}

func (scheduleInput) Generate(r *rand.Rand, _ int) reflect.Value {
	in := scheduleInput{
		Start:    uint64(r.Int63n(1 << 40)),
		Duration: uint64(r.Int63n(1 << 30)),
		Revoked:  r.Intn(4) == 0,
	}
	if in.Duration > 0 {
		in.Cliff = uint64(r.Int63n(int64(in.Duration) + 1))
	}
	total := new(big.Int).Rand(r, new(big.Int).Lsh(big.NewInt(1), uint(r.Intn(256))))
	in.Total = total
	if total.Sign() > 0 {
		in.Released = new(big.Int).Rand(r, new(big.Int).Add(total, big.NewInt(1)))
	} else {
		in.Released = new(big.Int)
	}
	span := int64(in.Duration)*2 + 10
	now1 := int64(in.Start) - span/4 + r.Int63n(span)
	if now1 < 0 {
		now1 = 0
	}
	in.Now1 = uint64(now1)
	in.Now2 = in.Now1 + uint64(r.Int63n(span))
	return reflect.ValueOf(in)
}

func (in scheduleInput) schedule() *model.VestingSchedule {
	return &model.VestingSchedule{
		Start:       new(big.Int).SetUint64(in.Start),
		Cliff:       new(big.Int).SetUint64(in.Cliff),
		Duration:    new(big.Int).SetUint64(in.Duration),
		AmountTotal: in.Total,
		Released:    in.Released,
		Revoked:     in.Revoked,
	}
}

func TestReleasableProperties(t *testing.T) {
	config := &quick.Config{MaxCount: 2000}

	nonNegative := func(in scheduleInput) bool {
		return Releasable(in.schedule(), in.Now1).Sign() >= 0
	}
	require.NoError(t, quick.Check(nonNegative, config))

	zeroBeforeCliff := func(in scheduleInput) bool {
		s := in.schedule()
		if in.Now1 >= in.Start+in.Cliff {
			return true
		}
		return Releasable(s, in.Now1).Sign() == 0
	}
	require.NoError(t, quick.Check(zeroBeforeCliff, config))

	remainderAfterEnd := func(in scheduleInput) bool {
		s := in.schedule()
		if in.Revoked || in.Now2 < in.Start+in.Duration {
			return true
		}
		return Releasable(s, in.Now2).Cmp(new(big.Int).Sub(in.Total, in.Released)) == 0
	}
	require.NoError(t, quick.Check(remainderAfterEnd, config))

	zeroWhenRevoked := func(in scheduleInput) bool {
		s := in.schedule()
		s.Revoked = true
		return Releasable(s, in.Now1).Sign() == 0 && Releasable(s, in.Now2).Sign() == 0
	}
	require.NoError(t, quick.Check(zeroWhenRevoked, config))

	monotonic := func(in scheduleInput) bool {
		s := in.schedule()
		if in.Revoked || in.Now1 < in.Start+in.Cliff {
			return true
		}
		return Releasable(s, in.Now1).Cmp(Releasable(s, in.Now2)) <= 0
	}
	require.NoError(t, quick.Check(monotonic, config))

	boundedByRemainder := func(in scheduleInput) bool {
		rem := new(big.Int).Sub(in.Total, in.Released)
		return Releasable(in.schedule(), in.Now2).Cmp(rem) <= 0
	}
	require.NoError(t, quick.Check(boundedByRemainder, config))
}

func TestEstimateProgress(t *testing.T) {
	p := EstimateProgress(schedule(1000, 0, 1000, 1000, 200, false), 1500)
	assert.Equal(t, "1000", p.TotalAmount.String())
	assert.Equal(t, "200", p.ReleasedAmount.String())
	assert.Equal(t, "300", p.ReleasableAmount.String())
	assert.Equal(t, "500", p.LockedAmount.String())

	p = EstimateProgress(schedule(1000, 0, 1000, 1000, 200, true), 1500)
	assert.Equal(t, "0", p.ReleasableAmount.String())
	assert.Equal(t, "0", p.LockedAmount.String())

	assert.Equal(t, "500", Vested(schedule(1000, 0, 1000, 1000, 200, false), 1500).String())
	assert.Equal(t, "200", Vested(schedule(1000, 0, 1000, 1000, 200, true), 1500).String())
}

func TestEstimateProgressNilSchedule(t *testing.T) {
	var p model.VestingProgress
	require.NotPanics(t, func() { p = EstimateProgress(nil, 1500) })
	for _, v := range []*big.Int{p.TotalAmount, p.ReleasedAmount, p.ReleasableAmount, p.LockedAmount} {
		require.NotNil(t, v)
		assert.Equal(t, 0, v.Sign())
	}
}
