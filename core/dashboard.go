package core

import (
	"context"
	"errors"
	"math/big"
	"time"
	"vesting-dashboard/chain"
	"vesting-dashboard/core/model"
	"vesting-dashboard/core/vesting"

	mapset "github.com/deckarep/golang-set/v2"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

var (
	ErrReleaseInProgress = errors.New("a release for this schedule is already in progress")
	ErrUnknownSchedule   = errors.New("schedule not found for beneficiary")
)

// VestingChain is what the dashboard needs from the vesting contract.
type VestingChain interface {
	GetBeneficiaryVestingSchedules(ctx context.Context, beneficiary common.Address) ([]model.VestingSchedule, error)
	GetBeneficiaryVestingSummary(ctx context.Context, beneficiary common.Address) (*model.BeneficiarySummary, error)
	GetVestingProgress(ctx context.Context, scheduleId common.Hash) (*model.VestingProgress, error)
	ComputeReleasableAmount(ctx context.Context, scheduleId common.Hash) (*big.Int, error)
	GetVestingSchedulesTotalAmount(ctx context.Context) (*big.Int, error)
	GetVestingSchedulesReleasedAmount(ctx context.Context) (*big.Int, error)
	ComputeScheduleId(ctx context.Context, beneficiary common.Address, index int) (common.Hash, error)
	Release(ctx context.Context, signer chain.Signer, scheduleId common.Hash, amount *big.Int) (common.Hash, error)
	WaitReceipt(ctx context.Context, txHash common.Hash) (*types.Receipt, error)
}

type Options struct {
	RefreshInterval time.Duration
	CacheSize       int
	Concurrency     int
	ConfirmTimeout  time.Duration
	Now             func() time.Time
}

func (o *Options) setDefaults() {
	if o.RefreshInterval <= 0 {
		o.RefreshInterval = 10 * time.Second
	}
	if o.Concurrency <= 0 {
		o.Concurrency = 8
	}
	if o.ConfirmTimeout <= 0 {
		o.ConfirmTimeout = 5 * time.Minute
	}
	if o.Now == nil {
		o.Now = time.Now
	}
}

type Dashboard struct {
	chain  VestingChain
	signer chain.Signer
	cache  *ViewCache
	busy   mapset.Set[common.Hash]
	opts   Options
}

func NewDashboard(c VestingChain, signer chain.Signer, opts Options) *Dashboard {
	opts.setDefaults()
	cache := NewViewCache(opts.CacheSize, opts.RefreshInterval)
	cache.now = opts.Now
	return &Dashboard{
		chain:  c,
		signer: signer,
		cache:  cache,
		busy:   mapset.NewSet[common.Hash](),
		opts:   opts,
	}
}

func (d *Dashboard) Signer() chain.Signer { return d.signer }

func (d *Dashboard) Cache() *ViewCache { return d.cache }

func (d *Dashboard) Now() time.Time { return d.opts.Now() }

// Beneficiary returns the cached view of beneficiary, reloading it from the
// contract when missing or expired. Read failures are returned, not retried.
func (d *Dashboard) Beneficiary(ctx context.Context, beneficiary common.Address) (*model.BeneficiaryView, error) {
	if view, fresh := d.cache.Get(beneficiary); fresh {
		return view, nil
	}
	view, err := d.load(ctx, beneficiary)
	if err != nil {
		return nil, err
	}
	d.cache.Put(view)
	return view, nil
}

func (d *Dashboard) load(ctx context.Context, beneficiary common.Address) (*model.BeneficiaryView, error) {
	var (
		schedules []model.VestingSchedule
		summary   *model.BeneficiarySummary
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		schedules, err = d.chain.GetBeneficiaryVestingSchedules(gctx, beneficiary)
		observeRead(model.MethodBeneficiarySchedules, err)
		return err
	})
	g.Go(func() error {
		var err error
		summary, err = d.chain.GetBeneficiaryVestingSummary(gctx, beneficiary)
		observeRead(model.MethodBeneficiarySummary, err)
		return err
	})
	if err := g.Wait(); err != nil {
		logrus.Errorf("load beneficiary %s err: %v", beneficiary.Hex(), err)
		return nil, err
	}

	views := make([]*model.ScheduleView, len(schedules))
	g, gctx = errgroup.WithContext(ctx)
	g.SetLimit(d.opts.Concurrency)
	for i := range schedules {
		i := i
		g.Go(func() error {
			id, err := d.chain.ComputeScheduleId(gctx, beneficiary, i)
			observeRead(model.MethodComputeScheduleId, err)
			views[i] = d.resolveProgress(gctx, id, i, schedules[i])
			return gctx.Err()
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return &model.BeneficiaryView{
		Beneficiary: beneficiary,
		Summary:     *summary,
		Schedules:   views,
		UpdatedAt:   d.opts.Now().UTC(),
	}, nil
}

// resolveProgress prefers getVestingProgress, then computeReleasableAmount,
// and only then the local estimate.
func (d *Dashboard) resolveProgress(ctx context.Context, id common.Hash, index int, s model.VestingSchedule) *model.ScheduleView {
	view := &model.ScheduleView{Id: id, Index: index, Schedule: s}

	progress, err := d.chain.GetVestingProgress(ctx, id)
	observeRead(model.MethodVestingProgress, err)
	if err == nil {
		view.Progress = *progress
		view.Source = model.SourceContract
		progressSources.WithLabelValues(string(view.Source)).Inc()
		return view
	}

	now := uint64(d.opts.Now().Unix())
	estimate := vesting.EstimateProgress(&s, now)

	releasable, err := d.chain.ComputeReleasableAmount(ctx, id)
	observeRead(model.MethodComputeReleasable, err)
	if err == nil {
		estimate.ReleasableAmount = releasable
		estimate.LockedAmount = new(big.Int)
		if !s.Revoked {
			locked := new(big.Int).Sub(estimate.TotalAmount, estimate.ReleasedAmount)
			locked.Sub(locked, releasable)
			if locked.Sign() > 0 {
				estimate.LockedAmount = locked
			}
		}
		view.Progress = estimate
		view.Source = model.SourceReleasable
	} else {
		logrus.Warnf("schedule %s: contract progress unavailable, showing estimate", id.Hex())
		view.Progress = estimate
		view.Source = model.SourceEstimate
	}
	progressSources.WithLabelValues(string(view.Source)).Inc()
	return view
}

// Cards renders schedules at the dashboard's current time.
func (d *Dashboard) Cards(schedules []*model.ScheduleView) []*vesting.Card {
	now := d.opts.Now()
	cards := make([]*vesting.Card, 0, len(schedules))
	for _, s := range schedules {
		cards = append(cards, vesting.NewCard(s, now, d.Busy(s.Id)))
	}
	return cards
}

// ScheduleProgress reads the authoritative progress of one schedule.
func (d *Dashboard) ScheduleProgress(ctx context.Context, id common.Hash) (*model.VestingProgress, error) {
	p, err := d.chain.GetVestingProgress(ctx, id)
	observeRead(model.MethodVestingProgress, err)
	return p, err
}

func (d *Dashboard) GlobalStats(ctx context.Context) (*model.GlobalStats, error) {
	var total, released *big.Int
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		total, err = d.chain.GetVestingSchedulesTotalAmount(gctx)
		observeRead(model.MethodSchedulesTotal, err)
		return err
	})
	g.Go(func() error {
		var err error
		released, err = d.chain.GetVestingSchedulesReleasedAmount(gctx)
		observeRead(model.MethodSchedulesReleased, err)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	locked := new(big.Int).Sub(total, released)
	if locked.Sign() < 0 {
		locked.SetInt64(0)
	}
	return &model.GlobalStats{
		Total:          total,
		Released:       released,
		Locked:         locked,
		ReleasePercent: model.Percent(released, total),
	}, nil
}

func (d *Dashboard) Busy(id common.Hash) bool {
	return d.busy.Contains(id)
}

// Run refreshes every cached beneficiary each RefreshInterval, and immediately
// after an invalidation, until ctx is done.
func (d *Dashboard) Run(ctx context.Context) {
	ticker := time.NewTicker(d.opts.RefreshInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case addr := <-d.cache.Invalidated():
			d.refresh(ctx, addr)
		case <-ticker.C:
			for _, addr := range d.cache.Tracked() {
				d.refresh(ctx, addr)
			}
		}
	}
}

func (d *Dashboard) refresh(ctx context.Context, addr common.Address) {
	view, err := d.load(ctx, addr)
	if err != nil {
		logrus.Warnf("refresh %s err: %v", addr.Hex(), err)
		return
	}
	d.cache.Put(view)
	logrus.Debugf("refreshed %s, %d schedules", addr.Hex(), len(view.Schedules))
}
