package core

import (
	"context"
	"errors"
	"math/big"
	"sync"
	"vesting-dashboard/chain"
	"vesting-dashboard/core/model"
	"vesting-dashboard/core/vesting"

	"github.com/ethereum/go-ethereum/common"
	"github.com/sirupsen/logrus"
)

// ReleaseTicket tracks one submitted release until its receipt arrives.
type ReleaseTicket struct {
	ScheduleId  common.Hash
	Beneficiary common.Address
	Amount      *big.Int
	TxHash      common.Hash

	done    chan struct{}
	mu      sync.Mutex
	receipt *model.ReleaseReceipt
	err     error
}

func (t *ReleaseTicket) Done() <-chan struct{} { return t.done }

// Wait blocks until the transaction is confirmed, fails, or ctx is done.
func (t *ReleaseTicket) Wait(ctx context.Context) (*model.ReleaseReceipt, error) {
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case <-t.done:
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.receipt, t.err
}

func (t *ReleaseTicket) finish(receipt *model.ReleaseReceipt, err error) {
	t.mu.Lock()
	t.receipt, t.err = receipt, err
	t.mu.Unlock()
	close(t.done)
}

// Release submits a release of amountText (blank: all releasable) for schedule
// id of beneficiary. Only one submission per schedule may be in flight.
func (d *Dashboard) Release(ctx context.Context, beneficiary common.Address, id common.Hash, amountText string) (*ReleaseTicket, error) {
	if d.signer == nil {
		return nil, chain.ErrNoSigner
	}
	if !d.busy.Add(id) {
		releaseSubmissions.WithLabelValues("busy").Inc()
		return nil, ErrReleaseInProgress
	}
	submitted := false
	defer func() {
		if !submitted {
			d.busy.Remove(id)
		}
	}()

	releasable, err := d.releasable(ctx, beneficiary, id)
	if err != nil {
		releaseSubmissions.WithLabelValues(outcomeOf(err)).Inc()
		return nil, err
	}
	amount, err := vesting.ReleaseAmount(amountText, releasable)
	if err != nil {
		releaseSubmissions.WithLabelValues("invalid").Inc()
		return nil, err
	}

	txHash, err := d.chain.Release(ctx, d.signer, id, amount)
	if err != nil {
		releaseSubmissions.WithLabelValues(outcomeOf(err)).Inc()
		return nil, err
	}
	submitted = true
	releaseSubmissions.WithLabelValues("submitted").Inc()

	ticket := &ReleaseTicket{
		ScheduleId:  id,
		Beneficiary: beneficiary,
		Amount:      amount,
		TxHash:      txHash,
		done:        make(chan struct{}),
	}
	go d.confirm(ticket)
	return ticket, nil
}

// releasable reads the authoritative figure and falls back to the last known
// view of the beneficiary when the read fails. Estimated figures are never
// used to authorize a release.
func (d *Dashboard) releasable(ctx context.Context, beneficiary common.Address, id common.Hash) (*big.Int, error) {
	view, _ := d.cache.Get(beneficiary)
	if view != nil {
		if _, ok := view.Schedule(id); !ok {
			return nil, ErrUnknownSchedule
		}
	}

	releasable, err := d.chain.ComputeReleasableAmount(ctx, id)
	observeRead(model.MethodComputeReleasable, err)
	if err == nil {
		return releasable, nil
	}
	if view != nil {
		if s, _ := view.Schedule(id); !s.Estimated() {
			logrus.Warnf("release %s: using last known releasable amount: %v", id.Hex(), err)
			return s.Progress.ReleasableAmount, nil
		}
	}
	return nil, err
}

func (d *Dashboard) confirm(t *ReleaseTicket) {
	ctx, cancel := context.WithTimeout(context.Background(), d.opts.ConfirmTimeout)
	defer cancel()

	receipt, err := d.chain.WaitReceipt(ctx, t.TxHash)
	var res *model.ReleaseReceipt
	if receipt != nil {
		res = &model.ReleaseReceipt{
			ScheduleId: t.ScheduleId,
			Amount:     t.Amount,
			TxHash:     t.TxHash,
			GasUsed:    receipt.GasUsed,
			Receipt:    receipt,
		}
		if receipt.BlockNumber != nil {
			res.BlockNumber = receipt.BlockNumber.Uint64()
		}
	}
	if err != nil {
		logrus.Errorf("release %s tx %s err: %v", t.ScheduleId.Hex(), t.TxHash.Hex(), err)
		releaseSubmissions.WithLabelValues(outcomeOf(err)).Inc()
	} else {
		logrus.Infof("release %s tx %s confirmed in block %d", t.ScheduleId.Hex(), t.TxHash.Hex(), res.BlockNumber)
		releaseSubmissions.WithLabelValues("confirmed").Inc()
	}
	if receipt != nil {
		d.cache.Invalidate(t.Beneficiary)
	}
	d.busy.Remove(t.ScheduleId)
	t.finish(res, err)
}

func outcomeOf(err error) string {
	var (
		readErr   *chain.ReadError
		revertErr *chain.RevertError
	)
	switch {
	case errors.Is(err, chain.ErrUserRejected):
		return "rejected"
	case errors.Is(err, chain.ErrNotMined):
		return "timeout"
	case errors.As(err, &revertErr):
		return "reverted"
	case errors.As(err, &readErr):
		return "read_error"
	case errors.Is(err, ErrUnknownSchedule):
		return "invalid"
	}
	return "error"
}
