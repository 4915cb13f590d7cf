package chain

import (
	"context"
	"errors"
	"fmt"
	"math/big"
	"sync"
	"time"
	"vesting-dashboard/core/model"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/ethclient"
	"github.com/sirupsen/logrus"
)

// Backend is the subset of ethclient.Client the vesting client needs.
type Backend interface {
	ChainID(ctx context.Context) (*big.Int, error)
	CallContract(ctx context.Context, call ethereum.CallMsg, blockNumber *big.Int) ([]byte, error)
	PendingNonceAt(ctx context.Context, account common.Address) (uint64, error)
	SuggestGasPrice(ctx context.Context) (*big.Int, error)
	EstimateGas(ctx context.Context, call ethereum.CallMsg) (uint64, error)
	SendTransaction(ctx context.Context, tx *types.Transaction) error
	TransactionReceipt(ctx context.Context, txHash common.Hash) (*types.Receipt, error)
}

type VestingClient struct {
	backend      Backend
	contract     common.Address
	abi          abi.ABI
	pollInterval time.Duration

	mu      sync.Mutex
	chainId *big.Int
}

func NewVestingClient(ethURL string, contract common.Address) (*VestingClient, error) {
	client, err := ethclient.Dial(ethURL)
	if err != nil {
		return nil, err
	}
	return NewVestingClientWithBackend(client, contract), nil
}

func NewVestingClientWithBackend(backend Backend, contract common.Address) *VestingClient {
	return &VestingClient{
		backend:      backend,
		contract:     contract,
		abi:          model.VestingABI,
		pollInterval: 2 * time.Second,
	}
}

func (vc *VestingClient) Contract() common.Address { return vc.contract }

// SetPollInterval changes how often WaitReceipt asks for the receipt.
func (vc *VestingClient) SetPollInterval(d time.Duration) {
	if d > 0 {
		vc.pollInterval = d
	}
}

func (vc *VestingClient) call(ctx context.Context, method string, args ...interface{}) ([]interface{}, error) {
	input, err := vc.abi.Pack(method, args...)
	if err != nil {
		return nil, &ReadError{Method: method, Err: err}
	}
	output, err := vc.backend.CallContract(ctx, ethereum.CallMsg{To: &vc.contract, Data: input}, nil)
	if err != nil {
		logrus.Warnf("call %s err: %v", method, err)
		return nil, &ReadError{Method: method, Err: err}
	}
	values, err := vc.abi.Unpack(method, output)
	if err != nil {
		return nil, &ReadError{Method: method, Err: err}
	}
	if len(values) == 0 {
		return nil, &ReadError{Method: method, Err: errors.New("empty result")}
	}
	return values, nil
}

func (vc *VestingClient) callBig(ctx context.Context, method string, args ...interface{}) (*big.Int, error) {
	values, err := vc.call(ctx, method, args...)
	if err != nil {
		return nil, err
	}
	v, ok := values[0].(*big.Int)
	if !ok {
		return nil, &ReadError{Method: method, Err: fmt.Errorf("unexpected result type %T", values[0])}
	}
	return v, nil
}

func (vc *VestingClient) GetBeneficiaryVestingSchedules(ctx context.Context, beneficiary common.Address) ([]model.VestingSchedule, error) {
	values, err := vc.call(ctx, model.MethodBeneficiarySchedules, beneficiary)
	if err != nil {
		return nil, err
	}
	schedules := *abi.ConvertType(values[0], new([]model.VestingSchedule)).(*[]model.VestingSchedule)
	return schedules, nil
}

func (vc *VestingClient) GetBeneficiaryVestingSummary(ctx context.Context, beneficiary common.Address) (*model.BeneficiarySummary, error) {
	values, err := vc.call(ctx, model.MethodBeneficiarySummary, beneficiary)
	if err != nil {
		return nil, err
	}
	return abi.ConvertType(values[0], new(model.BeneficiarySummary)).(*model.BeneficiarySummary), nil
}

func (vc *VestingClient) GetVestingProgress(ctx context.Context, scheduleId common.Hash) (*model.VestingProgress, error) {
	values, err := vc.call(ctx, model.MethodVestingProgress, [32]byte(scheduleId))
	if err != nil {
		return nil, err
	}
	return abi.ConvertType(values[0], new(model.VestingProgress)).(*model.VestingProgress), nil
}

// ComputeReleasableAmount is the authoritative releasable amount of a schedule.
func (vc *VestingClient) ComputeReleasableAmount(ctx context.Context, scheduleId common.Hash) (*big.Int, error) {
	return vc.callBig(ctx, model.MethodComputeReleasable, [32]byte(scheduleId))
}

func (vc *VestingClient) GetVestingSchedulesTotalAmount(ctx context.Context) (*big.Int, error) {
	return vc.callBig(ctx, model.MethodSchedulesTotal)
}

func (vc *VestingClient) GetVestingSchedulesReleasedAmount(ctx context.Context) (*big.Int, error) {
	return vc.callBig(ctx, model.MethodSchedulesReleased)
}

// ComputeScheduleId asks the contract for the id of the index-th schedule of
// beneficiary. The returned id is always usable: when the read fails it is the
// local keccak derivation and err reports the failed read.
func (vc *VestingClient) ComputeScheduleId(ctx context.Context, beneficiary common.Address, index int) (common.Hash, error) {
	values, err := vc.call(ctx, model.MethodComputeScheduleId, beneficiary, big.NewInt(int64(index)))
	if err == nil {
		if id, ok := values[0].([32]byte); ok {
			return common.Hash(id), nil
		}
		err = &ReadError{Method: model.MethodComputeScheduleId, Err: fmt.Errorf("unexpected result type %T", values[0])}
	}
	logrus.Debugf("ComputeScheduleId %s/%d falls back to local derivation: %v", beneficiary.Hex(), index, err)
	return model.ScheduleId(beneficiary, uint64(index)), err
}

func (vc *VestingClient) chainID(ctx context.Context) (*big.Int, error) {
	vc.mu.Lock()
	defer vc.mu.Unlock()
	if vc.chainId != nil {
		return vc.chainId, nil
	}
	id, err := vc.backend.ChainID(ctx)
	if err != nil {
		return nil, err
	}
	vc.chainId = id
	return id, nil
}

// Release submits release(scheduleId, amount) signed by signer and returns the
// transaction hash without waiting for it to be mined.
func (vc *VestingClient) Release(ctx context.Context, signer Signer, scheduleId common.Hash, amount *big.Int) (common.Hash, error) {
	if signer == nil {
		return common.Hash{}, ErrNoSigner
	}
	input, err := vc.abi.Pack(model.MethodRelease, [32]byte(scheduleId), amount)
	if err != nil {
		return common.Hash{}, err
	}
	from := signer.Address()

	chainId, err := vc.chainID(ctx)
	if err != nil {
		return common.Hash{}, fmt.Errorf("chain id: %w", err)
	}
	nonce, err := vc.backend.PendingNonceAt(ctx, from)
	if err != nil {
		return common.Hash{}, fmt.Errorf("pending nonce: %w", err)
	}
	gasPrice, err := vc.backend.SuggestGasPrice(ctx)
	if err != nil {
		return common.Hash{}, fmt.Errorf("gas price: %w", err)
	}
	gas, err := vc.backend.EstimateGas(ctx, ethereum.CallMsg{
		From:     from,
		To:       &vc.contract,
		GasPrice: gasPrice,
		Data:     input,
	})
	if err != nil {
		logrus.Warnf("Release %s estimate gas err: %v", scheduleId.Hex(), err)
		return common.Hash{}, classifySubmitError(err)
	}

	tx := types.NewTx(&types.LegacyTx{
		Nonce:    nonce,
		GasPrice: gasPrice,
		Gas:      gas,
		To:       &vc.contract,
		Value:    new(big.Int),
		Data:     input,
	})
	signed, err := signer.SignTx(ctx, tx, chainId)
	if err != nil {
		return common.Hash{}, classifySubmitError(err)
	}
	if err := vc.backend.SendTransaction(ctx, signed); err != nil {
		logrus.Errorf("Release %s send err: %v", scheduleId.Hex(), err)
		return common.Hash{}, classifySubmitError(err)
	}
	logrus.Infof("Release %s amount %s sent, tx %s", scheduleId.Hex(), amount, signed.Hash().Hex())
	return signed.Hash(), nil
}

// WaitReceipt polls until txHash is mined or ctx is done. A failed receipt is
// reported as a *RevertError alongside the receipt.
func (vc *VestingClient) WaitReceipt(ctx context.Context, txHash common.Hash) (*types.Receipt, error) {
	ticker := time.NewTicker(vc.pollInterval)
	defer ticker.Stop()
	for {
		receipt, err := vc.backend.TransactionReceipt(ctx, txHash)
		if err == nil && receipt != nil {
			if receipt.Status != types.ReceiptStatusSuccessful {
				return receipt, &RevertError{}
			}
			return receipt, nil
		}
		if err != nil && !errors.Is(err, ethereum.NotFound) {
			logrus.Warnf("TransactionReceipt %s err: %v", txHash.Hex(), err)
		}
		select {
		case <-ctx.Done():
			return nil, fmt.Errorf("%w: %s: %v", ErrNotMined, txHash.Hex(), ctx.Err())
		case <-ticker.C:
		}
	}
}
