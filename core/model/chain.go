package model

import (
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
)

type Network struct {
	Name            string
	ChainId         int64
	RpcUrl          string
	VestingAddress  common.Address
	TokenSymbol     string
	RefreshInterval uint64 // seconds
}

var Networks = map[string]Network{
	"mainnet": {
		Name:            "mainnet",
		ChainId:         1,
		TokenSymbol:     "CPOT",
		RefreshInterval: 10,
	},
	"testnet": {
		Name:            "testnet",
		ChainId:         31337,
		RpcUrl:          "http://127.0.0.1:8545",
		VestingAddress:  common.HexToAddress("0x5FbDB2315678afecb367f032d93F642f64180aa3"), // local anvil node
		TokenSymbol:     "CPOT",
		RefreshInterval: 10,
	},
}

func LookupNetwork(name string) (Network, error) {
	n, ok := Networks[name]
	if !ok {
		return Network{}, fmt.Errorf("unknown network %q", name)
	}
	return n, nil
}

// ReleaseReceipt is the outcome of a mined release transaction.
type ReleaseReceipt struct {
	ScheduleId  common.Hash
	Amount      *big.Int
	TxHash      common.Hash
	BlockNumber uint64
	GasUsed     uint64
	Receipt     *types.Receipt
}

func (r *ReleaseReceipt) Succeeded() bool {
	return r.Receipt != nil && r.Receipt.Status == types.ReceiptStatusSuccessful
}
