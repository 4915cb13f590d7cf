package model

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"golang.org/x/crypto/sha3"
)

func Keccak256(data ...[]byte) common.Hash {
	hasher := sha3.NewLegacyKeccak256()

	for _, d := range data {
		hasher.Write(d)
	}

	return common.BytesToHash(hasher.Sum(nil))
}

// ScheduleId derives keccak256(abi.encodePacked(holder, uint256(index))), the id
// TokenVesting-style contracts assign to the index-th schedule of a holder.
func ScheduleId(holder common.Address, index uint64) common.Hash {
	idx := common.LeftPadBytes(new(big.Int).SetUint64(index).Bytes(), 32)
	return Keccak256(holder.Bytes(), idx)
}
