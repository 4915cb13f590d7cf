package model

import (
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/stretchr/testify/assert"
)

func TestKeccak256MatchesGeth(t *testing.T) {
	data := []byte("getVestingProgress(bytes32)")
	assert.Equal(t, crypto.Keccak256Hash(data), Keccak256(data))
}

func TestScheduleId(t *testing.T) {
	holder := common.HexToAddress("0x70997970C51812dc3A010C7d01b50e0d17dc79C8")

	packed := append(holder.Bytes(), common.LeftPadBytes([]byte{1}, 32)...)
	assert.Equal(t, crypto.Keccak256Hash(packed), ScheduleId(holder, 1))
	assert.NotEqual(t, ScheduleId(holder, 0), ScheduleId(holder, 1))
	assert.Len(t, packed, 52)
}
