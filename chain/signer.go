package chain

import (
	"context"
	"crypto/ecdsa"
	"fmt"
	"math/big"
	"os"
	"strings"

	"github.com/ethereum/go-ethereum/accounts/keystore"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"
)

// Signer authorizes release transactions on behalf of the beneficiary.
type Signer interface {
	Address() common.Address
	SignTx(ctx context.Context, tx *types.Transaction, chainId *big.Int) (*types.Transaction, error)
}

type KeySigner struct {
	key     *ecdsa.PrivateKey
	address common.Address
}

func NewKeySigner(key *ecdsa.PrivateKey) *KeySigner {
	return &KeySigner{key: key, address: crypto.PubkeyToAddress(key.PublicKey)}
}

func NewKeySignerFromHex(hexKey string) (*KeySigner, error) {
	key, err := crypto.HexToECDSA(strings.TrimPrefix(strings.TrimSpace(hexKey), "0x"))
	if err != nil {
		return nil, fmt.Errorf("parse private key: %w", err)
	}
	return NewKeySigner(key), nil
}

// NewKeySignerFromKeystore decrypts a V3 keystore file.
func NewKeySignerFromKeystore(path, passphrase string) (*KeySigner, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read keystore: %w", err)
	}
	k, err := keystore.DecryptKey(data, passphrase)
	if err != nil {
		return nil, fmt.Errorf("decrypt keystore: %w", err)
	}
	return NewKeySigner(k.PrivateKey), nil
}

func (s *KeySigner) Address() common.Address { return s.address }

func (s *KeySigner) SignTx(_ context.Context, tx *types.Transaction, chainId *big.Int) (*types.Transaction, error) {
	return types.SignTx(tx, types.LatestSignerForChainID(chainId), s.key)
}

// ConfirmFunc asks the holder to approve tx. Returning false declines it.
type ConfirmFunc func(ctx context.Context, tx *types.Transaction) (bool, error)

// ConfirmSigner gates another signer behind an explicit approval step,
// the way a browser wallet pops up a confirmation dialog.
type ConfirmSigner struct {
	Signer
	Confirm ConfirmFunc
}

func (s *ConfirmSigner) SignTx(ctx context.Context, tx *types.Transaction, chainId *big.Int) (*types.Transaction, error) {
	ok, err := s.Confirm(ctx, tx)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUserRejected, err)
	}
	if !ok {
		return nil, ErrUserRejected
	}
	return s.Signer.SignTx(ctx, tx, chainId)
}
