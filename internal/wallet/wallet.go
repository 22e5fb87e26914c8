// Package wallet holds the client's signing identity: an account address and
// personal-sign over arbitrary text, compatible with what browser wallets
// produce for the same message.
package wallet

import (
	"context"
	"crypto/ecdsa"
	"fmt"
	"strings"

	"github.com/ethereum/go-ethereum/accounts"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
)

type Wallet struct {
	key     *ecdsa.PrivateKey
	address common.Address
}

func FromHexKey(hexKey string) (*Wallet, error) {
	key, err := crypto.HexToECDSA(strings.TrimPrefix(hexKey, "0x"))
	if err != nil {
		return nil, fmt.Errorf("invalid private key: %w", err)
	}
	return &Wallet{key: key, address: crypto.PubkeyToAddress(key.PublicKey)}, nil
}

// Address in EIP-55 checksummed form.
func (w *Wallet) Address() string {
	return w.address.Hex()
}

// SignMessage signs the EIP-191 personal-message hash of msg and returns the
// 65-byte [R||S||V] signature with V in {27,28}.
func (w *Wallet) SignMessage(ctx context.Context, msg string) ([]byte, error) {
	sig, err := crypto.Sign(accounts.TextHash([]byte(msg)), w.key)
	if err != nil {
		return nil, err
	}
	sig[64] += 27
	return sig, nil
}
