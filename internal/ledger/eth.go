package ledger

import (
	"context"
	"crypto/ecdsa"
	"errors"
	"fmt"
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/ethclient"
)

// contractABI is the storage contract's surface: a flat key-value store plus
// a liveness probe.
const contractABI = `[
	{"name":"isAvailable","type":"function","stateMutability":"view","inputs":[],"outputs":[{"name":"","type":"bool"}]},
	{"name":"getData","type":"function","stateMutability":"view","inputs":[{"name":"key","type":"string"}],"outputs":[{"name":"","type":"bytes"}]},
	{"name":"setData","type":"function","stateMutability":"nonpayable","inputs":[{"name":"key","type":"string"},{"name":"value","type":"bytes"}],"outputs":[]}
]`

// EthLedger talks to the storage contract over a JSON-RPC endpoint. Reads go
// through eth_call; writes are signed transactions waited to a receipt. With
// no private key configured the ledger is read-only.
type EthLedger struct {
	client   *ethclient.Client
	contract common.Address
	abi      abi.ABI
	chainID  *big.Int
	key      *ecdsa.PrivateKey
}

func DialEth(ctx context.Context, rpcURL, contractAddr, privKeyHex string) (*EthLedger, error) {
	if !common.IsHexAddress(contractAddr) {
		return nil, fmt.Errorf("invalid contract address %q", contractAddr)
	}

	client, err := ethclient.DialContext(ctx, rpcURL)
	if err != nil {
		return nil, fmt.Errorf("failed to dial rpc endpoint: %w", err)
	}

	parsed, err := abi.JSON(strings.NewReader(contractABI))
	if err != nil {
		client.Close()
		return nil, err
	}

	chainID, err := client.ChainID(ctx)
	if err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to read chain id: %w", err)
	}

	l := &EthLedger{
		client:   client,
		contract: common.HexToAddress(contractAddr),
		abi:      parsed,
		chainID:  chainID,
	}

	if privKeyHex != "" {
		key, err := crypto.HexToECDSA(strings.TrimPrefix(privKeyHex, "0x"))
		if err != nil {
			client.Close()
			return nil, fmt.Errorf("invalid private key: %w", err)
		}
		l.key = key
	}

	return l, nil
}

func (l *EthLedger) Close() {
	l.client.Close()
}

// ChainID of the connected endpoint.
func (l *EthLedger) ChainID() *big.Int {
	return new(big.Int).Set(l.chainID)
}

// ContractAddress in EIP-55 form.
func (l *EthLedger) ContractAddress() string {
	return l.contract.Hex()
}

func (l *EthLedger) call(ctx context.Context, method string, args ...interface{}) ([]interface{}, error) {
	data, err := l.abi.Pack(method, args...)
	if err != nil {
		return nil, err
	}
	out, err := l.client.CallContract(ctx, ethereum.CallMsg{To: &l.contract, Data: data}, nil)
	if err != nil {
		return nil, err
	}
	return l.abi.Unpack(method, out)
}

func (l *EthLedger) IsAvailable(ctx context.Context) (bool, error) {
	vals, err := l.call(ctx, "isAvailable")
	if err != nil {
		return false, err
	}
	ok, valid := vals[0].(bool)
	if !valid {
		return false, errors.New("unexpected isAvailable return type")
	}
	return ok, nil
}

func (l *EthLedger) GetData(ctx context.Context, key string) ([]byte, error) {
	vals, err := l.call(ctx, "getData", key)
	if err != nil {
		return nil, err
	}
	raw, valid := vals[0].([]byte)
	if !valid {
		return nil, errors.New("unexpected getData return type")
	}
	return raw, nil
}

func (l *EthLedger) SetData(ctx context.Context, key string, value []byte) error {
	if l.key == nil {
		return errors.New("ledger is read-only: no private key configured")
	}

	data, err := l.abi.Pack("setData", key, value)
	if err != nil {
		return err
	}

	from := crypto.PubkeyToAddress(l.key.PublicKey)
	nonce, err := l.client.PendingNonceAt(ctx, from)
	if err != nil {
		return fmt.Errorf("failed to fetch nonce: %w", err)
	}
	gasPrice, err := l.client.SuggestGasPrice(ctx)
	if err != nil {
		return fmt.Errorf("failed to fetch gas price: %w", err)
	}
	gas, err := l.client.EstimateGas(ctx, ethereum.CallMsg{From: from, To: &l.contract, Data: data})
	if err != nil {
		return fmt.Errorf("failed to estimate gas: %w", err)
	}

	tx := types.NewTx(&types.LegacyTx{
		Nonce:    nonce,
		To:       &l.contract,
		Gas:      gas,
		GasPrice: gasPrice,
		Data:     data,
	})
	signed, err := types.SignTx(tx, types.LatestSignerForChainID(l.chainID), l.key)
	if err != nil {
		return err
	}

	if err := l.client.SendTransaction(ctx, signed); err != nil {
		return fmt.Errorf("failed to send transaction: %w", err)
	}

	receipt, err := bind.WaitMined(ctx, l.client, signed)
	if err != nil {
		return fmt.Errorf("failed waiting for receipt: %w", err)
	}
	if receipt.Status != types.ReceiptStatusSuccessful {
		return fmt.Errorf("setData reverted (tx %s)", signed.Hash())
	}
	return nil
}
