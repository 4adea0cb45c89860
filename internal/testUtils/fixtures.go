package testUtils

import (
	"math/big"
	"testing"

	"github.com/Layr-Labs/contract-testkit/pkg/contracts"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/stretchr/testify/require"
)

const (
	TokenAddress = "0x5FbDB2315678afecb367f032d93F642f64180aa3"
	VaultAddress = "0xe7f1725E7734CE288F8367e1Bb143E90bb3F0512"
)

// VaultABI declares Deposit twice; the second overload is registered as
// "Deposit0" in the ABI while its logs still carry the name "Deposit".
const VaultABI = `[
	{"type": "event", "name": "Deposit", "anonymous": false, "inputs": [
		{"indexed": true, "name": "account", "type": "address"}
	]},
	{"type": "event", "name": "Deposit", "anonymous": false, "inputs": [
		{"indexed": true, "name": "account", "type": "address"},
		{"indexed": false, "name": "amount", "type": "uint256"}
	]}
]`

var (
	Alice = common.HexToAddress("0x70997970C51812dc3A010C7d01b50e0d17dc79C8")
	Bob   = common.HexToAddress("0x3C44CdDdB6a900fa2b585dd299e03d12FA4293BC")
)

func NewTokenContract(t *testing.T) *contracts.Contract {
	t.Helper()
	c, err := contracts.NewERC20Contract(TokenAddress)
	require.NoError(t, err)
	return c
}

func NewVaultContract(t *testing.T) *contracts.Contract {
	t.Helper()
	c, err := contracts.NewContractFromJson("Vault", VaultAddress, VaultABI)
	require.NoError(t, err)
	return c
}

// NewEventLog ABI-encodes an event of c: indexed values become topics, the
// rest is packed into data. Values are given in input declaration order.
func NewEventLog(t *testing.T, c *contracts.Contract, eventName string, index uint, values ...interface{}) *types.Log {
	t.Helper()
	ev, err := c.EventByName(eventName)
	require.NoError(t, err)
	require.Len(t, values, len(ev.Inputs), "value count for %s", eventName)

	topics := []common.Hash{ev.ID}
	var nonIndexed []interface{}
	for i, input := range ev.Inputs {
		if !input.Indexed {
			nonIndexed = append(nonIndexed, values[i])
			continue
		}
		switch v := values[i].(type) {
		case common.Address:
			topics = append(topics, common.BytesToHash(v.Bytes()))
		case *big.Int:
			topics = append(topics, common.BigToHash(v))
		case common.Hash:
			topics = append(topics, v)
		default:
			t.Fatalf("unsupported indexed fixture type %T", v)
		}
	}

	data, err := ev.Inputs.NonIndexed().Pack(nonIndexed...)
	require.NoError(t, err)

	return &types.Log{
		Address: common.HexToAddress(c.Address),
		Topics:  topics,
		Data:    data,
		Index:   index,
	}
}

func NewTransferLog(t *testing.T, c *contracts.Contract, index uint, from, to common.Address, value int64) *types.Log {
	return NewEventLog(t, c, "Transfer", index, from, to, big.NewInt(value))
}

func NewApprovalLog(t *testing.T, c *contracts.Contract, index uint, owner, spender common.Address, value int64) *types.Log {
	return NewEventLog(t, c, "Approval", index, owner, spender, big.NewInt(value))
}

func NewReceipt(status uint64, logs ...*types.Log) *types.Receipt {
	txHash := common.HexToHash("0x01")
	for _, lg := range logs {
		lg.TxHash = txHash
	}
	return &types.Receipt{
		Status:      status,
		TxHash:      txHash,
		BlockNumber: big.NewInt(1),
		Logs:        logs,
	}
}
