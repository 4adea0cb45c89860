package assertions

import (
	"context"
	"errors"
	"fmt"
	"math/big"
	"strings"
	"testing"

	"github.com/Layr-Labs/contract-testkit/internal/testUtils"
	"github.com/Layr-Labs/contract-testkit/pkg/config"
	"github.com/Layr-Labs/contract-testkit/pkg/contractStore/inMemoryContractStore"
	"github.com/Layr-Labs/contract-testkit/pkg/contracts"
	"github.com/Layr-Labs/contract-testkit/pkg/transaction"
	"github.com/Layr-Labs/contract-testkit/pkg/transactionLogParser"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

// recordingT captures failures instead of ending the test
type recordingT struct {
	errors    []string
	failedNow bool
}

func (r *recordingT) Errorf(format string, args ...interface{}) {
	r.errors = append(r.errors, fmt.Sprintf(format, args...))
}

func (r *recordingT) FailNow() {
	r.failedNow = true
}

func (r *recordingT) failed() bool {
	return len(r.errors) > 0
}

func (r *recordingT) output() string {
	return strings.Join(r.errors, "\n")
}

// dataError mimics the JSON-RPC error go-ethereum returns for eth_call reverts
type dataError struct {
	msg  string
	data interface{}
}

func (e *dataError) Error() string          { return e.msg }
func (e *dataError) ErrorData() interface{} { return e.data }

func revertData(t *testing.T, reason string) []byte {
	stringType, err := abi.NewType("string", "", nil)
	require.NoError(t, err)
	packed, err := abi.Arguments{{Type: stringType}}.Pack(reason)
	require.NoError(t, err)
	return append(crypto.Keccak256([]byte("Error(string)"))[:4], packed...)
}

func failing(err error) transaction.Operation {
	return transaction.OperationFunc(func(ctx context.Context) (*transaction.TransactionResult, error) {
		return nil, err
	})
}

func succeeding() transaction.Operation {
	return transaction.OperationFunc(func(ctx context.Context) (*transaction.TransactionResult, error) {
		return &transaction.TransactionResult{}, nil
	})
}

func Test_ExpectRevert(t *testing.T) {
	ctx := context.Background()
	quiet := WithLogger(zap.NewNop())

	t.Run("Should pass when the error contains the revert message", func(t *testing.T) {
		rt := &recordingT{}
		err := errors.New("VM Exception while processing transaction: revert Ownable: caller is not the owner")

		ok := ExpectRevert(rt, ctx, failing(err), "Ownable: caller is not the owner", quiet)
		assert.True(t, ok)
		assert.False(t, rt.failed())
	})
	t.Run("Should accept a pending operation", func(t *testing.T) {
		rt := &recordingT{}
		pending := transaction.NewPending(ctx, func(ctx context.Context) (*transaction.TransactionResult, error) {
			return nil, errors.New("revert Paused")
		})

		assert.True(t, ExpectRevert(rt, ctx, pending, "Paused", quiet))
		assert.False(t, rt.failed())
	})
	t.Run("Should fail when the operation completes", func(t *testing.T) {
		rt := &recordingT{}

		ok := ExpectRevert(rt, ctx, succeeding(), "anything", quiet)
		assert.False(t, ok)
		assert.True(t, rt.failedNow)
		assert.Contains(t, rt.output(), "Expected throw not received")
	})
	t.Run("Should fail with both messages when the text differs", func(t *testing.T) {
		rt := &recordingT{}
		err := errors.New("VM Exception while processing transaction: revert Paused")

		ok := ExpectRevert(rt, ctx, failing(err), "Ownable: caller is not the owner", quiet)
		assert.False(t, ok)
		assert.True(t, rt.failedNow)
		assert.Contains(t, rt.output(), "Expected a revert 'revert Ownable: caller is not the owner'")
		assert.Contains(t, rt.output(), "got 'VM Exception while processing transaction: revert Paused' instead")
	})
	t.Run("Should require the header in front of the message", func(t *testing.T) {
		rt := &recordingT{}

		assert.False(t, ExpectRevert(rt, ctx, failing(errors.New("Paused")), "Paused", quiet))
	})
	t.Run("Should skip the message check under coverage", func(t *testing.T) {
		rt := &recordingT{}

		ok := ExpectRevert(rt, ctx, failing(errors.New("invalid opcode")), "Paused", quiet, WithCoverage(true))
		assert.True(t, ok)
		assert.False(t, rt.failed())
	})
	t.Run("Should still fail under coverage when nothing reverts", func(t *testing.T) {
		rt := &recordingT{}

		assert.False(t, ExpectRevert(rt, ctx, succeeding(), "Paused", quiet, WithCoverage(true)))
		assert.Contains(t, rt.output(), "Expected throw not received")
	})
	t.Run("Should match an empty message on the trimmed header and warn", func(t *testing.T) {
		core, logs := observer.New(zapcore.WarnLevel)
		rt := &recordingT{}

		ok := ExpectRevert(rt, ctx, failing(errors.New("VM Exception while processing transaction: revert")), "", WithLogger(zap.New(core)))
		assert.True(t, ok)
		assert.False(t, rt.failed())
		require.Equal(t, 1, logs.Len())
		assert.Contains(t, logs.All()[0].Message, "empty revert/require message")
	})
	t.Run("Should honour a custom header", func(t *testing.T) {
		rt := &recordingT{}
		err := errors.New("execution reverted: ERC20: insufficient allowance")

		ok := ExpectRevert(rt, ctx, failing(err), "ERC20: insufficient allowance", quiet, WithHeader("execution reverted: "))
		assert.True(t, ok)
	})
	t.Run("Should take header and coverage from config", func(t *testing.T) {
		cfg := config.NewTestkitConfig()
		cfg.RevertHeader = "reverted with reason string "
		rt := &recordingT{}

		ok := ExpectRevert(rt, ctx, failing(errors.New("reverted with reason string 'Paused'")), "'Paused'", quiet, WithConfig(cfg))
		assert.True(t, ok)
	})
	t.Run("Should decode revert data carried by the error", func(t *testing.T) {
		rt := &recordingT{}
		err := &dataError{msg: "execution reverted", data: hexutil.Encode(revertData(t, "Ownable: caller is not the owner"))}

		ok := ExpectRevert(rt, ctx, failing(err), "Ownable: caller is not the owner", quiet)
		assert.True(t, ok)
		assert.False(t, rt.failed())
	})
}

func decodedResult(t *testing.T, logs ...*types.Log) *transaction.TransactionResult {
	token := testUtils.NewTokenContract(t)
	l := zap.NewNop()
	parser := transactionLogParser.NewTransactionLogParser(
		inMemoryContractStore.NewInMemoryContractStore([]*contracts.Contract{token}, l), l)

	receipt := testUtils.NewReceipt(types.ReceiptStatusSuccessful, logs...)
	decoded, err := parser.DecodeReceipt(receipt)
	require.NoError(t, err)
	return &transaction.TransactionResult{Receipt: receipt, Logs: decoded}
}

func Test_CollectEvents(t *testing.T) {
	ctx := context.Background()
	quiet := WithLogger(zap.NewNop())
	token := testUtils.NewTokenContract(t)

	t.Run("Should return the single matching event", func(t *testing.T) {
		rt := &recordingT{}
		tr := decodedResult(t, testUtils.NewTransferLog(t, token, 0, testUtils.Alice, testUtils.Bob, 100))

		events := CollectEvents(rt, ctx, tr, []string{"Transfer"}, quiet)
		require.False(t, rt.failed())

		args, ok := events.Single()
		require.True(t, ok)
		assert.Equal(t, testUtils.Alice, args.Address("from"))
		assert.Equal(t, testUtils.Bob, args.Address("to"))
		assert.Equal(t, int64(100), args.BigInt("value").Int64())
	})
	t.Run("Should order matches by requested name, not by log order", func(t *testing.T) {
		rt := &recordingT{}
		tr := decodedResult(t,
			testUtils.NewApprovalLog(t, token, 0, testUtils.Alice, testUtils.Bob, 1),
			testUtils.NewTransferLog(t, token, 1, testUtils.Alice, testUtils.Bob, 2),
		)

		events := CollectEvents(rt, ctx, tr, []string{"Transfer", "Approval"}, quiet)
		require.False(t, rt.failed())
		require.Len(t, events, 2)
		assert.Equal(t, int64(2), events[0].BigInt("value").Int64())
		assert.Equal(t, testUtils.Bob, events[1].Address("spender"))

		_, ok := events.Single()
		assert.False(t, ok)
	})
	t.Run("Should keep log order within one name", func(t *testing.T) {
		rt := &recordingT{}
		tr := decodedResult(t,
			testUtils.NewTransferLog(t, token, 0, testUtils.Alice, testUtils.Bob, 1),
			testUtils.NewApprovalLog(t, token, 1, testUtils.Alice, testUtils.Bob, 9),
			testUtils.NewTransferLog(t, token, 2, testUtils.Bob, testUtils.Alice, 2),
		)

		events := CollectEvents(rt, ctx, tr, []string{"Transfer"}, quiet)
		require.Len(t, events, 2)
		assert.Equal(t, int64(1), events[0].BigInt("value").Int64())
		assert.Equal(t, int64(2), events[1].BigInt("value").Int64())
	})
	t.Run("Should fail when nothing matches", func(t *testing.T) {
		rt := &recordingT{}
		tr := decodedResult(t, testUtils.NewTransferLog(t, token, 0, testUtils.Alice, testUtils.Bob, 1))

		events := CollectEvents(rt, ctx, tr, []string{"Burn", "Mint"}, quiet)
		assert.Nil(t, events)
		assert.True(t, rt.failedNow)
		assert.Contains(t, rt.output(), "[Burn Mint]")
	})
	t.Run("Should fail when a match has no arguments", func(t *testing.T) {
		rt := &recordingT{}
		tr := &transaction.TransactionResult{Logs: []*transactionLogParser.DecodedLog{{EventName: "Transfer"}}}

		assert.Nil(t, CollectEvents(rt, ctx, tr, []string{"Transfer"}, quiet))
		assert.True(t, rt.failed())
	})
	t.Run("Should await a pending transaction first", func(t *testing.T) {
		rt := &recordingT{}
		tr := decodedResult(t, testUtils.NewApprovalLog(t, token, 0, testUtils.Alice, testUtils.Bob, 5))
		pending := transaction.NewPending(ctx, func(ctx context.Context) (*transaction.TransactionResult, error) {
			return tr, nil
		})

		args := CollectEvent(rt, ctx, pending, "Approval", quiet)
		require.False(t, rt.failed())
		assert.Equal(t, 0, big.NewInt(5).Cmp(args.BigInt("value")))
	})
	t.Run("Should fail when the transaction errors", func(t *testing.T) {
		rt := &recordingT{}

		assert.Nil(t, CollectEvents(rt, ctx, failing(errors.New("revert Paused")), []string{"Transfer"}, quiet))
		assert.Contains(t, rt.output(), "revert Paused")
	})
	t.Run("Should match every overload of an event name", func(t *testing.T) {
		l := zap.NewNop()
		vault := testUtils.NewVaultContract(t)
		parser := transactionLogParser.NewTransactionLogParser(
			inMemoryContractStore.NewInMemoryContractStore([]*contracts.Contract{vault}, l), l)
		receipt := testUtils.NewReceipt(types.ReceiptStatusSuccessful,
			testUtils.NewEventLog(t, vault, "Deposit0", 0, testUtils.Bob, big.NewInt(500)),
			testUtils.NewEventLog(t, vault, "Deposit", 1, testUtils.Alice),
		)
		decoded, err := parser.DecodeReceipt(receipt)
		require.NoError(t, err)
		tr := &transaction.TransactionResult{Receipt: receipt, Logs: decoded}

		rt := &recordingT{}
		events := CollectEvents(rt, ctx, tr, []string{"Deposit"}, quiet)
		require.False(t, rt.failed(), rt.output())
		require.Len(t, events, 2)
		assert.Equal(t, int64(500), events[0].BigInt("amount").Int64())
		assert.Equal(t, testUtils.Alice, events[1].Address("account"))
	})
	t.Run("CollectEvent should fail on repeated events", func(t *testing.T) {
		rt := &recordingT{}
		tr := decodedResult(t,
			testUtils.NewTransferLog(t, token, 0, testUtils.Alice, testUtils.Bob, 1),
			testUtils.NewTransferLog(t, token, 1, testUtils.Alice, testUtils.Bob, 2),
		)

		assert.Nil(t, CollectEvent(rt, ctx, tr, "Transfer", quiet))
		assert.Contains(t, rt.output(), "found 2")
	})
}

func Test_BigAssertions(t *testing.T) {
	t.Run("Should pass matching comparisons", func(t *testing.T) {
		rt := &recordingT{}
		b := BigInt(rt)

		assert.True(t, b.Equal(16, "0x10"))
		assert.True(t, b.Equal(big.NewInt(7), uint64(7)))
		assert.True(t, b.NotEqual(1, 2))
		assert.True(t, b.Lt(10, 9))
		assert.True(t, b.Lte(10, "10"))
		assert.True(t, b.Gt("1000000000000000000", "1000000000000000001"))
		assert.True(t, b.Gte(0, 0))
		assert.True(t, b.Zero("0x0"))
		assert.True(t, b.Negative(-1))
		assert.False(t, rt.failed())
	})
	t.Run("Should report both values on failure", func(t *testing.T) {
		rt := &recordingT{}

		assert.False(t, BigInt(rt).Equal(16, 17))
		assert.True(t, rt.failedNow)
		assert.Contains(t, rt.output(), "Expected 17 to equal 16")
	})
	t.Run("Should fail on operands that are not numbers", func(t *testing.T) {
		rt := &recordingT{}

		assert.False(t, BigInt(rt).Gt("abc", 1))
		assert.Contains(t, rt.output(), "Invalid expected value")
	})
}
