package ethereum

import (
	"context"
	"fmt"
	"math/big"
	"time"

	"github.com/Layr-Labs/contract-testkit/pkg/config"
	"github.com/Layr-Labs/contract-testkit/pkg/transaction"
	"github.com/Layr-Labs/contract-testkit/pkg/transactionLogParser"
	"github.com/Layr-Labs/contract-testkit/pkg/util"
	goEthereum "github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/ethclient"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

// Backend is the subset of *ethclient.Client the adapter needs.
type Backend interface {
	TransactionReceipt(ctx context.Context, txHash common.Hash) (*types.Receipt, error)
	CallContract(ctx context.Context, call goEthereum.CallMsg, blockNumber *big.Int) ([]byte, error)
	SendTransaction(ctx context.Context, tx *types.Transaction) error
}

type EthereumClientConfig struct {
	RpcUrl       string
	PollInterval time.Duration
}

func NewEthereumClientConfigFromTestkitConfig(cfg *config.TestkitConfig) *EthereumClientConfig {
	return &EthereumClientConfig{
		RpcUrl:       cfg.RpcUrl,
		PollInterval: cfg.PollInterval.Duration,
	}
}

// EthereumClient submits transactions, waits for their receipts and turns
// them into TransactionResults with decoded logs. Failed transactions come
// back as *RevertError.
type EthereumClient struct {
	backend Backend
	parser  *transactionLogParser.TransactionLogParser
	config  *EthereumClientConfig
	logger  *zap.Logger
	closer  func()
}

// NewEthereumClient dials cfg.RpcUrl and wraps the connection.
//
// Parameters:
//   - ctx: Context for the dial
//   - cfg: RPC URL and receipt poll interval
//   - parser: Parser used to decode receipt logs
//   - logger: Logger for recording operations
//
// Returns:
//   - *EthereumClient: A connected client; Close releases the connection
//   - error: When the URL is empty or the dial fails
func NewEthereumClient(ctx context.Context, cfg *EthereumClientConfig, parser *transactionLogParser.TransactionLogParser, logger *zap.Logger) (*EthereumClient, error) {
	if cfg.RpcUrl == "" {
		return nil, errors.New("rpc url is required")
	}
	ec, err := ethclient.DialContext(ctx, cfg.RpcUrl)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to dial %s", cfg.RpcUrl)
	}
	client := NewEthereumClientWithBackend(ec, parser, cfg, logger)
	client.closer = ec.Close
	return client, nil
}

// NewEthereumClientWithBackend wraps an existing backend, such as a simulated
// chain. A non-positive poll interval falls back to config.DefaultPollInterval.
func NewEthereumClientWithBackend(backend Backend, parser *transactionLogParser.TransactionLogParser, cfg *EthereumClientConfig, logger *zap.Logger) *EthereumClient {
	if cfg.PollInterval <= 0 {
		cfg.PollInterval = config.DefaultPollInterval
	}
	return &EthereumClient{
		backend: backend,
		parser:  parser,
		config:  cfg,
		logger:  logger,
	}
}

func (ec *EthereumClient) Close() {
	if ec.closer != nil {
		ec.closer()
	}
}

// WaitForReceipt polls until the receipt for txHash exists or ctx is done.
func (ec *EthereumClient) WaitForReceipt(ctx context.Context, txHash common.Hash) (*types.Receipt, error) {
	ticker := time.NewTicker(ec.config.PollInterval)
	defer ticker.Stop()

	for {
		receipt, err := ec.backend.TransactionReceipt(ctx, txHash)
		if err == nil && receipt != nil {
			return receipt, nil
		}
		if err != nil && !errors.Is(err, goEthereum.NotFound) {
			return nil, errors.Wrapf(err, "failed to get receipt for %s", txHash.Hex())
		}
		ec.logger.Sugar().Debugw("Transaction not yet mined", zap.String("txHash", txHash.Hex()))

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-ticker.C:
		}
	}
}

// SubmitTransaction sends a signed transaction and returns the pending
// operation that resolves once it is mined.
func (ec *EthereumClient) SubmitTransaction(ctx context.Context, tx *types.Transaction) *transaction.Pending {
	return transaction.NewPending(ctx, func(ctx context.Context) (*transaction.TransactionResult, error) {
		if err := ec.backend.SendTransaction(ctx, tx); err != nil {
			return nil, err
		}
		return ec.AwaitTransaction(ctx, tx)
	})
}

// AwaitTransaction waits for tx to be mined. A failed transaction is
// replayed at its block to recover the revert reason.
//
// Parameters:
//   - ctx: Bounds the wait; there is no timeout of its own
//   - tx: The signed transaction, already sent
//
// Returns:
//   - *transaction.TransactionResult: The receipt and its decoded logs
//   - error: *RevertError for status 0, or the wait/decode error
func (ec *EthereumClient) AwaitTransaction(ctx context.Context, tx *types.Transaction) (*transaction.TransactionResult, error) {
	receipt, err := ec.WaitForReceipt(ctx, tx.Hash())
	if err != nil {
		return nil, err
	}
	if receipt.Status == types.ReceiptStatusFailed {
		return nil, ec.revertError(ctx, tx, receipt)
	}
	return ec.DecodeReceipt(receipt)
}

// DecodeReceipt wraps a mined receipt with its decoded logs.
func (ec *EthereumClient) DecodeReceipt(receipt *types.Receipt) (*transaction.TransactionResult, error) {
	logs, err := ec.parser.DecodeReceipt(receipt)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to decode logs for %s", receipt.TxHash.Hex())
	}
	return &transaction.TransactionResult{
		Receipt: receipt,
		Logs:    logs,
	}, nil
}

func (ec *EthereumClient) revertError(ctx context.Context, tx *types.Transaction, receipt *types.Receipt) error {
	revertErr := &RevertError{TxHash: tx.Hash()}

	from, err := types.Sender(types.LatestSignerForChainID(tx.ChainId()), tx)
	if err != nil {
		ec.logger.Sugar().Warnw("Failed to recover sender of reverted transaction", zap.Error(err))
		return revertErr
	}

	msg := goEthereum.CallMsg{
		From:  from,
		To:    tx.To(),
		Gas:   tx.Gas(),
		Value: tx.Value(),
		Data:  tx.Data(),
	}
	_, callErr := ec.backend.CallContract(ctx, msg, receipt.BlockNumber)
	if callErr == nil {
		ec.logger.Sugar().Debugw("Replay of reverted transaction succeeded", zap.String("txHash", tx.Hash().Hex()))
		return revertErr
	}

	if data, ok := util.RevertData(callErr); ok {
		revertErr.Data = data
	}
	if reason, ok := util.RevertReason(callErr); ok {
		revertErr.Reason = reason
	}
	return revertErr
}

// RevertError is a mined transaction with status 0. It carries the revert
// payload like a JSON-RPC error does.
type RevertError struct {
	Reason string
	Data   []byte
	TxHash common.Hash
}

func (re *RevertError) Error() string {
	if re.Reason == "" {
		return "VM Exception while processing transaction: revert"
	}
	return fmt.Sprintf("VM Exception while processing transaction: revert %s", re.Reason)
}

func (re *RevertError) ErrorData() interface{} {
	return hexutil.Encode(re.Data)
}
