package transaction

import (
	"context"

	"github.com/Layr-Labs/contract-testkit/pkg/transactionLogParser"
	"github.com/ethereum/go-ethereum/core/types"
)

// TransactionResult is a mined transaction: the raw receipt plus the logs
// that could be decoded against known contracts.
type TransactionResult struct {
	Receipt *types.Receipt
	Logs    []*transactionLogParser.DecodedLog
}

// Operation is anything a helper can wait on: a thunk, a pending submission
// or an already-mined result.
type Operation interface {
	Await(ctx context.Context) (*TransactionResult, error)
}

// OperationFunc is a thunk; it runs on every Await.
type OperationFunc func(ctx context.Context) (*TransactionResult, error)

func (f OperationFunc) Await(ctx context.Context) (*TransactionResult, error) {
	return f(ctx)
}

// Await returns the result itself.
func (tr *TransactionResult) Await(_ context.Context) (*TransactionResult, error) {
	return tr, nil
}

// EventsByName returns the decoded logs named eventName, in log order.
func (tr *TransactionResult) EventsByName(eventName string) []*transactionLogParser.DecodedLog {
	var out []*transactionLogParser.DecodedLog
	for _, lg := range tr.Logs {
		if lg != nil && lg.EventName == eventName {
			out = append(out, lg)
		}
	}
	return out
}
