package assertions

import (
	"context"
	"fmt"
	"math/big"

	"github.com/Layr-Labs/contract-testkit/pkg/transaction"
	"github.com/Layr-Labs/contract-testkit/pkg/transactionLogParser"
	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// EventArgs maps event input names to decoded values.
type EventArgs map[string]interface{}

func (ea EventArgs) BigInt(name string) *big.Int {
	v, _ := ea[name].(*big.Int)
	return v
}

func (ea EventArgs) Address(name string) common.Address {
	v, _ := ea[name].(common.Address)
	return v
}

// CollectedEvents are the matches of CollectEvents: all matches of the
// first requested name in log order, then the second name, and so on.
type CollectedEvents []EventArgs

// Single returns the only match; ok is false when there are zero or several.
func (ce CollectedEvents) Single() (EventArgs, bool) {
	if len(ce) != 1 {
		return nil, false
	}
	return ce[0], true
}

// CollectEvents awaits op and gathers the arguments of every decoded log
// named in eventNames. Fails t when nothing matched.
func CollectEvents(t require.TestingT, ctx context.Context, op transaction.Operation, eventNames []string, opts ...Option) CollectedEvents {
	helper(t)
	o := newOptions(opts)

	tr, err := op.Await(ctx)
	if err != nil {
		require.Fail(t, fmt.Sprintf("Transaction failed: %v", err))
		return nil
	}
	if tr == nil {
		require.Fail(t, "Transaction returned no result")
		return nil
	}

	var matches []*transactionLogParser.DecodedLog
	for _, name := range eventNames {
		matches = append(matches, tr.EventsByName(name)...)
	}

	if len(matches) == 0 || hasMissingArgs(matches) {
		o.logger.Error("The event was not found", zap.Strings("events", eventNames))
		require.Fail(t, fmt.Sprintf("None of the events %v were found in the transaction logs", eventNames))
		return nil
	}

	out := make(CollectedEvents, len(matches))
	for i, m := range matches {
		out[i] = EventArgs(m.OutputData)
	}
	return out
}

// CollectEvent is CollectEvents for one event that must be emitted exactly once.
func CollectEvent(t require.TestingT, ctx context.Context, op transaction.Operation, eventName string, opts ...Option) EventArgs {
	helper(t)
	events := CollectEvents(t, ctx, op, []string{eventName}, opts...)
	if events == nil {
		return nil
	}
	args, ok := events.Single()
	if !ok {
		require.Fail(t, fmt.Sprintf("Expected event '%s' once, found %d", eventName, len(events)))
		return nil
	}
	return args
}

func hasMissingArgs(logs []*transactionLogParser.DecodedLog) bool {
	for _, lg := range logs {
		if lg == nil || lg.OutputData == nil {
			return true
		}
	}
	return false
}
