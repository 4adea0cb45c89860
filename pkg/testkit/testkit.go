// Package testkit bundles the helpers a contract test suite shares: revert
// and event assertions, event extraction, big-integer comparisons and random
// values, all bound to one test and one configuration.
package testkit

import (
	"context"
	"math/big"

	"github.com/Layr-Labs/contract-testkit/pkg/assertions"
	"github.com/Layr-Labs/contract-testkit/pkg/config"
	"github.com/Layr-Labs/contract-testkit/pkg/contracts"
	"github.com/Layr-Labs/contract-testkit/pkg/transaction"
	"github.com/Layr-Labs/contract-testkit/pkg/transactionLogParser"
	"github.com/Layr-Labs/contract-testkit/pkg/util"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type Testkit struct {
	t      require.TestingT
	config *config.TestkitConfig
	logger *zap.Logger
	opts   []assertions.Option
}

// New binds the helpers to t. A nil cfg is read from the environment.
func New(t require.TestingT, cfg *config.TestkitConfig, logger *zap.Logger, opts ...assertions.Option) *Testkit {
	if cfg == nil {
		cfg = config.NewTestkitConfigFromEnv()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	base := []assertions.Option{
		assertions.WithConfig(cfg),
		assertions.WithLogger(logger),
	}
	return &Testkit{
		t:      t,
		config: cfg,
		logger: logger,
		opts:   append(base, opts...),
	}
}

func (tk *Testkit) Config() *config.TestkitConfig {
	return tk.config
}

func (tk *Testkit) ExpectRevert(ctx context.Context, op transaction.Operation, message string, opts ...assertions.Option) bool {
	return assertions.ExpectRevert(tk.t, ctx, op, message, tk.with(opts)...)
}

func (tk *Testkit) CollectEvents(ctx context.Context, op transaction.Operation, eventNames ...string) assertions.CollectedEvents {
	return assertions.CollectEvents(tk.t, ctx, op, eventNames, tk.opts...)
}

func (tk *Testkit) CollectEvent(ctx context.Context, op transaction.Operation, eventName string) assertions.EventArgs {
	return assertions.CollectEvent(tk.t, ctx, op, eventName, tk.opts...)
}

// ExtractEvent decodes eventName from the receipt's raw logs and fails the
// test when it is absent.
func (tk *Testkit) ExtractEvent(receipt *types.Receipt, contract *contracts.Contract, eventName string) assertions.EventArgs {
	args, err := transactionLogParser.ExtractEvent(receipt, contract, eventName)
	require.NoError(tk.t, err)
	return args
}

func (tk *Testkit) BigInt() *assertions.BigAssertions {
	return assertions.BigInt(tk.t)
}

func (tk *Testkit) Random10Bytes() *big.Int {
	return util.Random10Bytes()
}

func (tk *Testkit) Random32Bytes() string {
	return util.Random32Bytes()
}

func (tk *Testkit) ToBigInt(number interface{}) *big.Int {
	b, err := util.ToBigInt(number)
	require.NoError(tk.t, err)
	return b
}

func (tk *Testkit) with(opts []assertions.Option) []assertions.Option {
	if len(opts) == 0 {
		return tk.opts
	}
	merged := make([]assertions.Option, 0, len(tk.opts)+len(opts))
	merged = append(merged, tk.opts...)
	return append(merged, opts...)
}
