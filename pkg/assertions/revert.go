package assertions

import (
	"context"
	"fmt"
	"strings"

	"github.com/Layr-Labs/contract-testkit/pkg/transaction"
	"github.com/Layr-Labs/contract-testkit/pkg/util"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// ExpectRevert awaits op and fails t unless it errors with a message
// containing header+message. With coverage enabled any error passes.
// An empty message only checks for the header, without its trailing space.
func ExpectRevert(t require.TestingT, ctx context.Context, op transaction.Operation, message string, opts ...Option) bool {
	helper(t)
	o := newOptions(opts)

	header := o.header
	if message == "" {
		header = strings.TrimSuffix(header, " ")
		o.logger.Warn("There is an empty revert/require message")
	}
	expected := header + message

	_, err := op.Await(ctx)
	if err == nil {
		require.Fail(t, "Expected throw not received")
		return false
	}

	if revertMatches(err, header, expected) || o.coverage {
		return true
	}

	o.logger.Debug("Revert message mismatch",
		zap.String("expected", expected),
		zap.String("actual", err.Error()),
	)
	require.Fail(t, fmt.Sprintf("Expected a revert '%s', got '%s' instead", expected, err.Error()))
	return false
}

func revertMatches(err error, header string, expected string) bool {
	if strings.Contains(err.Error(), expected) {
		return true
	}
	if reason, ok := util.RevertReason(err); ok {
		return strings.Contains(header+reason, expected)
	}
	return false
}
