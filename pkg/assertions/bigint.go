package assertions

import (
	"fmt"

	"github.com/Layr-Labs/contract-testkit/pkg/util"
	"github.com/stretchr/testify/require"
)

// BigAssertions compares arbitrary-precision integers. Operands may be any
// value util.ToBigInt accepts.
type BigAssertions struct {
	t require.TestingT
}

// BigInt returns big-integer assertions that report failures on t:
//
//	assertions.BigInt(t).Lte(totalSupply, balance)
func BigInt(t require.TestingT) *BigAssertions {
	return &BigAssertions{t: t}
}

func (ba *BigAssertions) Equal(expected, actual interface{}, msgAndArgs ...interface{}) bool {
	helper(ba.t)
	return ba.compare(expected, actual, "to equal", func(c int) bool { return c == 0 }, msgAndArgs...)
}

func (ba *BigAssertions) NotEqual(expected, actual interface{}, msgAndArgs ...interface{}) bool {
	helper(ba.t)
	return ba.compare(expected, actual, "to not equal", func(c int) bool { return c != 0 }, msgAndArgs...)
}

// Lt asserts actual < bound.
func (ba *BigAssertions) Lt(bound, actual interface{}, msgAndArgs ...interface{}) bool {
	helper(ba.t)
	return ba.compare(bound, actual, "to be less than", func(c int) bool { return c < 0 }, msgAndArgs...)
}

func (ba *BigAssertions) Lte(bound, actual interface{}, msgAndArgs ...interface{}) bool {
	helper(ba.t)
	return ba.compare(bound, actual, "to be at most", func(c int) bool { return c <= 0 }, msgAndArgs...)
}

// Gt asserts actual > bound.
func (ba *BigAssertions) Gt(bound, actual interface{}, msgAndArgs ...interface{}) bool {
	helper(ba.t)
	return ba.compare(bound, actual, "to be greater than", func(c int) bool { return c > 0 }, msgAndArgs...)
}

func (ba *BigAssertions) Gte(bound, actual interface{}, msgAndArgs ...interface{}) bool {
	helper(ba.t)
	return ba.compare(bound, actual, "to be at least", func(c int) bool { return c >= 0 }, msgAndArgs...)
}

func (ba *BigAssertions) Zero(actual interface{}, msgAndArgs ...interface{}) bool {
	helper(ba.t)
	return ba.compare(0, actual, "to be zero", func(c int) bool { return c == 0 }, msgAndArgs...)
}

func (ba *BigAssertions) Negative(actual interface{}, msgAndArgs ...interface{}) bool {
	helper(ba.t)
	return ba.compare(0, actual, "to be negative", func(c int) bool { return c < 0 }, msgAndArgs...)
}

// compare fails unless ok(actual.Cmp(reference))
func (ba *BigAssertions) compare(reference, actual interface{}, verb string, ok func(int) bool, msgAndArgs ...interface{}) bool {
	ref, err := util.ToBigInt(reference)
	if err != nil {
		require.Fail(ba.t, fmt.Sprintf("Invalid expected value: %v", err), msgAndArgs...)
		return false
	}
	act, err := util.ToBigInt(actual)
	if err != nil {
		require.Fail(ba.t, fmt.Sprintf("Invalid actual value: %v", err), msgAndArgs...)
		return false
	}

	if ok(act.Cmp(ref)) {
		return true
	}
	require.Fail(ba.t, fmt.Sprintf("Expected %s %s %s", act, verb, ref), msgAndArgs...)
	return false
}
