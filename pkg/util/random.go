package util

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/common/math"
)

func randomBytes(n int) []byte {
	b := make([]byte, n)
	if _, err := rand.Read(b); err != nil {
		panic(fmt.Sprintf("failed to read %d random bytes: %v", n, err))
	}
	return b
}

// Random10Bytes returns a uniformly random value in [0, 2^80)
func Random10Bytes() *big.Int {
	return new(big.Int).SetBytes(randomBytes(10))
}

// Random32Bytes returns 32 random bytes as a 0x-prefixed hex string
func Random32Bytes() string {
	return hexutil.Encode(randomBytes(32))
}

func RandomHash() common.Hash {
	return common.BytesToHash(randomBytes(common.HashLength))
}

func RandomAddress() common.Address {
	return common.BytesToAddress(randomBytes(common.AddressLength))
}

// ToBigInt converts Go integers, big ints, hashes and decimal or 0x-prefixed
// hex strings into a new *big.Int. Strings are bounded to 256 bits, the EVM
// word size; a leading '-' negates.
func ToBigInt(number interface{}) (*big.Int, error) {
	switch n := number.(type) {
	case *big.Int:
		if n == nil {
			return nil, fmt.Errorf("cannot convert nil *big.Int")
		}
		return new(big.Int).Set(n), nil
	case big.Int:
		return new(big.Int).Set(&n), nil
	case *hexutil.Big:
		if n == nil {
			return nil, fmt.Errorf("cannot convert nil *hexutil.Big")
		}
		return new(big.Int).Set(n.ToInt()), nil
	case hexutil.Big:
		return new(big.Int).Set(n.ToInt()), nil
	case common.Hash:
		return n.Big(), nil
	case int:
		return big.NewInt(int64(n)), nil
	case int8:
		return big.NewInt(int64(n)), nil
	case int16:
		return big.NewInt(int64(n)), nil
	case int32:
		return big.NewInt(int64(n)), nil
	case int64:
		return big.NewInt(n), nil
	case uint:
		return new(big.Int).SetUint64(uint64(n)), nil
	case uint8:
		return new(big.Int).SetUint64(uint64(n)), nil
	case uint16:
		return new(big.Int).SetUint64(uint64(n)), nil
	case uint32:
		return new(big.Int).SetUint64(uint64(n)), nil
	case uint64:
		return new(big.Int).SetUint64(n), nil
	case string:
		return parseBigString(n)
	default:
		return nil, fmt.Errorf("cannot convert %T to big.Int", number)
	}
}

// MustBigInt is ToBigInt for fixtures; it panics on malformed input
func MustBigInt(number interface{}) *big.Int {
	b, err := ToBigInt(number)
	if err != nil {
		panic(err)
	}
	return b
}

func parseBigString(s string) (*big.Int, error) {
	s = strings.TrimSpace(s)
	negative := strings.HasPrefix(s, "-")
	if negative {
		s = s[1:]
	}
	if s == "" {
		return nil, fmt.Errorf("cannot convert empty string to big.Int")
	}
	b, ok := math.ParseBig256(s)
	if !ok {
		return nil, fmt.Errorf("invalid number %q", s)
	}
	if negative {
		b.Neg(b)
	}
	return b, nil
}
