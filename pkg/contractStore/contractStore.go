package contractStore

import (
	"errors"

	"github.com/Layr-Labs/contract-testkit/pkg/contracts"
)

var ErrContractNotFound = errors.New("contract not found")

type IContractStore interface {
	GetContractByAddress(address string) (*contracts.Contract, error)
	ListContractAddresses() []string
}
