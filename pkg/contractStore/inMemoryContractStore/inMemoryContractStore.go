package inMemoryContractStore

import (
	"fmt"
	"strings"
	"sync"

	"github.com/Layr-Labs/contract-testkit/pkg/contractStore"
	"github.com/Layr-Labs/contract-testkit/pkg/contracts"
	"go.uber.org/zap"
)

// InMemoryContractStore implements contractStore.IContractStore over a map
// keyed by lower-cased address. It is safe for concurrent use.
type InMemoryContractStore struct {
	mu        sync.RWMutex
	contracts map[string]*contracts.Contract
	logger    *zap.Logger
}

// NewInMemoryContractStore creates a store holding the given contracts.
//
// Parameters:
//   - cs: Contracts to register; later entries replace earlier ones at the same address
//   - logger: Logger for recording lookups
//
// Returns:
//   - *InMemoryContractStore: The populated store
func NewInMemoryContractStore(cs []*contracts.Contract, logger *zap.Logger) *InMemoryContractStore {
	ics := &InMemoryContractStore{
		contracts: make(map[string]*contracts.Contract, len(cs)),
		logger:    logger,
	}
	for _, c := range cs {
		ics.AddContract(c)
	}
	return ics
}

// AddContract registers c under its address, replacing any previous entry
func (ics *InMemoryContractStore) AddContract(c *contracts.Contract) {
	address := strings.ToLower(c.Address)

	ics.mu.Lock()
	defer ics.mu.Unlock()
	if _, ok := ics.contracts[address]; ok {
		ics.logger.Sugar().Debugw("Replacing contract", zap.String("address", address), zap.String("name", c.Name))
	}
	ics.contracts[address] = c
}

// GetContractByAddress returns the contract registered at address, ignoring
// case. Unknown addresses return an error wrapping ErrContractNotFound.
func (ics *InMemoryContractStore) GetContractByAddress(address string) (*contracts.Contract, error) {
	address = strings.ToLower(address)

	ics.mu.RLock()
	defer ics.mu.RUnlock()
	contract, ok := ics.contracts[address]
	if !ok {
		ics.logger.Debug("Contract not found", zap.String("address", address))
		return nil, fmt.Errorf("%w: %s", contractStore.ErrContractNotFound, address)
	}
	return contract, nil
}

func (ics *InMemoryContractStore) ListContractAddresses() []string {
	ics.mu.RLock()
	defer ics.mu.RUnlock()
	addresses := make([]string, 0, len(ics.contracts))
	for address := range ics.contracts {
		addresses = append(addresses, address)
	}
	return addresses
}
