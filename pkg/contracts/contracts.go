package contracts

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
)

var ErrEventNotFound = errors.New("event descriptor not found")

// Contract is a contract interface description with its events indexed by name.
type Contract struct {
	Name    string
	Address string
	Abi     *abi.ABI

	events map[string]*abi.Event
}

// NewContract indexes every event of the ABI. Overloaded events keep geth's
// naming: the first overload under its Solidity name, later ones suffixed
// ("Transfer0").
func NewContract(name string, address string, contractAbi *abi.ABI) *Contract {
	c := &Contract{
		Name:    name,
		Address: address,
		Abi:     contractAbi,
		events:  make(map[string]*abi.Event, len(contractAbi.Events)),
	}
	for key := range contractAbi.Events {
		ev := contractAbi.Events[key]
		c.events[ev.Name] = &ev
	}
	return c
}

func NewContractFromJson(name string, address string, abiJson string) (*Contract, error) {
	parsed, err := abi.JSON(strings.NewReader(abiJson))
	if err != nil {
		return nil, fmt.Errorf("failed to parse abi for contract '%s': %w", name, err)
	}
	return NewContract(name, address, &parsed), nil
}

type artifact struct {
	ContractName string          `json:"contractName"`
	Abi          json.RawMessage `json:"abi"`
}

// NewContractFromArtifact accepts a bare ABI array or a compiler artifact
// with an "abi" field. An empty name is taken from the artifact.
func NewContractFromArtifact(name string, address string, data []byte) (*Contract, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) > 0 && trimmed[0] == '[' {
		return NewContractFromJson(name, address, string(trimmed))
	}

	var a artifact
	if err := json.Unmarshal(trimmed, &a); err != nil {
		return nil, fmt.Errorf("failed to parse artifact for contract '%s': %w", name, err)
	}
	if len(a.Abi) == 0 {
		return nil, fmt.Errorf("artifact for contract '%s' has no abi", name)
	}
	if name == "" {
		name = a.ContractName
	}
	return NewContractFromJson(name, address, string(a.Abi))
}

// EventByName returns the event descriptor registered under name. Overloads
// beyond the first are registered with a numeric suffix ("Deposit0").
//
// Returns:
//   - *abi.Event: The event descriptor
//   - error: An error wrapping ErrEventNotFound when the ABI lacks the event
func (c *Contract) EventByName(name string) (*abi.Event, error) {
	ev, ok := c.events[name]
	if !ok {
		return nil, fmt.Errorf("%w: '%s' on contract '%s'", ErrEventNotFound, name, c.Name)
	}
	return ev, nil
}

// EventByID resolves an event by its signature hash, the log's first topic.
func (c *Contract) EventByID(topic common.Hash) (*abi.Event, error) {
	ev, err := c.Abi.EventByID(topic)
	if err != nil {
		return nil, fmt.Errorf("%w: topic %s on contract '%s'", ErrEventNotFound, topic.Hex(), c.Name)
	}
	return ev, nil
}

func (c *Contract) EventNames() []string {
	names := make([]string, 0, len(c.Abi.Events))
	for name := range c.Abi.Events {
		names = append(names, name)
	}
	return names
}
