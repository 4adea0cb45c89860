package transactionLogParser

import (
	"fmt"

	"github.com/Layr-Labs/contract-testkit/pkg/contractStore"
	"github.com/Layr-Labs/contract-testkit/pkg/contracts"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

var (
	ErrLogNotFound = errors.New("no log matches the event signature")
	errNoTopics    = errors.New("log has no topics")
)

// TransactionLogParser decodes logs emitted by the contracts in its store.
type TransactionLogParser struct {
	store  contractStore.IContractStore
	logger *zap.Logger
}

// NewTransactionLogParser creates a new TransactionLogParser with the provided dependencies.
//
// Parameters:
//   - store: Contract store used to resolve the ABI of each emitting address
//   - logger: Logger for recording operations
//
// Returns:
//   - *TransactionLogParser: A configured transaction log parser
func NewTransactionLogParser(store contractStore.IContractStore, logger *zap.Logger) *TransactionLogParser {
	return &TransactionLogParser{
		store:  store,
		logger: logger,
	}
}

// DecodeReceipt decodes every log of the receipt in log order. Logs from
// contracts the store does not know, or with a topic0 the contract ABI does
// not declare, are skipped.
func (tlp *TransactionLogParser) DecodeReceipt(receipt *types.Receipt) ([]*DecodedLog, error) {
	if receipt == nil {
		return nil, errors.New("receipt is nil")
	}
	decoded := make([]*DecodedLog, 0, len(receipt.Logs))
	for _, lg := range receipt.Logs {
		dl, err := tlp.DecodeLog(lg)
		if err != nil {
			if errors.Is(err, contractStore.ErrContractNotFound) ||
				errors.Is(err, contracts.ErrEventNotFound) ||
				errors.Is(err, errNoTopics) {
				tlp.logger.Sugar().Debugw("Skipping undecodable log",
					zap.String("address", lg.Address.String()),
					zap.Uint("logIndex", lg.Index),
					zap.Error(err),
				)
				continue
			}
			return nil, err
		}
		decoded = append(decoded, dl)
	}
	return decoded, nil
}

// DecodeLog decodes a single log with the ABI of the contract that emitted it.
// The event name is the Solidity name, so every overload of an event decodes
// under the same EventName.
//
// Parameters:
//   - lg: The raw log to decode
//
// Returns:
//   - *DecodedLog: The decoded log with its arguments and output data
//   - error: contractStore.ErrContractNotFound, contracts.ErrEventNotFound or
//     a decoding error
func (tlp *TransactionLogParser) DecodeLog(lg *types.Log) (*DecodedLog, error) {
	tlp.logger.Sugar().Debugw(fmt.Sprintf("Decoding log with txHash: '%s' address: '%s'", lg.TxHash.Hex(), lg.Address.String()))

	contract, err := tlp.store.GetContractByAddress(lg.Address.String())
	if err != nil {
		return nil, err
	}
	if len(lg.Topics) == 0 {
		return nil, errNoTopics
	}

	event, err := contract.EventByID(lg.Topics[0])
	if err != nil {
		tlp.logger.Sugar().Debugw(fmt.Sprintf("Failed to find event by ID '%s'", lg.Topics[0].Hex()))
		return nil, err
	}

	outputData, err := unpackEvent(event, lg)
	if err != nil {
		tlp.logger.Sugar().Errorw("Failed to unpack log",
			zap.Error(err),
			zap.String("address", lg.Address.String()),
			zap.String("eventName", event.Name),
			zap.String("transactionHash", lg.TxHash.Hex()),
		)
		return nil, err
	}

	decodedLog := &DecodedLog{
		LogIndex:        uint64(lg.Index),
		Address:         lg.Address.String(),
		TransactionHash: lg.TxHash.Hex(),
		EventName:       event.RawName,
		Arguments:       make([]Argument, len(event.Inputs)),
		OutputData:      outputData,
	}
	for i, input := range event.Inputs {
		decodedLog.Arguments[i] = Argument{
			Name:    input.Name,
			Type:    input.Type.String(),
			Value:   outputData[input.Name],
			Indexed: input.Indexed,
		}
	}
	return decodedLog, nil
}

// ExtractEvent returns the arguments of the first log in the receipt whose
// topic0 is the signature hash of eventName on contract.
//
// Parameters:
//   - receipt: The mined transaction receipt
//   - contract: The contract whose ABI declares the event
//   - eventName: The event name as registered in the ABI
//
// Returns:
//   - map[string]interface{}: Argument values keyed by input name
//   - error: contracts.ErrEventNotFound when the ABI lacks the event,
//     ErrLogNotFound when no log matches
func ExtractEvent(receipt *types.Receipt, contract *contracts.Contract, eventName string) (map[string]interface{}, error) {
	if receipt == nil {
		return nil, errors.New("receipt is nil")
	}
	return ExtractEventFromLogs(receipt.Logs, contract, eventName)
}

func ExtractEventFromLogs(logs []*types.Log, contract *contracts.Contract, eventName string) (map[string]interface{}, error) {
	event, err := contract.EventByName(eventName)
	if err != nil {
		return nil, err
	}

	for _, lg := range logs {
		if len(lg.Topics) > 0 && lg.Topics[0] == event.ID {
			return unpackEvent(event, lg)
		}
	}
	return nil, errors.Wrapf(ErrLogNotFound, "event '%s' (%s)", eventName, event.ID.Hex())
}

// unpackEvent decodes the non-indexed inputs from the data payload and the
// indexed inputs from the topics. Indexed dynamic types (string, bytes,
// arrays, tuples) decode to their keccak hash.
func unpackEvent(event *abi.Event, lg *types.Log) (map[string]interface{}, error) {
	out := make(map[string]interface{}, len(event.Inputs))

	if err := event.Inputs.UnpackIntoMap(out, lg.Data); err != nil {
		return nil, errors.Wrapf(err, "failed to unpack data for event '%s'", event.Name)
	}

	var indexed abi.Arguments
	for _, input := range event.Inputs {
		if input.Indexed {
			indexed = append(indexed, input)
		}
	}

	topics := lg.Topics
	if !event.Anonymous {
		if len(topics) == 0 {
			return nil, errNoTopics
		}
		topics = topics[1:]
	}
	if err := abi.ParseTopicsIntoMap(out, indexed, topics); err != nil {
		return nil, errors.Wrapf(err, "failed to parse topics for event '%s'", event.Name)
	}
	return out, nil
}
