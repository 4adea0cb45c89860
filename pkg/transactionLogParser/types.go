// Package transactionLogParser decodes raw Ethereum event logs into named
// arguments using contract ABIs. It turns receipts into the decoded log list
// test assertions work on.
package transactionLogParser

// DecodedLog represents a decoded Ethereum event log with its arguments and metadata.
type DecodedLog struct {
	// LogIndex is the position of the log in the block
	LogIndex uint64
	// Address is the contract address that emitted the event
	Address string
	// TransactionHash is the hash of the transaction that emitted the event
	TransactionHash string
	// Arguments contains the decoded event parameters in declaration order
	Arguments []Argument
	// EventName is the Solidity name of the emitted event; overloads share it
	EventName string
	// OutputData maps every argument name to its decoded value
	OutputData map[string]interface{}
}

// Argument represents a single parameter in a decoded event log.
type Argument struct {
	// Name is the parameter name
	Name string
	// Type is the Solidity type of the parameter
	Type string
	// Value is the decoded parameter value
	Value interface{}
	// Indexed indicates whether this was an indexed event parameter
	Indexed bool
}
