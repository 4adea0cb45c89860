package main

import (
	"context"
	"fmt"
	"io"
	"math/big"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Layr-Labs/contract-testkit/pkg/clients/ethereum"
	"github.com/Layr-Labs/contract-testkit/pkg/config"
	"github.com/Layr-Labs/contract-testkit/pkg/contractStore/inMemoryContractStore"
	"github.com/Layr-Labs/contract-testkit/pkg/contracts"
	"github.com/Layr-Labs/contract-testkit/pkg/logger"
	"github.com/Layr-Labs/contract-testkit/pkg/transactionLogParser"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"sigs.k8s.io/yaml"
)

const (
	txHashFlag  = "tx-hash"
	abiFlag     = "abi"
	nameFlag    = "name"
	eventFlag   = "event"
	addressFlag = "address"
	timeoutFlag = "timeout"
)

var decodeCmd = &cobra.Command{
	Use:   "decode",
	Short: "Decode the events of a mined transaction",
	RunE: func(cmd *cobra.Command, args []string) error {
		bindCommandFlags(cmd)

		cfg, err := loadConfig(viper.GetViper())
		if err != nil {
			return err
		}
		l, err := logger.NewLogger(&logger.LoggerConfig{Debug: cfg.Debug})
		if err != nil {
			return err
		}
		defer l.Sync() //nolint:errcheck

		txHash, err := parseTxHash(viper.GetString(config.KebabToSnakeCase(txHashFlag)))
		if err != nil {
			return err
		}
		abiJson, err := readAbi(viper.GetString(abiFlag))
		if err != nil {
			return err
		}

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()
		ctx, cancel := context.WithTimeout(ctx, viper.GetDuration(timeoutFlag))
		defer cancel()

		store := inMemoryContractStore.NewInMemoryContractStore(nil, l)
		parser := transactionLogParser.NewTransactionLogParser(store, l)
		client, err := ethereum.NewEthereumClient(ctx, ethereum.NewEthereumClientConfigFromTestkitConfig(cfg), parser, l)
		if err != nil {
			return err
		}
		defer client.Close()

		receipt, err := client.WaitForReceipt(ctx, txHash)
		if err != nil {
			return err
		}

		address := viper.GetString(addressFlag)
		registered, err := registerContracts(store, receipt, viper.GetString(nameFlag), address, abiJson)
		if err != nil {
			return err
		}
		l.Sugar().Debugw("Registered contracts", zap.Strings("addresses", store.ListContractAddresses()))

		var out interface{}
		if eventName := viper.GetString(eventFlag); eventName != "" {
			args, err := transactionLogParser.ExtractEventFromLogs(logsFrom(receipt.Logs, address), registered, eventName)
			if err != nil {
				return err
			}
			out = renderArgs(args)
		} else {
			result, err := client.DecodeReceipt(receipt)
			if err != nil {
				return err
			}
			out = renderDecodedLogs(result.Logs)
		}
		return writeYaml(cmd.OutOrStdout(), out)
	},
}

func init() {
	decodeCmd.Flags().String(config.RpcUrl, "", "JSON-RPC endpoint")
	decodeCmd.Flags().String(txHashFlag, "", "hash of the mined transaction")
	decodeCmd.Flags().String(abiFlag, "", "ABI or compiler artifact JSON file; defaults to the ERC-20 interface")
	decodeCmd.Flags().String(nameFlag, "", "contract name used in messages")
	decodeCmd.Flags().String(eventFlag, "", "decode only the first log of this event")
	decodeCmd.Flags().String(addressFlag, "", "only decode logs emitted by this address")
	decodeCmd.Flags().Duration(timeoutFlag, 30*time.Second, "how long to wait for the receipt")
}

func parseTxHash(s string) (common.Hash, error) {
	b, err := hexutil.Decode(s)
	if err != nil || len(b) != common.HashLength {
		return common.Hash{}, fmt.Errorf("invalid transaction hash '%s'", s)
	}
	return common.BytesToHash(b), nil
}

func readAbi(path string) ([]byte, error) {
	if path == "" {
		return []byte(contracts.ERC20ABI), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read abi file %s", path)
	}
	return data, nil
}

// registerContracts binds the ABI to address, or to every address that
// emitted a log in the receipt when address is empty. The returned contract
// is the one ExtractEvent should use.
func registerContracts(store *inMemoryContractStore.InMemoryContractStore, receipt *types.Receipt, name string, address string, abiJson []byte) (*contracts.Contract, error) {
	if address != "" {
		if !common.IsHexAddress(address) {
			return nil, fmt.Errorf("invalid address '%s'", address)
		}
		c, err := contracts.NewContractFromArtifact(name, address, abiJson)
		if err != nil {
			return nil, err
		}
		store.AddContract(c)
		return c, nil
	}

	first, err := contracts.NewContractFromArtifact(name, "", abiJson)
	if err != nil {
		return nil, err
	}
	for _, lg := range receipt.Logs {
		if _, err := store.GetContractByAddress(lg.Address.String()); err == nil {
			continue
		}
		store.AddContract(contracts.NewContract(first.Name, lg.Address.String(), first.Abi))
	}
	return first, nil
}

// logsFrom keeps the logs emitted by address; an empty address keeps all.
func logsFrom(logs []*types.Log, address string) []*types.Log {
	if address == "" {
		return logs
	}
	emitter := common.HexToAddress(address)
	out := make([]*types.Log, 0, len(logs))
	for _, lg := range logs {
		if lg.Address == emitter {
			out = append(out, lg)
		}
	}
	return out
}

type renderedLog struct {
	LogIndex  uint64                 `json:"logIndex"`
	Address   string                 `json:"address"`
	EventName string                 `json:"eventName"`
	Arguments map[string]interface{} `json:"arguments"`
}

func renderDecodedLogs(logs []*transactionLogParser.DecodedLog) []renderedLog {
	out := make([]renderedLog, 0, len(logs))
	for _, lg := range logs {
		out = append(out, renderedLog{
			LogIndex:  lg.LogIndex,
			Address:   lg.Address,
			EventName: lg.EventName,
			Arguments: renderArgs(lg.OutputData),
		})
	}
	return out
}

// renderArgs turns decoded values into strings so 256-bit integers survive
// the trip through YAML.
func renderArgs(args map[string]interface{}) map[string]interface{} {
	out := make(map[string]interface{}, len(args))
	for k, v := range args {
		out[k] = renderValue(v)
	}
	return out
}

func renderValue(v interface{}) interface{} {
	switch val := v.(type) {
	case *big.Int:
		return val.String()
	case common.Address:
		return val.Hex()
	case common.Hash:
		return val.Hex()
	case []byte:
		return hexutil.Encode(val)
	case [32]byte:
		return hexutil.Encode(val[:])
	case bool, string:
		return val
	default:
		return fmt.Sprintf("%v", val)
	}
}

func writeYaml(w io.Writer, v interface{}) error {
	out, err := yaml.Marshal(v)
	if err != nil {
		return errors.Wrap(err, "failed to marshal output")
	}
	_, err = w.Write(out)
	return err
}
