package main

import (
	"fmt"

	"github.com/Layr-Labs/contract-testkit/pkg/util"
	"github.com/spf13/cobra"
)

const (
	kindFlag  = "kind"
	countFlag = "count"
)

var randomCmd = &cobra.Command{
	Use:   "random",
	Short: "Print random values for fixtures",
	RunE: func(cmd *cobra.Command, args []string) error {
		kind, _ := cmd.Flags().GetString(kindFlag)
		count, _ := cmd.Flags().GetInt(countFlag)

		gen, err := randomGenerator(kind)
		if err != nil {
			return err
		}
		for i := 0; i < count; i++ {
			fmt.Fprintln(cmd.OutOrStdout(), gen())
		}
		return nil
	},
}

func randomGenerator(kind string) (func() string, error) {
	switch kind {
	case "10":
		return func() string { return util.Random10Bytes().String() }, nil
	case "32":
		return util.Random32Bytes, nil
	default:
		return nil, fmt.Errorf("unsupported kind '%s', expected 10 or 32", kind)
	}
}

func init() {
	randomCmd.Flags().String(kindFlag, "32", "10 for a 10-byte integer, 32 for a 32-byte hex value")
	randomCmd.Flags().Int(countFlag, 1, "number of values to print")
}
