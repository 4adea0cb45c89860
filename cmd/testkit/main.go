package main

import (
	"os"

	"github.com/Layr-Labs/contract-testkit/pkg/config"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const configFlag = "config"

var rootCmd = &cobra.Command{
	Use:          "testkit",
	Short:        "Helpers for contract test suites",
	SilenceUsage: true,
}

func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	initConfig(rootCmd)

	rootCmd.PersistentFlags().Bool(config.Debug, false, `"true" or "false"`)
	rootCmd.PersistentFlags().String(configFlag, "", "path to a YAML config file")

	// setup sub commands
	rootCmd.AddCommand(randomCmd)
	rootCmd.AddCommand(decodeCmd)

	rootCmd.PersistentFlags().VisitAll(func(f *pflag.Flag) {
		key := config.KebabToSnakeCase(f.Name)
		viper.BindPFlag(key, f) //nolint:errcheck
		viper.BindEnv(key)      //nolint:errcheck
	})
}

func initConfig(cmd *cobra.Command) {
	config.InitViper(viper.GetViper())
}

func bindCommandFlags(cmd *cobra.Command) {
	cmd.Flags().VisitAll(func(f *pflag.Flag) {
		key := config.KebabToSnakeCase(f.Name)
		if err := viper.BindPFlag(key, f); err != nil {
			cmd.PrintErrf("Failed to bind flag '%s' - %+v\n", f.Name, err)
		}
		if err := viper.BindEnv(key); err != nil {
			cmd.PrintErrf("Failed to bind env '%s' - %+v\n", f.Name, err)
		}
	})
}

// loadConfig reads the --config file when given; flags and TESTKIT_*
// variables take precedence over it.
func loadConfig(v *viper.Viper) (*config.TestkitConfig, error) {
	fromEnv := config.NewTestkitConfigFromViper(v)

	path := v.GetString(configFlag)
	if path == "" {
		return fromEnv, fromEnv.Validate()
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read config file %s", path)
	}
	cfg, err := config.NewTestkitConfigFromYamlBytes(data)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to parse config file %s", path)
	}

	if v.IsSet(config.KebabToSnakeCase(config.Debug)) {
		cfg.Debug = fromEnv.Debug
	}
	if v.IsSet(config.Coverage) {
		cfg.Coverage = fromEnv.Coverage
	}
	if v.IsSet(config.KebabToSnakeCase(config.RpcUrl)) {
		cfg.RpcUrl = fromEnv.RpcUrl
	}
	if v.IsSet(config.KebabToSnakeCase(config.RevertHeader)) {
		cfg.RevertHeader = fromEnv.RevertHeader
	}
	if v.IsSet(config.KebabToSnakeCase(config.PollInterval)) {
		cfg.PollInterval = fromEnv.PollInterval
	}
	return cfg, cfg.Validate()
}

func main() {
	Execute()
}
