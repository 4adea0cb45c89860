package config

import (
	"net/url"
	"slices"
	"strings"
	"time"

	"github.com/spf13/viper"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/apimachinery/pkg/util/validation/field"
	"sigs.k8s.io/yaml"
)

const (
	EnvPrefix = "TESTKIT_"

	// CoverageEnvVar is set by the coverage runner; instrumented contracts
	// emit different revert text, so revert messages are not matched.
	// Any non-empty value enables coverage mode except "0", "false", "no"
	// and "off" (case-insensitive), which disable it.
	CoverageEnvVar = "SOLIDITY_COVERAGE"

	Debug        = "debug"
	Coverage     = "coverage"
	RevertHeader = "revert-header"
	RpcUrl       = "rpc-url"
	PollInterval = "poll-interval"

	DefaultRevertHeader = "revert "
	DefaultPollInterval = 500 * time.Millisecond
)

var supportedRpcSchemes = []string{"http", "https", "ws", "wss"}

type TestkitConfig struct {
	Debug        bool            `json:"debug"`
	Coverage     bool            `json:"coverage"`
	RevertHeader string          `json:"revertHeader"`
	RpcUrl       string          `json:"rpcUrl,omitempty"`
	PollInterval metav1.Duration `json:"pollInterval"`
}

func (tc *TestkitConfig) Validate() error {
	var allErrors field.ErrorList

	if tc.PollInterval.Duration <= 0 {
		allErrors = append(allErrors, field.Invalid(field.NewPath("pollInterval"), tc.PollInterval.String(), "pollInterval must be positive"))
	}

	if tc.RpcUrl != "" {
		u, err := url.Parse(tc.RpcUrl)
		if err != nil {
			allErrors = append(allErrors, field.Invalid(field.NewPath("rpcUrl"), tc.RpcUrl, err.Error()))
		} else if !slices.Contains(supportedRpcSchemes, u.Scheme) {
			allErrors = append(allErrors, field.NotSupported(field.NewPath("rpcUrl"), u.Scheme, supportedRpcSchemes))
		}
	}

	if len(allErrors) > 0 {
		return allErrors.ToAggregate()
	}
	return nil
}

func NewTestkitConfig() *TestkitConfig {
	return &TestkitConfig{
		RevertHeader: DefaultRevertHeader,
		PollInterval: metav1.Duration{Duration: DefaultPollInterval},
	}
}

// NewTestkitConfigFromYamlBytes accepts YAML or JSON; missing fields keep their defaults
func NewTestkitConfigFromYamlBytes(data []byte) (*TestkitConfig, error) {
	tc := NewTestkitConfig()
	if err := yaml.Unmarshal(data, tc); err != nil {
		return nil, err
	}
	return tc, nil
}

// NewTestkitConfigFromEnv reads TESTKIT_* variables and SOLIDITY_COVERAGE.
//
// Unlike a plain presence check, SOLIDITY_COVERAGE=false (or 0, no, off)
// leaves coverage mode disabled.
func NewTestkitConfigFromEnv() *TestkitConfig {
	v := viper.New()
	InitViper(v)
	return NewTestkitConfigFromViper(v)
}

// InitViper applies the env prefix and binds the coverage flag to its
// unprefixed variable.
func InitViper(v *viper.Viper) {
	v.SetEnvPrefix(strings.TrimSuffix(EnvPrefix, "_"))
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_", ".", "_"))
	v.AutomaticEnv()
	_ = v.BindEnv(Coverage, CoverageEnvVar)
}

func NewTestkitConfigFromViper(v *viper.Viper) *TestkitConfig {
	tc := NewTestkitConfig()

	tc.Debug = v.GetBool(KebabToSnakeCase(Debug))
	tc.Coverage = isTruthy(v.GetString(Coverage))

	if h := v.GetString(KebabToSnakeCase(RevertHeader)); h != "" {
		tc.RevertHeader = h
	}
	if u := v.GetString(KebabToSnakeCase(RpcUrl)); u != "" {
		tc.RpcUrl = u
	}
	if d := v.GetDuration(KebabToSnakeCase(PollInterval)); d != 0 {
		tc.PollInterval = metav1.Duration{Duration: d}
	}
	return tc
}

func KebabToSnakeCase(str string) string {
	return strings.ReplaceAll(str, "-", "_")
}

// isTruthy is true for any non-empty value other than 0/false/no/off
func isTruthy(s string) bool {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "0", "false", "no", "off":
		return false
	default:
		return true
	}
}
