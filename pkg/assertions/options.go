package assertions

import (
	"sync"

	"github.com/Layr-Labs/contract-testkit/pkg/config"
	"github.com/Layr-Labs/contract-testkit/pkg/logger"
	"go.uber.org/zap"
)

type options struct {
	header   string
	coverage bool
	logger   *zap.Logger
}

// Option configures ExpectRevert and CollectEvents.
type Option func(*options)

// WithHeader replaces the "revert " prefix expected in front of the message.
func WithHeader(header string) Option {
	return func(o *options) { o.header = header }
}

// WithCoverage disables message matching; coverage instrumentation rewrites
// revert strings.
func WithCoverage(coverage bool) Option {
	return func(o *options) { o.coverage = coverage }
}

func WithLogger(l *zap.Logger) Option {
	return func(o *options) { o.logger = l }
}

// WithConfig applies the header and coverage settings of cfg.
func WithConfig(cfg *config.TestkitConfig) Option {
	return func(o *options) {
		if cfg.RevertHeader != "" {
			o.header = cfg.RevertHeader
		}
		o.coverage = cfg.Coverage
	}
}

var (
	fallbackLogger     *zap.Logger
	fallbackLoggerOnce sync.Once
)

func defaultLogger() *zap.Logger {
	fallbackLoggerOnce.Do(func() {
		l, err := logger.NewLogger(&logger.LoggerConfig{})
		if err != nil {
			l = zap.NewNop()
		}
		fallbackLogger = l
	})
	return fallbackLogger
}

func newOptions(opts []Option) *options {
	o := &options{header: config.DefaultRevertHeader}
	for _, opt := range opts {
		opt(o)
	}
	if o.logger == nil {
		o.logger = defaultLogger()
	}
	return o
}

type tHelper interface {
	Helper()
}

func helper(t interface{}) {
	if h, ok := t.(tHelper); ok {
		h.Helper()
	}
}
