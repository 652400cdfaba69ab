package logger

import (
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

// New собирает production логгер с нужным уровнем и ставит его глобальным,
// дальше компоненты пишут через zap.S()
func New(level string) (*zap.Logger, error) {
	atomicLevel, err := zap.ParseAtomicLevel(level)
	if err != nil {
		return nil, errors.Wrapf(err, "parse log level %q", level)
	}

	cfg := zap.NewProductionConfig()
	cfg.Level = atomicLevel
	cfg.Encoding = "console"
	cfg.EncoderConfig.TimeKey = "ts"

	l, err := cfg.Build()
	if err != nil {
		return nil, errors.Wrap(err, "build logger")
	}

	zap.ReplaceGlobals(l)
	return l, nil
}
