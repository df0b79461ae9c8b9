package util

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var Logger = zap.NewNop()

// InitLogger 初始化全局日志，失败时保持原来的 Logger 并返回错误
func InitLogger(logLevel string) error {
	logger, err := newLogger(logLevel, "stderr")
	if err != nil {
		return err
	}
	Logger = logger
	zap.ReplaceGlobals(logger)
	return nil
}

func newLogger(logLevel string, outputPaths ...string) (*zap.Logger, error) {
	config := zap.NewProductionConfig()
	level, err := zapcore.ParseLevel(logLevel)
	if err != nil {
		level = zapcore.InfoLevel
	}
	config.Level.SetLevel(level)
	config.OutputPaths = outputPaths
	return config.Build()
}
