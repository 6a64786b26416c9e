// Package logger builds the zap logger shared by the server and the audit
// consumer.
package logger

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// New returns a JSON production logger when prod is true and a colored
// console logger otherwise.
func New(prod bool) (*zap.Logger, error) {
	if prod {
		return zap.NewProduction()
	}
	cfg := zap.NewDevelopmentConfig()
	cfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	return cfg.Build()
}
