// Package logging builds the application logger. The terminal belongs to
// the TUI, so log output goes to a file, or nowhere when none is set.
package logging

import (
	"go.uber.org/zap"
)

// New returns a JSON file logger for path, or a nop logger when path is
// empty.
func New(path string) (*zap.Logger, error) {
	if path == "" {
		return zap.NewNop(), nil
	}
	cfg := zap.NewProductionConfig()
	cfg.OutputPaths = []string{path}
	cfg.ErrorOutputPaths = []string{path}
	return cfg.Build()
}
