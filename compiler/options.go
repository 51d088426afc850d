package compiler

import (
	"github.com/go-logr/logr"
)

type compilerConfig struct {
	passes      []string
	parallelism int
	configPath  string
	logger      *logr.Logger
}

type Option func(cfg *compilerConfig)

// WithPasses replaces the default passes. Names are those of the pipeline
// config file.
func WithPasses(passes ...string) Option {
	return func(cfg *compilerConfig) {
		cfg.passes = passes
	}
}

func WithParallelism(parallelism int) Option {
	return func(cfg *compilerConfig) {
		cfg.parallelism = parallelism
	}
}

// WithConfigFile loads passes and parallelism from a YAML file. WithPasses
// and WithParallelism given alongside take precedence.
func WithConfigFile(filePath string) Option {
	return func(cfg *compilerConfig) {
		cfg.configPath = filePath
	}
}

// WithLogger sets the logger used when the context passed to Compile carries
// none.
func WithLogger(logger logr.Logger) Option {
	return func(cfg *compilerConfig) {
		cfg.logger = &logger
	}
}
