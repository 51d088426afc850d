package pipeline

import (
	"fmt"
	"os"

	"github.com/goccy/go-yaml"
)

// Config selects the passes of a pipeline and their order.
type Config struct {
	Passes      []string `yaml:"passes"`
	Parallelism int      `yaml:"parallelism,omitempty"`
}

// DefaultConfig drops unreachable nodes first so the later passes never see
// constant conditions, then validates and removes redundant selections.
func DefaultConfig() *Config {
	return &Config{
		Passes: []string{
			SkipUnreachableNode,
			ValidateSelectionConflict,
			SkipRedundantNodes,
		},
		Parallelism: 1,
	}
}

func LoadConfig(filePath string) (*Config, error) {
	b, err := os.ReadFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to read pipeline config: %w", err)
	}
	cfg, err := ParseConfig(b)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", filePath, err)
	}
	return cfg, nil
}

// ParseConfig decodes a YAML pipeline config. Unknown keys and unknown pass
// names are errors.
func ParseConfig(b []byte) (*Config, error) {
	cfg := &Config{}
	err := yaml.UnmarshalWithOptions(b, cfg, yaml.DisallowUnknownField())
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (cfg *Config) Validate() error {
	if cfg.Parallelism < 0 {
		return fmt.Errorf("parallelism must not be negative: %d", cfg.Parallelism)
	}
	for _, name := range cfg.Passes {
		if _, ok := registry[name]; !ok {
			return fmt.Errorf("unknown pass %q, available passes are %v", name, PassNames())
		}
	}
	return nil
}

// Marshal renders cfg as YAML.
func (cfg *Config) Marshal() ([]byte, error) {
	return yaml.Marshal(cfg)
}
