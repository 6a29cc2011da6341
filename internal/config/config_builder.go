package config

import (
	"errors"
	"fmt"
	"os"

	"dario.cat/mergo"
)

type configBuilder struct {
	args        []string
	defaultJSON string

	// configs are ordered by increasing priority.
	configs []*StructuredConfig
	err     error
}

func newConfigBuilder(args []string, defaultJSON string) *configBuilder {
	return &configBuilder{
		args:        args,
		defaultJSON: defaultJSON,
		configs:     make([]*StructuredConfig, 0, 4),
	}
}

func (b *configBuilder) build() (*StructuredConfig, error) {
	if b.err != nil {
		return nil, fmt.Errorf("error occured during building config: %w", b.err)
	}

	config := Defaults()
	for _, cfg := range b.configs {
		if err := mergo.Merge(config, cfg, mergo.WithOverride); err != nil {
			return nil, fmt.Errorf("error merging configs: %w", err)
		}
	}

	return config, config.validate()
}

func (b *configBuilder) withEnv() *configBuilder {
	envCfg := &StructuredConfig{}
	if err := parseEnv(envCfg); err != nil {
		b.err = errors.Join(b.err, err)
		return b
	}

	b.configs = append(b.configs, envCfg)
	return b
}

func (b *configBuilder) withFlags() *configBuilder {
	flags, err := ParseFlags(b.args)
	if err != nil {
		b.err = errors.Join(b.err, err)
		return b
	}

	b.configs = append(b.configs, flags)
	return b
}

// withJSON loads the JSON file named by the highest-priority layer, falling
// back to defaultJSON when it exists. The file layer sits below env and
// flags.
func (b *configBuilder) withJSON() *configBuilder {
	var jsonPath string
	for _, cfg := range b.configs {
		if cfg.JSONFilePath != "" {
			jsonPath = cfg.JSONFilePath
		}
	}

	if jsonPath == "" && b.defaultJSON != "" {
		if info, err := os.Stat(b.defaultJSON); err == nil && !info.IsDir() {
			jsonPath = b.defaultJSON
		}
	}

	if jsonPath != "" {
		jsonCfg, err := parseJSON(jsonPath)
		if err != nil {
			b.err = errors.Join(b.err, err)
			return b
		}
		jsonCfg.JSONFilePath = jsonPath
		b.configs = append([]*StructuredConfig{jsonCfg}, b.configs...)
	}

	return b
}
