package main

import (
	"fmt"

	"github.com/alnah/go-mdsite/internal/yamlutil"
)

// runConfig implements the config command: the resolved configuration as YAML.
func runConfig(args []string, env *Environment) error {
	flags, positional, err := parseConfigFlags(args)
	if err != nil {
		return handleFlagError(err, "config", printConfigUsage, env)
	}
	if len(positional) > 0 {
		return fmt.Errorf("%w: config takes no arguments", ErrUsage)
	}

	envCfg := loadEnvConfig()
	warnUnknownEnvVars(env.Stderr)

	cfg, err := loadConfig(flags.common.config, envCfg)
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	data, err := yamlutil.EncodeConfig(cfg)
	if err != nil {
		return fmt.Errorf("encoding config: %w", err)
	}
	_, err = env.Stdout.Write(data)
	return err
}
