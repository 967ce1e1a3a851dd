package main

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/AdlerFarHorizons/xsftp/internal/console"
	"github.com/AdlerFarHorizons/xsftp/internal/env"
	"github.com/AdlerFarHorizons/xsftp/internal/link"
	"github.com/AdlerFarHorizons/xsftp/internal/xfer"
)

const configName = "xsftp"

var ErrUsage = errors.New("usage: xsftp [-list] portpath bps nbits stopb")

type Config struct {
	Port     link.Config    `yaml:"port"`
	Transfer xfer.Config    `yaml:"transfer"`
	Console  console.Config `yaml:"console"`
}

func DefaultConfig() *Config {
	return &Config{
		Port:     *link.DefaultConfig(),
		Transfer: *xfer.DefaultConfig(),
		Console:  *console.DefaultConfig(),
	}
}

func (c *Config) Validate() error {
	return c.Port.Validate()
}

// fromArgs applies the positional arguments: portpath bps nbits stopb.
func fromArgs(args []string) (func(*Config) error, error) {
	if len(args) < 4 {
		return nil, ErrUsage
	}

	nums := make([]int, 3)
	for i, name := range []string{"bps", "nbits", "stopb"} {
		n, err := strconv.Atoi(args[i+1])
		if err != nil {
			return nil, fmt.Errorf("%s must be an integer, got %q", name, args[i+1])
		}
		nums[i] = n
	}

	return func(cfg *Config) error {
		cfg.Port.Path = args[0]
		cfg.Port.BitsPerSecond = nums[0]
		cfg.Port.DataBits = nums[1]
		cfg.Port.StopBits = nums[2]
		return nil
	}, nil
}

// loadConfig merges defaults, config files and args, in that order.
func loadConfig(args []string) (*Config, error) {
	applyArgs, err := fromArgs(args)
	if err != nil {
		return nil, err
	}

	files, err := env.FromYAMLConfigs[*Config](configName)
	if err != nil {
		return nil, err
	}

	loader := env.NewLoader(DefaultConfig())
	loader.RegisterCallback(files)
	loader.RegisterCallback(applyArgs)
	return loader.Load()
}
