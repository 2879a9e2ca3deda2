package main

import (
	"io"

	"github.com/BurntSushi/toml"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"

	"github.com/pavanmanishd/connpool"
)

// Config drives one simulation run.
type Config struct {
	Connections  int    `toml:"connections"`
	Requests     int    `toml:"requests"`
	PoolSize     int    `toml:"pool_size"`
	MapThreshold int    `toml:"map_threshold"`
	ReadChunk    int    `toml:"read_chunk"`
	Realm        string `toml:"realm"`
	User         string `toml:"user"`
	Password     string `toml:"password"`
	Verbosity    string `toml:"verbosity"`
}

func defaultConfig() Config {
	return Config{
		Connections:  16,
		Requests:     100,
		PoolSize:     64 * 1024,
		MapThreshold: connpool.DefaultMapThreshold,
		ReadChunk:    512,
		Realm:        "connsim",
		User:         "sim",
		Password:     "simulated password",
		Verbosity:    "info",
	}
}

func (c Config) validate() error {
	switch {
	case c.Connections <= 0:
		return errors.Errorf("connections must be positive, got %d", c.Connections)
	case c.Requests < 0:
		return errors.Errorf("requests must not be negative, got %d", c.Requests)
	case c.PoolSize <= 0:
		return errors.Errorf("pool size must be positive, got %d", c.PoolSize)
	case c.ReadChunk <= 0:
		return errors.Errorf("read chunk must be positive, got %d", c.ReadChunk)
	}
	if _, err := logrus.ParseLevel(c.Verbosity); err != nil {
		return errors.Wrap(err, "verbosity")
	}
	return nil
}

// loadConfig applies the config file, then any flags set on the command line.
func loadConfig(ctx *cli.Context) (Config, error) {
	cfg := defaultConfig()
	if file := ctx.String(configFlag.Name); file != "" {
		if _, err := toml.DecodeFile(file, &cfg); err != nil {
			return cfg, errors.Wrapf(err, "config file %s", file)
		}
	}
	if ctx.IsSet(connectionsFlag.Name) {
		cfg.Connections = ctx.Int(connectionsFlag.Name)
	}
	if ctx.IsSet(requestsFlag.Name) {
		cfg.Requests = ctx.Int(requestsFlag.Name)
	}
	if ctx.IsSet(poolSizeFlag.Name) {
		cfg.PoolSize = ctx.Int(poolSizeFlag.Name)
	}
	if ctx.IsSet(mapThresholdFlag.Name) {
		cfg.MapThreshold = ctx.Int(mapThresholdFlag.Name)
	}
	if ctx.IsSet(readChunkFlag.Name) {
		cfg.ReadChunk = ctx.Int(readChunkFlag.Name)
	}
	if ctx.IsSet(realmFlag.Name) {
		cfg.Realm = ctx.String(realmFlag.Name)
	}
	if ctx.IsSet(verbosityFlag.Name) {
		cfg.Verbosity = ctx.String(verbosityFlag.Name)
	}
	return cfg, cfg.validate()
}

func dumpConfig(w io.Writer, cfg Config) error {
	return toml.NewEncoder(w).Encode(cfg)
}
