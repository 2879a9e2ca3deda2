// connsim drives simulated HTTP connections through connpool pools and
// reports how the pools behaved.
package main

import (
	"fmt"
	"os"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"

	"github.com/pavanmanishd/connpool/metrics"
)

var (
	configFlag = &cli.StringFlag{
		Name:    "config",
		Usage:   "TOML configuration file",
		EnvVars: []string{"CONNSIM_CONFIG"},
	}
	connectionsFlag = &cli.IntFlag{
		Name:    "connections",
		Aliases: []string{"c"},
		Usage:   "number of concurrent connections",
		Value:   defaultConfig().Connections,
		EnvVars: []string{"CONNSIM_CONNECTIONS"},
	}
	requestsFlag = &cli.IntFlag{
		Name:    "requests",
		Aliases: []string{"n"},
		Usage:   "requests per connection",
		Value:   defaultConfig().Requests,
		EnvVars: []string{"CONNSIM_REQUESTS"},
	}
	poolSizeFlag = &cli.IntFlag{
		Name:    "pool-size",
		Usage:   "bytes reserved per connection",
		Value:   defaultConfig().PoolSize,
		EnvVars: []string{"CONNSIM_POOL_SIZE"},
	}
	mapThresholdFlag = &cli.IntFlag{
		Name:    "map-threshold",
		Usage:   "pool size above which memory is mapped instead of heap allocated (-1 disables mapping)",
		Value:   defaultConfig().MapThreshold,
		EnvVars: []string{"CONNSIM_MAP_THRESHOLD"},
	}
	readChunkFlag = &cli.IntFlag{
		Name:    "read-chunk",
		Usage:   "bytes delivered per simulated read",
		Value:   defaultConfig().ReadChunk,
		EnvVars: []string{"CONNSIM_READ_CHUNK"},
	}
	realmFlag = &cli.StringFlag{
		Name:  "realm",
		Usage: "realm sent in authentication challenges",
		Value: defaultConfig().Realm,
	}
	verbosityFlag = &cli.StringFlag{
		Name:    "verbosity",
		Usage:   "log level (panic|fatal|error|warn|info|debug|trace)",
		Value:   defaultConfig().Verbosity,
		EnvVars: []string{"CONNSIM_VERBOSITY"},
	}

	simFlags = []cli.Flag{
		configFlag,
		connectionsFlag,
		requestsFlag,
		poolSizeFlag,
		mapThresholdFlag,
		readChunkFlag,
		realmFlag,
		verbosityFlag,
	}
)

func newApp() *cli.App {
	return &cli.App{
		Name:  "connsim",
		Usage: "simulate per-connection memory pools",
		Commands: []*cli.Command{
			{
				Name:   "run",
				Usage:  "run the simulation and print a report",
				Flags:  simFlags,
				Action: runCmd,
			},
			{
				Name:   "dumpconfig",
				Usage:  "print the effective configuration as TOML",
				Flags:  simFlags,
				Action: dumpConfigCmd,
			},
		},
	}
}

func runCmd(ctx *cli.Context) error {
	cfg, err := loadConfig(ctx)
	if err != nil {
		return err
	}
	log := logrus.New()
	log.SetOutput(ctx.App.ErrWriter)
	level, _ := logrus.ParseLevel(cfg.Verbosity)
	log.SetLevel(level)

	reg := prometheus.NewRegistry()
	if err := reg.Register(metrics.NewCollector("connsim")); err != nil {
		return err
	}

	results, err := simulate(ctx.Context, cfg, log)
	if err != nil {
		return err
	}
	families, err := reg.Gather()
	if err != nil {
		return err
	}
	report(ctx.App.Writer, summarize(results), families)
	return nil
}

func dumpConfigCmd(ctx *cli.Context) error {
	cfg, err := loadConfig(ctx)
	if err != nil {
		return err
	}
	return dumpConfig(ctx.App.Writer, cfg)
}

func main() {
	if err := newApp().Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
