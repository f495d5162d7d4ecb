package main

import (
	"fmt"
	"os"

	"github.com/rxtech-lab/argo-consensus/internal/backtest/engine/engine_v1/datasource"
	"github.com/rxtech-lab/argo-consensus/internal/config"
	"github.com/rxtech-lab/argo-consensus/internal/inference"
	"github.com/rxtech-lab/argo-consensus/internal/logger"
	"github.com/rxtech-lab/argo-consensus/internal/types"
	"github.com/rxtech-lab/argo-consensus/pkg/backtest"
	"github.com/urfave/cli/v3"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

// app bundles what every command needs.
type app struct {
	config     config.Config
	log        *logger.Logger
	datasource datasource.DataSource
	service    *backtest.Service
}

// newApp loads the configuration and opens the market data of the root command flags.
func newApp(cmd *cli.Command) (*app, error) {
	cfg, err := config.Load(cmd.String("config"), cmd.StringSlice("env-file")...)
	if err != nil {
		return nil, err
	}

	if path := cmd.String("data"); path != "" {
		cfg.Data.Path = path
	}

	if cfg.Data.Path == "" {
		return nil, fmt.Errorf("no market data: set data.path in the config or pass --data")
	}

	log, err := logger.NewLoggerWithLevel(cfg.LogLevel)
	if err != nil {
		return nil, fmt.Errorf("failed to create logger: %w", err)
	}

	duck, err := datasource.NewDataSource(":memory:", log)
	if err != nil {
		return nil, err
	}

	if err := duck.Initialize(cfg.Data.Path); err != nil {
		_ = duck.Close()

		return nil, err
	}

	var ds datasource.DataSource = duck
	if cfg.Data.Cache {
		ds = datasource.NewCachedDataSource(duck)
	}

	var client inference.Client
	if cfg.Inference.Provider == config.ProviderHTTP {
		httpClient, err := inference.NewHTTPClient(cfg.InferenceOptions(log))
		if err != nil {
			_ = ds.Close()

			return nil, err
		}

		client = httpClient
	}

	service, err := backtest.NewService(backtest.Options{
		DataSource: ds,
		Inference:  client,
		Seed:       cfg.Seed,
		Workers:    cfg.Workers,
		Logger:     log,
	})
	if err != nil {
		_ = ds.Close()

		return nil, err
	}

	log.Debug("Application ready",
		zap.String("data", cfg.Data.Path),
		zap.String("inference", cfg.Inference.Provider),
		zap.Strings("strategies", service.Strategies()),
	)

	return &app{
		config:     cfg,
		log:        log,
		datasource: ds,
		service:    service,
	}, nil
}

func (a *app) Close() {
	if err := a.datasource.Close(); err != nil {
		a.log.Warn("Failed to close data source", zap.Error(err))
	}

	_ = a.log.Sync()
}

// loadBacktestConfig reads the backtest config at path and applies the flags
// of cmd that are set.
func loadBacktestConfig(cmd *cli.Command) (types.BacktestConfig, error) {
	var backtestConfig types.BacktestConfig

	if path := cmd.String("backtest"); path != "" {
		content, err := os.ReadFile(path)
		if err != nil {
			return types.BacktestConfig{}, fmt.Errorf("failed to read backtest config: %w", err)
		}

		if err := yaml.Unmarshal(content, &backtestConfig); err != nil {
			return types.BacktestConfig{}, fmt.Errorf("failed to parse backtest config: %w", err)
		}
	}

	if cmd.IsSet("symbol") {
		backtestConfig.Symbol = cmd.String("symbol")
	}

	if cmd.IsSet("start") {
		backtestConfig.StartDate = cmd.Timestamp("start")
	}

	if cmd.IsSet("end") {
		backtestConfig.EndDate = cmd.Timestamp("end")
	}

	if cmd.IsSet("capital") || backtestConfig.InitialCapital == 0 {
		backtestConfig.InitialCapital = cmd.Float("capital")
	}

	if cmd.IsSet("strategy") {
		backtestConfig.Strategies = cmd.StringSlice("strategy")
	}

	if cmd.IsSet("broker") {
		backtestConfig.Broker = cmd.String("broker")
	}

	backtestConfig = backtestConfig.WithDefaults()

	return backtestConfig, backtestConfig.Validate()
}

// backtestFlags are shared by run and optimize.
func backtestFlags() []cli.Flag {
	layouts := cli.TimestampConfig{Layouts: []string{"2006-01-02"}}

	return []cli.Flag{
		&cli.StringFlag{
			Name:    "backtest",
			Aliases: []string{"b"},
			Usage:   "Backtest config `FILE` (YAML); flags override its fields",
		},
		&cli.StringFlag{
			Name:    "symbol",
			Aliases: []string{"s"},
			Usage:   "Symbol to simulate",
		},
		&cli.TimestampFlag{
			Name:   "start",
			Usage:  "Start date in `YYYY-MM-DD` format",
			Config: layouts,
		},
		&cli.TimestampFlag{
			Name:   "end",
			Usage:  "End date in `YYYY-MM-DD` format",
			Config: layouts,
		},
		&cli.FloatFlag{
			Name:  "capital",
			Usage: "Initial capital",
			Value: 10000,
		},
		&cli.StringSliceFlag{
			Name:  "strategy",
			Usage: "Strategy to activate, repeatable",
		},
		&cli.StringFlag{
			Name:  "broker",
			Usage: "Commission model (percentage, interactive_broker, zero_commission)",
		},
		&cli.StringFlag{
			Name:    "output",
			Aliases: []string{"o"},
			Usage:   "Result `FILE`; defaults to <results_dir>/<run id>.yaml",
		},
	}
}
