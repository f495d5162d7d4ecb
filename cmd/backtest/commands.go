package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/moznion/go-optional"
	"github.com/rxtech-lab/argo-consensus/internal/config"
	"github.com/rxtech-lab/argo-consensus/internal/optimizer"
	"github.com/rxtech-lab/argo-consensus/internal/types"
	"github.com/rxtech-lab/argo-consensus/pkg/marketdata/writer"
	"github.com/schollz/progressbar/v3"
	"github.com/urfave/cli/v3"
	"go.uber.org/zap"
)

func runCommand() *cli.Command {
	return &cli.Command{
		Name:  "run",
		Usage: "Run one backtest and write its result",
		Flags: backtestFlags(),
		Action: func(ctx context.Context, cmd *cli.Command) error {
			a, err := newApp(cmd.Root())
			if err != nil {
				return err
			}
			defer a.Close()

			backtestConfig, err := loadBacktestConfig(cmd)
			if err != nil {
				return err
			}

			result, err := a.service.RunBacktest(ctx, backtestConfig)
			if err != nil {
				return err
			}

			output, err := a.outputPath(cmd.String("output"))
			if err != nil {
				return err
			}

			if err := types.WriteBacktestResult(output, result); err != nil {
				return err
			}

			a.log.Info("Backtest written",
				zap.String("output", output),
				zap.Int("trades", result.Summary.TotalTrades),
				zap.Float64("total_return_percent", result.Summary.TotalReturnPercent),
			)

			return nil
		},
	}
}

func optimizeCommand() *cli.Command {
	flags := append(backtestFlags(), &cli.StringSliceFlag{
		Name:     "range",
		Aliases:  []string{"r"},
		Usage:    "Candidate values of a parameter as `NAME=V1,V2,...`, repeatable",
		Required: true,
	})

	return &cli.Command{
		Name:  "optimize",
		Usage: "Search a parameter grid and write the ranked results",
		Flags: flags,
		Action: func(ctx context.Context, cmd *cli.Command) error {
			a, err := newApp(cmd.Root())
			if err != nil {
				return err
			}
			defer a.Close()

			backtestConfig, err := loadBacktestConfig(cmd)
			if err != nil {
				return err
			}

			ranges, err := parseRanges(cmd.StringSlice("range"))
			if err != nil {
				return err
			}

			combinations, err := optimizer.Combinations(ranges)
			if err != nil {
				return err
			}

			bar := progressbar.NewOptions(len(combinations),
				progressbar.OptionSetDescription("optimizing"),
				progressbar.OptionShowCount(),
				progressbar.OptionSetWriter(os.Stderr),
			)

			onEnd := optimizer.OnCombinationEndCallback(func(index int, total int, fitness float64, err error) {
				_ = bar.Add(1)
			})

			results, err := a.service.OptimizeParametersWithCallbacks(ctx, backtestConfig, ranges, optimizer.Callbacks{
				OnCombinationEnd: &onEnd,
			})
			_ = bar.Finish()

			if err != nil {
				return err
			}

			output, err := a.outputPath(cmd.String("output"))
			if err != nil {
				return err
			}

			if err := types.WriteOptimizationResults(output, results); err != nil {
				return err
			}

			fields := []zap.Field{zap.String("output", output), zap.Int("results", len(results))}
			if len(results) > 0 {
				fields = append(fields, zap.Any("best", results[0].Parameters), zap.Float64("fitness", results[0].Fitness))
			}

			a.log.Info("Optimization written", fields...)

			return nil
		},
	}
}

type signalOutput struct {
	Signals   []types.Signal                `json:"signals"`
	Consensus optional.Option[types.Signal] `json:"consensus"`
}

func signalCommand() *cli.Command {
	return &cli.Command{
		Name:  "signal",
		Usage: "Print the strategy signals and the consensus at a date as JSON",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:     "symbol",
				Aliases:  []string{"s"},
				Usage:    "Symbol to evaluate",
				Required: true,
			},
			&cli.TimestampFlag{
				Name:   "at",
				Usage:  "Evaluate the window ending at `YYYY-MM-DD`. Defaults to today.",
				Value:  time.Now(),
				Config: cli.TimestampConfig{Layouts: []string{"2006-01-02"}},
			},
			&cli.IntFlag{
				Name:  "window",
				Usage: "Number of bars in the evaluated window",
				Value: 60,
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			a, err := newApp(cmd.Root())
			if err != nil {
				return err
			}
			defer a.Close()

			symbol := cmd.String("symbol")

			bars, err := a.datasource.GetBars(ctx, symbol, time.Time{}, cmd.Timestamp("at"))
			if err != nil {
				return err
			}

			if window := int(cmd.Int("window")); window > 0 && len(bars) > window {
				bars = bars[len(bars)-window:]
			}

			signals, err := a.service.EvaluateSignal(ctx, symbol, bars)
			if err != nil {
				return err
			}

			consensus, err := a.service.EvaluateConsensus(ctx, symbol, bars)
			if err != nil {
				return err
			}

			encoder := json.NewEncoder(os.Stdout)
			encoder.SetIndent("", "  ")

			return encoder.Encode(signalOutput{Signals: signals, Consensus: consensus})
		},
	}
}

func schemaCommand() *cli.Command {
	return &cli.Command{
		Name:      "schema",
		Usage:     "Print the JSON schema of the application or backtest config",
		ArgsUsage: "[backtest|config]",
		Action: func(ctx context.Context, cmd *cli.Command) error {
			var (
				schema string
				err    error
			)

			kind := cmd.Args().First()
			if kind == "" {
				kind = "backtest"
			}

			switch kind {
			case "backtest":
				schema, err = (&types.BacktestConfig{}).GenerateSchemaJSON()
			case "config":
				cfg := config.Default()
				schema, err = cfg.GenerateSchemaJSON()
			default:
				return fmt.Errorf("unknown schema %q, expected backtest or config", kind)
			}

			if err != nil {
				return err
			}

			_, err = fmt.Fprintln(os.Stdout, schema)

			return err
		},
	}
}

func exportCommand() *cli.Command {
	layouts := cli.TimestampConfig{Layouts: []string{"2006-01-02"}}

	return &cli.Command{
		Name:  "export",
		Usage: "Copy the bars of symbols into a parquet or CSV file",
		Flags: []cli.Flag{
			&cli.StringSliceFlag{
				Name:  "symbol",
				Usage: "Symbol to export, repeatable. Every symbol when omitted.",
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
			&cli.StringFlag{
				Name:     "output",
				Aliases:  []string{"o"},
				Usage:    "Output `FILE`; .csv writes CSV, anything else parquet",
				Required: true,
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			a, err := newApp(cmd.Root())
			if err != nil {
				return err
			}
			defer a.Close()

			symbols := cmd.StringSlice("symbol")
			if len(symbols) == 0 {
				symbols, err = a.datasource.Symbols(ctx)
				if err != nil {
					return err
				}
			}

			var start, end time.Time
			if cmd.IsSet("start") {
				start = cmd.Timestamp("start")
			}

			if cmd.IsSet("end") {
				end = cmd.Timestamp("end")
			}

			var bars []types.Bar

			for _, symbol := range symbols {
				series, err := a.datasource.GetBars(ctx, symbol, start, end)
				if err != nil {
					return err
				}

				bars = append(bars, series...)
			}

			output, err := writer.WriteAll(writer.NewDuckDBWriter(cmd.String("output")), bars)
			if err != nil {
				return err
			}

			a.log.Info("Bars exported",
				zap.String("output", output),
				zap.Strings("symbols", symbols),
				zap.Int("bars", len(bars)),
			)

			return nil
		},
	}
}

// outputPath returns path, or a new run file under the results directory.
func (a *app) outputPath(path string) (string, error) {
	if path == "" {
		path = filepath.Join(a.config.ResultsDir, uuid.New().String()+".yaml")
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return "", fmt.Errorf("failed to create results folder: %w", err)
	}

	return path, nil
}
