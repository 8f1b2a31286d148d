// Command acoumetrics computes acoustic metrics for WAV recordings.
//
// Usage:
//
//	acoumetrics [--config FILE] [--log-level LEVEL] <command>
//
// Commands:
//
//	analyze FILE|DIR ...   analyze recordings and write JSON reports
//	watch DIR              analyze recordings as they appear in DIR
//	rates                  list the supported sample rates
//
// Examples:
//
//	acoumetrics analyze --out results "Rec 2024-05-17 14h03m22s.wav"
//	acoumetrics analyze --jobs 8 --threshold 55 --threshold 65 recordings/
//	acoumetrics --config acoumetrics.yaml watch --delete /srv/incoming
package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/alecthomas/kong"

	"github.com/cwbudde/algo-acoustics/internal/config"
)

var version = "dev"

// CLI defines the command-line interface.
type CLI struct {
	Config   string           `short:"c" type:"existingfile" help:"Path to YAML config file (optional)"`
	LogLevel string           `name:"log-level" help:"Log level: debug, info, warn or error (overrides config)"`
	Version  kong.VersionFlag `short:"v" help:"Show version information"`

	Analyze AnalyzeCmd `cmd:"" help:"Analyze WAV files or directories of WAV files"`
	Watch   WatchCmd   `cmd:"" help:"Analyze WAV files as they appear in a directory"`
	Rates   RatesCmd   `cmd:"" help:"List the sample rates with published weighting coefficients"`
}

// env is what every command receives after global flags are resolved.
type env struct {
	ctx    context.Context
	cfg    *config.Config
	logger *slog.Logger
}

func main() {
	cli := &CLI{}
	kctx := kong.Parse(cli,
		kong.Name("acoumetrics"),
		kong.Description("Environmental noise and room acoustics metrics for WAV recordings"),
		kong.UsageOnError(),
		kong.Vars{"version": version},
	)

	cfg, err := cli.loadConfig()
	kctx.FatalIfErrorf(err)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	err = kctx.Run(&env{ctx: ctx, cfg: cfg, logger: newLogger(cfg.LogLevel)})
	kctx.FatalIfErrorf(err)
}

// loadConfig reads the optional config file and applies global overrides.
func (c *CLI) loadConfig() (*config.Config, error) {
	cfg := config.Default()
	if c.Config != "" {
		loaded, err := config.Load(c.Config)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}

	if c.LogLevel != "" {
		cfg.LogLevel = config.LogLevel(c.LogLevel)
	}

	return cfg, config.Validate(cfg)
}

func newLogger(level config.LogLevel) *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level.Level()}))
}
