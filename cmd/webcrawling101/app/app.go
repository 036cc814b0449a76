package app

import (
	"context"
	"io"
	"net/http"

	"github.com/rs/zerolog"
	"github.com/urfave/cli"

	"github.com/MarcelloLins/WebCrawling101/crawler"
	"github.com/MarcelloLins/WebCrawling101/internal/config"
	"github.com/MarcelloLins/WebCrawling101/internal/limiter"
	"github.com/MarcelloLins/WebCrawling101/internal/logging"
	"github.com/MarcelloLins/WebCrawling101/internal/retry"
)

// Run executes the CLI. The summary is logged to stderr and, with --json,
// written to stdout. If no URL is given on the command line or in the config
// file, it prints help and returns nil.
func Run(
	ctx context.Context,
	args []string,
	stdout, stderr io.Writer,
	client *http.Client,
	clock limiter.Timer,
) error {
	defaults := config.Default()

	app := cli.NewApp()
	app.Name = "webcrawling101"
	app.Usage = "count a tag across every page linked from a home page"
	app.UsageText = "webcrawling101 [global options] <url>"
	app.Writer = stdout
	app.ErrWriter = stderr
	app.Flags = []cli.Flag{
		cli.StringFlag{
			Name:  "config",
			Usage: "YAML config file; flags set explicitly override it",
		},
		cli.StringFlag{
			Name:  "tag",
			Usage: "element counted on each page",
			Value: defaults.Tag,
		},
		cli.IntFlag{
			Name:  "min-link-length",
			Usage: "links must be longer than this to be in scope (at least 1)",
			Value: defaults.Selection.MinLinkLength,
		},
		cli.DurationFlag{
			Name:  "delay",
			Usage: "pause after each page (example: 500ms, 2s)",
			Value: defaults.Politeness.Delay.Duration,
		},
		cli.Float64Flag{
			Name:  "rps",
			Usage: "limit requests per second with a token bucket (overrides delay)",
		},
		cli.IntFlag{
			Name:  "burst",
			Usage: "token bucket burst size",
			Value: defaults.Politeness.Burst,
		},
		cli.IntFlag{
			Name:  "workers",
			Usage: "number of concurrent page fetches",
			Value: defaults.Workers,
		},
		cli.DurationFlag{
			Name:  "timeout",
			Usage: "per-request timeout",
			Value: defaults.HTTP.Timeout.Duration,
		},
		cli.StringFlag{
			Name:  "user-agent",
			Usage: "custom user agent",
			Value: defaults.HTTP.UserAgent,
		},
		cli.Int64Flag{
			Name:  "max-body-bytes",
			Usage: "truncate response bodies after this many bytes (0 disables)",
			Value: defaults.HTTP.MaxBodyBytes,
		},
		cli.IntFlag{
			Name:  "seed-attempts",
			Usage: "home page attempts before giving up (0 retries forever)",
			Value: defaults.SeedRetry.MaxAttempts,
		},
		cli.DurationFlag{
			Name:  "seed-backoff",
			Usage: "first pause between home page attempts, doubled each time",
			Value: defaults.SeedRetry.Backoff.Duration,
		},
		cli.DurationFlag{
			Name:  "seed-max-backoff",
			Usage: "upper bound for the home page pause",
			Value: defaults.SeedRetry.MaxBackoff.Duration,
		},
		cli.BoolFlag{
			Name:  "json",
			Usage: "write the summary as JSON to stdout",
		},
		cli.StringFlag{
			Name:  "log-level",
			Usage: "debug, info, warn or error",
			Value: defaults.Logging.Level,
		},
		cli.StringFlag{
			Name:  "log-file",
			Usage: "also write JSON logs to this rotating file",
		},
		cli.BoolFlag{
			Name:  "no-color",
			Usage: "disable colored log output",
		},
	}
	app.Action = func(c *cli.Context) error {
		cfg, err := loadConfig(c)
		if err != nil {
			return err
		}

		if c.Args().First() != "" {
			cfg.URL = c.Args().First()
		}

		if cfg.URL == "" {
			_ = cli.ShowAppHelp(c)

			return nil
		}

		logger, closer := logging.New(stderr, logging.Config{
			Level:      cfg.Logging.Level,
			File:       cfg.Logging.File,
			MaxSizeMB:  cfg.Logging.MaxSizeMB,
			MaxBackups: cfg.Logging.MaxBackups,
			MaxAgeDays: cfg.Logging.MaxAgeDays,
			Compress:   cfg.Logging.Compress,
			NoColor:    cfg.Logging.NoColor,
		})
		defer func() {
			_ = closer.Close()
		}()

		reporters := crawler.MultiReporter{crawler.LogReporter{Logger: logger}}
		if cfg.Report.JSON {
			reporters = append(reporters, crawler.JSONReporter{
				Writer: stdout,
				Indent: cfg.Report.IndentJSON,
				Logger: logger,
			})
		}

		_, err = crawler.Crawl(ctx, optionsFromConfig(cfg, client, clock, &logger, reporters))

		return err
	}

	return app.Run(args)
}

func loadConfig(c *cli.Context) (config.Config, error) {
	cfg := config.Default()

	if path := c.String("config"); path != "" {
		loaded, err := config.Load(path)
		if err != nil {
			return config.Config{}, err
		}

		cfg = loaded
	}

	applyFlags(c, &cfg)

	return cfg, cfg.Validate()
}

func applyFlags(c *cli.Context, cfg *config.Config) {
	if c.IsSet("tag") {
		cfg.Tag = c.String("tag")
	}
	if c.IsSet("min-link-length") {
		cfg.Selection.MinLinkLength = c.Int("min-link-length")
	}
	if c.IsSet("delay") {
		cfg.Politeness.Delay = config.DurationFrom(c.Duration("delay"))
	}
	if c.IsSet("rps") {
		cfg.Politeness.RPS = c.Float64("rps")
	}
	if c.IsSet("burst") {
		cfg.Politeness.Burst = c.Int("burst")
	}
	if c.IsSet("workers") {
		cfg.Workers = c.Int("workers")
	}
	if c.IsSet("timeout") {
		cfg.HTTP.Timeout = config.DurationFrom(c.Duration("timeout"))
	}
	if c.IsSet("user-agent") {
		cfg.HTTP.UserAgent = c.String("user-agent")
	}
	if c.IsSet("max-body-bytes") {
		cfg.HTTP.MaxBodyBytes = c.Int64("max-body-bytes")
	}
	if c.IsSet("seed-attempts") {
		cfg.SeedRetry.MaxAttempts = c.Int("seed-attempts")
	}
	if c.IsSet("seed-backoff") {
		cfg.SeedRetry.Backoff = config.DurationFrom(c.Duration("seed-backoff"))
	}
	if c.IsSet("seed-max-backoff") {
		cfg.SeedRetry.MaxBackoff = config.DurationFrom(c.Duration("seed-max-backoff"))
	}
	if c.IsSet("json") {
		cfg.Report.JSON = c.Bool("json")
	}
	if c.IsSet("log-level") {
		cfg.Logging.Level = c.String("log-level")
	}
	if c.IsSet("log-file") {
		cfg.Logging.File = c.String("log-file")
	}
	if c.IsSet("no-color") {
		cfg.Logging.NoColor = c.Bool("no-color")
	}
}

func optionsFromConfig(
	cfg config.Config,
	client *http.Client,
	clock limiter.Timer,
	logger *zerolog.Logger,
	reporter crawler.Reporter,
) crawler.Options {
	return crawler.Options{
		URL:           cfg.URL,
		Tag:           cfg.Tag,
		MinLinkLength: cfg.Selection.MinLinkLength,
		Delay:         cfg.Politeness.Delay.Duration,
		RPS:           cfg.Politeness.RPS,
		Burst:         cfg.Politeness.Burst,
		Workers:       cfg.Workers,
		Timeout:       cfg.HTTP.Timeout.Duration,
		UserAgent:     cfg.HTTP.UserAgent,
		MaxBodyBytes:  cfg.HTTP.MaxBodyBytes,
		SeedRetry: &retry.Policy{
			MaxAttempts: cfg.SeedRetry.MaxAttempts,
			Backoff:     retry.Exponential(cfg.SeedRetry.Backoff.Duration, cfg.SeedRetry.MaxBackoff.Duration),
		},
		HTTPClient: client,
		Clock:      clock,
		Logger:     logger,
		Reporter:   reporter,
	}
}
