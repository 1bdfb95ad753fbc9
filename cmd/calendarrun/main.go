package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/sawpanic/calendarrun/internal/advisor"
	"github.com/sawpanic/calendarrun/internal/config"
	"github.com/sawpanic/calendarrun/internal/decision"
	"github.com/sawpanic/calendarrun/internal/gates"
	applog "github.com/sawpanic/calendarrun/internal/log"
	"github.com/sawpanic/calendarrun/internal/metrics"
	"github.com/sawpanic/calendarrun/internal/present"
)

const (
	appName = "calendarrun"
	version = "v1.0.0"
)

// runtime state shared by subcommands, filled in by setup
var app struct {
	cfg        config.AppConfig
	thresholds gates.Thresholds
	service    *advisor.Service
}

var rootCmd = &cobra.Command{
	Use:     appName,
	Short:   "Traffic-light entry check for SPY/QQQ/IWM double calendars",
	Version: version,
	Long: `🚦 calendarrun grades a double calendar setup GREEN, YELLOW or RED.

Each market condition (price location, term structure, IV rank, event
proximity, VIX and the optional ATR guardrail) is checked against a
threshold set; the worst condition sets the light and picks the suggested
structure.

   calendarrun evaluate --spot 450 --put-strike 440 --call-strike 460
   calendarrun batch --file scenarios.yaml
   calendarrun thresholds`,
	SilenceUsage:      true,
	SilenceErrors:     true,
	PersistentPreRunE: setup,
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.String("config", "", "Path to the app config YAML")
	pf.String("thresholds", "", "Path to a thresholds YAML (overrides the config file)")
	pf.String("log-level", "", "Log level (trace|debug|info|warn|error)")
	pf.String("color", "", "Color output (auto|always|never)")
	pf.String("metrics-textfile", "", "Write Prometheus metrics to this textfile on exit")
}

func main() {
	zerolog.TimeFieldFormat = time.RFC3339
	configureLogging(config.DefaultAppConfig())

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	err := rootCmd.ExecuteContext(ctx)
	stop()

	if err != nil {
		code := 1
		var ee *exitError
		if errors.As(err, &ee) {
			code = ee.code
		}
		log.Error().Err(err).Msg("calendarrun failed")
		os.Exit(code)
	}
}

// setup loads configuration, configures logging and builds the service
func setup(cmd *cobra.Command, args []string) error {
	configPath, _ := cmd.Flags().GetString("config")
	cfg, err := config.LoadAppConfig(configPath)
	if err != nil {
		return err
	}

	// flags win over file and environment
	if v, _ := cmd.Flags().GetString("thresholds"); v != "" {
		cfg.ThresholdsPath = v
	}
	if v, _ := cmd.Flags().GetString("log-level"); v != "" {
		cfg.LogLevel = v
	}
	if v, _ := cmd.Flags().GetString("color"); v != "" {
		cfg.ColorMode = v
	}
	if v, _ := cmd.Flags().GetString("metrics-textfile"); v != "" {
		cfg.MetricsTextfile = v
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	configureLogging(cfg)

	th := gates.DefaultThresholds()
	if cfg.ThresholdsPath != "" {
		th, err = gates.LoadThresholds(cfg.ThresholdsPath)
		if err != nil {
			return err
		}
		log.Debug().Str("path", cfg.ThresholdsPath).Msg("Loaded thresholds")
	}

	engine, err := decision.New(th)
	if err != nil {
		return err
	}

	app.cfg = cfg
	app.thresholds = th
	app.service = advisor.NewService(engine, metrics.NewMetricsRegistry(), log.Logger)
	return nil
}

func configureLogging(cfg config.AppConfig) {
	log.Logger = applog.New(os.Stderr, cfg)
}

// colorize resolves the color mode against whether stdout is a terminal
func colorize(mode string) bool {
	switch mode {
	case config.ColorAlways:
		return true
	case config.ColorNever:
		return false
	default:
		return term.IsTerminal(int(os.Stdout.Fd()))
	}
}

func textRenderer() *present.TextRenderer {
	return present.NewTextRenderer(os.Stdout, colorize(app.cfg.ColorMode))
}

// flushMetrics writes the metrics textfile when one is configured
func flushMetrics() {
	if app.cfg.MetricsTextfile == "" || app.service == nil {
		return
	}
	if err := app.service.Metrics().WriteTextfile(app.cfg.MetricsTextfile); err != nil {
		log.Warn().Err(err).Msg("Metrics textfile not written")
		return
	}
	log.Debug().Str("path", app.cfg.MetricsTextfile).Msg("Metrics textfile written")
}

// exitError carries a specific exit status out of a command: 2 for a
// rejected input, 3 for a batch with failed scenarios
type exitError struct {
	code int
	err  error
}

func (e *exitError) Error() string { return e.err.Error() }
func (e *exitError) Unwrap() error { return e.err }
