// Package log builds the process logger from app configuration.
package log

import (
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/term"

	"github.com/sawpanic/calendarrun/internal/config"
)

// New returns a console or JSON logger writing to w at the configured level.
// The console writer honours the color mode; auto colors only a terminal.
func New(w io.Writer, cfg config.AppConfig) zerolog.Logger {
	var logger zerolog.Logger
	if cfg.LogFormat == config.LogFormatJSON {
		logger = zerolog.New(w).With().Timestamp().Logger()
	} else {
		console := zerolog.ConsoleWriter{Out: w, TimeFormat: time.Kitchen, NoColor: !colorEnabled(w, cfg.ColorMode)}
		logger = zerolog.New(console).With().Timestamp().Logger()
	}
	return logger.Level(cfg.Level())
}

func colorEnabled(w io.Writer, mode string) bool {
	switch mode {
	case config.ColorAlways:
		return true
	case config.ColorNever:
		return false
	}
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}
