package logger

import (
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/rs/zerolog/pkgerrors"
)

var (
	// Log is the global logger instance
	Log zerolog.Logger

	out io.Writer = os.Stderr
)

func init() {
	zerolog.ErrorStackMarshaler = pkgerrors.MarshalStack
	zerolog.TimeFieldFormat = time.RFC3339Nano

	configure(consoleWriter(out), zerolog.InfoLevel)
}

func consoleWriter(w io.Writer) io.Writer {
	return zerolog.ConsoleWriter{
		Out:        w,
		TimeFormat: "2006-01-02 15:04:05",
	}
}

// configure rebuilds Log and points the zerolog/log package logger at it so
// components logging through either one share the same output.
func configure(w io.Writer, level zerolog.Level) {
	Log = zerolog.New(w).
		Level(level).
		With().
		Timestamp().
		Caller().
		Logger()
	log.Logger = Log
}

// SetLevel sets the log level
func SetLevel(levelStr string) {
	level, err := zerolog.ParseLevel(strings.ToLower(strings.TrimSpace(levelStr)))
	if err != nil || levelStr == "" {
		Log.Warn().Str("level", levelStr).Msg("invalid log level, defaulting to info")
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)
	Log = Log.Level(level)
	log.Logger = Log
}

// SetFormat switches between "json" and human readable "console" output.
func SetFormat(format string) {
	SetOutput(out, format)
}

// SetOutput redirects the logger to w using the given format.
func SetOutput(w io.Writer, format string) {
	out = w
	level := Log.GetLevel()
	if strings.EqualFold(format, "json") {
		configure(w, level)
		return
	}
	configure(consoleWriter(w), level)
}
