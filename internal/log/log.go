package log

import (
	"io"
	"os"

	"github.com/paularlott/logger"
	logslog "github.com/paularlott/logger/slog"
)

var defaultLogger logger.Logger

// Results are printed on stdout, so logs always go to stderr.
var output io.Writer = os.Stderr

func init() {
	defaultLogger = logslog.New(logslog.Config{
		Level:  "info",
		Format: "console",
		Writer: output,
	})
}

func Configure(level, format string) {
	if level == "" {
		level = "info"
	}
	if format == "" {
		format = "console"
	}
	defaultLogger = logslog.New(logslog.Config{
		Level:  level,
		Format: format,
		Writer: output,
	})
}

// SetOutput redirects log output, re-creating the logger at the given level.
func SetOutput(w io.Writer, level string) {
	output = w
	Configure(level, "console")
}

func Info(msg string, keysAndValues ...any) {
	defaultLogger.Info(msg, keysAndValues...)
}

func Warn(msg string, keysAndValues ...any) {
	defaultLogger.Warn(msg, keysAndValues...)
}

func Error(msg string, keysAndValues ...any) {
	defaultLogger.Error(msg, keysAndValues...)
}

func Debug(msg string, keysAndValues ...any) {
	defaultLogger.Debug(msg, keysAndValues...)
}
