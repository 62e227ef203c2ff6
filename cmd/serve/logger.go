package serve

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"gopkg.in/natefinch/lumberjack.v2"
)

// newLogger creates the service logger, writing to the rotated log file if set
func newLogger(logFile, level string) (*slog.Logger, func(), error) {
	var lvl slog.Level

	if err := lvl.UnmarshalText([]byte(strings.TrimSpace(level))); err != nil {
		return nil, nil, fmt.Errorf("invalid log level %q", level)
	}

	var (
		out     io.Writer = os.Stdout
		closeFn           = func() {}
	)

	if logFile != "" {
		rotated := &lumberjack.Logger{
			Filename:   logFile,
			MaxSize:    100, // MB
			MaxAge:     28,  // days
			MaxBackups: 5,
			Compress:   true,
		}

		out = rotated
		closeFn = func() {
			_ = rotated.Close()
		}
	}

	logger := slog.New(slog.NewTextHandler(out, &slog.HandlerOptions{
		Level: lvl,
	}))

	return logger, closeFn, nil
}
