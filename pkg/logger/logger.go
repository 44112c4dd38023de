package logger

import (
	"log/slog"
	"os"
)

// Log is safe to use before Init; Init swaps in the configured handler.
var Log = slog.Default()

// Init sets up the global JSON logger. Debug mode lowers the level so local
// runs show request-scoped detail that production output omits.
func Init(debug bool) {
	level := slog.LevelInfo
	if debug {
		level = slog.LevelDebug
	}
	handler := slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: level,
	})
	Log = slog.New(handler)
}
