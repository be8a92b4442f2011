package logging

import (
	"log/slog"
	"os"
)

// Setup installs the process-wide slog default: JSON records on stdout at
// info level. main swaps in the DB-backed fan-out once the database handle
// exists.
func Setup() {
	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	})))
}
