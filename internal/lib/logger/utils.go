package logger

import (
	"cinelist/proj/internal/lib/logger/handlers/slogpretty"
	"fmt"
	"log"
	"log/slog"
	"os"
)

func SetupLogger(debug bool) *slog.Logger {
	var handler slog.Handler
	if debug {
		handler = slogpretty.NewPrettyHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug})
	} else {
		handler = slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo})
	}
	return slog.New(handler)
}

type out struct {
	stdLog *slog.Logger
}

func (l out) Write(p []byte) (n int, err error) {
	l.stdLog.Info(string(p))
	return len(p), nil
}

// LogAdapter bridges std log consumers (e.g. http.Server.ErrorLog) onto slog.
func LogAdapter(logger *slog.Logger) *log.Logger {
	return log.New(&out{logger}, "", 0)
}

// PrintfAdapter satisfies printf-style logger interfaces such as badger.Logger
// and migrate.Logger.
type PrintfAdapter struct {
	Log *slog.Logger
}

func (a PrintfAdapter) Errorf(format string, args ...any) {
	a.Log.Error(fmt.Sprintf(format, args...))
}

func (a PrintfAdapter) Warningf(format string, args ...any) {
	a.Log.Warn(fmt.Sprintf(format, args...))
}

func (a PrintfAdapter) Infof(format string, args ...any) {
	a.Log.Info(fmt.Sprintf(format, args...))
}

func (a PrintfAdapter) Debugf(format string, args ...any) {
	a.Log.Debug(fmt.Sprintf(format, args...))
}

func (a PrintfAdapter) Printf(format string, args ...any) {
	a.Log.Debug(fmt.Sprintf(format, args...))
}

func (a PrintfAdapter) Verbose() bool {
	return false
}
