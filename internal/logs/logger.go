package logs

import (
	"context"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
)

// LevelFatal n'existe pas dans slog, on le place au-dessus d'ERROR
const LevelFatal = slog.Level(12)

var level = new(slog.LevelVar)

var logger = newLogger(os.Stdout)

func newLogger(w io.Writer) *slog.Logger {
	return slog.New(slog.NewJSONHandler(w, &slog.HandlerOptions{
		Level: level,
		ReplaceAttr: func(groups []string, a slog.Attr) slog.Attr {
			if len(groups) > 0 {
				return a
			}
			switch a.Key {
			case slog.LevelKey:
				a.Key = "severity"
				if l, ok := a.Value.Any().(slog.Level); ok && l >= LevelFatal {
					a.Value = slog.StringValue("FATAL")
				}
			case slog.MessageKey:
				a.Key = "message"
			case slog.TimeKey:
				a.Value = slog.StringValue(a.Value.Time().Format(time.RFC3339))
			}
			return a
		},
	}))
}

// SetOutput redirige les logs (utilisé par les tests)
func SetOutput(w io.Writer) {
	logger = newLogger(w)
}

// SetLevel fixe le niveau minimum : "DEBUG", "INFO", "WARN", "ERROR" ou "FATAL"
func SetLevel(name string) {
	level.Set(parseLevel(name))
}

func parseLevel(name string) slog.Level {
	switch strings.ToUpper(name) {
	case "DEBUG":
		return slog.LevelDebug
	case "WARN":
		return slog.LevelWarn
	case "ERROR":
		return slog.LevelError
	case "FATAL":
		return LevelFatal
	default:
		return slog.LevelInfo
	}
}

func LogJSON(level, message string, fields map[string]interface{}) {
	attrs := make([]slog.Attr, 0, len(fields))
	for k, v := range fields {
		attrs = append(attrs, slog.Any(k, v))
	}
	logger.LogAttrs(context.Background(), parseLevel(level), message, attrs...)
}

// RequestLogger remplace le logger par défaut de gin par une ligne JSON par requête
func RequestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		status := c.Writer.Status()
		severity := "INFO"
		switch {
		case status >= 500:
			severity = "ERROR"
		case status >= 400:
			severity = "WARN"
		}

		route := c.FullPath()
		if route == "" {
			route = c.Request.URL.Path
		}

		LogJSON(severity, "HTTP request", map[string]interface{}{
			"method":     c.Request.Method,
			"route":      route,
			"status":     status,
			"latency_ms": time.Since(start).Milliseconds(),
			"userID":     c.GetString("user_id"),
		})
	}
}
