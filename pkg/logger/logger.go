package logger

import (
	"io"
	"net/http"
	"os"
	"time"

	"github.com/sirupsen/logrus"
)

// Logger wraps logrus logger
type Logger struct {
	*logrus.Logger
	service string
}

// NewLogger creates a new logger instance
func NewLogger(serviceName string) *Logger {
	return newLogger(serviceName, os.Stdout, os.Getenv("LOG_LEVEL"))
}

// NewWithOutput creates a logger writing to out, mostly for tests
func NewWithOutput(serviceName string, out io.Writer, level string) *Logger {
	return newLogger(serviceName, out, level)
}

func newLogger(serviceName string, out io.Writer, level string) *Logger {
	log := logrus.New()

	// Set JSON formatter
	log.SetFormatter(&logrus.JSONFormatter{
		FieldMap: logrus.FieldMap{
			logrus.FieldKeyTime:  "timestamp",
			logrus.FieldKeyLevel: "level",
			logrus.FieldKeyMsg:   "message",
		},
	})

	log.SetOutput(out)

	switch level {
	case "debug":
		log.SetLevel(logrus.DebugLevel)
	case "info":
		log.SetLevel(logrus.InfoLevel)
	case "warn":
		log.SetLevel(logrus.WarnLevel)
	case "error":
		log.SetLevel(logrus.ErrorLevel)
	default:
		log.SetLevel(logrus.InfoLevel)
	}

	return &Logger{Logger: log, service: serviceName}
}

// Discard returns a logger that drops everything
func Discard() *Logger {
	return newLogger("test", io.Discard, "error")
}

// WithService returns an entry tagged with the service name
func (l *Logger) WithService() *logrus.Entry {
	return l.WithField("service", l.service)
}

// WithComponent tags log lines with the emitting component
func (l *Logger) WithComponent(component string) *logrus.Entry {
	return l.WithService().WithField("component", component)
}

// HTTPMiddleware logs every request with its status and duration
func HTTPMiddleware(logger *Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}

			next.ServeHTTP(rec, r)

			entry := logger.WithService().WithFields(logrus.Fields{
				"method":      r.Method,
				"path":        r.URL.Path,
				"status":      rec.status,
				"duration_ms": time.Since(start).Milliseconds(),
			})
			if rec.status >= http.StatusInternalServerError {
				entry.Error("HTTP request failed")
			} else {
				entry.Debug("HTTP request completed")
			}
		})
	}
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}
