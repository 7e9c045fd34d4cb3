package log

import (
	contextPkg "WaiAutoReply/pkg/context"
	"fmt"
	"golang.org/x/net/context"
	"gopkg.in/natefinch/lumberjack.v2"
	"io"
	"os"
	"path"
	"path/filepath"
	"runtime"
	"strings"
	"sync"
	"time"

	formatter "github.com/antonfisher/nested-logrus-formatter"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

var (
	logger *logrus.Logger
	once   sync.Once
)

const (
	RequestIDKey = "request_id"
	TraceIDKey   = "trace_id"

	defaultLogDir = "./storage/logs"
)

type Fields = logrus.Fields

// NewLogger returns the process-wide logger. Settings come from the
// environment:
//
//	LOG_LEVEL   logrus level name, debug by default
//	LOG_FORMAT  "json" for machine-readable output
//	LOG_DIR     rotating file directory, ./storage/logs by default
//	APP_ENV     "test" disables the file sink
func NewLogger() *logrus.Logger {
	once.Do(func() {
		logger = build(os.Getenv)
	})

	return logger
}

func build(getenv func(string) string) *logrus.Logger {
	l := logrus.New()
	l.SetLevel(parseLevel(getenv("LOG_LEVEL")))
	l.SetReportCaller(true)

	if strings.EqualFold(getenv("LOG_FORMAT"), "json") {
		l.SetFormatter(&logrus.JSONFormatter{TimestampFormat: time.RFC3339})
	} else {
		l.SetFormatter(&formatter.Formatter{
			TimestampFormat:       "02 Jan 06 - 15:04",
			CallerFirst:           true,
			CustomCallerFormatter: callerFormatter,
		})
	}

	writers := []io.Writer{os.Stderr}
	if getenv("APP_ENV") != "test" {
		writers = append(writers, fileSink(getenv("LOG_DIR")))
	}
	l.SetOutput(io.MultiWriter(writers...))

	return l
}

func fileSink(dir string) io.Writer {
	if dir == "" {
		dir = defaultLogDir
	}

	return &lumberjack.Logger{
		Filename:   filepath.Join(dir, fmt.Sprintf("autoreply-%s.log", time.Now().Format("2006-01-02"))),
		LocalTime:  true,
		Compress:   true,
		MaxSize:    100,
		MaxAge:     7,
		MaxBackups: 3,
	}
}

func callerFormatter(f *runtime.Frame) string {
	s := strings.Split(f.Function, ".")
	return fmt.Sprintf(" \x1b[34m[%s:%d][%s()]", path.Base(f.File), f.Line, s[len(s)-1])
}

func parseLevel(name string) logrus.Level {
	level, err := logrus.ParseLevel(name)
	if err != nil {
		return logrus.DebugLevel
	}
	return level
}

func entry(fields Fields) *logrus.Entry {
	if fields == nil {
		fields = Fields{}
	}
	return NewLogger().WithFields(fields)
}

func Debug(fields Fields, msg string) { entry(fields).Debug(msg) }
func Info(fields Fields, msg string)  { entry(fields).Info(msg) }
func Warn(fields Fields, msg string)  { entry(fields).Warn(msg) }
func Error(fields Fields, msg string) { entry(fields).Error(msg) }
func Fatal(fields Fields, msg string) { entry(fields).Fatal(msg) }
func Panic(fields Fields, msg string) { entry(fields).Panic(msg) }

// ErrorWithTraceID logs msg at error level and returns the id a client can
// quote back. The request id is reused when present.
func ErrorWithTraceID(fields Fields, msg string) string {
	if fields == nil {
		fields = Fields{}
	}

	traceID, _ := fields[RequestIDKey].(string)
	if traceID == "" {
		traceID = newTraceID()
	}

	fields[TraceIDKey] = traceID
	entry(fields).Error(msg)

	return traceID
}

func newTraceID() string {
	id, err := uuid.NewRandom()
	if err != nil {
		return "unknown"
	}
	return id.String()
}

func WithRequestID(ctx context.Context) *logrus.Entry {
	return NewLogger().WithField(RequestIDKey, contextPkg.GetRequestID(ctx))
}
