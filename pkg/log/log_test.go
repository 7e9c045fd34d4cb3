package log

import (
	contextPkg "WaiAutoReply/pkg/context"
	"bytes"
	"context"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func env(values map[string]string) func(string) string {
	return func(key string) string { return values[key] }
}

func capture(t *testing.T) *bytes.Buffer {
	t.Helper()
	t.Setenv("APP_ENV", "test")

	var buf bytes.Buffer
	l := NewLogger()
	prevOut, prevFormatter := l.Out, l.Formatter
	l.SetOutput(&buf)
	l.SetFormatter(&logrus.JSONFormatter{})
	t.Cleanup(func() {
		l.SetOutput(prevOut)
		l.SetFormatter(prevFormatter)
	})
	return &buf
}

func TestBuild(t *testing.T) {
	l := build(env(map[string]string{"APP_ENV": "test", "LOG_LEVEL": "warn", "LOG_FORMAT": "JSON"}))
	assert.Equal(t, logrus.WarnLevel, l.GetLevel())
	assert.IsType(t, &logrus.JSONFormatter{}, l.Formatter)

	l = build(env(map[string]string{"APP_ENV": "test", "LOG_LEVEL": "nonsense"}))
	assert.Equal(t, logrus.DebugLevel, l.GetLevel())
}

func TestErrorWithTraceID(t *testing.T) {
	buf := capture(t)

	id := ErrorWithTraceID(Fields{RequestIDKey: "req-9"}, "boom")
	assert.Equal(t, "req-9", id)
	assert.Contains(t, buf.String(), `"trace_id":"req-9"`)

	generated := ErrorWithTraceID(nil, "boom")
	require.Len(t, generated, 36)

	// non-string request ids must not panic
	assert.NotEmpty(t, ErrorWithTraceID(Fields{RequestIDKey: 42}, "boom"))
}

func TestWithRequestID(t *testing.T) {
	buf := capture(t)

	WithRequestID(contextPkg.WithRequestID(context.Background(), "req-1")).Info("hello")
	assert.Contains(t, buf.String(), `"request_id":"req-1"`)

	buf.Reset()
	WithRequestID(context.Background()).Info("hello")
	assert.Contains(t, buf.String(), `"request_id":"unknown"`)
}
