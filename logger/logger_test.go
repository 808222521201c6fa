package logger_test

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/storefront/storefront/logger"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func TestConfig_New(t *testing.T) {
	tests := []struct {
		format string
		want   string
	}{
		{format: "json", want: `"msg":"hello"`},
		{format: "logfmt", want: `msg=hello`},
		{format: "auto", want: `msg=hello`}, // a buffer is never a terminal
		{format: "console", want: "hello"},
	}

	for _, tt := range tests {
		t.Run(tt.format, func(t *testing.T) {
			var buf bytes.Buffer
			c := logger.Config{Format: tt.format, Level: zapcore.InfoLevel}

			log, err := c.New(&buf)
			require.NoError(t, err)

			log.Info("hello", zap.String("table", "users"))
			log.Debug("dropped")
			require.NoError(t, log.Sync())

			out := buf.String()
			require.Contains(t, out, tt.want)
			require.Contains(t, out, "users")
			require.False(t, strings.Contains(out, "dropped"))
		})
	}
}

func TestConfig_NewUnknownFormat(t *testing.T) {
	c := logger.Config{Format: "xml"}
	_, err := c.New(&bytes.Buffer{})
	require.EqualError(t, err, "unknown logging format: xml")
}

func TestFromContext(t *testing.T) {
	require.NotNil(t, logger.FromContext(context.Background()))

	log := zap.NewExample()
	ctx := logger.NewContextWithLogger(context.Background(), log)
	require.Same(t, log, logger.FromContext(ctx))
}

func TestFromContextOr(t *testing.T) {
	fallback := zap.NewExample()
	require.Same(t, fallback, logger.FromContextOr(context.Background(), fallback))

	log := zap.NewExample()
	ctx := logger.NewContextWithLogger(context.Background(), log)
	require.Same(t, log, logger.FromContextOr(ctx, fallback))
}
