package logger

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestSanitizeKVs(t *testing.T) {
	jwtLike := "eyJhbGciOiJIUzI1NiJ9.eyJzZXNzaW9uSWQiOiJ4In0.sig"

	out := sanitizeKVs([]interface{}{
		"api_key", "AIza-secret",
		"session_id", "abc",
		"raw", jwtLike,
		"attempt", 2,
		"dangling",
	})

	assert.Equal(t, "[REDACTED]", out[1])
	assert.True(t, strings.HasPrefix(out[3].(string), "hash:"))
	assert.Len(t, out[3].(string), len("hash:")+12)
	assert.Equal(t, "[REDACTED]", out[5])
	assert.Equal(t, 2, out[7])
	assert.Equal(t, "dangling", out[8])
}

func TestLoggerRedactsThroughZap(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	l := &Logger{SugaredLogger: zap.New(core).Sugar()}

	l.With("component", "test").Warn("calling upstream", "token", "t0ps3cret", "status", 503)

	entries := logs.All()
	if assert.Len(t, entries, 1) {
		fields := entries[0].ContextMap()
		assert.Equal(t, "[REDACTED]", fields["token"])
		assert.Equal(t, "test", fields["component"])
		assert.EqualValues(t, 503, fields["status"])
	}
}

func TestNop(t *testing.T) {
	l := Nop()
	l.Info("ignored", "k", "v")
	l.Sync()
}
