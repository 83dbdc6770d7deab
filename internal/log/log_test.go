package log

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func observe(t *testing.T) *observer.ObservedLogs {
	t.Helper()
	core, logs := observer.New(zap.DebugLevel)
	prev := L()
	SetLogger(zap.New(core))
	t.Cleanup(func() { SetLogger(prev) })
	return logs
}

func TestLevelsAndFields(t *testing.T) {
	logs := observe(t)

	Info(nil, "session.start", map[string]any{"session": "s-1"})
	Audit(nil, "sale.checkout", map[string]any{"sale_id": int64(7)})
	Security(nil, "validation.fail", nil)
	Error(nil, "store.save.fail", errors.New("disk full"), nil)

	entries := logs.AllUntimed()
	require.Len(t, entries, 4)

	assert.Equal(t, "session.start", entries[0].Message)
	assert.Equal(t, zap.InfoLevel, entries[0].Level)

	fields := entries[1].ContextMap()["fields"].(map[string]any)
	assert.Equal(t, true, fields["audit"])
	assert.Equal(t, int64(7), fields["sale_id"])

	assert.Equal(t, zap.WarnLevel, entries[2].Level)

	assert.Equal(t, zap.ErrorLevel, entries[3].Level)
	assert.Equal(t, "disk full", entries[3].ContextMap()["err"])
}

func TestAuditDoesNotMutateCallerFields(t *testing.T) {
	observe(t)
	fields := map[string]any{"sale_id": 1}
	Audit(nil, "sale.checkout", fields)
	_, ok := fields["audit"]
	assert.False(t, ok)
}
