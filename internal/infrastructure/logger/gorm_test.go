package logger

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
	gormlogger "gorm.io/gorm/logger"
)

func statement(sql string, rows int64) func() (string, int64) {
	return func() (string, int64) { return sql, rows }
}

func TestGormLogger_LogModeReturnsCopy(t *testing.T) {
	gl := NewGormLogger(zap.NewNop(), gormlogger.Info, 0)
	changed, ok := gl.LogMode(gormlogger.Error).(*GormLogger)
	require.True(t, ok)
	assert.Equal(t, gormlogger.Info, gl.level)
	assert.Equal(t, gormlogger.Error, changed.level)
}

func TestGormLogger_Trace(t *testing.T) {
	tenantID := uuid.New()

	tests := []struct {
		name      string
		level     gormlogger.LogLevel
		begin     time.Time
		err       error
		wantMsg   string
		wantLevel zapcore.Level
	}{
		{"error is logged", gormlogger.Warn, time.Now(), errors.New("boom"), "sql error", zapcore.ErrorLevel},
		{"slow query warns", gormlogger.Warn, time.Now().Add(-time.Second), nil, "slow sql", zapcore.WarnLevel},
		{"info level logs every statement", gormlogger.Info, time.Now(), nil, "sql", zapcore.DebugLevel},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			core, recorded := observer.New(zapcore.DebugLevel)
			gl := NewGormLogger(zap.New(core), tt.level, 100*time.Millisecond)
			ctx, _ := WithTenant(context.Background(), zap.NewNop(), tenantID)

			gl.Trace(ctx, tt.begin, statement("SELECT 1", 1), tt.err)

			entries := recorded.All()
			require.Len(t, entries, 1)
			assert.Equal(t, tt.wantMsg, entries[0].Message)
			assert.Equal(t, tt.wantLevel, entries[0].Level)
			assert.Equal(t, tenantID.String(), entries[0].ContextMap()["tenant_id"])
			assert.Equal(t, "SELECT 1", entries[0].ContextMap()["sql"])
		})
	}
}

func TestGormLogger_TraceSkipsQuietCases(t *testing.T) {
	core, recorded := observer.New(zapcore.DebugLevel)

	NewGormLogger(zap.New(core), gormlogger.Warn, 0).
		Trace(context.Background(), time.Now(), statement("SELECT 1", 0), gormlogger.ErrRecordNotFound)
	NewGormLogger(zap.New(core), gormlogger.Warn, 0).
		Trace(context.Background(), time.Now().Add(-time.Hour), statement("SELECT 1", 0), nil)
	NewGormLogger(zap.New(core), gormlogger.Silent, 0).
		Trace(context.Background(), time.Now(), statement("SELECT 1", 0), errors.New("boom"))

	assert.Zero(t, recorded.Len())
}

func TestMapGormLogLevel(t *testing.T) {
	assert.Equal(t, gormlogger.Silent, MapGormLogLevel("silent"))
	assert.Equal(t, gormlogger.Info, MapGormLogLevel("debug"))
	assert.Equal(t, gormlogger.Warn, MapGormLogLevel("info"))
	assert.Equal(t, gormlogger.Error, MapGormLogLevel("error"))
}
