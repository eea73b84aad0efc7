package logging

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
)

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{
			name:   "defaults are valid",
			mutate: func(c *Config) {},
		},
		{
			name:   "json format",
			mutate: func(c *Config) { c.Format = "json" },
		},
		{
			name:    "unknown format",
			mutate:  func(c *Config) { c.Format = "xml" },
			wantErr: true,
		},
		{
			name:    "empty field key",
			mutate:  func(c *Config) { c.Fields = map[string]string{"": "x"} },
			wantErr: true,
		},
		{
			name:    "empty field value",
			mutate:  func(c *Config) { c.Fields = map[string]string{"service": ""} },
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := NewDefaultConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestLevelFromString(t *testing.T) {
	level, err := LevelFromString("trace")
	require.NoError(t, err)
	assert.Equal(t, TraceLevel, level)

	level, err = LevelFromString("debug")
	require.NoError(t, err)
	assert.Equal(t, zapcore.DebugLevel, level)

	_, err = LevelFromString("bogus")
	assert.Error(t, err)
}

func TestContextFields(t *testing.T) {
	ctx := context.Background()
	assert.Empty(t, ContextFields(ctx))

	ctx = WithScanID(ctx, "scan-123")
	ctx = WithModuleKey(ctx, "com.foo.project:module1")

	fields := ContextFields(ctx)
	require.Len(t, fields, 2)
	assert.Equal(t, "scan.id", fields[0].Key)
	assert.Equal(t, "scan-123", fields[0].String)
	assert.Equal(t, "module.key", fields[1].Key)
	assert.Equal(t, "com.foo.project:module1", fields[1].String)
}

func TestWithScanIDPanicsOnEmpty(t *testing.T) {
	assert.Panics(t, func() { WithScanID(context.Background(), "") })
}

func TestLoggerFromContext(t *testing.T) {
	logger := NewTestLogger()
	ctx := WithLogger(context.Background(), logger.Logger)
	assert.Same(t, logger.Logger, FromContext(ctx))

	// Missing logger falls back to nop instead of panicking.
	assert.NotNil(t, FromContext(context.Background()))
}

func TestContextFieldsAttachedToEntries(t *testing.T) {
	logger := NewTestLogger()
	ctx := WithScanID(context.Background(), "scan-xyz")

	logger.Info(ctx, "module resolved")

	entries := logger.All()
	require.Len(t, entries, 1)
	require.Len(t, entries[0].Context, 1)
	assert.Equal(t, "scan.id", entries[0].Context[0].Key)
}

func TestPropertyFieldRedaction(t *testing.T) {
	field := PropertyField("sonar.password", "hunter22")
	assert.Equal(t, "[REDACTED:8]", field.String)

	field = PropertyField("sonar.login", "admin")
	assert.Equal(t, "[REDACTED:5]", field.String)

	field = PropertyField("sonar.projectKey", "com.foo.project")
	assert.Equal(t, "com.foo.project", field.String)
}

func TestIsSensitiveKey(t *testing.T) {
	assert.True(t, IsSensitiveKey("sonar.password"))
	assert.True(t, IsSensitiveKey("SONAR.LOGIN"))
	assert.True(t, IsSensitiveKey("registry.token"))
	assert.False(t, IsSensitiveKey("sonar.sources"))
}

func TestTraceRespectsLevel(t *testing.T) {
	cfg := NewDefaultConfig()
	logger, err := NewLogger(cfg)
	require.NoError(t, err)

	// Info-level logger must report trace as disabled.
	assert.False(t, logger.Enabled(TraceLevel))
	assert.True(t, logger.Enabled(zapcore.InfoLevel))
}
