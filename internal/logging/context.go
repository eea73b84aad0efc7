// internal/logging/context.go
package logging

import (
	"context"

	"go.uber.org/zap"
)

// ContextFields extracts correlation data from context.
func ContextFields(ctx context.Context) []zap.Field {
	fields := make([]zap.Field, 0, 2)

	if scanID := ScanIDFromContext(ctx); scanID != "" {
		fields = append(fields, zap.String("scan.id", scanID))
	}
	if moduleKey := ModuleKeyFromContext(ctx); moduleKey != "" {
		fields = append(fields, zap.String("module.key", moduleKey))
	}

	return fields
}

// Context key types
type scanCtxKey struct{}
type moduleCtxKey struct{}

// ScanIDFromContext extracts the scan id from context.
func ScanIDFromContext(ctx context.Context) string {
	if s, ok := ctx.Value(scanCtxKey{}).(string); ok {
		return s
	}
	return ""
}

// WithScanID adds the scan id to context. Panics on an empty id.
func WithScanID(ctx context.Context, scanID string) context.Context {
	if scanID == "" {
		panic("logging: scan id cannot be empty")
	}
	return context.WithValue(ctx, scanCtxKey{}, scanID)
}

// ModuleKeyFromContext extracts the module key being processed from context.
func ModuleKeyFromContext(ctx context.Context) string {
	if m, ok := ctx.Value(moduleCtxKey{}).(string); ok {
		return m
	}
	return ""
}

// WithModuleKey adds the module key being processed to context.
func WithModuleKey(ctx context.Context, moduleKey string) context.Context {
	return context.WithValue(ctx, moduleCtxKey{}, moduleKey)
}

// loggerCtxKey is the context key for Logger.
type loggerCtxKey struct{}

// WithLogger stores logger in context.
func WithLogger(ctx context.Context, logger *Logger) context.Context {
	return context.WithValue(ctx, loggerCtxKey{}, logger)
}

// FromContext retrieves logger from context.
// Returns a nop logger if not found.
func FromContext(ctx context.Context) *Logger {
	if l, ok := ctx.Value(loggerCtxKey{}).(*Logger); ok {
		return l
	}
	return Nop()
}
