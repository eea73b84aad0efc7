// Package logging provides structured, context-aware logging for sqscan,
// built on Zap.
//
// The scan id and the module key being processed travel in the
// context.Context and are attached to every entry, so interleaved log lines
// from a multi-module resolution stay attributable:
//
//	ctx := logging.WithScanID(ctx, scanID)
//	ctx = logging.WithModuleKey(ctx, "com.foo.project:module1")
//	logger.Info(ctx, "module resolved")
//
// Property values that carry credentials must never be logged verbatim; use
// PropertyField, which redacts sensitive property names.
package logging
