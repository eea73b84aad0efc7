// internal/logging/redact.go
package logging

import (
	"strconv"
	"strings"

	"go.uber.org/zap"
)

// sensitiveMarkers flag property names whose values must not reach the logs.
var sensitiveMarkers = []string{"login", "password", "token", "secret", "passphrase"}

// IsSensitiveKey reports whether a property name looks credential-bearing.
func IsSensitiveKey(key string) bool {
	lower := strings.ToLower(key)
	for _, marker := range sensitiveMarkers {
		if strings.Contains(lower, marker) {
			return true
		}
	}
	return false
}

// RedactedString creates a Zap field with redacted value and length.
func RedactedString(key, val string) zap.Field {
	return zap.String(key, "[REDACTED:"+strconv.Itoa(len(val))+"]")
}

// PropertyField creates a Zap field for a property, redacting the value when
// the property name is sensitive.
func PropertyField(key, val string) zap.Field {
	if IsSensitiveKey(key) {
		return RedactedString(key, val)
	}
	return zap.String(key, val)
}
