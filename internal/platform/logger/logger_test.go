package logger

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSanitizeKVsRedactsSecrets(t *testing.T) {
	jwt := "eyJhbGciOiJIUzI1NiJ9.eyJzZXNzaW9uSWQiOiJhYmMifQ.sig"
	out := sanitizeKVs([]interface{}{
		"sessionId", "abc",
		"token", "plain",
		"header", jwt,
		"dangling",
	})

	assert.Equal(t, []interface{}{
		"sessionId", "abc",
		"token", "[REDACTED]",
		"header", "[REDACTED]",
		"dangling",
	}, out)
}

func TestNopLoggerIsUsable(t *testing.T) {
	l := Nop()
	l.With("k", "v").Info("hello", "n", 1)
	l.Sync()
}
