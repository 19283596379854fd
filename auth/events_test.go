package auth

import (
	"bytes"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLogEvents_AccountCreated(t *testing.T) {
	var buf bytes.Buffer
	events := NewLogEvents(slog.New(slog.NewTextHandler(&buf, nil)))

	events.AccountCreated("c0ffee", "user", "user@app.com")

	out := buf.String()
	assert.Contains(t, out, "msg=\"account created\"")
	assert.Contains(t, out, "account_id=c0ffee")
	assert.Contains(t, out, "username=user")
	assert.Contains(t, out, "email=user@app.com")
}
