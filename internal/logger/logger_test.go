package logger

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestHTTPRequest_Levels(t *testing.T) {
	var buf bytes.Buffer
	InitializeWithWriter(&buf, "info", "json")
	t.Cleanup(func() { Initialize("info", "text") })

	ctx := WithContext(context.Background(), "request_id", "req-1")
	HTTPRequest(ctx, "GET", "/healthz", 200, 3*time.Millisecond)
	HTTPRequest(ctx, "POST", "/api/v1/drafts", 400, time.Millisecond)
	HTTPRequest(ctx, "GET", "/api/v1/admin/dashboard", 500, time.Millisecond)

	out := buf.String()
	assert.Contains(t, out, `"level":"INFO"`)
	assert.Contains(t, out, `"level":"WARN"`)
	assert.Contains(t, out, `"level":"ERROR"`)
	assert.Contains(t, out, `"request_id":"req-1"`)
	assert.Contains(t, out, `"path":"/api/v1/drafts"`)
}

func TestDebugHelpersRespectLevel(t *testing.T) {
	var buf bytes.Buffer
	InitializeWithWriter(&buf, "info", "text")
	t.Cleanup(func() { Initialize("info", "text") })

	EnterMethod("voting.Recompute")
	DatabaseCall("SELECT", "evaluations")
	assert.Empty(t, buf.String())

	DatabaseResult("SELECT", 0, errors.New("boom"))
	assert.Contains(t, buf.String(), "Database call failed")
}

func TestParseLevel(t *testing.T) {
	assert.Equal(t, "DEBUG", parseLevel("debug").String())
	assert.Equal(t, "WARN", parseLevel("warning").String())
	assert.Equal(t, "INFO", parseLevel("nonsense").String())
}
