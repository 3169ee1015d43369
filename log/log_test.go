package log

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewWritesJSON(t *testing.T) {
	var buf bytes.Buffer
	l := New(&buf, InfoLevel)
	l.Named("loader").Info("lap data loaded", Int("rows", 3))
	l.Debug("not written")

	out := buf.String()
	assert.Contains(t, out, `"msg":"lap data loaded"`)
	assert.Contains(t, out, `"logger":"loader"`)
	assert.Contains(t, out, `"rows":3`)
	assert.NotContains(t, out, "not written")
}

func TestSetLevel(t *testing.T) {
	var buf bytes.Buffer
	l := New(&buf, InfoLevel)
	l.SetLevel(DebugLevel)
	assert.Equal(t, DebugLevel, l.Level())
	l.Debug("now visible")
	assert.Contains(t, buf.String(), "now visible")
}

func TestContext(t *testing.T) {
	assert.Equal(t, Default(), GetFromContext(context.Background()))

	l := New(&bytes.Buffer{}, InfoLevel)
	ctx := AddToContext(context.Background(), l)
	assert.Same(t, l, GetFromContext(ctx))
}

func TestWithFilter(t *testing.T) {
	var buf bytes.Buffer
	l := New(&buf, DebugLevel)
	filtered, err := l.WithFilter("debug:model info,warn,error:*")
	require.NoError(t, err)

	filtered.Named("model").Debug("model debug")
	filtered.Named("strategy").Debug("strategy debug")
	filtered.Named("strategy").Info("strategy info")

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 2)
	assert.Contains(t, lines[0], "model debug")
	assert.Contains(t, lines[1], "strategy info")
}

func TestWithFilterEmptyRules(t *testing.T) {
	l := New(&bytes.Buffer{}, InfoLevel)
	got, err := l.WithFilter("")
	require.NoError(t, err)
	assert.Same(t, l, got)
}
