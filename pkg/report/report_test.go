package report

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/ohler55/ojg/oj"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/mpapenbr/tyrestrat/pkg/config"
	"github.com/mpapenbr/tyrestrat/pkg/pipeline"
	"github.com/mpapenbr/tyrestrat/testsupport/basedata"
)

func sampleReport(t *testing.T) *pipeline.Report {
	t.Helper()
	r, err := pipeline.Run(context.Background(), basedata.SampleRaceForModel(), config.DefaultConfig())
	require.NoError(t, err)
	return r
}

func TestWriteJSON(t *testing.T) {
	r := sampleReport(t)
	var buf bytes.Buffer
	require.NoError(t, WriteJSON(&buf, r, ""))

	parsed, err := oj.ParseString(buf.String())
	require.NoError(t, err)
	doc, ok := parsed.(map[string]any)
	require.True(t, ok)
	assert.Equal(t, r.RunID, doc["runId"])
	strategies, ok := doc["strategies"].([]any)
	require.True(t, ok)
	assert.Len(t, strategies, 5)
	first, ok := strategies[0].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "1S (M-H)", first["name"])
}

func TestWriteJSONQuery(t *testing.T) {
	r := sampleReport(t)
	tests := []struct {
		name  string
		query string
		want  any
	}{
		{"strategy names", "$.strategies[*].name", []any{
			"1S (M-H)", "1S (H-M)", "1S (H-H)", "2S (M-H-H)", "2S (H-M-M)",
		}},
		{"stint count", "$.stints.count", []any{int64(6)}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			require.NoError(t, WriteJSON(&buf, r, tt.query))
			got, err := oj.ParseString(buf.String())
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestWriteJSONInvalidQuery(t *testing.T) {
	r := sampleReport(t)
	var buf bytes.Buffer
	assert.Error(t, WriteJSON(&buf, r, "$.strategies[1"))
}

func TestWriteYAML(t *testing.T) {
	r := sampleReport(t)
	var buf bytes.Buffer
	require.NoError(t, WriteYAML(&buf, r))

	var doc map[string]any
	require.NoError(t, yaml.Unmarshal(buf.Bytes(), &doc))
	assert.Equal(t, r.RunID, doc["runId"])
	strategies, ok := doc["strategies"].([]any)
	require.True(t, ok)
	assert.Len(t, strategies, 5)
	models, ok := doc["models"].([]any)
	require.True(t, ok)
	assert.Len(t, models, 2)
}

func TestWriteText(t *testing.T) {
	r := sampleReport(t)
	var buf bytes.Buffer
	require.NoError(t, WriteText(&buf, r))
	out := buf.String()

	assert.Contains(t, out, "Avg Stints - Med: 18.7, Hard: 37.3")
	assert.Contains(t, out, "- Medium compound: 0.000 seconds per lap")
	assert.Contains(t, out, "--- Strategies (Laps: 56, Pit Loss: 21.0s) ---")
	idx := -1
	for _, name := range []string{"1S (M-H)", "1S (H-M)", "1S (H-H)", "2S (M-H-H)", "2S (H-M-M)"} {
		pos := strings.Index(out, "- "+name)
		require.GreaterOrEqual(t, pos, 0, name)
		assert.Greater(t, pos, idx, "generation order")
		idx = pos
	}
}

func TestSecondsAndFixed(t *testing.T) {
	assert.Equal(t, 1.235, seconds(1.23456))
	assert.Equal(t, 0.0, seconds(0.0001))
	assert.Equal(t, "18.7", fixed(18.6666, 1))
	assert.Equal(t, "21.00", fixed(21, 2))
}

func TestWritePlot(t *testing.T) {
	r := sampleReport(t)
	path := filepath.Join(t.TempDir(), "degradation.png")
	require.NoError(t, WritePlot(path, r.Model, 32, 45))

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(content, []byte("\x89PNG")))
}
