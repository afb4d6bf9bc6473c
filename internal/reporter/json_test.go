package reporter

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wharflab/tidyrun/internal/diag"
)

func TestJSONReporter(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	err := NewJSONReporter(&buf).Report(sampleDiagnostics(), ReportMetadata{
		FilesAnalyzed: 7,
		Checks:        []string{"-*", "bugprone-*", "modernize-use-nullptr"},
	})
	require.NoError(t, err)

	var out JSONOutput
	require.NoError(t, json.Unmarshal(buf.Bytes(), &out), buf.String())

	assert.Equal(t, 7, out.FilesAnalyzed)
	assert.Equal(t, []string{"-*", "bugprone-*", "modernize-use-nullptr"}, out.Checks)
	assert.Equal(t, Summary{Total: 2, Warnings: 2, Notes: 1, Files: 2}, out.Summary)

	require.Len(t, out.Files, 2)
	assert.Equal(t, "src/a.cpp", out.Files[0].File)
	assert.Equal(t, "src/b.cpp", out.Files[1].File)

	moved := out.Files[0].Diagnostics[0]
	assert.Equal(t, diag.KindWarning, moved.Kind)
	assert.Equal(t, "bugprone-use-after-move", moved.Check)
	require.Len(t, moved.Notes, 1)
	assert.Equal(t, diag.KindNote, moved.Notes[0].Kind)
	assert.Equal(t, "  take(std::move(v));\n  ^", moved.Notes[0].Body)
}

func TestJSONReporter_Fields(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	require.NoError(t, NewJSONReporter(&buf).Report(sampleDiagnostics()[:1], ReportMetadata{}))

	var raw map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &raw))

	assert.Equal(t, []any{}, raw["checks"])
	files := raw["files"].([]any)
	first := files[0].(map[string]any)["diagnostics"].([]any)[0].(map[string]any)
	assert.Equal(t, "warning", first["kind"])
	assert.Equal(t, map[string]any{"path": "src/b.cpp", "line": float64(3), "column": float64(12)}, first["location"])
	assert.NotContains(t, first, "notes")
}

func TestJSONReporter_Empty(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	require.NoError(t, NewJSONReporter(&buf).Report(nil, ReportMetadata{FilesAnalyzed: 3}))

	var out JSONOutput
	require.NoError(t, json.Unmarshal(buf.Bytes(), &out))
	assert.Empty(t, out.Files)
	assert.Equal(t, 0, out.Summary.Total)
	assert.Contains(t, buf.String(), `"files": []`)
}
