package reporter

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wharflab/tidyrun/internal/diag"
)

func TestSARIFReporter(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	r := NewSARIFReporter(&buf, "tidyrun", "1.2.3", "")
	require.NoError(t, r.Report(sampleDiagnostics(), ReportMetadata{}))

	var sarif map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &sarif), buf.String())

	assert.NotNil(t, sarif["$schema"])
	assert.Equal(t, "2.1.0", sarif["version"])

	runs := sarif["runs"].([]any)
	require.Len(t, runs, 1)
	run := runs[0].(map[string]any)

	driver := run["tool"].(map[string]any)["driver"].(map[string]any)
	assert.Equal(t, "tidyrun", driver["name"])
	assert.Equal(t, "1.2.3", driver["version"])
	assert.Equal(t, defaultToolURI, driver["informationUri"])

	rules := driver["rules"].([]any)
	require.Len(t, rules, 2)
	first := rules[0].(map[string]any)
	assert.Equal(t, "bugprone-use-after-move", first["id"])
	assert.Equal(t, "https://clang.llvm.org/extra/clang-tidy/checks/bugprone/use-after-move.html", first["helpUri"])

	results := run["results"].([]any)
	require.Len(t, results, 2)

	moved := results[0].(map[string]any)
	assert.Equal(t, "bugprone-use-after-move", moved["ruleId"])
	assert.Equal(t, "warning", moved["level"])
	assert.Equal(t, "'v' used after it was moved", moved["message"].(map[string]any)["text"])

	loc := moved["locations"].([]any)[0].(map[string]any)["physicalLocation"].(map[string]any)
	assert.Equal(t, "src/a.cpp", loc["artifactLocation"].(map[string]any)["uri"])
	region := loc["region"].(map[string]any)
	assert.InDelta(t, 10, region["startLine"], 0)
	assert.InDelta(t, 5, region["startColumn"], 0)
	assert.Equal(t, "  use(v);\n      ^", region["snippet"].(map[string]any)["text"])

	related := moved["relatedLocations"].([]any)
	require.Len(t, related, 1)
	note := related[0].(map[string]any)
	assert.Equal(t, "move occurred here", note["message"].(map[string]any)["text"])
	noteRegion := note["physicalLocation"].(map[string]any)["region"].(map[string]any)
	assert.InDelta(t, 8, noteRegion["startLine"], 0)

	nullptr := results[1].(map[string]any)
	assert.NotContains(t, nullptr, "relatedLocations")
}

func TestSARIFReporter_NoCheck(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	err := NewSARIFReporter(&buf, "", "", "").Report([]diag.Diagnostic{{
		Location: diag.NewLocation("x.cpp", 1, 1),
		Kind:     diag.KindError,
		Message:  "broken",
	}}, ReportMetadata{})
	require.NoError(t, err)

	var sarif map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &sarif))
	run := sarif["runs"].([]any)[0].(map[string]any)
	result := run["results"].([]any)[0].(map[string]any)
	assert.Equal(t, noCheckRuleID, result["ruleId"])
	assert.Equal(t, "error", result["level"])
}

func TestCheckDocURL(t *testing.T) {
	t.Parallel()

	const base = "https://clang.llvm.org/extra/clang-tidy/checks/"
	tests := map[string]string{
		"modernize-use-nullptr":                  base + "modernize/use-nullptr.html",
		"clang-analyzer-core.NullDereference":    base + "clang-analyzer/core.NullDereference.html",
		"cppcoreguidelines-pro-type-cstyle-cast": base + "cppcoreguidelines/pro-type-cstyle-cast.html",
		"nodash":                                 base + "list.html",
		"trailing-":                              base + "list.html",
	}
	for check, want := range tests {
		assert.Equal(t, want, checkDocURL(check), check)
	}
}
