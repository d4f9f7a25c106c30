package summary

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"
)

func keysOf(t *testing.T, b []byte) map[string]json.RawMessage {
	t.Helper()
	var m map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(b, &m))
	return m
}

func TestPairResult_MarshalEnriched(t *testing.T) {
	r := PairResult{
		TaskID:      "t1",
		FileContext: "scraper.py",
		Meta:        Metadata{ProcessingTimestamp: "2026-08-26T00:00:00Z"},
		Old: &VersionResult{
			Code:    "x = 1",
			Summary: Record{Title: "t"},
			Mappings: map[Level][]MappingEntry{
				LowUnstructured: {{SummaryComponent: "t", CodeSegments: []CodeSegment{}}},
			},
		},
		New: &VersionResult{Code: "x = 2", Mappings: map[Level][]MappingEntry{}},
	}
	b, err := json.Marshal(r)
	require.NoError(t, err)

	m := keysOf(t, b)
	require.Contains(t, m, "task_id")
	require.Contains(t, m, "metadata")
	require.Contains(t, m, "old_code")
	require.Contains(t, m, "new_code")
	require.NotContains(t, m, "error")

	old := keysOf(t, m["old_code"])
	require.Contains(t, old, "summary")
	require.Contains(t, old, "mappings")

	// All seven summary keys are present even when empty.
	sum := keysOf(t, old["summary"])
	for _, k := range []string{"title", "low_unstructured", "low_structured",
		"medium_unstructured", "medium_structured", "high_unstructured", "high_structured"} {
		require.Contains(t, sum, k)
	}
}

func TestPairResult_MarshalDegenerate(t *testing.T) {
	r := PairResult{
		TaskID:      "t2",
		Err:         "boom",
		RawOld:      "old code",
		RawNew:      "new code",
		FileContext: "ctx",
	}
	b, err := json.Marshal(r)
	require.NoError(t, err)

	m := keysOf(t, b)
	require.Len(t, m, 5)
	require.Contains(t, m, "task_id")
	require.Contains(t, m, "error")
	require.Contains(t, m, "old_code")
	require.Contains(t, m, "new_code")
	require.Contains(t, m, "file_context")

	var oldCode string
	require.NoError(t, json.Unmarshal(m["old_code"], &oldCode))
	require.Equal(t, "old code", oldCode)
}

func TestRecord_At(t *testing.T) {
	r := Record{LowStructured: "• a", HighUnstructured: "long text"}
	require.Equal(t, "• a", r.At(LowStructured))
	require.Equal(t, "long text", r.At(HighUnstructured))
	require.Equal(t, "", r.At(MediumStructured))
}

func TestFragment_Start(t *testing.T) {
	require.Equal(t, 1, CodeFragment{}.Start())
	require.Equal(t, 42, CodeFragment{StartLine: 42}.Start())
}
