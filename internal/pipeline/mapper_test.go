package pipeline

import (
	"context"
	"errors"
	"io"
	"log"
	"testing"

	"github.com/stretchr/testify/require"

	"naturaledit/internal/summary"
	"naturaledit/internal/util/jsonutil"
)

func newMapper(fn func(string) (string, error)) (*Mapper, *scriptedLLM) {
	cli := &scriptedLLM{fn: fn}
	return &Mapper{LLM: cli, Log: log.New(io.Discard, "", 0)}, cli
}

func TestMap_SubstringInvariantDropsEntries(t *testing.T) {
	m, _ := newMapper(func(string) (string, error) {
		return `[
			{"summaryComponent":"Computes total.","codeSegments":[]},
			{"summaryComponent":"NOT PRESENT","codeSegments":[{"code":"x","line":1}]}
		]`, nil
	})
	got, err := m.Map(context.Background(), summary.CodeFragment{Code: "total = 0"}, "Computes total.")
	require.NoError(t, err)
	require.Len(t, got, 1)
	require.Equal(t, "Computes total.", got[0].SummaryComponent)
	require.Equal(t, []summary.CodeSegment{}, got[0].CodeSegments)
}

func TestMap_OrderPreserved(t *testing.T) {
	m, _ := newMapper(func(string) (string, error) {
		return `[
			{"summaryComponent":"reads the file","codeSegments":[]},
			{"summaryComponent":"missing","codeSegments":[]},
			{"summaryComponent":"computes totals","codeSegments":[]},
			{"summaryComponent":"writes output","codeSegments":[]}
		]`, nil
	})
	text := "It reads the file, computes totals, and writes output."
	got, err := m.Map(context.Background(), summary.CodeFragment{Code: "pass"}, text)
	require.NoError(t, err)
	require.Len(t, got, 3)
	require.Equal(t, "reads the file", got[0].SummaryComponent)
	require.Equal(t, "computes totals", got[1].SummaryComponent)
	require.Equal(t, "writes output", got[2].SummaryComponent)
}

func TestMap_NonArrayResponseYieldsEmpty(t *testing.T) {
	m, _ := newMapper(func(string) (string, error) {
		return `{"summaryComponent":"x"}`, nil
	})
	got, err := m.Map(context.Background(), summary.CodeFragment{Code: "pass"}, "x")
	require.NoError(t, err)
	require.NotNil(t, got)
	require.Empty(t, got)
}

func TestMap_SegmentCoercion(t *testing.T) {
	for _, raw := range []string{`"not a list"`, `null`, `7`, `{"code":"x"}`} {
		m, _ := newMapper(func(string) (string, error) {
			return `[{"summaryComponent":"sums","codeSegments":` + raw + `}]`, nil
		})
		got, err := m.Map(context.Background(), summary.CodeFragment{Code: "pass"}, "sums")
		require.NoError(t, err)
		require.Len(t, got, 1)
		require.Equal(t, []summary.CodeSegment{}, got[0].CodeSegments)
	}
}

func TestMap_SegmentsParsed(t *testing.T) {
	m, _ := newMapper(func(string) (string, error) {
		return `[{"summaryComponent":"sums","codeSegments":[
			{"code":"total += x","line":12},
			{"code":"return total","line":15}
		]}]`, nil
	})
	got, err := m.Map(context.Background(), summary.CodeFragment{Code: "pass"}, "sums")
	require.NoError(t, err)
	require.Len(t, got, 1)
	require.Equal(t, []summary.CodeSegment{
		{Code: "total += x", Line: 12},
		{Code: "return total", Line: 15},
	}, got[0].CodeSegments)
}

func TestMap_FencedResponse(t *testing.T) {
	m, _ := newMapper(func(string) (string, error) {
		return "```json\n[{\"summaryComponent\":\"sums\",\"codeSegments\":[]}]\n```", nil
	})
	got, err := m.Map(context.Background(), summary.CodeFragment{Code: "pass"}, "sums")
	require.NoError(t, err)
	require.Len(t, got, 1)
}

func TestMap_MalformedResponse(t *testing.T) {
	m, _ := newMapper(func(string) (string, error) {
		return "definitely not json", nil
	})
	_, err := m.Map(context.Background(), summary.CodeFragment{Code: "pass"}, "sums")
	var merr *jsonutil.MalformedResponseError
	require.True(t, errors.As(err, &merr))
	require.Equal(t, "definitely not json", merr.Raw)
}

func TestMap_ProviderErrorPropagates(t *testing.T) {
	want := errors.New("transport down")
	m, _ := newMapper(func(string) (string, error) { return "", want })
	_, err := m.Map(context.Background(), summary.CodeFragment{Code: "pass"}, "sums")
	require.ErrorIs(t, err, want)
}

func TestMap_PromptLineNumbering(t *testing.T) {
	m, cli := newMapper(func(string) (string, error) { return "[]", nil })
	frag := summary.CodeFragment{Code: "a = 1\nb = 2\nc = 3", StartLine: 10}
	_, err := m.Map(context.Background(), frag, "sums")
	require.NoError(t, err)
	prompts := cli.seen()
	require.Len(t, prompts, 1)
	require.Contains(t, prompts[0], "10: a = 1\n11: b = 2\n12: c = 3")
	require.Contains(t, prompts[0], "up to 10 key summary components")
}

func TestNumberLines_DefaultStart(t *testing.T) {
	got := numberLines(summary.CodeFragment{Code: "x\ny"})
	require.Equal(t, "1: x\n2: y", got)
}
