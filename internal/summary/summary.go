// Package summary defines the layered data model of the study pipeline:
// code fragments, fixed-shape multi-level summary records, and
// summary-component-to-code-segment mappings.
package summary

// CodeFragment is a contiguous span of source text. FileContext is same-file
// surrounding code, provided to the model for reference only. StartLine is
// the 1-based line number of the fragment's first line in the original file
// and anchors the coordinate space of mapped code segments.
type CodeFragment struct {
	Code        string
	FileContext string
	StartLine   int
}

// Start returns the fragment's starting line, defaulting to 1.
func (f CodeFragment) Start() int {
	if f.StartLine <= 0 {
		return 1
	}
	return f.StartLine
}

// Level identifies one of the six (detail x structure) summary granularities.
type Level string

const (
	LowUnstructured    Level = "low_unstructured"
	LowStructured      Level = "low_structured"
	MediumUnstructured Level = "medium_unstructured"
	MediumStructured   Level = "medium_structured"
	HighUnstructured   Level = "high_unstructured"
	HighStructured     Level = "high_structured"
)

// Levels lists all six summary levels in canonical order.
var Levels = []Level{
	LowUnstructured,
	LowStructured,
	MediumUnstructured,
	MediumStructured,
	HighUnstructured,
	HighStructured,
}

// Record is the fixed-shape summary of one code fragment: a title plus the
// six level slots. Structured slots hold a single newline-separated string
// using "•" for first-level bullets and two-space-indented "◦" for second
// level, never an array. All seven fields are always present when emitted;
// a slot the model failed to produce is an empty string, not a missing key.
type Record struct {
	Title              string `json:"title"`
	LowUnstructured    string `json:"low_unstructured"`
	LowStructured      string `json:"low_structured"`
	MediumUnstructured string `json:"medium_unstructured"`
	MediumStructured   string `json:"medium_structured"`
	HighUnstructured   string `json:"high_unstructured"`
	HighStructured     string `json:"high_structured"`
}

// At returns the summary text for the given level.
func (r Record) At(l Level) string {
	switch l {
	case LowUnstructured:
		return r.LowUnstructured
	case LowStructured:
		return r.LowStructured
	case MediumUnstructured:
		return r.MediumUnstructured
	case MediumStructured:
		return r.MediumStructured
	case HighUnstructured:
		return r.HighUnstructured
	case HighStructured:
		return r.HighStructured
	}
	return ""
}

// CodeSegment is one code match for a summary component. Line is 1-based in
// the original fragment's coordinate space (offset by the fragment's start
// line).
type CodeSegment struct {
	Code string `json:"code"`
	Line int    `json:"line"`
}

// MappingEntry links a verbatim substring of a summary to the code segments
// that realize it. CodeSegments is always a slice, possibly empty, never nil
// when marshaled.
type MappingEntry struct {
	SummaryComponent string        `json:"summaryComponent"`
	CodeSegments     []CodeSegment `json:"codeSegments"`
}
