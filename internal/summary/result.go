package summary

import "encoding/json"

// Metadata carries run bookkeeping for an enriched task.
type Metadata struct {
	ProcessingTimestamp string `json:"processing_timestamp"`
}

// VersionResult is the enriched record for one side of a code pair. Mappings
// holds one entry sequence per non-empty summary level; levels whose summary
// slot is empty are omitted entirely.
type VersionResult struct {
	Code     string                   `json:"code"`
	Summary  Record                   `json:"summary"`
	Mappings map[Level][]MappingEntry `json:"mappings"`
}

// PairResult is the outcome of processing one code pair. A result is either
// fully enriched (Old/New populated) or degenerate (Err set, raw code
// preserved, all derived fields absent); it is never half-enriched.
type PairResult struct {
	TaskID      string
	FileContext string
	Meta        Metadata
	Old         *VersionResult
	New         *VersionResult

	// Degenerate shape.
	Err    string
	RawOld string
	RawNew string
}

// Failed reports whether the task degenerated to the error shape.
func (r PairResult) Failed() bool { return r.Err != "" }

// MarshalJSON emits the enriched shape or, when Err is set, the degenerate
// {task_id, error, old_code, new_code, file_context} shape with the raw code
// strings and no derived fields.
func (r PairResult) MarshalJSON() ([]byte, error) {
	if r.Failed() {
		return json.Marshal(struct {
			TaskID      string `json:"task_id"`
			Error       string `json:"error"`
			OldCode     string `json:"old_code"`
			NewCode     string `json:"new_code"`
			FileContext string `json:"file_context"`
		}{r.TaskID, r.Err, r.RawOld, r.RawNew, r.FileContext})
	}
	return json.Marshal(struct {
		TaskID      string         `json:"task_id"`
		FileContext string         `json:"file_context"`
		Metadata    Metadata       `json:"metadata"`
		OldCode     *VersionResult `json:"old_code"`
		NewCode     *VersionResult `json:"new_code"`
	}{r.TaskID, r.FileContext, r.Meta, r.Old, r.New})
}
