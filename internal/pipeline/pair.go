package pipeline

import (
	"context"
	"log"
	"sync"
	"time"

	"naturaledit/internal/llm"
	"naturaledit/internal/summary"
)

// taskState tracks where a task is in its lifecycle. States advance strictly
// forward; any state can transition to stateFailed, which is terminal.
type taskState string

const (
	statePending        taskState = "PENDING"
	stateSummarizingOld taskState = "SUMMARIZING_OLD"
	stateSummarizingNew taskState = "SUMMARIZING_NEW"
	stateMappingOld     taskState = "MAPPING_OLD"
	stateMappingNew     taskState = "MAPPING_NEW"
	stateDone           taskState = "DONE"
	stateFailed         taskState = "FAILED"
)

// PairProcessor orchestrates the summarizer and mapper over an old/new code
// pair. It is the single recovery boundary of the pipeline: any error from
// the summarize/map sequence converts the task into the degenerate error
// shape instead of propagating.
type PairProcessor struct {
	Summarizer *Summarizer
	Mapper     *Mapper
	Log        *log.Logger

	// Now is swappable for tests; defaults to time.Now.
	Now func() time.Time
}

// ProcessPair runs summarize(old) -> summarize(new, with old as reference) ->
// per-level mapping for both versions. The two summarizations are strictly
// ordered; the per-level mapping calls within each version fan out
// concurrently.
func (p *PairProcessor) ProcessPair(ctx context.Context, oldCode, newCode, fileContext, taskID string) summary.PairResult {
	p.transition(taskID, statePending)

	oldFrag := summary.CodeFragment{Code: oldCode, FileContext: fileContext}
	newFrag := summary.CodeFragment{Code: newCode, FileContext: fileContext}

	fail := func(err error) summary.PairResult {
		p.transition(taskID, stateFailed)
		p.logf("task %s: error processing code pair: %v", taskID, err)
		return summary.PairResult{
			TaskID:      taskID,
			Err:         err.Error(),
			RawOld:      oldCode,
			RawNew:      newCode,
			FileContext: fileContext,
		}
	}

	p.transition(taskID, stateSummarizingOld)
	oldSummary, err := p.Summarizer.Summarize(
		llm.WithPhase(ctx, taskID+"/summarize_old"), oldFrag)
	if err != nil {
		return fail(err)
	}

	p.transition(taskID, stateSummarizingNew)
	newSummary, err := p.Summarizer.SummarizeWithReference(
		llm.WithPhase(ctx, taskID+"/summarize_new"), newFrag, oldFrag, oldSummary)
	if err != nil {
		return fail(err)
	}

	p.transition(taskID, stateMappingOld)
	oldMappings, err := p.mapVersion(ctx, taskID+"/map_old", oldFrag, oldSummary)
	if err != nil {
		return fail(err)
	}

	p.transition(taskID, stateMappingNew)
	newMappings, err := p.mapVersion(ctx, taskID+"/map_new", newFrag, newSummary)
	if err != nil {
		return fail(err)
	}

	p.transition(taskID, stateDone)
	return summary.PairResult{
		TaskID:      taskID,
		FileContext: fileContext,
		Meta:        summary.Metadata{ProcessingTimestamp: p.now().UTC().Format(time.RFC3339)},
		Old:         &summary.VersionResult{Code: oldCode, Summary: oldSummary, Mappings: oldMappings},
		New:         &summary.VersionResult{Code: newCode, Summary: newSummary, Mappings: newMappings},
	}
}

// mapVersion fans out one mapping call per non-empty summary level and joins
// them. Levels with an empty slot produce no map key at all. The first error
// wins; remaining goroutines still run to completion before it is returned.
func (p *PairProcessor) mapVersion(ctx context.Context, phase string, frag summary.CodeFragment, rec summary.Record) (map[summary.Level][]summary.MappingEntry, error) {
	var (
		mu       sync.Mutex
		wg       sync.WaitGroup
		firstErr error
	)
	out := make(map[summary.Level][]summary.MappingEntry)

	for _, lvl := range summary.Levels {
		text := rec.At(lvl)
		if text == "" {
			continue
		}
		wg.Add(1)
		go func(lvl summary.Level, text string) {
			defer wg.Done()
			entries, err := p.Mapper.Map(
				llm.WithPhase(ctx, phase+"/"+string(lvl)), frag, text)
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				if firstErr == nil {
					firstErr = err
				}
				return
			}
			out[lvl] = entries
		}(lvl, text)
	}
	wg.Wait()

	if firstErr != nil {
		return nil, firstErr
	}
	return out, nil
}

func (p *PairProcessor) now() time.Time {
	if p.Now != nil {
		return p.Now()
	}
	return time.Now()
}

func (p *PairProcessor) transition(taskID string, s taskState) {
	p.logf("task %s: %s", taskID, s)
}

func (p *PairProcessor) logf(format string, args ...any) {
	if p.Log != nil {
		p.Log.Printf(format, args...)
		return
	}
	log.Printf(format, args...)
}
