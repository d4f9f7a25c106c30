package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"

	"naturaledit/internal/llm"
	"naturaledit/internal/pipeline"
	"naturaledit/internal/sink"
	"naturaledit/internal/tasksrc"
)

func main() {
	tasksPath := flag.String("tasks", "data/tasks.csv", "path to the tasks CSV file")
	outPath := flag.String("out", "output/processed_tasks.json", "output JSON file")
	provider := flag.String("provider", "openai", "completion provider: openai, gemini, fake")
	model := flag.String("model", "", "model id (provider default when empty)")
	parallel := flag.Int("parallel", 1, "number of tasks processed concurrently")
	flag.Parse()

	_ = godotenv.Load()

	ctx := context.Background()
	base, err := newClient(ctx, *provider, *model)
	if err != nil {
		log.Fatal(err)
	}

	mws := []llm.Middleware{
		llm.RateLimitFromEnv("LLM", strings.ToUpper(*provider)),
		llm.WithLogging(nil),
	}
	if size, _ := strconv.Atoi(os.Getenv("LLM_CACHE")); size > 0 {
		mws = append(mws, llm.Cache(size))
	}
	if cfg, ok := sink.S3ConfigFromEnv(); ok {
		ts, err := sink.NewTranscriptStore(cfg, nil)
		if err != nil {
			log.Fatal(err)
		}
		mws = append(mws, llm.WithHook(ts))
	}
	cli := llm.Wrap(base, mws...)
	defer cli.Close()

	tasks, err := tasksrc.Load(*tasksPath)
	if err != nil {
		log.Fatal(err)
	}
	log.Printf("loaded %d code pairs from %s", len(tasks), *tasksPath)

	pg, err := sink.NewPGSinkFromEnv()
	if err != nil {
		log.Fatal(err)
	}
	if pg != nil {
		defer pg.Close()
	}

	proc := &pipeline.PairProcessor{
		Summarizer: &pipeline.Summarizer{LLM: cli},
		Mapper:     &pipeline.Mapper{LLM: cli},
	}
	out := &sink.FileSink{Path: *outPath}

	results := run(ctx, proc, tasks, *parallel, out, pg)

	if err := out.Write(results); err != nil {
		log.Fatal(err)
	}
	successful := 0
	for _, r := range results {
		if !r.Failed() {
			successful++
		}
	}
	log.Printf("results saved to %s", *outPath)
	log.Printf("total pairs processed: %d (successful: %d, errors: %d)",
		len(results), successful, len(results)-successful)
}

func newClient(ctx context.Context, provider, model string) (llm.Client, error) {
	switch provider {
	case "openai":
		return llm.NewOpenAIClient(nil, model), nil
	case "gemini":
		return llm.NewGeminiClient(ctx, nil, model)
	case "fake":
		return llm.NewFakeClient(), nil
	default:
		return nil, fmt.Errorf("unknown provider %q", provider)
	}
}
