package sink

import (
	"bytes"
	"context"
	"fmt"
	"log"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// S3Config configures the optional transcript archive.
type S3Config struct {
	Endpoint  string
	Region    string
	AccessKey string
	SecretKey string
	Bucket    string
	UseSSL    bool
}

// S3ConfigFromEnv reads TRANSCRIPT_S3_* variables. Returns ok=false when no
// endpoint is configured.
func S3ConfigFromEnv() (S3Config, bool) {
	cfg := S3Config{
		Endpoint:  strings.TrimSpace(os.Getenv("TRANSCRIPT_S3_ENDPOINT")),
		Region:    strings.TrimSpace(os.Getenv("TRANSCRIPT_S3_REGION")),
		AccessKey: strings.TrimSpace(os.Getenv("TRANSCRIPT_S3_ACCESS_KEY")),
		SecretKey: strings.TrimSpace(os.Getenv("TRANSCRIPT_S3_SECRET_KEY")),
		Bucket:    strings.TrimSpace(os.Getenv("TRANSCRIPT_S3_BUCKET")),
		UseSSL:    os.Getenv("TRANSCRIPT_S3_USE_SSL") == "true",
	}
	return cfg, cfg.Endpoint != ""
}

// TranscriptStore archives every prompt/response pair to S3-compatible
// storage, keyed by phase label. It plugs into the client chain as a
// llm.PromptHook via llm.WithHook.
type TranscriptStore struct {
	client *minio.Client
	bucket string
	region string

	initOnce sync.Once
	initErr  error

	log *log.Logger
}

// NewTranscriptStore builds the store; the bucket is created lazily on first
// upload.
func NewTranscriptStore(cfg S3Config, logger *log.Logger) (*TranscriptStore, error) {
	if cfg.Endpoint == "" {
		return nil, fmt.Errorf("sink: s3 endpoint is required")
	}
	if cfg.AccessKey == "" || cfg.SecretKey == "" {
		return nil, fmt.Errorf("sink: s3 access key and secret key are required")
	}
	if cfg.Bucket == "" {
		return nil, fmt.Errorf("sink: s3 bucket is required")
	}
	region := cfg.Region
	if region == "" {
		region = "us-east-1"
	}
	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
		Region: region,
	})
	if err != nil {
		return nil, fmt.Errorf("sink: init s3 client: %w", err)
	}
	if logger == nil {
		logger = log.Default()
	}
	return &TranscriptStore{client: client, bucket: cfg.Bucket, region: region, log: logger}, nil
}

func (t *TranscriptStore) ensureBucket(ctx context.Context) error {
	t.initOnce.Do(func() {
		exists, err := t.client.BucketExists(ctx, t.bucket)
		if err != nil {
			t.initErr = err
			return
		}
		if !exists {
			t.initErr = t.client.MakeBucket(ctx, t.bucket,
				minio.MakeBucketOptions{Region: t.region})
		}
	})
	return t.initErr
}

// Before archives the outbound prompt.
func (t *TranscriptStore) Before(ctx context.Context, phase, prompt string) {
	t.put(ctx, phase, "prompt", prompt)
}

// After archives the response, or the error text when the call failed.
func (t *TranscriptStore) After(ctx context.Context, phase, response string, err error) {
	if err != nil {
		t.put(ctx, phase, "error", err.Error())
		return
	}
	t.put(ctx, phase, "response", response)
}

// put is best-effort: an archive failure is logged, never propagated into
// the pipeline.
func (t *TranscriptStore) put(ctx context.Context, phase, kind, body string) {
	if err := t.ensureBucket(ctx); err != nil {
		t.log.Printf("transcript: ensure bucket: %v", err)
		return
	}
	key := fmt.Sprintf("%s/%s-%s.txt", phase, time.Now().UTC().Format("20060102T150405.000"), kind)
	r := bytes.NewReader([]byte(body))
	_, err := t.client.PutObject(ctx, t.bucket, key, r, int64(r.Len()),
		minio.PutObjectOptions{ContentType: "text/plain; charset=utf-8"})
	if err != nil {
		t.log.Printf("transcript: put %s: %v", key, err)
	}
}
