// Package s3store keeps the whole dataset as one JSON document in an
// S3-compatible bucket (AWS, MinIO, ...).
package s3store

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/url"
	"sync"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/smithy-go"
	"go.uber.org/zap"

	"github.com/gmllt/talentboard/internal/hr"
	"github.com/gmllt/talentboard/internal/store"
)

// DefaultKey is the object key of the document when none is configured.
const DefaultKey = "talentboard.json"

const opTimeout = 10 * time.Second

// Config locates the bucket and document.
type Config struct {
	Endpoint     string `yaml:"endpoint"`
	Bucket       string `yaml:"bucket"`
	Key          string `yaml:"key"`
	Region       string `yaml:"region"`
	AccessKey    string `yaml:"access_key"`
	SecretKey    string `yaml:"secret_key"`
	UsePathStyle bool   `yaml:"use_path_style"`
}

// API is the subset of *s3.Client the store uses.
type API interface {
	HeadBucket(ctx context.Context, in *s3.HeadBucketInput, optFns ...func(*s3.Options)) (*s3.HeadBucketOutput, error)
	GetObject(ctx context.Context, in *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
	PutObject(ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// NewClient initializes an S3 client for cfg. It works with MinIO and other
// S3-compatible services.
func NewClient(ctx context.Context, cfg Config) (*s3.Client, error) {
	if cfg.Endpoint == "" {
		return nil, errors.New("S3 endpoint is required")
	}
	if _, err := url.Parse(cfg.Endpoint); err != nil {
		return nil, fmt.Errorf("invalid S3 endpoint: %w", err)
	}
	awsCfg, err := config.LoadDefaultConfig(ctx,
		config.WithRegion(cfg.Region),
		config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretKey, "")),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}
	return s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		o.BaseEndpoint = aws.String(cfg.Endpoint)
		o.UsePathStyle = cfg.UsePathStyle
	}), nil
}

// Store implements store.Store on top of one S3 object. Every write loads the
// document, applies the change and saves it back; writes from this process are
// serialised, writes from other processes are last-write-wins.
type Store struct {
	api    API
	bucket string
	key    string
	logger *zap.Logger
	now    func() time.Time

	mu sync.Mutex
}

var _ store.Store = (*Store)(nil)

func New(api API, cfg Config, logger *zap.Logger) *Store {
	key := cfg.Key
	if key == "" {
		key = DefaultKey
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Store{api: api, bucket: cfg.Bucket, key: key, logger: logger, now: time.Now}
}

// EnsureBucket fails when the configured bucket does not exist or cannot be
// reached.
func (s *Store) EnsureBucket(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()
	_, err := s.api.HeadBucket(ctx, &s3.HeadBucketInput{Bucket: aws.String(s.bucket)})
	if err != nil {
		if isNotFound(err) {
			return fmt.Errorf("bucket %s does not exist", s.bucket)
		}
		return fmt.Errorf("error checking bucket: %w", err)
	}
	return nil
}

func isNotFound(err error) bool {
	var apiErr smithy.APIError
	if !errors.As(err, &apiErr) {
		return false
	}
	switch apiErr.ErrorCode() {
	case "NoSuchKey", "NotFound", "NoSuchBucket":
		return true
	}
	return false
}

func (s *Store) load(ctx context.Context) (*store.Document, error) {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()
	resp, err := s.api.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(s.key),
	})
	if err != nil {
		if isNotFound(err) {
			s.logger.Info("document not found on S3, starting empty", zap.String("key", s.key))
			return &store.Document{}, nil
		}
		return nil, fmt.Errorf("error loading document from S3: %w", err)
	}
	defer resp.Body.Close()
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("error reading document: %w", err)
	}
	var doc store.Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("error decoding document json: %w", err)
	}
	return &doc, nil
}

func (s *Store) save(ctx context.Context, doc *store.Document) error {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()
	data, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("error encoding document json: %w", err)
	}
	_, err = s.api.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(s.key),
		Body:        bytes.NewReader(data),
		ContentType: aws.String("application/json"),
	})
	if err != nil {
		return fmt.Errorf("error saving document to S3: %w", err)
	}
	return nil
}

func (s *Store) read(ctx context.Context, fn func(*store.Document) error) error {
	doc, err := s.load(ctx)
	if err != nil {
		return err
	}
	return fn(doc)
}

func (s *Store) write(ctx context.Context, fn func(*store.Document, time.Time) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	doc, err := s.load(ctx)
	if err != nil {
		return err
	}
	if err := fn(doc, s.now()); err != nil {
		return err
	}
	return s.save(ctx, doc)
}

func (s *Store) ListTalents(ctx context.Context, search string) (out []hr.Talent, err error) {
	err = s.read(ctx, func(d *store.Document) error {
		out = d.ListTalents(search)
		return nil
	})
	return out, err
}

func (s *Store) GetTalent(ctx context.Context, id string) (out hr.Talent, err error) {
	err = s.read(ctx, func(d *store.Document) error {
		out, err = d.Talent(id)
		return err
	})
	return out, err
}

func (s *Store) CreateTalent(ctx context.Context, t *hr.Talent) error {
	return s.write(ctx, func(d *store.Document, now time.Time) error { return d.CreateTalent(t, now) })
}

func (s *Store) UpdateTalent(ctx context.Context, t *hr.Talent) error {
	return s.write(ctx, func(d *store.Document, now time.Time) error { return d.UpdateTalent(t, now) })
}

func (s *Store) DeleteTalent(ctx context.Context, id string) error {
	return s.write(ctx, func(d *store.Document, _ time.Time) error { return d.DeleteTalent(id) })
}

func (s *Store) ListProcesses(ctx context.Context) (out []hr.SelectionProcess, err error) {
	err = s.read(ctx, func(d *store.Document) error {
		out = d.ListProcesses()
		return nil
	})
	return out, err
}

func (s *Store) GetProcess(ctx context.Context, id string) (out hr.SelectionProcess, err error) {
	err = s.read(ctx, func(d *store.Document) error {
		out, err = d.Process(id)
		return err
	})
	return out, err
}

func (s *Store) CreateProcess(ctx context.Context, p *hr.SelectionProcess) error {
	return s.write(ctx, func(d *store.Document, now time.Time) error { return d.CreateProcess(p, now) })
}

func (s *Store) UpdateProcessCategory(ctx context.Context, id string, c hr.Category) (out hr.SelectionProcess, err error) {
	err = s.write(ctx, func(d *store.Document, now time.Time) error {
		out, err = d.UpdateProcessCategory(id, c, now)
		return err
	})
	return out, err
}

func (s *Store) DeleteProcess(ctx context.Context, id string) error {
	return s.write(ctx, func(d *store.Document, _ time.Time) error { return d.DeleteProcess(id) })
}

func (s *Store) ListApplications(ctx context.Context, processID string) (out []hr.Application, err error) {
	err = s.read(ctx, func(d *store.Document) error {
		out, err = d.ListApplications(processID)
		return err
	})
	return out, err
}

func (s *Store) GetApplication(ctx context.Context, id string) (out hr.Application, err error) {
	err = s.read(ctx, func(d *store.Document) error {
		out, err = d.Application(id)
		return err
	})
	return out, err
}

func (s *Store) CreateApplication(ctx context.Context, a *hr.Application) error {
	return s.write(ctx, func(d *store.Document, now time.Time) error { return d.CreateApplication(a, now) })
}

func (s *Store) UpdateApplicationStep(ctx context.Context, id string, step hr.Step) (out hr.Application, err error) {
	err = s.write(ctx, func(d *store.Document, now time.Time) error {
		out, err = d.UpdateApplicationStep(id, step, now)
		return err
	})
	return out, err
}

func (s *Store) Close() error { return nil }
