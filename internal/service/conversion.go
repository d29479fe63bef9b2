// Package service holds the conversion use cases shared by the HTTP layer.
package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"slidemd/internal/archive"
	"slidemd/internal/backend"
	"slidemd/internal/logging"
	"slidemd/internal/metrics"
	"slidemd/internal/model"
	"slidemd/internal/repository"
	"slidemd/internal/storage"
)

// DefaultFilename names uploads whose multipart part carries no filename.
const DefaultFilename = "upload.pptx"

var (
	ErrUnsupportedExtension = errors.New("Only .ppt or .pptx files are supported")
	ErrReaderNil            = errors.New("reader is nil")
	ErrIDRequired           = errors.New("id is required")
	ErrNotFound             = errors.New("conversion not found")
	ErrHistoryDisabled      = errors.New("conversion history is not configured")
	ErrStorageDisabled      = errors.New("archive storage is not configured")
	ErrNoArchive            = errors.New("conversion has no stored archive")
	ErrTimeout              = errors.New("conversion timed out")
)

var allowedExtensions = map[string]bool{".ppt": true, ".pptx": true}

// Backends resolves converters by name. *backend.Registry satisfies it.
type Backends interface {
	Get(name string) (backend.Backend, error)
	Tools() map[string]bool
}

// ConvertResult is a finished conversion and its ZIP archive.
type ConvertResult struct {
	Conversion *model.Conversion
	Archive    []byte
}

// ConversionListResult is the service-level DTO for paginated history.
type ConversionListResult struct {
	Items []model.Conversion `json:"data"`
	Total int                `json:"total"`
}

// Readiness reports the state of optional dependencies.
type Readiness struct {
	Ready    bool            `json:"ready"`
	Database string          `json:"database"`
	Storage  string          `json:"storage"`
	Tools    map[string]bool `json:"tools"`
}

// ConversionService defines the conversion use cases.
type ConversionService interface {
	// Convert stages r as filename, runs the named backend into
	// <OutputDir>/<stem> and returns the zipped output directory.
	Convert(ctx context.Context, backendName string, r io.Reader, filename string) (*ConvertResult, error)

	// List returns recorded conversions, newest first.
	List(ctx context.Context, limit, offset int) (*ConversionListResult, error)

	// Get returns a single recorded conversion.
	Get(ctx context.Context, id string) (*model.Conversion, error)

	// ArchiveURL returns a pre-signed download link for a mirrored archive.
	ArchiveURL(ctx context.Context, id string) (string, error)

	// Readiness checks the configured database and object store.
	Readiness(ctx context.Context) Readiness
}

// Options configures a ConversionService. Repo, Store and Metrics are optional.
type Options struct {
	OutputDir     string
	Timeout       time.Duration
	PresignExpiry time.Duration

	Repo    repository.ConversionRepository
	Store   storage.Storage
	Metrics *metrics.Conversions
	Logger  *logging.Logger
}

type conversionService struct {
	backends Backends
	opts     Options
	log      *logging.Logger
	tracer   trace.Tracer
	now      func() time.Time
}

// NewConversionService constructs a ConversionService.
func NewConversionService(backends Backends, opts Options) ConversionService {
	log := opts.Logger
	if log == nil {
		log = logging.Discard()
	}
	if opts.PresignExpiry <= 0 {
		opts.PresignExpiry = 15 * time.Minute
	}
	return &conversionService{
		backends: backends,
		opts:     opts,
		log:      log,
		tracer:   otel.Tracer("slidemd/service"),
		now:      time.Now,
	}
}

// SplitFilename reduces an upload name to its base name and stem, and
// rejects anything that is not a .ppt or .pptx file.
func SplitFilename(filename string) (base, stem string, err error) {
	if filename == "" {
		filename = DefaultFilename
	}
	base = path.Base(strings.ReplaceAll(filename, `\`, "/"))
	ext := path.Ext(base)
	stem = strings.TrimSuffix(base, ext)
	if !allowedExtensions[strings.ToLower(ext)] || stem == "" || stem == "." || stem == ".." {
		return "", "", ErrUnsupportedExtension
	}
	return base, stem, nil
}

// outputDirFor returns the absolute root/stem, refusing any stem that does
// not name a direct child of root.
func outputDirFor(root, stem string) (string, error) {
	abs, err := filepath.Abs(root)
	if err != nil {
		return "", fmt.Errorf("resolve output directory: %w", err)
	}
	dir := filepath.Join(abs, stem)
	if filepath.Dir(dir) != abs {
		return "", ErrUnsupportedExtension
	}
	return dir, nil
}

// ArchiveName is the download name for a stem's archive.
func ArchiveName(stem string) string {
	return "conversion_" + stem + ".zip"
}

func (s *conversionService) Convert(ctx context.Context, backendName string, r io.Reader, filename string) (*ConvertResult, error) {
	if r == nil {
		return nil, ErrReaderNil
	}
	base, stem, err := SplitFilename(filename)
	if err != nil {
		return nil, err
	}
	outDir, err := outputDirFor(s.opts.OutputDir, stem)
	if err != nil {
		return nil, err
	}
	b, err := s.backends.Get(backendName)
	if err != nil {
		return nil, err
	}

	ctx, span := s.tracer.Start(ctx, "conversion.convert", trace.WithAttributes(
		attribute.String("conversion.backend", backendName),
		attribute.String("conversion.filename", base),
	))
	defer span.End()

	start := s.now()
	conv := &model.Conversion{
		ID:             uuid.NewString(),
		Backend:        backendName,
		SourceFilename: base,
		Stem:           stem,
		OutputDir:      outDir,
		ArchiveName:    ArchiveName(stem),
		CreatedAt:      start.UTC(),
	}
	span.SetAttributes(attribute.String("conversion.id", conv.ID))

	data, err := s.run(ctx, b, r, base, conv.OutputDir)
	conv.DurationMs = s.now().Sub(start).Milliseconds()
	if err != nil {
		conv.Status = model.ConversionFailed
		conv.Error = err.Error()
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		s.finish(ctx, conv, nil)
		return nil, err
	}

	conv.Status = model.ConversionSucceeded
	conv.ArchiveSize = int64(len(data))
	s.finish(ctx, conv, data)
	return &ConvertResult{Conversion: conv, Archive: data}, nil
}

// run stages the upload in a private temporary directory, converts it into
// outDir and zips the result. The staging directory is removed on return.
func (s *conversionService) run(ctx context.Context, b backend.Backend, r io.Reader, base, outDir string) ([]byte, error) {
	staging, err := os.MkdirTemp("", "slidemd-*")
	if err != nil {
		return nil, fmt.Errorf("create staging directory: %w", err)
	}
	defer os.RemoveAll(staging)
	// Backends may run with the output directory as their working directory.
	if abs, err := filepath.Abs(staging); err == nil {
		staging = abs
	}

	input := filepath.Join(staging, base)
	if err := writeUpload(input, r); err != nil {
		return nil, err
	}

	if err := os.RemoveAll(outDir); err != nil {
		return nil, fmt.Errorf("clear output directory: %w", err)
	}
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return nil, fmt.Errorf("create output directory: %w", err)
	}

	runCtx := ctx
	if s.opts.Timeout > 0 {
		var cancel context.CancelFunc
		runCtx, cancel = context.WithTimeout(ctx, s.opts.Timeout)
		defer cancel()
	}
	if err := b.Convert(runCtx, backend.NewJob(input, outDir)); err != nil {
		if errors.Is(runCtx.Err(), context.DeadlineExceeded) && ctx.Err() == nil {
			return nil, fmt.Errorf("%w after %s: %w", ErrTimeout, s.opts.Timeout, err)
		}
		return nil, err
	}

	return archive.ZipDirectory(outDir)
}

func writeUpload(dst string, r io.Reader) error {
	f, err := os.Create(dst)
	if err != nil {
		return fmt.Errorf("stage upload: %w", err)
	}
	if _, err := io.Copy(f, r); err != nil {
		f.Close()
		return fmt.Errorf("stage upload: %w", err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("stage upload: %w", err)
	}
	return nil
}

// finish mirrors the archive, records history, updates metrics and logs.
// None of these steps can fail the conversion.
func (s *conversionService) finish(ctx context.Context, conv *model.Conversion, data []byte) {
	fields := map[string]any{
		"component":     "conversion",
		"conversion_id": conv.ID,
		"backend":       conv.Backend,
		"stem":          conv.Stem,
	}

	if data != nil && s.opts.Store != nil {
		key := storage.ArchiveKey(conv.ID, conv.ArchiveName)
		_, err := s.opts.Store.Put(ctx, key, bytes.NewReader(data), storage.PutObjectOptions{
			Size:        int64(len(data)),
			ContentType: "application/zip",
			Metadata: map[string]string{
				"original-filename": conv.SourceFilename,
				"backend":           conv.Backend,
			},
		})
		if err != nil {
			s.log.Warn("archive_mirror_failed", with(fields, "error", err.Error()))
		} else {
			conv.StorageKey = key
		}
	}

	if s.opts.Repo != nil {
		if _, err := s.opts.Repo.Create(ctx, conv); err != nil {
			s.log.Warn("history_record_failed", with(fields, "error", err.Error()))
			if conv.StorageKey != "" {
				if delErr := s.opts.Store.Delete(ctx, conv.StorageKey); delErr != nil {
					s.log.Warn("archive_rollback_failed", with(fields, "error", delErr.Error()))
				}
				conv.StorageKey = ""
			}
		}
	}

	s.opts.Metrics.Observe(conv.Backend, string(conv.Status), time.Duration(conv.DurationMs)*time.Millisecond, conv.ArchiveSize)

	fields["status"] = string(conv.Status)
	fields["duration_ms"] = conv.DurationMs
	if conv.Status == model.ConversionFailed {
		s.log.Error("conversion_failed", with(fields, "error", conv.Error))
		return
	}
	fields["archive_size"] = conv.ArchiveSize
	s.log.Info("conversion_succeeded", fields)
}

func with(fields map[string]any, k string, v any) map[string]any {
	out := make(map[string]any, len(fields)+1)
	for fk, fv := range fields {
		out[fk] = fv
	}
	out[k] = v
	return out
}

// List returns paginated history without exposing repository types.
func (s *conversionService) List(ctx context.Context, limit, offset int) (*ConversionListResult, error) {
	if s.opts.Repo == nil {
		return nil, ErrHistoryDisabled
	}
	if limit <= 0 {
		limit = 10
	}
	if limit > 100 {
		limit = 100
	}
	if offset < 0 {
		offset = 0
	}

	res, err := s.opts.Repo.List(ctx, repository.PageQuery{Limit: limit, Offset: offset})
	if err != nil {
		return nil, err
	}
	return &ConversionListResult{Items: res.Items, Total: res.Total}, nil
}

// Get returns a conversion by ID.
func (s *conversionService) Get(ctx context.Context, id string) (*model.Conversion, error) {
	if s.opts.Repo == nil {
		return nil, ErrHistoryDisabled
	}
	if id == "" {
		return nil, ErrIDRequired
	}
	conv, err := s.opts.Repo.FindByID(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return conv, nil
}

func (s *conversionService) ArchiveURL(ctx context.Context, id string) (string, error) {
	if s.opts.Store == nil {
		return "", ErrStorageDisabled
	}
	conv, err := s.Get(ctx, id)
	if err != nil {
		return "", err
	}
	if conv.StorageKey == "" {
		return "", ErrNoArchive
	}
	return s.opts.Store.PresignGet(ctx, conv.StorageKey, s.opts.PresignExpiry)
}

func (s *conversionService) Readiness(ctx context.Context) Readiness {
	rd := Readiness{Ready: true, Database: "disabled", Storage: "disabled", Tools: s.backends.Tools()}

	if s.opts.Repo != nil {
		rd.Database = "ok"
		if err := s.opts.Repo.Ping(ctx); err != nil {
			rd.Database = err.Error()
			rd.Ready = false
		}
	}
	if s.opts.Store != nil {
		rd.Storage = "ok"
		if err := s.opts.Store.Ping(ctx); err != nil {
			rd.Storage = err.Error()
			rd.Ready = false
		}
	}
	return rd
}
