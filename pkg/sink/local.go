package sink

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Record is a stored submission as the Local sink keeps it.
type Record struct {
	ID        string    `json:"id"`
	CreatedAt time.Time `json:"created_at"`
	Fields    Fields    `json:"fields"`
}

// collectionFile is the on-disk layout of one collection.
type collectionFile struct {
	Version   int       `json:"version"`
	UpdatedAt string    `json:"updated_at"`
	Records   []*Record `json:"records"`
}

const localVersion = 1

// Local keeps records in one JSON file per collection under dir and blobs under
// dir/blobs. It is meant for development and single-instance deployments.
type Local struct {
	dir        string
	publicBase string
	logger     *slog.Logger
	now        func() time.Time

	mu sync.Mutex
}

// LocalOption configures a Local sink.
type LocalOption func(*Local)

// WithPublicBase sets the URL prefix returned for uploaded blobs. The server
// serves dir/blobs under this prefix.
func WithPublicBase(base string) LocalOption {
	return func(l *Local) {
		l.publicBase = strings.TrimRight(base, "/")
	}
}

// WithLocalLogger sets the logger.
func WithLocalLogger(logger *slog.Logger) LocalOption {
	return func(l *Local) {
		l.logger = logger
	}
}

// NewLocal creates a Local sink rooted at dir, creating it if needed.
func NewLocal(dir string, opts ...LocalOption) (*Local, error) {
	if dir == "" {
		return nil, fmt.Errorf("%w: local directory", ErrNotConfigured)
	}
	l := &Local{
		dir:        dir,
		publicBase: "/files",
		logger:     slog.Default(),
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(l)
	}
	if err := os.MkdirAll(l.BlobDir(), 0755); err != nil {
		return nil, fmt.Errorf("failed to create directory: %w", err)
	}
	return l, nil
}

// BlobDir is where uploaded blobs are written.
func (l *Local) BlobDir() string {
	return filepath.Join(l.dir, "blobs")
}

// CreateRecord appends a record to the collection file.
func (l *Local) CreateRecord(ctx context.Context, collection string, fields Fields) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", wrap("local", "create", collection, err)
	}
	if collection == "" {
		return "", ErrEmptyCollection
	}
	if strings.ContainsAny(collection, `/\.`) {
		return "", wrap("local", "create", collection, fmt.Errorf("invalid collection name"))
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	stored, err := l.load(collection)
	if err != nil {
		return "", wrap("local", "create", collection, err)
	}

	now := l.now()
	rec := &Record{
		ID:        uuid.New().String(),
		CreatedAt: now.UTC(),
		Fields:    resolve(fields, now),
	}
	stored.Records = append(stored.Records, rec)

	if err := l.save(collection, stored); err != nil {
		return "", wrap("local", "create", collection, err)
	}
	l.logger.Debug("record stored", "collection", collection, "id", rec.ID)
	return rec.ID, nil
}

// UploadBlob writes data under the blob directory.
func (l *Local) UploadBlob(ctx context.Context, blobPath string, data []byte, contentType string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", wrap("local", "upload", blobPath, err)
	}
	clean := path.Clean("/" + blobPath)
	if blobPath == "" || clean == "/" {
		return "", ErrEmptyPath
	}

	target := filepath.Join(l.BlobDir(), filepath.FromSlash(clean))
	if err := os.MkdirAll(filepath.Dir(target), 0755); err != nil {
		return "", wrap("local", "upload", blobPath, err)
	}
	if err := writeAtomic(target, data); err != nil {
		return "", wrap("local", "upload", blobPath, err)
	}
	l.logger.Debug("blob stored", "path", clean, "bytes", len(data), "content_type", contentType)
	return l.publicBase + clean, nil
}

// Records returns the records of a collection, oldest first.
func (l *Local) Records(collection string) ([]*Record, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	stored, err := l.load(collection)
	if err != nil {
		return nil, err
	}
	recs := stored.Records
	sort.SliceStable(recs, func(i, j int) bool {
		return recs[i].CreatedAt.Before(recs[j].CreatedAt)
	})
	return recs, nil
}

// Close is a no-op.
func (l *Local) Close() error {
	return nil
}

func (l *Local) collectionPath(collection string) string {
	return filepath.Join(l.dir, collection+".json")
}

// load reads a collection file. Caller holds mu.
func (l *Local) load(collection string) (*collectionFile, error) {
	data, err := os.ReadFile(l.collectionPath(collection))
	if os.IsNotExist(err) {
		return &collectionFile{Version: localVersion}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}

	var stored collectionFile
	if err := json.Unmarshal(data, &stored); err != nil {
		return nil, fmt.Errorf("failed to parse JSON: %w", err)
	}
	return &stored, nil
}

// save writes a collection file. Caller holds mu.
func (l *Local) save(collection string, stored *collectionFile) error {
	stored.Version = localVersion
	stored.UpdatedAt = l.now().UTC().Format(time.RFC3339)

	data, err := json.MarshalIndent(stored, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}
	return writeAtomic(l.collectionPath(collection), data)
}

// writeAtomic writes to a temp file first, then renames it into place.
func writeAtomic(target string, data []byte) error {
	tmpPath := target + ".tmp"
	if err := os.WriteFile(tmpPath, data, 0644); err != nil {
		return fmt.Errorf("failed to write temp file: %w", err)
	}
	if err := os.Rename(tmpPath, target); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("failed to rename temp file: %w", err)
	}
	return nil
}

var _ Sink = (*Local)(nil)
