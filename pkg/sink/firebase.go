package sink

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/firestore/v1"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
	"google.golang.org/api/storage/v1"

	"github.com/teslashibe/showcase/internal/httpc"
)

// Default Firebase settings.
const (
	DefaultDatabase     = "(default)"
	DefaultDownloadBase = "https://firebasestorage.googleapis.com"

	// downloadTokenKey is the object metadata key Firebase reads download
	// tokens from.
	downloadTokenKey = "firebaseStorageDownloadTokens"
)

// FirebaseConfig configures the Firebase sink.
type FirebaseConfig struct {
	// ProjectID defaults to the project of the credentials.
	ProjectID string

	// Database is the Firestore database id.
	Database string

	// Bucket is the Cloud Storage bucket for attachments, e.g. "my-app.appspot.com".
	Bucket string

	// CredentialsFile is a service account JSON file. Empty means
	// application default credentials.
	CredentialsFile string

	// Endpoints override the Google API endpoints (emulators, tests).
	FirestoreEndpoint string
	StorageEndpoint   string
	DownloadBase      string

	// HTTPClient, when set, is used as-is and no credentials are loaded.
	HTTPClient *http.Client

	Logger *slog.Logger
}

// Firebase writes records to Firestore and blobs to Cloud Storage through the
// Google REST APIs.
type Firebase struct {
	docs    *firestore.Service
	objects *storage.Service

	project      string
	database     string
	bucket       string
	downloadBase string
	logger       *slog.Logger
}

// NewFirebase connects to Firestore and Cloud Storage.
func NewFirebase(ctx context.Context, cfg FirebaseConfig) (*Firebase, error) {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	client := cfg.HTTPClient
	if client == nil {
		base := httpc.Context(ctx)
		creds, err := loadCredentials(base, cfg.CredentialsFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load Google credentials: %w", err)
		}
		if cfg.ProjectID == "" {
			cfg.ProjectID = creds.ProjectID
		}
		client = oauth2.NewClient(base, creds.TokenSource)
	}

	if cfg.ProjectID == "" {
		return nil, fmt.Errorf("%w: firebase project id", ErrNotConfigured)
	}
	if cfg.Database == "" {
		cfg.Database = DefaultDatabase
	}
	if cfg.DownloadBase == "" {
		cfg.DownloadBase = DefaultDownloadBase
	}

	docOpts := []option.ClientOption{option.WithHTTPClient(client)}
	if cfg.FirestoreEndpoint != "" {
		docOpts = append(docOpts, option.WithEndpoint(cfg.FirestoreEndpoint))
	}
	docs, err := firestore.NewService(ctx, docOpts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create firestore service: %w", err)
	}

	objOpts := []option.ClientOption{option.WithHTTPClient(client)}
	if cfg.StorageEndpoint != "" {
		objOpts = append(objOpts, option.WithEndpoint(cfg.StorageEndpoint))
	}
	objects, err := storage.NewService(ctx, objOpts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create storage service: %w", err)
	}

	return &Firebase{
		docs:         docs,
		objects:      objects,
		project:      cfg.ProjectID,
		database:     cfg.Database,
		bucket:       cfg.Bucket,
		downloadBase: strings.TrimRight(cfg.DownloadBase, "/"),
		logger:       logger,
	}, nil
}

func loadCredentials(ctx context.Context, file string) (*google.Credentials, error) {
	scopes := []string{firestore.DatastoreScope, storage.DevstorageReadWriteScope}
	if file == "" {
		return google.FindDefaultCredentials(ctx, scopes...)
	}
	data, err := os.ReadFile(file)
	if err != nil {
		return nil, err
	}
	return google.CredentialsFromJSON(ctx, data, scopes...)
}

// databasePath is "projects/{project}/databases/{database}".
func (f *Firebase) databasePath() string {
	return fmt.Sprintf("projects/%s/databases/%s", f.project, f.database)
}

// CreateRecord commits a new document with a generated id. ServerTimestamp
// fields become REQUEST_TIME transforms so Firestore stamps them.
func (f *Firebase) CreateRecord(ctx context.Context, collection string, fields Fields) (string, error) {
	if collection == "" {
		return "", ErrEmptyCollection
	}

	id := uuid.New().String()
	name := fmt.Sprintf("%s/documents/%s/%s", f.databasePath(), collection, id)

	values := make(map[string]firestore.Value, len(fields))
	var transforms []*firestore.FieldTransform
	for k, v := range fields {
		if _, ok := v.(serverTimestamp); ok {
			transforms = append(transforms, &firestore.FieldTransform{
				FieldPath:        k,
				SetToServerValue: "REQUEST_TIME",
			})
			continue
		}
		values[k] = toValue(v)
	}

	write := &firestore.Write{
		Update: &firestore.Document{Name: name, Fields: values},
		CurrentDocument: &firestore.Precondition{
			Exists:          false,
			ForceSendFields: []string{"Exists"},
		},
		UpdateTransforms: transforms,
	}
	req := &firestore.CommitRequest{Writes: []*firestore.Write{write}}

	if _, err := f.docs.Projects.Databases.Documents.Commit(f.databasePath(), req).Context(ctx).Do(); err != nil {
		return "", wrap("firebase", "create", collection, err)
	}
	f.logger.Debug("firestore document created", "collection", collection, "id", id)
	return id, nil
}

// UploadBlob stores the object with a download token and returns the Firebase
// download URL for it.
func (f *Firebase) UploadBlob(ctx context.Context, path string, data []byte, contentType string) (string, error) {
	if path == "" {
		return "", ErrEmptyPath
	}
	if f.bucket == "" {
		return "", wrap("firebase", "upload", path, fmt.Errorf("%w: storage bucket", ErrNotConfigured))
	}
	if contentType == "" {
		contentType = http.DetectContentType(data)
	}

	token := uuid.New().String()
	obj := &storage.Object{
		Name:        path,
		ContentType: contentType,
		Metadata:    map[string]string{downloadTokenKey: token},
	}

	start := time.Now()
	_, err := f.objects.Objects.Insert(f.bucket, obj).
		Media(bytes.NewReader(data), googleapi.ContentType(contentType)).
		Context(ctx).
		Do()
	if err != nil {
		return "", wrap("firebase", "upload", path, err)
	}
	f.logger.Debug("storage object uploaded", "path", path, "bytes", len(data), "took", time.Since(start))
	return f.DownloadURL(path, token), nil
}

// DownloadURL builds the tokenized Firebase download URL for an object.
func (f *Firebase) DownloadURL(path, token string) string {
	return fmt.Sprintf("%s/v0/b/%s/o/%s?alt=media&token=%s",
		f.downloadBase, f.bucket, url.PathEscape(path), url.QueryEscape(token))
}

// Close is a no-op; the REST services hold no connections of their own.
func (f *Firebase) Close() error {
	return nil
}

// toValue converts a Go value into a Firestore value. Zero values are sent
// explicitly so empty strings stay strings.
func toValue(v any) firestore.Value {
	switch x := v.(type) {
	case nil:
		return firestore.Value{NullValue: "NULL_VALUE"}
	case string:
		return firestore.Value{StringValue: x, ForceSendFields: []string{"StringValue"}}
	case bool:
		return firestore.Value{BooleanValue: x, ForceSendFields: []string{"BooleanValue"}}
	case int:
		return firestore.Value{IntegerValue: int64(x), ForceSendFields: []string{"IntegerValue"}}
	case int64:
		return firestore.Value{IntegerValue: x, ForceSendFields: []string{"IntegerValue"}}
	case float64:
		return firestore.Value{DoubleValue: x, ForceSendFields: []string{"DoubleValue"}}
	case time.Time:
		return firestore.Value{TimestampValue: x.UTC().Format(time.RFC3339Nano)}
	case []string:
		vals := make([]*firestore.Value, 0, len(x))
		for _, s := range x {
			val := toValue(s)
			vals = append(vals, &val)
		}
		return firestore.Value{ArrayValue: &firestore.ArrayValue{Values: vals}}
	default:
		return firestore.Value{StringValue: fmt.Sprint(x), ForceSendFields: []string{"StringValue"}}
	}
}

var _ Sink = (*Firebase)(nil)
