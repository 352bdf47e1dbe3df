// Package sink records form submissions in a document store and attachments
// in a file store.
//
// Backends:
//   - Firebase: Firestore documents and Cloud Storage objects
//   - Local: JSON files and blobs on disk, for development
//   - Mock: recorded calls, for tests
package sink

import (
	"context"
	"time"
)

// Fields is the content of one record. Values are strings, bools, numbers,
// time.Time, nil or ServerTimestamp.
type Fields map[string]any

// serverTimestamp is the type of the ServerTimestamp sentinel.
type serverTimestamp struct{}

// ServerTimestamp asks the backend to stamp the field with its own clock when
// the record is written.
var ServerTimestamp = serverTimestamp{}

// Sink is the submission boundary.
type Sink interface {
	// CreateRecord adds a record to collection and returns its id.
	CreateRecord(ctx context.Context, collection string, fields Fields) (string, error)

	// UploadBlob stores data at path and returns a URL it can be downloaded from.
	UploadBlob(ctx context.Context, path string, data []byte, contentType string) (string, error)

	// Close releases backend resources.
	Close() error
}

// resolve replaces ServerTimestamp values with now.
func resolve(fields Fields, now time.Time) Fields {
	out := make(Fields, len(fields))
	for k, v := range fields {
		if _, ok := v.(serverTimestamp); ok {
			out[k] = now.UTC()
			continue
		}
		out[k] = v
	}
	return out
}
