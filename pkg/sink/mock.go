package sink

import (
	"context"
	"fmt"
	"sync"
	"time"
)

// Mock implements Sink for testing.
// All methods can be customized via function fields.
type Mock struct {
	// CreateRecordFunc is called when CreateRecord is invoked.
	// If nil, returns a sequential id.
	CreateRecordFunc func(ctx context.Context, collection string, fields Fields) (string, error)

	// UploadBlobFunc is called when UploadBlob is invoked.
	// If nil, returns "mock://" + path.
	UploadBlobFunc func(ctx context.Context, path string, data []byte, contentType string) (string, error)

	// CloseFunc is called when Close is invoked.
	CloseFunc func() error

	mu    sync.Mutex
	calls []MockCall
	seq   int
}

// MockCall records a method invocation for verification.
type MockCall struct {
	Method     string
	Collection string
	Path       string
	Fields     Fields
	Size       int
	Time       time.Time
}

// NewMock creates a mock sink that accepts everything.
func NewMock() *Mock {
	return &Mock{}
}

// FailingMock returns a mock whose writes always fail with err.
func FailingMock(err error) *Mock {
	return &Mock{
		CreateRecordFunc: func(ctx context.Context, collection string, fields Fields) (string, error) {
			return "", wrap("mock", "create", collection, err)
		},
		UploadBlobFunc: func(ctx context.Context, path string, data []byte, contentType string) (string, error) {
			return "", wrap("mock", "upload", path, err)
		},
	}
}

// CreateRecord calls CreateRecordFunc and records the call.
func (m *Mock) CreateRecord(ctx context.Context, collection string, fields Fields) (string, error) {
	m.mu.Lock()
	m.calls = append(m.calls, MockCall{
		Method:     "CreateRecord",
		Collection: collection,
		Fields:     fields,
		Time:       time.Now(),
	})
	m.seq++
	seq := m.seq
	m.mu.Unlock()

	if m.CreateRecordFunc != nil {
		return m.CreateRecordFunc(ctx, collection, fields)
	}
	if collection == "" {
		return "", ErrEmptyCollection
	}
	return fmt.Sprintf("mock-%d", seq), nil
}

// UploadBlob calls UploadBlobFunc and records the call.
func (m *Mock) UploadBlob(ctx context.Context, path string, data []byte, contentType string) (string, error) {
	m.mu.Lock()
	m.calls = append(m.calls, MockCall{
		Method: "UploadBlob",
		Path:   path,
		Size:   len(data),
		Time:   time.Now(),
	})
	m.mu.Unlock()

	if m.UploadBlobFunc != nil {
		return m.UploadBlobFunc(ctx, path, data, contentType)
	}
	if path == "" {
		return "", ErrEmptyPath
	}
	return "mock://" + path, nil
}

// Close calls CloseFunc and records the call.
func (m *Mock) Close() error {
	m.mu.Lock()
	m.calls = append(m.calls, MockCall{Method: "Close", Time: time.Now()})
	m.mu.Unlock()

	if m.CloseFunc != nil {
		return m.CloseFunc()
	}
	return nil
}

// Calls returns all recorded method calls.
func (m *Mock) Calls() []MockCall {
	m.mu.Lock()
	defer m.mu.Unlock()
	result := make([]MockCall, len(m.calls))
	copy(result, m.calls)
	return result
}

// CallCount returns the number of times a method was called.
func (m *Mock) CallCount(method string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	count := 0
	for _, c := range m.calls {
		if c.Method == method {
			count++
		}
	}
	return count
}

// LastCall returns the most recent call, or nil if none.
func (m *Mock) LastCall() *MockCall {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.calls) == 0 {
		return nil
	}
	call := m.calls[len(m.calls)-1]
	return &call
}

// Reset clears all recorded calls.
func (m *Mock) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = nil
}

var _ Sink = (*Mock)(nil)
