// package testing contains shared testing utilities
package testing

import (
	"context"
	"errors"
	"io"
	"net/http"
	"os"
	"testing"

	"github.com/taskdeck/taskdeck/internal/models"
	"golang.org/x/oauth2"
)

// SampleTask builds a task fixture with sensible defaults.
func SampleTask(id, userID, title string) models.Task {
	return models.Task{
		ID:        id,
		UserID:    userID,
		Title:     title,
		Status:    models.StatusPending,
		Priority:  models.PriorityMedium,
		CreatedAt: "2024-01-01T10:00:00",
		UpdatedAt: "2024-01-01T10:00:00",
	}
}

// MockProvider is a configurable test double for [session.Provider].
type MockProvider struct {
	SignInFunc     func(ctx context.Context, email, password string) (*models.User, string, error)
	SignUpFunc     func(ctx context.Context, email, password, name string) (*models.User, string, error)
	IssueTokenFunc func(ctx context.Context) (*oauth2.Token, error)
}

func (m *MockProvider) SignIn(ctx context.Context, email, password string) (*models.User, string, error) {
	if m.SignInFunc == nil {
		return &models.User{ID: "u1", Email: email}, "", nil
	}
	return m.SignInFunc(ctx, email, password)
}

func (m *MockProvider) SignUp(ctx context.Context, email, password, name string) (*models.User, string, error) {
	if m.SignUpFunc == nil {
		return &models.User{ID: "u1", Email: email, Name: name}, "", nil
	}
	return m.SignUpFunc(ctx, email, password, name)
}

func (m *MockProvider) IssueToken(ctx context.Context) (*oauth2.Token, error) {
	if m.IssueTokenFunc == nil {
		return &oauth2.Token{AccessToken: "issued-token", TokenType: "Bearer"}, nil
	}
	return m.IssueTokenFunc(ctx)
}

// MockAPI is a configurable test double for [tasks.API].
type MockAPI struct {
	GetFunc    func(ctx context.Context, path string, result any) error
	PostFunc   func(ctx context.Context, path string, body, result any) error
	PutFunc    func(ctx context.Context, path string, body, result any) error
	PatchFunc  func(ctx context.Context, path string, body, result any) error
	DeleteFunc func(ctx context.Context, path string) error
}

func (m *MockAPI) Get(ctx context.Context, path string, result any) error {
	if m.GetFunc == nil {
		return nil
	}
	return m.GetFunc(ctx, path, result)
}

func (m *MockAPI) Post(ctx context.Context, path string, body, result any) error {
	if m.PostFunc == nil {
		return nil
	}
	return m.PostFunc(ctx, path, body, result)
}

func (m *MockAPI) Put(ctx context.Context, path string, body, result any) error {
	if m.PutFunc == nil {
		return nil
	}
	return m.PutFunc(ctx, path, body, result)
}

func (m *MockAPI) Patch(ctx context.Context, path string, body, result any) error {
	if m.PatchFunc == nil {
		return nil
	}
	return m.PatchFunc(ctx, path, body, result)
}

func (m *MockAPI) Delete(ctx context.Context, path string) error {
	if m.DeleteFunc == nil {
		return nil
	}
	return m.DeleteFunc(ctx, path)
}

// FWriter always returns an error on Write
type FWriter struct{}

func (f *FWriter) Write(p []byte) (n int, err error) {
	return 0, errors.New("write failed")
}

// LimitedWriter fails after a certain number of writes
type LimitedWriter struct {
	maxWrites int
	written   int
	target    io.Writer
}

func (l *LimitedWriter) Write(p []byte) (n int, err error) {
	if l.written >= l.maxWrites {
		return 0, errors.New("write limit exceeded")
	}
	l.written++
	return l.target.Write(p)
}

func NewLimitedWriter(maxWrites, written int, target io.Writer) LimitedWriter {
	return LimitedWriter{maxWrites: maxWrites, written: written, target: target}
}

// MockRoundTripper allows custom HTTP responses for testing
type MockRoundTripper struct {
	response *http.Response
	err      error
}

func NewMockRoundTripper(r *http.Response, e error) *MockRoundTripper {
	return &MockRoundTripper{response: r, err: e}
}

func (m *MockRoundTripper) RoundTrip(*http.Request) (*http.Response, error) {
	return m.response, m.err
}

// FCloser simulates a failure when reading response body
type FCloser struct{}

func (f *FCloser) Read(p []byte) (n int, err error) {
	return 0, errors.New("read failed")
}

func (f *FCloser) Close() error {
	return nil
}

func MustGetwd(t *testing.T) string {
	t.Helper()
	wd, err := os.Getwd()
	if err != nil {
		t.Fatalf("Failed to get working directory: %v", err)
	}
	return wd
}

func AssertFileExists(t *testing.T, path string) {
	t.Helper()
	if _, err := os.Stat(path); os.IsNotExist(err) {
		t.Errorf("File does not exist: %s", path)
	}
}

func MustReadFile(t *testing.T, path string) string {
	t.Helper()
	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read file %s: %v", path, err)
	}
	return string(content)
}
