// package testing contains fakes and assertions shared by the worlder test suites
package testing

import (
	"errors"
	"io"
	"net/http"
	"os"
	"strings"
	"sync"
	"testing"
)

// FailingWriter rejects every write, standing in for a closed stdout.
type FailingWriter struct{}

func (FailingWriter) Write(p []byte) (int, error) {
	return 0, errors.New("write failed")
}

// LimitedWriter accepts maxWrites writes and then fails.
type LimitedWriter struct {
	maxWrites int
	written   int
	target    io.Writer
}

func NewLimitedWriter(maxWrites int, target io.Writer) *LimitedWriter {
	return &LimitedWriter{maxWrites: maxWrites, target: target}
}

func (l *LimitedWriter) Write(p []byte) (int, error) {
	if l.written >= l.maxWrites {
		return 0, errors.New("write limit exceeded")
	}
	l.written++
	return l.target.Write(p)
}

// StubTransport answers every request with the same response or error and keeps the requests it saw.
type StubTransport struct {
	mu       sync.Mutex
	response *http.Response
	err      error
	requests []*http.Request
}

func NewStubTransport(resp *http.Response, err error) *StubTransport {
	return &StubTransport{response: resp, err: err}
}

func (s *StubTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.requests = append(s.requests, req)
	return s.response, s.err
}

// Requests returns the requests seen so far.
func (s *StubTransport) Requests() []*http.Request {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]*http.Request(nil), s.requests...)
}

// FailingBody is a response body whose reads always fail.
type FailingBody struct{}

func (FailingBody) Read(p []byte) (int, error) {
	return 0, errors.New("read failed")
}

func (FailingBody) Close() error {
	return nil
}

func AssertFileExists(t *testing.T, path string) {
	t.Helper()
	if _, err := os.Stat(path); os.IsNotExist(err) {
		t.Errorf("File does not exist: %s", path)
	}
}

func AssertDirExists(t *testing.T, path string) {
	t.Helper()
	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		t.Errorf("Directory does not exist: %s", path)
		return
	}
	if !info.IsDir() {
		t.Errorf("Path is not a directory: %s", path)
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

// AssertFileContains reads path and checks that every fragment appears in it.
func AssertFileContains(t *testing.T, path string, fragments ...string) {
	t.Helper()
	content := MustReadFile(t, path)
	for _, f := range fragments {
		if !strings.Contains(content, f) {
			t.Errorf("expected %s to contain %q, got:\n%s", path, f, content)
		}
	}
}
