package artifacts

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
)

func writeTestBundle(t *testing.T) string {
	t.Helper()
	data, err := json.Marshal(testBundle())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	path := filepath.Join(t.TempDir(), "bundle.json")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	return path
}

func TestFileProviderLoad(t *testing.T) {
	p := &FileProvider{Path: writeTestBundle(t)}

	mc, err := p.Load(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if mc.WindowSteps != 24 {
		t.Errorf("WindowSteps = %d, want 24", mc.WindowSteps)
	}
}

func TestFileProviderMissingFile(t *testing.T) {
	p := &FileProvider{Path: filepath.Join(t.TempDir(), "absent.json")}
	if _, err := p.Load(context.Background()); err == nil {
		t.Fatal("expected error for missing bundle file")
	}
}

func TestFileProviderRejectsInvalidBundle(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.json")
	if err := os.WriteFile(path, []byte("{}"), 0o644); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	p := &FileProvider{Path: path}
	if _, err := p.Load(context.Background()); err == nil {
		t.Fatal("expected error for invalid bundle")
	}
}

func TestHTTPProviderLoad(t *testing.T) {
	data, err := json.Marshal(testBundle())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write(data)
	}))
	defer srv.Close()

	p := NewHTTPProvider(srv.URL, srv.Client())
	mc, err := p.Load(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if mc.Labels.Len() != 3 {
		t.Errorf("label encoding has %d classes, want 3", mc.Labels.Len())
	}
}

// TestHTTPProviderRetriesServerErrors: a transient 500 is retried with
// backoff before the bundle is served.
func TestHTTPProviderRetriesServerErrors(t *testing.T) {
	data, err := json.Marshal(testBundle())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var hits int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&hits, 1) == 1 {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		w.Write(data)
	}))
	defer srv.Close()

	p := NewHTTPProvider(srv.URL, srv.Client())
	if _, err := p.Load(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := atomic.LoadInt32(&hits); got != 2 {
		t.Errorf("server hit %d times, want 2", got)
	}
}

func TestNewProviderPicksByScheme(t *testing.T) {
	if _, ok := NewProvider("https://example.com/bundle.json", http.DefaultClient).(*HTTPProvider); !ok {
		t.Error("https source should yield an HTTPProvider")
	}
	if _, ok := NewProvider("models/bundle.json", http.DefaultClient).(*FileProvider); !ok {
		t.Error("path source should yield a FileProvider")
	}
}
