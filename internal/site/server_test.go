package site

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"
	"time"
)

func startTestServer(t *testing.T, s *Server) {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.Start(ctx) }()
	t.Cleanup(func() {
		cancel()
		select {
		case <-done:
		case <-time.After(2 * time.Second):
			t.Error("server did not stop")
		}
	})

	// Wait for the listener to come up; the bound port replaces ":0".
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if !strings.HasSuffix(s.Addr(), ":0") {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatal("server did not start")
}

func TestServe_StaticFiles(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "index.html"), []byte("<h1>docs</h1>"), 0644); err != nil {
		t.Fatal(err)
	}

	s := NewServer("127.0.0.1:0", dir)
	startTestServer(t, s)

	resp, err := http.Get(fmt.Sprintf("http://%s/index.html", s.Addr()))
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatal(err)
	}
	if string(body) != "<h1>docs</h1>" {
		t.Errorf("unexpected body: %q", body)
	}
}

func TestServe_WatchTriggersRebuild(t *testing.T) {
	t.Parallel()

	siteDir := t.TempDir()
	metaDir := t.TempDir()
	metaPath := filepath.Join(metaDir, "docs.json")
	if err := os.WriteFile(metaPath, []byte("[]"), 0644); err != nil {
		t.Fatal(err)
	}

	var rebuilds atomic.Int32
	s := NewServer("127.0.0.1:0", siteDir).WithWatch(metaPath, func() error {
		rebuilds.Add(1)
		return nil
	})
	startTestServer(t, s)

	if err := os.WriteFile(metaPath, []byte(`[{"name":"m"}]`), 0644); err != nil {
		t.Fatal(err)
	}

	deadline := time.Now().Add(3 * time.Second)
	for time.Now().Before(deadline) {
		if rebuilds.Load() > 0 {
			return
		}
		time.Sleep(20 * time.Millisecond)
	}
	t.Error("metadata write did not trigger a rebuild")
}

func TestServe_IgnoresUnrelatedFiles(t *testing.T) {
	t.Parallel()

	siteDir := t.TempDir()
	metaDir := t.TempDir()
	metaPath := filepath.Join(metaDir, "docs.json")
	if err := os.WriteFile(metaPath, []byte("[]"), 0644); err != nil {
		t.Fatal(err)
	}

	var rebuilds atomic.Int32
	s := NewServer("127.0.0.1:0", siteDir).WithWatch(metaPath, func() error {
		rebuilds.Add(1)
		return nil
	})
	startTestServer(t, s)

	if err := os.WriteFile(filepath.Join(metaDir, "other.txt"), []byte("x"), 0644); err != nil {
		t.Fatal(err)
	}

	time.Sleep(300 * time.Millisecond)
	if n := rebuilds.Load(); n != 0 {
		t.Errorf("unrelated write triggered %d rebuilds", n)
	}
}
