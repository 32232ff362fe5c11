package reader

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func newTestService(t *testing.T) *Service {
	t.Helper()
	s, err := New(filepath.Join(t.TempDir(), "recent.txt"), nil)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	t.Cleanup(s.Close)
	return s
}

func writeFile(t *testing.T, name string, data []byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, data, 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoad_UTF8(t *testing.T) {
	s := newTestService(t)
	path := writeFile(t, "book.txt", []byte("第一章 开端\n正文内容"))

	if err := s.Load(path); err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if got := s.Content(); got != "第一章 开端\n正文内容" {
		t.Errorf("Content = %q", got)
	}
	if s.Empty() {
		t.Error("Empty = true after loading content")
	}
	if s.Path() != path {
		t.Errorf("Path = %q; want %q", s.Path(), path)
	}
}

func TestLoad_GBKFallback(t *testing.T) {
	s := newTestService(t)
	// "你好" in GBK; not valid UTF-8.
	path := writeFile(t, "gbk.txt", []byte{0xc4, 0xe3, 0xba, 0xc3})

	if err := s.Load(path); err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if got := s.Content(); got != "你好" {
		t.Errorf("Content = %q; want 你好", got)
	}
}

func TestLoad_MissingFile(t *testing.T) {
	s := newTestService(t)

	if err := s.Load(filepath.Join(t.TempDir(), "nope.txt")); err == nil {
		t.Error("Load of missing file should fail")
	}
	if !s.Empty() {
		t.Error("Buffer should stay empty after a failed load")
	}
}

func TestRecentPointer_RoundTrip(t *testing.T) {
	recent := filepath.Join(t.TempDir(), "recent.txt")
	s, err := New(recent, nil)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	defer s.Close()

	path := writeFile(t, "book.txt", []byte("content"))
	if err := s.Load(path); err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	s2, err := New(recent, nil)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	defer s2.Close()

	got, err := s2.LoadRecent()
	if err != nil {
		t.Fatalf("LoadRecent failed: %v", err)
	}
	if got != path {
		t.Errorf("LoadRecent = %q; want %q", got, path)
	}
}

func TestLoadRecent_MissingPointer(t *testing.T) {
	s := newTestService(t)

	got, err := s.LoadRecent()
	if err != nil {
		t.Fatalf("LoadRecent failed: %v", err)
	}
	if got != "" {
		t.Errorf("LoadRecent = %q; want empty", got)
	}
}

func TestLoadRecent_StalePath(t *testing.T) {
	recent := filepath.Join(t.TempDir(), "recent.txt")
	if err := os.WriteFile(recent, []byte("/no/such/file.txt\n"), 0644); err != nil {
		t.Fatal(err)
	}

	s, err := New(recent, nil)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	defer s.Close()

	got, err := s.LoadRecent()
	if err != nil {
		t.Fatalf("LoadRecent failed: %v", err)
	}
	if got != "" {
		t.Errorf("LoadRecent = %q; want empty for a stale path", got)
	}
}

func TestReload_OnFileChange(t *testing.T) {
	s := newTestService(t)
	path := writeFile(t, "book.txt", []byte("before"))

	reloaded := make(chan string, 1)
	s.OnReload = func(p string) {
		select {
		case reloaded <- p:
		default:
		}
	}

	if err := s.Load(path); err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if err := os.WriteFile(path, []byte("after"), 0644); err != nil {
		t.Fatal(err)
	}

	select {
	case <-reloaded:
	case <-time.After(3 * time.Second):
		t.Fatal("OnReload did not fire after file change")
	}

	if got := s.Content(); got != "after" {
		t.Errorf("Content = %q; want %q", got, "after")
	}
}

func TestDecode_InvalidBytesPassThrough(t *testing.T) {
	// Not valid UTF-8 and not decodable GBK either.
	raw := []byte{0xff, 0xfe, 0x81}
	if got := Decode(raw); got == "" {
		t.Error("Decode of undecodable bytes returned empty string")
	}
}
