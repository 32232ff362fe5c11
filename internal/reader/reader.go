package reader

import (
	"fmt"
	"os"
	"strings"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/bep/debounce"
	"github.com/fsnotify/fsnotify"
	"golang.org/x/text/encoding/simplifiedchinese"

	"reader-overlay/internal/logging"
)

// reloadSettle collapses the burst of write events editors and sync tools
// produce into a single reload.
const reloadSettle = 200 * time.Millisecond

// Service owns the display buffer: the loaded text, the path it came from,
// and the single-line recent-file pointer. The currently open file is watched
// and reloaded when it changes on disk.
type Service struct {
	mu         sync.RWMutex
	content    string
	path       string
	recentPath string
	watcher    *fsnotify.Watcher
	debounced  func(func())
	reporter   logging.Reporter

	// OnReload fires after the watched file was re-read. Registered once at
	// startup.
	OnReload func(path string)
}

// New creates the reader service. recentPointerPath is the file holding the
// last opened path; reporter receives watcher and reload failures and may be
// nil. A watcher failure is returned but not fatal; the service still loads
// files, only auto-reload is disabled.
func New(recentPointerPath string, reporter logging.Reporter) (*Service, error) {
	s := &Service{
		recentPath: recentPointerPath,
		debounced:  debounce.New(reloadSettle),
		reporter:   reporter,
	}

	w, err := fsnotify.NewWatcher()
	if err != nil {
		return s, fmt.Errorf("file watcher unavailable, auto-reload disabled: %w", err)
	}
	s.watcher = w
	go s.watchLoop()

	return s, nil
}

// Load reads the whole file into the buffer and overwrites the recent-file
// pointer. The read blocks the caller for the file's duration.
func (s *Service) Load(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to load file: %w", err)
	}

	s.mu.Lock()
	old := s.path
	s.content = Decode(data)
	s.path = path
	s.mu.Unlock()

	if s.watcher != nil && old != path {
		if old != "" {
			s.watcher.Remove(old)
		}
		if err := s.watcher.Add(path); err != nil {
			s.reportError("Auto-reload unavailable for this file", err)
		}
	}

	if err := os.WriteFile(s.recentPath, []byte(path), 0644); err != nil {
		s.reportError("Failed to save recent file", err)
	}
	return nil
}

// Content returns the loaded text.
func (s *Service) Content() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.content
}

// Path returns the path of the loaded file, or "" before the first load.
func (s *Service) Path() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.path
}

// Empty reports whether the buffer holds no visible text.
func (s *Service) Empty() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return strings.TrimSpace(s.content) == ""
}

// LoadRecent resolves the recent-file pointer. A pointer to a missing or
// non-regular file yields "", not an error; an unreadable pointer file is
// deleted so it cannot fail again.
func (s *Service) LoadRecent() (string, error) {
	data, err := os.ReadFile(s.recentPath)
	if os.IsNotExist(err) {
		return "", nil
	}
	if err != nil {
		os.Remove(s.recentPath)
		return "", fmt.Errorf("corrupt recent-file pointer removed: %w", err)
	}

	path, _, _ := strings.Cut(string(data), "\n")
	path = strings.TrimSpace(path)
	if path == "" {
		return "", nil
	}

	fi, err := os.Stat(path)
	if err != nil || fi.IsDir() {
		return "", nil
	}
	return path, nil
}

// Close stops the file watcher.
func (s *Service) Close() {
	if s.watcher != nil {
		s.watcher.Close()
	}
}

func (s *Service) watchLoop() {
	for {
		select {
		case ev, ok := <-s.watcher.Events:
			if !ok {
				return
			}
			if ev.Name != s.Path() {
				continue
			}
			if ev.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}
			s.debounced(s.reload)
		case err, ok := <-s.watcher.Errors:
			if !ok {
				return
			}
			s.reportError("File watcher error", err)
		}
	}
}

// reload re-reads the watched file after changes settle.
func (s *Service) reload() {
	path := s.Path()
	if path == "" {
		return
	}

	data, err := os.ReadFile(path)
	if err != nil {
		s.reportError("Failed to reload file", err)
		return
	}

	s.mu.Lock()
	s.content = Decode(data)
	s.mu.Unlock()

	if s.OnReload != nil {
		s.OnReload(path)
	}
}

func (s *Service) reportError(msg string, err error) {
	if s.reporter != nil {
		s.reporter.ReportError(msg, err)
	}
}

// Decode converts file bytes to a string. Input that is not valid UTF-8 is
// treated as GBK, which covers the bulk of legacy Chinese novel files; if
// that fails too the raw bytes pass through.
func Decode(data []byte) string {
	if utf8.Valid(data) {
		return string(data)
	}
	decoded, err := simplifiedchinese.GBK.NewDecoder().Bytes(data)
	if err != nil {
		return string(data)
	}
	return string(decoded)
}
