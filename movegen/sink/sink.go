// Package sink provides output destinations for generated code.
package sink

import (
	"bytes"
	"context"
	"io/fs"
	"maps"
	"os"
	"path/filepath"
	"slices"
	"sort"
	"strings"
	"sync"

	"github.com/cockroachdb/errors"
)

// ErrExists is returned by a FilesystemSink with Overwrite disabled when the
// target file already exists.
var ErrExists = errors.New("file already exists")

// OutputSink receives generated file content.
// Implementations MUST be safe for concurrent calls.
type OutputSink interface {
	// WriteFile writes content to the specified path.
	// The path is relative; the sink determines the actual location.
	WriteFile(ctx context.Context, path string, content []byte) error
}

// FilesystemSink writes to a directory on the local filesystem.
type FilesystemSink struct {
	// Root is the base directory for all writes.
	Root string

	// Mode is the file permission mode (default: 0644).
	Mode os.FileMode

	// Overwrite controls behavior for existing files.
	// If false, returns ErrExists when a file exists.
	Overwrite bool

	// SkipUnchanged leaves files whose content already matches untouched,
	// so watchers downstream do not see spurious changes.
	SkipUnchanged bool

	mu      sync.Mutex
	skipped []string
}

// NewFilesystemSink creates a new FilesystemSink writing to the specified root directory.
func NewFilesystemSink(root string) *FilesystemSink {
	return &FilesystemSink{
		Root:          root,
		Mode:          0o644,
		Overwrite:     true,
		SkipUnchanged: true,
	}
}

// WriteFile writes content to path within the root directory, creating
// parent directories as needed. The content is staged in a temp file and
// moved into place, so readers never see a partial file.
// This method is safe for concurrent use.
func (s *FilesystemSink) WriteFile(ctx context.Context, path string, content []byte) error {
	fullPath, err := resolve(s.Root, path)
	if err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	if s.SkipUnchanged && s.Overwrite && sameContent(fullPath, content) {
		s.mu.Lock()
		s.skipped = append(s.skipped, path)
		s.mu.Unlock()
		return nil
	}

	dir := filepath.Dir(fullPath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return errors.Wrap(err, "create directories")
	}
	tmp, err := s.stage(dir, content)
	if err != nil {
		return err
	}
	// After a successful rename there is nothing left to remove.
	defer os.Remove(tmp)

	if err := ctx.Err(); err != nil {
		return err
	}
	if s.Overwrite {
		return errors.Wrap(os.Rename(tmp, fullPath), "rename temp file")
	}
	// os.Link fails atomically if the target exists.
	if err := os.Link(tmp, fullPath); err != nil {
		if errors.Is(err, os.ErrExist) {
			return errors.Wrapf(ErrExists, "%q", path)
		}
		return errors.Wrap(err, "create file")
	}
	return nil
}

// stage writes content to a new temp file in dir and returns its path.
// Leftovers from an interrupted run match .movets-*.tmp.
func (s *FilesystemSink) stage(dir string, content []byte) (string, error) {
	f, err := os.CreateTemp(dir, ".movets-*.tmp")
	if err != nil {
		return "", errors.Wrap(err, "create temp file")
	}
	_, err = f.Write(content)
	if closeErr := f.Close(); err == nil {
		err = closeErr
	}
	if err == nil {
		mode := s.Mode
		if mode == 0 {
			mode = 0o644
		}
		err = os.Chmod(f.Name(), mode)
	}
	if err != nil {
		_ = os.Remove(f.Name())
		return "", errors.Wrap(err, "write temp file")
	}
	return f.Name(), nil
}

func sameContent(path string, content []byte) bool {
	existing, err := os.ReadFile(path)
	return err == nil && bytes.Equal(existing, content)
}

// Skipped returns the paths left untouched because their content was current.
func (s *FilesystemSink) Skipped() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := append([]string(nil), s.skipped...)
	sort.Strings(out)
	return out
}

// CheckSink compares generated content with what is on disk under Root
// without writing anything.
type CheckSink struct {
	Root string

	mu    sync.Mutex
	stale []string
}

// NewCheckSink creates a CheckSink for root.
func NewCheckSink(root string) *CheckSink {
	return &CheckSink{Root: root}
}

// WriteFile records path as stale when the file on disk is missing or differs.
func (s *CheckSink) WriteFile(ctx context.Context, path string, content []byte) error {
	fullPath, err := resolve(s.Root, path)
	if err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	existing, err := os.ReadFile(fullPath)
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return errors.Wrapf(err, "read %s", path)
	}
	if err == nil && bytes.Equal(existing, content) {
		return nil
	}

	s.mu.Lock()
	s.stale = append(s.stale, path)
	s.mu.Unlock()
	return nil
}

// Stale returns the paths whose on-disk content is out of date, sorted.
func (s *CheckSink) Stale() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := append([]string(nil), s.stale...)
	sort.Strings(out)
	return out
}

// MemorySink stores generated files in memory.
// All operations are thread-safe.
type MemorySink struct {
	mu    sync.RWMutex
	files map[string][]byte
}

// NewMemorySink creates a new MemorySink.
func NewMemorySink() *MemorySink {
	return &MemorySink{
		files: make(map[string][]byte),
	}
}

// WriteFile writes content to the in-memory store.
func (s *MemorySink) WriteFile(ctx context.Context, path string, content []byte) error {
	if err := ValidatePath(path); err != nil {
		return errors.Wrapf(err, "invalid path %q", path)
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.files[path] = bytes.Clone(content)
	return nil
}

// Files returns a copy of all written files.
func (s *MemorySink) Files() map[string][]byte {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make(map[string][]byte, len(s.files))
	for path, content := range s.files {
		result[path] = bytes.Clone(content)
	}
	return result
}

// Paths returns the written paths in sorted order.
func (s *MemorySink) Paths() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Sorted(maps.Keys(s.files))
}

// Get returns the content of a single file, or nil if not found.
func (s *MemorySink) Get(path string) []byte {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return bytes.Clone(s.files[path])
}

// Reset clears all stored files.
func (s *MemorySink) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.files = make(map[string][]byte)
}

// resolve validates path and joins it to root, refusing anything that
// lands outside root.
func resolve(root, path string) (string, error) {
	if err := ValidatePath(path); err != nil {
		return "", errors.Wrapf(err, "invalid path %q", path)
	}

	fullPath := filepath.Join(root, filepath.FromSlash(path))
	absRoot, err := filepath.Abs(root)
	if err != nil {
		return "", errors.Wrap(err, "resolve root directory")
	}
	absPath, err := filepath.Abs(fullPath)
	if err != nil {
		return "", errors.Wrap(err, "resolve path")
	}
	if !strings.HasPrefix(absPath, absRoot+string(filepath.Separator)) && absPath != absRoot {
		return "", errors.Newf("path escapes root directory: %q", path)
	}
	return fullPath, nil
}

// ValidatePath checks that path is usable as an output location: relative,
// slash-separated, clean and free of ".." elements.
func ValidatePath(path string) error {
	switch {
	case path == "":
		return errors.New("path is empty")
	case strings.HasPrefix(path, "/") || filepath.IsAbs(path) || hasDriveLetter(path):
		return errors.New("absolute paths not allowed")
	case slices.Contains(strings.Split(filepath.ToSlash(path), "/"), ".."):
		return errors.New("path traversal not allowed")
	case !fs.ValidPath(path):
		return errors.Newf("path is not clean (expected %q, got %q)", filepath.ToSlash(filepath.Clean(path)), path)
	}
	return nil
}

// hasDriveLetter reports a Windows drive prefix such as "C:", which is
// rejected on every platform.
func hasDriveLetter(path string) bool {
	if len(path) < 2 || path[1] != ':' {
		return false
	}
	c := path[0] | 0x20
	return c >= 'a' && c <= 'z'
}
