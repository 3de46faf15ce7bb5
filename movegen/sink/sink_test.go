package sink

import (
	"context"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/cockroachdb/errors"
)

func TestValidatePath(t *testing.T) {
	tests := []struct {
		name    string
		path    string
		wantErr bool
		errMsg  string
	}{
		{name: "module file", path: "coin/mod.ts"},
		{name: "root file", path: "index.ts"},
		{name: "dots inside a name", path: "coin/v1..2.ts"},
		{name: "empty path", path: "", wantErr: true, errMsg: "empty"},
		{name: "absolute path", path: "/etc/passwd", wantErr: true, errMsg: "absolute paths not allowed"},
		{name: "windows drive", path: "C:/Windows/file.ts", wantErr: true, errMsg: "absolute paths not allowed"},
		{name: "lowercase windows drive", path: "c:/file.ts", wantErr: true, errMsg: "absolute paths not allowed"},
		{name: "traversal in the middle", path: "coin/../index.ts", wantErr: true, errMsg: "path traversal not allowed"},
		{name: "leading traversal", path: "../index.ts", wantErr: true, errMsg: "path traversal not allowed"},
		{name: "just dot dot", path: "..", wantErr: true, errMsg: "path traversal not allowed"},
		{name: "current dir prefix", path: "./coin/mod.ts", wantErr: true, errMsg: "not clean"},
		{name: "double slash", path: "coin//mod.ts", wantErr: true, errMsg: "not clean"},
		{name: "trailing slash", path: "coin/", wantErr: true, errMsg: "not clean"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidatePath(tt.path)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidatePath(%q) error = %v, wantErr %v", tt.path, err, tt.wantErr)
				return
			}
			if err != nil && !strings.Contains(err.Error(), tt.errMsg) {
				t.Errorf("ValidatePath(%q) error = %v, want error containing %q", tt.path, err, tt.errMsg)
			}
		})
	}
}

func TestMemorySink(t *testing.T) {
	ctx := context.Background()

	t.Run("write, overwrite and read", func(t *testing.T) {
		s := NewMemorySink()
		if err := s.WriteFile(ctx, "coin/mod.ts", []byte("first")); err != nil {
			t.Fatalf("WriteFile() error = %v", err)
		}
		if err := s.WriteFile(ctx, "coin/mod.ts", []byte("second")); err != nil {
			t.Fatalf("WriteFile() error = %v", err)
		}
		if got := s.Get("coin/mod.ts"); string(got) != "second" {
			t.Errorf("Get() = %q, want %q", got, "second")
		}
		if got := s.Get("missing.ts"); got != nil {
			t.Errorf("Get(missing) = %q, want nil", got)
		}
	})

	t.Run("stored content is a copy", func(t *testing.T) {
		s := NewMemorySink()
		content := []byte("original")
		if err := s.WriteFile(ctx, "a.ts", content); err != nil {
			t.Fatalf("WriteFile() error = %v", err)
		}
		content[0] = 'X'
		files := s.Files()
		files["a.ts"][1] = 'Y'
		if got := s.Get("a.ts"); string(got) != "original" {
			t.Errorf("Get() = %q, want unmodified content", got)
		}
	})

	t.Run("paths are sorted", func(t *testing.T) {
		s := NewMemorySink()
		for _, p := range []string{"index.ts", "coin/mod.ts", "aptos/entry.ts"} {
			if err := s.WriteFile(ctx, p, nil); err != nil {
				t.Fatalf("WriteFile(%q) error = %v", p, err)
			}
		}
		got := strings.Join(s.Paths(), ",")
		if want := "aptos/entry.ts,coin/mod.ts,index.ts"; got != want {
			t.Errorf("Paths() = %s, want %s", got, want)
		}

		s.Reset()
		if len(s.Paths()) != 0 {
			t.Error("Reset() should clear all files")
		}
	})

	t.Run("rejects invalid paths and cancelled contexts", func(t *testing.T) {
		s := NewMemorySink()
		if err := s.WriteFile(ctx, "../escape.ts", nil); err == nil {
			t.Error("WriteFile() should reject traversal")
		}

		cancelled, cancel := context.WithCancel(ctx)
		cancel()
		if err := s.WriteFile(cancelled, "a.ts", nil); !errors.Is(err, context.Canceled) {
			t.Errorf("WriteFile() error = %v, want context.Canceled", err)
		}
	})
}

func TestMemorySink_Concurrent(t *testing.T) {
	s := NewMemorySink()
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			if err := s.WriteFile(ctx, "m"+strconv.Itoa(id%10)+"/mod.ts", []byte("x")); err != nil {
				t.Errorf("WriteFile() error = %v", err)
			}
			_ = s.Files()
		}(i)
	}
	wg.Wait()

	if got := len(s.Paths()); got != 10 {
		t.Errorf("len(Paths()) = %d, want 10", got)
	}
}

func TestFilesystemSink(t *testing.T) {
	ctx := context.Background()

	t.Run("creates parent directories", func(t *testing.T) {
		dir := t.TempDir()
		s := NewFilesystemSink(dir)
		if err := s.WriteFile(ctx, "coin/mod.ts", []byte("nested")); err != nil {
			t.Fatalf("WriteFile() error = %v", err)
		}
		got, err := os.ReadFile(filepath.Join(dir, "coin", "mod.ts"))
		if err != nil {
			t.Fatalf("ReadFile() error = %v", err)
		}
		if string(got) != "nested" {
			t.Errorf("ReadFile() = %q, want %q", got, "nested")
		}
	})

	t.Run("respects file mode", func(t *testing.T) {
		dir := t.TempDir()
		s := NewFilesystemSink(dir)
		s.Mode = 0600
		if err := s.WriteFile(ctx, "index.ts", []byte("x")); err != nil {
			t.Fatalf("WriteFile() error = %v", err)
		}
		info, err := os.Stat(filepath.Join(dir, "index.ts"))
		if err != nil {
			t.Fatalf("Stat() error = %v", err)
		}
		if info.Mode().Perm() != 0600 {
			t.Errorf("mode = %v, want 0600", info.Mode().Perm())
		}
	})

	t.Run("no overwrite", func(t *testing.T) {
		dir := t.TempDir()
		s := NewFilesystemSink(dir)
		s.Overwrite = false
		if err := s.WriteFile(ctx, "index.ts", []byte("first")); err != nil {
			t.Fatalf("WriteFile() error = %v", err)
		}
		err := s.WriteFile(ctx, "index.ts", []byte("second"))
		if !errors.Is(err, ErrExists) {
			t.Fatalf("WriteFile() error = %v, want ErrExists", err)
		}
		got, _ := os.ReadFile(filepath.Join(dir, "index.ts"))
		if string(got) != "first" {
			t.Errorf("content = %q, want %q", got, "first")
		}
	})

	t.Run("skips unchanged files", func(t *testing.T) {
		dir := t.TempDir()
		s := NewFilesystemSink(dir)
		path := filepath.Join(dir, "index.ts")
		if err := s.WriteFile(ctx, "index.ts", []byte("same")); err != nil {
			t.Fatalf("WriteFile() error = %v", err)
		}
		old := time.Now().Add(-time.Hour).Truncate(time.Second)
		if err := os.Chtimes(path, old, old); err != nil {
			t.Fatalf("Chtimes() error = %v", err)
		}

		if err := s.WriteFile(ctx, "index.ts", []byte("same")); err != nil {
			t.Fatalf("WriteFile() error = %v", err)
		}
		info, err := os.Stat(path)
		if err != nil {
			t.Fatalf("Stat() error = %v", err)
		}
		if !info.ModTime().Equal(old) {
			t.Errorf("unchanged file was rewritten (mtime %v, want %v)", info.ModTime(), old)
		}
		if got := s.Skipped(); len(got) != 1 || got[0] != "index.ts" {
			t.Errorf("Skipped() = %v, want [index.ts]", got)
		}
	})

	t.Run("rejects escaping paths", func(t *testing.T) {
		s := NewFilesystemSink(t.TempDir())
		for _, p := range []string{"a/../../escape.ts", "/etc/passwd", "C:/Windows/x.ts"} {
			if err := s.WriteFile(ctx, p, []byte("x")); err == nil {
				t.Errorf("WriteFile(%q) should fail", p)
			}
		}
	})

	t.Run("cancelled context", func(t *testing.T) {
		s := NewFilesystemSink(t.TempDir())
		cancelled, cancel := context.WithCancel(ctx)
		cancel()
		if err := s.WriteFile(cancelled, "index.ts", []byte("x")); !errors.Is(err, context.Canceled) {
			t.Errorf("WriteFile() error = %v, want context.Canceled", err)
		}
	})

	t.Run("permission denied", func(t *testing.T) {
		if os.Getuid() == 0 {
			t.Skip("Skipping test when running as root")
		}
		restricted := filepath.Join(t.TempDir(), "restricted")
		if err := os.Mkdir(restricted, 0500); err != nil {
			t.Fatalf("Mkdir() error = %v", err)
		}
		defer os.Chmod(restricted, 0755)

		s := NewFilesystemSink(restricted)
		if err := s.WriteFile(ctx, "index.ts", []byte("x")); err == nil {
			t.Error("WriteFile() should fail in a read-only directory")
		}
	})
}

func TestFilesystemSink_Concurrent(t *testing.T) {
	dir := t.TempDir()
	s := NewFilesystemSink(dir)
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			path := "coin/file" + strconv.Itoa(id%10) + ".ts"
			if err := s.WriteFile(ctx, path, []byte("from "+strconv.Itoa(id))); err != nil {
				t.Errorf("WriteFile() error = %v", err)
			}
		}(i)
	}
	wg.Wait()

	entries, err := os.ReadDir(filepath.Join(dir, "coin"))
	if err != nil {
		t.Fatalf("ReadDir() error = %v", err)
	}
	if len(entries) != 10 {
		t.Errorf("got %d files, want 10", len(entries))
	}
	for _, entry := range entries {
		if strings.HasPrefix(entry.Name(), ".movets-") {
			t.Errorf("temp file left behind: %s", entry.Name())
		}
	}
}

func TestCheckSink(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	if err := os.MkdirAll(filepath.Join(dir, "coin"), 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "coin", "mod.ts"), []byte("current"), 0644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "index.ts"), []byte("old"), 0644); err != nil {
		t.Fatal(err)
	}

	s := NewCheckSink(dir)
	writes := map[string]string{
		"coin/mod.ts":   "current",
		"index.ts":      "new",
		"coin/entry.ts": "missing on disk",
	}
	for p, content := range writes {
		if err := s.WriteFile(ctx, p, []byte(content)); err != nil {
			t.Fatalf("WriteFile(%q) error = %v", p, err)
		}
	}

	got := strings.Join(s.Stale(), ",")
	if want := "coin/entry.ts,index.ts"; got != want {
		t.Errorf("Stale() = %s, want %s", got, want)
	}

	on, err := os.ReadFile(filepath.Join(dir, "index.ts"))
	if err != nil {
		t.Fatal(err)
	}
	if string(on) != "old" {
		t.Error("CheckSink must not write")
	}
	if _, err := os.Stat(filepath.Join(dir, "coin", "entry.ts")); !os.IsNotExist(err) {
		t.Error("CheckSink must not create files")
	}
}
