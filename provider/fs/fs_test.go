package fs

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/spf13/afero"
)

func TestSetGetHasDelOnMemFs(t *testing.T) {
	ctx := context.Background()
	mfs := afero.NewMemMapFs()
	p := New(Config{Fs: mfs})

	key := "/cache/ns/abc123"

	if _, ok, err := p.Get(ctx, key); err != nil || ok {
		t.Fatalf("Get miss expected, ok=%v err=%v", ok, err)
	}
	if ok, err := p.Has(ctx, key); err != nil || ok {
		t.Fatalf("Has on missing: ok=%v err=%v", ok, err)
	}

	if err := p.Set(ctx, key, []byte("v1")); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if b, ok, err := p.Get(ctx, key); err != nil || !ok || string(b) != "v1" {
		t.Fatalf("Get after Set: b=%q ok=%v err=%v", b, ok, err)
	}
	if ok, err := p.Has(ctx, key); err != nil || !ok {
		t.Fatalf("Has after Set: ok=%v err=%v", ok, err)
	}

	// overwrite
	if err := p.Set(ctx, key, []byte("v2")); err != nil {
		t.Fatalf("Set overwrite: %v", err)
	}
	if b, _, _ := p.Get(ctx, key); string(b) != "v2" {
		t.Fatalf("overwrite not visible, got %q", b)
	}

	if err := p.Del(ctx, key); err != nil {
		t.Fatalf("Del: %v", err)
	}
	if err := p.Del(ctx, key); err != nil {
		t.Fatalf("Del of missing key must succeed, got %v", err)
	}
	if _, ok, _ := p.Get(ctx, key); ok {
		t.Fatalf("Get after Del should miss")
	}
}

func TestSetLeavesNoTempFiles(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	p := New(Config{})

	key := filepath.Join(dir, "nested", "deeper", "entry")
	if err := p.Set(ctx, key, []byte("payload")); err != nil {
		t.Fatalf("Set: %v", err)
	}

	entries, err := os.ReadDir(filepath.Dir(key))
	if err != nil {
		t.Fatalf("ReadDir: %v", err)
	}
	if len(entries) != 1 || entries[0].Name() != "entry" {
		names := make([]string, 0, len(entries))
		for _, e := range entries {
			names = append(names, e.Name())
		}
		t.Fatalf("unexpected directory contents: %v", names)
	}

	fi, err := os.Stat(key)
	if err != nil {
		t.Fatalf("Stat: %v", err)
	}
	if fi.Mode().Perm() != defaultFilePerm {
		t.Fatalf("file perm = %v, want %v", fi.Mode().Perm(), defaultFilePerm)
	}
}

func TestHasIsFalseForDirectory(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	p := New(Config{})
	if ok, err := p.Has(ctx, dir); err != nil || ok {
		t.Fatalf("Has(dir) = %v, %v; want false, nil", ok, err)
	}
}

func TestDelLeavesDirectoryInPlace(t *testing.T) {
	ctx := context.Background()
	dir := filepath.Join(t.TempDir(), "empty")
	if err := os.Mkdir(dir, 0o755); err != nil {
		t.Fatal(err)
	}
	p := New(Config{})
	if err := p.Del(ctx, dir); err != nil {
		t.Fatalf("Del(dir) = %v, want nil", err)
	}
	fi, err := os.Stat(dir)
	if err != nil || !fi.IsDir() {
		t.Fatalf("directory removed by Del: %v", err)
	}
}

func TestSetFailsWhenParentIsAFile(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	p := New(Config{})

	blocker := filepath.Join(dir, "blocker")
	if err := os.WriteFile(blocker, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := p.Set(ctx, filepath.Join(blocker, "child"), []byte("v")); err == nil {
		t.Fatalf("expected error writing below a regular file")
	}
}

func TestConcurrentSetsSameKeyLastWriterWins(t *testing.T) {
	ctx := context.Background()
	p := New(Config{Fs: afero.NewMemMapFs()})
	key := "/c/k"

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_ = p.Set(ctx, key, []byte(strings.Repeat("x", i+1)))
		}(i)
	}
	wg.Wait()

	b, ok, err := p.Get(ctx, key)
	if err != nil || !ok {
		t.Fatalf("Get: ok=%v err=%v", ok, err)
	}
	if len(b) == 0 || strings.Trim(string(b), "x") != "" {
		t.Fatalf("torn or empty value: %q", b)
	}
}
