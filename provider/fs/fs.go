// Package fs stores File tier entries as one file per key on an afero.Fs.
package fs

import (
	"context"
	"errors"
	iofs "io/fs"
	"os"
	"path/filepath"

	"github.com/spf13/afero"

	pr "github.com/unkn0wn-root/objcache/provider"
)

const (
	defaultDirPerm  iofs.FileMode = 0o755
	defaultFilePerm iofs.FileMode = 0o644
)

// Provider maps keys directly to file paths.
type Provider struct {
	fs       afero.Fs
	dirPerm  iofs.FileMode
	filePerm iofs.FileMode
}

var _ pr.Provider = (*Provider)(nil)

type Config struct {
	Fs       afero.Fs      // nil => afero.NewOsFs()
	DirPerm  iofs.FileMode // 0 => 0755
	FilePerm iofs.FileMode // 0 => 0644
}

func New(cfg Config) *Provider {
	p := &Provider{fs: cfg.Fs, dirPerm: cfg.DirPerm, filePerm: cfg.FilePerm}
	if p.fs == nil {
		p.fs = afero.NewOsFs()
	}
	if p.dirPerm == 0 {
		p.dirPerm = defaultDirPerm
	}
	if p.filePerm == 0 {
		p.filePerm = defaultFilePerm
	}
	return p
}

func (p *Provider) Get(_ context.Context, key string) ([]byte, bool, error) {
	b, err := afero.ReadFile(p.fs, key)
	if errors.Is(err, os.ErrNotExist) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return b, true, nil
}

// Set writes to a temp file in the target directory and renames it into
// place, so concurrent readers see either the old or the new file.
func (p *Provider) Set(_ context.Context, key string, value []byte) error {
	dir := filepath.Dir(key)
	if err := p.fs.MkdirAll(dir, p.dirPerm); err != nil {
		return err
	}

	tmp, err := afero.TempFile(p.fs, dir, "."+filepath.Base(key)+".*.tmp")
	if err != nil {
		return err
	}
	tmpPath := tmp.Name()

	_, err = tmp.Write(value)
	closeErr := tmp.Close()
	if err == nil {
		err = closeErr
	}
	if err == nil {
		err = p.fs.Chmod(tmpPath, p.filePerm)
	}
	if err == nil {
		err = p.fs.Rename(tmpPath, key)
	}
	if err != nil {
		_ = p.fs.Remove(tmpPath)
		return err
	}
	return nil
}

func (p *Provider) Has(_ context.Context, key string) (bool, error) {
	fi, err := p.fs.Stat(key)
	if errors.Is(err, os.ErrNotExist) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return !fi.IsDir(), nil
}

// Del removes the file at key. A directory at key is left alone, matching Has.
func (p *Provider) Del(_ context.Context, key string) error {
	fi, err := p.fs.Stat(key)
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	if err != nil {
		return err
	}
	if fi.IsDir() {
		return nil
	}
	err = p.fs.Remove(key)
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	return err
}

func (p *Provider) Close(context.Context) error { return nil }
