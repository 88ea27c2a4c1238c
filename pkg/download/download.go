// Package download delivers export payloads to the user, either as files on
// a filesystem or as a byte stream.
package download

import (
	"fmt"
	"io"
	"path/filepath"

	"github.com/spf13/afero"

	"github.com/yurifrl/budgetu/pkg/export"
)

// FileDownloader writes each payload to Dir/payload.Filename on Fs,
// replacing any previous file of the same name.
type FileDownloader struct {
	Fs  afero.Fs
	Dir string
}

// NewFileDownloader returns a FileDownloader on the OS filesystem.
func NewFileDownloader(dir string) *FileDownloader {
	return &FileDownloader{Fs: afero.NewOsFs(), Dir: dir}
}

func (d *FileDownloader) Offer(p export.Payload) error {
	dir := d.Dir
	if dir == "" {
		dir = "."
	}
	if err := d.Fs.MkdirAll(dir, 0o755); err != nil {
		return &export.DeliveryError{Filename: p.Filename, Err: fmt.Errorf("failed to create output directory: %w", err)}
	}

	path := filepath.Join(dir, p.Filename)
	if err := afero.WriteFile(d.Fs, path, p.Bytes, 0o644); err != nil {
		return &export.DeliveryError{Filename: p.Filename, Err: fmt.Errorf("failed to write %s: %w", path, err)}
	}
	return nil
}

// Path returns where a payload named filename ends up.
func (d *FileDownloader) Path(filename string) string {
	if d.Dir == "" {
		return filename
	}
	return filepath.Join(d.Dir, filename)
}

// WriterDownloader streams payload bytes to W, e.g. stdout.
type WriterDownloader struct {
	W io.Writer
}

func (d *WriterDownloader) Offer(p export.Payload) error {
	n, err := d.W.Write(p.Bytes)
	if err == nil && n != len(p.Bytes) {
		err = io.ErrShortWrite
	}
	if err != nil {
		return &export.DeliveryError{Filename: p.Filename, Err: err}
	}
	return nil
}
