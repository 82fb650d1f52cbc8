package upload

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// File is something that can be uploaded.
type File interface {
	Name() string
	Size() int64
	// ContentType is the type declared by whoever supplied the file, or "".
	ContentType() string
	Open() (io.ReadCloser, error)
}

// LocalFile is a file on disk. Disks do not declare content types, so the
// pipeline always derives one from the extension.
type LocalFile struct {
	path string
	size int64
}

// OpenFile stats path and returns it as an uploadable File.
func OpenFile(path string) (*LocalFile, error) {
	fi, err := os.Stat(path)
	if err != nil {
		return nil, err
	}
	if fi.IsDir() {
		return nil, fmt.Errorf("%s is a directory", path)
	}
	return &LocalFile{path: path, size: fi.Size()}, nil
}

func (f *LocalFile) Name() string        { return filepath.Base(f.path) }
func (f *LocalFile) Size() int64         { return f.size }
func (f *LocalFile) ContentType() string { return "" }
func (f *LocalFile) Path() string        { return f.path }

func (f *LocalFile) Open() (io.ReadCloser, error) {
	return os.Open(f.path)
}

// MemFile is an in-memory File.
type MemFile struct {
	FileName string
	Type     string
	Data     []byte
}

func (f MemFile) Name() string        { return f.FileName }
func (f MemFile) Size() int64         { return int64(len(f.Data)) }
func (f MemFile) ContentType() string { return f.Type }

func (f MemFile) Open() (io.ReadCloser, error) {
	return io.NopCloser(bytes.NewReader(f.Data)), nil
}
