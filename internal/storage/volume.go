// Package storage provides the file volume used by the viewer screen:
// directory iteration, scoped read/write handles and removal.
package storage

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/spf13/afero"
)

var (
	// ErrNotDir is returned by OpenDir when the path exists but is a file.
	ErrNotDir = errors.New("not a directory")
	// ErrOpen wraps any failure to open a file for read or write.
	ErrOpen = errors.New("open failed")
)

// readdirBatch is how many entries a Dir pulls from the filesystem at once.
const readdirBatch = 16

// Entry is a single child of a directory.
type Entry struct {
	Name  string
	IsDir bool
}

// Dir iterates the children of an open directory.
type Dir interface {
	// Next returns the next entry, or false once the directory is exhausted.
	Next() (Entry, bool)
	Close() error
}

// File is an open handle for streaming reads or writes.
type File interface {
	io.Reader
	io.Writer
	io.Closer
}

// Volume is the storage collaborator of the viewer.
type Volume interface {
	OpenDir(dirPath string) (Dir, error)
	OpenForRead(tag, filePath string) (File, error)
	OpenForWrite(tag, filePath string) (File, error)
	Remove(filePath string) error
}

// AferoVolume implements Volume on top of an afero filesystem.
type AferoVolume struct {
	fs afero.Fs
}

// NewAferoVolume wraps fs. Paths handed to the volume are slash separated and
// rooted at "/".
func NewAferoVolume(fs afero.Fs) *AferoVolume {
	return &AferoVolume{fs: fs}
}

// NewHostVolume roots a volume at a directory of the host filesystem, the way
// the SD card is mounted on the device.
func NewHostVolume(root string) (*AferoVolume, error) {
	info, err := os.Stat(root)
	if err != nil {
		return nil, fmt.Errorf("volume root %s: %w", root, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("volume root %s: %w", root, ErrNotDir)
	}
	return NewAferoVolume(afero.NewBasePathFs(afero.NewOsFs(), root)), nil
}

// Fs exposes the underlying filesystem (used for the settings file).
func (v *AferoVolume) Fs() afero.Fs {
	return v.fs
}

func (v *AferoVolume) OpenDir(dirPath string) (Dir, error) {
	f, err := v.fs.Open(clean(dirPath))
	if err != nil {
		return nil, err
	}
	info, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, err
	}
	if !info.IsDir() {
		f.Close()
		return nil, fmt.Errorf("%s: %w", dirPath, ErrNotDir)
	}
	return &aferoDir{f: f}, nil
}

func (v *AferoVolume) OpenForRead(tag, filePath string) (File, error) {
	f, err := v.fs.Open(clean(filePath))
	if err != nil {
		logrus.Debugf("[%s] open for read %s: %v", tag, filePath, err)
		return nil, fmt.Errorf("%w: %s: %v", ErrOpen, filePath, err)
	}
	info, err := f.Stat()
	if err == nil && info.IsDir() {
		f.Close()
		return nil, fmt.Errorf("%w: %s is a directory", ErrOpen, filePath)
	}
	logrus.Debugf("[%s] opened %s for read", tag, filePath)
	return f, nil
}

func (v *AferoVolume) OpenForWrite(tag, filePath string) (File, error) {
	f, err := v.fs.OpenFile(clean(filePath), os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0644)
	if err != nil {
		logrus.Debugf("[%s] open for write %s: %v", tag, filePath, err)
		return nil, fmt.Errorf("%w: %s: %v", ErrOpen, filePath, err)
	}
	logrus.Debugf("[%s] opened %s for write", tag, filePath)
	return f, nil
}

func (v *AferoVolume) Remove(filePath string) error {
	return v.fs.Remove(clean(filePath))
}

type aferoDir struct {
	f       afero.File
	pending []os.FileInfo
	done    bool
}

func (d *aferoDir) Next() (Entry, bool) {
	for len(d.pending) == 0 {
		if d.done {
			return Entry{}, false
		}
		infos, err := d.f.Readdir(readdirBatch)
		d.pending = infos
		if err != nil || len(infos) == 0 {
			if err != nil && err != io.EOF {
				logrus.Debugf("readdir %s: %v", d.f.Name(), err)
			}
			d.done = true
		}
	}
	info := d.pending[0]
	d.pending = d.pending[1:]
	return Entry{Name: info.Name(), IsDir: info.IsDir()}, true
}

func (d *aferoDir) Close() error {
	return d.f.Close()
}

// clean normalizes a volume path to an absolute, slash separated form.
func clean(p string) string {
	if !strings.HasPrefix(p, "/") {
		p = "/" + p
	}
	return path.Clean(p)
}
