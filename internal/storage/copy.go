package storage

import (
	"errors"
	"fmt"
	"io"

	"github.com/sirupsen/logrus"
)

// DefaultChunkSize is the size of the buffer used to stream a copy.
const DefaultChunkSize = 2048

// copyTag labels the handles opened by a copy in the volume's debug log.
const copyTag = "BMP"

// ErrShortWrite is returned when the destination accepted fewer bytes than
// were read from the source.
var ErrShortWrite = errors.New("short write")

// Copier streams one file to another through a fixed size buffer.
type Copier struct {
	vol       Volume
	chunkSize int
}

// NewCopier returns a Copier for vol. A non-positive chunkSize selects
// DefaultChunkSize.
func NewCopier(vol Volume, chunkSize int) *Copier {
	if chunkSize <= 0 {
		chunkSize = DefaultChunkSize
	}
	return &Copier{vol: vol, chunkSize: chunkSize}
}

// CopyFile copies src to dst on vol with the default chunk size.
func CopyFile(vol Volume, src, dst string) error {
	return NewCopier(vol, DefaultChunkSize).Copy(src, dst)
}

// Copy duplicates src into dst. Every chunk read must be written in full;
// the first short write aborts the copy. On failure a partially written
// destination is removed. Copying a readable file onto itself succeeds
// without writing.
func (c *Copier) Copy(src, dst string) (err error) {
	in, err := c.vol.OpenForRead(copyTag, src)
	if err != nil {
		return err
	}
	defer in.Close()

	if clean(src) == clean(dst) {
		// The source is already in place; opening it for write would truncate it.
		logrus.Debugf("Copy of %s onto itself skipped", src)
		return nil
	}

	out, err := c.vol.OpenForWrite(copyTag, dst)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := out.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("closing %s: %w", dst, cerr)
		}
		if err != nil {
			if rerr := c.vol.Remove(dst); rerr != nil {
				logrus.Warnf("Failed to remove partial copy %s: %v", dst, rerr)
			}
		}
	}()

	written, err := c.stream(in, out)
	if err != nil {
		return fmt.Errorf("copying %s to %s after %d bytes: %w", src, dst, written, err)
	}
	logrus.Debugf("Copied %s to %s (%d bytes)", src, dst, written)
	return nil
}

func (c *Copier) stream(in io.Reader, out io.Writer) (int64, error) {
	buf := make([]byte, c.chunkSize)
	var total int64
	for {
		n, rerr := in.Read(buf)
		if n > 0 {
			w, werr := out.Write(buf[:n])
			if w > 0 {
				total += int64(w)
			}
			if werr != nil || w != n {
				if werr == nil {
					werr = io.ErrShortWrite
				}
				return total, fmt.Errorf("%w: wrote %d of %d bytes: %v", ErrShortWrite, w, n, werr)
			}
		}
		if rerr == io.EOF {
			return total, nil
		}
		if rerr != nil {
			return total, rerr
		}
		if n == 0 {
			return total, nil
		}
	}
}
