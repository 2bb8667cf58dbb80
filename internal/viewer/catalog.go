package viewer

import (
	"strings"

	"github.com/gobwas/glob"
	"github.com/sirupsen/logrus"

	"bmpview/internal/storage"
)

// NotFound is the catalog index when the current file is not in the listing.
const NotFound = -1

// SupportedExtension is the only image format the screen shows.
const SupportedExtension = ".bmp"

// imagePattern matches sibling names; matching is case-sensitive.
var imagePattern = glob.MustCompile("*" + SupportedExtension)

// SiblingCatalog is the ordered list of images next to the current file.
type SiblingCatalog struct {
	dir   string
	names []string
	index int
}

// ScanSiblings lists the images in the directory of filePath and locates
// filePath among them. A directory that cannot be read yields an empty
// catalog.
func ScanSiblings(vol storage.Volume, filePath string, sorter SortStrategy) *SiblingCatalog {
	dir, base := splitPath(filePath)
	c := &SiblingCatalog{dir: dir, index: NotFound}

	d, err := vol.OpenDir(dir)
	if err != nil {
		logrus.Debugf("Sibling scan of %s skipped: %v", dir, err)
		return c
	}
	defer d.Close()

	var names []string
	for entry, ok := d.Next(); ok; entry, ok = d.Next() {
		if entry.IsDir || strings.HasPrefix(entry.Name, ".") {
			continue
		}
		if imagePattern.Match(entry.Name) {
			names = append(names, entry.Name)
		}
	}

	if sorter == nil {
		sorter = &CaseInsensitiveSortStrategy{}
	}
	c.names = sorter.Sort(names)

	for i, name := range c.names {
		if name == base {
			c.index = i
			break
		}
	}

	logrus.Debugf("Sibling scan of %s: %d images, %s at %d (%s)", dir, len(c.names), base, c.index, sorter.Name())
	return c
}

// Len returns the number of images in the catalog.
func (c *SiblingCatalog) Len() int {
	if c == nil {
		return 0
	}
	return len(c.names)
}

// Index returns the position of the current file, or NotFound.
func (c *SiblingCatalog) Index() int {
	if c == nil {
		return NotFound
	}
	return c.index
}

// Dir returns the directory that was scanned, or "" for a nil catalog.
func (c *SiblingCatalog) Dir() string {
	if c == nil {
		return ""
	}
	return c.dir
}

// Names returns a copy of the ordered filenames.
func (c *SiblingCatalog) Names() []string {
	if c == nil {
		return nil
	}
	return cloneNames(c.names)
}

// PathAt returns the full path of the i-th image. c must be non-nil and i
// within [0, Len()).
func (c *SiblingCatalog) PathAt(i int) string {
	return joinPath(c.dir, c.names[i])
}

// Previous moves to the preceding image and returns its path. It does
// nothing at the first image, when the current file is unknown, or when there
// is nothing to page through.
func (c *SiblingCatalog) Previous() (string, bool) {
	if c.Len() <= 1 || c.index <= 0 {
		return "", false
	}
	c.index--
	return c.PathAt(c.index), true
}

// Next moves to the following image and returns its path. It does nothing at
// the last image, when the current file is unknown, or when there is nothing
// to page through.
func (c *SiblingCatalog) Next() (string, bool) {
	if c.Len() <= 1 || c.index == NotFound || c.index >= len(c.names)-1 {
		return "", false
	}
	c.index++
	return c.PathAt(c.index), true
}

// splitPath returns the directory and base name of a volume path. A path
// without a separator, or directly under the root, lives in "/".
func splitPath(p string) (dir, base string) {
	i := strings.LastIndex(p, "/")
	if i < 0 {
		return "/", p
	}
	dir = p[:i]
	if dir == "" {
		dir = "/"
	}
	return dir, p[i+1:]
}

func joinPath(dir, name string) string {
	if strings.HasSuffix(dir, "/") {
		return dir + name
	}
	return dir + "/" + name
}
