// Package binlogfile watches the rotating binlog directory: the current
// file's growth and the appearance of new files in the index.
package binlogfile

import (
	"os"
	"path/filepath"
	"regexp"
	"strconv"

	"github.com/samsarahq/fluvio-mysql-cdc/internal/cdcerr"
)

var numericSuffixRe = regexp.MustCompile(`(\d+)$`)

// File tracks one binlog file's growth. offset is the last
// fully-consumed byte position (nil means "start of file").
type File struct {
	baseDir  string
	name     string
	offset   *uint64
	lastSize int64
}

// New opens a binlog file handle at the given offset. The file must
// already exist; a missing file is a BinlogFile error.
func New(baseDir, name string, offset *uint64) (*File, error) {
	f := &File{baseDir: baseDir, name: name, offset: offset}
	size, err := f.statSize()
	if err != nil {
		return nil, err
	}
	f.lastSize = size
	return f, nil
}

func (f *File) statSize() (int64, error) {
	info, err := os.Stat(f.Path())
	if err != nil {
		return 0, cdcerr.WrapBinlogFile(err, "stat %s", f.Path())
	}
	return info.Size(), nil
}

// Path is the absolute path to the file.
func (f *File) Path() string {
	return filepath.Join(f.baseDir, f.name)
}

// FileName is the bare rotated file name, e.g. "binlog.000007".
func (f *File) FileName() string {
	return f.name
}

// Offset is the last fully-consumed byte position.
func (f *File) Offset() *uint64 {
	return f.offset
}

// SetOffset records the new tail position after a parse pass.
func (f *File) SetOffset(offset *uint64) {
	f.offset = offset
}

// FileID is the numeric rotation suffix of the file name ("binlog.7" ->
// 7); files without a numeric suffix sort as id 0.
func (f *File) FileID() int {
	return FileID(f.name)
}

// FileID extracts the numeric rotation suffix from a bare file name.
func FileID(name string) int {
	m := numericSuffixRe.FindStringSubmatch(name)
	if m == nil {
		return 0
	}
	id, err := strconv.Atoi(m[1])
	if err != nil {
		return 0
	}
	return id
}

// HasChanged reports whether the file's size differs from the last
// check, updating the tracked size as a side effect.
func (f *File) HasChanged() (bool, error) {
	size, err := f.statSize()
	if err != nil {
		return false, err
	}
	changed := size != f.lastSize
	f.lastSize = size
	return changed, nil
}
