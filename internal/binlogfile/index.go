package binlogfile

import (
	"bufio"
	"os"
	"path/filepath"
	"strings"

	"github.com/samsarahq/fluvio-mysql-cdc/internal/cdcerr"
)

// Index is the plain-text file listing binlog file names in rotation
// order, one per line. It is read-only from this process's point of
// view; rotations are detected by polling mtime/size.
type Index struct {
	path        string
	lastModTime int64
	lastSize    int64
}

// NewIndex opens the index file at path, recording its initial
// mtime/size so the first HasChanged call reports no change.
func NewIndex(path string) (*Index, error) {
	idx := &Index{path: path}
	modTime, size, err := idx.stat()
	if err != nil {
		return nil, err
	}
	idx.lastModTime, idx.lastSize = modTime, size
	return idx, nil
}

func (idx *Index) Path() string {
	return idx.path
}

func (idx *Index) stat() (int64, int64, error) {
	info, err := os.Stat(idx.Path())
	if err != nil {
		return 0, 0, cdcerr.WrapBinlogFile(err, "stat index file %s", idx.Path())
	}
	return info.ModTime().UnixNano(), info.Size(), nil
}

// HasChanged reports whether the index file's mtime or size changed
// since the last check.
func (idx *Index) HasChanged() (bool, error) {
	modTime, size, err := idx.stat()
	if err != nil {
		return false, err
	}
	changed := modTime != idx.lastModTime || size != idx.lastSize
	idx.lastModTime, idx.lastSize = modTime, size
	return changed, nil
}

// BinLogFiles returns the base file name of every non-empty line of the
// index file, in the order rotation wrote them.
func (idx *Index) BinLogFiles() ([]string, error) {
	f, err := os.Open(idx.Path())
	if err != nil {
		return nil, cdcerr.WrapBinlogFile(err, "opening index file %s", idx.Path())
	}
	defer f.Close()

	var files []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line != "" {
			files = append(files, filepath.Base(line))
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, cdcerr.WrapBinlogFile(err, "reading index file %s", idx.Path())
	}

	return files, nil
}
