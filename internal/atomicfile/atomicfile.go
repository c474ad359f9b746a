// Package atomicfile persists small JSON documents (the schema catalog,
// the resume marker, the consumer offset) without ever leaving a
// half-written file behind on a crash between write and close.
package atomicfile

import (
	"os"
	"path/filepath"

	uuid "github.com/satori/go.uuid"

	"github.com/samsarahq/fluvio-mysql-cdc/internal/cdcerr"
)

// Write writes data to a temp file in the same directory as path and
// renames it into place, so readers never observe a partial write.
func Write(path string, data []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return cdcerr.WrapIO(err, "creating directory for %s", path)
	}

	tmp := path + ".tmp-" + uuid.NewV4().String()
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return cdcerr.WrapIO(err, "writing temp file %s", tmp)
	}

	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return cdcerr.WrapIO(err, "renaming %s to %s", tmp, path)
	}

	return nil
}

// ReadOrEmpty loads path's contents, treating a missing file as empty
// rather than an error, the same bootstrap behavior the catalog and
// resume stores need on a brand new producer run.
func ReadOrEmpty(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, cdcerr.WrapIO(err, "reading %s", path)
	}
	return data, nil
}
