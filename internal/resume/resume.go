// Package resume persists the producer's "last file + byte offset
// observed" marker so a restart can pick up exactly where it left off.
package resume

import (
	"encoding/json"

	"github.com/samsarahq/fluvio-mysql-cdc/internal/atomicfile"
	"github.com/samsarahq/fluvio-mysql-cdc/internal/cdcerr"
	"github.com/samsarahq/fluvio-mysql-cdc/internal/cdcmsg"
)

// Resume is the durable {file_name, offset} marker. A Resume with a nil
// BnFile represents "empty" — no prior run to resume from.
type Resume struct {
	path   string
	BnFile *cdcmsg.BnFile
}

// Load reads path, treating a missing or empty file as an empty Resume.
func Load(path string) (*Resume, error) {
	data, err := atomicfile.ReadOrEmpty(path)
	if err != nil {
		return nil, err
	}

	r := &Resume{path: path}
	if len(data) == 0 {
		return r, nil
	}

	var bnFile cdcmsg.BnFile
	if err := json.Unmarshal(data, &bnFile); err != nil {
		return nil, cdcerr.WrapResumeFile(err, "decoding resume file %s", path)
	}
	r.BnFile = &bnFile
	return r, nil
}

// IsEmpty reports whether there is no prior position to resume from.
func (r *Resume) IsEmpty() bool {
	return r.BnFile == nil
}

// Update atomically replaces the on-disk resume marker with bnFile and
// records it in memory.
func (r *Resume) Update(bnFile cdcmsg.BnFile) error {
	data, err := json.Marshal(bnFile)
	if err != nil {
		return cdcerr.WrapJSON(err, "encoding resume marker")
	}
	if err := atomicfile.Write(r.path, data); err != nil {
		return err
	}
	r.BnFile = &bnFile
	return nil
}
