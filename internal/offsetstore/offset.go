// Package offsetstore durably tracks the consumer's position in the
// bus stream as a plain decimal uint64, matching the
// last_offset_file's textual encoding described for the consumer.
package offsetstore

import (
	"strconv"
	"strings"
	"sync"

	"github.com/samsarahq/fluvio-mysql-cdc/internal/atomicfile"
	"github.com/samsarahq/fluvio-mysql-cdc/internal/cdcerr"
)

type Store struct {
	mu      sync.Mutex
	path    string
	offset  uint64
	hasRead bool
}

// Init reads path, treating a missing or empty file as "no prior
// offset" rather than offset zero, so a fresh consumer starts at the
// bus's earliest record instead of skipping it.
func Init(path string) (*Store, error) {
	data, err := atomicfile.ReadOrEmpty(path)
	if err != nil {
		return nil, err
	}

	s := &Store{path: path}

	text := strings.TrimSpace(string(data))
	if text == "" {
		return s, nil
	}

	offset, err := strconv.ParseUint(text, 10, 64)
	if err != nil {
		return nil, cdcerr.WrapResumeFile(err, "parsing offset file %s", path)
	}
	s.offset = offset
	s.hasRead = true

	return s, nil
}

// Offset returns the last applied bus offset and whether one has ever
// been recorded.
func (s *Store) Offset() (offset uint64, ok bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.offset, s.hasRead
}

// Advance records offset as the last successfully applied message and
// persists it atomically.
func (s *Store) Advance(offset uint64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.offset = offset
	s.hasRead = true
	return atomicfile.Write(s.path, []byte(strconv.FormatUint(s.offset, 10)))
}
