package cdcmsg

import "strings"

// Filters is an untagged oneof over the TOML shapes `include_dbs = [...]`
// and `exclude_dbs = [...]`; exactly one of IncludeDBs/ExcludeDBs is set.
// A zero-value Filters (both nil) allows everything.
type Filters struct {
	IncludeDBs []string `toml:"include_dbs" json:"include_dbs,omitempty"`
	ExcludeDBs []string `toml:"exclude_dbs" json:"exclude_dbs,omitempty"`
}

// Normalize ASCII-lowercases every configured db name, matching the
// producer and consumer profile loaders.
func (f *Filters) Normalize() {
	for i, name := range f.IncludeDBs {
		f.IncludeDBs[i] = strings.ToLower(name)
	}
	for i, name := range f.ExcludeDBs {
		f.ExcludeDBs[i] = strings.ToLower(name)
	}
}

// Allowed reports whether db passes the filter. A filter-less db (empty
// string) is always allowed, and a zero-value Filters allows everything.
func (f *Filters) Allowed(db string) bool {
	if db == "" {
		return true
	}
	db = strings.ToLower(db)

	if f == nil || (f.IncludeDBs == nil && f.ExcludeDBs == nil) {
		return true
	}

	if f.IncludeDBs != nil {
		for _, name := range f.IncludeDBs {
			if name == db {
				return true
			}
		}
		return false
	}

	for _, name := range f.ExcludeDBs {
		if name == db {
			return false
		}
	}
	return true
}
