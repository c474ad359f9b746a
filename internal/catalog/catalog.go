// Package catalog tracks per-table column lists inferred from DDL seen
// in the binlog stream, since row events reference columns only by
// position. Creating a table that already exists aborts the rest of
// the batch but leaves earlier mutations in the same batch in place.
package catalog

import (
	"encoding/json"
	"fmt"
	"sync"

	"github.com/samsarahq/fluvio-mysql-cdc/internal/atomicfile"
	"github.com/samsarahq/fluvio-mysql-cdc/internal/cdcerr"
	"github.com/samsarahq/fluvio-mysql-cdc/internal/ddlparse"
)

// Catalog is {db -> {table -> ordered column list}}, write-through
// persisted as a single JSON file after every successful Apply.
type Catalog struct {
	mu   sync.Mutex
	path string
	dbs  map[string]map[string][]string
}

// Load reads path into a Catalog. A missing file yields an empty
// catalog and the parent directory is created on the first write.
func Load(path string) (*Catalog, error) {
	data, err := atomicfile.ReadOrEmpty(path)
	if err != nil {
		return nil, err
	}

	dbs := map[string]map[string][]string{}
	if len(data) > 0 {
		if err := json.Unmarshal(data, &dbs); err != nil {
			return nil, cdcerr.WrapJSON(err, "decoding catalog %s", path)
		}
	}

	return &Catalog{path: path, dbs: dbs}, nil
}

// Columns returns the known column list for (db, table), failing if
// either key is absent.
func (c *Catalog) Columns(db, table string) ([]string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	tables, ok := c.dbs[db]
	if !ok {
		return nil, fmt.Errorf("cannot find columns for table %s.%s", db, table)
	}
	columns, ok := tables[table]
	if !ok {
		return nil, fmt.Errorf("cannot find columns for table %s.%s", db, table)
	}

	out := make([]string, len(columns))
	copy(out, columns)
	return out, nil
}

// Apply mutates the in-memory catalog with ops (in order) and persists
// the whole catalog atomically. If an op fails (CreateTable on an
// existing table), the ops applied before it remain in effect and the
// error is returned.
func (c *Catalog) Apply(db string, ops []ddlparse.TableOp) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	for _, op := range ops {
		if err := c.applyOne(db, op); err != nil {
			if werr := c.persistLocked(); werr != nil {
				return werr
			}
			return err
		}
	}

	return c.persistLocked()
}

func (c *Catalog) applyOne(db string, op ddlparse.TableOp) error {
	switch op.Kind {
	case ddlparse.TableCreate:
		return c.createTable(db, op.Table, op.Columns)
	case ddlparse.TableAlter:
		return c.alterTable(db, op.Table, *op.Column)
	default:
		c.dropTables(db, op.Tables)
		return nil
	}
}

func (c *Catalog) createTable(db, table string, columns []string) error {
	tables, ok := c.dbs[db]
	if !ok {
		tables = map[string][]string{}
		c.dbs[db] = tables
	}

	if _, exists := tables[table]; exists {
		return fmt.Errorf("table %s already exists", table)
	}

	cols := make([]string, len(columns))
	copy(cols, columns)
	tables[table] = cols
	return nil
}

func (c *Catalog) alterTable(db, table string, op ddlparse.ColumnOp) error {
	tables, ok := c.dbs[db]
	if !ok {
		return nil
	}
	columns, ok := tables[table]
	if !ok {
		return nil
	}

	switch op.Kind {
	case ddlparse.ColumnAdd:
		tables[table] = append(columns, op.Name)
	case ddlparse.ColumnRename:
		for i, col := range columns {
			if col == op.Name {
				columns[i] = op.NewName
			}
		}
	case ddlparse.ColumnDrop:
		kept := columns[:0]
		for _, col := range columns {
			if col != op.Name {
				kept = append(kept, col)
			}
		}
		tables[table] = kept
	}
	return nil
}

func (c *Catalog) dropTables(db string, tableNames []string) {
	tables, ok := c.dbs[db]
	if !ok {
		return
	}
	for _, name := range tableNames {
		delete(tables, name)
	}
	if len(tables) == 0 {
		delete(c.dbs, db)
	}
}

func (c *Catalog) persistLocked() error {
	data, err := json.Marshal(c.dbs)
	if err != nil {
		return cdcerr.WrapJSON(err, "encoding catalog")
	}
	return atomicfile.Write(c.path, data)
}
