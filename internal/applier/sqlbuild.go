// Package applier replays a decoded envelope's Operation against a
// MySQL database, building parameterized INSERT/UPDATE/DELETE
// statements from the envelope's position-indexed row values.
package applier

import (
	"bytes"
	"sort"

	"github.com/samsarahq/fluvio-mysql-cdc/internal/cdcmsg"
)

// sortedKeys returns row's column positions in ascending order, so
// generated SQL has a stable, repeatable column ordering.
func sortedKeys(row cdcmsg.Row) []int {
	keys := make([]int, 0, len(row))
	for k := range row {
		keys = append(keys, k)
	}
	sort.Ints(keys)
	return keys
}

// columnName maps a row's positional index to a column name using the
// catalog's ordered column list for the table.
func columnName(columns []string, pos int) (string, bool) {
	if pos < 0 || pos >= len(columns) {
		return "", false
	}
	return columns[pos], true
}

// buildInsert builds a parameterized INSERT INTO x (a, b) VALUES (?, ?)
// statement from a single row's positional values, mirroring
// InsertQuery.ToSQL.
func buildInsert(table string, columns []string, row cdcmsg.Row) (string, []interface{}, error) {
	keys := sortedKeys(row)

	var buffer bytes.Buffer
	buffer.WriteString("INSERT INTO ")
	buffer.WriteString(table)

	if len(keys) == 0 {
		return buffer.String(), nil, nil
	}

	names := make([]string, 0, len(keys))
	values := make([]interface{}, 0, len(keys))
	for _, pos := range keys {
		name, ok := columnName(columns, pos)
		if !ok {
			return "", nil, errUnknownColumn(table, pos)
		}
		names = append(names, name)
		values = append(values, row[pos])
	}

	buffer.WriteString(" (")
	for i, name := range names {
		if i > 0 {
			buffer.WriteString(", ")
		}
		buffer.WriteString(name)
	}
	buffer.WriteString(") VALUES (")
	for i := range names {
		if i > 0 {
			buffer.WriteString(", ")
		}
		buffer.WriteString("?")
	}
	buffer.WriteString(")")

	return buffer.String(), values, nil
}

// buildWhere builds an `a = ? AND b = ?` clause (using IS for nil
// values) from a row's positional values, mirroring SimpleWhere.ToSQL.
func buildWhere(table string, columns []string, row cdcmsg.Row) (string, []interface{}, error) {
	keys := sortedKeys(row)

	var buffer bytes.Buffer
	values := make([]interface{}, 0, len(keys))
	for i, pos := range keys {
		name, ok := columnName(columns, pos)
		if !ok {
			return "", nil, errUnknownColumn(table, pos)
		}
		if i > 0 {
			buffer.WriteString(" AND ")
		}
		buffer.WriteString(name)
		value := row[pos]
		if value == nil {
			buffer.WriteString(" IS ?")
		} else {
			buffer.WriteString(" = ?")
		}
		values = append(values, value)
	}

	return buffer.String(), values, nil
}

// buildUpdate builds a parameterized UPDATE x SET a = ? WHERE b = ?
// statement: the SET clause comes from the row after the change, the
// WHERE clause keys on every column of the row before the change, so
// the update only lands if the row is still in its pre-change state.
func buildUpdate(table string, columns []string, pair cdcmsg.RowPair) (string, []interface{}, error) {
	setKeys := sortedKeys(pair.After)

	var buffer bytes.Buffer
	buffer.WriteString("UPDATE ")
	buffer.WriteString(table)

	setValues := make([]interface{}, 0, len(setKeys))
	if len(setKeys) > 0 {
		buffer.WriteString(" SET ")
		for i, pos := range setKeys {
			name, ok := columnName(columns, pos)
			if !ok {
				return "", nil, errUnknownColumn(table, pos)
			}
			if i > 0 {
				buffer.WriteString(", ")
			}
			buffer.WriteString(name)
			buffer.WriteString(" = ?")
			setValues = append(setValues, pair.After[pos])
		}
	}

	where, whereValues, err := buildWhere(table, columns, pair.Before)
	if err != nil {
		return "", nil, err
	}
	if where != "" {
		buffer.WriteString(" WHERE ")
		buffer.WriteString(where)
	}

	values := make([]interface{}, 0, len(setValues)+len(whereValues))
	values = append(values, setValues...)
	values = append(values, whereValues...)

	return buffer.String(), values, nil
}

// buildDelete builds a parameterized DELETE FROM x WHERE a = ? AND
// b = ? statement keying on every column of the deleted row.
func buildDelete(table string, columns []string, row cdcmsg.Row) (string, []interface{}, error) {
	var buffer bytes.Buffer
	buffer.WriteString("DELETE FROM ")
	buffer.WriteString(table)

	where, values, err := buildWhere(table, columns, row)
	if err != nil {
		return "", nil, err
	}
	if where != "" {
		buffer.WriteString(" WHERE ")
		buffer.WriteString(where)
	}

	return buffer.String(), values, nil
}
