package ddlparse

import (
	"fmt"
	"strings"
)

type ColumnOpKind int

const (
	ColumnAdd ColumnOpKind = iota
	ColumnRename
	ColumnDrop
)

// ColumnOp is the column-level mutation carried by an AlterTable TableOp.
type ColumnOp struct {
	Kind    ColumnOpKind
	Name    string // Add/Drop target, or Rename's old name
	NewName string // Rename's new name only
}

type TableOpKind int

const (
	TableCreate TableOpKind = iota
	TableAlter
	TableDrop
)

// TableOp is one catalog mutation parsed out of a DDL statement.
type TableOp struct {
	Kind     TableOpKind
	Table    string   // CreateTable/AlterTable name
	Columns  []string // CreateTable's column list, declaration order
	Column   *ColumnOp
	Tables   []string // DropTable's table list
}

func CreateTable(table string, columns []string) TableOp {
	return TableOp{Kind: TableCreate, Table: table, Columns: columns}
}

func AlterTable(table string, op ColumnOp) TableOp {
	return TableOp{Kind: TableAlter, Table: table, Column: &op}
}

func DropTable(tables []string) TableOp {
	return TableOp{Kind: TableDrop, Tables: tables}
}

// String renders the same human-readable form the catalog logs after
// every applied DDL statement.
func (t TableOp) String() string {
	switch t.Kind {
	case TableCreate:
		return fmt.Sprintf("Create Table %s - add columns (%s)", t.Table, strings.Join(t.Columns, ", "))
	case TableAlter:
		switch t.Column.Kind {
		case ColumnAdd:
			return fmt.Sprintf("Alter Table %s - add column %s", t.Table, t.Column.Name)
		case ColumnRename:
			return fmt.Sprintf("Alter Table %s - rename column %s to %s", t.Table, t.Column.Name, t.Column.NewName)
		default:
			return fmt.Sprintf("Alter Table %s - remove column %s", t.Table, t.Column.Name)
		}
	default:
		return fmt.Sprintf("Drop Tables (%s)", strings.Join(t.Tables, ", "))
	}
}
