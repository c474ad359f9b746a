package applier

import "fmt"

func errUnknownColumn(table string, pos int) error {
	return fmt.Errorf("no column at position %d for table %s", pos, table)
}
