package cdcmsg

// Row is a position-indexed column value map, matching the way a binlog
// row image carries values before a column list is known — position 0 is
// the first column the decoder scanned, and so on.
type Row map[int]interface{}

// RowPair is a before/after image for an UPDATE row event.
type RowPair struct {
	Before Row `json:"before"`
	After  Row `json:"after"`
}

// Operation is the tagged payload of an event envelope. Exactly one field
// is populated; which one is implied by the wire shape
// {"Add":{...}} / {"Update":{...}} / {"Delete":{...}} / {"Query":"..."}.
type Operation struct {
	Query  *string   `json:"Query,omitempty"`
	Add    *RowsOp   `json:"Add,omitempty"`
	Update *UpdateOp `json:"Update,omitempty"`
	Delete *RowsOp   `json:"Delete,omitempty"`
}

type RowsOp struct {
	Rows []Row `json:"rows"`
}

type UpdateOp struct {
	Rows []RowPair `json:"rows"`
}

func QueryOperation(sql string) Operation {
	return Operation{Query: &sql}
}

func AddOperation(rows []Row) Operation {
	return Operation{Add: &RowsOp{Rows: rows}}
}

func UpdateOperation(pairs []RowPair) Operation {
	return Operation{Update: &UpdateOp{Rows: pairs}}
}

func DeleteOperation(rows []Row) Operation {
	return Operation{Delete: &RowsOp{Rows: rows}}
}
