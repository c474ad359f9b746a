package follower

import (
	"strings"

	"github.com/siddontang/go-mysql/replication"

	"github.com/samsarahq/fluvio-mysql-cdc/internal/catalog"
	"github.com/samsarahq/fluvio-mysql-cdc/internal/cdcerr"
	"github.com/samsarahq/fluvio-mysql-cdc/internal/cdcmsg"
	"github.com/samsarahq/fluvio-mysql-cdc/internal/ddlparse"
	"github.com/samsarahq/fluvio-mysql-cdc/logger"
)

// tableCache resolves a RowsEvent's TableID to the schema/table names
// carried by the TableMapEvent that preceded it in the stream, mirroring
// livesql/binlog.go's columnMaps cache keyed by TableID (adapted here to
// hold names instead of reflected struct column maps, since our catalog
// already owns the authoritative column list).
type tableCache map[uint64]struct {
	schema string
	table  string
}

// parseRecordsFromFile replays every event in path starting at
// startOffset, applying DDL to cat and emitting one EventEnvelope per
// allowed event via emit. It returns the byte offset of the last event
// observed in the file, or nil if the file produced no events.
//
// startOffset, when present, is a previously recorded Header.LogPos,
// which replication always sets to an event's end position. Seeking
// ParseFile there lands exactly on the next unread event, whose own
// LogPos already exceeds startOffset, so resuming needs no additional
// skip of the boundary event.
func parseRecordsFromFile(
	path, fileName string,
	startOffset uint64,
	hasStartOffset bool,
	filters *cdcmsg.Filters,
	cat *catalog.Catalog,
	resourceName string,
	log logger.Logger,
	emit func(cdcmsg.EventEnvelope) error,
) (*uint64, error) {
	tables := tableCache{}
	var latestOffset *uint64

	parseFrom := int64(4)
	if hasStartOffset {
		parseFrom = int64(startOffset)
	}

	parser := replication.NewBinlogParser()
	err := parser.ParseFile(path, parseFrom, func(ev *replication.BinlogEvent) error {
		pos := uint64(ev.Header.LogPos)
		latestOffset = &pos

		switch data := ev.Event.(type) {
		case *replication.TableMapEvent:
			tables[data.TableID] = struct {
				schema string
				table  string
			}{schema: string(data.Schema), table: string(data.Table)}

		case *replication.QueryEvent:
			if err := processQueryEvent(data, fileName, pos, filters, cat, resourceName, emit); err != nil {
				log.Warn("follower: query event skipped", "file", fileName, "offset", pos, "error", err)
			}

		case *replication.RowsEvent:
			if err := processRowsEvent(ev.Header.EventType, data, tables, fileName, pos, filters, cat, resourceName, emit); err != nil {
				log.Warn("follower: row event skipped", "file", fileName, "offset", pos, "error", err)
			}
		}

		return nil
	})
	if err != nil {
		return latestOffset, cdcerr.WrapBinlogParse(err, "parsing %s from offset %d", path, parseFrom)
	}

	return latestOffset, nil
}

func processQueryEvent(
	ev *replication.QueryEvent,
	fileName string,
	offset uint64,
	filters *cdcmsg.Filters,
	cat *catalog.Catalog,
	resourceName string,
	emit func(cdcmsg.EventEnvelope) error,
) error {
	schema := string(ev.Schema)
	if schema == "" {
		return cdcerr.WrapBinlogParse(errNoSchema, "query event missing schema")
	}

	if !filters.Allowed(schema) {
		return nil
	}

	query := string(ev.Query)

	ops, err := ddlparse.Parse(query)
	if err != nil {
		return err
	}

	if err := cat.Apply(schema, ops); err != nil {
		return err
	}

	if strings.EqualFold(strings.TrimSpace(query), "begin") || query == "" {
		return nil
	}

	offsetCopy := offset
	envelope := cdcmsg.EventEnvelope{
		URI: cdcmsg.MakeURI(resourceName, schema, ""),
		BnFile: cdcmsg.BnFile{
			FileName: fileName,
			Offset:   &offsetCopy,
		},
		Operation: cdcmsg.QueryOperation(query),
	}

	return emit(envelope)
}

func processRowsEvent(
	eventType replication.EventType,
	ev *replication.RowsEvent,
	tables tableCache,
	fileName string,
	offset uint64,
	filters *cdcmsg.Filters,
	cat *catalog.Catalog,
	resourceName string,
	emit func(cdcmsg.EventEnvelope) error,
) error {
	info, ok := tables[ev.TableID]
	if !ok {
		return cdcerr.WrapBinlogParse(errNoTableMap, "no table map seen for table id %d", ev.TableID)
	}

	if !filters.Allowed(info.schema) {
		return nil
	}

	var operation cdcmsg.Operation
	switch eventType {
	case replication.WRITE_ROWS_EVENTv1, replication.WRITE_ROWS_EVENTv2:
		operation = cdcmsg.AddOperation(toRows(ev.Rows))
	case replication.UPDATE_ROWS_EVENTv1, replication.UPDATE_ROWS_EVENTv2:
		operation = cdcmsg.UpdateOperation(toRowPairs(ev.Rows))
	case replication.DELETE_ROWS_EVENTv1, replication.DELETE_ROWS_EVENTv2:
		operation = cdcmsg.DeleteOperation(toRows(ev.Rows))
	default:
		return nil
	}

	// The consumer has no catalog of its own; it applies SQL using the
	// column names carried on the envelope, so every row event looks
	// them up here.
	columns, err := cat.Columns(info.schema, info.table)
	if err != nil {
		return err
	}

	offsetCopy := offset
	envelope := cdcmsg.EventEnvelope{
		URI: cdcmsg.MakeURI(resourceName, info.schema, info.table),
		BnFile: cdcmsg.BnFile{
			FileName: fileName,
			Offset:   &offsetCopy,
		},
		Columns:   columns,
		Operation: operation,
	}

	return emit(envelope)
}

func toRows(raw [][]interface{}) []cdcmsg.Row {
	rows := make([]cdcmsg.Row, 0, len(raw))
	for _, values := range raw {
		rows = append(rows, toRow(values))
	}
	return rows
}

func toRowPairs(raw [][]interface{}) []cdcmsg.RowPair {
	pairs := make([]cdcmsg.RowPair, 0, len(raw)/2)
	for i := 0; i+1 < len(raw); i += 2 {
		pairs = append(pairs, cdcmsg.RowPair{
			Before: toRow(raw[i]),
			After:  toRow(raw[i+1]),
		})
	}
	return pairs
}

func toRow(values []interface{}) cdcmsg.Row {
	row := make(cdcmsg.Row, len(values))
	for i, v := range values {
		row[i] = v
	}
	return row
}
