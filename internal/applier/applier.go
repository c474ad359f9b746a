package applier

import (
	"context"
	"database/sql"
	"encoding/json"

	_ "github.com/go-sql-driver/mysql"

	"github.com/samsarahq/fluvio-mysql-cdc/internal/cdcerr"
	"github.com/samsarahq/fluvio-mysql-cdc/internal/cdcmsg"
	"github.com/samsarahq/fluvio-mysql-cdc/internal/offsetstore"
	"github.com/samsarahq/fluvio-mysql-cdc/logger"
)

// Applier replays messages read from the bus against a target MySQL
// database, one at a time, advancing the Offset Store only once a
// message has been fully applied.
type Applier struct {
	db     *sql.DB
	offset *offsetstore.Store
	log    logger.Logger

	dbConns map[string]*sql.DB
	dsn     func(schema string) string
}

// New opens and pings a default connection (no schema selected) and
// keeps dsn around to lazily open one connection per schema; Apply runs
// every operation, Query included, on the connection for the schema
// named in the message's URI.
func New(ctx context.Context, dsn func(schema string) string, offset *offsetstore.Store, log logger.Logger) (*Applier, error) {
	db, err := sql.Open("mysql", dsn(""))
	if err != nil {
		return nil, cdcerr.WrapMySQL(err, "opening database connection")
	}
	if err := db.PingContext(ctx); err != nil {
		return nil, cdcerr.WrapMySQL(err, "connecting to database")
	}

	return &Applier{
		db:      db,
		offset:  offset,
		log:     log,
		dbConns: map[string]*sql.DB{"": db},
		dsn:     dsn,
	}, nil
}

func (a *Applier) Close() error {
	var firstErr error
	for _, conn := range a.dbConns {
		if err := conn.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

func (a *Applier) connFor(schema string) (*sql.DB, error) {
	if conn, ok := a.dbConns[schema]; ok {
		return conn, nil
	}
	conn, err := sql.Open("mysql", a.dsn(schema))
	if err != nil {
		return nil, cdcerr.WrapMySQL(err, "opening connection for schema %s", schema)
	}
	a.dbConns[schema] = conn
	return conn, nil
}

// Apply decodes raw (a FluvioMessage), executes the statement(s) it
// implies, and advances the Offset Store to busOffset. Any MySQL error
// is fatal: the caller stops consumption so the operator can resume
// from the last durably stored offset.
func (a *Applier) Apply(ctx context.Context, raw []byte, busOffset uint64) error {
	var msg cdcmsg.FluvioMessage
	if err := json.Unmarshal(raw, &msg); err != nil {
		return cdcerr.WrapJSON(err, "decoding bus message at offset %d", busOffset)
	}

	_, db, table, ok := cdcmsg.ParseURI(msg.URI)
	if !ok {
		return cdcerr.WrapJSON(nil, "malformed uri %q", msg.URI)
	}

	conn, err := a.connFor(db)
	if err != nil {
		return err
	}

	if err := a.applyOperation(ctx, conn, db, table, msg.Columns, msg.Operation); err != nil {
		return err
	}

	if err := a.offset.Advance(busOffset); err != nil {
		return err
	}

	return nil
}

func (a *Applier) applyOperation(ctx context.Context, conn *sql.DB, db, table string, columns []string, op cdcmsg.Operation) error {
	switch {
	case op.Query != nil:
		if _, err := conn.ExecContext(ctx, *op.Query); err != nil {
			return cdcerr.WrapMySQL(err, "executing query on %s", db)
		}
		return nil

	case op.Add != nil:
		qualified := db + "." + table
		for _, row := range op.Add.Rows {
			query, values, err := buildInsert(qualified, columns, row)
			if err != nil {
				return err
			}
			if _, err := conn.ExecContext(ctx, query, values...); err != nil {
				return cdcerr.WrapMySQL(err, "inserting into %s", qualified)
			}
		}
		return nil

	case op.Update != nil:
		qualified := db + "." + table
		for _, pair := range op.Update.Rows {
			query, values, err := buildUpdate(qualified, columns, pair)
			if err != nil {
				return err
			}
			if _, err := conn.ExecContext(ctx, query, values...); err != nil {
				return cdcerr.WrapMySQL(err, "updating %s", qualified)
			}
		}
		return nil

	case op.Delete != nil:
		qualified := db + "." + table
		for _, row := range op.Delete.Rows {
			query, values, err := buildDelete(qualified, columns, row)
			if err != nil {
				return err
			}
			if _, err := conn.ExecContext(ctx, query, values...); err != nil {
				return cdcerr.WrapMySQL(err, "deleting from %s", qualified)
			}
		}
		return nil
	}

	return nil
}
