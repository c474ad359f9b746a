// Package cdcerr defines the sentinel error kinds shared by the producer
// and consumer binaries. Call sites wrap a cause with one of the Wrap*
// helpers, which classify it under the kind and then apply oops.Wrapf,
// so that errors.Is still resolves to the kind while the message carries
// operation-specific context.
package cdcerr

import (
	"errors"
	"fmt"

	"github.com/samsarahq/go/oops"
)

var (
	ErrIO          = errors.New("io error")
	ErrBusClient   = errors.New("bus client error")
	ErrJSON        = errors.New("json error")
	ErrBinlogParse = errors.New("binlog parse error")
	ErrMySQL       = errors.New("mysql error")
	ErrSQLParse    = errors.New("sql parse error")
	ErrResumeFile  = errors.New("resume file error")
	ErrBinlogFile  = errors.New("binlog file error")
	ErrConfig      = errors.New("config error")
)

// wrap classifies err under kind (so errors.Is(result, kind) holds) and
// then lets oops attach the call-site message and stack trace.
func wrap(kind, err error, format string, args ...interface{}) error {
	classified := fmt.Errorf("%w: %v", kind, err)
	return oops.Wrapf(classified, format, args...)
}

func WrapIO(err error, format string, args ...interface{}) error {
	return wrap(ErrIO, err, format, args...)
}

func WrapBusClient(err error, format string, args ...interface{}) error {
	return wrap(ErrBusClient, err, format, args...)
}

func WrapJSON(err error, format string, args ...interface{}) error {
	return wrap(ErrJSON, err, format, args...)
}

func WrapBinlogParse(err error, format string, args ...interface{}) error {
	return wrap(ErrBinlogParse, err, format, args...)
}

func WrapMySQL(err error, format string, args ...interface{}) error {
	return wrap(ErrMySQL, err, format, args...)
}

func WrapSQLParse(err error, format string, args ...interface{}) error {
	return wrap(ErrSQLParse, err, format, args...)
}

func WrapResumeFile(err error, format string, args ...interface{}) error {
	return wrap(ErrResumeFile, err, format, args...)
}

func WrapBinlogFile(err error, format string, args ...interface{}) error {
	return wrap(ErrBinlogFile, err, format, args...)
}

func WrapConfig(err error, format string, args ...interface{}) error {
	return wrap(ErrConfig, err, format, args...)
}
