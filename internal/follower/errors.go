package follower

import "errors"

var (
	errNoSchema   = errors.New("missing schema")
	errNoTableMap = errors.New("missing table map")
)
