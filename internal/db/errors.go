package db

import "errors"

// ErrKeyNotFound signals a missing key.
var ErrKeyNotFound = errors.New("db: key not found")

// Op constants map to Redis command names for error context.
const (
	OpSearch  = "FT.SEARCH"
	OpHSet    = "HSET"
	OpHGetAll = "HGETALL"
	OpHIncrBy = "HINCRBYFLOAT"
	OpDel     = "DEL"
	OpScan    = "SCAN"
	OpSAdd    = "SADD"
	OpSMember = "SMEMBERS"
)

// Error wraps an underlying error with the operation name for diagnostics.
type Error struct {
	Op  string
	Err error
}

func (e *Error) Error() string { return e.Op + ": " + e.Err.Error() }
func (e *Error) Unwrap() error { return e.Err }
