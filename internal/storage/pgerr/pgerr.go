// Package pgerr classifies Postgres driver errors into ledger error kinds.
package pgerr

import (
	"errors"

	"github.com/lib/pq"

	"github.com/carson-networks/family-ledger/internal/ledgererr"
)

const (
	codeForeignKeyViolation = pq.ErrorCode("23503")
	codeCheckViolation      = pq.ErrorCode("23514")
	codeNotNullViolation    = pq.ErrorCode("23502")
	codeNumericOutOfRange   = pq.ErrorCode("22003")
	codeInvalidTextRep      = pq.ErrorCode("22P02")
)

// Wrap converts err into a ledger error. Constraint violations and values the
// column type cannot hold become InvalidInput or NotFound, everything else is
// StorageUnavailable.
func Wrap(op string, err error) error {
	if err == nil {
		return nil
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		switch pqErr.Code {
		case codeCheckViolation, codeNotNullViolation:
			return &ledgererr.Error{Kind: ledgererr.KindInvalidInput, Msg: op + ": " + pqErr.Constraint, Err: err}
		case codeNumericOutOfRange, codeInvalidTextRep:
			return &ledgererr.Error{Kind: ledgererr.KindInvalidInput, Msg: op + ": " + pqErr.Message, Err: err}
		case codeForeignKeyViolation:
			return &ledgererr.Error{Kind: ledgererr.KindNotFound, Msg: op + ": " + pqErr.Constraint, Err: err}
		}
	}
	return ledgererr.Storage(op, err)
}
