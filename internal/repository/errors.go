// Package repository defines error types that are reused across multiple
// repositories.  These sentinel values allow higher layers such as
// handlers to distinguish between different failure scenarios.  For
// example, ErrForbidden indicates that the current user is not authorized
// to act on a reservation owned by someone else, while ErrConflict signals
// that the operation is not allowed in the record's current state.
package repository

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/go-sql-driver/mysql"
)

// ErrNotFound is returned when the requested row does not exist.  Handlers
// translate it into an HTTP 404 response.
var ErrNotFound = errors.New("not found")

// ErrForbidden is returned when the caller attempts an operation on a
// resource they do not own.  Handlers translate it into an HTTP 403
// response.
var ErrForbidden = errors.New("forbidden")

// ErrConflict is returned when an operation cannot proceed because of the
// state of the data, such as refunding a reservation that is not
// confirmed.  Handlers translate it into an HTTP 409 response.
var ErrConflict = errors.New("conflict")

// ErrSeatTaken is returned by the booking commit when one of the chosen
// seats was booked by someone else in the meantime.  It wraps ErrConflict.
var ErrSeatTaken = fmt.Errorf("%w: seat taken, retry from seat selection", ErrConflict)

// ErrRefundNotAllowed is returned when a reservation is not confirmed or
// its flight has already departed.  It wraps ErrConflict.
var ErrRefundNotAllowed = fmt.Errorf("%w: reservation cannot be refunded", ErrConflict)

// ErrEmailExists is returned when registering an email that is taken.
var ErrEmailExists = errors.New("email already exists")

// ErrReference is returned when a write names a related row that does not
// exist, such as a template for an unknown airline.
var ErrReference = errors.New("referenced record does not exist")

// MySQL error numbers.
const (
	mysqlDuplicateEntry  = 1062 // ER_DUP_ENTRY
	mysqlNoReferencedRow = 1452 // ER_NO_REFERENCED_ROW_2
)

// isDuplicate reports whether err is a unique key violation.
func isDuplicate(err error) bool {
	var me *mysql.MySQLError
	return errors.As(err, &me) && me.Number == mysqlDuplicateEntry
}

// reference maps a foreign key violation to ErrReference.
func reference(err error) error {
	var me *mysql.MySQLError
	if errors.As(err, &me) && me.Number == mysqlNoReferencedRow {
		return ErrReference
	}
	return err
}

// notFound maps sql.ErrNoRows to ErrNotFound and leaves other errors alone.
func notFound(err error) error {
	if errors.Is(err, sql.ErrNoRows) {
		return ErrNotFound
	}
	return err
}
