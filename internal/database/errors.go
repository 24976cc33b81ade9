package database

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
)

// ErrNoRows indicates the procedure affected or returned no row for a target
// that was expected to exist. Handlers translate it to 404.
var ErrNoRows = errors.New("no rows returned by procedure")

// BusinessRuleError is raised when a procedure rejects an operation for a
// domain reason (duplicate code, insufficient stock, inactive product).
// Procedures signal it with a plpgsql RAISE EXCEPTION, which arrives as
// SQLSTATE P0001; the message is safe to surface to the client verbatim.
type BusinessRuleError struct {
	Message string
}

func (e *BusinessRuleError) Error() string {
	return e.Message
}

// raise_exception, the SQLSTATE produced by an unqualified plpgsql RAISE
const sqlstateRaiseException = "P0001"

// ClassifyError converts driver-level failures into the tagged error variants
// the rest of the application dispatches on. Anything it does not recognize
// is wrapped as an opaque infrastructure failure.
func ClassifyError(proc string, err error) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, sql.ErrNoRows) {
		return ErrNoRows
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == sqlstateRaiseException {
		return &BusinessRuleError{Message: pgErr.Message}
	}

	return fmt.Errorf("procedure %s failed: %w", proc, err)
}
