package database

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
)

// The data layer is stored-procedure only: every repository method wraps
// exactly one named procedure. Procedures are plpgsql functions under the
// "functional" and "security" schemas, invoked as SELECT * FROM proc($1..$n).

func procQuery(proc string, argCount int) string {
	placeholders := make([]string, argCount)
	for i := range placeholders {
		placeholders[i] = fmt.Sprintf("$%d", i+1)
	}
	return fmt.Sprintf("SELECT * FROM %s(%s)", proc, strings.Join(placeholders, ", "))
}

// QueryRowProc calls a procedure expected to return exactly one row and scans
// it with the supplied function. A zero-row result surfaces as ErrNoRows.
func QueryRowProc(ctx context.Context, db *sql.DB, proc string, args []any, scan func(*sql.Row) error) error {
	row := db.QueryRowContext(ctx, procQuery(proc, len(args)), args...)
	if err := scan(row); err != nil {
		return ClassifyError(proc, err)
	}
	return nil
}

// QueryProc calls a procedure expected to return zero or more rows and feeds
// each row to the supplied function.
func QueryProc(ctx context.Context, db *sql.DB, proc string, args []any, scan func(*sql.Rows) error) error {
	rows, err := db.QueryContext(ctx, procQuery(proc, len(args)), args...)
	if err != nil {
		return ClassifyError(proc, err)
	}
	defer rows.Close()

	for rows.Next() {
		if err := scan(rows); err != nil {
			return ClassifyError(proc, err)
		}
	}
	if err := rows.Err(); err != nil {
		return ClassifyError(proc, err)
	}
	return nil
}

// QueryProcCursors calls a procedure that returns SETOF refcursor and fetches
// each cursor in declaration order, feeding its rows to the matching scan
// function. Cursors only live inside a transaction, so the whole exchange
// runs in one read-only tx.
func QueryProcCursors(ctx context.Context, db *sql.DB, proc string, args []any, scans ...func(*sql.Rows) error) error {
	tx, err := db.BeginTx(ctx, &sql.TxOptions{ReadOnly: true})
	if err != nil {
		return ClassifyError(proc, err)
	}
	defer tx.Rollback()

	cursorRows, err := tx.QueryContext(ctx, procQuery(proc, len(args)), args...)
	if err != nil {
		return ClassifyError(proc, err)
	}

	var cursors []string
	for cursorRows.Next() {
		var name string
		if err := cursorRows.Scan(&name); err != nil {
			cursorRows.Close()
			return ClassifyError(proc, err)
		}
		cursors = append(cursors, name)
	}
	if err := cursorRows.Err(); err != nil {
		cursorRows.Close()
		return ClassifyError(proc, err)
	}
	cursorRows.Close()

	if len(cursors) != len(scans) {
		return fmt.Errorf("procedure %s returned %d result sets, expected %d", proc, len(cursors), len(scans))
	}

	for i, cursor := range cursors {
		rows, err := tx.QueryContext(ctx, fmt.Sprintf(`FETCH ALL FROM %q`, cursor))
		if err != nil {
			return ClassifyError(proc, err)
		}
		for rows.Next() {
			if err := scans[i](rows); err != nil {
				rows.Close()
				return ClassifyError(proc, err)
			}
		}
		if err := rows.Err(); err != nil {
			rows.Close()
			return ClassifyError(proc, err)
		}
		rows.Close()
	}

	return tx.Commit()
}
