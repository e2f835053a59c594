package pkg

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
)

// https://www.postgresql.org/docs/current/errcodes-appendix.html
const (
	pgUndefinedTable  = "42P01"
	pgUndefinedColumn = "42703"
)

// IsUndefinedTableError reports whether a query failed because a table is missing.
func IsUndefinedTableError(err error) bool {
	return hasPgCode(err, pgUndefinedTable)
}

// IsUndefinedColumnError reports whether a query referenced a column the schema lacks.
func IsUndefinedColumnError(err error) bool {
	return hasPgCode(err, pgUndefinedColumn)
}

func hasPgCode(err error, code string) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == code
	}
	return false
}
