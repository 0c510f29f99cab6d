package db

import (
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/samber/lo"
	"github.com/samber/oops"
)

// ErrorDetails extracts the detail & hint from a postgres error, if present.
func ErrorDetails(err error) error {
	if err == nil {
		return nil
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		var errString []string
		if pgErr.Detail != "" {
			errString = append(errString, fmt.Sprintf("detail: %s", pgErr.Detail))
		}
		if pgErr.Hint != "" {
			errString = append(errString, fmt.Sprintf("hint: %s", pgErr.Hint))
		}
		if len(errString) > 0 {
			return fmt.Errorf("%w: %s", err, strings.Join(errString, ", "))
		}
	}

	return err
}

// IsDBError reports whether err originated from the data source.
// All gorm errors are tagged "db" by the oops plugin.
func IsDBError(err error) bool {
	if oe, ok := oops.AsOops(err); ok {
		if lo.Contains(oe.Tags(), "db") {
			return true
		}
	}

	return false
}

func IsForeignKeyError(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == pgerrcode.ForeignKeyViolation
	}

	return false
}
