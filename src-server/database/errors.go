package database

import (
	"errors"
	"fmt"
	"strings"

	"bulletin/src-server/model"

	"github.com/jackc/pgx/v5/pgconn"
)

// mapError turns driver errors into model errors, anything else is returned as is.
func mapError(err error) error {
	if err == nil {
		return nil
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case "23505": // unique_violation
			return model.ErrDuplicateTitle
		case "23502", "23514", "22001", "22007", "22008": // not null, check, too long, bad date/time
			return fmt.Errorf("%w: %s", model.ErrInvalidData, pgErr.Message)
		}
		return err
	}

	// both sqlite drivers behind sqliteshim use the same messages
	msg := err.Error()
	switch {
	case strings.Contains(msg, "UNIQUE constraint failed"):
		return model.ErrDuplicateTitle
	case strings.Contains(msg, "NOT NULL constraint failed"),
		strings.Contains(msg, "CHECK constraint failed"):
		return fmt.Errorf("%w: %s", model.ErrInvalidData, msg)
	}
	return err
}
