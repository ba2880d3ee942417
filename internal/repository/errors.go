package repository

import (
	"errors"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
)

// Domain-level errors surfaced by every data source.
var (
	ErrNotFound          = errors.New("not found")
	ErrUnavailable       = errors.New("data source unavailable")
	ErrUnknownDataSource = errors.New("unknown data source")
)

// MapPgError translates the Postgres error classes callers care about.
// Everything else passes through.
func MapPgError(err error) error {
	if err == nil {
		return nil
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch {
		case pgerrcode.IsConnectionException(pgErr.Code),
			pgerrcode.IsInsufficientResources(pgErr.Code),
			pgErr.Code == pgerrcode.AdminShutdown,
			pgErr.Code == pgerrcode.CannotConnectNow:
			return errors.Join(ErrUnavailable, err)
		}
	}
	return err
}
