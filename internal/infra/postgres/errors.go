package postgres

import (
	"errors"
	"fmt"

	"github.com/jackc/pgconn"

	"quizzler/internal/domain"
)

// Postgres class 23 integrity violation for foreign keys.
const fkViolation = "23503"

// translateErr maps foreign-key violations onto the domain taxonomy; every
// other store failure propagates unmodified.
func translateErr(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == fkViolation {
		return fmt.Errorf("%w (%s)", domain.ErrMissingReference, pgErr.ConstraintName)
	}
	return err
}
