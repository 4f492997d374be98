package creditunion

import (
	"errors"

	creditunionerrors "go-payroll/internal/creditunion/errors"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

func mapRepositoryError(err error) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return creditunionerrors.ErrCreditUnionNotFound
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case "23505":
			if pgErr.ConstraintName == "uq_credit_union_name" {
				return creditunionerrors.ErrNameExists
			}
		case "23503":
			return creditunionerrors.ErrCreditUnionInUse
		}
	}

	return err
}
