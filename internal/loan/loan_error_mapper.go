package loan

import (
	"errors"

	loanerrors "go-payroll/internal/loan/errors"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

func mapRepositoryError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return loanerrors.ErrLoanNotFound
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23503" {
		switch pgErr.ConstraintName {
		case "fk_loans_loan_type":
			return loanerrors.ErrLoanTypeNotFound
		case "fk_loans_employee":
			return loanerrors.ErrEmployeeNotFound
		}
	}
	return err
}
