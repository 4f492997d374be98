package salaryitem

import (
	"errors"

	salaryitemerrors "go-payroll/internal/salaryitem/errors"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

func mapRepositoryError(err error) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return salaryitemerrors.ErrSalaryItemNotFound
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case "23505":
			if pgErr.ConstraintName == "uq_salary_item_name" {
				return salaryitemerrors.ErrSalaryItemNameExists
			}
		case "23503":
			return salaryitemerrors.ErrSalaryItemInUse
		}
	}

	return err
}
