package employee

import (
	"context"
	"database/sql"

	"go-payroll/internal/shared/connection"
	"go-payroll/internal/shared/scope"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

//go:generate mockgen -source=employee_repo.go -destination=mock/employee_repo_mock.go -package=mock
type Repository interface {
	WithTx(tx *sql.Tx) Repository
	ActivePopulation(ctx context.Context) ([]Employee, error)
	FindByID(ctx context.Context, id string) (*Employee, error)
	FindByIDs(ctx context.Context, ids []uuid.UUID) ([]Employee, error)
	FindBanks(ctx context.Context) ([]Bank, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *sql.Tx) Repository {
	return &repository{db: connection.BindTx(r.db, tx)}
}

func (r *repository) withCompensation(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).
		Preload("SalaryGrade").
		Preload("SalaryGrade.Step").
		Preload("Bank")
}

func (r *repository) ActivePopulation(ctx context.Context) ([]Employee, error) {
	var employees []Employee
	err := r.withCompensation(ctx).
		Scopes(scope.StatusIn(statusStrings(PayrollStatuses))).
		Order("staff_number ASC").
		Find(&employees).Error
	return employees, err
}

func (r *repository) FindByID(ctx context.Context, id string) (*Employee, error) {
	var e Employee
	err := r.withCompensation(ctx).First(&e, "id = ?", id).Error
	return &e, err
}

func (r *repository) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]Employee, error) {
	var employees []Employee
	if len(ids) == 0 {
		return employees, nil
	}
	err := r.withCompensation(ctx).
		Where("id IN ?", ids).
		Order("staff_number ASC").
		Find(&employees).Error
	return employees, err
}

func (r *repository) FindBanks(ctx context.Context) ([]Bank, error) {
	var banks []Bank
	err := r.db.WithContext(ctx).Order("name ASC").Find(&banks).Error
	return banks, err
}

func statusStrings(statuses []Status) []string {
	out := make([]string, len(statuses))
	for i, s := range statuses {
		out[i] = string(s)
	}
	return out
}
