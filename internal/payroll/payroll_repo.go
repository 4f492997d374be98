package payroll

import (
	"context"
	"database/sql"

	"go-payroll/internal/shared/connection"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

//go:generate mockgen -source=payroll_repo.go -destination=mock/payroll_repo_mock.go -package=mock
type Repository interface {
	WithTx(tx *sql.Tx) Repository
	Create(ctx context.Context, payroll *Payroll) error
	Update(ctx context.Context, payroll *Payroll) error
	Delete(ctx context.Context, id uuid.UUID) error
	FindByID(ctx context.Context, id string) (*Payroll, error)
	FindByIDForUpdate(ctx context.Context, id string) (*Payroll, error)
	FindAll(ctx context.Context, filter ListFilter) ([]Payroll, int64, error)

	CreateItems(ctx context.Context, items []PayrollItem) error
	ListItems(ctx context.Context, payrollID uuid.UUID) ([]PayrollItem, error)
	ListEmployeeItems(ctx context.Context, payrollID, employeeID uuid.UUID) ([]PayrollItem, error)

	CreateErrors(ctx context.Context, errs []PayrollError) error
	ListErrors(ctx context.Context, payrollID uuid.UUID) ([]PayrollError, error)
	FindError(ctx context.Context, payrollID, errorID uuid.UUID) (*PayrollError, error)
	UpdateError(ctx context.Context, e *PayrollError) error
}

type ListFilter struct {
	Year   int
	Month  int
	Status string
	Page   int
	Limit  int
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

func (r *repository) Create(ctx context.Context, payroll *Payroll) error {
	return r.db.WithContext(ctx).Create(payroll).Error
}

func (r *repository) Update(ctx context.Context, payroll *Payroll) error {
	return r.db.WithContext(ctx).Save(payroll).Error
}

func (r *repository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&Payroll{}, "id = ?", id).Error
}

func (r *repository) FindByID(ctx context.Context, id string) (*Payroll, error) {
	var payroll Payroll
	err := r.db.WithContext(ctx).First(&payroll, "id = ?", id).Error
	return &payroll, err
}

// FindByIDForUpdate row-locks the payroll until the surrounding transaction ends.
func (r *repository) FindByIDForUpdate(ctx context.Context, id string) (*Payroll, error) {
	var payroll Payroll
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&payroll, "id = ?", id).Error
	return &payroll, err
}

func (r *repository) FindAll(ctx context.Context, filter ListFilter) ([]Payroll, int64, error) {
	var (
		payrolls []Payroll
		total    int64
	)

	query := r.db.WithContext(ctx).Model(&Payroll{})
	if filter.Year > 0 {
		query = query.Where("year = ?", filter.Year)
	}
	if filter.Month > 0 {
		query = query.Where("month = ?", filter.Month)
	}
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (filter.Page - 1) * filter.Limit
	err := query.
		Order("year DESC, month DESC, created_at DESC").
		Limit(filter.Limit).
		Offset(offset).
		Find(&payrolls).Error
	return payrolls, total, err
}

func (r *repository) CreateItems(ctx context.Context, items []PayrollItem) error {
	if len(items) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).CreateInBatches(&items, 1000).Error
}

func (r *repository) ListItems(ctx context.Context, payrollID uuid.UUID) ([]PayrollItem, error) {
	var items []PayrollItem
	err := r.db.WithContext(ctx).
		Where("payroll_id = ?", payrollID).
		Order("employee_id, created_at").
		Find(&items).Error
	return items, err
}

func (r *repository) ListEmployeeItems(ctx context.Context, payrollID, employeeID uuid.UUID) ([]PayrollItem, error) {
	var items []PayrollItem
	err := r.db.WithContext(ctx).
		Where("payroll_id = ? AND employee_id = ?", payrollID, employeeID).
		Order("created_at").
		Find(&items).Error
	return items, err
}

func (r *repository) CreateErrors(ctx context.Context, errs []PayrollError) error {
	if len(errs) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).CreateInBatches(&errs, 500).Error
}

func (r *repository) ListErrors(ctx context.Context, payrollID uuid.UUID) ([]PayrollError, error) {
	var errs []PayrollError
	err := r.db.WithContext(ctx).
		Where("payroll_id = ?", payrollID).
		Order("resolved ASC, created_at ASC").
		Find(&errs).Error
	return errs, err
}

func (r *repository) FindError(ctx context.Context, payrollID, errorID uuid.UUID) (*PayrollError, error) {
	var e PayrollError
	err := r.db.WithContext(ctx).
		First(&e, "id = ? AND payroll_id = ?", errorID, payrollID).Error
	return &e, err
}

func (r *repository) UpdateError(ctx context.Context, e *PayrollError) error {
	return r.db.WithContext(ctx).
		Model(e).
		Select("resolved", "resolved_by", "resolved_at").
		Updates(e).Error
}
