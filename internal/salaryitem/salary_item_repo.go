package salaryitem

import (
	"context"
	"database/sql"
	"time"

	"go-payroll/internal/shared/connection"
	"go-payroll/internal/shared/scope"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

//go:generate mockgen -source=salary_item_repo.go -destination=mock/salary_item_repo_mock.go -package=mock
type Repository interface {
	WithTx(tx *sql.Tx) Repository
	Create(ctx context.Context, item *SalaryItem) error
	Update(ctx context.Context, item *SalaryItem) error
	Delete(ctx context.Context, id uuid.UUID) error
	FindByID(ctx context.Context, id string) (*SalaryItem, error)
	FindAll(ctx context.Context) ([]SalaryItem, error)
	CountDependents(ctx context.Context, id uuid.UUID) (int64, error)

	ListStaff(ctx context.Context, itemID uuid.UUID) ([]StaffSalaryItem, error)
	FindStaff(ctx context.Context, itemID, employeeID uuid.UUID) (*StaffSalaryItem, error)
	CreateStaff(ctx context.Context, rows []StaffSalaryItem) error
	UpdateStaff(ctx context.Context, row *StaffSalaryItem) error
	DeleteStaff(ctx context.Context, itemID uuid.UUID, employeeIDs []uuid.UUID) error
	ActiveForEmployees(ctx context.Context, on time.Time, employeeIDs []uuid.UUID) ([]StaffSalaryItem, error)
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

func (r *repository) Create(ctx context.Context, item *SalaryItem) error {
	return r.db.WithContext(ctx).Create(item).Error
}

func (r *repository) Update(ctx context.Context, item *SalaryItem) error {
	return r.db.WithContext(ctx).Save(item).Error
}

func (r *repository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&SalaryItem{}, "id = ?", id).Error
}

func (r *repository) FindByID(ctx context.Context, id string) (*SalaryItem, error) {
	var item SalaryItem
	err := r.db.WithContext(ctx).First(&item, "id = ?", id).Error
	return &item, err
}

func (r *repository) FindAll(ctx context.Context) ([]SalaryItem, error) {
	var items []SalaryItem
	err := r.db.WithContext(ctx).Order("name ASC").Find(&items).Error
	return items, err
}

func (r *repository) CountDependents(ctx context.Context, id uuid.UUID) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).
		Model(&SalaryItem{}).
		Where("rate_type = ? AND rate_dependency = ?", RateFactor, id.String()).
		Count(&n).Error
	return n, err
}

func (r *repository) ListStaff(ctx context.Context, itemID uuid.UUID) ([]StaffSalaryItem, error) {
	var rows []StaffSalaryItem
	err := r.db.WithContext(ctx).
		Where("salary_item_id = ?", itemID).
		Order("created_at ASC").
		Find(&rows).Error
	return rows, err
}

func (r *repository) FindStaff(ctx context.Context, itemID, employeeID uuid.UUID) (*StaffSalaryItem, error) {
	var row StaffSalaryItem
	err := r.db.WithContext(ctx).
		First(&row, "salary_item_id = ? AND employee_id = ?", itemID, employeeID).Error
	return &row, err
}

func (r *repository) CreateStaff(ctx context.Context, rows []StaffSalaryItem) error {
	if len(rows) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).CreateInBatches(&rows, 500).Error
}

func (r *repository) UpdateStaff(ctx context.Context, row *StaffSalaryItem) error {
	return r.db.WithContext(ctx).
		Model(row).
		Select("amount", "variable", "updated_at").
		Updates(row).Error
}

func (r *repository) DeleteStaff(ctx context.Context, itemID uuid.UUID, employeeIDs []uuid.UUID) error {
	q := r.db.WithContext(ctx).Where("salary_item_id = ?", itemID)
	if employeeIDs != nil {
		if len(employeeIDs) == 0 {
			return nil
		}
		q = q.Where("employee_id IN ?", employeeIDs)
	}
	return q.Delete(&StaffSalaryItem{}).Error
}

// ActiveForEmployees returns unexpired assignments with their item loaded.
func (r *repository) ActiveForEmployees(ctx context.Context, on time.Time, employeeIDs []uuid.UUID) ([]StaffSalaryItem, error) {
	var rows []StaffSalaryItem
	if len(employeeIDs) == 0 {
		return rows, nil
	}
	err := r.db.WithContext(ctx).
		Joins("SalaryItem").
		Scopes(scope.NotExpired(`"SalaryItem"."expires_on"`, on)).
		Where("staff_salary_items.employee_id IN ?", employeeIDs).
		Order(`"SalaryItem"."name" ASC`).
		Find(&rows).Error
	return rows, err
}
