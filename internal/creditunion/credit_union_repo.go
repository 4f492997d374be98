package creditunion

import (
	"context"
	"database/sql"
	"time"

	"go-payroll/internal/shared/connection"
	"go-payroll/internal/shared/scope"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

//go:generate mockgen -source=credit_union_repo.go -destination=mock/credit_union_repo_mock.go -package=mock
type Repository interface {
	WithTx(tx *sql.Tx) Repository
	Create(ctx context.Context, cu *CreditUnion) error
	Update(ctx context.Context, cu *CreditUnion) error
	Delete(ctx context.Context, id uuid.UUID) error
	FindByID(ctx context.Context, id string) (*CreditUnion, error)
	FindAll(ctx context.Context) ([]CreditUnion, error)

	ListMembers(ctx context.Context, cuID uuid.UUID) ([]StaffCreditUnion, error)
	FindMember(ctx context.Context, cuID, employeeID uuid.UUID) (*StaffCreditUnion, error)
	CreateMembers(ctx context.Context, rows []StaffCreditUnion) error
	UpdateMember(ctx context.Context, row *StaffCreditUnion) error
	UpdateMembers(ctx context.Context, cuID uuid.UUID, fields map[string]any) error
	DeleteMembers(ctx context.Context, cuID uuid.UUID, employeeIDs []uuid.UUID) error

	ActiveForEmployees(ctx context.Context, on time.Time, employeeIDs []uuid.UUID) ([]StaffCreditUnion, error)
	CreateDeductions(ctx context.Context, rows []StaffCreditUnionDeduction) error
	CountDeductions(ctx context.Context, cuID uuid.UUID) (int64, error)
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

func (r *repository) Create(ctx context.Context, cu *CreditUnion) error {
	return r.db.WithContext(ctx).Create(cu).Error
}

func (r *repository) Update(ctx context.Context, cu *CreditUnion) error {
	return r.db.WithContext(ctx).Save(cu).Error
}

func (r *repository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&CreditUnion{}, "id = ?", id).Error
}

func (r *repository) FindByID(ctx context.Context, id string) (*CreditUnion, error) {
	var cu CreditUnion
	err := r.db.WithContext(ctx).First(&cu, "id = ?", id).Error
	return &cu, err
}

func (r *repository) FindAll(ctx context.Context) ([]CreditUnion, error) {
	var rows []CreditUnion
	err := r.db.WithContext(ctx).Order("name ASC").Find(&rows).Error
	return rows, err
}

func (r *repository) ListMembers(ctx context.Context, cuID uuid.UUID) ([]StaffCreditUnion, error) {
	var rows []StaffCreditUnion
	err := r.db.WithContext(ctx).
		Where("credit_union_id = ?", cuID).
		Order("created_at ASC").
		Find(&rows).Error
	return rows, err
}

func (r *repository) FindMember(ctx context.Context, cuID, employeeID uuid.UUID) (*StaffCreditUnion, error) {
	var row StaffCreditUnion
	err := r.db.WithContext(ctx).
		First(&row, "credit_union_id = ? AND employee_id = ?", cuID, employeeID).Error
	return &row, err
}

func (r *repository) CreateMembers(ctx context.Context, rows []StaffCreditUnion) error {
	if len(rows) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).CreateInBatches(&rows, 500).Error
}

func (r *repository) UpdateMember(ctx context.Context, row *StaffCreditUnion) error {
	return r.db.WithContext(ctx).
		Model(row).
		Select("amount", "start_date", "end_date", "updated_at").
		Updates(row).Error
}

// UpdateMembers bulk-updates only the given columns on every member row.
func (r *repository) UpdateMembers(ctx context.Context, cuID uuid.UUID, fields map[string]any) error {
	if len(fields) == 0 {
		return nil
	}
	fields["updated_at"] = time.Now()
	return r.db.WithContext(ctx).
		Model(&StaffCreditUnion{}).
		Where("credit_union_id = ?", cuID).
		Updates(fields).Error
}

// DeleteMembers removes the listed members, or all members when employeeIDs is nil.
func (r *repository) DeleteMembers(ctx context.Context, cuID uuid.UUID, employeeIDs []uuid.UUID) error {
	q := r.db.WithContext(ctx).Where("credit_union_id = ?", cuID)
	if employeeIDs != nil {
		if len(employeeIDs) == 0 {
			return nil
		}
		q = q.Where("employee_id IN ?", employeeIDs)
	}
	return q.Delete(&StaffCreditUnion{}).Error
}

// ActiveForEmployees returns subscriptions whose window covers on.
func (r *repository) ActiveForEmployees(ctx context.Context, on time.Time, employeeIDs []uuid.UUID) ([]StaffCreditUnion, error) {
	var rows []StaffCreditUnion
	if len(employeeIDs) == 0 {
		return rows, nil
	}
	err := r.db.WithContext(ctx).
		Joins("CreditUnion").
		Scopes(scope.WithinWindow("staff_credit_unions", truncateDay(on))).
		Where("staff_credit_unions.employee_id IN ?", employeeIDs).
		Order(`"CreditUnion"."name" ASC`).
		Find(&rows).Error
	return rows, err
}

func (r *repository) CreateDeductions(ctx context.Context, rows []StaffCreditUnionDeduction) error {
	if len(rows) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).CreateInBatches(&rows, 500).Error
}

func (r *repository) CountDeductions(ctx context.Context, cuID uuid.UUID) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).
		Model(&StaffCreditUnionDeduction{}).
		Where("credit_union_id = ?", cuID).
		Count(&n).Error
	return n, err
}
