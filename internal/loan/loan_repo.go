package loan

import (
	"context"
	"database/sql"
	"time"

	"go-payroll/internal/shared/connection"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

//go:generate mockgen -source=loan_repo.go -destination=mock/loan_repo_mock.go -package=mock
type Repository interface {
	WithTx(tx *sql.Tx) Repository
	Create(ctx context.Context, loan *Loan) error
	Save(ctx context.Context, loan *Loan, recalculateBalance bool) error
	FindByID(ctx context.Context, id string) (*Loan, error)
	FindByIDForUpdate(ctx context.Context, id string) (*Loan, error)
	FindAll(ctx context.Context, filter ListFilter) ([]Loan, int64, error)
	FindType(ctx context.Context, id uuid.UUID) (*LoanType, error)
	FindTypes(ctx context.Context) ([]LoanType, error)
	CreateRepayment(ctx context.Context, repayment *LoanRepayment) error
	ListRepayments(ctx context.Context, loanID uuid.UUID) ([]LoanRepayment, error)
	ActiveForEmployees(ctx context.Context, on time.Time, employeeIDs []uuid.UUID) ([]Loan, error)
	MarkDefaulted(ctx context.Context, on time.Time) (int64, error)
}

type ListFilter struct {
	EmployeeID string
	Status     string
	Page       int
	Limit      int
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

func (r *repository) Create(ctx context.Context, loan *Loan) error {
	return r.db.WithContext(ctx).Omit("LoanType").Create(loan).Error
}

// Save persists the loan. With recalculateBalance the schedule is rebuilt
// from principal and rate first; repayments must pass false.
func (r *repository) Save(ctx context.Context, loan *Loan, recalculateBalance bool) error {
	if recalculateBalance {
		if err := loan.Recalculate(); err != nil {
			return err
		}
	}
	return r.db.WithContext(ctx).Omit("LoanType").Save(loan).Error
}

func (r *repository) FindByID(ctx context.Context, id string) (*Loan, error) {
	var loan Loan
	err := r.db.WithContext(ctx).Preload("LoanType").First(&loan, "id = ?", id).Error
	return &loan, err
}

// FindByIDForUpdate row-locks the loan until the surrounding transaction ends.
func (r *repository) FindByIDForUpdate(ctx context.Context, id string) (*Loan, error) {
	var loan Loan
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Preload("LoanType").
		First(&loan, "id = ?", id).Error
	return &loan, err
}

func (r *repository) FindAll(ctx context.Context, filter ListFilter) ([]Loan, int64, error) {
	var (
		loans []Loan
		total int64
	)

	query := r.db.WithContext(ctx).Model(&Loan{})
	if filter.EmployeeID != "" {
		query = query.Where("employee_id = ?", filter.EmployeeID)
	}
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (filter.Page - 1) * filter.Limit
	err := query.Preload("LoanType").
		Order("created_at DESC").
		Limit(filter.Limit).
		Offset(offset).
		Find(&loans).Error
	return loans, total, err
}

func (r *repository) FindType(ctx context.Context, id uuid.UUID) (*LoanType, error) {
	var lt LoanType
	err := r.db.WithContext(ctx).First(&lt, "id = ?", id).Error
	return &lt, err
}

func (r *repository) FindTypes(ctx context.Context) ([]LoanType, error) {
	var types []LoanType
	err := r.db.WithContext(ctx).Order("name ASC").Find(&types).Error
	return types, err
}

func (r *repository) CreateRepayment(ctx context.Context, repayment *LoanRepayment) error {
	return r.db.WithContext(ctx).Create(repayment).Error
}

func (r *repository) ListRepayments(ctx context.Context, loanID uuid.UUID) ([]LoanRepayment, error) {
	var rows []LoanRepayment
	err := r.db.WithContext(ctx).
		Where("loan_id = ?", loanID).
		Order("paid_on ASC, created_at ASC").
		Find(&rows).Error
	return rows, err
}

// ActiveForEmployees returns loans payroll should deduct from on the given day.
func (r *repository) ActiveForEmployees(ctx context.Context, on time.Time, employeeIDs []uuid.UUID) ([]Loan, error) {
	var loans []Loan
	if len(employeeIDs) == 0 {
		return loans, nil
	}
	err := r.db.WithContext(ctx).
		Preload("LoanType").
		Where("employee_id IN ?", employeeIDs).
		Where("status = ?", StatusActive).
		Where("outstanding_balance > 0").
		Where("deduction_end_date > ?", truncateDay(on)).
		Order("employee_id, created_at").
		Find(&loans).Error
	return loans, err
}

// MarkDefaulted flips overdue active loans that still carry a balance.
func (r *repository) MarkDefaulted(ctx context.Context, on time.Time) (int64, error) {
	res := r.db.WithContext(ctx).
		Model(&Loan{}).
		Where("status = ?", StatusActive).
		Where("outstanding_balance > 0").
		Where("deduction_end_date < ?", truncateDay(on)).
		Updates(map[string]any{"status": StatusDefaulted, "updated_at": time.Now()})
	return res.RowsAffected, res.Error
}
