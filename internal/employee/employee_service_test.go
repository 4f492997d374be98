package employee_test

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"go-payroll/internal/employee"
	employeeerrors "go-payroll/internal/employee/errors"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
)

type fakeRepo struct {
	activeFn   func(ctx context.Context) ([]employee.Employee, error)
	findByIDFn func(ctx context.Context, id string) (*employee.Employee, error)
}

func (f *fakeRepo) WithTx(*sql.Tx) employee.Repository { return f }

func (f *fakeRepo) ActivePopulation(ctx context.Context) ([]employee.Employee, error) {
	return f.activeFn(ctx)
}

func (f *fakeRepo) FindByID(ctx context.Context, id string) (*employee.Employee, error) {
	return f.findByIDFn(ctx, id)
}

func (f *fakeRepo) FindByIDs(context.Context, []uuid.UUID) ([]employee.Employee, error) {
	return nil, nil
}

func (f *fakeRepo) FindBanks(context.Context) ([]employee.Bank, error) { return nil, nil }

func TestEmployee_IsActive(t *testing.T) {
	for status, want := range map[employee.Status]bool{
		employee.StatusActive:     true,
		employee.StatusOnLeave:    true,
		employee.StatusProbation:  true,
		employee.StatusInactive:   false,
		employee.StatusTerminated: false,
		employee.StatusRetired:    false,
		employee.StatusResigned:   false,
	} {
		assert.Equal(t, want, employee.Employee{Status: status}.IsActive(), status)
	}
}

func TestEmployee_BasicSalary(t *testing.T) {
	gradeID := uuid.New()
	e := employee.Employee{
		SalaryGradeID: &gradeID,
		SalaryGrade:   &employee.SalaryGrade{ID: gradeID, Amount: decimal.NewFromInt(2000)},
	}
	basic, ok := e.BasicSalary()
	assert.True(t, ok)
	assert.True(t, basic.Equal(decimal.NewFromInt(2000)))

	_, ok = employee.Employee{}.BasicSalary()
	assert.False(t, ok)
}

func TestEmployeeService_GetByID(t *testing.T) {
	ctx := context.Background()

	t.Run("invalid id", func(t *testing.T) {
		svc := employee.NewService(&fakeRepo{})
		_, err := svc.GetByID(ctx, "nope")
		assert.ErrorIs(t, err, employeeerrors.ErrInvalidEmployeeID)
	})

	t.Run("not found", func(t *testing.T) {
		svc := employee.NewService(&fakeRepo{
			findByIDFn: func(context.Context, string) (*employee.Employee, error) {
				return nil, gorm.ErrRecordNotFound
			},
		})
		_, err := svc.GetByID(ctx, uuid.NewString())
		assert.ErrorIs(t, err, employeeerrors.ErrEmployeeNotFound)
	})

	t.Run("renders grade and relief", func(t *testing.T) {
		id := uuid.New()
		gradeID := uuid.New()
		svc := employee.NewService(&fakeRepo{
			findByIDFn: func(context.Context, string) (*employee.Employee, error) {
				return &employee.Employee{
					ID:            id,
					FullName:      "Ama Mensah",
					Status:        employee.StatusActive,
					SalaryGradeID: &gradeID,
					SalaryGrade: &employee.SalaryGrade{
						Grade:  "G4",
						Amount: decimal.NewFromInt(2000),
						Step:   &employee.SalaryStep{Name: "Step 2"},
					},
					Bank:      &employee.Bank{Name: "GCB"},
					TaxRelief: decimal.NewNullDecimal(decimal.NewFromInt(50)),
				}, nil
			},
		})

		resp, err := svc.GetByID(ctx, id.String())
		assert.NoError(t, err)
		assert.Equal(t, "2000.00", resp.BasicSalary)
		assert.Equal(t, "Step 2", resp.Step)
		assert.Equal(t, "GCB", resp.Bank)
		assert.Equal(t, "50.00", resp.TaxRelief)
	})
}

func TestEmployeeService_GetActive(t *testing.T) {
	svc := employee.NewService(&fakeRepo{
		activeFn: func(context.Context) ([]employee.Employee, error) {
			return nil, errors.New("db down")
		},
	})
	_, err := svc.GetActive(context.Background())
	assert.Error(t, err)
}
