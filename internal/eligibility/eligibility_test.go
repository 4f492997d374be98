package eligibility_test

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"go-payroll/internal/eligibility"
	eligibilityerrors "go-payroll/internal/eligibility/errors"
	"go-payroll/internal/employee"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type population struct {
	stepA, stepB   uuid.UUID
	gradeA, gradeB uuid.UUID
	deptOps        uuid.UUID
	deptFin        uuid.UUID
	jobClerk       uuid.UUID
	staff          []employee.Employee
}

func ptr(id uuid.UUID) *uuid.UUID { return &id }

func newPopulation() population {
	p := population{
		stepA: uuid.New(), stepB: uuid.New(),
		gradeA: uuid.New(), gradeB: uuid.New(),
		deptOps: uuid.New(), deptFin: uuid.New(),
		jobClerk: uuid.New(),
	}
	gradeA := &employee.SalaryGrade{ID: p.gradeA, StepID: p.stepA}
	gradeB := &employee.SalaryGrade{ID: p.gradeB, StepID: p.stepB}

	p.staff = []employee.Employee{
		{ID: uuid.New(), EmploymentType: employee.EmploymentFullTime, SalaryGradeID: ptr(p.gradeA), SalaryGrade: gradeA, DepartmentID: ptr(p.deptOps), JobID: ptr(p.jobClerk)},
		{ID: uuid.New(), EmploymentType: employee.EmploymentFullTime, SalaryGradeID: ptr(p.gradeB), SalaryGrade: gradeB, DepartmentID: ptr(p.deptOps)},
		{ID: uuid.New(), EmploymentType: employee.EmploymentPartTime, SalaryGradeID: ptr(p.gradeA), SalaryGrade: gradeA, DepartmentID: ptr(p.deptFin), JobID: ptr(p.jobClerk)},
		{ID: uuid.New(), EmploymentType: employee.EmploymentContractual, DepartmentID: ptr(p.deptFin)},
	}
	return p
}

func TestMatch_AndSemantics(t *testing.T) {
	p := newPopulation()

	got := eligibility.Match(p.staff, eligibility.FilterSpec{
		Departments: []uuid.UUID{p.deptOps},
		Steps:       []uuid.UUID{p.stepA},
	})
	assert.Equal(t, []uuid.UUID{p.staff[0].ID}, eligibility.IDs(got))

	got = eligibility.Match(p.staff, eligibility.FilterSpec{
		Jobs:           []uuid.UUID{p.jobClerk},
		EmploymentType: employee.EmploymentPartTime,
	})
	assert.Equal(t, []uuid.UUID{p.staff[2].ID}, eligibility.IDs(got))
}

func TestMatch_GradeFilterSkipsUngradedStaff(t *testing.T) {
	p := newPopulation()

	got := eligibility.Match(p.staff, eligibility.FilterSpec{
		SalaryGrades: []uuid.UUID{p.gradeA, p.gradeB},
	})
	assert.Len(t, got, 3)
	assert.NotContains(t, eligibility.IDs(got), p.staff[3].ID)
}

func TestMatch_ExcludedFromIsSubtracted(t *testing.T) {
	p := newPopulation()

	got := eligibility.Match(p.staff, eligibility.FilterSpec{
		Departments:  []uuid.UUID{p.deptOps, p.deptFin},
		ExcludedFrom: []uuid.UUID{p.staff[1].ID},
	})
	assert.Equal(t, []uuid.UUID{p.staff[0].ID, p.staff[2].ID, p.staff[3].ID}, eligibility.IDs(got))
}

func TestMatch_ApplicableToIgnoresOtherFilters(t *testing.T) {
	p := newPopulation()

	// invalid combination on purpose: the explicit list must still win
	got := eligibility.Match(p.staff, eligibility.FilterSpec{
		ApplicableTo: []uuid.UUID{p.staff[3].ID, p.staff[1].ID},
		Departments:  []uuid.UUID{p.deptOps},
		Steps:        []uuid.UUID{p.stepA},
		SalaryGrades: []uuid.UUID{p.gradeA},
		Jobs:         []uuid.UUID{p.jobClerk},
		Designations: []uuid.UUID{uuid.New()},
	})
	assert.ElementsMatch(t, []uuid.UUID{p.staff[1].ID, p.staff[3].ID}, eligibility.IDs(got))
}

func TestMatch_ApplicableToOutsidePopulationIsDropped(t *testing.T) {
	p := newPopulation()
	got := eligibility.Match(p.staff, eligibility.FilterSpec{ApplicableTo: []uuid.UUID{uuid.New()}})
	assert.Empty(t, got)
}

func TestMatch_AllEmployeesShortCircuits(t *testing.T) {
	p := newPopulation()

	got := eligibility.Match(p.staff, eligibility.FilterSpec{
		AllEmployees: true,
		Steps:        []uuid.UUID{uuid.New()},
		ExcludedFrom: []uuid.UUID{p.staff[0].ID},
	})
	assert.Equal(t, []uuid.UUID{p.staff[1].ID, p.staff[2].ID, p.staff[3].ID}, eligibility.IDs(got))
}

func TestDiff(t *testing.T) {
	a, b, c := uuid.New(), uuid.New(), uuid.New()

	added, removed, kept := eligibility.Diff([]uuid.UUID{a, b}, []uuid.UUID{b, c})
	assert.Equal(t, []uuid.UUID{c}, added)
	assert.Equal(t, []uuid.UUID{a}, removed)
	assert.Equal(t, []uuid.UUID{b}, kept)
}

func TestValidate(t *testing.T) {
	id := uuid.New()
	tests := []struct {
		name string
		spec eligibility.FilterSpec
		mode eligibility.Mode
		want error
	}{
		{"filter only", eligibility.FilterSpec{Departments: []uuid.UUID{id}}, eligibility.ModeSalaryItem, nil},
		{"condition only", eligibility.FilterSpec{EmploymentType: employee.EmploymentTemporary}, eligibility.ModeSalaryItem, nil},
		{"explicit list", eligibility.FilterSpec{ApplicableTo: []uuid.UUID{id}}, eligibility.ModeSalaryItem, nil},
		{"nothing selected", eligibility.FilterSpec{}, eligibility.ModeSalaryItem, eligibilityerrors.ErrNoCriteria},
		{"list with filter", eligibility.FilterSpec{ApplicableTo: []uuid.UUID{id}, Jobs: []uuid.UUID{id}}, eligibility.ModeSalaryItem, eligibilityerrors.ErrApplicableToExclusive},
		{"list with exclusions", eligibility.FilterSpec{ApplicableTo: []uuid.UUID{id}, ExcludedFrom: []uuid.UUID{id}}, eligibility.ModePayroll, eligibilityerrors.ErrApplicableToExclusive},
		{"all employees on salary item", eligibility.FilterSpec{AllEmployees: true}, eligibility.ModeSalaryItem, eligibilityerrors.ErrAllEmployeesUnsupported},
		{"all employees with department", eligibility.FilterSpec{AllEmployees: true, Departments: []uuid.UUID{id}}, eligibility.ModeCreditUnion, eligibilityerrors.ErrAllEmployeesExclusive},
		{"all employees with exclusions", eligibility.FilterSpec{AllEmployees: true, ExcludedFrom: []uuid.UUID{id}}, eligibility.ModePayroll, nil},
		{"bad employment type", eligibility.FilterSpec{EmploymentType: "seasonal"}, eligibility.ModePayroll, eligibilityerrors.ErrInvalidEmploymentType},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := eligibility.Validate(tt.spec, tt.mode)
			if tt.want == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

type fakeEmployees struct {
	activeFn func(ctx context.Context) ([]employee.Employee, error)
	inTx     *fakeEmployees
}

func (f *fakeEmployees) WithTx(*sql.Tx) employee.Repository {
	if f.inTx != nil {
		return f.inTx
	}
	return f
}
func (f *fakeEmployees) ActivePopulation(ctx context.Context) ([]employee.Employee, error) {
	return f.activeFn(ctx)
}
func (f *fakeEmployees) FindByID(context.Context, string) (*employee.Employee, error) { return nil, nil }
func (f *fakeEmployees) FindByIDs(context.Context, []uuid.UUID) ([]employee.Employee, error) {
	return nil, nil
}
func (f *fakeEmployees) FindBanks(context.Context) ([]employee.Bank, error) { return nil, nil }

func TestResolver_Resolve(t *testing.T) {
	p := newPopulation()

	r := eligibility.NewResolver(&fakeEmployees{
		activeFn: func(context.Context) ([]employee.Employee, error) { return p.staff, nil },
	})
	got, err := r.Resolve(context.Background(), eligibility.FilterSpec{Departments: []uuid.UUID{p.deptFin}})
	require.NoError(t, err)
	assert.Len(t, got, 2)

	r = eligibility.NewResolver(&fakeEmployees{
		activeFn: func(context.Context) ([]employee.Employee, error) { return nil, errors.New("timeout") },
	})
	_, err = r.Resolve(context.Background(), eligibility.FilterSpec{AllEmployees: true})
	assert.Error(t, err)
}

func TestResolver_WithTxReadsInsideTransaction(t *testing.T) {
	p := newPopulation()
	r := eligibility.NewResolver(&fakeEmployees{
		activeFn: func(context.Context) ([]employee.Employee, error) { return nil, errors.New("read outside tx") },
		inTx: &fakeEmployees{
			activeFn: func(context.Context) ([]employee.Employee, error) { return p.staff, nil },
		},
	})

	got, err := r.WithTx(&sql.Tx{}).Resolve(context.Background(), eligibility.FilterSpec{AllEmployees: true})
	require.NoError(t, err)
	assert.Len(t, got, len(p.staff))
}
