package creditunion_test

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"go-payroll/internal/creditunion"
	creditunionerrors "go-payroll/internal/creditunion/errors"
	"go-payroll/internal/eligibility"
	eligibilityerrors "go-payroll/internal/eligibility/errors"
	eligibilityMock "go-payroll/internal/eligibility/mock"
	"go-payroll/internal/employee"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
	"gorm.io/gorm"
)

type fakeRepo struct {
	unions  map[uuid.UUID]*creditunion.CreditUnion
	members []creditunion.StaffCreditUnion

	created     []creditunion.StaffCreditUnion
	deleted     []uuid.UUID
	bulkFields  map[string]any
	savedUnion  *creditunion.CreditUnion
	deductions  int64
	updatedRows []creditunion.StaffCreditUnion
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{unions: map[uuid.UUID]*creditunion.CreditUnion{}}
}

func (f *fakeRepo) WithTx(*sql.Tx) creditunion.Repository { return f }

func (f *fakeRepo) Create(_ context.Context, cu *creditunion.CreditUnion) error {
	f.savedUnion = cu
	f.unions[cu.ID] = cu
	return nil
}

func (f *fakeRepo) Update(_ context.Context, cu *creditunion.CreditUnion) error {
	f.savedUnion = cu
	return nil
}

func (f *fakeRepo) Delete(_ context.Context, id uuid.UUID) error {
	delete(f.unions, id)
	return nil
}

func (f *fakeRepo) FindByID(_ context.Context, id string) (*creditunion.CreditUnion, error) {
	cu, ok := f.unions[uuid.MustParse(id)]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *cu
	return &cp, nil
}

func (f *fakeRepo) FindAll(context.Context) ([]creditunion.CreditUnion, error) {
	out := make([]creditunion.CreditUnion, 0, len(f.unions))
	for _, cu := range f.unions {
		out = append(out, *cu)
	}
	return out, nil
}

func (f *fakeRepo) ListMembers(context.Context, uuid.UUID) ([]creditunion.StaffCreditUnion, error) {
	return f.members, nil
}

func (f *fakeRepo) FindMember(_ context.Context, _ uuid.UUID, employeeID uuid.UUID) (*creditunion.StaffCreditUnion, error) {
	for _, m := range f.members {
		if m.EmployeeID == employeeID {
			cp := m
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeRepo) CreateMembers(_ context.Context, rows []creditunion.StaffCreditUnion) error {
	f.created = append(f.created, rows...)
	return nil
}

func (f *fakeRepo) UpdateMember(_ context.Context, row *creditunion.StaffCreditUnion) error {
	f.updatedRows = append(f.updatedRows, *row)
	return nil
}

func (f *fakeRepo) UpdateMembers(_ context.Context, _ uuid.UUID, fields map[string]any) error {
	f.bulkFields = fields
	return nil
}

func (f *fakeRepo) DeleteMembers(_ context.Context, _ uuid.UUID, ids []uuid.UUID) error {
	f.deleted = append(f.deleted, ids...)
	return nil
}

func (f *fakeRepo) ActiveForEmployees(context.Context, time.Time, []uuid.UUID) ([]creditunion.StaffCreditUnion, error) {
	return nil, nil
}

func (f *fakeRepo) CreateDeductions(context.Context, []creditunion.StaffCreditUnionDeduction) error {
	return nil
}

func (f *fakeRepo) CountDeductions(context.Context, uuid.UUID) (int64, error) {
	return f.deductions, nil
}

func expectTx(t *testing.T, mock sqlmock.Sqlmock, commit bool) {
	t.Helper()
	mock.ExpectBegin()
	if commit {
		mock.ExpectCommit()
	} else {
		mock.ExpectRollback()
	}
}

type serviceDeps struct {
	sqlMock  sqlmock.Sqlmock
	repo     *fakeRepo
	resolver *eligibilityMock.MockResolver
	service  creditunion.Service
}

func setupServiceTest(t *testing.T) *serviceDeps {
	ctrl := gomock.NewController(t)
	db, sqlMock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	repo := newFakeRepo()
	resolver := eligibilityMock.NewMockResolver(ctrl)
	return &serviceDeps{
		sqlMock:  sqlMock,
		repo:     repo,
		resolver: resolver,
		service:  creditunion.NewService(db, repo, resolver),
	}
}

func staff(n int) []employee.Employee {
	out := make([]employee.Employee, n)
	for i := range out {
		out[i] = employee.Employee{ID: uuid.New(), Status: employee.StatusActive}
	}
	return out
}

func date(s string) time.Time {
	t, _ := time.Parse("2006-01-02", s)
	return t
}

func TestCreditUnionService_Create(t *testing.T) {
	ctx := context.Background()
	spec := eligibility.FilterSpec{AllEmployees: true}

	t.Run("defaults propagate to every member", func(t *testing.T) {
		deps := setupServiceTest(t)
		eligible := staff(3)
		deps.resolver.EXPECT().Resolve(ctx, spec).Return(eligible, nil)
		expectTx(t, deps.sqlMock, true)

		resp, err := deps.service.Create(ctx, creditunion.CreditUnionRequest{
			Name:          "Staff Co-op",
			DefaultAmount: decimal.NewFromInt(50),
			StartDate:     "2026-01-01",
			Filter:        spec,
		})

		require.NoError(t, err)
		assert.Equal(t, 3, resp.EligibleEmployeeCount)
		require.Len(t, deps.repo.created, 3)
		for _, m := range deps.repo.created {
			assert.Equal(t, "50.00", m.Amount.StringFixed(2))
			assert.Equal(t, date("2026-01-01"), m.StartDate)
			assert.Nil(t, m.EndDate)
		}
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})

	t.Run("empty eligible set rejected before persistence", func(t *testing.T) {
		deps := setupServiceTest(t)
		deps.resolver.EXPECT().Resolve(ctx, spec).Return(nil, nil)

		_, err := deps.service.Create(ctx, creditunion.CreditUnionRequest{
			Name:          "Empty",
			DefaultAmount: decimal.NewFromInt(50),
			StartDate:     "2026-01-01",
			Filter:        spec,
		})

		assert.ErrorIs(t, err, eligibilityerrors.ErrEmptyEligibleSet)
		assert.Nil(t, deps.repo.savedUnion)
	})

	t.Run("end before start", func(t *testing.T) {
		deps := setupServiceTest(t)

		_, err := deps.service.Create(ctx, creditunion.CreditUnionRequest{
			Name:          "Backwards",
			DefaultAmount: decimal.NewFromInt(50),
			StartDate:     "2026-05-01",
			EndDate:       "2026-04-01",
			Filter:        spec,
		})

		assert.ErrorIs(t, err, creditunionerrors.ErrEndBeforeStart)
	})

	t.Run("all employees with applicable-to rejected", func(t *testing.T) {
		deps := setupServiceTest(t)

		_, err := deps.service.Create(ctx, creditunion.CreditUnionRequest{
			Name:          "Conflicting",
			DefaultAmount: decimal.NewFromInt(50),
			StartDate:     "2026-01-01",
			Filter:        eligibility.FilterSpec{AllEmployees: true, ApplicableTo: []uuid.UUID{uuid.New()}},
		})

		assert.ErrorIs(t, err, eligibilityerrors.ErrAllEmployeesExclusive)
	})
}

func TestCreditUnionService_Update(t *testing.T) {
	ctx := context.Background()
	spec := eligibility.FilterSpec{AllEmployees: true}

	seed := func(deps *serviceDeps, members []employee.Employee) *creditunion.CreditUnion {
		cu := &creditunion.CreditUnion{
			ID:            uuid.New(),
			Name:          "Staff Co-op",
			DefaultAmount: decimal.NewFromInt(50),
			StartDate:     date("2026-01-01"),
			Filter:        spec,
		}
		deps.repo.unions[cu.ID] = cu
		for _, e := range members {
			deps.repo.members = append(deps.repo.members, creditunion.StaffCreditUnion{
				ID:            uuid.New(),
				CreditUnionID: cu.ID,
				EmployeeID:    e.ID,
				Amount:        decimal.NewFromInt(50),
				StartDate:     date("2026-01-01"),
			})
		}
		return cu
	}

	t.Run("only changed fields are bulk updated", func(t *testing.T) {
		deps := setupServiceTest(t)
		members := staff(2)
		cu := seed(deps, members)
		deps.resolver.EXPECT().Resolve(ctx, spec).Return(members, nil)
		expectTx(t, deps.sqlMock, true)

		_, err := deps.service.Update(ctx, cu.ID.String(), creditunion.CreditUnionRequest{
			Name:          "Staff Co-op",
			DefaultAmount: decimal.NewFromInt(75),
			StartDate:     "2026-01-01",
			Filter:        spec,
		})

		require.NoError(t, err)
		require.Contains(t, deps.repo.bulkFields, "amount")
		assert.NotContains(t, deps.repo.bulkFields, "start_date")
		assert.NotContains(t, deps.repo.bulkFields, "end_date")
		assert.Empty(t, deps.repo.created)
		assert.Empty(t, deps.repo.deleted)
	})

	t.Run("membership follows eligibility", func(t *testing.T) {
		deps := setupServiceTest(t)
		members := staff(2)
		cu := seed(deps, members)
		newcomer := staff(1)[0]
		deps.resolver.EXPECT().Resolve(ctx, spec).Return([]employee.Employee{members[0], newcomer}, nil)
		expectTx(t, deps.sqlMock, true)

		resp, err := deps.service.Update(ctx, cu.ID.String(), creditunion.CreditUnionRequest{
			Name:          "Staff Co-op",
			DefaultAmount: decimal.NewFromInt(50),
			StartDate:     "2026-01-01",
			EndDate:       "2026-12-31",
			Filter:        spec,
		})

		require.NoError(t, err)
		assert.Equal(t, 2, resp.EligibleEmployeeCount)
		assert.Contains(t, deps.repo.bulkFields, "end_date")
		require.Len(t, deps.repo.created, 1)
		assert.Equal(t, newcomer.ID, deps.repo.created[0].EmployeeID)
		require.NotNil(t, deps.repo.created[0].EndDate)
		assert.Equal(t, []uuid.UUID{members[1].ID}, deps.repo.deleted)
	})
}

func TestCreditUnionService_Delete_InUse(t *testing.T) {
	deps := setupServiceTest(t)
	cu := &creditunion.CreditUnion{ID: uuid.New()}
	deps.repo.unions[cu.ID] = cu
	deps.repo.deductions = 4

	err := deps.service.Delete(context.Background(), cu.ID.String())

	assert.ErrorIs(t, err, creditunionerrors.ErrCreditUnionInUse)
}

func TestCreditUnionService_UpdateMember(t *testing.T) {
	deps := setupServiceTest(t)
	e := staff(1)[0]
	cuID := uuid.New()
	deps.repo.members = []creditunion.StaffCreditUnion{{
		ID: uuid.New(), CreditUnionID: cuID, EmployeeID: e.ID,
		Amount: decimal.NewFromInt(50), StartDate: date("2026-01-01"),
	}}

	resp, err := deps.service.UpdateMember(context.Background(), cuID.String(), e.ID.String(), creditunion.MemberRequest{
		Amount:    decimal.RequireFromString("80.505"),
		StartDate: "2026-02-01",
	})

	require.NoError(t, err)
	assert.Equal(t, "80.51", resp.Amount)
	assert.Equal(t, "2026-02-01", resp.StartDate)
	require.Len(t, deps.repo.updatedRows, 1)
}

func TestStaffCreditUnion_Active(t *testing.T) {
	end := date("2026-03-31")
	m := creditunion.StaffCreditUnion{StartDate: date("2026-02-01"), EndDate: &end}

	assert.False(t, m.Active(date("2026-01-31")))
	assert.True(t, m.Active(date("2026-02-01")))
	assert.True(t, m.Active(time.Date(2026, 3, 31, 17, 0, 0, 0, time.UTC)))
	assert.False(t, m.Active(date("2026-04-01")))

	open := creditunion.StaffCreditUnion{StartDate: date("2026-02-01")}
	assert.True(t, open.Active(date("2030-01-01")))
}
