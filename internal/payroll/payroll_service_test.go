package payroll_test

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"go-payroll/internal/bootstrap"
	"go-payroll/internal/creditunion"
	"go-payroll/internal/eligibility"
	eligibilityerrors "go-payroll/internal/eligibility/errors"
	eligibilityMock "go-payroll/internal/eligibility/mock"
	"go-payroll/internal/employee"
	"go-payroll/internal/events"
	"go-payroll/internal/loan"
	"go-payroll/internal/messaging/kafka"
	kafkaMock "go-payroll/internal/messaging/kafka/mock"
	"go-payroll/internal/payroll"
	payrollerrors "go-payroll/internal/payroll/errors"
	"go-payroll/internal/salaryitem"
	"go-payroll/internal/shared/apperror"
	"go-payroll/internal/shared/contextutil"
	"go-payroll/internal/shared/counter"
	"go-payroll/internal/tax"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
	"gorm.io/gorm"
)

type fakeRepo struct {
	payrolls map[uuid.UUID]*payroll.Payroll
	created  []*payroll.Payroll
	updated  []*payroll.Payroll
	items    []payroll.PayrollItem
	errs     []payroll.PayrollError
	// onLock edits the row seen by FindByIDForUpdate, standing in for a
	// concurrent writer that committed first.
	onLock func(p *payroll.Payroll)
	locked int
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{payrolls: map[uuid.UUID]*payroll.Payroll{}}
}

func (f *fakeRepo) WithTx(*sql.Tx) payroll.Repository { return f }

func (f *fakeRepo) Create(_ context.Context, p *payroll.Payroll) error {
	f.created = append(f.created, p)
	f.payrolls[p.ID] = p
	return nil
}

func (f *fakeRepo) Update(_ context.Context, p *payroll.Payroll) error {
	f.updated = append(f.updated, p)
	f.payrolls[p.ID] = p
	return nil
}

func (f *fakeRepo) Delete(_ context.Context, id uuid.UUID) error {
	delete(f.payrolls, id)
	return nil
}

func (f *fakeRepo) FindByID(_ context.Context, id string) (*payroll.Payroll, error) {
	p, ok := f.payrolls[uuid.MustParse(id)]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *p
	return &cp, nil
}

func (f *fakeRepo) FindByIDForUpdate(ctx context.Context, id string) (*payroll.Payroll, error) {
	f.locked++
	p, err := f.FindByID(ctx, id)
	if err == nil && f.onLock != nil {
		f.onLock(p)
	}
	return p, err
}

func (f *fakeRepo) FindAll(context.Context, payroll.ListFilter) ([]payroll.Payroll, int64, error) {
	var out []payroll.Payroll
	for _, p := range f.payrolls {
		out = append(out, *p)
	}
	return out, int64(len(out)), nil
}

func (f *fakeRepo) CreateItems(_ context.Context, items []payroll.PayrollItem) error {
	f.items = append(f.items, items...)
	return nil
}

func (f *fakeRepo) ListItems(_ context.Context, payrollID uuid.UUID) ([]payroll.PayrollItem, error) {
	var out []payroll.PayrollItem
	for _, it := range f.items {
		if it.PayrollID == payrollID {
			out = append(out, it)
		}
	}
	return out, nil
}

func (f *fakeRepo) ListEmployeeItems(_ context.Context, payrollID, employeeID uuid.UUID) ([]payroll.PayrollItem, error) {
	var out []payroll.PayrollItem
	for _, it := range f.items {
		if it.PayrollID == payrollID && it.EmployeeID == employeeID {
			out = append(out, it)
		}
	}
	return out, nil
}

func (f *fakeRepo) CreateErrors(_ context.Context, errs []payroll.PayrollError) error {
	f.errs = append(f.errs, errs...)
	return nil
}

func (f *fakeRepo) ListErrors(context.Context, uuid.UUID) ([]payroll.PayrollError, error) {
	return f.errs, nil
}

func (f *fakeRepo) FindError(_ context.Context, payrollID, errorID uuid.UUID) (*payroll.PayrollError, error) {
	for i := range f.errs {
		if f.errs[i].ID == errorID && f.errs[i].PayrollID == payrollID {
			cp := f.errs[i]
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeRepo) UpdateError(_ context.Context, e *payroll.PayrollError) error {
	for i := range f.errs {
		if f.errs[i].ID == e.ID {
			f.errs[i] = *e
		}
	}
	return nil
}

type fakeSalaryItems struct {
	salaryitem.Repository
	rows []salaryitem.StaffSalaryItem
}

func (f *fakeSalaryItems) WithTx(*sql.Tx) salaryitem.Repository { return f }

func (f *fakeSalaryItems) ActiveForEmployees(context.Context, time.Time, []uuid.UUID) ([]salaryitem.StaffSalaryItem, error) {
	return f.rows, nil
}

type fakeCreditUnions struct {
	creditunion.Repository
	rows       []creditunion.StaffCreditUnion
	deductions []creditunion.StaffCreditUnionDeduction
}

func (f *fakeCreditUnions) WithTx(*sql.Tx) creditunion.Repository { return f }

func (f *fakeCreditUnions) ActiveForEmployees(context.Context, time.Time, []uuid.UUID) ([]creditunion.StaffCreditUnion, error) {
	return f.rows, nil
}

func (f *fakeCreditUnions) CreateDeductions(_ context.Context, rows []creditunion.StaffCreditUnionDeduction) error {
	f.deductions = append(f.deductions, rows...)
	return nil
}

type fakeLoans struct {
	loan.Repository
	rows []loan.Loan
}

func (f *fakeLoans) WithTx(*sql.Tx) loan.Repository { return f }

func (f *fakeLoans) ActiveForEmployees(context.Context, time.Time, []uuid.UUID) ([]loan.Loan, error) {
	return f.rows, nil
}

type fakeTaxes struct {
	tax.Service
	brackets []tax.Bracket
}

func (f *fakeTaxes) Brackets(context.Context, int) ([]tax.Bracket, error) {
	return f.brackets, nil
}

type fakeCounter struct {
	next int64
}

func (f *fakeCounter) WithTx(*sql.Tx) counter.Repository { return f }

func (f *fakeCounter) GetNextValue(context.Context, string) (int64, error) {
	f.next++
	return f.next, nil
}

type recordingAudit struct {
	entries []bootstrap.AuditLog
}

func (a *recordingAudit) Log(_ context.Context, entry bootstrap.AuditLog) {
	a.entries = append(a.entries, entry)
}

type busyLock struct{}

func (busyLock) Acquire(context.Context, int, int) (func(), error) {
	return nil, payrollerrors.ErrRunInProgress
}

type serviceDeps struct {
	db          *sql.DB
	mock        sqlmock.Sqlmock
	repo        *fakeRepo
	resolver    *eligibilityMock.MockResolver
	outbox      *kafkaMock.MockOutboxRepository
	creditUnion *fakeCreditUnions
	audit       *recordingAudit
	svc         payroll.Service
}

func setupServiceTest(t *testing.T, opts ...payroll.Option) *serviceDeps {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	ctrl := gomock.NewController(t)
	deps := &serviceDeps{
		db:          db,
		mock:        mock,
		repo:        newFakeRepo(),
		resolver:    eligibilityMock.NewMockResolver(ctrl),
		outbox:      kafkaMock.NewMockOutboxRepository(ctrl),
		creditUnion: &fakeCreditUnions{},
		audit:       &recordingAudit{},
	}
	deps.resolver.EXPECT().WithTx(gomock.Any()).Return(deps.resolver).AnyTimes()
	base := []payroll.Option{
		payroll.WithOutbox(deps.outbox),
		payroll.WithAuditLogger(deps.audit),
		payroll.WithClock(func() time.Time { return runDay.Add(9 * time.Hour) }),
	}
	deps.svc = payroll.NewService(
		db,
		deps.repo,
		deps.resolver,
		&fakeSalaryItems{},
		deps.creditUnion,
		&fakeLoans{},
		&fakeTaxes{brackets: flatBracket("2000", "0")},
		&fakeCounter{next: 6},
		append(base, opts...)...,
	)
	return deps
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

func request(mode payroll.ErrorMode) payroll.PayrollRequest {
	return payroll.PayrollRequest{
		Year:        2026,
		Month:       3,
		PaymentRate: dec("100"),
		ErrorMode:   mode,
		Filter:      eligibility.FilterSpec{AllEmployees: true},
	}
}

func employeesOf(items []payroll.PayrollItem) map[uuid.UUID]bool {
	out := map[uuid.UUID]bool{}
	for _, it := range items {
		out[it.EmployeeID] = true
	}
	return out
}

func TestPayrollService_Process(t *testing.T) {
	ctx := contextutil.WithActor(contextutil.WithRequestID(context.Background(), "req-1"), "ops-7", "payroll_officer")

	t.Run("single employee commits balanced items", func(t *testing.T) {
		deps := setupServiceTest(t)
		e := newEmployee("2000")
		deps.resolver.EXPECT().Resolve(gomock.Any(), gomock.Any()).Return([]employee.Employee{e}, nil)
		expectTx(t, deps.mock, true)
		deps.outbox.EXPECT().WithTx(gomock.Any()).Return(deps.outbox)
		deps.outbox.EXPECT().Create(ctx, gomock.Any()).DoAndReturn(func(_ context.Context, ev kafka.OutboxEvent) error {
			assert.Equal(t, events.PayrollProcessedTopic, ev.Topic)
			var payload events.PayrollProcessedEvent
			require.NoError(t, json.Unmarshal(ev.Payload, &payload))
			assert.Equal(t, "PR-000007", payload.Reference)
			assert.Equal(t, 1, payload.EmployeeCount)
			assert.Equal(t, "ops-7", payload.ProcessedBy)
			return nil
		})

		result, err := deps.svc.Process(ctx, request(payroll.ModeStrict))
		require.NoError(t, err)
		assert.Equal(t, payroll.ResultSuccess, result.Status)
		assert.Equal(t, "PR-000007", result.Reference)
		assert.Equal(t, 1, result.EmployeeCount)
		assert.Zero(t, result.ErrorCount)

		require.Len(t, deps.repo.created, 1)
		p := deps.repo.created[0]
		assert.Equal(t, payroll.StatusProcessed, p.Status)
		assert.Equal(t, "ops-7", p.ProcessedBy)
		require.NotNil(t, p.ProcessedAt)

		debit, credit := payroll.Totals(deps.repo.items)
		assert.True(t, debit.Equal(credit))
		for _, it := range deps.repo.items {
			assert.Equal(t, p.ID, it.PayrollID)
			if it.ItemType == payroll.ItemBank {
				assert.True(t, it.Amount.Equal(dec("1890")))
			}
		}
		require.Len(t, deps.audit.entries, 1)
		assert.Equal(t, "PAYROLL_PROCESSED", deps.audit.entries[0].Action)
		assert.NoError(t, deps.mock.ExpectationsWereMet())
	})

	t.Run("strict mode aborts without writing", func(t *testing.T) {
		deps := setupServiceTest(t)
		good, bad := newEmployee("2000"), newEmployee("2500")
		bad.BankID = nil
		deps.resolver.EXPECT().Resolve(gomock.Any(), gomock.Any()).Return([]employee.Employee{good, bad}, nil)
		expectTx(t, deps.mock, false)

		result, err := deps.svc.Process(ctx, request(payroll.ModeStrict))
		require.Error(t, err)
		assert.ErrorIs(t, err, payrollerrors.ErrPayrollAborted)
		assert.Equal(t, payroll.ResultFail, result.Status)
		require.Len(t, result.Errors, 1)
		assert.Contains(t, result.Errors[0], "bank")

		var appErr *apperror.AppError
		require.True(t, errors.As(err, &appErr))
		details, ok := appErr.Details.(payroll.ProcessResult)
		require.True(t, ok)
		assert.Equal(t, result.Errors, details.Errors)

		assert.Empty(t, deps.repo.created)
		assert.Empty(t, deps.repo.items)
		assert.Empty(t, deps.repo.errs)
		assert.Empty(t, deps.audit.entries)
		assert.NoError(t, deps.mock.ExpectationsWereMet())
	})

	t.Run("mute mode commits the rest and records errors", func(t *testing.T) {
		deps := setupServiceTest(t)
		a, b, bad := newEmployee("2000"), newEmployee("3000"), newEmployee("2500")
		bad.BankID = nil
		deps.resolver.EXPECT().Resolve(gomock.Any(), gomock.Any()).Return([]employee.Employee{a, bad, b}, nil)
		expectTx(t, deps.mock, true)
		deps.outbox.EXPECT().WithTx(gomock.Any()).Return(deps.outbox)
		deps.outbox.EXPECT().Create(ctx, gomock.Any()).Return(nil)

		result, err := deps.svc.Process(ctx, request(payroll.ModeMute))
		require.NoError(t, err)
		assert.Equal(t, payroll.ResultSuccess, result.Status)
		assert.Equal(t, 2, result.EmployeeCount)
		assert.Equal(t, 1, result.ErrorCount)

		paid := employeesOf(deps.repo.items)
		assert.Len(t, paid, 2)
		assert.True(t, paid[a.ID])
		assert.True(t, paid[b.ID])
		assert.False(t, paid[bad.ID])

		require.Len(t, deps.repo.errs, 1)
		assert.Equal(t, bad.ID, deps.repo.errs[0].EmployeeID)
		assert.Equal(t, payroll.CategoryBank, deps.repo.errs[0].Category)
		assert.Equal(t, deps.repo.created[0].ID, deps.repo.errs[0].PayrollID)
		assert.NoError(t, deps.mock.ExpectationsWereMet())
	})

	t.Run("credit union deductions are recorded with the run", func(t *testing.T) {
		deps := setupServiceTest(t)
		e := newEmployee("2000")
		deps.creditUnion.rows = []creditunion.StaffCreditUnion{{
			ID:            uuid.New(),
			CreditUnionID: uuid.New(),
			EmployeeID:    e.ID,
			Amount:        dec("50"),
			StartDate:     runDay.AddDate(0, -2, 0),
		}}
		deps.resolver.EXPECT().Resolve(gomock.Any(), gomock.Any()).Return([]employee.Employee{e}, nil)
		expectTx(t, deps.mock, true)
		deps.outbox.EXPECT().WithTx(gomock.Any()).Return(deps.outbox)
		deps.outbox.EXPECT().Create(ctx, gomock.Any()).Return(nil)

		_, err := deps.svc.Process(ctx, request(payroll.ModeStrict))
		require.NoError(t, err)
		require.Len(t, deps.creditUnion.deductions, 1)
		assert.True(t, deps.creditUnion.deductions[0].Amount.Equal(dec("50")))
		assert.Equal(t, deps.repo.created[0].ID, deps.creditUnion.deductions[0].PayrollID)
	})

	t.Run("empty eligible set", func(t *testing.T) {
		deps := setupServiceTest(t)
		deps.resolver.EXPECT().Resolve(gomock.Any(), gomock.Any()).Return(nil, nil)
		expectTx(t, deps.mock, false)

		_, err := deps.svc.Process(ctx, request(payroll.ModeStrict))
		assert.ErrorIs(t, err, eligibilityerrors.ErrEmptyEligibleSet)
		assert.Empty(t, deps.repo.created)
		assert.NoError(t, deps.mock.ExpectationsWereMet())
	})

	t.Run("period already running", func(t *testing.T) {
		deps := setupServiceTest(t, payroll.WithRunLock(busyLock{}))

		_, err := deps.svc.Process(ctx, request(payroll.ModeStrict))
		assert.ErrorIs(t, err, payrollerrors.ErrRunInProgress)
	})

	t.Run("invalid input", func(t *testing.T) {
		deps := setupServiceTest(t)

		req := request(payroll.ModeStrict)
		req.Month = 13
		_, err := deps.svc.Process(ctx, req)
		assert.ErrorIs(t, err, payrollerrors.ErrInvalidPeriod)

		req = request(payroll.ModeStrict)
		req.PaymentRate = dec("150")
		_, err = deps.svc.Process(ctx, req)
		assert.ErrorIs(t, err, payrollerrors.ErrInvalidPaymentRate)

		_, err = deps.svc.Process(ctx, request("loud"))
		assert.ErrorIs(t, err, payrollerrors.ErrInvalidErrorMode)
	})

	t.Run("conflicting filter modes", func(t *testing.T) {
		deps := setupServiceTest(t)

		req := request(payroll.ModeStrict)
		req.Filter.ApplicableTo = []uuid.UUID{uuid.New()}
		_, err := deps.svc.Process(ctx, req)
		assert.ErrorIs(t, err, eligibilityerrors.ErrAllEmployeesExclusive)

		req = request(payroll.ModeStrict)
		req.Filter = eligibility.FilterSpec{
			ApplicableTo: []uuid.UUID{uuid.New()},
			Departments:  []uuid.UUID{uuid.New()},
		}
		_, err = deps.svc.CreateDraft(ctx, req)
		assert.ErrorIs(t, err, eligibilityerrors.ErrApplicableToExclusive)
		assert.Empty(t, deps.repo.created)
	})
}

func TestPayrollService_Drafts(t *testing.T) {
	ctx := contextutil.WithActor(context.Background(), "ops-7", "payroll_officer")

	t.Run("draft then process", func(t *testing.T) {
		deps := setupServiceTest(t)
		req := request(payroll.ModeMute)
		req.PaymentRate = dec("0")

		deps.resolver.EXPECT().Resolve(gomock.Any(), req.Filter).Return([]employee.Employee{newEmployee("2000")}, nil)
		draft, err := deps.svc.CreateDraft(ctx, req)
		require.NoError(t, err)
		assert.Equal(t, payroll.StatusDraft, draft.Status)
		assert.Equal(t, "100.00", draft.PaymentRate)
		assert.Equal(t, "ops-7", draft.CreatedBy)
		assert.Equal(t, 0, deps.repo.locked)

		deps.resolver.EXPECT().Resolve(gomock.Any(), gomock.Any()).Return([]employee.Employee{newEmployee("2000")}, nil)
		expectTx(t, deps.mock, true)
		deps.outbox.EXPECT().WithTx(gomock.Any()).Return(deps.outbox)
		deps.outbox.EXPECT().Create(ctx, gomock.Any()).Return(nil)

		result, err := deps.svc.ProcessDraft(ctx, draft.ID)
		require.NoError(t, err)
		assert.Equal(t, draft.ID, result.PayrollID)
		require.Len(t, deps.repo.updated, 1)
		assert.Equal(t, payroll.StatusProcessed, deps.repo.updated[0].Status)
		assert.Equal(t, 1, deps.repo.locked)

		_, err = deps.svc.ProcessDraft(ctx, draft.ID)
		assert.ErrorIs(t, err, payrollerrors.ErrNotDraft)

		err = deps.svc.DeleteDraft(ctx, draft.ID)
		assert.ErrorIs(t, err, payrollerrors.ErrNotDraft)
	})

	t.Run("draft matching nobody is not stored", func(t *testing.T) {
		deps := setupServiceTest(t)
		deps.resolver.EXPECT().Resolve(gomock.Any(), gomock.Any()).Return(nil, nil)

		_, err := deps.svc.CreateDraft(ctx, request(payroll.ModeMute))
		assert.ErrorIs(t, err, eligibilityerrors.ErrEmptyEligibleSet)
		assert.Empty(t, deps.repo.created)
	})

	t.Run("update to a filter matching nobody is rejected", func(t *testing.T) {
		deps := setupServiceTest(t)
		deps.resolver.EXPECT().Resolve(gomock.Any(), gomock.Any()).Return([]employee.Employee{newEmployee("2000")}, nil)
		draft, err := deps.svc.CreateDraft(ctx, request(payroll.ModeMute))
		require.NoError(t, err)

		req := request(payroll.ModeMute)
		req.Filter = eligibility.FilterSpec{Departments: []uuid.UUID{uuid.New()}}
		deps.resolver.EXPECT().Resolve(gomock.Any(), req.Filter).Return(nil, nil)

		_, err = deps.svc.UpdateDraft(ctx, draft.ID, req)
		assert.ErrorIs(t, err, eligibilityerrors.ErrEmptyEligibleSet)
		assert.Empty(t, deps.repo.updated)
	})

	t.Run("draft processed by a concurrent request is not processed twice", func(t *testing.T) {
		deps := setupServiceTest(t)
		deps.resolver.EXPECT().Resolve(gomock.Any(), gomock.Any()).Return([]employee.Employee{newEmployee("2000")}, nil)
		draft, err := deps.svc.CreateDraft(ctx, request(payroll.ModeMute))
		require.NoError(t, err)

		deps.repo.onLock = func(p *payroll.Payroll) {
			p.Status = payroll.StatusProcessed
			p.Reference = "PR-000001"
		}
		expectTx(t, deps.mock, false)

		_, err = deps.svc.ProcessDraft(ctx, draft.ID)
		assert.ErrorIs(t, err, payrollerrors.ErrNotDraft)
		assert.Empty(t, deps.repo.updated)
		assert.Empty(t, deps.repo.items)
		assert.Empty(t, deps.creditUnion.deductions)
		assert.NoError(t, deps.mock.ExpectationsWereMet())
	})

	t.Run("unknown id", func(t *testing.T) {
		deps := setupServiceTest(t)

		_, err := deps.svc.GetByID(ctx, uuid.NewString())
		assert.ErrorIs(t, err, payrollerrors.ErrPayrollNotFound)

		_, err = deps.svc.GetByID(ctx, "nope")
		assert.ErrorIs(t, err, payrollerrors.ErrInvalidPayrollID)
	})
}

func TestPayrollService_PostAndReview(t *testing.T) {
	ctx := contextutil.WithActor(context.Background(), "ops-7", "payroll_officer")
	deps := setupServiceTest(t)

	e := newEmployee("2000")
	deps.resolver.EXPECT().Resolve(gomock.Any(), gomock.Any()).Return([]employee.Employee{e}, nil)
	expectTx(t, deps.mock, true)
	deps.outbox.EXPECT().WithTx(gomock.Any()).Return(deps.outbox)
	deps.outbox.EXPECT().Create(ctx, gomock.Any()).Return(nil)

	result, err := deps.svc.Process(ctx, request(payroll.ModeMute))
	require.NoError(t, err)

	t.Run("payslip groups items", func(t *testing.T) {
		slip, err := deps.svc.GetPayslip(ctx, result.PayrollID, e.ID.String())
		require.NoError(t, err)
		assert.Equal(t, "2000.00", slip.Summary["basic_salary"])
		assert.Equal(t, "1890.00", slip.Summary["net_salary"])
		assert.Equal(t, "G5", slip.Summary["salary_grade"])

		_, err = deps.svc.GetPayslip(ctx, result.PayrollID, uuid.NewString())
		assert.ErrorIs(t, err, payrollerrors.ErrPayslipNotFound)
	})

	t.Run("payslip pdf", func(t *testing.T) {
		pdf, err := deps.svc.PayslipPDF(ctx, result.PayrollID, e.ID.String())
		require.NoError(t, err)
		assert.Equal(t, "%PDF", string(pdf[:4]))
	})

	t.Run("mark posted once", func(t *testing.T) {
		resp, err := deps.svc.MarkPosted(ctx, result.PayrollID)
		require.NoError(t, err)
		assert.True(t, resp.Posted)
		assert.NotNil(t, resp.PostedAt)

		_, err = deps.svc.MarkPosted(ctx, result.PayrollID)
		assert.ErrorIs(t, err, payrollerrors.ErrAlreadyPosted)
	})

	t.Run("resolve error", func(t *testing.T) {
		row := payroll.PayrollError{
			ID:         uuid.New(),
			PayrollID:  uuid.MustParse(result.PayrollID),
			EmployeeID: uuid.New(),
			Category:   payroll.CategoryBank,
			Detail:     "employee X has no bank details",
		}
		deps.repo.errs = append(deps.repo.errs, row)
		resolved := true

		resp, err := deps.svc.ResolveError(ctx, result.PayrollID, row.ID.String(), payroll.ResolveErrorRequest{Resolved: &resolved})
		require.NoError(t, err)
		assert.True(t, resp.Resolved)
		assert.Equal(t, "ops-7", resp.ResolvedBy)

		_, err = deps.svc.ResolveError(ctx, result.PayrollID, uuid.NewString(), payroll.ResolveErrorRequest{Resolved: &resolved})
		assert.ErrorIs(t, err, payrollerrors.ErrPayrollErrorNotFound)
	})
}

func TestRunLockKey(t *testing.T) {
	assert.Equal(t, "lock:payroll:2026-03", payroll.RunLockKey(2026, 3))
}
