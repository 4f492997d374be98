package payroll

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"go-payroll/internal/bootstrap"
	"go-payroll/internal/creditunion"
	"go-payroll/internal/eligibility"
	eligibilityerrors "go-payroll/internal/eligibility/errors"
	"go-payroll/internal/events"
	"go-payroll/internal/loan"
	"go-payroll/internal/messaging/kafka"
	payrollerrors "go-payroll/internal/payroll/errors"
	"go-payroll/internal/salaryitem"
	"go-payroll/internal/shared/contextutil"
	"go-payroll/internal/shared/counter"
	"go-payroll/internal/tax"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const (
	referencePrefix     = "PR"
	payrollProcessed    = "payroll.processed"
	defaultListPageSize = 20
)

//go:generate mockgen -source=payroll_service.go -destination=mock/payroll_service_mock.go -package=mock
type Service interface {
	Process(ctx context.Context, req PayrollRequest) (ProcessResult, error)
	CreateDraft(ctx context.Context, req PayrollRequest) (PayrollResponse, error)
	UpdateDraft(ctx context.Context, id string, req PayrollRequest) (PayrollResponse, error)
	DeleteDraft(ctx context.Context, id string) error
	ProcessDraft(ctx context.Context, id string) (ProcessResult, error)
	GetAll(ctx context.Context, req ListRequest) ([]PayrollResponse, int64, error)
	GetByID(ctx context.Context, id string) (PayrollResponse, error)
	GetItems(ctx context.Context, id string) ([]PayrollItemResponse, error)
	GetPayslip(ctx context.Context, id, employeeID string) (PayslipResponse, error)
	PayslipPDF(ctx context.Context, id, employeeID string) ([]byte, error)
	ListErrors(ctx context.Context, id string) ([]PayrollErrorResponse, error)
	ResolveError(ctx context.Context, id, errorID string, req ResolveErrorRequest) (PayrollErrorResponse, error)
	MarkPosted(ctx context.Context, id string) (PayrollResponse, error)
}

type service struct {
	db           *sql.DB
	repo         Repository
	resolver     eligibility.Resolver
	salaryItems  salaryitem.Repository
	creditUnions creditunion.Repository
	loans        loan.Repository
	taxes        tax.Service
	counters     counter.Repository
	outbox       kafka.OutboxRepository
	lock         RunLock
	audit        bootstrap.AuditLogger
	now          func() time.Time
	logger       *zap.Logger
}

type Option func(*service)

func WithOutbox(outbox kafka.OutboxRepository) Option {
	return func(s *service) { s.outbox = outbox }
}

// WithRunLock serialises runs for the same period across instances.
func WithRunLock(lock RunLock) Option {
	return func(s *service) { s.lock = lock }
}

func WithAuditLogger(audit bootstrap.AuditLogger) Option {
	return func(s *service) { s.audit = audit }
}

func WithClock(now func() time.Time) Option {
	return func(s *service) { s.now = now }
}

func WithLogger(l *zap.Logger) Option {
	return func(s *service) {
		if l != nil {
			s.logger = l.Named("payroll.service")
		}
	}
}

func NewService(
	db *sql.DB,
	repo Repository,
	resolver eligibility.Resolver,
	salaryItems salaryitem.Repository,
	creditUnions creditunion.Repository,
	loans loan.Repository,
	taxes tax.Service,
	counters counter.Repository,
	opts ...Option,
) Service {
	s := &service{
		db:           db,
		repo:         repo,
		resolver:     resolver,
		salaryItems:  salaryItems,
		creditUnions: creditUnions,
		loans:        loans,
		taxes:        taxes,
		counters:     counters,
		lock:         noopLock{},
		audit:        bootstrap.NewStdoutAuditLogger(),
		now:          time.Now,
		logger:       zap.L().Named("payroll.service"),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *service) Process(ctx context.Context, req PayrollRequest) (ProcessResult, error) {
	p, err := s.newPayroll(ctx, req)
	if err != nil {
		return ProcessResult{}, err
	}
	return s.run(ctx, p, false)
}

func (s *service) CreateDraft(ctx context.Context, req PayrollRequest) (PayrollResponse, error) {
	log := contextutil.GetLogger(ctx, s.logger)

	p, err := s.newPayroll(ctx, req)
	if err != nil {
		return PayrollResponse{}, err
	}
	if err := s.requireEligible(ctx, p.Filter); err != nil {
		return PayrollResponse{}, err
	}
	if err := s.repo.Create(ctx, p); err != nil {
		log.Error("create draft failed", zap.Error(err))
		return PayrollResponse{}, err
	}
	log.Info("payroll draft created",
		zap.String("payroll_id", p.ID.String()),
		zap.Int("year", p.Year),
		zap.Int("month", p.Month),
	)
	return mapToResponse(*p), nil
}

func (s *service) UpdateDraft(ctx context.Context, id string, req PayrollRequest) (PayrollResponse, error) {
	p, err := s.findDraft(ctx, id)
	if err != nil {
		return PayrollResponse{}, err
	}
	rate, err := validateRequest(req)
	if err != nil {
		return PayrollResponse{}, err
	}
	if err := s.requireEligible(ctx, req.Filter); err != nil {
		return PayrollResponse{}, err
	}

	p.Year = req.Year
	p.Month = req.Month
	p.PaymentRate = rate
	p.ErrorMode = req.ErrorMode
	p.Filter = req.Filter
	if err := s.repo.Update(ctx, p); err != nil {
		return PayrollResponse{}, err
	}
	return mapToResponse(*p), nil
}

func (s *service) DeleteDraft(ctx context.Context, id string) error {
	p, err := s.findDraft(ctx, id)
	if err != nil {
		return err
	}
	return s.repo.Delete(ctx, p.ID)
}

func (s *service) ProcessDraft(ctx context.Context, id string) (ProcessResult, error) {
	p, err := s.findDraft(ctx, id)
	if err != nil {
		return ProcessResult{}, err
	}
	return s.run(ctx, p, true)
}

// run computes every eligible employee against one configuration snapshot
// and commits the whole run or nothing.
func (s *service) run(ctx context.Context, p *Payroll, stored bool) (ProcessResult, error) {
	log := contextutil.GetLogger(ctx, s.logger).With(
		zap.String("payroll_id", p.ID.String()),
		zap.Int("year", p.Year),
		zap.Int("month", p.Month),
		zap.String("error_mode", string(p.ErrorMode)),
	)

	release, err := s.lock.Acquire(ctx, p.Year, p.Month)
	if err != nil {
		log.Warn("payroll lock not acquired", zap.Error(err))
		return ProcessResult{}, err
	}
	defer release()

	tx, err := s.db.BeginTx(ctx, &sql.TxOptions{Isolation: sql.LevelRepeatableRead})
	if err != nil {
		return ProcessResult{}, s.failed(log, "begin transaction", err)
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)
	if stored {
		// Re-read under a row lock: a concurrent request may have processed
		// the draft after the caller loaded it.
		current, err := qtx.FindByIDForUpdate(ctx, p.ID.String())
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ProcessResult{}, payrollerrors.ErrPayrollNotFound
			}
			return ProcessResult{}, s.failed(log, "lock payroll draft", err)
		}
		if current.Status != StatusDraft {
			log.Warn("payroll draft already processed")
			return ProcessResult{}, payrollerrors.ErrNotDraft
		}
		p = current
	}

	employees, err := s.resolver.WithTx(tx).Resolve(ctx, p.Filter)
	if err != nil {
		return ProcessResult{}, s.failed(log, "resolve eligibility", err)
	}
	if len(employees) == 0 {
		return ProcessResult{}, eligibilityerrors.ErrEmptyEligibleSet
	}

	// Brackets are served by the tax cache, outside the snapshot. A year's
	// table only changes through ReplaceYear, which invalidates the cache.
	brackets, err := s.taxes.Brackets(ctx, p.Year)
	if err != nil {
		return ProcessResult{}, s.failed(log, "load tax brackets", err)
	}

	today := truncateDay(s.now())
	ids := make([]uuid.UUID, len(employees))
	for i, e := range employees {
		ids[i] = e.ID
	}

	staffItems, err := s.salaryItems.WithTx(tx).ActiveForEmployees(ctx, today, ids)
	if err != nil {
		return ProcessResult{}, s.failed(log, "load salary items", err)
	}
	subscriptions, err := s.creditUnions.WithTx(tx).ActiveForEmployees(ctx, today, ids)
	if err != nil {
		return ProcessResult{}, s.failed(log, "load credit unions", err)
	}
	loans, err := s.loans.WithTx(tx).ActiveForEmployees(ctx, today, ids)
	if err != nil {
		return ProcessResult{}, s.failed(log, "load loans", err)
	}

	itemsByEmployee := make(map[uuid.UUID][]salaryitem.StaffSalaryItem)
	for _, row := range staffItems {
		itemsByEmployee[row.EmployeeID] = append(itemsByEmployee[row.EmployeeID], row)
	}
	subsByEmployee := make(map[uuid.UUID][]creditunion.StaffCreditUnion)
	for _, sub := range subscriptions {
		subsByEmployee[sub.EmployeeID] = append(subsByEmployee[sub.EmployeeID], sub)
	}
	loansByEmployee := make(map[uuid.UUID][]loan.Loan)
	for _, l := range loans {
		loansByEmployee[l.EmployeeID] = append(loansByEmployee[l.EmployeeID], l)
	}

	input := RunInput{
		PayrollID:   p.ID,
		PaymentRate: p.PaymentRate,
		Today:       today,
		Brackets:    brackets,
	}

	var (
		items      []PayrollItem
		deductions []creditunion.StaffCreditUnionDeduction
		runErrors  []PayrollError
		processed  int
	)
	for _, e := range employees {
		b, perr := ComputeEmployee(input, EmployeeInput{
			Employee:     e,
			SalaryItems:  itemsByEmployee[e.ID],
			CreditUnions: subsByEmployee[e.ID],
			Loans:        loansByEmployee[e.ID],
		})
		if perr != nil {
			runErrors = append(runErrors, *perr)
			continue
		}
		processed++
		items = append(items, b.Items...)
		deductions = append(deductions, b.Deductions...)
	}

	if p.ErrorMode == ModeStrict && len(runErrors) > 0 {
		messages := make([]string, len(runErrors))
		for i, e := range runErrors {
			messages[i] = e.Message()
		}
		log.Warn("strict payroll aborted", zap.Int("errors", len(runErrors)))
		result := ProcessResult{
			Status:     ResultFail,
			Message:    payrollerrors.ErrPayrollAborted.Message,
			ErrorCount: len(runErrors),
			Errors:     messages,
		}
		return result, payrollerrors.ErrPayrollAborted.WithDetails(result)
	}

	seq, err := s.counters.WithTx(tx).GetNextValue(ctx, counter.TypePayrollRun)
	if err != nil {
		return ProcessResult{}, s.failed(log, "next payroll reference", err)
	}

	now := s.now().UTC()
	actor := contextutil.GetActorID(ctx)
	p.Reference = counter.Reference(referencePrefix, seq)
	p.Status = StatusProcessed
	p.EmployeeCount = processed
	p.ErrorCount = len(runErrors)
	p.ProcessedBy = actor
	p.ProcessedAt = &now

	if stored {
		err = qtx.Update(ctx, p)
	} else {
		err = qtx.Create(ctx, p)
	}
	if err != nil {
		return ProcessResult{}, s.failed(log, "save payroll", err)
	}
	if len(items) > 0 {
		if err := qtx.CreateItems(ctx, items); err != nil {
			return ProcessResult{}, s.failed(log, "save payroll items", err)
		}
	}
	if len(runErrors) > 0 {
		if err := qtx.CreateErrors(ctx, runErrors); err != nil {
			return ProcessResult{}, s.failed(log, "save payroll errors", err)
		}
	}
	if len(deductions) > 0 {
		if err := s.creditUnions.WithTx(tx).CreateDeductions(ctx, deductions); err != nil {
			return ProcessResult{}, s.failed(log, "save credit union deductions", err)
		}
	}
	if err := s.publishProcessed(ctx, tx, p, now); err != nil {
		return ProcessResult{}, s.failed(log, "write outbox event", err)
	}

	if err := tx.Commit(); err != nil {
		return ProcessResult{}, s.failed(log, "commit payroll", err)
	}

	log.Info("payroll processed",
		zap.String("reference", p.Reference),
		zap.Int("employees", processed),
		zap.Int("errors", len(runErrors)),
		zap.Int("items", len(items)),
	)
	s.audit.Log(ctx, bootstrap.AuditLog{
		Action:  "PAYROLL_PROCESSED",
		Message: "payroll " + p.Reference + " processed",
		Meta: map[string]any{
			"payroll_id": p.ID.String(),
			"period":     fmt.Sprintf("%04d-%02d", p.Year, p.Month),
			"employees":  processed,
			"errors":     len(runErrors),
		},
	})

	message := fmt.Sprintf("payroll processed for %d employees", processed)
	if len(runErrors) > 0 {
		message = fmt.Sprintf("payroll processed for %d employees, %d skipped with errors", processed, len(runErrors))
	}
	return ProcessResult{
		Status:        ResultSuccess,
		Message:       message,
		PayrollID:     p.ID.String(),
		Reference:     p.Reference,
		EmployeeCount: processed,
		ErrorCount:    len(runErrors),
	}, nil
}

func (s *service) publishProcessed(ctx context.Context, tx *sql.Tx, p *Payroll, at time.Time) error {
	if s.outbox == nil {
		return nil
	}
	requestID := contextutil.GetRequestID(ctx)
	event, err := kafka.NewOutboxEvent(
		requestID,
		"payroll",
		p.ID.String(),
		payrollProcessed,
		events.PayrollProcessedTopic,
		events.PayrollProcessedEvent{
			EventType:     payrollProcessed,
			RequestID:     requestID,
			PayrollID:     p.ID.String(),
			Reference:     p.Reference,
			Year:          p.Year,
			Month:         p.Month,
			EmployeeCount: p.EmployeeCount,
			ErrorCount:    p.ErrorCount,
			ProcessedBy:   p.ProcessedBy,
			OccurredAt:    at,
		},
	)
	if err != nil {
		return err
	}
	return s.outbox.WithTx(tx).Create(ctx, event)
}

func (s *service) failed(log *zap.Logger, step string, err error) error {
	log.Error("payroll run failed", zap.String("step", step), zap.Error(err))
	return fmt.Errorf("%w: %s: %v", payrollerrors.ErrPayrollFailed, step, err)
}

func (s *service) GetAll(ctx context.Context, req ListRequest) ([]PayrollResponse, int64, error) {
	if req.Page < 1 {
		req.Page = 1
	}
	if req.PageSize < 1 {
		req.PageSize = defaultListPageSize
	}
	payrolls, total, err := s.repo.FindAll(ctx, ListFilter{
		Year:   req.Year,
		Month:  req.Month,
		Status: req.Status,
		Page:   req.Page,
		Limit:  req.PageSize,
	})
	if err != nil {
		return nil, 0, err
	}
	return mapToListResponse(payrolls), total, nil
}

func (s *service) GetByID(ctx context.Context, id string) (PayrollResponse, error) {
	p, err := s.find(ctx, id)
	if err != nil {
		return PayrollResponse{}, err
	}
	return mapToResponse(*p), nil
}

func (s *service) GetItems(ctx context.Context, id string) ([]PayrollItemResponse, error) {
	p, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}
	items, err := s.repo.ListItems(ctx, p.ID)
	if err != nil {
		return nil, err
	}
	resp := make([]PayrollItemResponse, len(items))
	for i, it := range items {
		resp[i] = mapItemResponse(it)
	}
	return resp, nil
}

func (s *service) GetPayslip(ctx context.Context, id, employeeID string) (PayslipResponse, error) {
	p, err := s.find(ctx, id)
	if err != nil {
		return PayslipResponse{}, err
	}
	empID, err := uuid.Parse(employeeID)
	if err != nil {
		return PayslipResponse{}, payrollerrors.ErrInvalidEmployeeID
	}
	items, err := s.repo.ListEmployeeItems(ctx, p.ID, empID)
	if err != nil {
		return PayslipResponse{}, err
	}
	if len(items) == 0 {
		return PayslipResponse{}, payrollerrors.ErrPayslipNotFound
	}
	return buildPayslip(*p, empID.String(), items), nil
}

func (s *service) PayslipPDF(ctx context.Context, id, employeeID string) ([]byte, error) {
	slip, err := s.GetPayslip(ctx, id, employeeID)
	if err != nil {
		return nil, err
	}
	pdf, err := RenderPayslipPDF(slip)
	if err != nil {
		contextutil.GetLogger(ctx, s.logger).Error("render payslip failed",
			zap.String("payroll_id", id),
			zap.String("employee_id", employeeID),
			zap.Error(err),
		)
		return nil, err
	}
	return pdf, nil
}

func (s *service) ListErrors(ctx context.Context, id string) ([]PayrollErrorResponse, error) {
	p, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}
	rows, err := s.repo.ListErrors(ctx, p.ID)
	if err != nil {
		return nil, err
	}
	resp := make([]PayrollErrorResponse, len(rows))
	for i, e := range rows {
		resp[i] = mapErrorResponse(e)
	}
	return resp, nil
}

func (s *service) ResolveError(ctx context.Context, id, errorID string, req ResolveErrorRequest) (PayrollErrorResponse, error) {
	p, err := s.find(ctx, id)
	if err != nil {
		return PayrollErrorResponse{}, err
	}
	errUUID, err := uuid.Parse(errorID)
	if err != nil {
		return PayrollErrorResponse{}, payrollerrors.ErrPayrollErrorNotFound
	}
	row, err := s.repo.FindError(ctx, p.ID, errUUID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return PayrollErrorResponse{}, payrollerrors.ErrPayrollErrorNotFound
		}
		return PayrollErrorResponse{}, err
	}

	row.Resolved = req.Resolved != nil && *req.Resolved
	if row.Resolved {
		now := s.now().UTC()
		row.ResolvedBy = contextutil.GetActorID(ctx)
		row.ResolvedAt = &now
	} else {
		row.ResolvedBy = ""
		row.ResolvedAt = nil
	}
	if err := s.repo.UpdateError(ctx, row); err != nil {
		return PayrollErrorResponse{}, err
	}
	return mapErrorResponse(*row), nil
}

// MarkPosted flags a processed run as exported to the general ledger.
func (s *service) MarkPosted(ctx context.Context, id string) (PayrollResponse, error) {
	p, err := s.find(ctx, id)
	if err != nil {
		return PayrollResponse{}, err
	}
	if p.Status != StatusProcessed {
		return PayrollResponse{}, payrollerrors.ErrNotProcessed
	}
	if p.Posted {
		return PayrollResponse{}, payrollerrors.ErrAlreadyPosted
	}

	now := s.now().UTC()
	p.Posted = true
	p.PostedAt = &now
	if err := s.repo.Update(ctx, p); err != nil {
		return PayrollResponse{}, err
	}
	s.audit.Log(ctx, bootstrap.AuditLog{
		Action:  "PAYROLL_POSTED",
		Message: "payroll " + p.Reference + " posted",
		Meta:    map[string]any{"payroll_id": p.ID.String()},
	})
	return mapToResponse(*p), nil
}

func (s *service) newPayroll(ctx context.Context, req PayrollRequest) (*Payroll, error) {
	rate, err := validateRequest(req)
	if err != nil {
		return nil, err
	}
	return &Payroll{
		ID:          uuid.New(),
		Year:        req.Year,
		Month:       req.Month,
		PaymentRate: rate,
		Filter:      req.Filter,
		ErrorMode:   req.ErrorMode,
		Status:      StatusDraft,
		CreatedBy:   contextutil.GetActorID(ctx),
	}, nil
}

func (s *service) find(ctx context.Context, id string) (*Payroll, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, payrollerrors.ErrInvalidPayrollID
	}
	p, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, payrollerrors.ErrPayrollNotFound
		}
		return nil, err
	}
	return p, nil
}

func (s *service) findDraft(ctx context.Context, id string) (*Payroll, error) {
	p, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}
	if p.Status != StatusDraft {
		return nil, payrollerrors.ErrNotDraft
	}
	return p, nil
}

// validateRequest returns the effective payment rate. Zero means a full month.
func validateRequest(req PayrollRequest) (decimal.Decimal, error) {
	if req.Year < 1 || req.Month < 1 || req.Month > 12 {
		return decimal.Zero, payrollerrors.ErrInvalidPeriod
	}
	if req.ErrorMode != ModeStrict && req.ErrorMode != ModeMute {
		return decimal.Zero, payrollerrors.ErrInvalidErrorMode
	}
	if err := eligibility.Validate(req.Filter, eligibility.ModePayroll); err != nil {
		return decimal.Zero, err
	}
	rate := req.PaymentRate
	if rate.IsZero() {
		rate = hundred
	}
	if rate.LessThan(decimal.NewFromInt(1)) || rate.GreaterThan(hundred) {
		return decimal.Zero, payrollerrors.ErrInvalidPaymentRate
	}
	return rate.Round(2), nil
}

// requireEligible rejects a filter that currently matches nobody, before anything is stored.
func (s *service) requireEligible(ctx context.Context, filter eligibility.FilterSpec) error {
	employees, err := s.resolver.Resolve(ctx, filter)
	if err != nil {
		return err
	}
	if len(employees) == 0 {
		return eligibilityerrors.ErrEmptyEligibleSet
	}
	return nil
}

func truncateDay(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

type noopLock struct{}

func (noopLock) Acquire(context.Context, int, int) (func(), error) {
	return func() {}, nil
}
