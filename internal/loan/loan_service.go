package loan

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"go-payroll/internal/employee"
	"go-payroll/internal/events"
	loanerrors "go-payroll/internal/loan/errors"
	"go-payroll/internal/messaging/kafka"
	"go-payroll/internal/shared/contextutil"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

//go:generate mockgen -source=loan_service.go -destination=mock/loan_service_mock.go -package=mock
type Service interface {
	Create(ctx context.Context, req LoanRequest) (LoanResponse, error)
	Update(ctx context.Context, id string, req LoanRequest) (LoanResponse, error)
	Approve(ctx context.Context, id string) (LoanResponse, error)
	Reject(ctx context.Context, id string) (LoanResponse, error)
	Activate(ctx context.Context, id string, req ActivateRequest) (LoanResponse, error)
	Repay(ctx context.Context, id string, req RepaymentRequest) (LoanResponse, error)
	GetByID(ctx context.Context, id string) (LoanResponse, error)
	GetAll(ctx context.Context, filter ListFilter) ([]LoanResponse, int64, error)
	GetTypes(ctx context.Context) ([]LoanTypeResponse, error)
	ListRepayments(ctx context.Context, id string) ([]RepaymentResponse, error)
	MarkDefaulted(ctx context.Context) (int64, error)
}

type service struct {
	db        *sql.DB
	repo      Repository
	employees employee.Repository
	outbox    kafka.OutboxRepository
	now       func() time.Time
	logger    *zap.Logger
}

type Option func(*service)

func WithClock(now func() time.Time) Option {
	return func(s *service) { s.now = now }
}

func WithLogger(l *zap.Logger) Option {
	return func(s *service) {
		if l != nil {
			s.logger = l.Named("loan.service")
		}
	}
}

func NewService(
	db *sql.DB,
	repo Repository,
	employees employee.Repository,
	outbox kafka.OutboxRepository,
	opts ...Option,
) Service {
	s := &service{
		db:        db,
		repo:      repo,
		employees: employees,
		outbox:    outbox,
		now:       time.Now,
		logger:    zap.L().Named("loan.service"),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func parseID(id string) (uuid.UUID, error) {
	parsed, err := uuid.Parse(id)
	if err != nil {
		return uuid.Nil, loanerrors.ErrInvalidLoanID
	}
	return parsed, nil
}

func parseDate(value string, fallback time.Time) (time.Time, error) {
	if strings.TrimSpace(value) == "" {
		return truncateDay(fallback), nil
	}
	t, err := time.Parse("2006-01-02", value)
	if err != nil {
		return time.Time{}, loanerrors.ErrInvalidDate
	}
	return t, nil
}

// applyRequest validates terms and copies them onto loan.
func (s *service) applyRequest(ctx context.Context, loan *Loan, req LoanRequest) error {
	if !req.Principal.IsPositive() {
		return loanerrors.ErrInvalidPrincipal
	}
	if req.InterestRate.IsNegative() || req.InterestRate.GreaterThan(hundred) {
		return loanerrors.ErrInvalidInterestRate
	}
	if req.DurationMonths < 1 {
		return loanerrors.ErrInvalidDuration
	}

	employeeID, err := uuid.Parse(req.EmployeeID)
	if err != nil {
		return loanerrors.ErrEmployeeNotFound
	}
	if _, err := s.employees.FindByID(ctx, employeeID.String()); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return loanerrors.ErrEmployeeNotFound
		}
		return err
	}

	typeID, err := uuid.Parse(req.LoanTypeID)
	if err != nil {
		return loanerrors.ErrLoanTypeNotFound
	}
	loanType, err := s.repo.FindType(ctx, typeID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return loanerrors.ErrLoanTypeNotFound
		}
		return err
	}
	if loanType.SalaryAdvance && !req.InterestRate.IsZero() {
		return loanerrors.ErrSalaryAdvanceInterest
	}

	loan.EmployeeID = employeeID
	loan.LoanTypeID = typeID
	loan.LoanType = loanType
	loan.Principal = req.Principal.Round(2)
	loan.InterestRate = req.InterestRate.Round(2)
	loan.DurationMonths = req.DurationMonths
	loan.Purpose = strings.TrimSpace(req.Purpose)
	return nil
}

func (s *service) Create(ctx context.Context, req LoanRequest) (LoanResponse, error) {
	log := contextutil.GetLogger(ctx, s.logger)

	loan := Loan{ID: uuid.New(), Status: StatusPending}
	if err := s.applyRequest(ctx, &loan, req); err != nil {
		return LoanResponse{}, err
	}
	if err := loan.Recalculate(); err != nil {
		return LoanResponse{}, err
	}

	if err := s.repo.Create(ctx, &loan); err != nil {
		log.Error("create loan failed", zap.String("employee_id", req.EmployeeID), zap.Error(err))
		return LoanResponse{}, mapRepositoryError(err)
	}

	log.Info("loan created",
		zap.String("loan_id", loan.ID.String()),
		zap.String("employee_id", loan.EmployeeID.String()),
		zap.String("total", loan.TotalRepayableAmount.StringFixed(2)),
	)
	return toResponse(loan), nil
}

func (s *service) Update(ctx context.Context, id string, req LoanRequest) (LoanResponse, error) {
	log := contextutil.GetLogger(ctx, s.logger)

	loan, err := s.find(ctx, id)
	if err != nil {
		return LoanResponse{}, err
	}
	if loan.Status != StatusPending {
		return LoanResponse{}, loanerrors.ErrInvalidTransition
	}
	if err := s.applyRequest(ctx, loan, req); err != nil {
		return LoanResponse{}, err
	}

	if err := s.repo.Save(ctx, loan, true); err != nil {
		log.Error("update loan failed", zap.String("loan_id", id), zap.Error(err))
		return LoanResponse{}, mapRepositoryError(err)
	}
	return toResponse(*loan), nil
}

func (s *service) find(ctx context.Context, id string) (*Loan, error) {
	loanID, err := parseID(id)
	if err != nil {
		return nil, err
	}
	loan, err := s.repo.FindByID(ctx, loanID.String())
	if err != nil {
		return nil, mapRepositoryError(err)
	}
	return loan, nil
}

func (s *service) transition(ctx context.Context, id string, from Status, apply func(*Loan)) (LoanResponse, error) {
	log := contextutil.GetLogger(ctx, s.logger)

	loan, err := s.find(ctx, id)
	if err != nil {
		return LoanResponse{}, err
	}
	if loan.Status != from {
		log.Warn("loan transition rejected",
			zap.String("loan_id", id),
			zap.String("status", string(loan.Status)),
		)
		return LoanResponse{}, loanerrors.ErrInvalidTransition
	}
	apply(loan)

	if err := s.repo.Save(ctx, loan, false); err != nil {
		log.Error("save loan transition failed", zap.String("loan_id", id), zap.Error(err))
		return LoanResponse{}, mapRepositoryError(err)
	}
	log.Info("loan status changed", zap.String("loan_id", id), zap.String("status", string(loan.Status)))
	return toResponse(*loan), nil
}

func (s *service) Approve(ctx context.Context, id string) (LoanResponse, error) {
	return s.transition(ctx, id, StatusPending, func(l *Loan) { l.Status = StatusApproved })
}

func (s *service) Reject(ctx context.Context, id string) (LoanResponse, error) {
	return s.transition(ctx, id, StatusPending, func(l *Loan) { l.Status = StatusRejected })
}

func (s *service) Activate(ctx context.Context, id string, req ActivateRequest) (LoanResponse, error) {
	activeOn, err := parseDate(req.ActiveOn, s.now())
	if err != nil {
		return LoanResponse{}, err
	}
	return s.transition(ctx, id, StatusApproved, func(l *Loan) { l.Activate(activeOn) })
}

// Repay records a manual repayment. The balance is never recalculated from
// principal here, otherwise prior repayments would be lost.
func (s *service) Repay(ctx context.Context, id string, req RepaymentRequest) (LoanResponse, error) {
	log := contextutil.GetLogger(ctx, s.logger)

	if !req.Amount.IsPositive() {
		return LoanResponse{}, loanerrors.ErrInvalidRepayment
	}
	today := s.now()
	paidOn, err := parseDate(req.PaidOn, today)
	if err != nil {
		return LoanResponse{}, err
	}
	loanID, err := parseID(id)
	if err != nil {
		return LoanResponse{}, err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		log.Error("repay loan begin tx failed", zap.Error(err))
		return LoanResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)
	loan, err := qtx.FindByIDForUpdate(ctx, loanID.String())
	if err != nil {
		return LoanResponse{}, mapRepositoryError(err)
	}
	if loan.Status != StatusActive && loan.Status != StatusDefaulted {
		return LoanResponse{}, loanerrors.ErrInvalidTransition
	}

	amount := req.Amount.Round(2)
	loan.ApplyRepayment(amount, today)
	if err := qtx.Save(ctx, loan, false); err != nil {
		log.Error("repay loan save failed", zap.String("loan_id", id), zap.Error(err))
		return LoanResponse{}, mapRepositoryError(err)
	}

	repayment := LoanRepayment{
		ID:         uuid.New(),
		LoanID:     loan.ID,
		AmountPaid: amount,
		PaidOn:     paidOn,
		Reference:  strings.TrimSpace(req.Reference),
	}
	if err := qtx.CreateRepayment(ctx, &repayment); err != nil {
		log.Error("create loan repayment failed", zap.String("loan_id", id), zap.Error(err))
		return LoanResponse{}, err
	}

	if s.outbox != nil {
		requestID := contextutil.GetRequestID(ctx)
		event, err := kafka.NewOutboxEvent(
			requestID,
			"loan",
			loan.ID.String(),
			"loan.repaid",
			events.LoanRepaidTopic,
			events.LoanRepaidEvent{
				EventType:          "loan.repaid",
				RequestID:          requestID,
				LoanID:             loan.ID.String(),
				EmployeeID:         loan.EmployeeID.String(),
				AmountPaid:         amount.StringFixed(2),
				OutstandingBalance: loan.OutstandingBalance.StringFixed(2),
				Status:             string(loan.Status),
				OccurredAt:         today.UTC(),
			},
		)
		if err != nil {
			return LoanResponse{}, err
		}
		if err := s.outbox.WithTx(tx).Create(ctx, event); err != nil {
			log.Error("enqueue loan repaid event failed", zap.String("loan_id", id), zap.Error(err))
			return LoanResponse{}, err
		}
	}

	if err := tx.Commit(); err != nil {
		log.Error("repay loan commit failed", zap.Error(err))
		return LoanResponse{}, err
	}

	log.Info("loan repayment recorded",
		zap.String("loan_id", id),
		zap.String("amount", amount.StringFixed(2)),
		zap.String("balance", loan.OutstandingBalance.StringFixed(2)),
	)
	return toResponse(*loan), nil
}

func (s *service) GetByID(ctx context.Context, id string) (LoanResponse, error) {
	loan, err := s.find(ctx, id)
	if err != nil {
		return LoanResponse{}, err
	}
	return toResponse(*loan), nil
}

func (s *service) GetAll(ctx context.Context, filter ListFilter) ([]LoanResponse, int64, error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.Limit < 1 {
		filter.Limit = 20
	}
	loans, total, err := s.repo.FindAll(ctx, filter)
	if err != nil {
		return nil, 0, err
	}
	resp := make([]LoanResponse, len(loans))
	for i, l := range loans {
		resp[i] = toResponse(l)
	}
	return resp, total, nil
}

func (s *service) GetTypes(ctx context.Context) ([]LoanTypeResponse, error) {
	types, err := s.repo.FindTypes(ctx)
	if err != nil {
		return nil, err
	}
	resp := make([]LoanTypeResponse, len(types))
	for i, t := range types {
		resp[i] = LoanTypeResponse{ID: t.ID.String(), Name: t.Name, SalaryAdvance: t.SalaryAdvance}
	}
	return resp, nil
}

func (s *service) ListRepayments(ctx context.Context, id string) ([]RepaymentResponse, error) {
	loan, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}
	rows, err := s.repo.ListRepayments(ctx, loan.ID)
	if err != nil {
		return nil, err
	}
	resp := make([]RepaymentResponse, len(rows))
	for i, r := range rows {
		resp[i] = toRepaymentResponse(r)
	}
	return resp, nil
}

// MarkDefaulted is run by the worker sweep.
func (s *service) MarkDefaulted(ctx context.Context) (int64, error) {
	log := contextutil.GetLogger(ctx, s.logger)

	n, err := s.repo.MarkDefaulted(ctx, s.now())
	if err != nil {
		log.Error("mark defaulted loans failed", zap.Error(err))
		return 0, err
	}
	if n > 0 {
		log.Info("loans marked defaulted", zap.Int64("count", n))
	}
	return n, nil
}

