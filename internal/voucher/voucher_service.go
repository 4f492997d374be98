package voucher

import (
	"context"
	"errors"

	"go-payroll/internal/employee"
	"go-payroll/internal/payroll"
	payrollerrors "go-payroll/internal/payroll/errors"
	"go-payroll/internal/shared/contextutil"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

//go:generate mockgen -source=voucher_service.go -destination=mock/voucher_service_mock.go -package=mock
type Service interface {
	BankSummary(ctx context.Context, payrollID string) (ReportResponse, error)
	ExportXLSX(ctx context.Context, payrollID string) ([]byte, string, error)
}

type service struct {
	payrolls  payroll.Repository
	employees employee.Repository
	logger    *zap.Logger
}

func NewService(payrolls payroll.Repository, employees employee.Repository, logger ...*zap.Logger) Service {
	l := zap.L().Named("voucher.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("voucher.service")
	}
	return &service{payrolls: payrolls, employees: employees, logger: l}
}

func (s *service) BankSummary(ctx context.Context, payrollID string) (ReportResponse, error) {
	p, report, err := s.build(ctx, payrollID)
	if err != nil {
		return ReportResponse{}, err
	}
	return toReportResponse(p, report), nil
}

func (s *service) ExportXLSX(ctx context.Context, payrollID string) ([]byte, string, error) {
	p, report, err := s.build(ctx, payrollID)
	if err != nil {
		return nil, "", err
	}
	body, err := renderWorkbook(p, report)
	if err != nil {
		contextutil.GetLogger(ctx, s.logger).Error("render voucher workbook failed",
			zap.String("payroll_id", payrollID),
			zap.Error(err),
		)
		return nil, "", err
	}
	return body, exportFilename(p), nil
}

func (s *service) build(ctx context.Context, payrollID string) (*payroll.Payroll, Report, error) {
	log := contextutil.GetLogger(ctx, s.logger)

	if _, err := uuid.Parse(payrollID); err != nil {
		return nil, Report{}, payrollerrors.ErrInvalidPayrollID
	}
	p, err := s.payrolls.FindByID(ctx, payrollID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, Report{}, payrollerrors.ErrPayrollNotFound
		}
		return nil, Report{}, err
	}
	if p.Status != payroll.StatusProcessed {
		return nil, Report{}, payrollerrors.ErrNotProcessed
	}

	items, err := s.payrolls.ListItems(ctx, p.ID)
	if err != nil {
		log.Error("load payroll items failed", zap.String("payroll_id", payrollID), zap.Error(err))
		return nil, Report{}, err
	}
	banks, err := s.employees.FindBanks(ctx)
	if err != nil {
		log.Error("load banks failed", zap.Error(err))
		return nil, Report{}, err
	}
	names := make(map[uuid.UUID]string, len(banks))
	for _, b := range banks {
		names[b.ID] = b.Name
	}

	report := Summarize(items, names)
	if report.BalancedCount != len(report.Banks) {
		log.Warn("voucher banks do not reconcile",
			zap.String("payroll_id", payrollID),
			zap.Int("banks", len(report.Banks)),
			zap.Int("balanced", report.BalancedCount),
		)
	}
	return p, report, nil
}

func toReportResponse(p *payroll.Payroll, report Report) ReportResponse {
	banks := make([]BankSummaryResponse, len(report.Banks))
	for i, b := range report.Banks {
		banks[i] = toBankResponse(b)
	}
	return ReportResponse{
		PayrollID:     p.ID.String(),
		Reference:     p.Reference,
		Year:          p.Year,
		Month:         p.Month,
		Posted:        p.Posted,
		BankCount:     len(report.Banks),
		BalancedCount: report.BalancedCount,
		TotalNet:      report.TotalNet.StringFixed(2),
		Banks:         banks,
	}
}
