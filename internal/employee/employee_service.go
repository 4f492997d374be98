package employee

import (
	"context"

	employeeerrors "go-payroll/internal/employee/errors"
	"go-payroll/internal/shared/contextutil"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Service is the read-only view of the HR directory used by payroll.
//
//go:generate mockgen -source=employee_service.go -destination=mock/employee_service_mock.go -package=mock
type Service interface {
	GetActive(ctx context.Context) ([]EmployeeResponse, error)
	GetByID(ctx context.Context, id string) (EmployeeResponse, error)
}

type service struct {
	repo   Repository
	logger *zap.Logger
}

func NewService(repo Repository, logger ...*zap.Logger) Service {
	l := zap.L().Named("employee.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("employee.service")
	}
	return &service{repo: repo, logger: l}
}

func (s *service) GetActive(ctx context.Context) ([]EmployeeResponse, error) {
	log := contextutil.GetLogger(ctx, s.logger)

	employees, err := s.repo.ActivePopulation(ctx)
	if err != nil {
		log.Error("load active population failed", zap.Error(err))
		return nil, err
	}

	out := make([]EmployeeResponse, len(employees))
	for i, e := range employees {
		out[i] = toResponse(e)
	}
	return out, nil
}

func (s *service) GetByID(ctx context.Context, id string) (EmployeeResponse, error) {
	if _, err := uuid.Parse(id); err != nil {
		return EmployeeResponse{}, employeeerrors.ErrInvalidEmployeeID
	}

	e, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return EmployeeResponse{}, mapRepositoryError(err)
	}
	return toResponse(*e), nil
}
