package eligibility

import (
	"context"
	"database/sql"

	"go-payroll/internal/employee"
	"go-payroll/internal/shared/contextutil"

	"go.uber.org/zap"
)

//go:generate mockgen -source=eligibility_resolver.go -destination=mock/resolver_mock.go -package=mock
type Resolver interface {
	WithTx(tx *sql.Tx) Resolver
	Resolve(ctx context.Context, spec FilterSpec) ([]employee.Employee, error)
}

type resolver struct {
	employees employee.Repository
	logger    *zap.Logger
}

func NewResolver(employees employee.Repository, logger ...*zap.Logger) Resolver {
	l := zap.L().Named("eligibility.resolver")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("eligibility.resolver")
	}
	return &resolver{employees: employees, logger: l}
}

// WithTx reads the population inside tx, so a payroll run sees the same snapshot
// as the rest of its reads.
func (r *resolver) WithTx(tx *sql.Tx) Resolver {
	return &resolver{employees: r.employees.WithTx(tx), logger: r.logger}
}

// Resolve loads the active population and applies spec. An empty result is not an error here.
func (r *resolver) Resolve(ctx context.Context, spec FilterSpec) ([]employee.Employee, error) {
	log := contextutil.GetLogger(ctx, r.logger)

	population, err := r.employees.ActivePopulation(ctx)
	if err != nil {
		log.Error("load active population failed", zap.Error(err))
		return nil, err
	}

	matched := Match(population, spec)
	log.Debug("eligibility resolved",
		zap.Int("population", len(population)),
		zap.Int("matched", len(matched)),
	)
	return matched, nil
}
