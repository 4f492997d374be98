package salaryitem

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"go-payroll/internal/eligibility"
	eligibilityerrors "go-payroll/internal/eligibility/errors"
	"go-payroll/internal/employee"
	salaryitemerrors "go-payroll/internal/salaryitem/errors"
	"go-payroll/internal/shared/contextutil"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

//go:generate mockgen -source=salary_item_service.go -destination=mock/salary_item_service_mock.go -package=mock
type Service interface {
	Create(ctx context.Context, req SalaryItemRequest) (SalaryItemResponse, error)
	Update(ctx context.Context, id string, req SalaryItemRequest) (SalaryItemResponse, error)
	Delete(ctx context.Context, id string) error
	GetByID(ctx context.Context, id string) (SalaryItemResponse, error)
	GetAll(ctx context.Context) ([]SalaryItemResponse, error)
	ListStaff(ctx context.Context, id string) ([]StaffSalaryItemResponse, error)
	SetVariable(ctx context.Context, id, employeeID string, req SetVariableRequest) (StaffSalaryItemResponse, error)
	Resync(ctx context.Context, id string) (ResyncResult, error)
	ResyncAll(ctx context.Context) ([]ResyncResult, error)
}

type service struct {
	db        *sql.DB
	repo      Repository
	employees employee.Repository
	resolver  eligibility.Resolver
	logger    *zap.Logger
}

func NewService(
	db *sql.DB,
	repo Repository,
	employees employee.Repository,
	resolver eligibility.Resolver,
	logger ...*zap.Logger,
) Service {
	l := zap.L().Named("salaryitem.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("salaryitem.service")
	}
	return &service{
		db:        db,
		repo:      repo,
		employees: employees,
		resolver:  resolver,
		logger:    l,
	}
}

func basicOf(e employee.Employee) decimal.Decimal {
	basic, _ := e.BasicSalary()
	return basic
}

func staffEmployeeIDs(rows []StaffSalaryItem) []uuid.UUID {
	ids := make([]uuid.UUID, len(rows))
	for i, r := range rows {
		ids[i] = r.EmployeeID
	}
	return ids
}

func parseID(id string) (uuid.UUID, error) {
	parsed, err := uuid.Parse(id)
	if err != nil {
		return uuid.Nil, salaryitemerrors.ErrInvalidSalaryItemID
	}
	return parsed, nil
}

// applyRequest copies req onto item and loads the factor dependency, if any.
func (s *service) applyRequest(ctx context.Context, item *SalaryItem, req SalaryItemRequest) (*SalaryItem, error) {
	switch req.Effect {
	case EffectAddition, EffectDeduction:
	default:
		return nil, salaryitemerrors.ErrInvalidEffect
	}
	switch req.RateType {
	case RateFixed, RateFactor, RateVariable:
	default:
		return nil, salaryitemerrors.ErrInvalidRateType
	}
	if req.RateAmount.IsNegative() {
		return nil, salaryitemerrors.ErrNegativeRate
	}
	if err := eligibility.Validate(req.Filter, eligibility.ModeSalaryItem); err != nil {
		return nil, err
	}

	item.Name = strings.TrimSpace(req.Name)
	item.Effect = req.Effect
	item.RateType = req.RateType
	item.RateAmount = req.RateAmount
	item.Filter = req.Filter
	item.ExpiresOn = nil
	item.RateDependency = ""

	if req.ExpiresOn != "" {
		expires, err := time.Parse("2006-01-02", req.ExpiresOn)
		if err != nil {
			return nil, salaryitemerrors.ErrInvalidExpiry
		}
		item.ExpiresOn = &expires
	}

	if req.RateType != RateFactor {
		return nil, nil
	}

	dep := strings.TrimSpace(req.RateDependency)
	if dep == "" {
		return nil, salaryitemerrors.ErrDependencyRequired
	}
	if strings.EqualFold(dep, DependencyBasic) {
		item.RateDependency = DependencyBasic
		return nil, nil
	}

	depID, err := uuid.Parse(dep)
	if err != nil {
		return nil, salaryitemerrors.ErrDependencyNotFound
	}
	if depID == item.ID {
		return nil, salaryitemerrors.ErrSelfDependency
	}
	dependency, err := s.repo.FindByID(ctx, depID.String())
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, salaryitemerrors.ErrDependencyNotFound
		}
		return nil, err
	}
	item.RateDependency = depID.String()
	return dependency, nil
}

func (s *service) loadDependency(ctx context.Context, item SalaryItem) (*SalaryItem, error) {
	if item.RateType != RateFactor || item.RateDependency == DependencyBasic {
		return nil, nil
	}
	dependency, err := s.repo.FindByID(ctx, item.RateDependency)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, salaryitemerrors.ErrDependencyNotFound
		}
		return nil, err
	}
	return dependency, nil
}

func newStaffRows(item SalaryItem, dependency *SalaryItem, employees []employee.Employee) ([]StaffSalaryItem, error) {
	rows := make([]StaffSalaryItem, 0, len(employees))
	for _, e := range employees {
		amount, err := ResolveAmount(item, basicOf(e), dependency, decimal.NullDecimal{})
		if err != nil {
			return nil, err
		}
		rows = append(rows, StaffSalaryItem{
			ID:           uuid.New(),
			SalaryItemID: item.ID,
			EmployeeID:   e.ID,
			Amount:       amount,
		})
	}
	return rows, nil
}

func (s *service) Create(ctx context.Context, req SalaryItemRequest) (SalaryItemResponse, error) {
	log := contextutil.GetLogger(ctx, s.logger)

	item := SalaryItem{ID: uuid.New()}
	dependency, err := s.applyRequest(ctx, &item, req)
	if err != nil {
		return SalaryItemResponse{}, err
	}

	eligible, err := s.resolver.Resolve(ctx, item.Filter)
	if err != nil {
		return SalaryItemResponse{}, err
	}
	if len(eligible) == 0 {
		log.Warn("create salary item rejected, empty eligible set", zap.String("name", item.Name))
		return SalaryItemResponse{}, eligibilityerrors.ErrEmptyEligibleSet
	}
	item.EligibleEmployeeCount = len(eligible)

	rows, err := newStaffRows(item, dependency, eligible)
	if err != nil {
		return SalaryItemResponse{}, err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		log.Error("create salary item begin tx failed", zap.Error(err))
		return SalaryItemResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)
	if err := qtx.Create(ctx, &item); err != nil {
		log.Error("create salary item persist failed", zap.Error(err))
		return SalaryItemResponse{}, mapRepositoryError(err)
	}
	if err := qtx.CreateStaff(ctx, rows); err != nil {
		log.Error("create staff salary items failed", zap.String("salary_item_id", item.ID.String()), zap.Error(err))
		return SalaryItemResponse{}, mapRepositoryError(err)
	}

	if err := tx.Commit(); err != nil {
		log.Error("create salary item commit failed", zap.Error(err))
		return SalaryItemResponse{}, err
	}

	log.Info("salary item created",
		zap.String("salary_item_id", item.ID.String()),
		zap.Int("eligible", item.EligibleEmployeeCount),
	)
	return toResponse(item), nil
}

// Update recomputes existing assignments when the rate changes, then adds and
// removes assignments to match the new eligible set.
func (s *service) Update(ctx context.Context, id string, req SalaryItemRequest) (SalaryItemResponse, error) {
	log := contextutil.GetLogger(ctx, s.logger)

	itemID, err := parseID(id)
	if err != nil {
		return SalaryItemResponse{}, err
	}
	current, err := s.repo.FindByID(ctx, itemID.String())
	if err != nil {
		return SalaryItemResponse{}, mapRepositoryError(err)
	}

	updated := *current
	dependency, err := s.applyRequest(ctx, &updated, req)
	if err != nil {
		return SalaryItemResponse{}, err
	}

	eligible, err := s.resolver.Resolve(ctx, updated.Filter)
	if err != nil {
		return SalaryItemResponse{}, err
	}
	if len(eligible) == 0 {
		log.Warn("update salary item rejected, empty eligible set", zap.String("salary_item_id", id))
		return SalaryItemResponse{}, eligibilityerrors.ErrEmptyEligibleSet
	}
	updated.EligibleEmployeeCount = len(eligible)

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		log.Error("update salary item begin tx failed", zap.Error(err))
		return SalaryItemResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)
	existing, err := qtx.ListStaff(ctx, current.ID)
	if err != nil {
		return SalaryItemResponse{}, err
	}

	if current.rateSignature() != updated.rateSignature() && len(existing) > 0 {
		if err := s.recomputeRows(ctx, qtx, updated, dependency, existing); err != nil {
			log.Error("recompute staff salary items failed", zap.String("salary_item_id", id), zap.Error(err))
			return SalaryItemResponse{}, err
		}
	}

	added, removed, _ := eligibility.Diff(staffEmployeeIDs(existing), eligibility.IDs(eligible))
	if err := s.applyMembership(ctx, qtx, updated, dependency, eligible, added, removed); err != nil {
		log.Error("sync staff salary items failed", zap.String("salary_item_id", id), zap.Error(err))
		return SalaryItemResponse{}, err
	}

	if err := qtx.Update(ctx, &updated); err != nil {
		log.Error("update salary item persist failed", zap.Error(err))
		return SalaryItemResponse{}, mapRepositoryError(err)
	}

	if err := tx.Commit(); err != nil {
		log.Error("update salary item commit failed", zap.Error(err))
		return SalaryItemResponse{}, err
	}

	log.Info("salary item updated",
		zap.String("salary_item_id", id),
		zap.Int("added", len(added)),
		zap.Int("removed", len(removed)),
	)
	return toResponse(updated), nil
}

// recomputeRows re-prices assignments. Moving away from variable clears the multiplier.
func (s *service) recomputeRows(ctx context.Context, qtx Repository, item SalaryItem, dependency *SalaryItem, rows []StaffSalaryItem) error {
	staff, err := s.employees.FindByIDs(ctx, staffEmployeeIDs(rows))
	if err != nil {
		return err
	}
	basics := make(map[uuid.UUID]decimal.Decimal, len(staff))
	for _, e := range staff {
		basics[e.ID] = basicOf(e)
	}

	for i := range rows {
		row := rows[i]
		if item.RateType != RateVariable {
			row.Variable = decimal.NullDecimal{}
		}
		amount, err := ResolveAmount(item, basics[row.EmployeeID], dependency, row.Variable)
		if err != nil {
			return err
		}
		row.Amount = amount
		if err := qtx.UpdateStaff(ctx, &row); err != nil {
			return err
		}
	}
	return nil
}

func (s *service) applyMembership(
	ctx context.Context,
	qtx Repository,
	item SalaryItem,
	dependency *SalaryItem,
	eligible []employee.Employee,
	added, removed []uuid.UUID,
) error {
	if len(added) > 0 {
		byID := make(map[uuid.UUID]employee.Employee, len(eligible))
		for _, e := range eligible {
			byID[e.ID] = e
		}
		newcomers := make([]employee.Employee, 0, len(added))
		for _, id := range added {
			newcomers = append(newcomers, byID[id])
		}
		rows, err := newStaffRows(item, dependency, newcomers)
		if err != nil {
			return err
		}
		if err := qtx.CreateStaff(ctx, rows); err != nil {
			return mapRepositoryError(err)
		}
	}
	if len(removed) > 0 {
		if err := qtx.DeleteStaff(ctx, item.ID, removed); err != nil {
			return err
		}
	}
	return nil
}

func (s *service) Delete(ctx context.Context, id string) error {
	log := contextutil.GetLogger(ctx, s.logger)

	itemID, err := parseID(id)
	if err != nil {
		return err
	}
	if _, err := s.repo.FindByID(ctx, itemID.String()); err != nil {
		return mapRepositoryError(err)
	}

	dependents, err := s.repo.CountDependents(ctx, itemID)
	if err != nil {
		return err
	}
	if dependents > 0 {
		return salaryitemerrors.ErrSalaryItemInUse
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		log.Error("delete salary item begin tx failed", zap.Error(err))
		return err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)
	if err := qtx.DeleteStaff(ctx, itemID, nil); err != nil {
		return mapRepositoryError(err)
	}
	if err := qtx.Delete(ctx, itemID); err != nil {
		log.Error("delete salary item failed", zap.String("salary_item_id", id), zap.Error(err))
		return mapRepositoryError(err)
	}

	if err := tx.Commit(); err != nil {
		log.Error("delete salary item commit failed", zap.Error(err))
		return err
	}

	log.Info("salary item deleted", zap.String("salary_item_id", id))
	return nil
}

func (s *service) GetByID(ctx context.Context, id string) (SalaryItemResponse, error) {
	itemID, err := parseID(id)
	if err != nil {
		return SalaryItemResponse{}, err
	}
	item, err := s.repo.FindByID(ctx, itemID.String())
	if err != nil {
		return SalaryItemResponse{}, mapRepositoryError(err)
	}
	return toResponse(*item), nil
}

func (s *service) GetAll(ctx context.Context) ([]SalaryItemResponse, error) {
	items, err := s.repo.FindAll(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]SalaryItemResponse, len(items))
	for i, item := range items {
		out[i] = toResponse(item)
	}
	return out, nil
}

func (s *service) ListStaff(ctx context.Context, id string) ([]StaffSalaryItemResponse, error) {
	itemID, err := parseID(id)
	if err != nil {
		return nil, err
	}
	rows, err := s.repo.ListStaff(ctx, itemID)
	if err != nil {
		return nil, err
	}
	out := make([]StaffSalaryItemResponse, len(rows))
	for i, r := range rows {
		out[i] = toStaffResponse(r)
	}
	return out, nil
}

func (s *service) SetVariable(ctx context.Context, id, employeeID string, req SetVariableRequest) (StaffSalaryItemResponse, error) {
	log := contextutil.GetLogger(ctx, s.logger)

	itemID, err := parseID(id)
	if err != nil {
		return StaffSalaryItemResponse{}, err
	}
	empID, err := uuid.Parse(employeeID)
	if err != nil {
		return StaffSalaryItemResponse{}, salaryitemerrors.ErrStaffSalaryItemNotFound
	}
	if req.Multiplier.IsNegative() {
		return StaffSalaryItemResponse{}, salaryitemerrors.ErrNegativeMultiplier
	}

	item, err := s.repo.FindByID(ctx, itemID.String())
	if err != nil {
		return StaffSalaryItemResponse{}, mapRepositoryError(err)
	}
	if item.RateType != RateVariable {
		return StaffSalaryItemResponse{}, salaryitemerrors.ErrNotVariable
	}

	row, err := s.repo.FindStaff(ctx, itemID, empID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return StaffSalaryItemResponse{}, salaryitemerrors.ErrStaffSalaryItemNotFound
		}
		return StaffSalaryItemResponse{}, err
	}

	row.Variable = decimal.NewNullDecimal(req.Multiplier)
	row.Amount, err = ResolveAmount(*item, decimal.Zero, nil, row.Variable)
	if err != nil {
		return StaffSalaryItemResponse{}, err
	}
	if err := s.repo.UpdateStaff(ctx, row); err != nil {
		log.Error("set variable multiplier failed", zap.String("salary_item_id", id), zap.Error(err))
		return StaffSalaryItemResponse{}, err
	}

	return toStaffResponse(*row), nil
}

// Resync re-applies the stored filter to the current population and re-prices kept rows.
func (s *service) Resync(ctx context.Context, id string) (ResyncResult, error) {
	log := contextutil.GetLogger(ctx, s.logger)

	itemID, err := parseID(id)
	if err != nil {
		return ResyncResult{}, err
	}
	item, err := s.repo.FindByID(ctx, itemID.String())
	if err != nil {
		return ResyncResult{}, mapRepositoryError(err)
	}
	dependency, err := s.loadDependency(ctx, *item)
	if err != nil {
		return ResyncResult{}, err
	}

	eligible, err := s.resolver.Resolve(ctx, item.Filter)
	if err != nil {
		return ResyncResult{}, err
	}
	if len(eligible) == 0 {
		log.Warn("salary item no longer matches any employee", zap.String("salary_item_id", id))
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return ResyncResult{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)
	existing, err := qtx.ListStaff(ctx, item.ID)
	if err != nil {
		return ResyncResult{}, err
	}

	added, removed, kept := eligibility.Diff(staffEmployeeIDs(existing), eligibility.IDs(eligible))

	keptSet := make(map[uuid.UUID]struct{}, len(kept))
	for _, k := range kept {
		keptSet[k] = struct{}{}
	}
	keptRows := make([]StaffSalaryItem, 0, len(kept))
	for _, r := range existing {
		if _, ok := keptSet[r.EmployeeID]; ok {
			keptRows = append(keptRows, r)
		}
	}
	if err := s.repriceKept(ctx, qtx, *item, dependency, eligible, keptRows); err != nil {
		return ResyncResult{}, err
	}

	if err := s.applyMembership(ctx, qtx, *item, dependency, eligible, added, removed); err != nil {
		return ResyncResult{}, err
	}

	item.EligibleEmployeeCount = len(eligible)
	if err := qtx.Update(ctx, item); err != nil {
		return ResyncResult{}, mapRepositoryError(err)
	}

	if err := tx.Commit(); err != nil {
		log.Error("resync salary item commit failed", zap.Error(err))
		return ResyncResult{}, err
	}

	return ResyncResult{
		SalaryItemID: id,
		Added:        len(added),
		Removed:      len(removed),
		Eligible:     len(eligible),
	}, nil
}

// repriceKept updates kept rows whose amount drifted, e.g. after a grade change.
func (s *service) repriceKept(
	ctx context.Context,
	qtx Repository,
	item SalaryItem,
	dependency *SalaryItem,
	eligible []employee.Employee,
	rows []StaffSalaryItem,
) error {
	basics := make(map[uuid.UUID]decimal.Decimal, len(eligible))
	for _, e := range eligible {
		basics[e.ID] = basicOf(e)
	}
	for i := range rows {
		row := rows[i]
		amount, err := ResolveAmount(item, basics[row.EmployeeID], dependency, row.Variable)
		if err != nil {
			return err
		}
		if amount.Equal(row.Amount) {
			continue
		}
		row.Amount = amount
		if err := qtx.UpdateStaff(ctx, &row); err != nil {
			return err
		}
	}
	return nil
}

func (s *service) ResyncAll(ctx context.Context) ([]ResyncResult, error) {
	log := contextutil.GetLogger(ctx, s.logger)

	items, err := s.repo.FindAll(ctx)
	if err != nil {
		return nil, err
	}

	results := make([]ResyncResult, 0, len(items))
	var errs []error
	for _, item := range items {
		res, err := s.Resync(ctx, item.ID.String())
		if err != nil {
			log.Error("resync salary item failed", zap.String("salary_item_id", item.ID.String()), zap.Error(err))
			errs = append(errs, err)
			continue
		}
		results = append(results, res)
	}
	return results, errors.Join(errs...)
}
