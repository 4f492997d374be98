package creditunion

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	creditunionerrors "go-payroll/internal/creditunion/errors"
	"go-payroll/internal/eligibility"
	eligibilityerrors "go-payroll/internal/eligibility/errors"
	"go-payroll/internal/shared/contextutil"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

//go:generate mockgen -source=credit_union_service.go -destination=mock/credit_union_service_mock.go -package=mock
type Service interface {
	Create(ctx context.Context, req CreditUnionRequest) (CreditUnionResponse, error)
	Update(ctx context.Context, id string, req CreditUnionRequest) (CreditUnionResponse, error)
	Delete(ctx context.Context, id string) error
	GetByID(ctx context.Context, id string) (CreditUnionResponse, error)
	GetAll(ctx context.Context) ([]CreditUnionResponse, error)
	ListMembers(ctx context.Context, id string) ([]MemberResponse, error)
	UpdateMember(ctx context.Context, id, employeeID string, req MemberRequest) (MemberResponse, error)
	Resync(ctx context.Context, id string) (ResyncResult, error)
	ResyncAll(ctx context.Context) ([]ResyncResult, error)
}

type service struct {
	db       *sql.DB
	repo     Repository
	resolver eligibility.Resolver
	logger   *zap.Logger
}

func NewService(db *sql.DB, repo Repository, resolver eligibility.Resolver, logger ...*zap.Logger) Service {
	l := zap.L().Named("creditunion.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("creditunion.service")
	}
	return &service{
		db:       db,
		repo:     repo,
		resolver: resolver,
		logger:   l,
	}
}

func parseID(id string) (uuid.UUID, error) {
	parsed, err := uuid.Parse(id)
	if err != nil {
		return uuid.Nil, creditunionerrors.ErrInvalidCreditUnionID
	}
	return parsed, nil
}

// parseWindow parses a start date and optional end date.
func parseWindow(start, end string) (time.Time, *time.Time, error) {
	startDate, err := time.Parse("2006-01-02", start)
	if err != nil {
		return time.Time{}, nil, creditunionerrors.ErrInvalidDate
	}
	if strings.TrimSpace(end) == "" {
		return startDate, nil, nil
	}
	endDate, err := time.Parse("2006-01-02", end)
	if err != nil {
		return time.Time{}, nil, creditunionerrors.ErrInvalidDate
	}
	if endDate.Before(startDate) {
		return time.Time{}, nil, creditunionerrors.ErrEndBeforeStart
	}
	return startDate, &endDate, nil
}

func sameDate(a, b *time.Time) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return a.Equal(*b)
}

func (s *service) applyRequest(cu *CreditUnion, req CreditUnionRequest) error {
	if !req.DefaultAmount.IsPositive() {
		return creditunionerrors.ErrInvalidAmount
	}
	start, end, err := parseWindow(req.StartDate, req.EndDate)
	if err != nil {
		return err
	}
	if err := eligibility.Validate(req.Filter, eligibility.ModeCreditUnion); err != nil {
		return err
	}
	cu.Name = strings.TrimSpace(req.Name)
	cu.DefaultAmount = req.DefaultAmount.Round(2)
	cu.StartDate = start
	cu.EndDate = end
	cu.Filter = req.Filter
	return nil
}

func newMembers(cu CreditUnion, employeeIDs []uuid.UUID) []StaffCreditUnion {
	rows := make([]StaffCreditUnion, 0, len(employeeIDs))
	for _, id := range employeeIDs {
		rows = append(rows, StaffCreditUnion{
			ID:            uuid.New(),
			CreditUnionID: cu.ID,
			EmployeeID:    id,
			Amount:        cu.DefaultAmount,
			StartDate:     cu.StartDate,
			EndDate:       cu.EndDate,
		})
	}
	return rows
}

func memberIDs(rows []StaffCreditUnion) []uuid.UUID {
	ids := make([]uuid.UUID, len(rows))
	for i, r := range rows {
		ids[i] = r.EmployeeID
	}
	return ids
}

func (s *service) Create(ctx context.Context, req CreditUnionRequest) (CreditUnionResponse, error) {
	log := contextutil.GetLogger(ctx, s.logger)

	cu := CreditUnion{ID: uuid.New()}
	if err := s.applyRequest(&cu, req); err != nil {
		return CreditUnionResponse{}, err
	}

	eligible, err := s.resolver.Resolve(ctx, cu.Filter)
	if err != nil {
		return CreditUnionResponse{}, err
	}
	if len(eligible) == 0 {
		log.Warn("create credit union rejected, empty eligible set", zap.String("name", cu.Name))
		return CreditUnionResponse{}, eligibilityerrors.ErrEmptyEligibleSet
	}
	cu.EligibleEmployeeCount = len(eligible)

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		log.Error("create credit union begin tx failed", zap.Error(err))
		return CreditUnionResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)
	if err := qtx.Create(ctx, &cu); err != nil {
		log.Error("create credit union persist failed", zap.Error(err))
		return CreditUnionResponse{}, mapRepositoryError(err)
	}
	if err := qtx.CreateMembers(ctx, newMembers(cu, eligibility.IDs(eligible))); err != nil {
		log.Error("create credit union members failed", zap.String("credit_union_id", cu.ID.String()), zap.Error(err))
		return CreditUnionResponse{}, mapRepositoryError(err)
	}

	if err := tx.Commit(); err != nil {
		log.Error("create credit union commit failed", zap.Error(err))
		return CreditUnionResponse{}, err
	}

	log.Info("credit union created",
		zap.String("credit_union_id", cu.ID.String()),
		zap.Int("eligible", cu.EligibleEmployeeCount),
	)
	return toResponse(cu), nil
}

// changedMemberFields lists the member columns that follow a change to the union defaults.
func changedMemberFields(current, updated CreditUnion) map[string]any {
	fields := map[string]any{}
	if !current.DefaultAmount.Equal(updated.DefaultAmount) {
		fields["amount"] = updated.DefaultAmount
	}
	if !current.StartDate.Equal(updated.StartDate) {
		fields["start_date"] = updated.StartDate
	}
	if !sameDate(current.EndDate, updated.EndDate) {
		fields["end_date"] = updated.EndDate
	}
	return fields
}

// Update pushes only the changed defaults onto existing members, then adds and
// removes members to match the new eligible set.
func (s *service) Update(ctx context.Context, id string, req CreditUnionRequest) (CreditUnionResponse, error) {
	log := contextutil.GetLogger(ctx, s.logger)

	cuID, err := parseID(id)
	if err != nil {
		return CreditUnionResponse{}, err
	}
	current, err := s.repo.FindByID(ctx, cuID.String())
	if err != nil {
		return CreditUnionResponse{}, mapRepositoryError(err)
	}

	updated := *current
	if err := s.applyRequest(&updated, req); err != nil {
		return CreditUnionResponse{}, err
	}

	eligible, err := s.resolver.Resolve(ctx, updated.Filter)
	if err != nil {
		return CreditUnionResponse{}, err
	}
	if len(eligible) == 0 {
		log.Warn("update credit union rejected, empty eligible set", zap.String("credit_union_id", id))
		return CreditUnionResponse{}, eligibilityerrors.ErrEmptyEligibleSet
	}
	updated.EligibleEmployeeCount = len(eligible)

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		log.Error("update credit union begin tx failed", zap.Error(err))
		return CreditUnionResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)
	if err := qtx.UpdateMembers(ctx, cuID, changedMemberFields(*current, updated)); err != nil {
		log.Error("bulk update credit union members failed", zap.String("credit_union_id", id), zap.Error(err))
		return CreditUnionResponse{}, err
	}

	existing, err := qtx.ListMembers(ctx, cuID)
	if err != nil {
		return CreditUnionResponse{}, err
	}
	added, removed, _ := eligibility.Diff(memberIDs(existing), eligibility.IDs(eligible))
	if err := applyMembership(ctx, qtx, updated, added, removed); err != nil {
		log.Error("sync credit union members failed", zap.String("credit_union_id", id), zap.Error(err))
		return CreditUnionResponse{}, err
	}

	if err := qtx.Update(ctx, &updated); err != nil {
		log.Error("update credit union persist failed", zap.Error(err))
		return CreditUnionResponse{}, mapRepositoryError(err)
	}

	if err := tx.Commit(); err != nil {
		log.Error("update credit union commit failed", zap.Error(err))
		return CreditUnionResponse{}, err
	}

	log.Info("credit union updated",
		zap.String("credit_union_id", id),
		zap.Int("added", len(added)),
		zap.Int("removed", len(removed)),
	)
	return toResponse(updated), nil
}

func applyMembership(ctx context.Context, qtx Repository, cu CreditUnion, added, removed []uuid.UUID) error {
	if err := qtx.CreateMembers(ctx, newMembers(cu, added)); err != nil {
		return mapRepositoryError(err)
	}
	if len(removed) > 0 {
		if err := qtx.DeleteMembers(ctx, cu.ID, removed); err != nil {
			return err
		}
	}
	return nil
}

func (s *service) Delete(ctx context.Context, id string) error {
	log := contextutil.GetLogger(ctx, s.logger)

	cuID, err := parseID(id)
	if err != nil {
		return err
	}
	if _, err := s.repo.FindByID(ctx, cuID.String()); err != nil {
		return mapRepositoryError(err)
	}
	deductions, err := s.repo.CountDeductions(ctx, cuID)
	if err != nil {
		return err
	}
	if deductions > 0 {
		return creditunionerrors.ErrCreditUnionInUse
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		log.Error("delete credit union begin tx failed", zap.Error(err))
		return err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)
	if err := qtx.DeleteMembers(ctx, cuID, nil); err != nil {
		return mapRepositoryError(err)
	}
	if err := qtx.Delete(ctx, cuID); err != nil {
		log.Error("delete credit union failed", zap.String("credit_union_id", id), zap.Error(err))
		return mapRepositoryError(err)
	}

	if err := tx.Commit(); err != nil {
		log.Error("delete credit union commit failed", zap.Error(err))
		return err
	}

	log.Info("credit union deleted", zap.String("credit_union_id", id))
	return nil
}

func (s *service) GetByID(ctx context.Context, id string) (CreditUnionResponse, error) {
	cuID, err := parseID(id)
	if err != nil {
		return CreditUnionResponse{}, err
	}
	cu, err := s.repo.FindByID(ctx, cuID.String())
	if err != nil {
		return CreditUnionResponse{}, mapRepositoryError(err)
	}
	return toResponse(*cu), nil
}

func (s *service) GetAll(ctx context.Context) ([]CreditUnionResponse, error) {
	rows, err := s.repo.FindAll(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]CreditUnionResponse, len(rows))
	for i, cu := range rows {
		out[i] = toResponse(cu)
	}
	return out, nil
}

func (s *service) ListMembers(ctx context.Context, id string) ([]MemberResponse, error) {
	cuID, err := parseID(id)
	if err != nil {
		return nil, err
	}
	rows, err := s.repo.ListMembers(ctx, cuID)
	if err != nil {
		return nil, err
	}
	out := make([]MemberResponse, len(rows))
	for i, r := range rows {
		out[i] = toMemberResponse(r)
	}
	return out, nil
}

// UpdateMember overrides one member's amount and window.
func (s *service) UpdateMember(ctx context.Context, id, employeeID string, req MemberRequest) (MemberResponse, error) {
	log := contextutil.GetLogger(ctx, s.logger)

	cuID, err := parseID(id)
	if err != nil {
		return MemberResponse{}, err
	}
	empID, err := uuid.Parse(employeeID)
	if err != nil {
		return MemberResponse{}, creditunionerrors.ErrMemberNotFound
	}
	if !req.Amount.IsPositive() {
		return MemberResponse{}, creditunionerrors.ErrInvalidAmount
	}
	start, end, err := parseWindow(req.StartDate, req.EndDate)
	if err != nil {
		return MemberResponse{}, err
	}

	row, err := s.repo.FindMember(ctx, cuID, empID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return MemberResponse{}, creditunionerrors.ErrMemberNotFound
		}
		return MemberResponse{}, err
	}

	row.Amount = req.Amount.Round(2)
	row.StartDate = start
	row.EndDate = end
	if err := s.repo.UpdateMember(ctx, row); err != nil {
		log.Error("update credit union member failed",
			zap.String("credit_union_id", id),
			zap.String("employee_id", employeeID),
			zap.Error(err),
		)
		return MemberResponse{}, err
	}
	return toMemberResponse(*row), nil
}

// Resync re-applies the stored filter to the current population. Kept members
// retain their overrides.
func (s *service) Resync(ctx context.Context, id string) (ResyncResult, error) {
	log := contextutil.GetLogger(ctx, s.logger)

	cuID, err := parseID(id)
	if err != nil {
		return ResyncResult{}, err
	}
	cu, err := s.repo.FindByID(ctx, cuID.String())
	if err != nil {
		return ResyncResult{}, mapRepositoryError(err)
	}

	eligible, err := s.resolver.Resolve(ctx, cu.Filter)
	if err != nil {
		return ResyncResult{}, err
	}
	if len(eligible) == 0 {
		log.Warn("credit union no longer matches any employee", zap.String("credit_union_id", id))
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return ResyncResult{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)
	existing, err := qtx.ListMembers(ctx, cuID)
	if err != nil {
		return ResyncResult{}, err
	}
	added, removed, _ := eligibility.Diff(memberIDs(existing), eligibility.IDs(eligible))
	if err := applyMembership(ctx, qtx, *cu, added, removed); err != nil {
		return ResyncResult{}, err
	}

	cu.EligibleEmployeeCount = len(eligible)
	if err := qtx.Update(ctx, cu); err != nil {
		return ResyncResult{}, mapRepositoryError(err)
	}

	if err := tx.Commit(); err != nil {
		log.Error("resync credit union commit failed", zap.Error(err))
		return ResyncResult{}, err
	}

	return ResyncResult{
		CreditUnionID: id,
		Added:         len(added),
		Removed:       len(removed),
		Eligible:      len(eligible),
	}, nil
}

func (s *service) ResyncAll(ctx context.Context) ([]ResyncResult, error) {
	log := contextutil.GetLogger(ctx, s.logger)

	rows, err := s.repo.FindAll(ctx)
	if err != nil {
		return nil, err
	}
	results := make([]ResyncResult, 0, len(rows))
	var errs []error
	for _, cu := range rows {
		res, err := s.Resync(ctx, cu.ID.String())
		if err != nil {
			log.Error("resync credit union failed", zap.String("credit_union_id", cu.ID.String()), zap.Error(err))
			errs = append(errs, err)
			continue
		}
		results = append(results, res)
	}
	return results, errors.Join(errs...)
}
