package tax

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"go-payroll/internal/shared/contextutil"
	taxerrors "go-payroll/internal/tax/errors"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

const (
	BracketsKeyPrefix = "tax:brackets:"
	bracketsCacheTTL  = time.Hour
)

func BracketsKey(year int) string {
	return fmt.Sprintf("%s%d", BracketsKeyPrefix, year)
}

//go:generate mockgen -source=tax_service.go -destination=mock/tax_service_mock.go -package=mock
type Service interface {
	Brackets(ctx context.Context, year int) ([]Bracket, error)
	GetTable(ctx context.Context, year int) (TableResponse, error)
	ReplaceYear(ctx context.Context, year int, req ReplaceTableRequest) (TableResponse, error)
	Calculate(ctx context.Context, year int, taxable decimal.Decimal) (decimal.Decimal, error)
}

type service struct {
	db     *sql.DB
	repo   Repository
	rdb    *redis.Client
	sf     *singleflight.Group
	now    func() time.Time
	logger *zap.Logger
}

type Option func(*service)

// WithClock overrides time.Now for the current-year rule.
func WithClock(now func() time.Time) Option {
	return func(s *service) { s.now = now }
}

func WithLogger(l *zap.Logger) Option {
	return func(s *service) {
		if l != nil {
			s.logger = l.Named("tax.service")
		}
	}
}

func NewService(db *sql.DB, repo Repository, rdb *redis.Client, opts ...Option) Service {
	s := &service{
		db:     db,
		repo:   repo,
		rdb:    rdb,
		sf:     &singleflight.Group{},
		now:    time.Now,
		logger: zap.L().Named("tax.service"),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *service) Brackets(ctx context.Context, year int) ([]Bracket, error) {
	key := BracketsKey(year)

	if s.rdb != nil {
		if cached, err := s.rdb.Get(ctx, key).Result(); err == nil {
			var brackets []Bracket
			if json.Unmarshal([]byte(cached), &brackets) == nil && len(brackets) > 0 {
				return brackets, nil
			}
		}
	}

	v, err, _ := s.sf.Do(key, func() (interface{}, error) {
		brackets, err := s.repo.FindByYear(ctx, year)
		if err != nil {
			return nil, err
		}
		if len(brackets) == 0 {
			return nil, taxerrors.ErrNoBrackets
		}

		if s.rdb != nil {
			if data, err := json.Marshal(brackets); err == nil {
				if err := s.rdb.Set(ctx, key, data, bracketsCacheTTL).Err(); err != nil {
					s.logger.Warn("cache tax brackets failed", zap.Int("year", year), zap.Error(err))
				}
			}
		}
		return brackets, nil
	})
	if err != nil {
		return nil, err
	}
	return v.([]Bracket), nil
}

func (s *service) GetTable(ctx context.Context, year int) (TableResponse, error) {
	if year < 1900 {
		return TableResponse{}, taxerrors.ErrInvalidYear
	}
	brackets, err := s.Brackets(ctx, year)
	if err != nil {
		return TableResponse{}, err
	}
	return toTableResponse(year, brackets), nil
}

func (s *service) Calculate(ctx context.Context, year int, taxable decimal.Decimal) (decimal.Decimal, error) {
	if taxable.IsNegative() {
		return decimal.Zero, taxerrors.ErrNegativeAmount
	}
	brackets, err := s.Brackets(ctx, year)
	if err != nil {
		return decimal.Zero, err
	}
	return Calculate(brackets, taxable), nil
}

// ReplaceYear swaps the whole table for the current year inside one transaction.
func (s *service) ReplaceYear(ctx context.Context, year int, req ReplaceTableRequest) (TableResponse, error) {
	log := contextutil.GetLogger(ctx, s.logger)

	if year != s.now().Year() {
		return TableResponse{}, taxerrors.ErrNotCurrentYear
	}

	brackets, err := buildBrackets(year, req.Brackets)
	if err != nil {
		return TableResponse{}, err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		log.Error("replace tax table begin tx failed", zap.Error(err))
		return TableResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)
	if err := qtx.DeleteYear(ctx, year); err != nil {
		log.Error("delete tax table failed", zap.Int("year", year), zap.Error(err))
		return TableResponse{}, err
	}
	if err := qtx.CreateMany(ctx, brackets); err != nil {
		log.Error("create tax table failed", zap.Int("year", year), zap.Error(err))
		return TableResponse{}, err
	}

	if err := tx.Commit(); err != nil {
		log.Error("replace tax table commit failed", zap.Error(err))
		return TableResponse{}, err
	}

	if s.rdb != nil {
		if err := s.rdb.Del(ctx, BracketsKey(year)).Err(); err != nil {
			log.Error("invalidate tax brackets cache failed", zap.Int("year", year), zap.Error(err))
		}
	}

	log.Info("tax table replaced", zap.Int("year", year), zap.Int("brackets", len(brackets)))
	return toTableResponse(year, brackets), nil
}

func buildBrackets(year int, reqs []BracketRequest) ([]Bracket, error) {
	brackets := make([]Bracket, 0, len(reqs))
	for _, r := range reqs {
		if r.Rate.IsNegative() || r.Rate.GreaterThan(hundred) {
			return nil, taxerrors.ErrInvalidRate
		}
		b := Bracket{ID: uuid.New(), Year: year, Rate: r.Rate, Active: true}
		if r.Block != nil {
			if r.Block.IsNegative() {
				return nil, taxerrors.ErrNegativeAmount
			}
			b.Block = decimal.NewNullDecimal(*r.Block)
		}
		brackets = append(brackets, b)
	}

	sorted := Sorted(brackets)
	for i, b := range sorted {
		if !b.Block.Valid {
			if i != len(sorted)-1 {
				return nil, taxerrors.ErrOpenBlockNotLast
			}
			continue
		}
		if i > 0 && !b.Block.Decimal.GreaterThan(sorted[i-1].Block.Decimal) {
			return nil, taxerrors.ErrBlocksNotAscending
		}
	}
	return sorted, nil
}
