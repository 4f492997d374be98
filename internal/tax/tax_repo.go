package tax

import (
	"context"
	"database/sql"

	"go-payroll/internal/shared/connection"

	"gorm.io/gorm"
)

//go:generate mockgen -source=tax_repo.go -destination=mock/tax_repo_mock.go -package=mock
type Repository interface {
	WithTx(tx *sql.Tx) Repository
	FindByYear(ctx context.Context, year int) ([]Bracket, error)
	DeleteYear(ctx context.Context, year int) error
	CreateMany(ctx context.Context, brackets []Bracket) error
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *sql.Tx) Repository {
	return &repository{db: connection.BindTx(r.db, tx)}
}

func (r *repository) FindByYear(ctx context.Context, year int) ([]Bracket, error) {
	var brackets []Bracket
	err := r.db.WithContext(ctx).
		Where("year = ? AND active = ?", year, true).
		Order("rate ASC").
		Order("block ASC NULLS LAST").
		Find(&brackets).Error
	return brackets, err
}

func (r *repository) DeleteYear(ctx context.Context, year int) error {
	return r.db.WithContext(ctx).Where("year = ?", year).Delete(&Bracket{}).Error
}

func (r *repository) CreateMany(ctx context.Context, brackets []Bracket) error {
	if len(brackets) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Create(&brackets).Error
}
