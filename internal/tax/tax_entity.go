package tax

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Bracket is one row of a year's progressive table. Block is the cumulative
// ceiling of the bracket; a null block is open ended.
type Bracket struct {
	ID        uuid.UUID           `gorm:"type:uuid;primaryKey" json:"id"`
	Year      int                 `gorm:"index:idx_tax_brackets_year" json:"year"`
	Block     decimal.NullDecimal `gorm:"type:numeric(14,2)" json:"block"`
	Rate      decimal.Decimal     `gorm:"type:numeric(5,2)" json:"rate"`
	Active    bool                `gorm:"default:true" json:"active"`
	CreatedAt time.Time           `json:"created_at"`
}

func (Bracket) TableName() string { return "tax_brackets" }
