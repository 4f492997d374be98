package scope

import (
	"time"

	"gorm.io/gorm"
)

func StatusIn(statuses []string) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Where("status IN ?", statuses)
	}
}

// WithinWindow keeps rows of table whose start_date <= on and whose
// end_date is open or >= on.
func WithinWindow(table string, on time.Time) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Where(table+".start_date <= ?", on).
			Where("("+table+".end_date IS NULL OR "+table+".end_date >= ?)", on)
	}
}

// NotExpired keeps rows with no expiry or an expiry on or after on.
func NotExpired(column string, on time.Time) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Where("("+column+" IS NULL OR "+column+" >= ?)", on)
	}
}
