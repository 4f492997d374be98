package connection

import (
	"context"
	"database/sql"

	"gorm.io/gorm"
)

// BindTx returns a gorm handle whose statements run on tx.
// Services own the transaction through database/sql; repositories stay on gorm.
// The returned handle has its own statement, so db keeps its connection pool.
func BindTx(db *gorm.DB, tx *sql.Tx) *gorm.DB {
	if tx == nil {
		return db
	}
	ctx := db.Statement.Context
	if ctx == nil {
		ctx = context.Background()
	}
	// A non-nil Context makes Session clone the statement instead of sharing it.
	session := db.Session(&gorm.Session{NewDB: true, SkipDefaultTransaction: true, Context: ctx})
	session.Statement.ConnPool = tx
	return session
}
