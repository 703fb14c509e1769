package db

import (
	"context"
	"errors"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// QueryExecutor runs transactional and guarded writes.
type QueryExecutor struct {
	DB *gorm.DB
}

// NewQueryExecutor creates a new instance of QueryExecutor.
func NewQueryExecutor(db *gorm.DB) *QueryExecutor {
	return &QueryExecutor{DB: db}
}

// Transaction executes fn within a database transaction bound to ctx.
func (qe *QueryExecutor) Transaction(ctx context.Context, fn func(tx *gorm.DB) error) error {
	return qe.DB.WithContext(ctx).Transaction(fn)
}

// ForUpdate locks the selected rows until the transaction ends. SQLite has no
// row locks and ignores the clause; its writer lock serializes instead.
func ForUpdate(tx *gorm.DB) *gorm.DB {
	return tx.Clauses(clause.Locking{Strength: "UPDATE"})
}

// UpdateGuarded updates rows of model matching conditions and reports whether
// any row changed. A false result means another writer moved the row first.
func UpdateGuarded(tx *gorm.DB, model interface{}, conditions map[string]interface{}, updates map[string]interface{}) (bool, error) {
	res := tx.Model(model).Where(conditions).Updates(updates)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

// IsDuplicate reports whether err is a unique constraint violation.
func IsDuplicate(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505"
	}
	return strings.Contains(err.Error(), "UNIQUE constraint failed")
}
