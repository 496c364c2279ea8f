package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"

	domain "github.com/BruksfildServices01/booking-engine/internal/domain/appointment"
	"github.com/BruksfildServices01/booking-engine/internal/httperr"
)

// GormStore is the Postgres implementation of every repository interface.
type GormStore struct {
	db *gorm.DB
}

func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{db: db}
}

type txKey struct{}

// conn returns the transaction carried by ctx, or the pool.
func (s *GormStore) conn(ctx context.Context) *gorm.DB {
	if tx, ok := ctx.Value(txKey{}).(*gorm.DB); ok {
		return tx.WithContext(ctx)
	}
	return s.db.WithContext(ctx)
}

// WithinTransaction runs fn inside one database transaction. A ctx that
// already carries a transaction is reused.
func (s *GormStore) WithinTransaction(
	ctx context.Context,
	fn func(ctx context.Context) error,
) error {

	if _, ok := ctx.Value(txKey{}).(*gorm.DB); ok {
		return fn(ctx)
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(context.WithValue(ctx, txKey{}, tx))
	})
	return mapError(err)
}

// --------------------------------------------------
// Scopes
// --------------------------------------------------

// activeOnly hides soft-deleted rows. Every query over an Entity table
// applies it explicitly.
func activeOnly(db *gorm.DB) *gorm.DB {
	return db.Where("deleted_at IS NULL")
}

func notFound(err error, target error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return target
	}
	return err
}

// --------------------------------------------------
// Errors
// --------------------------------------------------

const (
	pgUniqueViolation      = "23505"
	pgExclusionViolation   = "23P01"
	pgSerializationFailure = "40001"
	pgDeadlockDetected     = "40P01"
)

// IsExclusionConflict reports whether err is a Postgres error raised by two
// writers claiming the same time.
func IsExclusionConflict(err error) bool {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return false
	}
	switch pgErr.Code {
	case pgExclusionViolation, pgSerializationFailure, pgDeadlockDetected:
		return true
	}
	return false
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation
}

func mapError(err error) error {
	switch {
	case err == nil:
		return nil
	case IsExclusionConflict(err):
		return domain.ErrSlotConflict
	case isUniqueViolation(err):
		return httperr.ErrBusiness("duplicate_entry")
	}
	return err
}
