// Package txmanager управление транзакциями поверх dbmetrics.DB.
//
// DoSerializable выполняет callback в транзакции с уровнем изоляции
// SERIALIZABLE и ограниченным числом повторов при конфликтах сериализации
// (SQLSTATE 40001/40P01). Активная транзакция передается репозиториям
// через context (см. dbmetrics.WithExecutor).
package txmanager

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/lib/pq"

	"github.com/sharpcut/SC-SchedulingService/pkg/dbmetrics"
)

const (
	// maxSerializableRetries максимальное число повторов при конфликте сериализации
	maxSerializableRetries = 3

	// retryBackoff пауза между повторами
	retryBackoff = 25 * time.Millisecond
)

var (
	// ErrSerializationFailure возвращается, когда конфликт сериализации
	// не удалось разрешить за maxSerializableRetries попыток
	ErrSerializationFailure = errors.New("txmanager: serialization failure, retries exhausted")

	// ErrBeginTx возвращается при ошибке открытия транзакции
	ErrBeginTx = errors.New("txmanager: failed to begin transaction")

	// ErrCommitTx возвращается при ошибке фиксации транзакции
	ErrCommitTx = errors.New("txmanager: failed to commit transaction")
)

// TransactionManager менеджер транзакций с метриками
type TransactionManager struct {
	db *dbmetrics.DB
}

// NewTransactionManager создает менеджер транзакций поверх обёрнутой метриками БД
func NewTransactionManager(db *dbmetrics.DB) *TransactionManager {
	return &TransactionManager{db: db}
}

// Do выполняет fn в транзакции с уровнем изоляции по умолчанию (READ COMMITTED)
func (m *TransactionManager) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	return m.run(ctx, &sql.TxOptions{}, fn)
}

// DoReadOnly выполняет fn в read-only транзакции
func (m *TransactionManager) DoReadOnly(ctx context.Context, fn func(ctx context.Context) error) error {
	return m.run(ctx, &sql.TxOptions{ReadOnly: true}, fn)
}

// DoSerializable выполняет fn в SERIALIZABLE транзакции.
// Конфликты сериализации повторяются до maxSerializableRetries раз;
// после исчерпания попыток возвращается ErrSerializationFailure.
func (m *TransactionManager) DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error {
	opts := &sql.TxOptions{Isolation: sql.LevelSerializable}

	var lastErr error
	for attempt := 0; attempt <= maxSerializableRetries; attempt++ {
		if attempt > 0 {
			select {
			case <-time.After(retryBackoff * time.Duration(attempt)):
			case <-ctx.Done():
				return ctx.Err()
			}
		}

		err := m.run(ctx, opts, fn)
		if err == nil {
			return nil
		}
		if !IsSerializationError(err) {
			return err
		}
		if mc := m.db.Metrics(); mc != nil {
			mc.TxRetriesTotal.WithLabelValues("serialization").Inc()
		}
		lastErr = err
	}

	return fmt.Errorf("%w: %v", ErrSerializationFailure, lastErr)
}

func (m *TransactionManager) run(ctx context.Context, opts *sql.TxOptions, fn func(ctx context.Context) error) (err error) {
	tx, err := m.db.BeginTx(ctx, opts)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrBeginTx, err)
	}

	// Гарантируем откат при панике внутри callback
	defer func() {
		if p := recover(); p != nil {
			tx.Rollback()
			panic(p)
		}
	}()

	txCtx := dbmetrics.WithExecutor(ctx, tx)

	if err := fn(txCtx); err != nil {
		tx.Rollback()
		return err
	}

	if err := tx.Commit(); err != nil {
		if isPQSerializationError(err) {
			return err
		}
		return fmt.Errorf("%w: %v", ErrCommitTx, err)
	}

	return nil
}

// IsSerializationError возвращает true для конфликтов сериализации PostgreSQL
// (serialization_failure 40001, deadlock_detected 40P01)
func IsSerializationError(err error) bool {
	return isPQSerializationError(err)
}

func isPQSerializationError(err error) bool {
	var pqErr *pq.Error
	if !errors.As(err, &pqErr) {
		return false
	}
	return pqErr.Code == "40001" || pqErr.Code == "40P01"
}
