// Package dbmetrics обёртка над *sql.DB c метриками запросов и
// механизмом передачи активной транзакции через context.
//
// Репозитории получают executor через GetExecutor(ctx, fallback):
// если usecase открыл транзакцию через txmanager, все запросы репозиториев
// внутри callback автоматически выполняются в ней.
package dbmetrics

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"github.com/sharpcut/SC-SchedulingService/pkg/metrics"
)

// DBExecutor общий интерфейс выполнения запросов.
// Реализуется *sql.DB, *sql.Tx, *DB и *Tx.
type DBExecutor interface {
	ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row
}

// TxExecutor интерфейс транзакции
type TxExecutor interface {
	DBExecutor
	Commit() error
	Rollback() error
}

type ctxKey int

const (
	executorKey ctxKey = iota
)

// WithExecutor кладет активную транзакцию в context.
// Используется transaction manager-ом, напрямую вызывать не нужно.
func WithExecutor(ctx context.Context, tx DBExecutor) context.Context {
	return context.WithValue(ctx, executorKey, tx)
}

// GetExecutor возвращает executor из context (активную транзакцию),
// либо fallback, если транзакции нет
func GetExecutor(ctx context.Context, fallback DBExecutor) DBExecutor {
	if tx, ok := ctx.Value(executorKey).(DBExecutor); ok && tx != nil {
		return tx
	}
	return fallback
}

// IsInTransaction возвращает true, если в context есть активная транзакция
func IsInTransaction(ctx context.Context) bool {
	tx, ok := ctx.Value(executorKey).(DBExecutor)
	return ok && tx != nil
}

// DB обёртка *sql.DB с метриками длительности запросов
type DB struct {
	db *sql.DB
	m  *metrics.Metrics
}

// Wrap оборачивает *sql.DB метриками
func Wrap(db *sql.DB, m *metrics.Metrics) *DB {
	return &DB{db: db, m: m}
}

// Metrics возвращает коллектор, которым обёрнута база
func (d *DB) Metrics() *metrics.Metrics {
	return d.m
}

// WrapWithDefault оборачивает *sql.DB метриками и запускает фоновой сбор
// статистики connection pool. Сбор останавливается закрытием stopCh.
func WrapWithDefault(db *sql.DB, m *metrics.Metrics, poolName string, stopCh chan struct{}) *DB {
	wrapped := Wrap(db, m)
	go wrapped.collectPoolStats(poolName, stopCh)
	return wrapped
}

// ExecContext выполняет запрос с измерением длительности
func (d *DB) ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error) {
	defer d.observe(query)()
	return d.db.ExecContext(ctx, query, args...)
}

// QueryContext выполняет запрос с измерением длительности
func (d *DB) QueryContext(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error) {
	defer d.observe(query)()
	return d.db.QueryContext(ctx, query, args...)
}

// QueryRowContext выполняет запрос с измерением длительности
func (d *DB) QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row {
	defer d.observe(query)()
	return d.db.QueryRowContext(ctx, query, args...)
}

// BeginTx начинает транзакцию, возвращая обёрнутый метриками executor
func (d *DB) BeginTx(ctx context.Context, opts *sql.TxOptions) (TxExecutor, error) {
	tx, err := d.db.BeginTx(ctx, opts)
	if err != nil {
		return nil, err
	}
	return &Tx{tx: tx, m: d.m}, nil
}

func (d *DB) observe(query string) func() {
	if d.m == nil {
		return func() {}
	}
	start := time.Now()
	op := queryOperation(query)
	return func() {
		d.m.DBQueryDuration.WithLabelValues(op).Observe(time.Since(start).Seconds())
	}
}

// collectPoolStats периодически публикует статистику connection pool
func (d *DB) collectPoolStats(poolName string, stopCh chan struct{}) {
	if d.m == nil {
		return
	}
	ticker := time.NewTicker(10 * time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-stopCh:
			return
		case <-ticker.C:
			stats := d.db.Stats()
			d.m.DBConnsOpen.WithLabelValues(poolName).Set(float64(stats.OpenConnections))
			d.m.DBConnsInUse.WithLabelValues(poolName).Set(float64(stats.InUse))
			d.m.DBConnsIdle.WithLabelValues(poolName).Set(float64(stats.Idle))
		}
	}
}

// Tx обёртка *sql.Tx с метриками
type Tx struct {
	tx *sql.Tx
	m  *metrics.Metrics
}

// ExecContext выполняет запрос в транзакции
func (t *Tx) ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error) {
	defer t.observe(query)()
	return t.tx.ExecContext(ctx, query, args...)
}

// QueryContext выполняет запрос в транзакции
func (t *Tx) QueryContext(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error) {
	defer t.observe(query)()
	return t.tx.QueryContext(ctx, query, args...)
}

// QueryRowContext выполняет запрос в транзакции
func (t *Tx) QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row {
	defer t.observe(query)()
	return t.tx.QueryRowContext(ctx, query, args...)
}

// Commit фиксирует транзакцию
func (t *Tx) Commit() error {
	return t.tx.Commit()
}

// Rollback откатывает транзакцию
func (t *Tx) Rollback() error {
	return t.tx.Rollback()
}

func (t *Tx) observe(query string) func() {
	if t.m == nil {
		return func() {}
	}
	start := time.Now()
	op := queryOperation(query)
	return func() {
		t.m.DBQueryDuration.WithLabelValues(op).Observe(time.Since(start).Seconds())
	}
}

// queryOperation возвращает первый keyword запроса (select/insert/update/delete)
func queryOperation(query string) string {
	fields := strings.Fields(strings.TrimSpace(query))
	if len(fields) == 0 {
		return "unknown"
	}
	return strings.ToLower(fields[0])
}
