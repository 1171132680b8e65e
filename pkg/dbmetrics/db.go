package dbmetrics

import (
	"context"
	"database/sql"
	"strings"
	"time"
)

// DefaultStatsInterval период сбора статистики connection pool
const DefaultStatsInterval = 15 * time.Second

// Recorder принимает измерения запросов и состояния пула
type Recorder interface {
	ObserveDBQuery(serviceName, operation, status string, duration time.Duration)
	SetDBPoolStats(serviceName string, stats sql.DBStats)
}

// DB обёртка над *sql.DB, которая пишет метрики каждого запроса
type DB struct {
	db          *sql.DB
	recorder    Recorder
	serviceName string
}

// Wrap оборачивает *sql.DB и запускает сбор статистики пула с указанным интервалом
// Сбор останавливается при закрытии stopCh
func Wrap(db *sql.DB, recorder Recorder, serviceName string, interval time.Duration, stopCh <-chan struct{}) *DB {
	wrapped := &DB{
		db:          db,
		recorder:    recorder,
		serviceName: serviceName,
	}
	go wrapped.collectPoolStats(interval, stopCh)
	return wrapped
}

// WrapWithDefault оборачивает *sql.DB с интервалом сбора по умолчанию
func WrapWithDefault(db *sql.DB, recorder Recorder, serviceName string, stopCh <-chan struct{}) *DB {
	return Wrap(db, recorder, serviceName, DefaultStatsInterval, stopCh)
}

func (d *DB) QueryContext(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error) {
	start := time.Now()
	rows, err := d.db.QueryContext(ctx, query, args...)
	d.observe(query, err, start)
	return rows, err
}

// QueryRowContext ошибка станет известна только при Scan, поэтому статус всегда ok
func (d *DB) QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row {
	start := time.Now()
	row := d.db.QueryRowContext(ctx, query, args...)
	d.observe(query, nil, start)
	return row
}

func (d *DB) ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error) {
	start := time.Now()
	result, err := d.db.ExecContext(ctx, query, args...)
	d.observe(query, err, start)
	return result, err
}

// BeginTx начинает транзакцию, запросы внутри которой тоже попадают в метрики
func (d *DB) BeginTx(ctx context.Context, opts *sql.TxOptions) (TxExecutor, error) {
	tx, err := d.db.BeginTx(ctx, opts)
	if err != nil {
		return nil, err
	}
	return &metricsTx{tx: tx, parent: d}, nil
}

func (d *DB) observe(query string, err error, start time.Time) {
	status := "ok"
	if err != nil {
		status = "error"
	}
	d.recorder.ObserveDBQuery(d.serviceName, operationOf(query), status, time.Since(start))
}

func (d *DB) collectPoolStats(interval time.Duration, stopCh <-chan struct{}) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	d.recorder.SetDBPoolStats(d.serviceName, d.db.Stats())
	for {
		select {
		case <-ticker.C:
			d.recorder.SetDBPoolStats(d.serviceName, d.db.Stats())
		case <-stopCh:
			return
		}
	}
}

type metricsTx struct {
	tx     *sql.Tx
	parent *DB
}

func (t *metricsTx) QueryContext(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error) {
	start := time.Now()
	rows, err := t.tx.QueryContext(ctx, query, args...)
	t.parent.observe(query, err, start)
	return rows, err
}

func (t *metricsTx) QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row {
	start := time.Now()
	row := t.tx.QueryRowContext(ctx, query, args...)
	t.parent.observe(query, nil, start)
	return row
}

func (t *metricsTx) ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error) {
	start := time.Now()
	result, err := t.tx.ExecContext(ctx, query, args...)
	t.parent.observe(query, err, start)
	return result, err
}

func (t *metricsTx) Commit() error {
	return t.tx.Commit()
}

func (t *metricsTx) Rollback() error {
	return t.tx.Rollback()
}

// operationOf определяет тип запроса по первому слову
func operationOf(query string) string {
	fields := strings.Fields(query)
	if len(fields) == 0 {
		return "unknown"
	}
	switch op := strings.ToLower(fields[0]); op {
	case "select", "insert", "update", "delete":
		return op
	default:
		return "other"
	}
}
