package relationaldb

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"
)

// Dialect captures the SQL differences between drivers.
type Dialect struct {
	// Placeholder returns the bind marker for the n-th argument (1-based)
	Placeholder func(n int) string

	// Schema creates the results table if it does not exist
	Schema []string
}

// SQLJournal implements Journal over database/sql.
type SQLJournal struct {
	db      *sql.DB
	dialect Dialect
	timeout time.Duration
}

// NewSQLJournal wraps an open handle and creates the schema.
func NewSQLJournal(ctx context.Context, db *sql.DB, dialect Dialect, timeout time.Duration) (*SQLJournal, error) {
	j := &SQLJournal{db: db, dialect: dialect, timeout: timeout}

	ctx, cancel := j.withTimeout(ctx)
	defer cancel()

	for _, stmt := range dialect.Schema {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return nil, NewSchemaError("init_schema", "failed to create journal schema", err)
		}
	}
	return j, nil
}

func (j *SQLJournal) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if j.timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, j.timeout)
}

// bind rewrites '?' markers into the dialect's placeholders.
func (j *SQLJournal) bind(query string) string {
	if j.dialect.Placeholder == nil {
		return query
	}
	var b strings.Builder
	n := 0
	for _, r := range query {
		if r == '?' {
			n++
			b.WriteString(j.dialect.Placeholder(n))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

func nullableJSON(b []byte) any {
	if len(b) == 0 {
		return nil
	}
	return string(b)
}

func (j *SQLJournal) Append(ctx context.Context, rec *Record) error {
	if j.db == nil {
		return ErrDatabaseClosed
	}
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = time.Now().UTC()
	}

	ctx, cancel := j.withTimeout(ctx)
	defer cancel()

	_, err := j.db.ExecContext(ctx, j.bind(`INSERT INTO results
		(id, command, caller, result, code, status, message, payload, attributes, instructions, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`),
		rec.ID, rec.Command, rec.Caller, rec.Result, rec.Code, rec.Status, rec.Message,
		nullableJSON(rec.Payload), nullableJSON(rec.Attributes), nullableJSON(rec.Instructions),
		rec.CreatedAt.UnixMilli(),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: %s", ErrDuplicateEntry, rec.ID)
		}
		return NewQueryError("append", "failed to insert journal record", err)
	}
	return nil
}

func (j *SQLJournal) SetStatus(ctx context.Context, id, status, message string) error {
	if j.db == nil {
		return ErrDatabaseClosed
	}
	ctx, cancel := j.withTimeout(ctx)
	defer cancel()

	res, err := j.db.ExecContext(ctx, j.bind(`UPDATE results SET status = ?, message = ? WHERE id = ?`), status, message, id)
	if err != nil {
		return NewQueryError("set_status", "failed to update journal record", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return NewQueryError("set_status", "failed to read affected rows", err)
	}
	if n == 0 {
		return fmt.Errorf("%w: %s", ErrRecordNotFound, id)
	}
	return nil
}

const selectColumns = `SELECT id, command, caller, result, code, status, message, payload, attributes, instructions, created_at FROM results`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRecord(row rowScanner) (*Record, error) {
	var (
		rec                         Record
		payload, attributes, instrs sql.NullString
		message                     sql.NullString
		createdAt                   int64
	)
	if err := row.Scan(&rec.ID, &rec.Command, &rec.Caller, &rec.Result, &rec.Code, &rec.Status,
		&message, &payload, &attributes, &instrs, &createdAt); err != nil {
		return nil, err
	}
	rec.Message = message.String
	if payload.Valid {
		rec.Payload = []byte(payload.String)
	}
	if attributes.Valid {
		rec.Attributes = []byte(attributes.String)
	}
	if instrs.Valid {
		rec.Instructions = []byte(instrs.String)
	}
	rec.CreatedAt = time.UnixMilli(createdAt).UTC()
	return &rec, nil
}

func (j *SQLJournal) Get(ctx context.Context, id string) (*Record, error) {
	if j.db == nil {
		return nil, ErrDatabaseClosed
	}
	ctx, cancel := j.withTimeout(ctx)
	defer cancel()

	rec, err := scanRecord(j.db.QueryRowContext(ctx, j.bind(selectColumns+` WHERE id = ?`), id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ErrRecordNotFound, id)
	}
	if err != nil {
		return nil, NewQueryError("get", "failed to read journal record", err)
	}
	return rec, nil
}

func (j *SQLJournal) List(ctx context.Context, opts ListOptions) ([]*Record, error) {
	if j.db == nil {
		return nil, ErrDatabaseClosed
	}
	if opts.Limit < 0 || opts.Limit > MaxListLimit {
		return nil, fmt.Errorf("%w: %d", ErrInvalidLimit, opts.Limit)
	}
	if opts.Limit == 0 {
		opts.Limit = 100
	}

	var (
		where []string
		args  []any
	)
	if opts.Caller != "" {
		where = append(where, "caller = ?")
		args = append(args, opts.Caller)
	}
	if opts.Command != "" {
		where = append(where, "command = ?")
		args = append(args, opts.Command)
	}
	query := selectColumns
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += " ORDER BY seq DESC LIMIT ?"
	args = append(args, opts.Limit)

	ctx, cancel := j.withTimeout(ctx)
	defer cancel()

	rows, err := j.db.QueryContext(ctx, j.bind(query), args...)
	if err != nil {
		return nil, NewQueryError("list", "failed to query journal", err)
	}
	defer rows.Close()

	var out []*Record
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, NewQueryError("list", "failed to scan journal record", err)
		}
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, NewQueryError("list", "failed to iterate journal", err)
	}
	return out, nil
}

func (j *SQLJournal) Ping(ctx context.Context) error {
	if j.db == nil {
		return ErrDatabaseClosed
	}
	ctx, cancel := j.withTimeout(ctx)
	defer cancel()

	if err := j.db.PingContext(ctx); err != nil {
		return NewConnectionError("ping", "database ping failed", err)
	}
	return nil
}

func (j *SQLJournal) Close() error {
	if j.db == nil {
		return nil
	}
	err := j.db.Close()
	j.db = nil
	if err != nil {
		return NewConnectionError("close", "failed to close database connection", err)
	}
	return nil
}

func isUniqueViolation(err error) bool {
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "unique") || strings.Contains(msg, "duplicate key")
}
