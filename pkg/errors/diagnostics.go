package errors

import (
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/lib/pq"
)

const sqliteConstraintPrefix = "constraint failed: "

// Diagnostics is the log-only breakdown of an error. None of it reaches clients.
type Diagnostics struct {
	Message    string
	Code       Code
	Chain      []string
	SQLState   string
	Constraint string
	Table      string
	Column     string
	Detail     string
	DBMessage  string
}

// Inspect walks err's chain and extracts database driver details from the
// postgres drivers (pgx, lib/pq) and from sqlite constraint messages.
func Inspect(err error) Diagnostics {
	if err == nil {
		return Diagnostics{}
	}

	d := Diagnostics{Message: err.Error()}
	if typed := As(err); typed != nil {
		d.Code = typed.Code()
	}
	for e := err; e != nil; e = errors.Unwrap(e) {
		d.Chain = append(d.Chain, fmt.Sprintf("%T: %v", e, e))
	}

	var pgxErr *pgconn.PgError
	var pqErr *pq.Error
	switch {
	case errors.As(err, &pgxErr):
		d.SQLState = pgxErr.Code
		d.Constraint = pgxErr.ConstraintName
		d.Table = pgxErr.TableName
		d.Column = pgxErr.ColumnName
		d.Detail = pgxErr.Detail
		d.DBMessage = pgxErr.Message
	case errors.As(err, &pqErr):
		d.SQLState = string(pqErr.Code)
		d.Constraint = pqErr.Constraint
		d.Table = pqErr.Table
		d.Column = pqErr.Column
		d.Detail = pqErr.Detail
		d.DBMessage = pqErr.Message
	default:
		d.inspectSQLite()
	}
	return d
}

// inspectSQLite parses messages such as
// "UNIQUE constraint failed: products.code".
func (d *Diagnostics) inspectSQLite() {
	_, rest, ok := strings.Cut(d.Message, sqliteConstraintPrefix)
	if !ok {
		return
	}
	target, _, _ := strings.Cut(rest, ",")
	target = strings.TrimSpace(target)
	d.Constraint = target
	d.Table, d.Column, _ = strings.Cut(target, ".")
}

// Fields returns the non-empty diagnostics keyed for structured logging.
func (d Diagnostics) Fields() map[string]any {
	fields := map[string]any{"error": d.Message}
	if d.Code != "" {
		fields["error_code"] = string(d.Code)
		if MetadataFor(d.Code).Retryable {
			fields["retryable"] = true
		}
	}
	if len(d.Chain) > 1 {
		fields["error_chain"] = d.Chain
	}
	for key, value := range map[string]string{
		"db_sqlstate":   d.SQLState,
		"db_constraint": d.Constraint,
		"db_table":      d.Table,
		"db_column":     d.Column,
		"db_detail":     d.Detail,
		"db_message":    d.DBMessage,
	} {
		if value != "" {
			fields[key] = value
		}
	}
	return fields
}
