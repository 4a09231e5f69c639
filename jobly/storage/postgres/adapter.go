package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/stdlib"
	"github.com/lib/pq"

	"github.com/jobly/jobly/jobly/storage"
	"github.com/jobly/jobly/jobly/storage/sqlbuilder"
)

const (
	// DriverPgx opens connections through pgx's database/sql bridge.
	DriverPgx = "pgx"
	// DriverPQ opens connections through lib/pq.
	DriverPQ = "postgres"
)

const uniqueViolation = "23505"

type Adapter struct {
	DSN        string
	DriverName string
}

func New(dsn string) *Adapter {
	return &Adapter{DSN: dsn, DriverName: DriverPgx}
}

func NewWithDriver(dsn, driver string) *Adapter {
	return &Adapter{DSN: dsn, DriverName: driver}
}

func (a *Adapter) Backend() storage.Backend { return storage.BackendPostgres }

func (a *Adapter) PlaceholderStyle() sqlbuilder.PlaceholderStyle { return sqlbuilder.PlaceholderDollar }

func (a *Adapter) Target() string { return "postgres:" + a.DriverName }

func (a *Adapter) Close() error { return nil }

func (a *Adapter) SQL() storage.SQL { return SQLTemplates }

func (a *Adapter) Connect(ctx context.Context) (*sql.DB, error) {
	var db *sql.DB
	switch a.DriverName {
	case DriverPQ:
		var err error
		db, err = sql.Open(DriverPQ, a.DSN)
		if err != nil {
			return nil, err
		}
	case DriverPgx, "":
		cfg, err := pgx.ParseConfig(a.DSN)
		if err != nil {
			return nil, err
		}
		db = stdlib.OpenDB(*cfg)
	default:
		return nil, fmt.Errorf("unsupported postgres driver %q (want %s or %s)", a.DriverName, DriverPgx, DriverPQ)
	}

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}
	return db, nil
}

func (a *Adapter) Migrate(ctx context.Context, db *sql.DB) error {
	_, err := db.ExecContext(ctx, ddlBase)
	return err
}

func (a *Adapter) IsUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == uniqueViolation
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return string(pqErr.Code) == uniqueViolation
	}
	return false
}
