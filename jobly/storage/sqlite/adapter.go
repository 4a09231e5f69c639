package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	_ "github.com/mattn/go-sqlite3"
	msqlite "modernc.org/sqlite"
	sqlite3lib "modernc.org/sqlite/lib"

	"github.com/jobly/jobly/jobly/storage"
	"github.com/jobly/jobly/jobly/storage/sqlbuilder"
)

const (
	// DriverModernc is the pure Go driver registered by modernc.org/sqlite.
	DriverModernc = "sqlite"
	// DriverMattn is the cgo driver registered by mattn/go-sqlite3.
	DriverMattn = "sqlite3"
)

type Adapter struct {
	Path       string
	DriverName string
}

func New(path string) *Adapter {
	return &Adapter{Path: path, DriverName: DriverModernc}
}

func NewWithDriver(path, driver string) *Adapter {
	return &Adapter{Path: path, DriverName: driver}
}

func (a *Adapter) Backend() storage.Backend {
	return storage.BackendSQLite
}

func (a *Adapter) PlaceholderStyle() sqlbuilder.PlaceholderStyle {
	return sqlbuilder.PlaceholderNumbered
}

func (a *Adapter) Target() string {
	return a.Path
}

// dsn appends the per-connection pragmas in the syntax the driver expects.
func (a *Adapter) dsn() (string, error) {
	var params string
	switch a.DriverName {
	case DriverModernc, "":
		params = "_pragma=busy_timeout(5000)&_pragma=foreign_keys(1)"
	case DriverMattn:
		params = "_busy_timeout=5000&_foreign_keys=on"
	default:
		return "", fmt.Errorf("unsupported sqlite driver %q (want %s or %s)", a.DriverName, DriverModernc, DriverMattn)
	}
	if strings.Contains(a.Path, "?") {
		return a.Path + "&" + params, nil
	}
	return a.Path + "?" + params, nil
}

func (a *Adapter) Connect(ctx context.Context) (*sql.DB, error) {
	dsn, err := a.dsn()
	if err != nil {
		return nil, err
	}
	driver := a.DriverName
	if driver == "" {
		driver = DriverModernc
	}
	db, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, err
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}
	return db, nil
}

func (a *Adapter) Close() error {
	return nil
}

func (a *Adapter) SQL() storage.SQL {
	return SQLTemplates
}

func (a *Adapter) Migrate(ctx context.Context, db *sql.DB) error {
	if _, err := db.ExecContext(ctx, ddlBase); err != nil {
		return err
	}
	_, _ = db.ExecContext(ctx, "PRAGMA journal_mode=WAL;")
	_, _ = db.ExecContext(ctx, "PRAGMA synchronous=NORMAL;")
	return nil
}

func (a *Adapter) IsUniqueViolation(err error) bool {
	var me *msqlite.Error
	if errors.As(err, &me) {
		code := me.Code()
		return code == sqlite3lib.SQLITE_CONSTRAINT_UNIQUE || code == sqlite3lib.SQLITE_CONSTRAINT_PRIMARYKEY
	}
	// mattn's typed errors only exist in cgo builds; its message is stable.
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
}
