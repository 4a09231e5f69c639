package storage

import (
	"context"
	"database/sql"

	"github.com/jobly/jobly/jobly/storage/sqlbuilder"
)

type Backend string

const (
	BackendSQLite   Backend = "sqlite"
	BackendPostgres Backend = "postgres"
)

// Adapter abstracts database-specific operations
type Adapter interface {
	Backend() Backend
	PlaceholderStyle() sqlbuilder.PlaceholderStyle
	Target() string

	Connect(ctx context.Context) (*sql.DB, error)
	Close() error

	// Migrate creates the tables if they do not exist yet.
	Migrate(ctx context.Context, db *sql.DB) error

	// IsUniqueViolation reports whether err is the driver's unique or
	// primary key constraint error.
	IsUniqueViolation(err error) bool

	SQL() SQL
}

// SQL holds prepared SQL templates for common operations.
//
// Templates ending in Fmt take fmt verbs: Search*Fmt a WHERE body, Page*Fmt a
// WHERE body and the LIMIT placeholder, Update*Fmt a SET clause and the
// placeholder of the row key.
type SQL struct {
	InsertCompany    string
	CompanyExists    string
	GetCompany       string
	DeleteCompany    string
	SearchCompanyFmt string
	PageCompanyFmt   string
	UpdateCompanyFmt string

	InsertJob     string
	GetJob        string
	JobsByCompany string
	DeleteJob     string
	SearchJobFmt  string
	PageJobFmt    string
	UpdateJobFmt  string

	InsertUser      string
	UserExists      string
	GetUser         string
	GetUserPassword string
	DeleteUser      string
	UpdateUserFmt   string
}

// Column lists shared by every backend; row scanners depend on this order.
const (
	CompanyColumns = "handle, name, description, num_employees, logo_url"
	JobColumns     = "id, title, salary, equity, company_handle"
	UserColumns    = "username, first_name, last_name, email, is_admin"
)
