package sqlite

import "github.com/jobly/jobly/jobly/storage"

var SQLTemplates = storage.SQL{
	InsertCompany:    "INSERT INTO companies (" + storage.CompanyColumns + ") VALUES (?1, ?2, ?3, ?4, ?5) RETURNING " + storage.CompanyColumns,
	CompanyExists:    "SELECT handle FROM companies WHERE handle = ?1",
	GetCompany:       "SELECT " + storage.CompanyColumns + " FROM companies WHERE handle = ?1",
	DeleteCompany:    "DELETE FROM companies WHERE handle = ?1 RETURNING handle",
	SearchCompanyFmt: "SELECT " + storage.CompanyColumns + " FROM companies WHERE %s ORDER BY name",
	PageCompanyFmt:   "SELECT " + storage.CompanyColumns + " FROM companies WHERE %s ORDER BY name LIMIT %s",
	UpdateCompanyFmt: "UPDATE companies SET %s WHERE handle = %s RETURNING " + storage.CompanyColumns,

	InsertJob:     "INSERT INTO jobs (title, salary, equity, company_handle) VALUES (?1, ?2, ?3, ?4) RETURNING " + storage.JobColumns,
	GetJob:        "SELECT " + storage.JobColumns + " FROM jobs WHERE id = ?1",
	JobsByCompany: "SELECT " + storage.JobColumns + " FROM jobs WHERE company_handle = ?1 ORDER BY id",
	DeleteJob:     "DELETE FROM jobs WHERE id = ?1 RETURNING id",
	SearchJobFmt:  "SELECT " + storage.JobColumns + " FROM jobs WHERE %s ORDER BY id",
	PageJobFmt:    "SELECT " + storage.JobColumns + " FROM jobs WHERE %s ORDER BY id LIMIT %s",
	UpdateJobFmt:  "UPDATE jobs SET %s WHERE id = %s RETURNING " + storage.JobColumns,

	InsertUser:      "INSERT INTO users (username, password, first_name, last_name, email, is_admin) VALUES (?1, ?2, ?3, ?4, ?5, ?6) RETURNING " + storage.UserColumns,
	UserExists:      "SELECT username FROM users WHERE username = ?1",
	GetUser:         "SELECT " + storage.UserColumns + " FROM users WHERE username = ?1",
	GetUserPassword: "SELECT password, " + storage.UserColumns + " FROM users WHERE username = ?1",
	DeleteUser:      "DELETE FROM users WHERE username = ?1 RETURNING username",
	UpdateUserFmt:   "UPDATE users SET %s WHERE username = %s RETURNING " + storage.UserColumns,
}
