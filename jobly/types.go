package jobly

import "github.com/shopspring/decimal"

// Company is a row of the companies table.
type Company struct {
	Handle       string  `json:"handle"`
	Name         string  `json:"name"`
	Description  string  `json:"description"`
	NumEmployees *int    `json:"numEmployees"`
	LogoURL      *string `json:"logoUrl"`
}

// CompanyDetail is a company with its jobs, ordered by id.
type CompanyDetail struct {
	Company
	Jobs []Job `json:"jobs"`
}

// NewCompany is the payload for CreateCompany.
type NewCompany struct {
	Handle       string  `json:"handle" validate:"required,max=25,lowercase"`
	Name         string  `json:"name" validate:"required"`
	Description  string  `json:"description"`
	NumEmployees *int    `json:"numEmployees" validate:"omitempty,min=0"`
	LogoURL      *string `json:"logoUrl" validate:"omitempty,url"`
}

// Job is a row of the jobs table. Equity is NUMERIC and renders as a string.
type Job struct {
	ID            int64            `json:"id"`
	Title         string           `json:"title"`
	Salary        *int             `json:"salary"`
	Equity        *decimal.Decimal `json:"equity"`
	CompanyHandle string           `json:"companyHandle"`
}

// NewJob is the payload for CreateJob.
type NewJob struct {
	Title         string           `json:"title" validate:"required"`
	Salary        *int             `json:"salary" validate:"omitempty,min=0"`
	Equity        *decimal.Decimal `json:"equity" validate:"omitempty,fraction"`
	CompanyHandle string           `json:"companyHandle" validate:"required,max=25"`
}

// User is a row of the users table without its password hash.
type User struct {
	Username  string `json:"username"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email"`
	IsAdmin   bool   `json:"isAdmin"`
}

// NewUser is the payload for RegisterUser.
type NewUser struct {
	Username  string `json:"username" validate:"required,max=25"`
	Password  string `json:"password" validate:"required,min=5,max=64"`
	FirstName string `json:"firstName" validate:"required"`
	LastName  string `json:"lastName" validate:"required"`
	Email     string `json:"email" validate:"required,email"`
	IsAdmin   bool   `json:"-"`
}
