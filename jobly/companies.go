package jobly

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	jerrors "github.com/jobly/jobly/jobly/errors"
	"github.com/jobly/jobly/jobly/planner"
)

var companyColumns = planner.ColumnNames{
	"numEmployees": "num_employees",
	"logoUrl":      "logo_url",
}

func scanCompany(r rowScanner) (Company, error) {
	var c Company
	err := r.Scan(&c.Handle, &c.Name, &c.Description, &c.NumEmployees, &c.LogoURL)
	return c, err
}

// CreateCompany inserts a company. A handle or name already in use is a bad
// request.
func (s *Store) CreateCompany(ctx context.Context, nc NewCompany) (Company, error) {
	var existing string
	err := s.db.QueryRowContext(ctx, s.sqlt.CompanyExists, nc.Handle).Scan(&existing)
	if err == nil {
		return Company{}, jerrors.BadRequest("duplicate company: %s", nc.Handle)
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return Company{}, Wrap(ErrBackend, "check company", err)
	}

	row := s.db.QueryRowContext(ctx, s.sqlt.InsertCompany,
		nc.Handle, nc.Name, nc.Description, nc.NumEmployees, nc.LogoURL)
	c, err := scanCompany(row)
	if err != nil {
		if s.adapter.IsUniqueViolation(err) {
			return Company{}, jerrors.BadRequest("duplicate company: %s", nc.Handle)
		}
		return Company{}, Wrap(ErrBackend, "insert company", err)
	}

	s.log.Infow("company created", "handle", c.Handle)
	return c, nil
}

// FindCompanies returns the companies matching f, ordered by name. An empty
// filter returns every company.
func (s *Store) FindCompanies(ctx context.Context, f planner.CompanyFilter) ([]Company, error) {
	if err := f.Validate(); err != nil {
		return nil, err
	}

	b := s.newBuilder()
	pred := f.CompileWith(b)
	query := fmt.Sprintf(s.sqlt.SearchCompanyFmt, pred.Where)
	s.log.Debugw("find companies", "where", pred.Where, "args", len(pred.Args))

	rows, err := s.db.QueryContext(ctx, query, b.Args()...)
	if err != nil {
		return nil, Wrap(ErrBackend, "find companies", err)
	}
	companies, err := collect(rows, scanCompany)
	if err != nil {
		return nil, Wrap(ErrBackend, "find companies", err)
	}
	return companies, nil
}

// GetCompany returns a company and its jobs.
func (s *Store) GetCompany(ctx context.Context, handle string) (CompanyDetail, error) {
	c, err := scanCompany(s.db.QueryRowContext(ctx, s.sqlt.GetCompany, handle))
	if errors.Is(err, sql.ErrNoRows) {
		return CompanyDetail{}, jerrors.NotFound("no company: %s", handle)
	}
	if err != nil {
		return CompanyDetail{}, Wrap(ErrBackend, "get company", err)
	}

	rows, err := s.db.QueryContext(ctx, s.sqlt.JobsByCompany, handle)
	if err != nil {
		return CompanyDetail{}, Wrap(ErrBackend, "list company jobs", err)
	}
	jobs, err := collect(rows, scanJob)
	if err != nil {
		return CompanyDetail{}, Wrap(ErrBackend, "list company jobs", err)
	}

	return CompanyDetail{Company: c, Jobs: jobs}, nil
}

// UpdateCompany applies a partial update. Only the supplied fields change;
// the handle itself cannot.
func (s *Store) UpdateCompany(ctx context.Context, handle string, fields *planner.FieldMap) (Company, error) {
	if fields.Has("handle") {
		return Company{}, jerrors.BadRequest("cannot change company handle")
	}

	b := s.newBuilder()
	set, err := planner.CompilePartialUpdateWith(b, fields, companyColumns)
	if err != nil {
		return Company{}, err
	}
	query := fmt.Sprintf(s.sqlt.UpdateCompanyFmt, set.Clause, b.Arg(handle))
	s.log.Debugw("update company", "handle", handle, "set", set.Clause)

	c, err := scanCompany(s.db.QueryRowContext(ctx, query, b.Args()...))
	if errors.Is(err, sql.ErrNoRows) {
		return Company{}, jerrors.NotFound("no company: %s", handle)
	}
	if err != nil {
		if s.adapter.IsUniqueViolation(err) {
			return Company{}, jerrors.BadRequest("duplicate company name")
		}
		return Company{}, Wrap(ErrBackend, "update company", err)
	}
	return c, nil
}

// RemoveCompany deletes a company; its jobs go with it.
func (s *Store) RemoveCompany(ctx context.Context, handle string) error {
	var deleted string
	err := s.db.QueryRowContext(ctx, s.sqlt.DeleteCompany, handle).Scan(&deleted)
	if errors.Is(err, sql.ErrNoRows) {
		return jerrors.NotFound("no company: %s", handle)
	}
	if err != nil {
		return Wrap(ErrBackend, "delete company", err)
	}
	s.log.Infow("company removed", "handle", handle)
	return nil
}

// collect scans every row and closes rows. The result is never nil.
func collect[T any](rows *sql.Rows, scan func(rowScanner) (T, error)) ([]T, error) {
	defer rows.Close()

	out := []T{}
	for rows.Next() {
		v, err := scan(rows)
		if err != nil {
			return nil, fmt.Errorf("scan row: %w", err)
		}
		out = append(out, v)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate rows: %w", err)
	}
	return out, nil
}
