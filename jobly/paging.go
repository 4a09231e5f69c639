package jobly

import (
	"context"
	"fmt"
	"strconv"

	"github.com/jobly/jobly/jobly/cursor"
	jerrors "github.com/jobly/jobly/jobly/errors"
	"github.com/jobly/jobly/jobly/planner"
)

// MaxPageSize caps Page.Limit.
const MaxPageSize = 100

// Page asks for one slice of a search. Cursor is the Next value of the
// previous page, or empty for the first page.
type Page struct {
	Limit  int
	Cursor string
}

func (p Page) validate() error {
	if p.Limit < 1 || p.Limit > MaxPageSize {
		return jerrors.BadRequest("limit must be between 1 and %d", MaxPageSize)
	}
	return nil
}

type CompanyPage struct {
	Companies []Company `json:"companies"`
	Next      string    `json:"next,omitempty"`
}

type JobPage struct {
	Jobs []Job  `json:"jobs"`
	Next string `json:"next,omitempty"`
}

// FindCompaniesPage is FindCompanies one page at a time, keyed on name.
func (s *Store) FindCompaniesPage(ctx context.Context, f planner.CompanyFilter, page Page) (CompanyPage, error) {
	if err := f.Validate(); err != nil {
		return CompanyPage{}, err
	}
	if err := page.validate(); err != nil {
		return CompanyPage{}, err
	}
	hash, err := cursor.HashSearch("companies", f)
	if err != nil {
		return CompanyPage{}, Wrap(ErrBackend, "hash search", err)
	}
	after, resume, err := cursor.Resume(page.Cursor, hash)
	if err != nil {
		return CompanyPage{}, err
	}

	b := s.newBuilder()
	where := f.CompileWith(b).Where
	if resume {
		where += " AND name > " + b.Arg(after)
	}
	query := fmt.Sprintf(s.sqlt.PageCompanyFmt, where, b.Arg(page.Limit+1))
	s.log.Debugw("find companies page", "where", where, "limit", page.Limit)

	rows, err := s.db.QueryContext(ctx, query, b.Args()...)
	if err != nil {
		return CompanyPage{}, Wrap(ErrBackend, "find companies", err)
	}
	companies, err := collect(rows, scanCompany)
	if err != nil {
		return CompanyPage{}, Wrap(ErrBackend, "find companies", err)
	}

	out := CompanyPage{Companies: companies}
	if len(companies) > page.Limit {
		out.Companies = companies[:page.Limit]
		last := out.Companies[page.Limit-1]
		if out.Next, err = cursor.Encode(cursor.Position{After: last.Name, Hash: hash}); err != nil {
			return CompanyPage{}, Wrap(ErrBackend, "encode cursor", err)
		}
	}
	return out, nil
}

// FindJobsPage is FindJobs one page at a time, keyed on id.
func (s *Store) FindJobsPage(ctx context.Context, f planner.JobFilter, page Page) (JobPage, error) {
	if err := f.Validate(); err != nil {
		return JobPage{}, err
	}
	if err := page.validate(); err != nil {
		return JobPage{}, err
	}
	hash, err := cursor.HashSearch("jobs", f)
	if err != nil {
		return JobPage{}, Wrap(ErrBackend, "hash search", err)
	}
	after, resume, err := cursor.Resume(page.Cursor, hash)
	if err != nil {
		return JobPage{}, err
	}

	b := s.newBuilder()
	where := f.CompileWith(b).Where
	if resume {
		id, err := strconv.ParseInt(after, 10, 64)
		if err != nil {
			return JobPage{}, jerrors.BadRequest("invalid cursor")
		}
		where += " AND id > " + b.Arg(id)
	}
	query := fmt.Sprintf(s.sqlt.PageJobFmt, where, b.Arg(page.Limit+1))
	s.log.Debugw("find jobs page", "where", where, "limit", page.Limit)

	rows, err := s.db.QueryContext(ctx, query, b.Args()...)
	if err != nil {
		return JobPage{}, Wrap(ErrBackend, "find jobs", err)
	}
	jobs, err := collect(rows, scanJob)
	if err != nil {
		return JobPage{}, Wrap(ErrBackend, "find jobs", err)
	}

	out := JobPage{Jobs: jobs}
	if len(jobs) > page.Limit {
		out.Jobs = jobs[:page.Limit]
		last := out.Jobs[page.Limit-1]
		next := cursor.Position{After: strconv.FormatInt(last.ID, 10), Hash: hash}
		if out.Next, err = cursor.Encode(next); err != nil {
			return JobPage{}, Wrap(ErrBackend, "encode cursor", err)
		}
	}
	return out, nil
}
