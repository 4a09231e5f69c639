package jobly

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"

	jerrors "github.com/jobly/jobly/jobly/errors"
	"github.com/jobly/jobly/jobly/planner"
)

// Every updatable job field is stored under its own name.
var jobColumns = planner.ColumnNames{}

func scanJob(r rowScanner) (Job, error) {
	var j Job
	err := r.Scan(&j.ID, &j.Title, &j.Salary, &j.Equity, &j.CompanyHandle)
	return j, err
}

// equityArg binds equity as float64, which both drivers encode into NUMERIC.
func equityArg(v any) any {
	switch e := v.(type) {
	case *decimal.Decimal:
		if e == nil {
			return nil
		}
		return e.InexactFloat64()
	case decimal.Decimal:
		return e.InexactFloat64()
	default:
		return v
	}
}

// CreateJob inserts a job for an existing company.
func (s *Store) CreateJob(ctx context.Context, nj NewJob) (Job, error) {
	var handle string
	err := s.db.QueryRowContext(ctx, s.sqlt.CompanyExists, nj.CompanyHandle).Scan(&handle)
	if errors.Is(err, sql.ErrNoRows) {
		return Job{}, jerrors.BadRequest("no company: %s", nj.CompanyHandle)
	}
	if err != nil {
		return Job{}, Wrap(ErrBackend, "check company", err)
	}

	row := s.db.QueryRowContext(ctx, s.sqlt.InsertJob,
		nj.Title, nj.Salary, equityArg(nj.Equity), nj.CompanyHandle)
	j, err := scanJob(row)
	if err != nil {
		return Job{}, Wrap(ErrBackend, "insert job", err)
	}

	s.log.Infow("job created", "id", j.ID, "company", j.CompanyHandle)
	return j, nil
}

// FindJobs returns the jobs matching f, ordered by id.
func (s *Store) FindJobs(ctx context.Context, f planner.JobFilter) ([]Job, error) {
	if err := f.Validate(); err != nil {
		return nil, err
	}

	b := s.newBuilder()
	pred := f.CompileWith(b)
	query := fmt.Sprintf(s.sqlt.SearchJobFmt, pred.Where)
	s.log.Debugw("find jobs", "where", pred.Where, "args", len(pred.Args))

	rows, err := s.db.QueryContext(ctx, query, b.Args()...)
	if err != nil {
		return nil, Wrap(ErrBackend, "find jobs", err)
	}
	jobs, err := collect(rows, scanJob)
	if err != nil {
		return nil, Wrap(ErrBackend, "find jobs", err)
	}
	return jobs, nil
}

func (s *Store) GetJob(ctx context.Context, id int64) (Job, error) {
	j, err := scanJob(s.db.QueryRowContext(ctx, s.sqlt.GetJob, id))
	if errors.Is(err, sql.ErrNoRows) {
		return Job{}, jerrors.NotFound("no job: %d", id)
	}
	if err != nil {
		return Job{}, Wrap(ErrBackend, "get job", err)
	}
	return j, nil
}

// UpdateJob applies a partial update. A job cannot move to another company
// or change its id.
func (s *Store) UpdateJob(ctx context.Context, id int64, fields *planner.FieldMap) (Job, error) {
	if fields.Has("companyHandle") {
		v, _ := fields.Get("companyHandle")
		return Job{}, jerrors.BadRequest("cannot change companyHandle to %v; remove companyHandle from request data", v)
	}
	if fields.Has("id") {
		return Job{}, jerrors.BadRequest("cannot change job id")
	}

	if v, ok := fields.Get("equity"); ok {
		fields = fields.Clone()
		fields.Set("equity", equityArg(v))
	}

	b := s.newBuilder()
	set, err := planner.CompilePartialUpdateWith(b, fields, jobColumns)
	if err != nil {
		return Job{}, err
	}
	query := fmt.Sprintf(s.sqlt.UpdateJobFmt, set.Clause, b.Arg(id))
	s.log.Debugw("update job", "id", id, "set", set.Clause)

	j, err := scanJob(s.db.QueryRowContext(ctx, query, b.Args()...))
	if errors.Is(err, sql.ErrNoRows) {
		return Job{}, jerrors.NotFound("no job: %d", id)
	}
	if err != nil {
		return Job{}, Wrap(ErrBackend, "update job", err)
	}
	return j, nil
}

func (s *Store) RemoveJob(ctx context.Context, id int64) error {
	var deleted int64
	err := s.db.QueryRowContext(ctx, s.sqlt.DeleteJob, id).Scan(&deleted)
	if errors.Is(err, sql.ErrNoRows) {
		return jerrors.NotFound("no job: %d", id)
	}
	if err != nil {
		return Wrap(ErrBackend, "delete job", err)
	}
	s.log.Infow("job removed", "id", id)
	return nil
}
