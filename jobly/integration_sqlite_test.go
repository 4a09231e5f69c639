package jobly_test

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jobly/jobly/jobly"
	"github.com/jobly/jobly/jobly/planner"
	"github.com/jobly/jobly/jobly/storage/sqlite"
)

func ptr[T any](v T) *T { return &v }

func dec(s string) *decimal.Decimal {
	d := decimal.RequireFromString(s)
	return &d
}

// fastArgon2 keeps password tests quick; production uses DefaultArgon2Params.
var fastArgon2 = jobly.Argon2Params{Time: 1, Memory: 64, Threads: 1, KeyLen: 16, SaltLen: 8}

func newStore(t *testing.T) *jobly.Store {
	t.Helper()

	dbPath := filepath.Join(t.TempDir(), "jobly.db")
	opts := jobly.DefaultOptions()
	opts.Argon2 = fastArgon2

	s, err := jobly.Open(context.Background(), sqlite.New(dbPath), opts)
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

// seed loads c1..c3 (1..3 employees), z0 (0 employees) and three jobs.
func seed(t *testing.T, s *jobly.Store) []jobly.Job {
	t.Helper()
	ctx := context.Background()

	for _, nc := range []jobly.NewCompany{
		{Handle: "c1", Name: "C1", Description: "Desc1", NumEmployees: ptr(1), LogoURL: ptr("http://c1.img")},
		{Handle: "c2", Name: "C2", Description: "Desc2", NumEmployees: ptr(2), LogoURL: ptr("http://c2.img")},
		{Handle: "c3", Name: "C3", Description: "Desc3", NumEmployees: ptr(3), LogoURL: ptr("http://c3.img")},
		{Handle: "z0", Name: "Zero", Description: "Nobody home", NumEmployees: ptr(0)},
	} {
		_, err := s.CreateCompany(ctx, nc)
		require.NoError(t, err)
	}

	var jobs []jobly.Job
	for _, nj := range []jobly.NewJob{
		{Title: "j1", Salary: ptr(100), Equity: dec("0.1"), CompanyHandle: "c1"},
		{Title: "j2", Salary: ptr(200), Equity: dec("0"), CompanyHandle: "c1"},
		{Title: "Engineer", Salary: ptr(300), CompanyHandle: "c2"},
	} {
		j, err := s.CreateJob(ctx, nj)
		require.NoError(t, err)
		jobs = append(jobs, j)
	}
	return jobs
}

func handles(cs []jobly.Company) []string {
	out := []string{}
	for _, c := range cs {
		out = append(out, c.Handle)
	}
	return out
}

func titles(js []jobly.Job) []string {
	out := []string{}
	for _, j := range js {
		out = append(out, j.Title)
	}
	return out
}

func TestCreateCompany_SQLite(t *testing.T) {
	s := newStore(t)
	ctx := context.Background()

	nc := jobly.NewCompany{Handle: "new", Name: "New", Description: "New Description", NumEmployees: ptr(1), LogoURL: ptr("http://new.img")}
	c, err := s.CreateCompany(ctx, nc)
	require.NoError(t, err)
	assert.Equal(t, jobly.Company{Handle: "new", Name: "New", Description: "New Description", NumEmployees: ptr(1), LogoURL: ptr("http://new.img")}, c)

	_, err = s.CreateCompany(ctx, nc)
	require.Error(t, err)
	assert.True(t, jobly.IsCode(err, jobly.ErrBadRequest), "got %v", err)

	_, err = s.CreateCompany(ctx, jobly.NewCompany{Handle: "other", Name: "New", Description: "dupe name"})
	require.Error(t, err)
	assert.True(t, jobly.IsCode(err, jobly.ErrBadRequest), "got %v", err)
}

func TestFindCompanies_SQLite(t *testing.T) {
	s := newStore(t)
	seed(t, s)
	ctx := context.Background()

	cases := []struct {
		name   string
		filter planner.CompanyFilter
		want   []string
	}{
		{"no filter", planner.CompanyFilter{}, []string{"c1", "c2", "c3", "z0"}},
		{"name", planner.CompanyFilter{NameLike: ptr("c1")}, []string{"c1"}},
		{"name ignores case", planner.CompanyFilter{NameLike: ptr("C")}, []string{"c1", "c2", "c3"}},
		{"name no match", planner.CompanyFilter{NameLike: ptr("b")}, []string{}},
		{"min", planner.CompanyFilter{MinEmployees: ptr(2)}, []string{"c2", "c3"}},
		{"max", planner.CompanyFilter{MaxEmployees: ptr(2)}, []string{"c1", "c2", "z0"}},
		{"zero max", planner.CompanyFilter{MaxEmployees: ptr(0)}, []string{"z0"}},
		{"zero min", planner.CompanyFilter{MinEmployees: ptr(0)}, []string{"c1", "c2", "c3", "z0"}},
		{"all", planner.CompanyFilter{NameLike: ptr("c"), MinEmployees: ptr(2), MaxEmployees: ptr(3)}, []string{"c2", "c3"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := s.FindCompanies(ctx, tc.filter)
			require.NoError(t, err)
			assert.Equal(t, tc.want, handles(got))
		})
	}

	_, err := s.FindCompanies(ctx, planner.CompanyFilter{MinEmployees: ptr(3), MaxEmployees: ptr(1)})
	assert.True(t, jobly.IsCode(err, jobly.ErrBadRequest), "got %v", err)
}

func TestGetCompany_SQLite(t *testing.T) {
	s := newStore(t)
	jobs := seed(t, s)
	ctx := context.Background()

	c, err := s.GetCompany(ctx, "c1")
	require.NoError(t, err)
	assert.Equal(t, "C1", c.Name)
	require.Len(t, c.Jobs, 2)
	assert.Equal(t, jobs[0].ID, c.Jobs[0].ID)
	assert.Equal(t, jobs[1].ID, c.Jobs[1].ID)

	z, err := s.GetCompany(ctx, "z0")
	require.NoError(t, err)
	assert.NotNil(t, z.Jobs)
	assert.Empty(t, z.Jobs)

	_, err = s.GetCompany(ctx, "nope")
	assert.True(t, jobly.IsCode(err, jobly.ErrNotFound), "got %v", err)
}

func TestUpdateCompany_SQLite(t *testing.T) {
	s := newStore(t)
	seed(t, s)
	ctx := context.Background()

	c, err := s.UpdateCompany(ctx, "c1", planner.NewFieldMap("name", "New", "numEmployees", int64(10), "logoUrl", nil))
	require.NoError(t, err)
	assert.Equal(t, jobly.Company{Handle: "c1", Name: "New", Description: "Desc1", NumEmployees: ptr(10)}, c)

	_, err = s.UpdateCompany(ctx, "c1", planner.NewFieldMap())
	assert.True(t, jobly.IsCode(err, jobly.ErrBadRequest), "got %v", err)

	_, err = s.UpdateCompany(ctx, "c1", planner.NewFieldMap("handle", "c9"))
	assert.True(t, jobly.IsCode(err, jobly.ErrBadRequest), "got %v", err)

	_, err = s.UpdateCompany(ctx, "nope", planner.NewFieldMap("name", "x"))
	assert.True(t, jobly.IsCode(err, jobly.ErrNotFound), "got %v", err)

	_, err = s.UpdateCompany(ctx, "c2", planner.NewFieldMap("name", "C3"))
	assert.True(t, jobly.IsCode(err, jobly.ErrBadRequest), "got %v", err)
}

func TestRemoveCompanyCascades_SQLite(t *testing.T) {
	s := newStore(t)
	jobs := seed(t, s)
	ctx := context.Background()

	require.NoError(t, s.RemoveCompany(ctx, "c1"))

	_, err := s.GetCompany(ctx, "c1")
	assert.True(t, jobly.IsCode(err, jobly.ErrNotFound))
	_, err = s.GetJob(ctx, jobs[0].ID)
	assert.True(t, jobly.IsCode(err, jobly.ErrNotFound), "job should be removed with its company")

	err = s.RemoveCompany(ctx, "c1")
	assert.True(t, jobly.IsCode(err, jobly.ErrNotFound), "got %v", err)
}

func TestCreateJob_SQLite(t *testing.T) {
	s := newStore(t)
	seed(t, s)
	ctx := context.Background()

	j, err := s.CreateJob(ctx, jobly.NewJob{Title: "new", Salary: ptr(5), Equity: dec("0.5"), CompanyHandle: "c3"})
	require.NoError(t, err)
	assert.NotZero(t, j.ID)
	assert.Equal(t, "new", j.Title)
	assert.Equal(t, 5, *j.Salary)
	assert.Equal(t, "0.5", j.Equity.String())
	assert.Equal(t, "c3", j.CompanyHandle)

	bare, err := s.CreateJob(ctx, jobly.NewJob{Title: "bare", CompanyHandle: "c3"})
	require.NoError(t, err)
	assert.Nil(t, bare.Salary)
	assert.Nil(t, bare.Equity)

	_, err = s.CreateJob(ctx, jobly.NewJob{Title: "orphan", CompanyHandle: "nope"})
	assert.True(t, jobly.IsCode(err, jobly.ErrBadRequest), "got %v", err)
}

func TestFindJobs_SQLite(t *testing.T) {
	s := newStore(t)
	seed(t, s)
	ctx := context.Background()

	cases := []struct {
		name   string
		filter planner.JobFilter
		want   []string
	}{
		{"no filter", planner.JobFilter{}, []string{"j1", "j2", "Engineer"}},
		{"title", planner.JobFilter{Title: ptr("J")}, []string{"j1", "j2"}},
		{"zero salary", planner.JobFilter{MinSalary: ptr(0)}, []string{"j1", "j2", "Engineer"}},
		{"salary", planner.JobFilter{MinSalary: ptr(200)}, []string{"j2", "Engineer"}},
		{"equity", planner.JobFilter{HasEquity: true}, []string{"j1"}},
		{"equity false", planner.JobFilter{HasEquity: false}, []string{"j1", "j2", "Engineer"}},
		{"all", planner.JobFilter{Title: ptr("j"), MinSalary: ptr(50), HasEquity: true}, []string{"j1"}},
		{"none", planner.JobFilter{Title: ptr("zzz")}, []string{}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := s.FindJobs(ctx, tc.filter)
			require.NoError(t, err)
			assert.Equal(t, tc.want, titles(got))
		})
	}
}

func TestUpdateJob_SQLite(t *testing.T) {
	s := newStore(t)
	jobs := seed(t, s)
	ctx := context.Background()
	id := jobs[0].ID

	fields := planner.NewFieldMap("salary", int64(500), "equity", dec("0.25"))
	j, err := s.UpdateJob(ctx, id, fields)
	require.NoError(t, err)
	assert.Equal(t, 500, *j.Salary)
	assert.Equal(t, "0.25", j.Equity.String())
	assert.Equal(t, "j1", j.Title)

	v, _ := fields.Get("equity")
	assert.IsType(t, &decimal.Decimal{}, v, "caller's field map must not change")

	j, err = s.UpdateJob(ctx, id, planner.NewFieldMap("equity", nil))
	require.NoError(t, err)
	assert.Nil(t, j.Equity)

	_, err = s.UpdateJob(ctx, id, planner.NewFieldMap("companyHandle", "c2"))
	assert.True(t, jobly.IsCode(err, jobly.ErrBadRequest), "got %v", err)

	_, err = s.UpdateJob(ctx, id, planner.NewFieldMap())
	assert.True(t, jobly.IsCode(err, jobly.ErrBadRequest), "got %v", err)

	_, err = s.UpdateJob(ctx, 0, planner.NewFieldMap("title", "x"))
	assert.True(t, jobly.IsCode(err, jobly.ErrNotFound), "got %v", err)
}

func TestRemoveJob_SQLite(t *testing.T) {
	s := newStore(t)
	jobs := seed(t, s)
	ctx := context.Background()

	require.NoError(t, s.RemoveJob(ctx, jobs[2].ID))
	_, err := s.GetJob(ctx, jobs[2].ID)
	assert.True(t, jobly.IsCode(err, jobly.ErrNotFound))
	assert.True(t, jobly.IsCode(s.RemoveJob(ctx, jobs[2].ID), jobly.ErrNotFound))
}

func TestUsers_SQLite(t *testing.T) {
	s := newStore(t)
	ctx := context.Background()

	nu := jobly.NewUser{Username: "u1", Password: "password1", FirstName: "U1F", LastName: "U1L", Email: "u1@email.com"}
	u, err := s.RegisterUser(ctx, nu)
	require.NoError(t, err)
	assert.Equal(t, jobly.User{Username: "u1", FirstName: "U1F", LastName: "U1L", Email: "u1@email.com"}, u)

	var stored string
	require.NoError(t, s.DB().QueryRow("SELECT password FROM users WHERE username = 'u1'").Scan(&stored))
	assert.NotEqual(t, "password1", stored)

	_, err = s.RegisterUser(ctx, nu)
	assert.True(t, jobly.IsCode(err, jobly.ErrBadRequest), "got %v", err)

	got, err := s.Authenticate(ctx, "u1", "password1")
	require.NoError(t, err)
	assert.Equal(t, u, got)

	_, err = s.Authenticate(ctx, "u1", "wrong")
	assert.True(t, jobly.IsCode(err, jobly.ErrUnauthorized), "got %v", err)
	_, err = s.Authenticate(ctx, "ghost", "password1")
	assert.True(t, jobly.IsCode(err, jobly.ErrUnauthorized), "got %v", err)

	u, err = s.UpdateUser(ctx, "u1", planner.NewFieldMap("firstName", "New", "password", "new-password", "isAdmin", true))
	require.NoError(t, err)
	assert.Equal(t, "New", u.FirstName)
	assert.True(t, u.IsAdmin)

	_, err = s.Authenticate(ctx, "u1", "new-password")
	require.NoError(t, err)

	_, err = s.UpdateUser(ctx, "u1", planner.NewFieldMap("username", "u2"))
	assert.True(t, jobly.IsCode(err, jobly.ErrBadRequest), "got %v", err)
	_, err = s.UpdateUser(ctx, "ghost", planner.NewFieldMap("firstName", "x"))
	assert.True(t, jobly.IsCode(err, jobly.ErrNotFound), "got %v", err)

	require.NoError(t, s.RemoveUser(ctx, "u1"))
	_, err = s.GetUser(ctx, "u1")
	assert.True(t, jobly.IsCode(err, jobly.ErrNotFound))
	assert.True(t, jobly.IsCode(s.RemoveUser(ctx, "u1"), jobly.ErrNotFound))
}

func TestFindCompaniesPage_SQLite(t *testing.T) {
	s := newStore(t)
	seed(t, s)
	ctx := context.Background()

	var got []string
	page := jobly.Page{Limit: 3}
	for i := 0; i < 5; i++ {
		res, err := s.FindCompaniesPage(ctx, planner.CompanyFilter{}, page)
		require.NoError(t, err)
		got = append(got, handles(res.Companies)...)
		if res.Next == "" {
			break
		}
		page.Cursor = res.Next
	}
	assert.Equal(t, []string{"c1", "c2", "c3", "z0"}, got)

	first, err := s.FindCompaniesPage(ctx, planner.CompanyFilter{NameLike: ptr("c")}, jobly.Page{Limit: 3})
	require.NoError(t, err)
	assert.Equal(t, []string{"c1", "c2", "c3"}, handles(first.Companies))
	assert.Empty(t, first.Next, "an exactly full last page has no next cursor")

	_, err = s.FindCompaniesPage(ctx, planner.CompanyFilter{}, jobly.Page{Limit: 0})
	assert.True(t, jobly.IsCode(err, jobly.ErrBadRequest), "got %v", err)
}

func TestFindJobsPage_SQLite(t *testing.T) {
	s := newStore(t)
	seed(t, s)
	ctx := context.Background()

	p1, err := s.FindJobsPage(ctx, planner.JobFilter{}, jobly.Page{Limit: 2})
	require.NoError(t, err)
	assert.Equal(t, []string{"j1", "j2"}, titles(p1.Jobs))
	require.NotEmpty(t, p1.Next)

	p2, err := s.FindJobsPage(ctx, planner.JobFilter{}, jobly.Page{Limit: 2, Cursor: p1.Next})
	require.NoError(t, err)
	assert.Equal(t, []string{"Engineer"}, titles(p2.Jobs))
	assert.Empty(t, p2.Next)

	_, err = s.FindJobsPage(ctx, planner.JobFilter{HasEquity: true}, jobly.Page{Limit: 2, Cursor: p1.Next})
	assert.True(t, jobly.IsCode(err, jobly.ErrBadRequest), "cursor from another search: %v", err)
}
