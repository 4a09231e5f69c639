package api

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/jobly/jobly/jobly"
	"github.com/jobly/jobly/jobly/planner"
)

type credentials struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// POST /auth/token { username, password } => { token }
func (s *Server) handleToken(w http.ResponseWriter, r *http.Request) {
	var c credentials
	if err := decodeBody(r, &c); err != nil {
		s.writeError(w, r, err)
		return
	}
	if err := s.checkStruct(c); err != nil {
		s.writeError(w, r, err)
		return
	}

	u, err := s.store.Authenticate(r.Context(), c.Username, c.Password)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.respondWithToken(w, r, http.StatusOK, u)
}

// POST /auth/register { user } => { token }
func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	var nu jobly.NewUser
	if err := decodeBody(r, &nu); err != nil {
		s.writeError(w, r, err)
		return
	}
	if err := s.checkStruct(nu); err != nil {
		s.writeError(w, r, err)
		return
	}

	u, err := s.store.RegisterUser(r.Context(), nu)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.respondWithToken(w, r, http.StatusCreated, u)
}

func (s *Server) respondWithToken(w http.ResponseWriter, r *http.Request, status int, u jobly.User) {
	token, err := IssueToken(s.secret, s.tokenTTL, u.Username, u.IsAdmin)
	if err != nil {
		s.writeError(w, r, jobly.Wrap(jobly.ErrBackend, "issue token", err))
		return
	}
	writeJSON(w, status, map[string]string{"token": token})
}

// POST /companies { company } => { company }
func (s *Server) handleCreateCompany(w http.ResponseWriter, r *http.Request) {
	var nc jobly.NewCompany
	if err := decodeBody(r, &nc); err != nil {
		s.writeError(w, r, err)
		return
	}
	if err := s.checkStruct(nc); err != nil {
		s.writeError(w, r, err)
		return
	}

	c, err := s.store.CreateCompany(r.Context(), nc)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{"company": c})
}

// GET /companies?nameLike=&minEmployees=&maxEmployees= => { companies }
//
// With limit or cursor the response is one page: { companies, next }.
func (s *Server) handleFindCompanies(w http.ResponseWriter, r *http.Request) {
	f, err := companyFilterFrom(r.URL.Query())
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	page, err := pageFrom(r.URL.Query())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if page != nil {
		res, err := s.store.FindCompaniesPage(r.Context(), f, *page)
		if err != nil {
			s.writeError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, res)
		return
	}

	companies, err := s.store.FindCompanies(r.Context(), f)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"companies": companies})
}

// GET /companies/{handle} => { company } with its jobs
func (s *Server) handleGetCompany(w http.ResponseWriter, r *http.Request) {
	c, err := s.store.GetCompany(r.Context(), r.PathValue("handle"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"company": c})
}

// PATCH /companies/{handle} { fld, ... } => { company }
func (s *Server) handleUpdateCompany(w http.ResponseWriter, r *http.Request) {
	fields, err := s.updateFields(r, companyUpdates)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	c, err := s.store.UpdateCompany(r.Context(), r.PathValue("handle"), fields)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"company": c})
}

// DELETE /companies/{handle} => { deleted: handle }
func (s *Server) handleRemoveCompany(w http.ResponseWriter, r *http.Request) {
	handle := r.PathValue("handle")
	if err := s.store.RemoveCompany(r.Context(), handle); err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"deleted": handle})
}

// POST /jobs { job } => { job }
func (s *Server) handleCreateJob(w http.ResponseWriter, r *http.Request) {
	var nj jobly.NewJob
	if err := decodeBody(r, &nj); err != nil {
		s.writeError(w, r, err)
		return
	}
	if err := s.checkStruct(nj); err != nil {
		s.writeError(w, r, err)
		return
	}

	j, err := s.store.CreateJob(r.Context(), nj)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{"job": j})
}

// GET /jobs?title=&minSalary=&hasEquity= => { jobs }
//
// With limit or cursor the response is one page: { jobs, next }.
func (s *Server) handleFindJobs(w http.ResponseWriter, r *http.Request) {
	f, err := jobFilterFrom(r.URL.Query())
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	page, err := pageFrom(r.URL.Query())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if page != nil {
		res, err := s.store.FindJobsPage(r.Context(), f, *page)
		if err != nil {
			s.writeError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, res)
		return
	}

	jobs, err := s.store.FindJobs(r.Context(), f)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"jobs": jobs})
}

func (s *Server) handleGetJob(w http.ResponseWriter, r *http.Request) {
	id, err := jobID(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	j, err := s.store.GetJob(r.Context(), id)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"job": j})
}

// PATCH /jobs/{id} { fld, ... } => { job }
func (s *Server) handleUpdateJob(w http.ResponseWriter, r *http.Request) {
	id, err := jobID(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	fields, err := s.updateFields(r, jobUpdates)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	j, err := s.store.UpdateJob(r.Context(), id, fields)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"job": j})
}

func (s *Server) handleRemoveJob(w http.ResponseWriter, r *http.Request) {
	id, err := jobID(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if err := s.store.RemoveJob(r.Context(), id); err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"deleted": id})
}

func (s *Server) handleGetUser(w http.ResponseWriter, r *http.Request) {
	u, err := s.store.GetUser(r.Context(), r.PathValue("username"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"user": u})
}

// PATCH /users/{username} { firstName, lastName, password, email } => { user }
//
// Only admins may change isAdmin.
func (s *Server) handleUpdateUser(w http.ResponseWriter, r *http.Request) {
	fields, err := s.updateFields(r, userUpdates)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if fields.Has("isAdmin") && !currentUser(r.Context()).IsAdmin {
		s.writeError(w, r, jobly.NewError(jobly.ErrForbidden, "only admins may change isAdmin"))
		return
	}

	u, err := s.store.UpdateUser(r.Context(), r.PathValue("username"), fields)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"user": u})
}

func (s *Server) handleRemoveUser(w http.ResponseWriter, r *http.Request) {
	username := r.PathValue("username")
	if err := s.store.RemoveUser(r.Context(), username); err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"deleted": username})
}

// updateFields decodes a partial update body and checks it against allowed.
func (s *Server) updateFields(r *http.Request, allowed allowList) (*planner.FieldMap, error) {
	var fields planner.FieldMap
	if err := decodeBody(r, &fields); err != nil {
		return nil, err
	}
	return allowed.check(s, &fields)
}

func jobID(r *http.Request) (int64, error) {
	raw := r.PathValue("id")
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, jobly.NewError(jobly.ErrNotFound, fmt.Sprintf("no job: %s", raw))
	}
	return id, nil
}
