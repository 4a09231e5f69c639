// Package api serves the jobly store over HTTP.
package api

import (
	"errors"
	"net/http"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/jobly/jobly/jobly"
)

// Config configures a Server.
type Config struct {
	Secret   []byte
	TokenTTL time.Duration
	Logger   *zap.SugaredLogger
}

// Server routes requests to a Store.
type Server struct {
	store    *jobly.Store
	secret   []byte
	tokenTTL time.Duration
	log      *zap.SugaredLogger
	validate *validator.Validate
	handler  http.Handler
}

// New builds a Server. The secret signs and verifies bearer tokens.
func New(store *jobly.Store, cfg Config) (*Server, error) {
	if store == nil {
		return nil, errors.New("api: nil store")
	}
	if len(cfg.Secret) == 0 {
		return nil, errors.New("api: empty token secret")
	}
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop().Sugar()
	}

	s := &Server{
		store:    store,
		secret:   cfg.Secret,
		tokenTTL: cfg.TokenTTL,
		log:      cfg.Logger,
		validate: newValidator(),
	}
	s.handler = withRequestID(s.logRequests(s.recoverPanics(s.authenticate(s.routes()))))
	return s, nil
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.handler.ServeHTTP(w, r)
}

func (s *Server) routes() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("POST /auth/token", s.handleToken)
	mux.HandleFunc("POST /auth/register", s.handleRegister)

	mux.HandleFunc("POST /companies", s.requireLogin(s.handleCreateCompany))
	mux.HandleFunc("GET /companies", s.handleFindCompanies)
	mux.HandleFunc("GET /companies/{handle}", s.handleGetCompany)
	mux.HandleFunc("PATCH /companies/{handle}", s.requireLogin(s.handleUpdateCompany))
	mux.HandleFunc("DELETE /companies/{handle}", s.requireLogin(s.handleRemoveCompany))

	mux.HandleFunc("POST /jobs", s.requireLogin(s.handleCreateJob))
	mux.HandleFunc("GET /jobs", s.handleFindJobs)
	mux.HandleFunc("GET /jobs/{id}", s.handleGetJob)
	mux.HandleFunc("PATCH /jobs/{id}", s.requireLogin(s.handleUpdateJob))
	mux.HandleFunc("DELETE /jobs/{id}", s.requireLogin(s.handleRemoveJob))

	mux.HandleFunc("GET /users/{username}", s.requireSelfOrAdmin(s.handleGetUser))
	mux.HandleFunc("PATCH /users/{username}", s.requireSelfOrAdmin(s.handleUpdateUser))
	mux.HandleFunc("DELETE /users/{username}", s.requireSelfOrAdmin(s.handleRemoveUser))

	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		s.writeError(w, r, jobly.NewError(jobly.ErrNotFound, "not found"))
	})
	return mux
}

func unauthorized() error {
	return jobly.NewError(jobly.ErrUnauthorized, "unauthorized")
}
