package jobly

import (
	"context"
	"database/sql"

	"go.uber.org/zap"

	"github.com/jobly/jobly/jobly/storage"
	"github.com/jobly/jobly/jobly/storage/sqlbuilder"
)

// Options configures a Store.
type Options struct {
	Logger *zap.SugaredLogger
	Argon2 Argon2Params
}

// DefaultOptions returns a silent logger and the default hashing parameters.
func DefaultOptions() Options {
	return Options{
		Logger: zap.NewNop().Sugar(),
		Argon2: DefaultArgon2Params(),
	}
}

// Store holds the database handle behind the companies, jobs and users
// operations.
type Store struct {
	adapter storage.Adapter
	db      *sql.DB
	sqlt    storage.SQL
	log     *zap.SugaredLogger
	argon2  Argon2Params
}

// Open connects through adapter and creates any missing tables.
func Open(ctx context.Context, adapter storage.Adapter, opts Options) (*Store, error) {
	if opts.Logger == nil {
		opts.Logger = zap.NewNop().Sugar()
	}
	if opts.Argon2 == (Argon2Params{}) {
		opts.Argon2 = DefaultArgon2Params()
	}

	db, err := adapter.Connect(ctx)
	if err != nil {
		return nil, Wrap(ErrBackend, "connect to database", err)
	}

	if err := adapter.Migrate(ctx, db); err != nil {
		db.Close()
		return nil, Wrap(ErrBackend, "migrate", err)
	}

	opts.Logger.Debugw("store opened", "backend", adapter.Backend(), "target", adapter.Target())

	return &Store{
		adapter: adapter,
		db:      db,
		sqlt:    adapter.SQL(),
		log:     opts.Logger,
		argon2:  opts.Argon2,
	}, nil
}

// Close closes the store
func (s *Store) Close() error {
	if s.db != nil {
		if err := s.db.Close(); err != nil {
			return Wrap(ErrBackend, "close database", err)
		}
	}
	return s.adapter.Close()
}

// DB exposes the underlying handle, mainly for tests and maintenance commands.
func (s *Store) DB() *sql.DB {
	return s.db
}

func (s *Store) newBuilder() *sqlbuilder.Builder {
	return sqlbuilder.New(s.adapter.PlaceholderStyle())
}

// rowScanner is satisfied by *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}
