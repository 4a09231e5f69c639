package jobly

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	jerrors "github.com/jobly/jobly/jobly/errors"
	"github.com/jobly/jobly/jobly/planner"
)

var userColumns = planner.ColumnNames{
	"firstName": "first_name",
	"lastName":  "last_name",
	"isAdmin":   "is_admin",
}

func scanUser(r rowScanner) (User, error) {
	var u User
	err := r.Scan(&u.Username, &u.FirstName, &u.LastName, &u.Email, &u.IsAdmin)
	return u, err
}

// RegisterUser stores a new user with a hashed password.
func (s *Store) RegisterUser(ctx context.Context, nu NewUser) (User, error) {
	var existing string
	err := s.db.QueryRowContext(ctx, s.sqlt.UserExists, nu.Username).Scan(&existing)
	if err == nil {
		return User{}, jerrors.BadRequest("duplicate username: %s", nu.Username)
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return User{}, Wrap(ErrBackend, "check user", err)
	}

	hash, err := HashPassword(nu.Password, s.argon2)
	if err != nil {
		return User{}, Wrap(ErrBackend, "hash password", err)
	}

	row := s.db.QueryRowContext(ctx, s.sqlt.InsertUser,
		nu.Username, hash, nu.FirstName, nu.LastName, nu.Email, nu.IsAdmin)
	u, err := scanUser(row)
	if err != nil {
		if s.adapter.IsUniqueViolation(err) {
			return User{}, jerrors.BadRequest("duplicate username: %s", nu.Username)
		}
		return User{}, Wrap(ErrBackend, "insert user", err)
	}

	s.log.Infow("user registered", "username", u.Username, "admin", u.IsAdmin)
	return u, nil
}

// Authenticate checks a username and password. Unknown users and wrong
// passwords fail the same way.
func (s *Store) Authenticate(ctx context.Context, username, password string) (User, error) {
	var hash string
	var u User
	err := s.db.QueryRowContext(ctx, s.sqlt.GetUserPassword, username).
		Scan(&hash, &u.Username, &u.FirstName, &u.LastName, &u.Email, &u.IsAdmin)
	if errors.Is(err, sql.ErrNoRows) {
		return User{}, NewError(ErrUnauthorized, "invalid username/password")
	}
	if err != nil {
		return User{}, Wrap(ErrBackend, "load user", err)
	}

	ok, err := VerifyPassword(password, hash)
	if err != nil {
		return User{}, Wrap(ErrBackend, "verify password", err)
	}
	if !ok {
		return User{}, NewError(ErrUnauthorized, "invalid username/password")
	}
	return u, nil
}

func (s *Store) GetUser(ctx context.Context, username string) (User, error) {
	u, err := scanUser(s.db.QueryRowContext(ctx, s.sqlt.GetUser, username))
	if errors.Is(err, sql.ErrNoRows) {
		return User{}, jerrors.NotFound("no user: %s", username)
	}
	if err != nil {
		return User{}, Wrap(ErrBackend, "get user", err)
	}
	return u, nil
}

// UpdateUser applies a partial update. A new password is hashed before it is
// stored; the username cannot change.
func (s *Store) UpdateUser(ctx context.Context, username string, fields *planner.FieldMap) (User, error) {
	if fields.Has("username") {
		return User{}, jerrors.BadRequest("cannot change username")
	}

	if v, ok := fields.Get("password"); ok {
		pw, isString := v.(string)
		if !isString {
			return User{}, jerrors.BadRequest("password must be a string")
		}
		hash, err := HashPassword(pw, s.argon2)
		if err != nil {
			return User{}, Wrap(ErrBackend, "hash password", err)
		}
		fields = fields.Clone()
		fields.Set("password", hash)
	}

	b := s.newBuilder()
	set, err := planner.CompilePartialUpdateWith(b, fields, userColumns)
	if err != nil {
		return User{}, err
	}
	query := fmt.Sprintf(s.sqlt.UpdateUserFmt, set.Clause, b.Arg(username))
	s.log.Debugw("update user", "username", username, "set", set.Clause)

	u, err := scanUser(s.db.QueryRowContext(ctx, query, b.Args()...))
	if errors.Is(err, sql.ErrNoRows) {
		return User{}, jerrors.NotFound("no user: %s", username)
	}
	if err != nil {
		return User{}, Wrap(ErrBackend, "update user", err)
	}
	return u, nil
}

func (s *Store) RemoveUser(ctx context.Context, username string) error {
	var deleted string
	err := s.db.QueryRowContext(ctx, s.sqlt.DeleteUser, username).Scan(&deleted)
	if errors.Is(err, sql.ErrNoRows) {
		return jerrors.NotFound("no user: %s", username)
	}
	if err != nil {
		return Wrap(ErrBackend, "delete user", err)
	}
	s.log.Infow("user removed", "username", username)
	return nil
}
