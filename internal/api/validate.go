package api

import (
	"errors"
	"fmt"
	"net/url"
	"reflect"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"

	"github.com/jobly/jobly/jobly"
	"github.com/jobly/jobly/jobly/planner"
)

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	v.RegisterCustomTypeFunc(func(field reflect.Value) any {
		if d, ok := field.Interface().(decimal.Decimal); ok {
			return d.InexactFloat64()
		}
		return nil
	}, decimal.Decimal{})
	_ = v.RegisterValidation("fraction", func(fl validator.FieldLevel) bool {
		f := fl.Field()
		if f.Kind() != reflect.Float64 {
			return false
		}
		return f.Float() >= 0 && f.Float() <= 1
	})
	return v
}

// checkStruct runs the validate tags of v and reports every failure in one
// bad-request error.
func (s *Server) checkStruct(v any) error {
	err := s.validate.Struct(v)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return jobly.Wrap(jobly.ErrBackend, "validate payload", err)
	}
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		msgs = append(msgs, describe(fe))
	}
	return jobly.NewError(jobly.ErrBadRequest, strings.Join(msgs, "; "))
}

func describe(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", fe.Field())
	case "max":
		return fmt.Sprintf("%s must be at most %s", fe.Field(), fe.Param())
	case "min":
		return fmt.Sprintf("%s must be at least %s", fe.Field(), fe.Param())
	case "lowercase":
		return fmt.Sprintf("%s must be lowercase", fe.Field())
	case "fraction":
		return fmt.Sprintf("%s must be between 0 and 1", fe.Field())
	default:
		return fmt.Sprintf("%s must be a valid %s", fe.Field(), fe.Tag())
	}
}

// fieldRule checks one value of a partial update and returns it in the form
// the store binds.
type fieldRule func(s *Server, v any) (any, error)

// allowList names the fields a partial update may carry.
type allowList map[string]fieldRule

var (
	companyUpdates = allowList{
		"name":         nonEmptyString,
		"description":  plainString,
		"numEmployees": nullable(nonNegativeInt),
		"logoUrl":      nullable(urlString),
	}
	jobUpdates = allowList{
		"title":  nonEmptyString,
		"salary": nullable(nonNegativeInt),
		"equity": nullable(fraction),
		// Passed through so the store can explain that it is immutable.
		"companyHandle": passThrough,
	}
	userUpdates = allowList{
		"firstName": nonEmptyString,
		"lastName":  nonEmptyString,
		"password":  password,
		"email":     email,
		"isAdmin":   boolean,
	}
)

// check returns a copy of fields with every value normalized, in the same
// order. Unknown fields are rejected.
func (a allowList) check(s *Server, fields *planner.FieldMap) (*planner.FieldMap, error) {
	out := &planner.FieldMap{}
	for _, key := range fields.Keys() {
		rule, ok := a[key]
		if !ok {
			return nil, jobly.NewError(jobly.ErrBadRequest, fmt.Sprintf("%s is not an updatable field", key))
		}
		v, _ := fields.Get(key)
		nv, err := rule(s, v)
		if err != nil {
			return nil, jobly.NewError(jobly.ErrBadRequest, fmt.Sprintf("%s %v", key, err))
		}
		out.Set(key, nv)
	}
	return out, nil
}

func nullable(rule fieldRule) fieldRule {
	return func(s *Server, v any) (any, error) {
		if v == nil {
			return nil, nil
		}
		return rule(s, v)
	}
}

func passThrough(_ *Server, v any) (any, error) { return v, nil }

func plainString(_ *Server, v any) (any, error) {
	str, ok := v.(string)
	if !ok {
		return nil, errors.New("must be a string")
	}
	return str, nil
}

func nonEmptyString(s *Server, v any) (any, error) {
	str, err := plainString(s, v)
	if err != nil {
		return nil, err
	}
	if str == "" {
		return nil, errors.New("must not be empty")
	}
	return str, nil
}

func nonNegativeInt(_ *Server, v any) (any, error) {
	n, ok := v.(int64)
	if !ok {
		return nil, errors.New("must be an integer")
	}
	if n < 0 {
		return nil, errors.New("must be at least 0")
	}
	return n, nil
}

func urlString(s *Server, v any) (any, error) {
	str, ok := v.(string)
	if !ok || s.validate.Var(str, "url") != nil {
		return nil, errors.New("must be a URL")
	}
	return str, nil
}

func email(s *Server, v any) (any, error) {
	str, ok := v.(string)
	if !ok || s.validate.Var(str, "email") != nil {
		return nil, errors.New("must be an email address")
	}
	return str, nil
}

func password(s *Server, v any) (any, error) {
	str, ok := v.(string)
	if !ok || s.validate.Var(str, "min=5,max=64") != nil {
		return nil, errors.New("must be a string of 5 to 64 characters")
	}
	return str, nil
}

func boolean(_ *Server, v any) (any, error) {
	b, ok := v.(bool)
	if !ok {
		return nil, errors.New("must be a boolean")
	}
	return b, nil
}

// fraction accepts a number or numeric string between 0 and 1.
func fraction(_ *Server, v any) (any, error) {
	var d decimal.Decimal
	switch x := v.(type) {
	case int64:
		d = decimal.NewFromInt(x)
	case float64:
		d = decimal.NewFromFloat(x)
	case string:
		parsed, err := decimal.NewFromString(x)
		if err != nil {
			return nil, errors.New("must be a number")
		}
		d = parsed
	default:
		return nil, errors.New("must be a number")
	}
	if d.IsNegative() || d.GreaterThan(decimal.NewFromInt(1)) {
		return nil, errors.New("must be between 0 and 1")
	}
	return &d, nil
}

// queryParser reads optional filter criteria from a query string. Empty
// values count as absent.
type queryParser struct {
	q url.Values
}

func newQueryParser(q url.Values, allowed ...string) (*queryParser, error) {
	for key := range q {
		found := false
		for _, a := range allowed {
			if key == a {
				found = true
				break
			}
		}
		if !found {
			return nil, jobly.NewError(jobly.ErrBadRequest, fmt.Sprintf("unknown query parameter %q", key))
		}
	}
	return &queryParser{q: q}, nil
}

func (p *queryParser) str(key string) *string {
	v := p.q.Get(key)
	if v == "" {
		return nil
	}
	return &v
}

func (p *queryParser) integer(key string) (*int, error) {
	v := p.q.Get(key)
	if v == "" {
		return nil, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return nil, jobly.NewError(jobly.ErrBadRequest, fmt.Sprintf("%s must be an integer", key))
	}
	return &n, nil
}

func (p *queryParser) boolean(key string) (bool, error) {
	v := p.q.Get(key)
	if v == "" {
		return false, nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return false, jobly.NewError(jobly.ErrBadRequest, fmt.Sprintf("%s must be true or false", key))
	}
	return b, nil
}

func companyFilterFrom(q url.Values) (planner.CompanyFilter, error) {
	p, err := newQueryParser(q, "nameLike", "minEmployees", "maxEmployees", "limit", "cursor")
	if err != nil {
		return planner.CompanyFilter{}, err
	}
	f := planner.CompanyFilter{NameLike: p.str("nameLike")}
	if f.MinEmployees, err = p.integer("minEmployees"); err != nil {
		return planner.CompanyFilter{}, err
	}
	if f.MaxEmployees, err = p.integer("maxEmployees"); err != nil {
		return planner.CompanyFilter{}, err
	}
	return f, nil
}

func jobFilterFrom(q url.Values) (planner.JobFilter, error) {
	p, err := newQueryParser(q, "title", "minSalary", "hasEquity", "limit", "cursor")
	if err != nil {
		return planner.JobFilter{}, err
	}
	f := planner.JobFilter{Title: p.str("title")}
	if f.MinSalary, err = p.integer("minSalary"); err != nil {
		return planner.JobFilter{}, err
	}
	if f.HasEquity, err = p.boolean("hasEquity"); err != nil {
		return planner.JobFilter{}, err
	}
	return f, nil
}

// defaultPageSize applies when a cursor arrives without a limit.
const defaultPageSize = 20

// pageFrom returns the requested page, or nil when the query asks for every
// match at once.
func pageFrom(q url.Values) (*jobly.Page, error) {
	p := &queryParser{q: q}
	limit, err := p.integer("limit")
	if err != nil {
		return nil, err
	}
	tok := q.Get("cursor")
	if limit == nil && tok == "" {
		return nil, nil
	}
	page := &jobly.Page{Limit: defaultPageSize, Cursor: tok}
	if limit != nil {
		page.Limit = *limit
	}
	return page, nil
}
