package planner

import (
	"fmt"
	"strings"

	jerrors "github.com/jobly/jobly/jobly/errors"
	"github.com/jobly/jobly/jobly/storage/sqlbuilder"
)

// alwaysTrue stands in for an empty filter so callers can always emit WHERE.
const alwaysTrue = "1=1"

// Predicate is a compiled WHERE body and the arguments it binds.
type Predicate struct {
	Where string
	Args  []any
}

// condition binds its argument and returns its fragment only when its
// criterion is present.
type condition func(b *sqlbuilder.Builder) (string, bool)

// compileConditions evaluates conds in order and joins the fragments that
// apply. Args holds only the values bound here.
func compileConditions(b *sqlbuilder.Builder, conds []condition) Predicate {
	start := b.Len()
	parts := make([]string, 0, len(conds))
	for _, cond := range conds {
		if frag, ok := cond(b); ok {
			parts = append(parts, frag)
		}
	}

	where := alwaysTrue
	if len(parts) > 0 {
		where = strings.Join(parts, " AND ")
	}
	return Predicate{Where: where, Args: b.Since(start)}
}

// contains matches column case-insensitively against %v%.
func contains(column string, v *string) condition {
	return func(b *sqlbuilder.Builder) (string, bool) {
		if v == nil {
			return "", false
		}
		ph := b.Arg("%" + *v + "%")
		return fmt.Sprintf("LOWER(%s) LIKE LOWER(%s)", column, ph), true
	}
}

func atLeast(column string, v *int) condition {
	return func(b *sqlbuilder.Builder) (string, bool) {
		if v == nil {
			return "", false
		}
		return fmt.Sprintf("%s >= %s", column, b.Arg(*v)), true
	}
}

func atMost(column string, v *int) condition {
	return func(b *sqlbuilder.Builder) (string, bool) {
		if v == nil {
			return "", false
		}
		return fmt.Sprintf("%s <= %s", column, b.Arg(*v)), true
	}
}

// positive is a structural check: it binds nothing and applies only when set.
func positive(column string, set bool) condition {
	return func(b *sqlbuilder.Builder) (string, bool) {
		if !set {
			return "", false
		}
		return column + " > 0", true
	}
}

// CompanyFilter holds the optional company search criteria. Nil means no
// constraint; a zero bound is a real bound.
type CompanyFilter struct {
	NameLike     *string
	MinEmployees *int
	MaxEmployees *int
}

func (f CompanyFilter) conditions() []condition {
	return []condition{
		contains("name", f.NameLike),
		atLeast("num_employees", f.MinEmployees),
		atMost("num_employees", f.MaxEmployees),
	}
}

func (f CompanyFilter) Compile() Predicate {
	return f.CompileWith(sqlbuilder.New(sqlbuilder.PlaceholderDollar))
}

func (f CompanyFilter) CompileWith(b *sqlbuilder.Builder) Predicate {
	return compileConditions(b, f.conditions())
}

// Validate rejects negative bounds and an inverted employee range.
func (f CompanyFilter) Validate() error {
	if f.MinEmployees != nil && *f.MinEmployees < 0 {
		return jerrors.BadRequest("minEmployees must be non-negative")
	}
	if f.MaxEmployees != nil && *f.MaxEmployees < 0 {
		return jerrors.BadRequest("maxEmployees must be non-negative")
	}
	if f.MinEmployees != nil && f.MaxEmployees != nil && *f.MinEmployees > *f.MaxEmployees {
		return jerrors.BadRequest("minEmployees cannot be greater than maxEmployees")
	}
	return nil
}

// JobFilter holds the optional job search criteria. HasEquity only narrows
// the search when true.
type JobFilter struct {
	Title     *string
	MinSalary *int
	HasEquity bool
}

func (f JobFilter) conditions() []condition {
	return []condition{
		contains("title", f.Title),
		atLeast("salary", f.MinSalary),
		positive("equity", f.HasEquity),
	}
}

func (f JobFilter) Compile() Predicate {
	return f.CompileWith(sqlbuilder.New(sqlbuilder.PlaceholderDollar))
}

func (f JobFilter) CompileWith(b *sqlbuilder.Builder) Predicate {
	return compileConditions(b, f.conditions())
}

func (f JobFilter) Validate() error {
	if f.MinSalary != nil && *f.MinSalary < 0 {
		return jerrors.BadRequest("minSalary must be non-negative")
	}
	return nil
}
