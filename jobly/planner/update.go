package planner

import (
	"strings"

	jerrors "github.com/jobly/jobly/jobly/errors"
	"github.com/jobly/jobly/jobly/storage/sqlbuilder"
)

// ColumnNames maps logical field names to physical column names. Fields
// without an entry use their logical name.
type ColumnNames map[string]string

// Resolve returns the physical column for name.
func (c ColumnNames) Resolve(name string) string {
	if col, ok := c[name]; ok && col != "" {
		return col
	}
	return name
}

// Assignment is a compiled SET clause and the arguments it binds.
type Assignment struct {
	Clause string
	Args   []any
}

// CompilePartialUpdate turns fields into `"col"=$1, "col2"=$2` with the
// values as arguments, in FieldMap order.
//
// Callers appending further placeholders continue at len(Args)+1; use
// CompilePartialUpdateWith to have a Builder keep count.
func CompilePartialUpdate(fields *FieldMap, names ColumnNames) (Assignment, error) {
	return CompilePartialUpdateWith(sqlbuilder.New(sqlbuilder.PlaceholderDollar), fields, names)
}

// CompilePartialUpdateWith compiles onto b. Placeholders continue from
// whatever b already holds; Args holds only the values bound here.
func CompilePartialUpdateWith(b *sqlbuilder.Builder, fields *FieldMap, names ColumnNames) (Assignment, error) {
	if fields.Len() == 0 {
		return Assignment{}, jerrors.BadRequest("no data supplied")
	}

	start := b.Len()
	cols := make([]string, 0, fields.Len())
	for _, key := range fields.keys {
		ph := b.Arg(fields.values[key])
		cols = append(cols, quoteIdent(names.Resolve(key))+"="+ph)
	}

	return Assignment{
		Clause: strings.Join(cols, ", "),
		Args:   b.Since(start),
	}, nil
}
